package idgen

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type allocProbe struct {
	ID string `gorm:"type:varchar(16);primaryKey"`
}

func (allocProbe) TableName() string { return "alloc_probes" }

type softAllocProbe struct {
	ID        string         `gorm:"type:varchar(16);primaryKey"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (softAllocProbe) TableName() string { return "soft_alloc_probes" }

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed tests")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&allocProbe{}, &softAllocProbe{}))
	require.NoError(t, db.Exec("TRUNCATE TABLE alloc_probes, soft_alloc_probes").Error)
	return db
}

func TestNextSequential(t *testing.T) {
	db := setupDB(t)

	for i := 1; i <= 10; i++ {
		id, err := Next(db, &allocProbe{}, "id", "RC")
		require.NoError(t, err)
		require.Equal(t, Format("RC", i, DefaultWidth), id)
		require.NoError(t, db.Create(&allocProbe{ID: id}).Error)
	}
}

func TestNextResumesAfterMax(t *testing.T) {
	db := setupDB(t)

	// Interior gaps are not reused; allocation continues past the maximum.
	require.NoError(t, db.Create(&allocProbe{ID: "RC001"}).Error)
	require.NoError(t, db.Create(&allocProbe{ID: "RC003"}).Error)

	id, err := Next(db, &allocProbe{}, "id", "RC")
	require.NoError(t, err)
	require.Equal(t, "RC004", id)
}

func TestNextProbesPastLexicographicMax(t *testing.T) {
	db := setupDB(t)

	// "RC999" sorts after "RC1000" as a string, so MAX alone under-reports
	// once sequences outgrow the padding. The probe loop walks past the
	// collision.
	require.NoError(t, db.Create(&allocProbe{ID: "RC999"}).Error)
	require.NoError(t, db.Create(&allocProbe{ID: "RC1000"}).Error)

	id, err := Next(db, &allocProbe{}, "id", "RC")
	require.NoError(t, err)
	require.Equal(t, "RC1001", id)
}

func TestNextSeesSoftDeletedRows(t *testing.T) {
	db := setupDB(t)

	// A soft-deleted row keeps its primary key; reissuing its identifier
	// would make every later insert fail on the same conflict.
	for _, id := range []string{"RC001", "RC002", "RC003"} {
		require.NoError(t, db.Create(&softAllocProbe{ID: id}).Error)
	}
	require.NoError(t, db.Delete(&softAllocProbe{ID: "RC003"}).Error)

	id, err := Next(db, &softAllocProbe{}, "id", "RC")
	require.NoError(t, err)
	require.Equal(t, "RC004", id)
}

func TestNextIgnoresForeignPrefixes(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, db.Create(&allocProbe{ID: "ST042"}).Error)

	id, err := Next(db, &allocProbe{}, "id", "RC")
	require.NoError(t, err)
	require.Equal(t, "RC001", id)
}
