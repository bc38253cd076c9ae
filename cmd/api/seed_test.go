package main

import (
	"os"
	"testing"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed tests")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Privilege{},
		&model.Role{},
		&model.Setting{},
	))
	require.NoError(t, db.Exec(
		"TRUNCATE TABLE user_privileges, role_privileges, users, roles, privileges, settings CASCADE",
	).Error)
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestSeedDefaults(t *testing.T) {
	db := setupSeedDB(t)
	log := quietLogger()

	seedDefaults(db, log)

	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, adminRole.Privileges, len(model.DefaultPrivileges))

	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	require.NoError(t, err)
	assert.Len(t, cashierRole.Privileges, 4)

	admin, err := userRepo.FindByEmail("admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsActive)
	assert.True(t, admin.CheckPassword("admin123"))

	// Re-running must not duplicate anything.
	seedDefaults(db, log)
	users, err := userRepo.FindAll()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSeedAdminWithoutRole(t *testing.T) {
	db := setupSeedDB(t)

	// Roles table is empty; the seed must bail out instead of panicking.
	userRepo := repository.NewUserRepo(db)
	seedAdmin(userRepo, repository.NewRoleRepo(db), "admin@example.com", quietLogger())

	_, err := userRepo.FindByEmail("admin@example.com")
	assert.Error(t, err)
}
