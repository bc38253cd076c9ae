package repository

import (
	"strconv"

	"go-retail-pos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Get(key string) (string, error)
	Upsert(key, value string) error
	Load() (model.StoreSettings, error)
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) Get(key string) (string, error) {
	var setting model.Setting
	if err := r.db.First(&setting, "key = ?", key).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (r *settingRepo) Upsert(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model.Setting{Key: key, Value: value}).Error
}

// Load reads the typed settings the core consumes, falling back to
// defaults for missing or unparsable values.
func (r *settingRepo) Load() (model.StoreSettings, error) {
	settings := model.DefaultStoreSettings()

	var rows []model.Setting
	if err := r.db.Find(&rows).Error; err != nil {
		return settings, err
	}

	for _, row := range rows {
		switch row.Key {
		case model.SettingVATRate:
			if rate, err := decimal.NewFromString(row.Value); err == nil && !rate.IsNegative() {
				settings.VATRate = rate
			}
		case model.SettingLowStockThreshold:
			if n, err := strconv.Atoi(row.Value); err == nil && n >= 0 {
				settings.LowStockThreshold = n
			}
		case model.SettingExpiryAlertDays:
			if n, err := strconv.Atoi(row.Value); err == nil && n >= 0 {
				settings.ExpiryAlertDays = n
			}
		}
	}
	return settings, nil
}
