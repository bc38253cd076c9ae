package model

import "github.com/shopspring/decimal"

// Setting is a key/value row owned by the settings screens; the core only
// reads it.
type Setting struct {
	Key   string `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value string `gorm:"type:varchar(255);not null" json:"value"`
}

const (
	SettingVATRate           = "vat_rate"
	SettingLowStockThreshold = "low_stock_threshold"
	SettingExpiryAlertDays   = "expiry_alert_days"
)

// StoreSettings is the typed view of the settings the core consumes.
type StoreSettings struct {
	VATRate           decimal.Decimal `json:"vat_rate"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ExpiryAlertDays   int             `json:"expiry_alert_days"`
}

// DefaultStoreSettings apply when a key is missing or unparsable.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		VATRate:           decimal.NewFromInt(0),
		LowStockThreshold: 10,
		ExpiryAlertDays:   30,
	}
}
