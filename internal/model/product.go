package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductAvailable   ProductStatus = "AVAILABLE"
	ProductOutOfStock  ProductStatus = "OUT_OF_STOCK"
	ProductUnavailable ProductStatus = "UNAVAILABLE"
)

type Category struct {
	SequencedModel
	Name string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
}

type Product struct {
	SequencedModel
	Name       string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CategoryID string  `gorm:"type:varchar(16);index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// Barcode is optional but unique when present.
	Barcode *string `gorm:"type:varchar(64);uniqueIndex" json:"barcode,omitempty"`

	CostPrice decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"cost_price" validate:"decimal_gte_zero"`
	SellPrice decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"sell_price" validate:"decimal_gte_zero"`
	Unit      string          `gorm:"type:varchar(20)" json:"unit"`

	// StockQty is the authoritative current quantity. It is mutated only
	// inside sale / stock-adjustment transactions and never goes negative.
	StockQty int           `gorm:"not null;default:0" json:"stock_qty"`
	Status   ProductStatus `gorm:"type:varchar(16);not null;default:AVAILABLE" json:"status"`

	ExpiryDate *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// NextStatus derives the status that corresponds to a quantity.
// UNAVAILABLE (discontinued) is sticky and never flips back automatically.
func (p *Product) NextStatus(qty int) ProductStatus {
	if p.Status == ProductUnavailable {
		return ProductUnavailable
	}
	if qty <= 0 {
		return ProductOutOfStock
	}
	return ProductAvailable
}
