package model

import (
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SalePaid     SaleStatus = "PAID"
	SaleVoid     SaleStatus = "VOID"
	SaleRefunded SaleStatus = "REFUNDED"
)

// Sale is the header of one checkout transaction. It is created exactly
// once, atomically with its items and stock decrements, and is stock-wise
// immutable after that. VOID/REFUNDED are terminal states set outside the
// sale path; they never restore stock.
type Sale struct {
	SequencedModel
	UserID      string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	Status      SaleStatus      `gorm:"type:varchar(16);not null;default:PAID" json:"status"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// SaleItem is one cart line, priced at sale time. Created only inside its
// parent sale's transaction.
type SaleItem struct {
	SequencedModel
	SaleID    string `gorm:"type:varchar(16);not null;index" json:"sale_id"`
	ProductID string `gorm:"type:varchar(16);not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"subtotal"`
}

// LineSubtotal computes quantity × unit price in fixed-point decimal.
func LineSubtotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}
