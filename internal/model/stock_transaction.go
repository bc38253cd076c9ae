package model

import "fmt"

type StockTransactionType string

const (
	StockIn     StockTransactionType = "IN"
	StockOut    StockTransactionType = "OUT"
	StockAdjust StockTransactionType = "ADJUST"
)

// StockTransaction is one entry of the append-only stock ledger. Rows are
// never mutated or deleted after commit; the signed sum of QuantityChange
// per product, plus sale-line consumption, reconciles to Product.StockQty.
type StockTransaction struct {
	SequencedModel
	ProductID string   `gorm:"type:varchar(16);not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Type StockTransactionType `gorm:"type:varchar(10);not null" json:"type"`

	// QuantityChange is the signed delta applied to the product:
	// positive for IN, negative for OUT, either sign for ADJUST.
	QuantityChange int    `gorm:"not null" json:"quantity_change"`
	Note           string `gorm:"type:text" json:"note"`
	UserID         string `gorm:"type:varchar(64);not null" json:"user_id"`
}

// ResolveDelta maps a change type plus requested quantity to the signed
// delta recorded in the ledger. IN and OUT take a positive magnitude,
// ADJUST takes the quantity as given (signed, non-zero).
func ResolveDelta(txType StockTransactionType, quantity int) (int, error) {
	switch txType {
	case StockIn:
		if quantity <= 0 {
			return 0, fmt.Errorf("IN quantity must be positive, got %d", quantity)
		}
		return quantity, nil
	case StockOut:
		if quantity <= 0 {
			return 0, fmt.Errorf("OUT quantity must be positive, got %d", quantity)
		}
		return -quantity, nil
	case StockAdjust:
		if quantity == 0 {
			return 0, fmt.Errorf("ADJUST quantity must be non-zero")
		}
		return quantity, nil
	default:
		return 0, fmt.Errorf("unknown stock transaction type %q", txType)
	}
}
