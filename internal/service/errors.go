package service

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Everything here aborts the enclosing transaction
// and propagates to the caller; nothing is logged-and-ignored inside the
// core. IdSpaceExhausted is exposed from pkg/idgen.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProductNotFound   = errors.New("product not found")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrBarcodeTaken      = errors.New("barcode already in use")
	ErrInsufficientStock = errors.New("insufficient stock")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// insufficientStock names the offending product so callers can surface it
// verbatim; never clamp silently.
func insufficientStock(productID string, available, requested int) error {
	return fmt.Errorf("%w: product %s has %d, requested %d",
		ErrInsufficientStock, productID, available, requested)
}
