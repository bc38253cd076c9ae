package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineSubtotal(t *testing.T) {
	price := decimal.RequireFromString("19.99")
	sub := LineSubtotal(price, 3)
	assert.True(t, sub.Equal(decimal.RequireFromString("59.97")), "got %s", sub)

	// Cent-level prices must not accumulate float drift.
	price = decimal.RequireFromString("0.10")
	sub = LineSubtotal(price, 1000)
	assert.True(t, sub.Equal(decimal.RequireFromString("100.00")), "got %s", sub)

	sub = LineSubtotal(decimal.Zero, 5)
	assert.True(t, sub.IsZero())
}
