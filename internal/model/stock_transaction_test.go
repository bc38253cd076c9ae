package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDelta(t *testing.T) {
	tests := []struct {
		name    string
		txType  StockTransactionType
		qty     int
		want    int
		wantErr bool
	}{
		{"in positive", StockIn, 50, 50, false},
		{"in zero", StockIn, 0, 0, true},
		{"in negative", StockIn, -3, 0, true},
		{"out positive", StockOut, 30, -30, false},
		{"out zero", StockOut, 0, 0, true},
		{"out negative", StockOut, -5, 0, true},
		{"adjust positive", StockAdjust, 4, 4, false},
		{"adjust negative", StockAdjust, -4, -4, false},
		{"adjust zero", StockAdjust, 0, 0, true},
		{"unknown type", StockTransactionType("TRANSFER"), 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDelta(tt.txType, tt.qty)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
