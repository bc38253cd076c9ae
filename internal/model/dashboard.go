package model

import "github.com/shopspring/decimal"

// BestSeller is one entry of the trailing-window best-seller ranking.
type BestSeller struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	TotalQty  int    `json:"total_qty"`
}

// StockAlertItem is a capped listing entry for low/out-of-stock products.
type StockAlertItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	StockQty int    `json:"stock_qty"`
}

// DashboardSummary aggregates today's trading figures and stock signals.
// All monetary figures are fixed-point decimals; "today" is the business
// day in the store's local timezone (UTC+7).
type DashboardSummary struct {
	Date              string           `json:"date"`
	TotalSalesToday   decimal.Decimal  `json:"total_sales_today"`
	NetProfitToday    decimal.Decimal  `json:"net_profit_today"`
	TotalProducts     int64            `json:"total_products"`
	StockCount        int64            `json:"stock_count"`
	LowStockCount     int64            `json:"low_stock_count"`
	OutOfStockCount   int64            `json:"out_of_stock_count"`
	ExpiringSoonCount int64            `json:"expiring_soon_count"`
	LowStockItems     []StockAlertItem `json:"low_stock_items"`
	OutOfStockItems   []StockAlertItem `json:"out_of_stock_items"`
	BestSellers       []BestSeller     `json:"best_sellers"`
}
