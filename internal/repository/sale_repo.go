package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	CreateItem(tx *gorm.DB, item *model.SaleItem) error
	UpdateTotal(tx *gorm.DB, id string, total decimal.Decimal) error
	FindAll() ([]model.Sale, error)
	FindByID(id string) (*model.Sale, error)

	RevenueAndProfitBetween(start, end time.Time) (revenue, profit decimal.Decimal, err error)
	BestSellers(since time.Time, limit int) ([]model.BestSeller, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) CreateItem(tx *gorm.DB, item *model.SaleItem) error {
	return tx.Create(item).Error
}

func (r *saleRepo) UpdateTotal(tx *gorm.DB, id string, total decimal.Decimal) error {
	return tx.Model(&model.Sale{}).
		Where("id = ?", id).
		Update("total_amount", total).Error
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Items").Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id string) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").Preload("Items.Product").First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// RevenueAndProfitBetween sums item subtotals and margins over PAID sales
// created inside [start, end). Product cost is read unscoped so sales of
// since-deleted products still count.
func (r *saleRepo) RevenueAndProfitBetween(start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var revenue, profit decimal.Decimal
	row := r.db.Raw(`
		SELECT
			COALESCE(SUM(si.subtotal), 0),
			COALESCE(SUM(si.subtotal - p.cost_price * si.quantity), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.status = ? AND s.created_at >= ? AND s.created_at < ?
	`, model.SalePaid, start, end).Row()
	if err := row.Scan(&revenue, &profit); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return revenue, profit, nil
}

// BestSellers groups sale items by product over the trailing window.
// Products that no longer resolve in the catalog are dropped by the join.
func (r *saleRepo) BestSellers(since time.Time, limit int) ([]model.BestSeller, error) {
	rows, err := r.db.Raw(`
		SELECT si.product_id, p.name, p.unit, SUM(si.quantity) AS total_qty
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id AND p.deleted_at IS NULL
		WHERE s.status = ? AND s.created_at >= ?
		GROUP BY si.product_id, p.name, p.unit
		ORDER BY total_qty DESC, si.product_id ASC
		LIMIT ?
	`, model.SalePaid, since, limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.BestSeller
	for rows.Next() {
		var row model.BestSeller
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Unit, &row.TotalQty); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
