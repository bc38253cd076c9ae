package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id string) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
	LockByID(tx *gorm.DB, id string) (*model.Product, error)
	UpdateStock(tx *gorm.DB, id string, newQty int, status model.ProductStatus, updatedBy string) error
	Update(product *model.Product) error
	Delete(id string, deletedBy string) error

	CountAll() (int64, error)
	SumStock() (int64, error)
	CountLowStock(threshold int) (int64, error)
	CountOutOfStock() (int64, error)
	FindLowStock(threshold, limit int) ([]model.Product, error)
	FindOutOfStock(limit int) ([]model.Product, error)
	CountExpiringWithin(until time.Time) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(barcode string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "barcode = ?", barcode).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// LockByID reads the product under SELECT ... FOR UPDATE. Must be called
// with an open transaction; the row stays locked until that transaction
// commits or rolls back, which is what makes the read-check-write sequence
// of sales and stock adjustments safe against concurrent decrements.
func (r *productRepo) LockByID(tx *gorm.DB, id string) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateStock persists a new quantity and derived status within the
// caller's transaction.
func (r *productRepo) UpdateStock(tx *gorm.DB, id string, newQty int, status model.ProductStatus, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_qty":  newQty,
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id string, deletedBy string) error {
	if err := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("updated_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepo) SumStock() (int64, error) {
	var total int64
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock_qty), 0)").
		Scan(&total).Error
	return total, err
}

func (r *productRepo) CountLowStock(threshold int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("stock_qty > 0 AND stock_qty <= ? AND status <> ?", threshold, model.ProductUnavailable).
		Count(&count).Error
	return count, err
}

func (r *productRepo) CountOutOfStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("stock_qty <= 0 AND status <> ?", model.ProductUnavailable).
		Count(&count).Error
	return count, err
}

func (r *productRepo) FindLowStock(threshold, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Where("stock_qty > 0 AND stock_qty <= ? AND status <> ?", threshold, model.ProductUnavailable).
		Order("stock_qty ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindOutOfStock(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Where("stock_qty <= 0 AND status <> ?", model.ProductUnavailable).
		Order("id ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountExpiringWithin(until time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("expiry_date IS NOT NULL AND expiry_date <= ? AND status <> ?", until, model.ProductUnavailable).
		Count(&count).Error
	return count, err
}
