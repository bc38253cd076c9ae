package repository

import (
	"go-retail-pos/internal/model"

	"gorm.io/gorm"
)

type StockTransactionRepository interface {
	Create(tx *gorm.DB, st *model.StockTransaction) error
	FindAll() ([]model.StockTransaction, error)
	FindByID(id string) (*model.StockTransaction, error)
	FindByProduct(productID string) ([]model.StockTransaction, error)
}

type stockTransactionRepo struct {
	db *gorm.DB
}

func NewStockTransactionRepo(db *gorm.DB) StockTransactionRepository {
	return &stockTransactionRepo{db}
}

func (r *stockTransactionRepo) Create(tx *gorm.DB, st *model.StockTransaction) error {
	return tx.Create(st).Error
}

func (r *stockTransactionRepo) FindAll() ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	err := r.db.Preload("Product").Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *stockTransactionRepo) FindByID(id string) (*model.StockTransaction, error) {
	var st model.StockTransaction
	err := r.db.Preload("Product").First(&st, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *stockTransactionRepo) FindByProduct(productID string) ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}
