package repository

import (
	"go-retail-pos/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(tx *gorm.DB, category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id string) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(tx *gorm.DB, category *model.Category) error {
	return tx.Create(category).Error
}

func (r *categoryRepo) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(id string) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) FindByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}
