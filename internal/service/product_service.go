package service

import (
	"errors"
	"fmt"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/idgen"
	"go-retail-pos/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UpdateProductRequest carries catalog edits. Nil means "leave unchanged",
// so a price can be set to zero explicitly (free promotional items are
// legal at sale time and must be representable in the catalog too).
type UpdateProductRequest struct {
	Name       *string              `json:"name"`
	CategoryID *string              `json:"category_id"`
	Unit       *string              `json:"unit"`
	CostPrice  *decimal.Decimal     `json:"cost_price"`
	SellPrice  *decimal.Decimal     `json:"sell_price"`
	ExpiryDate *time.Time           `json:"expiry_date"`
	Status     *model.ProductStatus `json:"status"`
}

type ProductService interface {
	CreateProduct(req *model.Product, actorID string) error
	UpdateProduct(id string, req UpdateProductRequest, actorID string) (*model.Product, error)
	DeleteProduct(id string, actorID string) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id string) (*model.Product, error)
	CreateCategory(req *model.Category, actorID string) error
	GetAllCategories() ([]model.Category, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
}

func NewProductService(pRepo repository.ProductRepository, cRepo repository.CategoryRepository, db *gorm.DB) ProductService {
	return &productService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		db:           db,
	}
}

// CreateProduct registers a catalog entry. Initial stock arrives through a
// stock transaction, not here; new products start at zero quantity.
func (s *productService) CreateProduct(req *model.Product, actorID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return invalidInput("field %s failed on %s", first.FailedField, first.Tag)
	}

	if req.CategoryID != "" {
		if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrCategoryNotFound, req.CategoryID)
			}
			return err
		}
	}

	if req.Barcode != nil && *req.Barcode != "" {
		existing, err := s.productRepo.FindByBarcode(*req.Barcode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ErrBarcodeTaken, *req.Barcode)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		id, err := idgen.Next(tx, &model.Product{}, "id", model.PrefixProduct)
		if err != nil {
			return err
		}
		req.ID = id
		req.CreatedBy = actorID
		req.UpdatedBy = actorID
		req.StockQty = 0
		req.Status = model.ProductOutOfStock
		return s.productRepo.Create(tx, req)
	})
}

// UpdateProduct applies catalog edits (name, prices, unit, category,
// discontinuation). Stock quantity is owned by the ledger operations and
// is never written here.
func (s *productService) UpdateProduct(id string, req UpdateProductRequest, actorID string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, invalidInput("empty product name")
		}
		existing.Name = *req.Name
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, *req.CategoryID)
			}
			return nil, err
		}
		existing.CategoryID = *req.CategoryID
	}
	if req.Unit != nil {
		existing.Unit = *req.Unit
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, invalidInput("negative cost price")
		}
		existing.CostPrice = *req.CostPrice
	}
	if req.SellPrice != nil {
		if req.SellPrice.IsNegative() {
			return nil, invalidInput("negative sell price")
		}
		existing.SellPrice = *req.SellPrice
	}
	if req.ExpiryDate != nil {
		existing.ExpiryDate = req.ExpiryDate
	}
	if req.Status != nil && *req.Status == model.ProductUnavailable {
		existing.Status = model.ProductUnavailable
	}
	existing.UpdatedBy = actorID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *productService) DeleteProduct(id string, actorID string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return err
	}
	return s.productRepo.Delete(id, actorID)
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetProductByID(id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateCategory(req *model.Category, actorID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return invalidInput("field %s failed on %s", first.FailedField, first.Tag)
	}

	existing, err := s.categoryRepo.FindByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		return invalidInput("category %q already exists", req.Name)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		id, err := idgen.Next(tx, &model.Category{}, "id", model.PrefixCategory)
		if err != nil {
			return err
		}
		req.ID = id
		req.CreatedBy = actorID
		req.UpdatedBy = actorID
		return s.categoryRepo.Create(tx, req)
	})
}

func (s *productService) GetAllCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}
