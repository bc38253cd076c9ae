package service

import (
	"context"
	"errors"
	"fmt"

	"go-retail-pos/internal/cache"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/idgen"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleLine is one cart entry. UnitPrice overrides the product's sell price
// when supplied (manual discount / price match at the till).
type SaleLine struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type SaleService interface {
	CreateSale(actorID string, lines []SaleLine) (*model.Sale, error)
	GetAllSales() ([]model.Sale, error)
	GetSaleByID(id string) (*model.Sale, error)
}

type saleService struct {
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	summaryCache cache.SummaryCache
}

func NewSaleService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, db *gorm.DB, hub *ws.Hub, summaryCache cache.SummaryCache) SaleService {
	return &saleService{
		productRepo:  pRepo,
		saleRepo:     sRepo,
		db:           db,
		wsHub:        hub,
		summaryCache: summaryCache,
	}
}

// CreateSale converts a cart into a sale header, its items and the
// matching stock decrements, as one all-or-nothing unit. Each touched
// product row is locked for the duration of the transaction, so the
// sufficiency check and the decrement cannot interleave with a concurrent
// sale or adjustment of the same product.
func (s *saleService) CreateSale(actorID string, lines []SaleLine) (*model.Sale, error) {
	if actorID == "" {
		return nil, invalidInput("missing actor id")
	}
	if len(lines) == 0 {
		return nil, invalidInput("cart is empty")
	}
	for i, line := range lines {
		if line.ProductID == "" {
			return nil, invalidInput("line %d: missing product id", i+1)
		}
		if line.Quantity <= 0 {
			return nil, invalidInput("line %d: quantity must be positive, got %d", i+1, line.Quantity)
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return nil, invalidInput("line %d: negative unit price override", i+1)
		}
	}

	var sale *model.Sale
	var events []ws.StockUpdateEvent

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Allocate the sale id inside the transaction so the probe and the
		// insert share one atomic unit.
		saleID, err := idgen.Next(tx, &model.Sale{}, "id", model.PrefixSale)
		if err != nil {
			return err
		}

		sale = &model.Sale{
			SequencedModel: model.SequencedModel{ID: saleID, CreatedBy: actorID, UpdatedBy: actorID},
			UserID:         actorID,
			TotalAmount:    decimal.Zero,
			Status:         model.SalePaid,
		}
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return fmt.Errorf("create sale header: %w", err)
		}

		total := decimal.Zero
		for _, line := range lines {
			product, err := s.productRepo.LockByID(tx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
				}
				return fmt.Errorf("lock product %s: %w", line.ProductID, err)
			}

			price := product.SellPrice
			if line.UnitPrice != nil {
				price = *line.UnitPrice
			}

			if product.StockQty-line.Quantity < 0 {
				return insufficientStock(product.ID, product.StockQty, line.Quantity)
			}

			itemID, err := idgen.Next(tx, &model.SaleItem{}, "id", model.PrefixSaleItem)
			if err != nil {
				return err
			}

			item := model.SaleItem{
				SequencedModel: model.SequencedModel{ID: itemID, CreatedBy: actorID, UpdatedBy: actorID},
				SaleID:         saleID,
				ProductID:      product.ID,
				Quantity:       line.Quantity,
				UnitPrice:      price,
				Subtotal:       model.LineSubtotal(price, line.Quantity),
			}
			if err := s.saleRepo.CreateItem(tx, &item); err != nil {
				return fmt.Errorf("create sale item: %w", err)
			}

			// Persist the decrement now so a later line for the same
			// product sees the reduced quantity.
			newQty := product.StockQty - line.Quantity
			if err := s.productRepo.UpdateStock(tx, product.ID, newQty, product.NextStatus(newQty), actorID); err != nil {
				return fmt.Errorf("decrement stock for %s: %w", product.ID, err)
			}

			total = total.Add(item.Subtotal)
			sale.Items = append(sale.Items, item)
			events = append(events, ws.StockUpdateEvent{
				Source:    "sale",
				SourceID:  saleID,
				ProductID: product.ID,
				NewQty:    newQty,
				ActorID:   actorID,
			})
		}

		if err := s.saleRepo.UpdateTotal(tx, saleID, total); err != nil {
			return fmt.Errorf("update sale total: %w", err)
		}
		sale.TotalAmount = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Side effects only after commit.
	for _, event := range events {
		s.wsHub.PublishStockUpdate(event)
	}
	s.summaryCache.Invalidate(context.Background(), SummaryCacheKey)

	return sale, nil
}

func (s *saleService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *saleService) GetSaleByID(id string) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
		}
		return nil, err
	}
	return sale, nil
}
