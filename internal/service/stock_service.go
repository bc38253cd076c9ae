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

	"gorm.io/gorm"
)

// StockTransactionInput is one manual stock movement: a goods receipt
// (IN), a manual issue (OUT) or a signed correction (ADJUST).
type StockTransactionInput struct {
	ProductID string                     `json:"product_id"`
	Type      model.StockTransactionType `json:"type"`
	Quantity  int                        `json:"quantity"`
	Note      string                     `json:"note"`
}

// StockTransactionResult carries the created ledger entry together with
// the product quantity it produced.
type StockTransactionResult struct {
	Transaction  *model.StockTransaction `json:"transaction"`
	ResultingQty int                     `json:"resulting_qty"`
}

type StockService interface {
	CreateStockTransaction(actorID string, input StockTransactionInput) (*StockTransactionResult, error)
	GetAllStockTransactions() ([]model.StockTransaction, error)
	GetStockTransactionByID(id string) (*model.StockTransaction, error)
	GetStockTransactionsByProduct(productID string) ([]model.StockTransaction, error)
}

type stockService struct {
	productRepo  repository.ProductRepository
	stockRepo    repository.StockTransactionRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	summaryCache cache.SummaryCache
}

func NewStockService(pRepo repository.ProductRepository, stRepo repository.StockTransactionRepository, db *gorm.DB, hub *ws.Hub, summaryCache cache.SummaryCache) StockService {
	return &stockService{
		productRepo:  pRepo,
		stockRepo:    stRepo,
		db:           db,
		wsHub:        hub,
		summaryCache: summaryCache,
	}
}

// CreateStockTransaction applies one manual stock movement atomically:
// lock the product row, re-check sufficiency against the live quantity,
// append the ledger entry and persist the new quantity. Mirrors the sale
// path's read-check-write discipline for a single line.
func (s *stockService) CreateStockTransaction(actorID string, input StockTransactionInput) (*StockTransactionResult, error) {
	if actorID == "" {
		return nil, invalidInput("missing actor id")
	}
	if input.ProductID == "" {
		return nil, invalidInput("missing product id")
	}

	delta, err := model.ResolveDelta(input.Type, input.Quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *StockTransactionResult

	err = s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrProductNotFound, input.ProductID)
			}
			return fmt.Errorf("lock product %s: %w", input.ProductID, err)
		}

		newQty := product.StockQty + delta
		if newQty < 0 {
			return insufficientStock(product.ID, product.StockQty, -delta)
		}

		stID, err := idgen.Next(tx, &model.StockTransaction{}, "id", model.PrefixStockTransaction)
		if err != nil {
			return err
		}

		entry := &model.StockTransaction{
			SequencedModel: model.SequencedModel{ID: stID, CreatedBy: actorID, UpdatedBy: actorID},
			ProductID:      product.ID,
			Type:           input.Type,
			QuantityChange: delta,
			Note:           input.Note,
			UserID:         actorID,
		}
		if err := s.stockRepo.Create(tx, entry); err != nil {
			return fmt.Errorf("create stock transaction: %w", err)
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, newQty, product.NextStatus(newQty), actorID); err != nil {
			return fmt.Errorf("update stock for %s: %w", product.ID, err)
		}

		result = &StockTransactionResult{Transaction: entry, ResultingQty: newQty}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.PublishStockUpdate(ws.StockUpdateEvent{
		Source:    "stock_transaction",
		SourceID:  result.Transaction.ID,
		ProductID: result.Transaction.ProductID,
		NewQty:    result.ResultingQty,
		ActorID:   actorID,
	})
	s.summaryCache.Invalidate(context.Background(), SummaryCacheKey)

	return result, nil
}

func (s *stockService) GetAllStockTransactions() ([]model.StockTransaction, error) {
	return s.stockRepo.FindAll()
}

func (s *stockService) GetStockTransactionByID(id string) (*model.StockTransaction, error) {
	st, err := s.stockRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("stock transaction %s: %w", id, err)
	}
	return st, nil
}

func (s *stockService) GetStockTransactionsByProduct(productID string) ([]model.StockTransaction, error) {
	return s.stockRepo.FindByProduct(productID)
}
