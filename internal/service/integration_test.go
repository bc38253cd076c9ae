package service_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"go-retail-pos/internal/cache"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testActor = "cashier-1"

type fixture struct {
	db        *gorm.DB
	sales     service.SaleService
	stock     service.StockService
	dashboard service.DashboardService
	category  *model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockTransaction{},
		&model.Setting{},
	))
	require.NoError(t, db.Exec(
		"TRUNCATE TABLE sale_items, sales, stock_transactions, products, categories, settings CASCADE",
	).Error)

	hub := ws.NewHub()
	go hub.Run()
	summaryCache := cache.NoopSummaryCache{}

	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	stockRepo := repository.NewStockTransactionRepo(db)
	settingRepo := repository.NewSettingRepo(db)

	category := &model.Category{
		SequencedModel: model.SequencedModel{ID: "CT001", CreatedBy: testActor, UpdatedBy: testActor},
		Name:           "Groceries",
	}
	require.NoError(t, db.Create(category).Error)

	return &fixture{
		db:        db,
		sales:     service.NewSaleService(productRepo, saleRepo, db, hub, summaryCache),
		stock:     service.NewStockService(productRepo, stockRepo, db, hub, summaryCache),
		dashboard: service.NewDashboardService(productRepo, saleRepo, settingRepo, summaryCache),
		category:  category,
	}
}

func (f *fixture) seedProduct(t *testing.T, id, name, cost, sell string, qty int) *model.Product {
	t.Helper()
	status := model.ProductAvailable
	if qty <= 0 {
		status = model.ProductOutOfStock
	}
	p := &model.Product{
		SequencedModel: model.SequencedModel{ID: id, CreatedBy: testActor, UpdatedBy: testActor},
		Name:           name,
		CategoryID:     f.category.ID,
		CostPrice:      decimal.RequireFromString(cost),
		SellPrice:      decimal.RequireFromString(sell),
		Unit:           "pcs",
		StockQty:       qty,
		Status:         status,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) reloadProduct(t *testing.T, id string) *model.Product {
	t.Helper()
	var p model.Product
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return &p
}

func (f *fixture) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Count(&n).Error)
	return n
}

func TestCreateSale(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)

	sale, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "SA001", sale.ID)
	assert.Equal(t, model.SalePaid, sale.Status)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("60.00")), "total %s", sale.TotalAmount)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "SI001", sale.Items[0].ID)
	assert.True(t, sale.Items[0].UnitPrice.Equal(decimal.RequireFromString("20.00")))

	p := f.reloadProduct(t, "PR001")
	assert.Equal(t, 7, p.StockQty)
	assert.Equal(t, model.ProductAvailable, p.Status)
}

func TestCreateSaleDrainsToOutOfStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 3)

	_, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 3},
	})
	require.NoError(t, err)

	p := f.reloadProduct(t, "PR001")
	assert.Equal(t, 0, p.StockQty)
	assert.Equal(t, model.ProductOutOfStock, p.Status)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 2)

	_, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 5},
	})
	require.ErrorIs(t, err, service.ErrInsufficientStock)

	// Nothing persisted, nothing decremented.
	assert.Equal(t, 2, f.reloadProduct(t, "PR001").StockQty)
	assert.Zero(t, f.countRows(t, "sales"))
	assert.Zero(t, f.countRows(t, "sale_items"))
}

func TestCreateSaleRollsBackEarlierLines(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)
	f.seedProduct(t, "PR002", "Bread", "3.00", "8.00", 1)

	_, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 4},
		{ProductID: "PR002", Quantity: 2},
	})
	require.ErrorIs(t, err, service.ErrInsufficientStock)

	// The first line's decrement must not survive the second line's failure.
	assert.Equal(t, 10, f.reloadProduct(t, "PR001").StockQty)
	assert.Equal(t, 1, f.reloadProduct(t, "PR002").StockQty)
	assert.Zero(t, f.countRows(t, "sales"))
	assert.Zero(t, f.countRows(t, "sale_items"))
}

func TestCreateSaleRepeatedProductConsumesSequentially(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 5)

	// 3 + 3 exceeds the live quantity once the first line is applied.
	_, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 3},
		{ProductID: "PR001", Quantity: 3},
	})
	require.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, 5, f.reloadProduct(t, "PR001").StockQty)

	// 3 + 2 fits exactly.
	sale, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 3},
		{ProductID: "PR001", Quantity: 2},
	})
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, 0, f.reloadProduct(t, "PR001").StockQty)
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR999", Quantity: 1},
	})
	require.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestCreateSaleValidation(t *testing.T) {
	f := newFixture(t)
	negative := decimal.RequireFromString("-1.00")

	_, err := f.sales.CreateSale("", []service.SaleLine{{ProductID: "PR001", Quantity: 1}})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.sales.CreateSale(testActor, nil)
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.sales.CreateSale(testActor, []service.SaleLine{{ProductID: "PR001", Quantity: 0}})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.sales.CreateSale(testActor, []service.SaleLine{{ProductID: "PR001", Quantity: 1, UnitPrice: &negative}})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCreateSalePriceOverride(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)

	override := decimal.RequireFromString("15.50")
	sale, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 2, UnitPrice: &override},
	})
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].UnitPrice.Equal(override))
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("31.00")))
}

func TestSaleIdentifiersAreSequential(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 100)

	seen := map[string]bool{}
	for i := 1; i <= 3; i++ {
		sale, err := f.sales.CreateSale(testActor, []service.SaleLine{
			{ProductID: "PR001", Quantity: 1},
		})
		require.NoError(t, err)
		require.False(t, seen[sale.ID], "duplicate sale id %s", sale.ID)
		seen[sale.ID] = true
	}
	assert.True(t, seen["SA001"] && seen["SA002"] && seen["SA003"])
}

func TestConcurrentSalesOfLastUnit(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.sales.CreateSale(testActor, []service.SaleLine{
				{ProductID: "PR001", Quantity: 1},
			})
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, service.ErrInsufficientStock)
			rejections++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)
	assert.Equal(t, 0, f.reloadProduct(t, "PR001").StockQty)
	assert.Equal(t, int64(1), f.countRows(t, "sales"))
}

func TestConcurrentSalesDistinctProducts(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)
	f.seedProduct(t, "PR002", "Bread", "3.00", "8.00", 10)

	// No shared product row, so only the id allocation serializes the two
	// transactions; both must commit with distinct identifiers.
	var wg sync.WaitGroup
	sales := make([]*model.Sale, 2)
	errs := make([]error, 2)
	for i, productID := range []string{"PR001", "PR002"} {
		wg.Add(1)
		go func(i int, productID string) {
			defer wg.Done()
			sales[i], errs[i] = f.sales.CreateSale(testActor, []service.SaleLine{
				{ProductID: productID, Quantity: 1},
			})
		}(i, productID)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, sales[0].ID, sales[1].ID)
	assert.NotEqual(t, sales[0].Items[0].ID, sales[1].Items[0].ID)
	assert.Equal(t, int64(2), f.countRows(t, "sales"))
}

func TestStockTransactionLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)

	in, err := f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockIn, Quantity: 50, Note: "weekly delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, "ST001", in.Transaction.ID)
	assert.Equal(t, 50, in.Transaction.QuantityChange)
	assert.Equal(t, 60, in.ResultingQty)

	out, err := f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockOut, Quantity: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "ST002", out.Transaction.ID)
	assert.Equal(t, -30, out.Transaction.QuantityChange)
	assert.Equal(t, 30, out.ResultingQty)

	adj, err := f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockAdjust, Quantity: -4, Note: "breakage",
	})
	require.NoError(t, err)
	assert.Equal(t, -4, adj.Transaction.QuantityChange)
	assert.Equal(t, 26, adj.ResultingQty)

	assert.Equal(t, 26, f.reloadProduct(t, "PR001").StockQty)

	history, err := f.stock.GetStockTransactionsByProduct("PR001")
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestStockTransactionInsufficient(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)

	_, err := f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockOut, Quantity: 100,
	})
	require.ErrorIs(t, err, service.ErrInsufficientStock)

	assert.Equal(t, 10, f.reloadProduct(t, "PR001").StockQty)
	assert.Zero(t, f.countRows(t, "stock_transactions"))
}

func TestStockTransactionRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockIn, Quantity: 0,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockAdjust, Quantity: 0,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "", Type: model.StockIn, Quantity: 1,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRestockFlipsOutOfStockToAvailable(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 0)

	res, err := f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockIn, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.ResultingQty)

	p := f.reloadProduct(t, "PR001")
	assert.Equal(t, model.ProductAvailable, p.Status)
}

func TestRestockKeepsDiscontinuedUnavailable(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)
	require.NoError(t, f.db.Model(p).Update("status", model.ProductUnavailable).Error)

	_, err := f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockIn, Quantity: 5,
	})
	require.NoError(t, err)

	reloaded := f.reloadProduct(t, "PR001")
	assert.Equal(t, 15, reloaded.StockQty)
	assert.Equal(t, model.ProductUnavailable, reloaded.Status)
}

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "10.00", "25.00", 40)
	f.seedProduct(t, "PR002", "Bread", "4.00", "10.00", 8) // below default threshold
	f.seedProduct(t, "PR003", "Jam", "4.00", "9.00", 0)

	_, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 2},
	})
	require.NoError(t, err)
	_, err = f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR002", Quantity: 5},
	})
	require.NoError(t, err)

	summary, err := f.dashboard.GetSummary(context.Background())
	require.NoError(t, err)

	// 2×25 + 5×10 revenue; margins 2×15 + 5×6.
	assert.True(t, summary.TotalSalesToday.Equal(decimal.RequireFromString("100.00")), "revenue %s", summary.TotalSalesToday)
	assert.True(t, summary.NetProfitToday.Equal(decimal.RequireFromString("60.00")), "profit %s", summary.NetProfitToday)

	assert.Equal(t, int64(3), summary.TotalProducts)
	assert.Equal(t, int64(38+3), summary.StockCount)
	assert.Equal(t, int64(1), summary.LowStockCount)
	assert.Equal(t, int64(1), summary.OutOfStockCount)

	require.Len(t, summary.LowStockItems, 1)
	assert.Equal(t, "PR002", summary.LowStockItems[0].ID)
	require.Len(t, summary.OutOfStockItems, 1)
	assert.Equal(t, "PR003", summary.OutOfStockItems[0].ID)

	require.NotEmpty(t, summary.BestSellers)
	assert.Equal(t, "PR002", summary.BestSellers[0].ProductID)
	assert.Equal(t, 5, summary.BestSellers[0].TotalQty)
}

func TestDashboardExcludesVoidedSales(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PR001", "Milk 1L", "10.00", "25.00", 40)

	sale, err := f.sales.CreateSale(testActor, []service.SaleLine{
		{ProductID: "PR001", Quantity: 2},
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&model.Sale{}).
		Where("id = ?", sale.ID).
		Update("status", model.SaleVoid).Error)

	summary, err := f.dashboard.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.TotalSalesToday.IsZero(), "revenue %s", summary.TotalSalesToday)
	assert.True(t, summary.NetProfitToday.IsZero())

	// Voiding never restores stock.
	assert.Equal(t, 38, f.reloadProduct(t, "PR001").StockQty)
}
