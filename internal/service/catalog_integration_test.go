package service_test

import (
	"testing"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (*fixture, service.ProductService) {
	t.Helper()
	f := newFixture(t)
	svc := service.NewProductService(
		repository.NewProductRepo(f.db),
		repository.NewCategoryRepo(f.db),
		f.db,
	)
	return f, svc
}

func TestCreateProduct(t *testing.T) {
	f, catalog := newCatalog(t)

	req := &model.Product{
		Name:       "Milk 1L",
		CategoryID: f.category.ID,
		CostPrice:  decimal.RequireFromString("12.00"),
		SellPrice:  decimal.RequireFromString("20.00"),
		Unit:       "pcs",
		StockQty:   99, // must be ignored
	}
	require.NoError(t, catalog.CreateProduct(req, testActor))

	assert.Equal(t, "PR001", req.ID)
	created := f.reloadProduct(t, req.ID)
	assert.Equal(t, 0, created.StockQty)
	assert.Equal(t, model.ProductOutOfStock, created.Status)

	second := &model.Product{Name: "Bread", CategoryID: f.category.ID, Unit: "pcs"}
	require.NoError(t, catalog.CreateProduct(second, testActor))
	assert.Equal(t, "PR002", second.ID)
}

func TestCreateProductAfterDelete(t *testing.T) {
	f, catalog := newCatalog(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 0)
	f.seedProduct(t, "PR002", "Bread", "3.00", "8.00", 0)
	f.seedProduct(t, "PR003", "Jam", "4.00", "9.00", 0)

	// The deleted row keeps PR003; the next allocation must move past it
	// or product creation would fail on the same conflict forever.
	require.NoError(t, catalog.DeleteProduct("PR003", testActor))

	next := &model.Product{Name: "Butter", CategoryID: f.category.ID, Unit: "pcs"}
	require.NoError(t, catalog.CreateProduct(next, testActor))
	assert.Equal(t, "PR004", next.ID)
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	_, catalog := newCatalog(t)

	err := catalog.CreateProduct(&model.Product{Name: "Milk 1L", CategoryID: "CT999"}, testActor)
	require.ErrorIs(t, err, service.ErrCategoryNotFound)
}

func TestCreateProductRejectsDuplicateBarcode(t *testing.T) {
	f, catalog := newCatalog(t)

	barcode := "4006381333931"
	require.NoError(t, catalog.CreateProduct(&model.Product{
		Name: "Milk 1L", CategoryID: f.category.ID, Barcode: &barcode,
	}, testActor))

	err := catalog.CreateProduct(&model.Product{
		Name: "Milk 2L", CategoryID: f.category.ID, Barcode: &barcode,
	}, testActor)
	require.ErrorIs(t, err, service.ErrBarcodeTaken)
}

func TestUpdateProductNeverTouchesStock(t *testing.T) {
	f, catalog := newCatalog(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)

	name := "Whole Milk 1L"
	sellPrice := decimal.RequireFromString("22.00")
	updated, err := catalog.UpdateProduct("PR001", service.UpdateProductRequest{
		Name:      &name,
		SellPrice: &sellPrice,
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, "Whole Milk 1L", updated.Name)
	assert.True(t, updated.SellPrice.Equal(decimal.RequireFromString("22.00")))
	assert.Equal(t, 10, f.reloadProduct(t, "PR001").StockQty)
}

func TestUpdateProductAllowsZeroPrice(t *testing.T) {
	f, catalog := newCatalog(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)

	// Free promotional pricing: zero is a legal price, only negatives are
	// rejected. Nil fields stay untouched.
	zero := decimal.Zero
	updated, err := catalog.UpdateProduct("PR001", service.UpdateProductRequest{
		SellPrice: &zero,
	}, testActor)
	require.NoError(t, err)
	assert.True(t, updated.SellPrice.IsZero(), "sell price %s", updated.SellPrice)
	assert.True(t, f.reloadProduct(t, "PR001").SellPrice.IsZero())
	assert.True(t, updated.CostPrice.Equal(decimal.RequireFromString("12.00")))

	negative := decimal.RequireFromString("-1.00")
	_, err = catalog.UpdateProduct("PR001", service.UpdateProductRequest{
		SellPrice: &negative,
	}, testActor)
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestDiscontinueProduct(t *testing.T) {
	f, catalog := newCatalog(t)
	f.seedProduct(t, "PR001", "Milk 1L", "12.00", "20.00", 10)

	unavailable := model.ProductUnavailable
	updated, err := catalog.UpdateProduct("PR001", service.UpdateProductRequest{
		Status: &unavailable,
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, model.ProductUnavailable, updated.Status)

	// Discontinued products cannot be sold through regular status flips.
	_, err = f.stock.CreateStockTransaction(testActor, service.StockTransactionInput{
		ProductID: "PR001", Type: model.StockIn, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProductUnavailable, f.reloadProduct(t, "PR001").Status)
}

func TestCreateCategorySequence(t *testing.T) {
	_, catalog := newCatalog(t)

	// CT001 is seeded by the fixture.
	cat := &model.Category{Name: "Dairy"}
	require.NoError(t, catalog.CreateCategory(cat, testActor))
	assert.Equal(t, "CT002", cat.ID)

	err := catalog.CreateCategory(&model.Category{Name: "Dairy"}, testActor)
	require.ErrorIs(t, err, service.ErrInvalidInput)
}
