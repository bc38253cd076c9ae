package service

import (
	"context"
	"os"
	"strconv"
	"time"

	"go-retail-pos/internal/cache"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
)

// SummaryCacheKey is invalidated by every committed sale and stock
// adjustment.
const SummaryCacheKey = "dashboard:summary"

const (
	alertListingCap  = 50
	bestSellerWindow = 30 * 24 * time.Hour
	bestSellerLimit  = 10
	defaultCacheTTLs = 30
)

// storeZone is the fixed local offset the business day is computed in.
// Storage stays UTC; this zone applies only at the aggregation boundary.
var storeZone = time.FixedZone("UTC+7", 7*60*60)

// BusinessDayWindow returns the [start, end) bounds of the local business
// day containing now, expressed in UTC for range queries against
// UTC-stored timestamps.
func BusinessDayWindow(now time.Time) (time.Time, time.Time) {
	local := now.In(storeZone)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, storeZone)
	return midnight.UTC(), midnight.Add(24 * time.Hour).UTC()
}

type DashboardService interface {
	GetSummary(ctx context.Context) (*model.DashboardSummary, error)
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	settingRepo  repository.SettingRepository
	summaryCache cache.SummaryCache
	now          func() time.Time
}

func NewDashboardService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, setRepo repository.SettingRepository, summaryCache cache.SummaryCache) DashboardService {
	return &dashboardService{
		productRepo:  pRepo,
		saleRepo:     sRepo,
		settingRepo:  setRepo,
		summaryCache: summaryCache,
		now:          time.Now,
	}
}

// GetSummary is read-only and lock-free; it tolerates a committed-reads
// view with respect to in-flight sales.
func (s *dashboardService) GetSummary(ctx context.Context) (*model.DashboardSummary, error) {
	if cached, ok, err := s.summaryCache.Get(ctx, SummaryCacheKey); err == nil && ok {
		return cached, nil
	}

	settings, err := s.settingRepo.Load()
	if err != nil {
		return nil, err
	}

	now := s.now()
	dayStart, dayEnd := BusinessDayWindow(now)

	revenue, profit, err := s.saleRepo.RevenueAndProfitBetween(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	totalProducts, err := s.productRepo.CountAll()
	if err != nil {
		return nil, err
	}
	stockCount, err := s.productRepo.SumStock()
	if err != nil {
		return nil, err
	}
	lowStockCount, err := s.productRepo.CountLowStock(settings.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	outOfStockCount, err := s.productRepo.CountOutOfStock()
	if err != nil {
		return nil, err
	}
	expiringCount, err := s.productRepo.CountExpiringWithin(now.AddDate(0, 0, settings.ExpiryAlertDays))
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.FindLowStock(settings.LowStockThreshold, alertListingCap)
	if err != nil {
		return nil, err
	}
	outOfStock, err := s.productRepo.FindOutOfStock(alertListingCap)
	if err != nil {
		return nil, err
	}

	bestSellers, err := s.saleRepo.BestSellers(now.Add(-bestSellerWindow), bestSellerLimit)
	if err != nil {
		return nil, err
	}

	summary := &model.DashboardSummary{
		Date:              now.In(storeZone).Format("2006-01-02"),
		TotalSalesToday:   revenue,
		NetProfitToday:    profit,
		TotalProducts:     totalProducts,
		StockCount:        stockCount,
		LowStockCount:     lowStockCount,
		OutOfStockCount:   outOfStockCount,
		ExpiringSoonCount: expiringCount,
		LowStockItems:     toAlertItems(lowStock),
		OutOfStockItems:   toAlertItems(outOfStock),
		BestSellers:       bestSellers,
	}

	s.summaryCache.Set(ctx, SummaryCacheKey, summary, summaryCacheTTL())
	return summary, nil
}

func toAlertItems(products []model.Product) []model.StockAlertItem {
	items := make([]model.StockAlertItem, 0, len(products))
	for _, p := range products {
		items = append(items, model.StockAlertItem{
			ID:       p.ID,
			Name:     p.Name,
			Unit:     p.Unit,
			StockQty: p.StockQty,
		})
	}
	return items
}

func summaryCacheTTL() time.Duration {
	ttl := defaultCacheTTLs
	if v := os.Getenv("DASHBOARD_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}
