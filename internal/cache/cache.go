package cache

import (
	"context"
	"time"

	"go-retail-pos/internal/model"
)

// SummaryCache shields the dashboard aggregation queries behind a short
// TTL. The Noop implementation keeps the service path identical when no
// redis is configured.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*model.DashboardSummary, bool, error)
	Set(ctx context.Context, key string, value *model.DashboardSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context, _ string) (*model.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ string, _ *model.DashboardSummary, _ time.Duration) error {
	return nil
}

func (NoopSummaryCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
