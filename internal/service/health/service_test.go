package health

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/mocks"
)

func TestReadyWithHealthyTables(t *testing.T) {
	store := mocks.NewMockDatasetStore()
	svc := NewService(store, mocks.NewMockCache(), "test", zap.NewNop())

	resp := svc.Ready(context.Background())
	if !resp.Ready {
		t.Fatalf("expected ready, got %+v", resp)
	}
	if len(resp.Checks) != 9 {
		t.Errorf("expected 8 table checks plus cache, got %d", len(resp.Checks))
	}
}

func TestBrokenTableFailsReadiness(t *testing.T) {
	store := mocks.NewMockDatasetStore()
	store.MonthlySalesFunc = func(ctx context.Context) ([]domain.MonthlySales, error) {
		return nil, fmt.Errorf("file missing")
	}
	svc := NewService(store, mocks.NewMockCache(), "test", zap.NewNop())

	resp := svc.Ready(context.Background())
	if resp.Ready {
		t.Fatal("broken table must fail readiness")
	}
	if resp.Checks["table_monthly_sales"].Status != StatusUnhealthy {
		t.Errorf("check status = %v", resp.Checks["table_monthly_sales"].Status)
	}
}

func TestDeadCacheOnlyDegrades(t *testing.T) {
	store := mocks.NewMockDatasetStore()
	cache := mocks.NewMockCache()
	cache.PingFunc = func() error { return fmt.Errorf("connection refused") }
	svc := NewService(store, cache, "test", zap.NewNop())

	resp := svc.Ready(context.Background())
	if !resp.Ready {
		t.Fatal("a dead cache must not take the service out of rotation")
	}
	if resp.Status != StatusDegraded {
		t.Errorf("status = %v, want degraded", resp.Status)
	}
}

func TestHealthReportsUptimeAndVersion(t *testing.T) {
	svc := NewService(mocks.NewMockDatasetStore(), nil, "1.2.3", zap.NewNop())

	resp := svc.Health(context.Background())
	if resp.Status != StatusHealthy {
		t.Errorf("status = %v", resp.Status)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("version = %q", resp.Version)
	}
	if resp.Uptime == "" {
		t.Error("expected uptime")
	}
}
