package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/ports"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse is the readiness payload with per-check results.
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines a health check function
type Checker func(ctx context.Context) CheckResult

// Service runs liveness and readiness checks. Readiness attempts every
// dataset table load plus the answer cache, so a broken snapshot keeps the
// pod out of rotation instead of serving misleading empty analytics.
type Service struct {
	store     ports.DatasetStore
	cache     ports.Cache
	startTime time.Time
	version   string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

func NewService(store ports.DatasetStore, cache ports.Cache, version string, log *zap.Logger) *Service {
	s := &Service{
		store:     store,
		cache:     cache,
		startTime: time.Now(),
		version:   version,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	s.RegisterChecker("table_basket_lines", tableChecker("basket_lines", func(ctx context.Context) error {
		_, err := store.BasketLines(ctx)
		return err
	}))
	s.RegisterChecker("table_monthly_sales", tableChecker("monthly_sales", func(ctx context.Context) error {
		_, err := store.MonthlySales(ctx)
		return err
	}))
	s.RegisterChecker("table_channel_summary", tableChecker("channel_summary", func(ctx context.Context) error {
		_, err := store.ChannelSummaries(ctx)
		return err
	}))
	s.RegisterChecker("table_item_sales", tableChecker("item_sales", func(ctx context.Context) error {
		_, err := store.ItemSales(ctx)
		return err
	}))
	s.RegisterChecker("table_division_channel", tableChecker("division_channel", func(ctx context.Context) error {
		_, err := store.DivisionChannels(ctx)
		return err
	}))
	s.RegisterChecker("table_customer_orders", tableChecker("customer_orders", func(ctx context.Context) error {
		_, err := store.CustomerOrders(ctx)
		return err
	}))
	s.RegisterChecker("table_attendance", tableChecker("attendance", func(ctx context.Context) error {
		_, err := store.Attendance(ctx)
		return err
	}))
	s.RegisterChecker("table_candidate_areas", tableChecker("candidate_areas", func(ctx context.Context) error {
		_, err := store.CandidateAreas(ctx)
		return err
	}))
	if cache != nil {
		s.RegisterChecker("cache", s.checkCache)
	}

	return s
}

// RegisterChecker registers a custom health checker
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs all registered checks concurrently and aggregates the result.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	overallStatus := StatusHealthy
	allReady := true
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			allReady = false
		} else if result.Status == StatusDegraded && overallStatus != StatusUnhealthy {
			overallStatus = StatusDegraded
		}
	}

	return &ReadyResponse{
		Ready:     allReady,
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func tableChecker(name string, load func(ctx context.Context) error) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		result := CheckResult{Name: name, Timestamp: time.Now()}

		err := load(ctx)
		result.Duration = time.Since(start)
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = fmt.Sprintf("load failed: %v", err)
		} else {
			result.Status = StatusHealthy
			result.Message = "loaded"
		}
		return result
	}
}

// checkCache pings the answer cache. A dead cache degrades the service
// but does not take it out of rotation; answers just stop being reused.
func (s *Service) checkCache(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Name: "cache", Timestamp: time.Now()}

	err := s.cache.Ping()
	result.Duration = time.Since(start)
	if err != nil {
		result.Status = StatusDegraded
		result.Message = fmt.Sprintf("ping failed: %v", err)
		s.log.Warn("Cache health check failed", zap.Error(err))
	} else {
		result.Status = StatusHealthy
		result.Message = "connection ok"
	}
	return result
}
