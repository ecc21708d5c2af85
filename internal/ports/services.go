package ports

import (
	"context"
	"time"

	"github.com/conutlabs/chiefops/internal/domain"
)

// ComboParams parameterises one basket-engine run. Zero thresholds fall
// back to the configured defaults.
type ComboParams struct {
	Branch           string  `json:"branch"`
	TopK             int     `json:"top_k"`
	IncludeModifiers bool    `json:"include_modifiers"`
	MinSupport       float64 `json:"min_support"`
	MinConfidence    float64 `json:"min_confidence"`
	MinLift          float64 `json:"min_lift"`
}

type ComboService interface {
	Recommend(ctx context.Context, p ComboParams) (*domain.ComboResult, error)
	Compare(ctx context.Context, p ComboParams) (*domain.ComboComparison, error)
}

type ForecastService interface {
	ForecastBranchDemand(ctx context.Context, branch string, horizonMonths int) (*domain.ForecastResult, error)
}

type ExpansionService interface {
	EvaluateExpansion(ctx context.Context, branch string) (*domain.ExpansionResult, error)
}

type GrowthService interface {
	GrowthStrategy(ctx context.Context, branch string) (*domain.GrowthResult, error)
}

type StaffingService interface {
	RecommendStaffing(ctx context.Context, branch, shift string) (*domain.StaffingResult, error)
}

// Cache abstracts the answer cache. Redis-backed in deployment, in-memory
// fallback otherwise.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
