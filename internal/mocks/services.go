package mocks

import (
	"context"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/ports"
)

// Func-field mocks for the five analytics engines.

type MockComboService struct {
	RecommendFunc func(ctx context.Context, p ports.ComboParams) (*domain.ComboResult, error)
	CompareFunc   func(ctx context.Context, p ports.ComboParams) (*domain.ComboComparison, error)
}

func (m *MockComboService) Recommend(ctx context.Context, p ports.ComboParams) (*domain.ComboResult, error) {
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, p)
	}
	return &domain.ComboResult{Branch: p.Branch}, nil
}

func (m *MockComboService) Compare(ctx context.Context, p ports.ComboParams) (*domain.ComboComparison, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, p)
	}
	return &domain.ComboComparison{Branch: p.Branch}, nil
}

type MockForecastService struct {
	ForecastFunc func(ctx context.Context, branch string, horizonMonths int) (*domain.ForecastResult, error)
}

func (m *MockForecastService) ForecastBranchDemand(ctx context.Context, branch string, horizonMonths int) (*domain.ForecastResult, error) {
	if m.ForecastFunc != nil {
		return m.ForecastFunc(ctx, branch, horizonMonths)
	}
	return &domain.ForecastResult{Branch: branch, HorizonMonths: horizonMonths}, nil
}

type MockExpansionService struct {
	EvaluateFunc func(ctx context.Context, branch string) (*domain.ExpansionResult, error)
}

func (m *MockExpansionService) EvaluateExpansion(ctx context.Context, branch string) (*domain.ExpansionResult, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, branch)
	}
	return &domain.ExpansionResult{Verdict: domain.VerdictCaution}, nil
}

type MockGrowthService struct {
	GrowthFunc func(ctx context.Context, branch string) (*domain.GrowthResult, error)
}

func (m *MockGrowthService) GrowthStrategy(ctx context.Context, branch string) (*domain.GrowthResult, error) {
	if m.GrowthFunc != nil {
		return m.GrowthFunc(ctx, branch)
	}
	return &domain.GrowthResult{Branch: branch}, nil
}

type MockStaffingService struct {
	RecommendFunc func(ctx context.Context, branch, shift string) (*domain.StaffingResult, error)
}

func (m *MockStaffingService) RecommendStaffing(ctx context.Context, branch, shift string) (*domain.StaffingResult, error) {
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, branch, shift)
	}
	return &domain.StaffingResult{Branch: branch, Shift: shift}, nil
}
