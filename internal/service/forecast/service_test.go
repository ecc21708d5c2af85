package forecast

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/mocks"
	"github.com/conutlabs/chiefops/pkg/config"
)

func testConfig() config.ForecastConfig {
	return config.ForecastConfig{
		DefaultHorizon:   3,
		AnomalyFloorPct:  0.15,
		TrendSlopeCutoff: 0.10,
		WMAWindow:        4,
	}
}

func monthly(branch string, months []string, totals []float64) []domain.MonthlySales {
	rows := make([]domain.MonthlySales, len(months))
	for i := range months {
		rows[i] = domain.MonthlySales{Branch: branch, Year: 2025, Month: months[i], Total: totals[i]}
	}
	return rows
}

func newTestService(rows []domain.MonthlySales) *Service {
	store := mocks.NewMockDatasetStore()
	store.MonthlySalesRows = rows
	return NewService(store, testConfig(), zap.NewNop())
}

func TestWorkedExampleSeries(t *testing.T) {
	rows := monthly("Salmiya", []string{"Jan", "Feb", "Mar", "Apr"}, []float64{100, 110, 121, 133.1})
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "Salmiya", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Forecasts) != 1 {
		t.Fatalf("expected 1 forecast point, got %d", len(result.Forecasts))
	}

	p := result.Forecasts[0]
	if p.Naive != 133.1 {
		t.Errorf("naive = %v, want 133.1", p.Naive)
	}
	if p.WMA != 121.54 {
		t.Errorf("wma = %v, want 121.54", p.WMA)
	}
	if p.Trend != 143.6 {
		t.Errorf("trend = %v, want 143.60", p.Trend)
	}
	if p.Ensemble != 132.75 {
		t.Errorf("ensemble = %v, want 132.75", p.Ensemble)
	}
	if result.Trend != domain.TrendStable {
		t.Errorf("trend label = %q, want stable (relative slope just under the cutoff)", result.Trend)
	}
	if result.Confidence != domain.ConfidenceLowMedium {
		t.Errorf("confidence = %q, want low-medium for 4 raw months", result.Confidence)
	}
	if result.AvgMoMGrowthPct == nil || *result.AvgMoMGrowthPct != 10.0 {
		t.Errorf("avg_mom_growth_pct = %v, want 10.0", result.AvgMoMGrowthPct)
	}
	if result.DemandIndex != 1.0 {
		t.Errorf("demand_index = %v, want 1.0 for the only branch", result.DemandIndex)
	}
}

func TestEnsembleIsMeanOfEstimators(t *testing.T) {
	rows := monthly("Salmiya", []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
		[]float64{90, 120, 80, 150, 110, 130})
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "Salmiya", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range result.Forecasts {
		want := (p.Naive + p.WMA + p.Trend) / 3
		if math.Abs(p.Ensemble-want) > 0.011 {
			t.Errorf("ensemble %v deviates from estimator mean %v", p.Ensemble, want)
		}
	}
}

func TestTrendForecastClampedToZero(t *testing.T) {
	rows := monthly("Salmiya", []string{"Jan", "Feb", "Mar"}, []float64{100, 50, 10})
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "Salmiya", 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range result.Forecasts {
		if p.Trend < 0 {
			t.Errorf("trend forecast went negative: %v", p.Trend)
		}
	}
	if result.Trend != domain.TrendDeclining {
		t.Errorf("trend label = %q, want declining", result.Trend)
	}
}

func TestAnomalyScreening(t *testing.T) {
	rows := monthly("Salmiya", []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
		[]float64{100, 105, 110, 2, 108, 112})
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "Salmiya", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AnomalyNotes) != 1 {
		t.Fatalf("expected 1 anomaly note, got %v", result.AnomalyNotes)
	}
	// raw history keeps the flagged point
	if len(result.History) != 6 {
		t.Errorf("history should keep all raw points, got %d", len(result.History))
	}
	// the flagged month must not drag the naive estimate down
	if result.Forecasts[0].Naive != 112 {
		t.Errorf("naive = %v, want last cleaned value 112", result.Forecasts[0].Naive)
	}
	if result.Confidence != domain.ConfidenceMedium {
		t.Errorf("confidence = %q, want medium for 6 raw months", result.Confidence)
	}
}

func TestShortSeriesSkipsScreening(t *testing.T) {
	rows := monthly("Salmiya", []string{"Jan", "Feb"}, []float64{100, 1})
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "Salmiya", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.AnomalyNotes) != 0 {
		t.Errorf("series under 3 points must not be screened: %v", result.AnomalyNotes)
	}
}

func TestUnknownBranchListsAvailable(t *testing.T) {
	rows := append(
		monthly("Salmiya", []string{"Jan"}, []float64{100}),
		monthly("Avenues", []string{"Jan"}, []float64{200})...)
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "Atlantis", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error == "" {
		t.Fatal("expected an error field for unknown branch")
	}
	if len(result.Forecasts) != 0 {
		t.Errorf("no forecasts should be populated, got %v", result.Forecasts)
	}
	if len(result.AvailableBranches) != 2 {
		t.Errorf("available_branches = %v, want both known branches", result.AvailableBranches)
	}
}

func TestBranchMatchIsCaseInsensitive(t *testing.T) {
	rows := monthly("Salmiya", []string{"Jan", "Feb", "Mar"}, []float64{100, 110, 120})
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "salmiya", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Error != "" {
		t.Fatalf("case-insensitive match failed: %v", result.Error)
	}
	if result.Branch != "Salmiya" {
		t.Errorf("branch should be canonicalized, got %q", result.Branch)
	}
}

func TestForecastMonthsWrapForward(t *testing.T) {
	rows := monthly("Salmiya", []string{"Sep", "Oct", "Nov"}, []float64{100, 110, 120})
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "Salmiya", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Dec", "Jan", "Feb"}
	for i, p := range result.Forecasts {
		if p.Month != want[i] {
			t.Errorf("forecast month %d = %q, want %q", i, p.Month, want[i])
		}
	}
}

func TestDemandIndexIsBranchShare(t *testing.T) {
	rows := append(
		monthly("Salmiya", []string{"Jan", "Feb", "Mar"}, []float64{100, 100, 100}),
		monthly("Avenues", []string{"Jan", "Feb", "Mar"}, []float64{300, 300, 300})...)
	svc := newTestService(rows)

	result, err := svc.ForecastBranchDemand(context.Background(), "Salmiya", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// flat series: every estimator predicts the constant, so the share is
	// exactly 100/(100+300)
	if result.DemandIndex != 0.25 {
		t.Errorf("demand_index = %v, want 0.25", result.DemandIndex)
	}
}
