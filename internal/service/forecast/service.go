package forecast

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/ports"
	"github.com/conutlabs/chiefops/pkg/config"
)

// Service forecasts branch demand from the monthly revenue series using
// three simple estimators averaged into an ensemble.
type Service struct {
	store ports.DatasetStore
	cfg   config.ForecastConfig
	log   *zap.Logger
}

func NewService(store ports.DatasetStore, cfg config.ForecastConfig, log *zap.Logger) *Service {
	return &Service{store: store, cfg: cfg, log: log}
}

// branchSeries returns the monthly totals of one branch ordered by year
// then calendar month.
func branchSeries(rows []domain.MonthlySales, branch string) []domain.MonthlySales {
	var series []domain.MonthlySales
	for _, r := range rows {
		if strings.EqualFold(r.Branch, branch) {
			series = append(series, r)
		}
	}
	domain.SortMonthly(series)
	return series
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// screenAnomalies flags points below the configured fraction of the series
// median as likely incomplete periods. The raw history keeps them; the
// estimators do not.
func (s *Service) screenAnomalies(series []domain.MonthlySales) (cleaned []float64, notes []string) {
	values := make([]float64, len(series))
	for i, r := range series {
		values[i] = r.Total
	}
	if len(values) < 3 {
		return values, nil
	}
	med := median(values)
	if med == 0 {
		return values, nil
	}
	floor := s.cfg.AnomalyFloorPct * med
	for i, v := range values {
		if v < floor {
			notes = append(notes, fmt.Sprintf(
				"%s %d total %.2f is below %.0f%% of the series median (%.2f); treated as an incomplete period and excluded from the forecast inputs.",
				series[i].Month, series[i].Year, v, s.cfg.AnomalyFloorPct*100, med))
			continue
		}
		cleaned = append(cleaned, v)
	}
	return cleaned, notes
}

// olsFit returns the least-squares slope and intercept of values against
// their zero-based index.
func olsFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	var sumX, sumY float64
	for i, v := range values {
		sumX += float64(i)
		sumY += v
	}
	meanX, meanY := sumX/n, sumY/n
	var num, den float64
	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, meanY
	}
	return num / den, meanY - (num/den)*meanX
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// wma is the weighted moving average over the most recent points, with
// integer weights 1..window, heaviest on the latest.
func (s *Service) wma(values []float64) float64 {
	window := s.cfg.WMAWindow
	if window > len(values) {
		window = len(values)
	}
	if window == 0 {
		return 0
	}
	tail := values[len(values)-window:]
	var weighted, weightSum float64
	for i, v := range tail {
		w := float64(i + 1)
		weighted += w * v
		weightSum += w
	}
	return weighted / weightSum
}

// ensembleForecast produces one forecast point per horizon step from the
// cleaned series.
func (s *Service) ensembleForecast(cleaned []float64, horizon int) []domain.ForecastPoint {
	if len(cleaned) == 0 {
		return nil
	}
	naive := cleaned[len(cleaned)-1]
	wma := s.wma(cleaned)
	slope, intercept := olsFit(cleaned)
	n := float64(len(cleaned))

	points := make([]domain.ForecastPoint, 0, horizon)
	for step := 0; step < horizon; step++ {
		trend := intercept + slope*(n+float64(step))
		if trend < 0 {
			trend = 0
		}
		points = append(points, domain.ForecastPoint{
			Naive:    domain.Round(naive, 2),
			WMA:      domain.Round(wma, 2),
			Trend:    domain.Round(trend, 2),
			Ensemble: domain.Round((naive+wma+trend)/3, 2),
		})
	}
	return points
}

func (s *Service) trendLabel(cleaned []float64) string {
	if len(cleaned) < 2 {
		return domain.TrendInsufficientData
	}
	slope, _ := olsFit(cleaned)
	m := mean(cleaned)
	if m == 0 {
		return domain.TrendStable
	}
	relative := slope / m
	switch {
	case relative > s.cfg.TrendSlopeCutoff:
		return domain.TrendGrowing
	case relative < -s.cfg.TrendSlopeCutoff:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func confidenceLabel(rawMonths int) string {
	switch {
	case rawMonths >= 6:
		return domain.ConfidenceMedium
	case rawMonths >= 4:
		return domain.ConfidenceLowMedium
	default:
		return domain.ConfidenceLow
	}
}

// avgMoMGrowth is the mean of successive percentage changes over the
// cleaned series, on the 0-100 scale. Nil when undefined.
func avgMoMGrowth(cleaned []float64) *float64 {
	if len(cleaned) < 2 {
		return nil
	}
	var changes []float64
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i-1] == 0 {
			continue
		}
		changes = append(changes, (cleaned[i]-cleaned[i-1])/cleaned[i-1]*100)
	}
	if len(changes) == 0 {
		return nil
	}
	g := domain.Round(mean(changes), 2)
	return &g
}

// demandIndex forecasts one month ahead for every branch independently and
// returns this branch's share of the cross-branch total.
func (s *Service) demandIndex(rows []domain.MonthlySales, branches []string, branch string) float64 {
	var total, own float64
	for _, b := range branches {
		cleaned, _ := s.screenAnomalies(branchSeries(rows, b))
		points := s.ensembleForecast(cleaned, 1)
		if len(points) == 0 {
			continue
		}
		total += points[0].Ensemble
		if strings.EqualFold(b, branch) {
			own = points[0].Ensemble
		}
	}
	if total == 0 {
		return 0
	}
	return domain.Round(own/total, 4)
}

func (s *Service) ForecastBranchDemand(ctx context.Context, branch string, horizonMonths int) (*domain.ForecastResult, error) {
	if horizonMonths <= 0 {
		horizonMonths = s.cfg.DefaultHorizon
	}
	if horizonMonths > 12 {
		horizonMonths = 12
	}

	rows, err := s.store.MonthlySales(ctx)
	if err != nil {
		return nil, err
	}
	branches, err := s.store.Branches(ctx)
	if err != nil {
		return nil, err
	}

	canonical := ""
	for _, b := range branches {
		if strings.EqualFold(b, branch) {
			canonical = b
			break
		}
	}
	if canonical == "" {
		return &domain.ForecastResult{
			Branch:            branch,
			HorizonMonths:     horizonMonths,
			Error:             fmt.Sprintf("unknown branch %q", branch),
			AvailableBranches: branches,
		}, nil
	}

	series := branchSeries(rows, canonical)
	history := make([]domain.HistoryPoint, len(series))
	for i, r := range series {
		history[i] = domain.HistoryPoint{
			Month: fmt.Sprintf("%s %d", r.Month, r.Year),
			Total: domain.Round(r.Total, 2),
		}
	}

	cleaned, notes := s.screenAnomalies(series)
	result := &domain.ForecastResult{
		Branch:          canonical,
		HorizonMonths:   horizonMonths,
		Confidence:      confidenceLabel(len(series)),
		Trend:           s.trendLabel(cleaned),
		AvgMoMGrowthPct: avgMoMGrowth(cleaned),
		History:         history,
		AnomalyNotes:    notes,
		DemandIndex:     s.demandIndex(rows, branches, canonical),
	}

	if len(cleaned) == 0 {
		result.Explanation = fmt.Sprintf("No usable monthly totals for branch %q after anomaly screening; nothing to forecast.", canonical)
		return result, nil
	}

	points := s.ensembleForecast(cleaned, horizonMonths)

	// Forecast month names wrap forward cyclically from the last observed
	// calendar month, year-independent.
	lastIdx := -1
	if len(series) > 0 {
		lastIdx = domain.MonthIndex(series[len(series)-1].Month)
	}
	for i := range points {
		if lastIdx >= 0 {
			points[i].Month = domain.MonthNames[(lastIdx+1+i)%12]
		} else {
			points[i].Month = fmt.Sprintf("month +%d", i+1)
		}
	}
	result.Forecasts = points

	result.Explanation = fmt.Sprintf(
		"Forecast for branch %q over %d month(s) from %d observed month(s) (%d used after screening). Trend is %s with %s confidence. Next month ensemble estimate: %.2f.",
		canonical, horizonMonths, len(series), len(cleaned), result.Trend, result.Confidence, points[0].Ensemble)

	s.log.Debug("forecast computed",
		zap.String("branch", canonical),
		zap.Int("horizon", horizonMonths),
		zap.String("trend", result.Trend),
	)
	return result, nil
}
