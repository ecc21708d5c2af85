package domain

// HistoryPoint is one observed month echoed back in a forecast response.
type HistoryPoint struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// ForecastPoint is one future month with the three estimator outputs and
// their ensemble average.
type ForecastPoint struct {
	Month    string  `json:"month"`
	Naive    float64 `json:"naive"`
	WMA      float64 `json:"wma"`
	Trend    float64 `json:"trend"`
	Ensemble float64 `json:"ensemble"`
}

// ForecastResult is the full response of the demand forecaster. An unknown
// branch yields Error plus AvailableBranches with no forecasts populated.
type ForecastResult struct {
	Branch            string          `json:"branch"`
	HorizonMonths     int             `json:"horizon_months"`
	Trend             string          `json:"trend,omitempty"`
	Confidence        string          `json:"confidence,omitempty"`
	DemandIndex       float64         `json:"demand_index"`
	AvgMoMGrowthPct   *float64        `json:"avg_mom_growth_pct"`
	History           []HistoryPoint  `json:"history,omitempty"`
	Forecasts         []ForecastPoint `json:"forecasts,omitempty"`
	AnomalyNotes      []string        `json:"anomaly_notes,omitempty"`
	Explanation       string          `json:"explanation,omitempty"`
	Error             string          `json:"error,omitempty"`
	AvailableBranches []string        `json:"available_branches,omitempty"`
}

// Trend labels produced by the forecaster.
const (
	TrendGrowing          = "growing"
	TrendStable           = "stable"
	TrendDeclining        = "declining"
	TrendInsufficientData = "insufficient data"
)

// Confidence labels based on raw history length.
const (
	ConfidenceLow       = "low"
	ConfidenceLowMedium = "low-medium"
	ConfidenceMedium    = "medium"
)
