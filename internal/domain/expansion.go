package domain

// ScoreDimension enumerates the six scorecard dimensions. The Dimensions
// map of a Scorecard is keyed by this closed set, never arbitrary strings.
type ScoreDimension string

const (
	DimensionDemandTrend        ScoreDimension = "demand_trend"
	DimensionBranchStrength     ScoreDimension = "branch_strength"
	DimensionAvgTicketHealth    ScoreDimension = "avg_ticket_health"
	DimensionRepeatCustomer     ScoreDimension = "repeat_customer"
	DimensionProductMix         ScoreDimension = "product_mix"
	DimensionBeverageAttachment ScoreDimension = "beverage_attachment"
)

// ScoreDimensions lists all six dimensions in weight-table order.
var ScoreDimensions = []ScoreDimension{
	DimensionDemandTrend,
	DimensionBranchStrength,
	DimensionAvgTicketHealth,
	DimensionRepeatCustomer,
	DimensionProductMix,
	DimensionBeverageAttachment,
}

// ScoreDetail carries the raw metrics behind a dimension score. Only the
// fields relevant to the dimension are populated.
type ScoreDetail struct {
	MoMGrowthRates  []float64 `json:"mom_growth_rates,omitempty"`
	AvgMoMGrowthPct *float64  `json:"avg_mom_growth_pct,omitempty"`
	TotalRevenue    *float64  `json:"total_revenue,omitempty"`
	AvgTicket       *float64  `json:"avg_ticket,omitempty"`
	Channels        *int      `json:"channels,omitempty"`
	ChannelList     []string  `json:"channel_list,omitempty"`
	TotalCustomers  *int      `json:"total_customers,omitempty"`
	RepeatCustomers *int      `json:"repeat_customers,omitempty"`
	RepeatPct       *float64  `json:"repeat_pct,omitempty"`
	UniqueSKUs      *int      `json:"unique_skus,omitempty"`
	Divisions       *int      `json:"divisions,omitempty"`
	Herfindahl      *float64  `json:"herfindahl,omitempty"`
	BeverageRevenue *float64  `json:"beverage_revenue,omitempty"`
	ItemsRevenue    *float64  `json:"items_revenue,omitempty"`
	BevPct          *float64  `json:"bev_pct,omitempty"`
	Note            string    `json:"note,omitempty"`
}

// DimensionScore is one 0-100 dimension score with its detail payload.
type DimensionScore struct {
	Score  float64     `json:"score"`
	Detail ScoreDetail `json:"detail"`
}

// Scorecard is the per-branch record of six dimension scores and their
// fixed-weight composite.
type Scorecard struct {
	Branch         string                           `json:"branch"`
	Dimensions     map[ScoreDimension]DimensionScore `json:"dimensions"`
	CompositeScore float64                          `json:"composite_score"`
}

// ArchetypeProfile is the replicable operating profile of the
// highest-composite branch.
type ArchetypeProfile struct {
	Branch         string             `json:"branch"`
	CompositeScore float64            `json:"composite_score"`
	ChannelMix     map[string]float64 `json:"channel_mix"`
	TopCategories  map[string]float64 `json:"top_categories"`
	BeveragePct    float64            `json:"beverage_pct"`
	Recommendation string             `json:"recommendation"`
}

// CandidateLocation is a scored expansion candidate with templated
// pros/cons.
type CandidateLocation struct {
	Area             string   `json:"area"`
	Governorate      string   `json:"governorate"`
	Score            float64  `json:"score"`
	Population       int      `json:"population"`
	UniversityNearby bool     `json:"university_nearby"`
	FootTrafficTier  int      `json:"foot_traffic_tier"`
	RentTier         int      `json:"rent_tier"`
	CafeDensity      string   `json:"cafe_density"`
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
}

// Expansion verdicts against the fixed composite thresholds.
const (
	VerdictGo      = "GO"
	VerdictCaution = "CAUTION"
	VerdictNoGo    = "NO-GO"
)

// ExpansionResult is the full response of the expansion evaluator. An
// unresolvable branch request populates Error, AvailableBranches and
// DidYouMean instead.
type ExpansionResult struct {
	Verdict            string              `json:"verdict,omitempty"`
	VerdictDetail      string              `json:"verdict_detail,omitempty"`
	BestArchetype      *ArchetypeProfile   `json:"best_archetype,omitempty"`
	Scorecards         []Scorecard         `json:"scorecards,omitempty"`
	CandidateLocations []CandidateLocation `json:"candidate_locations"`
	Risks              []string            `json:"risks,omitempty"`
	Explanation        string              `json:"explanation,omitempty"`
	Error              string              `json:"error,omitempty"`
	AvailableBranches  []string            `json:"available_branches,omitempty"`
	DidYouMean         []string            `json:"did_you_mean,omitempty"`
}
