package domain

// HeroItem is a top seller by quantity within a beverage division.
type HeroItem struct {
	Item    string  `json:"item"`
	Qty     int     `json:"qty"`
	Revenue float64 `json:"revenue"`
	Rank    int     `json:"rank"`
}

// Underperformer is an item selling well elsewhere but lagging at this
// branch by at least the configured volume gap.
type Underperformer struct {
	Item       string  `json:"item"`
	YourQty    int     `json:"your_qty"`
	BestBranch string  `json:"best_branch"`
	BestQty    int     `json:"best_qty"`
	GapPct     float64 `json:"gap_pct"`
}

// BundlePair is a dessert-beverage co-purchase observed in basket data.
type BundlePair struct {
	Dessert  string `json:"dessert"`
	Beverage string `json:"beverage"`
	Count    int    `json:"co_occurrence_count"`
}

// RevenueMomentum summarises the recent month-over-month revenue direction.
type RevenueMomentum struct {
	MonthsAvailable int     `json:"months_available"`
	LatestMonth     string  `json:"latest_month"`
	MoMGrowthPct    float64 `json:"mom_growth_pct"`
	Trend           string  `json:"trend"`
}

// ChannelMetric is customer traffic and avg ticket for one channel.
type ChannelMetric struct {
	Channel   string  `json:"channel"`
	Customers int     `json:"customers"`
	AvgTicket float64 `json:"avg_ticket"`
}

// CustomerMetrics aggregates traffic and ticket size for a branch.
type CustomerMetrics struct {
	TotalCustomers int             `json:"total_customers"`
	TotalSales     float64         `json:"total_sales"`
	AvgTicket      float64         `json:"avg_ticket"`
	Channels       []ChannelMetric `json:"channels"`
}

// DeliveryRepeat summarises delivery repeat-order behaviour.
type DeliveryRepeat struct {
	DeliveryCustomers    int     `json:"delivery_customers"`
	RepeatCustomers      int     `json:"repeat_customers"`
	RepeatRatePct        float64 `json:"repeat_rate_pct"`
	AvgOrdersPerCustomer float64 `json:"avg_orders_per_customer"`
}

// StaffingCapacity relates staff hours to beverage throughput.
type StaffingCapacity struct {
	TotalStaffHours  float64 `json:"total_staff_hours"`
	UniqueEmployees  int     `json:"unique_employees"`
	BevPerStaffHour  float64 `json:"bev_per_staff_hour"`
	Insight          string  `json:"insight"`
}

// GrowthProfile is the full beverage diagnostic for one branch.
type GrowthProfile struct {
	Branch                 string           `json:"branch"`
	BeveragePenetrationPct float64          `json:"beverage_penetration_pct"`
	PenetrationRank        int              `json:"penetration_rank"`
	CoffeeQty              int              `json:"coffee_qty"`
	CoffeeRevenue          float64          `json:"coffee_revenue"`
	MilkshakeQty           int              `json:"milkshake_qty"`
	MilkshakeRevenue       float64          `json:"milkshake_revenue"`
	FrappeQty              int              `json:"frappe_qty"`
	FrappeRevenue          float64          `json:"frappe_revenue"`
	HeroCoffeeItems        []HeroItem       `json:"hero_coffee_items"`
	HeroMilkshakeItems     []HeroItem       `json:"hero_milkshake_items"`
	UnderperformingItems   []Underperformer `json:"underperforming_items"`
	ChannelInsight         string           `json:"channel_insight"`
	BundleRecommendations  []BundlePair     `json:"bundle_recommendations"`
	RevenueMomentum        RevenueMomentum  `json:"revenue_momentum"`
	CustomerMetrics        CustomerMetrics  `json:"customer_metrics"`
	DeliveryRepeatRate     DeliveryRepeat   `json:"delivery_repeat_rate"`
	StaffingCapacity       StaffingCapacity `json:"staffing_capacity"`
	Actions                []string         `json:"actions"`
}

// GrowthResult is the response of the growth analyzer for one branch or
// all. An unknown branch populates Error and AvailableBranches instead.
type GrowthResult struct {
	Branch            string          `json:"branch"`
	Branches          []GrowthProfile `json:"branches"`
	Explanation       string          `json:"explanation"`
	Error             string          `json:"error,omitempty"`
	AvailableBranches []string        `json:"available_branches,omitempty"`
}
