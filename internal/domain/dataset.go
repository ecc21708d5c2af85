package domain

// Row types for the tidy tables produced by the offline cleaning step.
// Each table is loaded once per process and treated as immutable.

// BasketLine is one item row inside a delivery basket.
type BasketLine struct {
	Branch    string  `json:"branch"`
	BasketID  string  `json:"basket_id"`
	Item      string  `json:"item"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	LineTotal float64 `json:"line_total"`
	Cancelled bool    `json:"cancelled"`
	Modifier  bool    `json:"modifier"`
}

// MonthlySales is one (branch, year, month) revenue total.
type MonthlySales struct {
	Branch string  `json:"branch"`
	Year   int     `json:"year"`
	Month  string  `json:"month"`
	Total  float64 `json:"total"`
}

// ChannelSummary is per-branch, per-channel customer traffic and sales.
type ChannelSummary struct {
	Branch         string  `json:"branch"`
	Channel        string  `json:"channel"`
	Customers      int     `json:"num_customers"`
	Sales          float64 `json:"sales"`
	AvgPerCustomer float64 `json:"avg_per_customer"`
}

// ItemSale is item-level quantity and revenue by branch and division.
type ItemSale struct {
	Branch      string  `json:"branch"`
	Division    string  `json:"division"`
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	TotalAmount float64 `json:"total_amount"`
}

// DivisionChannel is the channel split for one division at one branch.
// The Item column carries either a division name or the "ITEMS" grand total.
type DivisionChannel struct {
	Section  string  `json:"section"`
	Item     string  `json:"item"`
	Delivery float64 `json:"delivery"`
	Table    float64 `json:"table"`
	TakeAway float64 `json:"take_away"`
	Total    float64 `json:"total"`
}

// CustomerOrder is the delivery order history of one customer at one branch.
type CustomerOrder struct {
	Branch    string  `json:"branch"`
	Customer  string  `json:"customer"`
	NumOrders int     `json:"num_orders"`
	Total     float64 `json:"total"`
}

// AttendanceRecord is one staff shift entry.
type AttendanceRecord struct {
	Branch        string  `json:"branch"`
	EmployeeID    string  `json:"emp_id"`
	DurationHours float64 `json:"duration_hours"`
}

// CandidateArea is a curated candidate expansion location.
type CandidateArea struct {
	Area             string `json:"area"`
	Governorate      string `json:"governorate"`
	Population       int    `json:"estimated_population"`
	UniversityNearby bool   `json:"university_nearby"`
	FootTrafficTier  int    `json:"foot_traffic_tier"`
	RentTier         int    `json:"commercial_rent_tier"`
	CafeDensity      string `json:"estimated_cafe_density"`
	ChainPresent     bool   `json:"chain_present"`
}
