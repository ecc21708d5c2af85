package domain

// Actions the intent classifier can resolve a question to.
const (
	ActionCombo     = "combo"
	ActionForecast  = "forecast"
	ActionStaffing  = "staffing"
	ActionExpansion = "expansion"
	ActionGrowth    = "growth"
	ActionUnknown   = "unknown"
)

// BranchAll is the sentinel that disables branch filtering.
const BranchAll = "all"

// Intent is the parsed parameter bundle extracted from a business question.
type Intent struct {
	Action          string   `json:"action"`
	Branch          string   `json:"branch,omitempty"`
	Shift           string   `json:"shift,omitempty"`
	HorizonMonths   int      `json:"horizon_months"`
	TopK            int      `json:"top_k"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// ToolResult is the standard envelope every dispatched engine call is
// wrapped in.
type ToolResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// MultiBranchData carries partial results for a fan-out request: one entry
// per branch that succeeded plus the errors of the branches that did not.
type MultiBranchData struct {
	Branches map[string]any `json:"branches"`
	Errors   []string       `json:"errors,omitempty"`
}

// AgentResponse is the structured answer to a free-text question.
type AgentResponse struct {
	ID         string  `json:"id"`
	Intent     string  `json:"intent"`
	Branch     string  `json:"branch,omitempty"`
	Data       any     `json:"data"`
	Error      string  `json:"error,omitempty"`
	ElapsedMS  float64 `json:"elapsed_ms"`
	Confidence float64 `json:"confidence"`
	Cached     bool    `json:"cached,omitempty"`
}
