package domain

// StaffingResult is the response of the staffing routine. The sizing model
// is not connected yet, so RecommendedStaff stays nil and the observed
// attendance figures provide context for the caller.
type StaffingResult struct {
	Branch            string   `json:"branch"`
	Shift             string   `json:"shift"`
	RecommendedStaff  *int     `json:"recommended_staff"`
	ObservedEmployees int      `json:"observed_employees"`
	ObservedHours     float64  `json:"observed_hours"`
	Explanation       string   `json:"explanation"`
	Error             string   `json:"error,omitempty"`
	AvailableBranches []string `json:"available_branches,omitempty"`
	AvailableShifts   []string `json:"available_shifts,omitempty"`
}
