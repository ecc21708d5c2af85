package staffing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/ports"
)

// Shifts the routine accepts, in day order.
var validShifts = []string{"morning", "midday", "evening"}

// Service validates staffing requests and reports the observed attendance
// context. The per-shift sizing model is not wired in yet; callers get
// recommended_staff null until it lands.
// TODO: connect the shift sizing model once attendance exports carry
// per-shift timestamps.
type Service struct {
	store ports.DatasetStore
	log   *zap.Logger
}

func NewService(store ports.DatasetStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) RecommendStaffing(ctx context.Context, branch, shift string) (*domain.StaffingResult, error) {
	records, err := s.store.Attendance(ctx)
	if err != nil {
		return nil, err
	}

	shift = strings.ToLower(strings.TrimSpace(shift))
	validShift := false
	for _, v := range validShifts {
		if shift == v {
			validShift = true
			break
		}
	}
	if !validShift {
		return &domain.StaffingResult{
			Branch:          branch,
			Shift:           shift,
			Error:           fmt.Sprintf("unsupported shift %q", shift),
			AvailableShifts: validShifts,
		}, nil
	}

	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Branch != "" {
			seen[r.Branch] = struct{}{}
		}
	}
	branches := make([]string, 0, len(seen))
	for b := range seen {
		branches = append(branches, b)
	}
	sort.Strings(branches)

	canonical := ""
	for _, b := range branches {
		if strings.EqualFold(b, branch) {
			canonical = b
			break
		}
	}
	if canonical == "" {
		return &domain.StaffingResult{
			Branch:            branch,
			Shift:             shift,
			Error:             fmt.Sprintf("unknown branch %q in attendance data", branch),
			AvailableBranches: branches,
		}, nil
	}

	employees := make(map[string]struct{})
	var hours float64
	for _, r := range records {
		if r.Branch != canonical {
			continue
		}
		employees[r.EmployeeID] = struct{}{}
		hours += r.DurationHours
	}

	s.log.Debug("staffing context assembled",
		zap.String("branch", canonical),
		zap.String("shift", shift),
		zap.Int("employees", len(employees)),
	)
	return &domain.StaffingResult{
		Branch:            canonical,
		Shift:             shift,
		RecommendedStaff:  nil,
		ObservedEmployees: len(employees),
		ObservedHours:     domain.Round(hours, 2),
		Explanation: fmt.Sprintf(
			"Staff sizing for the %s shift is not modeled yet. For context, %d employees logged %.0f hours at %s over the attendance period.",
			shift, len(employees), hours, canonical),
	}, nil
}
