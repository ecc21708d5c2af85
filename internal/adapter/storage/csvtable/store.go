package csvtable

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/observability/telemetry"
	"github.com/conutlabs/chiefops/pkg/config"
)

// lazy memoizes one table load. The first caller pays the parse cost,
// later callers share the slice, and a load error is sticky so a broken
// snapshot fails every request the same way.
type lazy[T any] struct {
	once sync.Once
	rows []T
	err  error
}

func (l *lazy[T]) get(load func() ([]T, error)) ([]T, error) {
	l.once.Do(func() {
		l.rows, l.err = load()
	})
	return l.rows, l.err
}

// Store serves the static table snapshots from CSV files on disk.
type Store struct {
	cfg config.DataConfig
	log *zap.Logger

	baskets    lazy[domain.BasketLine]
	monthly    lazy[domain.MonthlySales]
	channels   lazy[domain.ChannelSummary]
	items      lazy[domain.ItemSale]
	divisions  lazy[domain.DivisionChannel]
	customers  lazy[domain.CustomerOrder]
	attendance lazy[domain.AttendanceRecord]
	areas      lazy[domain.CandidateArea]
	branches   lazy[string]
}

func NewStore(cfg config.DataConfig, log *zap.Logger) *Store {
	return &Store{cfg: cfg, log: log}
}

func loadRows[T any](s *Store, name, file string, required []string, parse func(*table) []T) ([]T, error) {
	path := filepath.Join(s.cfg.Dir, file)
	t, err := readTable(path, name, required)
	if err != nil {
		telemetry.DatasetLoads.WithLabelValues(name, "error").Inc()
		s.log.Error("dataset load failed", zap.String("table", name), zap.Error(err))
		return nil, err
	}
	rows := parse(t)
	telemetry.DatasetLoads.WithLabelValues(name, "ok").Inc()
	s.log.Info("dataset loaded", zap.String("table", name), zap.Int("rows", len(rows)))
	return rows, nil
}

func (s *Store) BasketLines(ctx context.Context) ([]domain.BasketLine, error) {
	return s.baskets.get(func() ([]domain.BasketLine, error) {
		return loadRows(s, "basket_lines", s.cfg.BasketLines,
			[]string{"branch", "basket_id", "item", "qty", "price", "line_total", "cancelled", "modifier"}, parseBasketLines)
	})
}

func (s *Store) MonthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	return s.monthly.get(func() ([]domain.MonthlySales, error) {
		return loadRows(s, "monthly_sales", s.cfg.MonthlySales,
			[]string{"branch", "year", "month", "total"}, parseMonthlySales)
	})
}

func (s *Store) ChannelSummaries(ctx context.Context) ([]domain.ChannelSummary, error) {
	return s.channels.get(func() ([]domain.ChannelSummary, error) {
		return loadRows(s, "channel_summary", s.cfg.ChannelSummary,
			[]string{"branch", "channel", "num_customers", "sales"}, parseChannelSummaries)
	})
}

func (s *Store) ItemSales(ctx context.Context) ([]domain.ItemSale, error) {
	return s.items.get(func() ([]domain.ItemSale, error) {
		return loadRows(s, "item_sales", s.cfg.ItemSales,
			[]string{"branch", "division", "description", "qty", "total_amount"}, parseItemSales)
	})
}

func (s *Store) DivisionChannels(ctx context.Context) ([]domain.DivisionChannel, error) {
	return s.divisions.get(func() ([]domain.DivisionChannel, error) {
		return loadRows(s, "division_channel", s.cfg.DivisionChannel,
			[]string{"section", "item", "delivery", "table", "take_away", "total"}, parseDivisionChannels)
	})
}

func (s *Store) CustomerOrders(ctx context.Context) ([]domain.CustomerOrder, error) {
	return s.customers.get(func() ([]domain.CustomerOrder, error) {
		return loadRows(s, "customer_orders", s.cfg.CustomerOrders,
			[]string{"branch", "customer", "num_orders", "total"}, parseCustomerOrders)
	})
}

func (s *Store) Attendance(ctx context.Context) ([]domain.AttendanceRecord, error) {
	return s.attendance.get(func() ([]domain.AttendanceRecord, error) {
		return loadRows(s, "attendance", s.cfg.Attendance,
			[]string{"branch", "emp_id", "duration_hours"}, parseAttendance)
	})
}

func (s *Store) CandidateAreas(ctx context.Context) ([]domain.CandidateArea, error) {
	return s.areas.get(func() ([]domain.CandidateArea, error) {
		return loadRows(s, "candidate_areas", s.cfg.CandidateAreas,
			[]string{"area", "governorate", "estimated_population", "university_nearby",
				"foot_traffic_tier", "commercial_rent_tier", "estimated_cafe_density", "chain_present"},
			parseCandidateAreas)
	})
}

// Branches derives the canonical branch list from the monthly sales table,
// which covers every branch including ones with no delivery baskets.
func (s *Store) Branches(ctx context.Context) ([]string, error) {
	return s.branches.get(func() ([]string, error) {
		rows, err := s.MonthlySales(ctx)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{})
		var names []string
		for _, r := range rows {
			if r.Branch == "" {
				continue
			}
			if _, ok := seen[r.Branch]; !ok {
				seen[r.Branch] = struct{}{}
				names = append(names, r.Branch)
			}
		}
		sort.Strings(names)
		return names, nil
	})
}
