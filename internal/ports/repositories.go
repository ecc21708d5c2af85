package ports

import (
	"context"

	"github.com/conutlabs/chiefops/internal/domain"
)

// DatasetStore provides read access to the static table snapshots. Each
// table loads lazily on first access, exactly once per process, and the
// returned slices must be treated as immutable.
type DatasetStore interface {
	BasketLines(ctx context.Context) ([]domain.BasketLine, error)
	MonthlySales(ctx context.Context) ([]domain.MonthlySales, error)
	ChannelSummaries(ctx context.Context) ([]domain.ChannelSummary, error)
	ItemSales(ctx context.Context) ([]domain.ItemSale, error)
	DivisionChannels(ctx context.Context) ([]domain.DivisionChannel, error)
	CustomerOrders(ctx context.Context) ([]domain.CustomerOrder, error)
	Attendance(ctx context.Context) ([]domain.AttendanceRecord, error)
	CandidateAreas(ctx context.Context) ([]domain.CandidateArea, error)

	// Branches lists the canonical branch names, sorted, derived from the
	// monthly sales table.
	Branches(ctx context.Context) ([]string, error)
}
