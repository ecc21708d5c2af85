package mocks

import (
	"context"
	"sort"

	"github.com/conutlabs/chiefops/internal/domain"
)

// MockDatasetStore is a mock implementation of the DatasetStore interface.
// Populate the row slices directly, or set a Func field to override a call.
type MockDatasetStore struct {
	BasketLineRows     []domain.BasketLine
	MonthlySalesRows   []domain.MonthlySales
	ChannelSummaryRows []domain.ChannelSummary
	ItemSaleRows       []domain.ItemSale
	DivisionRows       []domain.DivisionChannel
	CustomerOrderRows  []domain.CustomerOrder
	AttendanceRows     []domain.AttendanceRecord
	CandidateAreaRows  []domain.CandidateArea

	BasketLinesFunc      func(ctx context.Context) ([]domain.BasketLine, error)
	MonthlySalesFunc     func(ctx context.Context) ([]domain.MonthlySales, error)
	ChannelSummariesFunc func(ctx context.Context) ([]domain.ChannelSummary, error)
	ItemSalesFunc        func(ctx context.Context) ([]domain.ItemSale, error)
	DivisionChannelsFunc func(ctx context.Context) ([]domain.DivisionChannel, error)
	CustomerOrdersFunc   func(ctx context.Context) ([]domain.CustomerOrder, error)
	AttendanceFunc       func(ctx context.Context) ([]domain.AttendanceRecord, error)
	CandidateAreasFunc   func(ctx context.Context) ([]domain.CandidateArea, error)
	BranchesFunc         func(ctx context.Context) ([]string, error)
}

func NewMockDatasetStore() *MockDatasetStore {
	return &MockDatasetStore{}
}

func (m *MockDatasetStore) BasketLines(ctx context.Context) ([]domain.BasketLine, error) {
	if m.BasketLinesFunc != nil {
		return m.BasketLinesFunc(ctx)
	}
	return m.BasketLineRows, nil
}

func (m *MockDatasetStore) MonthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	if m.MonthlySalesFunc != nil {
		return m.MonthlySalesFunc(ctx)
	}
	return m.MonthlySalesRows, nil
}

func (m *MockDatasetStore) ChannelSummaries(ctx context.Context) ([]domain.ChannelSummary, error) {
	if m.ChannelSummariesFunc != nil {
		return m.ChannelSummariesFunc(ctx)
	}
	return m.ChannelSummaryRows, nil
}

func (m *MockDatasetStore) ItemSales(ctx context.Context) ([]domain.ItemSale, error) {
	if m.ItemSalesFunc != nil {
		return m.ItemSalesFunc(ctx)
	}
	return m.ItemSaleRows, nil
}

func (m *MockDatasetStore) DivisionChannels(ctx context.Context) ([]domain.DivisionChannel, error) {
	if m.DivisionChannelsFunc != nil {
		return m.DivisionChannelsFunc(ctx)
	}
	return m.DivisionRows, nil
}

func (m *MockDatasetStore) CustomerOrders(ctx context.Context) ([]domain.CustomerOrder, error) {
	if m.CustomerOrdersFunc != nil {
		return m.CustomerOrdersFunc(ctx)
	}
	return m.CustomerOrderRows, nil
}

func (m *MockDatasetStore) Attendance(ctx context.Context) ([]domain.AttendanceRecord, error) {
	if m.AttendanceFunc != nil {
		return m.AttendanceFunc(ctx)
	}
	return m.AttendanceRows, nil
}

func (m *MockDatasetStore) CandidateAreas(ctx context.Context) ([]domain.CandidateArea, error) {
	if m.CandidateAreasFunc != nil {
		return m.CandidateAreasFunc(ctx)
	}
	return m.CandidateAreaRows, nil
}

// Branches mirrors the real store: sorted unique branch names from the
// monthly sales rows.
func (m *MockDatasetStore) Branches(ctx context.Context) ([]string, error) {
	if m.BranchesFunc != nil {
		return m.BranchesFunc(ctx)
	}
	seen := make(map[string]struct{})
	var names []string
	for _, r := range m.MonthlySalesRows {
		if _, ok := seen[r.Branch]; !ok && r.Branch != "" {
			seen[r.Branch] = struct{}{}
			names = append(names, r.Branch)
		}
	}
	sort.Strings(names)
	return names, nil
}
