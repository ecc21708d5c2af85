package csvtable

import (
	"github.com/conutlabs/chiefops/internal/domain"
)

// Per-table parsers. Column names follow the headers written by the
// offline cleaning step; see configs/config.yaml for the file names.

func parseBasketLines(t *table) []domain.BasketLine {
	out := make([]domain.BasketLine, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.BasketLine{
			Branch:    t.str(row, "branch"),
			BasketID:  t.str(row, "basket_id"),
			Item:      t.str(row, "item"),
			Qty:       t.float(row, "qty"),
			Price:     t.float(row, "price"),
			LineTotal: t.float(row, "line_total"),
			Cancelled: t.flag(row, "cancelled"),
			Modifier:  t.flag(row, "modifier"),
		})
	}
	return out
}

func parseMonthlySales(t *table) []domain.MonthlySales {
	out := make([]domain.MonthlySales, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.MonthlySales{
			Branch: t.str(row, "branch"),
			Year:   t.int(row, "year"),
			Month:  t.str(row, "month"),
			Total:  t.float(row, "total"),
		})
	}
	return out
}

func parseChannelSummaries(t *table) []domain.ChannelSummary {
	out := make([]domain.ChannelSummary, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.ChannelSummary{
			Branch:         t.str(row, "branch"),
			Channel:        t.str(row, "channel"),
			Customers:      t.int(row, "num_customers"),
			Sales:          t.float(row, "sales"),
			AvgPerCustomer: t.float(row, "avg_per_customer"),
		})
	}
	return out
}

func parseItemSales(t *table) []domain.ItemSale {
	out := make([]domain.ItemSale, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.ItemSale{
			Branch:      t.str(row, "branch"),
			Division:    t.str(row, "division"),
			Description: t.str(row, "description"),
			Qty:         t.float(row, "qty"),
			TotalAmount: t.float(row, "total_amount"),
		})
	}
	return out
}

func parseDivisionChannels(t *table) []domain.DivisionChannel {
	out := make([]domain.DivisionChannel, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.DivisionChannel{
			Section:  t.str(row, "section"),
			Item:     t.str(row, "item"),
			Delivery: t.float(row, "delivery"),
			Table:    t.float(row, "table"),
			TakeAway: t.float(row, "take_away"),
			Total:    t.float(row, "total"),
		})
	}
	return out
}

func parseCustomerOrders(t *table) []domain.CustomerOrder {
	out := make([]domain.CustomerOrder, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.CustomerOrder{
			Branch:    t.str(row, "branch"),
			Customer:  t.str(row, "customer"),
			NumOrders: t.int(row, "num_orders"),
			Total:     t.float(row, "total"),
		})
	}
	return out
}

func parseAttendance(t *table) []domain.AttendanceRecord {
	out := make([]domain.AttendanceRecord, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.AttendanceRecord{
			Branch:        t.str(row, "branch"),
			EmployeeID:    t.str(row, "emp_id"),
			DurationHours: t.float(row, "duration_hours"),
		})
	}
	return out
}

func parseCandidateAreas(t *table) []domain.CandidateArea {
	out := make([]domain.CandidateArea, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, domain.CandidateArea{
			Area:             t.str(row, "area"),
			Governorate:      t.str(row, "governorate"),
			Population:       t.int(row, "estimated_population"),
			UniversityNearby: t.flag(row, "university_nearby"),
			FootTrafficTier:  t.int(row, "foot_traffic_tier"),
			RentTier:         t.int(row, "commercial_rent_tier"),
			CafeDensity:      t.str(row, "estimated_cafe_density"),
			ChainPresent:     t.flag(row, "chain_present"),
		})
	}
	return out
}
