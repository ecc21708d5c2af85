package growth

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/ports"
	"github.com/conutlabs/chiefops/pkg/config"
)

// Service builds the per-branch beverage diagnostic and turns it into a
// priority-ordered action list.
type Service struct {
	store ports.DatasetStore
	cfg   config.GrowthConfig
	log   *zap.Logger
}

func NewService(store ports.DatasetStore, cfg config.GrowthConfig, log *zap.Logger) *Service {
	return &Service{store: store, cfg: cfg, log: log}
}

type datasets struct {
	branches   []string
	monthly    []domain.MonthlySales
	channels   []domain.ChannelSummary
	divisions  []domain.DivisionChannel
	items      []domain.ItemSale
	customers  []domain.CustomerOrder
	attendance []domain.AttendanceRecord
	baskets    []domain.BasketLine
}

func (s *Service) loadAll(ctx context.Context) (*datasets, error) {
	d := &datasets{}
	var err error
	if d.branches, err = s.store.Branches(ctx); err != nil {
		return nil, err
	}
	if d.monthly, err = s.store.MonthlySales(ctx); err != nil {
		return nil, err
	}
	if d.channels, err = s.store.ChannelSummaries(ctx); err != nil {
		return nil, err
	}
	if d.divisions, err = s.store.DivisionChannels(ctx); err != nil {
		return nil, err
	}
	if d.items, err = s.store.ItemSales(ctx); err != nil {
		return nil, err
	}
	if d.customers, err = s.store.CustomerOrders(ctx); err != nil {
		return nil, err
	}
	if d.attendance, err = s.store.Attendance(ctx); err != nil {
		return nil, err
	}
	if d.baskets, err = s.store.BasketLines(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func branchItems(items []domain.ItemSale, branch string) []domain.ItemSale {
	var out []domain.ItemSale
	for _, it := range items {
		if strings.EqualFold(it.Branch, branch) {
			out = append(out, it)
		}
	}
	return out
}

// penetration returns the beverage revenue share per branch, 0-100.
func penetration(items []domain.ItemSale, branches []string) map[string]float64 {
	out := make(map[string]float64, len(branches))
	for _, b := range branches {
		var bev, total float64
		for _, it := range branchItems(items, b) {
			total += it.TotalAmount
			if domain.IsBeverageDivision(it.Division) {
				bev += it.TotalAmount
			}
		}
		if total > 0 {
			out[b] = domain.Round(bev/total*100, 2)
		}
	}
	return out
}

func divisionTotals(items []domain.ItemSale, keyword string) (qty int, revenue float64) {
	for _, it := range items {
		if strings.Contains(strings.ToUpper(it.Division), keyword) {
			qty += int(it.Qty)
			revenue += it.TotalAmount
		}
	}
	return qty, domain.Round(revenue, 2)
}

func heroItems(items []domain.ItemSale, keyword string, top int) []domain.HeroItem {
	var candidates []domain.ItemSale
	for _, it := range items {
		if strings.Contains(strings.ToUpper(it.Division), keyword) {
			candidates = append(candidates, it)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Qty != candidates[j].Qty {
			return candidates[i].Qty > candidates[j].Qty
		}
		return candidates[i].Description < candidates[j].Description
	})
	if len(candidates) > top {
		candidates = candidates[:top]
	}
	heroes := make([]domain.HeroItem, len(candidates))
	for i, it := range candidates {
		heroes[i] = domain.HeroItem{
			Item:    it.Description,
			Qty:     int(it.Qty),
			Revenue: domain.Round(it.TotalAmount, 2),
			Rank:    i + 1,
		}
	}
	return heroes
}

// underperformers finds beverage items this branch sells far below the
// best-selling branch. The volume floor keeps one-off items out.
func (s *Service) underperformers(items []domain.ItemSale, branch string) []domain.Underperformer {
	type best struct {
		branch string
		qty    int
	}
	bestByItem := make(map[string]best)
	ownQty := make(map[string]int)
	for _, it := range items {
		if !domain.IsBeverageDivision(it.Division) {
			continue
		}
		q := int(it.Qty)
		if strings.EqualFold(it.Branch, branch) {
			ownQty[it.Description] += q
			continue
		}
		if b, ok := bestByItem[it.Description]; !ok || q > b.qty {
			bestByItem[it.Description] = best{branch: it.Branch, qty: q}
		}
	}

	var out []domain.Underperformer
	for item, own := range ownQty {
		b, ok := bestByItem[item]
		if !ok || b.qty <= s.cfg.UnderperformerFloor || b.qty <= own {
			continue
		}
		gap := float64(b.qty-own) / float64(b.qty) * 100
		if gap < s.cfg.UnderperformerGapPct {
			continue
		}
		out = append(out, domain.Underperformer{
			Item:       item,
			YourQty:    own,
			BestBranch: b.branch,
			BestQty:    b.qty,
			GapPct:     domain.Round(gap, 2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GapPct != out[j].GapPct {
			return out[i].GapPct > out[j].GapPct
		}
		return out[i].Item < out[j].Item
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// channelInsight summarises how the branch's beverage divisions split
// across delivery, table and take-away, with a nudge for any channel
// that sells no drinks at all.
func channelInsight(divisions []domain.DivisionChannel, branch string) string {
	var delivery, table, takeaway float64
	found := false
	for _, d := range divisions {
		if !strings.EqualFold(d.Section, branch) || !domain.IsBeverageDivision(d.Item) {
			continue
		}
		found = true
		delivery += d.Delivery
		table += d.Table
		takeaway += d.TakeAway
	}
	if !found {
		return "No channel data available for beverages at this branch."
	}
	total := delivery + table + takeaway
	if total == 0 {
		return "No beverage revenue recorded across any channel."
	}

	var parts []string
	if delivery > 0 {
		parts = append(parts, fmt.Sprintf("Delivery: %.0f%%", delivery/total*100))
	}
	if table > 0 {
		parts = append(parts, fmt.Sprintf("Table: %.0f%%", table/total*100))
	}
	if takeaway > 0 {
		parts = append(parts, fmt.Sprintf("Take-away: %.0f%%", takeaway/total*100))
	}
	insight := fmt.Sprintf("Channel mix: %s.", strings.Join(parts, ", "))
	if delivery == 0 {
		insight += " No beverage delivery sales; consider enabling delivery for drinks."
	}
	if takeaway == 0 {
		insight += " No take-away beverage sales; consider promoting grab-and-go beverages."
	}
	return insight
}

func customerMetrics(channels []domain.ChannelSummary, branch string) domain.CustomerMetrics {
	var metrics domain.CustomerMetrics
	for _, c := range channels {
		if !strings.EqualFold(c.Branch, branch) {
			continue
		}
		metrics.TotalCustomers += c.Customers
		metrics.TotalSales += c.Sales
		avg := 0.0
		if c.Customers > 0 {
			avg = c.Sales / float64(c.Customers)
		}
		metrics.Channels = append(metrics.Channels, domain.ChannelMetric{
			Channel:   c.Channel,
			Customers: c.Customers,
			AvgTicket: domain.Round(avg, 2),
		})
	}
	sort.Slice(metrics.Channels, func(i, j int) bool {
		return metrics.Channels[i].Channel < metrics.Channels[j].Channel
	})
	metrics.TotalSales = domain.Round(metrics.TotalSales, 2)
	if metrics.TotalCustomers > 0 {
		metrics.AvgTicket = domain.Round(metrics.TotalSales/float64(metrics.TotalCustomers), 2)
	}
	return metrics
}

// bundles counts dessert-beverage co-occurrence in this branch's baskets.
func bundles(baskets []domain.BasketLine, branch string) []domain.BundlePair {
	perBasket := make(map[string]map[string]struct{})
	for _, l := range baskets {
		if !strings.EqualFold(l.Branch, branch) || l.Cancelled || l.Qty <= 0 {
			continue
		}
		if perBasket[l.BasketID] == nil {
			perBasket[l.BasketID] = make(map[string]struct{})
		}
		perBasket[l.BasketID][l.Item] = struct{}{}
	}

	counts := make(map[[2]string]int)
	for _, items := range perBasket {
		var desserts, beverages []string
		for item := range items {
			if domain.IsDessertItem(item) {
				desserts = append(desserts, item)
			} else if domain.IsBeverageItem(item) {
				beverages = append(beverages, item)
			}
		}
		for _, d := range desserts {
			for _, b := range beverages {
				counts[[2]string{d, b}]++
			}
		}
	}

	pairs := make([]domain.BundlePair, 0, len(counts))
	for key, n := range counts {
		pairs = append(pairs, domain.BundlePair{Dessert: key[0], Beverage: key[1], Count: n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].Dessert != pairs[j].Dessert {
			return pairs[i].Dessert < pairs[j].Dessert
		}
		return pairs[i].Beverage < pairs[j].Beverage
	})
	if len(pairs) > 3 {
		pairs = pairs[:3]
	}
	return pairs
}

// momentum compares the first-half and second-half monthly averages.
func momentum(monthly []domain.MonthlySales, branch string) domain.RevenueMomentum {
	var series []domain.MonthlySales
	for _, r := range monthly {
		if strings.EqualFold(r.Branch, branch) {
			series = append(series, r)
		}
	}
	domain.SortMonthly(series)

	m := domain.RevenueMomentum{MonthsAvailable: len(series), Trend: "flat"}
	if len(series) == 0 {
		return m
	}
	last := series[len(series)-1]
	m.LatestMonth = fmt.Sprintf("%s %d", last.Month, last.Year)
	if len(series) < 2 {
		return m
	}

	half := len(series) / 2
	avg := func(rows []domain.MonthlySales) float64 {
		var sum float64
		for _, r := range rows {
			sum += r.Total
		}
		return sum / float64(len(rows))
	}
	firstAvg, secondAvg := avg(series[:half]), avg(series[half:])
	if firstAvg > 0 {
		m.MoMGrowthPct = domain.Round((secondAvg-firstAvg)/firstAvg*100, 2)
	}
	switch {
	case m.MoMGrowthPct > 5:
		m.Trend = "accelerating"
	case m.MoMGrowthPct < -5:
		m.Trend = "slowing"
	}
	return m
}

func deliveryRepeat(customers []domain.CustomerOrder, branch string) domain.DeliveryRepeat {
	var r domain.DeliveryRepeat
	orders := 0
	for _, c := range customers {
		if !strings.EqualFold(c.Branch, branch) {
			continue
		}
		r.DeliveryCustomers++
		orders += c.NumOrders
		if c.NumOrders > 1 {
			r.RepeatCustomers++
		}
	}
	if r.DeliveryCustomers > 0 {
		r.RepeatRatePct = domain.Round(float64(r.RepeatCustomers)/float64(r.DeliveryCustomers)*100, 2)
		r.AvgOrdersPerCustomer = domain.Round(float64(orders)/float64(r.DeliveryCustomers), 2)
	}
	return r
}

func staffing(attendance []domain.AttendanceRecord, branch string, bevUnits int) domain.StaffingCapacity {
	var sc domain.StaffingCapacity
	employees := make(map[string]struct{})
	for _, a := range attendance {
		if !strings.EqualFold(a.Branch, branch) {
			continue
		}
		sc.TotalStaffHours += a.DurationHours
		employees[a.EmployeeID] = struct{}{}
	}
	sc.TotalStaffHours = domain.Round(sc.TotalStaffHours, 2)
	sc.UniqueEmployees = len(employees)
	if sc.TotalStaffHours > 0 {
		sc.BevPerStaffHour = domain.Round(float64(bevUnits)/sc.TotalStaffHours, 2)
		sc.Insight = fmt.Sprintf("%d staff logged %.0f hours; %.2f beverage units per staff hour.",
			sc.UniqueEmployees, sc.TotalStaffHours, sc.BevPerStaffHour)
	} else {
		sc.Insight = "No attendance hours recorded for this branch."
	}
	return sc
}

// actions turns the computed metrics into threshold-triggered
// recommendations, highest priority first.
func (s *Service) actions(p *domain.GrowthProfile, bestPenetration float64) []string {
	var actions []string
	add := func(format string, args ...interface{}) {
		if len(actions) < s.cfg.MaxActions {
			actions = append(actions, fmt.Sprintf(format, args...))
		}
	}

	if bestPenetration > 0 && p.BeveragePenetrationPct < bestPenetration {
		add("Beverage penetration is %.1f%% vs %.1f%% at the best branch; push beverage attachment at checkout.",
			p.BeveragePenetrationPct, bestPenetration)
	}
	if len(p.UnderperformingItems) > 0 {
		u := p.UnderperformingItems[0]
		add("%s sells %d units here vs %d at %s (%.0f%% gap); review placement, training and stock.",
			u.Item, u.YourQty, u.BestQty, u.BestBranch, u.GapPct)
	}
	if len(p.BundleRecommendations) > 0 {
		b := p.BundleRecommendations[0]
		add("Customers already pair %s with %s (%d baskets); promote it as a fixed-price combo.",
			b.Dessert, b.Beverage, b.Count)
	}
	if p.RevenueMomentum.Trend == "slowing" {
		add("Revenue momentum is slowing (%.1f%% vs the first half); run a beverage-led promotion this month.",
			p.RevenueMomentum.MoMGrowthPct)
	}
	if p.DeliveryRepeatRate.DeliveryCustomers > 0 && p.DeliveryRepeatRate.RepeatRatePct < 20 {
		add("Delivery repeat rate is %.1f%%; add a loyalty voucher to delivery orders.",
			p.DeliveryRepeatRate.RepeatRatePct)
	}
	if len(p.CustomerMetrics.Channels) == 1 {
		add("All revenue flows through one channel; open a second channel to spread risk.")
	}
	if p.StaffingCapacity.TotalStaffHours > 0 && p.StaffingCapacity.BevPerStaffHour < 1 {
		add("Beverage throughput is %.2f units per staff hour; check prep-station workflow.",
			p.StaffingCapacity.BevPerStaffHour)
	}
	if len(p.HeroCoffeeItems) > 0 {
		add("Feature %s, the branch's best-selling coffee item, on delivery platform banners.",
			p.HeroCoffeeItems[0].Item)
	}
	if p.MilkshakeQty == 0 && p.FrappeQty == 0 {
		add("No milkshake or frappe sales recorded; verify the cold-beverage menu is listed on all channels.")
	}
	return actions
}

func (s *Service) profile(d *datasets, branch string, pens map[string]float64, rank int, bestPen float64) domain.GrowthProfile {
	items := branchItems(d.items, branch)

	p := domain.GrowthProfile{
		Branch:                 branch,
		BeveragePenetrationPct: pens[branch],
		PenetrationRank:        rank,
		HeroCoffeeItems:        heroItems(items, "COFFEE", 3),
		HeroMilkshakeItems:     heroItems(items, "SHAKE", 3),
		UnderperformingItems:   s.underperformers(d.items, branch),
		BundleRecommendations:  bundles(d.baskets, branch),
		RevenueMomentum:        momentum(d.monthly, branch),
		DeliveryRepeatRate:     deliveryRepeat(d.customers, branch),
	}
	p.CoffeeQty, p.CoffeeRevenue = divisionTotals(items, "COFFEE")
	p.MilkshakeQty, p.MilkshakeRevenue = divisionTotals(items, "SHAKE")
	p.FrappeQty, p.FrappeRevenue = divisionTotals(items, "FRAPPE")
	p.ChannelInsight = channelInsight(d.divisions, branch)
	p.CustomerMetrics = customerMetrics(d.channels, branch)
	p.StaffingCapacity = staffing(d.attendance, branch, p.CoffeeQty+p.MilkshakeQty+p.FrappeQty)
	p.Actions = s.actions(&p, bestPen)
	return p
}

func (s *Service) GrowthStrategy(ctx context.Context, branch string) (*domain.GrowthResult, error) {
	d, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	targets := d.branches
	if branch != "" && !strings.EqualFold(branch, domain.BranchAll) {
		resolved := ""
		for _, b := range d.branches {
			if strings.EqualFold(b, branch) {
				resolved = b
				break
			}
		}
		if resolved == "" {
			return &domain.GrowthResult{
				Branch:            branch,
				Branches:          []domain.GrowthProfile{},
				Error:             fmt.Sprintf("unknown branch %q", branch),
				AvailableBranches: d.branches,
			}, nil
		}
		targets = []string{resolved}
	} else {
		branch = domain.BranchAll
	}

	pens := penetration(d.items, d.branches)
	ranked := append([]string(nil), d.branches...)
	sort.Slice(ranked, func(i, j int) bool {
		if pens[ranked[i]] != pens[ranked[j]] {
			return pens[ranked[i]] > pens[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	rankOf := make(map[string]int, len(ranked))
	bestPen := 0.0
	for i, b := range ranked {
		rankOf[b] = i + 1
		if pens[b] > bestPen {
			bestPen = pens[b]
		}
	}

	profiles := make([]domain.GrowthProfile, 0, len(targets))
	for _, b := range targets {
		profiles = append(profiles, s.profile(d, b, pens, rankOf[b], bestPen))
	}

	result := &domain.GrowthResult{
		Branch:   branch,
		Branches: profiles,
	}
	if len(profiles) == 1 {
		p := profiles[0]
		result.Explanation = fmt.Sprintf(
			"Beverage growth diagnostic for %s: penetration %.1f%% (rank %d of %d), %d action(s) recommended.",
			p.Branch, p.BeveragePenetrationPct, p.PenetrationRank, len(d.branches), len(p.Actions))
	} else {
		result.Explanation = fmt.Sprintf(
			"Beverage growth diagnostic across %d branches; best penetration %.1f%%.",
			len(profiles), bestPen)
	}

	s.log.Debug("growth strategy computed",
		zap.String("branch", branch),
		zap.Int("profiles", len(profiles)),
	)
	return result, nil
}
