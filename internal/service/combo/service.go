package combo

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

// Service is the basket-association engine. It mines delivery baskets for
// item pairs worth bundling, scored by support, confidence and lift.
type Service struct {
	store      ports.DatasetStore
	cfg        config.ComboConfig
	nonProduct map[string]struct{}
	log        *zap.Logger
}

func NewService(store ports.DatasetStore, cfg config.ComboConfig, log *zap.Logger) *Service {
	nonProduct := make(map[string]struct{}, len(cfg.NonProductItems))
	for _, item := range cfg.NonProductItems {
		nonProduct[strings.ToUpper(item)] = struct{}{}
	}
	return &Service{store: store, cfg: cfg, nonProduct: nonProduct, log: log}
}

// basket is the distinct item set of one order plus per-item revenue.
type basket struct {
	items   map[string]struct{}
	revenue map[string]float64
}

func (s *Service) applyDefaults(p ports.ComboParams) ports.ComboParams {
	if p.TopK <= 0 {
		p.TopK = s.cfg.DefaultTopK
	}
	if p.MinSupport <= 0 {
		p.MinSupport = s.cfg.MinSupport
	}
	if p.MinConfidence <= 0 {
		p.MinConfidence = s.cfg.MinConfidence
	}
	if p.MinLift <= 0 {
		p.MinLift = s.cfg.MinLift
	}
	if p.Branch == "" {
		p.Branch = domain.BranchAll
	}
	return p
}

// filterLines applies the cleaning rules in order: cancellations, negative
// quantities, logistics rows, zero-price modifiers, branch restriction.
func (s *Service) filterLines(lines []domain.BasketLine, p ports.ComboParams) []domain.BasketLine {
	branchFilter := !strings.EqualFold(p.Branch, domain.BranchAll)
	out := make([]domain.BasketLine, 0, len(lines))
	for _, l := range lines {
		if l.Cancelled || l.Qty <= 0 {
			continue
		}
		if _, ok := s.nonProduct[strings.ToUpper(l.Item)]; ok {
			continue
		}
		if !p.IncludeModifiers && l.Modifier && l.Price == 0 {
			continue
		}
		if branchFilter && !strings.EqualFold(l.Branch, p.Branch) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// buildBaskets groups lines by basket key and keeps baskets with at least
// two distinct items. It also accumulates the global average unit price per
// item over priced lines.
func buildBaskets(lines []domain.BasketLine) (map[string]*basket, map[string]float64) {
	all := make(map[string]*basket)
	priceSum := make(map[string]float64)
	priceN := make(map[string]int)

	for _, l := range lines {
		key := l.Branch + "|" + l.BasketID
		b, ok := all[key]
		if !ok {
			b = &basket{items: make(map[string]struct{}), revenue: make(map[string]float64)}
			all[key] = b
		}
		b.items[l.Item] = struct{}{}
		b.revenue[l.Item] += l.LineTotal
		if l.Price > 0 {
			priceSum[l.Item] += l.Price
			priceN[l.Item]++
		}
	}

	qualifying := make(map[string]*basket, len(all))
	for key, b := range all {
		if len(b.items) >= 2 {
			qualifying[key] = b
		}
	}

	avgPrice := make(map[string]float64, len(priceSum))
	for item, sum := range priceSum {
		avgPrice[item] = sum / float64(priceN[item])
	}
	return qualifying, avgPrice
}

type pairStats struct {
	coCount    int
	revenueSum float64
}

func pairKey(a, b string) (string, string) {
	if a > b {
		a, b = b, a
	}
	return a, b
}

func (s *Service) Recommend(ctx context.Context, p ports.ComboParams) (*domain.ComboResult, error) {
	p = s.applyDefaults(p)

	lines, err := s.store.BasketLines(ctx)
	if err != nil {
		return nil, err
	}

	filtered := s.filterLines(lines, p)
	baskets, avgPrice := buildBaskets(filtered)
	total := len(baskets)

	result := &domain.ComboResult{
		Branch:           p.Branch,
		TotalBaskets:     total,
		IncludeModifiers: p.IncludeModifiers,
		Recommendations:  []domain.ComboRecommendation{},
	}
	if total == 0 {
		result.Explanation = fmt.Sprintf(
			"No multi-item baskets found for branch %q. Either the branch name does not match the delivery data or every basket holds a single item.",
			p.Branch)
		return result, nil
	}

	itemCount := make(map[string]int)
	pairs := make(map[[2]string]*pairStats)
	for _, b := range baskets {
		items := make([]string, 0, len(b.items))
		for item := range b.items {
			items = append(items, item)
		}
		sort.Strings(items)
		for _, item := range items {
			itemCount[item]++
		}
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				key := [2]string{items[i], items[j]}
				ps, ok := pairs[key]
				if !ok {
					ps = &pairStats{}
					pairs[key] = ps
				}
				ps.coCount++
				ps.revenueSum += b.revenue[items[i]] + b.revenue[items[j]]
			}
		}
	}

	n := float64(total)
	recs := make([]domain.ComboRecommendation, 0, len(pairs))
	for key, ps := range pairs {
		a, b := key[0], key[1]
		support := float64(ps.coCount) / n
		countA, countB := itemCount[a], itemCount[b]

		var confAB, confBA, lift float64
		if countA > 0 {
			confAB = float64(ps.coCount) / float64(countA)
		}
		if countB > 0 {
			confBA = float64(ps.coCount) / float64(countB)
		}
		if countA > 0 && countB > 0 {
			supportA := float64(countA) / n
			supportB := float64(countB) / n
			lift = support / (supportA * supportB)
		}

		if support < p.MinSupport || lift < p.MinLift {
			continue
		}
		if confAB < p.MinConfidence && confBA < p.MinConfidence {
			continue
		}

		priceA, priceB := avgPrice[a], avgPrice[b]
		individual := priceA + priceB
		comboPrice := individual * (1 - s.cfg.BundleDiscountPct)

		recs = append(recs, domain.ComboRecommendation{
			ItemA:               a,
			ItemB:               b,
			Support:             domain.Round(support, 4),
			ConfidenceAToB:      domain.Round(confAB, 4),
			ConfidenceBToA:      domain.Round(confBA, 4),
			Lift:                domain.Round(lift, 4),
			BasketCount:         ps.coCount,
			AvgComboRevenue:     domain.Round(ps.revenueSum/float64(ps.coCount), 2),
			PriceA:              domain.Round(priceA, 2),
			PriceB:              domain.Round(priceB, 2),
			IndividualTotal:     domain.Round(individual, 2),
			SuggestedComboPrice: domain.Round(comboPrice, 2),
			Savings:             domain.Round(individual-comboPrice, 2),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Lift != recs[j].Lift {
			return recs[i].Lift > recs[j].Lift
		}
		if recs[i].ItemA != recs[j].ItemA {
			return recs[i].ItemA < recs[j].ItemA
		}
		return recs[i].ItemB < recs[j].ItemB
	})
	if len(recs) > p.TopK {
		recs = recs[:p.TopK]
	}
	result.Recommendations = recs

	if len(recs) == 0 {
		result.Explanation = fmt.Sprintf(
			"Analyzed %d multi-item baskets for branch %q but no item pair cleared the thresholds (support >= %.3f, confidence >= %.2f, lift >= %.2f).",
			total, p.Branch, p.MinSupport, p.MinConfidence, p.MinLift)
		return result, nil
	}

	top := recs[0]
	result.Explanation = fmt.Sprintf(
		"Analyzed %d multi-item baskets for branch %q. Strongest pairing: %s + %s, bought together in %d baskets (lift %.2f). Suggested bundle price %.2f saves the customer %.2f.",
		total, p.Branch, top.ItemA, top.ItemB, top.BasketCount, top.Lift, top.SuggestedComboPrice, top.Savings)

	s.log.Debug("combo recommendation computed",
		zap.String("branch", p.Branch),
		zap.Int("baskets", total),
		zap.Int("pairs", len(recs)),
	)
	return result, nil
}
