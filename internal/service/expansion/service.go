package expansion

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

// Composite weights per dimension, in ScoreDimensions order. They sum to 1.
var dimensionWeights = map[domain.ScoreDimension]float64{
	domain.DimensionDemandTrend:        0.25,
	domain.DimensionBranchStrength:     0.20,
	domain.DimensionAvgTicketHealth:    0.15,
	domain.DimensionRepeatCustomer:     0.10,
	domain.DimensionProductMix:         0.15,
	domain.DimensionBeverageAttachment: 0.15,
}

// Service builds per-branch scorecards, picks the best archetype and
// scores candidate areas for the next opening.
type Service struct {
	store ports.DatasetStore
	cfg   config.ExpansionConfig
	log   *zap.Logger
}

func NewService(store ports.DatasetStore, cfg config.ExpansionConfig, log *zap.Logger) *Service {
	return &Service{store: store, cfg: cfg, log: log}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// branchData is everything one branch contributes to its scorecard.
type branchData struct {
	monthly   []domain.MonthlySales
	channels  []domain.ChannelSummary
	items     []domain.ItemSale
	customers []domain.CustomerOrder
}

func (s *Service) collect(ctx context.Context) (map[string]*branchData, []string, error) {
	branches, err := s.store.Branches(ctx)
	if err != nil {
		return nil, nil, err
	}
	monthly, err := s.store.MonthlySales(ctx)
	if err != nil {
		return nil, nil, err
	}
	channels, err := s.store.ChannelSummaries(ctx)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.ItemSales(ctx)
	if err != nil {
		return nil, nil, err
	}
	customers, err := s.store.CustomerOrders(ctx)
	if err != nil {
		return nil, nil, err
	}

	data := make(map[string]*branchData, len(branches))
	for _, b := range branches {
		data[b] = &branchData{}
	}
	find := func(name string) *branchData {
		for b, d := range data {
			if strings.EqualFold(b, name) {
				return d
			}
		}
		return nil
	}
	for _, r := range monthly {
		if d := find(r.Branch); d != nil {
			d.monthly = append(d.monthly, r)
		}
	}
	for _, r := range channels {
		if d := find(r.Branch); d != nil {
			d.channels = append(d.channels, r)
		}
	}
	for _, r := range items {
		if d := find(r.Branch); d != nil {
			d.items = append(d.items, r)
		}
	}
	for _, r := range customers {
		if d := find(r.Branch); d != nil {
			d.customers = append(d.customers, r)
		}
	}
	return data, branches, nil
}

func scoreDemandTrend(d *branchData) domain.DimensionScore {
	if len(d.monthly) < 2 {
		return domain.DimensionScore{Score: 50, Detail: domain.ScoreDetail{Note: "fewer than 2 months of revenue; neutral score"}}
	}
	series := append([]domain.MonthlySales(nil), d.monthly...)
	domain.SortMonthly(series)
	var rates []float64
	for i := 1; i < len(series); i++ {
		if series[i-1].Total == 0 {
			continue
		}
		rates = append(rates, domain.Round((series[i].Total-series[i-1].Total)/series[i-1].Total*100, 2))
	}
	if len(rates) == 0 {
		return domain.DimensionScore{Score: 50, Detail: domain.ScoreDetail{Note: "no computable growth rates; neutral score"}}
	}
	var sum float64
	for _, r := range rates {
		sum += r
	}
	avg := domain.Round(sum/float64(len(rates)), 2)
	score := clamp(50+avg*0.5, 0, 100)
	return domain.DimensionScore{
		Score:  domain.Round(score, 2),
		Detail: domain.ScoreDetail{MoMGrowthRates: rates, AvgMoMGrowthPct: &avg},
	}
}

func totalRevenue(d *branchData) float64 {
	var sum float64
	for _, r := range d.monthly {
		sum += r.Total
	}
	return sum
}

func scoreBranchStrength(d *branchData, maxRevenue float64) domain.DimensionScore {
	rev := domain.Round(totalRevenue(d), 2)
	score := 0.0
	if maxRevenue > 0 {
		score = totalRevenue(d) / maxRevenue * 100
	}
	return domain.DimensionScore{
		Score:  domain.Round(clamp(score, 0, 100), 2),
		Detail: domain.ScoreDetail{TotalRevenue: &rev},
	}
}

func avgTicket(d *branchData) (float64, int, []string) {
	var sales float64
	var customers int
	var list []string
	for _, c := range d.channels {
		sales += c.Sales
		customers += c.Customers
		list = append(list, c.Channel)
	}
	sort.Strings(list)
	if customers == 0 {
		return 0, 0, list
	}
	return sales / float64(customers), customers, list
}

// scoreAvgTicket keeps the historical arithmetic of the ticket formula:
// ticket_norm*0.7 + diversity_bonus*0.3 + 30*0.3, clamped to [0,100].
func scoreAvgTicket(d *branchData, maxTicket float64) domain.DimensionScore {
	ticket, _, channelList := avgTicket(d)
	if len(channelList) == 0 {
		return domain.DimensionScore{Score: 50, Detail: domain.ScoreDetail{Note: "no channel data; neutral score"}}
	}
	ticketNorm := 0.0
	if maxTicket > 0 {
		ticketNorm = ticket / maxTicket * 100
	}
	diversity := float64(len(channelList)-1) * 20
	if diversity > 40 {
		diversity = 40
	}
	score := clamp(ticketNorm*0.7+diversity*0.3+30*0.3, 0, 100)

	rounded := domain.Round(ticket, 2)
	channels := len(channelList)
	return domain.DimensionScore{
		Score: domain.Round(score, 2),
		Detail: domain.ScoreDetail{
			AvgTicket:   &rounded,
			Channels:    &channels,
			ChannelList: channelList,
		},
	}
}

func scoreRepeatCustomer(d *branchData) domain.DimensionScore {
	if len(d.customers) == 0 {
		return domain.DimensionScore{Score: 50, Detail: domain.ScoreDetail{Note: "no delivery customer data; neutral score"}}
	}
	total := len(d.customers)
	repeat := 0
	for _, c := range d.customers {
		if c.NumOrders > 1 {
			repeat++
		}
	}
	pct := float64(repeat) / float64(total) * 100
	score := clamp(20+pct*(80.0/30.0), 0, 100)

	roundedPct := domain.Round(pct, 2)
	return domain.DimensionScore{
		Score: domain.Round(score, 2),
		Detail: domain.ScoreDetail{
			TotalCustomers:  &total,
			RepeatCustomers: &repeat,
			RepeatPct:       &roundedPct,
		},
	}
}

func scoreProductMix(d *branchData, maxSKUs int) domain.DimensionScore {
	if len(d.items) == 0 {
		return domain.DimensionScore{Score: 50, Detail: domain.ScoreDetail{Note: "no item sales data; neutral score"}}
	}
	skus := make(map[string]struct{})
	divisionRevenue := make(map[string]float64)
	var total float64
	for _, it := range d.items {
		skus[it.Description] = struct{}{}
		divisionRevenue[it.Division] += it.TotalAmount
		total += it.TotalAmount
	}

	skuNorm := 0.0
	if maxSKUs > 0 {
		skuNorm = float64(len(skus)) / float64(maxSKUs) * 100
	}
	var herfindahl float64
	if total > 0 {
		for _, rev := range divisionRevenue {
			share := rev / total
			herfindahl += share * share
		}
	}
	score := clamp(skuNorm*0.6+(1-herfindahl)*100*0.4, 0, 100)

	skuCount := len(skus)
	divCount := len(divisionRevenue)
	h := domain.Round(herfindahl, 4)
	return domain.DimensionScore{
		Score: domain.Round(score, 2),
		Detail: domain.ScoreDetail{
			UniqueSKUs: &skuCount,
			Divisions:  &divCount,
			Herfindahl: &h,
		},
	}
}

func scoreBeverageAttachment(d *branchData) domain.DimensionScore {
	var bev, total float64
	for _, it := range d.items {
		total += it.TotalAmount
		if domain.IsBeverageDivision(it.Division) {
			bev += it.TotalAmount
		}
	}
	if total == 0 {
		return domain.DimensionScore{Score: 0, Detail: domain.ScoreDetail{Note: "no item revenue; zero attachment"}}
	}
	pct := bev / total * 100
	score := clamp(pct/20*100, 0, 100)

	bevR := domain.Round(bev, 2)
	totalR := domain.Round(total, 2)
	pctR := domain.Round(pct, 2)
	return domain.DimensionScore{
		Score: domain.Round(score, 2),
		Detail: domain.ScoreDetail{
			BeverageRevenue: &bevR,
			ItemsRevenue:    &totalR,
			BevPct:          &pctR,
		},
	}
}

func (s *Service) buildScorecards(data map[string]*branchData, branches []string) []domain.Scorecard {
	maxRevenue := 0.0
	maxTicket := 0.0
	maxSKUs := 0
	for _, b := range branches {
		d := data[b]
		if rev := totalRevenue(d); rev > maxRevenue {
			maxRevenue = rev
		}
		if t, _, _ := avgTicket(d); t > maxTicket {
			maxTicket = t
		}
		skus := make(map[string]struct{})
		for _, it := range d.items {
			skus[it.Description] = struct{}{}
		}
		if len(skus) > maxSKUs {
			maxSKUs = len(skus)
		}
	}

	cards := make([]domain.Scorecard, 0, len(branches))
	for _, b := range branches {
		d := data[b]
		dims := map[domain.ScoreDimension]domain.DimensionScore{
			domain.DimensionDemandTrend:        scoreDemandTrend(d),
			domain.DimensionBranchStrength:     scoreBranchStrength(d, maxRevenue),
			domain.DimensionAvgTicketHealth:    scoreAvgTicket(d, maxTicket),
			domain.DimensionRepeatCustomer:     scoreRepeatCustomer(d),
			domain.DimensionProductMix:         scoreProductMix(d, maxSKUs),
			domain.DimensionBeverageAttachment: scoreBeverageAttachment(d),
		}
		var composite float64
		for _, dim := range domain.ScoreDimensions {
			composite += dims[dim].Score * dimensionWeights[dim]
		}
		cards = append(cards, domain.Scorecard{
			Branch:         b,
			Dimensions:     dims,
			CompositeScore: domain.Round(composite, 2),
		})
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CompositeScore != cards[j].CompositeScore {
			return cards[i].CompositeScore > cards[j].CompositeScore
		}
		return cards[i].Branch < cards[j].Branch
	})
	return cards
}

func (s *Service) buildArchetype(best domain.Scorecard, d *branchData) *domain.ArchetypeProfile {
	channelMix := make(map[string]float64)
	var channelTotal float64
	for _, c := range d.channels {
		channelTotal += c.Sales
	}
	if channelTotal > 0 {
		for _, c := range d.channels {
			channelMix[c.Channel] = domain.Round(c.Sales/channelTotal*100, 2)
		}
	}

	divisionRevenue := make(map[string]float64)
	var itemTotal float64
	for _, it := range d.items {
		divisionRevenue[it.Division] += it.TotalAmount
		itemTotal += it.TotalAmount
	}
	type divShare struct {
		name  string
		share float64
	}
	shares := make([]divShare, 0, len(divisionRevenue))
	if itemTotal > 0 {
		for name, rev := range divisionRevenue {
			shares = append(shares, divShare{name, rev / itemTotal * 100})
		}
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].share != shares[j].share {
			return shares[i].share > shares[j].share
		}
		return shares[i].name < shares[j].name
	})
	if len(shares) > 5 {
		shares = shares[:5]
	}
	topCategories := make(map[string]float64, len(shares))
	for _, sh := range shares {
		topCategories[sh.name] = domain.Round(sh.share, 2)
	}

	bevPct := 0.0
	if detail := best.Dimensions[domain.DimensionBeverageAttachment].Detail; detail.BevPct != nil {
		bevPct = *detail.BevPct
	}

	return &domain.ArchetypeProfile{
		Branch:         best.Branch,
		CompositeScore: best.CompositeScore,
		ChannelMix:     channelMix,
		TopCategories:  topCategories,
		BeveragePct:    bevPct,
		Recommendation: fmt.Sprintf(
			"Model the new branch on %s: replicate its channel mix and keep its top categories on the opening menu.",
			best.Branch),
	}
}

// cafeDensityScore peaks at medium density: low markets lack footfall
// proof, high markets are saturated.
func cafeDensityScore(density string) float64 {
	switch strings.ToLower(density) {
	case "low":
		return 30
	case "medium":
		return 50
	case "high":
		return 35
	default:
		return 30
	}
}

func scoreCandidate(a domain.CandidateArea) domain.CandidateLocation {
	popScore := float64(a.Population) / 5000
	if popScore > 100 {
		popScore = 100
	}
	uniBonus := 0.0
	if a.UniversityNearby {
		uniBonus = 15
	}
	score := popScore*0.30 +
		uniBonus +
		float64(a.FootTrafficTier)*20*0.25 +
		cafeDensityScore(a.CafeDensity)*0.20 -
		float64(a.RentTier)*5*0.10
	score = clamp(score, 0, 100)

	var pros, cons []string
	switch {
	case a.Population >= 100000:
		pros = append(pros, fmt.Sprintf("Large population (%d)", a.Population))
	case a.Population >= 50000:
		pros = append(pros, fmt.Sprintf("Mid-size population (%d)", a.Population))
	default:
		cons = append(cons, fmt.Sprintf("Small population (%d)", a.Population))
	}
	if a.UniversityNearby {
		pros = append(pros, "University nearby (young demographic)")
	}
	if a.FootTrafficTier >= 4 {
		pros = append(pros, "High foot traffic")
	}
	if a.RentTier >= 4 {
		cons = append(cons, fmt.Sprintf("High commercial rent (tier %d/5)", a.RentTier))
	}
	switch strings.ToLower(a.CafeDensity) {
	case "high":
		cons = append(cons, "High cafe density, competitive market")
	case "medium":
		pros = append(pros, "Moderate cafe scene, market exists but not saturated")
	default:
		pros = append(pros, "Low cafe density, first-mover opportunity")
	}

	return domain.CandidateLocation{
		Area:             a.Area,
		Governorate:      a.Governorate,
		Score:            domain.Round(score, 2),
		Population:       a.Population,
		UniversityNearby: a.UniversityNearby,
		FootTrafficTier:  a.FootTrafficTier,
		RentTier:         a.RentTier,
		CafeDensity:      a.CafeDensity,
		Pros:             pros,
		Cons:             cons,
	}
}

func (s *Service) scoreCandidates(areas []domain.CandidateArea) []domain.CandidateLocation {
	out := make([]domain.CandidateLocation, 0, len(areas))
	for _, a := range areas {
		if a.ChainPresent {
			continue
		}
		out = append(out, scoreCandidate(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Area < out[j].Area
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func (s *Service) risks(cards []domain.Scorecard, candidates []domain.CandidateLocation) []string {
	var risks []string
	if len(cards) == 0 {
		return risks
	}
	best := cards[0]
	for _, dim := range domain.ScoreDimensions {
		if ds := best.Dimensions[dim]; ds.Score < 50 {
			risks = append(risks, fmt.Sprintf(
				"Archetype branch %s scores %.2f on %s; the weakness would likely carry over to a new opening.",
				best.Branch, ds.Score, dim))
		}
	}
	if len(candidates) == 0 {
		risks = append(risks, "Every curated candidate area already has the chain present; location pipeline is empty.")
	}
	if len(cards) >= 2 {
		spread := cards[0].CompositeScore - cards[len(cards)-1].CompositeScore
		if spread > 30 {
			risks = append(risks, fmt.Sprintf(
				"Branch performance spread is wide (%.2f points); the operating model does not transfer uniformly across locations.",
				spread))
		}
	}
	return risks
}

func (s *Service) verdict(composite float64) (string, string) {
	switch {
	case composite >= s.cfg.GoThreshold:
		return domain.VerdictGo, fmt.Sprintf(
			"Best branch composite %.2f clears the %.0f GO threshold; the operating model is worth replicating.",
			composite, s.cfg.GoThreshold)
	case composite >= s.cfg.CautionThreshold:
		return domain.VerdictCaution, fmt.Sprintf(
			"Best branch composite %.2f sits between the %.0f and %.0f thresholds; expand only after fixing the weak dimensions.",
			composite, s.cfg.CautionThreshold, s.cfg.GoThreshold)
	default:
		return domain.VerdictNoGo, fmt.Sprintf(
			"Best branch composite %.2f is below the %.0f threshold; no branch is strong enough to copy yet.",
			composite, s.cfg.CautionThreshold)
	}
}

func (s *Service) EvaluateExpansion(ctx context.Context, branch string) (*domain.ExpansionResult, error) {
	data, branches, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	if branch != "" && !strings.EqualFold(branch, domain.BranchAll) {
		resolved := ""
		for _, b := range branches {
			if strings.EqualFold(b, branch) {
				resolved = b
				break
			}
		}
		if resolved == "" {
			var suggestions []string
			for _, b := range branches {
				if strings.Contains(strings.ToLower(b), strings.ToLower(branch)) {
					suggestions = append(suggestions, b)
				}
			}
			return &domain.ExpansionResult{
				Error:              fmt.Sprintf("unknown branch %q", branch),
				AvailableBranches:  branches,
				DidYouMean:         suggestions,
				CandidateLocations: []domain.CandidateLocation{},
			}, nil
		}
	}

	cards := s.buildScorecards(data, branches)
	if len(cards) == 0 {
		return &domain.ExpansionResult{
			Error:              "no branches found in the revenue data",
			CandidateLocations: []domain.CandidateLocation{},
		}, nil
	}

	areas, err := s.store.CandidateAreas(ctx)
	if err != nil {
		return nil, err
	}
	candidates := s.scoreCandidates(areas)

	best := cards[0]
	verdict, detail := s.verdict(best.CompositeScore)
	result := &domain.ExpansionResult{
		Verdict:            verdict,
		VerdictDetail:      detail,
		BestArchetype:      s.buildArchetype(best, data[best.Branch]),
		Scorecards:         cards,
		CandidateLocations: candidates,
		Risks:              s.risks(cards, candidates),
	}
	if len(candidates) > 0 {
		result.Explanation = fmt.Sprintf(
			"Scored %d branches; %s leads with composite %.2f (%s). Top candidate area: %s (%.2f).",
			len(cards), best.Branch, best.CompositeScore, verdict, candidates[0].Area, candidates[0].Score)
	} else {
		result.Explanation = fmt.Sprintf(
			"Scored %d branches; %s leads with composite %.2f (%s). No unserved candidate areas remain.",
			len(cards), best.Branch, best.CompositeScore, verdict)
	}

	s.log.Debug("expansion evaluated",
		zap.String("verdict", verdict),
		zap.String("archetype", best.Branch),
		zap.Int("candidates", len(candidates)),
	)
	return result, nil
}
