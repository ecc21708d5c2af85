package combo

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/mocks"
	"github.com/conutlabs/chiefops/internal/ports"
	"github.com/conutlabs/chiefops/pkg/config"
)

func testConfig() config.ComboConfig {
	return config.ComboConfig{
		DefaultTopK:       5,
		MinSupport:        0.02,
		MinConfidence:     0.15,
		MinLift:           1.0,
		BundleDiscountPct: 0.12,
		NonProductItems:   []string{"DELIVERY CHARGE"},
		SplitSeed:         42,
		TrainRatio:        0.8,
	}
}

func line(basketID, item string, price float64) domain.BasketLine {
	return domain.BasketLine{
		Branch:    "Salmiya",
		BasketID:  basketID,
		Item:      item,
		Qty:       1,
		Price:     price,
		LineTotal: price,
	}
}

// tenBaskets builds 10 multi-item baskets where ALMOND LATTE appears in 5,
// BROWNIE in 6, and they co-occur in 3.
func tenBaskets() []domain.BasketLine {
	var lines []domain.BasketLine
	add := func(basket string, items ...string) {
		for _, item := range items {
			price := 1.5
			if item == "ALMOND LATTE" {
				price = 2.0
			}
			lines = append(lines, line(basket, item, price))
		}
	}
	add("b01", "ALMOND LATTE", "BROWNIE")
	add("b02", "ALMOND LATTE", "BROWNIE")
	add("b03", "ALMOND LATTE", "BROWNIE")
	add("b04", "ALMOND LATTE", "FILLER1")
	add("b05", "ALMOND LATTE", "FILLER2")
	add("b06", "BROWNIE", "FILLER1")
	add("b07", "BROWNIE", "FILLER2")
	add("b08", "BROWNIE", "FILLER3")
	add("b09", "FILLER1", "FILLER2")
	add("b10", "FILLER3", "FILLER4")
	return lines
}

func newTestService(lines []domain.BasketLine) *Service {
	store := mocks.NewMockDatasetStore()
	store.BasketLineRows = lines
	return NewService(store, testConfig(), zap.NewNop())
}

func findPair(recs []domain.ComboRecommendation, a, b string) *domain.ComboRecommendation {
	for i := range recs {
		if recs[i].ItemA == a && recs[i].ItemB == b {
			return &recs[i]
		}
	}
	return nil
}

func TestPairStatisticsMatchHandComputation(t *testing.T) {
	svc := newTestService(tenBaskets())

	result, err := svc.Recommend(context.Background(), ports.ComboParams{Branch: "all", TopK: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalBaskets != 10 {
		t.Fatalf("expected 10 baskets, got %d", result.TotalBaskets)
	}

	pair := findPair(result.Recommendations, "ALMOND LATTE", "BROWNIE")
	if pair == nil {
		t.Fatalf("expected ALMOND LATTE + BROWNIE in results: %+v", result.Recommendations)
	}
	if pair.Support != 0.3 {
		t.Errorf("support = %v, want 0.3", pair.Support)
	}
	if pair.ConfidenceAToB != 0.6 {
		t.Errorf("confidence_a_to_b = %v, want 0.6", pair.ConfidenceAToB)
	}
	if pair.ConfidenceBToA != 0.5 {
		t.Errorf("confidence_b_to_a = %v, want 0.5", pair.ConfidenceBToA)
	}
	if pair.Lift != 1.0 {
		t.Errorf("lift = %v, want 1.0", pair.Lift)
	}
	if pair.BasketCount != 3 {
		t.Errorf("basket_count = %d, want 3", pair.BasketCount)
	}
}

func TestBundlePricingUsesFixedDiscount(t *testing.T) {
	svc := newTestService(tenBaskets())

	result, err := svc.Recommend(context.Background(), ports.ComboParams{Branch: "all", TopK: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pair := findPair(result.Recommendations, "ALMOND LATTE", "BROWNIE")
	if pair == nil {
		t.Fatal("pair not found")
	}
	if pair.IndividualTotal != 3.5 {
		t.Errorf("individual_total = %v, want 3.5", pair.IndividualTotal)
	}
	if pair.SuggestedComboPrice != 3.08 {
		t.Errorf("suggested_combo_price = %v, want 3.08", pair.SuggestedComboPrice)
	}
	if pair.Savings != 0.42 {
		t.Errorf("savings = %v, want 0.42", pair.Savings)
	}
}

func TestFilteringDropsNoiseLines(t *testing.T) {
	lines := []domain.BasketLine{
		line("b1", "LATTE", 2.0),
		line("b1", "BROWNIE", 1.5),
		{Branch: "Salmiya", BasketID: "b1", Item: "DELIVERY CHARGE", Qty: 1, Price: 0.5, LineTotal: 0.5},
		{Branch: "Salmiya", BasketID: "b1", Item: "MUFFIN", Qty: 1, Price: 1.0, LineTotal: 1.0, Cancelled: true},
		{Branch: "Salmiya", BasketID: "b1", Item: "EXTRA SHOT", Qty: 1, Price: 0, LineTotal: 0, Modifier: true},
		line("b2", "LATTE", 2.0),
		line("b2", "BROWNIE", 1.5),
	}
	svc := newTestService(lines)

	result, err := svc.Recommend(context.Background(), ports.ComboParams{Branch: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range result.Recommendations {
		for _, item := range []string{"DELIVERY CHARGE", "MUFFIN", "EXTRA SHOT"} {
			if r.ItemA == item || r.ItemB == item {
				t.Errorf("filtered item %q leaked into results", item)
			}
		}
	}
	if findPair(result.Recommendations, "BROWNIE", "LATTE") == nil {
		t.Errorf("surviving pair missing: %+v", result.Recommendations)
	}
}

func TestUnknownBranchYieldsEmptyResultNotError(t *testing.T) {
	svc := newTestService(tenBaskets())

	result, err := svc.Recommend(context.Background(), ports.ComboParams{Branch: "Atlantis"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalBaskets != 0 || len(result.Recommendations) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.Explanation == "" {
		t.Error("expected a rationale string for the empty result")
	}
}

func TestRecommendIsIdempotent(t *testing.T) {
	svc := newTestService(tenBaskets())
	p := ports.ComboParams{Branch: "all", TopK: 10}

	first, err := svc.Recommend(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Recommend(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs differ:\n%+v\n%+v", first, second)
	}
}

func TestRankingByLiftThenPairOrder(t *testing.T) {
	svc := newTestService(tenBaskets())

	result, err := svc.Recommend(context.Background(), ports.ComboParams{Branch: "all", TopK: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := result.Recommendations
	for i := 1; i < len(recs); i++ {
		if recs[i].Lift > recs[i-1].Lift {
			t.Errorf("ranking not descending by lift at %d: %v > %v", i, recs[i].Lift, recs[i-1].Lift)
		}
		if recs[i].Lift == recs[i-1].Lift {
			prev := recs[i-1].ItemA + "|" + recs[i-1].ItemB
			cur := recs[i].ItemA + "|" + recs[i].ItemB
			if cur < prev {
				t.Errorf("tie not broken by pair order at %d: %s before %s", i, prev, cur)
			}
		}
	}
}

func TestCompareContract(t *testing.T) {
	svc := newTestService(tenBaskets())

	cmp, err := svc.Compare(context.Background(), ports.ComboParams{Branch: "all", TopK: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.ModelName != "Item-Item Cosine Similarity" {
		t.Errorf("model_name = %q", cmp.ModelName)
	}
	if !strings.HasPrefix(cmp.NonAIAnswerLine, "The non AI answer:") {
		t.Errorf("non AI line = %q", cmp.NonAIAnswerLine)
	}
	if !strings.HasPrefix(cmp.MLAnswerLine, "The ML [Item-Item Cosine Similarity] answer:") {
		t.Errorf("ML line = %q", cmp.MLAnswerLine)
	}
	if cmp.MLPrecisionAtK != nil && (*cmp.MLPrecisionAtK < 0 || *cmp.MLPrecisionAtK > 1) {
		t.Errorf("precision out of range: %v", *cmp.MLPrecisionAtK)
	}
}

func TestMLRankingIsReproducible(t *testing.T) {
	svc := newTestService(tenBaskets())
	p := ports.ComboParams{Branch: "all", TopK: 10}

	first, err := svc.Compare(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Compare(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first.MLRecommendations, second.MLRecommendations) {
		t.Errorf("seeded split not reproducible:\n%+v\n%+v", first.MLRecommendations, second.MLRecommendations)
	}
}

func TestCompareUnknownBranchEmptyListsNilPrecision(t *testing.T) {
	svc := newTestService(tenBaskets())

	cmp, err := svc.Compare(context.Background(), ports.ComboParams{Branch: "Atlantis"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmp.NonAIRecommendations) != 0 || len(cmp.MLRecommendations) != 0 {
		t.Errorf("expected empty lists, got %+v", cmp)
	}
	if cmp.MLPrecisionAtK != nil {
		t.Errorf("expected nil precision, got %v", *cmp.MLPrecisionAtK)
	}
}
