package combo

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/ports"
)

const modelName = "Item-Item Cosine Similarity"

// mlRecommend is the cosine-similarity variant: a seeded 80/20 basket
// split, item-item cosine similarity over the training incidence matrix,
// and precision@K against pairs observed in the held-out baskets.
func (s *Service) mlRecommend(ctx context.Context, p ports.ComboParams) ([]domain.MLComboRecommendation, *float64, error) {
	lines, err := s.store.BasketLines(ctx)
	if err != nil {
		return nil, nil, err
	}

	baskets, _ := buildBaskets(s.filterLines(lines, p))
	if len(baskets) == 0 {
		return []domain.MLComboRecommendation{}, nil, nil
	}

	// Deterministic split: sorted keys shuffled by a fixed seed, so the
	// ranking is reproducible run to run.
	keys := make([]string, 0, len(baskets))
	for key := range baskets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	rng := rand.New(rand.NewSource(s.cfg.SplitSeed))
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	trainN := int(float64(len(keys)) * s.cfg.TrainRatio)
	if trainN >= len(keys) && len(keys) >= 2 {
		trainN = len(keys) - 1
	}
	if trainN == 0 {
		trainN = len(keys)
	}
	trainKeys, testKeys := keys[:trainN], keys[trainN:]

	itemCount := make(map[string]int)
	coCount := make(map[[2]string]int)
	countPairs := func(keys []string, counts map[[2]string]int, marginals map[string]int) {
		for _, key := range keys {
			items := make([]string, 0, len(baskets[key].items))
			for item := range baskets[key].items {
				items = append(items, item)
			}
			sort.Strings(items)
			if marginals != nil {
				for _, item := range items {
					marginals[item]++
				}
			}
			for i := 0; i < len(items); i++ {
				for j := i + 1; j < len(items); j++ {
					counts[[2]string{items[i], items[j]}]++
				}
			}
		}
	}
	countPairs(trainKeys, coCount, itemCount)

	recs := make([]domain.MLComboRecommendation, 0, len(coCount))
	for key, co := range coCount {
		a, b := key[0], key[1]
		sim := float64(co) / math.Sqrt(float64(itemCount[a])*float64(itemCount[b]))
		support := float64(co) / float64(len(trainKeys))
		if sim <= 0 || support < p.MinSupport {
			continue
		}
		recs = append(recs, domain.MLComboRecommendation{
			ItemA:      a,
			ItemB:      b,
			Similarity: domain.Round(sim, 4),
			Support:    domain.Round(support, 4),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Similarity != recs[j].Similarity {
			return recs[i].Similarity > recs[j].Similarity
		}
		if recs[i].Support != recs[j].Support {
			return recs[i].Support > recs[j].Support
		}
		if recs[i].ItemA != recs[j].ItemA {
			return recs[i].ItemA < recs[j].ItemA
		}
		return recs[i].ItemB < recs[j].ItemB
	})
	if len(recs) > p.TopK {
		recs = recs[:p.TopK]
	}

	// Precision@K is undefined without candidates or without any true
	// pair in the held-out baskets.
	testPairs := make(map[[2]string]int)
	countPairs(testKeys, testPairs, nil)
	if len(recs) == 0 || len(testPairs) == 0 {
		return recs, nil, nil
	}
	hits := 0
	for _, r := range recs {
		if testPairs[[2]string{r.ItemA, r.ItemB}] > 0 {
			hits++
		}
	}
	precision := domain.Round(float64(hits)/float64(len(recs)), 4)
	return recs, &precision, nil
}

// Compare runs the frequency engine and the cosine variant with shared
// parameters and summarizes both for side-by-side evaluation.
func (s *Service) Compare(ctx context.Context, p ports.ComboParams) (*domain.ComboComparison, error) {
	p = s.applyDefaults(p)

	classic, err := s.Recommend(ctx, p)
	if err != nil {
		return nil, err
	}
	mlRecs, precision, err := s.mlRecommend(ctx, p)
	if err != nil {
		return nil, err
	}

	cmp := &domain.ComboComparison{
		Branch:               p.Branch,
		ModelName:            modelName,
		NonAIRecommendations: classic.Recommendations,
		MLRecommendations:    mlRecs,
		MLPrecisionAtK:       precision,
	}

	if len(classic.Recommendations) > 0 {
		top := classic.Recommendations[0]
		cmp.NonAIAnswerLine = fmt.Sprintf(
			"The non AI answer: %s + %s leads %d qualifying pairs (lift %.2f, together in %d baskets).",
			top.ItemA, top.ItemB, len(classic.Recommendations), top.Lift, top.BasketCount)
	} else {
		cmp.NonAIAnswerLine = "The non AI answer: no item pair cleared the association thresholds."
	}

	if len(mlRecs) > 0 {
		top := mlRecs[0]
		cmp.MLAnswerLine = fmt.Sprintf(
			"The ML [%s] answer: %s + %s ranked first of %d candidates (similarity %.2f).",
			modelName, top.ItemA, top.ItemB, len(mlRecs), top.Similarity)
	} else {
		cmp.MLAnswerLine = fmt.Sprintf("The ML [%s] answer: no candidate pairs in the training baskets.", modelName)
	}

	switch {
	case precision != nil:
		cmp.Explanation = fmt.Sprintf(
			"Both engines ran over the same baskets for branch %q. Held-out precision@%d of the similarity model: %.2f.",
			p.Branch, len(mlRecs), *precision)
	case len(mlRecs) == 0:
		cmp.Explanation = fmt.Sprintf(
			"Both engines ran over the same baskets for branch %q. Precision is undefined: the similarity model produced no candidates.",
			p.Branch)
	default:
		cmp.Explanation = fmt.Sprintf(
			"Both engines ran over the same baskets for branch %q. Precision is undefined: the held-out baskets contain no repeated pairs.",
			p.Branch)
	}
	return cmp, nil
}
