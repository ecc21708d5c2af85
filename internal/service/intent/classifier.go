package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
)

type pattern struct {
	re     *regexp.Regexp
	label  string
	weight float64
}

func full(label, expr string) pattern {
	return pattern{re: regexp.MustCompile(expr), label: label, weight: 1}
}

func boost(label, expr string) pattern {
	return pattern{re: regexp.MustCompile(expr), label: label, weight: 0.5}
}

// Keyword patterns per action. Full-weight patterns identify the action
// directly; half-weight boosts catch softer phrasings.
var actionPatterns = map[string][]pattern{
	domain.ActionCombo: {
		full("combo", `\bcombos?\b`),
		full("bundle", `\bbundles?\b`),
		full("bought together", `bought\s+together|go\s+together|pair\s+well`),
		full("basket", `\bbaskets?\b`),
		boost("cross-sell", `cross[\s-]?sell|upsell`),
		boost("deal", `\bdeals?\b|\bdiscounts?\b`),
	},
	domain.ActionForecast: {
		full("forecast", `\bforecasts?\b`),
		full("predict", `\bpredict(ion)?s?\b`),
		full("demand", `\bdemand\b`),
		full("next months", `next\s+\d+\s+months?|coming\s+months?`),
		boost("trend", `\btrends?\b`),
		boost("projection", `project(ed|ion)s?`),
	},
	domain.ActionStaffing: {
		full("staff", `\bstaff(ing)?\b`),
		full("shift", `\bshifts?\b`),
		full("how many employees", `how\s+many\s+(employees|people|baristas|workers)`),
		boost("schedule", `\bschedul`),
		boost("manpower", `\bmanpower\b|\broster\b`),
	},
	domain.ActionExpansion: {
		full("expansion", `\bexpan(d|sion)`),
		full("new location", `new\s+(branch|location|store|outlet)`),
		full("open a branch", `open(ing)?\s+(a\s+)?(new\s+)?(branch|location|store)`),
		full("where should", `where\s+should\s+we`),
		boost("scorecard", `\bscorecards?\b`),
		boost("invest", `\binvest`),
	},
	domain.ActionGrowth: {
		full("grow", `\bgrow(th)?\b`),
		full("improve sales", `improve|increase\s+sales|boost\s+sales`),
		full("beverage", `\bbeverages?\b|\bcoffee\s+sales\b|\bmilkshakes?\b`),
		full("underperform", `underperform`),
		boost("strategy", `\bstrateg`),
		boost("action plan", `action\s+plan|what\s+should\s+we\s+do`),
	},
}

var (
	allBranchesRe = regexp.MustCompile(`all\s+branches|every\s+branch|across\s+branches|whole\s+chain`)
	horizonRe     = regexp.MustCompile(`(\d+)\s*month`)
	topKRe        = regexp.MustCompile(`top\s*(\d+)`)
	shiftRe       = regexp.MustCompile(`\b(morning|midday|evening)\b`)
)

// Classifier resolves free-text questions to an engine action plus its
// parameter bundle. It is data-driven: branch extraction matches against
// the store's actual branch names, longest first.
type Classifier struct {
	branches []string
	log      *zap.Logger
}

func NewClassifier(branches []string, log *zap.Logger) *Classifier {
	ordered := append([]string(nil), branches...)
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	return &Classifier{branches: ordered, log: log}
}

func (c *Classifier) Classify(question string) domain.Intent {
	q := strings.ToLower(question)

	bestAction := domain.ActionUnknown
	bestScore := 0.0
	var bestKeywords []string
	for _, action := range []string{
		domain.ActionCombo, domain.ActionForecast, domain.ActionStaffing,
		domain.ActionExpansion, domain.ActionGrowth,
	} {
		score := 0.0
		var matched []string
		for _, p := range actionPatterns[action] {
			if p.re.MatchString(q) {
				score += p.weight
				matched = append(matched, p.label)
			}
		}
		if score > bestScore {
			bestAction, bestScore, bestKeywords = action, score, matched
		}
	}

	intent := domain.Intent{
		Action:          bestAction,
		MatchedKeywords: bestKeywords,
	}
	if bestScore > 0 {
		var maxPossible float64
		for _, p := range actionPatterns[bestAction] {
			maxPossible += p.weight
		}
		intent.Confidence = domain.Round(bestScore/maxPossible, 3)
	}

	intent.Branch = c.extractBranch(q)
	if m := shiftRe.FindStringSubmatch(q); m != nil {
		intent.Shift = m[1]
	}
	if m := horizonRe.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			if n > 12 {
				n = 12
			}
			intent.HorizonMonths = n
		}
	}
	if m := topKRe.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			if n > 20 {
				n = 20
			}
			intent.TopK = n
		}
	}

	c.log.Debug("question classified",
		zap.String("action", intent.Action),
		zap.Float64("confidence", intent.Confidence),
		zap.String("branch", intent.Branch),
	)
	return intent
}

func (c *Classifier) extractBranch(q string) string {
	if allBranchesRe.MatchString(q) {
		return domain.BranchAll
	}
	for _, b := range c.branches {
		if strings.Contains(q, strings.ToLower(b)) {
			return b
		}
	}
	return ""
}
