package intent

import (
	"testing"

	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
)

func newTestClassifier() *Classifier {
	return NewClassifier([]string{"Salmiya", "Avenues", "Salmiya Marina"}, zap.NewNop())
}

func TestComboQuestionResolvesBranch(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("What are the best combos for Salmiya?")
	if intent.Action != domain.ActionCombo {
		t.Errorf("action = %q, want combo", intent.Action)
	}
	if intent.Branch != "Salmiya" {
		t.Errorf("branch = %q, want Salmiya", intent.Branch)
	}
	if intent.Confidence <= 0 {
		t.Errorf("confidence = %v, want > 0", intent.Confidence)
	}
}

func TestLongestBranchNameWins(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("forecast demand for salmiya marina")
	if intent.Branch != "Salmiya Marina" {
		t.Errorf("branch = %q, want the longer alias Salmiya Marina", intent.Branch)
	}
}

func TestHorizonExtractionAndCap(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("forecast demand for the next 6 months")
	if intent.Action != domain.ActionForecast {
		t.Errorf("action = %q, want forecast", intent.Action)
	}
	if intent.HorizonMonths != 6 {
		t.Errorf("horizon = %d, want 6", intent.HorizonMonths)
	}

	capped := c.Classify("predict sales for the next 36 months")
	if capped.HorizonMonths != 12 {
		t.Errorf("horizon = %d, want capped 12", capped.HorizonMonths)
	}
}

func TestTopKExtractionAndCap(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("show the top 3 combos")
	if intent.TopK != 3 {
		t.Errorf("top_k = %d, want 3", intent.TopK)
	}

	capped := c.Classify("show the top 50 combos")
	if capped.TopK != 20 {
		t.Errorf("top_k = %d, want capped 20", capped.TopK)
	}
}

func TestAllBranchesSentinel(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("growth strategy across all branches")
	if intent.Branch != domain.BranchAll {
		t.Errorf("branch = %q, want all", intent.Branch)
	}
	if intent.Action != domain.ActionGrowth {
		t.Errorf("action = %q, want growth", intent.Action)
	}
}

func TestShiftExtraction(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("how many staff do we need for the evening shift at Avenues?")
	if intent.Action != domain.ActionStaffing {
		t.Errorf("action = %q, want staffing", intent.Action)
	}
	if intent.Shift != "evening" {
		t.Errorf("shift = %q, want evening", intent.Shift)
	}
	if intent.Branch != "Avenues" {
		t.Errorf("branch = %q, want Avenues", intent.Branch)
	}
}

func TestExpansionQuestion(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("Where should we open a new branch?")
	if intent.Action != domain.ActionExpansion {
		t.Errorf("action = %q, want expansion", intent.Action)
	}
}

func TestUnrelatedQuestionIsUnknown(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("what is the weather like today?")
	if intent.Action != domain.ActionUnknown {
		t.Errorf("action = %q, want unknown", intent.Action)
	}
	if intent.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", intent.Confidence)
	}
}

func TestConfidenceIsNormalizedFraction(t *testing.T) {
	c := newTestClassifier()

	intent := c.Classify("forecast and predict demand trends for the next 3 months")
	if intent.Confidence <= 0 || intent.Confidence > 1 {
		t.Errorf("confidence = %v, want within (0,1]", intent.Confidence)
	}
}
