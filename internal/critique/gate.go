package critique

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rapportlabs/rapport/internal/ground"
	"github.com/rapportlabs/rapport/internal/model"
)

// DefaultMinFacts is the default research-depth threshold
const DefaultMinFacts = 3

// minFactRunes filters out boilerplate fragments when counting depth
const minFactRunes = 20

// Gate runs grounding and research-depth checks over one pipeline pass,
// producing an accept/reject verdict with structured feedback. It never
// fails fatally: every input yields a verdict.
type Gate struct {
	validator *ground.Validator
	minFacts  int
}

// NewGate creates a critique gate. A nil validator gets the heuristic-backed
// default; minFacts <= 0 gets the default threshold.
func NewGate(validator *ground.Validator, minFacts int) *Gate {
	if validator == nil {
		validator = ground.NewValidator(nil)
	}
	if minFacts <= 0 {
		minFacts = DefaultMinFacts
	}
	return &Gate{validator: validator, minFacts: minFacts}
}

// Critique checks every draft claim for grounding and the accepted set for
// research depth. Approval requires both checks to pass; rejection always
// carries one reason and one actionable instruction per failure.
func (g *Gate) Critique(set model.FilteredFactSet, draftClaims []string) model.CritiqueVerdict {
	var reasons []string
	var instructions []string

	for _, claim := range draftClaims {
		missing := g.validator.Ungrounded(claim, set.Accepted)
		if len(missing) == 0 {
			continue
		}
		reasons = append(reasons, fmt.Sprintf(
			"claim %q cites %s not present in any accepted source", claim, quoteList(missing)))
		instructions = append(instructions, fmt.Sprintf(
			"Remove the claim %q or find a supporting source for %s", claim, quoteList(missing)))
	}

	if distinct := DistinctFactCount(set.Accepted); distinct < g.minFacts {
		reasons = append(reasons, fmt.Sprintf(
			"only %d distinct accepted facts found, need at least %d", distinct, g.minFacts))
		instructions = append(instructions,
			"Broaden web search queries to cover education, earlier roles, and public talks")
	}

	if len(reasons) == 0 {
		return model.CritiqueVerdict{Status: model.VerdictApproved}
	}

	return model.CritiqueVerdict{
		Status:                 model.VerdictRejected,
		Reasons:                reasons,
		ActionableInstructions: instructions,
	}
}

// DistinctFactCount counts distinct, non-boilerplate accepted facts.
// Facts are compared after case folding and whitespace collapsing; fragments
// shorter than the rune floor do not count toward research depth.
func DistinctFactCount(facts []model.Fact) int {
	seen := make(map[string]bool)
	for _, f := range facts {
		norm := strings.Join(strings.Fields(strings.ToLower(f.Text)), " ")
		if utf8.RuneCountInString(norm) < minFactRunes {
			continue
		}
		seen[norm] = true
	}
	return len(seen)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}
