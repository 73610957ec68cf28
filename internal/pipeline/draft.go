package pipeline

import (
	"fmt"
	"strings"

	"github.com/rapportlabs/rapport/internal/model"
)

// maxHeuristicClaims caps how many fact-derived starters the heuristic
// drafter emits before interest hooks.
const maxHeuristicClaims = 5

// HeuristicClaims drafts conversation starters without any LLM. Each claim
// quotes an accepted fact verbatim, so grounding holds by construction. An
// interest hook is added only when the interest phrase literally appears in
// an accepted fact, meaning the evidence itself confirms the overlap.
func HeuristicClaims(accepted []model.Fact, interestTags []string) []string {
	var claims []string
	for _, fact := range accepted {
		if len(claims) >= maxHeuristicClaims {
			break
		}
		text := strings.TrimSpace(fact.Text)
		if text == "" {
			continue
		}
		claims = append(claims, text)
	}

	for _, interest := range interestTags {
		needle := strings.ToLower(strings.TrimSpace(interest))
		if needle == "" {
			continue
		}
		for _, fact := range accepted {
			if strings.Contains(strings.ToLower(fact.Text), needle) {
				claims = append(claims, fmt.Sprintf("You both care about %s, which could make a natural opener", interest))
				break
			}
		}
	}
	return claims
}
