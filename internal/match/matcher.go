package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rapportlabs/rapport/internal/ground"
	"github.com/rapportlabs/rapport/internal/model"
)

// Matcher decides whether a fact's evidence sufficiently ties it to the
// target person. Rules are applied in order; the first satisfied rule wins.
// The three-tier confidence degrades gracefully instead of forcing a binary
// accept/reject that would lose signal for the critique gate.
type Matcher struct {
	assessor ground.ParaphraseAssessor
}

// NewMatcher creates a matcher. A nil assessor falls back to the rule-based
// heuristic.
func NewMatcher(assessor ground.ParaphraseAssessor) *Matcher {
	if assessor == nil {
		assessor = ground.NewHeuristicAssessor()
	}
	return &Matcher{assessor: assessor}
}

// Match classifies how well the fact's evidence ties it to the identity
func (m *Matcher) Match(fact model.Fact, identity model.TargetIdentity) model.MatchResult {
	snippet := strings.ToLower(fact.EvidenceSnippet)

	// No name configured: the profile URL is the only disambiguator.
	if strings.TrimSpace(identity.Name) == "" {
		if fact.SourceType == model.SourceLinkedIn {
			return model.MatchResult{
				IsMatch:    true,
				Confidence: model.ConfidenceStrong,
				Reason:     "linkedin-sourced; the profile URL disambiguates",
			}
		}
		if hasNameMention(fact.EvidenceSnippet) && m.assessor.AssessOverlap(fact.EvidenceSnippet, fact.Text) {
			return model.MatchResult{
				IsMatch:    true,
				Confidence: model.ConfidenceStrong,
				Reason:     "evidence names the subject and overlaps the fact content",
			}
		}
		return model.MatchResult{
			IsMatch:    true,
			Confidence: model.ConfidenceWeak,
			Reason:     "no target name configured; web evidence cannot be disambiguated",
		}
	}

	// Name configured but absent from the evidence: hard mismatch.
	if !containsName(snippet, identity.Name) {
		return model.MatchResult{
			IsMatch:    false,
			Confidence: model.ConfidenceNone,
			Reason:     fmt.Sprintf("evidence does not mention %q", identity.Name),
		}
	}

	if strings.TrimSpace(identity.CurrentWork) != "" {
		if m.referencesWork(fact.EvidenceSnippet, identity.CurrentWork) {
			return model.MatchResult{
				IsMatch:    true,
				Confidence: model.ConfidenceStrong,
				Reason:     "evidence mentions both the name and the current work",
			}
		}
		if role, ok := conflictingOccupation(fact.EvidenceSnippet, identity.CurrentWork); ok {
			return model.MatchResult{
				IsMatch:    false,
				Confidence: model.ConfidenceNone,
				Reason:     fmt.Sprintf("evidence describes someone else: %q does not fit %q", role, identity.CurrentWork),
			}
		}
		return model.MatchResult{
			IsMatch:    true,
			Confidence: model.ConfidenceWeak,
			Reason:     fmt.Sprintf("name matches but evidence does not reference %q", identity.CurrentWork),
		}
	}

	return model.MatchResult{
		IsMatch:    true,
		Confidence: model.ConfidenceStrong,
		Reason:     "name matches and no current work to check against",
	}
}

// referencesWork reports whether the evidence mentions the current role or
// company, by token or close paraphrase
func (m *Matcher) referencesWork(snippet, work string) bool {
	lower := strings.ToLower(snippet)
	for _, token := range workTokens(work) {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return m.assessor.AssessOverlap(work, snippet)
}

// properNounPattern matches a two-word capitalized run, the minimal signal
// that a snippet names a person
var properNounPattern = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)

func hasNameMention(snippet string) bool {
	return properNounPattern.MatchString(snippet)
}

// containsName checks for the full name in the given order or a clearly
// equivalent token ordering ("Doe, John"). The snippet must already be
// lower-cased.
func containsName(snippet, name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	if strings.Contains(snippet, n) {
		return true
	}

	tokens := strings.Fields(n)
	if len(tokens) < 2 {
		return false
	}

	last := tokens[len(tokens)-1]
	rest := strings.Join(tokens[:len(tokens)-1], " ")
	if strings.Contains(snippet, last+", "+rest) {
		return true
	}
	return strings.Contains(snippet, last+" "+rest)
}

// workFillers are connective words in role descriptions ("CTO at Acme")
var workFillers = map[string]bool{
	"at": true, "of": true, "in": true, "the": true, "and": true,
	"for": true, "a": true, "an": true, "to": true,
}

// workTokens extracts the content tokens of a role/company description
func workTokens(work string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(work)) {
		f = strings.Trim(f, ".,;:")
		if len(f) < 2 || workFillers[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// occupationPattern matches evidence that describes the subject as
// "a <role> in/at/...", an occupation assertion we can compare against
// the configured current work
var occupationPattern = regexp.MustCompile(`(?i)\b(?:a|an)\s+([a-z]+)\s+(?:in|at|from|for|of)\b`)

// conflictingOccupation reports whether the evidence asserts an occupation
// that is not part of the configured current work. A same-name person in a
// different line of work is the classic disambiguation failure.
func conflictingOccupation(snippet, work string) (string, bool) {
	m := occupationPattern.FindStringSubmatch(snippet)
	if m == nil {
		return "", false
	}
	role := strings.ToLower(m[1])
	for _, token := range workTokens(work) {
		if token == role {
			return "", false
		}
	}
	return role, true
}
