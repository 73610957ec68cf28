package ground

import (
	"strings"
	"unicode"
)

// ParaphraseAssessor decides whether two text fragments express overlapping
// content. It is a narrow interface so the surrounding contracts stay
// deterministic: the default backend is a rule-based heuristic, but it can be
// swapped for an external model call without changing any caller.
type ParaphraseAssessor interface {
	AssessOverlap(a, b string) bool
}

// HeuristicAssessor approximates paraphrase detection with a content-word
// overlap ratio
type HeuristicAssessor struct {
	Threshold float64
}

// NewHeuristicAssessor creates an assessor with the default threshold
func NewHeuristicAssessor() *HeuristicAssessor {
	return &HeuristicAssessor{Threshold: 0.5}
}

// AssessOverlap reports whether at least Threshold of a's content words
// also appear in b
func (h *HeuristicAssessor) AssessOverlap(a, b string) bool {
	aw := contentWords(a)
	bw := contentWords(b)
	if len(aw) == 0 || len(bw) == 0 {
		return false
	}

	bset := make(map[string]bool, len(bw))
	for _, w := range bw {
		bset[w] = true
	}

	matched := 0
	for _, w := range aw {
		if bset[w] {
			matched++
		}
	}

	threshold := h.Threshold
	if threshold <= 0 {
		threshold = 0.5
	}

	return float64(matched)/float64(len(aw)) >= threshold
}

// stopWords are words too common to signal shared content
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "was": true, "were": true, "has": true,
	"have": true, "had": true, "are": true, "not": true, "but": true,
	"they": true, "their": true, "its": true, "his": true, "her": true,
	"she": true, "him": true, "who": true, "which": true, "been": true,
	"will": true, "would": true, "could": true, "should": true,
	"about": true, "into": true, "over": true, "after": true,
	"before": true, "than": true, "then": true, "them": true,
	"there": true, "also": true, "more": true, "most": true,
	"some": true, "such": true, "very": true, "when": true,
	"where": true, "while": true, "your": true, "you": true,
	"our": true, "out": true, "all": true, "any": true, "can": true,
	"may": true, "one": true, "new": true,
}

// contentWords returns the unique lower-cased content words of s
func contentWords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool)
	var words []string
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		words = append(words, f)
	}

	return words
}
