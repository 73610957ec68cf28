package ground

import (
	"regexp"
	"strings"

	"github.com/rapportlabs/rapport/internal/model"
)

// Validator checks that report claims are traceable to accepted facts only
type Validator struct {
	assessor ParaphraseAssessor
}

// NewValidator creates a validator. A nil assessor falls back to the
// rule-based heuristic.
func NewValidator(assessor ParaphraseAssessor) *Validator {
	if assessor == nil {
		assessor = NewHeuristicAssessor()
	}
	return &Validator{assessor: assessor}
}

// Element is one checkable specific inside a claim. Exact elements (numbers,
// money, years) must appear verbatim in a supporting fact; the rest may be
// supported by a close paraphrase.
type Element struct {
	Text  string
	Exact bool
}

// Checkable element patterns
var (
	moneyPattern   = regexp.MustCompile(`\$\d[\d,.]*\s?(?:[MBKmbk]\b|million|billion|thousand)?`)
	percentPattern = regexp.MustCompile(`\d+(?:\.\d+)?%`)
	yearPattern    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	numberPattern  = regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b`)
	quotedPattern  = regexp.MustCompile(`"([^"]+)"`)
	entityPattern  = regexp.MustCompile(`\b[A-Z][A-Za-z&.\-]*(?:\s+[A-Z][A-Za-z&.\-]*)+\b`)
)

// CheckableElements extracts the specific, checkable elements of a claim:
// money figures, percentages, years, other numbers, quoted phrases, and
// multi-word named entities. A claim with no elements is a generic statement.
func CheckableElements(claim string) []Element {
	var elements []Element

	add := func(text string, exact bool) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		// Skip fragments already covered by a wider element
		for _, el := range elements {
			if strings.Contains(el.Text, text) {
				return
			}
		}
		elements = append(elements, Element{Text: text, Exact: exact})
	}

	for _, m := range moneyPattern.FindAllString(claim, -1) {
		add(m, true)
	}
	for _, m := range percentPattern.FindAllString(claim, -1) {
		add(m, true)
	}
	for _, m := range yearPattern.FindAllString(claim, -1) {
		add(m, true)
	}
	for _, m := range numberPattern.FindAllString(claim, -1) {
		add(m, true)
	}
	for _, m := range quotedPattern.FindAllStringSubmatch(claim, -1) {
		add(m[1], false)
	}
	for _, m := range entityPattern.FindAllString(claim, -1) {
		add(m, false)
	}

	return elements
}

// Validate reports whether every checkable element of the claim appears,
// verbatim or as a close paraphrase, in at least one accepted fact. Generic
// statements with no checkable specifics are always grounded: the contract is
// "no invented specifics", not "no synthesis".
func (v *Validator) Validate(claim string, accepted []model.Fact) bool {
	return len(v.Ungrounded(claim, accepted)) == 0
}

// Ungrounded returns the checkable elements of the claim that no accepted
// fact supports, in claim order
func (v *Validator) Ungrounded(claim string, accepted []model.Fact) []string {
	var missing []string
	for _, el := range CheckableElements(claim) {
		if !v.supported(el, claim, accepted) {
			missing = append(missing, el.Text)
		}
	}
	return missing
}

// supported checks one element against every accepted fact
func (v *Validator) supported(el Element, claim string, accepted []model.Fact) bool {
	needle := normalize(el.Text)
	for _, fact := range accepted {
		text := normalize(fact.Text)
		if strings.Contains(text, needle) {
			return true
		}
		if !el.Exact && v.assessor.AssessOverlap(claim, fact.Text) {
			return true
		}
	}
	return false
}

// normalize folds case and strips digit-group commas so "1,000" matches "1000"
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, ",", "")
}
