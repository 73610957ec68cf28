package filter

import (
	"strings"

	"github.com/rapportlabs/rapport/internal/match"
	"github.com/rapportlabs/rapport/internal/model"
)

// Filter applies the identity matcher to a batch of facts, partitioning them
// into accepted and rejected
type Filter struct {
	matcher *match.Matcher
}

// New creates a filter around the given matcher
func New(matcher *match.Matcher) *Filter {
	if matcher == nil {
		matcher = match.NewMatcher(nil)
	}
	return &Filter{matcher: matcher}
}

// Filter partitions facts into accepted and rejected, preserving input order
// on both sides (stable partition). It is a pure function over its inputs:
// no external calls, no hidden state, and the input facts are never mutated.
func (f *Filter) Filter(facts []model.Fact, identity model.TargetIdentity) model.FilteredFactSet {
	set := model.FilteredFactSet{
		Accepted: []model.Fact{},
		Rejected: []model.RejectedFact{},
	}

	for _, fact := range facts {
		// A fact without a source is a research-provider contract violation;
		// reject it rather than crash.
		if strings.TrimSpace(fact.SourceURL) == "" {
			set.Rejected = append(set.Rejected, reject(fact, "missing source"))
			continue
		}

		result := f.matcher.Match(fact, identity)
		if accepted(fact.SourceType, result.Confidence) {
			out := fact
			out.Status = model.FactAccepted
			out.RejectionReason = ""
			set.Accepted = append(set.Accepted, out)
			continue
		}

		set.Rejected = append(set.Rejected, reject(fact, result.Reason))
	}

	return set
}

// accepted encodes the trust policy: LinkedIn is the trust anchor, so only a
// hard identity mismatch rejects a linkedin-sourced fact; web-sourced facts
// need a strong match.
func accepted(source model.SourceType, confidence model.MatchConfidence) bool {
	if source == model.SourceLinkedIn {
		return confidence != model.ConfidenceNone
	}
	return confidence == model.ConfidenceStrong
}

func reject(fact model.Fact, reason string) model.RejectedFact {
	out := fact
	out.Status = model.FactRejected
	out.RejectionReason = reason
	return model.RejectedFact{Fact: out, Reason: reason}
}
