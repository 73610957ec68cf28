package model

// Fact represents one atomic claim about the research target
type Fact struct {
	Text            string     `json:"text"`                       // The claim content itself
	SourceURL       string     `json:"source_url"`                 // Where the claim came from
	SourceType      SourceType `json:"source_type"`                // linkedin or web
	EvidenceSnippet string     `json:"evidence_snippet,omitempty"` // Raw fragment supporting the identity match
	Status          FactStatus `json:"status,omitempty"`           // Set by the evidence filter
	RejectionReason string     `json:"rejection_reason,omitempty"` // Set when Status is rejected
}

// SourceType classifies where a fact came from
type SourceType string

const (
	SourceLinkedIn SourceType = "linkedin" // The profile itself (trust anchor)
	SourceWeb      SourceType = "web"      // Web search result
)

// FactStatus is the filter's disposition of a fact
type FactStatus string

const (
	FactAccepted FactStatus = "accepted"
	FactRejected FactStatus = "rejected"
)

// RejectedFact pairs a rejected fact with the reason it was rejected
type RejectedFact struct {
	Fact   Fact   `json:"fact"`
	Reason string `json:"reason"`
}

// FilteredFactSet is the immutable result of evidence filtering.
// Accepted and Rejected preserve the input order of the facts they came from.
type FilteredFactSet struct {
	Accepted []Fact         `json:"accepted"`
	Rejected []RejectedFact `json:"rejected"`
}

// Total returns the number of facts that went into the partition
func (s FilteredFactSet) Total() int {
	return len(s.Accepted) + len(s.Rejected)
}
