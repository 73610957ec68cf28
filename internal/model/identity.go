package model

// TargetIdentity is the disambiguation key for the person a report is about.
// The profile URL itself is held by the research collaborator; Name and
// CurrentWork are optional refinements supplied on the command line.
type TargetIdentity struct {
	Name        string `json:"name,omitempty"`         // Full name, e.g. "John Doe"
	CurrentWork string `json:"current_work,omitempty"` // Role/company, e.g. "CTO at Acme"
}

// MatchConfidence is the three-tier confidence of an identity match
type MatchConfidence string

const (
	ConfidenceStrong MatchConfidence = "strong"
	ConfidenceWeak   MatchConfidence = "weak"
	ConfidenceNone   MatchConfidence = "none"
)

// MatchResult is the identity matcher's decision for a single fact
type MatchResult struct {
	IsMatch    bool            `json:"is_match"`
	Confidence MatchConfidence `json:"confidence"`
	Reason     string          `json:"reason"`
}
