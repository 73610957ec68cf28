package model

// VerdictStatus is the outcome of one critique pass
type VerdictStatus string

const (
	VerdictApproved VerdictStatus = "approved"
	VerdictRejected VerdictStatus = "rejected"
)

// CritiqueVerdict is the structured outcome of one critique pass.
// Rejected verdicts must carry at least one reason and one instruction;
// empty feedback is a contract violation by the critique gate.
type CritiqueVerdict struct {
	Status                 VerdictStatus `json:"status"`
	Reasons                []string      `json:"reasons,omitempty"`
	ActionableInstructions []string      `json:"actionable_instructions,omitempty"`
}

// WellFormed reports whether the verdict honors the feedback contract
func (v CritiqueVerdict) WellFormed() bool {
	if v.Status == VerdictApproved {
		return true
	}
	return len(v.Reasons) > 0 && len(v.ActionableInstructions) > 0
}

// RevisionState tracks iteration across the reject→research→filter→critique
// loop. One instance is owned by exactly one pipeline run.
type RevisionState struct {
	IterationCount int              `json:"iteration_count"`
	MaxIterations  int              `json:"max_iterations"`
	LastVerdict    *CritiqueVerdict `json:"last_verdict,omitempty"`
}

// DefaultMaxIterations is the cap on reject→revise cycles per run
const DefaultMaxIterations = 2

// NewRevisionState creates a fresh revision state for one pipeline run
func NewRevisionState(maxIterations int) *RevisionState {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &RevisionState{MaxIterations: maxIterations}
}

// Terminal reports whether the loop must not run another iteration
func (s *RevisionState) Terminal() bool {
	if s.LastVerdict != nil && s.LastVerdict.Status == VerdictApproved {
		return true
	}
	return s.IterationCount >= s.MaxIterations
}
