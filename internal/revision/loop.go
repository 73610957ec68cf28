package revision

import "github.com/rapportlabs/rapport/internal/model"

// Action is the loop controller's decision after one critique pass
type Action string

const (
	// StopApproved ends the run with a validated report
	StopApproved Action = "stop_approved"
	// RequestRevision sends the verdict back to the research stage
	RequestRevision Action = "request_revision"
	// StopExhausted ends the run with the best-available filtered set,
	// which must be flagged as not fully validated
	StopExhausted Action = "stop_exhausted"
)

// Decision carries the action and, for revisions, the verdict feedback
type Decision struct {
	Action   Action
	Feedback *model.CritiqueVerdict
}

// Advance moves the revision state machine one step.
//
// Feedback is carried through unmodified, never summarized or truncated.
// Loss of specificity between critique and the next research attempt is
// the failure mode this loop exists to prevent.
func Advance(state *model.RevisionState, verdict model.CritiqueVerdict) Decision {
	v := verdict
	state.LastVerdict = &v

	if verdict.Status == model.VerdictApproved {
		return Decision{Action: StopApproved}
	}

	if state.IterationCount < state.MaxIterations {
		state.IterationCount++
		return Decision{Action: RequestRevision, Feedback: &v}
	}

	return Decision{Action: StopExhausted}
}
