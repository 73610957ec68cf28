package model

import "time"

// Report represents the complete outreach research report for one target.
// Rejected facts never appear in the report; only their count is recorded so
// the renderer cannot leak filtered content.
type Report struct {
	ProfileURL  string         `json:"profile_url"`
	Target      TargetIdentity `json:"target"`
	GeneratedAt time.Time      `json:"generated_at"`

	AcceptedFacts []Fact   `json:"accepted_facts"` // The complete and only permissible grounding set
	RejectedCount int      `json:"rejected_count"` // Facts removed by the evidence filter
	Claims        []string `json:"claims"`         // Draft claims that survived critique

	Verdict    CritiqueVerdict `json:"verdict"`
	Iterations int             `json:"iterations"` // Revision loop iterations consumed
	Validated  bool            `json:"validated"`  // False when the loop exhausted while still rejected

	Interests []string `json:"interests,omitempty"` // Personal context tags used for claim generation

	LLM *LLMDraft `json:"llm,omitempty"` // Optional LLM drafting metadata (never affects filtering)
}

// LLMDraft records how the optional drafting layer behaved.
// It never affects the deterministic filter or critique verdicts.
type LLMDraft struct {
	Enabled    bool     `json:"enabled"`
	Provider   string   `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
	StrictMode bool     `json:"strict_mode"` // Whether the accepted-facts allowlist was enforced
	Warnings   []string `json:"warnings,omitempty"`
}
