package llm

import (
	"context"
	"fmt"

	"github.com/rapportlabs/rapport/internal/ground"
	"github.com/rapportlabs/rapport/internal/model"
)

// Drafter wraps a Provider with graceful degradation: when the provider is
// disabled or unavailable, drafting yields no claims and a warning instead of
// an error, and the pipeline falls back to heuristic claims. The drafting
// layer never affects filtering or critique verdicts.
type Drafter struct {
	provider Provider
	config   Config
}

// NewDrafter creates a drafter from configuration. An empty provider name
// yields a disabled drafter.
func NewDrafter(config Config) (*Drafter, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Drafter{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (d *Drafter) IsEnabled() bool {
	return d != nil && d.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (d *Drafter) ProviderName() string {
	if !d.IsEnabled() {
		return ""
	}
	return d.provider.Name()
}

// DraftClaims generates conversation-starter claims from the accepted facts.
// Returns the claims, the drafting metadata for the report, and an error only
// for hard failures (strict-facts citation leaks included).
func (d *Drafter) DraftClaims(ctx context.Context, identity model.TargetIdentity, accepted []model.Fact, interests []string) ([]string, *model.LLMDraft, error) {
	if !d.IsEnabled() {
		return nil, nil, nil
	}

	meta := &model.LLMDraft{
		Enabled:    true,
		Provider:   d.provider.Name(),
		Model:      d.config.Model,
		StrictMode: d.config.StrictFacts,
	}

	if !d.provider.IsAvailable(ctx) {
		meta.Enabled = false
		meta.Warnings = append(meta.Warnings,
			fmt.Sprintf("LLM provider %s is not available; falling back to heuristic claims", d.provider.Name()))
		return nil, meta, nil
	}

	resp, err := d.provider.Draft(ctx, DraftRequest{
		Identity:      identity,
		AcceptedFacts: accepted,
		Interests:     interests,
	})
	if err != nil {
		return nil, nil, err
	}

	meta.Model = resp.Model
	return resp.Claims, meta, nil
}

// Assessor returns a ParaphraseAssessor backed by this drafter's provider,
// falling back to the rule-based heuristic when disabled or on call failure
func (d *Drafter) Assessor() ground.ParaphraseAssessor {
	if !d.IsEnabled() {
		return ground.NewHeuristicAssessor()
	}
	return &providerAssessor{
		provider: d.provider,
		fallback: ground.NewHeuristicAssessor(),
	}
}

// providerAssessor adapts the Provider's paraphrase judgment to the narrow
// ParaphraseAssessor interface
type providerAssessor struct {
	provider Provider
	fallback ground.ParaphraseAssessor
}

func (a *providerAssessor) AssessOverlap(x, y string) bool {
	ok, err := a.provider.AssessParaphrase(context.Background(), x, y)
	if err != nil {
		return a.fallback.AssessOverlap(x, y)
	}
	return ok
}
