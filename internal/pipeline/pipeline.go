// Package pipeline wires research, evidence filtering, drafting, critique,
// and the revision loop into a single run per profile.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rapportlabs/rapport/internal/cache"
	"github.com/rapportlabs/rapport/internal/critique"
	"github.com/rapportlabs/rapport/internal/filter"
	"github.com/rapportlabs/rapport/internal/ground"
	"github.com/rapportlabs/rapport/internal/interests"
	"github.com/rapportlabs/rapport/internal/llm"
	"github.com/rapportlabs/rapport/internal/match"
	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/research"
	"github.com/rapportlabs/rapport/internal/revision"
	"github.com/rapportlabs/rapport/internal/worker"
)

// Pipeline runs the full research-to-report flow for one profile.
type Pipeline struct {
	provider  research.Provider
	filter    *filter.Filter
	validator *ground.Validator
	gate      *critique.Gate
	drafter   *llm.Drafter
	config    *model.Config
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	Report *model.Report
	Action revision.Action
}

// NewPipeline builds a pipeline from configuration. The research provider
// is assembled from whichever API keys are present; the LLM drafter is
// optional and a failure to construct it falls back to heuristic drafting.
func NewPipeline(cfg *model.Config) *Pipeline {
	var drafter *llm.Drafter
	if cfg.LLM.Provider != "" {
		d, err := llm.NewDrafter(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM drafting disabled: %v\n", err)
		} else {
			drafter = d
		}
	}

	var assessor ground.ParaphraseAssessor
	if drafter != nil {
		assessor = drafter.Assessor()
	} else {
		assessor = ground.NewHeuristicAssessor()
	}

	var li *research.LinkedInClient
	if cfg.Research.LinkedInAPIKey != "" {
		li = research.NewLinkedInClient(
			cfg.Research.LinkedInBaseURL, cfg.Research.LinkedInAPIKey,
			cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
			cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy, cfg.HTTP.InsecureTLS)
	}

	var fc *research.FirecrawlClient
	if cfg.Research.FirecrawlAPIKey != "" {
		fc = research.NewFirecrawlClient(
			cfg.Research.FirecrawlBaseURL, cfg.Research.FirecrawlAPIKey,
			cfg.Research.SearchLimit, cfg.HTTP.Timeout,
			cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy, cfg.HTTP.InsecureTLS)
	}

	var enricher *research.Enricher
	if cfg.Research.EnrichPages {
		var store cache.Cache
		if cfg.Cache.Enabled {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		}
		limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)
		enricher = research.NewEnricher(
			cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
			cfg.Research.MinSnippetChars,
			cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy, cfg.HTTP.InsecureTLS,
			limiter, store)
	}

	provider := research.NewComposite(li, fc, enricher, cfg.Output.Verbose)

	validator := ground.NewValidator(assessor)
	return &Pipeline{
		provider:  provider,
		filter:    filter.New(match.NewMatcher(assessor)),
		validator: validator,
		gate:      critique.NewGate(validator, cfg.Critique.MinFacts),
		drafter:   drafter,
		config:    cfg,
	}
}

// Run researches one profile, filters evidence for identity, drafts
// conversation starters, and revises until the critique gate approves or
// the iteration cap is reached. The returned report always reflects the
// last completed attempt.
func (p *Pipeline) Run(ctx context.Context, profileURL string, identity model.TargetIdentity) (*RunResult, error) {
	if strings.TrimSpace(identity.Name) == "" {
		identity.Name = research.GuessName(profileURL)
	}

	interestTags, err := interests.Load(p.config.Output.InterestsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	state := model.NewRevisionState(p.config.Revision.MaxIterations)
	base := research.BaseQueries(profileURL, identity)
	queries := base

	var (
		lastSet     model.FilteredFactSet
		lastClaims  []string
		lastVerdict model.CritiqueVerdict
		llmMeta     *model.LLMDraft
		action      revision.Action
	)

	for {
		if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Research pass %d: %d queries\n", state.IterationCount+1, len(queries))
		}

		facts, err := p.provider.Research(ctx, profileURL, identity, queries)
		if err != nil {
			return nil, fmt.Errorf("research: %w", err)
		}

		set := p.filter.Filter(facts, identity)
		if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Evidence filter: %d accepted, %d rejected\n",
				len(set.Accepted), len(set.Rejected))
		}

		claims, meta := p.draftClaims(ctx, identity, set.Accepted, interestTags)
		if meta != nil {
			llmMeta = meta
		}

		verdict := p.gate.Critique(set, claims)
		lastSet, lastClaims, lastVerdict = set, claims, verdict

		decision := revision.Advance(state, verdict)
		if decision.Action == revision.RequestRevision {
			// The critique's instructions are fed back verbatim as extra
			// search queries for the next pass.
			queries = append(append([]string{}, base...), decision.Feedback.ActionableInstructions...)
			continue
		}
		action = decision.Action
		break
	}

	if action == revision.StopExhausted {
		lastClaims = p.groundedOnly(lastClaims, lastSet.Accepted)
	}

	report := &model.Report{
		ProfileURL:    profileURL,
		Target:        identity,
		GeneratedAt:   time.Now().UTC(),
		AcceptedFacts: lastSet.Accepted,
		RejectedCount: len(lastSet.Rejected),
		Claims:        lastClaims,
		Verdict:       lastVerdict,
		Iterations:    state.IterationCount,
		Validated:     action == revision.StopApproved,
		Interests:     interestTags,
		LLM:           llmMeta,
	}
	return &RunResult{Report: report, Action: action}, nil
}

// draftClaims prefers the LLM drafter when one is configured and falls back
// to heuristic drafting whenever it is missing, unavailable, or errors out.
func (p *Pipeline) draftClaims(ctx context.Context, identity model.TargetIdentity, accepted []model.Fact, interestTags []string) ([]string, *model.LLMDraft) {
	if p.drafter == nil || !p.drafter.IsEnabled() {
		return HeuristicClaims(accepted, interestTags), nil
	}

	claims, meta, err := p.drafter.DraftClaims(ctx, identity, accepted, interestTags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM drafting failed, using heuristic claims: %v\n", err)
		meta = &model.LLMDraft{
			Provider: p.drafter.ProviderName(),
			Warnings: []string{err.Error()},
		}
		return HeuristicClaims(accepted, interestTags), meta
	}
	if len(claims) == 0 {
		return HeuristicClaims(accepted, interestTags), meta
	}
	return claims, meta
}

// groundedOnly drops claims that cite anything outside the accepted facts.
// Used when the revision loop exhausts: the report ships flagged, but never
// with unsupported specifics.
func (p *Pipeline) groundedOnly(claims []string, accepted []model.Fact) []string {
	kept := make([]string, 0, len(claims))
	for _, claim := range claims {
		if p.validator.Validate(claim, accepted) {
			kept = append(kept, claim)
		}
	}
	return kept
}
