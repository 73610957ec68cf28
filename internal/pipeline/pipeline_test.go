package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rapportlabs/rapport/internal/critique"
	"github.com/rapportlabs/rapport/internal/filter"
	"github.com/rapportlabs/rapport/internal/ground"
	"github.com/rapportlabs/rapport/internal/match"
	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/revision"
)

// stubProvider returns canned facts and records the queries of each pass
type stubProvider struct {
	facts []model.Fact
	err   error
	calls [][]string
}

func (s *stubProvider) Research(ctx context.Context, profileURL string, identity model.TargetIdentity, queries []string) ([]model.Fact, error) {
	recorded := append([]string{}, queries...)
	s.calls = append(s.calls, recorded)
	return s.facts, s.err
}

func newTestPipeline(t *testing.T, provider *stubProvider) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Output.InterestsPath = filepath.Join(t.TempDir(), "my_interests.md")

	assessor := ground.NewHeuristicAssessor()
	validator := ground.NewValidator(assessor)
	return &Pipeline{
		provider:  provider,
		filter:    filter.New(match.NewMatcher(assessor)),
		validator: validator,
		gate:      critique.NewGate(validator, cfg.Critique.MinFacts),
		config:    cfg,
	}
}

func richFacts() []model.Fact {
	return []model.Fact{
		{
			Text:            "Pat Quinn has led engineering at Acme for six years",
			SourceURL:       "https://www.linkedin.com/in/patquinn/",
			SourceType:      model.SourceLinkedIn,
			EvidenceSnippet: "Pat Quinn — CTO at Acme",
		},
		{
			Text:            "Pat Quinn spoke about platform reliability at an industry summit",
			SourceURL:       "https://www.linkedin.com/in/patquinn/",
			SourceType:      model.SourceLinkedIn,
			EvidenceSnippet: "Pat Quinn — About: platform reliability talks",
		},
		{
			Text:            "Pat Quinn appeared on an engineering leadership podcast",
			SourceURL:       "https://podcasts.example.com/ep42",
			SourceType:      model.SourceWeb,
			EvidenceSnippet: "Pat Quinn, CTO at Acme, joined the show to discuss leadership",
		},
	}
}

func TestRun_ApprovedFirstPass(t *testing.T) {
	provider := &stubProvider{facts: richFacts()}
	p := newTestPipeline(t, provider)

	identity := model.TargetIdentity{Name: "Pat Quinn", CurrentWork: "CTO at Acme"}
	result, err := p.Run(context.Background(), "https://www.linkedin.com/in/patquinn/", identity)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Action != revision.StopApproved {
		t.Errorf("expected stop_approved, got %s", result.Action)
	}
	if !result.Report.Validated {
		t.Error("approved report should be validated")
	}
	if result.Report.Iterations != 0 {
		t.Errorf("first-pass approval should consume no revisions, got %d", result.Report.Iterations)
	}
	if len(provider.calls) != 1 {
		t.Errorf("expected a single research pass, got %d", len(provider.calls))
	}
	if len(result.Report.AcceptedFacts) != 3 {
		t.Errorf("expected 3 accepted facts, got %d", len(result.Report.AcceptedFacts))
	}
	if len(result.Report.Claims) == 0 {
		t.Error("expected heuristic claims in the report")
	}
}

func TestRun_ThinEvidenceExhaustsRevisions(t *testing.T) {
	provider := &stubProvider{facts: richFacts()[:1]}
	p := newTestPipeline(t, provider)

	identity := model.TargetIdentity{Name: "Pat Quinn", CurrentWork: "CTO at Acme"}
	result, err := p.Run(context.Background(), "https://www.linkedin.com/in/patquinn/", identity)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Action != revision.StopExhausted {
		t.Errorf("expected stop_exhausted, got %s", result.Action)
	}
	if result.Report.Validated {
		t.Error("exhausted report must not be marked validated")
	}
	if result.Report.Iterations != model.DefaultMaxIterations {
		t.Errorf("expected %d iterations, got %d", model.DefaultMaxIterations, result.Report.Iterations)
	}
	// Initial pass plus one per revision.
	if len(provider.calls) != model.DefaultMaxIterations+1 {
		t.Fatalf("expected %d research passes, got %d", model.DefaultMaxIterations+1, len(provider.calls))
	}
	if result.Report.Verdict.Status != model.VerdictRejected {
		t.Error("last verdict should remain rejected")
	}
}

func TestRun_FeedbackInstructionsBecomeQueries(t *testing.T) {
	provider := &stubProvider{facts: richFacts()[:1]}
	p := newTestPipeline(t, provider)

	identity := model.TargetIdentity{Name: "Pat Quinn", CurrentWork: "CTO at Acme"}
	if _, err := p.Run(context.Background(), "https://www.linkedin.com/in/patquinn/", identity); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(provider.calls) < 2 {
		t.Fatal("expected at least one revision pass")
	}
	second := strings.Join(provider.calls[1], "\n")
	if !strings.Contains(second, "Broaden web search queries") {
		t.Errorf("revision pass should reuse critique instructions verbatim, got %v", provider.calls[1])
	}
	// Base queries are carried alongside the feedback, not replaced by it.
	first := strings.Join(provider.calls[0], "\n")
	if !strings.Contains(second, first) {
		t.Error("revision pass should keep the base queries")
	}
}

func TestRun_ResearchErrorIsFatal(t *testing.T) {
	provider := &stubProvider{err: context.DeadlineExceeded}
	p := newTestPipeline(t, provider)

	_, err := p.Run(context.Background(), "https://www.linkedin.com/in/patquinn/", model.TargetIdentity{Name: "Pat Quinn"})
	if err == nil {
		t.Fatal("expected research error to propagate")
	}
	if !strings.Contains(err.Error(), "research:") {
		t.Errorf("error should name the failing stage: %v", err)
	}
}

func TestHeuristicClaims_QuotesFactsVerbatim(t *testing.T) {
	facts := richFacts()
	claims := HeuristicClaims(facts, nil)
	if len(claims) != 3 {
		t.Fatalf("expected one claim per fact, got %d", len(claims))
	}
	for i, claim := range claims {
		if claim != facts[i].Text {
			t.Errorf("claim %d should quote the fact verbatim, got %q", i, claim)
		}
	}
}

func TestHeuristicClaims_InterestRequiresEvidence(t *testing.T) {
	facts := []model.Fact{{
		Text:       "Pat Quinn writes about distributed systems on a personal blog",
		SourceURL:  "https://blog.example.com",
		SourceType: model.SourceWeb,
	}}

	claims := HeuristicClaims(facts, []string{"distributed systems", "alpine skiing"})

	joined := strings.Join(claims, "\n")
	if !strings.Contains(joined, "distributed systems") {
		t.Error("confirmed interest should produce a hook")
	}
	if strings.Contains(joined, "alpine skiing") {
		t.Error("unconfirmed interest must not appear in claims")
	}
}

func TestReportPath_Format(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	path := ReportPath("out", "https://www.linkedin.com/in/pat-quinn-1a2b/", ts)
	want := filepath.Join("out", "report_pat-quinn-1a2b_20260314-093000.md")
	if path != want {
		t.Errorf("expected %q, got %q", want, path)
	}
}
