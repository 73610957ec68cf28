package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rapportlabs/rapport/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name       string
	available  bool
	response   *DraftResponse
	paraphrase bool
	err        error
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Draft(ctx context.Context, req DraftRequest) (*DraftResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) AssessParaphrase(ctx context.Context, a, b string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.paraphrase, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func TestNewDrafter_DisabledProvider(t *testing.T) {
	drafter, err := NewDrafter(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if drafter.IsEnabled() {
		t.Error("Expected drafter to be disabled")
	}
	if drafter.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	claims, meta, err := drafter.DraftClaims(context.Background(), model.TargetIdentity{}, nil, nil)
	if err != nil || claims != nil || meta != nil {
		t.Error("Expected disabled drafter to return nothing")
	}
}

func TestNewDrafter_UnknownProvider(t *testing.T) {
	_, err := NewDrafter(Config{Provider: "clippy"})
	if err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestDrafter_ProviderUnavailable(t *testing.T) {
	drafter := &Drafter{
		provider: &MockProvider{name: "test-provider", available: false},
		config:   Config{StrictFacts: true},
	}

	claims, meta, err := drafter.DraftClaims(context.Background(), model.TargetIdentity{Name: "John Doe"}, nil, nil)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if claims != nil {
		t.Error("Expected no claims from unavailable provider")
	}
	if meta == nil {
		t.Fatal("Expected drafting metadata with warnings")
	}
	if meta.Enabled {
		t.Error("Expected metadata to be marked as disabled")
	}

	found := false
	for _, warning := range meta.Warnings {
		if strings.Contains(warning, "not available") {
			found = true
		}
	}
	if !found {
		t.Error("Expected warning about provider unavailability")
	}
}

func TestDrafter_Success(t *testing.T) {
	drafter := &Drafter{
		provider: &MockProvider{
			name:      "test-provider",
			available: true,
			response: &DraftResponse{
				Claims: []string{"Joined Acme as CTO in 2019", "Spoke at the SaaS conference"},
				Model:  "test-model",
			},
		},
		config: Config{StrictFacts: true},
	}

	claims, meta, err := drafter.DraftClaims(context.Background(), model.TargetIdentity{Name: "John Doe"}, nil, nil)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 2 {
		t.Errorf("Expected 2 claims, got %d", len(claims))
	}
	if meta == nil || !meta.Enabled {
		t.Error("Expected enabled drafting metadata")
	}
	if meta.Model != "test-model" {
		t.Errorf("Expected model from response, got %q", meta.Model)
	}
}

func TestDrafter_ProviderError(t *testing.T) {
	drafter := &Drafter{
		provider: &MockProvider{
			name:      "test-provider",
			available: true,
			err:       errors.New("boom"),
		},
	}

	_, _, err := drafter.DraftClaims(context.Background(), model.TargetIdentity{}, nil, nil)
	if err == nil {
		t.Error("Expected provider error to propagate")
	}
}

func TestDrafter_AssessorFallsBackOnError(t *testing.T) {
	drafter := &Drafter{
		provider: &MockProvider{name: "test-provider", err: errors.New("down")},
	}

	assessor := drafter.Assessor()

	// The heuristic fallback should still judge a near-verbatim overlap.
	a := "platform migrations at the annual conference"
	b := "Spoke about platform migrations at the annual SaaS conference"
	if !assessor.AssessOverlap(a, b) {
		t.Error("Expected heuristic fallback to assess overlapping fragments")
	}
}

func TestParseClaims_StripsBulletsAndNumbering(t *testing.T) {
	output := "- First starter\n2. Second starter\n\n* Third starter\n"

	claims := ParseClaims(output)

	want := []string{"First starter", "Second starter", "Third starter"}
	if len(claims) != len(want) {
		t.Fatalf("Expected %d claims, got %d: %v", len(want), len(claims), claims)
	}
	for i, claim := range claims {
		if claim != want[i] {
			t.Errorf("Claim %d: expected %q, got %q", i, want[i], claim)
		}
	}
}

func TestVerifyCitations_LeakDetected(t *testing.T) {
	facts := []model.Fact{
		{Text: "Joined Acme in 2019", SourceURL: "https://www.linkedin.com/in/johndoe/"},
	}

	ok := "They joined Acme in 2019 (https://www.linkedin.com/in/johndoe/)"
	if err := VerifyCitations(ok, facts); err != nil {
		t.Errorf("Expected allowlisted citation to pass, got %v", err)
	}

	leak := "See https://evil.example.com/profile for more"
	if err := VerifyCitations(leak, facts); err == nil {
		t.Error("Expected disallowed citation to be rejected")
	}
}
