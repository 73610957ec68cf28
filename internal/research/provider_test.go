package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rapportlabs/rapport/internal/model"
)

func TestProfileSlug(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.linkedin.com/in/williamhgates/", "williamhgates"},
		{"https://www.linkedin.com/in/pat-quinn-1a2b", "pat-quinn-1a2b"},
		{"patquinn", "patquinn"},
	}
	for _, tt := range tests {
		if got := ProfileSlug(tt.url); got != tt.expected {
			t.Errorf("ProfileSlug(%q): expected %q, got %q", tt.url, tt.expected, got)
		}
	}
}

func TestGuessName(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.linkedin.com/in/pat-quinn-1a2b/", "Pat Quinn"},
		{"https://www.linkedin.com/in/john-doe-8675309/", "John Doe"},
		{"https://www.linkedin.com/in/satyanadella/", "Satyanadella"},
	}
	for _, tt := range tests {
		if got := GuessName(tt.url); got != tt.expected {
			t.Errorf("GuessName(%q): expected %q, got %q", tt.url, tt.expected, got)
		}
	}
}

func TestBaseQueries(t *testing.T) {
	identity := model.TargetIdentity{Name: "Pat Quinn", CurrentWork: "CTO at Acme"}
	queries := BaseQueries("https://www.linkedin.com/in/patquinn/", identity)

	if len(queries) != 3 {
		t.Fatalf("expected 3 queries, got %v", queries)
	}
	if queries[0] != `"Pat Quinn"` {
		t.Errorf("first query should quote the name, got %q", queries[0])
	}
	if !strings.Contains(queries[1], "CTO at Acme") {
		t.Errorf("second query should carry the current work, got %q", queries[1])
	}
	if !strings.Contains(queries[2], "interview OR talk OR podcast") {
		t.Errorf("third query should target public appearances, got %q", queries[2])
	}
}

func TestBaseQueries_NameDerivedFromSlug(t *testing.T) {
	queries := BaseQueries("https://www.linkedin.com/in/pat-quinn-1a2b/", model.TargetIdentity{})
	if len(queries) == 0 {
		t.Fatal("expected queries derived from the slug")
	}
	if !strings.Contains(strings.ToLower(queries[0]), "pat quinn") {
		t.Errorf("expected slug-derived name in %q", queries[0])
	}
}

func TestComposite_ProfileFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	li := NewLinkedInClient(server.URL, "li-test", 5*time.Second, "Rapport/0.1", 0, "", "", "", false)
	composite := NewComposite(li, nil, nil, false)

	_, err := composite.Research(context.Background(), "https://www.linkedin.com/in/patquinn/", model.TargetIdentity{Name: "Pat Quinn"}, nil)
	if err == nil {
		t.Fatal("profile fetch failure must fail the research pass")
	}
	if !strings.Contains(err.Error(), "linkedin profile") {
		t.Errorf("error should name the failing source: %v", err)
	}
}

func TestComposite_SearchFailureDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	fc := NewFirecrawlClient(server.URL, "fc-test", 5, 5*time.Second, "", "", "", false)
	composite := NewComposite(nil, fc, nil, false)

	facts, err := composite.Research(context.Background(), "https://www.linkedin.com/in/patquinn/", model.TargetIdentity{Name: "Pat Quinn"}, []string{`"Pat Quinn"`})
	if err != nil {
		t.Fatalf("search failure must degrade, not fail the pass: %v", err)
	}
	if len(facts) != 0 {
		t.Errorf("expected no facts from failed searches, got %d", len(facts))
	}
}
