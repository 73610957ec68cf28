package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rapportlabs/rapport/internal/model"
)

func TestFirecrawlSearch_ShapesFacts(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq firecrawlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		resp := firecrawlResponse{
			Success: true,
			Data: []firecrawlResult{
				{
					Title:       "Pat Quinn keynotes SaaS Summit",
					URL:         "https://news.example.com/keynote",
					Description: "Pat Quinn, CTO at Acme, opened the conference",
				},
				{
					Title:    "Acme engineering blog",
					URL:      "https://blog.example.com/post",
					Markdown: "Pat Quinn writes about reliability engineering at Acme.",
				},
				{
					Title: "No URL result is dropped",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewFirecrawlClient(server.URL, "fc-test", 5, 5*time.Second, "", "", "", false)
	facts, err := client.Search(context.Background(), `"Pat Quinn"`)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotAuth != "Bearer fc-test" {
		t.Errorf("expected Bearer auth, got %q", gotAuth)
	}
	if gotPath != "/v1/search" {
		t.Errorf("expected /v1/search, got %q", gotPath)
	}
	if gotReq.Query != `"Pat Quinn"` || gotReq.Limit != 5 {
		t.Errorf("unexpected request payload: %+v", gotReq)
	}

	if len(facts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(facts))
	}
	if facts[0].SourceType != model.SourceWeb {
		t.Errorf("search facts must be web-sourced, got %s", facts[0].SourceType)
	}
	if !strings.Contains(facts[0].Text, "Pat Quinn keynotes SaaS Summit — Pat Quinn, CTO at Acme") {
		t.Errorf("fact text should combine title and description, got %q", facts[0].Text)
	}
	if facts[0].EvidenceSnippet != "Pat Quinn, CTO at Acme, opened the conference" {
		t.Errorf("snippet should carry the literal description, got %q", facts[0].EvidenceSnippet)
	}
	// Second result has no description; the markdown head fills in.
	if !strings.Contains(facts[1].EvidenceSnippet, "reliability engineering") {
		t.Errorf("snippet should fall back to markdown, got %q", facts[1].EvidenceSnippet)
	}
}

func TestFirecrawlSearch_APIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(firecrawlResponse{Success: false, Error: "quota exceeded"})
	}))
	defer server.Close()

	client := NewFirecrawlClient(server.URL, "fc-test", 5, 5*time.Second, "", "", "", false)
	_, err := client.Search(context.Background(), "query")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected API failure to surface, got %v", err)
	}
}

func TestFirecrawlSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewFirecrawlClient(server.URL, "bad-key", 5, 5*time.Second, "", "", "", false)
	_, err := client.Search(context.Background(), "query")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestFirecrawlSearch_RequiresAPIKey(t *testing.T) {
	client := NewFirecrawlClient("https://api.firecrawl.dev", "", 5, 5*time.Second, "", "", "", false)
	_, err := client.Search(context.Background(), "query")
	if err == nil || !strings.Contains(err.Error(), "FIRECRAWL_API_KEY") {
		t.Errorf("expected missing key error, got %v", err)
	}
}
