package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/worker"
)

func enrichTestServer(t *testing.T, robotsBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			if robotsBody == "" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(robotsBody))
		case "/article":
			_, _ = w.Write([]byte(`<html><body>
<p>Conference coverage continues this week.</p>
<p>Keynote speaker Pat Quinn, CTO at Acme, walked through a decade of platform rebuilds.</p>
</body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestEnrich_WidensThinWebSnippet(t *testing.T) {
	server := enrichTestServer(t, "")
	defer server.Close()

	e := NewEnricher(5*time.Second, "Rapport/0.1", 2_000_000, 80, "", "", "", false, nil, nil)
	fact := model.Fact{
		Text:            "Pat Quinn keynotes the conference",
		SourceURL:       server.URL + "/article",
		SourceType:      model.SourceWeb,
		EvidenceSnippet: "Keynote speaker",
	}
	identity := model.TargetIdentity{Name: "Pat Quinn"}

	enriched := e.Enrich(context.Background(), fact, identity)
	if enriched.EvidenceSnippet == fact.EvidenceSnippet {
		t.Fatal("expected the snippet to widen")
	}
	if !strings.Contains(enriched.EvidenceSnippet, "Pat Quinn, CTO at Acme") {
		t.Errorf("widened snippet should surround the name mention, got %q", enriched.EvidenceSnippet)
	}
	if enriched.Text != fact.Text || enriched.SourceURL != fact.SourceURL {
		t.Error("enrichment must only touch the snippet")
	}
}

func TestEnrich_SkipsWideSnippets(t *testing.T) {
	server := enrichTestServer(t, "")
	defer server.Close()

	e := NewEnricher(5*time.Second, "Rapport/0.1", 2_000_000, 10, "", "", "", false, nil, nil)
	fact := model.Fact{
		SourceURL:       server.URL + "/article",
		SourceType:      model.SourceWeb,
		EvidenceSnippet: "already a long enough snippet",
	}

	enriched := e.Enrich(context.Background(), fact, model.TargetIdentity{Name: "Pat Quinn"})
	if enriched.EvidenceSnippet != fact.EvidenceSnippet {
		t.Error("snippets at or above the threshold must pass through untouched")
	}
}

func TestEnrich_SkipsLinkedInFacts(t *testing.T) {
	server := enrichTestServer(t, "")
	defer server.Close()

	e := NewEnricher(5*time.Second, "Rapport/0.1", 2_000_000, 80, "", "", "", false, nil, nil)
	fact := model.Fact{
		SourceURL:       server.URL + "/article",
		SourceType:      model.SourceLinkedIn,
		EvidenceSnippet: "thin",
	}

	enriched := e.Enrich(context.Background(), fact, model.TargetIdentity{Name: "Pat Quinn"})
	if enriched.EvidenceSnippet != "thin" {
		t.Error("profile facts must not be enriched")
	}
}

func TestEnrich_RespectsRobots(t *testing.T) {
	server := enrichTestServer(t, "User-agent: *\nDisallow: /article\n")
	defer server.Close()

	e := NewEnricher(5*time.Second, "Rapport/0.1", 2_000_000, 80, "", "", "", false, nil, nil)
	fact := model.Fact{
		SourceURL:       server.URL + "/article",
		SourceType:      model.SourceWeb,
		EvidenceSnippet: "thin",
	}

	enriched := e.Enrich(context.Background(), fact, model.TargetIdentity{Name: "Pat Quinn"})
	if enriched.EvidenceSnippet != "thin" {
		t.Error("disallowed pages must not be fetched")
	}
}

func TestEnrich_NoNameMentionLeavesFactAlone(t *testing.T) {
	server := enrichTestServer(t, "")
	defer server.Close()

	e := NewEnricher(5*time.Second, "Rapport/0.1", 2_000_000, 80, "", "", "", false, nil, nil)
	fact := model.Fact{
		SourceURL:       server.URL + "/article",
		SourceType:      model.SourceWeb,
		EvidenceSnippet: "thin",
	}

	enriched := e.Enrich(context.Background(), fact, model.TargetIdentity{Name: "Morgan Reyes"})
	if enriched.EvidenceSnippet != "thin" {
		t.Error("pages without a name mention must not replace the snippet")
	}
}

func TestEnrich_InsecureTLSReachesSelfSignedHosts(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><body><p>Pat Quinn, CTO at Acme, spoke at the summit.</p></body></html>`))
	}))
	defer server.Close()

	fact := model.Fact{
		SourceURL:       server.URL + "/article",
		SourceType:      model.SourceWeb,
		EvidenceSnippet: "thin",
	}
	identity := model.TargetIdentity{Name: "Pat Quinn"}

	strict := NewEnricher(5*time.Second, "Rapport/0.1", 2_000_000, 80, "", "", "", false, nil, nil)
	if got := strict.Enrich(context.Background(), fact, identity); got.EvidenceSnippet != "thin" {
		t.Error("fetches against an untrusted certificate must fail closed")
	}

	insecure := NewEnricher(5*time.Second, "Rapport/0.1", 2_000_000, 80, "", "", "", true, nil, nil)
	enriched := insecure.Enrich(context.Background(), fact, identity)
	if !strings.Contains(enriched.EvidenceSnippet, "Pat Quinn, CTO at Acme") {
		t.Errorf("expected the snippet to widen over TLS, got %q", enriched.EvidenceSnippet)
	}
}

func TestEnrich_HonorsCrawlDelay(t *testing.T) {
	server := enrichTestServer(t, "User-agent: *\nCrawl-delay: 1\n")
	defer server.Close()

	e := NewEnricher(5*time.Second, "Rapport/0.1", 2_000_000, 80, "", "", "", false, worker.NewLimiter(100, 1), nil)
	fact := model.Fact{
		SourceURL:       server.URL + "/article",
		SourceType:      model.SourceWeb,
		EvidenceSnippet: "thin",
	}

	start := time.Now()
	enriched := e.Enrich(context.Background(), fact, model.TargetIdentity{Name: "Pat Quinn"})
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("expected the fetch to wait out the crawl delay, took %v", elapsed)
	}
	if !strings.Contains(enriched.EvidenceSnippet, "Pat Quinn, CTO at Acme") {
		t.Errorf("expected the snippet to widen after the delay, got %q", enriched.EvidenceSnippet)
	}
}

func TestNameWindow(t *testing.T) {
	text := strings.Repeat("a ", 300) + "Pat Quinn spoke" + strings.Repeat(" b", 300)
	window := nameWindow(text, "pat quinn")
	if !strings.Contains(window, "Pat Quinn spoke") {
		t.Errorf("window should contain the mention, got %q", window)
	}
	if len([]rune(window)) > 2*windowRunes+len("Pat Quinn spoke")+10 {
		t.Errorf("window wider than expected: %d runes", len([]rune(window)))
	}
}
