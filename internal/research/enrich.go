package research

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rapportlabs/rapport/internal/cache"
	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/util"
	"github.com/rapportlabs/rapport/internal/worker"
)

// Enricher widens thin evidence snippets by fetching the source page and
// extracting the text window around the first name mention. Fetches are
// robots-aware, per-host rate-limited, and cached. A fact that cannot be
// enriched is returned unchanged; enrichment never fails a research pass.
type Enricher struct {
	httpClient *http.Client
	robots     *util.RobotsGate
	limiter    *worker.Limiter
	store      cache.Cache
	userAgent  string
	maxBytes   int64
	minChars   int
}

// windowRunes is the context pulled from each side of a name mention
const windowRunes = 200

// NewEnricher creates a page enricher. Page and robots.txt fetches share
// one transport so proxy and TLS settings apply to both. The cache may be
// nil (no caching).
func NewEnricher(timeout time.Duration, userAgent string, maxBytes int64, minChars int,
	httpProxy, httpsProxy, noProxy string, insecureTLS bool,
	limiter *worker.Limiter, store cache.Cache) *Enricher {
	if minChars <= 0 {
		minChars = 80
	}

	transport := util.NewTransport(httpProxy, httpsProxy, noProxy, insecureTLS)

	return &Enricher{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		robots:     util.NewRobotsGate(userAgent, timeout, transport),
		limiter:    limiter,
		store:      store,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
		minChars:   minChars,
	}
}

// Enrich returns the fact with a widened evidence snippet when possible
func (e *Enricher) Enrich(ctx context.Context, fact model.Fact, identity model.TargetIdentity) model.Fact {
	// Profile facts already carry name-bearing snippets; thin web snippets
	// are the ones worth a page fetch.
	if fact.SourceType != model.SourceWeb || len(fact.EvidenceSnippet) >= e.minChars {
		return fact
	}
	name := strings.TrimSpace(identity.Name)
	if name == "" || fact.SourceURL == "" {
		return fact
	}

	allowed, crawlDelay := e.robots.Allow(ctx, fact.SourceURL)
	if !allowed {
		return fact
	}

	body, ok := e.fetchPage(ctx, fact.SourceURL, crawlDelay)
	if !ok {
		return fact
	}

	window := nameWindow(VisibleText(body), name)
	if window == "" {
		return fact
	}

	out := fact
	out.EvidenceSnippet = window
	return out
}

// fetchPage retrieves the page body, consulting the cache first. The
// crawl delay from robots.txt stretches the rate-limit wait.
func (e *Enricher) fetchPage(ctx context.Context, pageURL string, crawlDelay time.Duration) (string, bool) {
	key := cache.Key(pageURL)
	if e.store != nil {
		if data, found := e.store.Get(key); found {
			return string(data), true
		}
	}

	if e.limiter != nil {
		if err := e.limiter.WaitWithDelay(ctx, pageURL, crawlDelay); err != nil {
			return "", false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return "", false
	}

	if e.store != nil {
		_ = e.store.Set(key, body, 0)
	}

	return string(body), true
}

// nameWindow returns the text window around the first mention of name,
// or "" when the page never mentions it
func nameWindow(text, name string) string {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, strings.ToLower(name))
	if idx < 0 {
		return ""
	}

	runes := []rune(text)
	// Convert the byte offset into a rune offset
	start := len([]rune(text[:idx]))
	end := start + len([]rune(name))

	from := start - windowRunes
	if from < 0 {
		from = 0
	}
	to := end + windowRunes
	if to > len(runes) {
		to = len(runes)
	}

	return strings.Join(strings.Fields(string(runes[from:to])), " ")
}
