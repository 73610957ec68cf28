package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate decides whether an evidence page may be fetched, honoring
// each host's robots.txt. Parsed rules are cached per host for the life
// of the gate.
type RobotsGate struct {
	mu     sync.Mutex
	byHost map[string]*robotstxt.RobotsData
	client *http.Client
	agent  string
}

// NewRobotsGate creates a gate fetching robots.txt through transport.
// A nil transport uses the default one.
func NewRobotsGate(userAgent string, timeout time.Duration, transport *http.Transport) *RobotsGate {
	client := &http.Client{Timeout: timeout}
	if transport != nil {
		client.Transport = transport
	}

	return &RobotsGate{
		byHost: make(map[string]*robotstxt.RobotsData),
		client: client,
		agent:  userAgent,
	}
}

// Allow reports whether rawURL may be fetched and the crawl delay the
// host requests. An unreadable or missing robots.txt allows the fetch.
func (g *RobotsGate) Allow(ctx context.Context, rawURL string) (bool, time.Duration) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0
	}

	data, err := g.rulesFor(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true, 0
	}

	allowed := data.TestAgent(parsed.Path, g.agent)

	var delay time.Duration
	if group := data.FindGroup(g.agent); group != nil {
		delay = group.CrawlDelay
	}

	return allowed, delay
}

func (g *RobotsGate) rulesFor(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	g.mu.Lock()
	data, ok := g.byHost[host]
	g.mu.Unlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("robots request: %w", err)
	}
	req.Header.Set("User-Agent", g.agent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// A host without robots.txt permits everything
	if resp.StatusCode == http.StatusNotFound {
		data, _ := robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
		g.remember(host, data)
		return data, nil
	}

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.remember(host, data)
	return data, nil
}

func (g *RobotsGate) remember(host string, data *robotstxt.RobotsData) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.byHost[host] = data
}
