package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/util"
)

// FirecrawlClient searches the web via the Firecrawl API
type FirecrawlClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limit      int
}

// Firecrawl API structures
type firecrawlRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type firecrawlResponse struct {
	Success bool              `json:"success"`
	Data    []firecrawlResult `json:"data"`
	Error   string            `json:"error,omitempty"`
}

type firecrawlResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Markdown    string `json:"markdown,omitempty"`
}

// NewFirecrawlClient creates a Firecrawl search client
func NewFirecrawlClient(baseURL, apiKey string, limit int, timeout time.Duration, httpProxy, httpsProxy, noProxy string, insecureTLS bool) *FirecrawlClient {
	if limit <= 0 {
		limit = 5
	}

	return &FirecrawlClient{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: util.NewTransport(httpProxy, httpsProxy, noProxy, insecureTLS),
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		limit:   limit,
	}
}

// Search runs one web search query and shapes the results into web-sourced
// facts. The evidence snippet carries the literal result description (or the
// head of the page markdown when the description is empty).
func (c *FirecrawlClient) Search(ctx context.Context, query string) ([]model.Fact, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("firecrawl API key is required (set FIRECRAWL_API_KEY)")
	}

	body, err := json.Marshal(firecrawlRequest{Query: query, Limit: c.limit})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var searchResp firecrawlResponse
	if err := json.Unmarshal(respBody, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if !searchResp.Success {
		return nil, fmt.Errorf("search failed: %s", searchResp.Error)
	}

	var facts []model.Fact
	for _, result := range searchResp.Data {
		if result.URL == "" {
			continue
		}

		snippet := NormalizeSnippet(result.Description)
		if snippet == "" {
			snippet = NormalizeSnippet(truncateRunes(result.Markdown, 300))
		}

		text := NormalizeSnippet(result.Title)
		if desc := NormalizeSnippet(result.Description); desc != "" {
			if text != "" {
				text += " — " + desc
			} else {
				text = desc
			}
		}
		if text == "" {
			continue
		}

		facts = append(facts, model.Fact{
			Text:            text,
			SourceURL:       result.URL,
			SourceType:      model.SourceWeb,
			EvidenceSnippet: snippet,
		})
	}

	return facts, nil
}
