package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/util"
)

// LinkedInClient fetches profile data from a LinkedIn scraping API
// (ScrapingDog-style GET endpoint; the base URL is configurable so tests and
// alternative vendors can point it anywhere)
type LinkedInClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	maxBytes   int64
}

// linkedInProfile mirrors the profile payload of the scraping API
type linkedInProfile struct {
	FullName string `json:"fullName"`
	Headline string `json:"headline"`
	About    string `json:"about"`
	Location string `json:"location"`

	Experience []struct {
		Position    string `json:"position"`
		CompanyName string `json:"company_name"`
		Summary     string `json:"summary"`
		StartsAt    string `json:"starts_at"`
		EndsAt      string `json:"ends_at"`
	} `json:"experience"`

	Education []struct {
		School string `json:"school"`
		Degree string `json:"college_degree"`
		Field  string `json:"college_degree_field"`
	} `json:"education"`
}

// NewLinkedInClient creates a LinkedIn profile API client
func NewLinkedInClient(baseURL, apiKey string, timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy, noProxy string, insecureTLS bool) *LinkedInClient {
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &LinkedInClient{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: util.NewTransport(httpProxy, httpsProxy, noProxy, insecureTLS),
		},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// FetchProfile retrieves the profile behind the given LinkedIn URL and shapes
// it into linkedin-sourced facts. Every fact's evidence snippet carries the
// profile name plus the field context, so the identity matcher can check it
// like any other evidence.
func (c *LinkedInClient) FetchProfile(ctx context.Context, profileURL string) ([]model.Fact, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("linkedin API key is required (set LINKEDIN_API_KEY)")
	}

	slug := ProfileSlug(profileURL)
	if slug == "" {
		return nil, fmt.Errorf("cannot extract profile slug from %q", profileURL)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("type", "profile")
	params.Set("linkId", slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	profile, err := decodeProfile(body)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return profileFacts(profile, profileURL), nil
}

// decodeProfile handles both object and single-element-array payloads, which
// the scraping API returns depending on plan
func decodeProfile(body []byte) (*linkedInProfile, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var profiles []linkedInProfile
		if err := json.Unmarshal(body, &profiles); err != nil {
			return nil, err
		}
		if len(profiles) == 0 {
			return nil, fmt.Errorf("empty profile array")
		}
		return &profiles[0], nil
	}

	var profile linkedInProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// profileFacts shapes a profile into atomic facts
func profileFacts(p *linkedInProfile, profileURL string) []model.Fact {
	name := strings.TrimSpace(p.FullName)

	snippet := func(context string) string {
		context = NormalizeSnippet(context)
		if name == "" {
			return context
		}
		return name + " — " + context
	}

	add := func(facts []model.Fact, text, context string) []model.Fact {
		text = NormalizeSnippet(text)
		if text == "" {
			return facts
		}
		return append(facts, model.Fact{
			Text:            text,
			SourceURL:       profileURL,
			SourceType:      model.SourceLinkedIn,
			EvidenceSnippet: snippet(context),
		})
	}

	var facts []model.Fact
	facts = add(facts, p.Headline, p.Headline)
	facts = add(facts, p.About, truncateRunes(p.About, 300))
	if p.Location != "" {
		facts = add(facts, "Based in "+p.Location, "Location: "+p.Location)
	}

	for _, exp := range p.Experience {
		text := strings.TrimSpace(exp.Position)
		if exp.CompanyName != "" {
			if text != "" {
				text += " at " + exp.CompanyName
			} else {
				text = exp.CompanyName
			}
		}
		if exp.StartsAt != "" {
			span := exp.StartsAt
			if exp.EndsAt != "" {
				span += " to " + exp.EndsAt
			} else {
				span += " to present"
			}
			text += " (" + span + ")"
		}
		facts = add(facts, text, "Experience: "+text)
		if exp.Summary != "" {
			facts = add(facts, exp.Summary, "Experience at "+exp.CompanyName+": "+truncateRunes(exp.Summary, 200))
		}
	}

	for _, edu := range p.Education {
		text := strings.TrimSpace(edu.Degree)
		if edu.Field != "" {
			text = strings.TrimSpace(text + " " + edu.Field)
		}
		if edu.School != "" {
			if text != "" {
				text = "Studied " + text + " at " + edu.School
			} else {
				text = "Studied at " + edu.School
			}
		}
		facts = add(facts, text, "Education: "+text)
	}

	return facts
}
