package research

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/rapportlabs/rapport/internal/model"
)

// Provider supplies raw facts about a target. Implementations must attach a
// source type, a non-empty source URL, and the literal snippet text; they
// perform no deduplication; overlapping facts from multiple sources are
// expected and handled downstream by the evidence filter.
type Provider interface {
	Research(ctx context.Context, profileURL string, identity model.TargetIdentity, queries []string) ([]model.Fact, error)
}

// Composite gathers facts from the LinkedIn profile API and Firecrawl web
// search, LinkedIn first. Either collaborator may be nil (disabled).
type Composite struct {
	linkedin *LinkedInClient
	search   *FirecrawlClient
	enricher *Enricher
	verbose  bool
}

// NewComposite creates a composite provider
func NewComposite(linkedin *LinkedInClient, search *FirecrawlClient, enricher *Enricher, verbose bool) *Composite {
	return &Composite{
		linkedin: linkedin,
		search:   search,
		enricher: enricher,
		verbose:  verbose,
	}
}

// Research collects facts from all configured sources. A failed web search
// degrades to a warning; a failed profile fetch fails the pass since the
// profile is the trust anchor.
func (c *Composite) Research(ctx context.Context, profileURL string, identity model.TargetIdentity, queries []string) ([]model.Fact, error) {
	var facts []model.Fact

	if c.linkedin != nil {
		profileFacts, err := c.linkedin.FetchProfile(ctx, profileURL)
		if err != nil {
			return nil, fmt.Errorf("linkedin profile: %w", err)
		}
		facts = append(facts, profileFacts...)
	}

	if c.search != nil {
		for _, query := range queries {
			results, err := c.search.Search(ctx, query)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: web search %q failed: %v\n", query, err)
				continue
			}
			if c.verbose {
				fmt.Fprintf(os.Stderr, "✓ Search %q returned %d results\n", query, len(results))
			}
			facts = append(facts, results...)
		}
	}

	if c.enricher != nil {
		for i := range facts {
			facts[i] = c.enricher.Enrich(ctx, facts[i], identity)
		}
	}

	return facts, nil
}

// BaseQueries builds the initial web search queries for a target. Revision
// feedback instructions are appended verbatim by the pipeline on later
// passes.
func BaseQueries(profileURL string, identity model.TargetIdentity) []string {
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = nameFromSlug(ProfileSlug(profileURL))
	}
	if name == "" {
		return nil
	}

	queries := []string{fmt.Sprintf("%q", name)}
	if work := strings.TrimSpace(identity.CurrentWork); work != "" {
		queries = append(queries, fmt.Sprintf("%q %s", name, work))
	}
	queries = append(queries, fmt.Sprintf("%q interview OR talk OR podcast", name))

	return queries
}

// ProfileSlug extracts the profile slug from a LinkedIn URL
// (e.g. "williamhgates" from https://www.linkedin.com/in/williamhgates/)
func ProfileSlug(profileURL string) string {
	trimmed := strings.Trim(profileURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

// GuessName derives a best-effort display name from the profile URL slug,
// for runs that supply no explicit target name.
func GuessName(profileURL string) string {
	name := nameFromSlug(ProfileSlug(profileURL))
	if name == "" {
		return ""
	}
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var slugDigitsPattern = regexp.MustCompile(`[-_]*\d+[a-z0-9]*$`)

// nameFromSlug de-slugifies a profile slug into a best-effort name guess,
// dropping the trailing disambiguation digits LinkedIn appends
func nameFromSlug(slug string) string {
	slug = slugDigitsPattern.ReplaceAllString(strings.ToLower(slug), "")
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = strings.ReplaceAll(slug, "_", " ")
	return strings.Join(strings.Fields(slug), " ")
}
