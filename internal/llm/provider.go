package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rapportlabs/rapport/internal/model"
)

// Provider defines the interface for LLM drafting backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Draft generates conversation-starter claims constrained to the
	// accepted facts
	Draft(ctx context.Context, req DraftRequest) (*DraftResponse, error)

	// AssessParaphrase decides whether two fragments express the same content
	AssessParaphrase(ctx context.Context, a, b string) (bool, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// DraftRequest contains the input for claim drafting
type DraftRequest struct {
	// Identity is the person the claims are about
	Identity model.TargetIdentity

	// AcceptedFacts is the STRICT allowlist of material the model may use.
	// Everything filtered out must stay out; the critique gate re-checks
	// the output either way.
	AcceptedFacts []model.Fact

	// Interests are the user's personal context tags
	Interests []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// DraftResponse contains the drafted claims
type DraftResponse struct {
	// Claims are the drafted claims, one per line of model output
	Claims []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// StrictFacts enforces the accepted-facts allowlist on output citations
	StrictFacts bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Timeout:     30,
		StrictFacts: true,
		MaxTokens:   1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		StrictFacts: modelConfig.StrictFacts,
		MaxTokens:   modelConfig.MaxTokens,
	}
}

// draftSystemPrompt is the shared system message for all drafting backends
const draftSystemPrompt = "You draft outreach conversation starters using only the facts you are given. You never invent numbers, dates, achievements, or organizations."

// BuildDraftPrompt constructs the default drafting prompt with the strict
// accepted-facts constraint
func BuildDraftPrompt(identity model.TargetIdentity, facts []model.Fact, interests []string) string {
	var b strings.Builder

	name := identity.Name
	if name == "" {
		name = "the person"
	}

	fmt.Fprintf(&b, `You are preparing personalized outreach to %s.

CRITICAL RULES:
1. Use ONLY the accepted facts below. Do not add specifics (numbers, dates,
   names, achievements) that are not in them.
2. Output one conversation starter per line, no numbering, no headers.
3. Each line must be a single sentence grounded in the facts.
4. If the facts are thin, output fewer lines instead of inventing content.

Accepted facts:
`, name)

	for _, fact := range facts {
		fmt.Fprintf(&b, "- %s (source: %s)\n", fact.Text, fact.SourceURL)
	}

	if len(interests) > 0 {
		b.WriteString("\nYour own interests, for finding common ground:\n")
		for _, interest := range interests {
			fmt.Fprintf(&b, "- %s\n", interest)
		}
	}

	b.WriteString("\nDraft 3-5 conversation starters.")

	return b.String()
}

// ParseClaims splits model output into claims, one per non-empty line,
// stripping bullet and numbering prefixes
func ParseClaims(output string) []string {
	var claims []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = strings.TrimSpace(strings.TrimLeft(line, "0123456789)."))
		if line == "" {
			continue
		}
		claims = append(claims, line)
	}
	return claims
}

// VerifyCitations enforces the strict-facts allowlist: any URL the model
// cites must be the source of an accepted fact
func VerifyCitations(output string, facts []model.Fact) error {
	allowed := make(map[string]bool, len(facts))
	for _, fact := range facts {
		allowed[fact.SourceURL] = true
	}

	for _, cited := range extractURLs(output) {
		if !allowed[cited] {
			return fmt.Errorf("CITATION LEAK: model cited disallowed URL: %s", cited)
		}
	}
	return nil
}
