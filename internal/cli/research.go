package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	targetName  string
	currentWork string
	minFacts    int
	maxRevs     int
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	noEnrich    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	interestsPath string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// researchCmd represents the research command
var researchCmd = &cobra.Command{
	Use:   "research <linkedin-profile-url>",
	Short: "Research one profile and generate an outreach report",
	Long: `Research gathers facts about one person from their LinkedIn profile and
targeted web searches, then:
- Rejects every fact the evidence cannot tie to this specific person
- Drafts conversation starters grounded only in accepted facts
- Runs a critique gate over the draft and revises on rejection
- Writes a Markdown report that flags itself when validation fell short

Example:
  rapport research https://www.linkedin.com/in/satyanadella/
  rapport research https://www.linkedin.com/in/jdoe-8675/ --name "John Doe" --current-work "CTO at Acme"
  rapport research https://www.linkedin.com/in/jdoe-8675/ --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)

	// Identity flags
	researchCmd.Flags().StringVar(&targetName, "name", "", "target's full name (default: derived from the profile slug)")
	researchCmd.Flags().StringVar(&currentWork, "current-work", "", "target's current role and company, e.g. \"CTO at Acme\"")

	// Gate flags
	researchCmd.Flags().IntVar(&minFacts, "min-facts", 0, "distinct accepted facts required for approval (0 = default)")
	researchCmd.Flags().IntVar(&maxRevs, "max-iterations", 0, "revision loop cap (0 = default)")

	// Output flags
	researchCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (default: report_<slug>_<timestamp>.md)")
	researchCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	researchCmd.Flags().StringVar(&interestsPath, "interests", "my_interests.md", "path to the interests file")

	// HTTP flags
	researchCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall research timeout")
	researchCmd.Flags().StringVar(&userAgent, "ua", "Rapport/0.1 (+https://github.com/rapportlabs/rapport)", "HTTP User-Agent")
	researchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	researchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetches)")
	researchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	researchCmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip fetching source pages to widen thin snippets")
	researchCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	researchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	researchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	researchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM claim drafting")
	researchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	researchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// buildConfig assembles the effective configuration: flags over
// environment over the config file over defaults. Only flags the user
// actually set override the lower layers.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := effectiveConfig()
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("timeout") || changed("research-timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if changed("no-enrich") {
		cfg.Research.EnrichPages = !noEnrich
	}
	if changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if changed("interests") {
		cfg.Output.InterestsPath = interestsPath
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if minFacts > 0 {
		cfg.Critique.MinFacts = minFacts
	}
	if maxRevs > 0 {
		cfg.Revision.MaxIterations = maxRevs
	}

	// Research API keys come from the environment only
	cfg.Research.LinkedInAPIKey = os.Getenv("LINKEDIN_API_KEY")
	cfg.Research.FirecrawlAPIKey = os.Getenv("FIRECRAWL_API_KEY")
	if cfg.Research.LinkedInAPIKey == "" && cfg.Research.FirecrawlAPIKey == "" {
		return nil, fmt.Errorf("no research source configured: set LINKEDIN_API_KEY and/or FIRECRAWL_API_KEY")
	}
	if cfg.Research.LinkedInAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: LINKEDIN_API_KEY not set; profile facts will be unavailable")
	}
	if cfg.Research.FirecrawlAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: FIRECRAWL_API_KEY not set; web search will be unavailable")
	}

	// Drafting is enabled by --llm or by llm.provider in the config file
	if changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if llmEnabled || cfg.LLM.Provider != "" {
		if cfg.LLM.Provider == "" {
			cfg.LLM.Provider = llmProvider
		}
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = llmModel
		}
		cfg.LLM.StrictFacts = true // Always enforce

		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		default:
			return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
		}
	}

	return cfg, nil
}

func runResearch(cmd *cobra.Command, args []string) error {
	profileURL := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Researching: %s\n", profileURL)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	identity := model.TargetIdentity{
		Name:        targetName,
		CurrentWork: currentWork,
	}

	p := pipeline.NewPipeline(cfg)
	result, err := p.Run(ctx, profileURL, identity)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	mdPath := outMD
	if mdPath == "" {
		mdPath = pipeline.ReportPath(".", profileURL, result.Report.GeneratedAt)
	}
	if err := renderer.WriteFile(mdPath, result.Report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Report written: %s\n", mdPath)

	if outJSON != "" {
		f, err := os.Create(outJSON)
		if err != nil {
			return fmt.Errorf("create JSON report: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := renderer.RenderJSON(f, result.Report); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ JSON written: %s\n", outJSON)
	}

	renderer.RenderSummary(os.Stdout, result.Report)
	return nil
}
