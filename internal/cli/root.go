package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rapportlabs/rapport/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rapport",
	Short: "Rapport - Evidence-filtered outreach research",
	Long: `Rapport turns a LinkedIn profile URL into a personalized outreach report
built only from facts that verifiably belong to that person.

Every fact gathered from profile and web research passes an identity
filter before it can be used: facts about same-named strangers are
rejected, and every claim in the final report must trace back to an
accepted source. A critique gate reviews each draft and requests
revisions until the report is grounded or the revision budget runs out.

Rapport never invents; it only reports what the evidence supports.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Rapport.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rapport v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.rapport/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.rapport")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match RAPPORT_*, with nested
	// keys flattened (http.timeout becomes RAPPORT_HTTP_TIMEOUT)
	viper.SetEnvPrefix("RAPPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindConfigKeys()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindConfigKeys registers every settings key with viper so environment
// overrides apply even when the key is absent from the config file
func bindConfigKeys() {
	d := model.DefaultConfig()

	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)
	viper.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	viper.SetDefault("http.insecure_tls", d.HTTP.InsecureTLS)
	viper.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	viper.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)
	viper.SetDefault("http.no_proxy", d.HTTP.NoProxy)

	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.dir", d.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)

	viper.SetDefault("concurrency.workers", d.Concurrency.Workers)
	viper.SetDefault("concurrency.requests_per_second", d.Concurrency.RequestsPerSecond)
	viper.SetDefault("concurrency.burst", d.Concurrency.Burst)

	viper.SetDefault("research.firecrawl_base_url", d.Research.FirecrawlBaseURL)
	viper.SetDefault("research.linkedin_base_url", d.Research.LinkedInBaseURL)
	viper.SetDefault("research.search_limit", d.Research.SearchLimit)
	viper.SetDefault("research.min_snippet_chars", d.Research.MinSnippetChars)
	viper.SetDefault("research.enrich_pages", d.Research.EnrichPages)

	viper.SetDefault("critique.min_facts", d.Critique.MinFacts)
	viper.SetDefault("revision.max_iterations", d.Revision.MaxIterations)

	viper.SetDefault("llm.provider", d.LLM.Provider)
	viper.SetDefault("llm.model", d.LLM.Model)
	viper.SetDefault("llm.base_url", d.LLM.BaseURL)
	viper.SetDefault("llm.timeout", d.LLM.Timeout)
	viper.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	viper.SetDefault("llm.strict_facts", d.LLM.StrictFacts)

	viper.SetDefault("output.verbose", d.Output.Verbose)
	viper.SetDefault("output.include_footer", d.Output.IncludeFooter)
	viper.SetDefault("output.interests_path", d.Output.InterestsPath)
}

// effectiveConfig layers the config file and RAPPORT_* environment
// variables over the built-in defaults
func effectiveConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
