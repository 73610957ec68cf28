package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/pipeline"
	"github.com/rapportlabs/rapport/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Research multiple profiles from a file in parallel",
	Long: `Batch researches multiple LinkedIn profiles concurrently:
- Read profile URLs from input file (one per line)
- Process profiles in parallel with configurable worker count
- Target names are derived from each profile
- Generate an individual report per profile

Example:
  rapport batch profiles.txt
  rapport batch profiles.txt --concurrency 4 --output-dir ./reports
  rapport batch profiles.txt --concurrency 2 --timeout 15m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./rapport-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared flags with the research command
	batchCmd.Flags().DurationVar(&timeout, "research-timeout", 2*time.Minute, "timeout for individual profiles")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Rapport/0.1 (+https://github.com/rapportlabs/rapport)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetches)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip fetching source pages to widen thin snippets")
	batchCmd.Flags().StringVar(&interestsPath, "interests", "my_interests.md", "path to the interests file")
	batchCmd.Flags().IntVar(&minFacts, "min-facts", 0, "distinct accepted facts required for approval (0 = default)")
	batchCmd.Flags().IntVar(&maxRevs, "max-iterations", 0, "revision loop cap (0 = default)")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM claim drafting")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// pipelineResearcher adapts the pipeline to the batch worker interface.
// Batch runs carry no identity hints; the pipeline derives the name from
// the profile slug.
type pipelineResearcher struct {
	p *pipeline.Pipeline
}

func (r *pipelineResearcher) ResearchProfile(ctx context.Context, profileURL string) (*model.Report, error) {
	result, err := r.p.Run(ctx, profileURL, model.TargetIdentity{})
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	} else {
		concurrency = cfg.Concurrency.Workers
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Rapport Batch Research\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(&pipelineResearcher{p: p}, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading profile URLs from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d profiles with %d workers\n", len(results), concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.ProfileURL, result.Error)
			continue
		}

		successCount++
		mdPath := pipeline.ReportPath(outputDir, result.ProfileURL, result.Report.GeneratedAt)
		if err := renderer.WriteFile(mdPath, result.Report); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.ProfileURL, err)
			continue
		}

		status := "validated"
		if !result.Report.Validated {
			status = "NOT fully validated"
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%d facts, %s)\n", result.ProfileURL, len(result.Report.AcceptedFacts), status)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d profiles\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
