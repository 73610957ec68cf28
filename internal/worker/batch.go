package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rapportlabs/rapport/internal/model"
)

// Researcher runs the full pipeline for one profile URL. Batch runs carry no
// per-profile identity hints, so implementations derive the name from the
// profile itself.
type Researcher interface {
	ResearchProfile(ctx context.Context, profileURL string) (*model.Report, error)
}

// ResearchJob represents one profile research job
type ResearchJob struct {
	ProfileURL string
	Researcher Researcher
}

// Execute runs the research job
func (j *ResearchJob) Execute(ctx context.Context) Result {
	report, err := j.Researcher.ResearchProfile(ctx, j.ProfileURL)
	return &ResearchResult{
		ProfileURL: j.ProfileURL,
		Report:     report,
		Error:      err,
	}
}

// ResearchResult represents the result of a research job
type ResearchResult struct {
	ProfileURL string
	Report     *model.Report
	Error      error
}

// GetError returns the error from the research result
func (r *ResearchResult) GetError() error {
	return r.Error
}

// BatchProcessor researches multiple profiles concurrently
type BatchProcessor struct {
	researcher  Researcher
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(researcher Researcher, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		researcher:  researcher,
		concurrency: concurrency,
	}
}

// ProcessProfiles researches multiple profiles concurrently
func (b *BatchProcessor) ProcessProfiles(ctx context.Context, profileURLs []string) []*ResearchResult {
	if len(profileURLs) == 0 {
		return []*ResearchResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, profileURL := range profileURLs {
		job := &ResearchJob{
			ProfileURL: profileURL,
			Researcher: b.researcher,
		}
		pool.Submit(job)
	}

	results := pool.Wait()

	researchResults := make([]*ResearchResult, len(results))
	for i, result := range results {
		researchResults[i] = result.(*ResearchResult)
	}

	return researchResults
}

// ProcessFile reads profile URLs from a file and researches them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ResearchResult, error) {
	profileURLs, err := ReadProfileURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read profile URLs: %w", err)
	}

	return b.ProcessProfiles(ctx, profileURLs), nil
}

// ReadProfileURLsFromFile reads profile URLs from a file (one per line)
func ReadProfileURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var profileURLs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate URLs
		if !seen[line] {
			seen[line] = true
			profileURLs = append(profileURLs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return profileURLs, nil
}
