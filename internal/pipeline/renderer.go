package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rapportlabs/rapport/internal/model"
	"github.com/rapportlabs/rapport/internal/research"
)

// Renderer writes reports to Markdown, JSON, or a terminal summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a report renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// ReportPath builds the default output filename for a profile,
// report_<slug>_<timestamp>.md under dir.
func ReportPath(dir, profileURL string, t time.Time) string {
	slug := research.ProfileSlug(profileURL)
	if slug == "" {
		slug = "profile"
	}
	name := fmt.Sprintf("report_%s_%s.md", slug, t.Format("20060102-150405"))
	return filepath.Join(dir, name)
}

// RenderMarkdown writes the Markdown report to w
func (r *Renderer) RenderMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	title := report.Target.Name
	if title == "" {
		title = research.ProfileSlug(report.ProfileURL)
	}
	fmt.Fprintf(&b, "# Outreach Report: %s\n\n", title)

	if !report.Validated {
		b.WriteString("> **NOT FULLY VALIDATED**: the revision budget ran out before the critique gate approved this report.\n")
		for _, reason := range report.Verdict.Reasons {
			fmt.Fprintf(&b, "> - %s\n", reason)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "- Profile: %s\n", report.ProfileURL)
	if report.Target.CurrentWork != "" {
		fmt.Fprintf(&b, "- Current work: %s\n", report.Target.CurrentWork)
	}
	fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Accepted facts: %d (%d rejected by identity filtering)\n", len(report.AcceptedFacts), report.RejectedCount)
	fmt.Fprintf(&b, "- Revision iterations: %d\n", report.Iterations)
	if report.LLM != nil && report.LLM.Enabled {
		fmt.Fprintf(&b, "- Drafted by: %s %s\n", report.LLM.Provider, report.LLM.Model)
	}
	b.WriteString("\n")

	if len(report.Claims) > 0 {
		b.WriteString("## Conversation Starters\n\n")
		for i, claim := range report.Claims {
			fmt.Fprintf(&b, "%d. %s\n", i+1, claim)
		}
		b.WriteString("\n")
	}

	if len(report.AcceptedFacts) > 0 {
		b.WriteString("## Verified Facts\n\n")
		for _, fact := range report.AcceptedFacts {
			fmt.Fprintf(&b, "- %s ([%s](%s))\n", fact.Text, fact.SourceType, fact.SourceURL)
		}
		b.WriteString("\n")

		b.WriteString("## Sources\n\n")
		for _, u := range uniqueSources(report.AcceptedFacts) {
			fmt.Fprintf(&b, "- %s\n", u)
		}
		b.WriteString("\n")
	}

	if len(report.Interests) > 0 {
		b.WriteString("## Your Interests Considered\n\n")
		for _, interest := range report.Interests {
			fmt.Fprintf(&b, "- %s\n", interest)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("Facts were accepted only when the evidence ties them to this person; rejected facts are counted but never shown.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderJSON writes the report as indented JSON to w
func (r *Renderer) RenderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteFile renders Markdown to path, creating parent directories
func (r *Renderer) WriteFile(path string, report *model.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	return r.RenderMarkdown(f, report)
}

// RenderSummary prints a short terminal summary to w
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	status := "VALIDATED"
	if !report.Validated {
		status = "NOT FULLY VALIDATED"
	}
	fmt.Fprintf(w, "%s  %s\n", status, report.ProfileURL)
	fmt.Fprintf(w, "  facts: %d accepted, %d rejected; iterations: %d; starters: %d\n",
		len(report.AcceptedFacts), report.RejectedCount, report.Iterations, len(report.Claims))
	for _, reason := range report.Verdict.Reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
}

func uniqueSources(facts []model.Fact) []string {
	seen := make(map[string]bool, len(facts))
	var out []string
	for _, fact := range facts {
		if fact.SourceURL == "" || seen[fact.SourceURL] {
			continue
		}
		seen[fact.SourceURL] = true
		out = append(out, fact.SourceURL)
	}
	return out
}
