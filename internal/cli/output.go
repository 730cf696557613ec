package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/bee-archive/internal/batch"
	"github.com/pfrederiksen/bee-archive/internal/logger"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult describes a finished scrape.
type OutputResult struct {
	StartedAt time.Time       `json:"started_at"`
	Output    string          `json:"output"`
	Format    string          `json:"format"`
	Summary   batch.Summary   `json:"summary"`
	Metrics   logger.Snapshot `json:"metrics"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult) error {
	s := result.Summary
	if s.Attempted == 0 {
		fmt.Fprintln(w, "No days scraped.")
		return nil
	}

	fmt.Fprintf(w, "Scraped %d of %d days in %s\n", s.Written, s.Attempted, s.Duration.Round(time.Millisecond))
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  skipped: %d\n", s.Skipped)
	}
	if s.Partial > 0 {
		fmt.Fprintf(w, "  partial letters: %d\n", s.Partial)
	}
	fmt.Fprintf(w, "Wrote %s (%s)\n", result.Output, result.Format)

	if names := result.Metrics.CounterNames(); len(names) > 0 {
		fmt.Fprintln(w, "\nCounters:")
		for _, name := range names {
			fmt.Fprintf(w, "  %-18s %d\n", name, result.Metrics.Counters[name])
		}
	}
	if t, ok := result.Metrics.Timings["page.duration"]; ok && t.Count > 0 {
		fmt.Fprintf(w, "\nPage time: avg %s, max %s\n", t.Average.Round(time.Millisecond), t.Max.Round(time.Millisecond))
	}
	return nil
}
