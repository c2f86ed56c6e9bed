// Package report formats sweep summaries into tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/weiihann/mapsweep/sweep"
)

// Generate writes a markdown summary of the sweep to w.
func Generate(w io.Writer, summary *sweep.Summary) error {
	if summary == nil || len(summary.Candidates) == 0 {
		return fmt.Errorf("no candidates to report")
	}

	fmt.Fprintln(w, "## Sweep Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run: `%s`, %d cells per candidate\n", summary.RunID, summary.Cells)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Candidate | Status | Results | Map Type | Peak Ops/s | Elapsed |")
	fmt.Fprintln(w, "|-----------|--------|---------|----------|------------|---------|")

	for _, c := range summary.Candidates {
		fmt.Fprintf(w, "| %s | %s | %d/%d | %s | %s | %s |\n",
			c.Name,
			c.Status,
			len(c.Results),
			summary.Cells,
			mapType(c),
			formatRate(peakRate(c)),
			formatDuration(c.Elapsed),
		)
	}

	if !hasResults(summary) {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Candidate | Result File | Bytes | Peak Ops/s | Wall Time |")
	fmt.Fprintln(w, "|-----------|-------------|-------|------------|-----------|")

	for _, c := range summary.Candidates {
		for _, r := range c.Results {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
				c.Name,
				baseName(r.Path),
				formatBytes(uint64(r.Bytes)),
				formatRate(r.PeakOpsPerSec),
				formatDuration(r.Elapsed),
			)
		}
	}

	return nil
}

// GenerateJSON writes the summary as JSON to w.
func GenerateJSON(w io.Writer, summary *sweep.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(summary)
}

func hasResults(summary *sweep.Summary) bool {
	for _, c := range summary.Candidates {
		if len(c.Results) > 0 {
			return true
		}
	}

	return false
}

func mapType(c sweep.CandidateSummary) string {
	for _, r := range c.Results {
		if r.MapType != "" {
			return r.MapType
		}
	}

	return "-"
}

func peakRate(c sweep.CandidateSummary) float64 {
	var peak float64

	for _, r := range c.Results {
		peak = max(peak, r.PeakOpsPerSec)
	}

	return peak
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}

	return path
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	return fmt.Sprintf("%.2fs", d.Seconds())
}

func formatRate(r float64) string {
	switch {
	case r <= 0:
		return "-"
	case r >= 1e6:
		return fmt.Sprintf("%.2fM", r/1e6)
	case r >= 1e3:
		return fmt.Sprintf("%.2fK", r/1e3)
	default:
		return fmt.Sprintf("%.0f", r)
	}
}

func formatBytes(b uint64) string {
	if b == 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}
