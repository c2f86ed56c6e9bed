// Package harness configures, builds and runs the map scalability
// benchmark for one candidate build tree.
package harness

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// Result summarizes one captured benchmark run.
type Result struct {
	Path          string        `json:"path"`
	Bytes         int           `json:"bytes"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	MapType       string        `json:"map_type,omitempty"`
	PeakOpsPerSec float64       `json:"peak_ops_per_sec,omitempty"`
}

// ResultFileName names the result file of one workload cell.
func ResultFileName(outerLabel, innerLabel string) string {
	return "results_" + outerLabel + "_" + innerLabel + ".txt"
}

// WriteResult replaces path with data.
func WriteResult(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write result %s: %w", path, err)
	}

	return nil
}

// Output is the header and sample table printed by the benchmark.
type Output struct {
	MapType string
	Labels  []string
	Points  [][]float64
}

var (
	mapTypeRe = regexp.MustCompile(`'mapType':\s*'([^']*)'`)
	labelsRe  = regexp.MustCompile(`'labels':\s*\(([^)]*)\)`)
	pointRe   = regexp.MustCompile(`^\s*\(([-0-9.eE+,\s]+)\),?\s*$`)
)

// ParseOutput extracts the map type, column labels and sample points from
// the benchmark's stdout. It reports false when no map type is present.
func ParseOutput(data []byte) (Output, bool) {
	var out Output

	m := mapTypeRe.FindSubmatch(data)
	if m == nil {
		return out, false
	}

	out.MapType = string(m[1])

	if l := labelsRe.FindSubmatch(data); l != nil {
		for _, field := range strings.Split(string(l[1]), ",") {
			field = strings.Trim(strings.TrimSpace(field), "'")
			if field != "" {
				out.Labels = append(out.Labels, field)
			}
		}
	}

	for _, line := range strings.Split(string(data), "\n") {
		p := pointRe.FindStringSubmatch(line)
		if p == nil {
			continue
		}

		var point []float64

		for _, field := range strings.Split(p[1], ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}

			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				point = nil

				break
			}

			point = append(point, v)
		}

		if len(point) > 0 {
			out.Points = append(out.Points, point)
		}
	}

	return out, true
}

// PeakOpsPerSec returns the highest mapOpsDone/totalTime across all
// points, or 0 when the output does not carry those columns.
func (o Output) PeakOpsPerSec() float64 {
	ops, secs := -1, -1

	for i, l := range o.Labels {
		switch l {
		case "mapOpsDone":
			ops = i
		case "totalTime":
			secs = i
		}
	}

	if ops < 0 || secs < 0 {
		return 0
	}

	var peak float64

	for _, p := range o.Points {
		if ops >= len(p) || secs >= len(p) || p[secs] <= 0 {
			continue
		}

		if rate := p[ops] / p[secs]; rate > peak {
			peak = rate
		}
	}

	return peak
}
