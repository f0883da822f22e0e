// Package report formats session results into markdown tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/weiihann/ubench/harness"
)

// Generate writes markdown tables for the given session result: one summary
// row per round followed by every worker's measurement.
func Generate(w io.Writer, result *harness.Result) error {
	if result == nil || len(result.Rounds) == 0 {
		return fmt.Errorf("no results to report")
	}

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Benchmark: **%s/%s**, %d threads, %d rounds (session %s)\n",
		result.Type, result.Variant, result.Threads, len(result.Rounds),
		result.SessionID)
	fmt.Fprintln(w)

	// Round summary.
	fmt.Fprintln(w, "| Round | Wall Time | Fastest | Slowest | Spread | Failures |")
	fmt.Fprintln(w, "|-------|-----------|---------|---------|--------|----------|")

	for _, r := range result.Rounds {
		fastest, slowest := bounds(r.Workers)

		spread := 1.0
		if fastest > 0 {
			spread = float64(slowest) / float64(fastest)
		}

		fmt.Fprintf(w, "| %d | %s | %s | %s | %.2fx | %d |\n",
			r.Round,
			formatDuration(r.WallTime),
			formatDuration(fastest),
			formatDuration(slowest),
			spread,
			failures(r.Workers),
		)
	}

	fmt.Fprintln(w)

	// Detail rows.
	fmt.Fprintln(w, "| Round | Worker | Elapsed | Report |")
	fmt.Fprintln(w, "|-------|--------|---------|--------|")

	for _, r := range result.Rounds {
		for _, wr := range r.Workers {
			fmt.Fprintf(w, "| %d | %d | %s | %s |\n",
				r.Round,
				wr.ID,
				formatDuration(wr.Elapsed),
				wr.Report,
			)
		}
	}

	if !result.Failed() {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Workload failures: **FAILED**")

	for _, r := range result.Rounds {
		for _, wr := range r.Workers {
			if wr.Error != "" {
				fmt.Fprintf(w, "  - round %d: %s\n", r.Round, wr.Error)
			}
		}
	}

	return nil
}

// GenerateJSON writes the result as JSON to w.
func GenerateJSON(w io.Writer, result *harness.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

// bounds returns the fastest and slowest elapsed time among workers that did
// not fail.
func bounds(workers []harness.WorkerResult) (time.Duration, time.Duration) {
	var fastest, slowest time.Duration

	first := true
	for _, w := range workers {
		if w.Error != "" {
			continue
		}

		if first || w.Elapsed < fastest {
			fastest = w.Elapsed
		}
		if first || w.Elapsed > slowest {
			slowest = w.Elapsed
		}

		first = false
	}

	return fastest, slowest
}

func failures(workers []harness.WorkerResult) int {
	n := 0
	for _, w := range workers {
		if w.Error != "" {
			n++
		}
	}

	return n
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
