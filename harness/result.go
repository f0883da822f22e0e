// Package harness runs a benchmark session: it selects a variant for the
// configured type and runs the configured number of rounds, each with a fresh
// benchmark instance and coordinator.
package harness

import "time"

// Result holds the structured output of a session.
type Result struct {
	SessionID string        `json:"session_id"`
	Type      string        `json:"type"`
	Variant   string        `json:"variant"`
	Threads   int           `json:"threads"`
	Rounds    []RoundResult `json:"rounds"`
}

// Failed reports whether any worker of any round failed.
func (r *Result) Failed() bool {
	for _, round := range r.Rounds {
		if round.Failed() {
			return true
		}
	}

	return false
}

// RoundResult holds the per-worker measurements of one round.
type RoundResult struct {
	Round    int            `json:"round"`
	Variant  string         `json:"variant"`
	WallTime time.Duration  `json:"wall_time_ns"`
	Workers  []WorkerResult `json:"workers"`
}

// Failed reports whether any worker of the round failed.
func (r RoundResult) Failed() bool {
	for _, w := range r.Workers {
		if w.Error != "" {
			return true
		}
	}

	return false
}

// WorkerResult holds one worker's measurement.
type WorkerResult struct {
	ID      int           `json:"id"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Report  string        `json:"report,omitempty"`
	Error   string        `json:"error,omitempty"`
}
