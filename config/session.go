package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultRounds is the number of rounds run when the configuration does
	// not set benchmark.rounds.
	DefaultRounds = 10

	// MaxThreads bounds the worker count of a single round.
	MaxThreads = 4096
)

var validate = validator.New()

// Session is the validated view of a configuration file that the harness
// needs to run a benchmark.
type Session struct {
	// Type is the benchmark type name used to look up variants.
	Type string `validate:"required"`
	// Threads is the number of workers spawned per round.
	Threads int `validate:"min=1,max=4096"`
	// Rounds is the number of independent rounds to run.
	Rounds int `validate:"min=1"`
	// Seed offsets every worker's random source.
	Seed int64
	// Benchmark is the benchmark subtree passed to every setup hook.
	Benchmark Tree `validate:"required"`
	// DS is the benchmark.ds subtree matched against variant descriptors.
	// A missing subtree is empty and matches every descriptor.
	DS Tree `validate:"required"`
}

// NewSession extracts and validates a Session from a configuration tree.
func NewSession(root Tree) (*Session, error) {
	bench, ok := root.Sub("benchmark")
	if !ok {
		return nil, fmt.Errorf("missing benchmark section")
	}

	// An empty ds section does not survive decoding; treat it as absent.
	ds, ok := bench.Sub("ds")
	if !ok {
		if _, exists := bench.Get("ds"); exists {
			return nil, fmt.Errorf("benchmark.ds must be a section, not a value")
		}
		ds = Tree{}
	}

	threads, err := root.Int("threads", 0)
	if err != nil {
		return nil, err
	}

	rounds, err := root.Int("benchmark.rounds", DefaultRounds)
	if err != nil {
		return nil, err
	}

	seed, err := root.Int("benchmark.seed", 0)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Type:      bench.StringOr("type", ""),
		Threads:   threads,
		Rounds:    rounds,
		Seed:      int64(seed),
		Benchmark: bench,
		DS:        ds,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the session's field constraints.
func (s *Session) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid session config: %w", err)
	}

	return nil
}
