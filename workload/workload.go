// Package workload generates deterministic key-access sequences for
// map-style benchmarks. A sequence is a list of get, put and delete
// operations whose keys follow a uniform, power-law or exponential
// distribution. Sequences are drawn from a caller-supplied random source, so
// a worker seeded with the same value replays the same operations.
package workload

import (
	"fmt"
	"math"
	mrand "math/rand"

	"github.com/go-playground/validator/v10"
)

// Op is the kind of a key access.
type Op uint8

const (
	Get Op = iota
	Put
	Delete
)

func (o Op) String() string {
	switch o {
	case Get:
		return "get"
	case Put:
		return "put"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Operation is a single key access.
type Operation struct {
	Op  Op
	Key uint64
}

// Summary contains statistics about a generated sequence.
type Summary struct {
	TotalOperations int
	Gets            int
	Puts            int
	Deletes         int
}

// Config controls sequence generation.
type Config struct {
	// Keys is the size of the key space; keys are drawn from [0, Keys).
	Keys int `validate:"min=1"`
	// Operations is the sequence length.
	Operations int `validate:"min=0"`
	// Distribution is one of power-law, exponential or uniform.
	Distribution string `validate:"omitempty,oneof=power-law exponential uniform"`
	// ReadRatio is the fraction of gets.
	ReadRatio float64 `validate:"gte=0,lte=1"`
	// DeleteRatio is the fraction of deletes.
	DeleteRatio float64 `validate:"gte=0,lte=1"`
}

var validate = validator.New()

// Validate checks that cfg describes a possible sequence.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid workload config: %w", err)
	}

	if c.ReadRatio+c.DeleteRatio > 1 {
		return fmt.Errorf(
			"invalid workload config: read_ratio + delete_ratio = %.2f exceeds 1",
			c.ReadRatio+c.DeleteRatio,
		)
	}

	return nil
}

// Generator produces deterministic sequences from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator that draws from rng.
func NewGenerator(cfg Config, rng *mrand.Rand) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rng,
	}
}

// Generate returns a sequence of cfg.Operations accesses and its Summary.
func (g *Generator) Generate() ([]Operation, Summary) {
	ops := make([]Operation, 0, g.cfg.Operations)

	var summary Summary

	for i := 0; i < g.cfg.Operations; i++ {
		op := g.nextOp()

		ops = append(ops, Operation{Op: op, Key: g.nextKey()})

		switch op {
		case Get:
			summary.Gets++
		case Put:
			summary.Puts++
		case Delete:
			summary.Deletes++
		}

		summary.TotalOperations++
	}

	return ops, summary
}

func (g *Generator) nextOp() Op {
	u := g.rng.Float64()

	switch {
	case u < g.cfg.ReadRatio:
		return Get
	case u < g.cfg.ReadRatio+g.cfg.DeleteRatio:
		return Delete
	default:
		return Put
	}
}

func (g *Generator) nextKey() uint64 {
	keys := g.cfg.Keys

	switch g.cfg.Distribution {
	case "power-law":
		// Pareto with minimum 1, shifted to start at key 0.
		alpha := 1.5
		u := g.rng.Float64()
		x := 1 / math.Pow(1-u, 1/alpha)

		return uint64(min(int(x)-1, keys-1))

	case "exponential":
		lambda := math.Log(2) / (float64(keys) / 4)
		u := g.rng.Float64()
		x := -math.Log(1-u) / lambda

		return uint64(math.Min(x, float64(keys-1)))

	default:
		// Uniform, also used when no distribution is set.
		return uint64(g.rng.Intn(keys))
	}
}
