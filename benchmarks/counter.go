package benchmarks

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/weiihann/ubench/config"
	"github.com/weiihann/ubench/execution"
)

// counter is the shared counter under test in the counter benchmark.
type counter interface {
	inc(id int)
	load() uint64
}

type atomicCounter struct {
	n atomic.Uint64
}

func (c *atomicCounter) inc(int) { c.n.Add(1) }

func (c *atomicCounter) load() uint64 { return c.n.Load() }

type mutexCounter struct {
	mu sync.Mutex
	n  uint64
}

func (c *mutexCounter) inc(int) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *mutexCounter) load() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.n
}

// paddedCounter occupies a full cache line so neighbouring shards do not
// share one.
type paddedCounter struct {
	n atomic.Uint64
	_ [56]byte
}

type shardedCounter struct {
	shards []paddedCounter
}

func (c *shardedCounter) inc(id int) { c.shards[id%len(c.shards)].n.Add(1) }

func (c *shardedCounter) load() uint64 {
	var total uint64
	for i := range c.shards {
		total += c.shards[i].n.Load()
	}

	return total
}

// counterBenchmark has every worker increment one shared counter.
type counterBenchmark struct {
	impl       string
	c          counter
	increments int
}

func (b *counterBenchmark) Setup(cfg config.Tree) error {
	increments, err := cfg.Int("increments", 1_000_000)
	if err != nil {
		return err
	}

	if increments < 0 {
		return fmt.Errorf("increments must not be negative, got %d", increments)
	}

	b.increments = increments

	switch b.impl {
	case "atomic":
		b.c = &atomicCounter{}
	case "mutex":
		b.c = &mutexCounter{}
	case "sharded":
		shards, err := cfg.Int("ds.shards", 64)
		if err != nil {
			return err
		}

		if shards < 1 {
			return fmt.Errorf("ds.shards must be positive, got %d", shards)
		}

		b.c = &shardedCounter{shards: make([]paddedCounter, shards)}
	default:
		return fmt.Errorf("unknown counter implementation %q", b.impl)
	}

	return nil
}

// Total returns the counter's value.
func (b *counterBenchmark) Total() uint64 { return b.c.load() }

func (b *counterBenchmark) NewWorkload(id int, _ *rand.Rand) execution.Workload {
	return &counterWorker{id: id, c: b.c, n: b.increments}
}

type counterWorker struct {
	id int
	c  counter
	n  int
}

func (w *counterWorker) Run() error {
	for range w.n {
		w.c.inc(w.id)
	}

	return nil
}

func (w *counterWorker) Report() string {
	return fmt.Sprintf("increments=%d", w.n)
}
