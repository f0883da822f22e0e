package benchmarks

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/weiihann/ubench/config"
	"github.com/weiihann/ubench/execution"
	"github.com/weiihann/ubench/workload"
)

// store is the concurrent map under test in the map benchmark.
type store interface {
	get(k uint64) (uint64, bool)
	put(k, v uint64)
	del(k uint64)
}

type mutexStore struct {
	mu sync.RWMutex
	m  map[uint64]uint64
}

func newMutexStore(keys int) store {
	return &mutexStore{m: make(map[uint64]uint64, keys)}
}

func (s *mutexStore) get(k uint64) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[k]

	return v, ok
}

func (s *mutexStore) put(k, v uint64) {
	s.mu.Lock()
	s.m[k] = v
	s.mu.Unlock()
}

func (s *mutexStore) del(k uint64) {
	s.mu.Lock()
	delete(s.m, k)
	s.mu.Unlock()
}

type syncStore struct {
	m sync.Map
}

func newSyncStore(int) store { return &syncStore{} }

func (s *syncStore) get(k uint64) (uint64, bool) {
	v, ok := s.m.Load(k)
	if !ok {
		return 0, false
	}

	return v.(uint64), true
}

func (s *syncStore) put(k, v uint64) { s.m.Store(k, v) }

func (s *syncStore) del(k uint64) { s.m.Delete(k) }

// mapBenchmark replays a generated key-access sequence per worker against a
// shared, prefilled map.
type mapBenchmark struct {
	newStore func(keys int) store
	s        store
	wl       workload.Config
}

func (b *mapBenchmark) Setup(cfg config.Tree) error {
	keys, err := cfg.Int("ds.keys", 1024)
	if err != nil {
		return err
	}

	ops, err := cfg.Int("operations", 100_000)
	if err != nil {
		return err
	}

	readRatio, err := cfg.Float("read_ratio", 0.8)
	if err != nil {
		return err
	}

	deleteRatio, err := cfg.Float("delete_ratio", 0)
	if err != nil {
		return err
	}

	wl := workload.Config{
		Keys:         keys,
		Operations:   ops,
		Distribution: cfg.StringOr("distribution", "uniform"),
		ReadRatio:    readRatio,
		DeleteRatio:  deleteRatio,
	}

	if err := wl.Validate(); err != nil {
		return err
	}

	b.wl = wl
	b.s = b.newStore(keys)

	for k := range uint64(keys) {
		b.s.put(k, k)
	}

	return nil
}

func (b *mapBenchmark) NewWorkload(_ int, rng *rand.Rand) execution.Workload {
	return &mapWorker{s: b.s, gen: workload.NewGenerator(b.wl, rng)}
}

type mapWorker struct {
	s   store
	gen *workload.Generator

	ops     []workload.Operation
	summary workload.Summary
	hits    int
}

func (w *mapWorker) Setup(config.Tree) error {
	w.ops, w.summary = w.gen.Generate()

	return nil
}

func (w *mapWorker) Run() error {
	for _, op := range w.ops {
		switch op.Op {
		case workload.Get:
			if _, ok := w.s.get(op.Key); ok {
				w.hits++
			}
		case workload.Put:
			w.s.put(op.Key, op.Key)
		case workload.Delete:
			w.s.del(op.Key)
		}
	}

	return nil
}

func (w *mapWorker) Report() string {
	return fmt.Sprintf("gets=%d hits=%d puts=%d deletes=%d",
		w.summary.Gets, w.hits, w.summary.Puts, w.summary.Deletes)
}
