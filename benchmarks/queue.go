package benchmarks

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/weiihann/ubench/config"
	"github.com/weiihann/ubench/execution"
)

// boundedQueue is the data structure under test in the queue benchmark.
type boundedQueue interface {
	push(v uint64) bool
	pop() (uint64, bool)
}

// lockedQueue is a ring buffer guarded by a mutex.
type lockedQueue struct {
	mu   sync.Mutex
	buf  []uint64
	head int
	size int
}

func newLockedQueue(capacity int) boundedQueue {
	return &lockedQueue{buf: make([]uint64, capacity)}
}

func (q *lockedQueue) push(v uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == len(q.buf) {
		return false
	}

	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++

	return true
}

func (q *lockedQueue) pop() (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return 0, false
	}

	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--

	return v, true
}

// channelQueue uses a buffered channel with non-blocking sends and receives.
type channelQueue struct {
	ch chan uint64
}

func newChannelQueue(capacity int) boundedQueue {
	return &channelQueue{ch: make(chan uint64, capacity)}
}

func (q *channelQueue) push(v uint64) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

func (q *channelQueue) pop() (uint64, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		return 0, false
	}
}

// queueBenchmark has every worker perform a random mix of pushes and pops on
// one shared bounded queue.
type queueBenchmark struct {
	newQueue   func(capacity int) boundedQueue
	q          boundedQueue
	capacity   int
	iterations int
}

func (b *queueBenchmark) Setup(cfg config.Tree) error {
	capacity, err := cfg.Int("ds.capacity", 1024)
	if err != nil {
		return err
	}

	if capacity < 1 {
		return fmt.Errorf("ds.capacity must be positive, got %d", capacity)
	}

	iterations, err := cfg.Int("iterations", 100_000)
	if err != nil {
		return err
	}

	if iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", iterations)
	}

	prefill, err := cfg.Int("prefill", capacity/2)
	if err != nil {
		return err
	}

	if prefill < 0 || prefill > capacity {
		return fmt.Errorf("prefill must be within [0, %d], got %d", capacity, prefill)
	}

	b.capacity = capacity
	b.iterations = iterations
	b.q = b.newQueue(capacity)

	for i := range prefill {
		b.q.push(uint64(i))
	}

	return nil
}

func (b *queueBenchmark) NewWorkload(id int, rng *rand.Rand) execution.Workload {
	return &queueWorker{
		id:    id,
		q:     b.q,
		rng:   rng,
		iters: b.iterations,
	}
}

type queueWorker struct {
	id    int
	q     boundedQueue
	rng   *rand.Rand
	iters int

	// pushes[i] decides whether iteration i pushes or pops.
	pushes []bool

	pushed, popped, full, empty int
}

func (w *queueWorker) Setup(config.Tree) error {
	w.pushes = make([]bool, w.iters)
	for i := range w.pushes {
		w.pushes[i] = w.rng.Intn(2) == 0
	}

	return nil
}

func (w *queueWorker) Run() error {
	base := uint64(w.id) << 32

	for i, push := range w.pushes {
		if push {
			if w.q.push(base | uint64(i)) {
				w.pushed++
			} else {
				w.full++
			}

			continue
		}

		if _, ok := w.q.pop(); ok {
			w.popped++
		} else {
			w.empty++
		}
	}

	return nil
}

func (w *queueWorker) Report() string {
	return fmt.Sprintf("pushed=%d popped=%d full=%d empty=%d",
		w.pushed, w.popped, w.full, w.empty)
}
