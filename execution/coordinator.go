package execution

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/weiihann/ubench/config"
)

// round is the state shared between a coordinator and its workers. Only the
// coordinator writes it.
type round struct {
	state atomic.Int32

	// start is closed once the state has left Preparing.
	start chan struct{}

	// signals carries exactly one readiness or setup-failure signal per
	// worker.
	signals chan signal
}

type signal struct {
	id  int
	err error
}

func (r *round) load() State { return State(r.state.Load()) }

// Coordinator runs a single round. It is not reusable: build a new one for
// every round.
type Coordinator struct {
	threads int
	cfg     config.Tree
	bench   Benchmark
	seed    int64

	round   round
	workers []*Worker

	logger    *slog.Logger
	observers []func(State)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithSeed offsets the per-worker random seeds. Worker i is seeded with
// seed+i.
func WithSeed(seed int64) Option {
	return func(c *Coordinator) { c.seed = seed }
}

// WithStateObserver registers fn to be called on the coordinator's goroutine
// after every state transition.
func WithStateObserver(fn func(State)) Option {
	return func(c *Coordinator) { c.observers = append(c.observers, fn) }
}

// NewCoordinator creates a coordinator for one round of bench with the given
// number of workers. cfg is handed to every worker's setup hook. bench must
// already be set up.
func NewCoordinator(
	threads int,
	cfg config.Tree,
	bench Benchmark,
	opts ...Option,
) (*Coordinator, error) {
	if threads < 1 {
		return nil, fmt.Errorf("execution: thread count must be positive, got %d", threads)
	}

	if bench == nil {
		return nil, errors.New("execution: nil benchmark")
	}

	c := &Coordinator{
		threads: threads,
		cfg:     cfg,
		bench:   bench,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.round.start = make(chan struct{})
	c.round.signals = make(chan signal, threads)

	return c, nil
}

// State returns the round's current state.
func (c *Coordinator) State() State { return c.round.load() }

// Workers returns the round's workers in id order. The slice is empty until
// Run has been called.
func (c *Coordinator) Workers() []*Worker { return c.workers }

// Run executes the round and blocks until every worker has returned.
//
// If any worker's setup hook fails, the round is aborted: Running is never
// published, no workload runs, and the setup errors are returned. Workload
// failures do not abort the round; they are recorded on each Worker and Run
// returns nil.
func (c *Coordinator) Run() error {
	if !c.round.state.CompareAndSwap(int32(Initializing), int32(Preparing)) {
		return ErrAlreadyRun
	}
	c.notify(Preparing)

	var g errgroup.Group

	c.workers = make([]*Worker, c.threads)
	for id := range c.threads {
		w := newWorker(id, c.seed, &c.round, c.bench)
		c.workers[id] = w

		g.Go(func() error { return w.run(c.cfg) })
	}

	if failed := c.awaitReady(); len(failed) > 0 {
		c.transition(Preparing, Stopped)
		close(c.round.start)

		// Workers that did set up return nil after the gate opens.
		_ = g.Wait()

		return errors.Join(failed...)
	}

	c.transition(Preparing, Running)
	close(c.round.start)

	if err := g.Wait(); err != nil {
		// Workers only return setup errors, all of which were handled above.
		return fmt.Errorf("execution: unexpected worker error: %w", err)
	}

	c.transition(Running, Stopped)

	return nil
}

// awaitReady is the readiness barrier. It receives one signal from every
// worker; the channel receive orders each worker's setup before the
// publication of Running.
func (c *Coordinator) awaitReady() []error {
	var failed []error

	for range c.threads {
		s := <-c.round.signals
		if s.err != nil {
			c.logger.Warn("worker setup failed",
				slog.Int("worker", s.id),
				slog.String("error", s.err.Error()),
			)
			failed = append(failed, s.err)
		}
	}

	return failed
}

func (c *Coordinator) transition(from, to State) {
	if !c.round.state.CompareAndSwap(int32(from), int32(to)) {
		panic(fmt.Sprintf("execution: invalid transition %s -> %s (state %s)",
			from, to, c.round.load()))
	}
	c.notify(to)
}

func (c *Coordinator) notify(s State) {
	c.logger.Debug("round state", slog.String("state", s.String()),
		slog.Int("threads", c.threads))

	for _, fn := range c.observers {
		fn(s)
	}
}
