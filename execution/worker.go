package execution

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/weiihann/ubench/config"
)

// Worker is one goroutine of a round. Its accessors are safe to call once the
// coordinator's Run has returned; Ready may be polled at any time.
type Worker struct {
	id       int
	rng      *rand.Rand
	round    *round
	workload Workload

	ready atomic.Bool

	elapsed  time.Duration
	finished bool
	err      error
	report   string
}

func newWorker(id int, seed int64, r *round, bench Benchmark) *Worker {
	rng := rand.New(rand.NewSource(seed + int64(id)))

	return &Worker{
		id:       id,
		rng:      rng,
		round:    r,
		workload: bench.NewWorkload(id, rng),
	}
}

// ID returns the worker's index within its round.
func (w *Worker) ID() int { return w.id }

// Ready reports whether the worker has finished setup and signalled the
// coordinator.
func (w *Worker) Ready() bool { return w.ready.Load() }

// Elapsed returns the wall-clock duration of the workload call.
func (w *Worker) Elapsed() time.Duration { return w.elapsed }

// Finished reports whether the workload ran and its duration was recorded.
func (w *Worker) Finished() bool { return w.finished }

// Err returns the workload's failure, if any.
func (w *Worker) Err() error { return w.err }

// Report returns the workload's summary, or "" if it has none.
func (w *Worker) Report() string { return w.report }

// run executes the worker lifecycle. Exactly one signal is sent per call.
func (w *Worker) run(cfg config.Tree) error {
	if err := w.setup(cfg); err != nil {
		setupErr := &SetupError{Worker: w.id, Err: err}
		w.round.signals <- signal{id: w.id, err: setupErr}

		return setupErr
	}

	w.ready.Store(true)
	w.round.signals <- signal{id: w.id}

	<-w.round.start

	// An aborted round opens the gate without publishing Running.
	if w.round.load() != Running {
		return nil
	}

	w.measure()

	return nil
}

func (w *Worker) setup(cfg config.Tree) (err error) {
	s, ok := w.workload.(Setupper)
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("setup panicked: %v", r)
		}
	}()

	return s.Setup(cfg)
}

func (w *Worker) measure() {
	start := time.Now()
	err := w.call()
	w.record(time.Since(start), err)

	report, err := w.collectReport()
	if err != nil && w.err == nil {
		w.err = &WorkloadError{Worker: w.id, Err: err}
	}
	w.report = report
}

func (w *Worker) collectReport() (report string, err error) {
	r, ok := w.workload.(Reporter)
	if !ok {
		return "", nil
	}

	defer func() {
		if p := recover(); p != nil {
			report, err = "", fmt.Errorf("report panicked: %v", p)
		}
	}()

	return r.Report(), nil
}

func (w *Worker) call() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workload panicked: %v", r)
		}
	}()

	return w.workload.Run()
}

func (w *Worker) record(elapsed time.Duration, err error) {
	if w.finished {
		panic(fmt.Sprintf("execution: worker %d recorded twice", w.id))
	}

	w.elapsed = elapsed
	w.finished = true

	if err != nil {
		w.err = &WorkloadError{Worker: w.id, Err: err}
	}
}
