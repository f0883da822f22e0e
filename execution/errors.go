package execution

import (
	"errors"
	"fmt"
)

// ErrAlreadyRun is returned when Run is called on a coordinator that has
// already left the Initializing state.
var ErrAlreadyRun = errors.New("execution: coordinator already run")

// BenchmarkSetup is the Worker value of a SetupError raised by the
// benchmark-level setup hook rather than by a worker.
const BenchmarkSetup = -1

// SetupError reports a failed setup hook. A setup failure aborts the round
// before any workload runs.
type SetupError struct {
	Worker int
	Err    error
}

func (e *SetupError) Error() string {
	if e.Worker == BenchmarkSetup {
		return fmt.Sprintf("benchmark setup: %v", e.Err)
	}

	return fmt.Sprintf("worker %d setup: %v", e.Worker, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// WorkloadError reports a workload whose Run or Report hook failed or
// panicked. It is recorded on the worker; it does not abort the round.
type WorkloadError struct {
	Worker int
	Err    error
}

func (e *WorkloadError) Error() string {
	return fmt.Sprintf("worker %d workload: %v", e.Worker, e.Err)
}

func (e *WorkloadError) Unwrap() error { return e.Err }
