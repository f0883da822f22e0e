// Package execution runs one round of a benchmark across a fixed set of
// worker goroutines.
//
// A round moves through Initializing, Preparing, Running and Stopped.
// Workers run their setup hook while the round is Preparing, signal that
// they are ready and then block on a start gate. The coordinator waits for
// every readiness signal, publishes Running and opens the gate, so all
// workers enter the measured section together. It then joins every worker
// before publishing Stopped.
package execution

import "fmt"

// State is the lifecycle state of a round.
type State int32

const (
	Initializing State = iota
	Preparing
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Preparing:
		return "preparing"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
