package execution

import (
	"math/rand"

	"github.com/weiihann/ubench/config"
)

// Benchmark is the per-round instance of a benchmark variant. Setup is called
// once before the coordinator is built; afterwards the instance is shared by
// every worker of the round and must tolerate concurrent use.
type Benchmark interface {
	Setup(cfg config.Tree) error
	NewWorkload(id int, rng *rand.Rand) Workload
}

// Workload is the measured entry point of one worker.
type Workload interface {
	Run() error
}

// Setupper is implemented by workloads that need per-worker preparation.
// Setup runs before the readiness barrier and is not measured.
type Setupper interface {
	Setup(cfg config.Tree) error
}

// Reporter is implemented by workloads that summarise their run.
type Reporter interface {
	Report() string
}
