// Package benchmarks contains the benchmark kinds shipped with ubench and the
// default registry that exposes their variants.
//
// Every variant's descriptor lists the benchmark.ds keys it understands.
// Keys whose value is tunable rather than structural carry the wildcard.
package benchmarks

import (
	"github.com/weiihann/ubench/config"
	"github.com/weiihann/ubench/execution"
	"github.com/weiihann/ubench/registry"
)

// Variants returns every built-in variant in registration order.
func Variants() []registry.Variant {
	return []registry.Variant{
		{
			Type:       "queue",
			Name:       "locked",
			Descriptor: config.Tree{"impl": "locked", "capacity": registry.Wildcard},
			Build: func() execution.Benchmark {
				return &queueBenchmark{newQueue: newLockedQueue}
			},
		},
		{
			Type:       "queue",
			Name:       "channel",
			Descriptor: config.Tree{"impl": "channel", "capacity": registry.Wildcard},
			Build: func() execution.Benchmark {
				return &queueBenchmark{newQueue: newChannelQueue}
			},
		},
		{
			Type:       "map",
			Name:       "mutex",
			Descriptor: config.Tree{"impl": "mutex", "keys": registry.Wildcard},
			Build: func() execution.Benchmark {
				return &mapBenchmark{newStore: newMutexStore}
			},
		},
		{
			Type:       "map",
			Name:       "sync",
			Descriptor: config.Tree{"impl": "sync", "keys": registry.Wildcard},
			Build: func() execution.Benchmark {
				return &mapBenchmark{newStore: newSyncStore}
			},
		},
		{
			Type:       "counter",
			Name:       "atomic",
			Descriptor: config.Tree{"impl": "atomic"},
			Build: func() execution.Benchmark {
				return &counterBenchmark{impl: "atomic"}
			},
		},
		{
			Type:       "counter",
			Name:       "mutex",
			Descriptor: config.Tree{"impl": "mutex"},
			Build: func() execution.Benchmark {
				return &counterBenchmark{impl: "mutex"}
			},
		},
		{
			Type:       "counter",
			Name:       "sharded",
			Descriptor: config.Tree{"impl": "sharded", "shards": registry.Wildcard},
			Build: func() execution.Benchmark {
				return &counterBenchmark{impl: "sharded"}
			},
		},
	}
}

// Default returns a registry holding Variants.
func Default() (*registry.Registry, error) {
	return registry.New(Variants()...)
}
