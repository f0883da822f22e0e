package benchmarks

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/ubench/config"
	"github.com/weiihann/ubench/execution"
)

func runRound(t *testing.T, bench execution.Benchmark, threads int, cfg config.Tree) *execution.Coordinator {
	t.Helper()

	require.NoError(t, bench.Setup(cfg))

	c, err := execution.NewCoordinator(threads, cfg, bench)
	require.NoError(t, err)
	require.NoError(t, c.Run())

	for _, w := range c.Workers() {
		require.NoError(t, w.Err())
		require.True(t, w.Finished())
	}

	return c
}

func TestDefaultRegistry(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"queue", "map", "counter"}, r.Types())

	tests := []struct {
		typ  string
		ds   config.Tree
		want string
	}{
		{"queue", config.Tree{"impl": "locked", "capacity": "16"}, "locked"},
		{"queue", config.Tree{"impl": "channel"}, "channel"},
		{"queue", config.Tree{"capacity": "16"}, "locked"},
		{"map", config.Tree{"impl": "sync", "keys": "100"}, "sync"},
		{"counter", config.Tree{"impl": "sharded", "shards": "8"}, "sharded"},
		{"counter", config.Tree{"impl": "mutex"}, "mutex"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.typ, tt.want), func(t *testing.T) {
			v, err := r.Select(tt.typ, tt.ds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Name)
		})
	}

	_, err = r.Select("counter", config.Tree{"impl": "atomic", "shards": "8"})
	assert.Error(t, err)
}

func TestEveryVariantRuns(t *testing.T) {
	cfg := func(ds config.Tree) config.Tree {
		return config.Tree{
			"iterations": "200",
			"operations": "200",
			"increments": "200",
			"ds":         ds,
		}
	}

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			ds := config.Tree{"impl": v.Name}
			c := runRound(t, v.Build(), 4, cfg(ds))

			for _, w := range c.Workers() {
				assert.NotEmpty(t, w.Report())
			}
		})
	}
}

func TestQueueAccounting(t *testing.T) {
	for _, newQueue := range []func(int) boundedQueue{newLockedQueue, newChannelQueue} {
		bench := &queueBenchmark{newQueue: newQueue}
		cfg := config.Tree{
			"iterations": "1000",
			"prefill":    "10",
			"ds":         config.Tree{"capacity": "32"},
		}

		c := runRound(t, bench, 4, cfg)

		pushed, popped := 0, 0
		for _, w := range c.Workers() {
			var p, q, full, empty int
			_, err := fmt.Sscanf(w.Report(), "pushed=%d popped=%d full=%d empty=%d",
				&p, &q, &full, &empty)
			require.NoError(t, err)
			assert.Equal(t, 1000, p+q+full+empty)

			pushed += p
			popped += q
		}

		remaining := 0
		for {
			if _, ok := bench.q.pop(); !ok {
				break
			}
			remaining++
		}

		assert.Equal(t, 10+pushed-popped, remaining)
		assert.LessOrEqual(t, remaining, 32)
	}
}

func TestLockedQueueFIFO(t *testing.T) {
	q := newLockedQueue(2)

	assert.True(t, q.push(1))
	assert.True(t, q.push(2))
	assert.False(t, q.push(3))

	v, ok := q.pop()
	require.True(t, ok)
	assert.EqualValues(t, 1, v)

	assert.True(t, q.push(3))

	v, _ = q.pop()
	assert.EqualValues(t, 2, v)
	v, _ = q.pop()
	assert.EqualValues(t, 3, v)

	_, ok = q.pop()
	assert.False(t, ok)
}

func TestQueueSetupErrors(t *testing.T) {
	tests := []config.Tree{
		{"ds": config.Tree{"capacity": "0"}},
		{"ds": config.Tree{"capacity": "abc"}},
		{"iterations": "-1"},
		{"prefill": "5000"},
	}

	for _, cfg := range tests {
		bench := &queueBenchmark{newQueue: newLockedQueue}
		assert.Error(t, bench.Setup(cfg), "cfg=%v", cfg)
	}
}

func TestCounterTotals(t *testing.T) {
	for _, impl := range []string{"atomic", "mutex", "sharded"} {
		t.Run(impl, func(t *testing.T) {
			bench := &counterBenchmark{impl: impl}
			cfg := config.Tree{
				"increments": "5000",
				"ds":         config.Tree{"shards": "3"},
			}

			runRound(t, bench, 8, cfg)

			assert.EqualValues(t, 8*5000, bench.Total())
		})
	}
}

func TestCounterSetupErrors(t *testing.T) {
	assert.Error(t, (&counterBenchmark{impl: "atomic"}).Setup(config.Tree{"increments": "-5"}))
	assert.Error(t, (&counterBenchmark{impl: "sharded"}).Setup(config.Tree{"ds": config.Tree{"shards": "0"}}))
	assert.Error(t, (&counterBenchmark{impl: "striped"}).Setup(config.Tree{}))
}

func TestMapWorkload(t *testing.T) {
	for name, newStore := range map[string]func(int) store{
		"mutex": newMutexStore,
		"sync":  newSyncStore,
	} {
		t.Run(name, func(t *testing.T) {
			bench := &mapBenchmark{newStore: newStore}
			cfg := config.Tree{
				"operations":   "500",
				"read_ratio":   "1",
				"distribution": "power-law",
				"ds":           config.Tree{"keys": "64"},
			}

			c := runRound(t, bench, 2, cfg)

			// Reads only against a prefilled map always hit.
			for _, w := range c.Workers() {
				assert.Equal(t, "gets=500 hits=500 puts=0 deletes=0", w.Report())
			}
		})
	}
}

func TestMapSetupErrors(t *testing.T) {
	bench := &mapBenchmark{newStore: newMutexStore}

	assert.Error(t, bench.Setup(config.Tree{"ds": config.Tree{"keys": "0"}}))
	assert.Error(t, bench.Setup(config.Tree{"read_ratio": "0.9", "delete_ratio": "0.5"}))
	assert.Error(t, bench.Setup(config.Tree{"distribution": "zipf"}))
}
