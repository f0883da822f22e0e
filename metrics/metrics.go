// Package metrics exports per-round measurements as Prometheus metrics. The
// recorder keeps its own registry and can write it out in the text
// exposition format once a session is done.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weiihann/ubench/harness"
)

const namespace = "ubench"

// Recorder implements harness.Observer.
type Recorder struct {
	registry *prometheus.Registry

	rounds         *prometheus.CounterVec
	workerFailures *prometheus.CounterVec
	roundSeconds   *prometheus.HistogramVec
	workerSeconds  *prometheus.HistogramVec
}

var _ harness.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Completed benchmark rounds.",
		}, []string{"variant"}),
		workerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_failures_total",
			Help:      "Workers whose workload returned an error.",
		}, []string{"variant"}),
		roundSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_wall_seconds",
			Help:      "Wall-clock time of a round, including setup and both barriers.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 12),
		}, []string{"variant"}),
		workerSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_elapsed_seconds",
			Help:      "Measured workload time of a single worker.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 14),
		}, []string{"variant"}),
	}

	r.registry.MustRegister(
		r.rounds,
		r.workerFailures,
		r.roundSeconds,
		r.workerSeconds,
	)

	return r
}

// ObserveRound records one completed round.
func (r *Recorder) ObserveRound(round harness.RoundResult) {
	r.rounds.WithLabelValues(round.Variant).Inc()
	r.roundSeconds.WithLabelValues(round.Variant).Observe(round.WallTime.Seconds())

	for _, w := range round.Workers {
		if w.Error != "" {
			r.workerFailures.WithLabelValues(round.Variant).Inc()

			continue
		}

		r.workerSeconds.WithLabelValues(round.Variant).Observe(w.Elapsed.Seconds())
	}
}

// WriteFile writes the registry to path in the Prometheus text format.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}

	return nil
}
