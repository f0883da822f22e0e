package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/weiihann/ubench/config"
	"github.com/weiihann/ubench/execution"
	"github.com/weiihann/ubench/registry"
)

// ErrWorkloadFailed is returned, together with the complete Result, when at
// least one worker workload failed during the session.
var ErrWorkloadFailed = errors.New("one or more workloads failed")

// Observer is notified after every completed round.
type Observer interface {
	ObserveRound(RoundResult)
}

// Runner runs benchmark sessions against a registry.
type Runner struct {
	Registry  *registry.Registry
	Logger    *slog.Logger
	Out       io.Writer
	Observers []Observer
}

// NewRunner creates a Runner. Out receives the given configuration and the
// selected descriptor; pass io.Discard to silence it.
func NewRunner(
	reg *registry.Registry,
	logger *slog.Logger,
	out io.Writer,
	observers ...Observer,
) *Runner {
	return &Runner{
		Registry:  reg,
		Logger:    logger,
		Out:       out,
		Observers: observers,
	}
}

// Select resolves the session's variant and echoes the given configuration
// and the matching descriptor to Out.
func (r *Runner) Select(s *config.Session) (registry.Variant, error) {
	fmt.Fprintln(r.Out, "Given config:")
	if err := config.Render(r.Out, s.DS, 2); err != nil {
		return registry.Variant{}, err
	}

	v, err := r.Registry.Select(s.Type, s.DS)
	if err != nil {
		return registry.Variant{}, err
	}

	fmt.Fprintf(r.Out, "Found matching benchmark %s:\n", v)
	if err := config.Render(r.Out, v.Descriptor, 2); err != nil {
		return registry.Variant{}, err
	}

	if matches := r.Registry.Matching(s.Type, s.DS); len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}

		r.Logger.Warn("configuration matches several variants, using the first",
			slog.String("type", s.Type),
			slog.Any("variants", names),
		)
	}

	return v, nil
}

// Run selects a variant and runs s.Rounds rounds sequentially. The context
// is checked between rounds only; a started round always runs to completion.
//
// Selection and setup failures abort the session. Workload failures are
// recorded in the result; if any occurred, Run returns the full result along
// with ErrWorkloadFailed.
func (r *Runner) Run(ctx context.Context, s *config.Session) (*Result, error) {
	v, err := r.Select(s)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SessionID: uuid.NewString(),
		Type:      s.Type,
		Variant:   v.Name,
		Threads:   s.Threads,
		Rounds:    make([]RoundResult, 0, s.Rounds),
	}

	logger := r.Logger.With(
		slog.String("session", result.SessionID),
		slog.String("variant", v.String()),
	)

	logger.InfoContext(ctx, "starting session",
		slog.Int("threads", s.Threads),
		slog.Int("rounds", s.Rounds),
	)

	for i := range s.Rounds {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("session interrupted before round %d: %w", i, err)
		}

		round, err := r.runRound(ctx, logger, s, v, i)
		if err != nil {
			return result, fmt.Errorf("round %d: %w", i, err)
		}

		result.Rounds = append(result.Rounds, round)

		for _, o := range r.Observers {
			o.ObserveRound(round)
		}
	}

	logger.InfoContext(ctx, "session complete")

	if result.Failed() {
		return result, ErrWorkloadFailed
	}

	return result, nil
}

func (r *Runner) runRound(
	ctx context.Context,
	logger *slog.Logger,
	s *config.Session,
	v registry.Variant,
	index int,
) (RoundResult, error) {
	logger = logger.With(slog.Int("round", index))
	logger.InfoContext(ctx, "round starting")

	// Each round gets its own copy of the configuration.
	cfg := s.Benchmark.Clone()

	bench := v.Build()
	if err := bench.Setup(cfg); err != nil {
		return RoundResult{}, &execution.SetupError{Worker: execution.BenchmarkSetup, Err: err}
	}

	coord, err := execution.NewCoordinator(s.Threads, cfg, bench,
		execution.WithLogger(logger),
		execution.WithSeed(s.Seed),
	)
	if err != nil {
		return RoundResult{}, err
	}

	wallStart := time.Now()

	if err := coord.Run(); err != nil {
		return RoundResult{}, err
	}

	round := RoundResult{
		Round:    index,
		Variant:  v.String(),
		WallTime: time.Since(wallStart),
		Workers:  make([]WorkerResult, 0, s.Threads),
	}

	for _, w := range coord.Workers() {
		wr := WorkerResult{
			ID:      w.ID(),
			Elapsed: w.Elapsed(),
			Report:  w.Report(),
		}

		if w.Err() != nil {
			wr.Error = w.Err().Error()
			logger.WarnContext(ctx, "workload failed",
				slog.Int("worker", w.ID()),
				slog.String("error", wr.Error),
			)
		}

		round.Workers = append(round.Workers, wr)
	}

	logger.InfoContext(ctx, "round finished",
		slog.Duration("wall_time", round.WallTime),
	)

	return round, nil
}
