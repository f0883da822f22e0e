// Package main provides the CLI entry point for ubench, a multi-threaded
// micro-benchmark harness.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/weiihann/ubench/benchmarks"
	"github.com/weiihann/ubench/config"
	"github.com/weiihann/ubench/harness"
	"github.com/weiihann/ubench/metrics"
	"github.com/weiihann/ubench/registry"
	"github.com/weiihann/ubench/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	reg, err := benchmarks.Default()
	if err != nil {
		fmt.Fprintf(stdout, "%s %v\n", errorStyle.Render("ERROR:"), err)

		return 1
	}

	root := newRootCmd(reg, stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stdout)

	if err := root.ExecuteContext(context.Background()); err != nil {
		printError(stdout, reg, err)

		return 1
	}

	return 0
}

type runConfig struct {
	configPath  string
	rounds      int
	threads     int
	logLevel    string
	outputJSON  bool
	metricsFile string
}

func newRootCmd(reg *registry.Registry, stdout, stderr io.Writer) *cobra.Command {
	var cfg runConfig

	root := &cobra.Command{
		Use:   "ubench <config-file>",
		Short: "Multi-threaded micro-benchmark harness",
		Long: `ubench runs a benchmark variant across a configurable number of worker
goroutines. Every round builds a fresh benchmark instance, sets up all
workers, releases them at the same instant and records each worker's
measured time.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.configPath = args[0]

			return runSession(cmd, reg, stdout, stderr, cfg)
		},
	}

	flags := root.Flags()
	flags.IntVar(&cfg.rounds, "rounds", 0,
		"Override benchmark.rounds (0 = use config)")
	flags.IntVar(&cfg.threads, "threads", 0,
		"Override threads (0 = use config)")
	flags.StringVar(&cfg.logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	flags.BoolVar(&cfg.outputJSON, "json", false,
		"Output results as JSON instead of tables")
	flags.StringVar(&cfg.metricsFile, "metrics-file", "",
		"Write Prometheus metrics to this file after the session")

	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cmd.Long)
		fmt.Fprintln(out)
		fmt.Fprint(out, cmd.UsageString())
		printAvailable(out, reg)
	})

	return root
}

func runSession(
	cmd *cobra.Command,
	reg *registry.Registry,
	stdout, stderr io.Writer,
	cfg runConfig,
) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", cfg.logLevel, err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))

	tree, err := config.Load(cfg.configPath)
	if err != nil {
		return err
	}

	session, err := config.NewSession(tree)
	if err != nil {
		return err
	}

	if cfg.rounds > 0 {
		session.Rounds = cfg.rounds
	}
	if cfg.threads > 0 {
		session.Threads = cfg.threads
	}

	if err := session.Validate(); err != nil {
		return err
	}

	// Keep stdout a single JSON document in --json mode.
	echo := stdout
	if cfg.outputJSON {
		echo = stderr
	}

	recorder := metrics.NewRecorder()
	runner := harness.NewRunner(reg, logger, echo, recorder)

	result, runErr := runner.Run(cmd.Context(), session)
	if result == nil {
		return runErr
	}

	if cfg.outputJSON {
		if err := report.GenerateJSON(stdout, result); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else if len(result.Rounds) > 0 {
		fmt.Fprintln(stdout)
		if err := report.Generate(stdout, result); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	if cfg.metricsFile != "" {
		if err := recorder.WriteFile(cfg.metricsFile); err != nil {
			return err
		}
	}

	return runErr
}

func printError(w io.Writer, reg *registry.Registry, err error) {
	var cfgErr *registry.ConfigError
	if errors.As(err, &cfgErr) {
		switch {
		case errors.Is(err, registry.ErrNoMatch):
			fmt.Fprintln(w, "Could not find a benchmark that matches the given configuration. "+
				"Available configurations are:")

			for _, v := range cfgErr.Available {
				fmt.Fprintf(w, "%s:\n", v)
				_ = config.Render(w, v.Descriptor, 2)
			}

		case errors.Is(err, registry.ErrUnknownType):
			printAvailable(w, reg)
		}
	}

	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("ERROR:"), err)
}

func printAvailable(w io.Writer, reg *registry.Registry) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available benchmark configurations:")

	for _, typ := range reg.Types() {
		fmt.Fprintln(w, headerStyle.Render("=== "+typ+" ==="))

		for _, v := range reg.Variants(typ) {
			fmt.Fprintf(w, "%s:\n", v.Name)
			_ = config.Render(w, v.Descriptor, 2)
		}

		fmt.Fprintln(w)
	}
}
