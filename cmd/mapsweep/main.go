// Package main provides the CLI entry point for mapsweep, a parameter
// sweep driver for concurrent map scalability benchmarks.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/weiihann/mapsweep/config"
	"github.com/weiihann/mapsweep/harness"
	"github.com/weiihann/mapsweep/report"
	"github.com/weiihann/mapsweep/sweep"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapsweep: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)

	root := newRootCmd(logger, cfg, harness.OSExecutor{})
	err = root.ExecuteContext(ctx)

	stop()

	if errors.Is(err, sweep.ErrInvalidArguments) {
		fmt.Fprintf(os.Stderr, "Error: %v\nUsage: %s\n", err, root.UseLine())
	} else if err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
	}

	os.Exit(exitCode(err))
}

func newRootCmd(
	logger *slog.Logger,
	cfg config.Config,
	exec harness.Executor,
) *cobra.Command {
	return &cobra.Command{
		Use:   "mapsweep [cmake-options...] <project-path>",
		Short: "Build and benchmark every concurrent map candidate",
		Long: `Mapsweep configures and builds the map scalability benchmark once per
candidate map implementation, each in its own build-<name> directory, then
runs it across every read/write and insert/delete workload mix. The output
of every run is written to build-<name>/results_<rw>_<ir>.txt.

Arguments starting with '-' are passed to the cmake configure step. Set
CMAKE to use a different cmake binary and MAPSWEEP_PLAN to point at a YAML
plan that overrides the candidates or workload axes.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), logger, cfg, exec, args, cmd.OutOrStdout())
		},
	}
}

func runSweep(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Config,
	exec harness.Executor,
	rawArgs []string,
	out io.Writer,
) error {
	args, err := sweep.ParseArgs(rawArgs)
	if err != nil {
		return err
	}

	plan, err := sweep.LoadPlan(cfg.PlanPath)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	s := sweep.New(cfg.CMake, exec, logger)

	summary, runErr := s.Run(ctx, sweep.Config{
		Root:        root,
		ProjectDir:  args.ProjectDir,
		PassThrough: args.PassThrough,
		Plan:        plan,
	})

	if summary != nil && len(summary.Candidates) > 0 {
		switch cfg.Report {
		case config.ReportJSON:
			err = report.GenerateJSON(out, summary)
		case config.ReportMarkdown:
			err = report.Generate(out, summary)
		}

		if err != nil {
			logger.WarnContext(ctx, "failed to write report",
				slog.String("error", err.Error()),
			)
		}
	}

	return runErr
}

// exitCode maps a sweep error to the process exit status. A failed
// subprocess propagates its own status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var statusErr *harness.StatusError
	if errors.As(err, &statusErr) && statusErr.Status > 0 {
		return statusErr.Status
	}

	return 1
}
