package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// RunConfig holds parameters for a single benchmark invocation.
type RunConfig struct {
	// Dir is the working directory of the benchmark process.
	Dir string
	// Flags are appended after the runner's ExtraArgs.
	Flags []string
	// ResultPath receives the captured stdout.
	ResultPath string
}

// Runner launches the installed benchmark binary of one candidate.
type Runner struct {
	Name       string
	BinaryPath string
	ExtraArgs  []string
	Exec       Executor
	Logger     *slog.Logger

	// Stderr receives the benchmark's stderr.
	Stderr io.Writer
}

// NewRunner creates a Runner for the named candidate. ExtraArgs come
// before any per-run flags on the command line.
func NewRunner(
	name, binaryPath string,
	extraArgs []string,
	exec Executor,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		Name:       name,
		BinaryPath: binaryPath,
		ExtraArgs:  extraArgs,
		Exec:       exec,
		Logger:     logger.With(slog.String("candidate", name)),
		Stderr:     os.Stderr,
	}
}

// Run executes the benchmark once, writes its stdout verbatim to
// cfg.ResultPath and returns a summary of the run. On a non-zero exit
// nothing is written and a *StatusError is returned.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	args := make([]string, 0, len(r.ExtraArgs)+len(cfg.Flags))
	args = append(args, r.ExtraArgs...)
	args = append(args, cfg.Flags...)

	var stdout bytes.Buffer

	cmd := Command{
		Name:   r.BinaryPath,
		Args:   args,
		Dir:    cfg.Dir,
		Stdout: &stdout,
		Stderr: r.Stderr,
	}

	r.Logger.InfoContext(ctx, "starting benchmark",
		slog.String("cmd", cmd.String()),
	)

	start := time.Now()

	status, err := r.Exec.Execute(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("benchmark %s: %w", r.Name, err)
	}

	if status != 0 {
		return nil, &StatusError{Step: "benchmark " + r.Name, Status: status}
	}

	elapsed := time.Since(start)

	if err := WriteResult(cfg.ResultPath, stdout.Bytes()); err != nil {
		return nil, err
	}

	result := &Result{
		Path:    cfg.ResultPath,
		Bytes:   stdout.Len(),
		Elapsed: elapsed,
	}

	if out, ok := ParseOutput(stdout.Bytes()); ok {
		result.MapType = out.MapType
		result.PeakOpsPerSec = out.PeakOpsPerSec()
	}

	r.Logger.InfoContext(ctx, "benchmark finished",
		slog.String("result", cfg.ResultPath),
		slog.Duration("wall_time", elapsed),
	)

	return result, nil
}
