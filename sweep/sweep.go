// Package sweep builds every candidate map implementation in its own
// build tree and runs the benchmark across the whole workload matrix.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/weiihann/mapsweep/harness"
)

// Status is the final state of one candidate.
type Status string

const (
	StatusPending Status = "pending"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
	StatusDone    Status = "done"
)

// CandidateSummary records what happened to one candidate.
type CandidateSummary struct {
	Name     string           `json:"name"`
	BuildDir string           `json:"build_dir"`
	Status   Status           `json:"status"`
	Results  []harness.Result `json:"results,omitempty"`
	Elapsed  time.Duration    `json:"elapsed_ns"`
}

// Summary records the outcome of a sweep.
type Summary struct {
	RunID      string             `json:"run_id"`
	Cells      int                `json:"cells"`
	Candidates []CandidateSummary `json:"candidates"`
}

// Config describes one sweep.
type Config struct {
	// Root is the directory the build-<name> directories live in.
	Root string
	// ProjectDir is the absolute path of the CMake project.
	ProjectDir  string
	PassThrough []string
	Plan        Plan
}

// Sweep runs candidates one after another.
type Sweep struct {
	Builder *harness.Builder
	Exec    harness.Executor
	Logger  *slog.Logger
}

// New returns a Sweep that shells out through exec.
func New(cmake string, exec harness.Executor, logger *slog.Logger) *Sweep {
	return &Sweep{
		Builder: harness.NewBuilder(cmake, exec, logger),
		Exec:    exec,
		Logger:  logger,
	}
}

// Run processes every candidate in declaration order. A candidate whose
// configure step fails is skipped. Any other failure stops the sweep and
// is returned together with the summary collected so far.
func (s *Sweep) Run(ctx context.Context, cfg Config) (*Summary, error) {
	plan, fixes, err := cfg.Plan.Normalize()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID: uuid.NewString(),
		Cells: plan.Matrix.Size(),
	}

	logger := s.Logger.With(slog.String("run_id", summary.RunID))

	for _, fix := range fixes {
		logger.WarnContext(ctx, "normalized workload flag",
			slog.String("axis", fix.Axis),
			slog.String("label", fix.Label),
			slog.String("from", fix.From),
			slog.String("to", fix.To),
		)
	}

	logger.InfoContext(ctx, "starting sweep",
		slog.String("project", cfg.ProjectDir),
		slog.Int("candidates", len(plan.Candidates)),
		slog.Int("cells", summary.Cells),
		slog.Any("pass_through", cfg.PassThrough),
	)

	for _, c := range plan.Candidates {
		cs, err := s.runCandidate(ctx, logger, cfg, plan, c)
		summary.Candidates = append(summary.Candidates, cs)

		if err != nil {
			return summary, fmt.Errorf("candidate %s: %w", c.Name, err)
		}
	}

	logger.InfoContext(ctx, "sweep complete")

	return summary, nil
}

func (s *Sweep) runCandidate(
	ctx context.Context,
	logger *slog.Logger,
	cfg Config,
	plan Plan,
	c Candidate,
) (cs CandidateSummary, err error) {
	start := time.Now()
	cs = CandidateSummary{Name: c.Name, Status: StatusPending}

	defer func() { cs.Elapsed = time.Since(start) }()

	runLogger := logger
	logger = logger.With(slog.String("candidate", c.Name))

	dir, err := harness.PrepareDir(cfg.Root, c.Name)
	if err != nil {
		cs.Status = StatusFailed
		return cs, err
	}

	cs.BuildDir = dir

	logger.InfoContext(ctx, "configuring", slog.String("build_dir", dir))

	outcome, err := s.Builder.Configure(ctx, harness.ConfigureRequest{
		BuildDir:     dir,
		ProjectDir:   cfg.ProjectDir,
		Selector:     c.Selector,
		PassThrough:  cfg.PassThrough,
		BuildOptions: c.BuildOptions,
	})

	switch outcome {
	case harness.ConfigureSkipped:
		logger.WarnContext(ctx, "configure failed, skipping candidate")

		cs.Status = StatusSkipped

		return cs, nil
	case harness.ConfigureAborted:
		cs.Status = StatusFailed
		return cs, err
	}

	if err := s.Builder.BuildInstall(ctx, dir); err != nil {
		cs.Status = StatusFailed
		return cs, err
	}

	logger.InfoContext(ctx, "running", slog.String("build_dir", dir))

	runner := harness.NewRunner(
		c.Name, harness.BinaryPath(dir), c.RuntimeOptions, s.Exec, runLogger,
	)

	for _, cell := range plan.Matrix.Cells() {
		name := harness.ResultFileName(cell.ReadWrite.Label, cell.InsertDelete.Label)

		result, err := runner.Run(ctx, harness.RunConfig{
			Dir:        dir,
			Flags:      cell.Flags(),
			ResultPath: filepath.Join(dir, name),
		})
		if err != nil {
			cs.Status = StatusFailed
			return cs, fmt.Errorf("cell %s: %w", cell, err)
		}

		cs.Results = append(cs.Results, *result)
	}

	cs.Status = StatusDone

	return cs, nil
}
