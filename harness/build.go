package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	// BuildType is passed to both the configure and the build step.
	BuildType = "RelWithDebInfo"

	// InstallDir is the install prefix, relative to the build directory.
	InstallDir = "TestAllMapsInstallFolder"

	// UserConfigFile is the generated selector artifact.
	UserConfigFile = "junction_userconfig.h.in"

	// SelectorDefine is the symbol the selector artifact defines.
	SelectorDefine = "JUNCTION_IMPL_MAPADAPTER_PATH"

	benchmarkName = "MapScalabilityTests"
)

// ConfigureOutcome is the result of the configure step.
type ConfigureOutcome int

const (
	// Configured means cmake exited zero and the tree can be built.
	Configured ConfigureOutcome = iota
	// ConfigureSkipped means cmake exited non-zero. The candidate is
	// skipped and the sweep continues.
	ConfigureSkipped
	// ConfigureAborted means the step could not run at all. The
	// accompanying error is fatal.
	ConfigureAborted
)

func (o ConfigureOutcome) String() string {
	switch o {
	case Configured:
		return "configured"
	case ConfigureSkipped:
		return "skipped"
	case ConfigureAborted:
		return "aborted"
	default:
		return fmt.Sprintf("ConfigureOutcome(%d)", int(o))
	}
}

// ConfigureRequest holds everything the configure step needs.
type ConfigureRequest struct {
	BuildDir     string
	ProjectDir   string
	Selector     string
	PassThrough  []string
	BuildOptions []string
}

// Builder drives the cmake configure and build steps for one build tree.
type Builder struct {
	CMake  string
	Exec   Executor
	Logger *slog.Logger

	// Output receives cmake's stdout and stderr.
	Output io.Writer
}

// NewBuilder returns a Builder invoking the given cmake executable.
func NewBuilder(cmake string, exec Executor, logger *slog.Logger) *Builder {
	if cmake == "" {
		cmake = "cmake"
	}

	return &Builder{
		CMake:  cmake,
		Exec:   exec,
		Logger: logger,
		Output: os.Stderr,
	}
}

// PrepareDir makes sure build-<name> exists under root and returns its
// absolute path. An existing directory is reused as is.
func PrepareDir(root, name string) (string, error) {
	dir, err := filepath.Abs(filepath.Join(root, "build-"+name))
	if err != nil {
		return "", fmt.Errorf("resolve build dir for %s: %w", name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create build dir %s: %w", dir, err)
	}

	return dir, nil
}

// SelectorContents returns the single line written to the selector
// artifact.
func SelectorContents(selector string) string {
	return fmt.Sprintf("#define %s \"%s\"\n", SelectorDefine, normalizeSlashes(selector))
}

// Configure writes the selector artifact and runs the cmake configure
// step inside req.BuildDir.
func (b *Builder) Configure(
	ctx context.Context,
	req ConfigureRequest,
) (ConfigureOutcome, error) {
	artifact := filepath.Join(req.BuildDir, UserConfigFile)

	err := atomic.WriteFile(artifact, strings.NewReader(SelectorContents(req.Selector)))
	if err != nil {
		return ConfigureAborted, fmt.Errorf("write %s: %w", artifact, err)
	}

	args := make([]string, 0, 4+len(req.PassThrough)+len(req.BuildOptions))
	args = append(args,
		req.ProjectDir,
		"-DCMAKE_BUILD_TYPE="+BuildType,
		"-DCMAKE_INSTALL_PREFIX="+InstallDir,
		"-DJUNCTION_USERCONFIG="+filepath.ToSlash(artifact),
	)
	args = append(args, req.PassThrough...)
	args = append(args, req.BuildOptions...)

	status, err := b.run(ctx, req.BuildDir, args)
	if err != nil {
		return ConfigureAborted, fmt.Errorf("configure: %w", err)
	}

	if status != 0 {
		b.Logger.WarnContext(ctx, "configure failed",
			slog.String("build_dir", req.BuildDir),
			slog.Int("status", status),
		)

		return ConfigureSkipped, nil
	}

	return Configured, nil
}

// BuildInstall builds the configured tree and installs it under
// InstallDir. A non-zero exit is returned as a *StatusError.
func (b *Builder) BuildInstall(ctx context.Context, buildDir string) error {
	status, err := b.run(ctx, buildDir, []string{
		"--build", ".", "--target", "install", "--config", BuildType,
	})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if status != 0 {
		return &StatusError{Step: "cmake --build", Status: status}
	}

	return nil
}

func (b *Builder) run(ctx context.Context, dir string, args []string) (int, error) {
	cmd := Command{
		Name:   b.CMake,
		Args:   args,
		Dir:    dir,
		Stdout: b.Output,
		Stderr: b.Output,
	}

	b.Logger.DebugContext(ctx, "exec", slog.String("cmd", cmd.String()))

	return b.Exec.Execute(ctx, cmd)
}

// BinaryPath returns the installed benchmark executable for a build tree.
func BinaryPath(buildDir string) string {
	name := benchmarkName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	return filepath.Join(buildDir, InstallDir, "bin", name)
}

func normalizeSlashes(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}
