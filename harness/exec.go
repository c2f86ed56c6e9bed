package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one synchronous subprocess invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Executor runs a command to completion and reports its exit status.
// A non-nil error means the command could not be run at all.
type Executor interface {
	Execute(ctx context.Context, cmd Command) (int, error)
}

// OSExecutor runs commands with os/exec.
type OSExecutor struct{}

// Execute implements Executor.
func (OSExecutor) Execute(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("run %s: %w", c.Name, err)
}

// StatusError reports a subprocess that exited with a non-zero status.
type StatusError struct {
	Step   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Step, e.Status)
}
