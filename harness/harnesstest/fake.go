// Package harnesstest provides a scripted harness.Executor for tests.
package harnesstest

import (
	"context"
	"io"
	"sync"

	"github.com/weiihann/mapsweep/harness"
)

// Reply is what a scripted command does.
type Reply struct {
	Stdout string
	Status int
	Err    error
}

// Executor records every command and answers with Handler, or with a
// zero exit status when Handler is nil.
type Executor struct {
	Handler func(cmd harness.Command) Reply

	mu       sync.Mutex
	commands []harness.Command
}

// Execute implements harness.Executor.
func (e *Executor) Execute(_ context.Context, cmd harness.Command) (int, error) {
	e.mu.Lock()
	e.commands = append(e.commands, cmd)
	e.mu.Unlock()

	var reply Reply
	if e.Handler != nil {
		reply = e.Handler(cmd)
	}

	if reply.Err != nil {
		return -1, reply.Err
	}

	if reply.Stdout != "" && cmd.Stdout != nil {
		if _, err := io.WriteString(cmd.Stdout, reply.Stdout); err != nil {
			return -1, err
		}
	}

	return reply.Status, nil
}

// Commands returns the commands executed so far.
func (e *Executor) Commands() []harness.Command {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]harness.Command(nil), e.commands...)
}
