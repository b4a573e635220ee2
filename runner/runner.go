// Package runner wraps an external test command in a single synchronous run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ErrNoCommand indicates a runner was started without a command.
var ErrNoCommand = errors.New("runner: command is required")

// Runner describes one external command invocation.
type Runner struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// Result captures one run.
type Result struct {
	ExitCode int
	Output   string
	Duration time.Duration
}

// Failed reports whether the command exited non-zero.
func (r *Result) Failed() bool { return r.ExitCode != 0 }

// Run executes the command and captures its combined output. A non-zero exit
// is reported through the result, not as an error; errors mean the command
// could not be run at all.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Command == "" {
		return nil, ErrNoCommand
	}
	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(runCtx, r.Command, r.Args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	started := time.Now()
	output, err := cmd.CombinedOutput()
	result := &Result{Output: string(output), Duration: time.Since(started)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("runner: %s: %w", r.Command, err)
	}
	return result, nil
}
