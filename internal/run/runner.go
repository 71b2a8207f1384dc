// Package run executes external tools and captures their results.
package run

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Result captures a finished tool invocation.
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// Runner abstracts tool execution so callers can be exercised against a
// fake in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs tools with os/exec. Dir and Env apply to every command;
// a nil Env inherits the parent process environment.
type ExecRunner struct {
	Dir string
	Env []string
}

// Run executes the command and returns its combined stdout/stderr.
// A non-zero exit is reported through Result.ExitCode with a nil error;
// the error is non-nil only when the command could not be run at all.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if r.Env != nil {
		cmd.Env = r.Env
	}

	output, err := cmd.CombinedOutput()
	res := Result{Output: string(output), Duration: time.Since(start)}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}
