// Package runner executes child processes and captures their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/mj1618/desktop-pilot/internal/model"
)

// waitDelay bounds how long Run keeps reading output after the child is
// killed, since grandchildren may still hold its pipes.
const waitDelay = time.Second

// Runner starts commands by name, resolved through PATH.
type Runner struct {
	// Timeout kills the child after this long. Zero waits indefinitely.
	Timeout time.Duration

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env holds KEY=VALUE entries added to the inherited environment.
	Env []string
}

// Run starts command with args, waits for it to exit and returns both
// captured streams. It never returns an error: a command that cannot be
// started yields a result with only Error set.
func (r Runner) Run(ctx context.Context, command string, args []string) model.CommandResult {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	if _, ok := ctx.Deadline(); ok {
		cmd.WaitDelay = waitDelay
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return model.CommandResult{Error: err.Error()}
	}

	err := cmd.Wait()
	status := 0
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		status = exitErr.ExitCode()
	case errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil:
		status = cmd.ProcessState.ExitCode()
	default:
		status = -1
	}
	out := stdout.String()
	errText := stderr.String()
	if status == -1 && errText == "" && err != nil {
		errText = err.Error()
	}
	return model.CommandResult{
		ExitStatus: &status,
		Output:     &out,
		Error:      errText,
	}
}
