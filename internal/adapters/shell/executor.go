// Package shell runs toolchain processes on the host.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// waitDelay bounds how long a cancelled process may keep its output pipes open.
const waitDelay = 5 * time.Second

// Executor implements ports.Executor using os/exec.
type Executor struct {
	env []string
}

// NewExecutor creates an Executor. Processes inherit the environment of anvil, extended by
// env entries of the form KEY=VALUE.
func NewExecutor(env ...string) *Executor {
	return &Executor{env: env}
}

// Run starts argv in dir and waits for it. Stdout and stderr are captured separately.
func (e *Executor) Run(ctx context.Context, dir string, argv []string) (domain.ProcessResult, error) {
	if len(argv) == 0 {
		return domain.ProcessResult{}, zerr.Wrap(domain.ErrProcessStartFailed, "empty command line")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // toolchain command line
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	if len(e.env) > 0 {
		cmd.Env = append(cmd.Environ(), e.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return domain.ProcessResult{}, zerr.With(zerr.Wrap(err, domain.ErrProcessStartFailed.Error()), "command", argv[0])
	}

	err := cmd.Wait()
	result := domain.ProcessResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, zerr.With(zerr.Wrap(ctxErr, "command interrupted"), "command", argv[0])
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, zerr.With(zerr.Wrap(err, "command failed"), "command", argv[0])
}
