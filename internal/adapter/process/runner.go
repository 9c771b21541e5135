// Package process runs external commands with a wall-clock bound.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
	"gitlab.com/docforge.net/internal/domain"
)

var _ secondary.ProcessRunner = (*ExecRunner)(nil)

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren after a kill
const waitDelay = 2 * time.Second

// ExecRunner implements ProcessRunner with os/exec
type ExecRunner struct {
	logger primary.Logger
}

func NewExecRunner(logger primary.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, c domain.RunCommand) (domain.RunResult, error) {
	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	// #nosec G204 -- path comes from the resolver's validated candidate list
	cmd := exec.CommandContext(runCtx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = c.Env
	}
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := domain.RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		r.logger.Warn("Process timed out", "path", c.Path, "timeout", c.Timeout)
		return res, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) || errors.Is(err, exec.ErrWaitDelay) {
			return res, nil
		}
		return res, fmt.Errorf("failed to start %s: %w", c.Path, err)
	}
	return res, nil
}
