package secondary

import (
	"context"

	"gitlab.com/docforge.net/internal/domain"
)

type ProcessRunner interface {
	// Run executes a command bounded by cmd.Timeout. A non-zero exit code is not an error;
	// err is only set when the process could not be started.
	Run(ctx context.Context, cmd domain.RunCommand) (domain.RunResult, error)
}
