package compile

import (
	"context"

	"gitlab.com/docforge.net/internal/domain"
)

// ICompileService runs a document through the full pipeline
type ICompileService interface {
	// Compile validates, resolves the tool, isolates a workspace and drives the engine.
	// The workspace is gone by the time Compile returns.
	Compile(ctx context.Context, origin domain.JobSource, source string) domain.Outcome

	// Toolchain reports the compiler in use, resolving it on first call
	Toolchain(ctx context.Context) (*domain.ToolBinary, error)
}
