package toolchain

import (
	"context"

	"gitlab.com/docforge.net/internal/domain"
)

// IToolResolver locates and validates the external compiler
type IToolResolver interface {
	// Resolve returns the cached tool or probes the candidates once to find it
	Resolve(ctx context.Context) (*domain.ToolBinary, error)
}
