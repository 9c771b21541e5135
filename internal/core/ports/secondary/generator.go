package secondary

import (
	"context"

	"gitlab.com/docforge.net/internal/domain"
)

// TextGenerator turns a natural-language prompt into document source text
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelCatalog lists the models able to serve TextGenerator requests
type ModelCatalog interface {
	ListModels(ctx context.Context) ([]domain.ModelInfo, error)
}
