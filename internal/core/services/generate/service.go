package generate

import (
	"context"

	"gitlab.com/docforge.net/internal/domain"
)

// IGenerateService turns a prompt into a compiled document
type IGenerateService interface {
	Generate(ctx context.Context, prompt string) domain.GenerationOutcome
	ListModels(ctx context.Context) ([]domain.ModelInfo, error)
}
