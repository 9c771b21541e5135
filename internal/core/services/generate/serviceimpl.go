package generate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
	"gitlab.com/docforge.net/internal/core/services/compile"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

var _ IGenerateService = (*Service)(nil)

// Generation results reported to the observer
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid_input"
	ResultAPIError = "api_error"
)

// GenerationObserver counts generation requests by result
type GenerationObserver interface {
	IncGeneration(result string)
}

type Service struct {
	generator secondary.TextGenerator
	catalog   secondary.ModelCatalog
	compiler  compile.ICompileService
	logger    primary.Logger
	observer  GenerationObserver
}

// NewService builds the generation pipeline. A nil generator makes every request an ApiError.
func NewService(generator secondary.TextGenerator, compiler compile.ICompileService, logger primary.Logger) *Service {
	s := &Service{
		generator: generator,
		compiler:  compiler,
		logger:    logger,
	}
	if catalog, ok := generator.(secondary.ModelCatalog); ok {
		s.catalog = catalog
	}
	return s
}

// SetObserver attaches a metrics observer
func (s *Service) SetObserver(o GenerationObserver) {
	s.observer = o
}

func (s *Service) Generate(ctx context.Context, prompt string) domain.GenerationOutcome {
	result := domain.GenerationOutcome{Prompt: prompt}

	if strings.TrimSpace(prompt) == "" {
		s.observe(ResultInvalid)
		result.Outcome = failed(domain.ErrorKindInvalidInput, "prompt is empty")
		return result
	}
	if s.generator == nil {
		s.observe(ResultAPIError)
		result.Outcome = failed(domain.ErrorKindAPI, "text generation is not configured")
		return result
	}

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("Generation failed", "error", err)
		s.observe(ResultAPIError)
		result.Outcome = failed(domain.ErrorKindAPI, err.Error())
		result.Outcome.Duration = time.Since(start)
		return result
	}

	source := StripFences(text)
	if source == "" {
		s.observe(ResultAPIError)
		result.Outcome = failed(domain.ErrorKindAPI, "model returned no document text")
		result.Outcome.Duration = time.Since(start)
		return result
	}

	s.observe(ResultOK)
	result.Source = source
	result.Outcome = s.compiler.Compile(ctx, domain.JobSourceGenerate, source)
	return result
}

func (s *Service) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	if s.catalog == nil {
		return nil, errors.Join(errs.ErrAPI, errors.New("text generation is not configured"))
	}
	models, err := s.catalog.ListModels(ctx)
	if err != nil {
		return nil, errors.Join(errs.ErrAPI, err)
	}
	return models, nil
}

func (s *Service) observe(result string) {
	if s.observer != nil {
		s.observer.IncGeneration(result)
	}
}

func failed(kind domain.ErrorKind, detail string) domain.Outcome {
	out := domain.Failed(kind, detail)
	out.JobID = uuid.New()
	return out
}
