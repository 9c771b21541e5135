package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/docforge.net/internal/adapter/logging"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

type stubGenerator struct {
	text   string
	err    error
	models []domain.ModelInfo
	calls  int
}

func (s *stubGenerator) Generate(context.Context, string) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubGenerator) ListModels(context.Context) ([]domain.ModelInfo, error) {
	return s.models, s.err
}

type stubCompiler struct {
	sources []string
	origins []domain.JobSource
}

func (s *stubCompiler) Compile(_ context.Context, origin domain.JobSource, source string) domain.Outcome {
	s.sources = append(s.sources, source)
	s.origins = append(s.origins, origin)
	out := domain.Succeeded([]byte("%PDF"), "nonstop")
	out.JobID = uuid.New()
	return out
}

func (s *stubCompiler) Toolchain(context.Context) (*domain.ToolBinary, error) {
	return &domain.ToolBinary{Path: "pdflatex"}, nil
}

type generationCounter map[string]int

func (g generationCounter) IncGeneration(result string) { g[result]++ }

func TestGenerate_StripsFencesAndCompiles(t *testing.T) {
	gen := &stubGenerator{text: "```latex\n\\documentclass{article}\\begin{document}Hi\\end{document}\n```"}
	comp := &stubCompiler{}
	counter := generationCounter{}
	svc := NewService(gen, comp, logging.NewNopLogger())
	svc.SetObserver(counter)

	res := svc.Generate(context.Background(), "a one-line greeting")

	require.True(t, res.Outcome.Success)
	assert.Equal(t, "a one-line greeting", res.Prompt)
	assert.Equal(t, "\\documentclass{article}\\begin{document}Hi\\end{document}", res.Source)
	assert.Equal(t, []string{res.Source}, comp.sources)
	assert.Equal(t, []domain.JobSource{domain.JobSourceGenerate}, comp.origins)
	assert.Equal(t, 1, counter[ResultOK])
}

func TestGenerate_BlankPromptIsInvalidInput(t *testing.T) {
	gen := &stubGenerator{text: "x"}
	comp := &stubCompiler{}
	svc := NewService(gen, comp, logging.NewNopLogger())

	res := svc.Generate(context.Background(), " \n ")

	assert.Equal(t, domain.ErrorKindInvalidInput, res.Outcome.Kind)
	assert.Zero(t, gen.calls)
	assert.Empty(t, comp.sources)
}

func TestGenerate_APIFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{name: "request error", gen: &stubGenerator{err: errors.New("quota exceeded")}},
		{name: "blank reply", gen: &stubGenerator{text: "   "}},
		{name: "fence only", gen: &stubGenerator{text: "```latex\n```"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := &stubCompiler{}
			counter := generationCounter{}
			svc := NewService(tt.gen, comp, logging.NewNopLogger())
			svc.SetObserver(counter)

			res := svc.Generate(context.Background(), "a poster")

			assert.False(t, res.Outcome.Success)
			assert.Equal(t, domain.ErrorKindAPI, res.Outcome.Kind)
			assert.NotEqual(t, uuid.Nil, res.Outcome.JobID)
			assert.Empty(t, comp.sources)
			assert.Equal(t, 1, counter[ResultAPIError])
		})
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	svc := NewService(nil, &stubCompiler{}, logging.NewNopLogger())

	res := svc.Generate(context.Background(), "anything")
	assert.Equal(t, domain.ErrorKindAPI, res.Outcome.Kind)

	_, err := svc.ListModels(context.Background())
	assert.ErrorIs(t, err, errs.ErrAPI)
}

func TestListModels(t *testing.T) {
	gen := &stubGenerator{models: []domain.ModelInfo{{Name: "gemini-2.5-flash"}}}
	svc := NewService(gen, &stubCompiler{}, logging.NewNopLogger())

	models, err := svc.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", models[0].Name)

	gen.err = errors.New("unauthenticated")
	_, err = svc.ListModels(context.Background())
	assert.ErrorIs(t, err, errs.ErrAPI)
}
