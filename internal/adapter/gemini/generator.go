// Package gemini generates document source through the Google Gemini API
package gemini

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"

	"gitlab.com/docforge.net/internal/config"
	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
	"gitlab.com/docforge.net/internal/domain"
)

var (
	_ secondary.TextGenerator = (*Generator)(nil)
	_ secondary.ModelCatalog  = (*Generator)(nil)
)

const systemInstruction = `You write complete, compilable LaTeX documents for pdflatex.
Reply with the LaTeX source only: start at \documentclass and end at \end{document}.
Use only packages shipped with a standard TeX Live installation. No commentary.`

const generateContentAction = "generateContent"

// Generator implements secondary.TextGenerator with the genai SDK
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  primary.Logger
}

// NewGenerator creates a Gemini-backed generator
func NewGenerator(ctx context.Context, cfg *config.GenAIConfig, logger primary.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Generator{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}, nil
}

// Generate asks the model for a document matching prompt
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		g.logger.Error("Generation request failed", "model", g.model, "error", err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	g.logger.Info("Generation finished", "model", g.model, "chars", len(text), "duration", time.Since(start))
	return text, nil
}

// ListModels returns the models that support content generation, in API order
func (g *Generator) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	page, err := g.client.Models.List(ctx, &genai.ListModelsConfig{})
	var models []domain.ModelInfo
	for {
		if errors.Is(err, genai.ErrPageDone) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gemini list models: %w", err)
		}
		for _, m := range page.Items {
			if m == nil || !slices.Contains(m.SupportedActions, generateContentAction) {
				continue
			}
			models = append(models, domain.ModelInfo{
				Name:        strings.TrimPrefix(m.Name, "models/"),
				DisplayName: m.DisplayName,
				Description: m.Description,
			})
		}
		if page.NextPageToken == "" {
			break
		}
		page, err = page.Next(ctx)
	}
	return models, nil
}
