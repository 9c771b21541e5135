package generator

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/services/generate"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/handlers/response"
)

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the compile outcome plus the source that was generated for it
type GenerateResponse struct {
	Prompt string `json:"prompt"`
	Source string `json:"source,omitempty"`
	response.Outcome
}

type ModelsResponse struct {
	Models []domain.ModelInfo `json:"models"`
}

// Handler serves the generation endpoints
type Handler struct {
	generateService generate.IGenerateService
	maxBodyBytes    int64
	logger          primary.Logger
}

func NewHandler(generateService generate.IGenerateService, maxBodyBytes int64, logger primary.Logger) *Handler {
	return &Handler{
		generateService: generateService,
		maxBodyBytes:    maxBodyBytes,
		logger:          logger,
	}
}

// RegisterRoutes registers the API routes for Handler
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/generate", h.Generate).Methods("POST")
	router.HandleFunc("/api/models", h.ListModels).Methods("GET")
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}

	result := h.generateService.Generate(r.Context(), req.Prompt)
	response.WriteJSON(w, response.StatusForOutcome(result.Outcome), GenerateResponse{
		Prompt:  result.Prompt,
		Source:  result.Source,
		Outcome: response.NewOutcome(result.Outcome),
	})
}

// ListModels lists the models able to generate content
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.generateService.ListModels(r.Context())
	if err != nil {
		h.logger.Error("Failed to list models", "error", err)
		response.Error(w, http.StatusBadGateway, err.Error())
		return
	}
	if models == nil {
		models = []domain.ModelInfo{}
	}
	response.WriteSuccess(w, ModelsResponse{Models: models})
}
