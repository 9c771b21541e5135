package compiler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/services/compile"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/handlers/response"
)

// CompileRequest carries the document to compile
type CompileRequest struct {
	Source string `json:"source"`
}

// ToolchainResponse describes the resolved compiler
type ToolchainResponse struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// Handler serves the compile endpoints
type Handler struct {
	compileService compile.ICompileService
	maxBodyBytes   int64
	logger         primary.Logger
}

func NewHandler(compileService compile.ICompileService, maxBodyBytes int64, logger primary.Logger) *Handler {
	return &Handler{
		compileService: compileService,
		maxBodyBytes:   maxBodyBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers the API routes for Handler
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/compile", h.Compile).Methods("POST")
	router.HandleFunc("/api/toolchain", h.Toolchain).Methods("GET")
}

// Compile compiles the posted source. With ?format=pdf a successful result is sent as the raw PDF.
func (h *Handler) Compile(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}

	outcome := h.compileService.Compile(r.Context(), domain.JobSourceCompile, req.Source)
	if outcome.Success && r.URL.Query().Get("format") == "pdf" {
		WritePDF(w, outcome)
		return
	}
	response.WriteJSON(w, response.StatusForOutcome(outcome), response.NewOutcome(outcome))
}

// Toolchain reports the compiler path and version
func (h *Handler) Toolchain(w http.ResponseWriter, r *http.Request) {
	tool, err := h.compileService.Toolchain(r.Context())
	if err != nil {
		h.logger.Warn("Toolchain unavailable", "error", err)
		response.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	response.WriteSuccess(w, ToolchainResponse{Path: tool.Path, Version: tool.Version})
}

// WritePDF streams a successful outcome's artifact
func WritePDF(w http.ResponseWriter, outcome domain.Outcome) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="document.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(outcome.Artifact)))
	w.Header().Set("X-Job-Id", outcome.JobID.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(outcome.Artifact)
}
