package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/docforge.net/internal/handlers/response"
)

// HealthHandler answers liveness probes
type HealthHandler struct {
	serviceName string
}

func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

// RegisterRoutes registers the API routes for HealthHandler
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods("GET")
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.WriteSuccess(w, map[string]string{"status": "ok", "service": h.serviceName})
}
