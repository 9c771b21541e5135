package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/services/auth"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/handlers/response"
	"gitlab.com/docforge.net/internal/static/errs"
)

type Handler struct {
	authService auth.IAuthService
	logger      primary.Logger
}

func NewHandler(authService auth.IAuthService, logger primary.Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/token", h.IssueToken).Methods("POST")
}

// IssueToken exchanges API client credentials for a bearer token
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var creds domain.ClientCredentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&creds); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}

	loginResponse, err := h.authService.Login(r.Context(), creds)
	if err != nil {
		switch {
		case errors.Is(err, errs.InvalidCredentials):
			response.Error(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, errs.AuthDisabled):
			response.Error(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("Failed to issue token", "clientId", creds.ClientID, "error", err)
			response.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.WriteSuccess(w, loginResponse)
}
