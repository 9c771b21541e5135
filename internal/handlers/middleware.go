package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/services/auth"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/handlers/response"
)

type ctxKey struct{}

// PayloadFromContext returns the token payload stored by JWTMiddleware
func PayloadFromContext(ctx context.Context) (domain.AuthPayload, bool) {
	p, ok := ctx.Value(ctxKey{}).(domain.AuthPayload)
	return p, ok
}

type MiddlewareProvider struct {
	authService auth.IAuthService
	logger      primary.Logger
}

func NewMiddlewareProvider(authService auth.IAuthService, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		authService: authService,
		logger:      logger,
	}
}

func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		// Extract token from "Bearer <token>"
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		payload, err := m.authService.Authorize(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Rejected token", "path", r.URL.Path, "error", err)
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, payload)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// LoggingMiddleware logs one line per request
func (m *MiddlewareProvider) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		m.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start))
	})
}
