package response

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"gitlab.com/docforge.net/internal/core/services/diagnostics"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

// Outcome is the wire form of a compilation outcome
type Outcome struct {
	JobID       uuid.UUID           `json:"jobId"`
	Success     bool                `json:"success"`
	Artifact    []byte              `json:"artifact,omitempty"`
	Message     string              `json:"message,omitempty"`
	Log         string              `json:"log,omitempty"`
	Error       string              `json:"error,omitempty"`
	Details     string              `json:"details,omitempty"`
	Kind        domain.ErrorKind    `json:"kind,omitempty"`
	Mode        string              `json:"mode,omitempty"`
	Attempts    int                 `json:"attempts"`
	Diagnostics []domain.Diagnostic `json:"diagnostics,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	Notes       []string            `json:"notes,omitempty"`
	DurationMs  int64               `json:"durationMs"`
}

// NewOutcome converts an outcome; the artifact travels base64 encoded inside the JSON body
func NewOutcome(out domain.Outcome) Outcome {
	resp := Outcome{
		JobID:       out.JobID,
		Success:     out.Success,
		Artifact:    out.Artifact,
		Message:     out.Message,
		Log:         out.LogExcerpt,
		Kind:        out.Kind,
		Mode:        out.Mode,
		Attempts:    out.Attempts,
		Diagnostics: out.Errors,
		Warnings:    out.Warnings,
		Notes:       out.Notes,
		DurationMs:  out.Duration.Milliseconds(),
	}
	if out.Success {
		return resp
	}

	if err := errs.ForKind(out.Kind); err != nil {
		resp.Error = err.Error()
	}
	details := make([]string, 0, 2)
	if out.Detail != "" {
		details = append(details, out.Detail)
	}
	if summary := diagnostics.Summary(out.Errors); summary != "" {
		details = append(details, summary)
	}
	resp.Details = strings.Join(details, "\n\n")
	return resp
}

// StatusForOutcome maps an outcome to the HTTP status it is served with
func StatusForOutcome(out domain.Outcome) int {
	if out.Success {
		return http.StatusOK
	}
	switch out.Kind {
	case domain.ErrorKindInvalidInput:
		return http.StatusBadRequest
	case domain.ErrorKindCompilationFailed:
		return http.StatusUnprocessableEntity
	case domain.ErrorKindToolNotFound:
		return http.StatusServiceUnavailable
	case domain.ErrorKindTimeout:
		return http.StatusGatewayTimeout
	case domain.ErrorKindAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
