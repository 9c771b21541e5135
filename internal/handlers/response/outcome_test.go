package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/docforge.net/internal/domain"
)

func TestNewOutcome_Failure(t *testing.T) {
	out := domain.Failed(domain.ErrorKindCompilationFailed, "no PDF produced after 2 attempt(s)")
	out.Errors = []domain.Diagnostic{{Severity: domain.SeverityError, Message: "! Undefined control sequence.", Context: []string{`l.3 \foo`}}}
	out.LogExcerpt = "...log tail"

	resp := NewOutcome(out)

	assert.False(t, resp.Success)
	assert.Equal(t, "compilation failed", resp.Error)
	assert.Equal(t, "no PDF produced after 2 attempt(s)\n\n! Undefined control sequence.\n  l.3 \\foo", resp.Details)
	assert.Equal(t, "...log tail", resp.Log)
	assert.Nil(t, resp.Artifact)
}

func TestNewOutcome_Success(t *testing.T) {
	out := domain.Succeeded([]byte("%PDF"), "nonstop")
	out.Message = "Compilation completed successfully"

	resp := NewOutcome(out)

	assert.True(t, resp.Success)
	assert.Equal(t, []byte("%PDF"), resp.Artifact)
	assert.Empty(t, resp.Error)
	assert.Empty(t, resp.Details)
}

func TestStatusForOutcome(t *testing.T) {
	cases := map[domain.ErrorKind]int{
		domain.ErrorKindInvalidInput:      http.StatusBadRequest,
		domain.ErrorKindCompilationFailed: http.StatusUnprocessableEntity,
		domain.ErrorKindToolNotFound:      http.StatusServiceUnavailable,
		domain.ErrorKindTimeout:           http.StatusGatewayTimeout,
		domain.ErrorKindAPI:               http.StatusBadGateway,
		domain.ErrorKindWorkspace:         http.StatusInternalServerError,
	}
	for kind, code := range cases {
		assert.Equal(t, code, StatusForOutcome(domain.Failed(kind, "")), kind)
	}
	assert.Equal(t, http.StatusOK, StatusForOutcome(domain.Succeeded(nil, "batch")))
}
