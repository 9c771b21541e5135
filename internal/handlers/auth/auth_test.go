package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/docforge.net/internal/adapter/logging"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

type fakeAuthService struct {
	err error
}

func (f fakeAuthService) Login(_ context.Context, creds domain.ClientCredentials) (domain.LoginResponse, error) {
	if f.err != nil {
		return domain.LoginResponse{}, f.err
	}
	return domain.LoginResponse{Token: "token-for-" + creds.ClientID, ExpiresAt: 1700000000}, nil
}

func (f fakeAuthService) Authorize(context.Context, string) (domain.AuthPayload, error) {
	return domain.AuthPayload{}, nil
}

func post(svc fakeAuthService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	NewHandler(svc, logging.NewNopLogger()).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body)))
	return rec
}

func TestIssueToken(t *testing.T) {
	rec := post(fakeAuthService{}, `{"clientId":"ci","clientSecret":"s3cret"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body domain.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "token-for-ci", body.Token)
	assert.Equal(t, int64(1700000000), body.ExpiresAt)
}

func TestIssueToken_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, post(fakeAuthService{}, `nope`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(fakeAuthService{err: errs.InvalidCredentials}, `{}`).Code)
	assert.Equal(t, http.StatusNotFound, post(fakeAuthService{err: errs.AuthDisabled}, `{}`).Code)
	assert.Equal(t, http.StatusInternalServerError, post(fakeAuthService{err: errs.GeneratingToken}, `{}`).Code)
}
