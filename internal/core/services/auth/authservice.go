package auth

import (
	"context"

	"gitlab.com/docforge.net/internal/domain"
)

type IAuthService interface {
	// Login exchanges API client credentials for a bearer token
	Login(ctx context.Context, creds domain.ClientCredentials) (domain.LoginResponse, error)
	// Authorize verifies a bearer token and returns its payload
	Authorize(ctx context.Context, token string) (domain.AuthPayload, error)
}
