package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/docforge.net/internal/config"
	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

var _ IAuthService = &localAuthService{}

// localAuthService authenticates the single API client configured through the environment
type localAuthService struct {
	cfg         *config.JwtConfig
	jwtProvider primary.JWTService
	logger      primary.Logger
}

func NewLocalAuthService(
	cfg *config.JwtConfig,
	jwtProvider primary.JWTService,
	logger primary.Logger,
) IAuthService {
	return &localAuthService{
		cfg:         cfg,
		jwtProvider: jwtProvider,
		logger:      logger,
	}
}

func (g localAuthService) Login(ctx context.Context, creds domain.ClientCredentials) (domain.LoginResponse, error) {
	if !g.cfg.Enabled() || g.cfg.ClientID == "" || g.cfg.ClientSecretHash == "" {
		return domain.LoginResponse{}, errs.AuthDisabled
	}
	if subtle.ConstantTimeCompare([]byte(creds.ClientID), []byte(g.cfg.ClientID)) != 1 {
		return domain.LoginResponse{}, errs.InvalidCredentials
	}
	valid, err := g.jwtProvider.VerifyPassword(ctx, g.cfg.ClientSecretHash, creds.ClientSecret)
	if err != nil || !valid {
		return domain.LoginResponse{}, errs.InvalidCredentials
	}

	authPayload := domain.AuthPayload{
		Username:   creds.ClientID,
		Permission: []string{domain.PermissionCompile},
	}
	raw, err := json.Marshal(authPayload)
	if err != nil {
		return domain.LoginResponse{}, errs.InternalError
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		g.logger.Error("Failed to unmarshal auth payload", "error", err)
		return domain.LoginResponse{}, errs.InternalError
	}

	expiresAt := time.Now().Add(g.cfg.TokenTTL)
	payload["exp"] = expiresAt.Unix()
	token, err := g.jwtProvider.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, payload)
	if err != nil {
		g.logger.Error("Failed to sign token", "clientId", creds.ClientID, "error", err)
		return domain.LoginResponse{}, errs.GeneratingToken
	}
	g.logger.Info("Issued API token", "clientId", creds.ClientID)
	return domain.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

func (g localAuthService) Authorize(ctx context.Context, token string) (domain.AuthPayload, error) {
	valid, err := g.jwtProvider.VerifyTokenHMAC(ctx, token, jwt.SigningMethodHS256.Name)
	if err != nil || !valid {
		return domain.AuthPayload{}, errs.InvalidCredentials
	}
	payload, err := g.jwtProvider.DecodeTokenPayload(ctx, token)
	if err != nil {
		return domain.AuthPayload{}, errs.InvalidCredentials
	}
	if !slices.Contains(payload.Permission, domain.PermissionCompile) {
		return domain.AuthPayload{}, errs.InvalidCredentials
	}
	return payload, nil
}
