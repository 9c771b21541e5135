package crypto

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/docforge.net/internal/config"
	"gitlab.com/docforge.net/internal/domain"
)

func TestHMACRoundTrip(t *testing.T) {
	svc := NewJWTService(&config.JwtConfig{Secret: "s3cret", TokenTTL: time.Minute})
	ctx := context.Background()

	token, err := svc.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, map[string]interface{}{
		"username":   "ci-bot",
		"permission": []string{domain.PermissionCompile},
	})
	require.NoError(t, err)

	ok, err := svc.VerifyTokenHMAC(ctx, token, jwt.SigningMethodHS256.Name)
	require.NoError(t, err)
	assert.True(t, ok)

	payload, err := svc.DecodeTokenPayload(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ci-bot", payload.Username)
	assert.Equal(t, []string{domain.PermissionCompile}, payload.Permission)
}

func TestVerifyTokenHMAC_Rejects(t *testing.T) {
	ctx := context.Background()
	issuer := NewJWTService(&config.JwtConfig{Secret: "one"})
	verifier := NewJWTService(&config.JwtConfig{Secret: "two"})

	token, err := issuer.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, map[string]interface{}{"username": "x"})
	require.NoError(t, err)

	ok, err := verifier.VerifyTokenHMAC(ctx, token, jwt.SigningMethodHS256.Name)
	assert.Error(t, err)
	assert.False(t, ok)

	expired, err := issuer.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, map[string]interface{}{
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)
	_, err = issuer.VerifyTokenHMAC(ctx, expired, jwt.SigningMethodHS256.Name)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = issuer.VerifyTokenHMAC(ctx, "not.a.token", jwt.SigningMethodHS256.Name)
	assert.Error(t, err)
}

func TestGenerateTokenHMAC_RejectsAsymmetricMethod(t *testing.T) {
	svc := NewJWTService(&config.JwtConfig{Secret: "s"})
	_, err := svc.GenerateTokenHMAC(context.Background(), jwt.SigningMethodRS256.Name, map[string]interface{}{})
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	svc := NewJWTService(&config.JwtConfig{Secret: "s"})
	ctx := context.Background()

	hash, err := svc.EncryptPassword(ctx, "hunter2")
	require.NoError(t, err)

	ok, err := svc.VerifyPassword(ctx, hash, "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyPassword(ctx, hash, "wrong")
	assert.Error(t, err)
	assert.False(t, ok)
}
