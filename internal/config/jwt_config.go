package config

import (
	"os"
	"time"
)

type JwtConfig struct {
	Secret           string
	TokenTTL         time.Duration
	ClientID         string
	ClientSecretHash string
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret:           os.Getenv("JWT_SECRET"),
		TokenTTL:         getSecondsEnv("JWT_TTL_SEC", time.Hour),
		ClientID:         os.Getenv("API_CLIENT_ID"),
		ClientSecretHash: os.Getenv("API_CLIENT_SECRET_HASH"),
	}
}

// Enabled reports whether API routes require a bearer token
func (c *JwtConfig) Enabled() bool {
	return c.Secret != ""
}
