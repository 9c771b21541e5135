package config

import "time"

type PostgresConfig struct {
	Url             string
	Schema          string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

func NewPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Url:             getEnv("DATABASE_URL", ""),
		Schema:          getEnv("DATABASE_SCHEMA", "public"),
		MaxOpenConns:    getIntEnv("DATABASE_MAX_OPEN_CONNS", 10),
		ConnMaxLifetime: getSecondsEnv("DATABASE_CONN_MAX_LIFETIME_SEC", 30*time.Minute),
	}
}

// Enabled reports whether job history should be persisted
func (c *PostgresConfig) Enabled() bool {
	return c.Url != ""
}
