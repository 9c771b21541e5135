package config

import "time"

type RedisConfig struct {
	DB          int
	Url         string
	Password    string
	ArtifactTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:          getIntEnv("REDIS_DB", 0),
		Url:         getEnv("REDIS_ADDR", ""),
		Password:    getEnv("REDIS_PASSWORD", ""),
		ArtifactTTL: getSecondsEnv("ARTIFACT_TTL_SEC", 15*time.Minute),
	}
}

// Enabled reports whether a redis address was configured
func (c *RedisConfig) Enabled() bool {
	return c.Url != ""
}
