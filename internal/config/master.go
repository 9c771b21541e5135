package config

import "os"

type AppConfig struct {
	DebugMode      bool
	LogLevel       string
	CompilerConfig *CompilerConfig
	JanitorCfg     *JanitorCfg
	HTTPConfig     *HTTPConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
	GenAIConfig    *GenAIConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CompilerConfig: NewCompilerConfig(),
		JanitorCfg:     NewJanitorCfg(),
		HTTPConfig:     NewHTTPConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
		GenAIConfig:    NewGenAIConfig(),
	}
}
