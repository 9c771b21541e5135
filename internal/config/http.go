package config

import "time"

type HTTPConfig struct {
	Port         int
	ServiceName  string
	MaxBodyBytes int64
	// WriteTimeout must cover every compile mode running to its attempt timeout
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func NewHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		Port:            getIntEnv("HTTP_PORT", 8082),
		ServiceName:     getEnv("SERVICE_NAME", "docforge"),
		MaxBodyBytes:    int64(getIntEnv("HTTP_MAX_BODY_BYTES", 5<<20)),
		WriteTimeout:    getSecondsEnv("HTTP_WRITE_TIMEOUT_SEC", 2*time.Minute),
		ShutdownTimeout: getSecondsEnv("HTTP_SHUTDOWN_TIMEOUT_SEC", 30*time.Second),
	}
}
