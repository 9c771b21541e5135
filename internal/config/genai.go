package config

import (
	"os"
	"time"
)

type GenAIConfig struct {
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

func NewGenAIConfig() *GenAIConfig {
	return &GenAIConfig{
		APIKey:         firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		RequestTimeout: getSecondsEnv("GEMINI_TIMEOUT_SEC", time.Minute),
	}
}

// Enabled reports whether the generation endpoint can reach the API
func (c *GenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
