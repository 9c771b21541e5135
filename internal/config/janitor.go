package config

import (
	"time"
)

type JanitorCfg struct {
	SweepInterval    time.Duration
	MaxAge           time.Duration
	HistoryRetention time.Duration
}

func NewJanitorCfg() *JanitorCfg {
	return &JanitorCfg{
		SweepInterval:    getSecondsEnv("WORKSPACE_SWEEP_INTERVAL_SEC", 10*time.Minute),
		MaxAge:           getSecondsEnv("WORKSPACE_MAX_AGE_SEC", time.Hour),
		HistoryRetention: getSecondsEnv("HISTORY_RETENTION_SEC", 7*24*time.Hour),
	}
}
