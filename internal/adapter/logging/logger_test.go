package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "nonsense"} {
		l := NewZapLoggerWithLevel(level)
		assert.NotPanics(t, func() {
			l.With("jobId", "abc").Debug("probe", "path", "/usr/bin/pdflatex")
			l.Info("compiled", "attempts", 1)
		}, level)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Warn("cleanup failed", "error", "boom")
		l.Error("x")
		l.Sync()
	})
}
