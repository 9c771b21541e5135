package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/docforge.net/internal/domain"
)

func TestParseModes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []domain.Mode
	}{
		{name: "empty falls back to defaults", raw: "", want: DefaultModes()},
		{name: "garbage falls back to defaults", raw: ";;=;noflags=", want: DefaultModes()},
		{
			name: "ordered custom list",
			raw:  "draft=-draftmode -interaction=nonstopmode; batch=-interaction=batchmode",
			want: []domain.Mode{
				{Name: "draft", Flags: []string{"-draftmode", "-interaction=nonstopmode"}},
				{Name: "batch", Flags: []string{"-interaction=batchmode"}},
			},
		},
		{
			name: "duplicate names keep the first",
			raw:  "a=-x;a=-y;b=-z",
			want: []domain.Mode{
				{Name: "a", Flags: []string{"-x"}},
				{Name: "b", Flags: []string{"-z"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseModes(tt.raw))
		})
	}
}

func TestDefaultCandidatesPerPlatform(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "windows", "freebsd"} {
		assert.NotEmpty(t, DefaultCandidates(goos), goos)
	}
	assert.Contains(t, DefaultCandidates("darwin"), "/Library/TeX/texbin/pdflatex")
}

func TestNewCompilerConfigFromEnv(t *testing.T) {
	t.Setenv("COMPILER_CANDIDATES", "/opt/tex/pdflatex"+string(os.PathListSeparator)+"/srv/pdflatex")
	t.Setenv("COMPILER_TIMEOUT_SEC", "12")
	t.Setenv("COMPILER_PROBE_TIMEOUT_SEC", "oops")
	t.Setenv("MAX_CONCURRENT_JOBS", "2")
	t.Setenv("COMPILER_ENV", "A=1; B=2")

	cfg := NewCompilerConfig()
	require.Equal(t, []string{"/opt/tex/pdflatex", "/srv/pdflatex"}, cfg.Candidates)
	assert.Equal(t, 12*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, DefaultProbeTimeout, cfg.ProbeTimeout)
	assert.Equal(t, 2, cfg.MaxConcurrent)
	assert.Equal(t, []string{"A=1", "B=2"}, cfg.EnvOverrides)
	assert.Equal(t, "pdflatex", cfg.BareName)
	assert.Equal(t, DefaultModes(), cfg.Modes)
}

func TestOptionalBackendsDisabledByDefault(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := NewSystemConfig()
	assert.False(t, cfg.RedisConfig.Enabled())
	assert.False(t, cfg.PostgresConfig.Enabled())
	assert.False(t, cfg.JwtConfig.Enabled())
	assert.False(t, cfg.GenAIConfig.Enabled())
}
