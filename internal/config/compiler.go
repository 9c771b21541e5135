package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gitlab.com/docforge.net/internal/domain"
)

const (
	DefaultProbeTimeout   = 5 * time.Second
	DefaultAttemptTimeout = 30 * time.Second
	DefaultExcerptChars   = 2000
)

// CompilerConfig drives tool resolution and the compile engine
type CompilerConfig struct {
	// Candidates are absolute install locations tried in order before BareName
	Candidates     []string
	BareName       string
	ProbeArgs      []string
	ProbeTimeout   time.Duration
	Modes          []domain.Mode
	AttemptTimeout time.Duration
	// EnvOverrides are appended to the process environment of every attempt
	EnvOverrides    []string
	BenignPatterns  []string
	SourceFile      string
	ExcerptChars    int
	MaxConcurrent   int
	WorkspaceRoot   string
	WorkspacePrefix string
}

func NewCompilerConfig() *CompilerConfig {
	return &CompilerConfig{
		Candidates:      getListEnv("COMPILER_CANDIDATES", string(os.PathListSeparator), DefaultCandidates(runtime.GOOS)),
		BareName:        getEnv("COMPILER_NAME", "pdflatex"),
		ProbeArgs:       []string{"--version"},
		ProbeTimeout:    getSecondsEnv("COMPILER_PROBE_TIMEOUT_SEC", DefaultProbeTimeout),
		Modes:           ParseModes(os.Getenv("COMPILER_MODES")),
		AttemptTimeout:  getSecondsEnv("COMPILER_TIMEOUT_SEC", DefaultAttemptTimeout),
		EnvOverrides:    getListEnv("COMPILER_ENV", ";", DefaultEnvOverrides()),
		BenignPatterns:  getListEnv("COMPILER_BENIGN_PATTERNS", ";", DefaultBenignPatterns()),
		SourceFile:      "document.tex",
		ExcerptChars:    getIntEnv("COMPILER_LOG_EXCERPT_CHARS", DefaultExcerptChars),
		MaxConcurrent:   getIntEnv("MAX_CONCURRENT_JOBS", 4),
		WorkspaceRoot:   getEnv("WORKSPACE_ROOT", filepath.Join(os.TempDir(), "docforge")),
		WorkspacePrefix: "docforge-",
	}
}

// DefaultCandidates lists the usual pdflatex install locations for an OS
func DefaultCandidates(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\Program Files\MiKTeX\miktex\bin\x64\pdflatex.exe`,
			`C:\Program Files (x86)\MiKTeX\miktex\bin\pdflatex.exe`,
			`C:\texlive\2025\bin\windows\pdflatex.exe`,
			`C:\texlive\2024\bin\windows\pdflatex.exe`,
		}
	case "darwin":
		return []string{
			"/Library/TeX/texbin/pdflatex",
			"/opt/homebrew/bin/pdflatex",
			"/usr/local/bin/pdflatex",
		}
	default:
		return []string{
			"/usr/bin/pdflatex",
			"/usr/local/bin/pdflatex",
			"/usr/local/texlive/bin/x86_64-linux/pdflatex",
		}
	}
}

// DefaultModes is nonstop first, batch as the fallback
func DefaultModes() []domain.Mode {
	return []domain.Mode{
		{Name: "nonstop", Flags: []string{"-interaction=nonstopmode"}},
		{Name: "batch", Flags: []string{"-interaction=batchmode"}},
	}
}

// DefaultEnvOverrides keep MiKTeX from installing packages or opening installer prompts
func DefaultEnvOverrides() []string {
	return []string{
		"MIKTEX_AUTOINSTALL=0",
		"MIKTEX_ENABLE_INSTALLER=0",
	}
}

func DefaultBenignPatterns() []string {
	return []string{"you have not checked for MiKTeX updates"}
}

// ParseModes reads "name=flag flag;name=flag". Malformed or empty input yields DefaultModes.
func ParseModes(raw string) []domain.Mode {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultModes()
	}
	var modes []domain.Mode
	seen := make(map[string]bool)
	for _, item := range strings.Split(raw, ";") {
		name, flags, ok := strings.Cut(strings.TrimSpace(item), "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || seen[name] {
			continue
		}
		fields := strings.Fields(flags)
		if len(fields) == 0 {
			continue
		}
		seen[name] = true
		modes = append(modes, domain.Mode{Name: name, Flags: fields})
	}
	if len(modes) == 0 {
		return DefaultModes()
	}
	return modes
}
