package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"gitlab.com/docforge.net/internal/config"
	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

var _ IToolResolver = (*Resolver)(nil)

const remediationHint = "install a TeX distribution (TeX Live or MiKTeX) so that pdflatex is on PATH, " +
	"or point COMPILER_CANDIDATES at the pdflatex executable"

// ToolNotFoundError is returned when no candidate passed the version probe
type ToolNotFoundError struct {
	Tried []string
	Hint  string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("compiler not found (tried %s): %s", strings.Join(e.Tried, ", "), e.Hint)
}

func (e *ToolNotFoundError) Is(target error) bool {
	return target == errs.ErrToolNotFound
}

// ResolutionObserver is notified once per resolution attempt
type ResolutionObserver interface {
	IncToolResolution(success bool)
}

// Resolver finds the compiler once per process and hands the cached result to every job
type Resolver struct {
	cfg      *config.CompilerConfig
	runner   secondary.ProcessRunner
	logger   primary.Logger
	lookPath func(string) (string, error)
	observer ResolutionObserver

	mu       sync.Mutex
	resolved *domain.ToolBinary
}

func NewResolver(cfg *config.CompilerConfig, runner secondary.ProcessRunner, logger primary.Logger) *Resolver {
	return &Resolver{
		cfg:      cfg,
		runner:   runner,
		logger:   logger,
		lookPath: exec.LookPath,
	}
}

// SetLookPath replaces the PATH lookup used for the bare-name fallback
func (r *Resolver) SetLookPath(fn func(string) (string, error)) {
	if fn != nil {
		r.lookPath = fn
	}
}

// SetObserver attaches a metrics observer
func (r *Resolver) SetObserver(o ResolutionObserver) {
	r.observer = o
}

// Resolve returns the cached tool or probes the candidates in order.
// The lock is held across probing so concurrent first callers share one resolution.
func (r *Resolver) Resolve(ctx context.Context) (*domain.ToolBinary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved != nil {
		return r.resolved, nil
	}

	tool, err := r.resolve(ctx)
	if r.observer != nil {
		r.observer.IncToolResolution(err == nil)
	}
	if err != nil {
		return nil, err
	}
	r.resolved = tool
	return tool, nil
}

func (r *Resolver) resolve(ctx context.Context) (*domain.ToolBinary, error) {
	tried := make([]string, 0, len(r.cfg.Candidates)+1)

	for _, candidate := range r.candidates() {
		tried = append(tried, candidate)
		path := candidate
		if !filepath.IsAbs(candidate) {
			found, err := r.lookPath(candidate)
			if err != nil {
				r.logger.Debug("Compiler not on PATH", "name", candidate, "error", err)
				continue
			}
			path = found
		}

		tool, err := r.probe(ctx, path)
		if err != nil {
			r.logger.Debug("Compiler probe failed", "path", path, "error", err)
			continue
		}
		r.logger.Info("Resolved compiler", "path", tool.Path, "version", tool.Version)
		return tool, nil
	}

	r.logger.Error("No usable compiler found", "tried", tried)
	return nil, &ToolNotFoundError{Tried: tried, Hint: remediationHint}
}

func (r *Resolver) candidates() []string {
	out := make([]string, 0, len(r.cfg.Candidates)+1)
	out = append(out, r.cfg.Candidates...)
	if r.cfg.BareName != "" {
		out = append(out, r.cfg.BareName)
	}
	return out
}

var errEmptyProbe = errors.New("probe produced no output")

func (r *Resolver) probe(ctx context.Context, path string) (*domain.ToolBinary, error) {
	res, err := r.runner.Run(ctx, domain.RunCommand{
		Path:    path,
		Args:    r.cfg.ProbeArgs,
		Timeout: r.cfg.ProbeTimeout,
	})
	if err != nil {
		return nil, err
	}
	if res.TimedOut {
		return nil, fmt.Errorf("probe timed out after %s", r.cfg.ProbeTimeout)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("probe exited with code %d", res.ExitCode)
	}
	out := strings.TrimSpace(res.Stdout)
	if out == "" {
		out = strings.TrimSpace(res.Stderr)
	}
	if out == "" {
		return nil, errEmptyProbe
	}
	return &domain.ToolBinary{
		Path:        path,
		Version:     ParseVersion(out),
		ProbeOutput: out,
	}, nil
}

var versionLine = regexp.MustCompile(`(?m)^.*\d+\.\d+.*$`)

// ParseVersion returns the first version-looking line of the probe output,
// e.g. "pdfTeX 3.141592653-2.6-1.40.25 (TeX Live 2023/Debian)".
func ParseVersion(output string) string {
	if line := versionLine.FindString(output); line != "" {
		return strings.TrimSpace(line)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(first)
}
