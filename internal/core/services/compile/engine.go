package compile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"gitlab.com/docforge.net/internal/config"
	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
	"gitlab.com/docforge.net/internal/core/services/diagnostics"
	"gitlab.com/docforge.net/internal/domain"
)

// Attempt results reported to the observer
const (
	AttemptArtifact   = "artifact"
	AttemptNoArtifact = "no_artifact"
	AttemptTimeout    = "timeout"
	AttemptSpawnError = "spawn_error"
)

// AttemptObserver is notified after every compiler invocation
type AttemptObserver interface {
	IncAttempt(mode, result string)
}

// Engine drives the compiler through the configured modes inside one workspace
type Engine struct {
	cfg      *config.CompilerConfig
	runner   secondary.ProcessRunner
	logger   primary.Logger
	observer AttemptObserver
}

func NewEngine(cfg *config.CompilerConfig, runner secondary.ProcessRunner, logger primary.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		runner: runner,
		logger: logger,
	}
}

// SetObserver attaches a metrics observer
func (e *Engine) SetObserver(o AttemptObserver) {
	e.observer = o
}

// ValidateSource rejects blank or non UTF-8 source before anything is spawned
func ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("source is empty")
	}
	if !utf8.ValidString(source) {
		return errors.New("source is not valid UTF-8")
	}
	return nil
}

// Compile runs source through the configured modes in ws
func (e *Engine) Compile(ctx context.Context, source string, tool *domain.ToolBinary, ws *domain.Workspace) domain.Outcome {
	return e.Run(ctx, tool, &domain.CompilationJob{
		ID:        uuid.New(),
		Source:    source,
		Workspace: ws,
		Modes:     e.cfg.Modes,
		Timeout:   e.cfg.AttemptTimeout,
	})
}

// Run executes a prepared job. Caller cancellation is ignored once started; only the
// per-attempt timeout stops a subprocess.
func (e *Engine) Run(ctx context.Context, tool *domain.ToolBinary, job *domain.CompilationJob) domain.Outcome {
	start := time.Now()
	outcome := e.run(context.WithoutCancel(ctx), tool, job)
	outcome.JobID = job.ID
	outcome.Duration = time.Since(start)
	e.logger.Info("Compilation finished",
		"jobId", job.ID,
		"state", outcome.State,
		"kind", outcome.Kind,
		"mode", outcome.Mode,
		"attempts", outcome.Attempts,
		"duration", outcome.Duration)
	return outcome
}

type attempt struct {
	mode     domain.Mode
	result   domain.RunResult
	spawnErr error
}

func (e *Engine) run(ctx context.Context, tool *domain.ToolBinary, job *domain.CompilationJob) domain.Outcome {
	e.transition(job, domain.JobStatePending)

	if err := ValidateSource(job.Source); err != nil {
		return domain.Failed(domain.ErrorKindInvalidInput, err.Error())
	}
	if tool == nil || tool.Path == "" {
		return domain.Failed(domain.ErrorKindToolNotFound, "no compiler available")
	}
	if job.Workspace == nil || job.Workspace.Path == "" {
		return domain.Failed(domain.ErrorKindWorkspace, "no workspace for job")
	}
	modes := job.Modes
	if len(modes) == 0 {
		modes = config.DefaultModes()
	}

	e.transition(job, domain.JobStateWriting)
	paths := e.pathsFor(job.Workspace)
	if err := os.WriteFile(paths.input, []byte(job.Source), 0o600); err != nil {
		e.logger.Error("Failed to write source", "jobId", job.ID, "path", paths.input, "error", err)
		return domain.Failed(domain.ErrorKindWorkspace, fmt.Sprintf("failed to write source: %v", err))
	}

	env := append(os.Environ(), e.cfg.EnvOverrides...)
	var last *attempt

	for i, mode := range modes {
		e.transition(job, domain.JobStateAttempting, "mode", mode.Name)

		args := make([]string, 0, len(mode.Flags)+3)
		args = append(args, mode.Flags...)
		args = append(args, "-output-directory", job.Workspace.Path, paths.input)

		res, err := e.runner.Run(ctx, domain.RunCommand{
			Path:    tool.Path,
			Args:    args,
			Dir:     job.Workspace.Path,
			Env:     env,
			Timeout: job.Timeout,
		})
		last = &attempt{mode: mode, result: res, spawnErr: err}

		if err != nil {
			e.logger.Warn("Compiler failed to start", "jobId", job.ID, "mode", mode.Name, "error", err)
			e.observe(mode.Name, AttemptSpawnError)
			continue
		}

		if res.TimedOut {
			e.observe(mode.Name, AttemptTimeout)
			out := domain.Failed(domain.ErrorKindTimeout,
				fmt.Sprintf("compiler exceeded %s in %s mode", job.Timeout, mode.Name))
			out.Attempts = i + 1
			out.Mode = mode.Name
			e.attachFailureLog(job.ID, &out, paths, last)
			return out
		}

		artifact, ok := e.readArtifact(job.ID, paths.artifact)
		if !ok {
			e.logger.Debug("No artifact after attempt", "jobId", job.ID, "mode", mode.Name, "exitCode", res.ExitCode)
			e.observe(mode.Name, AttemptNoArtifact)
			continue
		}

		e.observe(mode.Name, AttemptArtifact)
		out := domain.Succeeded(artifact, mode.Name)
		out.Attempts = i + 1
		logText, present := e.readLog(job.ID, paths.log)
		report := diagnostics.ExtractWarnings(logText)
		out.LogPresent = present
		out.Message = report.Message
		out.Warnings = report.Warnings
		out.Errors = diagnostics.ExtractErrors(logText)
		out.Notes = e.notes(res)
		return out
	}

	out := domain.Failed(domain.ErrorKindCompilationFailed,
		fmt.Sprintf("no PDF produced after %d attempt(s)", len(modes)))
	out.Attempts = len(modes)
	if last != nil {
		out.Mode = last.mode.Name
	}
	e.attachFailureLog(job.ID, &out, paths, last)
	if len(out.Errors) == 0 {
		out.Errors = []domain.Diagnostic{placeholderDiagnostic(last)}
	}
	return out
}

type workspacePaths struct {
	input    string
	artifact string
	log      string
}

func (e *Engine) pathsFor(ws *domain.Workspace) workspacePaths {
	name := e.cfg.SourceFile
	if name == "" {
		name = "document.tex"
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return workspacePaths{
		input:    filepath.Join(ws.Path, name),
		artifact: filepath.Join(ws.Path, base+".pdf"),
		log:      filepath.Join(ws.Path, base+".log"),
	}
}

// readArtifact reports whether the compiler left a PDF behind. Exit code is not consulted.
func (e *Engine) readArtifact(jobID uuid.UUID, path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("Artifact unreadable", "jobId", jobID, "path", path, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (e *Engine) readLog(jobID uuid.UUID, path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("Log unreadable", "jobId", jobID, "path", path, "error", err)
		}
		return "", false
	}
	return string(data), true
}

// attachFailureLog fills diagnostics and the raw excerpt, preferring the log file and falling
// back to what the last attempt printed.
func (e *Engine) attachFailureLog(jobID uuid.UUID, out *domain.Outcome, paths workspacePaths, last *attempt) {
	logText, present := e.readLog(jobID, paths.log)
	if !present && last != nil {
		logText = strings.TrimSpace(last.result.Stdout + "\n" + last.result.Stderr)
	}
	out.LogPresent = present
	out.Errors = diagnostics.ExtractErrors(logText)
	out.LogExcerpt = diagnostics.Excerpt(logText, e.excerptChars())
}

func (e *Engine) excerptChars() int {
	if e.cfg.ExcerptChars > 0 {
		return e.cfg.ExcerptChars
	}
	return config.DefaultExcerptChars
}

// notes annotates a successful attempt; none of this changes the outcome
func (e *Engine) notes(res domain.RunResult) []string {
	var notes []string
	if res.ExitCode != 0 {
		notes = append(notes, fmt.Sprintf("compiler exited with code %d but produced a PDF", res.ExitCode))
	}
	stderr := strings.ToLower(res.Stderr)
	for _, pattern := range e.cfg.BenignPatterns {
		if pattern != "" && strings.Contains(stderr, strings.ToLower(pattern)) {
			notes = append(notes, "ignored known benign compiler message: "+pattern)
		}
	}
	return notes
}

func (e *Engine) observe(mode, result string) {
	if e.observer != nil {
		e.observer.IncAttempt(mode, result)
	}
}

func (e *Engine) transition(job *domain.CompilationJob, state domain.JobState, args ...interface{}) {
	e.logger.Debug("Compilation state", append([]interface{}{"jobId", job.ID, "state", state}, args...)...)
}

func placeholderDiagnostic(last *attempt) domain.Diagnostic {
	d := domain.Diagnostic{
		Severity: domain.SeverityError,
		Message:  "compiler produced no PDF and no recognizable error output",
	}
	if last != nil && last.spawnErr != nil {
		d.Message = "compiler could not be started: " + last.spawnErr.Error()
	} else if last != nil {
		d.Context = []string{fmt.Sprintf("exit code %d", last.result.ExitCode)}
	}
	return d
}
