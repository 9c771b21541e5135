package domain

import (
	"time"

	"github.com/google/uuid"
)

// ErrorKind classifies a failed compilation outcome
type ErrorKind string

const (
	ErrorKindNone              ErrorKind = ""
	ErrorKindInvalidInput      ErrorKind = "INVALID_INPUT"
	ErrorKindToolNotFound      ErrorKind = "TOOL_NOT_FOUND"
	ErrorKindTimeout           ErrorKind = "TIMEOUT"
	ErrorKindCompilationFailed ErrorKind = "COMPILATION_FAILED"
	ErrorKindWorkspace         ErrorKind = "WORKSPACE_ERROR"
	ErrorKindAPI               ErrorKind = "API_ERROR"
)

// Severity of a diagnostic entry
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// JobState tracks where a compilation job is in its lifecycle
type JobState string

const (
	JobStatePending    JobState = "PENDING"
	JobStateWriting    JobState = "WRITING"
	JobStateAttempting JobState = "ATTEMPTING"
	JobStateSuccess    JobState = "SUCCESS"
	JobStateFailed     JobState = "FAILED"
)

// ToolBinary is a validated compiler executable, shared read-only by all jobs
type ToolBinary struct {
	Path        string `json:"path"`
	Version     string `json:"version"`
	ProbeOutput string `json:"-"`
}

// Workspace is a job-scoped temporary directory
type Workspace struct {
	Path      string
	CreatedAt time.Time
}

// Mode is one invocation variant of the compiler
type Mode struct {
	Name  string
	Flags []string
}

// CompilationJob is the unit of work handed to the engine
type CompilationJob struct {
	ID        uuid.UUID
	Source    string
	Workspace *Workspace
	Modes     []Mode
	Timeout   time.Duration
}

// Diagnostic is a single error or warning extracted from the compiler log
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Context  []string `json:"context,omitempty"`
}

// WarningReport is the bounded list of warnings found in a log
type WarningReport struct {
	Warnings []string `json:"warnings"`
	Message  string   `json:"message"`
}

// Outcome is the typed result of a compilation job
type Outcome struct {
	JobID      uuid.UUID
	Success    bool
	Artifact   []byte
	Message    string
	Kind       ErrorKind
	Detail     string
	Errors     []Diagnostic
	Warnings   []string
	LogPresent bool
	LogExcerpt string
	Mode       string
	Attempts   int
	Notes      []string
	State      JobState
	Duration   time.Duration
}

// Succeeded builds a successful outcome
func Succeeded(artifact []byte, mode string) Outcome {
	return Outcome{
		Success:  true,
		Artifact: artifact,
		Mode:     mode,
		State:    JobStateSuccess,
	}
}

// Failed builds a failed outcome of the given kind
func Failed(kind ErrorKind, detail string) Outcome {
	return Outcome{
		Kind:   kind,
		Detail: detail,
		State:  JobStateFailed,
	}
}

// RunCommand describes a single subprocess invocation
type RunCommand struct {
	Path    string
	Args    []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// RunResult is what a finished (or killed) subprocess left behind
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
}

// ModelInfo describes a text generation model offered by the provider
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
}
