package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobSource tells which front door submitted a job
type JobSource string

const (
	JobSourceCompile  JobSource = "COMPILE"
	JobSourceGenerate JobSource = "GENERATE"
	JobSourceCLI      JobSource = "CLI"
)

// JobRecord is the persisted history entry of a compilation job
type JobRecord struct {
	ID          uuid.UUID `db:"id" json:"jobId"`
	Source      JobSource `db:"source" json:"source"`
	Status      JobState  `db:"status" json:"status"`
	ErrorKind   ErrorKind `db:"error_kind" json:"errorKind,omitempty"`
	Mode        string    `db:"mode" json:"mode,omitempty"`
	Attempts    int       `db:"attempts" json:"attempts"`
	SourceBytes int       `db:"source_bytes" json:"sourceBytes"`
	ErrorCount  int       `db:"error_count" json:"errorCount"`
	DurationMs  int64     `db:"duration_ms" json:"durationMs"`
	Diagnostics []byte    `db:"diagnostics" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	CompletedAt time.Time `db:"completed_at" json:"completedAt"`
}

type JobTable struct {
	ID          string
	Source      string
	Status      string
	ErrorKind   string
	Mode        string
	Attempts    string
	SourceBytes string
	ErrorCount  string
	DurationMs  string
	Diagnostics string
	CreatedAt   string
	CompletedAt string
}

func GetJobTable() JobTable {
	return JobTable{
		ID:          "id",
		Source:      "source",
		Status:      "status",
		ErrorKind:   "error_kind",
		Mode:        "mode",
		Attempts:    "attempts",
		SourceBytes: "source_bytes",
		ErrorCount:  "error_count",
		DurationMs:  "duration_ms",
		Diagnostics: "diagnostics",
		CreatedAt:   "created_at",
		CompletedAt: "completed_at",
	}
}

func (JobTable) TableName() string {
	return "compile_jobs"
}

// NewJobRecord summarises an outcome for the history store
func NewJobRecord(source JobSource, sourceBytes int, startedAt time.Time, outcome Outcome) *JobRecord {
	return &JobRecord{
		ID:          outcome.JobID,
		Source:      source,
		Status:      outcome.State,
		ErrorKind:   outcome.Kind,
		Mode:        outcome.Mode,
		Attempts:    outcome.Attempts,
		SourceBytes: sourceBytes,
		ErrorCount:  len(outcome.Errors),
		DurationMs:  outcome.Duration.Milliseconds(),
		CreatedAt:   startedAt,
		CompletedAt: startedAt.Add(outcome.Duration),
	}
}

// GenerationOutcome couples generated source with the result of compiling it
type GenerationOutcome struct {
	Prompt  string
	Source  string
	Outcome Outcome
}
