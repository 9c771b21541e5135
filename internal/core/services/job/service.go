package job

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/docforge.net/internal/domain"
)

// IJobService keeps the record of finished compile jobs and their artifacts
type IJobService interface {
	// RecordOutcome stores the history entry and, on success, the artifact. Best effort.
	RecordOutcome(ctx context.Context, source domain.JobSource, sourceBytes int, startedAt time.Time, outcome domain.Outcome)

	// GetJob retrieves a job record by ID
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.JobRecord, error)

	// GetRecentJobs lists the latest job records, newest first
	GetRecentJobs(ctx context.Context, limit int) ([]*domain.JobRecord, error)

	// GetArtifact retrieves the cached PDF of a job
	GetArtifact(ctx context.Context, jobID uuid.UUID) ([]byte, error)

	// PruneHistory removes records completed before cutoff
	PruneHistory(ctx context.Context, cutoff time.Time) (int64, error)
}
