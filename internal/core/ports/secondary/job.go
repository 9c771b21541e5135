package secondary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/docforge.net/internal/domain"
)

type JobRepository interface {
	// SaveJob saves a finished job record
	SaveJob(ctx context.Context, job *domain.JobRecord) error

	// GetJob retrieves a job record by ID, nil when unknown
	GetJob(ctx context.Context, jobID uuid.UUID) (*domain.JobRecord, error)

	// GetRecentJobs retrieves the latest job records, newest first
	GetRecentJobs(ctx context.Context, limit int) ([]*domain.JobRecord, error)

	// DeleteJobsBefore prunes records completed before cutoff and reports how many went
	DeleteJobsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
