package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
	"gitlab.com/docforge.net/internal/core/services/diagnostics"
	"gitlab.com/docforge.net/internal/domain"
	"gitlab.com/docforge.net/internal/static/errs"
)

var _ IJobService = (*JobService)(nil)

const (
	recordTimeout     = 5 * time.Second
	maxRecentJobs     = 100
	defaultRecentJobs = 20
)

// JobService implements IJobService. Either backend may be nil, which disables that half.
type JobService struct {
	jobRepo     secondary.JobRepository
	resultCache secondary.ResultCache
	artifactTTL time.Duration
	logger      primary.Logger
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo secondary.JobRepository,
	resultCache secondary.ResultCache,
	artifactTTL time.Duration,
	logger primary.Logger,
) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		resultCache: resultCache,
		artifactTTL: artifactTTL,
		logger:      logger,
	}
}

// RecordOutcome stores what a finished job produced. Failures are logged, never returned.
func (s *JobService) RecordOutcome(ctx context.Context, source domain.JobSource, sourceBytes int, startedAt time.Time, outcome domain.Outcome) {
	if outcome.JobID == uuid.Nil {
		return
	}
	// the request may already be gone; the record should still land
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if s.resultCache != nil && outcome.Success && len(outcome.Artifact) > 0 {
		if err := s.resultCache.SaveArtifact(ctx, outcome.JobID, outcome.Artifact, s.artifactTTL); err != nil {
			s.logger.Warn("Artifact not cached", "jobId", outcome.JobID, "error", err)
		}
	}

	if s.jobRepo == nil {
		return
	}
	record := domain.NewJobRecord(source, sourceBytes, startedAt, outcome)
	diags := append(append([]domain.Diagnostic{}, outcome.Errors...),
		diagnostics.AsDiagnostics(domain.WarningReport{Warnings: outcome.Warnings})...)
	if len(diags) > 0 {
		raw, err := json.Marshal(diags)
		if err != nil {
			s.logger.Warn("Diagnostics not serialisable", "jobId", outcome.JobID, "error", err)
		} else {
			record.Diagnostics = raw
		}
	}
	if err := s.jobRepo.SaveJob(ctx, record); err != nil {
		s.logger.Warn("Job history not saved", "jobId", outcome.JobID, "error", err)
		return
	}
	s.logger.Debug("Job recorded", "jobId", outcome.JobID, "status", record.Status)
}

// GetJob retrieves a job by ID
func (s *JobService) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.JobRecord, error) {
	s.logger.Debug("Getting job", "jobId", jobID)
	if s.jobRepo == nil {
		return nil, errs.ErrNotFound
	}

	job, err := s.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		s.logger.Error("Failed to get job", "jobId", jobID, "error", err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, errs.ErrNotFound
	}
	return job, nil
}

// GetRecentJobs lists the newest jobs; limit is clamped to [1, 100]
func (s *JobService) GetRecentJobs(ctx context.Context, limit int) ([]*domain.JobRecord, error) {
	if s.jobRepo == nil {
		return []*domain.JobRecord{}, nil
	}
	if limit <= 0 {
		limit = defaultRecentJobs
	}
	limit = min(limit, maxRecentJobs)

	jobs, err := s.jobRepo.GetRecentJobs(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list jobs", "error", err)
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// GetArtifact retrieves the cached PDF of a job
func (s *JobService) GetArtifact(ctx context.Context, jobID uuid.UUID) ([]byte, error) {
	if s.resultCache == nil {
		return nil, errs.ErrNotFound
	}
	data, err := s.resultCache.GetArtifact(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	if data == nil {
		return nil, errs.ErrNotFound
	}
	return data, nil
}

// PruneHistory removes records completed before cutoff
func (s *JobService) PruneHistory(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.jobRepo == nil {
		return 0, nil
	}
	n, err := s.jobRepo.DeleteJobsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	if n > 0 {
		s.logger.Info("Pruned job history", "removed", n, "cutoff", cutoff)
	}
	return n, nil
}
