// Package jobrepository persists compile job history in PostgreSQL
package jobrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
	"gitlab.com/docforge.net/internal/domain"
	querybuilder "gitlab.com/docforge.net/internal/utils"
)

var _ secondary.JobRepository = (*JobRepository)(nil)

const createTable = `
CREATE TABLE IF NOT EXISTS %s.compile_jobs (
	id           UUID PRIMARY KEY,
	source       TEXT        NOT NULL,
	status       TEXT        NOT NULL,
	error_kind   TEXT        NOT NULL DEFAULT '',
	mode         TEXT        NOT NULL DEFAULT '',
	attempts     INTEGER     NOT NULL DEFAULT 0,
	source_bytes INTEGER     NOT NULL DEFAULT 0,
	error_count  INTEGER     NOT NULL DEFAULT 0,
	duration_ms  BIGINT      NOT NULL DEFAULT 0,
	diagnostics  JSONB,
	created_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS compile_jobs_completed_at_idx ON %s.compile_jobs (completed_at);`

// JobRepository implements secondary.JobRepository with PostgreSQL
type JobRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

// NewJobRepository creates a new PostgreSQL job repository
func NewJobRepository(db *sqlx.DB, schema string, logger primary.Logger) *JobRepository {
	if schema == "" {
		schema = "public"
	}
	return &JobRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

// EnsureSchema creates the history table when missing
func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(createTable, r.schema, r.schema)); err != nil {
		r.logger.Error("Failed to create job history table", "error", err)
		return fmt.Errorf("failed to create job history table: %w", err)
	}
	return nil
}

// SaveJob upserts a job record
func (r *JobRepository) SaveJob(ctx context.Context, job *domain.JobRecord) error {
	query, args, err := saveQuery(r.schema, job)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("Failed to save job", "jobId", job.ID, "error", err)
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// GetJob retrieves a job record by ID, nil when unknown
func (r *JobRepository) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.JobRecord, error) {
	query, args, err := selectQuery(r.schema).Where("id = ?", jobID).Build()
	if err != nil {
		return nil, err
	}

	var job domain.JobRecord
	if err := r.db.GetContext(ctx, &job, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get job", "jobId", jobID, "error", err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// GetRecentJobs retrieves the latest job records, newest first
func (r *JobRepository) GetRecentJobs(ctx context.Context, limit int) ([]*domain.JobRecord, error) {
	query, args, err := selectQuery(r.schema).
		OrderBy(domain.GetJobTable().CreatedAt, false).
		Limit(limit).
		Build()
	if err != nil {
		return nil, err
	}

	jobs := make([]*domain.JobRecord, 0, limit)
	if err := r.db.SelectContext(ctx, &jobs, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("Failed to list jobs", "error", err)
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// DeleteJobsBefore prunes records completed before cutoff
func (r *JobRepository) DeleteJobsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tbl := domain.GetJobTable()
	query, args, err := querybuilder.NewQueryBuilder(r.schema).
		Delete(tbl.TableName()).
		Where(tbl.CompletedAt+" < ?", cutoff).
		Build()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		r.logger.Error("Failed to prune jobs", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune jobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned jobs: %w", err)
	}
	return n, nil
}

func columns() []string {
	tbl := domain.GetJobTable()
	return []string{
		tbl.ID,
		tbl.Source,
		tbl.Status,
		tbl.ErrorKind,
		tbl.Mode,
		tbl.Attempts,
		tbl.SourceBytes,
		tbl.ErrorCount,
		tbl.DurationMs,
		tbl.Diagnostics,
		tbl.CreatedAt,
		tbl.CompletedAt,
	}
}

func selectQuery(schema string) querybuilder.QueryBuilder {
	return querybuilder.NewQueryBuilder(schema).
		Select(columns()...).
		From(domain.GetJobTable().TableName())
}

func saveQuery(schema string, job *domain.JobRecord) (string, []interface{}, error) {
	tbl := domain.GetJobTable()
	cols := columns()

	// an empty slice is not valid JSON; store NULL instead. Text, so pq never sends bytea.
	var diagnostics interface{}
	if len(job.Diagnostics) > 0 {
		diagnostics = string(job.Diagnostics)
	}

	return querybuilder.NewQueryBuilder(schema).
		Insert(cols...).
		Into(tbl.TableName()).
		Values(
			job.ID,
			job.Source,
			job.Status,
			job.ErrorKind,
			job.Mode,
			job.Attempts,
			job.SourceBytes,
			job.ErrorCount,
			job.DurationMs,
			diagnostics,
			job.CreatedAt,
			job.CompletedAt,
		).
		OnConflict(tbl.ID).
		SetExclude(cols[2:]...).
		Build()
}
