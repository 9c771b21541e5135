package secondary

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResultCache keeps produced artifacts around for a short while so clients can fetch them by job ID
type ResultCache interface {
	// SaveArtifact stores the artifact bytes of a job
	SaveArtifact(ctx context.Context, jobID uuid.UUID, artifact []byte, ttl time.Duration) error

	// GetArtifact retrieves the artifact bytes of a job, nil when expired or unknown
	GetArtifact(ctx context.Context, jobID uuid.UUID) ([]byte, error)
}
