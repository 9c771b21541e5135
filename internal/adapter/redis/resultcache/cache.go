package resultcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/docforge.net/internal/core/ports/primary"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
)

var _ secondary.ResultCache = (*ArtifactCache)(nil)

const (
	artifactKeyPrefix  = "docforge:artifact:"
	defaultArtifactTTL = 15 * time.Minute
)

// ArtifactCache implements secondary.ResultCache with Redis
type ArtifactCache struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewArtifactCache creates a new Redis artifact cache
func NewArtifactCache(redisClient *redis.Client, logger primary.Logger) *ArtifactCache {
	return &ArtifactCache{
		redisClient: redisClient,
		logger:      logger,
	}
}

func artifactKey(jobID uuid.UUID) string {
	return artifactKeyPrefix + jobID.String()
}

// SaveArtifact stores the PDF bytes of a job with an expiry
func (c *ArtifactCache) SaveArtifact(ctx context.Context, jobID uuid.UUID, artifact []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultArtifactTTL
	}
	if err := c.redisClient.Set(ctx, artifactKey(jobID), artifact, ttl).Err(); err != nil {
		c.logger.Error("Failed to cache artifact", "jobId", jobID, "error", err)
		return fmt.Errorf("failed to cache artifact: %w", err)
	}
	return nil
}

// GetArtifact retrieves the PDF bytes of a job, nil when expired or unknown
func (c *ArtifactCache) GetArtifact(ctx context.Context, jobID uuid.UUID) ([]byte, error) {
	data, err := c.redisClient.Get(ctx, artifactKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.Error("Failed to read cached artifact", "jobId", jobID, "error", err)
		return nil, fmt.Errorf("failed to read cached artifact: %w", err)
	}
	return data, nil
}

// Ping checks connectivity at startup
func (c *ArtifactCache) Ping(ctx context.Context) error {
	return c.redisClient.Ping(ctx).Err()
}
