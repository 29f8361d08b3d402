package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
)

// JobStore persists index job records. Concurrent readers of a job mutated
// by an in-flight run see eventually-consistent snapshots.
type JobStore interface {
	Create(ctx context.Context, job *domain.IndexJob) error

	// Update persists the mutable job fields (status, counters, messages,
	// timestamps) for an existing job.
	Update(ctx context.Context, job *domain.IndexJob) error

	// Get returns the job by id, or nil when it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.IndexJob, error)

	// List returns jobs newest first, optionally filtered by status.
	List(ctx context.Context, status *domain.JobStatus, limit int) ([]domain.IndexJob, error)
}
