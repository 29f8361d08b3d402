package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/storage"
)

const jobColumns = `id, job_type, status, source_service, documents_processed,
		documents_failed, error_message, started_at, completed_at, created_at`

// JobStore implements storage.JobStore over the index_jobs table.
type JobStore struct {
	db *pgxpool.Pool
}

func NewJobStore(pool *ConnectionPool) *JobStore {
	return &JobStore{db: pool.conn}
}

func (s *JobStore) Create(ctx context.Context, job *domain.IndexJob) error {
	cmd := `
		INSERT INTO index_jobs
			(id, job_type, status, source_service, documents_processed,
			 documents_failed, error_message, started_at, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.Exec(ctx, cmd,
		job.ID,
		job.JobType,
		job.Status,
		job.SourceService,
		job.DocumentsProcessed,
		job.DocumentsFailed,
		job.ErrorMessage,
		job.StartedAt,
		job.CompletedAt,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create index job: %w", err)
	}
	return nil
}

func (s *JobStore) Update(ctx context.Context, job *domain.IndexJob) error {
	cmd := `
		UPDATE index_jobs SET
			status = $2,
			documents_processed = $3,
			documents_failed = $4,
			error_message = $5,
			started_at = $6,
			completed_at = $7
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, cmd,
		job.ID,
		job.Status,
		job.DocumentsProcessed,
		job.DocumentsFailed,
		job.ErrorMessage,
		job.StartedAt,
		job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update index job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("index job %s does not exist", job.ID)
	}
	return nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*domain.IndexJob, error) {
	getSQL := fmt.Sprintf("SELECT %s FROM index_jobs WHERE id = $1", jobColumns)

	var job domain.IndexJob
	err := s.db.QueryRow(ctx, getSQL, id).Scan(jobScanDests(&job)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index job %s: %w", id, err)
	}
	return &job, nil
}

func (s *JobStore) List(ctx context.Context, status *domain.JobStatus, limit int) ([]domain.IndexJob, error) {
	listSQL := fmt.Sprintf("SELECT %s FROM index_jobs", jobColumns)
	var args []any
	if status != nil {
		listSQL += " WHERE status = $1"
		args = append(args, *status)
	}
	listSQL += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list index jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.IndexJob
	for rows.Next() {
		var job domain.IndexJob
		if err := rows.Scan(jobScanDests(&job)...); err != nil {
			return nil, fmt.Errorf("failed to scan index job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func jobScanDests(job *domain.IndexJob) []any {
	return []any{
		&job.ID,
		&job.JobType,
		&job.Status,
		&job.SourceService,
		&job.DocumentsProcessed,
		&job.DocumentsFailed,
		&job.ErrorMessage,
		&job.StartedAt,
		&job.CompletedAt,
		&job.CreatedAt,
	}
}

// Compile-time interface assertion
var _ storage.JobStore = (*JobStore)(nil)
