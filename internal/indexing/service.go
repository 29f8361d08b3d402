// Package indexing orchestrates the write path: document upserts, bulk
// ingestion under a job record, and full reindex runs over the document
// sources.
package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/search"
	"github.com/openimpact/search-gateway/internal/sources"
	"github.com/openimpact/search-gateway/internal/storage"
)

type Service struct {
	docs    storage.DocumentStore
	jobs    storage.JobStore
	sources []sources.Source
}

func NewService(docs storage.DocumentStore, jobs storage.JobStore, srcs []sources.Source) *Service {
	return &Service{docs: docs, jobs: jobs, sources: srcs}
}

// IndexDocument is the single canonical write path: an existing record for
// the document id is overwritten field by field, an absent one is created
// with a fresh identity. The store recomputes the search vector either way.
func (s *Service) IndexDocument(ctx context.Context, req *dto.IndexDocumentRequest) (*domain.Document, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var publishedAt *time.Time
	if t, ok := search.ParseDateBound(req.PublishedAt); ok {
		publishedAt = &t
	}

	existing, err := s.docs.FindByDocumentID(ctx, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up document %s: %w", req.DocumentID, err)
	}

	doc := &domain.Document{
		ID:           uuid.New(),
		DocumentID:   req.DocumentID,
		DocumentType: domain.DocumentType(req.DocumentType),
		Title:        req.Title,
		Content:      req.Content,
		Language:     req.Language,
		Metadata:     req.Metadata,
		AuthorID:     req.AuthorID,
		AuthorName:   req.AuthorName,
		Status:       req.Status,
		PublishedAt:  publishedAt,
		IndexedAt:    now,
		UpdatedAt:    now,
	}
	if existing != nil {
		doc.ID = existing.ID
		doc.IndexedAt = existing.IndexedAt
	}

	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document %s: %w", req.DocumentID, err)
	}
	return doc, nil
}

// BulkIndex runs a batch under a job created directly in the running state.
// A failing document is counted and logged but never aborts the batch; the
// job finishes completed only when every document went through.
func (s *Service) BulkIndex(ctx context.Context, documents []dto.IndexDocumentRequest, sourceService string) (*domain.IndexJob, error) {
	job := newJob(domain.JobTypeBulk, sourceService)
	now := time.Now().UTC()
	job.Status = domain.JobStatusRunning
	job.StartedAt = &now

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create bulk index job: %w", err)
	}

	processed, failed := s.indexBatch(ctx, documents)

	if err := job.Finish(processed, failed, "", time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to finalize bulk index job: %w", err)
	}

	slog.Info("Bulk index finished",
		"job_id", job.ID,
		"processed", processed,
		"failed", failed,
		"status", job.Status)
	return job, nil
}

// UpdateDocument overwrites an already indexed document. Returns a not-found
// error when nothing is indexed under the document id; it never creates.
func (s *Service) UpdateDocument(ctx context.Context, documentID uuid.UUID, req *dto.IndexDocumentRequest) (*domain.Document, error) {
	existing, err := s.docs.FindByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up document %s: %w", documentID, err)
	}
	if existing == nil {
		return nil, apperr.NewNotFound(fmt.Sprintf("document %s is not indexed", documentID))
	}
	req.DocumentID = documentID
	return s.IndexDocument(ctx, req)
}

// DeleteDocument removes one document by its external key and reports
// whether a row was removed.
func (s *Service) DeleteDocument(ctx context.Context, documentID uuid.UUID) (bool, error) {
	removed, err := s.docs.Delete(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	return removed, nil
}

// ReindexAll creates the pending job record. The fetch-and-index phase is
// decoupled: RunReindex drives the same job through its remaining states, so
// a failed fetch never invalidates the job record itself.
func (s *Service) ReindexAll(ctx context.Context, sourceService string) (*domain.IndexJob, error) {
	job := newJob(domain.JobTypeFullReindex, sourceService)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create reindex job: %w", err)
	}
	return job, nil
}

// RunReindex executes a pending reindex job: fetch every document from every
// source, resubmit them through the canonical indexing path, and settle the
// job. A source whose fetch fails is recorded and skipped; the other sources
// still contribute.
func (s *Service) RunReindex(ctx context.Context, jobID uuid.UUID) (*domain.IndexJob, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	if job == nil {
		return nil, apperr.NewNotFound(fmt.Sprintf("job %s does not exist", jobID))
	}
	if err := job.Start(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to mark job running: %w", err)
	}

	var (
		processed, failed int
		sourceErrs        []string
	)
	for _, src := range s.sources {
		documents, err := src.FetchAll(ctx)
		if err != nil {
			slog.Error("Source fetch failed", "source", src.Name(), "error", err)
			sourceErrs = append(sourceErrs, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		p, f := s.indexBatch(ctx, documents)
		processed += p
		failed += f
	}
	if len(sourceErrs) > 0 {
		// a source that could not be fetched counts as a failure so the
		// terminal status reflects the incomplete run
		failed += len(sourceErrs)
	}

	if err := job.Finish(processed, failed, strings.Join(sourceErrs, "; "), time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to finalize reindex job: %w", err)
	}

	slog.Info("Reindex finished",
		"job_id", job.ID,
		"processed", processed,
		"failed", failed,
		"status", job.Status)
	return job, nil
}

// ClearIndex removes every indexed document. Irreversible.
func (s *Service) ClearIndex(ctx context.Context) (int64, error) {
	removed, err := s.docs.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear index: %w", err)
	}
	slog.Info("Index cleared", "documents_deleted", removed)
	return removed, nil
}

// OptimizeIndex reclaims storage and refreshes statistics on the search
// tables.
func (s *Service) OptimizeIndex(ctx context.Context) error {
	if err := s.docs.Optimize(ctx); err != nil {
		return fmt.Errorf("failed to optimize index: %w", err)
	}
	slog.Info("Index optimization completed")
	return nil
}

func (s *Service) GetIndexStats(ctx context.Context) (*domain.IndexStats, error) {
	return s.docs.Stats(ctx)
}

func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*domain.IndexJob, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.NewNotFound(fmt.Sprintf("job %s does not exist", id))
	}
	return job, nil
}

func (s *Service) ListJobs(ctx context.Context, status *domain.JobStatus, limit int) ([]domain.IndexJob, error) {
	return s.jobs.List(ctx, status, limit)
}

// indexBatch indexes documents strictly in sequence, isolating per-document
// failures.
func (s *Service) indexBatch(ctx context.Context, documents []dto.IndexDocumentRequest) (processed, failed int) {
	for i := range documents {
		if _, err := s.IndexDocument(ctx, &documents[i]); err != nil {
			failed++
			slog.Error("Failed to index document",
				"document_id", documents[i].DocumentID,
				"error", err)
			continue
		}
		processed++
	}
	return processed, failed
}

func newJob(jobType domain.JobType, sourceService string) *domain.IndexJob {
	job := &domain.IndexJob{
		ID:        uuid.New(),
		JobType:   jobType,
		Status:    domain.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if sourceService != "" {
		job.SourceService = &sourceService
	}
	return job
}
