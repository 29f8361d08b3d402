package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/domain"
)

// IndexDocumentRequest is the canonical input for creating or overwriting
// one indexed document. Shared by single-document indexing, bulk indexing
// and the reindex fetch path.
type IndexDocumentRequest struct {
	DocumentID   uuid.UUID      `json:"document_id"`
	DocumentType string         `json:"document_type"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Language     string         `json:"language,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	AuthorID     *uuid.UUID     `json:"author_id,omitempty"`
	AuthorName   *string        `json:"author_name,omitempty"`
	Status       *string        `json:"status,omitempty"`
	PublishedAt  string         `json:"published_at,omitempty"`
}

func (r *IndexDocumentRequest) Normalize() error {
	if r.DocumentID == uuid.Nil {
		return apperr.NewValidation("document_id is required")
	}
	if _, err := domain.ParseDocumentType(r.DocumentType); err != nil {
		return apperr.NewValidationWrap("invalid document type", err)
	}
	if r.Title == "" {
		return apperr.NewValidation("title is required")
	}
	if r.Language == "" {
		r.Language = domain.DefaultLanguage
	}
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	return nil
}

type BulkIndexRequest struct {
	Documents     []IndexDocumentRequest `json:"documents"`
	SourceService string                 `json:"source_service,omitempty"`
}

func (r *BulkIndexRequest) Normalize() error {
	if len(r.Documents) == 0 {
		return apperr.NewValidation("documents must not be empty")
	}
	return nil
}

type IndexResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	IndexedID *uuid.UUID `json:"indexed_id,omitempty"`
}

type BulkIndexResponse struct {
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
	JobID           uuid.UUID `json:"job_id"`
	DocumentsQueued int       `json:"documents_queued"`
}

type IndexJobResponse struct {
	ID                 uuid.UUID        `json:"id"`
	JobType            domain.JobType   `json:"job_type"`
	Status             domain.JobStatus `json:"status"`
	SourceService      *string          `json:"source_service,omitempty"`
	DocumentsProcessed int              `json:"documents_processed"`
	DocumentsFailed    int              `json:"documents_failed"`
	ErrorMessage       *string          `json:"error_message,omitempty"`
	StartedAt          *time.Time       `json:"started_at,omitempty"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

func NewIndexJobResponse(job *domain.IndexJob) IndexJobResponse {
	return IndexJobResponse{
		ID:                 job.ID,
		JobType:            job.JobType,
		Status:             job.Status,
		SourceService:      job.SourceService,
		DocumentsProcessed: job.DocumentsProcessed,
		DocumentsFailed:    job.DocumentsFailed,
		ErrorMessage:       job.ErrorMessage,
		StartedAt:          job.StartedAt,
		CompletedAt:        job.CompletedAt,
		CreatedAt:          job.CreatedAt,
	}
}
