package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/domain"
)

const (
	PageDefaultSize = 20
	PageMaxSize     = 100
	QueryMaxLength  = 500
)

// SearchRequest is the uniform search input across all document types.
type SearchRequest struct {
	Query           string            `json:"query"`
	DocumentTypes   []string          `json:"document_types,omitempty"`
	Language        string            `json:"language,omitempty"`
	AuthorID        *uuid.UUID        `json:"author_id,omitempty"`
	Status          string            `json:"status,omitempty"`
	DateFrom        string            `json:"date_from,omitempty"`
	DateTo          string            `json:"date_to,omitempty"`
	MetadataFilters map[string]string `json:"metadata_filters,omitempty"`
	Page            int               `json:"page"`
	PageSize        int               `json:"page_size"`
	SortBy          string            `json:"sort_by,omitempty"`
	SortOrder       string            `json:"sort_order,omitempty"`
	Highlight       *bool             `json:"highlight,omitempty"`
}

// Normalize applies defaults and enforces input bounds before compilation.
// Out-of-range pagination and malformed enums are rejected here so they
// never reach the store; an unknown sort mode is not an error, it falls
// back to indexed-time ordering downstream.
func (r *SearchRequest) Normalize() error {
	if r.Query == "" {
		return apperr.NewValidation("query is required")
	}
	if len(r.Query) > QueryMaxLength {
		return apperr.NewValidation("query exceeds maximum length")
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Page < 1 {
		return apperr.NewValidation("page must be >= 1")
	}
	if r.PageSize == 0 {
		r.PageSize = PageDefaultSize
	}
	if r.PageSize < 1 || r.PageSize > PageMaxSize {
		return apperr.NewValidation("page_size must be between 1 and 100")
	}
	for _, dt := range r.DocumentTypes {
		if _, err := domain.ParseDocumentType(dt); err != nil {
			return apperr.NewValidationWrap("invalid document type", err)
		}
	}
	if r.SortOrder != "" && r.SortOrder != "asc" && r.SortOrder != "desc" {
		return apperr.NewValidation("sort_order must be asc or desc")
	}
	return nil
}

// WantsHighlight defaults to true when the flag is omitted.
func (r *SearchRequest) WantsHighlight() bool {
	return r.Highlight == nil || *r.Highlight
}

// SearchResult is one hit: a document projection plus derived snippet,
// optional highlighting and optional relevance score. Never persisted.
type SearchResult struct {
	ID                 uuid.UUID           `json:"id"`
	DocumentID         uuid.UUID           `json:"document_id"`
	DocumentType       domain.DocumentType `json:"document_type"`
	Title              string              `json:"title"`
	ContentSnippet     string              `json:"content_snippet"`
	Language           string              `json:"language"`
	Metadata           map[string]any      `json:"metadata"`
	AuthorName         *string             `json:"author_name,omitempty"`
	PublishedAt        *time.Time          `json:"published_at,omitempty"`
	HighlightedTitle   string              `json:"highlighted_title,omitempty"`
	HighlightedContent string              `json:"highlighted_content,omitempty"`
	Score              *float64            `json:"score,omitempty"`
}

type SearchResponse struct {
	Query           string         `json:"query"`
	Results         []SearchResult `json:"results"`
	TotalCount      int64          `json:"total_count"`
	Page            int            `json:"page"`
	PageSize        int            `json:"page_size"`
	TotalPages      int64          `json:"total_pages"`
	ExecutionTimeMs float64        `json:"execution_time"`
}
