// Package storage defines the contracts the services program against.
// The pg subpackage is the PostgreSQL implementation; services never see SQL.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/domain/query"
)

// DocumentPage is one page of matched documents. Scores is parallel to
// Documents and nil when the query did not track relevance.
type DocumentPage struct {
	Documents []domain.Document
	Scores    []float64
	Total     int64
}

// FacetRow is one raw GROUP BY row, before labeling.
type FacetRow struct {
	Value string
	Count int64
}

// DocumentStore is the Full-Text Index Store surface for documents.
type DocumentStore interface {
	// Search executes a compiled query: match, filter, sort, paginate.
	Search(ctx context.Context, q *query.Compiled) (*DocumentPage, error)

	// Count returns the number of documents matching the expression and
	// predicates, without fetching rows.
	Count(ctx context.Context, match query.Match, preds query.Predicates) (int64, error)

	// FacetCounts groups the filtered set by one field and counts each
	// group. Null field values are skipped.
	FacetCounts(ctx context.Context, match query.Match, preds query.Predicates, field string) ([]FacetRow, error)

	// FindByDocumentID returns the document for an external key, or nil
	// when nothing is indexed under it.
	FindByDocumentID(ctx context.Context, documentID uuid.UUID) (*domain.Document, error)

	// Save inserts or overwrites the document keyed by its DocumentID.
	// The searchable vector is recomputed by the store.
	Save(ctx context.Context, doc *domain.Document) error

	// Delete removes the document for an external key and reports whether
	// a row was removed.
	Delete(ctx context.Context, documentID uuid.UUID) (bool, error)

	// Clear removes every document and returns the count removed.
	Clear(ctx context.Context) (int64, error)

	Stats(ctx context.Context) (*domain.IndexStats, error)

	// Optimize reclaims storage and refreshes planner statistics.
	Optimize(ctx context.Context) error
}
