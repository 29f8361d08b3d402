// Package sources holds the document-source collaborators: per-service HTTP
// clients that fetch upstream records and normalize them into indexing
// requests for the reindex path.
package sources

import (
	"context"

	"github.com/openimpact/search-gateway/internal/dto"
)

// Source fetches every document from one upstream service. A failing source
// must not prevent other sources from being fetched; the orchestrator
// isolates failures per source.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]dto.IndexDocumentRequest, error)
}
