package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/domain/query"
	"github.com/openimpact/search-gateway/internal/storage"
	"github.com/openimpact/search-gateway/pkg/utils"
)

const scoreDecimalPlaces = 4

const documentColumns = `id, document_id, document_type, title, content, language, metadata,
		author_id, author_name, status, published_at, indexed_at, updated_at`

// DocumentStore implements storage.DocumentStore over the search_documents
// table. The search_vector column is maintained by a trigger from
// title/content/author_name/language; nothing here ever writes it.
type DocumentStore struct {
	db *pgxpool.Pool
}

func NewDocumentStore(pool *ConnectionPool) *DocumentStore {
	return &DocumentStore{db: pool.conn}
}

// Search executes a compiled query: tsquery match, predicate filtering,
// ordering and offset pagination, plus a total count over the same base set.
func (s *DocumentStore) Search(ctx context.Context, q *query.Compiled) (*storage.DocumentPage, error) {
	b := &whereBuilder{}
	buildMatchClause(b, q.Match)
	buildPredicateClauses(b, q.Predicates)
	where := b.where()

	slog.Debug("Executing document search",
		"tsquery", q.Match.TSQuery,
		"match_all", q.Match.MatchAll,
		"clauses", len(b.clauses))

	var total int64
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM search_documents %s", where)
	if err := s.db.QueryRow(ctx, countSQL, b.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	wantScore := q.WantsScore()
	rankExpr := ""
	if wantScore {
		// the match clause bound the tsquery as the first argument
		rankExpr = rankExpression(q.Match, 1)
	}

	selectCols := documentColumns
	if wantScore {
		selectCols += ",\n\t\t" + rankExpr + " AS rank"
	}

	args := b.args
	searchSQL := fmt.Sprintf(`
		SELECT %s
		FROM search_documents
		%s
		%s
		OFFSET $%d LIMIT $%d
	`, selectCols, where, buildOrderBy(q.Sort, rankExpr), len(args)+1, len(args)+2)
	args = append(args, q.Offset, q.Limit)

	rows, err := s.db.Query(ctx, searchSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	page := &storage.DocumentPage{Total: total}
	if wantScore {
		page.Scores = []float64{}
	}
	for rows.Next() {
		var (
			doc      domain.Document
			rawScore float64
		)
		dests := documentScanDests(&doc)
		if wantScore {
			dests = append(dests, &rawScore)
		}
		metadataJSON := dests[6].(*[]byte)
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := unmarshalMetadata(*metadataJSON, &doc); err != nil {
			return nil, err
		}
		page.Documents = append(page.Documents, doc)
		if wantScore {
			page.Scores = append(page.Scores, utils.RoundDecimal(rawScore, scoreDecimalPlaces))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search rows: %w", err)
	}

	return page, nil
}

// Count returns the size of the filtered match set without fetching rows.
func (s *DocumentStore) Count(ctx context.Context, match query.Match, preds query.Predicates) (int64, error) {
	b := &whereBuilder{}
	buildMatchClause(b, match)
	buildPredicateClauses(b, preds)

	var total int64
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM search_documents %s", b.where())
	if err := s.db.QueryRow(ctx, countSQL, b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return total, nil
}

// FacetCounts groups the filtered match set by one whitelisted column.
func (s *DocumentStore) FacetCounts(ctx context.Context, match query.Match, preds query.Predicates, field string) ([]storage.FacetRow, error) {
	column, ok := facetColumns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported facet field: %s", field)
	}

	b := &whereBuilder{}
	buildMatchClause(b, match)
	buildPredicateClauses(b, preds)
	b.clauses = append(b.clauses, column+" IS NOT NULL")

	facetSQL := fmt.Sprintf(`
		SELECT %s::text, COUNT(*)
		FROM search_documents
		%s
		GROUP BY %s
	`, column, b.where(), column)

	rows, err := s.db.Query(ctx, facetSQL, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute facet query: %w", err)
	}
	defer rows.Close()

	var facets []storage.FacetRow
	for rows.Next() {
		var row storage.FacetRow
		if err := rows.Scan(&row.Value, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan facet row: %w", err)
		}
		facets = append(facets, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating facet rows: %w", err)
	}
	return facets, nil
}

func (s *DocumentStore) FindByDocumentID(ctx context.Context, documentID uuid.UUID) (*domain.Document, error) {
	findSQL := fmt.Sprintf("SELECT %s FROM search_documents WHERE document_id = $1", documentColumns)

	var doc domain.Document
	dests := documentScanDests(&doc)
	metadataJSON := dests[6].(*[]byte)

	err := s.db.QueryRow(ctx, findSQL, documentID).Scan(dests...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", documentID, err)
	}
	if err := unmarshalMetadata(*metadataJSON, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save upserts by document_id; the trigger recomputes search_vector on
// every insert and update.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	cmd := `
		INSERT INTO search_documents
			(id, document_id, document_type, title, content, language, metadata,
			 author_id, author_name, status, published_at, indexed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (document_id) DO UPDATE SET
			document_type = EXCLUDED.document_type,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			language = EXCLUDED.language,
			metadata = EXCLUDED.metadata,
			author_id = EXCLUDED.author_id,
			author_name = EXCLUDED.author_name,
			status = EXCLUDED.status,
			published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.Exec(ctx, cmd,
		doc.ID,
		doc.DocumentID,
		doc.DocumentType,
		doc.Title,
		doc.Content,
		doc.Language,
		metadataJSON,
		doc.AuthorID,
		doc.AuthorName,
		doc.Status,
		doc.PublishedAt,
		doc.IndexedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, documentID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM search_documents WHERE document_id = $1", documentID)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *DocumentStore) Clear(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM search_documents")
	if err != nil {
		return 0, fmt.Errorf("failed to clear index: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Optimize runs VACUUM ANALYZE on the search tables. VACUUM cannot run
// inside a transaction, so each statement goes out on its own.
func (s *DocumentStore) Optimize(ctx context.Context) error {
	for _, table := range []string{"search_documents", "search_suggestions", "search_queries"} {
		if _, err := s.db.Exec(ctx, "VACUUM ANALYZE "+table); err != nil {
			return fmt.Errorf("failed to vacuum %s: %w", table, err)
		}
	}
	return nil
}

func (s *DocumentStore) Stats(ctx context.Context) (*domain.IndexStats, error) {
	stats := &domain.IndexStats{
		ByType:     map[string]int64{},
		ByLanguage: map[string]int64{},
	}

	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM search_documents").Scan(&stats.TotalDocuments); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	if err := s.groupCounts(ctx, "document_type", stats.ByType); err != nil {
		return nil, err
	}
	if err := s.groupCounts(ctx, "language", stats.ByLanguage); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *DocumentStore) groupCounts(ctx context.Context, column string, into map[string]int64) error {
	rows, err := s.db.Query(ctx, fmt.Sprintf(
		"SELECT %s::text, COUNT(*) FROM search_documents GROUP BY %s", column, column))
	if err != nil {
		return fmt.Errorf("failed to group by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			value string
			count int64
		)
		if err := rows.Scan(&value, &count); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		into[value] = count
	}
	return rows.Err()
}

// documentScanDests builds the scan destinations matching documentColumns;
// metadata lands in a raw byte slice at index 6 for later unmarshaling.
func documentScanDests(doc *domain.Document) []any {
	metadataJSON := new([]byte)
	return []any{
		&doc.ID,
		&doc.DocumentID,
		&doc.DocumentType,
		&doc.Title,
		&doc.Content,
		&doc.Language,
		metadataJSON,
		&doc.AuthorID,
		&doc.AuthorName,
		&doc.Status,
		&doc.PublishedAt,
		&doc.IndexedAt,
		&doc.UpdatedAt,
	}
}

func unmarshalMetadata(raw []byte, doc *domain.Document) error {
	if len(raw) == 0 {
		doc.Metadata = map[string]any{}
		return nil
	}
	if err := json.Unmarshal(raw, &doc.Metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return nil
}

// Compile-time interface assertion
var _ storage.DocumentStore = (*DocumentStore)(nil)
