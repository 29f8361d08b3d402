package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openimpact/search-gateway/internal/storage"
)

// SuggestionStore implements storage.SuggestionStore over the
// search_suggestions table. Similarity relies on the pg_trgm extension and
// its GIN trigram index on suggestion_text.
type SuggestionStore struct {
	db *pgxpool.Pool
}

func NewSuggestionStore(pool *ConnectionPool) *SuggestionStore {
	return &SuggestionStore{db: pool.conn}
}

func (s *SuggestionStore) Similar(ctx context.Context, text, language string, limit int) ([]string, error) {
	sql := `
		SELECT suggestion_text
		FROM search_suggestions
		WHERE suggestion_text % $1
	`
	args := []any{text}
	if language != "" {
		sql += " AND language = $2"
		args = append(args, language)
	}
	sql += fmt.Sprintf(`
		ORDER BY similarity(suggestion_text, $1) DESC, usage_count DESC
		LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return s.queryTexts(ctx, sql, args...)
}

func (s *SuggestionStore) Prefix(ctx context.Context, text, language string, limit int) ([]string, error) {
	sql := `
		SELECT suggestion_text
		FROM search_suggestions
		WHERE suggestion_text ILIKE $1 || '%'
	`
	args := []any{text}
	if language != "" {
		sql += " AND language = $2"
		args = append(args, language)
	}
	sql += fmt.Sprintf(`
		ORDER BY usage_count DESC
		LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return s.queryTexts(ctx, sql, args...)
}

func (s *SuggestionStore) Popular(ctx context.Context, language string, limit int) ([]string, error) {
	sql := "SELECT suggestion_text FROM search_suggestions"
	var args []any
	if language != "" {
		sql += " WHERE language = $1"
		args = append(args, language)
	}
	sql += fmt.Sprintf(`
		ORDER BY usage_count DESC, last_used_at DESC NULLS LAST
		LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	return s.queryTexts(ctx, sql, args...)
}

func (s *SuggestionStore) Track(ctx context.Context, text, language string, now time.Time) error {
	cmd := `
		INSERT INTO search_suggestions
			(id, suggestion_text, language, usage_count, last_used_at, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4, $4)
		ON CONFLICT (suggestion_text) DO UPDATE SET
			usage_count = search_suggestions.usage_count + 1,
			last_used_at = EXCLUDED.last_used_at,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.Exec(ctx, cmd, uuid.New(), text, language, now); err != nil {
		return fmt.Errorf("failed to track suggestion: %w", err)
	}
	return nil
}

func (s *SuggestionStore) DeleteBelowUsage(ctx context.Context, minUsage int) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM search_suggestions WHERE usage_count < $1", minUsage)
	if err != nil {
		return 0, fmt.Errorf("failed to delete suggestions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *SuggestionStore) queryTexts(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		texts = append(texts, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}
	return texts, nil
}

// Compile-time interface assertion
var _ storage.SuggestionStore = (*SuggestionStore)(nil)
