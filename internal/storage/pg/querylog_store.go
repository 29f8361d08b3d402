package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/storage"
)

// QueryLogStore implements storage.QueryLogStore over the search_queries
// table.
type QueryLogStore struct {
	db *pgxpool.Pool
}

func NewQueryLogStore(pool *ConnectionPool) *QueryLogStore {
	return &QueryLogStore{db: pool.conn}
}

func (s *QueryLogStore) Insert(ctx context.Context, log *domain.QueryLog) error {
	filtersJSON, err := json.Marshal(log.Filters)
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}

	cmd := `
		INSERT INTO search_queries
			(id, query_text, language, filters, results_count, user_id,
			 execution_time, clicked_result_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.Exec(ctx, cmd,
		log.ID,
		log.QueryText,
		log.Language,
		filtersJSON,
		log.ResultsCount,
		log.UserID,
		log.ExecutionTimeMs,
		log.ClickedResultID,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query log: %w", err)
	}
	return nil
}

func (s *QueryLogStore) SetClickedResult(ctx context.Context, queryID, resultID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		"UPDATE search_queries SET clicked_result_id = $2 WHERE id = $1", queryID, resultID)
	if err != nil {
		return false, fmt.Errorf("failed to set clicked result: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *QueryLogStore) RecentQueryTexts(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	sql := `
		SELECT query_text
		FROM (
			SELECT query_text, MAX(created_at) AS last_searched
			FROM search_queries
			WHERE user_id = $1
			GROUP BY query_text
		) recent
		ORDER BY last_searched DESC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, sql, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent searches: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan recent search: %w", err)
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

func (s *QueryLogStore) PopularQueries(ctx context.Context, since time.Time, limit int) ([]domain.PopularQuery, error) {
	sql := `
		SELECT query_text, COUNT(*) AS cnt, COALESCE(AVG(results_count), 0)::bigint
		FROM search_queries
		WHERE created_at >= $1
		GROUP BY query_text
		ORDER BY cnt DESC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, sql, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular queries: %w", err)
	}
	defer rows.Close()

	var popular []domain.PopularQuery
	for rows.Next() {
		var p domain.PopularQuery
		if err := rows.Scan(&p.Query, &p.Count, &p.AvgResults); err != nil {
			return nil, fmt.Errorf("failed to scan popular query: %w", err)
		}
		popular = append(popular, p)
	}
	return popular, rows.Err()
}

func (s *QueryLogStore) ZeroResultQueries(ctx context.Context, since time.Time, limit int) ([]domain.ZeroResultQuery, error) {
	sql := `
		SELECT query_text, COUNT(*) AS cnt
		FROM search_queries
		WHERE created_at >= $1 AND results_count = 0
		GROUP BY query_text
		ORDER BY cnt DESC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, sql, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query zero-result queries: %w", err)
	}
	defer rows.Close()

	var zero []domain.ZeroResultQuery
	for rows.Next() {
		var z domain.ZeroResultQuery
		if err := rows.Scan(&z.Query, &z.Count); err != nil {
			return nil, fmt.Errorf("failed to scan zero-result query: %w", err)
		}
		zero = append(zero, z)
	}
	return zero, rows.Err()
}

func (s *QueryLogStore) Stats(ctx context.Context, since time.Time) (*domain.SearchStats, error) {
	sql := `
		SELECT
			COUNT(*),
			COUNT(DISTINCT query_text),
			COALESCE(AVG(results_count), 0),
			COALESCE(AVG(execution_time), 0),
			COUNT(*) FILTER (WHERE results_count = 0)
		FROM search_queries
		WHERE created_at >= $1
	`
	stats := &domain.SearchStats{}
	var zeroResults int64
	err := s.db.QueryRow(ctx, sql, since).Scan(
		&stats.TotalSearches,
		&stats.UniqueQueries,
		&stats.AvgResults,
		&stats.AvgExecutionTimeMs,
		&zeroResults,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute search stats: %w", err)
	}
	if stats.TotalSearches > 0 {
		stats.ZeroResultRate = float64(zeroResults) / float64(stats.TotalSearches) * 100
	}
	return stats, nil
}

func (s *QueryLogStore) PerformanceByDay(ctx context.Context, since time.Time) ([]domain.PerformancePoint, error) {
	sql := `
		SELECT
			date_trunc('day', created_at) AS day,
			COUNT(*),
			COALESCE(AVG(execution_time), 0),
			COALESCE(AVG(results_count), 0)
		FROM search_queries
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day
	`
	rows, err := s.db.Query(ctx, sql, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance metrics: %w", err)
	}
	defer rows.Close()

	var points []domain.PerformancePoint
	for rows.Next() {
		var (
			day time.Time
			p   domain.PerformancePoint
		)
		if err := rows.Scan(&day, &p.Count, &p.AvgExecutionTimeMs, &p.AvgResults); err != nil {
			return nil, fmt.Errorf("failed to scan performance point: %w", err)
		}
		p.Date = day.Format("2006-01-02")
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *QueryLogStore) UserHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.QueryLog, error) {
	sql := `
		SELECT id, query_text, language, filters, results_count, user_id,
		       execution_time, clicked_result_id, created_at
		FROM search_queries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, sql, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query user history: %w", err)
	}
	defer rows.Close()

	var logs []domain.QueryLog
	for rows.Next() {
		var (
			log         domain.QueryLog
			filtersJSON []byte
		)
		if err := rows.Scan(
			&log.ID,
			&log.QueryText,
			&log.Language,
			&filtersJSON,
			&log.ResultsCount,
			&log.UserID,
			&log.ExecutionTimeMs,
			&log.ClickedResultID,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan query log: %w", err)
		}
		if len(filtersJSON) > 0 {
			if err := json.Unmarshal(filtersJSON, &log.Filters); err != nil {
				return nil, fmt.Errorf("failed to unmarshal filters: %w", err)
			}
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Compile-time interface assertion
var _ storage.QueryLogStore = (*QueryLogStore)(nil)
