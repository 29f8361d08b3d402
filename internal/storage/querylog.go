package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
)

// QueryLogStore persists executed searches. Rows are append-only except for
// the clicked-result backfill.
type QueryLogStore interface {
	Insert(ctx context.Context, log *domain.QueryLog) error

	// SetClickedResult backfills which result a user clicked; reports
	// whether the query log row existed.
	SetClickedResult(ctx context.Context, queryID, resultID uuid.UUID) (bool, error)

	// RecentQueryTexts returns a user's distinct query texts, most recent
	// first.
	RecentQueryTexts(ctx context.Context, userID uuid.UUID, limit int) ([]string, error)

	PopularQueries(ctx context.Context, since time.Time, limit int) ([]domain.PopularQuery, error)
	ZeroResultQueries(ctx context.Context, since time.Time, limit int) ([]domain.ZeroResultQuery, error)
	Stats(ctx context.Context, since time.Time) (*domain.SearchStats, error)
	PerformanceByDay(ctx context.Context, since time.Time) ([]domain.PerformancePoint, error)
	UserHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.QueryLog, error)
}
