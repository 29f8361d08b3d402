// Package analytics records executed searches and serves derived statistics
// over the query log.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/storage"
)

// suggestion tracking only applies to clean queries: at least this many
// characters, letters/digits/spaces only
const minTrackedQueryLength = 3

type Service struct {
	queryLogs   storage.QueryLogStore
	suggestions storage.SuggestionStore
}

func NewService(queryLogs storage.QueryLogStore, suggestions storage.SuggestionStore) *Service {
	return &Service{queryLogs: queryLogs, suggestions: suggestions}
}

// TrackSearch appends one query log row and feeds the suggestion corpus.
func (s *Service) TrackSearch(ctx context.Context, queryText string, language *string, filters map[string]any, resultsCount int64, userID *uuid.UUID, executionMs float64) error {
	now := time.Now().UTC()
	log := &domain.QueryLog{
		ID:              uuid.New(),
		QueryText:       queryText,
		Language:        language,
		Filters:         filters,
		ResultsCount:    resultsCount,
		UserID:          userID,
		ExecutionTimeMs: &executionMs,
		CreatedAt:       now,
	}
	if log.Filters == nil {
		log.Filters = map[string]any{}
	}
	if err := s.queryLogs.Insert(ctx, log); err != nil {
		return fmt.Errorf("failed to insert query log: %w", err)
	}

	if trackableSuggestion(queryText) {
		lang := domain.DefaultLanguage
		if language != nil && *language != "" {
			lang = *language
		}
		if err := s.suggestions.Track(ctx, queryText, lang, now); err != nil {
			slog.Error("Failed to update suggestion from query", "query", queryText, "error", err)
		}
	}
	return nil
}

// TrackClick backfills the clicked result onto an existing query log row.
func (s *Service) TrackClick(ctx context.Context, queryID, resultID uuid.UUID) (bool, error) {
	found, err := s.queryLogs.SetClickedResult(ctx, queryID, resultID)
	if err != nil {
		return false, fmt.Errorf("failed to track click: %w", err)
	}
	return found, nil
}

func (s *Service) PopularQueries(ctx context.Context, limit, days int) ([]domain.PopularQuery, error) {
	return s.queryLogs.PopularQueries(ctx, since(days), limit)
}

func (s *Service) ZeroResultQueries(ctx context.Context, limit, days int) ([]domain.ZeroResultQuery, error) {
	return s.queryLogs.ZeroResultQueries(ctx, since(days), limit)
}

func (s *Service) SearchStats(ctx context.Context, days int) (*domain.SearchStats, error) {
	stats, err := s.queryLogs.Stats(ctx, since(days))
	if err != nil {
		return nil, err
	}
	stats.PeriodDays = days
	return stats, nil
}

func (s *Service) PerformanceMetrics(ctx context.Context, days int) ([]domain.PerformancePoint, error) {
	return s.queryLogs.PerformanceByDay(ctx, since(days))
}

func (s *Service) UserSearchHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.QueryLog, error) {
	return s.queryLogs.UserHistory(ctx, userID, limit)
}

func since(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

func trackableSuggestion(queryText string) bool {
	if len([]rune(queryText)) < minTrackedQueryLength {
		return false
	}
	for _, r := range queryText {
		if r == ' ' {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
