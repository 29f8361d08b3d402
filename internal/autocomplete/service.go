// Package autocomplete serves ranked suggestion lists from the suggestion
// corpus, with trigram similarity as the primary signal and prefix matching
// as the fallback.
package autocomplete

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/storage"
)

// Queries shorter than this skip similarity search entirely and return the
// globally popular suggestions instead. Deliberate short-input policy, not a
// degenerate similarity case.
const minSimilarityQueryLength = 2

type Service struct {
	suggestions storage.SuggestionStore
	queryLogs   storage.QueryLogStore
}

func NewService(suggestions storage.SuggestionStore, queryLogs storage.QueryLogStore) *Service {
	return &Service{suggestions: suggestions, queryLogs: queryLogs}
}

// GetSuggestions returns up to limit suggestion texts for a prefix, ordered
// and deduplicated. Similarity hits come first; when they fall short of the
// limit, case-insensitive prefix matches pad the remainder.
func (s *Service) GetSuggestions(ctx context.Context, queryText, language string, limit int) ([]string, error) {
	if len([]rune(queryText)) < minSimilarityQueryLength {
		return s.PopularSearches(ctx, language, limit)
	}

	results, err := s.suggestions.Similar(ctx, queryText, language, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run similarity search: %w", err)
	}

	if len(results) < limit {
		prefixed, err := s.suggestions.Prefix(ctx, queryText, language, limit-len(results))
		if err != nil {
			return nil, fmt.Errorf("failed to run prefix fallback: %w", err)
		}
		seen := make(map[string]bool, len(results))
		for _, r := range results {
			seen[r] = true
		}
		for _, p := range prefixed {
			if !seen[p] {
				results = append(results, p)
				seen[p] = true
			}
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// PopularSearches is the global usage-count ranking, no query involved.
func (s *Service) PopularSearches(ctx context.Context, language string, limit int) ([]string, error) {
	popular, err := s.suggestions.Popular(ctx, language, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch popular suggestions: %w", err)
	}
	return popular, nil
}

// RecentSearches lists a user's distinct recent query texts, newest first.
func (s *Service) RecentSearches(ctx context.Context, userID uuid.UUID, limit int) ([]string, error) {
	recent, err := s.queryLogs.RecentQueryTexts(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent searches: %w", err)
	}
	return recent, nil
}

// TrackSuggestion upserts by text: repeats bump the usage count and refresh
// recency, first occurrences start at count 1.
func (s *Service) TrackSuggestion(ctx context.Context, text, language string) error {
	if language == "" {
		language = domain.DefaultLanguage
	}
	if err := s.suggestions.Track(ctx, text, language, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to track suggestion: %w", err)
	}
	return nil
}

// Cleanup prunes suggestions whose usage count is below minUsage and returns
// the number removed.
func (s *Service) Cleanup(ctx context.Context, minUsage int) (int64, error) {
	removed, err := s.suggestions.DeleteBelowUsage(ctx, minUsage)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up suggestions: %w", err)
	}
	return removed, nil
}
