package storage

import (
	"context"
	"time"
)

// SuggestionStore is the autocomplete corpus. Similar uses trigram
// similarity, Prefix a case-insensitive starts-with match; both take an
// optional language filter ("" means all languages).
type SuggestionStore interface {
	// Similar returns suggestion texts by trigram similarity to text,
	// ordered by similarity desc then usage count desc.
	Similar(ctx context.Context, text, language string, limit int) ([]string, error)

	// Prefix returns suggestion texts starting with text (case-insensitive),
	// ordered by usage count desc.
	Prefix(ctx context.Context, text, language string, limit int) ([]string, error)

	// Popular returns suggestion texts ordered by usage count desc then
	// last-used recency desc.
	Popular(ctx context.Context, language string, limit int) ([]string, error)

	// Track upserts by text: an existing suggestion gets its usage count
	// incremented and last-used refreshed, a new one starts at count 1.
	Track(ctx context.Context, text, language string, now time.Time) error

	// DeleteBelowUsage prunes suggestions with usage count below minUsage
	// and returns the number removed.
	DeleteBelowUsage(ctx context.Context, minUsage int) (int64, error)
}
