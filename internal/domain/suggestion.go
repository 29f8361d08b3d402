package domain

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is one autocomplete candidate, unique by text. Usage count and
// recency drive both popularity ranking and cleanup eligibility.
type Suggestion struct {
	ID         uuid.UUID
	Text       string
	Language   string
	UsageCount int
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
