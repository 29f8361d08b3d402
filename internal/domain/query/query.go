// Package query holds the compiled form of a search request: a full-text
// match expression, a conjunctive predicate set, and a sort specification.
// The storage layer translates this into engine-specific SQL; nothing here
// knows about PostgreSQL.
package query

import (
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
)

// Match is the full-text part of a compiled query. When MatchAll is set the
// request had no usable terms and the whole corpus matches; TSQuery is the
// prefix-conjunction expression ("ocean:* & polici:*") otherwise.
type Match struct {
	TSQuery   string
	Regconfig string
	MatchAll  bool
}

// Predicates is the conjunction of all structured filters. Zero values mean
// the filter is absent and imposes no constraint.
type Predicates struct {
	DocumentTypes []domain.DocumentType
	Language      string
	AuthorID      *uuid.UUID
	AuthorName    string
	Status        string
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	// Metadata holds equality-only checks against metadata keys,
	// string-compared. Richer operators are out of scope.
	Metadata map[string]string
}

type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortDate      SortMode = "date"
	SortTitle     SortMode = "title"
	// SortIndexed is the fallback for unknown or omitted sort modes:
	// newest-indexed first.
	SortIndexed SortMode = "indexed"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type Sort struct {
	Mode  SortMode
	Order SortOrder
}

// Compiled is a fully compiled search request, ready for execution.
type Compiled struct {
	Match      Match
	Predicates Predicates
	Sort       Sort
	Offset     int
	Limit      int
}

// WantsScore reports whether executing this query should carry the rank
// value back onto each hit.
func (c *Compiled) WantsScore() bool {
	return c.Sort.Mode == SortRelevance && !c.Match.MatchAll
}
