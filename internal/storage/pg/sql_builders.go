package pg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openimpact/search-gateway/internal/domain/query"
)

// whereBuilder accumulates WHERE fragments and their positional args.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) add(format string, args ...any) {
	placeholders := make([]any, len(args))
	for i := range args {
		b.args = append(b.args, args[i])
		placeholders[i] = len(b.args)
	}
	b.clauses = append(b.clauses, fmt.Sprintf(format, placeholders...))
}

func (b *whereBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.clauses, " AND ")
}

// buildMatchClause appends the tsvector predicate for a match expression.
// A match-all expression contributes nothing: the absence of the predicate
// is the wildcard.
func buildMatchClause(b *whereBuilder, m query.Match) {
	if m.MatchAll {
		return
	}
	b.add("search_vector @@ to_tsquery('"+m.Regconfig+"'::regconfig, $%d)", m.TSQuery)
}

// rankExpression is the ts_rank ordering function for a match expression,
// referring to the same tsquery argument position the match clause bound.
func rankExpression(m query.Match, argPos int) string {
	return fmt.Sprintf("ts_rank(search_vector, to_tsquery('%s'::regconfig, $%d))", m.Regconfig, argPos)
}

// buildPredicateClauses appends one fragment per present filter. Absent
// filters impose no constraint. Metadata keys are emitted in sorted order so
// generated SQL is deterministic.
func buildPredicateClauses(b *whereBuilder, p query.Predicates) {
	if len(p.DocumentTypes) > 0 {
		types := make([]string, len(p.DocumentTypes))
		for i, dt := range p.DocumentTypes {
			types[i] = string(dt)
		}
		b.add("document_type = ANY($%d)", types)
	}
	if p.Language != "" {
		b.add("language = $%d", p.Language)
	}
	if p.AuthorID != nil {
		b.add("author_id = $%d", *p.AuthorID)
	}
	if p.AuthorName != "" {
		b.add("author_name = $%d", p.AuthorName)
	}
	if p.Status != "" {
		b.add("status = $%d", p.Status)
	}
	if p.PublishedFrom != nil {
		b.add("published_at >= $%d", *p.PublishedFrom)
	}
	if p.PublishedTo != nil {
		b.add("published_at <= $%d", *p.PublishedTo)
	}
	if len(p.Metadata) > 0 {
		keys := make([]string, 0, len(p.Metadata))
		for k := range p.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.add("metadata->>$%d = $%d", k, p.Metadata[k])
		}
	}
}

// buildOrderBy renders the sort spec. Relevance ordering needs the rank
// expression of the executed match; every mode gets id as a stable
// tie-break.
func buildOrderBy(s query.Sort, rankExpr string) string {
	dir := "DESC"
	if s.Order == query.OrderAsc {
		dir = "ASC"
	}

	switch s.Mode {
	case query.SortRelevance:
		if rankExpr == "" {
			return "ORDER BY indexed_at DESC, id DESC"
		}
		return fmt.Sprintf("ORDER BY %s %s, id DESC", rankExpr, dir)
	case query.SortDate:
		return fmt.Sprintf("ORDER BY published_at %s, id DESC", dir)
	case query.SortTitle:
		return fmt.Sprintf("ORDER BY title %s, id DESC", dir)
	default:
		return "ORDER BY indexed_at DESC, id DESC"
	}
}

// facetColumns whitelists groupable fields; anything else never reaches SQL.
var facetColumns = map[string]string{
	"document_type": "document_type",
	"language":      "language",
	"author_name":   "author_name",
	"status":        "status",
}
