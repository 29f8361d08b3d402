package search

import (
	"strings"
	"time"

	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/domain/query"
	"github.com/openimpact/search-gateway/internal/dto"
)

// tsquery syntax characters stripped from terms before they become prefix
// atoms. A term that is nothing but syntax is dropped.
const tsquerySyntaxChars = "&|!():*'\\<"

// Compiler translates a normalized search request into a match expression,
// a predicate set and a sort spec. It is pure: no I/O, no store knowledge.
type Compiler struct{}

func NewCompiler() Compiler {
	return Compiler{}
}

// Compile assumes req.Normalize has already run.
func (Compiler) Compile(req *dto.SearchRequest) *query.Compiled {
	c := &query.Compiled{
		Match:      BuildMatch(req.Query, req.Language),
		Predicates: buildPredicates(req),
		Sort:       buildSort(req.SortBy, req.SortOrder),
		Offset:     (req.Page - 1) * req.PageSize,
		Limit:      req.PageSize,
	}
	return c
}

// BuildMatch splits query text on whitespace and turns every surviving term
// into a prefix atom, AND-joined: "ocean policy" -> "ocean:* & policy:*".
// No terms means the request matches the whole corpus, not that it fails.
func BuildMatch(queryText, language string) query.Match {
	var atoms []string
	for _, term := range strings.Fields(queryText) {
		term = sanitizeTerm(term)
		if term == "" {
			continue
		}
		atoms = append(atoms, term+":*")
	}

	m := query.Match{Regconfig: domain.Regconfig(language)}
	if len(atoms) == 0 {
		m.MatchAll = true
		return m
	}
	m.TSQuery = strings.Join(atoms, " & ")
	return m
}

func sanitizeTerm(term string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(tsquerySyntaxChars, r) {
			return -1
		}
		return r
	}, term)
}

func buildPredicates(req *dto.SearchRequest) query.Predicates {
	p := query.Predicates{
		Language: req.Language,
		AuthorID: req.AuthorID,
		Status:   req.Status,
	}
	for _, dt := range req.DocumentTypes {
		// validated during Normalize
		p.DocumentTypes = append(p.DocumentTypes, domain.DocumentType(dt))
	}
	if t, ok := ParseDateBound(req.DateFrom); ok {
		p.PublishedFrom = &t
	}
	if t, ok := ParseDateBound(req.DateTo); ok {
		p.PublishedTo = &t
	}
	if len(req.MetadataFilters) > 0 {
		p.Metadata = make(map[string]string, len(req.MetadataFilters))
		for k, v := range req.MetadataFilters {
			p.Metadata[k] = v
		}
	}
	return p
}

var dateBoundLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateBound parses an optional date filter. The second return is false
// for absent or unparseable input, which drops the bound from the predicate
// set instead of rejecting the request.
func ParseDateBound(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateBoundLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func buildSort(sortBy, sortOrder string) query.Sort {
	order := query.OrderDesc
	if sortOrder == "asc" {
		order = query.OrderAsc
	}

	var mode query.SortMode
	switch sortBy {
	case "relevance", "":
		mode = query.SortRelevance
	case "date":
		mode = query.SortDate
	case "title":
		mode = query.SortTitle
	default:
		// unknown sort modes fall back to newest-indexed first
		return query.Sort{Mode: query.SortIndexed, Order: query.OrderDesc}
	}
	return query.Sort{Mode: mode, Order: order}
}

// FiltersMap renders the applied filters for the query log.
func FiltersMap(req *dto.SearchRequest) map[string]any {
	filters := map[string]any{}
	if len(req.DocumentTypes) > 0 {
		filters["document_types"] = req.DocumentTypes
	}
	if req.Language != "" {
		filters["language"] = req.Language
	}
	if req.AuthorID != nil {
		filters["author_id"] = req.AuthorID.String()
	}
	if req.Status != "" {
		filters["status"] = req.Status
	}
	if req.DateFrom != "" {
		filters["date_from"] = req.DateFrom
	}
	if req.DateTo != "" {
		filters["date_to"] = req.DateTo
	}
	if len(req.MetadataFilters) > 0 {
		filters["metadata"] = req.MetadataFilters
	}
	return filters
}
