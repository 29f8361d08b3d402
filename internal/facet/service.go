// Package facet computes grouped counts over filtered result sets to drive
// filter UIs.
package facet

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/domain/query"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/search"
	"github.com/openimpact/search-gateway/internal/storage"
)

// authors facets are capped to keep payloads small; fixed policy
const maxAuthorFacets = 20

type Service struct {
	store storage.DocumentStore
}

func NewService(store storage.DocumentStore) *Service {
	return &Service{store: store}
}

// GetFacets counts the query's total matches, then groups that same filtered
// set by each requested field.
func (s *Service) GetFacets(ctx context.Context, req *dto.FacetRequest) (*dto.FacetResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	match := search.BuildMatch(req.Query, req.Filters["language"])
	preds := predicatesFromFilters(req.Filters)

	total, err := s.store.Count(ctx, match, preds)
	if err != nil {
		return nil, fmt.Errorf("failed to count facet base set: %w", err)
	}

	facets := make(map[string][]dto.FacetOption, len(req.FacetFields))
	for _, field := range req.FacetFields {
		options, err := s.facetField(ctx, match, preds, field)
		if err != nil {
			return nil, err
		}
		facets[field] = options
	}

	return &dto.FacetResponse{
		Query:        req.Query,
		Facets:       facets,
		TotalResults: total,
	}, nil
}

// GetFilterOptions is the same aggregation over the whole corpus, unfiltered
// by any query.
func (s *Service) GetFilterOptions(ctx context.Context, field string) ([]dto.FacetOption, error) {
	all := query.Match{MatchAll: true}
	switch field {
	case "document_type", "language", "author_name", "status":
		return s.facetField(ctx, all, query.Predicates{}, field)
	default:
		return []dto.FacetOption{}, nil
	}
}

// CountResults is the scalar count of documents matching both the query and
// one exact facet value.
func (s *Service) CountResults(ctx context.Context, queryText, field, value string) (int64, error) {
	match := search.BuildMatch(queryText, "")
	var preds query.Predicates

	switch field {
	case "document_type":
		preds.DocumentTypes = []domain.DocumentType{domain.DocumentType(value)}
	case "language":
		preds.Language = value
	case "author_name":
		preds.AuthorName = value
	case "status":
		preds.Status = value
	default:
		return 0, fmt.Errorf("unsupported facet field: %s", field)
	}

	return s.store.Count(ctx, match, preds)
}

func (s *Service) facetField(ctx context.Context, match query.Match, preds query.Predicates, field string) ([]dto.FacetOption, error) {
	rows, err := s.store.FacetCounts(ctx, match, preds, field)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s facets: %w", field, err)
	}

	options := make([]dto.FacetOption, 0, len(rows))
	for _, row := range rows {
		if row.Value == "" && (field == "author_name" || field == "status") {
			continue
		}
		options = append(options, dto.FacetOption{
			Value: row.Value,
			Count: row.Count,
			Label: facetLabel(field, row.Value),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Count > options[j].Count
	})

	if field == "author_name" && len(options) > maxAuthorFacets {
		options = options[:maxAuthorFacets]
	}
	return options, nil
}

func facetLabel(field, value string) string {
	switch field {
	case "document_type", "status":
		return domain.TitleLabel(value)
	case "language":
		return domain.LanguageLabel(value)
	default:
		return value
	}
}

func predicatesFromFilters(filters map[string]string) query.Predicates {
	var preds query.Predicates
	if v, ok := filters["document_type"]; ok {
		preds.DocumentTypes = []domain.DocumentType{domain.DocumentType(v)}
	}
	if v, ok := filters["language"]; ok {
		preds.Language = v
	}
	if v, ok := filters["author_id"]; ok {
		if id, err := uuid.Parse(v); err == nil {
			preds.AuthorID = &id
		}
	}
	if v, ok := filters["status"]; ok {
		preds.Status = v
	}
	return preds
}
