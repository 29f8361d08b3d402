package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/storage"
)

// Recorder receives one record per executed search. Implemented by the
// analytics service.
type Recorder interface {
	TrackSearch(ctx context.Context, queryText string, language *string, filters map[string]any, resultsCount int64, userID *uuid.UUID, executionMs float64) error
}

// Service is the search read path: compile, query the store, rank and
// highlight the page, log analytics, respond.
type Service struct {
	store    storage.DocumentStore
	recorder Recorder
	compiler Compiler
	ranker   Ranker
}

func NewService(store storage.DocumentStore, recorder Recorder) *Service {
	return &Service{
		store:    store,
		recorder: recorder,
		compiler: NewCompiler(),
		ranker:   NewRanker(),
	}
}

// Search runs one uniform search across all content types.
func (s *Service) Search(ctx context.Context, req *dto.SearchRequest, userID *uuid.UUID) (*dto.SearchResponse, error) {
	started := time.Now()

	if err := req.Normalize(); err != nil {
		return nil, err
	}
	compiled := s.compiler.Compile(req)

	page, err := s.store.Search(ctx, compiled)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	results := s.ranker.Results(page.Documents, page.Scores, req.Query, req.WantsHighlight())
	executionMs := float64(time.Since(started).Microseconds()) / 1000.0

	var language *string
	if req.Language != "" {
		language = &req.Language
	}
	if err := s.recorder.TrackSearch(ctx, req.Query, language, FiltersMap(req), page.Total, userID, executionMs); err != nil {
		// analytics is a side-effect sink, a failed write never fails the search
		slog.Error("Failed to track search query", "query", req.Query, "error", err)
	}

	totalPages := (page.Total + int64(req.PageSize) - 1) / int64(req.PageSize)

	slog.Info("Search executed",
		"query", req.Query,
		"total", page.Total,
		"page", req.Page,
		"execution_ms", executionMs)

	return &dto.SearchResponse{
		Query:           req.Query,
		Results:         results,
		TotalCount:      page.Total,
		Page:            req.Page,
		PageSize:        req.PageSize,
		TotalPages:      totalPages,
		ExecutionTimeMs: executionMs,
	}, nil
}

// SearchByType restricts a search to specific document types, overriding any
// type filter on the request.
func (s *Service) SearchByType(ctx context.Context, req *dto.SearchRequest, userID *uuid.UUID, types ...domain.DocumentType) (*dto.SearchResponse, error) {
	req.DocumentTypes = req.DocumentTypes[:0]
	for _, dt := range types {
		req.DocumentTypes = append(req.DocumentTypes, string(dt))
	}
	return s.Search(ctx, req, userID)
}
