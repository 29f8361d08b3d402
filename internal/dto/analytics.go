package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/openimpact/search-gateway/internal/domain"
)

// QueryLogResponse is the outward projection of one recorded search.
type QueryLogResponse struct {
	ID              uuid.UUID      `json:"id"`
	QueryText       string         `json:"query_text"`
	Language        *string        `json:"language,omitempty"`
	Filters         map[string]any `json:"filters,omitempty"`
	ResultsCount    int64          `json:"results_count"`
	ExecutionTimeMs *float64       `json:"execution_time,omitempty"`
	ClickedResultID *uuid.UUID     `json:"clicked_result_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func NewQueryLogResponse(log *domain.QueryLog) QueryLogResponse {
	return QueryLogResponse{
		ID:              log.ID,
		QueryText:       log.QueryText,
		Language:        log.Language,
		Filters:         log.Filters,
		ResultsCount:    log.ResultsCount,
		ExecutionTimeMs: log.ExecutionTimeMs,
		ClickedResultID: log.ClickedResultID,
		CreatedAt:       log.CreatedAt,
	}
}

type TrackClickRequest struct {
	QueryID  uuid.UUID `json:"query_id"`
	ResultID uuid.UUID `json:"result_id"`
}
