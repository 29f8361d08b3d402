package domain

import (
	"time"

	"github.com/google/uuid"
)

// QueryLog is the immutable record of one executed search. Only the clicked
// result id is ever backfilled after the fact.
type QueryLog struct {
	ID              uuid.UUID
	QueryText       string
	Language        *string
	Filters         map[string]any
	ResultsCount    int64
	UserID          *uuid.UUID
	ExecutionTimeMs *float64
	ClickedResultID *uuid.UUID
	CreatedAt       time.Time
}

// PopularQuery is one row of the most-searched aggregation.
type PopularQuery struct {
	Query      string `json:"query"`
	Count      int64  `json:"count"`
	AvgResults int64  `json:"avg_results"`
}

// ZeroResultQuery is one row of the no-hits aggregation.
type ZeroResultQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// SearchStats summarizes search behavior over a trailing window.
type SearchStats struct {
	TotalSearches      int64   `json:"total_searches"`
	UniqueQueries      int64   `json:"unique_queries"`
	AvgResults         float64 `json:"avg_results"`
	AvgExecutionTimeMs float64 `json:"avg_execution_time_ms"`
	ZeroResultRate     float64 `json:"zero_result_rate"`
	PeriodDays         int     `json:"period_days"`
}

// PerformancePoint is one day of the performance-over-time series.
type PerformancePoint struct {
	Date               string  `json:"date"`
	Count              int64   `json:"count"`
	AvgExecutionTimeMs float64 `json:"avg_execution_time_ms"`
	AvgResults         float64 `json:"avg_results"`
}
