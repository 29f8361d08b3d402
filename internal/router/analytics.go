package router

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openimpact/search-gateway/internal/analytics"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/dto"
)

const (
	analyticsDefaultDays    = 30
	analyticsMaxDays        = 365
	performanceDefaultDays  = 7
	performanceMaxDays      = 90
	analyticsDefaultLimit   = 20
	analyticsMaxLimit       = 100
	historyDefaultPageLimit = 50
)

type AnalyticsRouter struct {
	g       *echo.Group
	service *analytics.Service
}

func NewAnalyticsRouter(g *echo.Group, service *analytics.Service) *AnalyticsRouter {
	return &AnalyticsRouter{
		g:       g,
		service: service,
	}
}

func (r *AnalyticsRouter) Bind() {
	r.g.GET("/analytics/queries", r.statsHandler)
	r.g.GET("/analytics/popular", r.popularHandler)
	r.g.GET("/analytics/zero-results", r.zeroResultsHandler)
	r.g.GET("/analytics/performance", r.performanceHandler)
	r.g.GET("/analytics/history", r.historyHandler)
	r.g.POST("/analytics/click", r.clickHandler)
}

func (r *AnalyticsRouter) statsHandler(c echo.Context) error {
	days, err := daysParam(c, analyticsDefaultDays, analyticsMaxDays)
	if err != nil {
		return err
	}

	stats, err := r.service.SearchStats(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (r *AnalyticsRouter) popularHandler(c echo.Context) error {
	limit, err := limitParam(c, analyticsDefaultLimit, analyticsMaxLimit)
	if err != nil {
		return err
	}
	days, err := daysParam(c, analyticsDefaultDays, analyticsMaxDays)
	if err != nil {
		return err
	}

	queries, err := r.service.PopularQueries(c.Request().Context(), limit, days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, queries)
}

func (r *AnalyticsRouter) zeroResultsHandler(c echo.Context) error {
	limit, err := limitParam(c, analyticsDefaultLimit, analyticsMaxLimit)
	if err != nil {
		return err
	}
	days, err := daysParam(c, analyticsDefaultDays, analyticsMaxDays)
	if err != nil {
		return err
	}

	queries, err := r.service.ZeroResultQueries(c.Request().Context(), limit, days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, queries)
}

func (r *AnalyticsRouter) performanceHandler(c echo.Context) error {
	days, err := daysParam(c, performanceDefaultDays, performanceMaxDays)
	if err != nil {
		return err
	}

	points, err := r.service.PerformanceMetrics(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, points)
}

func (r *AnalyticsRouter) historyHandler(c echo.Context) error {
	raw := c.Request().Header.Get(userIDHeader)
	if raw == "" {
		return apperr.NewValidation("X-User-ID header is required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return apperr.NewValidationWrap("invalid X-User-ID header", err)
	}

	limit, err := limitParam(c, historyDefaultPageLimit, analyticsMaxLimit)
	if err != nil {
		return err
	}

	logs, err := r.service.UserSearchHistory(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}

	resp := make([]dto.QueryLogResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, dto.NewQueryLogResponse(&logs[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *AnalyticsRouter) clickHandler(c echo.Context) error {
	req := new(dto.TrackClickRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid click request", err)
	}
	if req.QueryID == uuid.Nil || req.ResultID == uuid.Nil {
		return apperr.NewValidation("query_id and result_id are required")
	}

	tracked, err := r.service.TrackClick(c.Request().Context(), req.QueryID, req.ResultID)
	if err != nil {
		return err
	}
	if !tracked {
		return apperr.NewNotFound("query log entry not found")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func daysParam(c echo.Context, def, max int) (int, error) {
	raw := c.QueryParam("days")
	if raw == "" {
		return def, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewValidationWrap("invalid days", err)
	}
	if days < 1 || days > max {
		return 0, apperr.NewValidation("days out of range")
	}
	return days, nil
}
