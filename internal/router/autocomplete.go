package router

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/autocomplete"
	"github.com/openimpact/search-gateway/internal/dto"
)

type AutocompleteRouter struct {
	g       *echo.Group
	service *autocomplete.Service
}

func NewAutocompleteRouter(g *echo.Group, service *autocomplete.Service) *AutocompleteRouter {
	return &AutocompleteRouter{
		g:       g,
		service: service,
	}
}

func (r *AutocompleteRouter) Bind() {
	r.g.GET("/autocomplete", r.suggestionsHandler)
	r.g.GET("/autocomplete/popular", r.popularHandler)
	r.g.GET("/autocomplete/recent", r.recentHandler)
	r.g.POST("/autocomplete/track", r.trackHandler)
	r.g.DELETE("/autocomplete/cleanup", r.cleanupHandler)
}

func (r *AutocompleteRouter) suggestionsHandler(c echo.Context) error {
	req := new(dto.AutocompleteRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid autocomplete request", err)
	}
	if err := req.Normalize(); err != nil {
		return err
	}

	suggestions, err := r.service.GetSuggestions(c.Request().Context(), req.Query, req.Language, req.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.AutocompleteResponse{
		Query:       req.Query,
		Suggestions: suggestions,
	})
}

func (r *AutocompleteRouter) popularHandler(c echo.Context) error {
	limit, err := limitParam(c, dto.SuggestionDefaultLimit, dto.SuggestionMaxLimit)
	if err != nil {
		return err
	}

	suggestions, err := r.service.PopularSearches(c.Request().Context(), c.QueryParam("language"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.AutocompleteResponse{Suggestions: suggestions})
}

func (r *AutocompleteRouter) recentHandler(c echo.Context) error {
	raw := c.Request().Header.Get(userIDHeader)
	if raw == "" {
		return apperr.NewValidation("X-User-ID header is required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return apperr.NewValidationWrap("invalid X-User-ID header", err)
	}

	limit, err := limitParam(c, dto.SuggestionDefaultLimit, dto.SuggestionMaxLimit)
	if err != nil {
		return err
	}

	suggestions, err := r.service.RecentSearches(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.AutocompleteResponse{Suggestions: suggestions})
}

func (r *AutocompleteRouter) trackHandler(c echo.Context) error {
	req := new(dto.TrackSuggestionRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid track request", err)
	}
	if err := req.Normalize(); err != nil {
		return err
	}

	if err := r.service.TrackSuggestion(c.Request().Context(), req.Text, req.Language); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Suggestion tracked",
	})
}

// cleanupHandler prunes suggestions searched fewer than min_usage times.
func (r *AutocompleteRouter) cleanupHandler(c echo.Context) error {
	minUsage := 1
	if raw := c.QueryParam("min_usage"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apperr.NewValidation("min_usage must be a positive integer")
		}
		minUsage = parsed
	}

	removed, err := r.service.Cleanup(c.Request().Context(), minUsage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":             true,
		"suggestions_removed": removed,
	})
}

func limitParam(c echo.Context, def, max int) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewValidationWrap("invalid limit", err)
	}
	if limit < 1 || limit > max {
		return 0, apperr.NewValidation("limit out of range")
	}
	return limit, nil
}
