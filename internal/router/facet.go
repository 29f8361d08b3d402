package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/facet"
)

type FacetRouter struct {
	g       *echo.Group
	service *facet.Service
}

func NewFacetRouter(g *echo.Group, service *facet.Service) *FacetRouter {
	return &FacetRouter{
		g:       g,
		service: service,
	}
}

func (r *FacetRouter) Bind() {
	r.g.POST("/facets", r.facetsHandler)
	r.g.GET("/facets/options", r.optionsHandler)
	r.g.POST("/facets/count", r.countHandler)
}

func (r *FacetRouter) facetsHandler(c echo.Context) error {
	req := new(dto.FacetRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid facet request", err)
	}

	resp, err := r.service.GetFacets(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *FacetRouter) optionsHandler(c echo.Context) error {
	field := c.QueryParam("field")
	if field == "" {
		return apperr.NewValidation("field parameter is required")
	}

	options, err := r.service.GetFilterOptions(c.Request().Context(), field)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, options)
}

func (r *FacetRouter) countHandler(c echo.Context) error {
	query := c.QueryParam("query")
	field := c.QueryParam("facet_field")
	value := c.QueryParam("facet_value")
	if query == "" || field == "" || value == "" {
		return apperr.NewValidation("query, facet_field and facet_value are required")
	}

	count, err := r.service.CountResults(c.Request().Context(), query, field, value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"query":       query,
		"facet_field": field,
		"facet_value": value,
		"count":       count,
	})
}
