package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/search"
)

// userIDHeader carries the optional caller identity for analytics
// attribution. There is no auth layer; absence just means anonymous.
const userIDHeader = "X-User-ID"

type SearchRouter struct {
	g       *echo.Group
	service *search.Service
}

func NewSearchRouter(g *echo.Group, service *search.Service) *SearchRouter {
	return &SearchRouter{
		g:       g,
		service: service,
	}
}

func (r *SearchRouter) Bind() {
	r.g.POST("/search", r.searchHandler)
	r.g.POST("/search/content", r.searchContentHandler)
	r.g.POST("/search/partners", r.searchTypeHandler(domain.DocumentTypePartner))
	r.g.POST("/search/projects", r.searchTypeHandler(domain.DocumentTypeProject))
	r.g.POST("/search/social", r.searchTypeHandler(domain.DocumentTypeSocialPost))
	r.g.POST("/search/notifications", r.searchTypeHandler(domain.DocumentTypeNotification))
}

func (r *SearchRouter) searchHandler(c echo.Context) error {
	req := new(dto.SearchRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid search request", err)
	}

	resp, err := r.service.Search(c.Request().Context(), req, requestUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// searchContentHandler spans the editorial types instead of one.
func (r *SearchRouter) searchContentHandler(c echo.Context) error {
	req := new(dto.SearchRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid search request", err)
	}

	resp, err := r.service.SearchByType(c.Request().Context(), req, requestUserID(c),
		domain.DocumentTypeArticle, domain.DocumentTypeStory)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *SearchRouter) searchTypeHandler(dt domain.DocumentType) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.SearchRequest)
		if err := c.Bind(req); err != nil {
			return apperr.NewValidationWrap("invalid search request", err)
		}

		resp, err := r.service.SearchByType(c.Request().Context(), req, requestUserID(c), dt)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func requestUserID(c echo.Context) *uuid.UUID {
	raw := c.Request().Header.Get(userIDHeader)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
