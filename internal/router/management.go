package router

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/domain"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/indexing"
)

const jobListDefaultLimit = 50

type ManagementRouter struct {
	g       *echo.Group
	service *indexing.Service
}

func NewManagementRouter(g *echo.Group, service *indexing.Service) *ManagementRouter {
	return &ManagementRouter{
		g:       g,
		service: service,
	}
}

func (r *ManagementRouter) Bind() {
	r.g.GET("/management/status", r.statusHandler)
	r.g.POST("/management/optimize", r.optimizeHandler)
	r.g.DELETE("/management/clear", r.clearHandler)
	r.g.GET("/management/jobs", r.listJobsHandler)
	r.g.GET("/management/jobs/:job_id", r.getJobHandler)
}

func (r *ManagementRouter) statusHandler(c echo.Context) error {
	stats, err := r.service.GetIndexStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (r *ManagementRouter) optimizeHandler(c echo.Context) error {
	if err := r.service.OptimizeIndex(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Index optimization completed successfully",
	})
}

func (r *ManagementRouter) clearHandler(c echo.Context) error {
	deleted, err := r.service.ClearIndex(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":           true,
		"message":           fmt.Sprintf("Cleared %d documents from index", deleted),
		"documents_deleted": deleted,
	})
}

func (r *ManagementRouter) listJobsHandler(c echo.Context) error {
	var status *domain.JobStatus
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := domain.ParseJobStatus(raw)
		if err != nil {
			return apperr.NewValidationWrap("invalid job status", err)
		}
		status = &parsed
	}

	limit, err := limitParam(c, jobListDefaultLimit, 200)
	if err != nil {
		return err
	}

	jobs, err := r.service.ListJobs(c.Request().Context(), status, limit)
	if err != nil {
		return err
	}

	resp := make([]dto.IndexJobResponse, 0, len(jobs))
	for i := range jobs {
		resp = append(resp, dto.NewIndexJobResponse(&jobs[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *ManagementRouter) getJobHandler(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid job id", err)
	}

	job, err := r.service.GetJob(c.Request().Context(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewIndexJobResponse(job))
}
