package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openimpact/search-gateway/internal/apperr"
	"github.com/openimpact/search-gateway/internal/dto"
	"github.com/openimpact/search-gateway/internal/indexing"
)

type IndexingRouter struct {
	g       *echo.Group
	service *indexing.Service
}

func NewIndexingRouter(g *echo.Group, service *indexing.Service) *IndexingRouter {
	return &IndexingRouter{
		g:       g,
		service: service,
	}
}

func (r *IndexingRouter) Bind() {
	r.g.POST("/index/document", r.indexDocumentHandler)
	r.g.POST("/index/bulk", r.bulkIndexHandler)
	r.g.POST("/index/reindex", r.reindexHandler)
	r.g.PUT("/index/:document_id", r.updateHandler)
	r.g.DELETE("/index/:document_id", r.deleteHandler)
}

func (r *IndexingRouter) indexDocumentHandler(c echo.Context) error {
	req := new(dto.IndexDocumentRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid index request", err)
	}

	doc, err := r.service.IndexDocument(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.IndexResponse{
		Success:   true,
		Message:   "Document indexed successfully",
		IndexedID: &doc.ID,
	})
}

func (r *IndexingRouter) bulkIndexHandler(c echo.Context) error {
	req := new(dto.BulkIndexRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid bulk index request", err)
	}
	if err := req.Normalize(); err != nil {
		return err
	}

	job, err := r.service.BulkIndex(c.Request().Context(), req.Documents, req.SourceService)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.BulkIndexResponse{
		Success:         true,
		Message:         "Bulk indexing completed",
		JobID:           job.ID,
		DocumentsQueued: len(req.Documents),
	})
}

// reindexHandler creates the job and runs it in the background; the
// response carries the job id so callers can poll /management/jobs.
func (r *IndexingRouter) reindexHandler(c echo.Context) error {
	job, err := r.service.ReindexAll(c.Request().Context(), c.QueryParam("source_service"))
	if err != nil {
		return err
	}

	go func() {
		// detached from the request context so the run outlives the response
		if _, err := r.service.RunReindex(context.Background(), job.ID); err != nil {
			slog.Error("Reindex run failed", "job_id", job.ID, "error", err)
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]any{
		"success": true,
		"message": "Re-indexing job created",
		"job_id":  job.ID,
	})
}

func (r *IndexingRouter) updateHandler(c echo.Context) error {
	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid document id", err)
	}

	req := new(dto.IndexDocumentRequest)
	if err := c.Bind(req); err != nil {
		return apperr.NewValidationWrap("invalid index request", err)
	}

	doc, err := r.service.UpdateDocument(c.Request().Context(), documentID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.IndexResponse{
		Success:   true,
		Message:   "Document updated successfully",
		IndexedID: &doc.ID,
	})
}

func (r *IndexingRouter) deleteHandler(c echo.Context) error {
	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid document id", err)
	}

	deleted, err := r.service.DeleteDocument(c.Request().Context(), documentID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NewNotFound("document not found in index")
	}
	return c.JSON(http.StatusOK, dto.IndexResponse{
		Success: true,
		Message: "Document deleted from index",
	})
}
