package httpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kartwerk/riverlabel/db_store"
)

type LabelsStore interface {
	InsertPlacements(ctx context.Context, placements []*db_store.LabelPlacement) error
	GetPlacementsByBatch(ctx context.Context, batchId string) ([]*db_store.LabelPlacement, error)
	GetPlacementsByName(ctx context.Context, name string) ([]*db_store.LabelPlacement, error)
}

type getLabelsResponse struct {
	Labels []*db_store.LabelPlacement `json:"labels"`
}

func (srv *HTTPServer) getLabels(c *gin.Context, name string, fn func(context.Context) ([]*db_store.LabelPlacement, error)) {
	if srv.labelsStore == nil {
		c.JSON(http.StatusServiceUnavailable, &APIErrorResponse{
			Error:     "no database configured",
			RequestId: requestIdFromContext(c),
		})
		return
	}

	labels, err := fn(c.Request.Context())
	if err != nil {
		srv.abortWithError(c, name, err)
		return
	}

	if len(labels) == 0 {
		c.JSON(http.StatusNotFound, &APIErrorResponse{
			Error:     "Labels not found",
			RequestId: requestIdFromContext(c),
		})
		return
	}

	c.JSON(http.StatusOK, getLabelsResponse{labels})
}

func (srv *HTTPServer) handleGetLabelsByBatch(c *gin.Context) {
	batchId := c.Param("batch_id")
	if _, err := uuid.Parse(batchId); err != nil {
		srv.abortWithError(c, "GetLabels", fmt.Errorf("%w: malformed batch ID", errBadInput))
		return
	}
	srv.getLabels(c, "GetLabels", func(ctx context.Context) ([]*db_store.LabelPlacement, error) {
		return srv.labelsStore.GetPlacementsByBatch(ctx, batchId)
	})
}

func (srv *HTTPServer) handleGetLabelsByName(c *gin.Context) {
	name := c.Param("name")
	srv.getLabels(c, "GetLabels", func(ctx context.Context) ([]*db_store.LabelPlacement, error) {
		return srv.labelsStore.GetPlacementsByName(ctx, name)
	})
}
