package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kartwerk/riverlabel/db_store"
	"github.com/kartwerk/riverlabel/placement"
	"github.com/kartwerk/riverlabel/placement_cache"
)

type placementsRequest struct {
	GeometryInput
	Text     string   `json:"text"`
	FontSize *float64 `json:"font_size"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Padding  *float64 `json:"padding"`
	Best     bool     `json:"best"`
	// when set, the placements are stored under this name.
	Name string `json:"name"`
}

type placementsResponse struct {
	Placements []placement.Placement `json:"placements"`
	Best       *placement.Placement  `json:"best,omitempty"`
	Metrics    placement.TextMetrics `json:"metrics"`
	Cached     bool                  `json:"cached"`
	BatchId    string                `json:"batch_id,omitempty"`
}

func (req *placementsRequest) metrics(config placement.Config) (placement.TextMetrics, error) {
	if req.Width != 0 || req.Height != 0 {
		if !(req.Width > 0) || !(req.Height > 0) {
			return placement.TextMetrics{}, fmt.Errorf("%w: width and height must both be > 0", errBadInput)
		}
		return placement.TextMetrics{
			Width:  req.Width,
			Height: req.Height,
			Text:   req.Text,
		}, nil
	}

	if req.Text == "" {
		return placement.TextMetrics{}, fmt.Errorf("%w: 'text' or 'width' and 'height' are required", errBadInput)
	}

	fontSize := config.FontSize
	if req.FontSize != nil {
		fontSize = *req.FontSize
		if !(fontSize > 0) {
			return placement.TextMetrics{}, fmt.Errorf("%w: font_size must be > 0", errBadInput)
		}
	}
	return placement.EstimateTextMetrics(req.Text, fontSize), nil
}

func (srv *HTTPServer) computePlacements(ctx context.Context, config placement.Config, req *placementsRequest, metrics placement.TextMetrics, padding float64) ([]placement.Placement, bool, error) {
	polygons, err := req.Polygons()
	if err != nil {
		return nil, false, err
	}

	key := placement_cache.Key(polygons, metrics, padding, config.Evaluator)
	placements, found, err := srv.cache.Get(ctx, key)
	if err != nil {
		srv.logger.Warnf("Placements: cache get failed: %v", err)
	}
	if found {
		srv.statsCollector.AddCacheHits(1)
		return placements, true, nil
	}
	srv.statsCollector.AddCacheMisses(1)

	start := time.Now()
	placements, err = config.Evaluator.PlaceAllConcurrent(ctx, polygons, metrics, padding, config.Workers)
	if err != nil {
		return nil, false, err
	}
	srv.statsCollector.ObservePlacementDuration(time.Since(start))

	var fitting uint64
	for _, p := range placements {
		if p.FitsInside {
			fitting++
		}
	}
	srv.statsCollector.AddPlacementsComputed(uint64(len(placements)))
	srv.statsCollector.AddPlacementsFitting(fitting)

	if err := srv.cache.Set(ctx, key, placements); err != nil {
		srv.logger.Warnf("Placements: cache set failed: %v", err)
	}

	return placements, false, nil
}

func (srv *HTTPServer) handlePlacements(c *gin.Context) {
	var req placementsRequest
	if !srv.bindJSON(c, "Placements", &req) {
		return
	}

	config := srv.getConfigFn()

	metrics, err := req.metrics(config)
	if err != nil {
		srv.abortWithError(c, "Placements", err)
		return
	}

	padding := config.Padding
	if req.Padding != nil {
		padding = *req.Padding
	}

	placements, cached, err := srv.computePlacements(c.Request.Context(), config, &req, metrics, padding)
	if err != nil {
		srv.abortWithError(c, "Placements", err)
		return
	}

	resp := placementsResponse{
		Placements: placements,
		Metrics:    metrics,
		Cached:     cached,
	}

	if req.Best {
		best, err := placement.SelectBest(placements)
		if err != nil {
			srv.abortWithError(c, "Placements", err)
			return
		}
		resp.Best = &best
	}

	if req.Name != "" {
		if srv.labelsStore == nil {
			c.JSON(http.StatusServiceUnavailable, &APIErrorResponse{
				Error:     "no database configured: cannot store placements",
				RequestId: requestIdFromContext(c),
			})
			return
		}

		toSave := placements
		if resp.Best != nil {
			toSave = []placement.Placement{*resp.Best}
		}

		batchId := uuid.NewString()
		rows := make([]*db_store.LabelPlacement, len(toSave))
		for idx, p := range toSave {
			rows[idx] = db_store.NewLabelPlacement(batchId, req.Name, p, metrics)
		}
		if err := srv.labelsStore.InsertPlacements(c.Request.Context(), rows); err != nil {
			srv.abortWithError(c, "Placements", err)
			return
		}
		resp.BatchId = batchId
		srv.logger.Infof("LABELS: stored %d placements for '%s' as batch %s", len(rows), req.Name, batchId)
	}

	c.JSON(http.StatusOK, resp)
}
