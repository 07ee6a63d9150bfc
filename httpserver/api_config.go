package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kartwerk/riverlabel/placement"
)

func (srv *HTTPServer) handleReload(c *gin.Context) {
	type reloadResponse struct {
		Message string `json:"message"`
	}

	if srv.reloadFn == nil {
		c.JSON(http.StatusNotImplemented, APIErrorResponse{
			Error: "reloading is not enabled",
		})
		return
	}

	err := srv.reloadFn()
	if err != nil {
		srv.logger.Error(err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{
			Error: "an internal error occurred: check the logs",
		})
		return
	}

	srv.logger.Infof("placement config reloaded")

	c.JSON(http.StatusOK, reloadResponse{
		Message: "config has been reloaded",
	})
}

func (srv *HTTPServer) handleGetConfig(c *gin.Context) {
	type configResponse struct {
		PlacementConfig placement.Config `json:"placement"`
		Cache           string           `json:"cache"`
		StatsCollector  string           `json:"stats_collector"`
		Database        bool             `json:"database"`
	}

	type getConfigResponse struct {
		Config configResponse `json:"config"`
	}

	var resp getConfigResponse
	resp.Config.PlacementConfig = srv.getConfigFn()
	resp.Config.Cache = srv.cache.Name()
	resp.Config.StatsCollector = srv.statsCollector.Name()
	resp.Config.Database = srv.labelsStore != nil

	c.JSON(http.StatusOK, resp)
}
