package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kartwerk/riverlabel/placement"
	"github.com/kartwerk/riverlabel/placement_cache"
	"github.com/kartwerk/riverlabel/stats_collector"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type HTTPServer struct {
	logger         *logrus.Logger
	ginRouter      *gin.Engine
	statsCollector stats_collector.StatsCollector
	cache          placement_cache.Cache
	labelsStore    LabelsStore
	getConfigFn    func() placement.Config
	reloadFn       func() error
}

// Run starts and runs the HTTP server until 'ctx' is cancelled or the server fails to start.
func (srv *HTTPServer) Run(ctx context.Context, address string, shutdownWaitTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:    address,
		Handler: srv.ginRouter,
	}

	doneCh := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			doneCh <- err
		}()
		err = httpServer.ListenAndServe()
		if err != nil {
			if err == http.ErrServerClosed {
				err = nil
			} else {
				err = fmt.Errorf("Failed to listen and start http server: %w", err)
			}
		}
	}()

	select {
	case <-ctx.Done():
		sdCtx, sdCancelFn := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer sdCancelFn()
		err := httpServer.Shutdown(sdCtx)
		if err != nil {
			if err == context.DeadlineExceeded {
				return errors.New("Graceful HTTP server shutdown timed out.")
			}
			return fmt.Errorf("Error during http server shutdown: %w", err)
		}
		return <-doneCh
	case err := <-doneCh:
		return err
	}
}

func (srv *HTTPServer) Handler() http.Handler {
	return srv.ginRouter
}

// NewHTTPServer creates the API server. 'labelsStore' may be nil when no
// database is configured, and 'reloadFn' may be nil to disable reloads.
func NewHTTPServer(logger *logrus.Logger, statsCollector stats_collector.StatsCollector, cache placement_cache.Cache, labelsStore LabelsStore, getConfigFn func() placement.Config, reloadFn func() error) (*HTTPServer, error) {
	if getConfigFn == nil {
		return nil, errors.New("no placement config getter given")
	}
	if statsCollector == nil {
		statsCollector = stats_collector.NewNoopStatsCollector()
	}
	if cache == nil {
		cache = placement_cache.NewNoopCache()
	}

	r := gin.New()
	r.Use(gin.RecoveryWithWriter(logger.Writer()))
	statsCollector.RegisterGinEngine(r)

	srv := &HTTPServer{
		logger:         logger,
		ginRouter:      r,
		statsCollector: statsCollector,
		cache:          cache,
		labelsStore:    labelsStore,
		getConfigFn:    getConfigFn,
		reloadFn:       reloadFn,
	}

	srv.setupRoutes()
	return srv, nil
}
