package httpserver

import (
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIdHeader = "X-Request-Id"

func (srv *HTTPServer) authorizeAPI(c *gin.Context) {
	// anything goes for now.
	c.Next()
}

func (srv *HTTPServer) requestId(c *gin.Context) {
	id := c.GetHeader(requestIdHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIdHeader, id)
	c.Header(requestIdHeader, id)
	c.Next()
}

func requestIdFromContext(c *gin.Context) string {
	return c.GetString(requestIdHeader)
}

func (srv *HTTPServer) setupRoutes() {
	r := srv.ginRouter

	apiGroup := r.Group("/api", srv.requestId, srv.authorizeAPI)

	apiGroup.POST("/pole", srv.handlePole)
	apiGroup.POST("/orientation", srv.handleOrientation)
	apiGroup.POST("/placements", srv.handlePlacements)

	labelsGroup := apiGroup.Group("/labels")
	labelsGroup.GET("/batch/:batch_id", srv.handleGetLabelsByBatch)
	labelsGroup.GET("/name/:name", srv.handleGetLabelsByName)

	configGroup := apiGroup.Group("/config")
	configGroup.GET("", srv.handleGetConfig)
	configGroup.GET("/reload", srv.handleReload)
	configGroup.PUT("/reload", srv.handleReload)

	debugGroup := r.Group("/debug/pprof")
	debugGroup.GET("/", func(c *gin.Context) {
		pprof.Index(c.Writer, c.Request)
	})
	debugGroup.GET("/cmdline", func(c *gin.Context) {
		pprof.Cmdline(c.Writer, c.Request)
	})
	for _, name := range []string{"heap", "goroutine", "allocs", "block", "mutex", "threadcreate"} {
		handler := pprof.Handler(name)
		debugGroup.GET("/"+name, func(c *gin.Context) {
			handler.ServeHTTP(c.Writer, c.Request)
		})
	}
	debugGroup.GET("/trace", func(c *gin.Context) {
		pprof.Trace(c.Writer, c.Request)
	})
	debugGroup.GET("/profile", func(c *gin.Context) {
		pprof.Profile(c.Writer, c.Request)
	})
	debugGroup.GET("/symbol", func(c *gin.Context) {
		pprof.Symbol(c.Writer, c.Request)
	})
}
