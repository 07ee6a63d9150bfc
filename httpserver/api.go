package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kartwerk/riverlabel/geo"
	"github.com/kartwerk/riverlabel/importer"
)

var errBadInput = errors.New("bad input")

type APIErrorResponse struct {
	Error     string `json:"error"`
	RequestId string `json:"request_id,omitempty"`
}

// GeometryInput accepts polygons as one WKT string, a list of WKT strings
// or a GeoJSON geometry. Exactly one must be given.
type GeometryInput struct {
	WKT      string            `json:"wkt"`
	WKTs     []string          `json:"wkts"`
	Geometry *geojson.Geometry `json:"geometry"`
}

func (in *GeometryInput) Polygons() ([]orb.Polygon, error) {
	given := 0
	if in.WKT != "" {
		given++
	}
	if len(in.WKTs) > 0 {
		given++
	}
	if in.Geometry != nil {
		given++
	}
	if given != 1 {
		return nil, fmt.Errorf("%w: exactly one of 'wkt', 'wkts' or 'geometry' is required", errBadInput)
	}

	var polygons []orb.Polygon

	switch {
	case in.Geometry != nil:
		polygons = geo.PolygonParts(in.Geometry.Geometry())
		if polygons == nil {
			return nil, fmt.Errorf("%w: unsupported geometry type '%s'", errBadInput, in.Geometry.Type)
		}
	default:
		wkts := in.WKTs
		if in.WKT != "" {
			wkts = []string{in.WKT}
		}
		for idx, s := range wkts {
			parts, err := importer.ParseWKT(s)
			if err != nil {
				return nil, fmt.Errorf("%w: wkt %d: %v", errBadInput, idx, err)
			}
			polygons = append(polygons, parts...)
		}
	}

	if len(polygons) == 0 {
		return nil, fmt.Errorf("%w: no polygons given", errBadInput)
	}

	for idx, polygon := range polygons {
		if err := geo.Validate(polygon); err != nil {
			return nil, fmt.Errorf("polygon %d: %w", idx, err)
		}
	}

	return polygons, nil
}

func isBadInput(err error) bool {
	return errors.Is(err, errBadInput) || errors.Is(err, geo.ErrInvalidGeometry)
}

// abortWithError maps err to a status code. Internal errors are logged and
// hidden from the client.
func (srv *HTTPServer) abortWithError(c *gin.Context, name string, err error) {
	requestId := requestIdFromContext(c)
	if isBadInput(err) {
		srv.logger.Warnf("%s[%s]: bad request: %v", name, requestId, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, &APIErrorResponse{
			Error:     err.Error(),
			RequestId: requestId,
		})
		return
	}

	srv.logger.Errorf("%s[%s]: %v", name, requestId, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, &APIErrorResponse{
		Error:     "an internal error occurred: check the logs",
		RequestId: requestId,
	})
}

func (srv *HTTPServer) bindJSON(c *gin.Context, name string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		srv.abortWithError(c, name, fmt.Errorf("%w: %v", errBadInput, err))
		return false
	}
	return true
}
