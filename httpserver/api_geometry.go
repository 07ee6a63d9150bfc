package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kartwerk/riverlabel/geo"
	"github.com/kartwerk/riverlabel/orientation"
	"github.com/kartwerk/riverlabel/polylabel"
)

type poleRequest struct {
	GeometryInput
	Precision *float64 `json:"precision"`
}

type poleResponse struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
	Cells    int     `json:"cells"`
}

// largestPart is the part a single-answer endpoint works on.
func largestPart(polygons []orb.Polygon) orb.Polygon {
	return geo.LargestPolygon(orb.MultiPolygon(polygons))
}

func (srv *HTTPServer) handlePole(c *gin.Context) {
	var req poleRequest
	if !srv.bindJSON(c, "Pole", &req) {
		return
	}

	precision := srv.getConfigFn().Evaluator.Precision
	if req.Precision != nil {
		precision = *req.Precision
		if !(precision > 0) {
			srv.abortWithError(c, "Pole", fmt.Errorf("%w: precision must be > 0", errBadInput))
			return
		}
	}

	polygons, err := req.Polygons()
	if err != nil {
		srv.abortWithError(c, "Pole", err)
		return
	}

	shape := geo.NewShape(largestPart(polygons))
	result := polylabel.SolveWithStats(shape, precision)
	srv.statsCollector.AddSolverCells(uint64(result.Cells))

	c.JSON(http.StatusOK, poleResponse{
		X:        result.X,
		Y:        result.Y,
		Distance: result.Distance,
		Cells:    result.Cells,
	})
}

type orientationResponse struct {
	Rotation float64           `json:"rotation_degrees"`
	Box      *geojson.Geometry `json:"box"`
}

func (srv *HTTPServer) handleOrientation(c *gin.Context) {
	var req GeometryInput
	if !srv.bindJSON(c, "Orientation", &req) {
		return
	}

	polygons, err := req.Polygons()
	if err != nil {
		srv.abortWithError(c, "Orientation", err)
		return
	}

	polygon := geo.Normalize(largestPart(polygons))
	box, angle := orientation.MinimumAreaOBB(polygon)

	resp := orientationResponse{
		Rotation: orientation.NormalizeAngle(angle),
	}
	if len(box) > 0 {
		resp.Box = geojson.NewGeometry(orb.Polygon{box})
	}

	c.JSON(http.StatusOK, resp)
}
