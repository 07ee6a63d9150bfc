// Package placement_cache stores computed placements so identical requests
// skip the solver.
package placement_cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/sirupsen/logrus"

	"github.com/kartwerk/riverlabel/placement"
)

type Cache interface {
	Name() string
	// Get reports a miss with found == false and a nil error.
	Get(ctx context.Context, key string) (placements []placement.Placement, found bool, err error)
	Set(ctx context.Context, key string, placements []placement.Placement) error
}

// Key hashes everything that influences a placement: the polygons, the text
// box, the padding and the evaluator tunables.
func Key(polygons []orb.Polygon, metrics placement.TextMetrics, padding float64, evaluator placement.Evaluator) string {
	digest := xxhash.New()

	for _, polygon := range polygons {
		digest.WriteString(wkt.MarshalString(polygon))
		digest.WriteString("\n")
	}
	fmt.Fprintf(digest, "%g|%g|%g|%g|%g|%g|%g|%g",
		metrics.Width,
		metrics.Height,
		padding,
		evaluator.Precision,
		evaluator.WidthFactor,
		evaluator.HeightFactor,
		evaluator.WidthTolerance,
		evaluator.HeightTolerance,
	)

	return strconv.FormatUint(digest.Sum64(), 16)
}

func NewCache(cfg Config, logger *logrus.Logger) Cache {
	if !cfg.Enabled {
		return NewNoopCache()
	}
	logger.Infof("STARTUP: caching placements in redis at %s (ttl %s)", cfg.Addr, cfg.TTL())
	return NewRedisCache(cfg)
}
