package stats_collector

import (
	"time"

	"github.com/gin-gonic/gin"
)

var _ StatsCollector = (*noopCollector)(nil)

type noopCollector struct {
}

func (col *noopCollector) Name() string                               { return "no-op" }
func (col *noopCollector) RegisterGinEngine(*gin.Engine)              {}
func (col *noopCollector) AddPlacementsComputed(num uint64)           {}
func (col *noopCollector) AddPlacementsFitting(num uint64)            {}
func (col *noopCollector) AddSolverCells(num uint64)                  {}
func (col *noopCollector) AddCacheHits(num uint64)                    {}
func (col *noopCollector) AddCacheMisses(num uint64)                  {}
func (col *noopCollector) ObservePlacementDuration(dur time.Duration) {}

func NewNoopStatsCollector() StatsCollector {
	return &noopCollector{}
}
