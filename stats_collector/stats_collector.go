package stats_collector

import (
	"time"

	"github.com/gin-gonic/gin"
)

type StatsCollector interface {
	Name() string
	RegisterGinEngine(*gin.Engine)

	AddPlacementsComputed(num uint64)
	AddPlacementsFitting(num uint64)
	AddSolverCells(num uint64)
	AddCacheHits(num uint64)
	AddCacheMisses(num uint64)
	ObservePlacementDuration(time.Duration)
}

type Config interface {
	GetPrometheusConfig() PrometheusConfig
}

func GetStatsCollector(cfg Config) StatsCollector {
	promConfig := cfg.GetPrometheusConfig()
	if !promConfig.Enabled {
		return NewNoopStatsCollector()
	}
	return NewPrometheusCollector(promConfig)
}
