package stats_collector

import (
	"fmt"
	"time"

	"github.com/Depado/ginprom"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	DEFAULT_PROMETHEUS_NAMESPACE = "riverlabel"
)

type PrometheusConfig struct {
	Enabled    bool      `koanf:"enabled" json:"enabled"`
	Token      string    `koanf:"token" json:"-"`
	BucketSize []float64 `koanf:"bucket_size" json:"bucket_size"`
	Namespace  string    `koanf:"namespace" json:"namespace"`
}

func (cfg *PrometheusConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}

	for idx, bucket := range cfg.BucketSize {
		if idx > 0 && bucket <= cfg.BucketSize[idx-1] {
			return fmt.Errorf("invalid bucket_size: buckets must be increasing (%v)", cfg.BucketSize)
		}
	}

	return nil
}

func GetDefaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{
		BucketSize: []float64{.00005, .000075, .0001, .00025, .0005, .00075, .001, .0025, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		Namespace:  DEFAULT_PROMETHEUS_NAMESPACE,
	}
}

var _ StatsCollector = (*PrometheusCollector)(nil)

type PrometheusCollector struct {
	config   PrometheusConfig
	registry *prometheus.Registry

	placementsComputed prometheus.Counter
	placementsFitting  prometheus.Counter
	solverCells        prometheus.Counter
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	placementDuration  prometheus.Histogram
}

func (col *PrometheusCollector) Name() string {
	return "prometheus"
}

func (col *PrometheusCollector) Registry() *prometheus.Registry {
	return col.registry
}

func (col *PrometheusCollector) RegisterGinEngine(engine *gin.Engine) {
	p := ginprom.New(
		ginprom.Engine(engine),
		ginprom.Registry(col.registry),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
		ginprom.Token(col.config.Token),
		ginprom.BucketSize(col.config.BucketSize),
	)
	engine.Use(p.Instrument())
}

func (col *PrometheusCollector) AddPlacementsComputed(num uint64) {
	col.placementsComputed.Add(float64(num))
}

func (col *PrometheusCollector) AddPlacementsFitting(num uint64) {
	col.placementsFitting.Add(float64(num))
}

func (col *PrometheusCollector) AddSolverCells(num uint64) {
	col.solverCells.Add(float64(num))
}

func (col *PrometheusCollector) AddCacheHits(num uint64) {
	col.cacheHits.Add(float64(num))
}

func (col *PrometheusCollector) AddCacheMisses(num uint64) {
	col.cacheMisses.Add(float64(num))
}

func (col *PrometheusCollector) ObservePlacementDuration(dur time.Duration) {
	col.placementDuration.Observe(dur.Seconds())
}

func NewPrometheusCollector(config PrometheusConfig) *PrometheusCollector {
	ns := config.Namespace
	if ns == "" {
		ns = DEFAULT_PROMETHEUS_NAMESPACE
	}

	buckets := config.BucketSize
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()
	collector := &PrometheusCollector{
		config:   config,
		registry: registry,
		placementsComputed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "placements_computed",
				Help:      "Total number of label placements computed",
			},
		),
		placementsFitting: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "placements_fitting",
				Help:      "Total number of computed placements where the label fits inside",
			},
		),
		solverCells: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "solver_cells",
				Help:      "Total number of cells evaluated by the pole solver",
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "cache_hits",
				Help:      "Total number of placement requests served from cache",
			},
		),
		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "cache_misses",
				Help:      "Total number of placement requests not found in cache",
			},
		),
		placementDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "placement_duration_seconds",
				Help:      "Time spent computing a single placement",
				Buckets:   buckets,
			},
		),
	}

	processOpts := collectors.ProcessCollectorOpts{
		Namespace: ns,
	}

	registry.MustRegister(
		collectors.NewProcessCollector(processOpts),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.MetricsGC,
				collectors.MetricsMemory,
			),
		),
		collector.placementsComputed,
		collector.placementsFitting,
		collector.solverCells,
		collector.cacheHits,
		collector.cacheMisses,
		collector.placementDuration,
	)

	return collector
}
