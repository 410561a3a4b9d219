package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var msBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 20, 50, 100, 250}

var (
	LocationsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "atlas_locations_loaded",
		Help: "Number of locations in the active graph",
	})
	LoadDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "atlas_load_duration_ms",
		Help:    "Dataset load and validation duration in milliseconds",
		Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
	})
	PathQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_path_queries_total",
		Help: "Path queries by outcome (found, none, unknown)",
	}, []string{"outcome"})
	PathHops = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "atlas_path_hops",
		Help:    "Hop count of found paths",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})
	RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_renders_total",
		Help: "Tile renders by requested quality",
	}, []string{"quality"})
	RenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "atlas_render_duration_ms",
		Help:    "Render duration in milliseconds",
		Buckets: msBuckets,
	})
	DegradedCellsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_degraded_cells_total",
		Help: "Cells rendered below the requested quality, by effective tier",
	}, []string{"tier"})
	UnknownColorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_unknown_colors_total",
		Help: "Colour lookups that fell back to the default",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_render_cache_hits_total",
		Help: "Render cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_render_cache_misses_total",
		Help: "Render cache misses",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"route", "status"})
	HTTPDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "atlas_http_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: msBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(LocationsLoaded)
	prometheus.MustRegister(LoadDurationMs)
	prometheus.MustRegister(PathQueriesTotal)
	prometheus.MustRegister(PathHops)
	prometheus.MustRegister(RendersTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(DegradedCellsTotal)
	prometheus.MustRegister(UnknownColorsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPDurationMs)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }
