package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/udisondev/atlas/internal/compositor"
	"github.com/udisondev/atlas/internal/config"
	"github.com/udisondev/atlas/internal/geoip"
	"github.com/udisondev/atlas/internal/metrics"
	"github.com/udisondev/atlas/internal/navigation"
	"github.com/udisondev/atlas/internal/rendercache"
)

// Deps are the collaborators the API serves. Cache and Locator are optional.
type Deps struct {
	Service    *navigation.Service
	Compositor *compositor.Compositor
	Cache      *rendercache.Cache
	Locator    geoip.Locator
	Render     config.RenderConfig
	Now        func() time.Time
}

// Server holds the handlers.
type Server struct {
	svc     *navigation.Service
	comp    *compositor.Compositor
	cache   *rendercache.Cache
	locator geoip.Locator
	render  config.RenderConfig
	quality compositor.Quality
	now     func() time.Time
}

// NewServer validates deps and fills defaults.
func NewServer(d Deps) (*Server, error) {
	q := compositor.Sextant
	if d.Render.DefaultQuality != "" {
		var err error
		if q, err = compositor.ParseQuality(d.Render.DefaultQuality); err != nil {
			return nil, err
		}
	}
	s := &Server{
		svc:     d.Service,
		comp:    d.Compositor,
		cache:   d.Cache,
		locator: d.Locator,
		render:  d.Render,
		quality: q,
		now:     d.Now,
	}
	if s.comp == nil {
		s.comp = compositor.New()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.render.MaxWidth <= 0 {
		s.render.MaxWidth = config.DefaultAtlas().Render.MaxWidth
	}
	if s.render.MaxHeight <= 0 {
		s.render.MaxHeight = config.DefaultAtlas().Render.MaxHeight
	}
	return s, nil
}

// Routes configures all routes and returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/stats", s.getStats)

		r.Get("/regions", s.listRegions)
		r.Get("/locations", s.listLocations)
		r.Route("/locations/{id}", func(r chi.Router) {
			r.Get("/", s.getLocation)
			r.Get("/connections", s.getConnections)
			r.Get("/neighbors", s.getNeighbors)
			r.Get("/time", s.getLocalTime)
			r.Get("/render", s.renderLocation)
		})

		r.Get("/path", s.findPath)
		r.Get("/timediff", s.timeDifference)
		r.Get("/nearest", s.nearest)
		r.Get("/nearby", s.nearby)
	})

	r.Handle("/metrics", metrics.Handler())
	return r
}

// instrument records per-route metrics and a debug log line.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.HTTPDurationMs.WithLabelValues(route).Observe(float64(elapsed.Microseconds()) / 1000)
		slog.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encoding json response", "err", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
