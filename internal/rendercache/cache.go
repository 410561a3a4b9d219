package rendercache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/atlas/internal/compositor"
	"github.com/udisondev/atlas/internal/metrics"
	"github.com/udisondev/atlas/internal/tile"
)

// Backend is a byte store with expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Cache stores rendered frames. Keys embed the dataset fingerprint, so a new
// dataset never serves stale frames.
type Cache struct {
	backend     Backend
	ttl         time.Duration
	fingerprint string
}

// New returns a cache over b. A nil *Cache is valid and caches nothing.
func New(b Backend, ttl time.Duration, fingerprint string) *Cache {
	if len(fingerprint) > 16 {
		fingerprint = fingerprint[:16]
	}
	return &Cache{backend: b, ttl: ttl, fingerprint: fingerprint}
}

// Key identifies one render request.
func (c *Cache) Key(locationID string, origin tile.CellID, w, h int, q compositor.Quality) string {
	if origin == "" {
		origin = "AA00"
	}
	fp := ""
	if c != nil {
		fp = c.fingerprint
	}
	return fmt.Sprintf("atlas:render:%s:%s:%s:%dx%d:%s", fp, locationID, origin, w, h, q)
}

// GetOrRender returns the cached frame for key, or calls render and stores the
// result. Backend failures are logged and fall through to render.
func (c *Cache) GetOrRender(ctx context.Context, key string, render func() compositor.Frame) compositor.Frame {
	if c == nil || c.backend == nil {
		return render()
	}

	raw, ok, err := c.backend.Get(ctx, key)
	switch {
	case err != nil:
		slog.Warn("render cache get failed", "key", key, "err", err)
	case ok:
		var f compositor.Frame
		if err := json.Unmarshal(raw, &f); err == nil {
			metrics.CacheHitsTotal.Inc()
			return f
		}
		slog.Warn("render cache entry undecodable", "key", key)
	}
	metrics.CacheMissesTotal.Inc()

	f := render()
	raw, err = json.Marshal(f)
	if err != nil {
		slog.Warn("render cache encode failed", "key", key, "err", err)
		return f
	}
	if err := c.backend.Set(ctx, key, raw, c.ttl); err != nil {
		slog.Warn("render cache set failed", "key", key, "err", err)
	}
	return f
}
