package compositor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/udisondev/atlas/internal/metrics"
	"github.com/udisondev/atlas/internal/tile"
)

// Compositor turns tile maps into frames. It holds no per-render state;
// the only thing shared between calls is the warning dedupe set.
type Compositor struct {
	warn *Warner
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithWarner shares a warning set between compositors.
func WithWarner(w *Warner) Option {
	return func(c *Compositor) { c.warn = w }
}

// WithLogger routes warnings to l with a fresh dedupe set.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compositor) { c.warn = NewWarner(l) }
}

// New returns a compositor. Without options it warns through slog.Default.
func New(opts ...Option) *Compositor {
	c := &Compositor{}
	for _, opt := range opts {
		opt(c)
	}
	if c.warn == nil {
		c.warn = NewWarner(nil)
	}
	return c
}

var std = New()

// Render draws tiles with the process-wide compositor.
func Render(tiles tile.Map, width, height int, q Quality) Frame {
	return std.Render(tiles, width, height, q)
}

// RenderAt draws a viewport with the process-wide compositor.
func RenderAt(tiles tile.Map, origin tile.CellID, width, height int, q Quality) Frame {
	return std.RenderAt(tiles, origin, width, height, q)
}

var (
	rendersByQuality [len(tiers)]prometheus.Counter
	degradedByTier   [len(tiers)]prometheus.Counter
)

func init() {
	for _, q := range Qualities() {
		rendersByQuality[q] = metrics.RendersTotal.WithLabelValues(q.String())
		degradedByTier[q] = metrics.DegradedCellsTotal.WithLabelValues(q.String())
	}
}

// Render draws the grid whose top-left cell is AA00: column index maps to x,
// row number to y. The result always has exactly height rows of width cells;
// non-positive sizes give an empty frame.
func (c *Compositor) Render(tiles tile.Map, width, height int, q Quality) Frame {
	return c.render(tiles, 0, 0, width, height, q)
}

// RenderAt draws the width x height viewport whose top-left cell is origin.
// An invalid origin renders a blank frame.
func (c *Compositor) RenderAt(tiles tile.Map, origin tile.CellID, width, height int, q Quality) Frame {
	if !origin.Valid() {
		c.warn.Warn("origin:"+string(origin), "invalid render origin", "origin", string(origin))
		return newFrame(width, height)
	}
	return c.render(tiles, origin.Col(), origin.Row(), width, height, q)
}

func (c *Compositor) render(tiles tile.Map, col0, row0, width, height int, q Quality) Frame {
	start := time.Now()
	if !q.Valid() {
		c.warn.Warn(fmt.Sprintf("quality:%d", q), "unknown render quality, using ascii", "quality", uint8(q))
		q = ASCII
	}
	f := newFrame(width, height)
	if len(f) > 0 && len(tiles) > 0 {
		if len(tiles) <= width*height {
			c.drawSparse(f, tiles, col0, row0, q)
		} else {
			c.drawDense(f, tiles, col0, row0, q)
		}
	}
	rendersByQuality[q].Inc()
	metrics.RenderDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	return f
}

// drawSparse walks the authored cells and places those inside the viewport.
func (c *Compositor) drawSparse(f Frame, tiles tile.Map, col0, row0 int, q Quality) {
	w, h := f.Width(), f.Height()
	for id, t := range tiles {
		if !id.Valid() {
			c.warn.Warn("cell:"+string(id), "skipping malformed cell id", "cell", string(id))
			continue
		}
		x, y := id.Col()-col0, id.Row()-row0
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		f[y][x] = c.compose(t, q)
	}
}

// drawDense walks the viewport and looks each cell up.
func (c *Compositor) drawDense(f Frame, tiles tile.Map, col0, row0 int, q Quality) {
	for y := range f {
		for x := range f[y] {
			id, ok := tile.CellAt(col0+x, row0+y)
			if !ok {
				continue
			}
			if t, ok := tiles[id]; ok {
				f[y][x] = c.compose(t, q)
			}
		}
	}
}

// compose picks the visible entity of a tile and renders it at q, stepping
// down a tier when the glyph cannot be shown.
func (c *Compositor) compose(t tile.Tile, q Quality) Cell {
	top, ok := topmost(t)
	if !ok {
		return Blank
	}
	glyph := top.Glyph
	if glyph == 0 {
		glyph = ' '
	}

	tr := resolveTier(q, glyph)
	if lvl := tr.Level(); lvl < q {
		degradedByTier[lvl].Inc()
		c.warn.Warn(
			fmt.Sprintf("glyph:%U@%s", glyph, q),
			"glyph unsupported at requested quality",
			"glyph", string(glyph), "quality", q.String(), "rendered_as", lvl.String())
	}

	return Cell{
		Glyph: tr.Glyph(glyph),
		Fg:    c.color(top.Fg, tr),
		Bg:    c.color(top.Bg, tr),
	}
}

func (c *Compositor) color(name string, tr tier) tcell.Color {
	col, ok := LookupColor(name)
	if !ok {
		metrics.UnknownColorsTotal.Inc()
		c.warn.Warn("color:"+name, "unknown color, using default", "color", name)
		return tcell.ColorDefault
	}
	if !tr.CanColor(col) {
		return tcell.ColorDefault
	}
	return tr.Color(col)
}

// topmost returns the appearance that wins a cell: the highest layer among
// objects and sprites, sprites over objects at equal layer, later entries over
// earlier ones. Markers show only when nothing else is present. Background
// comes from the highest-drawn entity that sets one.
func topmost(t tile.Tile) (tile.Appearance, bool) {
	var (
		out, marker  tile.Appearance
		bestZ, bgZ   int
		have, haveBg bool
		haveMarker   bool
	)
	// Entities yields markers, objects, sprites: the kind draw order.
	for _, e := range t.Entities() {
		a := e.Appearance()
		switch e.Kind() {
		case tile.KindMarker:
			marker, haveMarker = a, true
		case tile.KindObject, tile.KindSprite:
			z := e.Layer()
			if !have || z >= bestZ {
				bestZ, have = z, true
				out.Glyph, out.Fg = a.Glyph, a.Fg
			}
			if a.Bg != "" && (!haveBg || z >= bgZ) {
				bgZ, haveBg = z, true
				out.Bg = a.Bg
			}
		}
	}
	if have {
		return out, true
	}
	return marker, haveMarker
}
