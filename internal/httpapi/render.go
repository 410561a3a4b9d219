package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/go-chi/chi/v5"

	"github.com/udisondev/atlas/internal/compositor"
	"github.com/udisondev/atlas/internal/tile"
)

const (
	defaultRenderWidth  = 80
	defaultRenderHeight = 30
)

type cellView struct {
	Glyph string `json:"g"`
	Fg    string `json:"fg,omitempty"`
	Bg    string `json:"bg,omitempty"`
	// Blocked marks cells holding an object that blocks movement.
	Blocked bool `json:"blocked,omitempty"`
}

type frameView struct {
	ID      string       `json:"id"`
	Origin  string       `json:"origin"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Quality string       `json:"quality"`
	Lines   []string     `json:"lines"`
	Cells   [][]cellView `json:"cells,omitempty"`
}

func colorString(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return ""
	}
	if v := c.Hex(); v >= 0 {
		return fmt.Sprintf("#%06x", v)
	}
	return ""
}

func intParam(r *http.Request, name string, def, maxVal int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return min(def, maxVal), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxVal {
		return 0, fmt.Errorf("%s must be between 1 and %d", name, maxVal)
	}
	return n, nil
}

// renderLocation handles GET /api/locations/{id}/render?w=&h=&quality=&origin=&format=
func (s *Server) renderLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	loc, err := s.svc.GetLocation(id)
	if err != nil {
		respondLookupError(w, err)
		return
	}

	width, err := intParam(r, "w", defaultRenderWidth, s.render.MaxWidth)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := intParam(r, "h", defaultRenderHeight, s.render.MaxHeight)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := s.quality
	if v := r.URL.Query().Get("quality"); v != "" {
		if q, err = compositor.ParseQuality(v); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	origin := tile.CellID("AA00")
	if v := r.URL.Query().Get("origin"); v != "" {
		if origin, err = tile.ParseCellID(v); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	key := s.cache.Key(id, origin, width, height, q)
	frame := s.cache.GetOrRender(r.Context(), key, func() compositor.Frame {
		return s.comp.RenderAt(loc.Tiles, origin, width, height, q)
	})

	if r.URL.Query().Get("format") != "json" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(frame.String() + "\n"))
		return
	}

	out := frameView{
		ID:      id,
		Origin:  string(origin),
		Width:   frame.Width(),
		Height:  frame.Height(),
		Quality: q.String(),
		Lines:   frame.Lines(),
		Cells:   make([][]cellView, len(frame)),
	}
	for y, row := range frame {
		out.Cells[y] = make([]cellView, len(row))
		for x, c := range row {
			out.Cells[y][x] = cellView{Glyph: string(c.Glyph), Fg: colorString(c.Fg), Bg: colorString(c.Bg)}
			if cell, ok := tile.CellAt(origin.Col()+x, origin.Row()+y); ok {
				out.Cells[y][x].Blocked = loc.Tiles[cell].Blocked()
			}
		}
	}
	respondJSON(w, http.StatusOK, out)
}
