package testutil

import (
	"fmt"

	"github.com/udisondev/atlas/internal/data"
	"github.com/udisondev/atlas/internal/geo"
	"github.com/udisondev/atlas/internal/tile"
)

// RecordOption tweaks a fixture record.
type RecordOption func(*data.LocationRecord)

// Record returns a valid terrestrial record with the given id.
func Record(id string, opts ...RecordOption) data.LocationRecord {
	rec := data.LocationRecord{
		ID:          id,
		Name:        "Location " + id,
		Description: "Fixture location " + id,
		Scale:       "terrestrial",
		Region:      "test",
		Timezone:    "UTC+0",
		Coordinates: geo.Coordinate{Lat: 0, Lon: 0},
		Type:        "town",
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// ConnectedTo appends connections to every id, in order.
func ConnectedTo(ids ...string) RecordOption {
	return func(r *data.LocationRecord) {
		for _, id := range ids {
			r.Connections = append(r.Connections, data.ConnectionRecord{
				To:        id,
				Direction: "east",
				Label:     "to " + id,
			})
		}
	}
}

// Gated appends a connection carrying a requirement.
func Gated(to, requires string) RecordOption {
	return func(r *data.LocationRecord) {
		r.Connections = append(r.Connections, data.ConnectionRecord{
			To: to, Direction: "in", Label: "gate", Requires: requires,
		})
	}
}

// InRegion sets region and continent.
func InRegion(region, continent string) RecordOption {
	return func(r *data.LocationRecord) {
		r.Region = region
		r.Continent = continent
	}
}

// WithScale sets the scale name.
func WithScale(scale string) RecordOption {
	return func(r *data.LocationRecord) { r.Scale = scale }
}

// WithType sets the location type.
func WithType(typ string) RecordOption {
	return func(r *data.LocationRecord) { r.Type = typ }
}

// WithTimezone sets the raw timezone string.
func WithTimezone(tz string) RecordOption {
	return func(r *data.LocationRecord) { r.Timezone = tz }
}

// At sets the coordinate.
func At(lat, lon float64) RecordOption {
	return func(r *data.LocationRecord) { r.Coordinates = geo.Coordinate{Lat: lat, Lon: lon} }
}

// WithTile places a tile under the raw cell key.
func WithTile(cell string, t tile.Tile) RecordOption {
	return func(r *data.LocationRecord) {
		if r.Tiles == nil {
			r.Tiles = make(map[string]tile.Tile)
		}
		r.Tiles[cell] = t
	}
}

// Chain builds ids[0] -> ids[1] -> ... with one declared connection per hop.
func Chain(ids ...string) []data.LocationRecord {
	recs := make([]data.LocationRecord, len(ids))
	for i, id := range ids {
		if i+1 < len(ids) {
			recs[i] = Record(id, ConnectedTo(ids[i+1]))
		} else {
			recs[i] = Record(id)
		}
	}
	return recs
}

// DenseTiles fills a w×h block starting at AA00 with one object per cell and a
// sprite on every third cell, approximating an authored town map.
func DenseTiles(w, h int) map[string]tile.Tile {
	out := make(map[string]tile.Tile, w*h)
	glyphs := []string{"▓", "░", "#", "🬗", "▚", "~", "♣"}
	colors := []string{"green", "#336699", "white", "border", "yellow"}
	for row := range h {
		for col := range w {
			id, ok := tile.CellAt(col, row)
			if !ok {
				continue
			}
			n := row*w + col
			t := tile.Tile{
				Objects: []tile.Object{{
					Glyph: glyphs[n%len(glyphs)],
					Label: fmt.Sprintf("obj-%d", n),
					Z:     n % 3,
					Fg:    colors[n%len(colors)],
				}},
			}
			if n%3 == 0 {
				t.Sprites = []tile.Sprite{{ID: fmt.Sprintf("s%d", n), Glyph: "@", Z: 1, Fg: "red"}}
			}
			if n%7 == 0 {
				t.Markers = []tile.Marker{{Type: "poi", Label: "poi"}}
			}
			out[string(id)] = t
		}
	}
	return out
}
