package world

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/atlas/internal/data"
	"github.com/udisondev/atlas/internal/metrics"
	"github.com/udisondev/atlas/internal/model"
	"github.com/udisondev/atlas/internal/tile"
)

// Load reads every record from src and builds a ready graph.
// Any integrity violation aborts the whole load with a *DataIntegrityError.
func Load(ctx context.Context, src data.Source) (*Graph, error) {
	start := time.Now()
	recs, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading locations: %w", err)
	}
	g, err := FromRecords(recs)
	if err != nil {
		return nil, err
	}
	metrics.LoadDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	metrics.LocationsLoaded.Set(float64(g.Len()))

	st := g.Statistics()
	slog.Info("loaded locations",
		"count", st.Count,
		"regions", len(st.ByRegion),
		"connections", st.Connections,
		"cells", st.Cells,
		"fingerprint", shortFingerprint(g.fingerprint))
	for _, s := range model.Scales() {
		if n := st.ByScale[s.String()]; n > 0 {
			slog.Debug("locations by scale", "scale", s.String(), "count", n)
		}
	}
	return g, nil
}

// FromRecords validates records and builds a ready graph.
func FromRecords(recs []data.LocationRecord) (*Graph, error) {
	g := &Graph{
		locations:   make([]*model.Location, 0, len(recs)),
		byID:        make(map[string]*model.Location, len(recs)),
		byRegion:    make(map[string][]*model.Location),
		byContinent: make(map[string][]*model.Location),
		byType:      make(map[string][]*model.Location),
		byScale:     make(map[model.Scale][]*model.Location),
	}

	for i := range recs {
		loc, err := buildLocation(&recs[i])
		if err != nil {
			return nil, err
		}
		if _, dup := g.byID[loc.ID]; dup {
			return nil, &DataIntegrityError{
				Kind:       KindDuplicateID,
				LocationID: loc.ID,
				Origin:     recs[i].Origin,
			}
		}
		g.byID[loc.ID] = loc
		g.locations = append(g.locations, loc)
	}
	g.state = StateLoaded

	for i, loc := range g.locations {
		for _, c := range loc.Connections {
			if _, ok := g.byID[c.To]; !ok {
				return nil, &DataIntegrityError{
					Kind:       KindDanglingConnection,
					LocationID: loc.ID,
					Field:      "connections.to",
					Value:      c.To,
					Origin:     recs[i].Origin,
				}
			}
		}
	}

	fp, err := fingerprint(recs)
	if err != nil {
		return nil, err
	}
	g.fingerprint = fp
	g.buildIndices()
	g.state = StateReady
	return g, nil
}

func (g *Graph) buildIndices() {
	for _, loc := range g.locations {
		g.byRegion[loc.Region] = append(g.byRegion[loc.Region], loc)
		if loc.Continent != "" {
			g.byContinent[loc.Continent] = append(g.byContinent[loc.Continent], loc)
		}
		g.byType[loc.Type] = append(g.byType[loc.Type], loc)
		g.byScale[loc.Scale] = append(g.byScale[loc.Scale], loc)
	}
	g.buildGrid()
}

func buildLocation(rec *data.LocationRecord) (*model.Location, error) {
	fail := func(kind IntegrityKind, field, value string, err error) error {
		return &DataIntegrityError{
			Kind:       kind,
			LocationID: rec.ID,
			Field:      field,
			Value:      value,
			Origin:     rec.Origin,
			Err:        err,
		}
	}

	if rec.ID == "" {
		return nil, fail(KindBadRecord, "id", "", fmt.Errorf("empty id"))
	}

	scale, err := model.ParseScale(rec.Scale)
	if err != nil {
		return nil, fail(KindBadScale, "scale", rec.Scale, err)
	}
	tz, err := model.ParseTimezone(rec.Timezone)
	if err != nil {
		return nil, fail(KindBadTimezone, "timezone", rec.Timezone, err)
	}
	if err := rec.Coordinates.Validate(); err != nil {
		return nil, fail(KindBadCoordinate, "coordinates", rec.Coordinates.String(), err)
	}

	conns := make([]model.Connection, 0, len(rec.Connections))
	for _, c := range rec.Connections {
		if c.To == "" {
			return nil, fail(KindDanglingConnection, "connections.to", "", fmt.Errorf("empty target"))
		}
		conns = append(conns, model.Connection{
			To:        c.To,
			Direction: model.ParseDirection(c.Direction),
			Label:     c.Label,
			Requires:  c.Requires,
		})
	}

	tiles := make(tile.Map, len(rec.Tiles))
	for raw, t := range rec.Tiles {
		id, err := tile.ParseCellID(raw)
		if err != nil {
			return nil, fail(KindBadCellID, "tiles", raw, err)
		}
		if _, dup := tiles[id]; dup {
			return nil, fail(KindBadCellID, "tiles", raw, fmt.Errorf("cell %s declared twice", id))
		}
		if err := checkTile(t); err != nil {
			return nil, fail(KindBadRecord, "tiles."+string(id), raw, err)
		}
		for _, m := range t.Markers {
			if !tile.KnownMarkerType(m.Type) {
				slog.Warn("unknown marker type, drawn as a plain dot",
					"location", rec.ID, "cell", string(id), "type", m.Type)
			}
		}
		tiles[id] = t
	}

	return &model.Location{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Scale:       scale,
		Region:      rec.Region,
		Continent:   rec.Continent,
		Type:        rec.Type,
		Timezone:    tz,
		Coordinate:  rec.Coordinates,
		Connections: conns,
		Tiles:       tiles,
	}, nil
}

// checkTile requires every object and sprite glyph to be exactly one character.
func checkTile(t tile.Tile) error {
	for i, o := range t.Objects {
		if err := checkGlyph(o.Glyph); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	for i, s := range t.Sprites {
		if err := checkGlyph(s.Glyph); err != nil {
			return fmt.Errorf("sprite %d: %w", i, err)
		}
	}
	for i, m := range t.Markers {
		if m.Type == "" {
			return fmt.Errorf("marker %d: empty type", i)
		}
	}
	return nil
}

func checkGlyph(g string) error {
	switch n := utf8.RuneCountInString(g); {
	case n == 0:
		return errors.New("empty glyph")
	case n > 1:
		return fmt.Errorf("glyph %q must be one character", g)
	}
	return nil
}

// fingerprint hashes the canonical JSON of the records (map keys are sorted by
// encoding/json, Origin is excluded), so the same dataset always hashes the same.
func fingerprint(recs []data.LocationRecord) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating hash: %w", err)
	}
	enc := json.NewEncoder(h)
	for i := range recs {
		if err := enc.Encode(&recs[i]); err != nil {
			return "", fmt.Errorf("hashing location %q: %w", recs[i].ID, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
