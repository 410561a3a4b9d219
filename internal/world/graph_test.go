package world_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/atlas/internal/data"
	"github.com/udisondev/atlas/internal/model"
	"github.com/udisondev/atlas/internal/testutil"
	"github.com/udisondev/atlas/internal/tile"
	"github.com/udisondev/atlas/internal/world"
)

func mustGraph(t *testing.T, recs ...data.LocationRecord) *world.Graph {
	t.Helper()
	g, err := world.FromRecords(recs)
	require.NoError(t, err)
	return g
}

func TestLoadFromFile(t *testing.T) {
	g, err := world.Load(context.Background(), data.FileSource{Path: "../data/testdata/world.yaml"})
	require.NoError(t, err)

	assert.Equal(t, world.StateReady, g.State())
	assert.Equal(t, 2, g.Len())

	syd, ok := g.Get("L300-AA10")
	require.True(t, ok)
	assert.Equal(t, model.ScaleTerrestrial, syd.Scale)
	assert.Equal(t, 600, syd.Timezone.Minutes())
	assert.Equal(t, model.South, syd.Connections[0].Direction)
	require.Contains(t, syd.Tiles, tile.CellID("AA10"))
}

func TestLoadSourceError(t *testing.T) {
	_, err := world.Load(context.Background(), data.FileSource{Path: "missing.yaml"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, world.ErrDataIntegrity))
}

func TestReferentialIntegrityHolds(t *testing.T) {
	g := mustGraph(t,
		testutil.Record("a", testutil.ConnectedTo("b", "c")),
		testutil.Record("b", testutil.ConnectedTo("a")),
		testutil.Record("c"),
	)
	for _, loc := range g.All() {
		for _, c := range loc.Connections {
			_, ok := g.Get(c.To)
			assert.True(t, ok, "%s -> %s", loc.ID, c.To)
		}
	}
}

func TestIntegrityViolations(t *testing.T) {
	tests := []struct {
		name string
		recs []data.LocationRecord
		kind world.IntegrityKind
	}{
		{
			name: "duplicate id",
			recs: []data.LocationRecord{testutil.Record("a"), testutil.Record("a")},
			kind: world.KindDuplicateID,
		},
		{
			name: "dangling connection",
			recs: []data.LocationRecord{testutil.Record("a", testutil.ConnectedTo("ghost"))},
			kind: world.KindDanglingConnection,
		},
		{
			name: "empty connection target",
			recs: []data.LocationRecord{testutil.Record("a", testutil.ConnectedTo(""))},
			kind: world.KindDanglingConnection,
		},
		{
			name: "malformed timezone",
			recs: []data.LocationRecord{testutil.Record("a", testutil.WithTimezone("GMT+1"))},
			kind: world.KindBadTimezone,
		},
		{
			name: "latitude out of range",
			recs: []data.LocationRecord{testutil.Record("a", testutil.At(91, 0))},
			kind: world.KindBadCoordinate,
		},
		{
			name: "longitude out of range on cosmic scale",
			recs: []data.LocationRecord{testutil.Record("a", testutil.WithScale("cosmic"), testutil.At(0, 200))},
			kind: world.KindBadCoordinate,
		},
		{
			name: "malformed cell id",
			recs: []data.LocationRecord{testutil.Record("a", testutil.WithTile("A1", tile.Tile{}))},
			kind: world.KindBadCellID,
		},
		{
			name: "cell declared twice with different case",
			recs: []data.LocationRecord{testutil.Record("a",
				testutil.WithTile("ab01", tile.Tile{}),
				testutil.WithTile("AB01", tile.Tile{}))},
			kind: world.KindBadCellID,
		},
		{
			name: "unknown scale",
			recs: []data.LocationRecord{testutil.Record("a", testutil.WithScale("universal"))},
			kind: world.KindBadScale,
		},
		{
			name: "empty id",
			recs: []data.LocationRecord{testutil.Record("")},
			kind: world.KindBadRecord,
		},
		{
			name: "object without glyph",
			recs: []data.LocationRecord{testutil.Record("a",
				testutil.WithTile("AA00", tile.Tile{Objects: []tile.Object{{Label: "invisible"}}}))},
			kind: world.KindBadRecord,
		},
		{
			name: "object glyph of two characters",
			recs: []data.LocationRecord{testutil.Record("a",
				testutil.WithTile("AA00", tile.Tile{Objects: []tile.Object{{Glyph: "##"}}}))},
			kind: world.KindBadRecord,
		},
		{
			name: "sprite glyph of two characters",
			recs: []data.LocationRecord{testutil.Record("a",
				testutil.WithTile("AA00", tile.Tile{Sprites: []tile.Sprite{{Glyph: "🬂x"}}}))},
			kind: world.KindBadRecord,
		},
		{
			name: "marker without type",
			recs: []data.LocationRecord{testutil.Record("a",
				testutil.WithTile("AA00", tile.Tile{Markers: []tile.Marker{{Label: "?"}}}))},
			kind: world.KindBadRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := world.FromRecords(tt.recs)
			require.Error(t, err)
			assert.Nil(t, g, "no partial graph")
			assert.ErrorIs(t, err, world.ErrDataIntegrity)

			var die *world.DataIntegrityError
			require.ErrorAs(t, err, &die)
			assert.Equal(t, tt.kind, die.Kind)
		})
	}
}

func TestSingleRuneGlyphsAccepted(t *testing.T) {
	g := mustGraph(t, testutil.Record("a", testutil.WithTile("AA00", tile.Tile{
		Objects: []tile.Object{{Glyph: "⛩"}},
		Sprites: []tile.Sprite{{Glyph: "🬂"}},
		Markers: []tile.Marker{{Type: "no-such-marker"}},
	})))
	loc, ok := g.Get("a")
	require.True(t, ok)
	assert.True(t, tile.KnownMarkerType("poi"))
	assert.False(t, tile.KnownMarkerType(loc.Tiles["AA00"].Markers[0].Type))
}

func TestIntegrityErrorMessage(t *testing.T) {
	rec := testutil.Record("a", testutil.ConnectedTo("ghost"))
	rec.Origin = "earth.yaml"
	_, err := world.FromRecords([]data.LocationRecord{rec})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dangling-connection: location "a"`)
	assert.Contains(t, err.Error(), `"ghost"`)
	assert.Contains(t, err.Error(), "earth.yaml")
}

func TestCellIDsNormalised(t *testing.T) {
	g := mustGraph(t, testutil.Record("a", testutil.WithTile("bj10", tile.Tile{Markers: []tile.Marker{{Type: "poi"}}})))
	loc, _ := g.Get("a")
	assert.Contains(t, loc.Tiles, tile.CellID("BJ10"))
}

func TestFindBy(t *testing.T) {
	g := mustGraph(t,
		testutil.Record("syd", testutil.InRegion("oceania", "australia"), testutil.WithType("city")),
		testutil.Record("iss", testutil.InRegion("leo", ""), testutil.WithScale("orbital"), testutil.WithType("station")),
		testutil.Record("mel", testutil.InRegion("oceania", "australia"), testutil.WithType("city")),
		testutil.Record("akl", testutil.InRegion("oceania", "zealandia"), testutil.WithType("city")),
		testutil.Record("uluru", testutil.InRegion("oceania", "australia"), testutil.WithType("landmark")),
	)

	ids := func(locs []*model.Location) []string {
		out := make([]string, len(locs))
		for i, l := range locs {
			out[i] = l.ID
		}
		return out
	}

	orbital := model.ScaleOrbital
	tests := []struct {
		name   string
		filter world.Filter
		want   []string
	}{
		{"empty filter returns all in order", world.Filter{}, []string{"syd", "iss", "mel", "akl", "uluru"}},
		{"region", world.Filter{Region: "oceania"}, []string{"syd", "mel", "akl", "uluru"}},
		{"continent", world.Filter{Continent: "australia"}, []string{"syd", "mel", "uluru"}},
		{"region and type", world.Filter{Region: "oceania", Type: "city"}, []string{"syd", "mel", "akl"}},
		{"continent and type", world.Filter{Continent: "australia", Type: "landmark"}, []string{"uluru"}},
		{"scale", world.Filter{Scale: &orbital}, []string{"iss"}},
		{"scale helper", world.ByScale(model.ScaleTerrestrial), []string{"syd", "mel", "akl", "uluru"}},
		{"no match", world.Filter{Region: "mars"}, []string{}},
		{"conflicting", world.Filter{Region: "leo", Type: "city"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(g.FindBy(tt.filter)))
		})
	}
}

func TestStatistics(t *testing.T) {
	g := mustGraph(t,
		testutil.Record("a", testutil.ConnectedTo("b"), testutil.WithTile("AA00", tile.Tile{
			Objects: []tile.Object{{Glyph: "#"}},
			Sprites: []tile.Sprite{{Glyph: "@"}},
		})),
		testutil.Record("b", testutil.WithScale("stellar"), testutil.WithType("star")),
	)

	st := g.Statistics()
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, map[string]int{"terrestrial": 1, "stellar": 1}, st.ByScale)
	assert.Equal(t, map[string]int{"town": 1, "star": 1}, st.ByType)
	assert.Equal(t, 1, st.Connections)
	assert.Equal(t, 1, st.Cells)
	assert.Equal(t, 2, st.Entities)
	assert.Equal(t, g.Fingerprint(), st.Fingerprint)
}

func TestFingerprintStable(t *testing.T) {
	recs := testutil.Chain("a", "b", "c")
	g1 := mustGraph(t, recs...)
	g2 := mustGraph(t, testutil.Chain("a", "b", "c")...)
	assert.Len(t, g1.Fingerprint(), 64)
	assert.Equal(t, g1.Fingerprint(), g2.Fingerprint())

	other := mustGraph(t, testutil.Chain("a", "b", "d")...)
	assert.NotEqual(t, g1.Fingerprint(), other.Fingerprint())
}

func TestRegions(t *testing.T) {
	g := mustGraph(t,
		testutil.Record("a", testutil.InRegion("x", "")),
		testutil.Record("b", testutil.InRegion("y", "")),
		testutil.Record("c", testutil.InRegion("x", "")),
	)
	assert.Equal(t, []string{"x", "y"}, g.Regions())

	_, ok := g.Get("nope")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	g := mustGraph(t, testutil.Chain("a", "b")...)
	all := g.All()
	all[0] = nil
	loc, ok := g.Get("a")
	require.True(t, ok)
	assert.Equal(t, loc, g.All()[0])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unloaded", world.StateUnloaded.String())
	assert.Equal(t, "loaded", world.StateLoaded.String())
	assert.Equal(t, "ready", world.StateReady.String())
}
