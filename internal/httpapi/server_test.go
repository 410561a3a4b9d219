package httpapi_test

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/atlas/internal/config"
	"github.com/udisondev/atlas/internal/data"
	"github.com/udisondev/atlas/internal/geo"
	"github.com/udisondev/atlas/internal/geoip"
	"github.com/udisondev/atlas/internal/httpapi"
	"github.com/udisondev/atlas/internal/navigation"
	"github.com/udisondev/atlas/internal/testutil"
	"github.com/udisondev/atlas/internal/tile"
	"github.com/udisondev/atlas/internal/world"
)

var fixedNow = time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, locator geoip.Locator) http.Handler {
	t.Helper()
	g, err := world.FromRecords([]data.LocationRecord{
		testutil.Record("tokyo",
			testutil.ConnectedTo("osaka"),
			testutil.Gated("vault", "key"),
			testutil.InRegion("japan", "asia"),
			testutil.WithTimezone("UTC+9"),
			testutil.At(35.68, 139.69),
			testutil.WithTile("AB01", tile.Tile{
				Objects: []tile.Object{{Glyph: "#", Label: "wall", Fg: "#336699", Blocks: true}},
			}),
		),
		testutil.Record("osaka",
			testutil.ConnectedTo("kyoto"),
			testutil.InRegion("japan", "asia"),
			testutil.WithTimezone("UTC+9"),
			testutil.At(34.69, 135.50),
		),
		testutil.Record("kyoto",
			testutil.InRegion("japan", "asia"),
			testutil.WithTimezone("UTC+9"),
			testutil.At(35.01, 135.77),
		),
		testutil.Record("vault", testutil.WithType("dungeon")),
		testutil.Record("london",
			testutil.InRegion("uk", "europe"),
			testutil.At(51.51, -0.13),
		),
	})
	require.NoError(t, err)

	srv, err := httpapi.NewServer(httpapi.Deps{
		Service: navigation.NewService(g),
		Locator: locator,
		Render:  config.RenderConfig{DefaultQuality: "sextant", MaxWidth: 40, MaxHeight: 20},
		Now:     func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return srv.Routes()
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewServer_BadQuality(t *testing.T) {
	_, err := httpapi.NewServer(httpapi.Deps{Render: config.RenderConfig{DefaultQuality: "retina"}})
	assert.Error(t, err)
}

func TestStatusCodes(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"health", "/api/health", http.StatusOK},
		{"stats", "/api/stats", http.StatusOK},
		{"list", "/api/locations", http.StatusOK},
		{"list bad scale", "/api/locations?scale=galactic-ish", http.StatusBadRequest},
		{"get", "/api/locations/tokyo", http.StatusOK},
		{"get unknown", "/api/locations/atlantis", http.StatusNotFound},
		{"connections unknown", "/api/locations/atlantis/connections", http.StatusNotFound},
		{"neighbors bad hops", "/api/locations/tokyo/neighbors?hops=0", http.StatusBadRequest},
		{"time bad at", "/api/locations/tokyo/time?at=yesterday", http.StatusBadRequest},
		{"path missing to", "/api/path?from=tokyo", http.StatusBadRequest},
		{"path unknown", "/api/path?from=tokyo&to=atlantis", http.StatusNotFound},
		{"timediff unknown", "/api/timediff?a=tokyo&b=atlantis", http.StatusNotFound},
		{"render too wide", "/api/locations/tokyo/render?w=41", http.StatusBadRequest},
		{"render bad quality", "/api/locations/tokyo/render?quality=retina", http.StatusBadRequest},
		{"render bad origin", "/api/locations/tokyo/render?origin=1A00", http.StatusBadRequest},
		{"nearest without locator", "/api/nearest", http.StatusBadRequest},
		{"nearest bad lat", "/api/nearest?lat=x&lon=1", http.StatusBadRequest},
		{"nearest out of range", "/api/nearest?lat=91&lon=0", http.StatusBadRequest},
		{"nearby missing radius", "/api/nearby?lat=0&lon=0", http.StatusBadRequest},
		{"nearby negative radius", "/api/nearby?lat=0&lon=0&radius_km=-1", http.StatusBadRequest},
		{"metrics", "/metrics", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.url)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestListLocations_Filter(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(t, h, "/api/locations?region=japan")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[[]struct {
		ID string `json:"id"`
	}](t, rec)
	ids := make([]string, len(got))
	for i, l := range got {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"tokyo", "osaka", "kyoto"}, ids)
}

func TestGetLocation(t *testing.T) {
	h := newTestServer(t, nil)

	got := decode[struct {
		ID          string `json:"id"`
		Timezone    string `json:"timezone"`
		Cells       int    `json:"cells"`
		Connections []struct {
			To       string `json:"to"`
			Requires string `json:"requires"`
		} `json:"connections"`
		Extent *struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"extent"`
	}](t, get(t, h, "/api/locations/tokyo"))

	assert.Equal(t, "tokyo", got.ID)
	assert.Equal(t, "UTC+9", got.Timezone)
	assert.Equal(t, 1, got.Cells)
	require.Len(t, got.Connections, 2)
	assert.Equal(t, "osaka", got.Connections[0].To)
	assert.Equal(t, "key", got.Connections[1].Requires)
	require.NotNil(t, got.Extent)
	assert.Equal(t, "AB01", got.Extent.From)
	assert.Equal(t, "AB01", got.Extent.To)

	untiled := decode[struct {
		Extent *struct{} `json:"extent"`
	}](t, get(t, h, "/api/locations/london"))
	assert.Nil(t, untiled.Extent)
}

func TestListRegions(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(t, h, "/api/regions")
	require.Equal(t, http.StatusOK, rec.Code)

	type region struct {
		Region    string `json:"region"`
		Locations int    `json:"locations"`
	}
	got := decode[[]region](t, rec)
	assert.Equal(t, []region{{"japan", 3}, {"test", 1}, {"uk", 1}}, got)
}

func TestNeighbors(t *testing.T) {
	h := newTestServer(t, nil)

	got := decode[struct {
		Locations []string `json:"locations"`
	}](t, get(t, h, "/api/locations/osaka/neighbors"))
	assert.ElementsMatch(t, []string{"tokyo", "kyoto"}, got.Locations)

	got = decode[struct {
		Locations []string `json:"locations"`
	}](t, get(t, h, "/api/locations/london/neighbors"))
	assert.Empty(t, got.Locations)
}

func TestLocalTime(t *testing.T) {
	h := newTestServer(t, nil)

	type view struct {
		Local         string `json:"local"`
		UTC           string `json:"utc"`
		OffsetMinutes int    `json:"offset_minutes"`
	}

	got := decode[view](t, get(t, h, "/api/locations/tokyo/time"))
	assert.Equal(t, "2026-01-18T09:00:00+09:00", got.Local)
	assert.Equal(t, "2026-01-18T00:00:00Z", got.UTC)
	assert.Equal(t, 540, got.OffsetMinutes)

	got = decode[view](t, get(t, h, "/api/locations/tokyo/time?at=2026-06-01T20:30:00Z"))
	assert.Equal(t, "2026-06-02T05:30:00+09:00", got.Local)
}

func TestTimeDifference(t *testing.T) {
	h := newTestServer(t, nil)

	got := decode[struct {
		Minutes int `json:"minutes"`
	}](t, get(t, h, "/api/timediff?a=london&b=tokyo"))
	assert.Equal(t, 540, got.Minutes)
}

func TestFindPath(t *testing.T) {
	h := newTestServer(t, nil)

	type view struct {
		Found bool     `json:"found"`
		Path  []string `json:"path"`
		Hops  int      `json:"hops"`
		Steps []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"steps"`
	}

	tests := []struct {
		name      string
		url       string
		wantFound bool
		wantPath  []string
	}{
		{"forward", "/api/path?from=tokyo&to=kyoto", true, []string{"tokyo", "osaka", "kyoto"}},
		{"reverse edges", "/api/path?from=kyoto&to=tokyo", true, []string{"kyoto", "osaka", "tokyo"}},
		{"gated allowed", "/api/path?from=osaka&to=vault", true, []string{"osaka", "tokyo", "vault"}},
		{"gated avoided", "/api/path?from=osaka&to=vault&avoid_gated=true", false, nil},
		{"disconnected", "/api/path?from=tokyo&to=london", false, nil},
		{"self", "/api/path?from=tokyo&to=tokyo", true, []string{"tokyo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.url)
			require.Equal(t, http.StatusOK, rec.Code)
			got := decode[view](t, rec)
			assert.Equal(t, tt.wantFound, got.Found)
			assert.Equal(t, tt.wantPath, got.Path)
			if tt.wantFound {
				assert.Equal(t, len(tt.wantPath)-1, got.Hops)
				assert.Len(t, got.Steps, len(tt.wantPath)-1)
			}
		})
	}
}

func TestFindPath_StepBearing(t *testing.T) {
	h := newTestServer(t, nil)

	got := decode[struct {
		Steps []struct {
			Direction string  `json:"direction"`
			Bearing   float64 `json:"bearing_deg"`
		} `json:"steps"`
	}](t, get(t, h, "/api/path?from=osaka&to=tokyo"))

	require.Len(t, got.Steps, 1)
	want := geo.Coordinate{Lat: 34.69, Lon: 135.50}.Bearing(geo.Coordinate{Lat: 35.68, Lon: 139.69})
	assert.InDelta(t, want, got.Steps[0].Bearing, 0.06)
	assert.Greater(t, got.Steps[0].Bearing, 0.0)
	assert.Less(t, got.Steps[0].Bearing, 90.0)
}

func TestRender_Text(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(t, h, "/api/locations/tokyo/render?w=3&h=2&quality=ascii")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "   \n # \n", rec.Body.String())
}

func TestRender_JSON(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(t, h, "/api/locations/tokyo/render?w=2&h=2&origin=AA01&format=json")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[struct {
		Origin  string   `json:"origin"`
		Quality string   `json:"quality"`
		Lines   []string `json:"lines"`
		Cells   [][]struct {
			Glyph   string `json:"g"`
			Fg      string `json:"fg"`
			Blocked bool   `json:"blocked"`
		} `json:"cells"`
	}](t, rec)

	assert.Equal(t, "AA01", got.Origin)
	assert.Equal(t, "sextant", got.Quality)
	assert.Equal(t, []string{" #", "  "}, got.Lines)
	assert.Equal(t, "#", got.Cells[0][1].Glyph)
	assert.Equal(t, "#336699", got.Cells[0][1].Fg)
	assert.Empty(t, got.Cells[0][0].Fg)
	assert.True(t, got.Cells[0][1].Blocked)
	assert.False(t, got.Cells[0][0].Blocked)
	assert.False(t, got.Cells[1][1].Blocked)
}

func TestNearest(t *testing.T) {
	var looked net.IP
	locator := geoip.LocatorFunc(func(ip net.IP) (geoip.Result, error) {
		looked = ip
		return geoip.Result{Coordinate: geo.Coordinate{Lat: 51.5, Lon: -0.1}, Country: "GB"}, nil
	})
	h := newTestServer(t, locator)

	type view struct {
		Source   string `json:"source"`
		Location struct {
			ID string `json:"id"`
		} `json:"location"`
		DistanceKm float64 `json:"distance_km"`
	}

	t.Run("coordinate", func(t *testing.T) {
		got := decode[view](t, get(t, h, "/api/nearest?lat=34.7&lon=135.5"))
		assert.Equal(t, "coordinate", got.Source)
		assert.Equal(t, "osaka", got.Location.ID)
		assert.Less(t, got.DistanceKm, 5.0)
	})

	t.Run("coordinate with filter", func(t *testing.T) {
		got := decode[view](t, get(t, h, "/api/nearest?lat=34.7&lon=135.5&region=uk"))
		assert.Equal(t, "london", got.Location.ID)
	})

	t.Run("explicit ip", func(t *testing.T) {
		got := decode[view](t, get(t, h, "/api/nearest?ip=81.2.69.142"))
		assert.Equal(t, "ip", got.Source)
		assert.Equal(t, "london", got.Location.ID)
		assert.Equal(t, "81.2.69.142", looked.String())
	})

	t.Run("client address", func(t *testing.T) {
		got := decode[view](t, get(t, h, "/api/nearest"))
		assert.Equal(t, "client", got.Source)
		assert.Equal(t, "192.0.2.1", looked.String())
	})

	t.Run("no match", func(t *testing.T) {
		rec := get(t, h, "/api/nearest?lat=0&lon=0&region=mars")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNearest_NoLocation(t *testing.T) {
	locator := geoip.LocatorFunc(func(ip net.IP) (geoip.Result, error) {
		return geoip.Result{}, geoip.ErrNoLocation
	})
	h := newTestServer(t, locator)

	rec := get(t, h, "/api/nearest?ip=10.0.0.1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNearby(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(t, h, "/api/nearby?lat=34.69&lon=135.50&radius_km=500")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[[]struct {
		Location struct {
			ID string `json:"id"`
		} `json:"location"`
		DistanceKm float64 `json:"distance_km"`
	}](t, rec)

	ids := make([]string, len(got))
	for i, n := range got {
		ids[i] = n.Location.ID
	}
	assert.Equal(t, []string{"osaka", "kyoto", "tokyo"}, ids)
	assert.InDelta(t, 0, got[0].DistanceKm, 0.01)
}
