package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/udisondev/atlas/internal/geo"
	"github.com/udisondev/atlas/internal/model"
	"github.com/udisondev/atlas/internal/navigation"
	"github.com/udisondev/atlas/internal/tile"
	"github.com/udisondev/atlas/internal/world"
)

type connectionView struct {
	To        string `json:"to"`
	Direction string `json:"direction"`
	Label     string `json:"label"`
	Requires  string `json:"requires,omitempty"`
}

type locationView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Scale       string           `json:"scale"`
	Region      string           `json:"region"`
	Continent   string           `json:"continent,omitempty"`
	Type        string           `json:"type"`
	Timezone    string           `json:"timezone"`
	Coordinate  geo.Coordinate   `json:"coordinate"`
	Connections []connectionView `json:"connections,omitempty"`
	Cells       int              `json:"cells"`
	Extent      *extentView      `json:"extent,omitempty"`
}

// extentView is the top-left and bottom-right authored cells.
type extentView struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func viewExtent(m tile.Map) *extentView {
	minCol, minRow, maxCol, maxRow, ok := m.Bounds()
	if !ok {
		return nil
	}
	from, _ := tile.CellAt(minCol, minRow)
	to, _ := tile.CellAt(maxCol, maxRow)
	return &extentView{From: string(from), To: string(to)}
}

func viewConnections(conns []model.Connection) []connectionView {
	out := make([]connectionView, len(conns))
	for i, c := range conns {
		out[i] = connectionView{To: c.To, Direction: string(c.Direction), Label: c.Label, Requires: c.Requires}
	}
	return out
}

func viewLocation(l *model.Location, withConnections bool) locationView {
	v := locationView{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Scale:       l.Scale.String(),
		Region:      l.Region,
		Continent:   l.Continent,
		Type:        l.Type,
		Timezone:    l.Timezone.String(),
		Coordinate:  l.Coordinate,
		Cells:       len(l.Tiles),
		Extent:      viewExtent(l.Tiles),
	}
	if withConnections {
		v.Connections = viewConnections(l.Connections)
	}
	return v
}

// respondLookupError maps service errors to status codes.
func respondLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, navigation.ErrNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

// parseFilter reads region, continent, type and scale query parameters.
func parseFilter(r *http.Request) (world.Filter, error) {
	q := r.URL.Query()
	f := world.Filter{
		Region:    q.Get("region"),
		Continent: q.Get("continent"),
		Type:      q.Get("type"),
	}
	if s := q.Get("scale"); s != "" {
		scale, err := model.ParseScale(s)
		if err != nil {
			return f, err
		}
		f.Scale = &scale
	}
	return f, nil
}

// listLocations handles GET /api/locations
func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	locs := s.svc.Find(f)
	out := make([]locationView, len(locs))
	for i, l := range locs {
		out[i] = viewLocation(l, false)
	}
	respondJSON(w, http.StatusOK, out)
}

// getLocation handles GET /api/locations/{id}
func (s *Server) getLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := s.svc.GetLocation(chi.URLParam(r, "id"))
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewLocation(loc, true))
}

// getConnections handles GET /api/locations/{id}/connections
func (s *Server) getConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := s.svc.GetConnections(chi.URLParam(r, "id"))
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, viewConnections(conns))
}

// getNeighbors handles GET /api/locations/{id}/neighbors?hops=
func (s *Server) getNeighbors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hops := 1
	if v := r.URL.Query().Get("hops"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "hops must be a positive integer")
			return
		}
		hops = n
	}
	ids, err := s.svc.Reachable(id, hops)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "hops": hops, "locations": ids})
}

type localTimeView struct {
	ID            string `json:"id"`
	Timezone      string `json:"timezone"`
	UTC           string `json:"utc"`
	Local         string `json:"local"`
	OffsetMinutes int    `json:"offset_minutes"`
}

// getLocalTime handles GET /api/locations/{id}/time?at=RFC3339
func (s *Server) getLocalTime(w http.ResponseWriter, r *http.Request) {
	at := s.now().UTC()
	if v := r.URL.Query().Get("at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "at must be RFC 3339")
			return
		}
		at = t.UTC()
	}

	id := chi.URLParam(r, "id")
	loc, err := s.svc.GetLocation(id)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	local, err := s.svc.FormatLocalTime(id, at)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, localTimeView{
		ID:            id,
		Timezone:      loc.Timezone.String(),
		UTC:           at.Format(time.RFC3339),
		Local:         local,
		OffsetMinutes: loc.Timezone.Minutes(),
	})
}

// timeDifference handles GET /api/timediff?a=&b=
func (s *Server) timeDifference(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		respondError(w, http.StatusBadRequest, "a and b are required")
		return
	}
	mins, err := s.svc.GetTimeDifference(a, b)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"a": a, "b": b, "minutes": mins})
}

type hopView struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Direction string  `json:"direction"`
	Label     string  `json:"label"`
	Requires  string  `json:"requires,omitempty"`
	Bearing   float64 `json:"bearing_deg"`
}

type pathView struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Found      bool      `json:"found"`
	Path       []string  `json:"path"`
	Hops       int       `json:"hops"`
	DistanceKm float64   `json:"distance_km"`
	Steps      []hopView `json:"steps,omitempty"`
}

// findPath handles GET /api/path?from=&to=&avoid_gated=
func (s *Server) findPath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		respondError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	var allow navigation.EdgeFilter
	if v, _ := strconv.ParseBool(q.Get("avoid_gated")); v {
		allow = func(c model.Connection) bool { return !c.Gated() }
	}

	path, err := s.svc.FindPathWith(from, to, allow)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	out := pathView{From: from, To: to, Found: path != nil, Path: path}
	if path != nil {
		out.Hops = len(path) - 1
		out.DistanceKm = s.svc.PathDistance(path)
		hops, err := s.svc.DescribeWith(path, allow)
		if err != nil {
			respondLookupError(w, err)
			return
		}
		for _, h := range hops {
			out.Steps = append(out.Steps, hopView{
				From:      h.From,
				To:        h.To,
				Direction: string(h.Connection.Direction),
				Label:     h.Connection.Label,
				Requires:  h.Connection.Requires,
				Bearing:   math.Round(h.BearingDeg*10) / 10,
			})
		}
	}
	respondJSON(w, http.StatusOK, out)
}

type regionView struct {
	Region    string `json:"region"`
	Locations int    `json:"locations"`
}

// listRegions handles GET /api/regions
func (s *Server) listRegions(w http.ResponseWriter, r *http.Request) {
	g := s.svc.Graph()
	regions := g.Regions()
	out := make([]regionView, len(regions))
	for i, name := range regions {
		out[i] = regionView{Region: name, Locations: len(g.FindBy(world.Filter{Region: name}))}
	}
	respondJSON(w, http.StatusOK, out)
}

// getStats handles GET /api/stats
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.svc.Graph().Statistics())
}
