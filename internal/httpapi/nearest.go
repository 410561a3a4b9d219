package httpapi

import (
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/udisondev/atlas/internal/geo"
	"github.com/udisondev/atlas/internal/geoip"
)

type nearestView struct {
	Origin     geo.Coordinate `json:"origin"`
	Source     string         `json:"source"`
	Location   locationView   `json:"location"`
	DistanceKm float64        `json:"distance_km"`
	GeoIP      *geoip.Result  `json:"geoip,omitempty"`
}

// clientIP strips the port from RemoteAddr. RealIP has already applied
// X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// nearest handles GET /api/nearest?lat=&lon= or ?ip=, plus the list filters.
// Without either it locates the caller's address.
func (s *Server) nearest(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	out := nearestView{}
	switch {
	case q.Get("lat") != "" || q.Get("lon") != "":
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		if errLat != nil || errLon != nil {
			respondError(w, http.StatusBadRequest, "lat and lon must both be numbers")
			return
		}
		out.Origin = geo.Coordinate{Lat: lat, Lon: lon}
		if err := out.Origin.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		out.Source = "coordinate"
	default:
		if s.locator == nil {
			respondError(w, http.StatusBadRequest, "lat and lon are required")
			return
		}
		raw := q.Get("ip")
		out.Source = "ip"
		if raw == "" {
			raw = clientIP(r)
			out.Source = "client"
		}
		ip, err := geoip.ParseIP(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		res, err := s.locator.Locate(ip)
		if err != nil {
			if errors.Is(err, geoip.ErrNoLocation) {
				respondError(w, http.StatusNotFound, err.Error())
				return
			}
			respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		out.Origin = res.Coordinate
		out.GeoIP = &res
	}

	loc, km, ok := s.svc.Nearest(out.Origin, f)
	if !ok {
		respondError(w, http.StatusNotFound, "no location matches")
		return
	}
	out.Location = viewLocation(loc, false)
	out.DistanceKm = km
	respondJSON(w, http.StatusOK, out)
}

type nearbyView struct {
	Location   locationView `json:"location"`
	DistanceKm float64      `json:"distance_km"`
}

// nearby handles GET /api/nearby?lat=&lon=&radius_km=, plus the list filters.
func (s *Server) nearby(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	radius, errRadius := strconv.ParseFloat(q.Get("radius_km"), 64)
	if errLat != nil || errLon != nil || errRadius != nil || radius < 0 {
		respondError(w, http.StatusBadRequest, "lat, lon and a non-negative radius_km are required")
		return
	}
	c := geo.Coordinate{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hits := s.svc.Within(c, radius, f)
	out := make([]nearbyView, len(hits))
	for i, h := range hits {
		out[i] = nearbyView{Location: viewLocation(h.Location, false), DistanceKm: h.DistanceKm}
	}
	respondJSON(w, http.StatusOK, out)
}
