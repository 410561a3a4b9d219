package geoip

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/udisondev/atlas/internal/geo"
)

// ErrNoLocation is returned when the database has no coordinates for an IP.
var ErrNoLocation = errors.New("no location for ip")

// Result is the geographic part of a City lookup.
type Result struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	City       string         `json:"city,omitempty"`
	Country    string         `json:"country,omitempty"`
	TimeZone   string         `json:"time_zone,omitempty"`
	AccuracyKm uint16         `json:"accuracy_km,omitempty"`
}

// Locator maps an IP to a coordinate.
type Locator interface {
	Locate(ip net.IP) (Result, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ip net.IP) (Result, error)

func (f LocatorFunc) Locate(ip net.IP) (Result, error) { return f(ip) }

// Reader looks IPs up in a GeoIP2/GeoLite2 City database.
type Reader struct {
	db *geoip2.Reader
}

// Open opens the database at path.
func Open(path string) (*Reader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening geoip database %s: %w", path, err)
	}
	return &Reader{db: db}, nil
}

// Close releases the database.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Locate returns the city-level position of ip.
func (r *Reader) Locate(ip net.IP) (Result, error) {
	rec, err := r.db.City(ip)
	if err != nil {
		return Result{}, fmt.Errorf("geoip lookup %s: %w", ip, err)
	}
	return fromCity(ip, rec)
}

func fromCity(ip net.IP, rec *geoip2.City) (Result, error) {
	lat, lon := rec.Location.Latitude, rec.Location.Longitude
	if lat == 0 && lon == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNoLocation, ip)
	}
	res := Result{
		Coordinate: geo.Coordinate{Lat: lat, Lon: lon},
		City:       rec.City.Names["en"],
		Country:    rec.Country.IsoCode,
		TimeZone:   rec.Location.TimeZone,
		AccuracyKm: rec.Location.AccuracyRadius,
	}
	if err := res.Coordinate.Validate(); err != nil {
		return Result{}, fmt.Errorf("geoip lookup %s: %w", ip, err)
	}
	return res, nil
}

// ParseIP parses a textual address, rejecting empty and malformed input.
func ParseIP(s string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid ip %q", s)
	}
	return ip, nil
}
