package geo

import (
	"fmt"
	"math"
)

// Coordinate is a latitude/longitude pair in degrees.
// Non-terrestrial scales reuse the same shape so every location validates the same way.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Validate reports whether both fields are finite and inside geographic ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < MinLat || c.Lat > MaxLat {
		return fmt.Errorf("latitude %v out of range [%v, %v]", c.Lat, MinLat, MaxLat)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < MinLon || c.Lon > MaxLon {
		return fmt.Errorf("longitude %v out of range [%v, %v]", c.Lon, MinLon, MaxLon)
	}
	return nil
}

// Distance returns the great-circle distance to other in kilometres (haversine).
func (c Coordinate) Distance(other Coordinate) float64 {
	lat1 := toRad(c.Lat)
	lat2 := toRad(other.Lat)
	dLat := lat2 - lat1
	dLon := toRad(other.Lon - c.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	if a > 1 {
		a = 1
	}
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Bearing returns the initial bearing from c to other in degrees, [0, 360).
func (c Coordinate) Bearing(other Coordinate) float64 {
	lat1 := toRad(c.Lat)
	lat2 := toRad(other.Lat)
	dLon := toRad(other.Lon - c.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	deg := math.Mod(toDeg(math.Atan2(y, x))+360, 360)
	return deg
}

// String formats the coordinate with 4 decimal places.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }
