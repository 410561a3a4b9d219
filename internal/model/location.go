package model

import (
	"github.com/udisondev/atlas/internal/geo"
	"github.com/udisondev/atlas/internal/tile"
)

// Location is one immutable node of the location graph.
// Built once at load time and shared read-only afterwards.
type Location struct {
	ID          string
	Name        string
	Description string
	Scale       Scale
	Region      string
	Continent   string // empty when not applicable (orbital and beyond)
	Type        string
	Timezone    Timezone
	Coordinate  geo.Coordinate
	Connections []Connection
	Tiles       tile.Map
}

// DistanceTo returns the great-circle distance in kilometres.
func (l *Location) DistanceTo(other *Location) float64 {
	return l.Coordinate.Distance(other.Coordinate)
}
