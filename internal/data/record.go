package data

import (
	"github.com/udisondev/atlas/internal/geo"
	"github.com/udisondev/atlas/internal/tile"
)

// LocationRecord is one location as authored in the dataset.
// Fields are raw strings; validation happens when the graph is built.
type LocationRecord struct {
	ID          string               `yaml:"id" json:"id"`
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description" json:"description"`
	Scale       string               `yaml:"scale" json:"scale"`
	Region      string               `yaml:"region" json:"region"`
	Continent   string               `yaml:"continent,omitempty" json:"continent,omitempty"`
	Timezone    string               `yaml:"timezone" json:"timezone"`
	Coordinates geo.Coordinate       `yaml:"coordinates" json:"coordinates"`
	Type        string               `yaml:"type" json:"type"`
	Connections []ConnectionRecord   `yaml:"connections,omitempty" json:"connections,omitempty"`
	Tiles       map[string]tile.Tile `yaml:"tiles,omitempty" json:"tiles,omitempty"`

	// Origin names the file (or table) the record came from, for error messages.
	Origin string `yaml:"-" json:"-"`
}

// ConnectionRecord is an authored edge.
type ConnectionRecord struct {
	To        string `yaml:"to" json:"to"`
	Direction string `yaml:"direction" json:"direction"`
	Label     string `yaml:"label" json:"label"`
	Requires  string `yaml:"requires,omitempty" json:"requires,omitempty"`
}

// Dataset is the document shape accepted by the decoders: either a bare list
// of records or a mapping with a "locations" key.
type Dataset struct {
	Locations []LocationRecord `yaml:"locations" json:"locations"`
}
