package world

import (
	"github.com/udisondev/atlas/internal/model"
)

// State of a graph instance. Load hands out graphs that are already Ready.
type State uint8

const (
	StateUnloaded State = iota
	StateLoaded
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Graph is the immutable set of locations plus lookup indices.
// Read-only after Load: safe for any number of concurrent readers without locking.
// Returned *model.Location values are shared and must not be modified.
type Graph struct {
	locations []*model.Location // dataset order
	byID      map[string]*model.Location

	byRegion    map[string][]*model.Location
	byContinent map[string][]*model.Location
	byType      map[string][]*model.Location
	byScale     map[model.Scale][]*model.Location

	grid *grid

	fingerprint string
	state       State
}

// Filter selects locations by any combination of fields. Zero fields match all.
type Filter struct {
	Region    string
	Continent string
	Type      string
	Scale     *model.Scale
}

// ByScale is a convenience for building a scale filter.
func ByScale(s model.Scale) Filter { return Filter{Scale: &s} }

// Get returns the location with id.
func (g *Graph) Get(id string) (*model.Location, bool) {
	loc, ok := g.byID[id]
	return loc, ok
}

// Len returns the number of locations.
func (g *Graph) Len() int { return len(g.locations) }

// State returns the lifecycle state.
func (g *Graph) State() State { return g.state }

// Fingerprint returns the hex digest of the dataset the graph was built from.
func (g *Graph) Fingerprint() string { return g.fingerprint }

// All returns every location in dataset order.
func (g *Graph) All() []*model.Location {
	out := make([]*model.Location, len(g.locations))
	copy(out, g.locations)
	return out
}

// FindBy returns the locations matching every set field, in dataset order.
func (g *Graph) FindBy(f Filter) []*model.Location {
	candidates := g.locations
	// Narrow through the first index that applies; the rest are checked per location.
	switch {
	case f.Region != "":
		candidates = g.byRegion[f.Region]
	case f.Continent != "":
		candidates = g.byContinent[f.Continent]
	case f.Type != "":
		candidates = g.byType[f.Type]
	case f.Scale != nil:
		candidates = g.byScale[*f.Scale]
	}

	out := make([]*model.Location, 0, len(candidates))
	for _, loc := range candidates {
		if f.matches(loc) {
			out = append(out, loc)
		}
	}
	return out
}

func (f Filter) matches(loc *model.Location) bool {
	if f.Region != "" && loc.Region != f.Region {
		return false
	}
	if f.Continent != "" && loc.Continent != f.Continent {
		return false
	}
	if f.Type != "" && loc.Type != f.Type {
		return false
	}
	if f.Scale != nil && loc.Scale != *f.Scale {
		return false
	}
	return true
}

// Regions returns distinct region names in order of first appearance.
func (g *Graph) Regions() []string {
	seen := make(map[string]struct{}, len(g.byRegion))
	out := make([]string, 0, len(g.byRegion))
	for _, loc := range g.locations {
		if _, ok := seen[loc.Region]; ok {
			continue
		}
		seen[loc.Region] = struct{}{}
		out = append(out, loc.Region)
	}
	return out
}
