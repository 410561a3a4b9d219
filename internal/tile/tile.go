package tile

// Tile holds everything authored for one cell.
type Tile struct {
	Objects []Object `json:"objects,omitempty" yaml:"objects,omitempty"`
	Sprites []Sprite `json:"sprites,omitempty" yaml:"sprites,omitempty"`
	Markers []Marker `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// Empty reports whether the tile has no entities.
func (t Tile) Empty() bool {
	return len(t.Objects) == 0 && len(t.Sprites) == 0 && len(t.Markers) == 0
}

// Len returns the number of entities in the tile.
func (t Tile) Len() int {
	return len(t.Objects) + len(t.Sprites) + len(t.Markers)
}

// Entities returns markers, then objects, then sprites, each in insertion order.
func (t Tile) Entities() []Entity {
	out := make([]Entity, 0, t.Len())
	for _, m := range t.Markers {
		out = append(out, m)
	}
	for _, o := range t.Objects {
		out = append(out, o)
	}
	for _, s := range t.Sprites {
		out = append(out, s)
	}
	return out
}

// Blocked reports whether any object in the tile blocks movement.
func (t Tile) Blocked() bool {
	for _, o := range t.Objects {
		if o.Blocks {
			return true
		}
	}
	return false
}

// Map is a location's sparse tile grid.
type Map map[CellID]Tile

// Bounds returns the smallest column/row extent covering every cell.
// Keys that are not canonical cell ids are skipped. ok is false when no
// valid cell remains.
func (m Map) Bounds() (minCol, minRow, maxCol, maxRow int, ok bool) {
	for id := range m {
		if !id.Valid() {
			continue
		}
		c, r := id.Col(), id.Row()
		if !ok {
			minCol, maxCol, minRow, maxRow = c, c, r, r
			ok = true
			continue
		}
		minCol = min(minCol, c)
		maxCol = max(maxCol, c)
		minRow = min(minRow, r)
		maxRow = max(maxRow, r)
	}
	return minCol, minRow, maxCol, maxRow, ok
}

// EntityCount sums entities across all cells.
func (m Map) EntityCount() int {
	n := 0
	for _, t := range m {
		n += t.Len()
	}
	return n
}
