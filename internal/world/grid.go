package world

import (
	"cmp"
	"math"
	"slices"

	"github.com/udisondev/atlas/internal/geo"
	"github.com/udisondev/atlas/internal/model"
)

// Bucket grid over latitude/longitude, used to narrow radius queries.
const (
	// CellDegrees is the side of one bucket in degrees.
	CellDegrees = 10

	GridCols = 360 / CellDegrees // 36
	GridRows = 180 / CellDegrees // 18
)

type gridEntry struct {
	loc *model.Location
	pos int // dataset order
}

type grid [GridRows][GridCols][]gridEntry

// CoordToCell converts a coordinate to its bucket. The east and north edges
// (lon 180, lat 90) fold into the last column and row.
func CoordToCell(c geo.Coordinate) (col, row int) {
	col = int(math.Floor((c.Lon - geo.MinLon) / CellDegrees))
	row = int(math.Floor((c.Lat - geo.MinLat) / CellDegrees))
	return min(max(col, 0), GridCols-1), min(max(row, 0), GridRows-1)
}

func (g *Graph) buildGrid() {
	g.grid = new(grid)
	for i, loc := range g.locations {
		col, row := CoordToCell(loc.Coordinate)
		g.grid[row][col] = append(g.grid[row][col], gridEntry{loc: loc, pos: i})
	}
}

// cellColumns returns the columns a circle of angular radius delta (radians)
// around c can touch. nil means every column.
func cellColumns(c geo.Coordinate, delta float64) []int {
	lat := c.Lat * math.Pi / 180
	if math.Sin(delta) >= math.Cos(lat) {
		return nil
	}
	dLon := math.Asin(math.Sin(delta)/math.Cos(lat)) * 180 / math.Pi
	lo := int(math.Floor((c.Lon - dLon - geo.MinLon) / CellDegrees))
	hi := int(math.Floor((c.Lon + dLon - geo.MinLon) / CellDegrees))
	if hi-lo+1 >= GridCols {
		return nil
	}
	cols := make([]int, 0, hi-lo+1)
	for col := lo; col <= hi; col++ {
		cols = append(cols, ((col%GridCols)+GridCols)%GridCols)
	}
	return cols
}

// Hit is a location found by a radius query.
type Hit struct {
	Location   *model.Location
	DistanceKm float64
}

// Within returns locations matching f no farther than radiusKm from c,
// nearest first. Equal distances keep dataset order.
func (g *Graph) Within(c geo.Coordinate, radiusKm float64, f Filter) []Hit {
	if radiusKm < 0 || g.grid == nil {
		return nil
	}
	delta := radiusKm / geo.EarthRadiusKm
	deltaDeg := delta * 180 / math.Pi

	_, rowLo := CoordToCell(geo.Coordinate{Lat: max(c.Lat-deltaDeg, geo.MinLat), Lon: c.Lon})
	_, rowHi := CoordToCell(geo.Coordinate{Lat: min(c.Lat+deltaDeg, geo.MaxLat), Lon: c.Lon})

	// A circle reaching a pole spans every longitude.
	var cols []int
	if c.Lat+deltaDeg < geo.MaxLat && c.Lat-deltaDeg > geo.MinLat {
		cols = cellColumns(c, delta)
	}
	if cols == nil {
		cols = make([]int, GridCols)
		for i := range cols {
			cols[i] = i
		}
	}

	type hit struct {
		Hit
		pos int
	}
	var found []hit
	for row := rowLo; row <= rowHi; row++ {
		for _, col := range cols {
			for _, e := range g.grid[row][col] {
				if !f.matches(e.loc) {
					continue
				}
				if d := c.Distance(e.loc.Coordinate); d <= radiusKm {
					found = append(found, hit{Hit{e.loc, d}, e.pos})
				}
			}
		}
	}

	slices.SortFunc(found, func(a, b hit) int {
		if n := cmp.Compare(a.DistanceKm, b.DistanceKm); n != 0 {
			return n
		}
		return cmp.Compare(a.pos, b.pos)
	})
	out := make([]Hit, len(found))
	for i, h := range found {
		out[i] = h.Hit
	}
	return out
}
