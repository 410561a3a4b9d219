package model

import "strings"

// Connection is a declared edge to another location.
// Direction is display-only; Requires is an opaque gate evaluated by callers.
type Connection struct {
	To        string
	Direction Direction
	Label     string
	Requires  string
}

// Gated reports whether the connection carries a requirement.
func (c Connection) Gated() bool { return c.Requires != "" }

// Direction is a normalised travel direction used for display.
type Direction string

const (
	North     Direction = "north"
	NorthEast Direction = "northeast"
	East      Direction = "east"
	SouthEast Direction = "southeast"
	South     Direction = "south"
	SouthWest Direction = "southwest"
	West      Direction = "west"
	NorthWest Direction = "northwest"
	Up        Direction = "up"
	Down      Direction = "down"
	In        Direction = "in"
	Out       Direction = "out"
)

var directionAliases = map[string]Direction{
	"n": North, "north": North,
	"ne": NorthEast, "northeast": NorthEast,
	"e": East, "east": East,
	"se": SouthEast, "southeast": SouthEast,
	"s": South, "south": South,
	"sw": SouthWest, "southwest": SouthWest,
	"w": West, "west": West,
	"nw": NorthWest, "northwest": NorthWest,
	"u": Up, "up": Up,
	"d": Down, "down": Down,
	"in": In, "enter": In,
	"out": Out, "exit": Out,
}

// ParseDirection normalises common spellings. Anything else is kept
// verbatim (lower-cased) since directions never affect traversal.
func ParseDirection(s string) Direction {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "")
	if d, ok := directionAliases[key]; ok {
		return d
	}
	return Direction(key)
}

// Opposite returns the reverse direction, or the same value when unknown.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case NorthEast:
		return SouthWest
	case SouthWest:
		return NorthEast
	case NorthWest:
		return SouthEast
	case SouthEast:
		return NorthWest
	case Up:
		return Down
	case Down:
		return Up
	case In:
		return Out
	case Out:
		return In
	}
	return d
}
