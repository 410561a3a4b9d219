package tile

import "strings"

// MarkerStyle is the fixed look of a marker type.
type MarkerStyle struct {
	Glyph rune
	Fg    string
}

var markerStyles = map[string]MarkerStyle{
	"waypoint": {Glyph: '◇', Fg: "cyan"},
	"poi":      {Glyph: '◆', Fg: "yellow"},
	"city":     {Glyph: '●', Fg: "white"},
	"capital":  {Glyph: '★', Fg: "yellow"},
	"port":     {Glyph: '⚓', Fg: "blue"},
	"airport":  {Glyph: '✈', Fg: "white"},
	"station":  {Glyph: '⊞', Fg: "white"},
	"landmark": {Glyph: '◎', Fg: "magenta"},
	"user":     {Glyph: '▲', Fg: "red"},
}

var unknownMarker = MarkerStyle{Glyph: '·', Fg: "text"}

// MarkerStyleFor looks up the style of a marker type, case-insensitively.
// Unknown types get a neutral dot.
func MarkerStyleFor(markerType string) MarkerStyle {
	if st, ok := markerStyles[strings.ToLower(markerType)]; ok {
		return st
	}
	return unknownMarker
}

// KnownMarkerType reports whether markerType has a dedicated style.
func KnownMarkerType(markerType string) bool {
	_, ok := markerStyles[strings.ToLower(markerType)]
	return ok
}
