package tile

// Kind orders entity categories for drawing: markers first, sprites last.
type Kind uint8

const (
	KindMarker Kind = iota
	KindObject
	KindSprite
)

func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindObject:
		return "object"
	case KindSprite:
		return "sprite"
	}
	return "unknown"
}

// Entity is the closed set of things placed in a cell.
// Implemented only by Object, Sprite and Marker.
type Entity interface {
	Kind() Kind
	Layer() int
	Appearance() Appearance
	isEntity()
}

// Appearance is what an entity contributes to a rendered cell.
// Colors are names or #rrggbb strings, resolved by the compositor.
type Appearance struct {
	Glyph rune
	Fg    string
	Bg    string
}

// Object is a static entity (furniture, terrain feature, building).
type Object struct {
	Glyph  string `json:"glyph" yaml:"glyph"`
	Label  string `json:"label" yaml:"label"`
	Z      int    `json:"z" yaml:"z"`
	Blocks bool   `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	Fg     string `json:"fg,omitempty" yaml:"fg,omitempty"`
	Bg     string `json:"bg,omitempty" yaml:"bg,omitempty"`
}

func (Object) Kind() Kind   { return KindObject }
func (o Object) Layer() int { return o.Z }
func (o Object) Appearance() Appearance {
	return Appearance{Glyph: FirstRune(o.Glyph), Fg: o.Fg, Bg: o.Bg}
}
func (Object) isEntity() {}

// Sprite is a dynamic entity (NPC, player, vehicle).
type Sprite struct {
	ID    string `json:"id" yaml:"id"`
	Glyph string `json:"glyph" yaml:"glyph"`
	Label string `json:"label" yaml:"label"`
	Z     int    `json:"z" yaml:"z"`
	Fg    string `json:"fg,omitempty" yaml:"fg,omitempty"`
	Bg    string `json:"bg,omitempty" yaml:"bg,omitempty"`
}

func (Sprite) Kind() Kind   { return KindSprite }
func (s Sprite) Layer() int { return s.Z }
func (s Sprite) Appearance() Appearance {
	return Appearance{Glyph: FirstRune(s.Glyph), Fg: s.Fg, Bg: s.Bg}
}
func (Sprite) isEntity() {}

// Marker annotates a cell (waypoint, point of interest). Always drawn beneath
// objects and sprites, so its Layer is ignored for ordering across kinds.
type Marker struct {
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
}

func (Marker) Kind() Kind { return KindMarker }
func (Marker) Layer() int { return 0 }
func (m Marker) Appearance() Appearance {
	st := MarkerStyleFor(m.Type)
	return Appearance{Glyph: st.Glyph, Fg: st.Fg}
}
func (Marker) isEntity() {}

// FirstRune returns the first rune of s, or 0 for an empty string.
func FirstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
