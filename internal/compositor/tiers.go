package compositor

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// tier is one quality level's capability and conversion rules.
type tier interface {
	Level() Quality
	// CanGlyph reports whether the tier can show r, possibly after Glyph.
	CanGlyph(r rune) bool
	CanColor(c tcell.Color) bool
	Glyph(r rune) rune
	Color(c tcell.Color) tcell.Color
}

// tiers is indexed by Quality.
var tiers = [...]tier{
	ASCII:    asciiTier{},
	Shade:    shadeTier{},
	Quadrant: quadrantTier{},
	Sextant:  sextantTier{},
}

// resolveTier steps down from q until the glyph is representable.
// ASCII accepts everything, so this always terminates.
func resolveTier(q Quality, r rune) tier {
	for ; q > ASCII; q-- {
		if tiers[q].CanGlyph(r) {
			return tiers[q]
		}
	}
	return tiers[ASCII]
}

// sextantTier is a full Unicode, true colour terminal.
type sextantTier struct{}

func (sextantTier) Level() Quality                  { return Sextant }
func (sextantTier) CanGlyph(r rune) bool            { return unicode.IsPrint(r) }
func (sextantTier) CanColor(tcell.Color) bool       { return true }
func (sextantTier) Glyph(r rune) rune               { return r }
func (sextantTier) Color(c tcell.Color) tcell.Color { return c }

// quadrantTier lacks the Legacy Computing block and anything outside the
// BMP. Sextants fold to the nearest 2x2 pattern.
type quadrantTier struct{}

func (quadrantTier) Level() Quality { return Quadrant }

func (quadrantTier) CanGlyph(r rune) bool {
	return isSextant(r) || (r <= 0xFFFF && unicode.IsPrint(r))
}

func (quadrantTier) CanColor(tcell.Color) bool { return true }

func (quadrantTier) Glyph(r rune) rune {
	if m, ok := sextantMask(r); ok && isSextant(r) {
		return quadrantChars[sextantToQuadrant[m]]
	}
	return r
}

func (quadrantTier) Color(c tcell.Color) tcell.Color { return c }

// shadeTier is a 256-colour console with the CP437 repertoire. Sub-cell
// block patterns become a density shade.
type shadeTier struct{}

func (shadeTier) Level() Quality { return Shade }

func (shadeTier) CanGlyph(r rune) bool {
	if isPrintableASCII(r) || inCP437(r) {
		return true
	}
	_, ok := fill(r)
	return ok
}

func (shadeTier) CanColor(tcell.Color) bool { return true }

func (shadeTier) Glyph(r rune) rune {
	if isPrintableASCII(r) || inCP437(r) {
		return r
	}
	if f, ok := fill(r); ok {
		return shadeRamp[rampIndex(f)]
	}
	return r
}

func (shadeTier) Color(c tcell.Color) tcell.Color { return To256(c) }

// asciiTier is printable ASCII without colour.
type asciiTier struct{}

func (asciiTier) Level() Quality              { return ASCII }
func (asciiTier) CanGlyph(rune) bool          { return true }
func (asciiTier) CanColor(c tcell.Color) bool { return c == tcell.ColorDefault }

func (asciiTier) Glyph(r rune) rune {
	if isPrintableASCII(r) {
		return r
	}
	if f, ok := fill(r); ok {
		return asciiRamp[rampIndex(f)]
	}
	if t, ok := transliteration[r]; ok {
		return t
	}
	return '?'
}

func (asciiTier) Color(tcell.Color) tcell.Color { return tcell.ColorDefault }
