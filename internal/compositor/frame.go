package compositor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Cell is one rendered terminal character. tcell.ColorDefault means the
// terminal's own colour.
type Cell struct {
	Glyph rune
	Fg    tcell.Color
	Bg    tcell.Color
}

// Blank is the background cell used where nothing is authored.
var Blank = Cell{Glyph: ' ', Fg: tcell.ColorDefault, Bg: tcell.ColorDefault}

// Frame is a rendered grid, Frame[y][x].
type Frame [][]Cell

// newFrame allocates h rows of w blank cells over one backing array.
func newFrame(w, h int) Frame {
	if w <= 0 || h <= 0 {
		return Frame{}
	}
	backing := make([]Cell, w*h)
	for i := range backing {
		backing[i] = Blank
	}
	f := make(Frame, h)
	for y := range f {
		f[y] = backing[y*w : (y+1)*w : (y+1)*w]
	}
	return f
}

// Height returns the number of rows.
func (f Frame) Height() int { return len(f) }

// Width returns the number of columns.
func (f Frame) Width() int {
	if len(f) == 0 {
		return 0
	}
	return len(f[0])
}

// At returns the cell at x,y, or Blank when out of range.
func (f Frame) At(x, y int) Cell {
	if y < 0 || y >= len(f) || x < 0 || x >= len(f[y]) {
		return Blank
	}
	return f[y][x]
}

// Lines returns each row's glyphs as a string.
func (f Frame) Lines() []string {
	out := make([]string, len(f))
	var sb strings.Builder
	for y, row := range f {
		sb.Reset()
		for _, c := range row {
			sb.WriteRune(c.Glyph)
		}
		out[y] = sb.String()
	}
	return out
}

// String joins Lines with newlines. Colours are not included.
func (f Frame) String() string {
	return strings.Join(f.Lines(), "\n")
}
