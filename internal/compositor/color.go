package compositor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Palette holds named colours beyond tcell's W3C/XTerm names.
var Palette = map[string]tcell.Color{
	"border":     tcell.NewHexColor(0x4a4a4a),
	"background": tcell.NewHexColor(0x1a1a1a),
	"highlight":  tcell.NewHexColor(0x3a3a3a),
	"text":       tcell.NewHexColor(0xcccccc),
}

// LookupColor resolves a colour name or #rrggbb string.
// ok is false for unknown names; the empty string and "default" are known.
func LookupColor(name string) (tcell.Color, bool) {
	if name == "" {
		return tcell.ColorDefault, true
	}
	if c, ok := lookupExact(name); ok {
		return c, true
	}
	return lookupExact(strings.ToLower(strings.TrimSpace(name)))
}

func lookupExact(name string) (tcell.Color, bool) {
	if c, ok := Palette[name]; ok {
		return c, true
	}
	switch name {
	case "default", "reset", "none":
		return tcell.ColorDefault, true
	}
	if c := tcell.GetColor(name); c != tcell.ColorDefault {
		return c, true
	}
	return tcell.ColorDefault, false
}

// 6x6x6 cube levels of the xterm palette (indices 16-231)
var cubeValues = [6]int{0, 95, 135, 175, 215, 255}

// grayscaleStart is the first of 24 gray shades (232-255)
const grayscaleStart = 232

func cubeIndex(v int) int {
	best, bestDist := 0, abs(v-cubeValues[0])
	for j := 1; j < len(cubeValues); j++ {
		if d := abs(v - cubeValues[j]); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// rgbTo256 finds the nearest xterm-256 index, preferring the gray ramp for
// near-neutral colours.
func rgbTo256(r8, g8, b8 uint8) uint8 {
	r, g, b := int(r8), int(g8), int(b8)
	gray := (r + g + b) / 3
	maxDiff := max(abs(r-gray), abs(g-gray), abs(b-gray))

	cr, cg, cb := cubeIndex(r), cubeIndex(g), cubeIndex(b)
	if maxDiff < 10 {
		if gray < 4 {
			return 16
		}
		if gray > 243 {
			return 231
		}
		grayIdx := min(grayscaleStart+(gray-8)/10, 255)
		grayLevel := 8 + (grayIdx-grayscaleStart)*10
		grayDist := abs(r-grayLevel) + abs(g-grayLevel) + abs(b-grayLevel)
		cubeDist := abs(r-cubeValues[cr]) + abs(g-cubeValues[cg]) + abs(b-cubeValues[cb])
		if grayDist < cubeDist {
			return uint8(grayIdx)
		}
	}
	return uint8(16 + 36*cr + 6*cg + cb)
}

// To256 maps an RGB colour to its nearest xterm-256 palette entry.
// Palette and default colours are returned unchanged.
func To256(c tcell.Color) tcell.Color {
	if !c.IsRGB() {
		return c
	}
	r, g, b := c.RGB()
	return tcell.PaletteColor(int(rgbTo256(uint8(r), uint8(g), uint8(b))))
}
