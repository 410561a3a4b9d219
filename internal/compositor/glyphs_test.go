package compositor

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSextantMaskRoundTrip(t *testing.T) {
	for m := range 64 {
		r := sextantRune(uint8(m))
		got, ok := sextantMask(r)
		require.True(t, ok, "mask %d -> %U", m, r)
		assert.Equal(t, uint8(m), got, "mask %d -> %U", m, r)
	}
	assert.Equal(t, sextantFirst, sextantRune(1))
	assert.Equal(t, sextantLast, sextantRune(62))

	_, ok := sextantMask('x')
	assert.False(t, ok)
}

func TestNearestQuadrant(t *testing.T) {
	tests := []struct {
		name string
		mask uint8
		want rune
	}{
		{"empty", 0, ' '},
		{"full", sextantFull, '█'},
		{"left column", sextantLeft, '▌'},
		{"right column", sextantRight, '▐'},
		{"top row", 0b000011, '▀'},
		{"bottom row", 0b110000, '▄'},
		{"top left only", 0b000001, '▘'},
		{"middle row never empty", 0b001100, '▘'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(tt.want), string(quadrantChars[sextantToQuadrant[tt.mask]]))
		})
	}
}

func TestFill(t *testing.T) {
	f, ok := fill('▒')
	require.True(t, ok)
	assert.InDelta(t, 0.5, f, 1e-9)

	f, ok = fill('▙')
	require.True(t, ok)
	assert.InDelta(t, 0.75, f, 1e-9)

	f, ok = fill(sextantRune(0b000111))
	require.True(t, ok)
	assert.InDelta(t, 0.5, f, 1e-9)

	_, ok = fill('a')
	assert.False(t, ok)
}

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"black", 0, 0, 0, 16},
		{"white", 255, 255, 255, 231},
		{"red", 255, 0, 0, 196},
		{"green", 0, 255, 0, 46},
		{"blue", 0, 0, 255, 21},
		{"mid gray", 128, 128, 128, 244},
		{"nes border", 0x4a, 0x4a, 0x4a, 238},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rgbTo256(tt.r, tt.g, tt.b))
		})
	}
}

func TestTo256(t *testing.T) {
	assert.Equal(t, tcell.PaletteColor(196), To256(tcell.NewHexColor(0xff0000)))
	assert.Equal(t, tcell.ColorRed, To256(tcell.ColorRed))
	assert.Equal(t, tcell.ColorDefault, To256(tcell.ColorDefault))
}

func TestResolveTier(t *testing.T) {
	assert.Equal(t, Sextant, resolveTier(Sextant, '🬗').Level())
	assert.Equal(t, Quadrant, resolveTier(Quadrant, '🬗').Level())
	assert.Equal(t, ASCII, resolveTier(Quadrant, '\x07').Level())
	assert.Equal(t, ASCII, resolveTier(Shade, '◆').Level())
	assert.Equal(t, Shade, resolveTier(Shade, '♦').Level())
	assert.Equal(t, Sextant, resolveTier(Sextant, '🌲').Level())
	assert.Equal(t, ASCII, resolveTier(Quadrant, '🌲').Level())
}
