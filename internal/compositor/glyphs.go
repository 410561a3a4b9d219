package compositor

import "math/bits"

// Sextant bitmap: bit0=TL, bit1=TR, bit2=ML, bit3=MR, bit4=BL, bit5=BR.
//
//	[TL][TR]
//	[ML][MR]
//	[BL][BR]
//
// U+1FB00..U+1FB3B cover masks 1..62 in order, skipping the two half blocks
// (21 = left column, 42 = right column) which already exist as ▌ and ▐.
const (
	sextantFirst rune = 0x1FB00
	sextantLast  rune = 0x1FB3B

	sextantLeft  = 21
	sextantRight = 42
	sextantFull  = 63
)

// Quadrant bitmap: bit0=UL, bit1=UR, bit2=LL, bit3=LR.
var quadrantChars = [16]rune{
	' ', // 0000
	'▘', // 0001 UL
	'▝', // 0010 UR
	'▀', // 0011 upper half
	'▖', // 0100 LL
	'▌', // 0101 left half
	'▞', // 0110 anti-diagonal
	'▛', // 0111
	'▗', // 1000 LR
	'▚', // 1001 diagonal
	'▐', // 1010 right half
	'▜', // 1011
	'▄', // 1100 lower half
	'▙', // 1101
	'▟', // 1110
	'█', // 1111
}

var (
	shadeRamp = [5]rune{' ', '░', '▒', '▓', '█'}
	asciiRamp = [5]rune{' ', '.', ':', '#', '@'}
)

// sextantToQuadrant is the nearest 2x2 pattern for each 2x3 pattern.
var sextantToQuadrant [64]uint8

// blockFill is the covered fraction of each Block Elements glyph.
var blockFill = map[rune]float64{
	'▀': 0.5, '▁': 1.0 / 8, '▂': 2.0 / 8, '▃': 3.0 / 8, '▄': 0.5,
	'▅': 5.0 / 8, '▆': 6.0 / 8, '▇': 7.0 / 8, '█': 1,
	'▉': 7.0 / 8, '▊': 6.0 / 8, '▋': 5.0 / 8, '▌': 0.5,
	'▍': 3.0 / 8, '▎': 2.0 / 8, '▏': 1.0 / 8, '▐': 0.5,
	'░': 0.25, '▒': 0.5, '▓': 0.75, '▔': 1.0 / 8, '▕': 1.0 / 8,
}

// cp437 is the symbol repertoire of a plain 256-colour console beyond ASCII.
var cp437 = map[rune]struct{}{}

const cp437Symbols = "─│┌┐└┘├┤┬┴┼═║╒╓╔╕╖╗╘╙╚╛╜╝╞╟╠╡╢╣╤╥╦╧╨╩╪╫╬" +
	"▀▄▌▐█░▒▓■" +
	"☺☻♥♦♣♠•◘○◙♂♀♪♫☼►◄↕‼¶§▬↨↑↓→←∟↔▲▼⌂" +
	"·°≈√ⁿ²±≥≤÷∙"

// transliteration maps common map symbols onto printable ASCII.
var transliteration = map[rune]rune{
	'─': '-', '━': '-', '═': '=', '│': '|', '┃': '|', '║': '|',
	'┌': '+', '┐': '+', '└': '+', '┘': '+', '├': '+', '┤': '+', '┬': '+', '┴': '+', '┼': '+',
	'╔': '+', '╗': '+', '╚': '+', '╝': '+', '╠': '+', '╣': '+', '╦': '+', '╩': '+', '╬': '+',
	'╭': '+', '╮': '+', '╯': '+', '╰': '+',
	'●': 'o', '○': 'o', '◎': 'O', '◉': 'O', '•': '*', '·': '.', '°': 'o', '∙': '.',
	'◆': '*', '◇': 'o', '♦': '*', '■': '#', '□': '#', '▪': '#', '▫': '.',
	'★': '*', '☆': '*', '✦': '*', '✧': '*',
	'▲': '^', '△': '^', '▼': 'v', '▽': 'v', '►': '>', '◄': '<', '▶': '>', '◀': '<',
	'←': '<', '→': '>', '↑': '^', '↓': 'v', '↔': '-', '↕': '|',
	'♣': '&', '♠': '&', '♥': '<', '♪': 'd', '♫': 'd', '⌂': '^',
	'≈': '~', '∼': '~', '⚓': 'J', '✈': 'A', '⊞': '#', '⊕': '+', '✚': '+', '☼': '*',
	'…': '.', '‼': '!', '¶': 'P', '§': 'S', '±': '+', '÷': '/', '≥': '>', '≤': '<',
}

func init() {
	for _, r := range cp437Symbols {
		cp437[r] = struct{}{}
	}
	for q, r := range quadrantChars {
		if _, ok := blockFill[r]; !ok {
			blockFill[r] = float64(bits.OnesCount8(uint8(q))) / 4
		}
	}
	for m := range sextantToQuadrant {
		sextantToQuadrant[m] = nearestQuadrant(uint8(m))
	}
}

// nearestQuadrant compares both patterns on a shared 2x6 grid: a sextant row
// spans two fine rows, a quadrant row spans three. Ties go to the lower mask,
// except that a non-empty sextant never maps to the empty quadrant.
func nearestQuadrant(mask uint8) uint8 {
	best, bestErr := uint8(0), 1<<30
	for q := uint8(0); q < 16; q++ {
		if q == 0 && mask != 0 {
			continue
		}
		err := 0
		for fine := range 6 {
			srow, qrow := fine/2, fine/3
			for col := range 2 {
				s := mask>>(srow*2+col)&1 == 1
				qq := q>>(qrow*2+col)&1 == 1
				if s != qq {
					err++
				}
			}
		}
		if err < bestErr {
			best, bestErr = q, err
		}
	}
	return best
}

// sextantMask decomposes a glyph into its 2x3 bitmap.
func sextantMask(r rune) (uint8, bool) {
	switch {
	case r == ' ':
		return 0, true
	case r == '█':
		return sextantFull, true
	case r == '▌':
		return sextantLeft, true
	case r == '▐':
		return sextantRight, true
	case r >= sextantFirst && r <= sextantLast:
		m := int(r-sextantFirst) + 1
		if m >= sextantLeft {
			m++
		}
		if m >= sextantRight {
			m++
		}
		return uint8(m), true
	}
	return 0, false
}

// sextantRune is the inverse of sextantMask.
func sextantRune(mask uint8) rune {
	switch mask {
	case 0:
		return ' '
	case sextantFull:
		return '█'
	case sextantLeft:
		return '▌'
	case sextantRight:
		return '▐'
	}
	off := rune(mask) - 1
	if mask > sextantRight {
		off--
	}
	if mask > sextantLeft {
		off--
	}
	return sextantFirst + off
}

func isSextant(r rune) bool { return r >= sextantFirst && r <= sextantLast }

// fill returns the covered fraction of a block or sextant glyph.
func fill(r rune) (float64, bool) {
	if isSextant(r) {
		m, _ := sextantMask(r)
		return float64(bits.OnesCount8(m)) / 6, true
	}
	f, ok := blockFill[r]
	return f, ok
}

func rampIndex(f float64) int {
	i := int(f*4 + 0.5)
	return min(max(i, 0), 4)
}

func isPrintableASCII(r rune) bool { return r >= 0x20 && r <= 0x7e }

func inCP437(r rune) bool {
	_, ok := cp437[r]
	return ok
}
