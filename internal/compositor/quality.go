package compositor

import (
	"fmt"
	"strings"
)

// Quality is a rendering fidelity tier. Higher values pack more sub-cell
// detail into one terminal character.
type Quality uint8

const (
	ASCII Quality = iota
	Shade
	Quadrant
	Sextant
)

// Qualities lists tiers from highest to lowest fidelity.
func Qualities() []Quality {
	return []Quality{Sextant, Quadrant, Shade, ASCII}
}

func (q Quality) String() string {
	switch q {
	case ASCII:
		return "ascii"
	case Shade:
		return "shade"
	case Quadrant:
		return "quadrant"
	case Sextant:
		return "sextant"
	}
	return fmt.Sprintf("Quality(%d)", uint8(q))
}

// Valid reports whether q is a known tier.
func (q Quality) Valid() bool { return q <= Sextant }

// ParseQuality accepts tier names case-insensitively.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sextant":
		return Sextant, nil
	case "quadrant":
		return Quadrant, nil
	case "shade":
		return Shade, nil
	case "ascii":
		return ASCII, nil
	}
	return 0, fmt.Errorf("unknown quality %q (want sextant, quadrant, shade or ascii)", s)
}

func (q Quality) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("invalid quality %d", uint8(q))
	}
	return []byte(q.String()), nil
}

func (q *Quality) UnmarshalText(b []byte) error {
	v, err := ParseQuality(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
