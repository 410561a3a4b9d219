package tile

import (
	"fmt"
	"strings"
)

// Grid addressing limits: two letters AA..ZZ, two digits 00..99.
const (
	MaxCols = 26 * 26
	MaxRows = 100
)

// CellID addresses one cell of a location grid, e.g. "BJ10".
// Two upper-case column letters followed by a two-digit row.
type CellID string

// ParseCellID validates s and returns it normalised to upper case.
func ParseCellID(s string) (CellID, error) {
	if len(s) != 4 {
		return "", fmt.Errorf("cell id %q: want 2 letters + 2 digits", s)
	}
	up := strings.ToUpper(s)
	for i := range 2 {
		if up[i] < 'A' || up[i] > 'Z' {
			return "", fmt.Errorf("cell id %q: column must be letters", s)
		}
	}
	for i := 2; i < 4; i++ {
		if up[i] < '0' || up[i] > '9' {
			return "", fmt.Errorf("cell id %q: row must be digits", s)
		}
	}
	return CellID(up), nil
}

// MustCell panics on an invalid id. Fixtures and tests only.
func MustCell(s string) CellID {
	id, err := ParseCellID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// CellAt builds the id for a zero-based column and row.
// ok is false when either index is outside the grid.
func CellAt(col, row int) (CellID, bool) {
	if col < 0 || col >= MaxCols || row < 0 || row >= MaxRows {
		return "", false
	}
	b := [4]byte{
		byte('A' + col/26),
		byte('A' + col%26),
		byte('0' + row/10),
		byte('0' + row%10),
	}
	return CellID(b[:]), true
}

// Col returns the zero-based column: AA=0, AZ=25, BA=26.
func (c CellID) Col() int {
	return int(c[0]-'A')*26 + int(c[1]-'A')
}

// Row returns the two-digit row number.
func (c CellID) Row() int {
	return int(c[2]-'0')*10 + int(c[3]-'0')
}

// Valid reports whether c is already in canonical form.
func (c CellID) Valid() bool {
	id, err := ParseCellID(string(c))
	return err == nil && id == c
}

func (c CellID) String() string { return string(c) }
