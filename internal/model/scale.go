package model

import (
	"fmt"
	"strings"
)

// Scale is the classification tier of a location.
// Used for grouping and queries only.
type Scale uint8

const (
	ScaleTerrestrial Scale = iota
	ScaleOrbital
	ScalePlanetary
	ScaleStellar
	ScaleGalactic
	ScaleCosmic
)

var scaleNames = [...]string{
	ScaleTerrestrial: "terrestrial",
	ScaleOrbital:     "orbital",
	ScalePlanetary:   "planetary",
	ScaleStellar:     "stellar",
	ScaleGalactic:    "galactic",
	ScaleCosmic:      "cosmic",
}

// Scales returns every scale, innermost first.
func Scales() []Scale {
	return []Scale{ScaleTerrestrial, ScaleOrbital, ScalePlanetary, ScaleStellar, ScaleGalactic, ScaleCosmic}
}

// ParseScale accepts the lower-case name of a scale (case-insensitive).
func ParseScale(s string) (Scale, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range scaleNames {
		if n == name {
			return Scale(i), nil
		}
	}
	return 0, fmt.Errorf("unknown scale %q", s)
}

func (s Scale) String() string {
	if int(s) < len(scaleNames) {
		return scaleNames[s]
	}
	return fmt.Sprintf("scale(%d)", uint8(s))
}

// MarshalText lets scales key JSON maps by name.
func (s Scale) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Scale) UnmarshalText(b []byte) error {
	v, err := ParseScale(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
