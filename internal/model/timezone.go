package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MaxOffsetHours bounds timezone offsets (UTC+14 is the easternmost real zone).
const MaxOffsetHours = 14

var tzPattern = regexp.MustCompile(`^UTC(?:([+-])(\d{1,2})(?::(\d{2}))?)?$`)

// Timezone is a fixed UTC offset written as UTC[+-]HH or UTC[+-]HH:MM.
type Timezone struct {
	raw     string
	minutes int
}

// ParseTimezone parses "UTC", "UTC+9", "UTC-03", "UTC+5:30".
func ParseTimezone(s string) (Timezone, error) {
	m := tzPattern.FindStringSubmatch(s)
	if m == nil {
		return Timezone{}, fmt.Errorf("timezone %q: want UTC[+-]HH or UTC[+-]HH:MM", s)
	}
	if m[1] == "" {
		return Timezone{raw: s}, nil
	}

	hours, _ := strconv.Atoi(m[2])
	mins := 0
	if m[3] != "" {
		mins, _ = strconv.Atoi(m[3])
	}
	if hours > MaxOffsetHours {
		return Timezone{}, fmt.Errorf("timezone %q: hours %d exceed %d", s, hours, MaxOffsetHours)
	}
	if mins > 59 {
		return Timezone{}, fmt.Errorf("timezone %q: minutes %d exceed 59", s, mins)
	}

	total := hours*60 + mins
	if total > MaxOffsetHours*60 {
		return Timezone{}, fmt.Errorf("timezone %q: offset beyond UTC±%d", s, MaxOffsetHours)
	}
	if m[1] == "-" {
		total = -total
	}
	return Timezone{raw: s, minutes: total}, nil
}

// MustTimezone panics on a malformed string. Fixtures and tests only.
func MustTimezone(s string) Timezone {
	tz, err := ParseTimezone(s)
	if err != nil {
		panic(err)
	}
	return tz
}

// Minutes returns the signed offset from UTC in minutes.
func (tz Timezone) Minutes() int { return tz.minutes }

// Offset returns the signed offset as a duration.
func (tz Timezone) Offset() time.Duration { return time.Duration(tz.minutes) * time.Minute }

// Location returns a fixed zone carrying the original name.
func (tz Timezone) Location() *time.Location {
	name := tz.raw
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, tz.minutes*60)
}

// In converts t to this zone.
func (tz Timezone) In(t time.Time) time.Time {
	return t.In(tz.Location())
}

func (tz Timezone) String() string {
	if tz.raw == "" {
		return "UTC"
	}
	return tz.raw
}
