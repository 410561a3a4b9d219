package world

import (
	"errors"
	"fmt"
)

// ErrDataIntegrity matches every *DataIntegrityError via errors.Is.
var ErrDataIntegrity = errors.New("data integrity violation")

// IntegrityKind classifies a load-time violation.
type IntegrityKind string

const (
	KindBadRecord          IntegrityKind = "bad-record"
	KindDuplicateID        IntegrityKind = "duplicate-id"
	KindDanglingConnection IntegrityKind = "dangling-connection"
	KindBadTimezone        IntegrityKind = "bad-timezone"
	KindBadCoordinate      IntegrityKind = "bad-coordinate"
	KindBadCellID          IntegrityKind = "bad-cell-id"
	KindBadScale           IntegrityKind = "bad-scale"
)

// DataIntegrityError aborts a graph load. No partial graph is ever returned.
type DataIntegrityError struct {
	Kind       IntegrityKind
	LocationID string
	Field      string
	Value      string
	Origin     string
	Err        error
}

func (e *DataIntegrityError) Error() string {
	msg := fmt.Sprintf("%s: location %q", e.Kind, e.LocationID)
	if e.Field != "" {
		msg += fmt.Sprintf(" field %s=%q", e.Field, e.Value)
	}
	if e.Origin != "" {
		msg += " (" + e.Origin + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrDataIntegrity) hold.
func (e *DataIntegrityError) Is(target error) bool { return target == ErrDataIntegrity }

func (e *DataIntegrityError) Unwrap() error { return e.Err }
