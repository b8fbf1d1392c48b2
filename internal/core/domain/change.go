package domain

import (
	"errors"
	"strings"

	"go.trai.ch/zerr"
)

// ChangeType is the kind of a realtime change event.
type ChangeType uint8

const (
	// ChangeInsert announces a new item.
	ChangeInsert ChangeType = iota + 1
	// ChangeUpdate announces a new state for an existing item.
	ChangeUpdate
	// ChangeDelete announces the removal of an item.
	ChangeDelete
)

// String returns the upper-case wire name of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeInsert:
		return "INSERT"
	case ChangeUpdate:
		return "UPDATE"
	case ChangeDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// ParseChangeType parses a wire name case-insensitively.
func ParseChangeType(s string) (ChangeType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INSERT":
		return ChangeInsert, true
	case "UPDATE":
		return ChangeUpdate, true
	case "DELETE":
		return ChangeDelete, true
	default:
		return 0, false
	}
}

// ChangeEvent is one server-pushed change to the menu collection.
type ChangeEvent struct {
	Type ChangeType
	// New carries the item state for inserts and updates.
	New *MenuItem
	// OldID identifies the removed item for deletes.
	OldID ItemID
}

// TargetID returns the identifier of the item the event affects.
func (e ChangeEvent) TargetID() ItemID {
	if e.New != nil {
		return e.New.ID
	}
	return e.OldID
}

// Validate reports whether the event carries what its type requires.
func (e ChangeEvent) Validate() error {
	switch e.Type {
	case ChangeInsert, ChangeUpdate:
		if e.New == nil {
			return zerr.With(zerr.Wrap(ErrInvalidChangeEvent, "missing new item"), "type", e.Type.String())
		}
		if err := e.New.Validate(); err != nil {
			return zerr.With(errors.Join(ErrInvalidChangeEvent, err), "type", e.Type.String())
		}
		return nil
	case ChangeDelete:
		if e.OldID == "" {
			return zerr.With(zerr.Wrap(ErrInvalidChangeEvent, "missing old identifier"), "type", e.Type.String())
		}
		return nil
	default:
		return zerr.With(zerr.Wrap(ErrInvalidChangeEvent, "unknown event type"), "type", e.Type.String())
	}
}
