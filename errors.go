package shelf

import (
	"fmt"
	"reflect"
)

// AliasingError is raised when a borrow conflicts with one already held on the
// same column.
type AliasingError struct {
	Type      reflect.Type
	Requested BorrowMode
	Held      BorrowMode
}

func (e AliasingError) Error() string {
	return fmt.Sprintf("cannot borrow %v as %s: already borrowed as %s", e.Type, e.Requested, e.Held)
}

// LockedWorldError is raised by structural changes attempted while a borrow is
// outstanding.
type LockedWorldError struct {
	Op string
}

func (e LockedWorldError) Error() string {
	return fmt.Sprintf("world is locked by an outstanding borrow: %s not allowed", e.Op)
}

type EntityRangeError struct {
	Entity Entity
	Count  int
}

func (e EntityRangeError) Error() string {
	return fmt.Sprintf("entity %d out of range (entity count %d)", e.Entity, e.Count)
}

type RegistryFullError struct {
	Type reflect.Type
	Max  int
}

func (e RegistryFullError) Error() string {
	return fmt.Sprintf("cannot register %v: registry at maximum capacity (%d)", e.Type, e.Max)
}

type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}
