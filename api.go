package shelf

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entity is an index into every column of a World. Ids are handed out in
// increasing order and never reused.
type Entity int

// BorrowMode selects how a column is borrowed.
type BorrowMode int

const (
	Shared BorrowMode = iota + 1
	Exclusive
)

// Access is the type-erased side of an Accessor. Queries and cursors use it to
// find the column an accessor refers to and the mode it borrows it with.
type Access interface {
	ComponentType() reflect.Type
	Mode() BorrowMode
	bind(w *World) (erasedColumn, bool)
}

// Option configures a World at construction.
type Option func(*World)

type World struct {
	id     uuid.UUID
	config Config
	logger *zap.Logger

	count      int
	columns    *registry
	signatures []mask.Mask

	// outstanding borrows across all columns; non-zero means locked
	borrows int
	opQueue opQueue
}

// Accessor names a component type together with the borrow mode a query takes
// on its column.
type Accessor[T any] struct {
	mode BorrowMode
}

// Slot is a handle to one entity's slot in a column. The slot may be empty.
type Slot[T any] struct {
	world  *World
	col    *column[T]
	entity Entity
}

// Ref is a shared borrow of a whole column.
type Ref[T any] struct {
	world *World
	col   *column[T]
}

// RefMut is an exclusive borrow of a whole column.
type RefMut[T any] struct {
	world *World
	col   *column[T]
}

type Cursor struct {
	set borrowSet

	// Current iteration state
	entity      int
	initialized bool
}

// registry maps element types to the World's columns.
type registry struct {
	items       []erasedColumn
	itemIndices map[table.ElementTypeID]int
	maxCapacity int
}
