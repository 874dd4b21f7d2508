package shelf

import (
	"fmt"
	"reflect"
)

var (
	_ Access = Accessor[struct{}]{}
)

func (a Accessor[T]) ComponentType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (a Accessor[T]) Mode() BorrowMode {
	return a.mode
}

func (a Accessor[T]) bind(w *World) (erasedColumn, bool) {
	col, ok := lookup[T](w)
	if !ok {
		return nil, false
	}
	return col, true
}

// GetFromCursor returns the component of the entity at the cursor position.
func (a Accessor[T]) GetFromCursor(cursor *Cursor) *T {
	col, ok := a.cursorColumn(cursor)
	if !ok {
		panic(fmt.Sprintf("shelf: %v is not borrowed by the cursor", a.ComponentType()))
	}
	return col.ptr(cursor.Entity())
}

// CheckCursor reports whether the cursor holds a borrow on a's column.
func (a Accessor[T]) CheckCursor(cursor *Cursor) bool {
	_, ok := a.cursorColumn(cursor)
	return ok
}

func (a Accessor[T]) cursorColumn(cursor *Cursor) (*column[T], bool) {
	typ := a.ComponentType()
	for i := 0; i < cursor.set.held; i++ {
		if cursor.set.accesses[i].ComponentType() == typ {
			return columnOf[T](cursor.set.columns[i]), true
		}
	}
	return nil, false
}
