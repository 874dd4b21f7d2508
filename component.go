package shelf

// AddComponent sets e's T to value, overwriting any previous value. The column
// for T is created on first use.
func AddComponent[T any](w *World, e Entity, value T) {
	w.checkUnlocked("AddComponent")
	w.checkEntity(e)
	columnFor[T](w).set(e, value)
}

// RemoveComponent clears e's T. It does nothing when T was never registered or
// e has no T.
func RemoveComponent[T any](w *World, e Entity) {
	w.checkUnlocked("RemoveComponent")
	w.checkEntity(e)
	if col, ok := lookup[T](w); ok {
		col.clear(e)
	}
}

// GetComponentMut returns a handle to e's T slot. It returns false only when
// T's column does not exist; an existing but empty slot still yields a handle.
func GetComponentMut[T any](w *World, e Entity) (*Slot[T], bool) {
	w.checkEntity(e)
	col, ok := lookup[T](w)
	if !ok {
		return nil, false
	}
	return &Slot[T]{world: w, col: col, entity: e}, true
}

// GetComponent returns a copy of e's T.
func GetComponent[T any](w *World, e Entity) (T, bool) {
	w.checkEntity(e)
	col, ok := lookup[T](w)
	if !ok {
		var zero T
		return zero, false
	}
	checkFree(col, Shared)
	return col.get(e)
}

func HasComponent[T any](w *World, e Entity) bool {
	w.checkEntity(e)
	col, ok := lookup[T](w)
	if !ok {
		return false
	}
	return col.slots[e].present
}

// checkFree panics when a borrow of the given mode could not be taken on col
// right now.
func checkFree(col erasedColumn, mode BorrowMode) {
	held := col.cell().held()
	if held == Exclusive || (mode == Exclusive && held == Shared) {
		panic(AliasingError{Type: col.componentType(), Requested: mode, Held: held})
	}
}

func (s *Slot[T]) Entity() Entity {
	return s.entity
}

func (s *Slot[T]) Present() bool {
	return s.col.slots[s.entity].present
}

func (s *Slot[T]) Get() (T, bool) {
	checkFree(s.col, Shared)
	return s.col.get(s.entity)
}

// Ptr returns a pointer to the stored value, or nil when the slot is empty.
// The exclusive check covers the call only: the pointer is not a borrow, so it
// must not be written through while the column is borrowed elsewhere.
func (s *Slot[T]) Ptr() *T {
	checkFree(s.col, Exclusive)
	return s.col.ptr(s.entity)
}

func (s *Slot[T]) Set(value T) {
	s.world.checkUnlocked("Slot.Set")
	s.col.set(s.entity, value)
}

func (s *Slot[T]) Clear() {
	s.world.checkUnlocked("Slot.Clear")
	s.col.clear(s.entity)
}
