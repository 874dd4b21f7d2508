package shelf

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

// borrowCell tracks the borrows held on one column: any number of readers or a
// single writer. Conflicts fail immediately instead of waiting.
type borrowCell struct {
	readers int
	writer  bool
}

func (m BorrowMode) String() string {
	switch m {
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	}
	return "unknown"
}

// held reports the strongest mode currently held, or 0 when the cell is free.
func (b *borrowCell) held() BorrowMode {
	switch {
	case b.writer:
		return Exclusive
	case b.readers > 0:
		return Shared
	}
	return 0
}

func (w *World) acquire(col erasedColumn, mode BorrowMode) {
	checkFree(col, mode)
	cell := col.cell()
	if mode == Exclusive {
		cell.writer = true
	} else {
		cell.readers++
	}
	w.borrows++
}

func (w *World) release(col erasedColumn, mode BorrowMode) {
	cell := col.cell()
	if mode == Exclusive {
		cell.writer = false
	} else {
		cell.readers--
	}
	w.borrows--
	if w.borrows == 0 {
		w.processOperationQueue()
	}
}

// borrowSet holds the borrows of one query or cursor, taken in declared order.
type borrowSet struct {
	world    *World
	accesses []Access
	columns  []erasedColumn
	held     int
	query    mask.Mask
}

func newBorrowSet(w *World, accesses []Access) borrowSet {
	return borrowSet{
		world:    w,
		accesses: accesses,
		columns:  make([]erasedColumn, len(accesses)),
	}
}

// acquire borrows each accessor's column in order. It returns false as soon as
// a column does not exist; borrows taken up to that point stay held until
// release.
func (s *borrowSet) acquire() bool {
	for i, access := range s.accesses {
		col, ok := access.bind(s.world)
		if !ok {
			return false
		}
		s.world.acquire(col, access.Mode())
		s.columns[i] = col
		s.held++
		s.query.Mark(col.bit())
	}
	return true
}

func (s *borrowSet) release() {
	for s.held > 0 {
		s.held--
		s.world.release(s.columns[s.held], s.accesses[s.held].Mode())
		s.columns[s.held] = nil
	}
	s.query = mask.Mask{}
}

func (s *borrowSet) matches(e int) bool {
	return s.world.signatures[e].ContainsAll(s.query)
}

// BorrowComponents takes a shared borrow on T's column. It returns false when
// no entity has ever been given a T.
func BorrowComponents[T any](w *World) (*Ref[T], bool) {
	col, ok := lookup[T](w)
	if !ok {
		return nil, false
	}
	w.acquire(col, Shared)
	return &Ref[T]{world: w, col: col}, true
}

// BorrowComponentsMut takes an exclusive borrow on T's column. It returns false
// when no entity has ever been given a T.
func BorrowComponentsMut[T any](w *World) (*RefMut[T], bool) {
	col, ok := lookup[T](w)
	if !ok {
		return nil, false
	}
	w.acquire(col, Exclusive)
	return &RefMut[T]{world: w, col: col}, true
}

// Len is the number of slots in the column, which equals the entity count.
func (r *Ref[T]) Len() int {
	return r.col.len()
}

func (r *Ref[T]) Get(e Entity) (T, bool) {
	r.world.checkEntity(e)
	return r.col.get(e)
}

// All yields every present value in ascending entity order.
func (r *Ref[T]) All() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for i, s := range r.col.slots {
			if s.present && !yield(Entity(i), s.value) {
				return
			}
		}
	}
}

// Release ends the borrow. Calling it more than once is a no-op; the Ref must
// not be used afterwards.
func (r *Ref[T]) Release() {
	if r.col == nil {
		return
	}
	r.world.release(r.col, Shared)
	r.col = nil
}

func (r *RefMut[T]) Len() int {
	return r.col.len()
}

// Get returns a pointer to e's value, or false when the slot is empty.
func (r *RefMut[T]) Get(e Entity) (*T, bool) {
	r.world.checkEntity(e)
	p := r.col.ptr(e)
	return p, p != nil
}

func (r *RefMut[T]) Set(e Entity, value T) {
	r.world.checkEntity(e)
	r.col.set(e, value)
}

func (r *RefMut[T]) Clear(e Entity) {
	r.world.checkEntity(e)
	r.col.clear(e)
}

func (r *RefMut[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := range r.col.slots {
			s := &r.col.slots[i]
			if s.present && !yield(Entity(i), &s.value) {
				return
			}
		}
	}
}

func (r *RefMut[T]) Release() {
	if r.col == nil {
		return
	}
	r.world.release(r.col, Exclusive)
	r.col = nil
}
