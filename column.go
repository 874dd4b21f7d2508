package shelf

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// erasedColumn lets the World grow and clear columns without knowing their
// element type. Typed access goes through columnOf.
type erasedColumn interface {
	componentType() reflect.Type
	bit() uint32
	len() int
	pushEmpty()
	clear(e Entity)
	cell() *borrowCell
}

type optional[T any] struct {
	value   T
	present bool
}

// column stores one optional value per entity. Every write keeps the owning
// World's signature for that entity in step with the slot.
type column[T any] struct {
	typ    reflect.Type
	index  uint32
	slots  []optional[T]
	sigs   *[]mask.Mask
	borrow borrowCell
}

var _ erasedColumn = &column[struct{}]{}

func newColumn[T any](index uint32, sigs *[]mask.Mask, length, capacity int) *column[T] {
	return &column[T]{
		typ:   reflect.TypeFor[T](),
		index: index,
		slots: make([]optional[T], length, max(length, capacity)),
		sigs:  sigs,
	}
}

// columnOf downcasts an erased column back to its concrete type.
func columnOf[T any](col erasedColumn) *column[T] {
	return col.(*column[T])
}

func (c *column[T]) componentType() reflect.Type {
	return c.typ
}

func (c *column[T]) bit() uint32 {
	return c.index
}

func (c *column[T]) len() int {
	return len(c.slots)
}

func (c *column[T]) cell() *borrowCell {
	return &c.borrow
}

func (c *column[T]) pushEmpty() {
	c.slots = append(c.slots, optional[T]{})
}

func (c *column[T]) set(e Entity, value T) {
	c.slots[e] = optional[T]{value: value, present: true}
	(*c.sigs)[e].Mark(c.index)
}

func (c *column[T]) clear(e Entity) {
	c.slots[e] = optional[T]{}
	(*c.sigs)[e].Unmark(c.index)
}

func (c *column[T]) get(e Entity) (T, bool) {
	s := c.slots[e]
	return s.value, s.present
}

// ptr returns the address of slot e's value, or nil when the slot is empty.
func (c *column[T]) ptr(e Entity) *T {
	s := &c.slots[e]
	if !s.present {
		return nil
	}
	return &s.value
}
