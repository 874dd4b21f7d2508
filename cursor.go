package shelf

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

func newCursor(w *World, accesses ...Access) *Cursor {
	return &Cursor{
		set:    newBorrowSet(w, accesses),
		entity: -1,
	}
}

// Next advances to the next entity that has every component of the cursor.
// The first call takes the borrows; they are released once iteration is
// exhausted, after which the cursor can be reused.
func (c *Cursor) Next() bool {
	if !c.initialized && !c.initialize() {
		return false
	}
	n := c.set.world.count
	for c.entity++; c.entity < n; c.entity++ {
		if c.set.matches(c.entity) {
			return true
		}
	}
	c.Reset()
	return false
}

// Entities ranges over the matching entities. Borrows are released when the
// loop ends, including on break. A panic in the loop body drops the
// operations queued while the World was locked.
func (c *Cursor) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		aborted := true
		defer func() {
			if aborted {
				c.set.world.discardOperationQueue()
			}
			c.Reset()
		}()
		for c.Next() {
			if !yield(c.Entity()) {
				break
			}
		}
		aborted = false
	}
}

func (c *Cursor) initialize() (ok bool) {
	defer func() {
		if !ok {
			c.set.release()
		}
	}()
	if !c.set.acquire() {
		return false
	}
	c.entity = -1
	c.initialized = true
	return true
}

// Reset releases any borrows and rewinds the cursor. Call it when leaving a
// Next loop early.
func (c *Cursor) Reset() {
	c.set.release()
	c.entity = -1
	c.initialized = false
}

func (c *Cursor) Entity() Entity {
	return Entity(c.entity)
}

// TotalMatched counts the matching entities without borrowing anything.
func (c *Cursor) TotalMatched() int {
	var query mask.Mask
	for _, access := range c.set.accesses {
		col, ok := access.bind(c.set.world)
		if !ok {
			return 0
		}
		query.Mark(col.bit())
	}
	total := 0
	for _, sig := range c.set.world.signatures {
		if sig.ContainsAll(query) {
			total++
		}
	}
	return total
}
