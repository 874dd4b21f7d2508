package shelf

import (
	"iter"

	"github.com/TheBitDrifter/table"
	"go.uber.org/zap"
)

func newRegistry(capacity int) *registry {
	return &registry{
		itemIndices: make(map[table.ElementTypeID]int),
		maxCapacity: capacity,
	}
}

func (r *registry) getIndex(id table.ElementTypeID) (int, bool) {
	index, ok := r.itemIndices[id]
	return index, ok
}

func (r *registry) getItem(index int) erasedColumn {
	return r.items[index]
}

func (r *registry) full() bool {
	return len(r.items) >= r.maxCapacity
}

// register adds col under id. The returned index is also the column's bit in
// every entity signature of the World.
func (r *registry) register(id table.ElementTypeID, col erasedColumn) (int, error) {
	if r.full() {
		return -1, RegistryFullError{Type: col.componentType(), Max: r.maxCapacity}
	}
	idx := len(r.items)
	r.itemIndices[id] = idx
	r.items = append(r.items, col)
	return idx, nil
}

func (r *registry) all() iter.Seq[erasedColumn] {
	return func(yield func(erasedColumn) bool) {
		for _, col := range r.items {
			if !yield(col) {
				return
			}
		}
	}
}

func lookup[T any](w *World) (*column[T], bool) {
	idx, ok := w.columns.getIndex(elementTypeFor[T]().ID())
	if !ok {
		return nil, false
	}
	return columnOf[T](w.columns.getItem(idx)), true
}

// columnFor returns T's column, creating it on first use. A new column is
// backfilled with one empty slot per existing entity.
func columnFor[T any](w *World) *column[T] {
	if col, ok := lookup[T](w); ok {
		return col
	}
	elementType := elementTypeFor[T]()
	bit := uint32(len(w.columns.items))
	col := newColumn[T](bit, &w.signatures, w.count, w.config.EntityCapacity)
	if _, err := w.columns.register(elementType.ID(), col); err != nil {
		panic(err)
	}

	if ce := w.logger.Check(zap.DebugLevel, "column registered"); ce != nil {
		ce.Write(
			zap.Stringer("type", col.componentType()),
			zap.Uint32("bit", bit),
			zap.Int("backfill", w.count),
			zap.Int("columns", len(w.columns.items)),
		)
	}
	return col
}
