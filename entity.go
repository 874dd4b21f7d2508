package shelf

import "github.com/TheBitDrifter/mask"

// NewEntity allocates the next entity id and appends an empty slot for it to
// every column.
func (w *World) NewEntity() Entity {
	w.checkUnlocked("NewEntity")
	for col := range w.columns.all() {
		col.pushEmpty()
	}
	w.signatures = append(w.signatures, mask.Mask{})
	e := Entity(w.count)
	w.count++
	return e
}

// DeleteEntity clears every component of e. The id stays allocated and is
// never handed out again.
func (w *World) DeleteEntity(e Entity) {
	w.checkUnlocked("DeleteEntity")
	w.checkEntity(e)
	for col := range w.columns.all() {
		col.clear(e)
	}
	w.signatures[e] = mask.Mask{}
}

func (w *World) checkEntity(e Entity) {
	if e < 0 || int(e) >= w.count {
		panic(EntityRangeError{Entity: e, Count: w.count})
	}
}
