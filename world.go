package shelf

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newWorld(opts ...Option) *World {
	w := &World{
		id:      uuid.New(),
		config:  DefaultConfig(),
		opQueue: newOpQueue(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.config = w.config.withDefaults()
	if err := w.config.Validate(); err != nil {
		panic(err)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
		if w.config.Debug {
			w.logger = zap.Must(NewLogger(true))
		}
	}
	w.logger = w.logger.With(zap.Stringer("world", w.id))
	w.columns = newRegistry(w.config.MaxComponentTypes)
	w.signatures = make([]mask.Mask, 0, w.config.EntityCapacity)
	return w
}

func (w *World) ID() uuid.UUID {
	return w.id
}

func (w *World) EntityCount() int {
	return w.count
}

// Locked reports whether any column is currently borrowed. Structural changes
// are rejected while locked; use the Enqueue variants instead.
func (w *World) Locked() bool {
	return w.borrows > 0
}

// ComponentTypes yields the registered component types in registration order.
func (w *World) ComponentTypes() iter.Seq[reflect.Type] {
	return func(yield func(reflect.Type) bool) {
		for col := range w.columns.all() {
			if !yield(col.componentType()) {
				return
			}
		}
	}
}

func (w *World) checkUnlocked(op string) {
	if w.Locked() {
		panic(LockedWorldError{Op: op})
	}
}
