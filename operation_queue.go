package shelf

import (
	"reflect"

	"go.uber.org/zap"
)

type operation struct {
	typ    operationType
	entity Entity
	apply  func(w *World)
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAddComponent
	opRemoveComponent
	opCancelled
)

type opKey struct {
	entity Entity
	typ    reflect.Type
}

// opQueue holds structural changes requested while the World is locked. They
// are applied when the last borrow is released: creates first, then component
// changes, then deletes.
type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[Entity]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[Entity]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

func (q *opQueue) empty() bool {
	return len(q.createOps) == 0 &&
		len(q.componentOps) == 0 &&
		len(q.destroyOps) == 0
}

// take hands the queued operations to the caller and leaves the queue empty.
func (q *opQueue) take() (creates, components, destroys []operation) {
	creates, components, destroys = q.createOps, q.componentOps, q.destroyOps
	q.createOps, q.componentOps, q.destroyOps = nil, nil, nil
	clear(q.pendingDestroy)
	clear(q.pendingMods)
	return creates, components, destroys
}

func (q *opQueue) enqueueDestroy(e Entity) {
	if _, exists := q.pendingDestroy[e]; exists {
		return
	}
	q.pendingDestroy[e] = struct{}{}

	// Component changes on an entity about to be deleted are moot
	for key, idx := range q.pendingMods {
		if key.entity == e {
			q.componentOps[idx].typ = opCancelled
			delete(q.pendingMods, key)
		}
	}
	q.destroyOps = append(q.destroyOps, operation{
		typ:    opDestroy,
		entity: e,
		apply:  func(w *World) { w.DeleteEntity(e) },
	})
}

// enqueueComponentOp records a component change. A later change to the same
// entity and component type replaces the earlier one.
func (q *opQueue) enqueueComponentOp(typ operationType, key opKey, apply func(w *World)) {
	if _, isDestroyed := q.pendingDestroy[key.entity]; isDestroyed {
		return
	}
	if existingIdx, exists := q.pendingMods[key]; exists {
		existingOp := &q.componentOps[existingIdx]
		existingOp.typ = typ
		existingOp.apply = apply
		return
	}
	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:    typ,
		entity: key.entity,
		apply:  apply,
	})
}

// processOperationQueue applies queued operations. Operations queued while it
// runs (by a query inside an init callback) are applied in a following round.
func (w *World) processOperationQueue() {
	for !w.opQueue.empty() && !w.Locked() {
		creates, components, destroys := w.opQueue.take()
		applied := 0
		for _, op := range creates {
			op.apply(w)
			applied++
		}
		for _, op := range components {
			if op.typ == opCancelled {
				continue
			}
			op.apply(w)
			applied++
		}
		for _, op := range destroys {
			op.apply(w)
			applied++
		}
		w.logger.Debug("operation queue flushed",
			zap.Int("creates", len(creates)),
			zap.Int("components", len(components)),
			zap.Int("destroys", len(destroys)),
			zap.Int("applied", applied),
		)
	}
}

// discardOperationQueue drops every queued operation. It runs when a query or
// cursor loop unwinds from a panic, so the changes of an aborted pass are
// never applied.
func (w *World) discardOperationQueue() {
	if w.opQueue.empty() {
		return
	}
	creates, components, destroys := w.opQueue.take()
	w.logger.Debug("operation queue discarded",
		zap.Int("creates", len(creates)),
		zap.Int("components", len(components)),
		zap.Int("destroys", len(destroys)),
	)
}

// EnqueueNewEntity creates an entity now, or once the World is unlocked, and
// passes it to init.
func (w *World) EnqueueNewEntity(init func(Entity)) {
	create := func(w *World) {
		e := w.NewEntity()
		if init != nil {
			init(e)
		}
	}
	if !w.Locked() {
		create(w)
		return
	}
	w.opQueue.createOps = append(w.opQueue.createOps, operation{typ: opCreate, apply: create})
}

// EnqueueDeleteEntity deletes e now, or once the World is unlocked.
func (w *World) EnqueueDeleteEntity(e Entity) {
	if !w.Locked() {
		w.DeleteEntity(e)
		return
	}
	w.checkEntity(e)
	w.opQueue.enqueueDestroy(e)
}

// EnqueueAddComponent is AddComponent, deferred while the World is locked.
func EnqueueAddComponent[T any](w *World, e Entity, value T) {
	if !w.Locked() {
		AddComponent(w, e, value)
		return
	}
	w.checkEntity(e)
	key := opKey{entity: e, typ: reflect.TypeFor[T]()}
	w.opQueue.enqueueComponentOp(opAddComponent, key, func(w *World) {
		AddComponent(w, e, value)
	})
}

// EnqueueRemoveComponent is RemoveComponent, deferred while the World is
// locked.
func EnqueueRemoveComponent[T any](w *World, e Entity) {
	if !w.Locked() {
		RemoveComponent[T](w, e)
		return
	}
	w.checkEntity(e)
	key := opKey{entity: e, typ: reflect.TypeFor[T]()}
	w.opQueue.enqueueComponentOp(opRemoveComponent, key, func(w *World) {
		RemoveComponent[T](w, e)
	})
}
