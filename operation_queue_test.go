package shelf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// lockWhile runs fn with a shared borrow on Position held.
func lockWhile(t *testing.T, w *World, fn func()) {
	t.Helper()
	ref, ok := BorrowComponents[Position](w)
	require.True(t, ok)
	require.True(t, w.Locked())
	fn()
	ref.Release()
}

func TestEnqueueWhileUnlocked(t *testing.T) {
	w := newTestWorld(2)

	var created Entity = -1
	w.EnqueueNewEntity(func(e Entity) { created = e })
	assert.Equal(t, Entity(2), created)

	EnqueueAddComponent(w, 0, Position{X: 1})
	assert.True(t, HasComponent[Position](w, 0))

	EnqueueRemoveComponent[Position](w, 0)
	assert.False(t, HasComponent[Position](w, 0))

	AddComponent(w, 1, Position{})
	w.EnqueueDeleteEntity(1)
	assert.False(t, HasComponent[Position](w, 1))
	assert.True(t, w.opQueue.empty())
}

func TestEnqueueDuringQuery(t *testing.T) {
	w := newTestWorld(3)
	for e := Entity(0); e < 3; e++ {
		AddComponent(w, e, Health{Current: int(e), Max: 2})
	}

	Query1WithID(w, Read[Health](), func(e Entity, h *Health) {
		switch h.Current {
		case 0:
			w.EnqueueDeleteEntity(e)
		case 1:
			EnqueueAddComponent(w, e, Velocity{X: 1})
		case 2:
			w.EnqueueNewEntity(func(child Entity) {
				AddComponent(w, child, Health{Max: 2})
			})
		}
		assert.Equal(t, 3, w.EntityCount(), "nothing is applied while iterating")
	})

	require.False(t, w.Locked())
	assert.True(t, w.opQueue.empty())
	assert.Equal(t, 4, w.EntityCount())
	assert.False(t, HasComponent[Health](w, 0))
	assert.True(t, HasComponent[Velocity](w, 1))
	assert.True(t, HasComponent[Health](w, 3))
}

// TestEnqueueOrder tests that creates run before component changes, which run
// before deletes
func TestEnqueueOrder(t *testing.T) {
	w := newTestWorld(2)
	AddComponent(w, 0, Position{})
	AddComponent(w, 1, Position{})

	var sawHealth, sawPosition bool
	lockWhile(t, w, func() {
		w.EnqueueDeleteEntity(1)
		EnqueueAddComponent(w, 0, Health{Current: 1})
		w.EnqueueNewEntity(func(Entity) {
			sawHealth = HasComponent[Health](w, 0)
			sawPosition = HasComponent[Position](w, 1)
		})
	})

	assert.False(t, sawHealth, "component ops not applied before creates")
	assert.True(t, sawPosition, "deletes not applied before creates")
	assert.True(t, HasComponent[Health](w, 0))
	assert.False(t, HasComponent[Position](w, 1))
}

func TestEnqueueComponentReplaces(t *testing.T) {
	tests := []struct {
		name        string
		enqueue     func(w *World)
		wantPresent bool
		want        Position
	}{
		{"Last add wins", func(w *World) {
			EnqueueAddComponent(w, 1, Position{X: 1})
			EnqueueAddComponent(w, 1, Position{X: 2})
		}, true, Position{X: 2}},
		{"Remove after add", func(w *World) {
			EnqueueAddComponent(w, 1, Position{X: 1})
			EnqueueRemoveComponent[Position](w, 1)
		}, false, Position{}},
		{"Add after remove", func(w *World) {
			EnqueueRemoveComponent[Position](w, 1)
			EnqueueAddComponent(w, 1, Position{X: 3})
		}, true, Position{X: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(2)
			AddComponent(w, 0, Position{})

			lockWhile(t, w, func() {
				tt.enqueue(w)
				assert.Len(t, w.opQueue.componentOps, 1)
			})

			got, ok := GetComponent[Position](w, 1)
			assert.Equal(t, tt.wantPresent, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnqueueDeleteCancelsComponentOps(t *testing.T) {
	w := newTestWorld(2)
	AddComponent(w, 0, Position{})

	lockWhile(t, w, func() {
		EnqueueAddComponent(w, 1, Velocity{X: 1})
		w.EnqueueDeleteEntity(1)
		w.EnqueueDeleteEntity(1)
		EnqueueAddComponent(w, 1, Health{})

		assert.Len(t, w.opQueue.destroyOps, 1, "duplicate deletes collapse")
		assert.Equal(t, opCancelled, w.opQueue.componentOps[0].typ)
		assert.Len(t, w.opQueue.componentOps, 1, "ops on a doomed entity are ignored")
	})

	assert.False(t, HasComponent[Velocity](w, 1))
	_, ok := lookup[Health](w)
	assert.False(t, ok)
}

func TestEnqueueChecksEntity(t *testing.T) {
	w := newTestWorld(1)
	AddComponent(w, 0, Position{})

	lockWhile(t, w, func() {
		assert.Panics(t, func() { w.EnqueueDeleteEntity(4) })
		assert.Panics(t, func() { EnqueueAddComponent(w, 4, Velocity{}) })
		assert.True(t, w.opQueue.empty())
	})
}

func TestWorldLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := Factory.NewWorld(WithLogger(zap.New(core)))
	e := w.NewEntity()
	AddComponent(w, e, Position{})

	registered := logs.FilterMessage("column registered").All()
	require.Len(t, registered, 1)
	fields := registered[0].ContextMap()
	assert.Equal(t, w.ID().String(), fields["world"])
	assert.Equal(t, "shelf.Position", fields["type"])
	assert.EqualValues(t, 1, fields["backfill"])

	lockWhile(t, w, func() {
		w.EnqueueNewEntity(nil)
		EnqueueRemoveComponent[Position](w, e)
	})

	flushed := logs.FilterMessage("operation queue flushed").All()
	require.Len(t, flushed, 1)
	fields = flushed[0].ContextMap()
	assert.EqualValues(t, 1, fields["creates"])
	assert.EqualValues(t, 1, fields["components"])
	assert.EqualValues(t, 2, fields["applied"])
}

// TestPanicDropsQueuedOperations tests that changes queued by an aborted pass
// are not applied
func TestPanicDropsQueuedOperations(t *testing.T) {
	tests := []struct {
		name string
		run  func(w *World, body func(e Entity))
	}{
		{"Query", func(w *World, body func(e Entity)) {
			Query1WithID(w, Read[Position](), func(e Entity, _ *Position) { body(e) })
		}},
		{"Cursor", func(w *World, body func(e Entity)) {
			for e := range Factory.NewCursor(w, Read[Position]()).Entities() {
				body(e)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(3)
			for e := Entity(0); e < 3; e++ {
				AddComponent(w, e, Position{})
			}

			err := recoverError(func() {
				tt.run(w, func(e Entity) {
					EnqueueAddComponent(w, e, Velocity{})
					w.EnqueueDeleteEntity(e)
					w.EnqueueNewEntity(nil)
					if e == 1 {
						panic(assert.AnError)
					}
				})
			})
			require.ErrorIs(t, err, assert.AnError)

			assert.False(t, w.Locked())
			assert.True(t, w.opQueue.empty())
			assert.Equal(t, 3, w.EntityCount())
			for e := Entity(0); e < 3; e++ {
				assert.True(t, HasComponent[Position](w, e), "entity %d", e)
			}
			_, ok := lookup[Velocity](w)
			assert.False(t, ok)
		})
	}
}

func TestBreakAppliesQueuedOperations(t *testing.T) {
	w := newTestWorld(3)
	for e := Entity(0); e < 3; e++ {
		AddComponent(w, e, Position{})
	}

	for e := range Factory.NewCursor(w, Read[Position]()).Entities() {
		EnqueueAddComponent(w, e, Velocity{})
		break
	}

	assert.True(t, HasComponent[Velocity](w, 0))
	assert.False(t, HasComponent[Velocity](w, 1))
}
