/*
Package shelf provides an in-memory entity/component store for games and simulations.

Shelf keeps one dense column per component type. Every column has exactly one slot per
entity ever created, so index i refers to the same entity in every column and queries
can walk several columns in lockstep.

Core Concepts:

  - Entity: An integer id indexing every column. Ids are never reused.
  - Component: Any Go value attached to an entity, one per type.
  - Column: The per-type sequence of optional values, created on first use.
  - Borrow: A shared or exclusive grant on a column, checked at runtime.
  - Query: A lockstep walk over borrowed columns visiting entities that have all of them.

Basic Usage:

	world := shelf.Factory.NewWorld()

	e := world.NewEntity()
	shelf.AddComponent(world, e, Position{X: 1, Y: 2})
	shelf.AddComponent(world, e, Velocity{X: 1})

	// Velocity is borrowed shared, Position exclusively
	shelf.Query2(world, shelf.Read[Velocity](), shelf.Write[Position](),
		func(vel *Velocity, pos *Position) {
			pos.X += vel.X
			pos.Y += vel.Y
		})

Borrow conflicts (an exclusive borrow next to any other borrow of the same column)
panic with an AliasingError. While any borrow is held the World is locked: entity
creation, deletion and component changes panic with a LockedWorldError, and the
Enqueue variants defer them until the last borrow is released.

A World is not safe for concurrent use. Independent Worlds may be used from
different goroutines.
*/
package shelf
