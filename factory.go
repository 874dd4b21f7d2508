package shelf

type factory struct{}

var Factory factory

func (f factory) NewWorld(opts ...Option) *World {
	return newWorld(opts...)
}

func (f factory) NewCursor(w *World, accesses ...Access) *Cursor {
	return newCursor(w, accesses...)
}

// Read returns an accessor that borrows T's column shared.
func Read[T any]() Accessor[T] {
	return Accessor[T]{mode: Shared}
}

// Write returns an accessor that borrows T's column exclusively.
func Write[T any]() Accessor[T] {
	return Accessor[T]{mode: Exclusive}
}
