package shelf

// join borrows the columns of accesses in order and visits every entity whose
// slots are present in all of them, in ascending id order. If any column does
// not exist nothing is visited. bind receives the borrowed columns once and
// returns the per-entity visitor. All borrows are released when join returns.
// If the visitor panics, operations queued while the World was locked are
// dropped instead of applied.
func join(w *World, accesses []Access, bind func(cols []erasedColumn) func(Entity)) {
	set := newBorrowSet(w, accesses)
	defer set.release()
	if !set.acquire() {
		return
	}

	aborted := true
	defer func() {
		if aborted {
			w.discardOperationQueue()
		}
	}()

	visit := bind(set.columns)
	n := w.count
	for e := 0; e < n; e++ {
		if set.matches(e) {
			visit(Entity(e))
		}
	}
	aborted = false
}

// Query1 calls fn with a's component of every entity that has one.
func Query1[A any](w *World, a Accessor[A], fn func(*A)) {
	Query1WithID(w, a, func(_ Entity, pa *A) { fn(pa) })
}

func Query1WithID[A any](w *World, a Accessor[A], fn func(Entity, *A)) {
	join(w, []Access{a}, func(cols []erasedColumn) func(Entity) {
		ca := columnOf[A](cols[0])
		return func(e Entity) {
			fn(e, ca.ptr(e))
		}
	})
}

// Query2 calls fn for every entity that has both components, in ascending
// entity order. Pointers obtained through a Read accessor must not be written.
func Query2[A, B any](w *World, a Accessor[A], b Accessor[B], fn func(*A, *B)) {
	Query2WithID(w, a, b, func(_ Entity, pa *A, pb *B) { fn(pa, pb) })
}

func Query2WithID[A, B any](w *World, a Accessor[A], b Accessor[B], fn func(Entity, *A, *B)) {
	join(w, []Access{a, b}, func(cols []erasedColumn) func(Entity) {
		ca, cb := columnOf[A](cols[0]), columnOf[B](cols[1])
		return func(e Entity) {
			fn(e, ca.ptr(e), cb.ptr(e))
		}
	})
}

func Query3[A, B, C any](w *World, a Accessor[A], b Accessor[B], c Accessor[C], fn func(*A, *B, *C)) {
	Query3WithID(w, a, b, c, func(_ Entity, pa *A, pb *B, pc *C) { fn(pa, pb, pc) })
}

func Query3WithID[A, B, C any](w *World, a Accessor[A], b Accessor[B], c Accessor[C], fn func(Entity, *A, *B, *C)) {
	join(w, []Access{a, b, c}, func(cols []erasedColumn) func(Entity) {
		ca, cb, cc := columnOf[A](cols[0]), columnOf[B](cols[1]), columnOf[C](cols[2])
		return func(e Entity) {
			fn(e, ca.ptr(e), cb.ptr(e), cc.ptr(e))
		}
	})
}

func Query4[A, B, C, D any](w *World, a Accessor[A], b Accessor[B], c Accessor[C], d Accessor[D], fn func(*A, *B, *C, *D)) {
	Query4WithID(w, a, b, c, d, func(_ Entity, pa *A, pb *B, pc *C, pd *D) { fn(pa, pb, pc, pd) })
}

func Query4WithID[A, B, C, D any](w *World, a Accessor[A], b Accessor[B], c Accessor[C], d Accessor[D], fn func(Entity, *A, *B, *C, *D)) {
	join(w, []Access{a, b, c, d}, func(cols []erasedColumn) func(Entity) {
		ca, cb := columnOf[A](cols[0]), columnOf[B](cols[1])
		cc, cd := columnOf[C](cols[2]), columnOf[D](cols[3])
		return func(e Entity) {
			fn(e, ca.ptr(e), cb.ptr(e), cc.ptr(e), cd.ptr(e))
		}
	})
}
