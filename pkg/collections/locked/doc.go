// Package locked provides concurrent containers guarded by a reader/writer lock.
//
// List and Map own one reader/writer lock each. Every read takes the read lock and
// every write takes the write lock, so Count is always exact and mutations
// are applied in place.
//
// Enumerators hold the read lock for their whole lifetime:
//
//	e, err := l.Enumerate()
//	if err != nil {
//		return err
//	}
//	defer e.Dispose()
//	for e.MoveNext() {
//		use(e.Current())
//	}
//
// A writer that arrives while e is open blocks until e is exhausted or
// disposed. Range is the callback form and releases the lock on every exit
// path.
//
// Reads are reentrant: a Range callback, or the goroutine holding an open
// enumerator, may read the same container again even while a writer waits.
// Writing to the container from inside its own read scope deadlocks.
//
// Containers are disposed with Dispose (or Close). Dispose is idempotent and
// every other call made afterwards fails with collections.ErrUsedAfterDispose.
package locked
