// Package cow provides copy-on-write concurrent containers.
//
// List and Map keep their contents behind a single atomic pointer to an
// immutable backing structure:
//
//   - Writers take a private mutex, clone the whole structure, apply the
//     change to the clone and publish it with one atomic store.
//   - Readers load the pointer once and work on that snapshot. They never
//     block and never observe a half-applied write.
//
// Enumerate captures the current snapshot; later writes do not affect an
// enumeration already in progress. A snapshot enumerator cannot be reset,
// so call Enumerate again to see newer data.
//
// Writes cost O(n). Prefer package locked for write-heavy workloads.
//
// Usage:
//
//	l := cow.NewOrderedFrom([]int{1, 2, 3, 4})
//	e, _ := l.Enumerate()
//	defer e.Dispose()
//	_ = l.Add(5) // e still yields 1, 2, 3, 4
package cow
