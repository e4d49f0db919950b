// Package collections defines the shared contract for the concurrent
// containers in this module.
//
// Two concurrency strategies implement the same List and Map contracts:
//
//   - cow: copy-on-write. Writers clone the backing storage under a private
//     mutex and publish the clone with a single atomic store. Readers never
//     lock and always see one complete snapshot.
//   - locked: a private reader/writer lock guards every access, reads
//     included. An open enumerator holds the read lock, so writers wait for
//     it. Reads are reentrant.
//
// This package also holds the pieces both strategies share:
//
//   - errors.go: the error taxonomy (*Error and its sentinels)
//   - messages.go: swappable message lookup and numeric code table
//   - validate.go: index, count and range checks used by every mutator
//   - contract.go: List, Map, Enumerator and Pair
//
// Usage:
//
//	l := cow.NewOrdered[int]()
//	_ = l.AddRange([]int{3, 1, 2})
//	_ = l.Sort()
//	err := l.Insert(10, 4) // errors.Is(err, collections.ErrRange)
//
// Thread Safety:
//
// Every exported container method is safe for concurrent use. Enumerators
// are not: each one belongs to the goroutine that created it.
package collections
