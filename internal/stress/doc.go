// Package stress drives the concurrent collections under a configurable
// workload and checks that they stay consistent.
//
// An Engine builds a Target for one variant (cow or locked) and shape (list
// or map), seeds it, then fans out workers that mix inserts, removes,
// lookups and full enumerations. Successful inserts and removes are
// counted, so that at the end the item count must equal
// seed + inserts - removes. Report.Verify checks exactly that.
package stress
