// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

// ForEach visits every key/value currently stored, stopping early if fn
// returns false. It is "safe" in the sense of spec §8: rehashing is paused
// for the duration, so the bucket layout cannot shift underneath the walk.
// Equivalent to creating a SafeIterator, walking it to completion, and
// releasing it.
func (d *Dict[K, V]) ForEach(fn func(key K, value V) bool) {
	it := d.NewSafeIterator()
	defer it.Close()
	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			return
		}
	}
}

// SafeIterator walks a Dict's entries with rehashing paused, so it may call
// any non-structural Dict method (Find, GetStats, ...) while iterating, at
// the cost of the Dict being unable to make rehashing progress until Close.
// Matches the original's "safe iterator" (spec §8).
type SafeIterator[K any, V any] struct {
	d *Dict[K, V]

	tableIdx  int
	bucketIdx int

	curKey   K
	curValue V
	started  bool
	done     bool

	seenDirect bool
	chain      *entry[K, V]
}

// NewSafeIterator creates a SafeIterator over d. Close must be called when
// done to resume rehashing.
func (d *Dict[K, V]) NewSafeIterator() *SafeIterator[K, V] {
	d.PauseRehash()
	return &SafeIterator[K, V]{d: d, tableIdx: 0, bucketIdx: -1}
}

// Close resumes rehashing. A SafeIterator must not be used again afterward.
func (it *SafeIterator[K, V]) Close() {
	if !it.done {
		it.done = true
		it.d.ResumeRehash()
	}
}

// Next advances to the next entry, returning false once exhausted.
func (it *SafeIterator[K, V]) Next() bool {
	if it.done {
		return false
	}
	if it.advance() {
		return true
	}
	it.Close()
	return false
}

// advance walks to the next entry without touching pause/resume state, so
// UnsafeIterator can reuse the same bucket-walking logic without inheriting
// SafeIterator.Next's Close-on-exhaustion behavior.
func (it *SafeIterator[K, V]) advance() bool {
	d := it.d

	for {
		if it.chain != nil {
			it.curKey, it.curValue = it.chain.key, it.chain.value
			it.chain = it.chain.next
			return true
		}

		if it.tableIdx > 1 || (it.tableIdx == 1 && !d.tables[1].present()) {
			return false
		}

		it.bucketIdx++
		tb := &d.tables[it.tableIdx]
		if it.bucketIdx >= tb.size() {
			it.tableIdx++
			it.bucketIdx = -1
			continue
		}

		b := &tb.buckets[it.bucketIdx]
		it.chain = b.head
		if b.hasDirect {
			it.curKey = b.direct
			var zero V
			it.curValue = zero
			return true
		}
	}
}

// Key returns the key at the iterator's current position. Only valid after
// a call to Next returned true.
func (it *SafeIterator[K, V]) Key() K { return it.curKey }

// Value returns the value at the iterator's current position.
func (it *SafeIterator[K, V]) Value() V { return it.curValue }

// UnsafeIterator walks a Dict's entries without pausing rehashing, for
// callers that can guarantee the Dict will not be structurally mutated
// (inserted into, deleted from, resized) for the iterator's lifetime.
// Calling Next after such a mutation is detected via a fingerprint check and
// reported as a fatal assertion, the same contract the original documents
// for its unsafe iterator (spec §8): "only ever call dictNext... you can
// only either update the entries themselves, or access them without
// modifying them".
type UnsafeIterator[K any, V any] struct {
	safe        SafeIterator[K, V]
	fingerprint uint64
}

// NewUnsafeIterator creates an UnsafeIterator over d. It does not pause
// rehashing; d must not be structurally mutated while it is in use.
func (d *Dict[K, V]) NewUnsafeIterator() *UnsafeIterator[K, V] {
	return &UnsafeIterator[K, V]{
		safe:        SafeIterator[K, V]{d: d, tableIdx: 0, bucketIdx: -1, done: true},
		fingerprint: d.fingerprint,
	}
}

// Next advances to the next entry, returning false once exhausted. It
// asserts fatally if the Dict was structurally mutated since creation or
// the previous Next call.
func (it *UnsafeIterator[K, V]) Next() bool {
	assertf(it.fingerprint == it.safe.d.fingerprint,
		"dict: unsafe iterator used after a structural mutation")
	ok := it.safe.advance()
	it.fingerprint = it.safe.d.fingerprint
	return ok
}

// Key returns the key at the iterator's current position.
func (it *UnsafeIterator[K, V]) Key() K { return it.safe.Key() }

// Value returns the value at the iterator's current position.
func (it *UnsafeIterator[K, V]) Value() V { return it.safe.Value() }
