// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "github.com/vektorkv/dict/monotime"

// isRehashing reports whether a rehash from tables[0] to tables[1] is in
// progress.
func (d *Dict[K, V]) isRehashing() bool { return d.rehashIdx >= 0 }

// RehashingInfo describes the state of an in-progress rehash, returned by
// Dict.RehashingInfo.
type RehashingInfo struct {
	InProgress bool
	OldSize    int
	NewSize    int
	Migrated   int
}

// RehashingInfo reports the current rehash state (spec §4.4, used by
// dictmgr's scheduler to decide whether a shard needs servicing).
func (d *Dict[K, V]) RehashingInfo() RehashingInfo {
	if !d.isRehashing() {
		return RehashingInfo{}
	}
	return RehashingInfo{
		InProgress: true,
		OldSize:    d.tables[0].size(),
		NewSize:    d.tables[1].size(),
		Migrated:   d.rehashIdx,
	}
}

// PauseRehash prevents any rehash step from running until a matching
// ResumeRehash, for callers that need a momentarily stable bucket layout
// (e.g. a safe iterator, spec §8).
func (d *Dict[K, V]) PauseRehash() { d.pauseRehash++ }

// ResumeRehash undoes one PauseRehash.
func (d *Dict[K, V]) ResumeRehash() {
	if d.pauseRehash > 0 {
		d.pauseRehash--
	}
}

// PauseAutoResize suspends automatic expand/shrink decisions made by
// mutating operations, without affecting explicit Expand/TryExpand/Shrink
// calls.
func (d *Dict[K, V]) PauseAutoResize() { d.pauseAutoResize++ }

// ResumeAutoResize undoes one PauseAutoResize.
func (d *Dict[K, V]) ResumeAutoResize() {
	if d.pauseAutoResize > 0 {
		d.pauseAutoResize--
	}
}

// rehashStep migrates up to n non-empty buckets of tables[0] into tables[1],
// completing the rehash (swapping tables and clearing rehashIdx) if it
// empties tables[0]. It is the single place incremental migration happens;
// every mutating operation calls it once per invocation (spec §4.4).
//
// Rehashing is gated (spec §4.4): pauseRehash > 0 or the process-wide
// ResizeForbid state blocks steps entirely; ResizeAvoid blocks steps unless
// the in-progress rehash's growth/shrink ratio already exceeds forceResizeRatio,
// same as the ratio shouldExpand checks before starting one.
func (d *Dict[K, V]) rehashStep(n int) {
	if !d.isRehashing() || d.pauseRehash > 0 {
		return
	}
	switch currentResizeState() {
	case ResizeForbid:
		return
	case ResizeAvoid:
		if !d.rehashRatioExceedsForce() {
			return
		}
	}

	emptyVisits := n * 10 // bound the walk across long runs of empty buckets
	for ; n > 0 && d.tables[0].used != 0; n-- {
		for d.tables[0].buckets[d.rehashIdx].empty() {
			d.rehashIdx++
			emptyVisits--
			if emptyVisits == 0 {
				return
			}
		}
		d.migrateBucket(d.rehashIdx)
		d.rehashIdx++
	}

	if d.tables[0].used == 0 {
		d.finishRehash()
	}
}

// migrateBucket moves every entry out of tables[0]'s bucket bi into
// tables[1], rehoming each by the new table's mask. When the Type allows
// the direct-key optimization and an entry's destination bucket in
// tables[1] turns out to be empty, the migration opportunistically
// collapses the heap-allocated entry back into a bare key stored directly
// in the bucket slot, reclaiming the allocation (spec §4.4) — the same
// collapse newEntry's absence would have produced had that key hashed to
// an empty bucket in the first place.
func (d *Dict[K, V]) migrateBucket(bi int) {
	src := &d.tables[0].buckets[bi]

	if src.hasDirect {
		d.insertIntoTable(1, src.direct, zeroV[V](), false)
		src.hasDirect = false
		d.tables[0].used--
	}

	for e := src.head; e != nil; {
		next := e.next
		idx := d.tables[1].index(d.typ.Hash(e.key))
		dst := &d.tables[1].buckets[idx]
		if d.typ.directKeyOptimized() && dst.empty() {
			dst.direct = e.key
			dst.hasDirect = true
		} else {
			e.next = dst.head
			dst.head = e
		}
		d.tables[0].used--
		d.tables[1].used++
		e = next
	}
	src.head = nil
}

func (d *Dict[K, V]) finishRehash() {
	d.tables[0].release()
	d.tables[0] = d.tables[1]
	d.tables[1] = table[K, V]{exp: -1}
	d.rehashIdx = -1
	if d.logger != nil {
		d.logger.Infof("dict: rehash completed size=%d", d.tables[0].size())
	}
	if d.typ.RehashCompleted != nil {
		d.typ.RehashCompleted()
	}
}

// rehashMicroseconds runs rehash steps of one bucket each until at least us
// microseconds have elapsed or the rehash completes, the time-bounded
// strategy spec §4.4 calls out alongside the default per-call N-step form.
func (d *Dict[K, V]) rehashMicroseconds(us int64) int {
	if !d.isRehashing() || d.pauseRehash > 0 {
		return 0
	}
	deadline := monotime.Now() + uint64(us*1000)
	steps := 0
	for d.isRehashing() && monotime.Now() < deadline {
		d.rehashStep(1)
		steps++
	}
	return steps
}

// RehashMicroseconds is the exported form of rehashMicroseconds, letting a
// caller (typically dictmgr's background scheduler) donate a time budget to
// migrating a shard instead of relying solely on the per-call single-bucket
// amortization every mutation already performs.
func (d *Dict[K, V]) RehashMicroseconds(us int64) int {
	return d.rehashMicroseconds(us)
}

func zeroV[V any]() V {
	var v V
	return v
}

// rehashRatioExceedsForce reports whether the size ratio between the old
// and new tables of an in-progress rehash has already reached
// d.forceResizeRatio, the same threshold shouldExpand applies before
// starting a resize. Under ResizeAvoid this is what still lets an
// already-started rehash keep stepping instead of stalling indefinitely.
func (d *Dict[K, V]) rehashRatioExceedsForce() bool {
	oldSize := d.tables[0].size()
	newSize := d.tables[1].size()
	if oldSize == 0 || newSize == 0 {
		return true
	}
	ratio := float64(newSize) / float64(oldSize)
	if ratio < 1 {
		ratio = 1 / ratio
	}
	return ratio >= float64(d.forceResizeRatio)
}
