// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

// findLocation locates key across whichever tables are live, checking
// tables[0] and, only while a rehash is in progress, tables[1] too (spec
// §4.4: a rehashing Dict must be searched in both places since a key may
// have migrated). prev is the chain predecessor of ent, nil if ent is the
// bucket head or the match was the bucket's direct slot.
func (d *Dict[K, V]) findLocation(key K) (ti, bi int, prev, ent *entry[K, V], direct, ok bool) {
	hash := d.typ.Hash(key)
	limit := 1
	if d.isRehashing() {
		limit = 2
	}
	for t := 0; t < limit; t++ {
		if !d.tables[t].present() {
			continue
		}
		idx := int(d.tables[t].index(hash))
		b := &d.tables[t].buckets[idx]
		if b.hasDirect && d.typ.Equal(b.direct, key) {
			return t, idx, nil, nil, true, true
		}
		var p *entry[K, V]
		for e := b.head; e != nil; e = e.next {
			if d.typ.Equal(e.key, key) {
				return t, idx, p, e, false, true
			}
			p = e
		}
	}
	return 0, 0, nil, nil, false, false
}

// Find looks up key, returning its value (the zero value if the Type
// declares FlagNoValue) and whether it was present.
func (d *Dict[K, V]) Find(key K) (V, bool) {
	d.rehashStep(d.rehashStepSize)
	_, _, _, ent, direct, ok := d.findLocation(key)
	if !ok {
		var zero V
		return zero, false
	}
	if direct {
		var zero V
		return zero, true
	}
	return ent.value, true
}

// FetchValue is Find expressed with the sentinel-error convention (spec
// §7), for callers threading errors instead of a boolean.
func (d *Dict[K, V]) FetchValue(key K) (V, error) {
	v, ok := d.Find(key)
	if !ok {
		return v, ErrNotFound
	}
	return v, nil
}

// InsertPosition is a slot located by FindPositionForInsert, to be filled by
// exactly one InsertAtPosition call. It becomes invalid after any other
// mutation of the same Dict.
type InsertPosition[K any, V any] struct {
	tableIdx int
	bucketIdx int
	valid     bool
}

// FindPositionForInsert performs the rehash-step and auto-expand work a
// mutation does, then locates (without allocating) the slot key would
// occupy. It reports ok=false if key is already present, mirroring the
// original's dictFindPositionForInsert returning NULL on a duplicate. This
// lets a caller that already has a value in hand skip a second traversal
// (spec §6's two-phase insert).
func (d *Dict[K, V]) FindPositionForInsert(key K) (InsertPosition[K, V], bool) {
	d.rehashStep(d.rehashStepSize)
	if !d.tables[0].present() {
		d.tables[0].allocate(d.initialExp)
	} else if d.shouldExpand() {
		_ = d.TryExpand(d.tables[0].used + 1)
	}

	if _, _, _, _, _, ok := d.findLocation(key); ok {
		return InsertPosition[K, V]{}, false
	}

	ti := 0
	if d.isRehashing() {
		ti = 1
	}
	idx := int(d.tables[ti].index(d.typ.Hash(key)))
	return InsertPosition[K, V]{tableIdx: ti, bucketIdx: idx, valid: true}, true
}

// InsertAtPosition stores key/value at a position obtained from
// FindPositionForInsert. Calling it with a zero InsertPosition panics; a
// stale position is not detected.
func (d *Dict[K, V]) InsertAtPosition(pos InsertPosition[K, V], key K, value V) {
	if !pos.valid {
		assertf(false, "dict: InsertAtPosition called with an invalid position")
		return
	}
	if d.typ.DupKey != nil {
		key = d.typ.DupKey(key)
	}
	d.insertAt(pos.tableIdx, pos.bucketIdx, key, value)
}

// insertAt stores key/value into tables[ti]'s bucket bi, taking the
// direct-slot fast path when the Type allows it and the slot is free.
func (d *Dict[K, V]) insertAt(ti, bi int, key K, value V) {
	b := &d.tables[ti].buckets[bi]
	if d.typ.directKeyOptimized() && b.empty() {
		b.direct = key
		b.hasDirect = true
	} else {
		e := newEntry(d.typ, key, value)
		e.next = b.head
		b.head = e
	}
	d.tables[ti].used++
	d.fingerprint++
}

// insertIntoTable is insertAt with the bucket index derived from the key's
// hash, used by paths (migration, AddRaw) that have not already located a
// slot via FindPositionForInsert.
func (d *Dict[K, V]) insertIntoTable(ti int, key K, value V, dup bool) {
	if dup && d.typ.DupKey != nil {
		key = d.typ.DupKey(key)
	}
	idx := int(d.tables[ti].index(d.typ.Hash(key)))
	d.insertAt(ti, idx, key, value)
}

// Add inserts key/value, returning ErrKeyExists if key is already present
// and leaving the Dict unchanged in that case.
func (d *Dict[K, V]) Add(key K, value V) error {
	pos, ok := d.FindPositionForInsert(key)
	if !ok {
		return ErrKeyExists
	}
	d.InsertAtPosition(pos, key, value)
	return nil
}

// AddRaw is Add expressed as a single-pass primitive: it reports whether the
// key was newly inserted instead of an error, for callers on a hot path
// that would rather branch on a bool.
func (d *Dict[K, V]) AddRaw(key K, value V) bool {
	pos, ok := d.FindPositionForInsert(key)
	if !ok {
		return false
	}
	d.InsertAtPosition(pos, key, value)
	return true
}

// AddOrFind inserts key/value if absent, or returns the value already
// stored for key. existed reports which case occurred. When key is present
// it is looked up a second time to fetch its value.
func (d *Dict[K, V]) AddOrFind(key K, value V) (result V, existed bool) {
	pos, ok := d.FindPositionForInsert(key)
	if !ok {
		v, _ := d.Find(key)
		return v, true
	}
	d.InsertAtPosition(pos, key, value)
	return value, false
}

// Replace sets key's value, inserting key if it was absent. existed reports
// whether key was already present (in which case DestroyValue, if set, was
// called on the value being replaced).
func (d *Dict[K, V]) Replace(key K, value V) (existed bool) {
	d.rehashStep(d.rehashStepSize)
	ti, bi, _, ent, direct, ok := d.findLocation(key)
	if !ok {
		_ = d.AddRaw(key, value)
		return false
	}
	if direct {
		// the direct slot carries no value by construction (FlagNoValue);
		// nothing to replace.
		_ = ti
		_ = bi
		return true
	}
	// The new value is stored before the old one is destroyed (spec §4.5):
	// for reference-counted values this keeps the safe inc-then-dec order
	// even when value is the same reference already stored in ent.value.
	old := ent.value
	if !d.typ.noValue() {
		ent.value = value
	}
	if d.typ.DestroyValue != nil && !d.typ.noValue() {
		d.typ.DestroyValue(old)
	}
	d.fingerprint++
	return true
}

// SetValue is Replace restricted to keys already known present; it is a
// no-op reported via ErrNotFound if key is absent, for callers that want to
// distinguish "updated" from "inserted".
func (d *Dict[K, V]) SetValue(key K, value V) error {
	d.rehashStep(d.rehashStepSize)
	_, _, _, ent, direct, ok := d.findLocation(key)
	if !ok {
		return ErrNotFound
	}
	if direct {
		return nil
	}
	// Same store-then-destroy order as Replace; see spec §4.5.
	old := ent.value
	if !d.typ.noValue() {
		ent.value = value
	}
	if d.typ.DestroyValue != nil && !d.typ.noValue() {
		d.typ.DestroyValue(old)
	}
	d.fingerprint++
	return nil
}

// IncrementValue applies add(current, delta) to key's stored value in
// place, using a caller-supplied combinator since V is not constrained to
// any numeric interface. Returns ErrNotFound if key is absent.
func (d *Dict[K, V]) IncrementValue(key K, delta V, add func(current, delta V) V) (V, error) {
	d.rehashStep(d.rehashStepSize)
	_, _, _, ent, direct, ok := d.findLocation(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	if direct || d.typ.noValue() {
		var zero V
		return zero, nil
	}
	ent.value = add(ent.value, delta)
	d.fingerprint++
	return ent.value, nil
}

// Delete removes key, invoking DestroyKey/DestroyValue if the Type declares
// them. Returns ErrNotFound if key was absent.
func (d *Dict[K, V]) Delete(key K) error {
	_, err := d.unlink(key, true)
	return err
}

// Unlink removes key immediately without invoking DestroyKey/DestroyValue,
// returning the removed value (the zero value if the Type declares
// FlagNoValue) so the caller can dispose of it on its own terms (spec §4.5's
// "unlink" mode of Delete/unlink, paired with Free for deferred destruction
// of an already-unlinked entry). Unlike TwoPhaseUnlinkFind/TwoPhaseUnlinkFree
// below, the entry is gone from the Dict as soon as Unlink returns.
func (d *Dict[K, V]) Unlink(key K) (V, error) {
	return d.unlink(key, false)
}

// Free invokes the Type's DestroyKey/DestroyValue hooks on a key/value pair
// already removed via Unlink. It performs no lookup; it exists purely to
// name the deferred-destruction half of Unlink.
func (d *Dict[K, V]) Free(key K, value V) {
	if d.typ.DestroyKey != nil {
		d.typ.DestroyKey(key)
	}
	if d.typ.DestroyValue != nil && !d.typ.noValue() {
		d.typ.DestroyValue(value)
	}
}

// UnlinkPosition is an entry located by TwoPhaseUnlinkFind, to be removed by
// exactly one TwoPhaseUnlinkFree call. It becomes invalid after any other
// mutation of the same Dict.
type UnlinkPosition[K any, V any] struct {
	tableIdx  int
	bucketIdx int
	prev      *entry[K, V]
	ent       *entry[K, V]
	direct    bool
	valid     bool
}

// TwoPhaseUnlinkFind locates key and, if present, pauses rehashing and
// returns a position describing it along with its current value, without
// removing it from the Dict (spec §4.5's "two-phase unlink": "locate the
// entry and return both it and a mutable reference to its predecessor's
// next-link, pausing rehash"). This lets a caller inspect the entry — for
// instance to decide whether deleting it is still correct — without a
// second lookup and without racing an in-progress rehash, at the cost of
// rehashing being paused until a matching TwoPhaseUnlinkFree call. Reports
// ok=false, with rehashing untouched, if key is absent.
func (d *Dict[K, V]) TwoPhaseUnlinkFind(key K) (pos UnlinkPosition[K, V], value V, ok bool) {
	d.rehashStep(d.rehashStepSize)
	ti, bi, prev, ent, direct, found := d.findLocation(key)
	if !found {
		var zero V
		return UnlinkPosition[K, V]{}, zero, false
	}

	d.PauseRehash()

	if direct || d.typ.noValue() {
		var zero V
		value = zero
	} else {
		value = ent.value
	}
	return UnlinkPosition[K, V]{
		tableIdx:  ti,
		bucketIdx: bi,
		prev:      prev,
		ent:       ent,
		direct:    direct,
		valid:     true,
	}, value, true
}

// TwoPhaseUnlinkFree completes the removal started by TwoPhaseUnlinkFind:
// it unlinks the entry from its chain, runs DestroyKey/DestroyValue if the
// Type declares them, runs the same post-delete auto-shrink check Delete
// does, and resumes rehashing (spec §4.5: "A subsequent free resumes rehash
// and completes the unlink"). Calling it with a zero UnlinkPosition
// panics; a stale position is not detected.
func (d *Dict[K, V]) TwoPhaseUnlinkFree(pos UnlinkPosition[K, V]) {
	if !pos.valid {
		assertf(false, "dict: TwoPhaseUnlinkFree called with an invalid position")
		return
	}
	defer d.ResumeRehash()

	b := &d.tables[pos.tableIdx].buckets[pos.bucketIdx]

	var removedKey K
	var removedValue V
	if pos.direct {
		removedKey = b.direct
		var zeroKey K
		b.direct = zeroKey
		b.hasDirect = false
	} else {
		removedKey = pos.ent.key
		removedValue = pos.ent.value
		if pos.prev == nil {
			b.head = pos.ent.next
		} else {
			pos.prev.next = pos.ent.next
		}
	}
	d.tables[pos.tableIdx].used--
	d.fingerprint++

	if d.shouldShrink() {
		_ = d.Shrink()
	}

	if d.typ.DestroyKey != nil {
		d.typ.DestroyKey(removedKey)
	}
	if d.typ.DestroyValue != nil && !d.typ.noValue() && !pos.direct {
		d.typ.DestroyValue(removedValue)
	}
}

func (d *Dict[K, V]) unlink(key K, destroy bool) (V, error) {
	d.rehashStep(d.rehashStepSize)
	ti, bi, prev, ent, direct, ok := d.findLocation(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}

	b := &d.tables[ti].buckets[bi]
	var zero V
	var removedKey K
	var removedValue V

	if direct {
		removedKey = b.direct
		var zeroKey K
		b.direct = zeroKey
		b.hasDirect = false
	} else {
		removedKey = ent.key
		removedValue = ent.value
		if prev == nil {
			b.head = ent.next
		} else {
			prev.next = ent.next
		}
	}
	d.tables[ti].used--
	d.fingerprint++

	if d.shouldShrink() {
		_ = d.Shrink()
	}

	if destroy {
		if d.typ.DestroyKey != nil {
			d.typ.DestroyKey(removedKey)
		}
		if d.typ.DestroyValue != nil && !d.typ.noValue() && !direct {
			d.typ.DestroyValue(removedValue)
		}
		return zero, nil
	}

	if direct || d.typ.noValue() {
		return zero, nil
	}
	return removedValue, nil
}
