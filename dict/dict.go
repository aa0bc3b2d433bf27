// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import (
	"github.com/vektorkv/dict/dict/dicttuning"
	"github.com/vektorkv/dict/logger"
)

// DefaultInitialExp is the exponent used when New is called without an
// explicit initial size: 2^4 = 16 buckets, matching the original's
// DICT_HT_INITIAL_EXP.
const DefaultInitialExp = 4

// Dict is a generic hash table with incremental rehashing (spec §3). The
// zero value is not usable; construct one with New.
type Dict[K any, V any] struct {
	typ *Type[K, V]

	tables [2]table[K, V]

	// rehashIdx is the next bucket of tables[0] to migrate, or -1 when no
	// rehash is in progress (invariant 2).
	rehashIdx int

	pauseRehash     int
	pauseAutoResize int

	initialExp       int
	rehashStepSize   int
	forceResizeRatio int

	logger logger.Logger

	metadata []byte

	// fingerprint changes on every structural mutation; unsafe iterators
	// compare against the value captured at creation to detect misuse
	// (spec §8).
	fingerprint uint64
}

// New creates an empty Dict using the given Type, which is validated and
// must not be modified afterward. opts customize initial sizing and
// diagnostics.
func New[K any, V any](typ *Type[K, V], opts ...Option[K, V]) *Dict[K, V] {
	typ.validate()

	d := &Dict[K, V]{
		typ:              typ,
		initialExp:       DefaultInitialExp,
		rehashStepSize:   1,
		forceResizeRatio: defaultForceResizeRatio,
		rehashIdx:        -1,
	}
	d.tables[0].exp = -1
	d.tables[1].exp = -1

	for _, opt := range opts {
		opt(d)
	}

	if typ.MetadataBytes > 0 {
		d.metadata = make([]byte, typ.MetadataBytes)
	}

	return d
}

// Option customizes a Dict at construction time.
type Option[K any, V any] func(*Dict[K, V])

// WithInitialExp sets the starting table-size exponent (2^exp buckets)
// instead of DefaultInitialExp.
func WithInitialExp[K any, V any](exp int) Option[K, V] {
	return func(d *Dict[K, V]) { d.initialExp = exp }
}

// WithLogger installs a logger used for rehash lifecycle diagnostics.
func WithLogger[K any, V any](l logger.Logger) Option[K, V] {
	return func(d *Dict[K, V]) { d.logger = l }
}

// WithTuning applies process-wide tunables loaded via dicttuning, overriding
// the initial table size, the number of buckets each implicit rehash step
// migrates, and the load-factor multiplier applied while the process-wide
// resize state is ResizeAvoid (see shouldExpand/shouldShrink/rehashStep in
// resize.go and rehash.go).
func WithTuning[K any, V any](t dicttuning.Tuning) Option[K, V] {
	return func(d *Dict[K, V]) {
		if t.InitialExp > 0 {
			d.initialExp = t.InitialExp
		}
		if t.RehashStepBuckets > 0 {
			d.rehashStepSize = t.RehashStepBuckets
		}
		if t.ForceResizeRatio > 0 {
			d.forceResizeRatio = t.ForceResizeRatio
		}
	}
}

// Metadata returns the inline storage reserved by Type.MetadataBytes, or nil
// if none was reserved.
func (d *Dict[K, V]) Metadata() []byte { return d.metadata }

// Len returns the number of entries currently stored.
func (d *Dict[K, V]) Len() int {
	return d.tables[0].used + d.tables[1].used
}

// Empty reports whether the Dict holds no entries.
func (d *Dict[K, V]) Empty() bool { return d.Len() == 0 }

// Release discards both tables, returning the Dict to the same state New
// produces. DestroyKey/DestroyValue are invoked for every surviving entry if
// the Type declares them.
func (d *Dict[K, V]) Release() {
	d.clearTable(0)
	d.clearTable(1)
	d.rehashIdx = -1
	d.fingerprint++
}

func (d *Dict[K, V]) clearTable(i int) {
	tb := &d.tables[i]
	if !tb.present() {
		return
	}
	if d.typ.DestroyKey != nil || d.typ.DestroyValue != nil {
		for bi := range tb.buckets {
			b := &tb.buckets[bi]
			if b.hasDirect {
				if d.typ.DestroyKey != nil {
					d.typ.DestroyKey(b.direct)
				}
			}
			for e := b.head; e != nil; e = e.next {
				if d.typ.DestroyKey != nil {
					d.typ.DestroyKey(e.key)
				}
				if d.typ.DestroyValue != nil && !d.typ.noValue() {
					d.typ.DestroyValue(e.value)
				}
			}
		}
	}
	tb.release()
}
