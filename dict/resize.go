// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "sync/atomic"

// ResizeState is the process-wide policy gating automatic resizes and
// incremental rehash steps (spec §4.3); explicit Expand, TryExpand and
// Shrink calls do not consult it. It applies to every Dict in the process, same as the
// original's global can_resize.
type ResizeState int32

const (
	// ResizeEnabled allows resizing whenever the load-factor thresholds
	// are crossed.
	ResizeEnabled ResizeState = iota
	// ResizeAvoid raises the thresholds (spec's "avoid" growth ratio) but
	// still allows a resize once the table is sufficiently imbalanced.
	ResizeAvoid
	// ResizeForbid disables automatic expand and shrink; explicit resize
	// calls still allocate.
	ResizeForbid
)

var globalResizeState int32 // atomic ResizeState

// SetResizeState installs the process-wide resize policy. Expected to be
// called at startup, same as the original's dictSetResizeEnabled.
func SetResizeState(s ResizeState) {
	atomic.StoreInt32(&globalResizeState, int32(s))
}

func currentResizeState() ResizeState {
	return ResizeState(atomic.LoadInt32(&globalResizeState))
}

const (
	// defaultForceResizeRatio is the load-factor multiplier applied while
	// the process-wide resize state is ResizeAvoid, absent a dicttuning
	// override via WithTuning.
	defaultForceResizeRatio = 4
	minFillRatio            = 8
)

// loadFactor returns used/capacity for table 0, the only table a load-factor
// decision is ever made against (expand/shrink always concern T[0]).
func (d *Dict[K, V]) loadFactor() float64 {
	size := d.tables[0].size()
	if size == 0 {
		return 0
	}
	return float64(d.tables[0].used) / float64(size)
}

// shouldExpand reports whether a foreground mutation should trigger a grow.
func (d *Dict[K, V]) shouldExpand() bool {
	if d.isRehashing() || d.pauseAutoResize > 0 {
		return false
	}
	if !d.tables[0].present() {
		return true // first insertion into an empty container
	}
	switch currentResizeState() {
	case ResizeForbid:
		return false
	case ResizeAvoid:
		return d.tables[0].used >= d.tables[0].size()*d.forceResizeRatio
	default:
		return d.tables[0].used >= d.tables[0].size()
	}
}

// shouldShrink reports whether a foreground mutation should trigger a
// shrink, never going below the initial size.
func (d *Dict[K, V]) shouldShrink() bool {
	if d.isRehashing() || d.pauseAutoResize > 0 || !d.tables[0].present() {
		return false
	}
	if d.tables[0].exp <= d.initialExp {
		return false
	}
	size := d.tables[0].size()
	switch currentResizeState() {
	case ResizeForbid:
		return false
	case ResizeAvoid:
		return d.tables[0].used*minFillRatio*d.forceResizeRatio < size
	default:
		return d.tables[0].used*minFillRatio < size
	}
}

// Expand grows (or performs the first allocation of) T[0] to fit at least n
// entries, starting a rehash if T[0] was non-empty. It is the "aborting"
// allocator form (spec §5): an allocation failure propagates as a panic,
// same as an embedder using an aborting malloc would crash. Returns ErrNoOp
// if the computed size equals the current size, or if Type.ResizeAllowed
// vetoes the resize.
func (d *Dict[K, V]) Expand(n int) error {
	return d.resizeTo(n, false)
}

// TryExpand is the fallible counterpart of Expand (spec §5, §6): an
// allocation failure is recovered and reported as ErrAllocation, leaving the
// Dict unchanged, instead of propagating.
func (d *Dict[K, V]) TryExpand(n int) error {
	return d.resizeTo(n, true)
}

// Shrink reduces T[0] to the smallest power of two able to hold its current
// contents, never below the initial size. Uses the fallible allocator form.
func (d *Dict[K, V]) Shrink() error {
	if !d.tables[0].present() {
		return ErrNoOp
	}
	return d.resizeTo(d.tables[0].used, true)
}

func (d *Dict[K, V]) resizeTo(n int, fallible bool) (retErr error) {
	exp, ok := expForCount(n, d.initialExp)
	if !ok {
		return ErrOverflow
	}
	if d.tables[0].present() && exp == d.tables[0].exp {
		return ErrNoOp
	}
	if d.isRehashing() {
		return ErrNoOp
	}

	if fallible {
		defer func() {
			if r := recover(); r != nil {
				retErr = ErrAllocation
			}
		}()
	}

	newSize := 1 << uint(exp)
	if d.typ.ResizeAllowed != nil {
		bytes := uint64(newSize) * uint64(entrySizeEstimate[K, V]())
		fill := float64(d.tables[0].used) / float64(newSize)
		if !d.typ.ResizeAllowed(bytes, fill) {
			return ErrNoOp
		}
	}

	if !d.tables[0].present() || d.tables[0].used == 0 {
		d.tables[0].allocate(exp)
		return nil
	}

	d.tables[1].allocate(exp)
	d.rehashIdx = 0
	if d.logger != nil {
		d.logger.Infof("dict: rehash started old=%d new=%d", d.tables[0].size(), d.tables[1].size())
	}
	if d.typ.RehashStarted != nil {
		d.typ.RehashStarted()
	}

	if d.typ.noIncremental() {
		d.rehashStep(d.tables[0].size())
	}
	return nil
}

// entrySizeEstimate is a rough per-entry byte estimate used only to feed
// Type.ResizeAllowed's fill-factor gate; it does not need to be exact.
func entrySizeEstimate[K any, V any]() int {
	var e entry[K, V]
	return sizeofApprox(e)
}
