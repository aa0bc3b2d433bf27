// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import (
	"errors"
	"testing"

	"github.com/vektorkv/dict/dict/dicttuning"
)

func TestExpandFirstAllocation(t *testing.T) {
	d := New(stringIntType(), WithInitialExp[string, int](2))
	if err := d.Expand(100); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if d.tables[0].size() < 100 {
		t.Fatalf("expected table of at least 100 buckets, got %d", d.tables[0].size())
	}
}

func TestExpandNoOpWhenSizeUnchanged(t *testing.T) {
	d := New(stringIntType(), WithInitialExp[string, int](4))
	if err := d.Expand(1); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if err := d.Expand(1); !errors.Is(err, ErrNoOp) {
		t.Fatalf("expected ErrNoOp, got %v", err)
	}
}

func TestExpandOverflow(t *testing.T) {
	d := New(stringIntType())
	if err := d.Expand(1 << 62); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestResizeAllowedVetoYieldsNoOp(t *testing.T) {
	typ := stringIntType()
	typ.ResizeAllowed = func(bytes uint64, fillFactor float64) bool { return false }
	d := New(typ, WithInitialExp[string, int](2))

	if err := d.Expand(1000); !errors.Is(err, ErrNoOp) {
		t.Fatalf("Expand with a vetoing ResizeAllowed: got %v, want ErrNoOp", err)
	}
	if err := d.TryExpand(1000); !errors.Is(err, ErrNoOp) {
		t.Fatalf("TryExpand with a vetoing ResizeAllowed: got %v, want ErrNoOp", err)
	}
}

func TestTryExpandRecoversAllocationFailure(t *testing.T) {
	typ := stringIntType()
	d := New(typ, WithInitialExp[string, int](2))

	// Force the allocation itself to panic, simulating an allocator that
	// cannot satisfy the request, by asking for an exponent large enough
	// that make() would try to allocate an implausible slice. Instead of
	// relying on an actual OOM (unreliable in a test), exercise the
	// recover path directly through a Type whose ResizeAllowed panics,
	// which resizeTo's fallible branch must also catch.
	typ.ResizeAllowed = func(bytes uint64, fillFactor float64) bool {
		panic("simulated allocator failure")
	}
	if err := d.TryExpand(1000); !errors.Is(err, ErrAllocation) {
		t.Fatalf("TryExpand: got %v, want ErrAllocation", err)
	}
	// The dict must still be usable afterward.
	if err := d.Add("k", 1); err != nil {
		t.Fatalf("Add after recovered TryExpand: %v", err)
	}
}

func TestExpandPropagatesAllocationFailure(t *testing.T) {
	typ := stringIntType()
	d := New(typ, WithInitialExp[string, int](2))
	typ.ResizeAllowed = func(bytes uint64, fillFactor float64) bool {
		panic("simulated allocator failure")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Expand to propagate the panic instead of recovering it")
		}
	}()
	_ = d.Expand(1000)
}

func TestShrinkNeverGoesBelowInitialSize(t *testing.T) {
	d := New(stringIntType(), WithInitialExp[string, int](4))
	if err := d.Shrink(); !errors.Is(err, ErrNoOp) {
		t.Fatalf("Shrink on an empty, already-minimal dict: got %v, want ErrNoOp", err)
	}
}

func TestWithTuningOverridesForceResizeRatio(t *testing.T) {
	d := New(stringIntType(), WithTuning[string, int](dicttuning.Tuning{ForceResizeRatio: 2}))
	if d.forceResizeRatio != 2 {
		t.Fatalf("expected WithTuning to override forceResizeRatio to 2, got %d", d.forceResizeRatio)
	}

	other := New(stringIntType())
	if other.forceResizeRatio != defaultForceResizeRatio {
		t.Fatalf("expected default forceResizeRatio %d absent tuning, got %d",
			defaultForceResizeRatio, other.forceResizeRatio)
	}
}

func TestResizeForbidBlocksRehashStep(t *testing.T) {
	defer SetResizeState(ResizeEnabled)

	d := New(stringIntType(), WithInitialExp[string, int](2))
	_ = d.Add("k", 0)
	if err := d.Expand(16); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !d.isRehashing() {
		t.Fatalf("expected Expand to have started a rehash")
	}

	SetResizeState(ResizeForbid)
	before := d.rehashIdx
	d.rehashStep(1000)
	if d.rehashIdx != before {
		t.Fatalf("expected ResizeForbid to block rehashStep entirely")
	}
}

func TestResizeAvoidBlocksRehashStepBelowForceRatio(t *testing.T) {
	defer SetResizeState(ResizeEnabled)

	d := New(stringIntType(), WithInitialExp[string, int](2))
	_ = d.Add("k", 0)
	// New size 8 against old size 4 is a ratio of 2, below the default
	// forceResizeRatio of 4.
	if err := d.Expand(5); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !d.isRehashing() {
		t.Fatalf("expected Expand to have started a rehash")
	}

	SetResizeState(ResizeAvoid)
	before := d.rehashIdx
	d.rehashStep(1000)
	if d.rehashIdx != before {
		t.Fatalf("expected ResizeAvoid to block rehashStep while below forceResizeRatio")
	}
}

func TestResizeAvoidAllowsRehashStepAtForceRatio(t *testing.T) {
	defer SetResizeState(ResizeEnabled)

	d := New(stringIntType(), WithInitialExp[string, int](2))
	_ = d.Add("k", 0)
	// New size 16 against old size 4 is a ratio of 4, meeting the default
	// forceResizeRatio, so stepping must be allowed even under ResizeAvoid.
	if err := d.Expand(16); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !d.isRehashing() {
		t.Fatalf("expected Expand to have started a rehash")
	}

	SetResizeState(ResizeAvoid)
	before := d.rehashIdx
	d.rehashStep(1000)
	if d.rehashIdx == before && d.isRehashing() {
		t.Fatalf("expected ResizeAvoid to allow rehashStep once the ratio meets forceResizeRatio")
	}
}

func TestLoadFactorTriggersAutomaticExpand(t *testing.T) {
	d := New(stringIntType(), WithInitialExp[string, int](2))
	sizeBefore := d.tables[0].size()
	for i := 0; i < 5; i++ {
		_ = d.Add(string(rune('a'+i)), i)
	}
	if !d.tables[0].present() || d.tables[0].size() <= sizeBefore {
		if !d.isRehashing() {
			t.Fatalf("expected the table to have grown or be rehashing after exceeding load factor 1")
		}
	}
}
