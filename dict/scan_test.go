// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import (
	"fmt"
	"testing"
)

func TestScanVisitsEveryStableKey(t *testing.T) {
	d := populated(t, 200)

	seen := make(map[string]int)
	var cursor uint64
	for {
		cursor = d.Scan(cursor, func(key string, value int) bool {
			seen[key]++
			return true
		})
		if cursor == 0 {
			break
		}
	}

	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("k%d", i)
		if seen[key] == 0 {
			t.Fatalf("Scan never visited %q", key)
		}
	}
}

func TestScanDuringRehashVisitsEveryKey(t *testing.T) {
	d := populated(t, 20)
	// Finish any rehash populated left in progress; Expand is a no-op
	// while one is running.
	for d.isRehashing() {
		d.rehashStep(1000)
	}
	if err := d.Expand(2000); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !d.isRehashing() {
		t.Fatalf("expected Expand(2000) to start a rehash from a small table")
	}

	seen := make(map[string]int)
	var cursor uint64
	for {
		cursor = d.Scan(cursor, func(key string, value int) bool {
			seen[key]++
			return true
		})
		if cursor == 0 {
			break
		}
	}

	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("k%d", i)
		if seen[key] == 0 {
			t.Fatalf("Scan never visited %q while rehashing", key)
		}
	}
}

func TestReverseBitsCursorVisitsEverySlot(t *testing.T) {
	const mask = 0xF // 16 slots
	var cursor uint64
	visited := make(map[uint64]bool)
	for i := 0; i <= 16; i++ {
		visited[cursor] = true
		cursor = nextReversedCursor(cursor, mask)
		if cursor == 0 {
			break
		}
	}
	if len(visited) != 16 {
		t.Fatalf("expected to visit 16 distinct cursor values, got %d", len(visited))
	}
}
