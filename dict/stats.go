// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import (
	"fmt"
	"unsafe"
)

// sizeofApprox reports the shallow in-memory size of v's type, the same
// crude estimate the original derives from sizeof(dictEntry) plus key/value
// sizes. It only feeds ResizeAllowed's byte estimate and the memory-usage
// estimates; it is never used for anything safety-relevant.
func sizeofApprox[T any](v T) int {
	return int(unsafe.Sizeof(v))
}

// Stats summarizes the shape of a Dict's bucket arrays, mirroring the
// histogram the original's dictGetStats produces.
type Stats struct {
	Table0Size    int
	Table0Used    int
	Table1Size    int
	Table1Used    int
	Rehashing     bool
	ChainLengths0 []int // count of buckets holding each chain length, index 0..
	ChainLengths1 []int
}

// GetStats computes a Stats snapshot. It walks every bucket of both tables,
// so it is O(size), same as the original; not meant to be called on a hot
// path.
func (d *Dict[K, V]) GetStats() Stats {
	s := Stats{
		Table0Size: d.tables[0].size(),
		Table0Used: d.tables[0].used,
		Table1Size: d.tables[1].size(),
		Table1Used: d.tables[1].used,
		Rehashing:  d.isRehashing(),
	}
	s.ChainLengths0 = chainHistogram(&d.tables[0])
	if d.tables[1].present() {
		s.ChainLengths1 = chainHistogram(&d.tables[1])
	}
	return s
}

func chainHistogram[K any, V any](tb *table[K, V]) []int {
	if !tb.present() {
		return nil
	}
	hist := make([]int, 1)
	for bi := range tb.buckets {
		n := tb.buckets[bi].len()
		for len(hist) <= n {
			hist = append(hist, 0)
		}
		hist[n]++
	}
	return hist
}

// GetStatsMessage renders Stats as a short multi-line human-readable report,
// the Go analogue of the original's dictGetStatsHtml-style dump used in
// diagnostic commands and logs.
func (d *Dict[K, V]) GetStatsMessage() string {
	s := d.GetStats()
	msg := fmt.Sprintf("table0: size=%d used=%d fill=%.2f\n",
		s.Table0Size, s.Table0Used, d.loadFactor())
	if s.Rehashing {
		msg += fmt.Sprintf("table1: size=%d used=%d (rehashing, %d/%d buckets migrated)\n",
			s.Table1Size, s.Table1Used, d.rehashIdx, s.Table0Size)
	}
	return msg
}

// EntryMemoryUsage estimates the bytes occupied by a single stored entry:
// 0 for direct-key Types, otherwise the shallow entry size. Bytes a Type
// embeds into an entry are not counted.
func (d *Dict[K, V]) EntryMemoryUsage() int {
	if d.typ.directKeyOptimized() {
		return 0 // stored inline in the bucket slot, no separate allocation
	}
	return entrySizeEstimate[K, V]()
}

// ContainerMemoryUsage estimates total bytes held by both bucket arrays plus
// their chained entries. It is an approximation, not an exact accounting,
// same caveat as the original's memory-usage commands.
func (d *Dict[K, V]) ContainerMemoryUsage() uint64 {
	var bucketWidth bucket[K, V]
	total := uint64(len(d.tables[0].buckets)+len(d.tables[1].buckets)) * uint64(sizeofApprox(bucketWidth))
	perEntry := uint64(d.EntryMemoryUsage())
	total += uint64(d.tables[0].used+d.tables[1].used) * perEntry
	return total
}

// Buckets returns the number of buckets currently allocated across both
// tables (0 while no allocation has happened yet).
func (d *Dict[K, V]) Buckets() int {
	return d.tables[0].size() + d.tables[1].size()
}
