// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import (
	"golang.org/x/exp/rand"

	"github.com/vektorkv/dict/sliceutils"
)

// RandomKey returns a uniformly-distributed-over-buckets (not over entries)
// random key, the same cheap-but-biased sampling the original's
// dictGetRandomKey performs: pick a non-empty bucket at random, then a
// random entry within its chain. Returns ErrNotFound if the Dict is empty.
func (d *Dict[K, V]) RandomKey() (K, error) {
	var zero K
	if d.Empty() {
		return zero, ErrNotFound
	}

	d.rehashStep(d.rehashStepSize)

	var tb *table[K, V]
	if d.isRehashing() {
		// Weight the pick by how much each table still holds, so this
		// cannot spin forever on a nearly-empty table0 near the end of a
		// rehash.
		if rand.Intn(d.tables[0].used+d.tables[1].used) < d.tables[0].used {
			tb = &d.tables[0]
		} else {
			tb = &d.tables[1]
		}
	} else {
		tb = &d.tables[0]
	}

	for {
		bi := rand.Intn(tb.size())
		b := &tb.buckets[bi]
		if b.empty() {
			continue
		}
		n := b.len()
		target := rand.Intn(n)
		if b.hasDirect {
			if target == 0 {
				return b.direct, nil
			}
			target--
		}
		e := b.head
		for ; target > 0; target-- {
			e = e.next
		}
		return e.key, nil
	}
}

// fairSampleSize is how many candidates FairRandomKey draws via GetSomeKeys
// before picking one uniformly, the original's GETFAIR_NUM_ENTRIES.
const fairSampleSize = 15

// FairRandomKey returns a key with a distribution closer to uniform across
// all stored entries than RandomKey's bucket-biased sampling, though not
// exactly uniform. It draws
// fairSampleSize candidates with the same bounded bucket walk GetSomeKeys
// uses and picks one of them uniformly, so — unlike a full reservoir scan —
// it costs work proportional to the sample size, not to the Dict's size
// (spec §4.6, §1's no-proportional-to-size-work property).
func (d *Dict[K, V]) FairRandomKey() (K, error) {
	if d.Empty() {
		var zero K
		return zero, ErrNotFound
	}

	var buf [fairSampleSize]K
	got := d.GetSomeKeys(buf[:])
	if len(got) == 0 {
		return d.RandomKey()
	}
	return got[rand.Intn(len(got))], nil
}

// GetSomeKeys fills dst with up to len(dst) keys, sampling with a bounded
// linear bucket walk instead of a full-table scan (spec §4.6): starting at
// a random bucket, it visits buckets in ascending order across whichever
// tables are currently live, collecting every key found in each non-empty
// bucket, until dst is full or it has taken 10*count walk steps, where count
// is len(dst) capped at the Dict's size. A run of at least 5 consecutive
// empty buckets that is also longer than count makes it jump to a fresh
// random bucket rather than keep walking a sparse region. Returns dst
// truncated to however many keys were actually found (fewer than len(dst)
// when the Dict holds fewer entries or the step bound runs out), mirroring
// dictGetSomeKeys's "best-effort, not exactly count, not uniform" contract
// (spec §6).
func (d *Dict[K, V]) GetSomeKeys(dst []K) []K {
	count := len(dst)
	if size := d.Len(); size < count {
		count = size
	}
	if count == 0 {
		return dst[:0]
	}

	// Donate a little real rehash progress first, same as the original,
	// so repeated sampling calls still help an in-progress rehash along.
	for j := 0; j < count && d.isRehashing(); j++ {
		d.rehashStep(1)
	}

	tables := 1
	if d.isRehashing() {
		tables = 2
	}
	maxMask := d.tables[0].mask()
	if tables > 1 && d.tables[1].mask() > maxMask {
		maxMask = d.tables[1].mask()
	}

	i := rand.Uint64() & maxMask
	emptyRun := 0
	stored := 0
	maxSteps := count * 10

	for stored < count && maxSteps > 0 {
		maxSteps--
		for t := 0; t < tables; t++ {
			if tables == 2 && t == 0 && i < uint64(d.rehashIdx) {
				// Already migrated out of table0 at this index; table1 may
				// have a different size, so re-anchor on rehashIdx itself
				// if i would otherwise fall outside it.
				if i >= uint64(d.tables[1].size()) {
					i = uint64(d.rehashIdx)
				} else {
					continue
				}
			}
			if i >= uint64(d.tables[t].size()) {
				continue
			}
			b := &d.tables[t].buckets[i]
			if b.empty() {
				emptyRun++
				if emptyRun >= 5 && emptyRun > count {
					i = rand.Uint64() & maxMask
					emptyRun = 0
				}
				continue
			}
			emptyRun = 0
			if b.hasDirect {
				dst[stored] = b.direct
				stored++
				if stored == count {
					return dst[:stored]
				}
			}
			for e := b.head; e != nil; e = e.next {
				dst[stored] = e.key
				stored++
				if stored == count {
					return dst[:stored]
				}
			}
		}
		i = (i + 1) & maxMask
	}
	return dst[:stored]
}

// SampleForLogging samples up to n keys with GetSomeKeys and returns them as []any,
// ready to splat into a Logger.Infof call's variadic arguments without the
// caller writing its own []K-to-[]any conversion loop.
func (d *Dict[K, V]) SampleForLogging(n int) []any {
	dst := make([]K, n)
	return sliceutils.ToAnySlice(d.GetSomeKeys(dst))
}
