// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dictmgr

import (
	"context"
	"errors"

	"github.com/vektorkv/dict/dict"
	"github.com/vektorkv/dict/dict/dicttuning"
)

// ForDict builds a Shard that donates tuning.BackgroundRehashMicros of
// background rehash progress to d on every scheduled visit, and
// opportunistically shrinks it once the rehash is caught up. d's owner is
// still the only goroutine that may call any other method on d; the
// Scheduler only ever reaches d through this callback, on whatever
// goroutine Run assigns it, so the caller must ensure that goroutine is
// d's designated owner (e.g. by running one Scheduler per owning
// goroutine, or giving each shard its own single-goroutine executor
// upstream of Run).
func ForDict[K any, V any](name string, d *dict.Dict[K, V], tuning dicttuning.Tuning) Shard {
	budget := tuning.BackgroundRehashMicros
	if budget <= 0 {
		budget = dicttuning.Default().BackgroundRehashMicros
	}
	return Shard{
		Name: name,
		Visit: func(ctx context.Context) error {
			if d.RehashingInfo().InProgress {
				d.RehashMicroseconds(budget)
				return nil
			}
			if err := d.Shrink(); err != nil && !errors.Is(err, dict.ErrNoOp) {
				return err
			}
			return nil
		},
	}
}
