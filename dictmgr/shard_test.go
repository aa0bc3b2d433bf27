// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dictmgr

import (
	"context"
	"fmt"
	"testing"

	"github.com/vektorkv/dict/dict"
	"github.com/vektorkv/dict/dict/dictkey"
	"github.com/vektorkv/dict/dict/dicttuning"
)

func TestForDictDonatesRehashProgress(t *testing.T) {
	d := dict.New(dictkey.StringValues[int](), dict.WithInitialExp[string, int](2))
	for i := 0; i < 50; i++ {
		_ = d.Add(fmt.Sprintf("k%d", i), i)
	}

	shard := ForDict("test-shard", d, dicttuning.Tuning{BackgroundRehashMicros: 50000})
	for i := 0; i < 200; i++ {
		if err := shard.Visit(context.Background()); err != nil {
			t.Fatalf("Visit: %v", err)
		}
		if !d.RehashingInfo().InProgress {
			break
		}
	}

	if d.RehashingInfo().InProgress {
		t.Fatalf("expected background visits to eventually finish rehashing")
	}
}

func TestForDictFallsBackToDefaultTuning(t *testing.T) {
	d := dict.New(dictkey.StringValues[int](), dict.WithInitialExp[string, int](2))
	for i := 0; i < 50; i++ {
		_ = d.Add(fmt.Sprintf("k%d", i), i)
	}

	// A zero-value Tuning (no config file loaded) must still donate some
	// rehash budget, via dicttuning.Default(), instead of silently stalling.
	shard := ForDict("test-shard", d, dicttuning.Tuning{})
	for i := 0; i < 2000 && d.RehashingInfo().InProgress; i++ {
		if err := shard.Visit(context.Background()); err != nil {
			t.Fatalf("Visit: %v", err)
		}
	}

	if d.RehashingInfo().InProgress {
		t.Fatalf("expected background visits under default tuning to eventually finish rehashing")
	}
}
