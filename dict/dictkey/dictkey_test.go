// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dictkey

import (
	"testing"

	"github.com/vektorkv/dict/dict"
)

func TestStringValuesRoundTrip(t *testing.T) {
	d := dict.New(StringValues[int]())
	if err := d.Add("a", 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	v, ok := d.Find("a")
	if !ok || v != 1 {
		t.Fatalf("Find(a) = (%d, %v), want (1, true)", v, ok)
	}
}

func TestStringSetHasNoValue(t *testing.T) {
	d := dict.New(StringSet())
	if err := d.Add("a", struct{}{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := d.Find("a"); !ok {
		t.Fatalf("expected a to be present")
	}
}

func TestCaseInsensitiveStringValues(t *testing.T) {
	d := dict.New(CaseInsensitiveStringValues[int]())
	if err := d.Add("Hello", 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := d.Find("hello"); !ok {
		t.Fatalf("expected case-insensitive lookup to find the key")
	}
}

func TestBytesValuesCopiesKey(t *testing.T) {
	d := dict.New(BytesValues[int]())
	key := []byte("a")
	if err := d.Add(key, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	key[0] = 'b'
	if _, ok := d.Find([]byte("a")); !ok {
		t.Fatalf("expected stored key to be unaffected by mutating the caller's slice")
	}
}

func TestIntegerKeys(t *testing.T) {
	d := dict.New(Integer[int, string]())
	for i := 0; i < 100; i++ {
		if err := d.Add(i, "v"); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}
	if d.Len() != 100 {
		t.Fatalf("expected 100 entries, got %d", d.Len())
	}
}
