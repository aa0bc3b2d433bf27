// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import (
	"testing"

	"github.com/vektorkv/dict/test"
)

func TestTypeValidateRequiresHash(t *testing.T) {
	typ := &Type[string, int]{Equal: func(a, b string) bool { return a == b }}
	test.ShouldPanic(t, func() { typ.validate() })
}

func TestTypeValidateRequiresEqual(t *testing.T) {
	typ := &Type[string, int]{Hash: func(string) uint64 { return 0 }}
	test.ShouldPanic(t, func() { typ.validate() })
}

func TestTypeValidateEmbeddedRequiresEmbedKey(t *testing.T) {
	typ := &Type[string, int]{
		Hash:  func(string) uint64 { return 0 },
		Equal: func(a, b string) bool { return a == b },
		Flags: FlagEmbeddedEntry,
	}
	test.ShouldPanic(t, func() { typ.validate() })
}

func TestTypeValidateEmbeddedForbidsDupKey(t *testing.T) {
	typ := &Type[string, int]{
		Hash:    func(string) uint64 { return 0 },
		Equal:   func(a, b string) bool { return a == b },
		Flags:   FlagEmbeddedEntry,
		EmbedKey: func(buf []byte, key string) (uint8, int) { return 0, 0 },
		DupKey:  func(key string) string { return key },
	}
	test.ShouldPanic(t, func() { typ.validate() })
}

func TestTypeValidateKeysAreOddRequiresNoValue(t *testing.T) {
	typ := &Type[string, int]{
		Hash:  func(string) uint64 { return 0 },
		Equal: func(a, b string) bool { return a == b },
		Flags: FlagKeysAreOdd,
	}
	test.ShouldPanic(t, func() { typ.validate() })
}

func TestTypeValidateOK(t *testing.T) {
	typ := &Type[string, int]{
		Hash:  func(string) uint64 { return 0 },
		Equal: func(a, b string) bool { return a == b },
	}
	typ.validate() // must not panic
}

func TestDirectKeyOptimized(t *testing.T) {
	typ := &Type[string, struct{}]{
		Hash:  func(string) uint64 { return 0 },
		Equal: func(a, b string) bool { return a == b },
		Flags: FlagNoValue | FlagKeysAreOdd,
	}
	if !typ.directKeyOptimized() {
		t.Errorf("expected directKeyOptimized to be true")
	}
}
