// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dictkey provides convenience constructors for dict.Type covering
// the common key domains (strings, byte slices, integers), so most callers
// never have to hand-write Hash/Equal themselves.
package dictkey

import (
	"bytes"

	"github.com/vektorkv/dict/dict"
	"github.com/vektorkv/dict/dict/dicthash"
)

// StringValues returns a Type mapping string keys to values of V using the
// package-wide seeded hash.
func StringValues[V any]() *dict.Type[string, V] {
	return &dict.Type[string, V]{
		Hash:  dicthash.String,
		Equal: func(a, b string) bool { return a == b },
	}
}

// StringSet returns a Type for a set of strings: no value is stored, and
// Find/FetchValue's returned value is always the zero value.
func StringSet() *dict.Type[string, struct{}] {
	return &dict.Type[string, struct{}]{
		Hash:  dicthash.String,
		Equal: func(a, b string) bool { return a == b },
		Flags: dict.FlagNoValue,
	}
}

// CaseInsensitiveStringValues is StringValues with keys compared and hashed
// ignoring case, the pairing dicthash.StringCaseInsensitive/EqualFoldString
// exist for.
func CaseInsensitiveStringValues[V any]() *dict.Type[string, V] {
	return &dict.Type[string, V]{
		Hash:  dicthash.StringCaseInsensitive,
		Equal: dicthash.EqualFoldString,
	}
}

// BytesValues returns a Type mapping []byte keys to values of V. Unlike the
// string variants, keys are compared by content (bytes.Equal), so two
// distinct slices with the same contents collide correctly.
func BytesValues[V any]() *dict.Type[[]byte, V] {
	return &dict.Type[[]byte, V]{
		Hash:   dicthash.Bytes,
		Equal:  bytes.Equal,
		DupKey: func(key []byte) []byte { return append([]byte(nil), key...) },
	}
}

// Integer returns a Type for any signed integer key type, using a
// multiplicative mix rather than the identity function so that sequential
// keys (common for auto-incrementing IDs) do not cluster in the low bits of
// a small table.
func Integer[K ~int | ~int8 | ~int16 | ~int32 | ~int64, V any]() *dict.Type[K, V] {
	return &dict.Type[K, V]{
		Hash:  func(key K) uint64 { return mix64(uint64(key)) },
		Equal: func(a, b K) bool { return a == b },
	}
}

// mix64 is SplitMix64's finalizer, a small well-known avalanche used
// anywhere an integer needs to be spread across a hash table's bits.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
