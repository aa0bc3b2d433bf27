// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dicthash provides ready-made hash functions for building a
// dict.Type, backed by a single process-wide random seed so that hash
// values are unpredictable to a remote attacker shaping keys to cause
// collisions (spec §4.5's "hash seed").
package dicthash

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

var seed = maphash.MakeSeed()

// Bytes hashes a byte slice with the process-wide seed.
func Bytes(b []byte) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	h.Write(b)
	return h.Sum64()
}

// String hashes a string with the process-wide seed.
func String(s string) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteString(s)
	return h.Sum64()
}

// StringCaseInsensitive hashes s as if it had been lower-cased first,
// without allocating a lower-cased copy, for Types whose Equal performs a
// case-insensitive comparison (spec §4.5 calls this variant out explicitly
// alongside the default).
func StringCaseInsensitive(s string) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h.WriteByte(c)
	}
	return h.Sum64()
}

// EqualFoldString reports whether a and b are equal under the same folding
// StringCaseInsensitive applies (ASCII letters only), for pairing with it in
// a Type.
func EqualFoldString(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// XXHashBytes hashes b with xxhash64, an alternative for callers who need a
// hash stable across process restarts (unlike Bytes/String, which are
// reseeded every run) at the cost of being predictable to an adversary who
// knows it is in use.
func XXHashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// XXHashString is XXHashBytes for strings, without a conversion allocation.
func XXHashString(s string) uint64 {
	return xxhash.Sum64String(s)
}
