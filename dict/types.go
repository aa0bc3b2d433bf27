// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

// Flags describes the capabilities a Type declares. They gate which entry
// representation and which optimizations a Dict built from that Type may use.
type Flags uint8

const (
	// FlagNoValue means entries carry no value; FetchValue always returns
	// the zero value. Used for set-like dicts (the keyspace itself, with
	// values living elsewhere).
	FlagNoValue Flags = 1 << iota
	// FlagEmbeddedEntry asks the container to keep an inline encoded copy
	// of each key (via Type.EmbedKey) alongside the entry, instead of
	// relying solely on the key value held in K.
	FlagEmbeddedEntry
	// FlagKeysAreOdd asserts that every valid key, reinterpreted as an
	// integer, has its low bit set. Combined with FlagNoValue, this lets
	// the first key hashing to an empty bucket be stored directly in the
	// bucket slot with no entry allocation at all.
	FlagKeysAreOdd
	// FlagNoIncrementalRehash asks the container to migrate a table in a
	// single call instead of amortising the work, the moment a resize
	// fires.
	FlagNoIncrementalRehash
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Type is the capability vtable that makes a Dict generic over key and value
// domains, mirroring the callbacks the teacher's Hashmap took as plain
// function arguments (hash, equal) but extended with the rest of the
// optional lifecycle hooks the container needs.
type Type[K any, V any] struct {
	// Hash returns the hash of a key. Required.
	Hash func(key K) uint64
	// Equal reports whether two keys are the same key. Required.
	Equal func(a, b K) bool

	// DupKey, if set, is called on insertion; the Dict stores the
	// returned clone and owns it from then on.
	DupKey func(key K) K
	// DestroyKey, if set, is called when an entry holding key is freed.
	DestroyKey func(key K)
	// DestroyValue, if set, is called when an entry's value is discarded
	// (replaced or deleted).
	DestroyValue func(value V)

	// EmbedKey encodes key into buf, returning the number of bytes it
	// needs. When buf is nil it only reports the needed length. Required
	// iff Flags has FlagEmbeddedEntry.
	EmbedKey func(buf []byte, key K) (headerLen uint8, needed int)

	// ResizeAllowed, if set, is consulted before every resize with the
	// number of bytes the new table would use and the resulting fill
	// factor; returning false vetoes the resize. It is not consulted for
	// the initial-size table the first insertion allocates.
	ResizeAllowed func(bytes uint64, fillFactor float64) bool

	// RehashStarted and RehashCompleted, if set, are called when a
	// rehash begins and when it finishes, respectively.
	RehashStarted   func()
	RehashCompleted func()

	// MetadataBytes reserves inline storage trailing the Dict for
	// caller use, retrievable with Dict.Metadata.
	MetadataBytes int

	Flags Flags
}

func (t *Type[K, V]) noValue() bool     { return t.Flags.has(FlagNoValue) }
func (t *Type[K, V]) embedded() bool    { return t.Flags.has(FlagEmbeddedEntry) }
func (t *Type[K, V]) keysAreOdd() bool  { return t.Flags.has(FlagKeysAreOdd) }
func (t *Type[K, V]) noIncremental() bool {
	return t.Flags.has(FlagNoIncrementalRehash)
}

// directKeyOptimized reports whether bare keys may be stored directly in a
// bucket slot with no entry allocation (spec §3, the "key-only" variant).
func (t *Type[K, V]) directKeyOptimized() bool {
	return t.noValue() && t.keysAreOdd()
}

// validate enforces the §4.1 construction-time rules and panics (a
// programmer error, not a runtime condition) if they are violated.
func (t *Type[K, V]) validate() {
	if t.Hash == nil {
		panic("dict: Type.Hash is required")
	}
	if t.Equal == nil {
		panic("dict: Type.Equal is required")
	}
	if t.embedded() {
		if t.EmbedKey == nil {
			panic("dict: FlagEmbeddedEntry requires Type.EmbedKey")
		}
		if t.DupKey != nil || t.DestroyKey != nil {
			panic("dict: FlagEmbeddedEntry is incompatible with DupKey/DestroyKey")
		}
	}
	if t.keysAreOdd() && !t.noValue() {
		panic("dict: FlagKeysAreOdd is only meaningful with FlagNoValue")
	}
	if t.MetadataBytes < 0 {
		panic("dict: Type.MetadataBytes must not be negative")
	}
}
