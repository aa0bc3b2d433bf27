// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "errors"

// Spec §7 distinguishes three non-ordinary-success outcomes from true
// failures. Callers tell them apart with errors.Is.
var (
	// ErrNotFound is returned by operations that look a key up and it is
	// absent. Not a failure: a distinct, expected outcome.
	ErrNotFound = errors.New("dict: key not found")

	// ErrNoOp is returned when an operation had nothing to do: resizing
	// to the current size, resizing while a rehash is in progress, etc.
	ErrNoOp = errors.New("dict: no-op")

	// ErrKeyExists is returned by Add when the key is already present.
	ErrKeyExists = errors.New("dict: key already exists")

	// ErrAllocation is returned in place of an allocator failure from a
	// fallible resize variant; the failure itself is not wrapped. The Dict
	// is left unchanged.
	ErrAllocation = errors.New("dict: allocation failed")

	// ErrOverflow is returned when the bucket array for the requested size
	// would need more bytes than the address space can hold.
	ErrOverflow = errors.New("dict: requested size overflows")
)
