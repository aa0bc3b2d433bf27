// Copyright (C) 2016  Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package monotime provides a fast monotonic clock source.
package monotime

import (
	_ "unsafe" // required to use //go:linkname
	"time"
)

//go:noescape
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Now returns the current time in nanoseconds from a monotonic clock.
// The absolute value is meaningless, and is only useful when compared
// with another value returned by Now, or passed to Since.
func Now() uint64 {
	return uint64(nanotime())
}

// Since returns the amount of time that has elapsed since t, where t was
// obtained by a prior call to Now.
func Since(t uint64) time.Duration {
	return time.Duration(Now() - t)
}
