// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dict implements a generic hash table with incremental rehashing.
//
// A Dict maps opaque keys to opaque values, same as a Go map, but amortises
// the cost of growing or shrinking over many small operations instead of
// pausing for an operation proportional to the table's size. It is the
// primary-keyspace container a small key/value server would use: a single
// mutation triggers at most one bounded rehash step, so callers never see a
// latency spike from a resize happening underneath them.
//
// A Dict is single-owner: like a Go map, concurrent use from more than one
// goroutine without external synchronization is undefined. Package dictmgr
// builds a multi-shard scheduler on top of many independent Dicts, each
// exclusively owned by its own goroutine, for callers that want several
// dicts serviced concurrently without sharing mutable state across them.
package dict
