// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dictmgr coordinates background maintenance (rehash donation,
// opportunistic shrink) across many independently-owned dict.Dict shards,
// without violating any single Dict's single-owner contract: each shard is
// only ever touched by the one goroutine its owner runs it under, and the
// Scheduler only calls back into a shard through the owner-supplied Visit
// function.
package dictmgr

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vektorkv/dict/logger"
	"github.com/vektorkv/dict/sync/semaphore"
)

// Shard is one maintainable unit: a name (for logging/metrics) and a Visit
// callback the Scheduler invokes on the shard's own goroutine to let it
// perform a bounded amount of rehash/resize work.
type Shard struct {
	Name  string
	Visit func(ctx context.Context) error
}

// Scheduler periodically visits a set of registered shards with bounded
// concurrency, retrying a shard's Visit with backoff if it returns an
// error, the same retry-loop shape the teacher's streaming client uses
// around its own per-connection work.
type Scheduler struct {
	shards   []Shard
	sem      *semaphore.Weighted
	interval time.Duration
	log      logger.Logger
}

// New creates a Scheduler that runs up to maxConcurrent shard visits at
// once, spaced interval apart per shard.
func New(maxConcurrent int64, interval time.Duration, log logger.Logger) *Scheduler {
	return &Scheduler{
		sem:      semaphore.NewWeighted(maxConcurrent),
		interval: interval,
		log:      log,
	}
}

// Register adds a shard to the scheduler. Not safe to call concurrently
// with Run.
func (s *Scheduler) Register(shard Shard) {
	s.shards = append(s.shards, shard)
}

// Run visits every registered shard once per interval until ctx is
// canceled. Each shard runs in its own goroutine, bounded by the
// Scheduler's semaphore, and retries its Visit call with exponential
// backoff on error instead of abandoning the shard.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for i := range s.shards {
				shard := s.shards[i]
				go s.visitWithRetry(ctx, shard)
			}
		}
	}
}

func (s *Scheduler) visitWithRetry(ctx context.Context, shard Shard) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return // scheduler shutting down
	}
	defer s.sem.Release(1)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = s.interval // never retry past the next scheduled pass
	// Start well inside the interval so retries fit in one pass; the
	// library's default first wait exceeds short intervals outright.
	bo.InitialInterval = s.interval / 20
	bo.Reset()

	for {
		err := shard.Visit(ctx)
		if err == nil {
			return
		}
		if s.log != nil {
			s.log.Infof("dictmgr: shard %s visit failed, retrying: %v", shard.Name, err)
		}
		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			if s.log != nil {
				s.log.Errorf("dictmgr: shard %s gave up for this pass: %v", shard.Name, err)
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
