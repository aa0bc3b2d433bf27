// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package glog

import (
	"testing"

	"github.com/vektorkv/dict/logger"
)

// TestGlogSatisfiesLogger is a compile-time/runtime check that *Glog can be
// used anywhere a dict needs a logger.Logger, e.g. dict.WithLogger.
func TestGlogSatisfiesLogger(t *testing.T) {
	var l logger.Logger = &Glog{}
	// Only exercise the non-fatal levels; Fatal/Fatalf terminate the
	// process by design and are not safe to call from a test.
	l.Info("dict: test info message")
	l.Infof("dict: test info message %d", 1)
	l.Error("dict: test error message")
	l.Errorf("dict: test error message %d", 1)
}
