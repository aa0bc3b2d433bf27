// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import (
	"testing"

	"github.com/vektorkv/dict/glog"
)

func TestWithLoggerAcceptsGlog(t *testing.T) {
	d := New(stringIntType(), WithLogger[string, int](&glog.Glog{}))
	// Drives a rehash so the Infof log lines in resize.go/rehash.go
	// actually execute against a real logger.Logger implementation.
	for i := 0; i < 50; i++ {
		_ = d.Add(string(rune('a'+i%26))+string(rune('0'+i/26)), i)
	}
}
