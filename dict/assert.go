// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import (
	"fmt"

	"github.com/vektorkv/dict/logger"
)

func formatArgs(args []interface{}) string    { return fmt.Sprint(args...) }
func formatArgsf(format string, args []interface{}) string {
	return fmt.Sprintf(format, args...)
}

// assertionLogger is the Fatalf sink used for violated invariants (spec §7:
// "assertion failures ... are fatal — the design treats them as bugs in
// callers"). The default sink panics rather than exiting the process, so
// tests can assert on violated invariants with
// test.ShouldPanic/test.ShouldPanicWithStr.
var assertionLogger logger.Logger = defaultAssertionLogger{}

type defaultAssertionLogger struct{}

func (defaultAssertionLogger) Info(args ...interface{})                 {}
func (defaultAssertionLogger) Infof(format string, args ...interface{}) {}
func (defaultAssertionLogger) Error(args ...interface{})                 {}
func (defaultAssertionLogger) Errorf(format string, args ...interface{}) {}

// Fatal/Fatalf panic with the formatted message; callers that want the
// process to terminate instead should install one via SetAssertionLogger.
func (defaultAssertionLogger) Fatal(args ...interface{}) {
	panic(formatArgs(args))
}
func (defaultAssertionLogger) Fatalf(format string, args ...interface{}) {
	panic(formatArgsf(format, args))
}

// SetAssertionLogger overrides the sink used for fatal assertion failures.
// Intended for tests; production code normally leaves this as the default,
// or installs *glog.Glog to get the same abort-the-process behavior the
// original has for violated invariants.
func SetAssertionLogger(l logger.Logger) {
	if l == nil {
		l = defaultAssertionLogger{}
	}
	assertionLogger = l
}

func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		assertionLogger.Fatalf(format, args...)
	}
}
