// Package fatal is the DRC's single choke point for unrecoverable errors:
// cache overflow, an unresolved host-code label reaching a compiled block,
// a dispatch-table corruption, or any other condition spec.md marks as "must
// abort" rather than "return an error". Centralizing it means every such
// path logs the same way and exits the same way, and means tests can swap
// the exit behavior out for a panic they can recover.
//
// Logging through log/slog here follows tinyrange-cc's cmd/ccapp use of
// slog for startup/fatal conditions (cmd/ccapp/site_config.go).
package fatal

import (
	"fmt"
	"log/slog"
	"os"
)

// exit is indirected so tests can observe a fatal call without killing the
// test binary.
var exit = os.Exit

var logger = slog.Default()

// SetLogger installs the logger Abort reports through. Called once during
// startup wiring; defaults to slog.Default() so packages that never call it
// still behave sensibly under test.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Abort logs msg at Error level with args as structured fields and
// terminates the process. It never returns; callers that need the compiler
// to see that are free to follow it with a panic("unreachable"), but none
// of this package's own callers do, since Abort itself never returns
// control.
func Abort(msg string, args ...any) {
	logger.Error(msg, args...)
	exit(1)
}

// Abortf is Abort with printf-style formatting, for the common case of a
// single human-readable message with no structured fields.
func Abortf(format string, a ...any) {
	Abort(fmt.Sprintf(format, a...))
}
