// Package logger provides verbose diagnostic logging for pyref.
// Resolution is a best-effort feature: degraded avenues (open
// circuits, malformed inventories, storage hiccups) are logged here at
// a diagnostic level instead of surfacing as user-visible errors.
// Nothing is printed unless --verbose enables it.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables diagnostic logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if diagnostic logging is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects diagnostic output. Defaults to os.Stderr.
// Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a fine-grained diagnostic message.
func Debug(format string, args ...any) {
	emit("[DEBUG] ", format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	emit("[INFO] ", format, args...)
}

// Warn prints a warning about a degraded but recovered condition.
func Warn(format string, args ...any) {
	emit("[WARN] ", format, args...)
}

// Section prints a header separating pipeline phases.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n--- %s ---\n", name)
	}
}

func emit(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}
