// Package logger writes diagnostics for the tidytext CLI to stderr. Debug,
// Info and Section are printed only in verbose mode; Warn is always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects all log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(always bool, tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, "["+tag+"] "+format+"\n", args...)
	}
}

// Debug prints a message in verbose mode.
func Debug(format string, args ...any) { logf(false, "DEBUG", format, args...) }

// Info prints a message in verbose mode.
func Info(format string, args ...any) { logf(false, "INFO", format, args...) }

// Warn prints a message regardless of verbose mode.
func Warn(format string, args ...any) { logf(true, "WARN", format, args...) }

// Section prints a section header in verbose mode.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed logs how long the named step took once the returned func is called:
//
//	defer logger.Timed("cast")()
func Timed(step string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", step, time.Since(start).Round(time.Millisecond))
	}
}
