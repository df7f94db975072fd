// Package logger provides verbose diagnostics for the coopsim CLI.
// Messages go to stderr, and only when verbose mode is enabled with
// --verbose, so the report on stdout stays clean.
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

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func Debug(format string, args ...any) { logf("DEBUG", format, args...) }

func Info(format string, args ...any) { logf("INFO", format, args...) }

func Warn(format string, args ...any) { logf("WARN", format, args...) }

// Section prints a section header.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}
