// Package logx gates per-frame debug output behind a verbose switch.
package logx

import (
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose turns verbose logging on or off.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// IsVerbose reports whether verbose logging is on.
func IsVerbose() bool {
	return verbose.Load()
}

// Verbose logs only when verbose logging is on.
func Verbose(format string, args ...any) {
	if verbose.Load() {
		log.Printf("[VERBOSE] "+format, args...)
	}
}

// Info always logs.
func Info(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}
