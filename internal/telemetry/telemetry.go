// Package telemetry wraps the stdlib *log.Logger the way cmd/daemon
// already opens typing.log, giving the rest of the module a single
// place to log the "once" events spec.md §7 calls for (resource
// unavailable, fatal invariant violation) without every package reaching
// for os.OpenFile itself.
package telemetry

import (
	"log"
	"os"
	"sync"
)

// Logger is the process-wide structured-ish logger: a *log.Logger plus
// the once-only gating spec.md §7 wants for repeated failure classes
// ("log once") so a flaky client doesn't spam the log file every
// keystroke.
type Logger struct {
	*log.Logger

	mu      sync.Mutex
	loggedOnce map[string]bool
}

// New wraps an existing *log.Logger (typically opened against
// typing.log by cmd/daemon, matching the teacher's NewInputEngine(logger
// *log.Logger) wiring).
func New(base *log.Logger) *Logger {
	return &Logger{Logger: base, loggedOnce: make(map[string]bool)}
}

// Open creates a Logger writing to path, appending, creating it if
// needed — the same flags cmd/daemon's main() uses for typing.log.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return New(log.New(f, "", log.LstdFlags)), nil
}

// Once logs msg under key at most one time per process lifetime, for
// spec.md §7's "Resource unavailable ... log once" and "Fatal ... log"
// cases.
func (l *Logger) Once(key, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loggedOnce[key] {
		return
	}
	l.loggedOnce[key] = true
	l.Println(msg)
}
