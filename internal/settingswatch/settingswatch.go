// Package settingswatch debounces settings-change notifications before
// they reach the engine, per spec.md §5: "the engine reloads at most
// once per notification with a 500 ms debounce to avoid thrash when the
// user saves a preference page."
package settingswatch

import (
	"sync"
	"time"

	"github.com/username/goviet-ime/internal/engine"
)

const debounce = 500 * time.Millisecond

// Reloader applies a freshly-loaded Settings value; engine.Session
// implements it via ApplySettings.
type Reloader interface {
	ApplySettings(settings engine.Settings)
}

// Loader produces the current Settings, read from whatever the host's
// preferences store is (file, GSettings, registry, ...). Left to the
// caller; settingswatch only owns the debounce timing.
type Loader func() engine.Settings

// Watcher coalesces repeated Notify calls into a single reload after the
// debounce window has passed with no further notifications.
type Watcher struct {
	mu       sync.Mutex
	timer    *time.Timer
	reloader Reloader
	load     Loader
}

// New creates a Watcher that calls load and applies the result to
// reloader after each debounce window.
func New(reloader Reloader, load Loader) *Watcher {
	return &Watcher{reloader: reloader, load: load}
}

// Notify signals that settings may have changed. It resets the debounce
// timer rather than firing immediately, so a burst of saves (one per
// preference page field) triggers exactly one reload.
func (w *Watcher) Notify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounce, w.reload)
}

func (w *Watcher) reload() {
	w.reloader.ApplySettings(w.load())
}

// Stop cancels any pending debounced reload, e.g. on IME deactivate.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
