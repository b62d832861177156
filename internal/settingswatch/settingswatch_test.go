package settingswatch

import (
	"sync"
	"testing"
	"time"

	"github.com/username/goviet-ime/internal/engine"
)

type countingReloader struct {
	mu    sync.Mutex
	calls int
	last  engine.Settings
}

func (r *countingReloader) ApplySettings(settings engine.Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = settings
}

func (r *countingReloader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestNotifyReloadsAfterDebounce(t *testing.T) {
	reloader := &countingReloader{}
	settings := engine.DefaultSettings()
	settings.InputMethod = engine.MethodVNI
	w := New(reloader, func() engine.Settings { return settings })

	w.Notify()
	if reloader.count() != 0 {
		t.Fatalf("reload ran before the debounce window elapsed")
	}

	time.Sleep(debounce + 100*time.Millisecond)
	if got := reloader.count(); got != 1 {
		t.Errorf("reload count = %d, want 1", got)
	}
}

func TestBurstOfNotifiesCoalesceToOneReload(t *testing.T) {
	reloader := &countingReloader{}
	w := New(reloader, engine.DefaultSettings)

	for i := 0; i < 5; i++ {
		w.Notify()
		time.Sleep(50 * time.Millisecond)
	}

	time.Sleep(debounce + 100*time.Millisecond)
	if got := reloader.count(); got != 1 {
		t.Errorf("reload count after burst = %d, want 1", got)
	}
}

func TestStopCancelsPendingReload(t *testing.T) {
	reloader := &countingReloader{}
	w := New(reloader, engine.DefaultSettings)

	w.Notify()
	w.Stop()

	time.Sleep(debounce + 100*time.Millisecond)
	if got := reloader.count(); got != 0 {
		t.Errorf("reload count after Stop = %d, want 0", got)
	}
}
