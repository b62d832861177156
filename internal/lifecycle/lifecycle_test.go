package lifecycle

import (
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/username/goviet-ime/internal/engine"
)

type fakeSession struct {
	resets []engine.ResetFlags
	word   string
}

func (s *fakeSession) Reset(flags engine.ResetFlags) {
	s.resets = append(s.resets, flags)
}

func (s *fakeSession) CurrentWord() string { return s.word }

func (s *fakeSession) lastReset() engine.ResetFlags {
	return s.resets[len(s.resets)-1]
}

func TestDispatchResponseTable(t *testing.T) {
	tests := []struct {
		name            string
		sig             Signal
		wantFlags       engine.ResetFlags
		wantPassThrough bool
	}{
		{"focus change", SignalFocusChange, engine.ResetFlags{CursorMoved: true, ForceMidSentence: true}, false},
		{"mouse click", SignalMouseClick, engine.ResetFlags{CursorMoved: true}, false},
		{"cursor move", SignalCursorMove, engine.ResetFlags{CursorMoved: true}, false},
		{"tab", SignalTab, engine.ResetFlags{CursorMoved: false}, true},
		{"enter inside composition", SignalEnterInsideComposition, engine.ResetFlags{PreserveMidSentence: true}, false},
		{"modifier key", SignalModifierKey, engine.ResetFlags{}, true},
		{"ime deactivate", SignalIMEDeactivate, engine.ResetFlags{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeSession{}
			c := New(session, nil)
			got := c.Dispatch(tt.sig)
			if got != tt.wantPassThrough {
				t.Errorf("Dispatch(%v) passThrough = %v, want %v", tt.sig, got, tt.wantPassThrough)
			}
			if len(session.resets) != 1 {
				t.Fatalf("Reset called %d times, want 1", len(session.resets))
			}
			if session.lastReset() != tt.wantFlags {
				t.Errorf("Reset flags = %+v, want %+v", session.lastReset(), tt.wantFlags)
			}
		})
	}
}

func TestIMEActivateWarmsUpOnlyOnce(t *testing.T) {
	session := &fakeSession{}
	warmUps := 0
	c := New(session, func() { warmUps++ })

	c.Dispatch(SignalIMEActivate)
	c.Dispatch(SignalIMEActivate)
	c.Dispatch(SignalIMEActivate)

	if warmUps != 1 {
		t.Errorf("warm-up ran %d times, want exactly once", warmUps)
	}
	if len(session.resets) != 3 {
		t.Errorf("Reset called %d times, want 3 (once per activate)", len(session.resets))
	}
}

func TestIMEActivateToleratesNilWarmUp(t *testing.T) {
	session := &fakeSession{}
	c := New(session, nil)
	c.Dispatch(SignalIMEActivate)
	c.Dispatch(SignalIMEActivate)
}

func TestDispatchFromDBusDecodesMemberName(t *testing.T) {
	session := &fakeSession{}
	c := New(session, nil)

	DispatchFromDBus(c, &dbus.Signal{Name: "com.github.username.govietime.Lifecycle.Tab"})
	if len(session.resets) != 1 {
		t.Fatalf("Reset called %d times, want 1", len(session.resets))
	}
	if session.lastReset() != (engine.ResetFlags{CursorMoved: false}) {
		t.Errorf("Reset flags = %+v, want Tab's flags", session.lastReset())
	}

	DispatchFromDBus(c, &dbus.Signal{Name: "com.github.username.govietime.Lifecycle.Unknown"})
	if len(session.resets) != 1 {
		t.Errorf("an unrecognized signal name should not dispatch, got %d resets", len(session.resets))
	}
}
