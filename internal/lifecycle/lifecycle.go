// Package lifecycle implements C9, the Lifecycle Coordinator: it turns
// host-side focus/cursor/IME-state signals into the reset() calls
// spec.md §4.9's response table names, and carries the process-wide
// warm-up/teardown for the lexicon and spellchecker across IME
// activation. Signals arrive as D-Bus signals on the same session-bus
// connection cmd/daemon exports the engine on (SPEC_FULL.md §4.9a).
package lifecycle

import (
	"github.com/godbus/dbus/v5"

	"github.com/username/goviet-ime/internal/engine"
)

// Signal identifies one of the host events spec.md §4.9 enumerates.
type Signal int

const (
	SignalFocusChange Signal = iota
	SignalMouseClick
	SignalCursorMove
	SignalTab
	SignalEnterInsideComposition
	SignalModifierKey
	SignalIMEActivate
	SignalIMEDeactivate
)

// Session is the subset of engine.Session the Coordinator needs.
type Session interface {
	Reset(flags engine.ResetFlags)
	CurrentWord() string
}

// WarmUp is called once, on the first IME activation, to pre-load the
// lexicon/spellchecker (spec.md §4.9, §5's "loaded once per process").
type WarmUp func()

// Coordinator dispatches lifecycle signals to a Session, matching
// spec.md §4.9's response table exactly.
type Coordinator struct {
	session    Session
	warmUp     WarmUp
	warmedOnce bool
}

// New creates a Coordinator bound to one session. warmUp may be nil.
func New(session Session, warmUp WarmUp) *Coordinator {
	return &Coordinator{session: session, warmUp: warmUp}
}

// Dispatch handles one signal and reports whether the triggering key
// passes through to the client after the reset (only Signal{Modifier,Tab}
// pass it through).
func (c *Coordinator) Dispatch(sig Signal) (passThrough bool) {
	switch sig {
	case SignalFocusChange:
		// force mid_sentence=true conservatively to avoid Forward-Delete
		// deleting text to the right.
		c.session.Reset(engine.ResetFlags{CursorMoved: true, ForceMidSentence: true})
	case SignalMouseClick, SignalCursorMove:
		c.session.Reset(engine.ResetFlags{CursorMoved: true})
	case SignalTab:
		c.session.Reset(engine.ResetFlags{CursorMoved: false})
		passThrough = true
	case SignalEnterInsideComposition:
		// Commit; do not clear mid_sentence, the user may have split a
		// line within existing text.
		c.session.Reset(engine.ResetFlags{PreserveMidSentence: true})
	case SignalModifierKey:
		c.session.Reset(engine.ResetFlags{})
		passThrough = true
	case SignalIMEActivate:
		c.session.Reset(engine.ResetFlags{CursorMoved: true, ForceMidSentence: true})
		if !c.warmedOnce && c.warmUp != nil {
			c.warmUp()
			c.warmedOnce = true
		}
	case SignalIMEDeactivate:
		// The in-progress word is already rendered on screen; commit it
		// by simply dropping the composing state, no Diff needed.
		c.session.Reset(engine.ResetFlags{})
	}
	return passThrough
}

// DispatchFromDBus decodes a lifecycle D-Bus signal's member name into a
// Signal and dispatches it; cmd/daemon wires this as the handler for the
// coordinator's signal match rule.
func DispatchFromDBus(c *Coordinator, signal *dbus.Signal) {
	switch signal.Name {
	case "com.github.username.govietime.Lifecycle.FocusChange":
		c.Dispatch(SignalFocusChange)
	case "com.github.username.govietime.Lifecycle.MouseClick":
		c.Dispatch(SignalMouseClick)
	case "com.github.username.govietime.Lifecycle.CursorMove":
		c.Dispatch(SignalCursorMove)
	case "com.github.username.govietime.Lifecycle.Tab":
		c.Dispatch(SignalTab)
	case "com.github.username.govietime.Lifecycle.EnterInsideComposition":
		c.Dispatch(SignalEnterInsideComposition)
	case "com.github.username.govietime.Lifecycle.ModifierKey":
		c.Dispatch(SignalModifierKey)
	case "com.github.username.govietime.Lifecycle.IMEActivate":
		c.Dispatch(SignalIMEActivate)
	case "com.github.username.govietime.Lifecycle.IMEDeactivate":
		c.Dispatch(SignalIMEDeactivate)
	}
}
