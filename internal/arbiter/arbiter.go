// Package arbiter implements C8, the Output Arbiter: it takes the
// engine's Diff and realizes it on screen through one of three strategies
// (Synthesize, MarkedText or DirectReplace), enforcing the ordering guarantees spec.md
// §5 requires between keystrokes and handling unreliable clients.
package arbiter

import (
	"context"
	"sync"
	"time"

	"github.com/username/goviet-ime/internal/engine"
)

// Strategy is how the Arbiter realizes a Diff on a given client.
type Strategy int

const (
	// StrategySynthesize sends synthetic backspace+insert key events.
	StrategySynthesize Strategy = iota
	// StrategyMarkedText drives the host IME composition API.
	StrategyMarkedText
	// StrategyDirectReplace rewrites the tracked word atomically, for
	// overlay-app clients where marked text needs two Enter presses.
	StrategyDirectReplace
)

// Injector performs the actual OS-level key synthesis or marked-text
// calls. Implementations: synthesize_linux.go (Linux uinput backend),
// markedtext.go, directreplace.go.
type Injector interface {
	// Backspace sends n synthetic backspace events.
	Backspace(n int) error
	// Insert sends the given code points as synthetic character events.
	Insert(runes []rune) error
	// SetMarkedText sets/updates the host IME's marked (preedit) text.
	SetMarkedText(text string, cursor int) error
	// CommitMarkedText commits the current marked text as real input.
	CommitMarkedText() error
	// CancelMarkedText discards the current marked text.
	CancelMarkedText() error
}

// ClientState is the per-client bookkeeping the retry/fallback policy
// (spec.md §7) and the overlay-app exception (spec.md §4.8) need.
type ClientState struct {
	mu sync.Mutex

	Strategy          Strategy
	Unreliable        bool
	failureCount      int
	trackedWordLength int // for StrategyDirectReplace
}

// NewClientState creates per-client state with the given initial strategy.
func NewClientState(strategy Strategy) *ClientState {
	return &ClientState{Strategy: strategy}
}

// recordFailure bumps the failure counter and, after 3 consecutive
// failures, marks the client unreliable and falls back to Synthesize —
// spec.md §7's 3-retry / fallback-to-Synthesize / unreliable policy. A
// client already on StrategyDirectReplace never falls back further: the
// AXDirectFallback rule means an unreliable client is never promoted back
// to select-then-replace once demoted.
func (c *ClientState) recordFailure() {
	c.failureCount++
	if c.failureCount >= 3 {
		c.Unreliable = true
		if c.Strategy != StrategyDirectReplace {
			c.Strategy = StrategySynthesize
		}
	}
}

func (c *ClientState) recordSuccess() {
	c.failureCount = 0
}

// Arbiter realizes engine Diffs against one client, serializing work with
// an injection lock (spec.md §4.8 / §5's "backspaces strictly precede
// inserts" and "K1's Diff completes before K2 is classified").
type Arbiter struct {
	injector Injector
	state    *ClientState

	mu      sync.Mutex
	cond    *sync.Cond
	pending bool

	// FixAutocomplete enables the Chrome/autocomplete peek-and-reduce
	// workaround; disabled whenever midSentence is true (spec.md §4.9
	// "unsafe - may delete user text to the right").
	FixAutocomplete bool
}

// New creates an Arbiter bound to one client's Injector and ClientState.
func New(injector Injector, state *ClientState) *Arbiter {
	a := &Arbiter{injector: injector, state: state}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// defaultTimeout is spec.md §5's default wait_for_pending() bound.
const defaultTimeout = 50 * time.Millisecond

// WaitForPending blocks until the in-flight injection batch completes or
// defaultTimeout elapses, whichever comes first.
func (a *Arbiter) WaitForPending() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		a.mu.Lock()
		for a.pending {
			a.cond.Wait()
		}
		a.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// peekReduce implements the Chrome/autocomplete fix: if the client's
// focused-field peek function is available and midSentence is false, it
// may reduce deleteCount when the field's trailing text already matches
// what the caller intends to keep.
func (a *Arbiter) peekReduce(deleteCount int, midSentence bool, peek func(n int) (matches int)) int {
	if !a.FixAutocomplete || midSentence || peek == nil {
		return deleteCount
	}
	if reduction := peek(deleteCount); reduction > 0 && reduction <= deleteCount {
		return deleteCount - reduction
	}
	return deleteCount
}

// ApplyOptions carries the extra per-call context Apply needs beyond the
// Diff itself.
type ApplyOptions struct {
	MidSentence bool
	// Peek, when non-nil, is consulted by the Chrome/autocomplete fix.
	Peek func(n int) (matches int)
	// CurrentWord is the full on-screen word after the Diff is applied,
	// used by StrategyMarkedText (a Diff alone only carries the edit,
	// not the whole preedit string a marked-text client needs).
	CurrentWord string
}

// Apply realizes one Diff against the client, using the client's current
// Strategy, and updates ClientState's reliability counters on failure.
func (a *Arbiter) Apply(diff engine.Diff, opts ApplyOptions) error {
	if !diff.Consume {
		return nil
	}

	a.mu.Lock()
	a.pending = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.pending = false
		a.cond.Broadcast()
		a.mu.Unlock()
	}()

	a.state.mu.Lock()
	strategy := a.state.Strategy
	a.state.mu.Unlock()

	var err error
	switch strategy {
	case StrategyMarkedText:
		err = a.applyMarkedText(opts)
	case StrategyDirectReplace:
		err = a.applyDirectReplace(diff)
	default:
		err = a.applySynthesize(diff, opts)
	}

	a.state.mu.Lock()
	if err != nil {
		a.state.recordFailure()
	} else {
		a.state.recordSuccess()
	}
	a.state.mu.Unlock()

	return err
}

// applySynthesize sends backspace+insert as synthetic key events,
// holding the injection lock across the pair per spec.md §4.8's first
// Firefox-dịch-bug fix (the whole Apply call already holds a.pending, so
// WaitForPending blocks any caller until both halves land).
func (a *Arbiter) applySynthesize(diff engine.Diff, opts ApplyOptions) error {
	deleteCount := int(diff.DeleteCount)
	deleteCount = a.peekReduce(deleteCount, opts.MidSentence, opts.Peek)

	if deleteCount > 0 {
		if err := a.injector.Backspace(deleteCount); err != nil {
			return err
		}
	}
	if len(diff.Insert) > 0 {
		if err := a.injector.Insert(diff.Insert); err != nil {
			return err
		}
	}
	return nil
}

// applyMarkedText updates the host IME's marked text to the session's
// current_word(), passed in via opts.CurrentWord.
func (a *Arbiter) applyMarkedText(opts ApplyOptions) error {
	runes := []rune(opts.CurrentWord)
	return a.injector.SetMarkedText(opts.CurrentWord, len(runes))
}

// applyDirectReplace rewrites the tracked word atomically: the
// overlay-app exception never uses marked text, so it degrades to the
// same backspace+insert sequence as Synthesize but without the
// autocomplete peek (overlay apps are not browsers).
func (a *Arbiter) applyDirectReplace(diff engine.Diff) error {
	a.state.mu.Lock()
	a.state.trackedWordLength += len(diff.Insert) - int(diff.DeleteCount)
	if a.state.trackedWordLength < 0 {
		a.state.trackedWordLength = 0
	}
	a.state.mu.Unlock()

	if diff.DeleteCount > 0 {
		if err := a.injector.Backspace(int(diff.DeleteCount)); err != nil {
			return err
		}
	}
	if len(diff.Insert) > 0 {
		return a.injector.Insert(diff.Insert)
	}
	return nil
}

// CommitWord commits the current composition, per strategy: MarkedText
// commits its preedit, Synthesize/DirectReplace have nothing further to
// do since the text is already live on screen.
func (a *Arbiter) CommitWord() error {
	a.state.mu.Lock()
	strategy := a.state.Strategy
	a.state.trackedWordLength = 0
	a.state.mu.Unlock()

	if strategy == StrategyMarkedText {
		return a.injector.CommitMarkedText()
	}
	return nil
}

// CancelWord discards the current composition (engine reset): MarkedText
// cancels its preedit, the other strategies have already written their
// text and rely on the caller having issued an undo Diff instead.
func (a *Arbiter) CancelWord() error {
	a.state.mu.Lock()
	strategy := a.state.Strategy
	a.state.trackedWordLength = 0
	a.state.mu.Unlock()

	if strategy == StrategyMarkedText {
		return a.injector.CancelMarkedText()
	}
	return nil
}
