package arbiter

import (
	"errors"
	"testing"
	"time"

	"github.com/username/goviet-ime/internal/engine"
)

type fakeInjector struct {
	backspaces   []int
	inserts      [][]rune
	markedText   string
	markedCursor int
	committed    int
	canceled     int
	failNext     bool
}

func (f *fakeInjector) Backspace(n int) error {
	if f.failNext {
		f.failNext = false
		return errors.New("backspace failed")
	}
	f.backspaces = append(f.backspaces, n)
	return nil
}

func (f *fakeInjector) Insert(runes []rune) error {
	if f.failNext {
		f.failNext = false
		return errors.New("insert failed")
	}
	f.inserts = append(f.inserts, runes)
	return nil
}

func (f *fakeInjector) SetMarkedText(text string, cursor int) error {
	f.markedText = text
	f.markedCursor = cursor
	return nil
}

func (f *fakeInjector) CommitMarkedText() error { f.committed++; return nil }
func (f *fakeInjector) CancelMarkedText() error { f.canceled++; return nil }

func TestApplySynthesizeSendsBackspaceThenInsert(t *testing.T) {
	inj := &fakeInjector{}
	a := New(inj, NewClientState(StrategySynthesize))

	diff := engine.Diff{Consume: true, DeleteCount: 3, Insert: []rune("thương")}
	if err := a.Apply(diff, ApplyOptions{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(inj.backspaces) != 1 || inj.backspaces[0] != 3 {
		t.Errorf("backspaces = %v, want [3]", inj.backspaces)
	}
	if len(inj.inserts) != 1 || string(inj.inserts[0]) != "thương" {
		t.Errorf("inserts = %v, want [thương]", inj.inserts)
	}
}

func TestApplyNoOpDiffDoesNothing(t *testing.T) {
	inj := &fakeInjector{}
	a := New(inj, NewClientState(StrategySynthesize))

	if err := a.Apply(engine.Diff{}, ApplyOptions{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(inj.backspaces) != 0 || len(inj.inserts) != 0 {
		t.Errorf("a non-consuming Diff must not touch the injector")
	}
}

func TestApplyMarkedTextUsesCurrentWordNotJustTheDiff(t *testing.T) {
	inj := &fakeInjector{}
	a := New(inj, NewClientState(StrategyMarkedText))

	// The Diff only carries the last keystroke's edit; the marked-text
	// client needs the whole word.
	diff := engine.Diff{Consume: true, DeleteCount: 1, Insert: []rune("g")}
	if err := a.Apply(diff, ApplyOptions{CurrentWord: "thương"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if inj.markedText != "thương" {
		t.Errorf("markedText = %q, want %q", inj.markedText, "thương")
	}
	if inj.markedCursor != len([]rune("thương")) {
		t.Errorf("markedCursor = %d, want %d", inj.markedCursor, len([]rune("thương")))
	}
}

func TestRecordFailureFallsBackToSynthesizeAfterThreeStrikes(t *testing.T) {
	inj := &fakeInjector{}
	state := NewClientState(StrategyMarkedText)
	// applyMarkedText never fails in this fake, so force the failure path
	// directly, the same way Apply would after three Backspace/Insert
	// errors against a real client.
	state.recordFailure()
	state.recordFailure()
	if state.Unreliable {
		t.Fatalf("client marked unreliable after only 2 failures")
	}
	state.recordFailure()
	if !state.Unreliable {
		t.Errorf("client should be unreliable after 3 consecutive failures")
	}
	if state.Strategy != StrategySynthesize {
		t.Errorf("Strategy = %v, want fallback to StrategySynthesize", state.Strategy)
	}
}

func TestDirectReplaceNeverFallsBackFurther(t *testing.T) {
	state := NewClientState(StrategyDirectReplace)
	state.recordFailure()
	state.recordFailure()
	state.recordFailure()
	if !state.Unreliable {
		t.Fatalf("client should be unreliable after 3 consecutive failures")
	}
	if state.Strategy != StrategyDirectReplace {
		t.Errorf("Strategy = %v, want StrategyDirectReplace to stick (AXDirectFallback)", state.Strategy)
	}
}

func TestRecordSuccessResetsFailureCount(t *testing.T) {
	state := NewClientState(StrategySynthesize)
	state.recordFailure()
	state.recordFailure()
	state.recordSuccess()
	state.recordFailure()
	state.recordFailure()
	if state.Unreliable {
		t.Errorf("failure count should have reset after recordSuccess")
	}
}

func TestApplyFailurePropagatesAndRecordsFailure(t *testing.T) {
	inj := &fakeInjector{failNext: true}
	state := NewClientState(StrategySynthesize)
	a := New(inj, state)

	diff := engine.Diff{Consume: true, DeleteCount: 1, Insert: []rune("a")}
	if err := a.Apply(diff, ApplyOptions{}); err == nil {
		t.Fatalf("Apply() error = nil, want the injector's error")
	}
	state.mu.Lock()
	failures := state.failureCount
	state.mu.Unlock()
	if failures != 1 {
		t.Errorf("failureCount = %d, want 1", failures)
	}
}

func TestPeekReduceDisabledMidSentence(t *testing.T) {
	a := New(&fakeInjector{}, NewClientState(StrategySynthesize))
	a.FixAutocomplete = true

	peek := func(n int) int { return n }
	if got := a.peekReduce(5, true, peek); got != 5 {
		t.Errorf("peekReduce mid-sentence = %d, want unchanged 5", got)
	}
	if got := a.peekReduce(5, false, peek); got != 0 {
		t.Errorf("peekReduce = %d, want fully reduced to 0", got)
	}
}

func TestPeekReduceDisabledWithoutFixAutocomplete(t *testing.T) {
	a := New(&fakeInjector{}, NewClientState(StrategySynthesize))
	if got := a.peekReduce(5, false, func(n int) int { return n }); got != 5 {
		t.Errorf("peekReduce = %d, want unchanged when FixAutocomplete is off", got)
	}
}

func TestCommitWordOnlyAffectsMarkedText(t *testing.T) {
	inj := &fakeInjector{}
	a := New(inj, NewClientState(StrategyMarkedText))
	if err := a.CommitWord(); err != nil {
		t.Fatalf("CommitWord() error = %v", err)
	}
	if inj.committed != 1 {
		t.Errorf("committed = %d, want 1", inj.committed)
	}

	inj2 := &fakeInjector{}
	a2 := New(inj2, NewClientState(StrategySynthesize))
	if err := a2.CommitWord(); err != nil {
		t.Fatalf("CommitWord() error = %v", err)
	}
	if inj2.committed != 0 {
		t.Errorf("Synthesize strategy should not call CommitMarkedText")
	}
}

func TestCancelWordOnlyAffectsMarkedText(t *testing.T) {
	inj := &fakeInjector{}
	a := New(inj, NewClientState(StrategyMarkedText))
	if err := a.CancelWord(); err != nil {
		t.Fatalf("CancelWord() error = %v", err)
	}
	if inj.canceled != 1 {
		t.Errorf("canceled = %d, want 1", inj.canceled)
	}
}

func TestWaitForPendingReturnsOnceApplyCompletes(t *testing.T) {
	inj := &fakeInjector{}
	a := New(inj, NewClientState(StrategySynthesize))

	diff := engine.Diff{Consume: true, DeleteCount: 0, Insert: []rune("a")}
	if err := a.Apply(diff, ApplyOptions{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	start := time.Now()
	a.WaitForPending()
	if elapsed := time.Since(start); elapsed > defaultTimeout {
		t.Errorf("WaitForPending took %v, want to return immediately once Apply finished", elapsed)
	}
}
