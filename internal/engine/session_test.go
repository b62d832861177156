package engine

import (
	"testing"

	"github.com/username/goviet-ime/internal/macrostore"
)

func newTestSession(modern bool) *Session {
	settings := DefaultSettings()
	settings.ModernStyle = modern
	return NewSession(settings, macrostore.NewStore(), nil)
}

func typeAll(s *Session, keys string) {
	for _, r := range keys {
		s.ProcessKey(r)
	}
}

func TestSessionScenarios(t *testing.T) {
	tests := []struct {
		name   string
		modern bool
		keys   string
		want   string
	}{
		{"dich", true, "dijch", "dịch"},
		{"thuong", true, "thuowng", "thương"},
		{"toan", true, "toans", "toán"},
		{"hoa traditional", false, "hoas", "hóa"},
		{"hoa modern", true, "hoas", "hoá"},
		{"nghiem", true, "nghiexm", "nghiễm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(tt.modern)
			typeAll(s, tt.keys)
			if got := s.CurrentWord(); got != tt.want {
				t.Errorf("CurrentWord() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionDoubleKeyRevert(t *testing.T) {
	s := newTestSession(true)
	typeAll(s, "ss")
	if got := s.CurrentWord(); got != "ss" {
		t.Errorf("CurrentWord() = %q, want literal %q", got, "ss")
	}
}

func TestSessionDMerge(t *testing.T) {
	s := newTestSession(true)
	typeAll(s, "dd")
	if got := s.CurrentWord(); got != "đ" {
		t.Errorf("CurrentWord() = %q, want %q", got, "đ")
	}
}

// TestUndoLaw checks spec.md §8's undo law: process_key*(K); undo_typing()
// produces on-screen text equal to the raw ASCII K.
func TestUndoLaw(t *testing.T) {
	s := newTestSession(true)
	keys := "thuowng"
	typeAll(s, keys)
	diff := s.UndoTyping()
	if !diff.Consume {
		t.Fatalf("UndoTyping() did not consume")
	}
	if string(diff.Insert) != keys {
		t.Errorf("UndoTyping() Insert = %q, want raw %q", string(diff.Insert), keys)
	}
	if s.CurrentWord() != "" {
		t.Errorf("CurrentWord() after undo = %q, want empty (buffer cleared)", s.CurrentWord())
	}
}

// TestBackspaceRestoreLaw: process_key*(K); process_word_break(' ');
// process_backspace() yields current_word() == process_key*(K).current_word().
func TestBackspaceRestoreLaw(t *testing.T) {
	s := newTestSession(true)
	typeAll(s, "toans")
	want := s.CurrentWord()

	s.ProcessWordBreak(' ')
	if s.CurrentWord() != "" {
		t.Fatalf("CurrentWord() after word break = %q, want empty", s.CurrentWord())
	}

	diff := s.ProcessBackspace()
	if !diff.Consume {
		t.Fatalf("ProcessBackspace() after word break did not restore")
	}
	if s.CurrentWord() != want {
		t.Errorf("CurrentWord() after backspace-restore = %q, want %q", s.CurrentWord(), want)
	}
}

func TestEmptyBufferBackspaceIsNoOp(t *testing.T) {
	s := newTestSession(true)
	diff := s.ProcessBackspace()
	if diff.Consume {
		t.Errorf("ProcessBackspace() on empty buffer with no history should not consume, got %+v", diff)
	}
}

func TestResetClearsState(t *testing.T) {
	s := newTestSession(true)
	typeAll(s, "toans")
	s.Reset(ResetFlags{})
	if s.CurrentWord() != "" {
		t.Errorf("CurrentWord() after Reset = %q, want empty", s.CurrentWord())
	}
	if s.CanUndoTyping() {
		t.Errorf("CanUndoTyping() after Reset = true, want false")
	}
}

// TestRestoreLawOnInvalidSpelling covers spec.md §8's restore law: a
// vowel-less sequence like "bcd" can never form a valid Vietnamese
// syllable (no nucleus), so RestoreIfWrongSpelling fires on word-break.
func TestRestoreLawOnInvalidSpelling(t *testing.T) {
	s := newTestSession(true)
	typeAll(s, "bcd")
	diff := s.ProcessWordBreak(' ')
	if !diff.Consume {
		t.Fatalf("restore did not fire for an invalid syllable")
	}
	if string(diff.Insert) != "bcd" {
		t.Errorf("restored Insert = %q, want raw %q", string(diff.Insert), "bcd")
	}
}

func TestMacroExpansionOnWordBreak(t *testing.T) {
	store := macrostore.NewStore()
	store.Publish(macrostore.NewSnapshot([]macrostore.Macro{
		{Trigger: "omg", Expansion: "oh my god", AddSpaceAfter: true},
	}))
	settings := DefaultSettings()
	s := NewSession(settings, store, nil)
	typeAll(s, "omg")
	diff := s.ProcessWordBreak(' ')
	if !diff.Consume {
		t.Fatalf("macro did not fire")
	}
	if string(diff.Insert) != "oh my god " {
		t.Errorf("macro expansion = %q, want %q", string(diff.Insert), "oh my god ")
	}
}

func TestUpperCaseFirstChar(t *testing.T) {
	settings := DefaultSettings()
	settings.UpperCaseFirstChar = true
	s := NewSession(settings, macrostore.NewStore(), nil)

	s.ProcessKey('h')
	if got := s.CurrentWord(); got != "H" {
		t.Errorf("CurrentWord() = %q, want %q (sentence-start capitalization)", got, "H")
	}

	s.ProcessWordBreak(' ')
	s.ProcessKey('h')
	if got := s.CurrentWord(); got != "h" {
		t.Errorf("CurrentWord() = %q, want lowercase %q (mid-sentence)", got, "h")
	}
}
