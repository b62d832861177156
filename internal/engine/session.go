package engine

import (
	"unicode"

	"github.com/username/goviet-ime/internal/lexicon"
	"github.com/username/goviet-ime/internal/macrostore"
)

// session.go implements C7, the orchestrator spec.md §4.7 describes:
// process_key/process_backspace/process_word_break/reset/undo_typing/
// can_undo_typing/current_word, each returning a Diff instead of the
// legacy CompositionEngine's flat committed/preedit strings. This is the
// API new frontends (cmd/replay, and eventually cmd/daemon) should use;
// CompositionEngine remains only for the existing Fcitx5 D-Bus surface.

// ResetFlags controls Reset's behavior (spec.md §4.7 `reset`).
type ResetFlags struct {
	CursorMoved         bool
	PreserveMidSentence bool
	// ForceMidSentence sets mid_sentence=true regardless of its prior
	// value, for signals that land inside an existing sentence (focus
	// change, IME activate — spec.md §4.9) rather than merely carrying
	// whatever it already was.
	ForceMidSentence bool
}

// Session holds one in-progress composition plus the history/macro state
// that spans word breaks.
type Session struct {
	settings Settings
	method   InputMethod
	format   OutputFormat
	buffer   *WordBuffer
	history  *History
	macros   *macrostore.Store
	lexicon  lexicon.Lexicon

	enabled        bool
	midSentence    bool
	spaceCount     int
	englishRaw     []rune // tracks keystrokes while disabled, for MacrosInEnglishMode
	sentenceStart  bool   // true at the very start and right after ./!/?
}

// NewSession creates a Session. macros and lex may be nil (NewSession
// treats a nil lexicon as lexicon.None{}).
func NewSession(settings Settings, macros *macrostore.Store, lex lexicon.Lexicon) *Session {
	if lex == nil {
		lex = lexicon.None{}
	}
	method := NewInputMethod(settings.InputMethod)
	buffer := NewWordBuffer(method, settings.ModernStyle)
	buffer.SetQuickRules(settings.FreeMark, settings.QuickTelex, settings.QuickConsonantStart, settings.QuickConsonantEnd)
	return &Session{
		settings: settings,
		method:   method,
		format:   NewOutputFormat(settings.CodeTable),
		buffer:   buffer,
		history:  NewHistory(),
		macros:        macros,
		lexicon:       lex,
		enabled:       true,
		sentenceStart: true,
	}
}

// ApplySettings reconfigures the session from a new Settings value,
// preserving any in-progress word's raw keystrokes.
func (s *Session) ApplySettings(settings Settings) {
	s.settings = settings
	s.method = NewInputMethod(settings.InputMethod)
	s.format = NewOutputFormat(settings.CodeTable)
	raw := s.buffer.raw
	s.buffer = NewWordBuffer(s.method, settings.ModernStyle)
	s.buffer.SetQuickRules(settings.FreeMark, settings.QuickTelex, settings.QuickConsonantStart, settings.QuickConsonantEnd)
	s.buffer.SetRaw(raw)
}

// SetEnabled toggles whether the engine transforms keystrokes at all.
func (s *Session) SetEnabled(enabled bool) {
	s.enabled = enabled
	if !enabled {
		s.buffer.Clear()
	}
}

func (s *Session) projection() []rune {
	return s.buffer.Project(s.format, s.settings.CodeTable)
}

// ProcessKey implements process_key (spec.md §4.7 step 1-6).
func (s *Session) ProcessKey(char rune) Diff {
	if !s.enabled {
		s.spaceCount = 0
		if s.settings.MacrosInEnglishMode {
			s.englishRaw = append(s.englishRaw, char)
		}
		return NoOpDiff()
	}

	if s.settings.UpperCaseFirstChar && s.sentenceStart && s.buffer.IsEmpty() && unicode.IsLower(char) {
		char = unicode.ToUpper(char)
	}

	class := Classify(s.method, s.buffer, char, s.settings)
	if class == ClassOther {
		s.spaceCount = 0
		return NoOpDiff()
	}

	before := s.projection()
	s.buffer.Append(char)
	after := s.projection()

	s.spaceCount = 0
	diff := computeDiff(before, after)
	diff.Consume = true
	return diff
}

// ProcessBackspace implements process_backspace, including the
// backspace-restore law (spec.md §4.6).
func (s *Session) ProcessBackspace() Diff {
	if !s.enabled {
		if len(s.englishRaw) > 0 {
			s.englishRaw = s.englishRaw[:len(s.englishRaw)-1]
		}
		return NoOpDiff()
	}

	if s.buffer.IsEmpty() {
		if s.spaceCount == 1 {
			raw, ok := s.history.Undo()
			if ok {
				s.buffer.SetRaw(raw)
				s.spaceCount = 0
				projected := s.projection()
				return Diff{Consume: true, DeleteCount: 1, Insert: projected}
			}
		}
		s.spaceCount = 0
		return NoOpDiff()
	}

	before := s.projection()
	s.buffer.Backspace()
	after := s.projection()
	s.spaceCount = 0

	diff := computeDiff(before, after)
	diff.Consume = true
	return diff
}

// ProcessWordBreak implements process_word_break (spec.md §4.7).
func (s *Session) ProcessWordBreak(breakChar rune) Diff {
	switch breakChar {
	case '.', '!', '?':
		s.sentenceStart = true
	default:
		s.sentenceStart = false
	}

	if s.buffer.IsEmpty() {
		trigger := string(s.englishRaw)
		s.englishRaw = nil
		if s.settings.MacrosEnabled && s.settings.MacrosInEnglishMode && trigger != "" {
			macro := ExpandMacro(s.macros, trigger, trigger, s.settings.AutoCapsMacro)
			if macro.Matched {
				insert := []rune(macro.Expansion)
				if macro.AddSpaceAfter {
					insert = append(insert, breakChar)
				}
				s.spaceCount = 1
				return Diff{Consume: true, DeleteCount: uint16(len(trigger)), Insert: insert}
			}
		}
		s.spaceCount = 1
		return NoOpDiff()
	}

	projected := s.projection()
	rawKeys := s.buffer.RawKeys()

	if s.settings.MacrosEnabled {
		macro := ExpandMacro(s.macros, rawKeys, string(projected), s.settings.AutoCapsMacro)
		if macro.Matched {
			insert := []rune(macro.Expansion)
			if macro.AddSpaceAfter {
				insert = append(insert, breakChar)
			}
			diff := Diff{Consume: true, DeleteCount: uint16(len(projected)), Insert: insert}
			s.commitWordBreak(rawKeys, projected)
			return diff
		}
	}

	if s.settings.SpellCheck {
		result := ValidateSyllable(s.buffer.syllable.Onset, s.buffer.syllable.Nucleus, s.buffer.syllable.Coda,
			rawKeys, s.lexicon, s.settings.AllowConsonantZFWJ)
		if !result.Valid && s.settings.RestoreIfWrongSpelling {
			diff := Diff{Consume: true, DeleteCount: uint16(len(projected)), Insert: []rune(rawKeys)}
			s.commitWordBreak(rawKeys, []rune(rawKeys))
			return diff
		}
	}

	s.commitWordBreak(rawKeys, projected)
	return Diff{Consume: false}
}

func (s *Session) commitWordBreak(rawKeys string, projected []rune) {
	s.history.Push([]rune(rawKeys), projected)
	s.buffer.Clear()
	s.spaceCount = 1
}

// Reset implements reset (spec.md §4.7).
func (s *Session) Reset(flags ResetFlags) {
	s.buffer.Clear()
	s.spaceCount = 0
	if flags.ForceMidSentence {
		s.midSentence = true
		return
	}
	if !flags.PreserveMidSentence {
		s.midSentence = false
		s.sentenceStart = true
		s.history.Clear()
	}
}

// MidSentence reports whether the session considers itself mid-sentence,
// the signal C8's peekReduce uses to decide whether an external
// autocomplete popup might be showing (spec.md §4.8).
func (s *Session) MidSentence() bool {
	return s.midSentence
}

// UndoTyping implements undo_typing.
func (s *Session) UndoTyping() Diff {
	if s.buffer.IsEmpty() {
		return NoOpDiff()
	}
	raw := s.buffer.RawKeys()
	projected := s.projection()
	s.buffer.Clear()
	return Diff{Consume: true, DeleteCount: uint16(len(projected)), Insert: []rune(raw)}
}

// CanUndoTyping implements can_undo_typing.
func (s *Session) CanUndoTyping() bool {
	return !s.buffer.IsEmpty()
}

// CurrentWord implements current_word.
func (s *Session) CurrentWord() string {
	if s.buffer.IsEmpty() {
		return ""
	}
	return string(s.projection())
}

// computeDiff returns the minimal Diff that turns before into after,
// expressed as a common-prefix-preserving delete+insert, matching
// spec.md §4.7 step 5 ("minimal edit from snapshot to new projection").
func computeDiff(before, after []rune) Diff {
	shared := 0
	for shared < len(before) && shared < len(after) && before[shared] == after[shared] {
		shared++
	}
	deleteCount := len(before) - shared
	insert := append([]rune(nil), after[shared:]...)
	return Diff{
		Consume:     deleteCount > 0 || len(insert) > 0,
		DeleteCount: uint16(deleteCount),
		Insert:      insert,
	}
}
