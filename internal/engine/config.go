package engine

// Settings is the full engine-facing configuration record (spec.md §6,
// `update_settings`). It is immutable once handed to NewSession /
// ApplySettings: callers construct a new Settings and call
// Session.ApplySettings(s) rather than mutating fields in place, so the
// RCU-style macro/settings snapshot swap (SPEC_FULL.md §5) always has a
// single consistent view to publish.
type Settings struct {
	InputMethod InputMethodKind
	CodeTable   CodeTable

	// ModernStyle selects the modern (true) vs. traditional (false)
	// tone-placement convention for two-vowel open nuclei without a coda.
	ModernStyle bool

	// SpellCheck enables C4 validation of the finished syllable at word
	// break.
	SpellCheck bool

	// RestoreIfWrongSpelling reverts a transformation that would produce
	// an invalid Vietnamese syllable, falling back to the literal keys.
	RestoreIfWrongSpelling bool

	// QuickTelex rewrites a doubled consonant shorthand to its full
	// cluster, e.g. "cc" -> "ch", where the scheme supports it.
	QuickTelex bool

	// QuickConsonantStart/End enable common consonant-cluster shortcuts:
	// f/j/w at word start stand in for "ph"/"gi"/"qu", and g/h/k at word
	// end stand in for "ng"/"nh"/"ch".
	QuickConsonantStart bool
	QuickConsonantEnd   bool

	// FreeMark allows a tone/mark key to land anywhere in the buffer
	// rather than only immediately after the vowel it modifies.
	FreeMark bool

	// AllowConsonantZFWJ permits z/f/w/j to survive as literal onset
	// consonants when they cannot be structural modifiers in context
	// (spec.md C4 extension).
	AllowConsonantZFWJ bool

	// UpperCaseFirstChar auto-capitalizes the first letter of a word when
	// the preceding committed text ends a sentence.
	UpperCaseFirstChar bool

	// MacrosEnabled turns on C5 macro expansion.
	MacrosEnabled bool
	// MacrosInEnglishMode allows macro expansion to fire even when the
	// engine is toggled off for plain English typing.
	MacrosInEnglishMode bool
	// AutoCapsMacro capitalizes a macro's expansion to match the case of
	// its trigger.
	AutoCapsMacro bool

	// FixAutocomplete enables the browser-autocomplete peek-and-reduce
	// workaround in the Output Arbiter (spec.md §8a).
	FixAutocomplete bool
}

// DefaultSettings returns the engine's default configuration.
func DefaultSettings() Settings {
	return Settings{
		InputMethod:            MethodTelex,
		CodeTable:              CodeTableUnicode,
		ModernStyle:            false,
		SpellCheck:             true,
		RestoreIfWrongSpelling: true,
		QuickTelex:             false,
		QuickConsonantStart:    true,
		QuickConsonantEnd:      true,
		FreeMark:               false,
		AllowConsonantZFWJ:     false,
		UpperCaseFirstChar:     false,
		MacrosEnabled:          true,
		MacrosInEnglishMode:    false,
		AutoCapsMacro:          true,
		FixAutocomplete:        true,
	}
}

// NewInputMethod builds the InputMethod for a Settings.InputMethod kind.
func NewInputMethod(kind InputMethodKind) InputMethod {
	switch kind {
	case MethodVNI:
		return NewVNIMethod()
	case MethodVIQR:
		return NewVIQRMethod()
	case MethodSimpleTelex1:
		return NewSimpleTelex1Method()
	case MethodSimpleTelex2:
		return NewSimpleTelex2Method()
	default:
		return NewTelexMethod()
	}
}

// NewConfiguredEngine creates a CompositionEngine wired from Settings, for
// the legacy per-key Engine surface the D-Bus daemon speaks.
func NewConfiguredEngine(s Settings) *CompositionEngine {
	e := NewCompositionEngine()
	e.SetInputMethod(NewInputMethod(s.InputMethod))
	e.SetOutputFormat(NewOutputFormat(s.CodeTable))
	e.SetCodeTable(s.CodeTable)
	e.SetModernStyle(s.ModernStyle)
	return e
}
