package engine

import "unicode"

// SimpleTelex1Method is Telex with the 'w' vowel-mark shortcuts disabled
// entirely: no aw->ă, ow->ơ, uw->ư and no standalone w->ư. Users who find
// 'w' colliding with English loanwords pick this variant.
type SimpleTelex1Method struct {
	inner *TelexMethod
}

// NewSimpleTelex1Method creates a new Simple-Telex (variant 1) method.
func NewSimpleTelex1Method() *SimpleTelex1Method {
	return &SimpleTelex1Method{inner: NewTelexMethod()}
}

func (s *SimpleTelex1Method) Name() string { return "SimpleTelex1" }

func (s *SimpleTelex1Method) IsToneKey(char rune) bool { return s.inner.IsToneKey(char) }
func (s *SimpleTelex1Method) GetToneMark(char rune) ToneMark {
	return s.inner.GetToneMark(char)
}

func (s *SimpleTelex1Method) IsVowelModifier(char rune) bool {
	if unicode.ToLower(char) == 'w' {
		return false
	}
	return s.inner.IsVowelModifier(char)
}

func (s *SimpleTelex1Method) GetVowelMark(char rune) VowelMark {
	if unicode.ToLower(char) == 'w' {
		return VowelNone
	}
	return s.inner.GetVowelMark(char)
}

func (s *SimpleTelex1Method) ProcessChar(char rune, current *Syllable) (string, ToneMark, VowelMark, bool) {
	if unicode.ToLower(char) == 'w' {
		return string(char), ToneNone, VowelNone, false
	}
	return s.inner.ProcessChar(char, current)
}

func (s *SimpleTelex1Method) CanStartWord(char rune) bool { return s.inner.CanStartWord(char) }
func (s *SimpleTelex1Method) IsWordBreaker(char rune) bool { return s.inner.IsWordBreaker(char) }
func (s *SimpleTelex1Method) IsStructuralModifier(char rune) bool {
	return s.inner.IsStructuralModifier(char)
}

// SimpleTelex2Method is Telex with only the standalone-w-as-ư shortcut
// disabled; aw/ow/uw vowel marks remain active.
type SimpleTelex2Method struct {
	inner *TelexMethod
}

// NewSimpleTelex2Method creates a new Simple-Telex (variant 2) method.
func NewSimpleTelex2Method() *SimpleTelex2Method {
	return &SimpleTelex2Method{inner: NewTelexMethod()}
}

func (s *SimpleTelex2Method) Name() string { return "SimpleTelex2" }

func (s *SimpleTelex2Method) IsToneKey(char rune) bool { return s.inner.IsToneKey(char) }
func (s *SimpleTelex2Method) GetToneMark(char rune) ToneMark {
	return s.inner.GetToneMark(char)
}
func (s *SimpleTelex2Method) IsVowelModifier(char rune) bool {
	return s.inner.IsVowelModifier(char)
}
func (s *SimpleTelex2Method) GetVowelMark(char rune) VowelMark {
	return s.inner.GetVowelMark(char)
}

func (s *SimpleTelex2Method) ProcessChar(char rune, current *Syllable) (string, ToneMark, VowelMark, bool) {
	lower := unicode.ToLower(char)
	// Disable the standalone 'uw' -> 'ư' at word start shortcut, but keep
	// the adjacent-vowel horn/breve mark behavior.
	if lower == 'w' && current != nil && current.Nucleus == "" {
		return string(char), ToneNone, VowelNone, false
	}
	return s.inner.ProcessChar(char, current)
}

func (s *SimpleTelex2Method) CanStartWord(char rune) bool { return s.inner.CanStartWord(char) }
func (s *SimpleTelex2Method) IsWordBreaker(char rune) bool { return s.inner.IsWordBreaker(char) }
func (s *SimpleTelex2Method) IsStructuralModifier(char rune) bool {
	return s.inner.IsStructuralModifier(char)
}
