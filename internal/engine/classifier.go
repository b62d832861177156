package engine

import "unicode"

// classifier.go implements C1: a pure function classifying one raw
// keystroke against a scheme and the buffer it would land in, used by
// Session before any mutation happens so C7 can decide whether a key
// belongs to composition at all (spec.md §4.1).

// Classify returns the KeyClass char would take on if appended to buf
// under method and settings. It never mutates buf.
func Classify(method InputMethod, buf *WordBuffer, char rune, settings Settings) KeyClass {
	if unicode.IsDigit(char) {
		// VNI overloads digits as tone/vowel-mark keys; only classify as
		// a digit when the scheme does not also treat it as a modifier.
		if !method.IsVowelModifier(char) && !method.IsToneKey(char) {
			return ClassDigit
		}
	}

	if method.IsWordBreaker(char) {
		return ClassWordBreak
	}

	var syl *Syllable
	if buf != nil {
		syl = buf.Syllable()
	}

	if method.IsToneKey(char) && syl != nil && syl.Nucleus != "" {
		return ClassToneMark
	}

	if method.IsVowelModifier(char) {
		// 'w' is ambiguous: it is a vowel mark only when it has a nucleus
		// vowel to attach to (aw/ow/uw) or starts a word as a standalone
		// 'ư' (uw at word start); otherwise it is an ordinary consonant
		// position filler and is classified by its letter identity below.
		if unicode.ToLower(char) == 'w' {
			if syl != nil && syl.Nucleus != "" {
				return ClassVowelMark
			}
			if buf != nil && buf.IsEmpty() {
				if settings.QuickConsonantStart {
					// w -> qu at word start (spec.md §4.7 step 4); let it
					// through as the onset trigger instead of discarding
					// it, so the buffer has the raw keystroke to rewrite.
					return ClassConsonant
				}
				return ClassOther
			}
			if settings.FreeMark {
				// Free-mark lets a mark key land even though no nucleus
				// is established yet, instead of Classify discarding it
				// outright; the Placer is the one that decides what, if
				// anything, it attaches to.
				return ClassVowelMark
			}
		} else {
			return ClassVowelMark
		}
	}

	if syl != nil && syl.Onset != "" {
		last := []rune(syl.Onset)
		if unicode.ToLower(last[len(last)-1]) == unicode.ToLower(char) &&
			(unicode.ToLower(char) == 'd') {
			return ClassDoubleConsonant
		}
	}

	// f and j are Telex tone keys with no native onset use of their own;
	// at word start, Quick-Consonant-Start repurposes them as f->ph /
	// j->gi triggers rather than letting them fall through to ClassOther.
	if settings.QuickConsonantStart && buf != nil && buf.IsEmpty() {
		switch unicode.ToLower(char) {
		case 'f', 'j':
			return ClassConsonant
		}
	}

	if IsVietnameseVowel(char) {
		return ClassVowel
	}
	if IsVietnameseConsonant(char) {
		return ClassConsonant
	}
	return ClassOther
}
