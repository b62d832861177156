package engine

import "unicode"

// ToneRule selects which Vietnamese tone-placement convention governs
// two-vowel open nuclei that are not one of the oa/oe/uy or ia/ua/ưa/ya
// special cases (spec.md §4.3 / §6 `modern_style`).
type ToneRule int

const (
	// ToneRuleOld is the traditional convention: hoà -> "hòa" (tone on the
	// first vowel of an open oa/oe/uy nucleus), ao/au/ay -> first vowel.
	ToneRuleOld ToneRule = iota

	// ToneRuleNew is the modern convention: hoà -> "hoà" (tone on the
	// second vowel of an open oa/oe/uy nucleus), ao/au/ay -> second vowel.
	ToneRuleNew
)

// isMarkedVowel reports whether a vowel already carries a non-tone
// diacritic (â, ê, ô, ơ, ư) — such a vowel always wins the tone slot
// over a plain neighbour.
func isMarkedVowel(r rune) bool {
	switch r {
	case 'ă', 'Ă', 'â', 'Â', 'ê', 'Ê', 'ô', 'Ô', 'ơ', 'Ơ', 'ư', 'Ư':
		return true
	}
	return false
}

func lowerPair(nucleus []rune, i, j int) (rune, rune) {
	return unicode.ToLower(nucleus[i]), unicode.ToLower(nucleus[j])
}

// isOAOEUY reports whether the first two vowels of nucleus spell one of
// the oa/oe/uy clusters (checked against the unmarked base letters).
func isOAOEUY(nucleus []rune) bool {
	if len(nucleus) < 2 {
		return false
	}
	a, b := lowerPair(nucleus, 0, 1)
	return (a == 'o' && (b == 'a' || b == 'e')) || (a == 'u' && b == 'y')
}

// isFixedFirstVowelCluster reports whether the first two vowels spell
// ia/ua/ưa/ya, which always take the tone on the first vowel regardless
// of style.
func isFixedFirstVowelCluster(nucleus []rune) bool {
	if len(nucleus) < 2 {
		return false
	}
	a, b := lowerPair(nucleus, 0, 1)
	if b != 'a' {
		return false
	}
	return a == 'i' || a == 'u' || a == 'ư' || a == 'y'
}

// TonePosition implements spec.md §4.3's tone-placement rules and returns
// the index into nucleus that should carry the tone mark. modern selects
// ToneRuleNew (true) or ToneRuleOld (false) for the style-dependent
// ascending-diphthong case.
//
// Reading pinned per spec.md §8's worked examples (the exhaustive table
// in §4.3 and the worked examples disagree on oa/oe/uy with no coda; see
// DESIGN.md): oa/oe/uy with a coda always takes the tone on the second
// vowel; without a coda the style decides.
// freeMark, when true, pins the tone to the last nucleus vowel
// unconditionally (spec.md §4.3 free-mark mode: the Placer does not
// relocate a tone the typist placed themselves).
func TonePosition(nucleus []rune, coda string, modern bool, freeMark bool) int {
	n := len(nucleus)
	if n <= 1 {
		return 0
	}

	// A vowel that already carries a mark (â, ê, ô, ơ, ư) always wins.
	for i, r := range nucleus {
		if isMarkedVowel(r) {
			return i
		}
	}

	if freeMark {
		return n - 1
	}

	if n == 2 {
		if isOAOEUY(nucleus) {
			if coda != "" {
				return 1
			}
			if modern {
				return 1
			}
			return 0
		}
		if coda != "" {
			return 0
		}
		if isFixedFirstVowelCluster(nucleus) {
			return 0
		}
		if modern {
			return 1
		}
		return 0
	}

	// n >= 3: uyê, oai, uyu, etc. Tone goes on the middle vowel unless the
	// third vowel is itself glued to a following coda consonant with no
	// vowel in between, in which case the tone shifts to the third vowel
	// (spec.md §4.3 rule 4; pinned per §9's tri-vowel Open Question using
	// the nghiễm worked example: iê + m keeps the tone on the middle ê,
	// so the shift-to-V3 case only applies when V3 is a glide consonant
	// target such as y/u acting as part of the coda, not a full vowel).
	if coda != "" && isGlideThirdVowel(nucleus) {
		return n - 1
	}
	return 1
}

// isGlideThirdVowel reports whether the final vowel of a 3+-vowel
// nucleus is one of the semivowel glides that, in closed syllables,
// binds tighter to the coda than to the nucleus (e.g. "oai" -> tone
// stays on the 'a', not the glide 'i').
func isGlideThirdVowel(nucleus []rune) bool {
	if len(nucleus) < 3 {
		return false
	}
	last := unicode.ToLower(nucleus[len(nucleus)-1])
	return last == 'y' || last == 'u'
}
