package engine

// composeWithPlacer renders a syllable through format using the shared
// TonePosition algorithm (C3), so every OutputFormat (Unicode, TCVN3,
// VNI-Windows, Compound) places the tone identically and only differs in
// which glyph it emits for a given (base, mark, tone) triple.
func composeWithPlacer(format OutputFormat, syllable *Syllable, modern bool, freeMark bool) string {
	if syllable == nil || syllable.Nucleus == "" {
		if syllable == nil {
			return ""
		}
		return syllable.Raw
	}

	result := syllable.Onset
	nucleus := []rune(syllable.Nucleus)
	tonePos := TonePosition(nucleus, syllable.Coda, modern, freeMark)

	for i, r := range nucleus {
		modified := format.ApplyVowelMark(r, syllable.VowelMark)
		modRune := r
		if len(modified) > 0 {
			modRune = []rune(modified)[0]
		}
		if i == tonePos {
			result += format.ApplyTone(modRune, syllable.ToneMark)
		} else {
			result += string(modRune)
		}
	}

	result += syllable.Coda
	return result
}
