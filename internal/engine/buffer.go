package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MarkSet is a bitset of the non-tone diacritics a LogicalChar may carry.
type MarkSet uint8

const (
	MarkCircumflex MarkSet = 1 << iota // â, ê, ô
	MarkBreve                          // ă
	MarkHorn                           // ơ, ư
	MarkBar                            // đ
)

// LogicalChar is one slot in the Word Buffer (spec.md §3).
type LogicalChar struct {
	Base       rune
	Tone       ToneMark
	Marks      MarkSet
	OriginKeys []rune
	Uppercase  bool
}

// WordBuffer is the ordered sequence of logical characters typed in the
// current word (C2). It keeps the raw keystroke sequence as the source of
// truth and derives the onset/nucleus/coda/tone Syllable view, and the
// LogicalChar slot view, from it on every mutation — this is what makes
// tone re-placement after backspace or coda insertion automatic rather
// than something that has to be separately undone.
type WordBuffer struct {
	raw      []rune
	syllable *Syllable
	method   InputMethod
	modern   bool

	freeMark            bool
	quickTelex          bool
	quickConsonantStart bool
	quickConsonantEnd   bool
}

// NewWordBuffer creates an empty buffer for the given scheme.
func NewWordBuffer(method InputMethod, modern bool) *WordBuffer {
	return &WordBuffer{
		syllable: &Syllable{},
		method:   method,
		modern:   modern,
	}
}

// SetQuickRules configures the free-mark and quick-rewrite extensions
// (spec.md §4.3, §4.7 step 4) and reparses so the new rules apply to
// whatever is already in the buffer.
func (b *WordBuffer) SetQuickRules(freeMark, quickTelex, quickConsonantStart, quickConsonantEnd bool) {
	b.freeMark = freeMark
	b.quickTelex = quickTelex
	b.quickConsonantStart = quickConsonantStart
	b.quickConsonantEnd = quickConsonantEnd
	b.reparse()
}

// IsEmpty reports whether the buffer has no keystrokes.
func (b *WordBuffer) IsEmpty() bool { return len(b.raw) == 0 }

// RawKeys returns the concatenation of every origin keystroke typed for
// this word, satisfying spec.md §3's round-trip invariant directly.
func (b *WordBuffer) RawKeys() string { return string(b.raw) }

// Syllable returns the current onset/nucleus/coda/tone decomposition.
func (b *WordBuffer) Syllable() *Syllable { return b.syllable }

// Append adds one raw keystroke to the buffer and reparses structure.
func (b *WordBuffer) Append(char rune) {
	b.raw = append(b.raw, char)
	b.reparse()
}

// Backspace removes the last keystroke and reparses; because Compose
// recomputes the tone position from the new nucleus/coda shape every
// time, a tone that was riding a now-removed vowel is automatically
// re-homed onto the next-best vowel, or cleared if none remain.
func (b *WordBuffer) Backspace() {
	if len(b.raw) == 0 {
		return
	}
	b.raw = b.raw[:len(b.raw)-1]
	b.reparse()
}

// Clear empties the buffer.
func (b *WordBuffer) Clear() {
	b.raw = nil
	b.syllable = &Syllable{}
}

// SetRaw replaces the raw keystroke sequence wholesale (used by undo and
// backspace-restore to rehydrate a buffer from history) and reparses.
func (b *WordBuffer) SetRaw(raw []rune) {
	b.raw = append([]rune(nil), raw...)
	b.reparse()
}

// reparse rebuilds the onset/nucleus/coda/tone structure from raw using
// the current scheme's ProcessChar, mirroring the structural parse the
// teacher's CompositionEngine performs, generalized across schemes via
// InputMethod.
func (b *WordBuffer) reparse() {
	b.syllable = &Syllable{}
	if len(b.raw) == 0 {
		return
	}
	for _, r := range b.raw {
		b.applyOne(r)
	}
}

// applyOne feeds one raw keystroke through the scheme and folds the
// result into b.syllable, following the same consumed/literal branching
// as the teacher's processKeyInternal.
func (b *WordBuffer) applyOne(char rune) {
	transformed, tone, vowelMark, consumed := b.method.ProcessChar(char, b.syllable)

	if consumed {
		if b.method.IsToneKey(char) {
			if b.syllable.ToneMark == tone && tone != ToneNone {
				b.syllable.ToneMark = ToneNone
			} else {
				b.syllable.ToneMark = tone
			}
		} else if vowelMark != VowelNone || len(transformed) > 0 {
			b.applyVowelMark(vowelMark, transformed)
		}
	}
	b.updateStructure()
}

// applyVowelMark folds a vowel-mark transformation into the syllable,
// handling đ (which modifies the onset, not the nucleus) specially.
func (b *WordBuffer) applyVowelMark(mark VowelMark, transformed string) {
	b.syllable.VowelMark = mark

	if mark == VowelDBar && len(transformed) > 0 {
		if len(b.syllable.Onset) > 0 {
			onset := []rune(b.syllable.Onset)
			last := onset[len(onset)-1]
			if last == 'd' || last == 'D' {
				onset[len(onset)-1] = []rune(transformed)[0]
				b.syllable.Onset = string(onset)
			}
		}
		return
	}

	if len(transformed) > 0 && len(b.syllable.Nucleus) > 0 {
		nucleus := []rune(b.syllable.Nucleus)
		nucleus[len(nucleus)-1] = []rune(transformed)[0]
		b.syllable.Nucleus = string(nucleus)
	}
}

// updateStructure re-derives onset/nucleus/coda from the raw buffer,
// preserving the tone already folded in by applyOne. This is the
// scheme-generalized version of the teacher's updateSyllableStructure.
func (b *WordBuffer) updateStructure() {
	raw := b.raw
	tone := b.syllable.ToneMark
	vowelMark := b.syllable.VowelMark
	b.syllable = &Syllable{Raw: string(raw), ToneMark: tone, VowelMark: vowelMark}
	if len(raw) == 0 {
		return
	}

	onset := ""
	nucleus := ""
	coda := ""
	i := 0
	n := len(raw)

	for i < n {
		r := raw[i]
		if isVietnameseVowelRune(r) {
			break
		}
		if (r == 'd' || r == 'D') && i+1 < n && (raw[i+1] == 'd' || raw[i+1] == 'D') {
			if r == 'd' {
				onset += "đ"
			} else {
				onset += "Đ"
			}
			i += 2
			continue
		}
		if isVietnameseConsonantRune(r) {
			onset += string(r)
			i++
			continue
		}
		if b.method.IsStructuralModifier(r) {
			i++
			continue
		}
		break
	}

	for i < n {
		r := raw[i]
		if isVietnameseVowelRune(r) {
			if i+1 < n && unicode.ToLower(raw[i+1]) == unicode.ToLower(r) {
				var transformed rune
				switch unicode.ToLower(r) {
				case 'a':
					transformed = 'â'
				case 'e':
					transformed = 'ê'
				case 'o':
					transformed = 'ô'
				}
				if transformed != 0 {
					if unicode.IsUpper(r) {
						nucleus += string(unicode.ToUpper(transformed))
					} else {
						nucleus += string(transformed)
					}
					i += 2
					continue
				}
			}
			nucleus += string(r)
			i++
		} else if unicode.ToLower(r) == 'w' && b.method.IsVowelModifier('w') {
			if len(nucleus) > 0 {
				nucleusRunes := []rune(nucleus)
				lastIdx := len(nucleusRunes) - 1
				last := nucleusRunes[lastIdx]
				var transformed rune
				switch unicode.ToLower(last) {
				case 'a':
					transformed = 'ă'
				case 'o':
					if len(nucleusRunes) >= 2 && unicode.ToLower(nucleusRunes[lastIdx-1]) == 'u' {
						u := nucleusRunes[lastIdx-1]
						transformedU := 'ư'
						if unicode.IsUpper(u) {
							transformedU = 'Ư'
						}
						nucleusRunes[lastIdx-1] = transformedU
					}
					transformed = 'ơ'
				case 'u':
					transformed = 'ư'
				}
				if transformed != 0 {
					if unicode.IsUpper(last) {
						nucleusRunes[lastIdx] = unicode.ToUpper(transformed)
					} else {
						nucleusRunes[lastIdx] = transformed
					}
					nucleus = string(nucleusRunes)
				}
			}
			i++
		} else if b.method.IsStructuralModifier(r) {
			i++
		} else {
			break
		}
	}

	for i < n {
		r := raw[i]
		if b.method.IsStructuralModifier(r) {
			i++
			continue
		}
		if isVietnameseConsonantRune(r) {
			if i+1 < n {
				nextR := raw[i+1]
				if isVietnameseConsonantRune(nextR) && isValidCoda(string(r)+string(nextR)) {
					coda += string(r) + string(nextR)
					i += 2
					continue
				}
			}
			if isValidCoda(string(r)) {
				coda += string(r)
				i++
			} else {
				break
			}
		} else {
			break
		}
	}

	// ia/ua/ie + coda auto-uplift: these never surface as open digraphs
	// once a final consonant follows (tiền not *tien, buồn not *buon,
	// nghiễm not *nghiem).
	if coda != "" && len(nucleus) >= 2 {
		nRunes := []rune(nucleus)
		first := unicode.ToLower(nRunes[0])
		second := unicode.ToLower(nRunes[1])

		if first == 'i' && second == 'a' {
			nRunes[1] = upperLike(nRunes[1], 'ê', 'Ê')
			nucleus = string(nRunes)
		} else if first == 'u' && second == 'o' {
			nRunes[1] = upperLike(nRunes[1], 'ô', 'Ô')
			nucleus = string(nRunes)
		} else if first == 'i' && second == 'e' {
			nRunes[1] = upperLike(nRunes[1], 'ê', 'Ê')
			nucleus = string(nRunes)
		}
	}

	for i < n {
		if b.method.IsStructuralModifier(raw[i]) {
			i++
		} else {
			break
		}
	}

	onset, coda = b.applyQuickRules(onset, coda, i == n)

	b.syllable.Onset = onset
	b.syllable.Nucleus = nucleus
	b.syllable.Coda = coda
	b.syllable.Consumed = i
}

// applyQuickRules implements the Quick-Telex onset/coda rewrite (cc->ch)
// and the Quick-Consonant onset/coda shorthand (f/j/w at word start,
// g/h/k at word end) from spec.md §4.7 step 4. It reads b.raw directly
// for the onset triggers because f/j/w never survive into onset as
// literal text (they are structural modifiers in every scheme).
func (b *WordBuffer) applyQuickRules(onset, coda string, atWordEnd bool) (string, string) {
	if b.quickTelex {
		if rewritten, ok := quickRewrite(onset, "cc", "ch"); ok {
			onset = rewritten
		}
		if rewritten, ok := quickRewrite(coda, "cc", "ch"); ok {
			coda = rewritten
		}
	}

	if b.quickConsonantStart && onset == "" && len(b.raw) > 0 {
		switch b.raw[0] {
		case 'f':
			onset = "ph"
		case 'F':
			onset = "Ph"
		case 'j':
			onset = "gi"
		case 'J':
			onset = "Gi"
		case 'w':
			onset = "qu"
		case 'W':
			onset = "Qu"
		}
	}

	if b.quickConsonantEnd && atWordEnd {
		switch coda {
		case "g":
			if isValidCoda("ng") {
				coda = "ng"
			}
		case "h":
			if isValidCoda("nh") {
				coda = "nh"
			}
		case "k":
			if isValidCoda("ch") {
				coda = "ch"
			}
		}
	}

	return onset, coda
}

// quickRewrite replaces a trailing occurrence of trigger in s with
// replacement, preserving the case of the first trigger letter. It
// reports whether a rewrite happened.
func quickRewrite(s, trigger, replacement string) (string, bool) {
	if len(s) < len(trigger) {
		return s, false
	}
	tail := s[len(s)-len(trigger):]
	if !strings.EqualFold(tail, trigger) {
		return s, false
	}
	head := s[:len(s)-len(trigger)]
	rep := []rune(replacement)
	if unicode.IsUpper([]rune(tail)[0]) {
		rep[0] = unicode.ToUpper(rep[0])
	}
	return head + string(rep), true
}

func upperLike(ref rune, lower, upper rune) rune {
	if unicode.IsUpper(ref) {
		return upper
	}
	return lower
}

// Project renders the buffer to final-form code points using format,
// then applies the code table's normalization form. It is the
// implementation of C2's project().
func (b *WordBuffer) Project(format OutputFormat, table CodeTable) []rune {
	if len(b.raw) == 0 {
		return nil
	}
	s := b.syllable
	if s == nil {
		out := append([]rune(nil), b.raw...)
		return out
	}
	if s.Nucleus == "" && !strings.ContainsAny(s.Onset, "đĐ") {
		out := append([]rune(nil), b.raw...)
		return out
	}

	var composed string
	if s.Nucleus != "" {
		composed = composeWithPlacer(format, s, b.modern, b.freeMark)
	} else {
		// Onset-only transformation (the đ merge with no vowel typed
		// yet, e.g. raw "dd"): nothing for the tone/vowel placer to do.
		composed = s.Onset
	}

	runes := []rune(b.raw)
	if s.Consumed < len(runes) && s.Consumed >= 0 {
		for _, r := range runes[s.Consumed:] {
			if !b.method.IsStructuralModifier(r) {
				composed += string(r)
			}
		}
	}
	if composed == "" {
		return append([]rune(nil), b.raw...)
	}

	var n []byte
	switch table {
	case CodeTableCompound:
		n = norm.NFD.Bytes([]byte(composed))
	default:
		n = norm.NFC.Bytes([]byte(composed))
	}
	return []rune(string(n))
}

// LengthGlyphs returns len(Project()) for the given rendering, matching
// spec.md §3's length_glyphs invariant.
func (b *WordBuffer) LengthGlyphs(format OutputFormat, table CodeTable) int {
	return len(b.Project(format, table))
}

// Slots derives the LogicalChar decomposition of the buffer for
// inspection and invariant testing. Tone/mark keys that do not land on a
// distinct nucleus vowel are folded into the nearest preceding slot's
// OriginKeys so that concatenating every slot's OriginKeys still exactly
// reproduces RawKeys().
func (b *WordBuffer) Slots() []LogicalChar {
	if len(b.raw) == 0 {
		return nil
	}
	slots := make([]LogicalChar, 0, len(b.raw))
	for _, r := range b.raw {
		if b.method.IsStructuralModifier(r) && len(slots) > 0 {
			slots[len(slots)-1].OriginKeys = append(slots[len(slots)-1].OriginKeys, r)
			continue
		}
		slots = append(slots, LogicalChar{
			Base:       r,
			OriginKeys: []rune{r},
			Uppercase:  unicode.IsUpper(r),
		})
	}
	if b.syllable != nil && b.syllable.ToneMark != ToneNone && len(slots) > 0 {
		slots[len(slots)-1].Tone = b.syllable.ToneMark
	}
	return slots
}

func isVietnameseVowelRune(r rune) bool {
	lower := unicode.ToLower(r)
	switch lower {
	case 'a', 'ă', 'â', 'e', 'ê', 'i', 'o', 'ô', 'ơ', 'u', 'ư', 'y':
		return true
	}
	return false
}

func isVietnameseConsonantRune(r rune) bool {
	lower := unicode.ToLower(r)
	switch lower {
	case 'b', 'c', 'd', 'đ', 'g', 'h', 'k', 'l', 'm', 'n', 'p', 'q', 'r', 's', 't', 'v', 'x':
		return true
	}
	return false
}

var validCodas = map[string]bool{
	"c": true, "ch": true, "m": true, "n": true,
	"ng": true, "nh": true, "p": true, "t": true,
}

func isValidCoda(s string) bool {
	lower := strings.ToLower(s)
	return validCodas[lower]
}
