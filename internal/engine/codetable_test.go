package engine

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func syllableForHuong() *Syllable {
	return &Syllable{Onset: "th", Nucleus: "ươ", Coda: "ng", Consumed: 7}
}

func TestTCVN3AndVNIWindowsFallBackToUnicodePrecomposed(t *testing.T) {
	s := syllableForHuong()

	u := NewUnicodeFormat().Compose(s)
	tcvn3 := NewTCVN3Format().Compose(s)
	vni := NewVNIWindowsFormat().Compose(s)

	if tcvn3 != u {
		t.Errorf("TCVN3Format.Compose() = %q, want the same precomposed form as Unicode %q", tcvn3, u)
	}
	if vni != u {
		t.Errorf("VNIWindowsFormat.Compose() = %q, want the same precomposed form as Unicode %q", vni, u)
	}
}

// TestCompoundRoundTripsToUnicode checks spec.md §8's code-table round
// trip: Compound's NFD output, run back through NFC (the direction a
// consuming app would take), reproduces the Unicode table's NFC output.
func TestCompoundRoundTripsToUnicode(t *testing.T) {
	s := syllableForHuong()

	unicodeForm := NewOutputFormat(CodeTableUnicode)
	compoundForm := NewOutputFormat(CodeTableCompound)

	buf := NewWordBuffer(NewTelexMethod(), true)
	buf.SetRaw([]rune("thuowng"))

	unicodeOut := string(buf.Project(unicodeForm, CodeTableUnicode))
	compoundOut := string(buf.Project(compoundForm, CodeTableCompound))

	if compoundOut == unicodeOut {
		t.Fatalf("Compound output %q should be decomposed (base + combining mark), not equal to the precomposed Unicode output", compoundOut)
	}

	roundTripped := string(norm.NFC.Bytes([]byte(compoundOut)))
	if roundTripped != unicodeOut {
		t.Errorf("NFC(Compound output) = %q, want it to reproduce the Unicode table's output %q", roundTripped, unicodeOut)
	}
}

func TestOutputFormatNames(t *testing.T) {
	tests := []struct {
		table CodeTable
		want  string
	}{
		{CodeTableUnicode, "Unicode"},
		{CodeTableTCVN3, "TCVN3"},
		{CodeTableVNIWindows, "VNI-Windows"},
		{CodeTableCompound, "Compound"},
	}
	for _, tt := range tests {
		if got := NewOutputFormat(tt.table).Name(); got != tt.want {
			t.Errorf("NewOutputFormat(%v).Name() = %q, want %q", tt.table, got, tt.want)
		}
	}
}
