package engine

import (
	"unicode"

	"github.com/username/goviet-ime/internal/macrostore"
)

// macro.go implements C5: on word-break, look the buffer's raw keys up in
// the macro store and, if found, emit the Diff that replaces the
// projected word with the macro's expansion (spec.md §4.5).

// MacroResult is what ExpandMacro found, or the zero value if nothing
// matched.
type MacroResult struct {
	Matched       bool
	Expansion     string
	AddSpaceAfter bool
}

// ExpandMacro looks up trigger in store and, if a macro fires, applies
// auto_caps (when autoCapsEnabled) and returns the expansion text.
// projected is the word's current on-screen rendering, used only to
// detect the trigger's casing for auto_caps.
func ExpandMacro(store *macrostore.Store, trigger, projected string, autoCapsEnabled bool) MacroResult {
	if store == nil || trigger == "" {
		return MacroResult{}
	}
	snap := store.Load()
	macro, ok := snap.Lookup(trigger)
	if !ok {
		return MacroResult{}
	}

	expansion := macro.Expansion
	if autoCapsEnabled && macro.AutoCaps && startsUpper(projected) {
		expansion = capitalizeFirst(expansion)
	}

	return MacroResult{
		Matched:       true,
		Expansion:     expansion,
		AddSpaceAfter: macro.AddSpaceAfter,
	}
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
