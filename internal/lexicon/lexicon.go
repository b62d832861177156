// Package lexicon defines the lookup contract C4 consults for its
// user-dictionary override ("If user dictionary contains the raw-ASCII
// form, always valid.", spec.md §4.4). It intentionally carries no
// dictionary content — spec.md §1 names lexicon file *contents* as
// out of scope — only the interface and an in-memory implementation
// useful for tests and for callers that load their own word list.
package lexicon

import "strings"

// Lexicon answers whether a raw-ASCII keystroke sequence is a known word,
// bypassing C4's spelling rules.
type Lexicon interface {
	Contains(rawASCII string) bool
}

// None is a Lexicon that knows no words — the default when no user
// dictionary is configured.
type None struct{}

// Contains always reports false.
func (None) Contains(string) bool { return false }

// InMemory is a simple set-backed Lexicon, case-insensitive over ASCII.
type InMemory struct {
	words map[string]struct{}
}

// NewInMemory builds an InMemory lexicon from a word list.
func NewInMemory(words []string) *InMemory {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &InMemory{words: set}
}

// Contains reports whether rawASCII (case-insensitively) is in the set.
func (l *InMemory) Contains(rawASCII string) bool {
	if l == nil {
		return false
	}
	_, ok := l.words[strings.ToLower(rawASCII)]
	return ok
}
