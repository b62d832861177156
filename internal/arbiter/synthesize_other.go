//go:build !linux

package arbiter

import "fmt"

// NewUinputInjector is only implemented for Linux; spec.md's Synthesize
// strategy is scoped to the Linux uinput backend (SPEC_FULL.md §4.8a).
func NewUinputInjector() (Injector, error) {
	return nil, fmt.Errorf("arbiter: uinput synthesis is only available on linux")
}
