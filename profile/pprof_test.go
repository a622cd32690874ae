//go:build pprof

package profile

import (
	"slices"
	"testing"
)

func TestModes_Described(t *testing.T) {
	ms := Modes()
	if !slices.IsSorted(ms) {
		t.Errorf("Modes() not sorted: %v", ms)
	}

	for _, m := range ms {
		if Describe(m) == "" {
			t.Errorf("mode %q has no description", m)
		}
	}

	if got := Describe("bogus"); got != "" {
		t.Errorf("Describe(bogus) = %q", got)
	}
}
