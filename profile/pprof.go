//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

type modeSpec struct {
	apply func(*profile.Profile)
	about string
}

var modes = map[string]modeSpec{
	"allocs":    {profile.MemProfileAllocs, "every allocation since start"},
	"block":     {profile.BlockProfile, "blocking on synchronization"},
	"clock":     {profile.ClockProfile, "wall-clock samples (fgprof)"},
	"cpu":       {profile.CPUProfile, "CPU samples, split by phase label"},
	"goroutine": {profile.GoroutineProfile, "goroutine stacks at stop"},
	"heap":      {profile.MemProfileHeap, "live heap at stop"},
	"mem":       {profile.MemProfile, "sampled heap allocations"},
	"mutex":     {profile.MutexProfile, "mutex contention"},
	"thread":    {profile.ThreadcreationProfile, "OS thread creation"},
	"trace":     {profile.TraceProfile, "execution trace"},
}

// Modes returns the profile modes accepted by [WithMode], sorted.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(modes))
	},
)

// Describe returns a short description of mode, or "" if it is unknown.
func Describe(mode string) string {
	return modes[mode].about
}

func start(mode, dir string, quiet bool) Stopper {
	spec, ok := modes[mode]
	if !ok {
		return ignore{}
	}

	opts := []func(*profile.Profile){spec.apply}

	if dir != "" {
		opts = append(opts, profile.ProfilePath(dir))
	}

	if quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
