package profile

import (
	"context"
	"runtime/pprof"
)

// PhaseLabel is the pprof label key used by [Do].
const PhaseLabel = "phase"

// Front-end phases labeled by [Do].
const (
	PhaseLex    = "lex"
	PhaseParse  = "parse"
	PhaseRender = "render"
)

// Phases returns the phase label values in pipeline order.
func Phases() []string { return []string{PhaseLex, PhaseParse, PhaseRender} }

// Do runs fn with the pprof label phase=name attached to the calling
// goroutine, so CPU samples can be filtered by compiler phase with
// "go tool pprof -tagfocus phase=parse".
func Do(ctx context.Context, name string, fn func(context.Context)) {
	pprof.Do(ctx, pprof.Labels(PhaseLabel, name), fn)
}

// Phase returns the phase label attached to ctx by [Do], if any.
func Phase(ctx context.Context) (string, bool) {
	return pprof.Label(ctx, PhaseLabel)
}
