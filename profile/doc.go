// Package profile provides optional runtime profiling for tlc.
//
// # File Profiles
//
// File profiles are written by [github.com/pkg/profile] and are only
// available when tlc is built with the "pprof" build tag. Without the tag,
// [Modes] is empty and [Config.Start] returns a no-op.
//
// A [Config] is built from functional options and started once per run:
//
//	var cfg profile.Config
//
//	defer cfg.With(profile.WithMode("cpu"), profile.WithPath(dir)).Start().Stop()
//
// The CLI exposes the same through --pprof-mode and --pprof-dir. Profiles go
// to $XDG_CACHE_HOME/tlc/pprof unless another directory is given:
//
//	go build -tags pprof -o tlc .
//	./tlc --pprof-mode=cpu check big.mod
//	go tool pprof -http=: ./tlc ~/.cache/tlc/pprof/cpu.pprof
//
// The tagged build also imports [net/http/pprof], which registers the
// /debug/pprof/ handlers on the default mux for hosts that serve HTTP.
//
// # Phase Labels
//
// [Do] attaches a "phase" pprof label to the work it runs, independent of the
// build tag. The tokens command lexes under phase=lex, the lang package
// analyses under phase=parse, and the check command renders diagnostics under
// phase=render, so a CPU profile of a large check can be narrowed to the front
// end:
//
//	go tool pprof -tagfocus phase=parse cpu.pprof
//
// [Phase] reads the label back, which tests and log handlers use to tell
// which phase emitted a record.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
