// Package cli contains the command line interface for tlc.
//
// # Usage
//
//	tlc check [--format=text|yaml|json] [--watch] <source>...
//	tlc tokens [<source>]
//	tlc ast [--format=tree|yaml|json] [<source>]
//	tlc consts [--format=text|yaml|json] [<source>]
//	tlc repl [<source>]
//	tlc init [--force]
//	tlc version [--short] [--require=<constraint>]
//
// A source of "-" (the default for single-source commands) reads standard
// input.
//
// # Configuration
//
// Flag defaults are read from a flat YAML map in the user configuration
// directory (see [pkg.ConfigFile]). Keys are flag names; underscores may be
// used in place of hyphens:
//
//	log-level: debug
//	log_format: json
//	pretty: false
//
// A malformed configuration file is logged and ignored. The init subcommand
// writes the current flag values to this file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tlc .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/tlc/pprof)
//
// # Examples
//
//	# Recheck a module on every save
//	tlc check --watch main.mod
//
//	# Machine-readable diagnostics for several files
//	tlc check --format=json a.mod b.mod
//
//	# Debug logging with CPU profiling
//	tlc --log-level=debug --pprof-mode=cpu check main.mod
package cli
