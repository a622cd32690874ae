// Package lang runs the tinylang front end over a source file.
//
// [ParseString], [ParseReader] and [ParseFile] lex, parse and analyze one
// compilation unit and return a [Unit] holding the typed module and every
// diagnostic that was reported. A unit is valid exactly when no error
// diagnostics were reported; the returned error is then nil. Otherwise the
// error wraps [ErrSyntax] or [ErrSemantic], and the unit is still returned
// so callers can render its diagnostics.
//
// # Caching
//
// With [WithCache], units are memoized by the xxh3 hash of the file name and
// source text. The REPL and watch mode re-check the same text often, and a
// cached unit is shared by every caller that asks for it, so it must be
// treated as read-only. The cache holds at most [CacheLimit] units and evicts
// the oldest first, since every REPL line synthesizes a new module.
//
// # Profiling
//
// Each unit is analyzed under the pprof label phase=parse (see
// [profile.Do]), so CPU profiles taken with the pprof build tag attribute
// front-end time separately from command overhead.
package lang
