package lang

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/lexer"
	"github.com/ardnew/tlc/log"
	"github.com/ardnew/tlc/parser"
	"github.com/ardnew/tlc/profile"
	"github.com/ardnew/tlc/sema"
	"github.com/ardnew/tlc/source"
)

// Unit is the result of analyzing one compilation unit.
type Unit struct {
	Buffer      *source.Buffer
	Module      *ast.ModuleDecl // nil if the module header was unusable
	Sema        *sema.Sema
	Diagnostics *diag.Engine
}

// Errors returns the number of error diagnostics.
func (u *Unit) Errors() int { return u.Diagnostics.NumErrors() }

// Valid reports whether the unit compiled without errors.
func (u *Unit) Valid() bool { return u.Errors() == 0 }

// Err returns nil for a valid unit. Otherwise it wraps ErrSyntax if any
// error came from the lexer or parser, and ErrSemantic if all came from
// analysis.
func (u *Unit) Err() error {
	if u.Valid() {
		return nil
	}

	base := ErrSemantic

	for _, d := range u.Diagnostics.Diagnostics() {
		if d.Severity == diag.Error && syntactic(d.ID) {
			base = ErrSyntax

			break
		}
	}

	return base.With(
		slog.String("file", u.Buffer.Name),
		slog.Int("errors", u.Errors()),
		slog.Int("warnings", u.Diagnostics.NumWarnings()),
	)
}

func syntactic(id diag.ID) bool {
	switch id {
	case diag.ErrExpected, diag.ErrUnterminatedComment, diag.ErrUnterminatedString,
		diag.ErrHexDigitInDecimal:
		return true
	default:
		return false
	}
}

// Option configures how a unit is analyzed.
type Option func(*options)

type options struct {
	logger log.Logger
	cache  bool
}

// WithLogger sets the logger passed to every front-end phase.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCache enables the shared unit cache.
func WithCache(enable bool) Option {
	return func(o *options) { o.cache = enable }
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// ParseFile reads and analyzes the file at path.
func ParseFile(ctx context.Context, path string, opts ...Option) (*Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return ParseReader(ctx, path, f, opts...)
}

// ParseString analyzes src, reporting positions against name.
func ParseString(ctx context.Context, name, src string, opts ...Option) (*Unit, error) {
	o := makeOptions(opts...)

	if o.cache {
		return cached(ctx, name, src, o)
	}

	u := analyze(ctx, name, []byte(src), o)

	return u, u.Err()
}

func analyze(ctx context.Context, name string, data []byte, o options) *Unit {
	buf := source.New(name, data)
	diags := diag.NewEngine(buf)

	diags.Notify = func(d diag.Diagnostic) {
		o.logger.DebugContext(ctx, "diagnostic",
			slog.String("severity", d.Severity.String()),
			slog.String("id", d.ID.String()),
			slog.String("at", d.Location.String()),
			slog.String("message", d.Message))
	}

	u := &Unit{Buffer: buf, Diagnostics: diags}

	profile.Do(ctx, profile.PhaseParse, func(ctx context.Context) {
		u.Sema = sema.New(diags, sema.WithLogger(o.logger))
		lex := lexer.New(buf, diags, lexer.WithLogger(o.logger))
		u.Module = parser.New(lex, u.Sema, parser.WithLogger(o.logger)).Parse()
	})

	o.logger.TraceContext(ctx, "analyzed",
		slog.String("file", name),
		slog.Int("bytes", len(data)),
		slog.Int("errors", diags.NumErrors()),
		slog.Int("warnings", diags.NumWarnings()))

	return u
}
