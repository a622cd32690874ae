// Package sema implements the semantic actions of the tinylang front end.
//
// The parser calls an action for every completed production. Each action
// validates its inputs, reports violations to the diagnostics engine and
// returns the AST node it built, or nil when nothing sensible can be built.
// A nil result means "stop producing this subtree"; the error that caused it
// has already been reported.
//
// Actions are methods of [Context], the explicit analysis state (current
// scope and current declaration). [Context.Enter] returns the context for a
// module or procedure body and [Context.Leave] returns the enclosing one, so
// scope nesting follows the parser's call structure. [Context.Within] pairs
// the two around a function.
package sema

import (
	"log/slog"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/log"
	"github.com/ardnew/tlc/scope"
	"github.com/ardnew/tlc/source"
)

// Sema owns the predeclared declarations and the root analysis context.
type Sema struct {
	diags  *diag.Engine
	logger log.Logger
	root   *Context

	integer, boolean      *ast.TypeDecl
	trueLit, falseLit     *ast.BoolLit
	trueConst, falseConst *ast.ConstDecl
}

// Option configures a [Sema].
type Option func(*Sema)

// WithLogger logs scope transitions and declarations.
func WithLogger(logger log.Logger) Option {
	return func(s *Sema) { s.logger = logger.Phase("sema") }
}

// New returns a Sema whose root scope holds INTEGER, BOOLEAN, TRUE and
// FALSE.
func New(diags *diag.Engine, opts ...Option) *Sema {
	s := &Sema{diags: diags}

	for _, opt := range opts {
		opt(s)
	}

	s.integer = ast.NewTypeDecl(nil, source.NoPos, "INTEGER")
	s.boolean = ast.NewTypeDecl(nil, source.NoPos, "BOOLEAN")
	s.trueLit = ast.NewBoolLit(true, s.boolean)
	s.falseLit = ast.NewBoolLit(false, s.boolean)
	s.trueConst = ast.NewConstDecl(nil, source.NoPos, "TRUE", s.trueLit)
	s.falseConst = ast.NewConstDecl(nil, source.NoPos, "FALSE", s.falseLit)

	s.root = &Context{sema: s, scope: scope.New(nil)}

	for _, d := range []ast.Decl{s.integer, s.boolean, s.trueConst, s.falseConst} {
		s.root.scope.Insert(d)
	}

	return s
}

// Root returns the global analysis context.
func (s *Sema) Root() *Context { return s.root }

// Diagnostics returns the engine semantic errors are reported to.
func (s *Sema) Diagnostics() *diag.Engine { return s.diags }

// Integer returns the predeclared INTEGER type.
func (s *Sema) Integer() *ast.TypeDecl { return s.integer }

// Boolean returns the predeclared BOOLEAN type.
func (s *Sema) Boolean() *ast.TypeDecl { return s.boolean }

// True returns the canonical TRUE literal.
func (s *Sema) True() *ast.BoolLit { return s.trueLit }

// False returns the canonical FALSE literal.
func (s *Sema) False() *ast.BoolLit { return s.falseLit }

func (s *Sema) boolLit(v bool) *ast.BoolLit {
	if v {
		return s.trueLit
	}

	return s.falseLit
}

func (s *Sema) report(pos source.Pos, id diag.ID, args ...any) {
	s.diags.Report(pos, id, args...)
}

// Context is the analysis state for one scope: the scope itself and the
// module or procedure that owns it.
type Context struct {
	sema   *Sema
	parent *Context
	scope  *scope.Scope
	decl   ast.Decl
	depth  int
	closed bool
}

// Sema returns the analyzer c belongs to.
func (c *Context) Sema() *Sema { return c.sema }

// Scope returns the innermost scope of c.
func (c *Context) Scope() *scope.Scope { return c.scope }

// Decl returns the module or procedure whose body c analyzes, or nil at the
// root.
func (c *Context) Decl() ast.Decl { return c.decl }

// Depth returns 0 for the root context, 1 for a module body and one more for
// each nested procedure.
func (c *Context) Depth() int { return c.depth }

// Names returns every name visible from c.
func (c *Context) Names() []string { return c.scope.Names() }

// Enter opens a new scope for the body of d, which must be a module or
// procedure, and returns its context.
func (c *Context) Enter(d ast.Decl) *Context {
	c.live()

	switch d.(type) {
	case *ast.ModuleDecl, *ast.ProcDecl:
	default:
		panic("sema: cannot enter scope of " + ast.Describe(d))
	}

	inner := &Context{
		sema:   c.sema,
		parent: c,
		scope:  scope.New(c.scope),
		decl:   d,
		depth:  c.depth + 1,
	}

	c.sema.logger.Debug("enter scope",
		slog.String("decl", d.Name()),
		slog.Int("depth", inner.depth))

	return inner
}

// Leave closes c and returns the enclosing context. Leaving the root, or
// leaving twice, panics.
func (c *Context) Leave() *Context {
	c.live()

	if c.parent == nil {
		panic("sema: cannot leave the root scope")
	}

	c.closed = true

	c.sema.logger.Debug("leave scope",
		slog.String("decl", c.decl.Name()),
		slog.Int("depth", c.depth))

	return c.parent
}

// Within calls fn with the context for the body of d and leaves it when fn
// returns, including by panic.
func (c *Context) Within(d ast.Decl, fn func(*Context)) {
	inner := c.Enter(d)
	defer inner.Leave()

	fn(inner)
}

func (c *Context) live() {
	if c.closed {
		panic("sema: context used after Leave")
	}
}

// proc returns the procedure whose body c analyzes, or nil.
func (c *Context) proc() *ast.ProcDecl {
	p, _ := c.decl.(*ast.ProcDecl)

	return p
}
