package repl

import (
	"context"
	"slices"
	"strings"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/consteval"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/lang"
	"github.com/ardnew/tlc/lexer"
	"github.com/ardnew/tlc/source"
	"github.com/ardnew/tlc/token"
)

// moduleName names the module every session is checked in.
const moduleName = "Repl"

// resultName is the constant that holds an evaluated expression.
const resultName = "_"

// Kind classifies a line submitted to a [Session].
type Kind int

const (
	// KindDecl is a CONST, VAR or PROCEDURE declaration.
	KindDecl Kind = iota
	// KindStmt is a statement of the module body.
	KindStmt
	// KindValue is "? expression": a constant expression to evaluate.
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindDecl:
		return "declaration"
	case KindStmt:
		return "statement"
	default:
		return "value"
	}
}

// Result reports how a submitted line was handled.
type Result struct {
	Kind     Kind
	Unit     *lang.Unit // the unit the line was checked in
	Accepted bool       // the line compiled and was kept
	Value    any        // value of a KindValue line
}

// Session accumulates declarations and statements into one module and
// rechecks the whole module on every submission. A line that introduces an
// error is rejected and leaves the session unchanged.
type Session struct {
	decls []string
	stmts []string
	last  *lang.Unit
	opts  []lang.Option
}

// NewSession returns an empty session. opts are passed to every check.
func NewSession(opts ...lang.Option) *Session {
	return &Session{opts: opts}
}

// Source returns the module text for the current declarations and
// statements plus the given extra lines.
func (s *Session) Source(decls, stmts []string) string {
	var b strings.Builder

	b.WriteString("MODULE " + moduleName + ";\n")

	for _, d := range slices.Concat(s.decls, decls) {
		b.WriteString(d)
		b.WriteByte('\n')
	}

	if body := slices.Concat(s.stmts, stmts); len(body) > 0 {
		b.WriteString("BEGIN\n")
		b.WriteString(strings.Join(body, ";\n"))
		b.WriteByte('\n')
	}

	b.WriteString("END " + moduleName + ".\n")

	return b.String()
}

// Classify reports the kind of line by its first token.
func Classify(line string) Kind {
	if strings.HasPrefix(strings.TrimSpace(line), "?") {
		return KindValue
	}

	buf := source.NewString("", line)
	tok := lexer.New(buf, diag.NewEngine(buf)).Next()

	if tok.IsOneOf(token.Const, token.Var, token.Procedure) {
		return KindDecl
	}

	return KindStmt
}

// Submit checks line in the context of the session and keeps it if the
// module still compiles.
func (s *Session) Submit(ctx context.Context, line string) (Result, error) {
	line = strings.TrimSpace(line)
	kind := Classify(line)

	var decls, stmts []string

	switch kind {
	case KindDecl:
		decls = []string{line}
	case KindStmt:
		stmts = []string{strings.TrimSuffix(line, ";")}
	case KindValue:
		expr := strings.TrimSpace(strings.TrimPrefix(line, "?"))
		decls = []string{"CONST " + resultName + " = " + expr + ";"}
	}

	u, err := lang.ParseString(ctx, moduleName, s.Source(decls, stmts),
		append(slices.Clone(s.opts), lang.WithCache(true))...)

	res := Result{Kind: kind, Unit: u}

	if err != nil {
		return res, err
	}

	switch kind {
	case KindDecl:
		s.decls = append(s.decls, decls...)
	case KindStmt:
		s.stmts = append(s.stmts, stmts...)
	case KindValue:
		v, err := consteval.Eval(resultConst(u.Module))
		if err != nil {
			return res, err
		}

		res.Value = v

		return res, nil
	}

	s.last = u
	res.Accepted = true

	return res, nil
}

func resultConst(m *ast.ModuleDecl) ast.Expr {
	for _, d := range slices.Backward(m.Decls) {
		if c, ok := d.(*ast.ConstDecl); ok && c.Name() == resultName {
			return c.Expr
		}
	}

	return nil
}

// Load submits text, which must hold only declarations, as one
// declaration block.
func (s *Session) Load(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if Classify(text) != KindDecl {
		return ErrNotDeclarations
	}

	_, err := s.Submit(ctx, text)

	return err
}

// Reset discards every declaration and statement.
func (s *Session) Reset() {
	s.decls, s.stmts, s.last = nil, nil, nil
}

// Decls returns the accepted declaration lines.
func (s *Session) Decls() []string { return slices.Clone(s.decls) }

// Stmts returns the accepted statement lines.
func (s *Session) Stmts() []string { return slices.Clone(s.stmts) }

// Names returns the completion candidates: keywords, predeclared names and
// every name declared in the session, sorted.
func (s *Session) Names() []string {
	names := token.Keywords()
	names = append(names, "INTEGER", "BOOLEAN", "TRUE", "FALSE")

	if s.last != nil && s.last.Module != nil {
		ast.Inspect(s.last.Module, func(n ast.Node) bool {
			if d, ok := n.(ast.Decl); ok && d != ast.Decl(s.last.Module) {
				names = append(names, d.Name())
			}

			return true
		})
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// Procedure returns the heading of the procedure named name, or "" if the
// session declares no such procedure.
func (s *Session) Procedure(name string) string {
	if s.last == nil || s.last.Module == nil {
		return ""
	}

	for _, d := range s.last.Module.Decls {
		if p, ok := d.(*ast.ProcDecl); ok && p.Name() == name {
			return heading(p)
		}
	}

	return ""
}

func heading(p *ast.ProcDecl) string {
	params := make([]string, len(p.Params))

	for i, f := range p.Params {
		params[i] = f.Name() + ": " + f.Type.Name()
		if f.IsVar {
			params[i] = "VAR " + params[i]
		}
	}

	h := p.Name() + "(" + strings.Join(params, "; ") + ")"
	if p.RetType != nil {
		h += ": " + p.RetType.Name()
	}

	return h
}
