package sema

import (
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/source"
	"github.com/ardnew/tlc/token"
)

// isOperatorForType reports whether op may be applied to operands of type
// ty. Only INTEGER and BOOLEAN exist, and "/" (real division) applies to
// neither.
func (s *Sema) isOperatorForType(op token.Kind, ty *ast.TypeDecl) bool {
	switch op {
	case token.Plus, token.Minus, token.Star, token.Div, token.Mod:
		return ty == s.integer
	case token.Slash:
		return false
	case token.And, token.Or, token.Not:
		return ty == s.boolean
	default:
		panic("sema: unknown operator " + op.String())
	}
}

// checkFormalAndActualParameters validates the arguments of a call of p at
// pos. It returns false on an argument count mismatch, which is the only
// diagnostic reported for that call.
func (s *Sema) checkFormalAndActualParameters(pos source.Pos, p *ast.ProcDecl, args []ast.Expr) bool {
	if len(p.Params) != len(args) {
		s.report(pos, diag.ErrWrongNumberOfParameters, p.Name(), len(p.Params), len(args))

		return false
	}

	for i, f := range p.Params {
		arg := args[i]

		if f.Type != arg.Type() {
			s.report(posOf(arg, pos), diag.ErrTypeOfFormalAndActualParameterNotCompatible,
				i+1, typeName(arg.Type()), f.Name(), typeName(f.Type))
		}

		if _, isVar := arg.(*ast.VarAccess); f.IsVar && !isVar {
			s.report(posOf(arg, pos), diag.ErrVarParameterRequiresVar, f.Name())
		}
	}

	return true
}

// posOf returns the position of e, or fallback when e has none. The shared
// TRUE and FALSE literals carry no position.
func posOf(e ast.Expr, fallback source.Pos) source.Pos {
	if pos := e.Pos(); pos.IsValid() {
		return pos
	}

	return fallback
}

// undeclared reports name as undeclared at pos, with a suggestion drawn from
// candidates when one is close enough.
func (s *Sema) undeclared(pos source.Pos, name string, candidates []string) {
	s.report(pos, diag.ErrUndeclaredName, name)

	if matches := fuzzy.Find(name, candidates); len(matches) > 0 {
		s.report(pos, diag.NoteDidYouMean, matches[0].Str)
	}
}

func typeName(t *ast.TypeDecl) string {
	if t == nil {
		return "<untyped>"
	}

	return t.Name()
}

// hasNil reports whether any expression in es failed analysis.
func hasNil(es []ast.Expr) bool {
	for _, e := range es {
		if e == nil {
			return true
		}
	}

	return false
}
