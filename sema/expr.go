package sema

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/source"
	"github.com/ardnew/tlc/token"
)

// ActOnExpression builds the relation left op right. Both operands must have
// the same type and the result is BOOLEAN.
func (c *Context) ActOnExpression(left, right ast.Expr, op ast.Operator) ast.Expr {
	c.live()

	if left == nil || right == nil {
		return nil
	}

	if left.Type() != right.Type() {
		c.sema.report(op.Pos, diag.ErrTypesForOperatorNotCompatible, op)
	}

	return ast.NewInfixExpr(left, right, op, c.sema.boolean, left.IsConst() && right.IsConst())
}

// ActOnSimpleExpression builds the additive operation left op right, where
// op is +, - or OR.
func (c *Context) ActOnSimpleExpression(left, right ast.Expr, op ast.Operator) ast.Expr {
	c.live()

	return c.binary(left, right, op, token.Or)
}

// ActOnTerm builds the multiplicative operation left op right, where op is
// *, /, DIV, MOD or AND.
func (c *Context) ActOnTerm(left, right ast.Expr, op ast.Operator) ast.Expr {
	c.live()

	return c.binary(left, right, op, token.And)
}

// binary checks an arithmetic or logical operation. When op is the logical
// operator fold and both operands are boolean literals, the result is the
// canonical TRUE or FALSE literal.
func (c *Context) binary(left, right ast.Expr, op ast.Operator, fold token.Kind) ast.Expr {
	if left == nil || right == nil {
		return nil
	}

	if left.Type() != right.Type() || !c.sema.isOperatorForType(op.Kind, left.Type()) {
		c.sema.report(op.Pos, diag.ErrTypesForOperatorNotCompatible, op)
	}

	if op.Kind == fold {
		l, lok := left.(*ast.BoolLit)
		r, rok := right.(*ast.BoolLit)

		if lok && rok {
			if fold == token.Or {
				return c.sema.boolLit(l.Value || r.Value)
			}

			return c.sema.boolLit(l.Value && r.Value)
		}
	}

	return ast.NewInfixExpr(left, right, op, left.Type(), left.IsConst() && right.IsConst())
}

// ActOnPrefixExpression builds op e, where op is +, - or NOT. NOT of a
// boolean literal folds to the canonical literal. Negating anything but a
// literal, an access or a multiplicative term draws an ambiguity warning.
func (c *Context) ActOnPrefixExpression(e ast.Expr, op ast.Operator) ast.Expr {
	c.live()

	if e == nil {
		return nil
	}

	if !c.sema.isOperatorForType(op.Kind, e.Type()) {
		c.sema.report(op.Pos, diag.ErrTypesForOperatorNotCompatible, op)
	}

	if op.Kind == token.Minus && ambiguousNegation(e) {
		c.sema.report(op.Pos, diag.WarnAmbiguousNegation)
	}

	if b, ok := e.(*ast.BoolLit); ok && op.Kind == token.Not {
		return c.sema.boolLit(!b.Value)
	}

	return ast.NewPrefixExpr(e, op, e.Type(), e.IsConst())
}

func ambiguousNegation(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.IntLit, *ast.VarAccess, *ast.ConstAccess:
		return false
	case *ast.InfixExpr:
		switch e.Op.Kind {
		case token.Star, token.Slash, token.Div, token.Mod:
			return false
		}
	}

	return true
}

// ActOnIntegerLiteral converts literal text to an INTEGER literal. A
// trailing H selects base 16. Values that do not fit in 64 bits are
// reported and become 0.
func (c *Context) ActOnIntegerLiteral(pos source.Pos, text string) ast.Expr {
	c.live()

	base := 10
	digits := text

	if strings.HasSuffix(text, "H") {
		base = 16
		digits = strings.TrimSuffix(text, "H")
	}

	v, err := strconv.ParseInt(digits, base, 64)
	if errors.Is(err, strconv.ErrRange) {
		c.sema.report(pos, diag.ErrIntegerLiteralOverflow, text)
	}

	if err != nil {
		v = 0
	}

	return ast.NewIntLit(pos, v, c.sema.integer)
}

// ActOnDesignator builds the value access of d at pos. The predeclared TRUE
// and FALSE constants become the canonical literals.
func (c *Context) ActOnDesignator(pos source.Pos, d ast.Decl) ast.Expr {
	c.live()

	switch d := d.(type) {
	case nil:
		return nil

	case *ast.VarDecl, *ast.ParamDecl:
		return ast.NewVarAccess(pos, d)

	case *ast.ConstDecl:
		switch {
		case d == c.sema.trueConst:
			return c.sema.trueLit
		case d == c.sema.falseConst:
			return c.sema.falseLit
		case d.Expr == nil:
			return nil
		default:
			return ast.NewConstAccess(pos, d)
		}

	default:
		c.sema.report(pos, diag.ErrNotAValue, d.Name(), ast.Describe(d))

		return nil
	}
}

// ActOnFunctionCall builds a call of d with args inside an expression. d
// must be a procedure with a return type. A proper procedure yields nil, and
// is only reported when the argument count matched.
func (c *Context) ActOnFunctionCall(pos source.Pos, d ast.Decl, args []ast.Expr) ast.Expr {
	c.live()

	switch p := d.(type) {
	case nil:
		return nil

	case *ast.ProcDecl:
		if hasNil(args) {
			return nil
		}

		ok := c.sema.checkFormalAndActualParameters(pos, p, args)

		if !p.IsFunction() {
			if ok {
				c.sema.report(pos, diag.ErrNotAFunction, p.Name())
			}

			return nil
		}

		return ast.NewCallExpr(pos, p, args)

	default:
		c.sema.report(pos, diag.ErrNotAProcedure, d.Name(), ast.Describe(d))

		return nil
	}
}

// ActOnQualIdentPart resolves name, written at pos, as the next component of
// a qualified identifier. With a nil prev the name is looked up from the
// current scope outward; otherwise prev must be a module, whose declarations
// are searched. Any other prev is a caller bug and panics.
func (c *Context) ActOnQualIdentPart(prev ast.Decl, pos source.Pos, name string) ast.Decl {
	c.live()

	switch m := prev.(type) {
	case nil:
		if d := c.scope.Lookup(name); d != nil {
			return d
		}

		c.sema.undeclared(pos, name, c.scope.Names())

	case *ast.ModuleDecl:
		names := make([]string, 0, len(m.Decls))

		for _, d := range m.Decls {
			if d.Name() == name {
				return d
			}

			names = append(names, d.Name())
		}

		c.sema.undeclared(pos, name, names)

	default:
		panic("sema: qualified identifier through " + ast.Describe(prev) + " " + prev.Name())
	}

	return nil
}
