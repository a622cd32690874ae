package parser

import (
	"slices"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/sema"
	"github.com/ardnew/tlc/token"
)

// Synchronization sets for expressions are their FOLLOW sets, growing with
// each precedence level.
var (
	followExpression = []token.Kind{
		token.RParen, token.Comma, token.Semi, token.Then, token.Do,
		token.Else, token.End,
	}
	relations = []token.Kind{
		token.Equal, token.Hash, token.Less, token.LessEqual,
		token.Greater, token.GreaterEqual,
	}
	addOps = []token.Kind{token.Plus, token.Minus, token.Or}
	mulOps = []token.Kind{token.Star, token.Slash, token.Div, token.Mod, token.And}

	followSimpleExpression = slices.Concat(followExpression, relations)
	followTerm             = slices.Concat(followSimpleExpression, addOps)
	followFactor           = slices.Concat(followTerm, mulOps)
)

// startsExpression reports whether tok is in FIRST(expression).
func startsExpression(tok token.Token) bool {
	return tok.IsOneOf(token.Plus, token.Minus, token.LParen, token.Not,
		token.IntegerLiteral, token.Identifier)
}

// expList = expression {"," expression} .
//
// Arguments whose analysis failed are kept as nil entries so arity is
// preserved.
func (p *Parser) parseExpList(ctx *sema.Context, exprs *[]ast.Expr) bool {
	fail := func() bool { return p.skipUntil(token.RParen) }

	e, failed := p.parseExpression(ctx)
	if failed {
		return fail()
	}

	*exprs = append(*exprs, e)

	for p.tok.Is(token.Comma) {
		p.advance()

		e, failed = p.parseExpression(ctx)
		if failed {
			return fail()
		}

		*exprs = append(*exprs, e)
	}

	return false
}

// parseArguments parses "(" [expList] ")".
func (p *Parser) parseArguments(ctx *sema.Context) ([]ast.Expr, bool) {
	if p.consume(token.LParen) {
		return nil, true
	}

	var args []ast.Expr

	if startsExpression(p.tok) && p.parseExpList(ctx, &args) {
		return nil, true
	}

	if p.consume(token.RParen) {
		return nil, true
	}

	return args, false
}

// expression = simpleExpression [relation simpleExpression] .
func (p *Parser) parseExpression(ctx *sema.Context) (ast.Expr, bool) {
	fail := func() (ast.Expr, bool) { return nil, p.skipUntil(followExpression...) }

	left, failed := p.parseSimpleExpression(ctx)
	if failed {
		return fail()
	}

	if p.tok.IsOneOf(relations...) {
		op := ast.MakeOperator(p.tok)
		p.advance()

		right, failed := p.parseSimpleExpression(ctx)
		if failed {
			return fail()
		}

		left = ctx.ActOnExpression(left, right, op)
	}

	return left, false
}

// simpleExpression = ["+"|"-"] term {("+"|"-"|"OR") term} .
func (p *Parser) parseSimpleExpression(ctx *sema.Context) (ast.Expr, bool) {
	fail := func() (ast.Expr, bool) { return nil, p.skipUntil(followSimpleExpression...) }

	var prefix *ast.Operator

	if p.tok.IsOneOf(token.Plus, token.Minus) {
		op := ast.MakeOperator(p.tok)
		prefix = &op

		p.advance()
	}

	left, failed := p.parseTerm(ctx)
	if failed {
		return fail()
	}

	if prefix != nil {
		left = ctx.ActOnPrefixExpression(left, *prefix)
	}

	for p.tok.IsOneOf(addOps...) {
		op := ast.MakeOperator(p.tok)
		p.advance()

		right, failed := p.parseTerm(ctx)
		if failed {
			return fail()
		}

		left = ctx.ActOnSimpleExpression(left, right, op)
	}

	return left, false
}

// term = factor {("*"|"/"|"DIV"|"MOD"|"AND") factor} .
func (p *Parser) parseTerm(ctx *sema.Context) (ast.Expr, bool) {
	fail := func() (ast.Expr, bool) { return nil, p.skipUntil(followTerm...) }

	left, failed := p.parseFactor(ctx)
	if failed {
		return fail()
	}

	for p.tok.IsOneOf(mulOps...) {
		op := ast.MakeOperator(p.tok)
		p.advance()

		right, failed := p.parseFactor(ctx)
		if failed {
			return fail()
		}

		left = ctx.ActOnTerm(left, right, op)
	}

	return left, false
}

// factor = integer | "(" expression ")" | "NOT" factor
//
//	| qualident ["(" [expList] ")"] .
func (p *Parser) parseFactor(ctx *sema.Context) (ast.Expr, bool) {
	fail := func() (ast.Expr, bool) { return nil, p.skipUntil(followFactor...) }

	switch p.tok.Kind {
	case token.IntegerLiteral:
		e := ctx.ActOnIntegerLiteral(p.tok.Pos, p.tok.Text)
		p.advance()

		return e, false

	case token.Identifier:
		pos := p.tok.Pos

		d, failed := p.parseQualident(ctx)
		if failed {
			return fail()
		}

		if !p.tok.Is(token.LParen) {
			return ctx.ActOnDesignator(pos, d), false
		}

		args, failed := p.parseArguments(ctx)
		if failed {
			return fail()
		}

		return ctx.ActOnFunctionCall(pos, d, args), false

	case token.LParen:
		p.advance()

		e, failed := p.parseExpression(ctx)
		if failed || p.consume(token.RParen) {
			return fail()
		}

		return e, false

	case token.Not:
		op := ast.MakeOperator(p.tok)
		p.advance()

		x, failed := p.parseFactor(ctx)
		if failed {
			return fail()
		}

		return ctx.ActOnPrefixExpression(x, op), false

	default:
		p.diags.Report(p.tok.Pos, diag.ErrExpected, "expression", p.tok)

		return fail()
	}
}
