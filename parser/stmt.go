package parser

import (
	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/sema"
	"github.com/ardnew/tlc/token"
)

// statementSequence = statement {";" statement} .
func (p *Parser) parseStatementSequence(ctx *sema.Context, stmts *[]ast.Stmt) bool {
	fail := func() bool { return p.skipUntil(token.Else, token.End) }

	if p.parseStatement(ctx, stmts) {
		return fail()
	}

	for p.tok.Is(token.Semi) {
		p.advance()

		if p.parseStatement(ctx, stmts) {
			return fail()
		}
	}

	return false
}

// statement = qualident (":=" expression | ["(" [expList] ")"])
//
//	| ifStatement | whileStatement | "RETURN" [expression] .
//
// An empty statement is accepted before ";", ELSE and END.
func (p *Parser) parseStatement(ctx *sema.Context, stmts *[]ast.Stmt) bool {
	fail := func() bool { return p.skipUntil(token.Semi, token.Else, token.End) }

	switch p.tok.Kind {
	case token.Identifier:
		pos := p.tok.Pos

		d, failed := p.parseQualident(ctx)
		if failed {
			return fail()
		}

		switch {
		case p.tok.Is(token.ColonEqual):
			p.advance()

			e, failed := p.parseExpression(ctx)
			if failed {
				return fail()
			}

			ctx.ActOnAssignment(stmts, pos, d, e)

		case p.tok.Is(token.LParen):
			args, failed := p.parseArguments(ctx)
			if failed {
				return fail()
			}

			ctx.ActOnProcCall(stmts, pos, d, args)

		default:
			ctx.ActOnProcCall(stmts, pos, d, nil)
		}

	case token.If:
		return p.parseIfStatement(ctx, stmts)

	case token.While:
		return p.parseWhileStatement(ctx, stmts)

	case token.Return:
		pos := p.tok.Pos
		p.advance()

		if !startsExpression(p.tok) {
			ctx.ActOnReturnStmt(stmts, pos, nil)

			return false
		}

		e, failed := p.parseExpression(ctx)
		if failed {
			return fail()
		}

		if e != nil {
			ctx.ActOnReturnStmt(stmts, pos, e)
		}

	case token.Semi, token.Else, token.End:

	default:
		p.diags.Report(p.tok.Pos, diag.ErrExpected, "statement", p.tok)

		return fail()
	}

	return false
}

// ifStatement = "IF" expression "THEN" statementSequence
//
//	["ELSE" statementSequence] "END" .
func (p *Parser) parseIfStatement(ctx *sema.Context, stmts *[]ast.Stmt) bool {
	fail := func() bool { return p.skipUntil(token.Semi, token.Else, token.End) }

	pos := p.tok.Pos
	p.advance()

	cond, failed := p.parseExpression(ctx)
	if failed || p.consume(token.Then) {
		return fail()
	}

	var then, els []ast.Stmt

	if p.parseStatementSequence(ctx, &then) {
		return fail()
	}

	if p.tok.Is(token.Else) {
		p.advance()

		if p.parseStatementSequence(ctx, &els) {
			return fail()
		}
	}

	if p.expect(token.End) {
		return fail()
	}

	ctx.ActOnIfStmt(stmts, pos, cond, then, els)
	p.advance()

	return false
}

// whileStatement = "WHILE" expression "DO" statementSequence "END" .
func (p *Parser) parseWhileStatement(ctx *sema.Context, stmts *[]ast.Stmt) bool {
	fail := func() bool { return p.skipUntil(token.Semi, token.Else, token.End) }

	pos := p.tok.Pos
	p.advance()

	cond, failed := p.parseExpression(ctx)
	if failed || p.consume(token.Do) {
		return fail()
	}

	var body []ast.Stmt

	if p.parseStatementSequence(ctx, &body) || p.expect(token.End) {
		return fail()
	}

	ctx.ActOnWhileStmt(stmts, pos, cond, body)
	p.advance()

	return false
}
