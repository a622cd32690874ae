// Package parser implements a recursive-descent parser for tinylang.
//
// The parser pulls tokens from a [lexer.Lexer] one at a time and calls a
// semantic action for every completed production. On a syntax error a
// production skips ahead to one of its synchronization tokens and returns,
// so one malformed declaration or statement does not stop the rest of the
// module from being checked.
//
// Productions return a failed flag. It is true only when recovery ran off
// the end of the input; a production that recovered at a synchronization
// token reports success so its caller carries on.
package parser

import (
	"log/slog"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/lexer"
	"github.com/ardnew/tlc/log"
	"github.com/ardnew/tlc/sema"
	"github.com/ardnew/tlc/token"
)

// Parser holds the parse state for one compilation unit.
type Parser struct {
	lex    *lexer.Lexer
	sema   *sema.Sema
	diags  *diag.Engine
	logger log.Logger
	tok    token.Token
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger logs the start and end of each module and procedure.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) { p.logger = logger.Phase("parse") }
}

// New returns a parser reading from lex and calling actions on s.
// Syntax errors are reported to the lexer's diagnostics engine.
func New(lex *lexer.Lexer, s *sema.Sema, opts ...Option) *Parser {
	p := &Parser{lex: lex, sema: s, diags: lex.Diagnostics()}

	for _, opt := range opts {
		opt(p)
	}

	p.advance()

	return p
}

// Parse parses a compilation unit. It returns nil only if the module
// header is unusable; otherwise the module holds every declaration and
// statement that could be analyzed, and the diagnostics engine says whether
// the module is valid.
func (p *Parser) Parse() *ast.ModuleDecl {
	m := p.parseCompilationUnit(p.sema.Root())

	p.logger.Debug("parse complete",
		slog.Int("errors", p.diags.NumErrors()),
		slog.Int("warnings", p.diags.NumWarnings()))

	return m
}

func (p *Parser) advance() { p.tok = p.lex.Next() }

// expect reports an error unless the current token has kind k. It never
// consumes. It returns true on mismatch.
func (p *Parser) expect(k token.Kind) bool {
	if p.tok.Is(k) {
		return false
	}

	p.diags.Report(p.tok.Pos, diag.ErrExpected, k.Spelling(), p.tok)

	return true
}

// consume is expect followed by advance on a match.
func (p *Parser) consume(k token.Kind) bool {
	if p.expect(k) {
		return true
	}

	p.advance()

	return false
}

// skipUntil discards tokens up to the first one of the given kinds. It
// returns false if it stopped at one of them and true if it reached the end
// of the input.
func (p *Parser) skipUntil(kinds ...token.Kind) bool {
	for {
		if p.tok.IsOneOf(kinds...) {
			return false
		}

		if p.tok.Is(token.EOF) {
			return true
		}

		p.advance()
	}
}

// compilationUnit = "MODULE" ident ";" {import} block ident "." .
func (p *Parser) parseCompilationUnit(ctx *sema.Context) *ast.ModuleDecl {
	if p.consume(token.Module) || p.expect(token.Identifier) {
		p.skipUntil()

		return nil
	}

	m := ctx.ActOnModuleDecl(p.tok.Pos, p.tok.Text)

	p.logger.Debug("module", slog.String("name", m.Name()))

	ctx.Within(m, func(ctx *sema.Context) {
		if p.parseModuleBody(ctx, m) {
			p.skipUntil()
		}
	})

	return m
}

func (p *Parser) parseModuleBody(ctx *sema.Context, m *ast.ModuleDecl) bool {
	p.advance()

	if p.consume(token.Semi) {
		return true
	}

	for p.tok.IsOneOf(token.From, token.Import) {
		if p.parseImport(ctx) {
			return true
		}
	}

	if p.parseBlock(ctx, &m.Decls, &m.Stmts) || p.expect(token.Identifier) {
		return true
	}

	ctx.ActOnModuleEnd(m, p.tok.Pos, p.tok.Text)
	p.advance()

	return p.consume(token.Period)
}

// import = ["FROM" ident] "IMPORT" identList ";" .
func (p *Parser) parseImport(ctx *sema.Context) bool {
	fail := func() bool {
		return p.skipUntil(token.Begin, token.Const, token.End, token.From,
			token.Import, token.Procedure, token.Var)
	}

	pos := p.tok.Pos

	var module string

	if p.tok.Is(token.From) {
		p.advance()

		if p.expect(token.Identifier) {
			return fail()
		}

		module = p.tok.Text
		p.advance()
	}

	if p.consume(token.Import) {
		return fail()
	}

	var ids []sema.Ident

	if p.parseIdentList(&ids) || p.expect(token.Semi) {
		return fail()
	}

	ctx.ActOnImport(pos, module, ids)
	p.advance()

	return false
}

// block = {declaration} ["BEGIN" statementSequence] "END" .
func (p *Parser) parseBlock(ctx *sema.Context, decls *[]ast.Decl, stmts *[]ast.Stmt) bool {
	fail := func() bool { return p.skipUntil(token.Identifier) }

	for p.tok.IsOneOf(token.Const, token.Procedure, token.Var) {
		if p.parseDeclaration(ctx, decls) {
			return fail()
		}
	}

	if p.tok.Is(token.Begin) {
		p.advance()

		if p.parseStatementSequence(ctx, stmts) {
			return fail()
		}
	}

	if p.consume(token.End) {
		return fail()
	}

	return false
}

// declaration = "CONST" {constDecl ";"} | "VAR" {varDecl ";"} | procDecl ";" .
func (p *Parser) parseDeclaration(ctx *sema.Context, decls *[]ast.Decl) bool {
	fail := func() bool {
		return p.skipUntil(token.Begin, token.Const, token.End, token.Procedure, token.Var)
	}

	switch p.tok.Kind {
	case token.Const, token.Var:
		each := p.parseConstDecl
		if p.tok.Is(token.Var) {
			each = p.parseVarDecl
		}

		p.advance()

		for p.tok.Is(token.Identifier) {
			if each(ctx, decls) || p.consume(token.Semi) {
				return fail()
			}
		}

	case token.Procedure:
		if p.parseProcDecl(ctx, decls) || p.consume(token.Semi) {
			return fail()
		}

	default:
		return fail()
	}

	return false
}

// constDecl = ident "=" expression .
func (p *Parser) parseConstDecl(ctx *sema.Context, decls *[]ast.Decl) bool {
	fail := func() bool { return p.skipUntil(token.Semi) }

	if p.expect(token.Identifier) {
		return fail()
	}

	pos, name := p.tok.Pos, p.tok.Text
	p.advance()

	if p.consume(token.Equal) {
		return fail()
	}

	e, failed := p.parseExpression(ctx)
	if failed {
		return fail()
	}

	ctx.ActOnConstDecl(decls, pos, name, e)

	return false
}

// varDecl = identList ":" qualident .
func (p *Parser) parseVarDecl(ctx *sema.Context, decls *[]ast.Decl) bool {
	fail := func() bool { return p.skipUntil(token.Semi) }

	var ids []sema.Ident

	if p.parseIdentList(&ids) || p.consume(token.Colon) {
		return fail()
	}

	d, failed := p.parseQualident(ctx)
	if failed {
		return fail()
	}

	ctx.ActOnVarDecl(decls, ids, d)

	return false
}

// procDecl = "PROCEDURE" ident [formalParameters] ";" block ident .
func (p *Parser) parseProcDecl(ctx *sema.Context, decls *[]ast.Decl) bool {
	fail := func() bool { return p.skipUntil(token.Semi) }

	if p.consume(token.Procedure) || p.expect(token.Identifier) {
		return fail()
	}

	proc := ctx.ActOnProcDecl(p.tok.Pos, p.tok.Text)

	p.logger.Debug("procedure", slog.String("name", proc.Name()))

	var failed bool

	ctx.Within(proc, func(ctx *sema.Context) {
		failed = p.parseProcBody(ctx, proc)
	})

	if failed {
		return fail()
	}

	*decls = append(*decls, proc)

	return false
}

func (p *Parser) parseProcBody(ctx *sema.Context, proc *ast.ProcDecl) bool {
	var (
		params []*ast.ParamDecl
		ret    ast.Decl
	)

	p.advance()

	if p.tok.Is(token.LParen) && p.parseFormalParameters(ctx, &params, &ret) {
		return true
	}

	ctx.ActOnProcHeading(proc, params, ret)

	if p.consume(token.Semi) ||
		p.parseBlock(ctx, &proc.Decls, &proc.Stmts) ||
		p.expect(token.Identifier) {
		return true
	}

	ctx.ActOnProcEnd(proc, p.tok.Pos, p.tok.Text)
	p.advance()

	return false
}

// formalParameters = "(" [formalParameterList] ")" [":" qualident] .
func (p *Parser) parseFormalParameters(
	ctx *sema.Context,
	params *[]*ast.ParamDecl,
	ret *ast.Decl,
) bool {
	fail := func() bool { return p.skipUntil(token.Semi) }

	if p.consume(token.LParen) {
		return fail()
	}

	if p.tok.IsOneOf(token.Var, token.Identifier) && p.parseFormalParameterList(ctx, params) {
		return fail()
	}

	if p.consume(token.RParen) {
		return fail()
	}

	if p.tok.Is(token.Colon) {
		p.advance()

		d, failed := p.parseQualident(ctx)
		if failed {
			return fail()
		}

		*ret = d
	}

	return false
}

// formalParameterList = formalParameter {";" formalParameter} .
func (p *Parser) parseFormalParameterList(ctx *sema.Context, params *[]*ast.ParamDecl) bool {
	fail := func() bool { return p.skipUntil(token.RParen) }

	if p.parseFormalParameter(ctx, params) {
		return fail()
	}

	for p.tok.Is(token.Semi) {
		p.advance()

		if p.parseFormalParameter(ctx, params) {
			return fail()
		}
	}

	return false
}

// formalParameter = ["VAR"] identList ":" qualident .
func (p *Parser) parseFormalParameter(ctx *sema.Context, params *[]*ast.ParamDecl) bool {
	fail := func() bool { return p.skipUntil(token.RParen, token.Semi) }

	isVar := p.tok.Is(token.Var)
	if isVar {
		p.advance()
	}

	var ids []sema.Ident

	if p.parseIdentList(&ids) || p.consume(token.Colon) {
		return fail()
	}

	d, failed := p.parseQualident(ctx)
	if failed {
		return fail()
	}

	ctx.ActOnFormalParams(params, ids, d, isVar)

	return false
}

// identList = ident {"," ident} .
func (p *Parser) parseIdentList(ids *[]sema.Ident) bool {
	fail := func() bool { return p.skipUntil(token.Colon, token.Semi) }

	if p.expect(token.Identifier) {
		return fail()
	}

	*ids = append(*ids, sema.Ident{Pos: p.tok.Pos, Name: p.tok.Text})
	p.advance()

	for p.tok.Is(token.Comma) {
		p.advance()

		if p.expect(token.Identifier) {
			return fail()
		}

		*ids = append(*ids, sema.Ident{Pos: p.tok.Pos, Name: p.tok.Text})
		p.advance()
	}

	return false
}

// qualident = ident {"." ident} .
//
// Components after the first are only consumed while the prefix names a
// module. qualident has no synchronization set of its own; callers recover.
func (p *Parser) parseQualident(ctx *sema.Context) (ast.Decl, bool) {
	if p.expect(token.Identifier) {
		return nil, true
	}

	d := ctx.ActOnQualIdentPart(nil, p.tok.Pos, p.tok.Text)
	p.advance()

	for p.tok.Is(token.Period) {
		if _, ok := d.(*ast.ModuleDecl); !ok {
			break
		}

		p.advance()

		if p.expect(token.Identifier) {
			return nil, true
		}

		d = ctx.ActOnQualIdentPart(d, p.tok.Pos, p.tok.Text)
		p.advance()
	}

	return d, false
}
