package sema

import (
	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/source"
)

// ActOnAssignment appends d := e to stmts. The target must be a variable or
// formal parameter. A type mismatch is reported but the statement is kept.
func (c *Context) ActOnAssignment(stmts *[]ast.Stmt, pos source.Pos, d ast.Decl, e ast.Expr) {
	c.live()

	switch d.(type) {
	case nil:
		return

	case *ast.VarDecl, *ast.ParamDecl:
		if e == nil {
			return
		}

		if ty := ast.VarType(d); ty != e.Type() {
			c.sema.report(posOf(e, pos), diag.ErrTypesForAssignmentNotCompatible,
				typeName(e.Type()), d.Name(), typeName(ty))
		}

		*stmts = append(*stmts, ast.NewAssignStmt(pos, d, e))

	default:
		c.sema.report(pos, diag.ErrAssignmentRequiresVar, d.Name(), ast.Describe(d))
	}
}

// ActOnProcCall appends a call of d with args to stmts. A nil argument means
// its analysis already failed, in which case the call is dropped unchecked.
func (c *Context) ActOnProcCall(stmts *[]ast.Stmt, pos source.Pos, d ast.Decl, args []ast.Expr) {
	c.live()

	switch p := d.(type) {
	case nil:
		return

	case *ast.ProcDecl:
		if hasNil(args) {
			return
		}

		if c.sema.checkFormalAndActualParameters(pos, p, args) && p.IsFunction() {
			c.sema.report(pos, diag.WarnDiscardedResult, p.Name())
		}

		*stmts = append(*stmts, ast.NewCallStmt(pos, p, args))

	default:
		c.sema.report(pos, diag.ErrNotAProcedure, d.Name(), ast.Describe(d))
	}
}

// condition returns cond, or FALSE if its analysis failed, reporting id if it
// is not boolean. pos is the statement keyword.
func (c *Context) condition(pos source.Pos, cond ast.Expr, id diag.ID) ast.Expr {
	if cond == nil {
		return c.sema.falseLit
	}

	if cond.Type() != c.sema.boolean {
		c.sema.report(posOf(cond, pos), id)
	}

	return cond
}

// ActOnIfStmt appends IF cond THEN then ELSE els END to stmts.
func (c *Context) ActOnIfStmt(
	stmts *[]ast.Stmt,
	pos source.Pos,
	cond ast.Expr,
	then, els []ast.Stmt,
) *ast.IfStmt {
	c.live()

	s := ast.NewIfStmt(pos, c.condition(pos, cond, diag.ErrIfExprMustBeBool), then, els)
	*stmts = append(*stmts, s)

	return s
}

// ActOnWhileStmt appends WHILE cond DO body END to stmts.
func (c *Context) ActOnWhileStmt(
	stmts *[]ast.Stmt,
	pos source.Pos,
	cond ast.Expr,
	body []ast.Stmt,
) *ast.WhileStmt {
	c.live()

	s := ast.NewWhileStmt(pos, c.condition(pos, cond, diag.ErrWhileExprMustBeBool), body)
	*stmts = append(*stmts, s)

	return s
}

// ActOnReturnStmt appends RETURN [e] to stmts, checking e against the
// return type of the enclosing procedure. A module body returns nothing.
func (c *Context) ActOnReturnStmt(stmts *[]ast.Stmt, pos source.Pos, e ast.Expr) {
	c.live()

	var ret *ast.TypeDecl
	if p := c.proc(); p != nil {
		ret = p.RetType
	}

	switch {
	case ret != nil && e == nil:
		c.sema.report(pos, diag.ErrFunctionRequiresReturn)

	case ret != nil && e.Type() != ret:
		c.sema.report(posOf(e, pos), diag.ErrFunctionAndReturnTypeNotCompatible,
			typeName(e.Type()), typeName(ret))

	case ret == nil && e != nil:
		c.sema.report(posOf(e, pos), diag.ErrProcedureRequiresEmptyReturn)
	}

	*stmts = append(*stmts, ast.NewReturnStmt(pos, e))
}
