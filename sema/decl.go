package sema

import (
	"log/slog"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/source"
)

// Ident is an identifier and its position, as collected in identifier lists.
type Ident struct {
	Pos  source.Pos
	Name string
}

// insert adds d to the current scope, reporting a redeclaration if the name
// is already taken there.
func (c *Context) insert(d ast.Decl) bool {
	if c.scope.Insert(d) {
		c.sema.logger.Trace("declare",
			slog.String("kind", ast.Describe(d)),
			slog.String("name", d.Name()),
			slog.Int("depth", c.depth))

		return true
	}

	c.sema.report(d.Pos(), diag.ErrSymbolDeclared, d.Name())

	if prev := c.scope.Local(d.Name()); prev != nil && prev.Pos().IsValid() {
		c.sema.report(prev.Pos(), diag.NotePreviousDeclaration, d.Name())
	}

	return false
}

// ActOnModuleDecl starts the module name declared at pos. The module is
// declared in the current scope so that qualified identifiers can name it.
func (c *Context) ActOnModuleDecl(pos source.Pos, name string) *ast.ModuleDecl {
	c.live()

	m := ast.NewModuleDecl(c.decl, pos, name)
	c.insert(m)

	return m
}

// ActOnModuleEnd checks the identifier closing module m.
func (c *Context) ActOnModuleEnd(m *ast.ModuleDecl, pos source.Pos, name string) {
	c.live()

	if name != m.Name() {
		c.sema.report(pos, diag.ErrModuleIdentifierNotEqual, name, m.Name())
		c.sema.report(m.Pos(), diag.NoteModuleIdentifierDeclaration, m.Name())
	}
}

// ActOnImport accepts an import list. Imports are not supported, so this
// always reports an error.
func (c *Context) ActOnImport(pos source.Pos, module string, ids []Ident) {
	c.live()

	c.sema.logger.Debug("import",
		slog.String("module", module),
		slog.Int("names", len(ids)))

	c.sema.report(pos, diag.ErrNotYetImplemented, "import")
}

// ActOnConstDecl declares constant name with value e, which is nil if the
// expression could not be analyzed. A successfully declared constant is
// appended to decls. The new declaration is returned either way.
func (c *Context) ActOnConstDecl(
	decls *[]ast.Decl,
	pos source.Pos,
	name string,
	e ast.Expr,
) *ast.ConstDecl {
	c.live()

	if e != nil && !e.IsConst() {
		c.sema.report(posOf(e, pos), diag.ErrConstRequiresConstExpr, name)
	}

	d := ast.NewConstDecl(c.decl, pos, name, e)
	if c.insert(d) {
		*decls = append(*decls, d)
	}

	return d
}

// typeOf returns d as a type, reporting an error at pos if it is some other
// kind of declaration. A nil d was already reported as undeclared.
func (c *Context) typeOf(pos source.Pos, d ast.Decl) *ast.TypeDecl {
	switch d := d.(type) {
	case nil:
		return nil
	case *ast.TypeDecl:
		return d
	default:
		c.sema.report(pos, diag.ErrDeclRequiresType, d.Name(), ast.Describe(d))

		return nil
	}
}

// ActOnVarDecl declares each of ids as a variable of type d and appends the
// successfully declared ones to decls. Nothing is declared if d is not a
// type.
func (c *Context) ActOnVarDecl(decls *[]ast.Decl, ids []Ident, d ast.Decl) []*ast.VarDecl {
	c.live()

	if len(ids) == 0 {
		return nil
	}

	ty := c.typeOf(ids[0].Pos, d)
	if ty == nil {
		return nil
	}

	vars := make([]*ast.VarDecl, 0, len(ids))

	for _, id := range ids {
		v := ast.NewVarDecl(c.decl, id.Pos, id.Name, ty)
		if c.insert(v) {
			*decls = append(*decls, v)
		}

		vars = append(vars, v)
	}

	return vars
}

// ActOnFormalParams declares each of ids as a formal parameter of type d and
// appends the successfully declared ones to params. isVar marks reference
// parameters.
func (c *Context) ActOnFormalParams(
	params *[]*ast.ParamDecl,
	ids []Ident,
	d ast.Decl,
	isVar bool,
) {
	c.live()

	if len(ids) == 0 {
		return
	}

	ty := c.typeOf(ids[0].Pos, d)
	if ty == nil {
		return
	}

	for _, id := range ids {
		p := ast.NewParamDecl(c.decl, id.Pos, id.Name, ty, isVar)
		if c.insert(p) {
			*params = append(*params, p)
		}
	}
}

// ActOnProcDecl declares procedure name in the current scope. The caller
// enters the returned procedure's scope before parsing its heading.
func (c *Context) ActOnProcDecl(pos source.Pos, name string) *ast.ProcDecl {
	c.live()

	p := ast.NewProcDecl(c.decl, pos, name)
	c.insert(p)

	return p
}

// ActOnProcHeading completes the heading of p. ret is nil for a proper
// procedure and must otherwise be a type.
func (c *Context) ActOnProcHeading(p *ast.ProcDecl, params []*ast.ParamDecl, ret ast.Decl) {
	c.live()

	p.Params = params

	switch r := ret.(type) {
	case nil:
	case *ast.TypeDecl:
		p.RetType = r
	default:
		c.sema.report(p.Pos(), diag.ErrReturnTypeRequiresType, p.Name(), r.Name(), ast.Describe(r))
	}
}

// ActOnProcEnd checks the identifier closing procedure p.
func (c *Context) ActOnProcEnd(p *ast.ProcDecl, pos source.Pos, name string) {
	c.live()

	if name != p.Name() {
		c.sema.report(pos, diag.ErrProcedureIdentifierNotEqual, name, p.Name())
		c.sema.report(p.Pos(), diag.NoteProcedureIdentifierDeclaration, p.Name())
	}
}
