package sema

import (
	"testing"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/source"
	"github.com/ardnew/tlc/token"
)

func newSema() (*Sema, *diag.Engine) {
	diags := diag.NewEngine(source.NewString("test.mod", ""))

	return New(diags), diags
}

func op(k token.Kind) ast.Operator {
	return ast.Operator{Kind: k, Pos: 0}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()

	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()

	fn()
}

func TestNew_Predeclared(t *testing.T) {
	s, _ := newSema()
	root := s.Root()

	tests := []struct {
		name string
		want ast.Decl
	}{
		{"INTEGER", s.Integer()},
		{"BOOLEAN", s.Boolean()},
	}

	for _, tt := range tests {
		if got := root.Scope().Lookup(tt.name); got != tt.want {
			t.Errorf("%s = %v", tt.name, got)
		}
	}

	for name, want := range map[string]*ast.BoolLit{"TRUE": s.True(), "FALSE": s.False()} {
		c, ok := root.Scope().Lookup(name).(*ast.ConstDecl)
		if !ok || c.Expr != ast.Expr(want) {
			t.Errorf("%s does not hold the canonical literal", name)
		}
	}

	if s.True().Type() != s.Boolean() || !s.True().Value || s.False().Value {
		t.Error("boolean literals malformed")
	}

	if root.Depth() != 0 || root.Decl() != nil {
		t.Error("root context should have no owner")
	}

	if got := root.Names(); len(got) != 4 {
		t.Errorf("root names = %v", got)
	}
}

func TestContext_EnterLeave(t *testing.T) {
	s, _ := newSema()
	root := s.Root()

	m := root.ActOnModuleDecl(1, "M")
	mc := root.Enter(m)

	if mc.Depth() != 1 || mc.Decl() != m || mc.Scope().Parent() != root.Scope() {
		t.Fatal("module context not nested in root")
	}

	p := mc.ActOnProcDecl(2, "P")
	pc := mc.Enter(p)

	if pc.Depth() != 2 || pc.proc() != p {
		t.Fatal("procedure context not nested in module")
	}

	if pc.Leave() != mc || mc.Leave() != root {
		t.Fatal("Leave did not return the enclosing context")
	}

	mustPanic(t, "leave root", func() { root.Leave() })
	mustPanic(t, "leave twice", func() { pc.Leave() })
	mustPanic(t, "act after leave", func() { pc.ActOnIntegerLiteral(0, "1") })
	mustPanic(t, "enter a variable", func() {
		root.Enter(ast.NewVarDecl(nil, 0, "v", s.Integer()))
	})
}

func TestContext_Within(t *testing.T) {
	s, _ := newSema()
	root := s.Root()
	m := root.ActOnModuleDecl(0, "M")

	var inner *Context

	root.Within(m, func(c *Context) {
		inner = c

		if c.Decl() != m {
			t.Error("Within passed the wrong context")
		}
	})

	mustPanic(t, "inner context closed", func() { inner.Leave() })

	func() {
		defer func() { _ = recover() }()

		root.Within(m, func(c *Context) {
			inner = c

			panic("boom")
		})
	}()

	mustPanic(t, "closed after panic", func() { inner.Leave() })
}

func TestContext_Redeclaration(t *testing.T) {
	s, diags := newSema()
	root := s.Root()
	m := root.ActOnModuleDecl(0, "M")
	c := root.Enter(m)

	var decls []ast.Decl

	vars := c.ActOnVarDecl(&decls, []Ident{{3, "x"}, {6, "x"}}, s.Integer())

	if len(vars) != 2 || len(decls) != 1 {
		t.Errorf("vars=%d decls=%d, want 2 and 1", len(vars), len(decls))
	}

	ds := diags.Diagnostics()
	if len(ds) != 2 || ds[0].ID != diag.ErrSymbolDeclared || ds[1].ID != diag.NotePreviousDeclaration {
		t.Fatalf("diagnostics = %v", ds)
	}

	if ds[0].Pos != 6 || ds[1].Pos != 3 {
		t.Errorf("positions = %d, %d", ds[0].Pos, ds[1].Pos)
	}

	// Shadowing in a nested scope is not a redeclaration.
	p := c.ActOnProcDecl(10, "P")
	c.Within(p, func(pc *Context) {
		pc.ActOnVarDecl(&p.Decls, []Ident{{12, "x"}}, s.Boolean())

		if got := ast.VarType(pc.ActOnQualIdentPart(nil, 0, "x")); got != s.Boolean() {
			t.Errorf("inner x has type %v", got)
		}
	})

	if diags.NumErrors() != 1 {
		t.Errorf("errors = %d, want 1", diags.NumErrors())
	}

	// Predeclared names have no position, so no note is attached.
	diags.Reset()
	root.ActOnVarDecl(&decls, []Ident{{20, "INTEGER"}}, s.Integer())

	if diags.Count(diag.ErrSymbolDeclared) != 1 || diags.Count(diag.NotePreviousDeclaration) != 0 {
		t.Errorf("diagnostics = %v", diags.Diagnostics())
	}
}

func TestContext_Folding(t *testing.T) {
	s, diags := newSema()
	c := s.Root()

	tests := []struct {
		name string
		got  ast.Expr
		want *ast.BoolLit
	}{
		{"TRUE AND FALSE", c.ActOnTerm(s.True(), s.False(), op(token.And)), s.False()},
		{"TRUE AND TRUE", c.ActOnTerm(s.True(), s.True(), op(token.And)), s.True()},
		{"FALSE OR TRUE", c.ActOnSimpleExpression(s.False(), s.True(), op(token.Or)), s.True()},
		{"FALSE OR FALSE", c.ActOnSimpleExpression(s.False(), s.False(), op(token.Or)), s.False()},
		{"NOT TRUE", c.ActOnPrefixExpression(s.True(), op(token.Not)), s.False()},
		{"NOT FALSE", c.ActOnPrefixExpression(s.False(), op(token.Not)), s.True()},
	}

	for _, tt := range tests {
		if tt.got != ast.Expr(tt.want) {
			t.Errorf("%s = %v, want canonical literal", tt.name, tt.got)
		}
	}

	if diags.NumErrors() != 0 {
		t.Errorf("diagnostics = %v", diags.Diagnostics())
	}

	// Relations are never folded.
	if _, ok := c.ActOnExpression(s.True(), s.False(), op(token.Equal)).(*ast.InfixExpr); !ok {
		t.Error("relation folded")
	}
}

func TestContext_IntegerLiteral(t *testing.T) {
	s, diags := newSema()
	c := s.Root()

	tests := []struct {
		text string
		want int64
	}{
		{"0", 0},
		{"10", 10},
		{"1AH", 26},
		{"0FFH", 255},
		{"7FFFFFFFFFFFFFFFH", 1<<63 - 1},
		{"9223372036854775808", 0},
	}

	for _, tt := range tests {
		lit, ok := c.ActOnIntegerLiteral(5, tt.text).(*ast.IntLit)
		if !ok {
			t.Fatalf("%s: not an IntLit", tt.text)
		}

		if lit.Value != tt.want || lit.Type() != s.Integer() || !lit.IsConst() || lit.Pos() != 5 {
			t.Errorf("%s = %d (%v), want %d", tt.text, lit.Value, lit.Type(), tt.want)
		}
	}

	if diags.Count(diag.ErrIntegerLiteralOverflow) != 1 {
		t.Errorf("diagnostics = %v", diags.Diagnostics())
	}
}

func TestContext_NilPropagation(t *testing.T) {
	s, diags := newSema()
	c := s.Root()
	one := c.ActOnIntegerLiteral(0, "1")

	if c.ActOnExpression(nil, one, op(token.Equal)) != nil ||
		c.ActOnSimpleExpression(one, nil, op(token.Plus)) != nil ||
		c.ActOnTerm(nil, nil, op(token.Star)) != nil ||
		c.ActOnPrefixExpression(nil, op(token.Minus)) != nil ||
		c.ActOnDesignator(0, nil) != nil ||
		c.ActOnFunctionCall(0, nil, nil) != nil {
		t.Error("nil operand produced an expression")
	}

	var stmts []ast.Stmt

	v := ast.NewVarDecl(nil, 0, "v", s.Integer())
	c.ActOnAssignment(&stmts, 0, v, nil)
	c.ActOnAssignment(&stmts, 0, nil, one)
	c.ActOnProcCall(&stmts, 0, nil, nil)

	if len(stmts) != 0 || len(diags.Diagnostics()) != 0 {
		t.Errorf("stmts=%d diagnostics=%v", len(stmts), diags.Diagnostics())
	}
}

func TestContext_QualIdent(t *testing.T) {
	s, diags := newSema()
	root := s.Root()
	m := root.ActOnModuleDecl(0, "M")

	root.Within(m, func(c *Context) {
		lim := c.ActOnConstDecl(&m.Decls, 1, "Limit", c.ActOnIntegerLiteral(2, "10"))

		if got := c.ActOnQualIdentPart(m, 3, "Limit"); got != lim {
			t.Errorf("M.Limit = %v", got)
		}

		if got := c.ActOnQualIdentPart(m, 4, "Limt"); got != nil {
			t.Errorf("M.Limt = %v", got)
		}

		ds := diags.Diagnostics()
		if len(ds) != 2 || ds[0].ID != diag.ErrUndeclaredName || ds[1].Message != "did you mean Limit?" {
			t.Errorf("diagnostics = %v", ds)
		}

		mustPanic(t, "qualify through constant", func() { c.ActOnQualIdentPart(lim, 5, "x") })
	})
}

func TestContext_CallChecks(t *testing.T) {
	s, diags := newSema()
	root := s.Root()
	m := root.ActOnModuleDecl(0, "M")
	c := root.Enter(m)

	p := c.ActOnProcDecl(1, "P")
	pc := c.Enter(p)

	var params []*ast.ParamDecl

	pc.ActOnFormalParams(&params, []Ident{{2, "a"}}, s.Integer(), false)
	pc.ActOnFormalParams(&params, []Ident{{3, "v"}}, s.Integer(), true)
	pc.ActOnProcHeading(p, params, nil)
	pc.Leave()

	var decls []ast.Decl

	x := c.ActOnVarDecl(&decls, []Ident{{4, "x"}}, s.Integer())[0]
	xa := c.ActOnDesignator(5, x)
	one := c.ActOnIntegerLiteral(6, "1")

	tests := []struct {
		name string
		args []ast.Expr
		want []diag.ID
	}{
		{"valid", []ast.Expr{one, xa}, nil},
		{"too few", []ast.Expr{one}, []diag.ID{diag.ErrWrongNumberOfParameters}},
		{"too many", []ast.Expr{s.True(), s.True(), s.True()}, []diag.ID{diag.ErrWrongNumberOfParameters}},
		{"type", []ast.Expr{s.True(), xa}, []diag.ID{diag.ErrTypeOfFormalAndActualParameterNotCompatible}},
		{"VAR needs variable", []ast.Expr{xa, one}, []diag.ID{diag.ErrVarParameterRequiresVar}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags.Reset()

			var stmts []ast.Stmt

			c.ActOnProcCall(&stmts, 7, p, tt.args)

			ds := diags.Diagnostics()
			if len(ds) != len(tt.want) {
				t.Fatalf("diagnostics = %v, want %v", ds, tt.want)
			}

			for i := range ds {
				if ds[i].ID != tt.want[i] {
					t.Errorf("diagnostic %d = %v, want %v", i, ds[i].ID, tt.want[i])
				}
			}

			if len(stmts) != 1 {
				t.Errorf("call statement not appended")
			}
		})
	}
}

func TestContext_FunctionCallArity(t *testing.T) {
	s, diags := newSema()
	root := s.Root()
	m := root.ActOnModuleDecl(0, "M")
	c := root.Enter(m)

	p := c.ActOnProcDecl(1, "P")
	c.Enter(p).Leave()

	f := c.ActOnProcDecl(2, "F")
	c.Within(f, func(fc *Context) { fc.ActOnProcHeading(f, nil, s.Integer()) })

	one := c.ActOnIntegerLiteral(3, "1")

	tests := []struct {
		name   string
		proc   *ast.ProcDecl
		args   []ast.Expr
		want   diag.ID
		isCall bool
	}{
		{"procedure with extra argument", p, []ast.Expr{one}, diag.ErrWrongNumberOfParameters, false},
		{"function with extra argument", f, []ast.Expr{one}, diag.ErrWrongNumberOfParameters, true},
		{"procedure used as value", p, nil, diag.ErrNotAFunction, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags.Reset()

			e := c.ActOnFunctionCall(4, tt.proc, tt.args)

			ds := diags.Diagnostics()
			if len(ds) != 1 || ds[0].ID != tt.want {
				t.Errorf("diagnostics = %v, want only %v", ds, tt.want)
			}

			if _, ok := e.(*ast.CallExpr); ok != tt.isCall {
				t.Errorf("call expression = %v, want built %v", e, tt.isCall)
			}
		})
	}

	diags.Reset()

	var stmts []ast.Stmt

	c.ActOnProcCall(&stmts, 5, f, []ast.Expr{one, one})

	if ds := diags.Diagnostics(); len(ds) != 1 || ds[0].ID != diag.ErrWrongNumberOfParameters {
		t.Errorf("statement call diagnostics = %v, want only arity", ds)
	}
}

func TestContext_Return(t *testing.T) {
	s, diags := newSema()
	root := s.Root()
	m := root.ActOnModuleDecl(0, "M")
	c := root.Enter(m)

	f := c.ActOnProcDecl(1, "F")
	fc := c.Enter(f)
	fc.ActOnProcHeading(f, nil, s.Integer())

	var stmts []ast.Stmt

	fc.ActOnReturnStmt(&stmts, 2, nil)
	fc.ActOnReturnStmt(&stmts, 3, s.True())
	fc.ActOnReturnStmt(&stmts, 4, fc.ActOnIntegerLiteral(5, "1"))

	c.ActOnReturnStmt(&stmts, 6, nil)
	c.ActOnReturnStmt(&stmts, 7, c.ActOnIntegerLiteral(8, "1"))

	want := []diag.ID{
		diag.ErrFunctionRequiresReturn,
		diag.ErrFunctionAndReturnTypeNotCompatible,
		diag.ErrProcedureRequiresEmptyReturn,
	}

	ds := diags.Diagnostics()
	if len(ds) != len(want) {
		t.Fatalf("diagnostics = %v", ds)
	}

	for i := range want {
		if ds[i].ID != want[i] {
			t.Errorf("diagnostic %d = %v, want %v", i, ds[i].ID, want[i])
		}
	}

	// TRUE has no position of its own; the RETURN keyword stands in.
	if ds[1].Pos != 3 {
		t.Errorf("mismatched return reported at %d, want 3", ds[1].Pos)
	}

	if len(stmts) != 5 {
		t.Errorf("stmts = %d, want 5", len(stmts))
	}
}

func TestContext_Conditions(t *testing.T) {
	s, diags := newSema()
	c := s.Root()

	var stmts []ast.Stmt

	one := c.ActOnIntegerLiteral(0, "1")
	sum := c.ActOnSimpleExpression(one, one, op(token.Plus))

	ifs := c.ActOnIfStmt(&stmts, 0, sum, nil, nil)
	ws := c.ActOnWhileStmt(&stmts, 0, nil, nil)

	if ifs.Cond != sum || ws.Cond != ast.Expr(s.False()) || len(stmts) != 2 {
		t.Error("conditions not preserved")
	}

	if diags.Count(diag.ErrIfExprMustBeBool) != 1 || diags.NumErrors() != 1 {
		t.Errorf("diagnostics = %v", diags.Diagnostics())
	}
}

func TestContext_AmbiguousNegation(t *testing.T) {
	s, diags := newSema()
	c := s.Root()

	one := c.ActOnIntegerLiteral(0, "1")
	v := c.ActOnDesignator(0, ast.NewVarDecl(nil, 0, "v", s.Integer()))

	tests := []struct {
		name string
		e    ast.Expr
		warn bool
	}{
		{"literal", one, false},
		{"variable", v, false},
		{"product", c.ActOnTerm(v, one, op(token.Star)), false},
		{"modulus", c.ActOnTerm(v, one, op(token.Mod)), false},
		{"sum", c.ActOnSimpleExpression(v, one, op(token.Plus)), true},
		{"negation", c.ActOnPrefixExpression(v, op(token.Minus)), true},
	}

	for _, tt := range tests {
		diags.Reset()
		c.ActOnPrefixExpression(tt.e, op(token.Minus))

		if got := diags.Count(diag.WarnAmbiguousNegation) == 1; got != tt.warn {
			t.Errorf("%s: warning = %v, want %v", tt.name, got, tt.warn)
		}
	}
}
