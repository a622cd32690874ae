package consteval

import (
	"errors"
	"testing"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/lexer"
	"github.com/ardnew/tlc/parser"
	"github.com/ardnew/tlc/sema"
	"github.com/ardnew/tlc/source"
)

const consts = `MODULE Consts;
CONST
  a = 1AH * 2;
  b = a DIV 5;
  c = -a MOD 5;
  d = (a > b) AND NOT FALSE;
  e = a # 52;
  f = TRUE OR FALSE;
  g = 7 DIV (b - 10);
VAR v : INTEGER;
PROCEDURE P;
CONST k = b + 1;
END P;
END Consts.
`

func parse(t *testing.T, src string) *ast.ModuleDecl {
	t.Helper()

	buf := source.NewString("consts.mod", src)
	diags := diag.NewEngine(buf)
	m := parser.New(lexer.New(buf, diags), sema.New(diags)).Parse()

	if m == nil || diags.NumErrors() != 0 {
		t.Fatalf("parse failed: %v", diags.Diagnostics())
	}

	return m
}

func TestModule(t *testing.T) {
	values, err := Module(parse(t, consts))

	want := map[string]any{
		"a":   int64(52),
		"b":   int64(10),
		"c":   int64(-2),
		"d":   true,
		"e":   false,
		"f":   true,
		"P.k": int64(11),
	}

	if len(values) != len(want) {
		t.Errorf("values = %v", values)
	}

	for name, w := range want {
		if got := values[name]; got != w {
			t.Errorf("%s = %v (%T), want %v", name, got, got, w)
		}
	}

	if !errors.Is(err, ErrEvaluate) {
		t.Errorf("err = %v, want evaluation failure for g", err)
	}
}

func TestSource(t *testing.T) {
	m := parse(t, consts)

	tests := map[string]string{
		"a": "(26 * 2)",
		"b": "div(((26 * 2)), 5)",
		"c": "-(mod(((26 * 2)), 5))",
		"d": "((((26 * 2)) > (div(((26 * 2)), 5))) && true)",
		"e": "(((26 * 2)) != 52)",
	}

	for _, d := range m.Decls {
		want, ok := tests[d.Name()]
		if !ok {
			continue
		}

		got, err := Source(d.(*ast.ConstDecl).Expr)
		if err != nil || got != want {
			t.Errorf("%s = %q, %v; want %q", d.Name(), got, err, want)
		}
	}
}

func TestEval_NotConstant(t *testing.T) {
	m := parse(t, consts)

	var v *ast.VarDecl

	for _, d := range m.Decls {
		if d, ok := d.(*ast.VarDecl); ok {
			v = d
		}
	}

	tests := []ast.Expr{
		nil,
		ast.NewVarAccess(0, v),
	}

	for _, e := range tests {
		if _, err := Eval(e); !errors.Is(err, ErrNotConstant) {
			t.Errorf("Eval(%T) err = %v", e, err)
		}
	}
}

func TestError(t *testing.T) {
	cause := errors.New("cause")
	err := ErrEvaluate.Wrap(cause)

	if err.Error() != "evaluate constant expression: cause" {
		t.Errorf("Error() = %q", err.Error())
	}

	if !errors.Is(err, cause) || !errors.Is(err, ErrEvaluate) || errors.Is(err, ErrCompile) {
		t.Error("unexpected errors.Is result")
	}

	if got := len(ErrNotConstant.With().attrs); got != 0 {
		t.Errorf("attrs = %d", got)
	}
}
