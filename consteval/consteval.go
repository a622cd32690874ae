// Package consteval computes the values of constant tinylang expressions.
//
// A constant expression is rendered as an expr-lang program and run by the
// expr virtual machine. INTEGER values are returned as int64 and BOOLEAN
// values as bool. DIV and MOD truncate toward zero.
package consteval

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/token"
)

var options = []expr.Option{
	expr.Function("div", divide, new(func(int, int) int)),
	expr.Function("mod", modulo, new(func(int, int) int)),
}

func divide(params ...any) (any, error) {
	a, b := params[0].(int), params[1].(int)
	if b == 0 {
		return nil, ErrDivideByZero
	}

	return a / b, nil
}

func modulo(params ...any) (any, error) {
	a, b := params[0].(int), params[1].(int)
	if b == 0 {
		return nil, ErrDivideByZero
	}

	return a % b, nil
}

// Eval computes the value of e.
func Eval(e ast.Expr) (any, error) {
	src, err := Source(e)
	if err != nil {
		return nil, err
	}

	program, err := expr.Compile(src, options...)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", src))
	}

	out, err := expr.Run(program, nil)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(slog.String("source", src))
	}

	if n, ok := out.(int); ok {
		return int64(n), nil
	}

	return out, nil
}

// Source renders e as expr-lang source. Constant names are replaced by
// their defining expressions.
func Source(e ast.Expr) (string, error) {
	var sb strings.Builder

	if err := render(&sb, e); err != nil {
		return "", err
	}

	return sb.String(), nil
}

var infix = map[token.Kind]string{
	token.Plus:         "+",
	token.Minus:        "-",
	token.Star:         "*",
	token.And:          "&&",
	token.Or:           "||",
	token.Equal:        "==",
	token.Hash:         "!=",
	token.Less:         "<",
	token.LessEqual:    "<=",
	token.Greater:      ">",
	token.GreaterEqual: ">=",
}

func render(sb *strings.Builder, e ast.Expr) error {
	switch e := e.(type) {
	case nil:
		return ErrNotConstant

	case *ast.IntLit:
		sb.WriteString(strconv.FormatInt(e.Value, 10))

	case *ast.BoolLit:
		sb.WriteString(strconv.FormatBool(e.Value))

	case *ast.ConstAccess:
		sb.WriteByte('(')

		if err := render(sb, e.Const.Expr); err != nil {
			return err
		}

		sb.WriteByte(')')

	case *ast.PrefixExpr:
		switch e.Op.Kind {
		case token.Minus:
			sb.WriteString("-(")
		case token.Not:
			sb.WriteString("!(")
		default:
			sb.WriteByte('(')
		}

		if err := render(sb, e.X); err != nil {
			return err
		}

		sb.WriteByte(')')

	case *ast.InfixExpr:
		switch e.Op.Kind {
		case token.Div, token.Mod:
			sb.WriteString(strings.ToLower(e.Op.Kind.Spelling()))
			sb.WriteByte('(')

			if err := render(sb, e.Left); err != nil {
				return err
			}

			sb.WriteString(", ")

			if err := render(sb, e.Right); err != nil {
				return err
			}

			sb.WriteByte(')')

			return nil
		}

		op, ok := infix[e.Op.Kind]
		if !ok {
			return ErrUnsupported.With(slog.String("operator", e.Op.String()))
		}

		sb.WriteByte('(')

		if err := render(sb, e.Left); err != nil {
			return err
		}

		sb.WriteString(" " + op + " ")

		if err := render(sb, e.Right); err != nil {
			return err
		}

		sb.WriteByte(')')

	default:
		return ErrNotConstant.With(slog.Int("pos", int(e.Pos())))
	}

	return nil
}

// Module evaluates every constant declared in m and its procedures. Keys
// are constant names, qualified by the enclosing procedure names. Constants
// that fail to evaluate are left out and their errors joined.
func Module(m *ast.ModuleDecl) (map[string]any, error) {
	values := make(map[string]any)

	var errs []error

	var walk func(prefix string, decls []ast.Decl)

	walk = func(prefix string, decls []ast.Decl) {
		for _, d := range decls {
			switch d := d.(type) {
			case *ast.ConstDecl:
				v, err := Eval(d.Expr)
				if err != nil {
					var e *Error
					if errors.As(err, &e) {
						err = e.With(slog.String("const", prefix+d.Name()))
					}

					errs = append(errs, err)

					continue
				}

				values[prefix+d.Name()] = v

			case *ast.ProcDecl:
				walk(prefix+d.Name()+".", d.Decls)
			}
		}
	}

	walk("", m.Decls)

	return values, errors.Join(errs...)
}
