package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes an indented dump of the tree rooted at n to w, one node per
// line. Expressions are annotated with their type, and with "const" when
// they are compile-time constant.
func Fprint(w io.Writer, n Node) error {
	p := printer{}
	p.node(n, 0)

	_, err := io.WriteString(w, p.String())

	return err
}

// Sprint returns the [Fprint] dump of n.
func Sprint(n Node) string {
	var sb strings.Builder

	_ = Fprint(&sb, n)

	return sb.String()
}

type printer struct {
	strings.Builder
}

func (p *printer) line(depth int, format string, args ...any) {
	p.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(p, format, args...)
	p.WriteByte('\n')
}

func (p *printer) stmts(depth int, title string, ss []Stmt) {
	p.line(depth, "%s", title)

	for _, s := range ss {
		p.node(s, depth+1)
	}
}

func (p *printer) node(n Node, depth int) {
	switch n := n.(type) {
	case nil:
		p.line(depth, "<nil>")

		return

	case *IfStmt:
		p.line(depth, "IfStmt")
		p.node(n.Cond, depth+1)
		p.stmts(depth+1, "Then", n.Then)

		if len(n.Else) > 0 {
			p.stmts(depth+1, "Else", n.Else)
		}

		return

	case *WhileStmt:
		p.line(depth, "WhileStmt")
		p.node(n.Cond, depth+1)
		p.stmts(depth+1, "Do", n.Body)

		return

	case Expr:
		p.line(depth, "%s : %s%s", label(n), typeName(n.Type()), constMark(n))

	default:
		p.line(depth, "%s", label(n))
	}

	for _, c := range Children(n) {
		p.node(c, depth+1)
	}
}

// label returns the one-line description of n without type annotations.
func label(n Node) string {
	switch n := n.(type) {
	case *ModuleDecl:
		return "ModuleDecl " + n.Name()
	case *ProcDecl:
		if n.RetType != nil {
			return "ProcDecl " + n.Name() + ": " + n.RetType.Name()
		}

		return "ProcDecl " + n.Name()
	case *ConstDecl:
		return "ConstDecl " + n.Name()
	case *TypeDecl:
		return "TypeDecl " + n.Name()
	case *VarDecl:
		return "VarDecl " + n.Name() + ": " + typeName(n.Type)
	case *ParamDecl:
		if n.IsVar {
			return "ParamDecl VAR " + n.Name() + ": " + typeName(n.Type)
		}

		return "ParamDecl " + n.Name() + ": " + typeName(n.Type)
	case *InfixExpr:
		return "InfixExpr " + n.Op.String()
	case *PrefixExpr:
		return "PrefixExpr " + n.Op.String()
	case *IntLit:
		return "IntLit " + strconv.FormatInt(n.Value, 10)
	case *BoolLit:
		if n.Value {
			return "BoolLit TRUE"
		}

		return "BoolLit FALSE"
	case *VarAccess:
		return "VarAccess " + n.Var.Name()
	case *ConstAccess:
		return "ConstAccess " + n.Const.Name()
	case *CallExpr:
		return "CallExpr " + n.Proc.Name()
	case *AssignStmt:
		return "AssignStmt " + n.Var.Name()
	case *CallStmt:
		return "CallStmt " + n.Proc.Name()
	case *IfStmt:
		return "IfStmt"
	case *WhileStmt:
		return "WhileStmt"
	case *ReturnStmt:
		return "ReturnStmt"
	default:
		return fmt.Sprintf("%T", n)
	}
}

func typeName(t *TypeDecl) string {
	if t == nil {
		return "<untyped>"
	}

	return t.Name()
}

func constMark(e Expr) string {
	if e.IsConst() {
		return " const"
	}

	return ""
}
