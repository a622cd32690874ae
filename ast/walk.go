package ast

// Children returns the nodes owned by n in source order. Cross-references
// (types, accessed declarations, called procedures) are not children.
func Children(n Node) []Node {
	var out []Node

	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *ModuleDecl:
		add(declNodes(n.Decls)...)
		add(stmtNodes(n.Stmts)...)

	case *ProcDecl:
		for _, p := range n.Params {
			add(p)
		}

		add(declNodes(n.Decls)...)
		add(stmtNodes(n.Stmts)...)

	case *ConstDecl:
		add(n.Expr)

	case *InfixExpr:
		add(n.Left, n.Right)

	case *PrefixExpr:
		add(n.X)

	case *CallExpr:
		add(exprNodes(n.Args)...)

	case *AssignStmt:
		add(n.Expr)

	case *CallStmt:
		add(exprNodes(n.Args)...)

	case *IfStmt:
		add(n.Cond)
		add(stmtNodes(n.Then)...)
		add(stmtNodes(n.Else)...)

	case *WhileStmt:
		add(n.Cond)
		add(stmtNodes(n.Body)...)

	case *ReturnStmt:
		add(n.Result)
	}

	return out
}

// Inspect traverses the tree rooted at n in pre-order, calling fn for each
// node. If fn returns false, the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

func declNodes(ds []Decl) []Node {
	ns := make([]Node, len(ds))
	for i, d := range ds {
		ns[i] = d
	}

	return ns
}

func stmtNodes(ss []Stmt) []Node {
	ns := make([]Node, len(ss))
	for i, s := range ss {
		ns[i] = s
	}

	return ns
}

func exprNodes(es []Expr) []Node {
	ns := make([]Node, len(es))
	for i, e := range es {
		ns[i] = e
	}

	return ns
}
