package ast

// ToNative converts the tree rooted at n into maps, slices and scalars
// suitable for YAML or JSON encoding. Cross-references are rendered by name.
func ToNative(n Node) any {
	switch n := n.(type) {
	case nil:
		return nil

	case *ModuleDecl:
		return map[string]any{
			"kind":  "module",
			"name":  n.Name(),
			"decls": nativeDecls(n.Decls),
			"stmts": nativeStmts(n.Stmts),
		}

	case *ProcDecl:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = ToNative(p)
		}

		m := map[string]any{
			"kind":   "procedure",
			"name":   n.Name(),
			"params": params,
			"decls":  nativeDecls(n.Decls),
			"stmts":  nativeStmts(n.Stmts),
		}

		if n.RetType != nil {
			m["returns"] = n.RetType.Name()
		}

		return m

	case *ConstDecl:
		return map[string]any{"kind": "constant", "name": n.Name(), "value": nativeExpr(n.Expr)}

	case *TypeDecl:
		return map[string]any{"kind": "type", "name": n.Name()}

	case *VarDecl:
		return map[string]any{"kind": "variable", "name": n.Name(), "type": typeName(n.Type)}

	case *ParamDecl:
		return map[string]any{
			"kind": "parameter", "name": n.Name(), "type": typeName(n.Type), "var": n.IsVar,
		}

	case *AssignStmt:
		return map[string]any{"kind": "assign", "target": n.Var.Name(), "value": nativeExpr(n.Expr)}

	case *CallStmt:
		return map[string]any{"kind": "call", "proc": n.Proc.Name(), "args": nativeExprs(n.Args)}

	case *IfStmt:
		m := map[string]any{
			"kind": "if",
			"cond": nativeExpr(n.Cond),
			"then": nativeStmts(n.Then),
		}

		if len(n.Else) > 0 {
			m["else"] = nativeStmts(n.Else)
		}

		return m

	case *WhileStmt:
		return map[string]any{"kind": "while", "cond": nativeExpr(n.Cond), "body": nativeStmts(n.Body)}

	case *ReturnStmt:
		m := map[string]any{"kind": "return"}
		if n.Result != nil {
			m["value"] = nativeExpr(n.Result)
		}

		return m

	case Expr:
		return nativeExpr(n)

	default:
		return nil
	}
}

func nativeExpr(e Expr) any {
	if e == nil {
		return nil
	}

	m := map[string]any{"type": typeName(e.Type()), "const": e.IsConst()}

	switch e := e.(type) {
	case *InfixExpr:
		m["op"] = e.Op.String()
		m["left"] = nativeExpr(e.Left)
		m["right"] = nativeExpr(e.Right)

	case *PrefixExpr:
		m["op"] = e.Op.String()
		m["operand"] = nativeExpr(e.X)

	case *IntLit:
		m["int"] = e.Value

	case *BoolLit:
		m["bool"] = e.Value

	case *VarAccess:
		m["var"] = e.Var.Name()

	case *ConstAccess:
		m["constant"] = e.Const.Name()

	case *CallExpr:
		m["call"] = e.Proc.Name()
		m["args"] = nativeExprs(e.Args)
	}

	return m
}

func nativeExprs(es []Expr) []any {
	out := make([]any, len(es))
	for i, e := range es {
		out[i] = nativeExpr(e)
	}

	return out
}

func nativeDecls(ds []Decl) []any {
	out := make([]any, len(ds))
	for i, d := range ds {
		out[i] = ToNative(d)
	}

	return out
}

func nativeStmts(ss []Stmt) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = ToNative(s)
	}

	return out
}
