// Package ast declares the typed syntax tree of a tinylang module.
//
// Declarations, expressions and statements are closed sets: each is an
// interface with an unexported marker method, implemented only by the node
// types in this package. Consumers pattern-match with type switches.
//
// The tree owns its children exclusively. Type references, the declarations
// named by accesses and calls, and enclosing-declaration links are
// non-owning references to nodes owned elsewhere in the same tree (or to the
// predeclared nodes of the root scope).
package ast

import (
	"github.com/ardnew/tlc/source"
	"github.com/ardnew/tlc/token"
)

// Node is any syntax tree node.
type Node interface {
	Pos() source.Pos
}

// Decl is a named declaration.
type Decl interface {
	Node
	Name() string
	Enclosing() Decl
	isDecl()
}

// Expr is a typed expression.
type Expr interface {
	Node
	// Type is never nil on an expression built by semantic analysis.
	Type() *TypeDecl
	IsConst() bool
	isExpr()
}

// Stmt is a statement.
type Stmt interface {
	Node
	isStmt()
}

// Decls

type declNode struct {
	name      string
	pos       source.Pos
	enclosing Decl
}

func (d *declNode) Name() string { return d.name }
func (d *declNode) Pos() source.Pos { return d.pos }
func (d *declNode) Enclosing() Decl { return d.enclosing }
func (*declNode) isDecl() {}

func mkDecl(enc Decl, pos source.Pos, name string) declNode {
	return declNode{name: name, pos: pos, enclosing: enc}
}

// ModuleDecl is a compilation unit.
type ModuleDecl struct {
	declNode
	Decls []Decl
	Stmts []Stmt
}

// NewModuleDecl returns an empty module named name.
func NewModuleDecl(enclosing Decl, pos source.Pos, name string) *ModuleDecl {
	return &ModuleDecl{declNode: mkDecl(enclosing, pos, name)}
}

// ConstDecl binds a name to a constant expression. Expr is nil when the
// defining expression failed to parse.
type ConstDecl struct {
	declNode
	Expr Expr
}

// NewConstDecl returns a constant declaration.
func NewConstDecl(enclosing Decl, pos source.Pos, name string, e Expr) *ConstDecl {
	return &ConstDecl{declNode: mkDecl(enclosing, pos, name), Expr: e}
}

// TypeDecl names a type. Only the predeclared INTEGER and BOOLEAN exist.
type TypeDecl struct {
	declNode
}

// NewTypeDecl returns a type declaration.
func NewTypeDecl(enclosing Decl, pos source.Pos, name string) *TypeDecl {
	return &TypeDecl{declNode: mkDecl(enclosing, pos, name)}
}

// VarDecl declares a variable.
type VarDecl struct {
	declNode
	Type *TypeDecl
}

// NewVarDecl returns a variable declaration of type ty.
func NewVarDecl(enclosing Decl, pos source.Pos, name string, ty *TypeDecl) *VarDecl {
	return &VarDecl{declNode: mkDecl(enclosing, pos, name), Type: ty}
}

// ParamDecl declares a formal parameter. IsVar marks a reference (VAR)
// parameter.
type ParamDecl struct {
	declNode
	Type  *TypeDecl
	IsVar bool
}

// NewParamDecl returns a formal parameter declaration.
func NewParamDecl(
	enclosing Decl,
	pos source.Pos,
	name string,
	ty *TypeDecl,
	isVar bool,
) *ParamDecl {
	return &ParamDecl{declNode: mkDecl(enclosing, pos, name), Type: ty, IsVar: isVar}
}

// ProcDecl declares a procedure. A nil RetType makes it a proper procedure;
// otherwise it is a function.
type ProcDecl struct {
	declNode
	Params  []*ParamDecl
	RetType *TypeDecl
	Decls   []Decl
	Stmts   []Stmt
}

// NewProcDecl returns a procedure with an empty heading and body.
func NewProcDecl(enclosing Decl, pos source.Pos, name string) *ProcDecl {
	return &ProcDecl{declNode: mkDecl(enclosing, pos, name)}
}

// IsFunction reports whether p returns a value.
func (p *ProcDecl) IsFunction() bool { return p.RetType != nil }

// Exprs

type exprNode struct {
	pos     source.Pos
	typ     *TypeDecl
	isConst bool
}

func (e *exprNode) Pos() source.Pos { return e.pos }
func (e *exprNode) Type() *TypeDecl { return e.typ }
func (e *exprNode) IsConst() bool { return e.isConst }
func (*exprNode) isExpr() {}

// Operator describes the operator of an infix or prefix expression.
// Unspecified marks an operator synthesized by the compiler rather than
// written in the source.
type Operator struct {
	Kind        token.Kind
	Pos         source.Pos
	Unspecified bool
}

// MakeOperator returns the operator spelled by tok.
func MakeOperator(tok token.Token) Operator {
	return Operator{Kind: tok.Kind, Pos: tok.Pos}
}

// String returns the operator's source spelling.
func (o Operator) String() string { return o.Kind.Spelling() }

// InfixExpr is a binary operation.
type InfixExpr struct {
	exprNode
	Left, Right Expr
	Op          Operator
}

// NewInfixExpr returns left op right with result type ty.
func NewInfixExpr(left, right Expr, op Operator, ty *TypeDecl, isConst bool) *InfixExpr {
	return &InfixExpr{
		exprNode: exprNode{pos: op.Pos, typ: ty, isConst: isConst},
		Left:     left,
		Right:    right,
		Op:       op,
	}
}

// PrefixExpr is a unary operation.
type PrefixExpr struct {
	exprNode
	X  Expr
	Op Operator
}

// NewPrefixExpr returns op x with result type ty.
func NewPrefixExpr(x Expr, op Operator, ty *TypeDecl, isConst bool) *PrefixExpr {
	return &PrefixExpr{
		exprNode: exprNode{pos: op.Pos, typ: ty, isConst: isConst},
		X:        x,
		Op:       op,
	}
}

// IntLit is an integer literal.
type IntLit struct {
	exprNode
	Value int64
}

// NewIntLit returns an INTEGER-typed literal.
func NewIntLit(pos source.Pos, value int64, ty *TypeDecl) *IntLit {
	return &IntLit{exprNode: exprNode{pos: pos, typ: ty, isConst: true}, Value: value}
}

// BoolLit is a boolean literal. Semantic analysis shares one TRUE and one
// FALSE instance, so literals may be compared by identity.
type BoolLit struct {
	exprNode
	Value bool
}

// NewBoolLit returns a BOOLEAN-typed literal.
func NewBoolLit(value bool, ty *TypeDecl) *BoolLit {
	return &BoolLit{exprNode: exprNode{pos: source.NoPos, typ: ty, isConst: true}, Value: value}
}

// VarAccess reads a variable or formal parameter.
type VarAccess struct {
	exprNode
	Var Decl // *VarDecl or *ParamDecl
}

// NewVarAccess returns an access of v at pos. v must be a *VarDecl or
// *ParamDecl.
func NewVarAccess(pos source.Pos, v Decl) *VarAccess {
	return &VarAccess{exprNode: exprNode{pos: pos, typ: VarType(v)}, Var: v}
}

// ConstAccess reads a named constant.
type ConstAccess struct {
	exprNode
	Const *ConstDecl
}

// NewConstAccess returns an access of c at pos. c.Expr must be non-nil.
func NewConstAccess(pos source.Pos, c *ConstDecl) *ConstAccess {
	return &ConstAccess{
		exprNode: exprNode{pos: pos, typ: c.Expr.Type(), isConst: true},
		Const:    c,
	}
}

// CallExpr calls a function.
type CallExpr struct {
	exprNode
	Proc *ProcDecl
	Args []Expr
}

// NewCallExpr returns a call of p, whose result type must be set.
func NewCallExpr(pos source.Pos, p *ProcDecl, args []Expr) *CallExpr {
	return &CallExpr{exprNode: exprNode{pos: pos, typ: p.RetType}, Proc: p, Args: args}
}

// VarType returns the type of a variable or formal parameter, or nil for any
// other declaration.
func VarType(d Decl) *TypeDecl {
	switch d := d.(type) {
	case *VarDecl:
		return d.Type
	case *ParamDecl:
		return d.Type
	default:
		return nil
	}
}

// Stmts

type stmtNode struct {
	pos source.Pos
}

func (s *stmtNode) Pos() source.Pos { return s.pos }
func (*stmtNode) isStmt() {}

// AssignStmt assigns Expr to a variable or formal parameter.
type AssignStmt struct {
	stmtNode
	Var  Decl
	Expr Expr
}

// NewAssignStmt returns v := e.
func NewAssignStmt(pos source.Pos, v Decl, e Expr) *AssignStmt {
	return &AssignStmt{stmtNode: stmtNode{pos}, Var: v, Expr: e}
}

// CallStmt calls a proper procedure.
type CallStmt struct {
	stmtNode
	Proc *ProcDecl
	Args []Expr
}

// NewCallStmt returns a call of p.
func NewCallStmt(pos source.Pos, p *ProcDecl, args []Expr) *CallStmt {
	return &CallStmt{stmtNode: stmtNode{pos}, Proc: p, Args: args}
}

// IfStmt is IF Cond THEN Then [ELSE Else] END.
type IfStmt struct {
	stmtNode
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// NewIfStmt returns a conditional statement.
func NewIfStmt(pos source.Pos, cond Expr, then, els []Stmt) *IfStmt {
	return &IfStmt{stmtNode: stmtNode{pos}, Cond: cond, Then: then, Else: els}
}

// WhileStmt is WHILE Cond DO Body END.
type WhileStmt struct {
	stmtNode
	Cond Expr
	Body []Stmt
}

// NewWhileStmt returns a loop.
func NewWhileStmt(pos source.Pos, cond Expr, body []Stmt) *WhileStmt {
	return &WhileStmt{stmtNode: stmtNode{pos}, Cond: cond, Body: body}
}

// ReturnStmt returns from the enclosing procedure. Result is nil for an
// empty return.
type ReturnStmt struct {
	stmtNode
	Result Expr
}

// NewReturnStmt returns RETURN [e].
func NewReturnStmt(pos source.Pos, e Expr) *ReturnStmt {
	return &ReturnStmt{stmtNode: stmtNode{pos}, Result: e}
}

// Describe names the category of d for messages, e.g. "variable".
func Describe(d Decl) string {
	switch d.(type) {
	case *ModuleDecl:
		return "module"
	case *ConstDecl:
		return "constant"
	case *TypeDecl:
		return "type"
	case *VarDecl:
		return "variable"
	case *ParamDecl:
		return "parameter"
	case *ProcDecl:
		return "procedure"
	default:
		return "declaration"
	}
}
