// statements.go contains all the statement AST nodes. A statement node
// does not produce a value.

package ast

import (
	"stackc/token"
	"stackc/types"
)

// ExpressionStmt represents a statement that consists of a single
// expression, evaluated and discarded (e.g. a bare call for its side
// effects).
type ExpressionStmt struct {
	stmtBase
	Expression Expression
}

func NewExpressionStmt(expr Expression, line int32) *ExpressionStmt {
	return &ExpressionStmt{stmtBase: stmtBase{line: line}, Expression: expr}
}

func (e *ExpressionStmt) Accept(v StmtVisitor) any { return v.VisitExpressionStmt(e) }

// PrintStmt represents a print statement that outputs the value of every
// argument expression, in order, on one line.
type PrintStmt struct {
	stmtBase
	Args []Expression
}

func NewPrintStmt(args []Expression, line int32) *PrintStmt {
	return &PrintStmt{stmtBase: stmtBase{line: line}, Args: args}
}

func (p *PrintStmt) Accept(v StmtVisitor) any { return v.VisitPrintStmt(p) }

// VarStmt represents a local or global variable declaration: its name, its
// declared type, and an optional initializer. The declaration itself
// reserves no code; the translator only emits code for the initializer, as
// an assignment to the slot the enclosing block or the program's globals
// table has already reserved.
type VarStmt struct {
	stmtBase
	Name        token.Token
	TypeExpr    TypeExpr
	Initializer Expression

	Sym *types.Symbol
}

func NewVarStmt(name token.Token, typeExpr TypeExpr, initializer Expression) *VarStmt {
	return &VarStmt{stmtBase: stmtBase{line: name.Line}, Name: name, TypeExpr: typeExpr, Initializer: initializer}
}

func (vs *VarStmt) Accept(v StmtVisitor) any { return v.VisitVarStmt(vs) }

// AssignStmt represents an assignment to an existing lvalue: a bare name, a
// struct member access, or an array index.
type AssignStmt struct {
	stmtBase
	Target Expression
	Value  Expression
}

func NewAssignStmt(target, value Expression, line int32) *AssignStmt {
	return &AssignStmt{stmtBase: stmtBase{line: line}, Target: target, Value: value}
}

func (a *AssignStmt) Accept(v StmtVisitor) any { return v.VisitAssignStmt(a) }

// BlockStmt represents a braced sequence of statements introducing its own
// lexical scope. Locals is populated by the semantic passes with every
// variable declared directly in this block, in declaration order.
type BlockStmt struct {
	stmtBase
	Statements []Stmt
	Locals     *types.SymbolTable
}

func NewBlockStmt(statements []Stmt, line int32) *BlockStmt {
	return &BlockStmt{stmtBase: stmtBase{line: line}, Statements: statements}
}

func (b *BlockStmt) Accept(v StmtVisitor) any { return v.VisitBlockStmt(b) }

// IfStmt represents a conditional statement with an optional else branch.
type IfStmt struct {
	stmtBase
	Condition Expression
	Then      Stmt
	Else      Stmt
}

func NewIfStmt(condition Expression, then, els Stmt, line int32) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{line: line}, Condition: condition, Then: then, Else: els}
}

func (i *IfStmt) Accept(v StmtVisitor) any { return v.VisitIfStmt(i) }

// WhileStmt represents a while loop.
type WhileStmt struct {
	stmtBase
	Condition Expression
	Body      Stmt
}

func NewWhileStmt(condition Expression, body Stmt, line int32) *WhileStmt {
	return &WhileStmt{stmtBase: stmtBase{line: line}, Condition: condition, Body: body}
}

func (w *WhileStmt) Accept(v StmtVisitor) any { return v.VisitWhileStmt(w) }

// BreakStmt exits the nearest enclosing while loop.
type BreakStmt struct{ stmtBase }

func NewBreakStmt(line int32) *BreakStmt { return &BreakStmt{stmtBase{line: line}} }

func (b *BreakStmt) Accept(v StmtVisitor) any { return v.VisitBreakStmt(b) }

// ContinueStmt jumps back to the top of the nearest enclosing while loop.
type ContinueStmt struct{ stmtBase }

func NewContinueStmt(line int32) *ContinueStmt { return &ContinueStmt{stmtBase{line: line}} }

func (c *ContinueStmt) Accept(v StmtVisitor) any { return v.VisitContinueStmt(c) }

// ReturnStmt returns from the enclosing function, optionally with a value.
type ReturnStmt struct {
	stmtBase
	Value Expression
}

func NewReturnStmt(value Expression, line int32) *ReturnStmt {
	return &ReturnStmt{stmtBase: stmtBase{line: line}, Value: value}
}

func (r *ReturnStmt) Accept(v StmtVisitor) any { return v.VisitReturnStmt(r) }
