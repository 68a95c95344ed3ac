// interfaces.go contains the visitor interfaces that any code traversing
// expression and statement AST nodes must implement, and the interfaces
// that all expression and statement nodes themselves implement, following
// the visitor design pattern.

package ast

import "stackc/types"

// ExpressionVisitor is the interface for operating on all Expression AST
// nodes. The compile-time driver's semantic passes and the bytecode
// translator both implement this interface.
type ExpressionVisitor interface {
	VisitBinary(binary *Binary) any
	VisitUnary(unary *Unary) any
	VisitLiteral(literal *Literal) any
	VisitVariable(variable *Variable) any
	VisitCall(call *Call) any
}

// StmtVisitor is the interface for operating on all Statement AST nodes.
type StmtVisitor interface {
	VisitExpressionStmt(stmt *ExpressionStmt) any
	VisitPrintStmt(stmt *PrintStmt) any
	VisitVarStmt(stmt *VarStmt) any
	VisitAssignStmt(stmt *AssignStmt) any
	VisitBlockStmt(stmt *BlockStmt) any
	VisitIfStmt(stmt *IfStmt) any
	VisitWhileStmt(stmt *WhileStmt) any
	VisitBreakStmt(stmt *BreakStmt) any
	VisitContinueStmt(stmt *ContinueStmt) any
	VisitReturnStmt(stmt *ReturnStmt) any
}

// Expression is the core interface for all expression nodes in the AST.
// Every expression carries a resolved type once the semantic passes have
// run; Type is nil until then.
type Expression interface {
	// Accept dispatches the current expression node to the appropriate
	// method on a Visitor.
	Accept(v ExpressionVisitor) any

	// Type returns the resolved type of this expression, or nil if the
	// semantic passes have not yet resolved it.
	Type() types.TypeInfo

	// SetType records the resolved type of this expression.
	SetType(t types.TypeInfo)

	// Line reports the source line this expression started on.
	Line() int32
}

// Stmt is the base interface for all statement nodes in the AST.
type Stmt interface {
	Accept(v StmtVisitor) any
	Line() int32
}

// exprBase is embedded by every concrete Expression to supply the Type,
// SetType and Line bookkeeping common to all of them.
type exprBase struct {
	typ  types.TypeInfo
	line int32
}

func (e *exprBase) Type() types.TypeInfo    { return e.typ }
func (e *exprBase) SetType(t types.TypeInfo) { e.typ = t }
func (e *exprBase) Line() int32             { return e.line }

// stmtBase is embedded by every concrete Stmt to supply Line bookkeeping.
type stmtBase struct {
	line int32
}

func (s *stmtBase) Line() int32 { return s.line }
