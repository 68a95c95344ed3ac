// expressions.go contains all the expression AST nodes. An expression node
// always evaluates to a value and, once the semantic passes have run,
// always carries a resolved type.

package ast

import (
	"stackc/token"
	"stackc/types"
)

// Binary represents a binary operation expression (e.g. "a + b"). The
// Operator also doubles for struct member access ("a.b", Operator is a DOT
// token and Right is a Variable naming the member) and array indexing
// ("a[i]", Operator is a LBRACKET token and Right is the index expression),
// mirroring how the original translator dispatches on the operator token
// rather than giving each its own node kind.
type Binary struct {
	exprBase
	Left     Expression
	Operator token.Token
	Right    Expression
}

func NewBinary(left Expression, operator token.Token, right Expression) *Binary {
	return &Binary{exprBase: exprBase{line: operator.Line}, Left: left, Operator: operator, Right: right}
}

func (b *Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(b) }

// Unary represents a unary operation expression (e.g. "!a" or "-b").
type Unary struct {
	exprBase
	Operator token.Token
	Right    Expression
}

func NewUnary(operator token.Token, right Expression) *Unary {
	return &Unary{exprBase: exprBase{line: operator.Line}, Operator: operator, Right: right}
}

func (u *Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(u) }

// Literal represents an integer literal in the source code.
type Literal struct {
	exprBase
	Value int64
}

func NewLiteral(value int64, line int32) *Literal {
	return &Literal{exprBase: exprBase{line: line, typ: types.Int{}}, Value: value}
}

func (l *Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(l) }

// Variable represents the use of a previously declared name: a local,
// param, global, struct member, enum value or function. Sym is resolved by
// the semantic passes, not the parser.
type Variable struct {
	exprBase
	Name token.Token
	Sym  *types.Symbol
}

func NewVariable(name token.Token) *Variable {
	return &Variable{exprBase: exprBase{line: name.Line}, Name: name}
}

func (v *Variable) Accept(vis ExpressionVisitor) any { return vis.VisitVariable(v) }

// Call represents a function call. A Call whose Comptime flag is set was
// written as "@name(args)" in the source and is a candidate for compile-time
// resolution: once the driver has evaluated it, Resolved becomes true and
// Result holds the literal that replaces it in the final translation.
type Call struct {
	exprBase
	Callee   token.Token
	Args     []Expression
	Comptime bool

	Resolved bool
	Result   *Literal
}

func NewCall(callee token.Token, args []Expression, comptime bool) *Call {
	return &Call{exprBase: exprBase{line: callee.Line}, Callee: callee, Args: args, Comptime: comptime}
}

func (c *Call) Accept(v ExpressionVisitor) any { return v.VisitCall(c) }
