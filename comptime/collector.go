package comptime

import "stackc/ast"

// collector walks a whole program collecting every "@name(args)" call site
// not yet resolved to a literal. It implements both AST visitor interfaces
// purely to recurse; it never builds anything from what it visits besides
// the pending list.
type collector struct {
	pending []*ast.Call
}

func collectPendingCalls(root *ast.Root) []*ast.Call {
	c := &collector{}
	for _, g := range root.Globals {
		if g.Initializer != nil {
			c.walkExpr(g.Initializer)
		}
	}
	for _, fn := range root.Funcs {
		c.walkStmt(fn.Body)
	}
	return c.pending
}

func (c *collector) walkStmt(s ast.Stmt)       { s.Accept(c) }
func (c *collector) walkExpr(e ast.Expression) { e.Accept(c) }

func (c *collector) VisitExpressionStmt(s *ast.ExpressionStmt) any {
	c.walkExpr(s.Expression)
	return nil
}

func (c *collector) VisitPrintStmt(s *ast.PrintStmt) any {
	for _, a := range s.Args {
		c.walkExpr(a)
	}
	return nil
}

func (c *collector) VisitVarStmt(s *ast.VarStmt) any {
	if s.Initializer != nil {
		c.walkExpr(s.Initializer)
	}
	return nil
}

func (c *collector) VisitAssignStmt(s *ast.AssignStmt) any {
	c.walkExpr(s.Target)
	c.walkExpr(s.Value)
	return nil
}

func (c *collector) VisitBlockStmt(s *ast.BlockStmt) any {
	for _, stmt := range s.Statements {
		c.walkStmt(stmt)
	}
	return nil
}

func (c *collector) VisitIfStmt(s *ast.IfStmt) any {
	c.walkExpr(s.Condition)
	c.walkStmt(s.Then)
	if s.Else != nil {
		c.walkStmt(s.Else)
	}
	return nil
}

func (c *collector) VisitWhileStmt(s *ast.WhileStmt) any {
	c.walkExpr(s.Condition)
	c.walkStmt(s.Body)
	return nil
}

func (c *collector) VisitBreakStmt(s *ast.BreakStmt) any       { return nil }
func (c *collector) VisitContinueStmt(s *ast.ContinueStmt) any { return nil }

func (c *collector) VisitReturnStmt(s *ast.ReturnStmt) any {
	if s.Value != nil {
		c.walkExpr(s.Value)
	}
	return nil
}

func (c *collector) VisitLiteral(l *ast.Literal) any   { return nil }
func (c *collector) VisitVariable(v *ast.Variable) any { return nil }

func (c *collector) VisitUnary(u *ast.Unary) any {
	c.walkExpr(u.Right)
	return nil
}

func (c *collector) VisitBinary(b *ast.Binary) any {
	c.walkExpr(b.Left)
	c.walkExpr(b.Right)
	return nil
}

func (c *collector) VisitCall(call *ast.Call) any {
	for _, a := range call.Args {
		c.walkExpr(a)
	}
	if call.Comptime && !call.Resolved {
		c.pending = append(c.pending, call)
	}
	return nil
}
