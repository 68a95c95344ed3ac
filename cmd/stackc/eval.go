package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stackc/ast"

	"github.com/google/subcommands"
)

// evalCmd compiles a source file far enough to resolve every compile-time
// call it contains, then prints each resolved call's literal in source
// order, one per line, without ever invoking the final whole-program VM
// run that runCmd does.
type evalCmd struct{}

func (*evalCmd) Name() string     { return "eval" }
func (*evalCmd) Synopsis() string { return "Resolve and print every compile-time call in a file" }
func (*evalCmd) Usage() string {
	return `eval <file>:
  Resolve every "@name(args)" call site in a source file and print the
  literal it evaluates to.
`
}

func (cmd *evalCmd) SetFlags(f *flag.FlagSet) {}

func (cmd *evalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 file not provided\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	root, _, err := compile(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := &resolvedCallWalker{}
	w.walkRoot(root)
	if len(w.calls) == 0 {
		fmt.Fprintln(os.Stderr, "no compile-time calls found")
		return subcommands.ExitSuccess
	}
	for _, call := range w.calls {
		fmt.Fprintf(os.Stdout, "@%s -> %d\n", call.Callee.Lexeme, call.Result.Value)
	}
	return subcommands.ExitSuccess
}

// resolvedCallWalker collects every resolved compile-time call in the
// order it appears in the source, purely by recursing over the tree; it
// implements both AST visitor interfaces for that traversal alone.
type resolvedCallWalker struct {
	calls []*ast.Call
}

func (w *resolvedCallWalker) walkRoot(root *ast.Root) {
	for _, g := range root.Globals {
		if g.Initializer != nil {
			g.Initializer.Accept(w)
		}
	}
	for _, fn := range root.Funcs {
		fn.Body.Accept(w)
	}
}

func (w *resolvedCallWalker) VisitExpressionStmt(s *ast.ExpressionStmt) any {
	s.Expression.Accept(w)
	return nil
}

func (w *resolvedCallWalker) VisitPrintStmt(s *ast.PrintStmt) any {
	for _, a := range s.Args {
		a.Accept(w)
	}
	return nil
}

func (w *resolvedCallWalker) VisitVarStmt(s *ast.VarStmt) any {
	if s.Initializer != nil {
		s.Initializer.Accept(w)
	}
	return nil
}

func (w *resolvedCallWalker) VisitAssignStmt(s *ast.AssignStmt) any {
	s.Target.Accept(w)
	s.Value.Accept(w)
	return nil
}

func (w *resolvedCallWalker) VisitBlockStmt(s *ast.BlockStmt) any {
	for _, stmt := range s.Statements {
		stmt.Accept(w)
	}
	return nil
}

func (w *resolvedCallWalker) VisitIfStmt(s *ast.IfStmt) any {
	s.Condition.Accept(w)
	s.Then.Accept(w)
	if s.Else != nil {
		s.Else.Accept(w)
	}
	return nil
}

func (w *resolvedCallWalker) VisitWhileStmt(s *ast.WhileStmt) any {
	s.Condition.Accept(w)
	s.Body.Accept(w)
	return nil
}

func (w *resolvedCallWalker) VisitBreakStmt(s *ast.BreakStmt) any       { return nil }
func (w *resolvedCallWalker) VisitContinueStmt(s *ast.ContinueStmt) any { return nil }

func (w *resolvedCallWalker) VisitReturnStmt(s *ast.ReturnStmt) any {
	if s.Value != nil {
		s.Value.Accept(w)
	}
	return nil
}

func (w *resolvedCallWalker) VisitLiteral(l *ast.Literal) any   { return nil }
func (w *resolvedCallWalker) VisitVariable(v *ast.Variable) any { return nil }

func (w *resolvedCallWalker) VisitUnary(u *ast.Unary) any {
	u.Right.Accept(w)
	return nil
}

func (w *resolvedCallWalker) VisitBinary(b *ast.Binary) any {
	b.Left.Accept(w)
	b.Right.Accept(w)
	return nil
}

func (w *resolvedCallWalker) VisitCall(call *ast.Call) any {
	for _, a := range call.Args {
		a.Accept(w)
	}
	if call.Comptime && call.Resolved {
		w.calls = append(w.calls, call)
	}
	return nil
}
