// Package comptime implements the fixed-point compile-time evaluation
// loop: every "@name(args)" call site in the program is run to completion
// on a throwaway virtual machine and replaced by the literal it produced,
// repeating until none remain.
package comptime

import (
	"fmt"

	"stackc/ast"
	"stackc/sema"
	"stackc/translate"
	"stackc/vm"
)

// maxIterations bounds the fixed-point loop, guarding against a compile-time
// call whose own evaluation somehow keeps exposing new unresolved calls
// forever instead of converging.
const maxIterations = 64

// Driver owns one program's compile-time evaluation.
type Driver struct {
	Root *ast.Root
}

func NewDriver(root *ast.Root) *Driver {
	return &Driver{Root: root}
}

// Run repeats typegen, infer, typecheck, then resolves every compile-time
// call site still outstanding, until a pass finds none left. It returns the
// diagnostics from whichever pass first failed.
func (d *Driver) Run() []error {
	for iter := 0; iter < maxIterations; iter++ {
		for _, pass := range []func(*ast.Root) []error{sema.Typegen, sema.Infer, sema.Typecheck} {
			if errs := pass(d.Root); len(errs) > 0 {
				return errs
			}
		}

		pending := collectPendingCalls(d.Root)
		d.Root.PendingCalls = pending
		if len(pending) == 0 {
			return nil
		}

		for _, call := range pending {
			if err := d.resolve(call); err != nil {
				return []error{err}
			}
		}
	}
	return []error{fmt.Errorf("compile-time evaluation did not converge after %d iterations", maxIterations)}
}

// resolve evaluates a single compile-time call on a fresh virtual machine
// and replaces it in place with the literal it produced.
func (d *Driver) resolve(call *ast.Call) error {
	img, err := translate.TranslateComptimeCall(d.Root, call)
	if err != nil {
		return err
	}

	machine := vm.New(img)
	result, err := machine.Run()
	if err != nil {
		return fmt.Errorf("evaluating @%s: %w", call.Callee.Lexeme, err)
	}

	literal := ast.NewLiteral(result, call.Line())
	literal.SetType(call.Type())
	call.Result = literal
	call.Resolved = true
	return nil
}
