// Package diag routes every diagnostic the compiler produces — from the
// lexer through the virtual machine — through two error kinds: a
// SemanticError for problems in the user's source, and a DeveloperError for
// internal invariants the compiler itself is responsible for upholding.
// Both satisfy the error interface; callers that need a position use Pos.
package diag

import "fmt"

// Pos is a source position, carried by every SemanticError. A
// DeveloperError carries only a message.
type Pos struct {
	Line   int32
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("line:%d, column:%d", p.Line, p.Column)
}

// SemanticError reports a problem with the user's source: an undeclared
// identifier, a type mismatch, a redeclaration. It is always worth showing
// to the person who wrote the program.
type SemanticError struct {
	Pos     Pos
	Message string
}

func NewSemanticError(pos Pos, format string, args ...any) SemanticError {
	return SemanticError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("💥 semantic error:\n%s - %s", e.Pos, e.Message)
}

// DeveloperError reports a violation of an internal invariant: the
// translator could not resolve a variable sema should have caught, a
// function table lookup that should never miss, a code buffer overrun. If
// one of these is ever seen, it is this compiler's bug, not the user's.
type DeveloperError struct {
	Message string
}

func NewDeveloperError(format string, args ...any) DeveloperError {
	return DeveloperError{Message: fmt.Sprintf(format, args...)}
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 internal compiler error: %s", e.Message)
}

// Pass is a single named stage of the compiler pipeline (lex, parse,
// typegen, infer, typecheck, translate, run), run in sequence with its
// diagnostics collected and printed before the next stage begins.
type Pass struct {
	Name string
	Run  func() []error
}

// RunPass executes a Pass and reports whether it produced any diagnostics.
// Diagnostics are printed via the supplied printer (typically a thin
// wrapper over fmt.Fprintln(os.Stderr, ...)) so callers can redirect output
// in tests.
func RunPass(p Pass, print func(error)) bool {
	errs := p.Run()
	for _, err := range errs {
		print(err)
	}
	return len(errs) > 0
}
