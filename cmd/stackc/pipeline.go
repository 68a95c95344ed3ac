package main

import (
	"fmt"

	"stackc/ast"
	"stackc/bytecode"
	"stackc/comptime"
	"stackc/lexer"
	"stackc/parser"
	"stackc/translate"
)

// compile runs every pass from source text to a final bytecode.Image: lex,
// parse, the compile-time driver's typegen/infer/typecheck-then-resolve
// fixed point, and the whole-program translation. Any pass's diagnostics
// are joined into one error.
func compile(source string) (*ast.Root, *bytecode.Image, error) {
	lex := lexer.New(source)
	tokens, err := lex.Scan()
	if err != nil {
		return nil, nil, err
	}

	p := parser.Make(tokens)
	root, errs := p.Parse()
	if len(errs) > 0 {
		return nil, nil, joinErrors(errs)
	}

	return compileRoot(root)
}

// compileRoot runs the compile-time driver and the final whole-program
// translation over an already-parsed tree, for callers (the REPL) that
// parse each buffered chunk themselves first.
func compileRoot(root *ast.Root) (*ast.Root, *bytecode.Image, error) {
	driver := comptime.NewDriver(root)
	if errs := driver.Run(); len(errs) > 0 {
		return root, nil, joinErrors(errs)
	}

	img, err := translate.Translate(root)
	if err != nil {
		return root, nil, err
	}
	return root, img, nil
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := fmt.Sprintf("%d errors:", len(errs))
	for _, err := range errs {
		msg += "\n" + err.Error()
	}
	return fmt.Errorf("%s", msg)
}
