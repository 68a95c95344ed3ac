package sema

import (
	"testing"

	"stackc/ast"
	"stackc/lexer"
	"stackc/parser"

	"github.com/stretchr/testify/require"
)

func parseRoot(t *testing.T, source string) *ast.Root {
	t.Helper()
	lex := lexer.New(source)
	tokens, err := lex.Scan()
	require.NoError(t, err)

	p := parser.Make(tokens)
	root, errs := p.Parse()
	require.Empty(t, errs)
	return root
}

func runPasses(t *testing.T, root *ast.Root) []error {
	t.Helper()
	var errs []error
	errs = append(errs, Typegen(root)...)
	errs = append(errs, Infer(root)...)
	errs = append(errs, Typecheck(root)...)
	return errs
}

func TestSemaAcceptsWellTypedProgram(t *testing.T) {
	root := parseRoot(t, `
struct Point {
	x: int;
	y: int;
}

fn sum(p: Point) -> int {
	return p.x + p.y;
}

fn main() -> int {
	var p: Point;
	p.x = 1;
	p.y = 2;
	return sum(p);
}`)
	require.Empty(t, runPasses(t, root))
}

func TestSemaRejectsTypeMismatch(t *testing.T) {
	valid := parseRoot(t, `
struct Point {
	x: int;
	y: int;
}

fn main() -> int {
	var p: Point;
	p.x = 1;
	return 0;
}`)
	require.Empty(t, runPasses(t, valid))

	mismatched := parseRoot(t, `
struct Point {
	x: int;
	y: int;
}

fn main() -> int {
	var p: Point;
	var n: int = p;
	return n;
}`)
	require.NotEmpty(t, runPasses(t, mismatched))
}

func TestSemaRejectsUndefinedName(t *testing.T) {
	root := parseRoot(t, `
fn main() -> int {
	return missing;
}`)
	require.NotEmpty(t, runPasses(t, root))
}

func TestSemaRejectsArityMismatch(t *testing.T) {
	root := parseRoot(t, `
fn add(a: int, b: int) -> int {
	return a + b;
}

fn main() -> int {
	return add(1);
}`)
	require.NotEmpty(t, runPasses(t, root))
}

func TestSemaRejectsBreakOutsideLoop(t *testing.T) {
	root := parseRoot(t, `
fn main() -> int {
	break;
	return 0;
}`)
	require.NotEmpty(t, runPasses(t, root))
}

func TestSemaEnumValueResolvesToEnumType(t *testing.T) {
	root := parseRoot(t, `
enum Color {
	Red,
	Green,
	Blue,
}

fn main() -> int {
	var c: Color = Color.Green;
	return 0;
}`)
	require.Empty(t, runPasses(t, root))
}
