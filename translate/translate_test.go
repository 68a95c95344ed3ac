package translate

import (
	"testing"

	"stackc/lexer"
	"stackc/parser"
	"stackc/sema"
	"stackc/vm"

	"github.com/stretchr/testify/require"
)

// compileAndRun lexes, parses, type-checks, and translates source into an
// Image, then executes it, returning whatever value is left on top of the
// stack when the VM exits.
func compileAndRun(t *testing.T, source string) int64 {
	t.Helper()

	lex := lexer.New(source)
	tokens, err := lex.Scan()
	require.NoError(t, err)

	p := parser.Make(tokens)
	root, errs := p.Parse()
	require.Empty(t, errs)

	require.Empty(t, sema.Typegen(root))
	require.Empty(t, sema.Infer(root))
	require.Empty(t, sema.Typecheck(root))

	img, err := Translate(root)
	require.NoError(t, err)

	machine := vm.New(img)
	got, err := machine.Run()
	require.NoError(t, err)
	return got
}

func TestTranslateArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int64
	}{
		{"add", `fn main() -> int { return 2 + 3; }`, 5},
		{"precedence", `fn main() -> int { return 2 + 3 * 4; }`, 14},
		{"equal_true", `fn main() -> int { return 1 == 1; }`, 1},
		{"equal_false", `fn main() -> int { return 1 == 2; }`, 0},
		{"not_equal", `fn main() -> int { return 1 != 2; }`, 1},
		{"ge_as_le_negated", `fn main() -> int { return 3 >= 3; }`, 1},
		{"and_true", `fn main() -> int { return (1 == 1) and (2 == 2); }`, 1},
		{"and_false", `fn main() -> int { return (1 == 1) and (2 == 3); }`, 0},
		{"or_true", `fn main() -> int { return (1 == 2) or (2 == 2); }`, 1},
		{"or_false", `fn main() -> int { return (1 == 2) or (2 == 3); }`, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, compileAndRun(t, tc.source))
		})
	}
}

func TestTranslateLocalsAndControlFlow(t *testing.T) {
	source := `
fn main() -> int {
	var total: int = 0;
	var i: int = 0;
	while (i < 5) {
		total = total + i;
		i = i + 1;
	}
	return total;
}`
	require.Equal(t, int64(10), compileAndRun(t, source))
}

func TestTranslateFunctionCall(t *testing.T) {
	source := `
fn double(x: int) -> int {
	return x * 2;
}

fn main() -> int {
	return double(21);
}`
	require.Equal(t, int64(42), compileAndRun(t, source))
}

func TestTranslateGlobalsAndStructs(t *testing.T) {
	source := `
struct Point {
	x: int;
	y: int;
}

var origin: Point;

fn main() -> int {
	origin.x = 4;
	origin.y = 5;
	return origin.x + origin.y;
}`
	require.Equal(t, int64(9), compileAndRun(t, source))
}

func TestTranslateArray(t *testing.T) {
	source := `
var nums: [3]int;

fn main() -> int {
	nums[0] = 10;
	nums[1] = 20;
	nums[2] = 12;
	return nums[0] + nums[1] + nums[2];
}`
	require.Equal(t, int64(42), compileAndRun(t, source))
}
