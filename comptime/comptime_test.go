package comptime

import (
	"testing"

	"stackc/lexer"
	"stackc/parser"
	"stackc/translate"
	"stackc/vm"

	"github.com/stretchr/testify/require"
)

func TestDriverResolvesComptimeCall(t *testing.T) {
	source := `
@fn square(n: int) -> int {
	return n * n;
}

var area: int = @square(6);

fn main() -> int {
	return area;
}`

	lex := lexer.New(source)
	tokens, err := lex.Scan()
	require.NoError(t, err)

	p := parser.Make(tokens)
	root, errs := p.Parse()
	require.Empty(t, errs)

	driver := NewDriver(root)
	require.Empty(t, driver.Run())

	require.True(t, root.Globals[0].Initializer != nil)

	img, err := translate.Translate(root)
	require.NoError(t, err)

	machine := vm.New(img)
	got, err := machine.Run()
	require.NoError(t, err)
	require.Equal(t, int64(36), got)
}

func TestDriverRejectsUnresolvableCall(t *testing.T) {
	source := `
@fn boom(n: int) -> int {
	return n / 0;
}

var x: int = @boom(1);

fn main() -> int {
	return x;
}`

	lex := lexer.New(source)
	tokens, err := lex.Scan()
	require.NoError(t, err)

	p := parser.Make(tokens)
	root, errs := p.Parse()
	require.Empty(t, errs)

	driver := NewDriver(root)
	require.NotEmpty(t, driver.Run())
}
