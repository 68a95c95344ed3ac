package disasm

import (
	"strings"
	"testing"

	"stackc/bytecode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleDecodesEveryOperandWidth(t *testing.T) {
	img := bytecode.NewImage()
	img.EmitOp(bytecode.OpLi, 1)
	img.EmitWord(42)
	img.EmitOp(bytecode.OpPushn, 2)
	img.EmitQuarter(3)
	img.EmitOp(bytecode.OpPrint, 2)
	img.EmitByte(1)
	img.EmitOp(bytecode.OpExit, 3)

	out := Disassemble(img, "x = 42;\nprint x;\n")

	require.Contains(t, out, "LI")
	require.Contains(t, out, "42")
	require.Contains(t, out, "PUSHN")
	require.Contains(t, out, "PRINT")
	require.Contains(t, out, "EXIT")
	assert.True(t, strings.Contains(out, "x = 42;"))
	assert.True(t, strings.Contains(out, "print x;"))
}

func TestDisassembleAnnotatesBranchTarget(t *testing.T) {
	img := bytecode.NewImage()
	img.EmitOp(bytecode.OpBiz, 1)
	quarterOff := img.EmitQuarter(0)
	img.EmitOp(bytecode.OpExit, 1)
	target := img.Len
	img.PatchQuarter(quarterOff, int16(int32(target)-int32(quarterOff+bytecode.QuarterSize)))

	out := Disassemble(img, "")
	require.Contains(t, out, "BIZ")
	require.Contains(t, out, "->")
}

func TestDisassembleWithoutSourceOmitsAnnotations(t *testing.T) {
	img := bytecode.NewImage()
	img.EmitOp(bytecode.OpLi, 5)
	img.EmitWord(1)
	img.EmitOp(bytecode.OpExit, 5)

	out := Disassemble(img, "")
	assert.NotContains(t, out, ";")
	assert.Contains(t, out, "LI")
}
