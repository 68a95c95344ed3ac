package vm

import (
	"bytes"
	"testing"

	"stackc/bytecode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// program is a small helper for hand-assembling an Image in tests, without
// going through the translator.
type program struct {
	img *bytecode.Image
}

func newProgram() *program {
	return &program{img: bytecode.NewImage()}
}

func (p *program) li(w int64) *program {
	p.img.EmitOp(bytecode.OpLi, -1)
	p.img.EmitWord(w)
	return p
}

func (p *program) op(op bytecode.Opcode) *program {
	p.img.EmitOp(op, -1)
	return p
}

func (p *program) quarter(op bytecode.Opcode, q int16) *program {
	p.img.EmitOp(op, -1)
	p.img.EmitQuarter(q)
	return p
}

func TestVMArithmetic(t *testing.T) {
	tests := []struct {
		name string
		prog *program
		want int64
	}{
		{"add", newProgram().li(2).li(3).op(bytecode.OpAdd), 5},
		{"sub", newProgram().li(2).li(5).op(bytecode.OpSub), 3},
		{"mul", newProgram().li(4).li(3).op(bytecode.OpMul), 12},
		{"div", newProgram().li(2).li(10).op(bytecode.OpDiv), 5},
		{"ge_true", newProgram().li(2).li(5).op(bytecode.OpGe), 1},
		{"ge_false", newProgram().li(5).li(2).op(bytecode.OpGe), 0},
		{"not_zero", newProgram().li(0).op(bytecode.OpNot), 1},
		{"not_nonzero", newProgram().li(7).op(bytecode.OpNot), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.prog.op(bytecode.OpExit)
			machine := New(tc.prog.img)
			got, err := machine.Run()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVMDivisionByZero(t *testing.T) {
	p := newProgram().li(0).li(1).op(bytecode.OpDiv).op(bytecode.OpExit)
	machine := New(p.img)
	_, err := machine.Run()
	require.Error(t, err)
	var fault Fault
	require.ErrorAs(t, err, &fault)
}

func TestVMPrint(t *testing.T) {
	p := newProgram().li(1).li(2).li(3)
	p.img.EmitOp(bytecode.OpPrint, -1)
	p.img.EmitByte(3)
	p.op(bytecode.OpLi)
	p.img.EmitWord(0)
	p.op(bytecode.OpExit)

	machine := New(p.img)
	var out bytes.Buffer
	machine.Out = &out
	_, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, "1 2 3\n", out.String())
}

func TestVMCallAndReturn(t *testing.T) {
	// A tiny hand-assembled program exercising FUNCPRO/CALL/RET directly:
	// call a function that does nothing but return, then confirm control
	// came back to the instruction after CALL with pc and bp both intact.
	img := bytecode.NewImage()

	img.EmitOp(bytecode.OpLi, -1)
	callSiteOperand := img.EmitWord(0) // patched below
	img.EmitOp(bytecode.OpCall, -1)
	img.EmitOp(bytecode.OpLi, -1)
	img.EmitWord(99)
	img.EmitOp(bytecode.OpExit, -1)

	funcAddr := img.Len
	img.PatchWord(callSiteOperand, int64(funcAddr))
	img.EmitOp(bytecode.OpFuncpro, -1)
	img.EmitOp(bytecode.OpLi, -1)
	img.EmitWord(7)
	img.EmitOp(bytecode.OpRet, -1)

	machine := New(img)
	got, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(99), got)
	assert.Equal(t, uint32(0), machine.BP)
}
