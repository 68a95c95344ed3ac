package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageEncodeDecodeRoundTrip(t *testing.T) {
	img := NewImage()

	liOff := img.EmitOp(OpLi, 7)
	wordOff := img.EmitWord(123456789)
	quarterOff := img.EmitQuarter(-4)
	byteOff := img.EmitByte(9)

	assert.Equal(t, OpLi, img.ReadOp(liOff))
	assert.Equal(t, int64(123456789), img.ReadWord(wordOff))
	assert.Equal(t, int16(-4), img.ReadQuarter(quarterOff))
	assert.Equal(t, byte(9), img.ReadByte(byteOff))
}

func TestImagePatchOverwritesInPlace(t *testing.T) {
	img := NewImage()
	wordOff := img.EmitWord(0)
	img.PatchWord(wordOff, 999)
	assert.Equal(t, int64(999), img.ReadWord(wordOff))

	quarterOff := img.EmitQuarter(0)
	img.PatchQuarter(quarterOff, 42)
	assert.Equal(t, int16(42), img.ReadQuarter(quarterOff))
}

func TestNewImageLinesInitialisedToUnknown(t *testing.T) {
	img := NewImage()
	for _, l := range img.Lines {
		require.Equal(t, int64(-1), l)
	}
}

func TestOpcodeStringAndValid(t *testing.T) {
	assert.Equal(t, "ADD", OpAdd.String())
	assert.Equal(t, "EXIT", OpExit.String())
	assert.True(t, OpExit.Valid())
	assert.False(t, Opcode(250).Valid())
}
