// Package bytecode defines the 64-bit word stack instruction set, the fixed
// code image it is assembled into, and the little-endian unaligned encoder
// and decoder both the translator and the virtual machine share.
package bytecode

import (
	"encoding/binary"

	"stackc/internal/diag"
)

// ImageSize is the fixed capacity of a code image, in bytes.
const ImageSize = 4096

// WordSize and QuarterSize are the two immediate widths the instruction set
// uses: a full 64-bit stack word, and a 16-bit "quarter" for small offsets
// and counts (PUSHN/POPN operand counts, LDBP/STBP frame offsets, BIZ/BNZ
// branch targets). PRINT's byte count is a single byte.
const (
	WordSize    = 8
	QuarterSize = 2
)

// Opcode is a single one-byte instruction tag.
type Opcode byte

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv
	OpLShift
	OpRShift
	OpGe
	OpLe
	OpNot
	OpJmp
	OpBiz
	OpBnz
	OpLi
	OpPushn
	OpPopn
	OpLdbp
	OpStbp
	OpLda
	OpSta
	OpLdi
	OpSti
	OpPrint
	OpCall
	OpFuncpro
	OpRet
	OpExit
	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	OpAdd:     "ADD",
	OpSub:     "SUB",
	OpMul:     "MUL",
	OpDiv:     "DIV",
	OpLShift:  "LSHIFT",
	OpRShift:  "RSHIFT",
	OpGe:      "GE",
	OpLe:      "LE",
	OpNot:     "NOT",
	OpJmp:     "JMP",
	OpBiz:     "BIZ",
	OpBnz:     "BNZ",
	OpLi:      "LI",
	OpPushn:   "PUSHN",
	OpPopn:    "POPN",
	OpLdbp:    "LDBP",
	OpStbp:    "STBP",
	OpLda:     "LDA",
	OpSta:     "STA",
	OpLdi:     "LDI",
	OpSti:     "STI",
	OpPrint:   "PRINT",
	OpCall:    "CALL",
	OpFuncpro: "FUNCPRO",
	OpRet:     "RET",
	OpExit:    "EXIT",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}

// Valid reports whether op is a defined instruction. The virtual machine
// treats any other byte value as a fatal, unrecoverable fault.
func (op Opcode) Valid() bool {
	return int(op) < int(opcodeCount)
}

// Image is a whole compiled program: a fixed byte buffer of instructions
// and immediates, plus a parallel debug line table. Lines[offset] is -1 at
// any offset that does not begin an instruction emitted directly from a
// source statement (an instruction synthesized purely by the translator,
// e.g. a loop back-edge jump, carries its enclosing statement's line; an
// immediate operand byte carries -1).
type Image struct {
	Code  [ImageSize]byte
	Len   uint32
	Lines [ImageSize]int64
}

// NewImage returns an empty image with every line table entry initialised
// to -1.
func NewImage() *Image {
	img := &Image{}
	for i := range img.Lines {
		img.Lines[i] = -1
	}
	return img
}

// checkCapacity panics with a DeveloperError if writing width more bytes
// starting at img.Len would run past ImageSize, rather than letting the
// write fall through to a raw slice-index panic.
func (img *Image) checkCapacity(width uint32) {
	if uint64(img.Len)+uint64(width) > uint64(ImageSize) {
		panic(diag.NewDeveloperError("code buffer full: program exceeds %d bytes", ImageSize))
	}
}

// EmitOp appends a single opcode byte, tagged with the source line it was
// translated from, and returns the offset it was written at.
func (img *Image) EmitOp(op Opcode, line int64) uint32 {
	img.checkCapacity(1)
	off := img.Len
	img.Code[off] = byte(op)
	img.Lines[off] = line
	img.Len++
	return off
}

// EmitByte appends a single untagged byte (e.g. a PRINT argument count) and
// returns the offset it was written at.
func (img *Image) EmitByte(b byte) uint32 {
	img.checkCapacity(1)
	off := img.Len
	img.Code[off] = b
	img.Len++
	return off
}

// EmitWord appends a 64-bit little-endian immediate and returns the offset
// it was written at.
func (img *Image) EmitWord(w int64) uint32 {
	img.checkCapacity(WordSize)
	off := img.Len
	binary.LittleEndian.PutUint64(img.Code[off:], uint64(w))
	img.Len += WordSize
	return off
}

// EmitQuarter appends a 16-bit little-endian immediate and returns the
// offset it was written at.
func (img *Image) EmitQuarter(q int16) uint32 {
	img.checkCapacity(QuarterSize)
	off := img.Len
	binary.LittleEndian.PutUint16(img.Code[off:], uint16(q))
	img.Len += QuarterSize
	return off
}

// PatchWord overwrites a previously emitted word immediate in place, used
// to back-patch forward references once their target offset is known.
func (img *Image) PatchWord(offset uint32, w int64) {
	binary.LittleEndian.PutUint64(img.Code[offset:], uint64(w))
}

// PatchQuarter overwrites a previously emitted quarter immediate in place.
func (img *Image) PatchQuarter(offset uint32, q int16) {
	binary.LittleEndian.PutUint16(img.Code[offset:], uint16(q))
}

// ReadOp decodes the opcode at pc.
func (img *Image) ReadOp(pc uint32) Opcode { return Opcode(img.Code[pc]) }

// ReadByte decodes a single byte immediate at pc.
func (img *Image) ReadByte(pc uint32) byte { return img.Code[pc] }

// ReadWord decodes a 64-bit little-endian immediate at pc.
func (img *Image) ReadWord(pc uint32) int64 {
	return int64(binary.LittleEndian.Uint64(img.Code[pc:]))
}

// ReadQuarter decodes a 16-bit little-endian immediate at pc.
func (img *Image) ReadQuarter(pc uint32) int16 {
	return int16(binary.LittleEndian.Uint16(img.Code[pc:]))
}
