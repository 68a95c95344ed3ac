// Package disasm renders a compiled bytecode.Image back into a readable
// per-instruction listing, annotated with the source line each instruction
// was translated from. It never re-derives anything the translator didn't
// already record in the image's line table.
package disasm

import (
	"fmt"
	"strings"

	"stackc/bytecode"
)

// Disassemble walks img from offset 0 to img.Len, decoding one instruction
// at a time, and returns the listing as a single string. source is split
// into lines so each instruction can echo the source text it came from;
// pass "" when no source is available (e.g. disassembling a throwaway
// compile-time image) and line annotations are simply omitted.
func Disassemble(img *bytecode.Image, source string) string {
	var lines []string
	if source != "" {
		lines = strings.Split(source, "\n")
	}

	var b strings.Builder
	lastLine := int64(-1)
	for pc := uint32(0); pc < img.Len; {
		start := pc
		op := img.ReadOp(pc)
		pc++

		operand, width := decodeOperand(img, op, pc)
		pc += width

		srcLine := img.Lines[start]
		if srcLine >= 0 && srcLine != lastLine && int(srcLine-1) >= 0 && int(srcLine-1) < len(lines) {
			fmt.Fprintf(&b, "     ; %s\n", strings.TrimSpace(lines[srcLine-1]))
			lastLine = srcLine
		}

		fmt.Fprintf(&b, "%04d  %-8s%s\n", start, op, operand)
	}
	return b.String()
}

// decodeOperand renders op's immediate (if any), starting at pc, and
// reports how many bytes it occupies so the caller can advance past it.
func decodeOperand(img *bytecode.Image, op bytecode.Opcode, pc uint32) (rendered string, width uint32) {
	switch op {
	case bytecode.OpLi, bytecode.OpLda, bytecode.OpSta:
		w := img.ReadWord(pc)
		return fmt.Sprintf("%d", w), bytecode.WordSize

	case bytecode.OpPushn, bytecode.OpPopn, bytecode.OpLdbp, bytecode.OpStbp:
		q := img.ReadQuarter(pc)
		return fmt.Sprintf("%d", q), bytecode.QuarterSize

	case bytecode.OpBiz, bytecode.OpBnz:
		q := img.ReadQuarter(pc)
		target := int32(pc+bytecode.QuarterSize) + int32(q)
		return fmt.Sprintf("%d  ; -> %04d", q, target), bytecode.QuarterSize

	case bytecode.OpPrint:
		n := img.ReadByte(pc)
		return fmt.Sprintf("%d", n), 1

	default:
		return "", 0
	}
}
