// Package vm implements the byte-addressable stack machine that both runs
// the final compiled program and, driven standalone, evaluates every
// compile-time call the translator hands it.
package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"stackc/bytecode"
)

// StackMax is the capacity of the operand/frame stack, in words.
const StackMax = 1024

// stackBytes is StackMax expressed in bytes, the unit sp/bp are measured in.
const stackBytes = StackMax * bytecode.WordSize

// VM is one instance of the stack machine: a code image plus its three
// registers (pc, sp, bp) and its byte-addressable stack. A VM is not
// reentrant-safe but is cheap to construct, and the compile-time driver
// constructs a fresh one for every @call it evaluates.
type VM struct {
	Code *bytecode.Image

	PC uint32 // byte offset into Code.Code of the next instruction
	SP uint32 // byte offset into Stack of the next free slot
	BP uint32 // byte offset into Stack of the current frame base

	Stack [stackBytes]byte

	// Debug enables a per-instruction step trace, written to DebugOut.
	Debug    bool
	DebugOut io.Writer

	// Out receives PRINT statement output. Defaults to os.Stdout.
	Out io.Writer

	InstructionsExecuted uint64
}

// New constructs a VM ready to execute img from its first instruction.
func New(img *bytecode.Image) *VM {
	return &VM{Code: img, Out: os.Stdout, DebugOut: os.Stderr}
}

func (vm *VM) pushw(w int64) {
	if vm.SP+bytecode.WordSize > stackBytes {
		vm.fault("stack overflow")
	}
	binary.LittleEndian.PutUint64(vm.Stack[vm.SP:], uint64(w))
	vm.SP += bytecode.WordSize
}

func (vm *VM) popw() int64 {
	if vm.SP < bytecode.WordSize {
		vm.fault("stack underflow")
	}
	vm.SP -= bytecode.WordSize
	return int64(binary.LittleEndian.Uint64(vm.Stack[vm.SP:]))
}

func (vm *VM) ldw(addr uint32) int64 {
	if addr+bytecode.WordSize > stackBytes {
		vm.fault("load out of stack bounds at address %d", addr)
	}
	return int64(binary.LittleEndian.Uint64(vm.Stack[addr:]))
}

func (vm *VM) stw(addr uint32, w int64) {
	if addr+bytecode.WordSize > stackBytes {
		vm.fault("store out of stack bounds at address %d", addr)
	}
	binary.LittleEndian.PutUint64(vm.Stack[addr:], uint64(w))
}

func (vm *VM) nextOp() bytecode.Opcode {
	if vm.PC >= bytecode.ImageSize {
		vm.fault("pc ran off the end of the code image")
	}
	op := vm.Code.ReadOp(vm.PC)
	vm.PC++
	return op
}

func (vm *VM) nextByte() byte {
	b := vm.Code.ReadByte(vm.PC)
	vm.PC++
	return b
}

func (vm *VM) nextWord() int64 {
	w := vm.Code.ReadWord(vm.PC)
	vm.PC += bytecode.WordSize
	return w
}

func (vm *VM) nextQuarter() int16 {
	q := vm.Code.ReadQuarter(vm.PC)
	vm.PC += bytecode.QuarterSize
	return q
}

// Run executes the image from its current pc until it hits EXIT or faults,
// and returns the value EXIT halted on. A Fault never escapes as a panic:
// it is recovered here and reported as an error, matching how every other
// compiler pass in this repository converts an internal panic into a typed
// error at its package boundary.
func (vm *VM) Run() (result int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(Fault)
			if !ok {
				panic(r)
			}
			err = fault
		}
	}()

	for {
		if vm.Debug {
			vm.dumpStack()
		}
		op := vm.nextOp()
		vm.InstructionsExecuted++

		switch op {
		case bytecode.OpAdd:
			a, b := vm.popw(), vm.popw()
			vm.pushw(a + b)
		case bytecode.OpSub:
			a, b := vm.popw(), vm.popw()
			vm.pushw(a - b)
		case bytecode.OpMul:
			a, b := vm.popw(), vm.popw()
			vm.pushw(a * b)
		case bytecode.OpDiv:
			a, b := vm.popw(), vm.popw()
			if b == 0 {
				vm.fault("division by zero")
			}
			vm.pushw(a / b)
		case bytecode.OpLShift:
			a, b := vm.popw(), vm.popw()
			vm.pushw(a << uint(b))
		case bytecode.OpRShift:
			a, b := vm.popw(), vm.popw()
			vm.pushw(a >> uint(b))
		case bytecode.OpGe:
			a, b := vm.popw(), vm.popw()
			vm.pushw(boolWord(a > b))
		case bytecode.OpLe:
			a, b := vm.popw(), vm.popw()
			vm.pushw(boolWord(a < b))
		case bytecode.OpNot:
			vm.pushw(boolWord(vm.popw() == 0))
		case bytecode.OpJmp:
			vm.PC = uint32(vm.popw())
		case bytecode.OpBiz:
			target := vm.nextQuarter()
			if vm.popw() == 0 {
				vm.PC = uint32(int32(vm.PC) + int32(target))
			}
		case bytecode.OpBnz:
			target := vm.nextQuarter()
			if vm.popw() != 0 {
				vm.PC = uint32(int32(vm.PC) + int32(target))
			}
		case bytecode.OpLi:
			vm.pushw(vm.nextWord())
		case bytecode.OpPushn:
			n := vm.nextQuarter()
			vm.SP += uint32(n) * bytecode.WordSize
			if vm.SP > stackBytes {
				vm.fault("stack overflow")
			}
		case bytecode.OpPopn:
			n := vm.nextQuarter()
			if uint32(n)*bytecode.WordSize > vm.SP {
				vm.fault("stack underflow")
			}
			vm.SP -= uint32(n) * bytecode.WordSize
		case bytecode.OpLdbp:
			offset := vm.nextQuarter()
			vm.pushw(vm.ldw(uint32(int32(vm.BP) + int32(offset))))
		case bytecode.OpStbp:
			offset := vm.nextQuarter()
			value := vm.popw()
			vm.stw(uint32(int32(vm.BP)+int32(offset)), value)
		case bytecode.OpLda:
			addr := vm.nextWord()
			vm.pushw(vm.ldw(uint32(addr)))
		case bytecode.OpSta:
			addr := vm.nextWord()
			value := vm.popw()
			vm.stw(uint32(addr), value)
		case bytecode.OpLdi:
			addr := vm.popw()
			vm.pushw(vm.ldw(uint32(addr)))
		case bytecode.OpSti:
			addr := vm.popw()
			value := vm.popw()
			vm.stw(uint32(addr), value)
		case bytecode.OpPrint:
			vm.doPrint()
		case bytecode.OpCall:
			addr := vm.popw()
			vm.pushw(int64(vm.PC))
			vm.PC = uint32(addr)
		case bytecode.OpFuncpro:
			vm.pushw(int64(vm.BP))
			vm.BP = vm.SP
		case bytecode.OpRet:
			vm.SP = vm.BP
			vm.BP = uint32(vm.popw())
			vm.PC = uint32(vm.popw())
		case bytecode.OpExit:
			var top int64
			if vm.SP >= bytecode.WordSize {
				top = vm.ldw(vm.SP - bytecode.WordSize)
			}
			return top, nil
		default:
			vm.fault("unknown opcode %d", byte(op))
		}
	}
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (vm *VM) doPrint() {
	n := vm.nextByte()
	buf := make([]int64, n)
	for i := int(n) - 1; i >= 0; i-- {
		buf[i] = vm.popw()
	}
	for i, w := range buf {
		if i > 0 {
			fmt.Fprint(vm.Out, " ")
		}
		fmt.Fprint(vm.Out, w)
	}
	fmt.Fprintln(vm.Out)
}

// dumpStack writes a single debug trace line: the instruction about to
// execute, the current bp, and every live word slot on the stack.
func (vm *VM) dumpStack() {
	op := vm.Code.ReadOp(vm.PC)
	fmt.Fprintf(vm.DebugOut, "pc=%-4d bp=%-4d op=%-8s stack=[", vm.PC, vm.BP, op)
	for addr := uint32(0); addr < vm.SP; addr += bytecode.WordSize {
		if addr > 0 {
			fmt.Fprint(vm.DebugOut, " ")
		}
		fmt.Fprint(vm.DebugOut, vm.ldw(addr))
	}
	fmt.Fprintln(vm.DebugOut, "]")
}
