package vm

import "fmt"

// Fault reports a virtual machine runtime fault: an unknown opcode,
// division by zero, or an out-of-range stack or code access. Faults are
// always fatal — the machine halts after reporting exactly one of them,
// with no attempt at recovery.
type Fault struct {
	PC      uint32
	Message string
}

func (f Fault) Error() string {
	return fmt.Sprintf("💥 vm fault at pc=%d: %s", f.PC, f.Message)
}

func (vm *VM) fault(format string, args ...any) {
	panic(Fault{PC: vm.PC, Message: fmt.Sprintf(format, args...)})
}
