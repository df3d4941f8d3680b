package vm

import (
	"errors"
	"fmt"

	"github.com/chazu/javelin/pkg/bytecode"
)

// Fault cause sentinels. Every Fault wraps exactly one of these.
var (
	// ErrStackUnderflow means an instruction needed more operand stack
	// values than were present.
	ErrStackUnderflow = errors.New("operand stack underflow")
	// ErrTypeMismatch means a stack or local value had the wrong kind
	// for the instruction consuming it.
	ErrTypeMismatch = errors.New("operand type mismatch")
	// ErrMissingOperand means the instruction could not be decoded at
	// the current pc.
	ErrMissingOperand = errors.New("cannot decode instruction")
	// ErrBadLocalIndex means a local variable index fell outside the
	// frame's local array, counting the second slot of wide values.
	ErrBadLocalIndex = errors.New("local variable index out of range")
	// ErrUnimplementedOpcode marks instructions outside the supported
	// subset, such as method invocation and object creation.
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
	// ErrDivideByZero is raised by idiv and irem with a zero divisor.
	ErrDivideByZero = errors.New("division by zero")
	// ErrBadConstant means an ldc-family index did not resolve to a
	// loadable constant of the right width.
	ErrBadConstant = errors.New("unloadable constant")
)

// Fault describes an execution failure at a specific instruction.
// Execution never panics on malformed input; it stops with a Fault.
type Fault struct {
	PC  int
	Op  bytecode.Opcode
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("vm: %s at pc %d: %v", f.Op, f.PC, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
