// Package vm executes JVM bytecode one frame at a time.
//
// This package contains:
//   - Tagged value representation with two-slot longs and doubles
//   - Frame state: program counter, operand stack, local variables
//   - Bytecode interpreter over the arithmetic and control-flow subset
//   - Typed faults carrying the offset and opcode of the failure
//
// Execution never panics on malformed bytecode; every bad state comes
// back as a *Fault wrapping one of the package's sentinel errors.
// Opcodes outside the implemented subset fault with
// ErrUnimplementedOpcode rather than guessing at semantics.
package vm
