package vm

import (
	"errors"
	"fmt"
	"io"

	"github.com/chazu/javelin/pkg/bytecode"
	"github.com/chazu/javelin/pkg/classfile"
)

// Frame is a single method activation: program counter, code array,
// operand stack, and local variable array.
type Frame struct {
	pc     int
	code   []byte
	stack  []Value
	locals []Value
	pool   classfile.ConstantPool
	trace  io.Writer

	result   Value
	returned bool
}

// NewFrame builds a frame for a method's Code attribute. The local
// array is sized by max_locals; the operand stack starts empty with
// max_stack capacity.
func NewFrame(code *classfile.CodeAttribute, pool classfile.ConstantPool) *Frame {
	return &Frame{
		code:   code.Code,
		stack:  make([]Value, 0, code.MaxStack),
		locals: make([]Value, code.MaxLocals),
		pool:   pool,
	}
}

// SetTrace directs a one-line-per-instruction execution trace to w.
func (f *Frame) SetTrace(w io.Writer) { f.trace = w }

// PC returns the offset of the next instruction to execute.
func (f *Frame) PC() int { return f.pc }

// Returned reports whether the frame has executed a return instruction.
func (f *Frame) Returned() bool { return f.returned }

// Result returns the value produced by a completed frame. Void methods
// produce the empty Value.
func (f *Frame) Result() Value { return f.result }

// Stack returns a copy of the operand stack, bottom first.
func (f *Frame) Stack() []Value {
	out := make([]Value, len(f.stack))
	copy(out, f.stack)
	return out
}

// Local returns the value in local variable slot i.
func (f *Frame) Local(i int) (Value, error) {
	return f.localAt(i)
}

// SetLocal stores v into local slot i with the width rule applied: a
// long or double claims slot i+1 as well, and overwriting either half
// of a stored wide value invalidates it.
func (f *Frame) SetLocal(i int, v Value) error {
	return f.storeLocal(i, v)
}

// Step decodes and executes one instruction, reporting whether the
// frame has returned. Stepping a returned frame is a no-op.
func (f *Frame) Step() (bool, error) {
	if f.returned {
		return true, nil
	}
	in, err := bytecode.DecodeAt(f.code, f.pc)
	if err != nil {
		var op bytecode.Opcode
		if f.pc >= 0 && f.pc < len(f.code) {
			op = bytecode.Opcode(f.code[f.pc])
		}
		return false, &Fault{PC: f.pc, Op: op, Err: fmt.Errorf("%w: %v", ErrMissingOperand, err)}
	}
	if f.trace != nil {
		fmt.Fprintf(f.trace, "[%04X] %-14s\n", in.Off, in.String())
	}
	// Branch handlers overwrite this.
	f.pc = in.Next()
	if err := f.execute(in); err != nil {
		var flt *Fault
		if errors.As(err, &flt) {
			return false, err
		}
		return false, &Fault{PC: in.Off, Op: in.Op, Err: err}
	}
	return f.returned, nil
}

// Run steps until the method returns or faults.
func (f *Frame) Run() (Value, error) {
	for {
		done, err := f.Step()
		if err != nil {
			return Value{}, err
		}
		if done {
			return f.result, nil
		}
	}
}

func (f *Frame) finish(v Value) {
	f.result = v
	f.returned = true
}

func (f *Frame) push(v Value) {
	f.stack = append(f.stack, v)
}

func (f *Frame) pop() (Value, error) {
	if len(f.stack) == 0 {
		return Value{}, ErrStackUnderflow
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v, nil
}

func (f *Frame) popKind(k Kind) (Value, error) {
	if len(f.stack) == 0 {
		return Value{}, fmt.Errorf("%w: need %s", ErrStackUnderflow, k)
	}
	v, _ := f.pop()
	if v.kind != k {
		return Value{}, fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, v.kind, k)
	}
	return v, nil
}

func (f *Frame) popInt() (int32, error) {
	v, err := f.popKind(KindInt)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

func (f *Frame) popLong() (int64, error) {
	v, err := f.popKind(KindLong)
	if err != nil {
		return 0, err
	}
	return v.Long(), nil
}

func (f *Frame) localAt(idx int) (Value, error) {
	if idx < 0 || idx >= len(f.locals) {
		return Value{}, fmt.Errorf("%w: %d of %d", ErrBadLocalIndex, idx, len(f.locals))
	}
	return f.locals[idx], nil
}

// storeLocal writes v to slot idx. Wide values claim idx+1 too, and
// overwriting either half of a previously stored wide value clears it.
func (f *Frame) storeLocal(idx int, v Value) error {
	end := idx
	if v.IsWide() {
		end = idx + 1
	}
	if idx < 0 || end >= len(f.locals) {
		return fmt.Errorf("%w: %d of %d", ErrBadLocalIndex, idx, len(f.locals))
	}
	if idx > 0 && f.locals[idx-1].IsWide() {
		f.locals[idx-1] = Value{}
	}
	if f.locals[idx].IsWide() && idx+1 < len(f.locals) {
		f.locals[idx+1] = Value{}
	}
	f.locals[idx] = v
	if v.IsWide() {
		f.locals[idx+1] = Value{}
	}
	return nil
}

func (f *Frame) loadVar(idx int, want Kind) error {
	v, err := f.localAt(idx)
	if err != nil {
		return err
	}
	if v.kind != want {
		return fmt.Errorf("%w: local %d is %s, want %s", ErrTypeMismatch, idx, v.kind, want)
	}
	f.push(v)
	return nil
}

func (f *Frame) storeVar(idx int, want Kind) error {
	v, err := f.popKind(want)
	if err != nil {
		return err
	}
	return f.storeLocal(idx, v)
}

// storeRef handles astore, which accepts references and, per jsr
// semantics, return addresses.
func (f *Frame) storeRef(idx int) error {
	v, err := f.pop()
	if err != nil {
		return fmt.Errorf("%w: need reference", ErrStackUnderflow)
	}
	if v.kind != KindReference && v.kind != KindReturnAddress {
		return fmt.Errorf("%w: have %s, want reference", ErrTypeMismatch, v.kind)
	}
	return f.storeLocal(idx, v)
}
