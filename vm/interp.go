package vm

import (
	"fmt"

	"github.com/chazu/javelin/pkg/bytecode"
	"github.com/chazu/javelin/pkg/classfile"
)

// execute dispatches one decoded instruction. Step has already advanced
// pc to the fall-through point; branch handlers overwrite it. Returned
// errors wrap a fault sentinel and are promoted to *Fault by Step.
func (f *Frame) execute(in bytecode.Instruction) error {
	op := in.Op
	switch op {
	case bytecode.OpNop:
		return nil

	// --- Constants ---

	case bytecode.OpAconstNull:
		f.push(Null())
		return nil

	case bytecode.OpIconstM1, bytecode.OpIconst0, bytecode.OpIconst1, bytecode.OpIconst2,
		bytecode.OpIconst3, bytecode.OpIconst4, bytecode.OpIconst5:
		f.push(Int(int32(op) - int32(bytecode.OpIconst0)))
		return nil

	case bytecode.OpLconst0, bytecode.OpLconst1:
		f.push(Long(int64(op - bytecode.OpLconst0)))
		return nil

	case bytecode.OpFconst0, bytecode.OpFconst1, bytecode.OpFconst2:
		f.push(Float(float32(op - bytecode.OpFconst0)))
		return nil

	case bytecode.OpDconst0, bytecode.OpDconst1:
		f.push(Double(float64(op - bytecode.OpDconst0)))
		return nil

	case bytecode.OpBipush, bytecode.OpSipush:
		f.push(Int(in.Operands[0].Value))
		return nil

	case bytecode.OpLdc, bytecode.OpLdcW:
		return f.loadConstant(uint16(in.Operands[0].Value), false)

	case bytecode.OpLdc2W:
		return f.loadConstant(uint16(in.Operands[0].Value), true)

	// --- Loads ---

	case bytecode.OpIload:
		return f.loadVar(int(in.Operands[0].Value), KindInt)
	case bytecode.OpLload:
		return f.loadVar(int(in.Operands[0].Value), KindLong)
	case bytecode.OpFload:
		return f.loadVar(int(in.Operands[0].Value), KindFloat)
	case bytecode.OpDload:
		return f.loadVar(int(in.Operands[0].Value), KindDouble)
	case bytecode.OpAload:
		return f.loadVar(int(in.Operands[0].Value), KindReference)

	case bytecode.OpIload0, bytecode.OpIload1, bytecode.OpIload2, bytecode.OpIload3:
		return f.loadVar(int(op-bytecode.OpIload0), KindInt)
	case bytecode.OpLload0, bytecode.OpLload1, bytecode.OpLload2, bytecode.OpLload3:
		return f.loadVar(int(op-bytecode.OpLload0), KindLong)
	case bytecode.OpFload0, bytecode.OpFload1, bytecode.OpFload2, bytecode.OpFload3:
		return f.loadVar(int(op-bytecode.OpFload0), KindFloat)
	case bytecode.OpDload0, bytecode.OpDload1, bytecode.OpDload2, bytecode.OpDload3:
		return f.loadVar(int(op-bytecode.OpDload0), KindDouble)
	case bytecode.OpAload0, bytecode.OpAload1, bytecode.OpAload2, bytecode.OpAload3:
		return f.loadVar(int(op-bytecode.OpAload0), KindReference)

	// --- Stores ---

	case bytecode.OpIstore:
		return f.storeVar(int(in.Operands[0].Value), KindInt)
	case bytecode.OpLstore:
		return f.storeVar(int(in.Operands[0].Value), KindLong)
	case bytecode.OpFstore:
		return f.storeVar(int(in.Operands[0].Value), KindFloat)
	case bytecode.OpDstore:
		return f.storeVar(int(in.Operands[0].Value), KindDouble)
	case bytecode.OpAstore:
		return f.storeRef(int(in.Operands[0].Value))

	case bytecode.OpIstore0, bytecode.OpIstore1, bytecode.OpIstore2, bytecode.OpIstore3:
		return f.storeVar(int(op-bytecode.OpIstore0), KindInt)
	case bytecode.OpLstore0, bytecode.OpLstore1, bytecode.OpLstore2, bytecode.OpLstore3:
		return f.storeVar(int(op-bytecode.OpLstore0), KindLong)
	case bytecode.OpFstore0, bytecode.OpFstore1, bytecode.OpFstore2, bytecode.OpFstore3:
		return f.storeVar(int(op-bytecode.OpFstore0), KindFloat)
	case bytecode.OpDstore0, bytecode.OpDstore1, bytecode.OpDstore2, bytecode.OpDstore3:
		return f.storeVar(int(op-bytecode.OpDstore0), KindDouble)
	case bytecode.OpAstore0, bytecode.OpAstore1, bytecode.OpAstore2, bytecode.OpAstore3:
		return f.storeRef(int(op - bytecode.OpAstore0))

	// --- Stack ---

	case bytecode.OpPop:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if v.IsWide() {
			return fmt.Errorf("%w: pop on %s", ErrTypeMismatch, v.kind)
		}
		return nil

	case bytecode.OpPop2:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if v.IsWide() {
			return nil
		}
		w, err := f.pop()
		if err != nil {
			return err
		}
		if w.IsWide() {
			return fmt.Errorf("%w: pop2 split a %s", ErrTypeMismatch, w.kind)
		}
		return nil

	case bytecode.OpDup:
		if len(f.stack) == 0 {
			return fmt.Errorf("%w: dup on empty stack", ErrStackUnderflow)
		}
		v := f.stack[len(f.stack)-1]
		if v.IsWide() {
			return fmt.Errorf("%w: dup on %s", ErrTypeMismatch, v.kind)
		}
		f.push(v)
		return nil

	case bytecode.OpSwap:
		b, err := f.pop()
		if err != nil {
			return err
		}
		a, err := f.pop()
		if err != nil {
			return err
		}
		if a.IsWide() || b.IsWide() {
			return fmt.Errorf("%w: swap on %s/%s", ErrTypeMismatch, a.kind, b.kind)
		}
		f.push(b)
		f.push(a)
		return nil

	// --- Integer arithmetic (two's-complement wrapping) ---

	case bytecode.OpIadd, bytecode.OpIsub, bytecode.OpImul, bytecode.OpIdiv, bytecode.OpIrem:
		b, err := f.popInt()
		if err != nil {
			return err
		}
		a, err := f.popInt()
		if err != nil {
			return err
		}
		var r int32
		switch op {
		case bytecode.OpIadd:
			r = a + b
		case bytecode.OpIsub:
			r = a - b
		case bytecode.OpImul:
			r = a * b
		case bytecode.OpIdiv:
			if b == 0 {
				return fmt.Errorf("%w: idiv", ErrDivideByZero)
			}
			r = a / b
		case bytecode.OpIrem:
			if b == 0 {
				return fmt.Errorf("%w: irem", ErrDivideByZero)
			}
			r = a % b
		}
		f.push(Int(r))
		return nil

	case bytecode.OpIneg:
		a, err := f.popInt()
		if err != nil {
			return err
		}
		f.push(Int(-a))
		return nil

	case bytecode.OpIinc:
		idx := int(in.Operands[0].Value)
		v, err := f.localAt(idx)
		if err != nil {
			return err
		}
		if v.Kind() != KindInt {
			return fmt.Errorf("%w: local %d is %s, want int", ErrTypeMismatch, idx, v.Kind())
		}
		f.locals[idx] = Int(v.Int() + in.Operands[1].Value)
		return nil

	// --- Conversions ---

	case bytecode.OpI2B, bytecode.OpI2C, bytecode.OpI2S,
		bytecode.OpI2L, bytecode.OpI2F, bytecode.OpI2D:
		a, err := f.popInt()
		if err != nil {
			return err
		}
		switch op {
		case bytecode.OpI2B:
			f.push(Int(int32(int8(a))))
		case bytecode.OpI2C:
			f.push(Int(int32(uint16(a))))
		case bytecode.OpI2S:
			f.push(Int(int32(int16(a))))
		case bytecode.OpI2L:
			f.push(Long(int64(a)))
		case bytecode.OpI2F:
			f.push(Float(float32(a)))
		case bytecode.OpI2D:
			f.push(Double(float64(a)))
		}
		return nil

	// --- Comparisons and branches ---

	case bytecode.OpLcmp:
		b, err := f.popLong()
		if err != nil {
			return err
		}
		a, err := f.popLong()
		if err != nil {
			return err
		}
		switch {
		case a < b:
			f.push(Int(-1))
		case a > b:
			f.push(Int(1))
		default:
			f.push(Int(0))
		}
		return nil

	case bytecode.OpIfeq, bytecode.OpIfne, bytecode.OpIflt,
		bytecode.OpIfge, bytecode.OpIfgt, bytecode.OpIfle:
		a, err := f.popInt()
		if err != nil {
			return err
		}
		if conditionHolds(op, a, 0) {
			f.branch(in)
		}
		return nil

	case bytecode.OpIfIcmpeq, bytecode.OpIfIcmpne, bytecode.OpIfIcmplt,
		bytecode.OpIfIcmpge, bytecode.OpIfIcmpgt, bytecode.OpIfIcmple:
		b, err := f.popInt()
		if err != nil {
			return err
		}
		a, err := f.popInt()
		if err != nil {
			return err
		}
		if conditionHolds(bytecode.OpIfeq+(op-bytecode.OpIfIcmpeq), a, b) {
			f.branch(in)
		}
		return nil

	case bytecode.OpIfAcmpeq, bytecode.OpIfAcmpne:
		b, err := f.popKind(KindReference)
		if err != nil {
			return err
		}
		a, err := f.popKind(KindReference)
		if err != nil {
			return err
		}
		same := a.ref == b.ref
		if (op == bytecode.OpIfAcmpeq) == same {
			f.branch(in)
		}
		return nil

	case bytecode.OpIfnull, bytecode.OpIfnonnull:
		v, err := f.popKind(KindReference)
		if err != nil {
			return err
		}
		if (op == bytecode.OpIfnull) == v.IsNull() {
			f.branch(in)
		}
		return nil

	case bytecode.OpGoto, bytecode.OpGotoW:
		f.branch(in)
		return nil

	// --- Returns ---

	case bytecode.OpIreturn:
		v, err := f.popKind(KindInt)
		if err != nil {
			return err
		}
		f.finish(v)
		return nil
	case bytecode.OpLreturn:
		v, err := f.popKind(KindLong)
		if err != nil {
			return err
		}
		f.finish(v)
		return nil
	case bytecode.OpFreturn:
		v, err := f.popKind(KindFloat)
		if err != nil {
			return err
		}
		f.finish(v)
		return nil
	case bytecode.OpDreturn:
		v, err := f.popKind(KindDouble)
		if err != nil {
			return err
		}
		f.finish(v)
		return nil
	case bytecode.OpAreturn:
		v, err := f.popKind(KindReference)
		if err != nil {
			return err
		}
		f.finish(v)
		return nil
	case bytecode.OpReturn:
		f.finish(Value{})
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnimplementedOpcode, op)
}

func (f *Frame) branch(in bytecode.Instruction) {
	f.pc = in.Off + int(in.Operands[0].Value)
}

// conditionHolds evaluates one of the ifeq..ifle relations on (a, b).
func conditionHolds(cond bytecode.Opcode, a, b int32) bool {
	switch cond {
	case bytecode.OpIfeq:
		return a == b
	case bytecode.OpIfne:
		return a != b
	case bytecode.OpIflt:
		return a < b
	case bytecode.OpIfge:
		return a >= b
	case bytecode.OpIfgt:
		return a > b
	case bytecode.OpIfle:
		return a <= b
	}
	return false
}

// loadConstant pushes the pool entry at index. wide selects the ldc2_w
// widths (long and double); the narrow forms take every other loadable
// constant.
func (f *Frame) loadConstant(index uint16, wide bool) error {
	entry, err := f.pool.Entry(index)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadConstant, err)
	}
	switch c := entry.(type) {
	case *classfile.ConstantLongInfo:
		if !wide {
			return fmt.Errorf("%w: constant #%d needs ldc2_w", ErrBadConstant, index)
		}
		f.push(Long(c.Long()))
		return nil
	case *classfile.ConstantDoubleInfo:
		if !wide {
			return fmt.Errorf("%w: constant #%d needs ldc2_w", ErrBadConstant, index)
		}
		f.push(Double(c.Double()))
		return nil
	}
	if wide {
		return fmt.Errorf("%w: constant #%d is %v, want long or double", ErrBadConstant, index, entry.Tag())
	}
	switch c := entry.(type) {
	case *classfile.ConstantIntegerInfo:
		f.push(Int(c.Int()))
	case *classfile.ConstantFloatInfo:
		f.push(Float(c.Float()))
	case *classfile.ConstantStringInfo:
		s, err := f.pool.Utf8At(c.StringIndex)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadConstant, err)
		}
		f.push(Reference(StringRef{Value: s}))
	case *classfile.ConstantClassInfo:
		name, err := f.pool.ClassNameAt(index)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadConstant, err)
		}
		f.push(Reference(ClassRef{Name: name}))
	default:
		return fmt.Errorf("%w: constant #%d is %v", ErrBadConstant, index, entry.Tag())
	}
	return nil
}
