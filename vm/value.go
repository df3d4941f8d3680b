package vm

import (
	"fmt"
	"math"
)

// Kind tags a Value with its verification type.
type Kind uint8

const (
	// KindEmpty marks an unset local slot, including the upper half of a
	// stored long or double.
	KindEmpty Kind = iota
	KindBoolean
	KindByte
	KindChar
	KindShort
	KindInt
	KindFloat
	KindLong
	KindDouble
	KindReference
	KindReturnAddress
)

var kindNames = map[Kind]string{
	KindEmpty:         "empty",
	KindBoolean:       "boolean",
	KindByte:          "byte",
	KindChar:          "char",
	KindShort:         "short",
	KindInt:           "int",
	KindFloat:         "float",
	KindLong:          "long",
	KindDouble:        "double",
	KindReference:     "reference",
	KindReturnAddress: "returnAddress",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is one operand stack or local variable slot.
//
// Numeric payloads live in num (floats as IEEE 754 bits), references in
// ref. The zero Value is an empty slot.
type Value struct {
	kind Kind
	num  int64
	ref  any
}

// StringRef is the referent of a loaded String constant.
type StringRef struct {
	Value string
}

// ClassRef is the referent of a loaded Class constant.
type ClassRef struct {
	Name string
}

func Boolean(b bool) Value {
	n := int64(0)
	if b {
		n = 1
	}
	return Value{kind: KindBoolean, num: n}
}

func Byte(v int8) Value { return Value{kind: KindByte, num: int64(v)} }

func Char(v uint16) Value { return Value{kind: KindChar, num: int64(v)} }

func Short(v int16) Value { return Value{kind: KindShort, num: int64(v)} }

func Int(v int32) Value { return Value{kind: KindInt, num: int64(v)} }

func Long(v int64) Value { return Value{kind: KindLong, num: v} }

func Float(v float32) Value {
	return Value{kind: KindFloat, num: int64(math.Float32bits(v))}
}

func Double(v float64) Value {
	return Value{kind: KindDouble, num: int64(math.Float64bits(v))}
}

// Null returns the null reference.
func Null() Value { return Value{kind: KindReference} }

// Reference wraps a referent. Reference(nil) is null. Referents must be
// comparable: if_acmpeq and if_acmpne test identity with ==.
func Reference(o any) Value { return Value{kind: KindReference, ref: o} }

// ReturnAddress wraps a jsr return target.
func ReturnAddress(pc int) Value {
	return Value{kind: KindReturnAddress, num: int64(pc)}
}

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsWide reports whether the value occupies two slots in the local
// variable array.
func (v Value) IsWide() bool { return v.kind == KindLong || v.kind == KindDouble }

// IsNull reports whether the value is the null reference.
func (v Value) IsNull() bool { return v.kind == KindReference && v.ref == nil }

// Bool, Int, Long, Float, Double, Ref, and PC read the payload without
// checking the tag. Callers check Kind first; the interpreter's typed
// pops do this for it.

func (v Value) Bool() bool { return v.num != 0 }

func (v Value) Int() int32 { return int32(v.num) }

func (v Value) Long() int64 { return v.num }

func (v Value) Float() float32 { return math.Float32frombits(uint32(v.num)) }

func (v Value) Double() float64 { return math.Float64frombits(uint64(v.num)) }

func (v Value) Ref() any { return v.ref }

func (v Value) PC() int { return int(v.num) }

func (v Value) String() string {
	switch v.kind {
	case KindEmpty:
		return "<empty>"
	case KindBoolean:
		return fmt.Sprintf("boolean %t", v.Bool())
	case KindFloat:
		return fmt.Sprintf("float %g", v.Float())
	case KindDouble:
		return fmt.Sprintf("double %g", v.Double())
	case KindLong:
		return fmt.Sprintf("long %d", v.Long())
	case KindReference:
		switch r := v.ref.(type) {
		case nil:
			return "null"
		case StringRef:
			return fmt.Sprintf("String %q", r.Value)
		case ClassRef:
			return fmt.Sprintf("class %s", r.Name)
		default:
			return fmt.Sprintf("reference %v", r)
		}
	case KindReturnAddress:
		return fmt.Sprintf("returnAddress %d", v.PC())
	default:
		return fmt.Sprintf("%s %d", v.kind, v.num)
	}
}
