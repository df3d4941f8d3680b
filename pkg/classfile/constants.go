package classfile

import (
	"math"
	"strings"
	"unicode/utf16"
)

// Magic is the four-byte signature every class file begins with.
const Magic = 0xCAFEBABE

// ConstantTag identifies the kind of a constant pool entry.
type ConstantTag uint8

const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20

	// TagUnknown marks the reserved slot 0 sentinel and any entry whose
	// tag byte is not assigned. Kept as a value rather than an error so
	// callers can carry forward a "don't know" state for class files
	// newer than this decoder.
	TagUnknown ConstantTag = 128
)

var constantTagNames = map[ConstantTag]string{
	TagUtf8:               "Utf8",
	TagInteger:            "Integer",
	TagFloat:              "Float",
	TagLong:               "Long",
	TagDouble:             "Double",
	TagClass:              "Class",
	TagString:             "String",
	TagFieldref:           "Fieldref",
	TagMethodref:          "Methodref",
	TagInterfaceMethodref: "InterfaceMethodref",
	TagNameAndType:        "NameAndType",
	TagMethodHandle:       "MethodHandle",
	TagMethodType:         "MethodType",
	TagDynamic:            "Dynamic",
	TagInvokeDynamic:      "InvokeDynamic",
	TagModule:             "Module",
	TagPackage:            "Package",
	TagUnknown:            "Unknown",
}

func (t ConstantTag) String() string {
	if s, ok := constantTagNames[t]; ok {
		return s
	}
	return "Unknown"
}

func constantTagFromByte(b uint8) ConstantTag {
	t := ConstantTag(b)
	if _, ok := constantTagNames[t]; ok && t != TagUnknown {
		return t
	}
	return TagUnknown
}

// MethodHandleKind is the reference_kind of a MethodHandle constant.
type MethodHandleKind uint8

const (
	RefGetField         MethodHandleKind = 1
	RefGetStatic        MethodHandleKind = 2
	RefPutField         MethodHandleKind = 3
	RefPutStatic        MethodHandleKind = 4
	RefInvokeVirtual    MethodHandleKind = 5
	RefInvokeStatic     MethodHandleKind = 6
	RefInvokeSpecial    MethodHandleKind = 7
	RefNewInvokeSpecial MethodHandleKind = 8
	RefInvokeInterface  MethodHandleKind = 9

	// RefUnknown is the carry-forward value for kinds outside 1..9.
	// The format checker rejects it; decoding does not.
	RefUnknown MethodHandleKind = 255
)

var methodHandleKindNames = map[MethodHandleKind]string{
	RefGetField:         "getField",
	RefGetStatic:        "getStatic",
	RefPutField:         "putField",
	RefPutStatic:        "putStatic",
	RefInvokeVirtual:    "invokeVirtual",
	RefInvokeStatic:     "invokeStatic",
	RefInvokeSpecial:    "invokeSpecial",
	RefNewInvokeSpecial: "newInvokeSpecial",
	RefInvokeInterface:  "invokeInterface",
}

func (k MethodHandleKind) String() string {
	if s, ok := methodHandleKindNames[k]; ok {
		return s
	}
	return "unknown"
}

func methodHandleKindFromByte(b uint8) MethodHandleKind {
	k := MethodHandleKind(b)
	if k >= RefGetField && k <= RefInvokeInterface {
		return k
	}
	return RefUnknown
}

// ConstantPoolEntry is one decoded constant pool slot.
type ConstantPoolEntry interface {
	Tag() ConstantTag
}

// ConstantUtf8Info holds a modified-UTF-8 byte sequence and its decoded
// string form. Undecodable sequences yield Utf8Placeholder rather than a
// decode failure.
type ConstantUtf8Info struct {
	Bytes []byte
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return TagUtf8 }

// ConstantIntegerInfo holds the raw bit pattern of an int constant.
type ConstantIntegerInfo struct {
	Bits uint32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return TagInteger }

// Int returns the constant as a signed 32-bit value.
func (c *ConstantIntegerInfo) Int() int32 { return int32(c.Bits) }

// ConstantFloatInfo holds the raw bit pattern of a float constant.
type ConstantFloatInfo struct {
	Bits uint32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return TagFloat }

// Float returns the constant as an IEEE 754 single.
func (c *ConstantFloatInfo) Float() float32 { return math.Float32frombits(c.Bits) }

// ConstantLongInfo holds the two 4-byte halves of a long constant. It
// occupies a single pool slot.
type ConstantLongInfo struct {
	HighBytes uint32
	LowBytes  uint32
}

func (c *ConstantLongInfo) Tag() ConstantTag { return TagLong }

// Long returns the constant as a signed 64-bit value.
func (c *ConstantLongInfo) Long() int64 {
	return int64(uint64(c.HighBytes)<<32 | uint64(c.LowBytes))
}

// ConstantDoubleInfo holds the two 4-byte halves of a double constant.
// It occupies a single pool slot.
type ConstantDoubleInfo struct {
	HighBytes uint32
	LowBytes  uint32
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return TagDouble }

// Double returns the constant as an IEEE 754 double.
func (c *ConstantDoubleInfo) Double() float64 {
	return math.Float64frombits(uint64(c.HighBytes)<<32 | uint64(c.LowBytes))
}

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return TagClass }

type ConstantStringInfo struct {
	StringIndex uint16
}

func (c *ConstantStringInfo) Tag() ConstantTag { return TagString }

type ConstantFieldrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantFieldrefInfo) Tag() ConstantTag { return TagFieldref }

type ConstantMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMethodrefInfo) Tag() ConstantTag { return TagMethodref }

type ConstantInterfaceMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantInterfaceMethodrefInfo) Tag() ConstantTag { return TagInterfaceMethodref }

type ConstantNameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndTypeInfo) Tag() ConstantTag { return TagNameAndType }

type ConstantMethodHandleInfo struct {
	ReferenceKind  MethodHandleKind
	ReferenceIndex uint16
}

func (c *ConstantMethodHandleInfo) Tag() ConstantTag { return TagMethodHandle }

type ConstantMethodTypeInfo struct {
	DescriptorIndex uint16
}

func (c *ConstantMethodTypeInfo) Tag() ConstantTag { return TagMethodType }

type ConstantDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantDynamicInfo) Tag() ConstantTag { return TagDynamic }

type ConstantInvokeDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantInvokeDynamicInfo) Tag() ConstantTag { return TagInvokeDynamic }

type ConstantModuleInfo struct {
	NameIndex uint16
}

func (c *ConstantModuleInfo) Tag() ConstantTag { return TagModule }

type ConstantPackageInfo struct {
	NameIndex uint16
}

func (c *ConstantPackageInfo) Tag() ConstantTag { return TagPackage }

// ConstantUnknownInfo fills the reserved slot 0 and stands in for entries
// whose tag byte is unassigned. RawTag preserves the byte actually read;
// it is zero for the slot 0 sentinel.
type ConstantUnknownInfo struct {
	RawTag uint8
}

func (c *ConstantUnknownInfo) Tag() ConstantTag { return TagUnknown }

// Utf8Placeholder is substituted for Utf8 payloads that cannot be decoded
// as modified UTF-8. Availability over strictness: a single bad string
// constant should not make the whole class unreadable.
const Utf8Placeholder = "(invalid modified UTF-8)"

// decodeModifiedUTF8 decodes the JVM's modified UTF-8: no bytes encode
// NUL (it uses the two-byte form 0xC0 0x80), there are no four-byte
// sequences, and supplementary characters arrive as CESU-8 surrogate
// pairs. Returns false if the sequence is malformed.
func decodeModifiedUTF8(b []byte) (string, bool) {
	var sb strings.Builder
	sb.Grow(len(b))
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			if c == 0 {
				return "", false
			}
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", false
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", false
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", false
		}
	}
	for _, r := range utf16.Decode(units) {
		sb.WriteRune(r)
	}
	return sb.String(), true
}

func decodeUtf8Constant(b []byte) string {
	s, ok := decodeModifiedUTF8(b)
	if !ok {
		return Utf8Placeholder
	}
	return s
}

// ExternalName converts an internal binary name (java/lang/String) to its
// external dotted form (java.lang.String).
func ExternalName(s string) string {
	return strings.ReplaceAll(s, "/", ".")
}
