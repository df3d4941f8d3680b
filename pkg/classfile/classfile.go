package classfile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ClassFile is a fully decoded class file.
type ClassFile struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  ClassAccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []Attribute
}

// FieldInfo is one field_info structure.
type FieldInfo struct {
	AccessFlags     FieldAccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// MethodInfo is one method_info structure.
type MethodInfo struct {
	AccessFlags     MethodAccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// Code returns the method's Code attribute, or nil for abstract and
// native methods.
func (m *MethodInfo) Code() *CodeAttribute {
	for _, a := range m.Attributes {
		if code, ok := a.(*CodeAttribute); ok {
			return code
		}
	}
	return nil
}

// Parse decodes and checks a class file. The magic number is verified
// before anything else is read, so corrupt data that does not start with
// 0xCAFEBABE always reports the incorrect magic rather than some
// downstream decode failure. After decoding, trailing bytes are rejected
// and the structural checks in Check run; the returned ClassFile has
// passed all of them.
func Parse(data []byte) (*ClassFile, error) {
	r := newReader(data)

	magic, err := r.u32()
	if err != nil {
		return nil, &DecodeError{Section: "magic", Offset: 0, Err: err}
	}
	if magic != Magic {
		return nil, formatErrf(ErrIncorrectMagic, "0x%08X", magic)
	}

	minor, major, err := readU16Pair(r)
	if err != nil {
		return nil, &DecodeError{Section: "version", Offset: r.pos(), Err: err}
	}

	pool, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{
		Magic:        magic,
		MinorVersion: minor,
		MajorVersion: major,
		ConstantPool: pool,
	}

	flagsOff := r.pos()
	accessFlags, err := r.u16()
	if err != nil {
		return nil, &DecodeError{Section: "access flags", Offset: flagsOff, Err: err}
	}
	cf.AccessFlags = ClassAccessFlags(accessFlags)

	classOff := r.pos()
	thisClass, superClass, err := readU16Pair(r)
	if err != nil {
		return nil, &DecodeError{Section: "class references", Offset: classOff, Err: err}
	}
	cf.ThisClass = thisClass
	cf.SuperClass = superClass

	ifaceOff := r.pos()
	interfaces, err := readU16Slice(r)
	if err != nil {
		return nil, &DecodeError{Section: "interfaces", Offset: ifaceOff, Err: err}
	}
	cf.Interfaces = interfaces

	fieldCount, err := r.u16()
	if err != nil {
		return nil, &DecodeError{Section: "field count", Offset: r.pos(), Err: err}
	}
	cf.Fields = make([]FieldInfo, 0, fieldCount)
	for i := 0; i < int(fieldCount); i++ {
		fieldOff := r.pos()
		field, err := readFieldInfo(pool, r, major)
		if err != nil {
			return nil, wrapDecode(err, fmt.Sprintf("field #%d", i), fieldOff)
		}
		cf.Fields = append(cf.Fields, field)
	}

	methodCount, err := r.u16()
	if err != nil {
		return nil, &DecodeError{Section: "method count", Offset: r.pos(), Err: err}
	}
	cf.Methods = make([]MethodInfo, 0, methodCount)
	for i := 0; i < int(methodCount); i++ {
		methodOff := r.pos()
		method, err := readMethodInfo(pool, r, major)
		if err != nil {
			return nil, wrapDecode(err, fmt.Sprintf("method #%d", i), methodOff)
		}
		cf.Methods = append(cf.Methods, method)
	}

	attrOff := r.pos()
	attrs, err := readAttributes(pool, r, major)
	if err != nil {
		return nil, wrapDecode(err, "class attributes", attrOff)
	}
	cf.Attributes = attrs

	if r.remaining() != 0 {
		return nil, formatErrf(ErrExtraBytes, "%d bytes at offset %d", r.remaining(), r.pos())
	}

	if err := cf.Check(); err != nil {
		return nil, err
	}
	return cf, nil
}

// ParseReader reads the stream to its end and parses it as a class file.
func ParseReader(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ParseFile parses the class file at path.
func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func readFieldInfo(pool ConstantPool, r *reader, major uint16) (FieldInfo, error) {
	access, err := r.u16()
	if err != nil {
		return FieldInfo{}, err
	}
	nameIdx, descIdx, err := readU16Pair(r)
	if err != nil {
		return FieldInfo{}, err
	}
	attrs, err := readAttributes(pool, r, major)
	if err != nil {
		return FieldInfo{}, err
	}
	return FieldInfo{
		AccessFlags:     FieldAccessFlags(access),
		NameIndex:       nameIdx,
		DescriptorIndex: descIdx,
		Attributes:      attrs,
	}, nil
}

func readMethodInfo(pool ConstantPool, r *reader, major uint16) (MethodInfo, error) {
	access, err := r.u16()
	if err != nil {
		return MethodInfo{}, err
	}
	nameIdx, descIdx, err := readU16Pair(r)
	if err != nil {
		return MethodInfo{}, err
	}
	attrs, err := readAttributes(pool, r, major)
	if err != nil {
		return MethodInfo{}, err
	}
	return MethodInfo{
		AccessFlags:     MethodAccessFlags(access),
		NameIndex:       nameIdx,
		DescriptorIndex: descIdx,
		Attributes:      attrs,
	}, nil
}

// wrapDecode adds section context to err unless it already carries some.
func wrapDecode(err error, section string, off int) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Section: section, Offset: off, Err: err}
}

// ClassName returns this class's binary name (slash-separated).
func (cf *ClassFile) ClassName() (string, error) {
	return cf.ConstantPool.ClassNameAt(cf.ThisClass)
}

// SuperClassName returns the superclass's binary name, or "" when the
// class has no superclass (java/lang/Object and module-info).
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ConstantPool.ClassNameAt(cf.SuperClass)
}

// InterfaceNames returns the binary names of all direct superinterfaces.
func (cf *ClassFile) InterfaceNames() ([]string, error) {
	names := make([]string, 0, len(cf.Interfaces))
	for _, idx := range cf.Interfaces {
		name, err := cf.ConstantPool.ClassNameAt(idx)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// SourceFile returns the SourceFile attribute's value when present.
func (cf *ClassFile) SourceFile() (string, bool) {
	for _, a := range cf.Attributes {
		if sf, ok := a.(*SourceFileAttribute); ok {
			name, err := cf.ConstantPool.Utf8At(sf.SourceFileIndex)
			if err != nil {
				return "", false
			}
			return name, true
		}
	}
	return "", false
}

// BootstrapMethods returns the class's BootstrapMethods attribute, or
// nil when absent.
func (cf *ClassFile) BootstrapMethods() *BootstrapMethodsAttribute {
	for _, a := range cf.Attributes {
		if bsm, ok := a.(*BootstrapMethodsAttribute); ok {
			return bsm
		}
	}
	return nil
}

// FindMethod returns the first method with the given name, and
// descriptor when descriptor is non-empty. Nil when no method matches.
func (cf *ClassFile) FindMethod(name, descriptor string) *MethodInfo {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		mName, err := cf.ConstantPool.Utf8At(m.NameIndex)
		if err != nil || mName != name {
			continue
		}
		if descriptor == "" {
			return m
		}
		mDesc, err := cf.ConstantPool.Utf8At(m.DescriptorIndex)
		if err == nil && mDesc == descriptor {
			return m
		}
	}
	return nil
}
