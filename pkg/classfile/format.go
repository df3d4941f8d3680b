package classfile

import "strings"

// Check runs the structural format checks over a decoded class file and
// returns the first violation found. Parse calls it automatically; it is
// exported so callers can re-validate a ClassFile they have modified.
//
// The checks cover the class access flags and the cross-references
// between constant pool entries. Indexes held by the class header,
// fields, methods, and attributes are resolved lazily by their
// accessors, not here.
func (cf *ClassFile) Check() error {
	if cf.Magic != Magic {
		return formatErrf(ErrIncorrectMagic, "0x%08X", cf.Magic)
	}
	if err := cf.checkAccessFlags(); err != nil {
		return err
	}
	for i := 1; i < len(cf.ConstantPool); i++ {
		if err := cf.checkConstant(uint16(i), cf.ConstantPool[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkAccessFlags enforces that ACC_MODULE stands alone: a module-info
// class carries no other class flags.
func (cf *ClassFile) checkAccessFlags() error {
	if cf.AccessFlags.Has(ClassAccModule) && cf.AccessFlags != ClassAccModule {
		return formatErrf(ErrTooManyFlags, "ACC_MODULE set with %s",
			strings.Join(cf.AccessFlags.Names(), " "))
	}
	return nil
}

func (cf *ClassFile) checkConstant(index uint16, entry ConstantPoolEntry) error {
	p := cf.ConstantPool
	switch c := entry.(type) {
	case *ConstantClassInfo:
		_, err := p.Utf8At(c.NameIndex)
		return err

	case *ConstantStringInfo:
		_, err := p.Utf8At(c.StringIndex)
		return err

	case *ConstantNameAndTypeInfo:
		if _, err := p.Utf8At(c.NameIndex); err != nil {
			return err
		}
		_, err := p.Utf8At(c.DescriptorIndex)
		return err

	case *ConstantFieldrefInfo:
		return cf.checkMemberRef(index, c.ClassIndex, c.NameAndTypeIndex, TagFieldref)

	case *ConstantMethodrefInfo:
		return cf.checkMemberRef(index, c.ClassIndex, c.NameAndTypeIndex, TagMethodref)

	case *ConstantInterfaceMethodrefInfo:
		return cf.checkMemberRef(index, c.ClassIndex, c.NameAndTypeIndex, TagInterfaceMethodref)

	case *ConstantMethodHandleInfo:
		return cf.checkMethodHandle(index, c)

	case *ConstantMethodTypeInfo:
		desc, err := p.Utf8At(c.DescriptorIndex)
		if err != nil {
			return err
		}
		if _, ok := ParseMethodDescriptor(desc); !ok {
			return formatErrf(ErrInvalidDescriptor, "constant #%d method type %q", index, desc)
		}
		return nil

	case *ConstantDynamicInfo:
		return cf.checkDynamic(index, c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)

	case *ConstantInvokeDynamicInfo:
		return cf.checkDynamic(index, c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)

	case *ConstantModuleInfo:
		if _, err := p.Utf8At(c.NameIndex); err != nil {
			return err
		}
		if !cf.AccessFlags.Has(ClassAccModule) {
			return formatErrf(ErrInvalidConstant, "constant #%d is Module but class lacks ACC_MODULE", index)
		}
		return nil

	case *ConstantPackageInfo:
		if _, err := p.Utf8At(c.NameIndex); err != nil {
			return err
		}
		if !cf.AccessFlags.Has(ClassAccModule) {
			return formatErrf(ErrInvalidConstant, "constant #%d is Package but class lacks ACC_MODULE", index)
		}
		return nil

	default:
		// Utf8, Integer, Float, Long, Double, and the sentinels are
		// self-contained.
		return nil
	}
}

// checkMemberRef validates the class and name-and-type references of a
// Fieldref, Methodref, or InterfaceMethodref, including its descriptor.
// Constructors must return void.
func (cf *ClassFile) checkMemberRef(index, classIdx, natIdx uint16, tag ConstantTag) error {
	p := cf.ConstantPool
	if _, err := p.ClassNameAt(classIdx); err != nil {
		return err
	}
	name, desc, err := p.NameAndTypeAt(natIdx)
	if err != nil {
		return err
	}
	if tag == TagFieldref {
		types, ok := ParseFieldDescriptor(desc)
		if !ok || len(types) != 1 {
			return formatErrf(ErrInvalidDescriptor, "constant #%d field %s %q", index, name, desc)
		}
		return nil
	}
	mt, ok := ParseMethodDescriptor(desc)
	if !ok {
		return formatErrf(ErrInvalidDescriptor, "constant #%d method %s %q", index, name, desc)
	}
	if name == "<init>" && mt.Return != nil {
		return formatErrf(ErrInvalidDescriptor, "constant #%d constructor %q returns non-void", index, desc)
	}
	return nil
}

// checkMethodHandle validates the reference kind and that the referenced
// constant matches it. Class files at major version 52 and above may use
// interface method references for invokeStatic and invokeSpecial.
func (cf *ClassFile) checkMethodHandle(index uint16, c *ConstantMethodHandleInfo) error {
	target, err := cf.ConstantPool.Entry(c.ReferenceIndex)
	if err != nil {
		return err
	}
	var ok bool
	switch c.ReferenceKind {
	case RefGetField, RefGetStatic, RefPutField, RefPutStatic:
		_, ok = target.(*ConstantFieldrefInfo)
	case RefInvokeVirtual, RefNewInvokeSpecial:
		_, ok = target.(*ConstantMethodrefInfo)
	case RefInvokeStatic, RefInvokeSpecial:
		if _, isMethod := target.(*ConstantMethodrefInfo); isMethod {
			ok = true
		} else if _, isIface := target.(*ConstantInterfaceMethodrefInfo); isIface {
			ok = cf.MajorVersion >= 52
		}
	case RefInvokeInterface:
		_, ok = target.(*ConstantInterfaceMethodrefInfo)
	default:
		return formatErrf(ErrInvalidReferenceKind, "constant #%d kind %d", index, uint8(c.ReferenceKind))
	}
	if !ok {
		return formatErrf(ErrInvalidConstant,
			"constant #%d %s handle references #%d (%v)",
			index, c.ReferenceKind, c.ReferenceIndex, target.Tag())
	}
	return nil
}

// checkDynamic validates a Dynamic or InvokeDynamic constant: the
// name-and-type must resolve and the bootstrap method index must land
// inside the class's BootstrapMethods attribute.
func (cf *ClassFile) checkDynamic(index, bsmIdx, natIdx uint16) error {
	if _, _, err := cf.ConstantPool.NameAndTypeAt(natIdx); err != nil {
		return err
	}
	bsm := cf.BootstrapMethods()
	if bsm == nil {
		return formatErrf(ErrMissingAttribute, "constant #%d needs BootstrapMethods", index)
	}
	if int(bsmIdx) >= len(bsm.Methods) {
		return formatErrf(ErrInvalidIndex,
			"constant #%d bootstrap method #%d of %d", index, bsmIdx, len(bsm.Methods))
	}
	return nil
}
