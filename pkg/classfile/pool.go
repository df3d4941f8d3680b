package classfile

import "fmt"

// stackMapTableName is the attribute name the decoder must be able to
// reference by pool index when it synthesizes the implicit stack map
// table for class files at major version 50 and above.
const stackMapTableName = "StackMapTable"

// ConstantPool is the 1-indexed constant table. Slot 0 holds an Unknown
// sentinel and is never a valid target of a constant reference. One
// synthetic Utf8 "StackMapTable" entry is appended after the declared
// entries; the implicit stack map table's name index points at it.
type ConstantPool []ConstantPoolEntry

// readConstantPool decodes constant_pool_count followed by count-1 tagged
// entries. Long and Double entries read two 4-byte halves but occupy a
// single slot.
func readConstantPool(r *reader) (ConstantPool, error) {
	count, err := r.u16()
	if err != nil {
		return nil, &DecodeError{Section: "constant pool count", Offset: r.pos(), Err: err}
	}
	declared := 0
	if count > 0 {
		declared = int(count) - 1
	}

	pool := make(ConstantPool, 0, declared+2)
	pool = append(pool, &ConstantUnknownInfo{})

	for i := 0; i < declared; i++ {
		entryOff := r.pos()
		entry, err := readConstant(r)
		if err != nil {
			return nil, &DecodeError{
				Section: fmt.Sprintf("constant #%d", i+1),
				Offset:  entryOff,
				Err:     err,
			}
		}
		pool = append(pool, entry)
	}

	pool = append(pool, &ConstantUtf8Info{
		Bytes: []byte(stackMapTableName),
		Value: stackMapTableName,
	})
	return pool, nil
}

func readConstant(r *reader) (ConstantPoolEntry, error) {
	tagByte, err := r.u8()
	if err != nil {
		return nil, err
	}

	switch constantTagFromByte(tagByte) {
	case TagUtf8:
		length, err := r.u16()
		if err != nil {
			return nil, err
		}
		b, err := r.bytes(int(length))
		if err != nil {
			return nil, err
		}
		raw := make([]byte, len(b))
		copy(raw, b)
		return &ConstantUtf8Info{Bytes: raw, Value: decodeUtf8Constant(raw)}, nil

	case TagInteger:
		bits, err := r.u32()
		if err != nil {
			return nil, err
		}
		return &ConstantIntegerInfo{Bits: bits}, nil

	case TagFloat:
		bits, err := r.u32()
		if err != nil {
			return nil, err
		}
		return &ConstantFloatInfo{Bits: bits}, nil

	case TagLong:
		hi, lo, err := readU32Pair(r)
		if err != nil {
			return nil, err
		}
		return &ConstantLongInfo{HighBytes: hi, LowBytes: lo}, nil

	case TagDouble:
		hi, lo, err := readU32Pair(r)
		if err != nil {
			return nil, err
		}
		return &ConstantDoubleInfo{HighBytes: hi, LowBytes: lo}, nil

	case TagClass:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ConstantClassInfo{NameIndex: idx}, nil

	case TagString:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ConstantStringInfo{StringIndex: idx}, nil

	case TagFieldref:
		classIdx, natIdx, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		return &ConstantFieldrefInfo{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil

	case TagMethodref:
		classIdx, natIdx, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		return &ConstantMethodrefInfo{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil

	case TagInterfaceMethodref:
		classIdx, natIdx, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		return &ConstantInterfaceMethodrefInfo{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil

	case TagNameAndType:
		nameIdx, descIdx, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		return &ConstantNameAndTypeInfo{NameIndex: nameIdx, DescriptorIndex: descIdx}, nil

	case TagMethodHandle:
		kind, err := r.u8()
		if err != nil {
			return nil, err
		}
		refIdx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodHandleInfo{
			ReferenceKind:  methodHandleKindFromByte(kind),
			ReferenceIndex: refIdx,
		}, nil

	case TagMethodType:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ConstantMethodTypeInfo{DescriptorIndex: idx}, nil

	case TagDynamic:
		bsmIdx, natIdx, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		return &ConstantDynamicInfo{BootstrapMethodAttrIndex: bsmIdx, NameAndTypeIndex: natIdx}, nil

	case TagInvokeDynamic:
		bsmIdx, natIdx, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		return &ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: bsmIdx, NameAndTypeIndex: natIdx}, nil

	case TagModule:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ConstantModuleInfo{NameIndex: idx}, nil

	case TagPackage:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ConstantPackageInfo{NameIndex: idx}, nil

	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrInvalidConstantTag, tagByte)
	}
}

func readU16Pair(r *reader) (uint16, uint16, error) {
	a, err := r.u16()
	if err != nil {
		return 0, 0, err
	}
	b, err := r.u16()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func readU32Pair(r *reader) (uint32, uint32, error) {
	a, err := r.u32()
	if err != nil {
		return 0, 0, err
	}
	b, err := r.u32()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Entry returns the pool entry at index. Index 0 and indexes at or past
// the end of the pool fail with ErrInvalidIndex.
func (p ConstantPool) Entry(index uint16) (ConstantPoolEntry, error) {
	if index == 0 || int(index) >= len(p) {
		return nil, formatErrf(ErrInvalidIndex, "constant #%d of %d", index, len(p))
	}
	return p[index], nil
}

// Utf8At resolves index to a Utf8 entry and returns its decoded value.
func (p ConstantPool) Utf8At(index uint16) (string, error) {
	e, err := p.Entry(index)
	if err != nil {
		return "", err
	}
	u, ok := e.(*ConstantUtf8Info)
	if !ok {
		return "", formatErrf(ErrInvalidConstant, "constant #%d is %v, want Utf8", index, e.Tag())
	}
	return u.Value, nil
}

// ClassNameAt resolves index to a Class entry and returns its binary name.
func (p ConstantPool) ClassNameAt(index uint16) (string, error) {
	e, err := p.Entry(index)
	if err != nil {
		return "", err
	}
	c, ok := e.(*ConstantClassInfo)
	if !ok {
		return "", formatErrf(ErrInvalidConstant, "constant #%d is %v, want Class", index, e.Tag())
	}
	return p.Utf8At(c.NameIndex)
}

// NameAndTypeAt resolves index to a NameAndType entry and returns the
// referenced name and descriptor strings.
func (p ConstantPool) NameAndTypeAt(index uint16) (name, descriptor string, err error) {
	e, err := p.Entry(index)
	if err != nil {
		return "", "", err
	}
	nat, ok := e.(*ConstantNameAndTypeInfo)
	if !ok {
		return "", "", formatErrf(ErrInvalidConstant, "constant #%d is %v, want NameAndType", index, e.Tag())
	}
	name, err = p.Utf8At(nat.NameIndex)
	if err != nil {
		return "", "", err
	}
	descriptor, err = p.Utf8At(nat.DescriptorIndex)
	if err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// MemberRef is a resolved field, method, or interface method reference.
type MemberRef struct {
	ClassName  string
	Name       string
	Descriptor string
}

// MemberRefAt resolves a Fieldref, Methodref, or InterfaceMethodref entry
// to its class, member name, and descriptor strings.
func (p ConstantPool) MemberRefAt(index uint16) (MemberRef, error) {
	e, err := p.Entry(index)
	if err != nil {
		return MemberRef{}, err
	}
	var classIdx, natIdx uint16
	switch ref := e.(type) {
	case *ConstantFieldrefInfo:
		classIdx, natIdx = ref.ClassIndex, ref.NameAndTypeIndex
	case *ConstantMethodrefInfo:
		classIdx, natIdx = ref.ClassIndex, ref.NameAndTypeIndex
	case *ConstantInterfaceMethodrefInfo:
		classIdx, natIdx = ref.ClassIndex, ref.NameAndTypeIndex
	default:
		return MemberRef{}, formatErrf(ErrInvalidConstant,
			"constant #%d is %v, want Fieldref, Methodref or InterfaceMethodref", index, e.Tag())
	}
	className, err := p.ClassNameAt(classIdx)
	if err != nil {
		return MemberRef{}, err
	}
	name, descriptor, err := p.NameAndTypeAt(natIdx)
	if err != nil {
		return MemberRef{}, err
	}
	return MemberRef{ClassName: className, Name: name, Descriptor: descriptor}, nil
}
