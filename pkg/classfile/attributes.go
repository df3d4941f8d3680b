package classfile

import (
	"errors"
	"fmt"
)

// Canonical attribute names. The decoder dispatches on these; anything
// else is preserved as an UnknownAttribute with its payload skipped.
const (
	attrConstantValue                        = "ConstantValue"
	attrCode                                 = "Code"
	attrStackMapTable                        = stackMapTableName
	attrExceptions                           = "Exceptions"
	attrInnerClasses                         = "InnerClasses"
	attrEnclosingMethod                      = "EnclosingMethod"
	attrSynthetic                            = "Synthetic"
	attrSignature                            = "Signature"
	attrSourceFile                           = "SourceFile"
	attrSourceDebugExtension                 = "SourceDebugExtension"
	attrLineNumberTable                      = "LineNumberTable"
	attrLocalVariableTable                   = "LocalVariableTable"
	attrLocalVariableTypeTable               = "LocalVariableTypeTable"
	attrDeprecated                           = "Deprecated"
	attrRuntimeVisibleAnnotations            = "RuntimeVisibleAnnotations"
	attrRuntimeInvisibleAnnotations          = "RuntimeInvisibleAnnotations"
	attrRuntimeVisibleParameterAnnotations   = "RuntimeVisibleParameterAnnotations"
	attrRuntimeInvisibleParameterAnnotations = "RuntimeInvisibleParameterAnnotations"
	attrRuntimeVisibleTypeAnnotations        = "RuntimeVisibleTypeAnnotations"
	attrRuntimeInvisibleTypeAnnotations      = "RuntimeInvisibleTypeAnnotations"
	attrAnnotationDefault                    = "AnnotationDefault"
	attrBootstrapMethods                     = "BootstrapMethods"
	attrMethodParameters                     = "MethodParameters"
	attrModule                               = "Module"
	attrModulePackages                       = "ModulePackages"
	attrModuleMainClass                      = "ModuleMainClass"
	attrNestHost                             = "NestHost"
	attrNestMembers                          = "NestMembers"
	attrRecord                               = "Record"
	attrPermittedSubclasses                  = "PermittedSubclasses"
)

// Attribute is any decoded attribute_info structure.
type Attribute interface {
	AttributeName() string
}

type ConstantValueAttribute struct {
	NameIndex          uint16
	ConstantValueIndex uint16
}

func (a *ConstantValueAttribute) AttributeName() string { return attrConstantValue }

// ExceptionTableEntry is one handler range in a Code attribute.
// CatchType 0 means the handler catches everything.
type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

type CodeAttribute struct {
	NameIndex      uint16
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []Attribute
}

func (a *CodeAttribute) AttributeName() string { return attrCode }

type StackMapTableAttribute struct {
	NameIndex uint16
	Frames    []StackMapFrame
}

func (a *StackMapTableAttribute) AttributeName() string { return attrStackMapTable }

type ExceptionsAttribute struct {
	NameIndex           uint16
	ExceptionIndexTable []uint16
}

func (a *ExceptionsAttribute) AttributeName() string { return attrExceptions }

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags ClassAccessFlags
}

type InnerClassesAttribute struct {
	NameIndex uint16
	Classes   []InnerClassEntry
}

func (a *InnerClassesAttribute) AttributeName() string { return attrInnerClasses }

type EnclosingMethodAttribute struct {
	NameIndex   uint16
	ClassIndex  uint16
	MethodIndex uint16
}

func (a *EnclosingMethodAttribute) AttributeName() string { return attrEnclosingMethod }

type SyntheticAttribute struct {
	NameIndex uint16
}

func (a *SyntheticAttribute) AttributeName() string { return attrSynthetic }

type SignatureAttribute struct {
	NameIndex      uint16
	SignatureIndex uint16
}

func (a *SignatureAttribute) AttributeName() string { return attrSignature }

type SourceFileAttribute struct {
	NameIndex       uint16
	SourceFileIndex uint16
}

func (a *SourceFileAttribute) AttributeName() string { return attrSourceFile }

type SourceDebugExtensionAttribute struct {
	NameIndex      uint16
	DebugExtension []byte
}

func (a *SourceDebugExtensionAttribute) AttributeName() string { return attrSourceDebugExtension }

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

type LineNumberTableAttribute struct {
	NameIndex uint16
	Entries   []LineNumberEntry
}

func (a *LineNumberTableAttribute) AttributeName() string { return attrLineNumberTable }

type LocalVariableEntry struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

type LocalVariableTableAttribute struct {
	NameIndex uint16
	Entries   []LocalVariableEntry
}

func (a *LocalVariableTableAttribute) AttributeName() string { return attrLocalVariableTable }

type LocalVariableTypeEntry struct {
	StartPC        uint16
	Length         uint16
	NameIndex      uint16
	SignatureIndex uint16
	Index          uint16
}

type LocalVariableTypeTableAttribute struct {
	NameIndex uint16
	Entries   []LocalVariableTypeEntry
}

func (a *LocalVariableTypeTableAttribute) AttributeName() string { return attrLocalVariableTypeTable }

type DeprecatedAttribute struct {
	NameIndex uint16
}

func (a *DeprecatedAttribute) AttributeName() string { return attrDeprecated }

type RuntimeVisibleAnnotationsAttribute struct {
	NameIndex   uint16
	Annotations []Annotation
}

func (a *RuntimeVisibleAnnotationsAttribute) AttributeName() string {
	return attrRuntimeVisibleAnnotations
}

type RuntimeInvisibleAnnotationsAttribute struct {
	NameIndex   uint16
	Annotations []Annotation
}

func (a *RuntimeInvisibleAnnotationsAttribute) AttributeName() string {
	return attrRuntimeInvisibleAnnotations
}

type RuntimeVisibleParameterAnnotationsAttribute struct {
	NameIndex  uint16
	Parameters [][]Annotation
}

func (a *RuntimeVisibleParameterAnnotationsAttribute) AttributeName() string {
	return attrRuntimeVisibleParameterAnnotations
}

type RuntimeInvisibleParameterAnnotationsAttribute struct {
	NameIndex  uint16
	Parameters [][]Annotation
}

func (a *RuntimeInvisibleParameterAnnotationsAttribute) AttributeName() string {
	return attrRuntimeInvisibleParameterAnnotations
}

type RuntimeVisibleTypeAnnotationsAttribute struct {
	NameIndex   uint16
	Annotations []TypeAnnotation
}

func (a *RuntimeVisibleTypeAnnotationsAttribute) AttributeName() string {
	return attrRuntimeVisibleTypeAnnotations
}

type RuntimeInvisibleTypeAnnotationsAttribute struct {
	NameIndex   uint16
	Annotations []TypeAnnotation
}

func (a *RuntimeInvisibleTypeAnnotationsAttribute) AttributeName() string {
	return attrRuntimeInvisibleTypeAnnotations
}

type AnnotationDefaultAttribute struct {
	NameIndex uint16
	Default   ElementValue
}

func (a *AnnotationDefaultAttribute) AttributeName() string { return attrAnnotationDefault }

type BootstrapMethod struct {
	MethodRef uint16
	Arguments []uint16
}

type BootstrapMethodsAttribute struct {
	NameIndex uint16
	Methods   []BootstrapMethod
}

func (a *BootstrapMethodsAttribute) AttributeName() string { return attrBootstrapMethods }

type MethodParameter struct {
	NameIndex   uint16
	AccessFlags uint16
}

type MethodParametersAttribute struct {
	NameIndex  uint16
	Parameters []MethodParameter
}

func (a *MethodParametersAttribute) AttributeName() string { return attrMethodParameters }

type ModuleRequire struct {
	RequiresIndex        uint16
	RequiresFlags        uint16
	RequiresVersionIndex uint16
}

type ModuleExport struct {
	ExportsIndex uint16
	ExportsFlags uint16
	ExportsTo    []uint16
}

type ModuleOpen struct {
	OpensIndex uint16
	OpensFlags uint16
	OpensTo    []uint16
}

type ModuleProvide struct {
	ProvidesIndex uint16
	ProvidesWith  []uint16
}

type ModuleAttribute struct {
	NameIndex          uint16
	ModuleNameIndex    uint16
	ModuleFlags        uint16
	ModuleVersionIndex uint16
	Requires           []ModuleRequire
	Exports            []ModuleExport
	Opens              []ModuleOpen
	Uses               []uint16
	Provides           []ModuleProvide
}

func (a *ModuleAttribute) AttributeName() string { return attrModule }

type ModulePackagesAttribute struct {
	NameIndex      uint16
	PackageIndexes []uint16
}

func (a *ModulePackagesAttribute) AttributeName() string { return attrModulePackages }

type ModuleMainClassAttribute struct {
	NameIndex      uint16
	MainClassIndex uint16
}

func (a *ModuleMainClassAttribute) AttributeName() string { return attrModuleMainClass }

type NestHostAttribute struct {
	NameIndex      uint16
	HostClassIndex uint16
}

func (a *NestHostAttribute) AttributeName() string { return attrNestHost }

type NestMembersAttribute struct {
	NameIndex    uint16
	ClassIndexes []uint16
}

func (a *NestMembersAttribute) AttributeName() string { return attrNestMembers }

type RecordComponent struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

type RecordAttribute struct {
	NameIndex  uint16
	Components []RecordComponent
}

func (a *RecordAttribute) AttributeName() string { return attrRecord }

type PermittedSubclassesAttribute struct {
	NameIndex    uint16
	ClassIndexes []uint16
}

func (a *PermittedSubclassesAttribute) AttributeName() string { return attrPermittedSubclasses }

// UnknownAttribute preserves the name and declared length of an
// attribute the decoder does not model. The payload is skipped.
type UnknownAttribute struct {
	NameIndex uint16
	Name      string
	Length    uint32
}

func (a *UnknownAttribute) AttributeName() string { return a.Name }

// readAttributes decodes an attribute count followed by that many
// attribute_info structures. Each payload is read through its own
// length-bounded cursor, so a malformed body cannot shift the position
// of the attribute that follows it.
func readAttributes(pool ConstantPool, r *reader, major uint16) ([]Attribute, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		attrOff := r.pos()
		attr, err := readAttribute(pool, r, major)
		if err != nil {
			return nil, wrapDecode(err, fmt.Sprintf("attribute #%d", i+1), attrOff)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func readAttribute(pool ConstantPool, r *reader, major uint16) (Attribute, error) {
	nameIdx, err := r.u16()
	if err != nil {
		return nil, err
	}
	length, err := r.u32()
	if err != nil {
		return nil, err
	}
	name, err := pool.Utf8At(nameIdx)
	if err != nil {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidAttributeName, nameIdx)
	}
	body, err := r.sub(int(length))
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}

	attr, err := readAttributeBody(pool, name, nameIdx, length, body, major)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	return attr, nil
}

func readAttributeBody(pool ConstantPool, name string, nameIdx uint16, length uint32, r *reader, major uint16) (Attribute, error) {
	switch name {
	case attrConstantValue:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ConstantValueAttribute{NameIndex: nameIdx, ConstantValueIndex: idx}, nil

	case attrCode:
		return readCodeAttribute(pool, nameIdx, r, major)

	case attrStackMapTable:
		frames, err := readStackMapFrames(r)
		if err != nil {
			return nil, err
		}
		return &StackMapTableAttribute{NameIndex: nameIdx, Frames: frames}, nil

	case attrExceptions:
		table, err := readU16Slice(r)
		if err != nil {
			return nil, err
		}
		return &ExceptionsAttribute{NameIndex: nameIdx, ExceptionIndexTable: table}, nil

	case attrInnerClasses:
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		classes := make([]InnerClassEntry, 0, count)
		for i := 0; i < int(count); i++ {
			innerIdx, outerIdx, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			nameIdx, flags, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			classes = append(classes, InnerClassEntry{
				InnerClassInfoIndex:   innerIdx,
				OuterClassInfoIndex:   outerIdx,
				InnerNameIndex:        nameIdx,
				InnerClassAccessFlags: ClassAccessFlags(flags),
			})
		}
		return &InnerClassesAttribute{NameIndex: nameIdx, Classes: classes}, nil

	case attrEnclosingMethod:
		classIdx, methodIdx, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		return &EnclosingMethodAttribute{NameIndex: nameIdx, ClassIndex: classIdx, MethodIndex: methodIdx}, nil

	case attrSynthetic:
		return &SyntheticAttribute{NameIndex: nameIdx}, nil

	case attrSignature:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &SignatureAttribute{NameIndex: nameIdx, SignatureIndex: idx}, nil

	case attrSourceFile:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &SourceFileAttribute{NameIndex: nameIdx, SourceFileIndex: idx}, nil

	case attrSourceDebugExtension:
		b, err := r.bytes(r.remaining())
		if err != nil {
			return nil, err
		}
		ext := make([]byte, len(b))
		copy(ext, b)
		return &SourceDebugExtensionAttribute{NameIndex: nameIdx, DebugExtension: ext}, nil

	case attrLineNumberTable:
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		entries := make([]LineNumberEntry, 0, count)
		for i := 0; i < int(count); i++ {
			startPC, line, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			entries = append(entries, LineNumberEntry{StartPC: startPC, LineNumber: line})
		}
		return &LineNumberTableAttribute{NameIndex: nameIdx, Entries: entries}, nil

	case attrLocalVariableTable:
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		entries := make([]LocalVariableEntry, 0, count)
		for i := 0; i < int(count); i++ {
			startPC, varLen, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			varName, descIdx, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			slot, err := r.u16()
			if err != nil {
				return nil, err
			}
			entries = append(entries, LocalVariableEntry{
				StartPC:         startPC,
				Length:          varLen,
				NameIndex:       varName,
				DescriptorIndex: descIdx,
				Index:           slot,
			})
		}
		return &LocalVariableTableAttribute{NameIndex: nameIdx, Entries: entries}, nil

	case attrLocalVariableTypeTable:
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		entries := make([]LocalVariableTypeEntry, 0, count)
		for i := 0; i < int(count); i++ {
			startPC, varLen, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			varName, sigIdx, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			slot, err := r.u16()
			if err != nil {
				return nil, err
			}
			entries = append(entries, LocalVariableTypeEntry{
				StartPC:        startPC,
				Length:         varLen,
				NameIndex:      varName,
				SignatureIndex: sigIdx,
				Index:          slot,
			})
		}
		return &LocalVariableTypeTableAttribute{NameIndex: nameIdx, Entries: entries}, nil

	case attrDeprecated:
		return &DeprecatedAttribute{NameIndex: nameIdx}, nil

	case attrRuntimeVisibleAnnotations:
		anns, err := readAnnotations(r)
		if err != nil {
			return nil, err
		}
		return &RuntimeVisibleAnnotationsAttribute{NameIndex: nameIdx, Annotations: anns}, nil

	case attrRuntimeInvisibleAnnotations:
		anns, err := readAnnotations(r)
		if err != nil {
			return nil, err
		}
		return &RuntimeInvisibleAnnotationsAttribute{NameIndex: nameIdx, Annotations: anns}, nil

	case attrRuntimeVisibleParameterAnnotations:
		params, err := readParameterAnnotations(r)
		if err != nil {
			return nil, err
		}
		return &RuntimeVisibleParameterAnnotationsAttribute{NameIndex: nameIdx, Parameters: params}, nil

	case attrRuntimeInvisibleParameterAnnotations:
		params, err := readParameterAnnotations(r)
		if err != nil {
			return nil, err
		}
		return &RuntimeInvisibleParameterAnnotationsAttribute{NameIndex: nameIdx, Parameters: params}, nil

	case attrRuntimeVisibleTypeAnnotations:
		anns, err := readTypeAnnotations(r)
		if err != nil {
			return nil, err
		}
		return &RuntimeVisibleTypeAnnotationsAttribute{NameIndex: nameIdx, Annotations: anns}, nil

	case attrRuntimeInvisibleTypeAnnotations:
		anns, err := readTypeAnnotations(r)
		if err != nil {
			return nil, err
		}
		return &RuntimeInvisibleTypeAnnotationsAttribute{NameIndex: nameIdx, Annotations: anns}, nil

	case attrAnnotationDefault:
		value, err := readElementValue(r)
		if err != nil {
			return nil, err
		}
		return &AnnotationDefaultAttribute{NameIndex: nameIdx, Default: value}, nil

	case attrBootstrapMethods:
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		methods := make([]BootstrapMethod, 0, count)
		for i := 0; i < int(count); i++ {
			ref, err := r.u16()
			if err != nil {
				return nil, err
			}
			args, err := readU16Slice(r)
			if err != nil {
				return nil, err
			}
			methods = append(methods, BootstrapMethod{MethodRef: ref, Arguments: args})
		}
		return &BootstrapMethodsAttribute{NameIndex: nameIdx, Methods: methods}, nil

	case attrMethodParameters:
		count, err := r.u8()
		if err != nil {
			return nil, err
		}
		params := make([]MethodParameter, 0, count)
		for i := 0; i < int(count); i++ {
			paramName, flags, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			params = append(params, MethodParameter{NameIndex: paramName, AccessFlags: flags})
		}
		return &MethodParametersAttribute{NameIndex: nameIdx, Parameters: params}, nil

	case attrModule:
		return readModuleAttribute(nameIdx, r)

	case attrModulePackages:
		pkgs, err := readU16Slice(r)
		if err != nil {
			return nil, err
		}
		return &ModulePackagesAttribute{NameIndex: nameIdx, PackageIndexes: pkgs}, nil

	case attrModuleMainClass:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ModuleMainClassAttribute{NameIndex: nameIdx, MainClassIndex: idx}, nil

	case attrNestHost:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &NestHostAttribute{NameIndex: nameIdx, HostClassIndex: idx}, nil

	case attrNestMembers:
		classes, err := readU16Slice(r)
		if err != nil {
			return nil, err
		}
		return &NestMembersAttribute{NameIndex: nameIdx, ClassIndexes: classes}, nil

	case attrRecord:
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		components := make([]RecordComponent, 0, count)
		for i := 0; i < int(count); i++ {
			compName, descIdx, err := readU16Pair(r)
			if err != nil {
				return nil, err
			}
			compAttrs, err := readAttributes(pool, r, major)
			if err != nil {
				return nil, err
			}
			components = append(components, RecordComponent{
				NameIndex:       compName,
				DescriptorIndex: descIdx,
				Attributes:      compAttrs,
			})
		}
		return &RecordAttribute{NameIndex: nameIdx, Components: components}, nil

	case attrPermittedSubclasses:
		classes, err := readU16Slice(r)
		if err != nil {
			return nil, err
		}
		return &PermittedSubclassesAttribute{NameIndex: nameIdx, ClassIndexes: classes}, nil

	default:
		// Payload already consumed by the sub cursor carve.
		return &UnknownAttribute{NameIndex: nameIdx, Name: name, Length: length}, nil
	}
}

// readCodeAttribute decodes a Code attribute, including its nested
// attributes. Class files at major version 50 and above carry stack map
// tables; when the table is absent it is an implicit zero-entry one, and
// the decoder materializes it with its name index pointing at the
// appended Utf8 "StackMapTable" pool entry.
func readCodeAttribute(pool ConstantPool, nameIdx uint16, r *reader, major uint16) (*CodeAttribute, error) {
	maxStack, maxLocals, err := readU16Pair(r)
	if err != nil {
		return nil, err
	}
	codeLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	codeBytes, err := r.bytes(int(codeLen))
	if err != nil {
		return nil, err
	}
	code := make([]byte, len(codeBytes))
	copy(code, codeBytes)

	tableLen, err := r.u16()
	if err != nil {
		return nil, err
	}
	table := make([]ExceptionTableEntry, 0, tableLen)
	for i := 0; i < int(tableLen); i++ {
		startPC, endPC, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		handlerPC, catchType, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		table = append(table, ExceptionTableEntry{
			StartPC:   startPC,
			EndPC:     endPC,
			HandlerPC: handlerPC,
			CatchType: catchType,
		})
	}

	attrs, err := readAttributes(pool, r, major)
	if err != nil {
		return nil, err
	}
	if major >= 50 && !hasStackMapTable(attrs) {
		attrs = append(attrs, &StackMapTableAttribute{
			NameIndex: uint16(len(pool) - 1),
		})
	}

	return &CodeAttribute{
		NameIndex:      nameIdx,
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Code:           code,
		ExceptionTable: table,
		Attributes:     attrs,
	}, nil
}

func hasStackMapTable(attrs []Attribute) bool {
	for _, a := range attrs {
		if _, ok := a.(*StackMapTableAttribute); ok {
			return true
		}
	}
	return false
}

func readModuleAttribute(nameIdx uint16, r *reader) (*ModuleAttribute, error) {
	moduleName, moduleFlags, err := readU16Pair(r)
	if err != nil {
		return nil, err
	}
	moduleVersion, err := r.u16()
	if err != nil {
		return nil, err
	}

	requiresCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	requires := make([]ModuleRequire, 0, requiresCount)
	for i := 0; i < int(requiresCount); i++ {
		reqIdx, reqFlags, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		reqVersion, err := r.u16()
		if err != nil {
			return nil, err
		}
		requires = append(requires, ModuleRequire{
			RequiresIndex:        reqIdx,
			RequiresFlags:        reqFlags,
			RequiresVersionIndex: reqVersion,
		})
	}

	exportsCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	exports := make([]ModuleExport, 0, exportsCount)
	for i := 0; i < int(exportsCount); i++ {
		expIdx, expFlags, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		expTo, err := readU16Slice(r)
		if err != nil {
			return nil, err
		}
		exports = append(exports, ModuleExport{
			ExportsIndex: expIdx,
			ExportsFlags: expFlags,
			ExportsTo:    expTo,
		})
	}

	opensCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	opens := make([]ModuleOpen, 0, opensCount)
	for i := 0; i < int(opensCount); i++ {
		openIdx, openFlags, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		openTo, err := readU16Slice(r)
		if err != nil {
			return nil, err
		}
		opens = append(opens, ModuleOpen{
			OpensIndex: openIdx,
			OpensFlags: openFlags,
			OpensTo:    openTo,
		})
	}

	uses, err := readU16Slice(r)
	if err != nil {
		return nil, err
	}

	providesCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	provides := make([]ModuleProvide, 0, providesCount)
	for i := 0; i < int(providesCount); i++ {
		provIdx, err := r.u16()
		if err != nil {
			return nil, err
		}
		provWith, err := readU16Slice(r)
		if err != nil {
			return nil, err
		}
		provides = append(provides, ModuleProvide{
			ProvidesIndex: provIdx,
			ProvidesWith:  provWith,
		})
	}

	return &ModuleAttribute{
		NameIndex:          nameIdx,
		ModuleNameIndex:    moduleName,
		ModuleFlags:        moduleFlags,
		ModuleVersionIndex: moduleVersion,
		Requires:           requires,
		Exports:            exports,
		Opens:              opens,
		Uses:               uses,
		Provides:           provides,
	}, nil
}

// readU16Slice reads a u16 count followed by that many u16 values.
func readU16Slice(r *reader) ([]uint16, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	values := make([]uint16, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := r.u16()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
