package classfile

import "fmt"

// Annotation is one annotation structure: a type descriptor index and
// named element values.
type Annotation struct {
	TypeIndex uint16
	Elements  []ElementValuePair
}

// ElementValuePair binds an element name index to its value.
type ElementValuePair struct {
	NameIndex uint16
	Value     ElementValue
}

// ElementValue is one node of the recursive element_value grammar.
type ElementValue interface {
	ElementTag() byte
}

// ConstElementValue covers the constant-index tags B C D F I J S Z s.
type ConstElementValue struct {
	Tag             byte
	ConstValueIndex uint16
}

func (v *ConstElementValue) ElementTag() byte { return v.Tag }

// EnumElementValue is the 'e' form: an enum type and constant name.
type EnumElementValue struct {
	TypeNameIndex  uint16
	ConstNameIndex uint16
}

func (v *EnumElementValue) ElementTag() byte { return 'e' }

// ClassElementValue is the 'c' form: a class literal.
type ClassElementValue struct {
	ClassInfoIndex uint16
}

func (v *ClassElementValue) ElementTag() byte { return 'c' }

// AnnotationElementValue is the '@' form: a nested annotation.
type AnnotationElementValue struct {
	Annotation Annotation
}

func (v *AnnotationElementValue) ElementTag() byte { return '@' }

// ArrayElementValue is the '[' form: a sequence of element values.
type ArrayElementValue struct {
	Values []ElementValue
}

func (v *ArrayElementValue) ElementTag() byte { return '[' }

// UnknownElementValue preserves an unassigned tag byte. It consumes no
// payload; within its length-bounded attribute the worst outcome is a
// truncation error, never a desync of the outer structure.
type UnknownElementValue struct {
	Tag byte
}

func (v *UnknownElementValue) ElementTag() byte { return v.Tag }

func readAnnotation(r *reader) (Annotation, error) {
	typeIdx, err := r.u16()
	if err != nil {
		return Annotation{}, err
	}
	pairs, err := readElementValuePairs(r)
	if err != nil {
		return Annotation{}, err
	}
	return Annotation{TypeIndex: typeIdx, Elements: pairs}, nil
}

func readElementValuePairs(r *reader) ([]ElementValuePair, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	pairs := make([]ElementValuePair, 0, count)
	for i := 0; i < int(count); i++ {
		nameIdx, err := r.u16()
		if err != nil {
			return nil, err
		}
		value, err := readElementValue(r)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ElementValuePair{NameIndex: nameIdx, Value: value})
	}
	return pairs, nil
}

func readElementValue(r *reader) (ElementValue, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ConstElementValue{Tag: tag, ConstValueIndex: idx}, nil
	case 'e':
		typeIdx, constIdx, err := readU16Pair(r)
		if err != nil {
			return nil, err
		}
		return &EnumElementValue{TypeNameIndex: typeIdx, ConstNameIndex: constIdx}, nil
	case 'c':
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ClassElementValue{ClassInfoIndex: idx}, nil
	case '@':
		ann, err := readAnnotation(r)
		if err != nil {
			return nil, err
		}
		return &AnnotationElementValue{Annotation: ann}, nil
	case '[':
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		values := make([]ElementValue, 0, count)
		for i := 0; i < int(count); i++ {
			v, err := readElementValue(r)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return &ArrayElementValue{Values: values}, nil
	default:
		return &UnknownElementValue{Tag: tag}, nil
	}
}

func readAnnotations(r *reader) ([]Annotation, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	anns := make([]Annotation, 0, count)
	for i := 0; i < int(count); i++ {
		a, err := readAnnotation(r)
		if err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	return anns, nil
}

// readParameterAnnotations reads num_parameters annotation lists.
func readParameterAnnotations(r *reader) ([][]Annotation, error) {
	numParams, err := r.u8()
	if err != nil {
		return nil, err
	}
	params := make([][]Annotation, 0, numParams)
	for i := 0; i < int(numParams); i++ {
		anns, err := readAnnotations(r)
		if err != nil {
			return nil, err
		}
		params = append(params, anns)
	}
	return params, nil
}

// TypeAnnotation is one type annotation: where it applies (target and
// path through the type) plus an ordinary annotation body.
type TypeAnnotation struct {
	TargetType uint8
	TargetInfo TargetInfo
	TypePath   []TypePathEntry
	TypeIndex  uint16
	Elements   []ElementValuePair
}

// TypePathEntry is one step through a compound type. Kind 0 steps into
// an array, 1 into a nested type, 2 into a wildcard bound, 3 into a
// type argument (ArgIndex selects which).
type TypePathEntry struct {
	Kind     uint8
	ArgIndex uint8
}

// TargetInfo is the target_type-specific payload of a type annotation.
type TargetInfo interface {
	isTargetInfo()
}

type TypeParameterTarget struct {
	Index uint8
}

type SupertypeTarget struct {
	Index uint16
}

type TypeParameterBoundTarget struct {
	ParamIndex uint8
	BoundIndex uint8
}

type EmptyTarget struct{}

type FormalParameterTarget struct {
	Index uint8
}

type ThrowsTarget struct {
	Index uint16
}

// LocalVarTargetEntry is one live range of an annotated local variable.
type LocalVarTargetEntry struct {
	StartPC uint16
	Length  uint16
	Index   uint16
}

type LocalVarTarget struct {
	Entries []LocalVarTargetEntry
}

type CatchTarget struct {
	ExceptionTableIndex uint16
}

type OffsetTarget struct {
	Offset uint16
}

type TypeArgumentTarget struct {
	Offset            uint16
	TypeArgumentIndex uint8
}

func (TypeParameterTarget) isTargetInfo()      {}
func (SupertypeTarget) isTargetInfo()          {}
func (TypeParameterBoundTarget) isTargetInfo() {}
func (EmptyTarget) isTargetInfo()              {}
func (FormalParameterTarget) isTargetInfo()    {}
func (ThrowsTarget) isTargetInfo()             {}
func (LocalVarTarget) isTargetInfo()           {}
func (CatchTarget) isTargetInfo()              {}
func (OffsetTarget) isTargetInfo()             {}
func (TypeArgumentTarget) isTargetInfo()       {}

func readTypeAnnotation(r *reader) (TypeAnnotation, error) {
	targetType, err := r.u8()
	if err != nil {
		return TypeAnnotation{}, err
	}
	targetInfo, err := readTargetInfo(r, targetType)
	if err != nil {
		return TypeAnnotation{}, err
	}
	path, err := readTypePath(r)
	if err != nil {
		return TypeAnnotation{}, err
	}
	typeIdx, err := r.u16()
	if err != nil {
		return TypeAnnotation{}, err
	}
	pairs, err := readElementValuePairs(r)
	if err != nil {
		return TypeAnnotation{}, err
	}
	return TypeAnnotation{
		TargetType: targetType,
		TargetInfo: targetInfo,
		TypePath:   path,
		TypeIndex:  typeIdx,
		Elements:   pairs,
	}, nil
}

func readTargetInfo(r *reader, targetType uint8) (TargetInfo, error) {
	switch targetType {
	case 0x00, 0x01:
		idx, err := r.u8()
		if err != nil {
			return nil, err
		}
		return TypeParameterTarget{Index: idx}, nil
	case 0x10:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return SupertypeTarget{Index: idx}, nil
	case 0x11, 0x12:
		paramIdx, err := r.u8()
		if err != nil {
			return nil, err
		}
		boundIdx, err := r.u8()
		if err != nil {
			return nil, err
		}
		return TypeParameterBoundTarget{ParamIndex: paramIdx, BoundIndex: boundIdx}, nil
	case 0x13, 0x14, 0x15:
		return EmptyTarget{}, nil
	case 0x16:
		idx, err := r.u8()
		if err != nil {
			return nil, err
		}
		return FormalParameterTarget{Index: idx}, nil
	case 0x17:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return ThrowsTarget{Index: idx}, nil
	case 0x40, 0x41:
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		entries := make([]LocalVarTargetEntry, 0, count)
		for i := 0; i < int(count); i++ {
			startPC, err := r.u16()
			if err != nil {
				return nil, err
			}
			length, err := r.u16()
			if err != nil {
				return nil, err
			}
			idx, err := r.u16()
			if err != nil {
				return nil, err
			}
			entries = append(entries, LocalVarTargetEntry{StartPC: startPC, Length: length, Index: idx})
		}
		return LocalVarTarget{Entries: entries}, nil
	case 0x42:
		idx, err := r.u16()
		if err != nil {
			return nil, err
		}
		return CatchTarget{ExceptionTableIndex: idx}, nil
	case 0x43, 0x44, 0x45, 0x46:
		off, err := r.u16()
		if err != nil {
			return nil, err
		}
		return OffsetTarget{Offset: off}, nil
	case 0x47, 0x48, 0x49, 0x4A, 0x4B:
		off, err := r.u16()
		if err != nil {
			return nil, err
		}
		argIdx, err := r.u8()
		if err != nil {
			return nil, err
		}
		return TypeArgumentTarget{Offset: off, TypeArgumentIndex: argIdx}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrInvalidTargetType, targetType)
	}
}

func readTypePath(r *reader) ([]TypePathEntry, error) {
	length, err := r.u8()
	if err != nil {
		return nil, err
	}
	path := make([]TypePathEntry, 0, length)
	for i := 0; i < int(length); i++ {
		kind, err := r.u8()
		if err != nil {
			return nil, err
		}
		if kind > 3 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidTypePathKind, kind)
		}
		argIdx, err := r.u8()
		if err != nil {
			return nil, err
		}
		path = append(path, TypePathEntry{Kind: kind, ArgIndex: argIdx})
	}
	return path, nil
}

func readTypeAnnotations(r *reader) ([]TypeAnnotation, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	anns := make([]TypeAnnotation, 0, count)
	for i := 0; i < int(count); i++ {
		a, err := readTypeAnnotation(r)
		if err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	return anns, nil
}
