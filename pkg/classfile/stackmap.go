package classfile

import "fmt"

// Verification type tags used by stack map frames.
const (
	ItemTop               = 0
	ItemInteger           = 1
	ItemFloat             = 2
	ItemDouble            = 3
	ItemLong              = 4
	ItemNull              = 5
	ItemUninitializedThis = 6
	ItemObject            = 7
	ItemUninitialized     = 8
)

// VerificationType is one verification_type_info entry. Index holds the
// constant pool index for Object and the new-instruction offset for
// Uninitialized; it is zero for all other kinds.
type VerificationType struct {
	Kind  uint8
	Index uint16
}

func (v VerificationType) String() string {
	switch v.Kind {
	case ItemTop:
		return "top"
	case ItemInteger:
		return "int"
	case ItemFloat:
		return "float"
	case ItemDouble:
		return "double"
	case ItemLong:
		return "long"
	case ItemNull:
		return "null"
	case ItemUninitializedThis:
		return "uninitializedThis"
	case ItemObject:
		return fmt.Sprintf("object #%d", v.Index)
	case ItemUninitialized:
		return fmt.Sprintf("uninitialized %d", v.Index)
	default:
		return fmt.Sprintf("verification(%d)", v.Kind)
	}
}

func readVerificationType(r *reader) (VerificationType, error) {
	kind, err := r.u8()
	if err != nil {
		return VerificationType{}, err
	}
	switch kind {
	case ItemTop, ItemInteger, ItemFloat, ItemDouble, ItemLong,
		ItemNull, ItemUninitializedThis:
		return VerificationType{Kind: kind}, nil
	case ItemObject, ItemUninitialized:
		idx, err := r.u16()
		if err != nil {
			return VerificationType{}, err
		}
		return VerificationType{Kind: kind, Index: idx}, nil
	default:
		return VerificationType{}, fmt.Errorf("%w: %d", ErrInvalidVerificationTag, kind)
	}
}

func readVerificationTypes(r *reader, count int) ([]VerificationType, error) {
	types := make([]VerificationType, 0, count)
	for i := 0; i < count; i++ {
		t, err := readVerificationType(r)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// StackMapFrame is one stack_map_frame entry. The frame tag selects the
// variant; OffsetDelta is the encoded delta, not an absolute offset.
type StackMapFrame interface {
	FrameTag() uint8
}

// SameFrame covers tags 0-63: same locals, empty stack, delta = tag.
type SameFrame struct {
	Tag uint8
}

func (f *SameFrame) FrameTag() uint8 { return f.Tag }

// SameLocals1Frame covers tags 64-127: one stack item, delta = tag - 64.
type SameLocals1Frame struct {
	Tag   uint8
	Stack VerificationType
}

func (f *SameLocals1Frame) FrameTag() uint8 { return f.Tag }

// SameLocals1ExtendedFrame is tag 247: one stack item, explicit delta.
type SameLocals1ExtendedFrame struct {
	OffsetDelta uint16
	Stack       VerificationType
}

func (f *SameLocals1ExtendedFrame) FrameTag() uint8 { return 247 }

// ChopFrame covers tags 248-250: the last 251 - tag locals are absent.
type ChopFrame struct {
	Tag         uint8
	OffsetDelta uint16
}

func (f *ChopFrame) FrameTag() uint8 { return f.Tag }

// SameFrameExtended is tag 251: same locals, empty stack, explicit delta.
type SameFrameExtended struct {
	OffsetDelta uint16
}

func (f *SameFrameExtended) FrameTag() uint8 { return 251 }

// AppendFrame covers tags 252-254: tag - 251 additional locals.
type AppendFrame struct {
	Tag         uint8
	OffsetDelta uint16
	Locals      []VerificationType
}

func (f *AppendFrame) FrameTag() uint8 { return f.Tag }

// FullFrame is tag 255: complete locals and stack.
type FullFrame struct {
	OffsetDelta uint16
	Locals      []VerificationType
	Stack       []VerificationType
}

func (f *FullFrame) FrameTag() uint8 { return 255 }

// UnusedFrame covers the reserved tags 128-246. The tag is preserved so
// callers can report what they saw.
type UnusedFrame struct {
	Tag uint8
}

func (f *UnusedFrame) FrameTag() uint8 { return f.Tag }

func readStackMapFrame(r *reader) (StackMapFrame, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch {
	case tag <= 63:
		return &SameFrame{Tag: tag}, nil
	case tag <= 127:
		stack, err := readVerificationType(r)
		if err != nil {
			return nil, err
		}
		return &SameLocals1Frame{Tag: tag, Stack: stack}, nil
	case tag <= 246:
		return &UnusedFrame{Tag: tag}, nil
	case tag == 247:
		delta, err := r.u16()
		if err != nil {
			return nil, err
		}
		stack, err := readVerificationType(r)
		if err != nil {
			return nil, err
		}
		return &SameLocals1ExtendedFrame{OffsetDelta: delta, Stack: stack}, nil
	case tag <= 250:
		delta, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &ChopFrame{Tag: tag, OffsetDelta: delta}, nil
	case tag == 251:
		delta, err := r.u16()
		if err != nil {
			return nil, err
		}
		return &SameFrameExtended{OffsetDelta: delta}, nil
	case tag <= 254:
		delta, err := r.u16()
		if err != nil {
			return nil, err
		}
		locals, err := readVerificationTypes(r, int(tag)-251)
		if err != nil {
			return nil, err
		}
		return &AppendFrame{Tag: tag, OffsetDelta: delta, Locals: locals}, nil
	default: // 255
		delta, err := r.u16()
		if err != nil {
			return nil, err
		}
		localCount, err := r.u16()
		if err != nil {
			return nil, err
		}
		locals, err := readVerificationTypes(r, int(localCount))
		if err != nil {
			return nil, err
		}
		stackCount, err := r.u16()
		if err != nil {
			return nil, err
		}
		stack, err := readVerificationTypes(r, int(stackCount))
		if err != nil {
			return nil, err
		}
		return &FullFrame{OffsetDelta: delta, Locals: locals, Stack: stack}, nil
	}
}

func readStackMapFrames(r *reader) ([]StackMapFrame, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	frames := make([]StackMapFrame, 0, count)
	for i := 0; i < int(count); i++ {
		f, err := readStackMapFrame(r)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}
