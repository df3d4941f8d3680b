package classfile

import (
	"errors"
	"fmt"
)

// Decode errors: the byte stream itself is malformed. These abort the
// in-progress read and surface wrapped in a *DecodeError.
var (
	ErrUnexpectedEOF          = errors.New("unexpected end of class data")
	ErrInvalidConstantTag     = errors.New("invalid constant pool tag")
	ErrInvalidAttributeName   = errors.New("attribute name index does not resolve to a Utf8 constant")
	ErrInvalidVerificationTag = errors.New("invalid verification type tag")
	ErrInvalidTargetType      = errors.New("invalid type annotation target type")
	ErrInvalidTargetInfo      = errors.New("invalid type annotation target info")
	ErrInvalidTypePathKind    = errors.New("invalid type path kind")
)

// Format errors: the stream decoded completely but violates a structural
// rule. Produced by Check and surfaced wrapped in a *FormatError.
var (
	ErrIncorrectMagic       = errors.New("incorrect magic number")
	ErrExtraBytes           = errors.New("trailing bytes after class structure")
	ErrInvalidIndex         = errors.New("constant pool index out of range")
	ErrInvalidConstant      = errors.New("constant pool entry has unexpected kind")
	ErrInvalidDescriptor    = errors.New("malformed descriptor")
	ErrInvalidReferenceKind = errors.New("invalid method handle reference kind")
	ErrMissingAttribute     = errors.New("required attribute missing")
	ErrTooManyFlags         = errors.New("module class carries additional access flags")
)

// DecodeError reports where in the stream a decode failed.
type DecodeError struct {
	Err     error
	Section string
	Offset  int
}

func (e *DecodeError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("classfile: %s at offset %d: %v", e.Section, e.Offset, e.Err)
	}
	return fmt.Sprintf("classfile: at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FormatError reports the first structural violation found by Check.
type FormatError struct {
	Err    error
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("classfile: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("classfile: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrf(err error, format string, args ...interface{}) error {
	return &FormatError{Err: err, Detail: fmt.Sprintf(format, args...)}
}
