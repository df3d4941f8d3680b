// Package classfile decodes JVM class files into plain Go structures.
//
// The decoder reads the documented binary layout end to end: magic and
// version, constant pool, access flags, class references, interfaces,
// fields, methods, and attributes. Decoding is strict about structure
// and permissive about content:
//
//   - Truncated or structurally broken data fails with a *DecodeError
//     naming the section and byte offset.
//   - Content the decoder does not model is preserved rather than
//     rejected: unknown attributes keep their name, unknown annotation
//     element tags and reserved stack map tags are carried as explicit
//     Unknown variants, and undecodable string constants become a
//     placeholder value.
//
// # Constant Pool
//
// The pool is 1-indexed. Slot 0 holds an always-invalid sentinel so
// that the pool can be indexed directly with the numbers the format
// uses. Long and Double constants occupy a single slot. One synthetic
// Utf8 "StackMapTable" entry is appended after the declared entries to
// give the implicit stack map table (major version 50 and above) a real
// name index to point at.
//
// # Format Checks
//
// Parse verifies the magic number before reading anything else, rejects
// trailing bytes, and then runs Check: class access flag consistency
// and the cross-references between constant pool entries, including
// descriptor syntax for member references and method types. Violations
// surface as a *FormatError wrapping a sentinel such as
// ErrIncorrectMagic or ErrInvalidDescriptor.
//
// # Descriptors
//
// ParseFieldDescriptor and ParseMethodDescriptor turn descriptor
// strings like "(ILjava/lang/String;)V" into structured types with
// external (dotted) class names, suitable for display.
package classfile
