package classfile

import (
	"strings"
)

// TypeKind discriminates the three field descriptor forms.
type TypeKind uint8

const (
	BaseType TypeKind = iota + 1
	ObjectType
	ArrayType
)

// FieldType is one parsed field descriptor. For BaseType, Name is the
// primitive keyword; for ObjectType and ArrayType it is the dotted class
// or element type name. Dims is the array nesting depth, zero unless
// Kind is ArrayType.
type FieldType struct {
	Name string
	Kind TypeKind
	Dims int
}

func (t FieldType) String() string {
	if t.Dims == 0 {
		return t.Name
	}
	return t.Name + strings.Repeat("[]", t.Dims)
}

// MethodType is a parsed method descriptor. A nil Return means void.
type MethodType struct {
	Params []FieldType
	Return *FieldType
}

var baseTypeNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// ParseFieldDescriptor parses a sequence of field descriptors read left
// to right: leading '[' runs mark arrays, 'L<name>;' marks an object
// type, and the single letters B C D F I J S Z map to primitives. Any
// other byte makes the whole sequence malformed: ok is false and no
// partial result is returned.
func ParseFieldDescriptor(s string) ([]FieldType, bool) {
	var types []FieldType
	i := 0
	for i < len(s) {
		t, next, ok := parseOneFieldType(s, i)
		if !ok {
			return nil, false
		}
		types = append(types, t)
		i = next
	}
	return types, true
}

func parseOneFieldType(s string, i int) (FieldType, int, bool) {
	dims := 0
	for i < len(s) && s[i] == '[' {
		dims++
		i++
	}
	if i >= len(s) {
		return FieldType{}, 0, false
	}

	if name, ok := baseTypeNames[s[i]]; ok {
		return fieldType(name, dims, BaseType), i + 1, true
	}
	if s[i] == 'L' {
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return FieldType{}, 0, false
		}
		name := s[i+1 : i+end]
		if name == "" {
			return FieldType{}, 0, false
		}
		return fieldType(ExternalName(name), dims, ObjectType), i + end + 1, true
	}
	return FieldType{}, 0, false
}

func fieldType(name string, dims int, kind TypeKind) FieldType {
	if dims > 0 {
		kind = ArrayType
	}
	return FieldType{Name: name, Kind: kind, Dims: dims}
}

// ParseMethodDescriptor parses "(<params>)<return>". Everything between
// the parentheses is a field descriptor sequence; a return of exactly
// "V" means void, anything else must be exactly one field descriptor.
// Malformed input yields ok false, never a partial result.
func ParseMethodDescriptor(s string) (*MethodType, bool) {
	if len(s) == 0 || s[0] != '(' {
		return nil, false
	}
	rparen := strings.IndexByte(s, ')')
	if rparen < 0 {
		return nil, false
	}
	params, ok := ParseFieldDescriptor(s[1:rparen])
	if !ok {
		return nil, false
	}

	rest := s[rparen+1:]
	if rest == "V" {
		return &MethodType{Params: params}, true
	}
	ret, ok := ParseFieldDescriptor(rest)
	if !ok || len(ret) != 1 {
		return nil, false
	}
	return &MethodType{Params: params, Return: &ret[0]}, true
}

// ReturnString renders the return type, using "void" for a nil Return.
func (m *MethodType) ReturnString() string {
	if m.Return == nil {
		return "void"
	}
	return m.Return.String()
}

// ParamString renders the parameter list as "(a, b, c)".
func (m *MethodType) ParamString() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
