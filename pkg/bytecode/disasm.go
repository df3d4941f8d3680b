package bytecode

import (
	"fmt"
	"strings"

	"github.com/chazu/javelin/pkg/classfile"
)

// atypeNames maps the newarray atype operand to its element type.
var atypeNames = map[int32]string{
	4:  "boolean",
	5:  "char",
	6:  "float",
	7:  "double",
	8:  "byte",
	9:  "short",
	10: "int",
	11: "long",
}

// Disassemble returns a listing of the code array, one instruction per
// line in javap's layout. A nil pool suppresses symbolic comments. If
// the stream is malformed the listing ends with the error in place of
// the unreadable instruction.
func Disassemble(code []byte, pool classfile.ConstantPool) string {
	return DisassembleClass(code, pool, "")
}

// DisassembleClass is Disassemble for code listed inside a class:
// member comments omit the owner when it is thisClass, the way javap
// renders a class's own references.
func DisassembleClass(code []byte, pool classfile.ConstantPool, thisClass string) string {
	var sb strings.Builder
	for off := 0; off < len(code); {
		in, err := DecodeAt(code, off)
		if err != nil {
			sb.WriteString(fmt.Sprintf("%4d: <%v>\n", off, err))
			break
		}
		sb.WriteString(formatInstruction(in, pool, thisClass))
		sb.WriteByte('\n')
		off = in.Next()
	}
	return sb.String()
}

// FormatInstruction renders one instruction as a javap-style line,
// without a trailing newline. Switches render as multi-line blocks.
// Branch targets and switch targets are absolute code offsets.
func FormatInstruction(in Instruction, pool classfile.ConstantPool) string {
	return formatInstruction(in, pool, "")
}

func formatInstruction(in Instruction, pool classfile.ConstantPool, thisClass string) string {
	if in.Switch != nil {
		return formatSwitch(in)
	}

	name := in.Op.String()
	if in.Wide {
		name += "_w"
	}

	ops := in.Operands
	// javap drops the trailing zero byte(s) of the invoke forms.
	if (in.Op == OpInvokeinterface || in.Op == OpInvokedynamic) && len(ops) == 3 {
		ops = ops[:2]
	}
	if in.Op == OpNewarray && len(ops) == 1 {
		if elem, ok := atypeNames[ops[0].Value]; ok {
			return fmt.Sprintf("%4d: %-13s %s", in.Off, name, elem)
		}
	}
	if len(ops) == 0 {
		return fmt.Sprintf("%4d: %s", in.Off, name)
	}

	args := make([]string, len(ops))
	comment := ""
	for i, operand := range ops {
		switch operand.Kind {
		case OperandPoolIndex:
			args[i] = fmt.Sprintf("#%d", operand.Value)
			if comment == "" {
				comment = constantComment(pool, uint16(operand.Value), thisClass)
			}
		case OperandOffset:
			args[i] = fmt.Sprintf("%d", in.Off+int(operand.Value))
		default:
			args[i] = fmt.Sprintf("%d", operand.Value)
		}
	}
	line := fmt.Sprintf("%4d: %-13s %s", in.Off, name, strings.Join(args, ", "))
	if comment != "" {
		line = fmt.Sprintf("%-44s// %s", line, comment)
	}
	return line
}

func formatSwitch(in Instruction) string {
	var sb strings.Builder
	sw := in.Switch
	if in.Op == OpTableswitch {
		sb.WriteString(fmt.Sprintf("%4d: %-13s { // %d to %d\n", in.Off, "tableswitch", sw.Low, sw.High))
		for i, rel := range sw.Offsets {
			sb.WriteString(fmt.Sprintf("%21d: %d\n", sw.Low+int32(i), in.Off+int(rel)))
		}
	} else {
		sb.WriteString(fmt.Sprintf("%4d: %-13s { // %d\n", in.Off, "lookupswitch", len(sw.Pairs)))
		for _, pair := range sw.Pairs {
			sb.WriteString(fmt.Sprintf("%21d: %d\n", pair.Match, in.Off+int(pair.Offset)))
		}
	}
	sb.WriteString(fmt.Sprintf("%21s: %d\n", "default", in.Off+int(sw.Default)))
	sb.WriteString("      }")
	return sb.String()
}

// ConstantComment resolves a pool index into javap's comment form, for
// example "Method java/io/PrintStream.println:(Ljava/lang/String;)V".
// Indexes the pool cannot resolve yield "".
func ConstantComment(pool classfile.ConstantPool, index uint16) string {
	return constantComment(pool, index, "")
}

func constantComment(pool classfile.ConstantPool, index uint16, thisClass string) string {
	entry, err := pool.Entry(index)
	if err != nil {
		return ""
	}
	switch c := entry.(type) {
	case *classfile.ConstantIntegerInfo:
		return fmt.Sprintf("int %d", c.Int())
	case *classfile.ConstantFloatInfo:
		return fmt.Sprintf("float %gf", c.Float())
	case *classfile.ConstantLongInfo:
		return fmt.Sprintf("long %dl", c.Long())
	case *classfile.ConstantDoubleInfo:
		return fmt.Sprintf("double %gd", c.Double())
	case *classfile.ConstantUtf8Info:
		return "Utf8 " + truncateComment(c.Value)
	case *classfile.ConstantStringInfo:
		s, err := pool.Utf8At(c.StringIndex)
		if err != nil {
			return ""
		}
		return "String " + truncateComment(s)
	case *classfile.ConstantClassInfo:
		name, err := pool.ClassNameAt(index)
		if err != nil {
			return ""
		}
		return "class " + name
	case *classfile.ConstantFieldrefInfo:
		return memberComment(pool, "Field", index, thisClass)
	case *classfile.ConstantMethodrefInfo:
		return memberComment(pool, "Method", index, thisClass)
	case *classfile.ConstantInterfaceMethodrefInfo:
		return memberComment(pool, "InterfaceMethod", index, thisClass)
	case *classfile.ConstantNameAndTypeInfo:
		name, desc, err := pool.NameAndTypeAt(index)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("NameAndType %s:%s", name, desc)
	case *classfile.ConstantMethodTypeInfo:
		desc, err := pool.Utf8At(c.DescriptorIndex)
		if err != nil {
			return ""
		}
		return "MethodType " + desc
	case *classfile.ConstantMethodHandleInfo:
		ref, err := pool.MemberRefAt(c.ReferenceIndex)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("MethodHandle %s %s.%s:%s", c.ReferenceKind, ref.ClassName, ref.Name, ref.Descriptor)
	case *classfile.ConstantDynamicInfo:
		name, desc, err := pool.NameAndTypeAt(c.NameAndTypeIndex)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("Dynamic #%d:%s:%s", c.BootstrapMethodAttrIndex, name, desc)
	case *classfile.ConstantInvokeDynamicInfo:
		name, desc, err := pool.NameAndTypeAt(c.NameAndTypeIndex)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("InvokeDynamic #%d:%s:%s", c.BootstrapMethodAttrIndex, name, desc)
	}
	return ""
}

func memberComment(pool classfile.ConstantPool, what string, index uint16, thisClass string) string {
	ref, err := pool.MemberRefAt(index)
	if err != nil {
		return ""
	}
	name := ref.Name
	// javap quotes the special method names.
	if strings.HasPrefix(name, "<") {
		name = fmt.Sprintf("%q", name)
	}
	if thisClass != "" && ref.ClassName == thisClass {
		return fmt.Sprintf("%s %s:%s", what, name, ref.Descriptor)
	}
	return fmt.Sprintf("%s %s.%s:%s", what, ref.ClassName, name, ref.Descriptor)
}

func truncateComment(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
