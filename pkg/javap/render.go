// Package javap renders parsed class files the way the JDK's javap tool
// prints them: a declaration-style listing of the class and its members,
// optionally with descriptors, line number tables, bytecode listings,
// and a numbered constant pool dump.
//
// Every renderer returns a string and performs no I/O of its own. The
// command wrapping this package decides what is written where, so the
// output can be asserted on directly in tests.
package javap

import (
	"fmt"
	"strings"
	"time"

	"github.com/chazu/javelin/pkg/bytecode"
	"github.com/chazu/javelin/pkg/classfile"
)

// Visibility is the most restrictive member access level a listing
// includes. The zero value shows public members only; each successive
// level adds the next ring.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Package
	Private
)

var visibilityNames = map[Visibility]string{
	Public:    "public",
	Protected: "protected",
	Package:   "package",
	Private:   "private",
}

func (v Visibility) String() string {
	if s, ok := visibilityNames[v]; ok {
		return s
	}
	return fmt.Sprintf("visibility(%d)", int(v))
}

// ParseVisibility maps a flag or manifest string to its Visibility.
func ParseVisibility(s string) (Visibility, error) {
	for v, name := range visibilityNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown visibility %q", s)
}

// Options selects what Render includes in a listing.
type Options struct {
	Disassemble bool // method bytecode listings
	Descriptors bool // internal descriptor under each member
	Lines       bool // LineNumberTable under each method
	Constants   bool // constant pool dump and field initializers
	Visibility  Visibility
	SysInfo     *SysInfo // file header block, nil to omit
}

// SysInfo is the file-level header data for a listing. The renderer
// never touches the filesystem, so the caller measures the file and
// passes the results in.
type SysInfo struct {
	Path     string
	Size     int64
	SHA256   string
	Modified time.Time
}

// Render produces the full listing for one class file.
func Render(cf *classfile.ClassFile, opts Options) (string, error) {
	className, err := cf.ClassName()
	if err != nil {
		return "", fmt.Errorf("class name: %w", err)
	}

	var sb strings.Builder
	if opts.SysInfo != nil {
		renderSysInfo(&sb, opts.SysInfo)
	}
	if source, ok := cf.SourceFile(); ok {
		fmt.Fprintf(&sb, "Compiled from %q\n", source)
	}
	if opts.Constants {
		renderConstantPool(&sb, cf.ConstantPool)
	}

	line, err := classLine(cf, className)
	if err != nil {
		return "", err
	}
	sb.WriteString(line)
	sb.WriteByte('\n')

	// Detail blocks get a blank separator line between members; the
	// compact listing stays dense.
	detail := opts.Disassemble || opts.Descriptors || opts.Lines
	wrote := false

	for _, f := range cf.Fields {
		if fieldVisibility(f.AccessFlags) > opts.Visibility {
			continue
		}
		if wrote && detail {
			sb.WriteByte('\n')
		}
		if err := renderField(&sb, cf.ConstantPool, f, opts); err != nil {
			return "", err
		}
		wrote = true
	}
	for _, m := range cf.Methods {
		if methodVisibility(m.AccessFlags) > opts.Visibility {
			continue
		}
		if wrote && detail {
			sb.WriteByte('\n')
		}
		if err := renderMethod(&sb, cf, className, m, opts); err != nil {
			return "", err
		}
		wrote = true
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func renderSysInfo(sb *strings.Builder, info *SysInfo) {
	fmt.Fprintf(sb, "Classfile %s\n", info.Path)
	fmt.Fprintf(sb, "  Last modified %s; size %d bytes\n", info.Modified.Format("Jan 2, 2006"), info.Size)
	fmt.Fprintf(sb, "  SHA-256 checksum %s\n", info.SHA256)
}

// renderConstantPool dumps the declared pool entries in javap's numbered
// layout. Slot 0 is the reserved sentinel and the final slot is the
// decoder's own appended name entry; neither belongs to the class.
func renderConstantPool(sb *strings.Builder, pool classfile.ConstantPool) {
	sb.WriteString("Constant pool:\n")
	for i := 1; i < len(pool)-1; i++ {
		entry := pool[i]
		if entry.Tag() == classfile.TagUnknown {
			continue
		}
		operand, comment := poolEntryText(pool, uint16(i), entry)
		label := fmt.Sprintf("#%d", i)
		if comment == "" {
			fmt.Fprintf(sb, "%5s = %-18s %s\n", label, entry.Tag(), operand)
		} else {
			fmt.Fprintf(sb, "%5s = %-18s %-14s// %s\n", label, entry.Tag(), operand, comment)
		}
	}
}

// poolEntryText renders one dump row: the operand column and the
// resolved comment. Entries whose targets cannot be resolved keep their
// raw indexes and drop the comment rather than failing the listing.
func poolEntryText(pool classfile.ConstantPool, index uint16, entry classfile.ConstantPoolEntry) (operand, comment string) {
	switch c := entry.(type) {
	case *classfile.ConstantUtf8Info:
		return c.Value, ""
	case *classfile.ConstantIntegerInfo:
		return fmt.Sprintf("%d", c.Int()), ""
	case *classfile.ConstantFloatInfo:
		return fmt.Sprintf("%gf", c.Float()), ""
	case *classfile.ConstantLongInfo:
		return fmt.Sprintf("%dl", c.Long()), ""
	case *classfile.ConstantDoubleInfo:
		return fmt.Sprintf("%gd", c.Double()), ""
	case *classfile.ConstantClassInfo:
		operand = fmt.Sprintf("#%d", c.NameIndex)
		name, err := pool.ClassNameAt(index)
		if err != nil {
			return operand, ""
		}
		return operand, name
	case *classfile.ConstantStringInfo:
		operand = fmt.Sprintf("#%d", c.StringIndex)
		s, err := pool.Utf8At(c.StringIndex)
		if err != nil {
			return operand, ""
		}
		return operand, s
	case *classfile.ConstantFieldrefInfo:
		return fmt.Sprintf("#%d.#%d", c.ClassIndex, c.NameAndTypeIndex), memberText(pool, index)
	case *classfile.ConstantMethodrefInfo:
		return fmt.Sprintf("#%d.#%d", c.ClassIndex, c.NameAndTypeIndex), memberText(pool, index)
	case *classfile.ConstantInterfaceMethodrefInfo:
		return fmt.Sprintf("#%d.#%d", c.ClassIndex, c.NameAndTypeIndex), memberText(pool, index)
	case *classfile.ConstantNameAndTypeInfo:
		operand = fmt.Sprintf("#%d:#%d", c.NameIndex, c.DescriptorIndex)
		name, desc, err := pool.NameAndTypeAt(index)
		if err != nil {
			return operand, ""
		}
		return operand, quoteSpecial(name) + ":" + desc
	case *classfile.ConstantMethodHandleInfo:
		operand = fmt.Sprintf("%d:#%d", c.ReferenceKind, c.ReferenceIndex)
		member := memberText(pool, c.ReferenceIndex)
		if member == "" {
			return operand, ""
		}
		return operand, fmt.Sprintf("REF_%s %s", c.ReferenceKind, member)
	case *classfile.ConstantMethodTypeInfo:
		operand = fmt.Sprintf("#%d", c.DescriptorIndex)
		desc, err := pool.Utf8At(c.DescriptorIndex)
		if err != nil {
			return operand, ""
		}
		return operand, desc
	case *classfile.ConstantDynamicInfo:
		return dynamicText(pool, c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)
	case *classfile.ConstantInvokeDynamicInfo:
		return dynamicText(pool, c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)
	case *classfile.ConstantModuleInfo:
		operand = fmt.Sprintf("#%d", c.NameIndex)
		name, err := pool.Utf8At(c.NameIndex)
		if err != nil {
			return operand, ""
		}
		return operand, name
	case *classfile.ConstantPackageInfo:
		operand = fmt.Sprintf("#%d", c.NameIndex)
		name, err := pool.Utf8At(c.NameIndex)
		if err != nil {
			return operand, ""
		}
		return operand, name
	}
	return "", ""
}

func dynamicText(pool classfile.ConstantPool, bootstrap, natIndex uint16) (operand, comment string) {
	operand = fmt.Sprintf("#%d:#%d", bootstrap, natIndex)
	name, desc, err := pool.NameAndTypeAt(natIndex)
	if err != nil {
		return operand, ""
	}
	return operand, fmt.Sprintf("#%d:%s:%s", bootstrap, quoteSpecial(name), desc)
}

// memberText renders "owner.name:descriptor" for a member ref entry.
// The pool dump always names the owner; only disassembly comments elide
// the current class.
func memberText(pool classfile.ConstantPool, index uint16) string {
	ref, err := pool.MemberRefAt(index)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s.%s:%s", ref.ClassName, quoteSpecial(ref.Name), ref.Descriptor)
}

// quoteSpecial quotes <init> and <clinit> the way javap prints them.
func quoteSpecial(name string) string {
	if strings.HasPrefix(name, "<") {
		return fmt.Sprintf("%q", name)
	}
	return name
}

// classLine builds the declaration line, ending with the opening brace.
// Direct subclasses of java/lang/Object drop the extends clause, and an
// interface's superinterfaces render as extends rather than implements.
func classLine(cf *classfile.ClassFile, className string) (string, error) {
	isInterface := cf.AccessFlags.Has(classfile.ClassAccInterface)

	parts := cf.AccessFlags.Modifiers()
	if isInterface {
		parts = append(parts, "interface")
	} else {
		parts = append(parts, "class")
	}
	parts = append(parts, javaName(className))

	super, err := cf.SuperClassName()
	if err != nil {
		return "", fmt.Errorf("superclass of %s: %w", className, err)
	}
	if super != "" && super != "java/lang/Object" && !isInterface {
		parts = append(parts, "extends", javaName(super))
	}

	ifaces, err := cf.InterfaceNames()
	if err != nil {
		return "", fmt.Errorf("interfaces of %s: %w", className, err)
	}
	if len(ifaces) > 0 {
		keyword := "implements"
		if isInterface {
			keyword = "extends"
		}
		names := make([]string, len(ifaces))
		for i, n := range ifaces {
			names[i] = javaName(n)
		}
		parts = append(parts, keyword, strings.Join(names, ", "))
	}
	return strings.Join(parts, " ") + " {", nil
}

func renderField(sb *strings.Builder, pool classfile.ConstantPool, f classfile.FieldInfo, opts Options) error {
	name, err := pool.Utf8At(f.NameIndex)
	if err != nil {
		return fmt.Errorf("field name: %w", err)
	}
	desc, err := pool.Utf8At(f.DescriptorIndex)
	if err != nil {
		return fmt.Errorf("field %s: %w", name, err)
	}

	// A descriptor that does not parse is shown raw rather than
	// suppressing the field.
	typ := desc
	if types, ok := classfile.ParseFieldDescriptor(desc); ok && len(types) == 1 {
		typ = types[0].String()
	}

	sb.WriteString("  ")
	for _, m := range f.AccessFlags.Modifiers() {
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	sb.WriteString(typ)
	sb.WriteByte(' ')
	sb.WriteString(name)
	if opts.Constants {
		if init := constantInitializer(pool, f); init != "" {
			sb.WriteString(" = ")
			sb.WriteString(init)
		}
	}
	sb.WriteString(";\n")

	if opts.Descriptors {
		fmt.Fprintf(sb, "    descriptor: %s\n", desc)
	}
	return nil
}

// constantInitializer renders a field's ConstantValue in literal form,
// or "" when the field has none or the pool entry is not loadable.
func constantInitializer(pool classfile.ConstantPool, f classfile.FieldInfo) string {
	for _, attr := range f.Attributes {
		cv, ok := attr.(*classfile.ConstantValueAttribute)
		if !ok {
			continue
		}
		entry, err := pool.Entry(cv.ConstantValueIndex)
		if err != nil {
			return ""
		}
		switch c := entry.(type) {
		case *classfile.ConstantIntegerInfo:
			return fmt.Sprintf("%d", c.Int())
		case *classfile.ConstantLongInfo:
			return fmt.Sprintf("%dl", c.Long())
		case *classfile.ConstantFloatInfo:
			return fmt.Sprintf("%gf", c.Float())
		case *classfile.ConstantDoubleInfo:
			return fmt.Sprintf("%gd", c.Double())
		case *classfile.ConstantStringInfo:
			s, err := pool.Utf8At(c.StringIndex)
			if err != nil {
				return ""
			}
			return fmt.Sprintf("%q", s)
		}
	}
	return ""
}

func renderMethod(sb *strings.Builder, cf *classfile.ClassFile, className string, m classfile.MethodInfo, opts Options) error {
	pool := cf.ConstantPool
	name, err := pool.Utf8At(m.NameIndex)
	if err != nil {
		return fmt.Errorf("method name: %w", err)
	}
	desc, err := pool.Utf8At(m.DescriptorIndex)
	if err != nil {
		return fmt.Errorf("method %s: %w", name, err)
	}

	sb.WriteString("  ")
	sb.WriteString(methodSignature(m.AccessFlags, name, desc, className))
	sb.WriteByte('\n')

	if opts.Descriptors {
		fmt.Fprintf(sb, "    descriptor: %s\n", desc)
	}
	code := m.Code()
	if opts.Disassemble && code != nil && len(code.Code) > 0 {
		sb.WriteString("    Code:\n")
		listing := bytecode.DisassembleClass(code.Code, pool, className)
		for _, line := range strings.Split(strings.TrimRight(listing, "\n"), "\n") {
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	if opts.Lines && code != nil {
		for _, attr := range code.Attributes {
			table, ok := attr.(*classfile.LineNumberTableAttribute)
			if !ok {
				continue
			}
			sb.WriteString("    LineNumberTable:\n")
			for _, e := range table.Entries {
				fmt.Fprintf(sb, "      line %d: %d\n", e.LineNumber, e.StartPC)
			}
		}
	}
	return nil
}

// methodSignature renders one method heading. Constructors take the
// class's own name, the class initializer collapses to javap's "static
// {};" form, and a descriptor that does not parse is shown raw.
func methodSignature(flags classfile.MethodAccessFlags, name, desc, className string) string {
	if name == "<clinit>" {
		return "static {};"
	}

	mods := flags.Modifiers()
	mt, ok := classfile.ParseMethodDescriptor(desc)

	var sig string
	switch {
	case name == "<init>" && ok:
		sig = javaName(className) + mt.ParamString()
	case name == "<init>":
		sig = javaName(className) + desc
	case ok:
		sig = mt.ReturnString() + " " + name + mt.ParamString()
	default:
		sig = name + desc
	}
	if len(mods) == 0 {
		return sig + ";"
	}
	return strings.Join(mods, " ") + " " + sig + ";"
}

func fieldVisibility(f classfile.FieldAccessFlags) Visibility {
	switch {
	case f.Has(classfile.FieldAccPublic):
		return Public
	case f.Has(classfile.FieldAccProtected):
		return Protected
	case f.Has(classfile.FieldAccPrivate):
		return Private
	}
	return Package
}

func methodVisibility(f classfile.MethodAccessFlags) Visibility {
	switch {
	case f.Has(classfile.MethodAccPublic):
		return Public
	case f.Has(classfile.MethodAccProtected):
		return Protected
	case f.Has(classfile.MethodAccPrivate):
		return Private
	}
	return Package
}

// javaName converts an internal binary name to source form.
func javaName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}
