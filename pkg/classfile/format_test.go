package classfile

import (
	"errors"
	"testing"
)

func TestCheckModuleFlagsExclusive(t *testing.T) {
	b := newClassBuilder(53)
	b.flags = uint16(ClassAccModule | ClassAccPublic)
	_, err := Parse(b.build())
	if !errors.Is(err, ErrTooManyFlags) {
		t.Fatalf("Parse() error = %v, want ErrTooManyFlags", err)
	}

	ok := newClassBuilder(53)
	ok.flags = uint16(ClassAccModule)
	mustParse(t, ok.build())
}

func TestCheckClassNameMustBeUtf8(t *testing.T) {
	b := newClassBuilder(52)
	num := b.integer(7)
	b.class(num)
	_, err := Parse(b.build())
	if !errors.Is(err, ErrInvalidConstant) {
		t.Fatalf("Parse() error = %v, want ErrInvalidConstant", err)
	}
}

func TestCheckStringMustReferenceUtf8(t *testing.T) {
	b := newClassBuilder(52)
	num := b.integer(7)
	b.str(num)
	_, err := Parse(b.build())
	if !errors.Is(err, ErrInvalidConstant) {
		t.Fatalf("Parse() error = %v, want ErrInvalidConstant", err)
	}
}

func TestCheckNameAndTypeReferences(t *testing.T) {
	b := newClassBuilder(52)
	name := b.utf8("x")
	num := b.integer(1)
	b.nameAndType(name, num)
	_, err := Parse(b.build())
	if !errors.Is(err, ErrInvalidConstant) {
		t.Fatalf("Parse() error = %v, want ErrInvalidConstant", err)
	}
}

func TestCheckDanglingIndex(t *testing.T) {
	b := newClassBuilder(52)
	b.class(4000)
	_, err := Parse(b.build())
	if !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Parse() error = %v, want ErrInvalidIndex", err)
	}
}

func TestCheckFieldrefDescriptor(t *testing.T) {
	build := func(desc string) []byte {
		b := simpleClass(52)
		fName := b.utf8("count")
		fDesc := b.utf8(desc)
		nat := b.nameAndType(fName, fDesc)
		b.fieldref(b.thisClass, nat)
		return b.build()
	}

	mustParse(t, build("I"))
	for _, desc := range []string{"II", "(I)V", "Q"} {
		_, err := Parse(build(desc))
		if !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("fieldref %q error = %v, want ErrInvalidDescriptor", desc, err)
		}
	}
}

func TestCheckMethodrefDescriptor(t *testing.T) {
	build := func(name, desc string) []byte {
		b := simpleClass(52)
		mName := b.utf8(name)
		mDesc := b.utf8(desc)
		nat := b.nameAndType(mName, mDesc)
		b.methodref(b.thisClass, nat)
		return b.build()
	}

	mustParse(t, build("run", "()V"))
	mustParse(t, build("<init>", "()V"))

	if _, err := Parse(build("run", "I")); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("plain field descriptor error = %v, want ErrInvalidDescriptor", err)
	}
	// Constructors return void.
	if _, err := Parse(build("<init>", "()I")); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("non-void constructor error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestCheckMethodHandleKinds(t *testing.T) {
	build := func(major uint16, kind uint8, target string) []byte {
		b := simpleClass(major)
		switch target {
		case "fieldref":
			fName := b.utf8("count")
			fDesc := b.utf8("I")
			nat := b.nameAndType(fName, fDesc)
			b.methodHandle(kind, b.fieldref(b.thisClass, nat))
		case "methodref":
			mName := b.utf8("run")
			mDesc := b.utf8("()V")
			nat := b.nameAndType(mName, mDesc)
			b.methodHandle(kind, b.methodref(b.thisClass, nat))
		case "interface":
			mName := b.utf8("run")
			mDesc := b.utf8("()V")
			nat := b.nameAndType(mName, mDesc)
			b.methodHandle(kind, b.interfaceMethodref(b.thisClass, nat))
		}
		return b.build()
	}

	// Field kinds take Fieldref; method kinds take Methodref.
	mustParse(t, build(52, 1, "fieldref"))
	mustParse(t, build(52, 5, "methodref"))
	mustParse(t, build(52, 9, "interface"))

	if _, err := Parse(build(52, 1, "methodref")); !errors.Is(err, ErrInvalidConstant) {
		t.Errorf("getField on methodref error = %v, want ErrInvalidConstant", err)
	}
	if _, err := Parse(build(52, 9, "methodref")); !errors.Is(err, ErrInvalidConstant) {
		t.Errorf("invokeInterface on methodref error = %v, want ErrInvalidConstant", err)
	}

	// invokeStatic may target an interface method from major 52 on.
	mustParse(t, build(52, 6, "interface"))
	if _, err := Parse(build(51, 6, "interface")); !errors.Is(err, ErrInvalidConstant) {
		t.Errorf("pre-52 invokeStatic on interface error = %v, want ErrInvalidConstant", err)
	}

	if _, err := Parse(build(52, 10, "methodref")); !errors.Is(err, ErrInvalidReferenceKind) {
		t.Errorf("kind 10 error = %v, want ErrInvalidReferenceKind", err)
	}
}

func TestCheckMethodTypeDescriptor(t *testing.T) {
	build := func(desc string) []byte {
		b := simpleClass(52)
		b.methodType(b.utf8(desc))
		return b.build()
	}
	mustParse(t, build("(I)V"))
	if _, err := Parse(build("I")); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("method type %q error = %v, want ErrInvalidDescriptor", "I", err)
	}
}

func TestCheckInvokeDynamicBootstrapMethods(t *testing.T) {
	build := func(bsmIdx uint16, withAttr bool) []byte {
		b := simpleClass(52)
		cName := b.utf8("call")
		cDesc := b.utf8("()V")
		nat := b.nameAndType(cName, cDesc)
		b.invokeDynamic(bsmIdx, nat)
		if withAttr {
			bsmName := b.utf8("BootstrapMethods")
			var p cw
			p.u16(1)
			p.u16(0)
			p.u16(0)
			b.addAttr(attrBytes(bsmName, p.Bytes()))
		}
		return b.build()
	}

	mustParse(t, build(0, true))

	if _, err := Parse(build(0, false)); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("missing BootstrapMethods error = %v, want ErrMissingAttribute", err)
	}
	if _, err := Parse(build(5, true)); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("out of range bootstrap index error = %v, want ErrInvalidIndex", err)
	}
}

func TestCheckModulePackageConstantsNeedModuleFlag(t *testing.T) {
	b := newClassBuilder(53)
	b.moduleConst(b.utf8("com.example.app"))
	b.flags = uint16(ClassAccPublic)
	if _, err := Parse(b.build()); !errors.Is(err, ErrInvalidConstant) {
		t.Errorf("Module constant without flag error = %v, want ErrInvalidConstant", err)
	}

	p := newClassBuilder(53)
	p.packageConst(p.utf8("com/example/app"))
	p.flags = uint16(ClassAccPublic)
	if _, err := Parse(p.build()); !errors.Is(err, ErrInvalidConstant) {
		t.Errorf("Package constant without flag error = %v, want ErrInvalidConstant", err)
	}

	ok := newClassBuilder(53)
	ok.moduleConst(ok.utf8("com.example.app"))
	ok.packageConst(ok.utf8("com/example/app"))
	ok.flags = uint16(ClassAccModule)
	mustParse(t, ok.build())
}

func TestAccessFlagNamesAndModifiers(t *testing.T) {
	f := ClassAccPublic | ClassAccFinal | ClassAccSuper
	names := f.Names()
	want := []string{"ACC_PUBLIC", "ACC_FINAL", "ACC_SUPER"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	mods := f.Modifiers()
	if len(mods) != 2 || mods[0] != "public" || mods[1] != "final" {
		t.Errorf("Modifiers() = %v, want [public final]", mods)
	}

	m := MethodAccPublic | MethodAccStatic | MethodAccVarArgs
	mm := m.Modifiers()
	if len(mm) != 2 || mm[0] != "public" || mm[1] != "static" {
		t.Errorf("method Modifiers() = %v, want [public static]", mm)
	}
}
