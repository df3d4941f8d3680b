package classfile

import (
	"errors"
	"testing"
)

func TestUnknownAttributePreservedAndSkipped(t *testing.T) {
	b := simpleClass(52)
	unkName := b.utf8("CustomThing")
	sfName := b.utf8("SourceFile")
	sfValue := b.utf8("Example.java")
	b.addAttr(attrBytes(unkName, []byte{1, 2, 3, 4, 5}))
	var p cw
	p.u16(sfValue)
	b.addAttr(attrBytes(sfName, p.Bytes()))
	cf := mustParse(t, b.build())

	if len(cf.Attributes) != 2 {
		t.Fatalf("got %d attributes, want 2", len(cf.Attributes))
	}
	unk, ok := cf.Attributes[0].(*UnknownAttribute)
	if !ok {
		t.Fatalf("attribute 0 is %T, want *UnknownAttribute", cf.Attributes[0])
	}
	if unk.Name != "CustomThing" || unk.AttributeName() != "CustomThing" {
		t.Errorf("unknown attribute name = %q", unk.Name)
	}
	if unk.Length != 5 {
		t.Errorf("unknown attribute length = %d, want 5", unk.Length)
	}
	// The skipped payload must not desync the attribute that follows.
	if _, ok := cf.Attributes[1].(*SourceFileAttribute); !ok {
		t.Errorf("attribute 1 is %T, want *SourceFileAttribute", cf.Attributes[1])
	}
}

func TestCodeAttributeDecode(t *testing.T) {
	b := simpleClass(52)
	codeName := b.utf8("Code")
	lntName := b.utf8("LineNumberTable")
	mName := b.utf8("run")
	mDesc := b.utf8("()I")

	var lnt cw
	lnt.u16(1)
	lnt.u16(0) // start_pc
	lnt.u16(7) // line

	code := []byte{0x03, 0x3B, 0x1A, 0xAC}
	var p cw
	p.u16(2) // max_stack
	p.u16(3) // max_locals
	p.u32(uint32(len(code)))
	p.Write(code)
	p.u16(1) // exception table
	p.u16(0)
	p.u16(4)
	p.u16(4)
	p.u16(0)
	p.u16(1) // nested attributes
	p.Write(attrBytes(lntName, lnt.Bytes()))

	b.addMethod(uint16(MethodAccPublic), mName, mDesc, attrBytes(codeName, p.Bytes()))
	cf := mustParse(t, b.build())

	c := cf.Methods[0].Code()
	if c == nil {
		t.Fatal("Code() = nil")
	}
	if c.MaxStack != 2 || c.MaxLocals != 3 {
		t.Errorf("max_stack/max_locals = %d/%d, want 2/3", c.MaxStack, c.MaxLocals)
	}
	if string(c.Code) != string(code) {
		t.Errorf("code = % X, want % X", c.Code, code)
	}
	if len(c.ExceptionTable) != 1 {
		t.Fatalf("exception table length = %d, want 1", len(c.ExceptionTable))
	}
	entry := c.ExceptionTable[0]
	if entry.StartPC != 0 || entry.EndPC != 4 || entry.HandlerPC != 4 || entry.CatchType != 0 {
		t.Errorf("exception entry = %+v", entry)
	}

	// LineNumberTable plus the implicit StackMapTable.
	if len(c.Attributes) != 2 {
		t.Fatalf("nested attributes = %d, want 2", len(c.Attributes))
	}
	table, ok := c.Attributes[0].(*LineNumberTableAttribute)
	if !ok {
		t.Fatalf("nested attribute 0 is %T", c.Attributes[0])
	}
	if len(table.Entries) != 1 || table.Entries[0].LineNumber != 7 {
		t.Errorf("line number table = %+v", table.Entries)
	}
}

func TestFieldConstantValue(t *testing.T) {
	b := simpleClass(52)
	cvName := b.utf8("ConstantValue")
	value := b.integer(42)
	fName := b.utf8("LIMIT")
	fDesc := b.utf8("I")
	var p cw
	p.u16(value)
	b.addField(uint16(FieldAccPublic|FieldAccStatic|FieldAccFinal), fName, fDesc,
		attrBytes(cvName, p.Bytes()))
	cf := mustParse(t, b.build())

	if len(cf.Fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(cf.Fields))
	}
	field := cf.Fields[0]
	cv, ok := field.Attributes[0].(*ConstantValueAttribute)
	if !ok {
		t.Fatalf("field attribute is %T", field.Attributes[0])
	}
	entry, err := cf.ConstantPool.Entry(cv.ConstantValueIndex)
	if err != nil {
		t.Fatalf("Entry() error: %v", err)
	}
	if i, ok := entry.(*ConstantIntegerInfo); !ok || i.Int() != 42 {
		t.Errorf("constant value = %#v, want Integer 42", entry)
	}
}

func TestExceptionsAttribute(t *testing.T) {
	b := simpleClass(52)
	excName := b.utf8("Exceptions")
	ioName := b.utf8("java/io/IOException")
	ioClass := b.class(ioName)
	mName := b.utf8("read")
	mDesc := b.utf8("()I")
	var p cw
	p.u16(1)
	p.u16(ioClass)
	b.addMethod(uint16(MethodAccPublic), mName, mDesc, attrBytes(excName, p.Bytes()))
	cf := mustParse(t, b.build())

	exc, ok := cf.Methods[0].Attributes[0].(*ExceptionsAttribute)
	if !ok {
		t.Fatalf("attribute is %T", cf.Methods[0].Attributes[0])
	}
	if len(exc.ExceptionIndexTable) != 1 || exc.ExceptionIndexTable[0] != ioClass {
		t.Errorf("exception table = %v, want [%d]", exc.ExceptionIndexTable, ioClass)
	}
}

func TestStackMapTableFrames(t *testing.T) {
	b := simpleClass(52)
	smtName := b.utf8("StackMapTable")

	var p cw
	p.u16(8)
	p.u8(5) // same_frame
	p.u8(70)
	p.u8(ItemInteger) // same_locals_1_stack_item
	p.u8(130)         // reserved
	p.u8(247)         // same_locals_1 extended
	p.u16(100)
	p.u8(ItemObject)
	p.u16(2)
	p.u8(249) // chop 2
	p.u16(3)
	p.u8(251) // same_frame_extended
	p.u16(40)
	p.u8(253) // append 2
	p.u16(7)
	p.u8(ItemLong)
	p.u8(ItemUninitializedThis)
	p.u8(255) // full_frame
	p.u16(9)
	p.u16(1)
	p.u8(ItemUninitialized)
	p.u16(12)
	p.u16(2)
	p.u8(ItemTop)
	p.u8(ItemInteger)
	b.addAttr(attrBytes(smtName, p.Bytes()))
	cf := mustParse(t, b.build())

	smt := cf.Attributes[0].(*StackMapTableAttribute)
	if len(smt.Frames) != 8 {
		t.Fatalf("got %d frames, want 8", len(smt.Frames))
	}

	if f, ok := smt.Frames[0].(*SameFrame); !ok || f.Tag != 5 {
		t.Errorf("frame 0 = %#v, want SameFrame tag 5", smt.Frames[0])
	}
	if f, ok := smt.Frames[1].(*SameLocals1Frame); !ok || f.Stack.Kind != ItemInteger {
		t.Errorf("frame 1 = %#v, want SameLocals1 int", smt.Frames[1])
	}
	if f, ok := smt.Frames[2].(*UnusedFrame); !ok || f.Tag != 130 {
		t.Errorf("frame 2 = %#v, want UnusedFrame 130", smt.Frames[2])
	}
	f3, ok := smt.Frames[3].(*SameLocals1ExtendedFrame)
	if !ok || f3.OffsetDelta != 100 || f3.Stack.Kind != ItemObject || f3.Stack.Index != 2 {
		t.Errorf("frame 3 = %#v", smt.Frames[3])
	}
	if f, ok := smt.Frames[4].(*ChopFrame); !ok || f.Tag != 249 || f.OffsetDelta != 3 {
		t.Errorf("frame 4 = %#v", smt.Frames[4])
	}
	if f, ok := smt.Frames[5].(*SameFrameExtended); !ok || f.OffsetDelta != 40 {
		t.Errorf("frame 5 = %#v", smt.Frames[5])
	}
	f6, ok := smt.Frames[6].(*AppendFrame)
	if !ok || f6.OffsetDelta != 7 || len(f6.Locals) != 2 ||
		f6.Locals[0].Kind != ItemLong || f6.Locals[1].Kind != ItemUninitializedThis {
		t.Errorf("frame 6 = %#v", smt.Frames[6])
	}
	f7, ok := smt.Frames[7].(*FullFrame)
	if !ok || f7.OffsetDelta != 9 || len(f7.Locals) != 1 || len(f7.Stack) != 2 {
		t.Fatalf("frame 7 = %#v", smt.Frames[7])
	}
	if f7.Locals[0].Kind != ItemUninitialized || f7.Locals[0].Index != 12 {
		t.Errorf("full frame local = %+v", f7.Locals[0])
	}
}

func TestStackMapTableInvalidVerificationTag(t *testing.T) {
	b := simpleClass(52)
	smtName := b.utf8("StackMapTable")
	var p cw
	p.u16(1)
	p.u8(64)
	p.u8(9) // verification tags stop at 8
	b.addAttr(attrBytes(smtName, p.Bytes()))

	_, err := Parse(b.build())
	if !errors.Is(err, ErrInvalidVerificationTag) {
		t.Fatalf("Parse() error = %v, want ErrInvalidVerificationTag", err)
	}
}

func TestAnnotationsDecode(t *testing.T) {
	b := simpleClass(52)
	rvaName := b.utf8("RuntimeVisibleAnnotations")
	annType := b.utf8("Lcom/example/Marker;")
	elemName := b.utf8("value")
	strValue := b.utf8("hi")
	enumType := b.utf8("Lcom/example/Color;")
	enumConst := b.utf8("RED")

	var p cw
	p.u16(1)        // one annotation
	p.u16(annType)  // type_index
	p.u16(3)        // pairs
	p.u16(elemName) // value = "hi"
	p.u8('s')
	p.u16(strValue)
	p.u16(elemName) // color = Color.RED
	p.u8('e')
	p.u16(enumType)
	p.u16(enumConst)
	p.u16(elemName) // values = {1, 2}
	p.u8('[')
	p.u16(2)
	p.u8('I')
	p.u16(9)
	p.u8('I')
	p.u16(10)
	b.addAttr(attrBytes(rvaName, p.Bytes()))
	cf := mustParse(t, b.build())

	rva := cf.Attributes[0].(*RuntimeVisibleAnnotationsAttribute)
	if len(rva.Annotations) != 1 {
		t.Fatalf("got %d annotations, want 1", len(rva.Annotations))
	}
	ann := rva.Annotations[0]
	if ann.TypeIndex != annType || len(ann.Elements) != 3 {
		t.Fatalf("annotation = %+v", ann)
	}

	c, ok := ann.Elements[0].Value.(*ConstElementValue)
	if !ok || c.Tag != 's' || c.ConstValueIndex != strValue {
		t.Errorf("element 0 = %#v", ann.Elements[0].Value)
	}
	e, ok := ann.Elements[1].Value.(*EnumElementValue)
	if !ok || e.TypeNameIndex != enumType || e.ConstNameIndex != enumConst {
		t.Errorf("element 1 = %#v", ann.Elements[1].Value)
	}
	arr, ok := ann.Elements[2].Value.(*ArrayElementValue)
	if !ok || len(arr.Values) != 2 {
		t.Fatalf("element 2 = %#v", ann.Elements[2].Value)
	}
	if inner, ok := arr.Values[1].(*ConstElementValue); !ok || inner.ConstValueIndex != 10 {
		t.Errorf("array value 1 = %#v", arr.Values[1])
	}
}

func TestNestedAnnotationAndUnknownTag(t *testing.T) {
	b := simpleClass(52)
	rvaName := b.utf8("RuntimeVisibleAnnotations")
	outerType := b.utf8("Lcom/example/Outer;")
	innerType := b.utf8("Lcom/example/Inner;")
	elemName := b.utf8("value")

	var p cw
	p.u16(1)
	p.u16(outerType)
	p.u16(2)
	p.u16(elemName) // unknown tag: no payload follows
	p.u8('X')
	p.u16(elemName) // nested annotation
	p.u8('@')
	p.u16(innerType)
	p.u16(0)
	b.addAttr(attrBytes(rvaName, p.Bytes()))
	cf := mustParse(t, b.build())

	ann := cf.Attributes[0].(*RuntimeVisibleAnnotationsAttribute).Annotations[0]
	unk, ok := ann.Elements[0].Value.(*UnknownElementValue)
	if !ok || unk.Tag != 'X' {
		t.Errorf("element 0 = %#v, want UnknownElementValue X", ann.Elements[0].Value)
	}
	// The zero-payload unknown value leaves the next pair intact.
	nested, ok := ann.Elements[1].Value.(*AnnotationElementValue)
	if !ok || nested.Annotation.TypeIndex != innerType {
		t.Errorf("element 1 = %#v", ann.Elements[1].Value)
	}
}

func TestTypeAnnotationsDecode(t *testing.T) {
	b := simpleClass(52)
	rvtaName := b.utf8("RuntimeVisibleTypeAnnotations")
	annType := b.utf8("Lcom/example/NonNull;")

	var p cw
	p.u16(1)
	p.u8(0x10) // supertype target
	p.u16(0)
	p.u8(2) // type path: into array, then type argument 1
	p.u8(0)
	p.u8(0)
	p.u8(3)
	p.u8(1)
	p.u16(annType)
	p.u16(0)
	b.addAttr(attrBytes(rvtaName, p.Bytes()))
	cf := mustParse(t, b.build())

	rvta := cf.Attributes[0].(*RuntimeVisibleTypeAnnotationsAttribute)
	if len(rvta.Annotations) != 1 {
		t.Fatalf("got %d type annotations, want 1", len(rvta.Annotations))
	}
	ta := rvta.Annotations[0]
	if ta.TargetType != 0x10 {
		t.Errorf("TargetType = 0x%02X, want 0x10", ta.TargetType)
	}
	if st, ok := ta.TargetInfo.(SupertypeTarget); !ok || st.Index != 0 {
		t.Errorf("TargetInfo = %#v, want SupertypeTarget 0", ta.TargetInfo)
	}
	if len(ta.TypePath) != 2 || ta.TypePath[1] != (TypePathEntry{Kind: 3, ArgIndex: 1}) {
		t.Errorf("TypePath = %+v", ta.TypePath)
	}
	if ta.TypeIndex != annType {
		t.Errorf("TypeIndex = %d, want %d", ta.TypeIndex, annType)
	}
}

func TestTypeAnnotationInvalidTarget(t *testing.T) {
	b := simpleClass(52)
	rvtaName := b.utf8("RuntimeVisibleTypeAnnotations")
	var p cw
	p.u16(1)
	p.u8(0x60) // outside the assigned target range
	b.addAttr(attrBytes(rvtaName, p.Bytes()))

	_, err := Parse(b.build())
	if !errors.Is(err, ErrInvalidTargetType) {
		t.Fatalf("Parse() error = %v, want ErrInvalidTargetType", err)
	}
}

func TestTypeAnnotationInvalidPathKind(t *testing.T) {
	b := simpleClass(52)
	rvtaName := b.utf8("RuntimeVisibleTypeAnnotations")
	var p cw
	p.u16(1)
	p.u8(0x13) // empty target
	p.u8(1)
	p.u8(4) // path kinds stop at 3
	p.u8(0)
	b.addAttr(attrBytes(rvtaName, p.Bytes()))

	_, err := Parse(b.build())
	if !errors.Is(err, ErrInvalidTypePathKind) {
		t.Fatalf("Parse() error = %v, want ErrInvalidTypePathKind", err)
	}
}

func TestBootstrapMethodsAttribute(t *testing.T) {
	b := simpleClass(52)
	bsmName := b.utf8("BootstrapMethods")
	var p cw
	p.u16(1)
	p.u16(21) // method handle index, not validated by the decoder
	p.u16(2)
	p.u16(5)
	p.u16(6)
	b.addAttr(attrBytes(bsmName, p.Bytes()))
	cf := mustParse(t, b.build())

	bsm := cf.BootstrapMethods()
	if bsm == nil {
		t.Fatal("BootstrapMethods() = nil")
	}
	if len(bsm.Methods) != 1 {
		t.Fatalf("got %d bootstrap methods, want 1", len(bsm.Methods))
	}
	m := bsm.Methods[0]
	if m.MethodRef != 21 || len(m.Arguments) != 2 || m.Arguments[0] != 5 || m.Arguments[1] != 6 {
		t.Errorf("bootstrap method = %+v", m)
	}
}

func TestRecordAttribute(t *testing.T) {
	b := simpleClass(52)
	recName := b.utf8("Record")
	sigName := b.utf8("Signature")
	compName := b.utf8("x")
	compDesc := b.utf8("I")
	sigValue := b.utf8("TI;")

	var sig cw
	sig.u16(sigValue)
	var p cw
	p.u16(1)
	p.u16(compName)
	p.u16(compDesc)
	p.u16(1)
	p.Write(attrBytes(sigName, sig.Bytes()))
	b.addAttr(attrBytes(recName, p.Bytes()))
	cf := mustParse(t, b.build())

	rec := cf.Attributes[0].(*RecordAttribute)
	if len(rec.Components) != 1 {
		t.Fatalf("got %d components, want 1", len(rec.Components))
	}
	comp := rec.Components[0]
	if comp.NameIndex != compName || comp.DescriptorIndex != compDesc {
		t.Errorf("component = %+v", comp)
	}
	if s, ok := comp.Attributes[0].(*SignatureAttribute); !ok || s.SignatureIndex != sigValue {
		t.Errorf("component attribute = %#v", comp.Attributes[0])
	}
}

func TestMarkerAttributes(t *testing.T) {
	b := simpleClass(52)
	depName := b.utf8("Deprecated")
	synName := b.utf8("Synthetic")
	b.addAttr(attrBytes(depName, nil))
	b.addAttr(attrBytes(synName, nil))
	cf := mustParse(t, b.build())

	if _, ok := cf.Attributes[0].(*DeprecatedAttribute); !ok {
		t.Errorf("attribute 0 is %T, want *DeprecatedAttribute", cf.Attributes[0])
	}
	if _, ok := cf.Attributes[1].(*SyntheticAttribute); !ok {
		t.Errorf("attribute 1 is %T, want *SyntheticAttribute", cf.Attributes[1])
	}
}

func TestAttributeNameNotUtf8(t *testing.T) {
	b := simpleClass(52)
	b.addAttr(attrBytes(b.thisClass, nil)) // Class entry, not Utf8
	_, err := Parse(b.build())
	if !errors.Is(err, ErrInvalidAttributeName) {
		t.Fatalf("Parse() error = %v, want ErrInvalidAttributeName", err)
	}
}

func TestAttributeTruncatedPayload(t *testing.T) {
	// Declared length shorter than the Code structure needs.
	b := simpleClass(52)
	codeName := b.utf8("Code")
	mName := b.utf8("run")
	mDesc := b.utf8("()V")
	b.addMethod(uint16(MethodAccPublic), mName, mDesc, attrBytes(codeName, []byte{0, 1}))
	_, err := Parse(b.build())
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("Parse() error = %v, want ErrUnexpectedEOF", err)
	}

	// Declared length running past the end of the file.
	b2 := simpleClass(52)
	unkName := b2.utf8("Whatever")
	var raw cw
	raw.u16(unkName)
	raw.u32(1000)
	raw.u8(1)
	b2.addAttr(raw.Bytes())
	_, err = Parse(b2.build())
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("Parse() error = %v, want ErrUnexpectedEOF", err)
	}
}
