package classfile

// ClassAccessFlags is the access_flags mask of a class or interface.
type ClassAccessFlags uint16

const (
	ClassAccPublic     ClassAccessFlags = 0x0001
	ClassAccFinal      ClassAccessFlags = 0x0010
	ClassAccSuper      ClassAccessFlags = 0x0020
	ClassAccInterface  ClassAccessFlags = 0x0200
	ClassAccAbstract   ClassAccessFlags = 0x0400
	ClassAccSynthetic  ClassAccessFlags = 0x1000
	ClassAccAnnotation ClassAccessFlags = 0x2000
	ClassAccEnum       ClassAccessFlags = 0x4000
	ClassAccModule     ClassAccessFlags = 0x8000
)

func (f ClassAccessFlags) Has(flag ClassAccessFlags) bool { return f&flag != 0 }

// Names returns the ACC_* names of every set bit, in flag-value order.
func (f ClassAccessFlags) Names() []string {
	var names []string
	for _, e := range classFlagNames {
		if f.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	return names
}

// Modifiers returns the source-level modifier keywords for display.
// ACC_SUPER has no source form and annotation/enum/interface/module are
// rendered by the declaration shape, not as modifiers.
func (f ClassAccessFlags) Modifiers() []string {
	var mods []string
	if f.Has(ClassAccPublic) {
		mods = append(mods, "public")
	}
	if f.Has(ClassAccFinal) && !f.Has(ClassAccEnum) {
		mods = append(mods, "final")
	}
	if f.Has(ClassAccAbstract) && !f.Has(ClassAccInterface) {
		mods = append(mods, "abstract")
	}
	return mods
}

var classFlagNames = []struct {
	flag ClassAccessFlags
	name string
}{
	{ClassAccPublic, "ACC_PUBLIC"},
	{ClassAccFinal, "ACC_FINAL"},
	{ClassAccSuper, "ACC_SUPER"},
	{ClassAccInterface, "ACC_INTERFACE"},
	{ClassAccAbstract, "ACC_ABSTRACT"},
	{ClassAccSynthetic, "ACC_SYNTHETIC"},
	{ClassAccAnnotation, "ACC_ANNOTATION"},
	{ClassAccEnum, "ACC_ENUM"},
	{ClassAccModule, "ACC_MODULE"},
}

// FieldAccessFlags is the access_flags mask of a field.
type FieldAccessFlags uint16

const (
	FieldAccPublic    FieldAccessFlags = 0x0001
	FieldAccPrivate   FieldAccessFlags = 0x0002
	FieldAccProtected FieldAccessFlags = 0x0004
	FieldAccStatic    FieldAccessFlags = 0x0008
	FieldAccFinal     FieldAccessFlags = 0x0010
	FieldAccVolatile  FieldAccessFlags = 0x0040
	FieldAccTransient FieldAccessFlags = 0x0080
	FieldAccSynthetic FieldAccessFlags = 0x1000
	FieldAccEnum      FieldAccessFlags = 0x4000
)

func (f FieldAccessFlags) Has(flag FieldAccessFlags) bool { return f&flag != 0 }

func (f FieldAccessFlags) Names() []string {
	var names []string
	for _, e := range fieldFlagNames {
		if f.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	return names
}

// Modifiers returns the source-level modifier keywords, in the order the
// language would write them.
func (f FieldAccessFlags) Modifiers() []string {
	var mods []string
	switch {
	case f.Has(FieldAccPublic):
		mods = append(mods, "public")
	case f.Has(FieldAccProtected):
		mods = append(mods, "protected")
	case f.Has(FieldAccPrivate):
		mods = append(mods, "private")
	}
	if f.Has(FieldAccStatic) {
		mods = append(mods, "static")
	}
	if f.Has(FieldAccFinal) {
		mods = append(mods, "final")
	}
	if f.Has(FieldAccVolatile) {
		mods = append(mods, "volatile")
	}
	if f.Has(FieldAccTransient) {
		mods = append(mods, "transient")
	}
	return mods
}

var fieldFlagNames = []struct {
	flag FieldAccessFlags
	name string
}{
	{FieldAccPublic, "ACC_PUBLIC"},
	{FieldAccPrivate, "ACC_PRIVATE"},
	{FieldAccProtected, "ACC_PROTECTED"},
	{FieldAccStatic, "ACC_STATIC"},
	{FieldAccFinal, "ACC_FINAL"},
	{FieldAccVolatile, "ACC_VOLATILE"},
	{FieldAccTransient, "ACC_TRANSIENT"},
	{FieldAccSynthetic, "ACC_SYNTHETIC"},
	{FieldAccEnum, "ACC_ENUM"},
}

// MethodAccessFlags is the access_flags mask of a method.
type MethodAccessFlags uint16

const (
	MethodAccPublic       MethodAccessFlags = 0x0001
	MethodAccPrivate      MethodAccessFlags = 0x0002
	MethodAccProtected    MethodAccessFlags = 0x0004
	MethodAccStatic       MethodAccessFlags = 0x0008
	MethodAccFinal        MethodAccessFlags = 0x0010
	MethodAccSynchronized MethodAccessFlags = 0x0020
	MethodAccBridge       MethodAccessFlags = 0x0040
	MethodAccVarArgs      MethodAccessFlags = 0x0080
	MethodAccNative       MethodAccessFlags = 0x0100
	MethodAccAbstract     MethodAccessFlags = 0x0400
	MethodAccStrict       MethodAccessFlags = 0x0800
	MethodAccSynthetic    MethodAccessFlags = 0x1000
)

func (f MethodAccessFlags) Has(flag MethodAccessFlags) bool { return f&flag != 0 }

func (f MethodAccessFlags) Names() []string {
	var names []string
	for _, e := range methodFlagNames {
		if f.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	return names
}

// Modifiers returns the source-level modifier keywords. Bridge, varargs,
// and synthetic are compiler artifacts with no source form and are not
// rendered.
func (f MethodAccessFlags) Modifiers() []string {
	var mods []string
	switch {
	case f.Has(MethodAccPublic):
		mods = append(mods, "public")
	case f.Has(MethodAccProtected):
		mods = append(mods, "protected")
	case f.Has(MethodAccPrivate):
		mods = append(mods, "private")
	}
	if f.Has(MethodAccStatic) {
		mods = append(mods, "static")
	}
	if f.Has(MethodAccFinal) {
		mods = append(mods, "final")
	}
	if f.Has(MethodAccSynchronized) {
		mods = append(mods, "synchronized")
	}
	if f.Has(MethodAccNative) {
		mods = append(mods, "native")
	}
	if f.Has(MethodAccAbstract) {
		mods = append(mods, "abstract")
	}
	if f.Has(MethodAccStrict) {
		mods = append(mods, "strictfp")
	}
	return mods
}

var methodFlagNames = []struct {
	flag MethodAccessFlags
	name string
}{
	{MethodAccPublic, "ACC_PUBLIC"},
	{MethodAccPrivate, "ACC_PRIVATE"},
	{MethodAccProtected, "ACC_PROTECTED"},
	{MethodAccStatic, "ACC_STATIC"},
	{MethodAccFinal, "ACC_FINAL"},
	{MethodAccSynchronized, "ACC_SYNCHRONIZED"},
	{MethodAccBridge, "ACC_BRIDGE"},
	{MethodAccVarArgs, "ACC_VARARGS"},
	{MethodAccNative, "ACC_NATIVE"},
	{MethodAccAbstract, "ACC_ABSTRACT"},
	{MethodAccStrict, "ACC_STRICT"},
	{MethodAccSynthetic, "ACC_SYNTHETIC"},
}
