package bytecode

import "fmt"

// Opcode is a single JVM instruction byte.
// Mnemonics follow the class file format: lowercase, underscore-separated.
type Opcode byte

const (
	// ========================================================================
	// Constants (0x00-0x14)
	// ========================================================================

	OpNop        Opcode = 0x00
	OpAconstNull Opcode = 0x01 // Push null reference
	OpIconstM1   Opcode = 0x02 // Push int -1
	OpIconst0    Opcode = 0x03
	OpIconst1    Opcode = 0x04
	OpIconst2    Opcode = 0x05
	OpIconst3    Opcode = 0x06
	OpIconst4    Opcode = 0x07
	OpIconst5    Opcode = 0x08
	OpLconst0    Opcode = 0x09
	OpLconst1    Opcode = 0x0A
	OpFconst0    Opcode = 0x0B
	OpFconst1    Opcode = 0x0C
	OpFconst2    Opcode = 0x0D
	OpDconst0    Opcode = 0x0E
	OpDconst1    Opcode = 0x0F
	OpBipush     Opcode = 0x10 // bipush <value:s8>
	OpSipush     Opcode = 0x11 // sipush <value:s16>
	OpLdc        Opcode = 0x12 // ldc <index:u8>
	OpLdcW       Opcode = 0x13 // ldc_w <index:u16>
	OpLdc2W      Opcode = 0x14 // ldc2_w <index:u16>, loads long or double

	// ========================================================================
	// Loads (0x15-0x35)
	// ========================================================================

	OpIload  Opcode = 0x15 // iload <slot:u8>
	OpLload  Opcode = 0x16 // lload <slot:u8>
	OpFload  Opcode = 0x17 // fload <slot:u8>
	OpDload  Opcode = 0x18 // dload <slot:u8>
	OpAload  Opcode = 0x19 // aload <slot:u8>
	OpIload0 Opcode = 0x1A
	OpIload1 Opcode = 0x1B
	OpIload2 Opcode = 0x1C
	OpIload3 Opcode = 0x1D
	OpLload0 Opcode = 0x1E
	OpLload1 Opcode = 0x1F
	OpLload2 Opcode = 0x20
	OpLload3 Opcode = 0x21
	OpFload0 Opcode = 0x22
	OpFload1 Opcode = 0x23
	OpFload2 Opcode = 0x24
	OpFload3 Opcode = 0x25
	OpDload0 Opcode = 0x26
	OpDload1 Opcode = 0x27
	OpDload2 Opcode = 0x28
	OpDload3 Opcode = 0x29
	OpAload0 Opcode = 0x2A
	OpAload1 Opcode = 0x2B
	OpAload2 Opcode = 0x2C
	OpAload3 Opcode = 0x2D
	OpIaload Opcode = 0x2E // Load int from array
	OpLaload Opcode = 0x2F
	OpFaload Opcode = 0x30
	OpDaload Opcode = 0x31
	OpAaload Opcode = 0x32
	OpBaload Opcode = 0x33 // Load byte or boolean from array
	OpCaload Opcode = 0x34
	OpSaload Opcode = 0x35

	// ========================================================================
	// Stores (0x36-0x56)
	// ========================================================================

	OpIstore  Opcode = 0x36 // istore <slot:u8>
	OpLstore  Opcode = 0x37 // lstore <slot:u8>
	OpFstore  Opcode = 0x38 // fstore <slot:u8>
	OpDstore  Opcode = 0x39 // dstore <slot:u8>
	OpAstore  Opcode = 0x3A // astore <slot:u8>
	OpIstore0 Opcode = 0x3B
	OpIstore1 Opcode = 0x3C
	OpIstore2 Opcode = 0x3D
	OpIstore3 Opcode = 0x3E
	OpLstore0 Opcode = 0x3F
	OpLstore1 Opcode = 0x40
	OpLstore2 Opcode = 0x41
	OpLstore3 Opcode = 0x42
	OpFstore0 Opcode = 0x43
	OpFstore1 Opcode = 0x44
	OpFstore2 Opcode = 0x45
	OpFstore3 Opcode = 0x46
	OpDstore0 Opcode = 0x47
	OpDstore1 Opcode = 0x48
	OpDstore2 Opcode = 0x49
	OpDstore3 Opcode = 0x4A
	OpAstore0 Opcode = 0x4B
	OpAstore1 Opcode = 0x4C
	OpAstore2 Opcode = 0x4D
	OpAstore3 Opcode = 0x4E
	OpIastore Opcode = 0x4F // Store int into array
	OpLastore Opcode = 0x50
	OpFastore Opcode = 0x51
	OpDastore Opcode = 0x52
	OpAastore Opcode = 0x53
	OpBastore Opcode = 0x54
	OpCastore Opcode = 0x55
	OpSastore Opcode = 0x56

	// ========================================================================
	// Stack (0x57-0x5F)
	// ========================================================================

	OpPop    Opcode = 0x57
	OpPop2   Opcode = 0x58 // Pop two slots (or one long/double)
	OpDup    Opcode = 0x59
	OpDupX1  Opcode = 0x5A // Duplicate top, insert beneath second
	OpDupX2  Opcode = 0x5B // Duplicate top, insert three slots down
	OpDup2   Opcode = 0x5C
	OpDup2X1 Opcode = 0x5D
	OpDup2X2 Opcode = 0x5E
	OpSwap   Opcode = 0x5F

	// ========================================================================
	// Arithmetic (0x60-0x84)
	// ========================================================================

	OpIadd  Opcode = 0x60
	OpLadd  Opcode = 0x61
	OpFadd  Opcode = 0x62
	OpDadd  Opcode = 0x63
	OpIsub  Opcode = 0x64
	OpLsub  Opcode = 0x65
	OpFsub  Opcode = 0x66
	OpDsub  Opcode = 0x67
	OpImul  Opcode = 0x68
	OpLmul  Opcode = 0x69
	OpFmul  Opcode = 0x6A
	OpDmul  Opcode = 0x6B
	OpIdiv  Opcode = 0x6C
	OpLdiv  Opcode = 0x6D
	OpFdiv  Opcode = 0x6E
	OpDdiv  Opcode = 0x6F
	OpIrem  Opcode = 0x70
	OpLrem  Opcode = 0x71
	OpFrem  Opcode = 0x72
	OpDrem  Opcode = 0x73
	OpIneg  Opcode = 0x74
	OpLneg  Opcode = 0x75
	OpFneg  Opcode = 0x76
	OpDneg  Opcode = 0x77
	OpIshl  Opcode = 0x78
	OpLshl  Opcode = 0x79
	OpIshr  Opcode = 0x7A // Arithmetic shift right
	OpLshr  Opcode = 0x7B
	OpIushr Opcode = 0x7C // Logical shift right
	OpLushr Opcode = 0x7D
	OpIand  Opcode = 0x7E
	OpLand  Opcode = 0x7F
	OpIor   Opcode = 0x80
	OpLor   Opcode = 0x81
	OpIxor  Opcode = 0x82
	OpLxor  Opcode = 0x83
	OpIinc  Opcode = 0x84 // iinc <slot:u8> <const:s8>

	// ========================================================================
	// Conversions (0x85-0x93)
	// ========================================================================

	OpI2L Opcode = 0x85
	OpI2F Opcode = 0x86
	OpI2D Opcode = 0x87
	OpL2I Opcode = 0x88
	OpL2F Opcode = 0x89
	OpL2D Opcode = 0x8A
	OpF2I Opcode = 0x8B
	OpF2L Opcode = 0x8C
	OpF2D Opcode = 0x8D
	OpD2I Opcode = 0x8E
	OpD2L Opcode = 0x8F
	OpD2F Opcode = 0x90
	OpI2B Opcode = 0x91 // Truncate int to byte, sign-extend back
	OpI2C Opcode = 0x92 // Truncate int to char, zero-extend back
	OpI2S Opcode = 0x93 // Truncate int to short, sign-extend back

	// ========================================================================
	// Comparisons (0x94-0xA6)
	// ========================================================================

	OpLcmp     Opcode = 0x94 // Compare two longs, push -1/0/1
	OpFcmpl    Opcode = 0x95 // Compare floats, NaN yields -1
	OpFcmpg    Opcode = 0x96 // Compare floats, NaN yields 1
	OpDcmpl    Opcode = 0x97
	OpDcmpg    Opcode = 0x98
	OpIfeq     Opcode = 0x99 // ifeq <offset:s16>
	OpIfne     Opcode = 0x9A
	OpIflt     Opcode = 0x9B
	OpIfge     Opcode = 0x9C
	OpIfgt     Opcode = 0x9D
	OpIfle     Opcode = 0x9E
	OpIfIcmpeq Opcode = 0x9F // if_icmpeq <offset:s16>
	OpIfIcmpne Opcode = 0xA0
	OpIfIcmplt Opcode = 0xA1
	OpIfIcmpge Opcode = 0xA2
	OpIfIcmpgt Opcode = 0xA3
	OpIfIcmple Opcode = 0xA4
	OpIfAcmpeq Opcode = 0xA5 // Reference equality branch
	OpIfAcmpne Opcode = 0xA6

	// ========================================================================
	// Control (0xA7-0xB1)
	// ========================================================================

	OpGoto         Opcode = 0xA7 // goto <offset:s16>
	OpJsr          Opcode = 0xA8 // jsr <offset:s16>, pushes return address
	OpRet          Opcode = 0xA9 // ret <slot:u8>, jumps to return address in local
	OpTableswitch  Opcode = 0xAA // Variable length: padded jump table
	OpLookupswitch Opcode = 0xAB // Variable length: padded match/offset pairs
	OpIreturn      Opcode = 0xAC
	OpLreturn      Opcode = 0xAD
	OpFreturn      Opcode = 0xAE
	OpDreturn      Opcode = 0xAF
	OpAreturn      Opcode = 0xB0
	OpReturn       Opcode = 0xB1

	// ========================================================================
	// References (0xB2-0xC3)
	// ========================================================================

	OpGetstatic       Opcode = 0xB2 // getstatic <field:u16>
	OpPutstatic       Opcode = 0xB3 // putstatic <field:u16>
	OpGetfield        Opcode = 0xB4 // getfield <field:u16>
	OpPutfield        Opcode = 0xB5 // putfield <field:u16>
	OpInvokevirtual   Opcode = 0xB6 // invokevirtual <method:u16>
	OpInvokespecial   Opcode = 0xB7 // invokespecial <method:u16>
	OpInvokestatic    Opcode = 0xB8 // invokestatic <method:u16>
	OpInvokeinterface Opcode = 0xB9 // invokeinterface <method:u16> <count:u8> <zero:u8>
	OpInvokedynamic   Opcode = 0xBA // invokedynamic <callsite:u16> <zero:u8> <zero:u8>
	OpNew             Opcode = 0xBB // new <class:u16>
	OpNewarray        Opcode = 0xBC // newarray <atype:u8>
	OpAnewarray       Opcode = 0xBD // anewarray <class:u16>
	OpArraylength     Opcode = 0xBE
	OpAthrow          Opcode = 0xBF
	OpCheckcast       Opcode = 0xC0 // checkcast <class:u16>
	OpInstanceof      Opcode = 0xC1 // instanceof <class:u16>
	OpMonitorenter    Opcode = 0xC2
	OpMonitorexit     Opcode = 0xC3

	// ========================================================================
	// Extended (0xC4-0xC9)
	// ========================================================================

	OpWide           Opcode = 0xC4 // Prefix: widens the next instruction's slot operand to u16
	OpMultianewarray Opcode = 0xC5 // multianewarray <class:u16> <dims:u8>
	OpIfnull         Opcode = 0xC6 // ifnull <offset:s16>
	OpIfnonnull      Opcode = 0xC7 // ifnonnull <offset:s16>
	OpGotoW          Opcode = 0xC8 // goto_w <offset:s32>
	OpJsrW           Opcode = 0xC9 // jsr_w <offset:s32>
)

// OperandKind classifies how an encoded operand is interpreted.
type OperandKind uint8

const (
	// OperandPoolIndex is an unsigned constant pool index.
	OperandPoolIndex OperandKind = iota + 1
	// OperandVarIndex is an unsigned local variable slot number.
	OperandVarIndex
	// OperandOffset is a signed branch displacement relative to the
	// opcode byte of the instruction that carries it.
	OperandOffset
	// OperandImmediate is a literal embedded directly in the stream.
	OperandImmediate
)

// OperandSpec describes one encoded operand of a fixed-length instruction.
type OperandSpec struct {
	Kind   OperandKind
	Width  int  // encoded size in bytes
	Signed bool // sign-extend when decoding
}

// OpcodeInfo contains decode metadata for an opcode.
// Variable marks tableswitch, lookupswitch, and wide, whose encoded
// length depends on the stream contents rather than on this table.
type OpcodeInfo struct {
	Name     string
	Operands []OperandSpec
	Variable bool
}

// Shared operand layouts. Decoding only reads these.
var (
	pool8  = []OperandSpec{{OperandPoolIndex, 1, false}}
	pool16 = []OperandSpec{{OperandPoolIndex, 2, false}}
	var8   = []OperandSpec{{OperandVarIndex, 1, false}}
	imm8   = []OperandSpec{{OperandImmediate, 1, true}}
	imm16  = []OperandSpec{{OperandImmediate, 2, true}}
	off16  = []OperandSpec{{OperandOffset, 2, true}}
	off32  = []OperandSpec{{OperandOffset, 4, true}}

	iincOps     = []OperandSpec{{OperandVarIndex, 1, false}, {OperandImmediate, 1, true}}
	atypeOps    = []OperandSpec{{OperandImmediate, 1, false}}
	invIfaceOps = []OperandSpec{{OperandPoolIndex, 2, false}, {OperandImmediate, 1, false}, {OperandImmediate, 1, false}}
	invDynOps   = []OperandSpec{{OperandPoolIndex, 2, false}, {OperandImmediate, 1, false}, {OperandImmediate, 1, false}}
	multiOps    = []OperandSpec{{OperandPoolIndex, 2, false}, {OperandImmediate, 1, false}}
)

// opcodeInfoTable maps opcodes to their decode metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	// Constants
	OpNop:        {Name: "nop"},
	OpAconstNull: {Name: "aconst_null"},
	OpIconstM1:   {Name: "iconst_m1"},
	OpIconst0:    {Name: "iconst_0"},
	OpIconst1:    {Name: "iconst_1"},
	OpIconst2:    {Name: "iconst_2"},
	OpIconst3:    {Name: "iconst_3"},
	OpIconst4:    {Name: "iconst_4"},
	OpIconst5:    {Name: "iconst_5"},
	OpLconst0:    {Name: "lconst_0"},
	OpLconst1:    {Name: "lconst_1"},
	OpFconst0:    {Name: "fconst_0"},
	OpFconst1:    {Name: "fconst_1"},
	OpFconst2:    {Name: "fconst_2"},
	OpDconst0:    {Name: "dconst_0"},
	OpDconst1:    {Name: "dconst_1"},
	OpBipush:     {Name: "bipush", Operands: imm8},
	OpSipush:     {Name: "sipush", Operands: imm16},
	OpLdc:        {Name: "ldc", Operands: pool8},
	OpLdcW:       {Name: "ldc_w", Operands: pool16},
	OpLdc2W:      {Name: "ldc2_w", Operands: pool16},

	// Loads
	OpIload:  {Name: "iload", Operands: var8},
	OpLload:  {Name: "lload", Operands: var8},
	OpFload:  {Name: "fload", Operands: var8},
	OpDload:  {Name: "dload", Operands: var8},
	OpAload:  {Name: "aload", Operands: var8},
	OpIload0: {Name: "iload_0"},
	OpIload1: {Name: "iload_1"},
	OpIload2: {Name: "iload_2"},
	OpIload3: {Name: "iload_3"},
	OpLload0: {Name: "lload_0"},
	OpLload1: {Name: "lload_1"},
	OpLload2: {Name: "lload_2"},
	OpLload3: {Name: "lload_3"},
	OpFload0: {Name: "fload_0"},
	OpFload1: {Name: "fload_1"},
	OpFload2: {Name: "fload_2"},
	OpFload3: {Name: "fload_3"},
	OpDload0: {Name: "dload_0"},
	OpDload1: {Name: "dload_1"},
	OpDload2: {Name: "dload_2"},
	OpDload3: {Name: "dload_3"},
	OpAload0: {Name: "aload_0"},
	OpAload1: {Name: "aload_1"},
	OpAload2: {Name: "aload_2"},
	OpAload3: {Name: "aload_3"},
	OpIaload: {Name: "iaload"},
	OpLaload: {Name: "laload"},
	OpFaload: {Name: "faload"},
	OpDaload: {Name: "daload"},
	OpAaload: {Name: "aaload"},
	OpBaload: {Name: "baload"},
	OpCaload: {Name: "caload"},
	OpSaload: {Name: "saload"},

	// Stores
	OpIstore:  {Name: "istore", Operands: var8},
	OpLstore:  {Name: "lstore", Operands: var8},
	OpFstore:  {Name: "fstore", Operands: var8},
	OpDstore:  {Name: "dstore", Operands: var8},
	OpAstore:  {Name: "astore", Operands: var8},
	OpIstore0: {Name: "istore_0"},
	OpIstore1: {Name: "istore_1"},
	OpIstore2: {Name: "istore_2"},
	OpIstore3: {Name: "istore_3"},
	OpLstore0: {Name: "lstore_0"},
	OpLstore1: {Name: "lstore_1"},
	OpLstore2: {Name: "lstore_2"},
	OpLstore3: {Name: "lstore_3"},
	OpFstore0: {Name: "fstore_0"},
	OpFstore1: {Name: "fstore_1"},
	OpFstore2: {Name: "fstore_2"},
	OpFstore3: {Name: "fstore_3"},
	OpDstore0: {Name: "dstore_0"},
	OpDstore1: {Name: "dstore_1"},
	OpDstore2: {Name: "dstore_2"},
	OpDstore3: {Name: "dstore_3"},
	OpAstore0: {Name: "astore_0"},
	OpAstore1: {Name: "astore_1"},
	OpAstore2: {Name: "astore_2"},
	OpAstore3: {Name: "astore_3"},
	OpIastore: {Name: "iastore"},
	OpLastore: {Name: "lastore"},
	OpFastore: {Name: "fastore"},
	OpDastore: {Name: "dastore"},
	OpAastore: {Name: "aastore"},
	OpBastore: {Name: "bastore"},
	OpCastore: {Name: "castore"},
	OpSastore: {Name: "sastore"},

	// Stack
	OpPop:    {Name: "pop"},
	OpPop2:   {Name: "pop2"},
	OpDup:    {Name: "dup"},
	OpDupX1:  {Name: "dup_x1"},
	OpDupX2:  {Name: "dup_x2"},
	OpDup2:   {Name: "dup2"},
	OpDup2X1: {Name: "dup2_x1"},
	OpDup2X2: {Name: "dup2_x2"},
	OpSwap:   {Name: "swap"},

	// Arithmetic
	OpIadd:  {Name: "iadd"},
	OpLadd:  {Name: "ladd"},
	OpFadd:  {Name: "fadd"},
	OpDadd:  {Name: "dadd"},
	OpIsub:  {Name: "isub"},
	OpLsub:  {Name: "lsub"},
	OpFsub:  {Name: "fsub"},
	OpDsub:  {Name: "dsub"},
	OpImul:  {Name: "imul"},
	OpLmul:  {Name: "lmul"},
	OpFmul:  {Name: "fmul"},
	OpDmul:  {Name: "dmul"},
	OpIdiv:  {Name: "idiv"},
	OpLdiv:  {Name: "ldiv"},
	OpFdiv:  {Name: "fdiv"},
	OpDdiv:  {Name: "ddiv"},
	OpIrem:  {Name: "irem"},
	OpLrem:  {Name: "lrem"},
	OpFrem:  {Name: "frem"},
	OpDrem:  {Name: "drem"},
	OpIneg:  {Name: "ineg"},
	OpLneg:  {Name: "lneg"},
	OpFneg:  {Name: "fneg"},
	OpDneg:  {Name: "dneg"},
	OpIshl:  {Name: "ishl"},
	OpLshl:  {Name: "lshl"},
	OpIshr:  {Name: "ishr"},
	OpLshr:  {Name: "lshr"},
	OpIushr: {Name: "iushr"},
	OpLushr: {Name: "lushr"},
	OpIand:  {Name: "iand"},
	OpLand:  {Name: "land"},
	OpIor:   {Name: "ior"},
	OpLor:   {Name: "lor"},
	OpIxor:  {Name: "ixor"},
	OpLxor:  {Name: "lxor"},
	OpIinc:  {Name: "iinc", Operands: iincOps},

	// Conversions
	OpI2L: {Name: "i2l"},
	OpI2F: {Name: "i2f"},
	OpI2D: {Name: "i2d"},
	OpL2I: {Name: "l2i"},
	OpL2F: {Name: "l2f"},
	OpL2D: {Name: "l2d"},
	OpF2I: {Name: "f2i"},
	OpF2L: {Name: "f2l"},
	OpF2D: {Name: "f2d"},
	OpD2I: {Name: "d2i"},
	OpD2L: {Name: "d2l"},
	OpD2F: {Name: "d2f"},
	OpI2B: {Name: "i2b"},
	OpI2C: {Name: "i2c"},
	OpI2S: {Name: "i2s"},

	// Comparisons
	OpLcmp:     {Name: "lcmp"},
	OpFcmpl:    {Name: "fcmpl"},
	OpFcmpg:    {Name: "fcmpg"},
	OpDcmpl:    {Name: "dcmpl"},
	OpDcmpg:    {Name: "dcmpg"},
	OpIfeq:     {Name: "ifeq", Operands: off16},
	OpIfne:     {Name: "ifne", Operands: off16},
	OpIflt:     {Name: "iflt", Operands: off16},
	OpIfge:     {Name: "ifge", Operands: off16},
	OpIfgt:     {Name: "ifgt", Operands: off16},
	OpIfle:     {Name: "ifle", Operands: off16},
	OpIfIcmpeq: {Name: "if_icmpeq", Operands: off16},
	OpIfIcmpne: {Name: "if_icmpne", Operands: off16},
	OpIfIcmplt: {Name: "if_icmplt", Operands: off16},
	OpIfIcmpge: {Name: "if_icmpge", Operands: off16},
	OpIfIcmpgt: {Name: "if_icmpgt", Operands: off16},
	OpIfIcmple: {Name: "if_icmple", Operands: off16},
	OpIfAcmpeq: {Name: "if_acmpeq", Operands: off16},
	OpIfAcmpne: {Name: "if_acmpne", Operands: off16},

	// Control
	OpGoto:         {Name: "goto", Operands: off16},
	OpJsr:          {Name: "jsr", Operands: off16},
	OpRet:          {Name: "ret", Operands: var8},
	OpTableswitch:  {Name: "tableswitch", Variable: true},
	OpLookupswitch: {Name: "lookupswitch", Variable: true},
	OpIreturn:      {Name: "ireturn"},
	OpLreturn:      {Name: "lreturn"},
	OpFreturn:      {Name: "freturn"},
	OpDreturn:      {Name: "dreturn"},
	OpAreturn:      {Name: "areturn"},
	OpReturn:       {Name: "return"},

	// References
	OpGetstatic:       {Name: "getstatic", Operands: pool16},
	OpPutstatic:       {Name: "putstatic", Operands: pool16},
	OpGetfield:        {Name: "getfield", Operands: pool16},
	OpPutfield:        {Name: "putfield", Operands: pool16},
	OpInvokevirtual:   {Name: "invokevirtual", Operands: pool16},
	OpInvokespecial:   {Name: "invokespecial", Operands: pool16},
	OpInvokestatic:    {Name: "invokestatic", Operands: pool16},
	OpInvokeinterface: {Name: "invokeinterface", Operands: invIfaceOps},
	OpInvokedynamic:   {Name: "invokedynamic", Operands: invDynOps},
	OpNew:             {Name: "new", Operands: pool16},
	OpNewarray:        {Name: "newarray", Operands: atypeOps},
	OpAnewarray:       {Name: "anewarray", Operands: pool16},
	OpArraylength:     {Name: "arraylength"},
	OpAthrow:          {Name: "athrow"},
	OpCheckcast:       {Name: "checkcast", Operands: pool16},
	OpInstanceof:      {Name: "instanceof", Operands: pool16},
	OpMonitorenter:    {Name: "monitorenter"},
	OpMonitorexit:     {Name: "monitorexit"},

	// Extended
	OpWide:           {Name: "wide", Variable: true},
	OpMultianewarray: {Name: "multianewarray", Operands: multiOps},
	OpIfnull:         {Name: "ifnull", Operands: off16},
	OpIfnonnull:      {Name: "ifnonnull", Operands: off16},
	OpGotoW:          {Name: "goto_w", Operands: off32},
	OpJsrW:           {Name: "jsr_w", Operands: off32},
}

// GetOpcodeInfo returns decode metadata for an opcode.
// Unassigned bytes get a zero-operand placeholder so callers can keep
// decoding without special cases.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("unknown(0x%02X)", byte(op))}
}

// String returns the mnemonic for the opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// IsDefined reports whether the byte is an assigned opcode.
func (op Opcode) IsDefined() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// OperandLen returns the number of operand bytes following the opcode,
// or -1 for variable-length instructions.
func (op Opcode) OperandLen() int {
	info := GetOpcodeInfo(op)
	if info.Variable {
		return -1
	}
	n := 0
	for _, spec := range info.Operands {
		n += spec.Width
	}
	return n
}

// InstructionLen returns the total encoded length including the opcode
// byte, or -1 for variable-length instructions.
func (op Opcode) InstructionLen() int {
	n := op.OperandLen()
	if n < 0 {
		return -1
	}
	return 1 + n
}

// IsBranch reports whether the instruction transfers control via an
// encoded target: conditional branches, goto, jsr, and the switches.
func (op Opcode) IsBranch() bool {
	if op == OpTableswitch || op == OpLookupswitch {
		return true
	}
	for _, spec := range GetOpcodeInfo(op).Operands {
		if spec.Kind == OperandOffset {
			return true
		}
	}
	return false
}

// IsReturn reports whether the instruction returns from the method.
func (op Opcode) IsReturn() bool {
	return op >= OpIreturn && op <= OpReturn
}

// IsInvoke reports whether the instruction calls a method.
func (op Opcode) IsInvoke() bool {
	return op >= OpInvokevirtual && op <= OpInvokedynamic
}

// AllOpcodes returns all defined opcodes (order unspecified).
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
