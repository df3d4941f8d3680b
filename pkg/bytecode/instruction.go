package bytecode

import (
	"errors"
	"fmt"
)

// Decode error sentinels. Returned errors wrap one of these with the
// instruction name and offset.
var (
	// ErrTruncated means the code array ended mid-instruction.
	ErrTruncated = errors.New("truncated instruction")
	// ErrInvalidSwitch means a switch payload is internally inconsistent.
	ErrInvalidSwitch = errors.New("malformed switch")
	// ErrInvalidWide means a wide prefix was applied to an opcode that
	// has no widened form.
	ErrInvalidWide = errors.New("invalid wide target")
)

// Operand is one decoded operand value. Pool and variable indexes are
// zero-extended, immediates and offsets sign-extended per their spec.
type Operand struct {
	Kind  OperandKind
	Value int32
}

// SwitchPair is one lookupswitch case.
type SwitchPair struct {
	Match  int32
	Offset int32
}

// SwitchData is the decoded payload of tableswitch and lookupswitch.
// All offsets are relative to the opcode byte, as encoded.
type SwitchData struct {
	Default int32
	Low     int32        // tableswitch
	High    int32        // tableswitch
	Offsets []int32      // tableswitch jump table, High-Low+1 entries
	Pairs   []SwitchPair // lookupswitch cases
}

// Instruction is one decoded instruction.
//
// For wide-prefixed instructions Op is the widened opcode (iload, iinc,
// ...), Wide is set, and Off points at the prefix byte.
type Instruction struct {
	Off      int // offset of the opcode byte within the code array
	Op       Opcode
	Wide     bool
	Operands []Operand
	Switch   *SwitchData // non-nil only for tableswitch and lookupswitch
	Size     int         // total encoded length in bytes
}

// Next returns the offset of the following instruction.
func (in Instruction) Next() int {
	return in.Off + in.Size
}

// String renders the instruction in disassembly form without constant
// pool resolution. Branch targets are shown as absolute code offsets.
func (in Instruction) String() string {
	name := in.Op.String()
	if in.Wide {
		name += "_w"
	}
	if in.Switch != nil {
		if in.Op == OpTableswitch {
			return fmt.Sprintf("%s %d to %d", name, in.Switch.Low, in.Switch.High)
		}
		return fmt.Sprintf("%s %d pairs", name, len(in.Switch.Pairs))
	}
	s := name
	for i, operand := range in.Operands {
		sep := " "
		if i > 0 {
			sep = ", "
		}
		switch operand.Kind {
		case OperandPoolIndex:
			s += fmt.Sprintf("%s#%d", sep, operand.Value)
		case OperandOffset:
			s += fmt.Sprintf("%s%d", sep, in.Off+int(operand.Value))
		default:
			s += fmt.Sprintf("%s%d", sep, operand.Value)
		}
	}
	return s
}

// DecodeAt decodes the instruction whose opcode byte is at off.
//
// Unassigned opcode bytes decode to a zero-operand placeholder rather
// than an error; running off the end of the code array mid-operand is
// an error. The same routine serves both linear disassembly and the
// interpreter's fetch step.
func DecodeAt(code []byte, off int) (Instruction, error) {
	if off < 0 || off >= len(code) {
		return Instruction{}, fmt.Errorf("%w: offset %d out of range [0, %d)", ErrTruncated, off, len(code))
	}
	op := Opcode(code[off])
	switch op {
	case OpTableswitch:
		return decodeTableswitch(code, off)
	case OpLookupswitch:
		return decodeLookupswitch(code, off)
	case OpWide:
		return decodeWide(code, off)
	}

	info := GetOpcodeInfo(op)
	in := Instruction{Off: off, Op: op}
	pos := off + 1
	for _, spec := range info.Operands {
		v, next, err := readOperand(code, pos, spec, info.Name)
		if err != nil {
			return Instruction{}, err
		}
		in.Operands = append(in.Operands, Operand{Kind: spec.Kind, Value: v})
		pos = next
	}
	in.Size = pos - off
	return in, nil
}

// Decode decodes an entire code array front to back.
func Decode(code []byte) ([]Instruction, error) {
	var out []Instruction
	for off := 0; off < len(code); {
		in, err := DecodeAt(code, off)
		if err != nil {
			return out, err
		}
		out = append(out, in)
		off = in.Next()
	}
	return out, nil
}

// readOperand reads one big-endian operand of spec.Width bytes.
func readOperand(code []byte, pos int, spec OperandSpec, name string) (int32, int, error) {
	end := pos + spec.Width
	if end > len(code) {
		return 0, 0, fmt.Errorf("%w: %s operand at offset %d", ErrTruncated, name, pos)
	}
	var u uint32
	for _, b := range code[pos:end] {
		u = u<<8 | uint32(b)
	}
	v := int32(u)
	if spec.Signed && spec.Width < 4 {
		shift := uint(32 - 8*spec.Width)
		v = int32(u<<shift) >> shift
	}
	return v, end, nil
}

func readS32(code []byte, pos int, what string) (int32, int, error) {
	if pos+4 > len(code) {
		return 0, 0, fmt.Errorf("%w: %s at offset %d", ErrTruncated, what, pos)
	}
	u := uint32(code[pos])<<24 | uint32(code[pos+1])<<16 | uint32(code[pos+2])<<8 | uint32(code[pos+3])
	return int32(u), pos + 4, nil
}

// switchPad returns the number of padding bytes between the switch
// opcode at off and its first 4-byte-aligned payload word. Alignment is
// relative to the start of the code array.
func switchPad(off int) int {
	return (4 - (off+1)%4) % 4
}

func decodeTableswitch(code []byte, off int) (Instruction, error) {
	pos := off + 1 + switchPad(off)
	def, pos, err := readS32(code, pos, "tableswitch default")
	if err != nil {
		return Instruction{}, err
	}
	low, pos, err := readS32(code, pos, "tableswitch low")
	if err != nil {
		return Instruction{}, err
	}
	high, pos, err := readS32(code, pos, "tableswitch high")
	if err != nil {
		return Instruction{}, err
	}
	if high < low {
		return Instruction{}, fmt.Errorf("%w: tableswitch low %d > high %d at offset %d", ErrInvalidSwitch, low, high, off)
	}
	n := int(high) - int(low) + 1
	if n > (len(code)-pos)/4 {
		return Instruction{}, fmt.Errorf("%w: tableswitch needs %d entries at offset %d", ErrTruncated, n, off)
	}
	sw := &SwitchData{Default: def, Low: low, High: high, Offsets: make([]int32, n)}
	for i := 0; i < n; i++ {
		sw.Offsets[i], pos, err = readS32(code, pos, "tableswitch entry")
		if err != nil {
			return Instruction{}, err
		}
	}
	return Instruction{Off: off, Op: OpTableswitch, Switch: sw, Size: pos - off}, nil
}

func decodeLookupswitch(code []byte, off int) (Instruction, error) {
	pos := off + 1 + switchPad(off)
	def, pos, err := readS32(code, pos, "lookupswitch default")
	if err != nil {
		return Instruction{}, err
	}
	npairs, pos, err := readS32(code, pos, "lookupswitch npairs")
	if err != nil {
		return Instruction{}, err
	}
	if npairs < 0 {
		return Instruction{}, fmt.Errorf("%w: lookupswitch npairs %d at offset %d", ErrInvalidSwitch, npairs, off)
	}
	n := int(npairs)
	if n > (len(code)-pos)/8 {
		return Instruction{}, fmt.Errorf("%w: lookupswitch needs %d pairs at offset %d", ErrTruncated, n, off)
	}
	sw := &SwitchData{Default: def, Pairs: make([]SwitchPair, n)}
	for i := 0; i < n; i++ {
		sw.Pairs[i].Match, pos, err = readS32(code, pos, "lookupswitch match")
		if err != nil {
			return Instruction{}, err
		}
		sw.Pairs[i].Offset, pos, err = readS32(code, pos, "lookupswitch offset")
		if err != nil {
			return Instruction{}, err
		}
	}
	return Instruction{Off: off, Op: OpLookupswitch, Switch: sw, Size: pos - off}, nil
}

// decodeWide handles the wide prefix: the next opcode's variable slot
// operand grows to u16, and for iinc the increment grows to s16.
func decodeWide(code []byte, off int) (Instruction, error) {
	if off+1 >= len(code) {
		return Instruction{}, fmt.Errorf("%w: wide prefix at offset %d", ErrTruncated, off)
	}
	target := Opcode(code[off+1])
	var specs []OperandSpec
	switch target {
	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore, OpRet:
		specs = []OperandSpec{{OperandVarIndex, 2, false}}
	case OpIinc:
		specs = []OperandSpec{{OperandVarIndex, 2, false}, {OperandImmediate, 2, true}}
	default:
		return Instruction{}, fmt.Errorf("%w: wide %s at offset %d", ErrInvalidWide, target, off)
	}

	in := Instruction{Off: off, Op: target, Wide: true}
	pos := off + 2
	for _, spec := range specs {
		v, next, err := readOperand(code, pos, spec, "wide "+target.String())
		if err != nil {
			return Instruction{}, err
		}
		in.Operands = append(in.Operands, Operand{Kind: spec.Kind, Value: v})
		pos = next
	}
	in.Size = pos - off
	return in, nil
}
