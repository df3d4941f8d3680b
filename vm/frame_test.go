package vm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/javelin/pkg/bytecode"
	"github.com/chazu/javelin/pkg/classfile"
)

// ---------------------------------------------------------------------------
// Test harness
// ---------------------------------------------------------------------------

func testFrame(code []byte, maxLocals int, pool classfile.ConstantPool) *Frame {
	return NewFrame(&classfile.CodeAttribute{
		MaxStack:  8,
		MaxLocals: uint16(maxLocals),
		Code:      code,
	}, pool)
}

func runCode(t *testing.T, code []byte, maxLocals int) Value {
	t.Helper()
	v, err := testFrame(code, maxLocals, nil).Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return v
}

func runPool(t *testing.T, code []byte, pool classfile.ConstantPool) Value {
	t.Helper()
	v, err := testFrame(code, 4, pool).Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return v
}

// runFault runs code expected to fail and returns the fault after
// checking it wraps the given sentinel.
func runFault(t *testing.T, code []byte, maxLocals int, want error) *Fault {
	t.Helper()
	return faultFrom(t, testFrame(code, maxLocals, nil), want)
}

func faultFrom(t *testing.T, f *Frame, want error) *Fault {
	t.Helper()
	_, err := f.Run()
	if err == nil {
		t.Fatal("Run() succeeded, want fault")
	}
	var flt *Fault
	if !errors.As(err, &flt) {
		t.Fatalf("Run() error = %v, want *Fault", err)
	}
	if !errors.Is(err, want) {
		t.Fatalf("Run() error = %v, want %v", err, want)
	}
	return flt
}

// ---------------------------------------------------------------------------
// Stepping
// ---------------------------------------------------------------------------

func TestStepSequence(t *testing.T) {
	// Method: int x = 0; return x;
	code := []byte{
		0x03, // iconst_0
		0x3B, // istore_0
		0x1A, // iload_0
		0xAC, // ireturn
	}
	f := testFrame(code, 1, nil)

	for i := 0; i < 3; i++ {
		done, err := f.Step()
		if err != nil {
			t.Fatalf("Step() %d error: %v", i, err)
		}
		if done {
			t.Fatalf("Step() %d done = true, want false", i)
		}
	}
	if got := f.PC(); got != 3 {
		t.Errorf("PC() = %d, want 3", got)
	}
	stack := f.Stack()
	if len(stack) != 1 || stack[0] != Int(0) {
		t.Errorf("Stack() = %v, want [int 0]", stack)
	}

	done, err := f.Step()
	if err != nil {
		t.Fatalf("final Step() error: %v", err)
	}
	if !done {
		t.Error("final Step() done = false, want true")
	}
	if !f.Returned() {
		t.Error("Returned() = false, want true")
	}
	if got := f.Result(); got != Int(0) {
		t.Errorf("Result() = %v, want int 0", got)
	}
}

func TestStepAfterReturn(t *testing.T) {
	f := testFrame([]byte{0xB1}, 0, nil) // return
	if _, err := f.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	done, err := f.Step()
	if err != nil {
		t.Fatalf("Step() after return error: %v", err)
	}
	if !done {
		t.Error("Step() after return done = false, want true")
	}
}

func TestRunVoidMethod(t *testing.T) {
	got := runCode(t, []byte{0xB1}, 0) // return
	if got.Kind() != KindEmpty {
		t.Errorf("Run() = %v, want empty value", got)
	}
}

func TestRunPastEndOfCode(t *testing.T) {
	// A lone nop falls off the end of the code array.
	flt := runFault(t, []byte{0x00}, 0, ErrMissingOperand)
	if flt.PC != 1 {
		t.Errorf("fault PC = %d, want 1", flt.PC)
	}
}

func TestTraceOutput(t *testing.T) {
	var buf bytes.Buffer
	f := testFrame([]byte{0x10, 0x05, 0xAC}, 0, nil) // bipush 5; ireturn
	f.SetTrace(&buf)
	if _, err := f.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[0000] bipush 5") {
		t.Errorf("trace missing bipush line:\n%s", out)
	}
	if !strings.Contains(out, "[0002] ireturn") {
		t.Errorf("trace missing ireturn line:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// Local variable slots
// ---------------------------------------------------------------------------

func TestSetLocalWideClaimsTwoSlots(t *testing.T) {
	f := testFrame(nil, 3, nil)
	if err := f.SetLocal(0, Long(5)); err != nil {
		t.Fatalf("SetLocal(0, long) error: %v", err)
	}
	if v, _ := f.Local(0); v != Long(5) {
		t.Errorf("Local(0) = %v, want long 5", v)
	}
	if v, _ := f.Local(1); v.Kind() != KindEmpty {
		t.Errorf("Local(1) = %v, want empty upper half", v)
	}

	// Writing the upper half invalidates the long.
	if err := f.SetLocal(1, Int(9)); err != nil {
		t.Fatalf("SetLocal(1, int) error: %v", err)
	}
	if v, _ := f.Local(0); v.Kind() != KindEmpty {
		t.Errorf("Local(0) after overwrite = %v, want empty", v)
	}
	if v, _ := f.Local(1); v != Int(9) {
		t.Errorf("Local(1) = %v, want int 9", v)
	}
}

func TestSetLocalOverwriteWideClearsUpper(t *testing.T) {
	f := testFrame(nil, 3, nil)
	if err := f.SetLocal(0, Double(1.5)); err != nil {
		t.Fatalf("SetLocal error: %v", err)
	}
	if err := f.SetLocal(0, Int(3)); err != nil {
		t.Fatalf("SetLocal error: %v", err)
	}
	if v, _ := f.Local(0); v != Int(3) {
		t.Errorf("Local(0) = %v, want int 3", v)
	}
	if v, _ := f.Local(1); v.Kind() != KindEmpty {
		t.Errorf("Local(1) = %v, want stale upper half cleared", v)
	}
}

func TestSetLocalBounds(t *testing.T) {
	f := testFrame(nil, 1, nil)
	if err := f.SetLocal(0, Long(1)); !errors.Is(err, ErrBadLocalIndex) {
		t.Errorf("SetLocal(0, long) in 1 slot = %v, want ErrBadLocalIndex", err)
	}
	if err := f.SetLocal(1, Int(0)); !errors.Is(err, ErrBadLocalIndex) {
		t.Errorf("SetLocal(1) of 1 = %v, want ErrBadLocalIndex", err)
	}
	if _, err := f.Local(5); !errors.Is(err, ErrBadLocalIndex) {
		t.Errorf("Local(5) of 1 = %v, want ErrBadLocalIndex", err)
	}
}

// ---------------------------------------------------------------------------
// Faults
// ---------------------------------------------------------------------------

func TestFaultCarriesLocation(t *testing.T) {
	// iadd at offset 1 with one operand missing.
	flt := runFault(t, []byte{0x04, 0x60}, 0, ErrStackUnderflow) // iconst_1; iadd
	if flt.PC != 1 {
		t.Errorf("fault PC = %d, want 1", flt.PC)
	}
	if flt.Op != bytecode.OpIadd {
		t.Errorf("fault Op = %v, want iadd", flt.Op)
	}
	msg := flt.Error()
	if !strings.Contains(msg, "iadd") || !strings.Contains(msg, "pc 1") {
		t.Errorf("Error() = %q, want opcode and pc", msg)
	}
}

func TestFaultOnTruncatedInstruction(t *testing.T) {
	// bipush with its operand byte missing.
	flt := runFault(t, []byte{0x10}, 0, ErrMissingOperand)
	if flt.PC != 0 {
		t.Errorf("fault PC = %d, want 0", flt.PC)
	}
	if flt.Op != bytecode.OpBipush {
		t.Errorf("fault Op = %v, want bipush", flt.Op)
	}
}
