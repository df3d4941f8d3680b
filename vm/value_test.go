package vm

import (
	"math"
	"testing"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		v    Value
		want Kind
	}{
		{Value{}, KindEmpty},
		{Boolean(true), KindBoolean},
		{Byte(-1), KindByte},
		{Char('A'), KindChar},
		{Short(-300), KindShort},
		{Int(42), KindInt},
		{Float(1.5), KindFloat},
		{Long(1 << 40), KindLong},
		{Double(2.5), KindDouble},
		{Null(), KindReference},
		{Reference(StringRef{Value: "x"}), KindReference},
		{ReturnAddress(8), KindReturnAddress},
	}
	for _, tt := range tests {
		if got := tt.v.Kind(); got != tt.want {
			t.Errorf("Kind() = %v, want %v", got, tt.want)
		}
	}
}

func TestValueWide(t *testing.T) {
	if !Long(0).IsWide() {
		t.Error("Long(0).IsWide() = false, want true")
	}
	if !Double(0).IsWide() {
		t.Error("Double(0).IsWide() = false, want true")
	}
	if Int(0).IsWide() {
		t.Error("Int(0).IsWide() = true, want false")
	}
	if (Value{}).IsWide() {
		t.Error("zero Value IsWide() = true, want false")
	}
}

func TestValueNull(t *testing.T) {
	if !Null().IsNull() {
		t.Error("Null().IsNull() = false, want true")
	}
	if !Reference(nil).IsNull() {
		t.Error("Reference(nil).IsNull() = false, want true")
	}
	if Reference(StringRef{Value: "x"}).IsNull() {
		t.Error("non-nil reference IsNull() = true, want false")
	}
	if (Value{}).IsNull() {
		t.Error("empty slot IsNull() = true, want false")
	}
}

func TestValueNumericRoundTrip(t *testing.T) {
	ints := []int32{0, 1, -1, math.MaxInt32, math.MinInt32}
	for _, n := range ints {
		if got := Int(n).Int(); got != n {
			t.Errorf("Int(%d).Int() = %d", n, got)
		}
	}

	longs := []int64{0, -1, math.MaxInt64, math.MinInt64}
	for _, n := range longs {
		if got := Long(n).Long(); got != n {
			t.Errorf("Long(%d).Long() = %d", n, got)
		}
	}

	floats := []float32{0, 1.5, -2.25, float32(math.Inf(1))}
	for _, x := range floats {
		if got := Float(x).Float(); got != x {
			t.Errorf("Float(%g).Float() = %g", x, got)
		}
	}

	doubles := []float64{0, 3.14159265358979, -1e308, math.Inf(-1)}
	for _, x := range doubles {
		if got := Double(x).Double(); got != x {
			t.Errorf("Double(%g).Double() = %g", x, got)
		}
	}
}

func TestValueFloatNaN(t *testing.T) {
	if got := Float(float32(math.NaN())).Float(); !math.IsNaN(float64(got)) {
		t.Errorf("NaN round trip = %g, want NaN", got)
	}
	if got := Double(math.NaN()).Double(); !math.IsNaN(got) {
		t.Errorf("NaN round trip = %g, want NaN", got)
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Value{}, "<empty>"},
		{Boolean(true), "boolean true"},
		{Int(-7), "int -7"},
		{Long(100), "long 100"},
		{Float(1.5), "float 1.5"},
		{Double(2.5), "double 2.5"},
		{Null(), "null"},
		{Reference(StringRef{Value: "Hello"}), `String "Hello"`},
		{Reference(ClassRef{Name: "java/lang/System"}), "class java/lang/System"},
		{ReturnAddress(12), "returnAddress 12"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := KindInt.String(); got != "int" {
		t.Errorf("KindInt.String() = %q, want %q", got, "int")
	}
	if got := Kind(99).String(); got != "kind(99)" {
		t.Errorf("Kind(99).String() = %q, want %q", got, "kind(99)")
	}
}
