package cbor

import (
	"math"
	"testing"
)

func TestHalfToDouble(t *testing.T) {
	tests := []struct {
		name string
		bits uint16
		want float64
	}{
		{"zero", 0x0000, 0},
		{"negative zero", 0x8000, math.Copysign(0, -1)},
		{"one", 0x3C00, 1.0},
		{"negative two", 0xC000, -2.0},
		{"infinity", 0x7C00, math.Inf(1)},
		{"negative infinity", 0xFC00, math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HalfToDouble(tt.bits)
			if math.Signbit(got) != math.Signbit(tt.want) || (got != tt.want && !(math.IsInf(got, 0) && math.IsInf(tt.want, 0))) {
				t.Fatalf("HalfToDouble(%#x) = %v, want %v", tt.bits, got, tt.want)
			}
		})
	}
}

func TestHalfToDoubleSubnormal(t *testing.T) {
	// smallest positive half subnormal: 2^-24
	got := HalfToDouble(0x0001)
	want := math.Pow(2, -24)
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestShrinkDoubleToHalfRoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 1.5, 100, -100, 65504, 6.0975551605224609375e-05}
	for _, v := range values {
		bits := math.Float64bits(v)
		half, ok := ShrinkDoubleToHalf(bits, true)
		if !ok {
			t.Fatalf("ShrinkDoubleToHalf(%v) reported lossy, expected lossless", v)
		}
		back := HalfToDouble(half)
		if back != v {
			t.Fatalf("round trip failed: %v -> %#x -> %v", v, half, back)
		}
	}
}

func TestShrinkDoubleToHalfLossy(t *testing.T) {
	bits := math.Float64bits(0.1)
	if _, ok := ShrinkDoubleToHalf(bits, true); ok {
		t.Fatalf("expected 0.1 to not survive shrink to half")
	}
}

func TestShrinkDoubleToSingleRoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 3.14159274101257324, float64(float32(1e30)), -float64(float32(1e-30))}
	for _, v := range values {
		bits := math.Float64bits(v)
		single, ok := ShrinkDoubleToSingle(bits, true)
		if !ok {
			t.Fatalf("ShrinkDoubleToSingle(%v) reported lossy", v)
		}
		back := SingleToDouble(math.Float32frombits(single))
		if back != v {
			t.Fatalf("round trip failed: %v -> %#x -> %v", v, single, back)
		}
	}
}

func TestDoubleToIntBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		wantKind DoubleToIntKind
	}{
		{"zero", 0, DoubleIsInt},
		{"max int64 as double", 9223372036854775808.0, DoubleIsUint}, // 2^63, one past MaxInt64
		{"min int64", -9223372036854775808.0, DoubleIsInt},
		{"just below min int64", -9223372036854777856.0, DoubleIs65BitNegative}, // next double below -2^63
		{"exactly -2^64", -18446744073709551616.0, DoubleIs65BitNegative},
		{"past -2^64", -18446744073709555712.0, DoubleNoConversion}, // next double below -2^64
		{"fractional", 1.5, DoubleNoConversion},
		{"nan", math.NaN(), DoubleIsNaN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _, _ := DoubleToInt(tt.v)
			if kind != tt.wantKind {
				t.Fatalf("DoubleToInt(%v) kind = %v, want %v", tt.v, kind, tt.wantKind)
			}
		})
	}
}

func TestDoubleToIntExactMinus2Pow64(t *testing.T) {
	kind, _, u64 := DoubleToInt(-18446744073709551616.0)
	if kind != DoubleIs65BitNegative {
		t.Fatalf("expected DoubleIs65BitNegative, got %v", kind)
	}
	if u64 != math.MaxUint64 {
		t.Fatalf("expected carrier MaxUint64, got %d", u64)
	}
}

func TestUintToDouble(t *testing.T) {
	if f, ok := UintToDouble(1 << 52); !ok || f != float64(uint64(1)<<52) {
		t.Fatalf("unexpected result: %v %v", f, ok)
	}
	// 2^64 - 1 isn't exactly representable as a double.
	if _, ok := UintToDouble(math.MaxUint64); ok {
		t.Fatalf("expected MaxUint64 to be lossy as a double")
	}
}
