package cbor

import "testing"

func TestEncodeHeadPreferredWidth(t *testing.T) {
	tests := []struct {
		name     string
		mt       MajorType
		argument uint64
		want     []byte
	}{
		{"embedded zero", MajorTypeUnsignedInteger, 0, []byte{0x00}},
		{"embedded 23", MajorTypeUnsignedInteger, 23, []byte{0x17}},
		{"one byte arg 24", MajorTypeUnsignedInteger, 24, []byte{0x18, 0x18}},
		{"one byte arg 255", MajorTypeUnsignedInteger, 255, []byte{0x18, 0xFF}},
		{"two byte arg 256", MajorTypeUnsignedInteger, 256, []byte{0x19, 0x01, 0x00}},
		{"four byte arg 65536", MajorTypeUnsignedInteger, 65536, []byte{0x1A, 0x00, 0x01, 0x00, 0x00}},
		{"eight byte arg", MajorTypeUnsignedInteger, 1 << 32, []byte{0x1B, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}},
		{"negative int arg 0", MajorTypeNegativeInteger, 0, []byte{0x20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scratch [9]byte
			got := EncodeHead(&scratch, tt.mt, tt.argument, MinArgWidthNone)
			if len(got) != len(tt.want) {
				t.Fatalf("length mismatch: got %#x want %#x", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("byte %d: got %#x want %#x", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEncodeHeadMinWidthForcesFloatSize(t *testing.T) {
	var scratch [9]byte
	// double-precision 0.0 bit pattern (argument 0) under a forced 8-byte
	// width, even though the argument would otherwise fit preferred-short.
	got := EncodeHead(&scratch, MajorTypeSimpleOrFloat, 0, MinArgWidth64Bit)
	want := []byte{0xFB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %#x want %#x", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, got[i], want[i])
		}
	}
}

func TestDecodeHeadRoundTrip(t *testing.T) {
	arguments := []uint64{0, 1, 23, 24, 255, 256, 65535, 65536, 1 << 32, 1<<64 - 1}
	for _, arg := range arguments {
		var scratch [9]byte
		head := EncodeHead(&scratch, MajorTypeUnsignedInteger, arg, MinArgWidthNone)
		mt, gotArg, indefinite, headLen, err := DecodeHead(head)
		if err != nil {
			t.Fatalf("DecodeHead(%#x) error: %v", head, err)
		}
		if mt != MajorTypeUnsignedInteger || gotArg != arg || indefinite || headLen != len(head) {
			t.Fatalf("round trip mismatch for %d: mt=%v arg=%d indefinite=%v headLen=%d", arg, mt, gotArg, indefinite, headLen)
		}
	}
}

func TestDecodeHeadShortInput(t *testing.T) {
	if _, _, _, _, err := DecodeHead(nil); err != ErrHitEnd {
		t.Fatalf("expected ErrHitEnd on empty input, got %v", err)
	}
	if _, _, _, _, err := DecodeHead([]byte{0x18}); err != ErrHitEnd {
		t.Fatalf("expected ErrHitEnd on truncated 1-byte argument, got %v", err)
	}
}

func TestDecodeHeadReservedAdditionalInfo(t *testing.T) {
	for ai := byte(28); ai <= 30; ai++ {
		b := encodeInitialByte(MajorTypeUnsignedInteger, ai)
		if _, _, _, _, err := DecodeHead([]byte{b}); err != ErrUnsupported {
			t.Fatalf("ai=%d: expected ErrUnsupported, got %v", ai, err)
		}
	}
}

func TestDecodeHeadIndefinite(t *testing.T) {
	b := EncodeIndefiniteHead(MajorTypeArray)
	mt, _, indefinite, headLen, err := DecodeHead([]byte{b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mt != MajorTypeArray || !indefinite || headLen != 1 {
		t.Fatalf("unexpected result: mt=%v indefinite=%v headLen=%d", mt, indefinite, headLen)
	}
}
