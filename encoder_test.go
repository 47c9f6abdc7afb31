package cbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeAll(t *testing.T, bufSize int, fn func(e *Encoder) error, opts ...EncoderOption) []byte {
	t.Helper()
	e := NewEncoder(make([]byte, 0, bufSize), opts...)
	require.NoError(t, fn(e))
	out, err := e.Finish()
	require.NoError(t, err)
	return out
}

func TestEncoderIntegerSequence(t *testing.T) {
	out := encodeAll(t, 32, func(e *Encoder) error {
		require.NoError(t, e.AddInt64(0))
		require.NoError(t, e.AddInt64(23))
		require.NoError(t, e.AddInt64(24))
		require.NoError(t, e.AddInt64(-1))
		require.NoError(t, e.AddInt64(-9223372036854775808))
		return nil
	})
	want := []byte{
		0x00,
		0x17,
		0x18, 0x18,
		0x20,
		0x3B, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}
	require.Equal(t, want, out)
}

func TestEncoderCloseAndSortMap(t *testing.T) {
	out := encodeAll(t, 32, func(e *Encoder) error {
		require.NoError(t, e.OpenMap())
		require.NoError(t, e.AddInt64(3))
		require.NoError(t, e.AddTextString("b"))
		require.NoError(t, e.AddInt64(1))
		require.NoError(t, e.AddTextString("a"))
		require.NoError(t, e.CloseAndSortMap())
		return nil
	})
	want := []byte{
		0xA2,
		0x01, 0x61, 0x61,
		0x03, 0x61, 0x62,
	}
	require.Equal(t, want, out)
}

func TestEncoderCloseAndSortMapDuplicateLabel(t *testing.T) {
	e := NewEncoder(make([]byte, 0, 32))
	require.NoError(t, e.OpenMap())
	require.NoError(t, e.AddInt64(1))
	require.NoError(t, e.AddTextString("a"))
	require.NoError(t, e.AddInt64(1))
	require.NoError(t, e.AddTextString("b"))
	err := e.CloseAndSortMap()
	require.ErrorIs(t, err, ErrDuplicateLabel)
}

func TestEncoderAddDoubleShrinksToHalf(t *testing.T) {
	out := encodeAll(t, 16, func(e *Encoder) error {
		return e.AddDouble(1.5)
	}, WithEncodeMode(ModePreferred))
	require.Equal(t, []byte{0xF9, 0x3E, 0x00}, out)
}

func TestEncoderAddDoubleNoShrinkInPlainMode(t *testing.T) {
	out := encodeAll(t, 16, func(e *Encoder) error {
		return e.AddDouble(1.5)
	}, WithEncodeMode(ModeCBOR))
	require.Equal(t, []byte{0xFB, 0x3F, 0xF8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, out)
}

func TestEncoderAddDoubleReducesToIntInDCBOR(t *testing.T) {
	out := encodeAll(t, 16, func(e *Encoder) error {
		return e.AddDouble(42.0)
	}, WithEncodeMode(ModeDCBOR))
	require.Equal(t, []byte{0x18, 0x2A}, out)
}

func TestEncoderAddBigNumberFallsBackToPlainInt(t *testing.T) {
	out := encodeAll(t, 16, func(e *Encoder) error {
		return e.AddBigNumber(false, []byte{0x01, 0x00})
	}, WithEncodeMode(ModePreferred))
	require.Equal(t, []byte{0x19, 0x01, 0x00}, out)
}

func TestEncoderAddBigNumberTaggedByteString(t *testing.T) {
	magnitude := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01} // 2^64 + 1
	out := encodeAll(t, 32, func(e *Encoder) error {
		return e.AddBigNumber(false, magnitude)
	})
	want := []byte{0xC2, 0x49, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	require.Equal(t, want, out)
}

func TestEncoderAddBigNumberExactly2Pow64Negative(t *testing.T) {
	magnitude := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00} // exactly 2^64
	out := encodeAll(t, 16, func(e *Encoder) error {
		return e.AddBigNumber(true, magnitude)
	})
	want := []byte{0x3B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	require.Equal(t, want, out)
}

func TestEncoderByteStringWrap(t *testing.T) {
	out := encodeAll(t, 16, func(e *Encoder) error {
		require.NoError(t, e.OpenByteStringWrap())
		require.NoError(t, e.AddInt64(42))
		require.NoError(t, e.CloseByteStringWrap())
		return nil
	})
	require.Equal(t, []byte{0x42, 0x18, 0x2A}, out)
}

func TestEncoderCancelByteStringWrap(t *testing.T) {
	e := NewEncoder(make([]byte, 0, 16))
	require.NoError(t, e.OpenByteStringWrap())
	require.NoError(t, e.CancelByteStringWrap())
	require.NoError(t, e.AddInt64(1))
	out, err := e.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, out)
}

func TestEncoderCancelByteStringWrapAfterWriteFails(t *testing.T) {
	e := NewEncoder(make([]byte, 0, 16))
	require.NoError(t, e.OpenByteStringWrap())
	require.NoError(t, e.AddInt64(1))
	err := e.CancelByteStringWrap()
	require.ErrorIs(t, err, ErrCannotCancel)
}

func TestEncoderNestedArraysAndMaps(t *testing.T) {
	out := encodeAll(t, 64, func(e *Encoder) error {
		require.NoError(t, e.OpenArray())
		require.NoError(t, e.AddUint64(1))
		require.NoError(t, e.OpenMap())
		require.NoError(t, e.AddTextString("k"))
		require.NoError(t, e.AddBool(true))
		require.NoError(t, e.CloseMap())
		require.NoError(t, e.CloseArray())
		return nil
	})
	want := []byte{
		0x82,
		0x01,
		0xA1,
		0x61, 0x6B,
		0xF5,
	}
	require.Equal(t, want, out)
}

func TestEncoderIndefiniteArray(t *testing.T) {
	out := encodeAll(t, 32, func(e *Encoder) error {
		require.NoError(t, e.OpenArrayIndefiniteLength())
		require.NoError(t, e.AddUint64(1))
		require.NoError(t, e.AddUint64(2))
		require.NoError(t, e.CloseArrayIndefiniteLength())
		return nil
	})
	require.Equal(t, []byte{0x9F, 0x01, 0x02, 0xFF}, out)
}

func TestEncoderCloseMismatch(t *testing.T) {
	e := NewEncoder(make([]byte, 0, 16))
	require.NoError(t, e.OpenArray())
	err := e.CloseMap()
	require.ErrorIs(t, err, ErrCloseMismatch)
}

func TestEncoderFinishWithOpenFrame(t *testing.T) {
	e := NewEncoder(make([]byte, 0, 16))
	require.NoError(t, e.OpenArray())
	_, err := e.Finish()
	require.ErrorIs(t, err, ErrArrayOrMapStillOpen)
}

func TestEncoderStickyErrorShortCircuits(t *testing.T) {
	e := NewEncoder(make([]byte, 0, 1))
	require.NoError(t, e.AddUint64(1))
	err := e.AddUint64(1 << 40) // needs more room than capacity allows
	require.Error(t, err)
	// Subsequent calls return the same latched error without panicking.
	require.Equal(t, err, e.AddUint64(0))
	_, finishErr := e.Finish()
	require.Equal(t, err, finishErr)
}

func TestEncoderAddExpMantissaInt(t *testing.T) {
	out := encodeAll(t, 16, func(e *Encoder) error {
		return e.AddExpMantissaInt(TagDecimalFraction, -2, 27315)
	})
	want := []byte{
		0xC4,
		0x82,
		0x21,
		0x19, 0x6A, 0xB3,
	}
	require.Equal(t, want, out)
}

func TestEncoderNestingTooDeep(t *testing.T) {
	e := NewEncoder(make([]byte, 0, 256), WithMaxNestingDepth(2))
	require.NoError(t, e.OpenArray())
	require.NoError(t, e.OpenArray())
	err := e.OpenArray()
	require.ErrorIs(t, err, ErrNestingTooDeep)
}
