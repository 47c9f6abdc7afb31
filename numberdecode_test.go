package cbor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToInt64FromUnsignedAndNegative(t *testing.T) {
	pos := &Item{Type: ItemUnsignedInt, Uint64: 42}
	v, err := ToInt64(pos, SourceAnyInt)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	neg := &Item{Type: ItemNegativeInt, Int64: -42}
	v, err = ToInt64(neg, SourceAnyInt)
	require.NoError(t, err)
	require.Equal(t, int64(-42), v)
}

func TestToInt64RejectsDisallowedSource(t *testing.T) {
	f := &Item{Type: ItemDoubleFloat, Float64: 1.0}
	_, err := ToInt64(f, SourceAnyInt)
	require.ErrorIs(t, err, ErrUnexpectedType)
}

func TestToInt64OverflowFromLargeUnsigned(t *testing.T) {
	item := &Item{Type: ItemUnsignedInt, Uint64: math.MaxUint64}
	_, err := ToInt64(item, SourceAnyInt)
	require.ErrorIs(t, err, ErrConversionUnderOverFlow)
}

func TestToUint64RejectsNegative(t *testing.T) {
	item := &Item{Type: ItemNegativeInt, Int64: -1}
	_, err := ToUint64(item, SourceAnyInt)
	require.ErrorIs(t, err, ErrNumberSignConversion)
}

func TestToFloat64FromInteger(t *testing.T) {
	item := &Item{Type: ItemUnsignedInt, Uint64: 100}
	v, err := ToFloat64(item, SourceAnyNumber)
	require.NoError(t, err)
	require.Equal(t, 100.0, v)
}

func TestGetNumberConvertPreciselyWholeFloat(t *testing.T) {
	item := &Item{Type: ItemDoubleFloat, Float64: -9223372036854775808.0}
	n, err := GetNumberConvertPrecisely(item)
	require.NoError(t, err)
	require.True(t, n.IsInt)
	require.Equal(t, int64(math.MinInt64), n.Int64)
}

func TestGetNumberConvertPreciselyNonWhole(t *testing.T) {
	item := &Item{Type: ItemDoubleFloat, Float64: 1.5}
	_, err := GetNumberConvertPrecisely(item)
	require.ErrorIs(t, err, ErrFloatException)
}

func TestGetNumberConvertPreciselyExactMinus2Pow64(t *testing.T) {
	item := &Item{Type: ItemNegative65Bit, Uint64: math.MaxUint64}
	n, err := GetNumberConvertPrecisely(item)
	require.NoError(t, err)
	require.True(t, n.Is65BitNegative)
	require.Equal(t, uint64(math.MaxUint64), n.Uint64)
}

func TestToInt64RoundsFractionalFloatToNearestEven(t *testing.T) {
	half, err := ToInt64(&Item{Type: ItemDoubleFloat, Float64: 1.5}, SourceAnyFloat)
	require.NoError(t, err)
	require.Equal(t, int64(2), half)

	tie, err := ToInt64(&Item{Type: ItemDoubleFloat, Float64: 2.5}, SourceAnyFloat)
	require.NoError(t, err)
	require.Equal(t, int64(2), tie)
}

func TestToInt64FromDecimalFractionExact(t *testing.T) {
	// 100 * 10^-2 = 1
	item := &Item{Type: ItemDecimalFraction, Int64: -2, MantissaInt64: 100}
	v, err := ToInt64(item, SourceDecimalFraction)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestToInt64FromDecimalFractionInexactFails(t *testing.T) {
	// 27315 * 10^-2 = 273.15, not a whole number.
	item := &Item{Type: ItemDecimalFraction, Int64: -2, MantissaInt64: 27315}
	_, err := ToInt64(item, SourceDecimalFraction)
	require.ErrorIs(t, err, ErrFloatException)
}

func TestToFloat64FromDecimalFraction(t *testing.T) {
	item := &Item{Type: ItemDecimalFraction, Int64: -2, MantissaInt64: 27315}
	v, err := ToFloat64(item, SourceDecimalFraction)
	require.NoError(t, err)
	require.InDelta(t, 273.15, v, 0.00001)
}

func TestToInt64FromBigFloatExact(t *testing.T) {
	// 8 * 2^-3 = 1
	item := &Item{Type: ItemBigFloat, Int64: -3, MantissaInt64: 8}
	v, err := ToInt64(item, SourceBigFloat)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestToInt64FromNegativeBigFloatMantissa(t *testing.T) {
	// -8 * 2^2 = -32
	item := &Item{Type: ItemBigFloat, Int64: 2, MantissaInt64: -8}
	v, err := ToInt64(item, SourceBigFloat)
	require.NoError(t, err)
	require.Equal(t, int64(-32), v)
}

func TestToUint64FromDecimalFractionRejectsNegative(t *testing.T) {
	item := &Item{Type: ItemDecimalFraction, Int64: 0, MantissaInt64: -5}
	_, err := ToUint64(item, SourceDecimalFraction)
	require.ErrorIs(t, err, ErrNumberSignConversion)
}

func TestGetNumberConvertPreciselyBigFloatOverflow(t *testing.T) {
	// shifting left 65 times exceeds the 64-iteration overflow bound.
	item := &Item{Type: ItemBigFloat, Int64: 65, MantissaInt64: 1}
	_, err := GetNumberConvertPrecisely(item)
	require.ErrorIs(t, err, ErrConversionUnderOverFlow)
}

func TestGetNumberConvertPreciselyDecimalFractionWhole(t *testing.T) {
	item := &Item{Type: ItemDecimalFraction, Int64: 3, MantissaInt64: 4}
	n, err := GetNumberConvertPrecisely(item)
	require.NoError(t, err)
	require.True(t, n.IsUint)
	require.Equal(t, uint64(4000), n.Uint64)
}

func TestBigNumberBytesFromNegativeInt(t *testing.T) {
	item := &Item{Type: ItemNegativeInt, Int64: -256}
	buf := make([]byte, 8)
	neg, n, err := BigNumberBytes(item, buf)
	require.NoError(t, err)
	require.True(t, neg)
	require.Equal(t, []byte{0x01, 0x00}, buf[:n])
}

func TestBigNumberBytesTooSmallBuffer(t *testing.T) {
	item := &Item{Type: ItemUnsignedInt, Uint64: 0x0102030405060708}
	buf := make([]byte, 2)
	_, _, err := BigNumberBytes(item, buf)
	require.ErrorIs(t, err, ErrBufferTooSmall)
}
