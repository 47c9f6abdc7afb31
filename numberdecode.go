package cbor

import "math"

// NumericSourceMask restricts which decoded item types a numeric
// conversion accepts, so a caller expecting "any integer, no floats" gets
// a clear ErrUnexpectedType instead of a silently-truncated conversion.
type NumericSourceMask uint16

const (
	SourceUnsignedInt NumericSourceMask = 1 << iota
	SourceNegativeInt
	SourceNegative65Bit
	SourceHalfFloat
	SourceSingleFloat
	SourceDoubleFloat
	SourceBignum
	SourceDecimalFraction
	SourceBigFloat
)

const (
	SourceAnyInt   = SourceUnsignedInt | SourceNegativeInt | SourceNegative65Bit
	SourceAnyFloat = SourceHalfFloat | SourceSingleFloat | SourceDoubleFloat
	SourceAnyNumber = SourceAnyInt | SourceAnyFloat | SourceBignum | SourceDecimalFraction | SourceBigFloat
)

func itemSourceMask(item *Item) NumericSourceMask {
	switch item.Type {
	case ItemUnsignedInt:
		return SourceUnsignedInt
	case ItemNegativeInt:
		return SourceNegativeInt
	case ItemNegative65Bit:
		return SourceNegative65Bit
	case ItemHalfFloat:
		return SourceHalfFloat
	case ItemSingleFloat:
		return SourceSingleFloat
	case ItemDoubleFloat:
		return SourceDoubleFloat
	case ItemBignum:
		return SourceBignum
	case ItemDecimalFraction:
		return SourceDecimalFraction
	case ItemBigFloat:
		return SourceBigFloat
	default:
		return 0
	}
}

func bignumToUint64(item *Item) (uint64, error) {
	if len(item.Bytes) > 8 {
		return 0, ErrConversionUnderOverFlow
	}
	return bytesToUint64(item.Bytes), nil
}

// Base and overflow-iteration bound for evaluating a decimal fraction's or
// big float's mantissa * base^exponent: 19 decimal digits is the most a
// uint64 magnitude can hold, and 64 binary shifts is its full width.
const (
	decimalFractionBase      = 10
	decimalFractionMaxExpAbs = 19
	bigFloatBase             = 2
	bigFloatMaxExpAbs        = 64
)

// expMantissaMagnitude returns a decimal-fraction/big-float item's mantissa
// as a sign and raw magnitude, the common starting point for evaluating it.
func expMantissaMagnitude(item *Item) (negative bool, mag uint64, err error) {
	if !item.MantissaIsBig {
		if item.MantissaInt64 >= 0 {
			return false, uint64(item.MantissaInt64), nil
		}
		if item.MantissaInt64 == math.MinInt64 {
			return true, uint64(math.MaxInt64) + 1, nil
		}
		return true, uint64(-item.MantissaInt64), nil
	}
	if len(item.Bytes) > 8 {
		return false, 0, ErrConversionUnderOverFlow
	}
	return item.BignumNegative, bytesToUint64(item.Bytes), nil
}

// evalExpMagnitude computes mag * base^exp for an unsigned magnitude, one
// multiply (exp > 0) or divide (exp < 0) step at a time so overflow and
// inexact division are caught immediately rather than after the fact, per
// the base-10/base-2 iteration bounds above.
func evalExpMagnitude(mag uint64, exp int64, base uint64, maxIterations int64) (uint64, error) {
	if mag == 0 {
		return 0, nil
	}
	if exp >= 0 {
		if exp > maxIterations {
			return 0, ErrConversionUnderOverFlow
		}
		for i := int64(0); i < exp; i++ {
			if mag > math.MaxUint64/base {
				return 0, ErrConversionUnderOverFlow
			}
			mag *= base
		}
		return mag, nil
	}
	if exp < -maxIterations {
		return 0, ErrFloatException
	}
	n := -exp
	for i := int64(0); i < n; i++ {
		if mag%base != 0 {
			return 0, ErrFloatException
		}
		mag /= base
	}
	return mag, nil
}

// evalExpMantissaInt64 evaluates a decimal-fraction/big-float item's
// mantissa * base^exponent exactly as a signed 64-bit integer.
func evalExpMantissaInt64(item *Item, base uint64, maxIterations int64) (int64, error) {
	negative, mag, err := expMantissaMagnitude(item)
	if err != nil {
		return 0, err
	}
	mag, err = evalExpMagnitude(mag, item.Int64, base, maxIterations)
	if err != nil {
		return 0, err
	}
	if !negative {
		if mag > math.MaxInt64 {
			return 0, ErrConversionUnderOverFlow
		}
		return int64(mag), nil
	}
	if mag > uint64(math.MaxInt64)+1 {
		return 0, ErrConversionUnderOverFlow
	}
	if mag == uint64(math.MaxInt64)+1 {
		return math.MinInt64, nil
	}
	return -int64(mag), nil
}

// evalExpMantissaUint64 is evalExpMantissaInt64's unsigned counterpart.
func evalExpMantissaUint64(item *Item, base uint64, maxIterations int64) (uint64, error) {
	negative, mag, err := expMantissaMagnitude(item)
	if err != nil {
		return 0, err
	}
	if negative && mag != 0 {
		return 0, ErrNumberSignConversion
	}
	return evalExpMagnitude(mag, item.Int64, base, maxIterations)
}

// evalExpMantissaPrecise is evalExpMantissaInt64's PreciseNumber-returning
// counterpart, mirroring GetNumberConvertPrecisely's ItemBignum handling:
// a magnitude above 2^63 is reported as overflow rather than promoted to
// the 65-bit-negative carrier.
func evalExpMantissaPrecise(item *Item, base uint64, maxIterations int64) (PreciseNumber, error) {
	negative, mag, err := expMantissaMagnitude(item)
	if err != nil {
		return PreciseNumber{}, err
	}
	v, err := evalExpMagnitude(mag, item.Int64, base, maxIterations)
	if err != nil {
		return PreciseNumber{}, err
	}
	if !negative {
		return PreciseNumber{IsUint: true, Uint64: v}, nil
	}
	if v == 0 {
		return PreciseNumber{IsUint: true, Uint64: 0}, nil
	}
	if v > 1<<63 {
		return PreciseNumber{}, ErrConversionUnderOverFlow
	}
	if v == 1<<63 {
		return PreciseNumber{IsInt: true, Int64: math.MinInt64}, nil
	}
	return PreciseNumber{IsInt: true, Int64: -int64(v)}, nil
}

// roundToInt64 rounds f to the nearest int64, ties to even, with
// out-of-range detection.
func roundToInt64(f float64) (int64, error) {
	if math.IsNaN(f) {
		return 0, ErrFloatException
	}
	r := math.RoundToEven(f)
	if math.IsInf(r, 0) || r < -9223372036854775808.0 || r >= 9223372036854775808.0 {
		return 0, ErrConversionUnderOverFlow
	}
	return int64(r), nil
}

// ToInt64 projects a numeric item onto a signed 64-bit integer, rejecting
// item types outside allowed and values that don't fit. A float source is
// rounded to the nearest int64, ties to even, rather than rejected for
// having a fractional part.
func ToInt64(item *Item, allowed NumericSourceMask) (int64, error) {
	if itemSourceMask(item)&allowed == 0 {
		return 0, ErrUnexpectedType
	}
	switch item.Type {
	case ItemUnsignedInt:
		if item.Uint64 > math.MaxInt64 {
			return 0, ErrConversionUnderOverFlow
		}
		return int64(item.Uint64), nil
	case ItemNegativeInt:
		return item.Int64, nil
	case ItemNegative65Bit:
		return 0, ErrConversionUnderOverFlow
	case ItemHalfFloat, ItemSingleFloat, ItemDoubleFloat:
		return roundToInt64(item.Float64)
	case ItemBignum:
		v, err := bignumToUint64(item)
		if err != nil {
			return 0, err
		}
		if !item.BignumNegative {
			if v > math.MaxInt64 {
				return 0, ErrConversionUnderOverFlow
			}
			return int64(v), nil
		}
		if v > uint64(math.MaxInt64)+1 {
			return 0, ErrConversionUnderOverFlow
		}
		if v == uint64(math.MaxInt64)+1 {
			return math.MinInt64, nil
		}
		return -int64(v), nil
	case ItemDecimalFraction:
		return evalExpMantissaInt64(item, decimalFractionBase, decimalFractionMaxExpAbs)
	case ItemBigFloat:
		return evalExpMantissaInt64(item, bigFloatBase, bigFloatMaxExpAbs)
	default:
		return 0, ErrUnexpectedType
	}
}

// ToUint64 projects a numeric item onto an unsigned 64-bit integer,
// rejecting negative sources with ErrNumberSignConversion.
func ToUint64(item *Item, allowed NumericSourceMask) (uint64, error) {
	if itemSourceMask(item)&allowed == 0 {
		return 0, ErrUnexpectedType
	}
	switch item.Type {
	case ItemUnsignedInt:
		return item.Uint64, nil
	case ItemNegativeInt, ItemNegative65Bit:
		return 0, ErrNumberSignConversion
	case ItemHalfFloat, ItemSingleFloat, ItemDoubleFloat:
		switch kind, _, u64 := DoubleToInt(item.Float64); kind {
		case DoubleIsUint:
			return u64, nil
		case DoubleIsInt:
			if item.Float64 < 0 {
				return 0, ErrNumberSignConversion
			}
			return u64, nil
		case DoubleIs65BitNegative:
			return 0, ErrNumberSignConversion
		case DoubleIsNaN, DoubleNoConversion:
			return 0, ErrFloatException
		default:
			return 0, ErrConversionUnderOverFlow
		}
	case ItemBignum:
		if item.BignumNegative {
			return 0, ErrNumberSignConversion
		}
		return bignumToUint64(item)
	case ItemDecimalFraction:
		return evalExpMantissaUint64(item, decimalFractionBase, decimalFractionMaxExpAbs)
	case ItemBigFloat:
		return evalExpMantissaUint64(item, bigFloatBase, bigFloatMaxExpAbs)
	default:
		return 0, ErrUnexpectedType
	}
}

// ToFloat64 projects a numeric item onto a double, which is always
// possible for a plain float source and usually exact for integers up to
// 2^53 in magnitude.
func ToFloat64(item *Item, allowed NumericSourceMask) (float64, error) {
	if itemSourceMask(item)&allowed == 0 {
		return 0, ErrUnexpectedType
	}
	switch item.Type {
	case ItemHalfFloat, ItemSingleFloat, ItemDoubleFloat:
		return item.Float64, nil
	case ItemUnsignedInt:
		f, ok := UintToDouble(item.Uint64)
		if !ok {
			return 0, ErrConversionUnderOverFlow
		}
		return f, nil
	case ItemNegativeInt:
		return float64(item.Int64), nil
	case ItemNegative65Bit:
		f, ok := UintToDouble(item.Uint64)
		if !ok {
			return 0, ErrConversionUnderOverFlow
		}
		return -(f + 1), nil
	case ItemBignum:
		v, err := bignumToUint64(item)
		if err != nil {
			return 0, err
		}
		f, ok := UintToDouble(v)
		if !ok {
			return 0, ErrConversionUnderOverFlow
		}
		if item.BignumNegative {
			return -f, nil
		}
		return f, nil
	case ItemDecimalFraction:
		negative, mag, err := expMantissaMagnitude(item)
		if err != nil {
			return 0, err
		}
		f, ok := UintToDouble(mag)
		if !ok {
			return 0, ErrConversionUnderOverFlow
		}
		if negative {
			f = -f
		}
		return f * math.Pow10(int(item.Int64)), nil
	case ItemBigFloat:
		negative, mag, err := expMantissaMagnitude(item)
		if err != nil {
			return 0, err
		}
		f, ok := UintToDouble(mag)
		if !ok {
			return 0, ErrConversionUnderOverFlow
		}
		if negative {
			f = -f
		}
		return math.Ldexp(f, int(item.Int64)), nil
	default:
		return 0, ErrUnexpectedType
	}
}

// PreciseNumber is the result of GetNumberConvertPrecisely: exactly one of
// IsInt, IsUint, or Is65BitNegative is set, identifying which field holds
// the value.
type PreciseNumber struct {
	IsInt           bool
	IsUint          bool
	Is65BitNegative bool // Uint64 carries -(value+1); the value itself is out of int64/uint64 range
	Int64           int64
	Uint64          uint64
}

// GetNumberConvertPrecisely classifies any numeric item as a whole number,
// choosing one of int64/uint64/65-bit-negative that holds it exactly.
// Non-whole-number floats and NaN report ErrFloatException; infinite or
// out-of-range floats report ErrConversionUnderOverFlow. Decimal fractions
// and bigfloats are evaluated as mantissa * base^exponent and classified
// the same way once that evaluation is itself a whole number. A negative
// big number, decimal fraction or bigfloat whose magnitude exceeds 2^63
// reports ErrConversionUnderOverFlow; only plain integers and floats use
// the 65-bit-negative carrier.
func GetNumberConvertPrecisely(item *Item) (PreciseNumber, error) {
	switch item.Type {
	case ItemUnsignedInt:
		return PreciseNumber{IsUint: true, Uint64: item.Uint64}, nil
	case ItemNegativeInt:
		return PreciseNumber{IsInt: true, Int64: item.Int64}, nil
	case ItemNegative65Bit:
		return PreciseNumber{Is65BitNegative: true, Uint64: item.Uint64}, nil
	case ItemHalfFloat, ItemSingleFloat, ItemDoubleFloat:
		switch kind, i64, u64 := DoubleToInt(item.Float64); kind {
		case DoubleIsInt:
			return PreciseNumber{IsInt: true, Int64: i64}, nil
		case DoubleIsUint:
			return PreciseNumber{IsUint: true, Uint64: u64}, nil
		case DoubleIs65BitNegative:
			return PreciseNumber{Is65BitNegative: true, Uint64: u64}, nil
		case DoubleIsNaN:
			return PreciseNumber{}, ErrFloatException
		default:
			if item.Float64 != math.Trunc(item.Float64) {
				return PreciseNumber{}, ErrFloatException
			}
			return PreciseNumber{}, ErrConversionUnderOverFlow
		}
	case ItemBignum:
		if len(item.Bytes) > 8 {
			return PreciseNumber{}, ErrConversionUnderOverFlow
		}
		v := bytesToUint64(item.Bytes)
		if !item.BignumNegative {
			return PreciseNumber{IsUint: true, Uint64: v}, nil
		}
		if v == 0 {
			return PreciseNumber{IsUint: true, Uint64: 0}, nil
		}
		if v > 1<<63 {
			return PreciseNumber{}, ErrConversionUnderOverFlow
		}
		if v == 1<<63 {
			return PreciseNumber{IsInt: true, Int64: math.MinInt64}, nil
		}
		return PreciseNumber{IsInt: true, Int64: -int64(v)}, nil
	case ItemDecimalFraction:
		return evalExpMantissaPrecise(item, decimalFractionBase, decimalFractionMaxExpAbs)
	case ItemBigFloat:
		return evalExpMantissaPrecise(item, bigFloatBase, bigFloatMaxExpAbs)
	default:
		return PreciseNumber{}, ErrUnexpectedType
	}
}

// BigNumberBytes renders any integer-like item's magnitude as big-endian
// bytes into a caller-supplied buffer, reporting its sign and the number
// of bytes written. It's the caller-buffer counterpart to AddBigNumber,
// used to round-trip a decoded integer (of any source type) back out as
// a magnitude without an intermediate allocation.
func BigNumberBytes(item *Item, buf []byte) (negative bool, n int, err error) {
	var mag []byte
	switch item.Type {
	case ItemUnsignedInt:
		mag = uint64ToBytes(item.Uint64)
	case ItemNegativeInt:
		negative = true
		mag = uint64ToBytes(uint64(-(item.Int64 + 1)) + 1)
	case ItemNegative65Bit:
		negative = true
		mag = addOneToMagnitude(uint64ToBytes(item.Uint64))
	case ItemBignum:
		negative = item.BignumNegative
		mag = item.Bytes
	default:
		return false, 0, ErrUnexpectedType
	}
	if len(mag) > len(buf) {
		return negative, 0, ErrBufferTooSmall
	}
	copy(buf, mag)
	return negative, len(mag), nil
}
