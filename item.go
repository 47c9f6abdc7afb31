package cbor

// ItemType discriminates the value carried by a decoded Item.
type ItemType int

const (
	ItemUnsignedInt ItemType = iota
	ItemNegativeInt
	ItemNegative65Bit // value in [-2^64, -2^63); Uint64 carries -(value+1)
	ItemByteString
	ItemTextString
	ItemArray
	ItemMap
	ItemTag
	ItemSimple
	ItemBool
	ItemNull
	ItemUndefined
	ItemHalfFloat
	ItemSingleFloat
	ItemDoubleFloat
	ItemBignum
	ItemDecimalFraction
	ItemBigFloat
	ItemBreak
)

// String gives a human-readable name for the item type, used in error
// messages the way the teacher's reader-state String() method was used.
func (t ItemType) String() string {
	switch t {
	case ItemUnsignedInt:
		return "UnsignedInt"
	case ItemNegativeInt:
		return "NegativeInt"
	case ItemNegative65Bit:
		return "Negative65Bit"
	case ItemByteString:
		return "ByteString"
	case ItemTextString:
		return "TextString"
	case ItemArray:
		return "Array"
	case ItemMap:
		return "Map"
	case ItemTag:
		return "Tag"
	case ItemSimple:
		return "Simple"
	case ItemBool:
		return "Bool"
	case ItemNull:
		return "Null"
	case ItemUndefined:
		return "Undefined"
	case ItemHalfFloat:
		return "HalfFloat"
	case ItemSingleFloat:
		return "SingleFloat"
	case ItemDoubleFloat:
		return "DoubleFloat"
	case ItemBignum:
		return "Bignum"
	case ItemDecimalFraction:
		return "DecimalFraction"
	case ItemBigFloat:
		return "BigFloat"
	case ItemBreak:
		return "Break"
	default:
		return "Unknown"
	}
}

// Item is one decoded CBOR data item. Only the fields relevant to Type are
// meaningful; byte/text string slices point directly into the decoder's
// input buffer and are valid only until the next read.
type Item struct {
	Type ItemType

	Uint64  uint64 // UnsignedInt, Negative65Bit (carries -(value+1)), Bool (0 or 1)
	Int64   int64  // NegativeInt, or the exponent of a decimal fraction/bigfloat
	Float64 float64

	Bytes []byte // ByteString content, or Bignum magnitude
	Text  string // TextString content

	Count int64 // Array/Map header element count; -1 for indefinite

	Tag CborTag // Tag item's tag number

	Simple SimpleValue

	BignumNegative bool

	// Decimal fraction / bigfloat: the exponent is in Int64; the mantissa is
	// either MantissaInt64 (MantissaIsBig == false) or the big number in
	// Bytes/BignumNegative (MantissaIsBig == true).
	MantissaIsBig bool
	MantissaInt64 int64

	// Tags holds every tag number that preceded this item, outermost first,
	// up to maxTagStackDepth. Tags recognized by the core (bignum, decimal
	// fraction, bigfloat) are consumed to produce the rich item above and
	// do not appear here.
	Tags []CborTag

	NestLevelBefore int
	NestLevelAfter  int
}
