// Package cbor implements a CBOR (Concise Binary Object Representation,
// RFC 8949) codec core for constrained environments: the encoder writes
// into a caller-supplied output buffer and the decoder reads from a
// caller-supplied input buffer, with all working state held in fixed-size
// context structures. There is no heap allocation on the hot paths and no
// floating-point hardware dependency beyond Go's own bit-pattern
// reinterpretation of float32/float64.
package cbor

// MajorType represents the CBOR major type (3-bit value in the initial byte).
type MajorType byte

const (
	// MajorTypeUnsignedInteger represents unsigned integer (major type 0).
	MajorTypeUnsignedInteger MajorType = 0
	// MajorTypeNegativeInteger represents negative integer (major type 1).
	MajorTypeNegativeInteger MajorType = 1
	// MajorTypeByteString represents byte string (major type 2).
	MajorTypeByteString MajorType = 2
	// MajorTypeTextString represents UTF-8 text string (major type 3).
	MajorTypeTextString MajorType = 3
	// MajorTypeArray represents array of data items (major type 4).
	MajorTypeArray MajorType = 4
	// MajorTypeMap represents map of pairs of data items (major type 5).
	MajorTypeMap MajorType = 5
	// MajorTypeTag represents tagged data item (major type 6).
	MajorTypeTag MajorType = 6
	// MajorTypeSimpleOrFloat represents simple values and floats (major type 7).
	MajorTypeSimpleOrFloat MajorType = 7
)

// String returns the string representation of the major type.
func (mt MajorType) String() string {
	switch mt {
	case MajorTypeUnsignedInteger:
		return "UnsignedInteger"
	case MajorTypeNegativeInteger:
		return "NegativeInteger"
	case MajorTypeByteString:
		return "ByteString"
	case MajorTypeTextString:
		return "TextString"
	case MajorTypeArray:
		return "Array"
	case MajorTypeMap:
		return "Map"
	case MajorTypeTag:
		return "Tag"
	case MajorTypeSimpleOrFloat:
		return "SimpleOrFloat"
	default:
		return "Unknown"
	}
}

// AdditionalInfo represents the additional information in the initial byte.
type AdditionalInfo byte

const (
	// AdditionalInfo8Bit means the following byte contains the value.
	AdditionalInfo8Bit AdditionalInfo = 24
	// AdditionalInfo16Bit means the following 2 bytes contain the value.
	AdditionalInfo16Bit AdditionalInfo = 25
	// AdditionalInfo32Bit means the following 4 bytes contain the value.
	AdditionalInfo32Bit AdditionalInfo = 26
	// AdditionalInfo64Bit means the following 8 bytes contain the value.
	AdditionalInfo64Bit AdditionalInfo = 27
	// AdditionalInfoIndefiniteLength means indefinite length (used for strings, arrays, maps).
	AdditionalInfoIndefiniteLength AdditionalInfo = 31
)

// SimpleValue represents CBOR simple values.
type SimpleValue byte

const (
	// SimpleValueFalse represents the boolean value false.
	SimpleValueFalse SimpleValue = 20
	// SimpleValueTrue represents the boolean value true.
	SimpleValueTrue SimpleValue = 21
	// SimpleValueNull represents a null value.
	SimpleValueNull SimpleValue = 22
	// SimpleValueUndefined represents an undefined value.
	SimpleValueUndefined SimpleValue = 23
)

// CborTag represents well-known CBOR semantic tags.
type CborTag uint64

const (
	// TagDateTimeString is a standard date/time string (RFC 3339).
	TagDateTimeString CborTag = 0
	// TagUnixTime is an epoch-based date/time.
	TagUnixTime CborTag = 1
	// TagUnsignedBignum is a positive bignum.
	TagUnsignedBignum CborTag = 2
	// TagNegativeBignum is a negative bignum.
	TagNegativeBignum CborTag = 3
	// TagDecimalFraction is a decimal fraction: [exponent, mantissa].
	TagDecimalFraction CborTag = 4
	// TagBigFloat is a bigfloat: [exponent, mantissa].
	TagBigFloat CborTag = 5
	// TagEncodedCborData is encoded CBOR data item.
	TagEncodedCborData CborTag = 24
	// TagURI is a URI (RFC 3986).
	TagURI CborTag = 32
	// TagSelfDescribedCbor is a self-described CBOR.
	TagSelfDescribedCbor CborTag = 55799
)

// recognizedByCore reports whether the core promotes a tagged item with this
// tag number to a rich numeric variant; any other tag number is left on the
// item's tag stack unchanged.
func recognizedByCore(tag CborTag) bool {
	switch tag {
	case TagUnsignedBignum, TagNegativeBignum, TagDecimalFraction, TagBigFloat:
		return true
	default:
		return false
	}
}

// EncodeMode selects the wire-format profile the encoder targets.
type EncodeMode int

const (
	// ModeCBOR is plain conforming CBOR with no preferred-encoding requirement.
	ModeCBOR EncodeMode = iota
	// ModePreferred uses the shortest encoding permitted for every value
	// (preferred integers, preferred floats) but does not sort maps.
	ModePreferred
	// ModeCDE is Preferred plus deterministic map ordering (CloseAndSortMap
	// is required to reach the deterministic post-condition).
	ModeCDE
	// ModeDCBOR is CDE plus float-to-int reduction and NaN-payload rejection.
	ModeDCBOR
)

// DecodeMode mirrors EncodeMode on the decode side; it only affects which
// conformance checks the decoder enforces (e.g. rejecting non-canonical
// head encodings), not the item values it produces.
type DecodeMode int

const (
	// ModeDecodeCBOR accepts any well-formed CBOR.
	ModeDecodeCBOR DecodeMode = iota
	// ModeDecodePreferred requires preferred-length heads.
	ModeDecodePreferred
	// ModeDecodeCDE requires preferred-length heads and sorted maps.
	ModeDecodeCDE
	// ModeDecodeDCBOR additionally rejects NaN payloads.
	ModeDecodeDCBOR
)

// Break byte used to terminate indefinite-length items.
const breakByte byte = 0xFF

// Sizing constants (spec §6).
const (
	defaultMaxNestingDepth = 16
	maxItemsInAggregate    = 65534
	maxEncodedSize         = 1<<32 - 1024 // UINT32_MAX - epsilon
	maxTagStackDepth       = 4
)

// encodeInitialByte creates the initial byte from major type and additional info.
func encodeInitialByte(mt MajorType, ai byte) byte {
	return byte(mt)<<5 | (ai & 0x1F)
}

// decodeInitialByte extracts major type and additional info from initial byte.
func decodeInitialByte(b byte) (MajorType, byte) {
	return MajorType(b >> 5), b & 0x1F
}
