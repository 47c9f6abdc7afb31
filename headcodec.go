package cbor

import "encoding/binary"

// MinArgWidth forces a head to use at least the given number of argument
// bytes, independent of what the value itself would need. A width of 0
// means "use the shortest preferred width"; 2, 4, and 8 are used by the
// float encoders, which must pick their head width from the float's size
// rather than from the bit pattern's numeric magnitude.
type MinArgWidth int

const (
	MinArgWidthNone   MinArgWidth = 0
	MinArgWidth16Bit  MinArgWidth = 2
	MinArgWidth32Bit  MinArgWidth = 4
	MinArgWidth64Bit  MinArgWidth = 8
)

// EncodeHead writes the initial byte and any argument bytes for (major,
// argument) into a 9-byte scratch buffer, working backward from the end,
// and returns the populated tail. Writing backward means the argument's
// bytes are produced by repeated right-shift-and-mask without any
// host-endianness dependency, and the initial byte is prefixed once the
// final width is known.
func EncodeHead(scratch *[9]byte, mt MajorType, argument uint64, minWidth MinArgWidth) []byte {
	width := preferredArgumentWidth(argument)
	if int(minWidth) > width {
		width = int(minWidth)
	}

	switch width {
	case 0:
		scratch[8] = encodeInitialByte(mt, byte(argument))
		return scratch[8:9]
	case 1:
		scratch[7] = encodeInitialByte(mt, byte(AdditionalInfo8Bit))
		scratch[8] = byte(argument)
		return scratch[7:9]
	case 2:
		scratch[6] = encodeInitialByte(mt, byte(AdditionalInfo16Bit))
		binary.BigEndian.PutUint16(scratch[7:9], uint16(argument))
		return scratch[6:9]
	case 4:
		scratch[4] = encodeInitialByte(mt, byte(AdditionalInfo32Bit))
		binary.BigEndian.PutUint32(scratch[5:9], uint32(argument))
		return scratch[4:9]
	default:
		scratch[0] = encodeInitialByte(mt, byte(AdditionalInfo64Bit))
		binary.BigEndian.PutUint64(scratch[1:9], argument)
		return scratch[0:9]
	}
}

// EncodeIndefiniteHead writes the one-byte indefinite-length head for the
// given major type (array, map, byte string, or text string).
func EncodeIndefiniteHead(mt MajorType) byte {
	return encodeInitialByte(mt, byte(AdditionalInfoIndefiniteLength))
}

// preferredArgumentWidth reports how many additional bytes (0, 1, 2, 4, 8) the
// preferred encoding of argument needs, ignoring minWidth.
func preferredArgumentWidth(argument uint64) int {
	switch {
	case argument < 24:
		return 0
	case argument <= 0xFF:
		return 1
	case argument <= 0xFFFF:
		return 2
	case argument <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}

// DecodeHead reads the initial byte and any argument bytes at the front of
// data. It returns the major type, the argument value, whether the head
// denotes an indefinite length, and the total number of bytes the head
// occupied.
func DecodeHead(data []byte) (mt MajorType, argument uint64, indefinite bool, headLen int, err error) {
	if len(data) < 1 {
		return 0, 0, false, 0, ErrHitEnd
	}
	mt, ai := decodeInitialByte(data[0])

	switch {
	case ai < 24:
		return mt, uint64(ai), false, 1, nil
	case ai == 24:
		if len(data) < 2 {
			return 0, 0, false, 0, ErrHitEnd
		}
		return mt, uint64(data[1]), false, 2, nil
	case ai == 25:
		if len(data) < 3 {
			return 0, 0, false, 0, ErrHitEnd
		}
		return mt, uint64(binary.BigEndian.Uint16(data[1:3])), false, 3, nil
	case ai == 26:
		if len(data) < 5 {
			return 0, 0, false, 0, ErrHitEnd
		}
		return mt, uint64(binary.BigEndian.Uint32(data[1:5])), false, 5, nil
	case ai == 27:
		if len(data) < 9 {
			return 0, 0, false, 0, ErrHitEnd
		}
		return mt, binary.BigEndian.Uint64(data[1:9]), false, 9, nil
	case ai >= 28 && ai <= 30:
		return 0, 0, false, 0, ErrUnsupported
	default: // ai == 31
		return mt, 0, true, 1, nil
	}
}
