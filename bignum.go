package cbor

// trimLeadingZeros strips leading zero bytes from a big-endian magnitude,
// but always leaves at least one byte so the value 0 is representable.
func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0 {
		i++
	}
	return b[i:]
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// bytesToUint64 interprets a trimmed (<=8 byte) big-endian magnitude as a
// uint64. Callers reject inputs longer than 8 bytes before calling this.
func bytesToUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// uint64ToBytes renders v as a trimmed big-endian byte slice (at least one
// byte, for the value 0).
func uint64ToBytes(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	return trimLeadingZeros(tmp[:])
}

// subtractOneFromMagnitude computes mag-1 for a trimmed big-endian
// magnitude, used to convert a negative big number's absolute value into
// CBOR's -n-1 byte-string content (tag 3). Borrowing across a leading byte
// that becomes zero shortens the result by one byte, matching the CBOR
// requirement that the tag's byte-string head reflect the post-subtraction
// length.
func subtractOneFromMagnitude(mag []byte) []byte {
	out := make([]byte, len(mag))
	copy(out, mag)
	borrow := byte(1)
	for i := len(out) - 1; i >= 0 && borrow != 0; i-- {
		if out[i] >= borrow {
			out[i] -= borrow
			borrow = 0
		} else {
			out[i] = out[i] - borrow // wraps
			borrow = 1
		}
	}
	return trimLeadingZeros(out)
}

// addOneToMagnitude computes mag+1 for a trimmed big-endian magnitude, used
// to convert CBOR's -n-1 byte-string content (tag 3) back into the
// negative number's absolute value. A carry out of the leading byte grows
// the result by one byte.
func addOneToMagnitude(mag []byte) []byte {
	out := make([]byte, len(mag)+1)
	copy(out[1:], mag)
	carry := byte(1)
	for i := len(out) - 1; i >= 0 && carry != 0; i-- {
		sum := uint16(out[i]) + uint16(carry)
		out[i] = byte(sum)
		carry = byte(sum >> 8)
	}
	return trimLeadingZeros(out)
}
