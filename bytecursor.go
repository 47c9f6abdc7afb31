package cbor

// ByteCursor is the buffer primitive shared by the encoder and the decoder.
// On the encode side it owns a caller-supplied output slice and appends or
// inserts into it without ever growing past its capacity. On the decode
// side it owns a caller-supplied input slice and reads from it without
// copying. Every operation bounds-checks and records a sticky error that
// never unwinds — callers check Err() once at the end of a call chain
// instead of after every step.
type ByteCursor struct {
	buf []byte
	pos int
	err error
}

// NewByteCursor wraps buf for output. The returned cursor appends starting
// at offset 0; buf's capacity (not its length) bounds how much can be
// written.
func NewByteCursor(buf []byte) *ByteCursor {
	return &ByteCursor{buf: buf[:0]}
}

// NewByteCursorForInput wraps buf for input. Reads never mutate buf.
func NewByteCursorForInput(buf []byte) *ByteCursor {
	return &ByteCursor{buf: buf}
}

// Err returns the sticky error, if any has been latched.
func (c *ByteCursor) Err() error {
	return c.err
}

// setErr latches an error if none is latched yet.
func (c *ByteCursor) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Tell returns the length of the populated region: the bytes written so far
// on an output cursor, the whole input on an input cursor.
func (c *ByteCursor) Tell() int {
	return len(c.buf)
}

// Seek repositions the read cursor to an arbitrary offset within the
// already-populated region. It does not grow the buffer and does not move
// the write end, which is always len(buf).
func (c *ByteCursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.buf) {
		c.setErr(ErrBufferTooSmall)
		return c.err
	}
	c.pos = offset
	return nil
}

// ReadPos returns the current read position, used on an input cursor. The
// encoder side never reads this; it uses Tell (len(buf)) as its write head.
func (c *ByteCursor) ReadPos() int {
	return c.pos
}

// Advance returns the next n bytes starting at the read position and moves
// the read position past them.
func (c *ByteCursor) Advance(n int) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.pos+n > len(c.buf) {
		c.setErr(ErrHitEnd)
		return nil, c.err
	}
	p := c.buf[c.pos : c.pos+n]
	c.pos += n
	return p, nil
}

// Remaining returns the unread tail of the input.
func (c *ByteCursor) Remaining() []byte {
	return c.buf[c.pos:]
}

// AtEOF reports whether the read position has reached the end of input.
func (c *ByteCursor) AtEOF() bool {
	return c.pos >= len(c.buf)
}

// PeekByte returns the byte at the read position without consuming it.
func (c *ByteCursor) PeekByte() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Bytes returns the populated region of the buffer.
func (c *ByteCursor) Bytes() []byte {
	return c.buf
}

// Sub returns the sub-slice [start:end) of the populated region, bounds
// checked against the current length.
func (c *ByteCursor) Sub(start, end int) ([]byte, error) {
	if start < 0 || end < start || end > len(c.buf) {
		return nil, ErrBufferTooSmall
	}
	return c.buf[start:end], nil
}

// Append writes p to the end of the buffer. If the underlying array lacks
// the capacity, BUFFER_TOO_SMALL is latched and the buffer is left
// unchanged.
func (c *ByteCursor) Append(p []byte) error {
	if c.err != nil {
		return c.err
	}
	if len(c.buf)+len(p) > cap(c.buf) {
		c.setErr(ErrBufferTooSmall)
		return c.err
	}
	if uint64(len(c.buf)+len(p)) > maxEncodedSize {
		c.setErr(ErrBufferTooLarge)
		return c.err
	}
	c.buf = append(c.buf, p...)
	return nil
}

// AppendByte writes a single byte.
func (c *ByteCursor) AppendByte(b byte) error {
	return c.Append([]byte{b})
}

// Reserve grows the buffer by n zero bytes and returns the slice backing
// them, so the caller can fill it in place.
func (c *ByteCursor) Reserve(n int) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if len(c.buf)+n > cap(c.buf) {
		c.setErr(ErrBufferTooSmall)
		return nil, c.err
	}
	start := len(c.buf)
	c.buf = c.buf[:start+n]
	return c.buf[start : start+n], nil
}

// InsertAt inserts p at offset, shifting the tail right. If the underlying
// array lacks room for the growth, BUFFER_TOO_SMALL is latched and the
// buffer is left unchanged.
func (c *ByteCursor) InsertAt(offset int, p []byte) error {
	if c.err != nil {
		return c.err
	}
	if offset < 0 || offset > len(c.buf) {
		c.setErr(ErrBufferTooSmall)
		return c.err
	}
	newLen := len(c.buf) + len(p)
	if newLen > cap(c.buf) {
		c.setErr(ErrBufferTooSmall)
		return c.err
	}
	if uint64(newLen) > maxEncodedSize {
		c.setErr(ErrBufferTooLarge)
		return c.err
	}
	c.buf = c.buf[:newLen]
	copy(c.buf[offset+len(p):], c.buf[offset:newLen-len(p)])
	copy(c.buf[offset:], p)
	return nil
}

// Compare performs an unsigned bytewise comparison of two sub-ranges,
// returning -1, 0, or 1 the way bytes.Compare does. Shorter-but-equal-prefix
// sorts first, matching CBOR's deterministic label ordering rule.
func (c *ByteCursor) Compare(aStart, aEnd, bStart, bEnd int) (int, error) {
	a, err := c.Sub(aStart, aEnd)
	if err != nil {
		return 0, err
	}
	b, err := c.Sub(bStart, bEnd)
	if err != nil {
		return 0, err
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1, nil
			}
			return 1, nil
		}
	}
	switch {
	case len(a) < len(b):
		return -1, nil
	case len(a) > len(b):
		return 1, nil
	default:
		return 0, nil
	}
}

// Swap exchanges two adjacent sub-ranges [aStart,aStart+aLen) and
// [bStart,bStart+bLen) where bStart == aStart+aLen. The ranges may have
// different lengths, so the exchange is done with the classic
// three-reversal block-swap rotation instead of an index-based swap.
func (c *ByteCursor) Swap(aStart, aLen, bStart, bLen int) error {
	if c.err != nil {
		return c.err
	}
	if bStart != aStart+aLen {
		c.setErr(ErrInvalidState)
		return c.err
	}
	end := bStart + bLen
	if aStart < 0 || end > len(c.buf) {
		c.setErr(ErrBufferTooSmall)
		return c.err
	}
	reverse(c.buf[aStart : aStart+aLen])
	reverse(c.buf[bStart:end])
	reverse(c.buf[aStart:end])
	return nil
}

func reverse(p []byte) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
