package cbor

import "math"

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*Encoder)

// WithEncodeMode selects the wire-format profile (spec §5).
func WithEncodeMode(mode EncodeMode) EncoderOption {
	return func(e *Encoder) { e.mode = mode }
}

// WithMaxNestingDepth overrides the default nesting-depth bound.
func WithMaxNestingDepth(depth int) EncoderOption {
	return func(e *Encoder) { e.maxNesting = depth }
}

// WithAllowNaNPayload permits NaN values that carry a payload. Without it,
// AddFloat/AddDouble reject such a NaN with ErrNotAllowed; with it, the
// payload is kept, and a shrink to a narrower float happens only when the
// payload survives it.
func WithAllowNaNPayload(allow bool) EncoderOption {
	return func(e *Encoder) { e.allowNaNPayload = allow }
}

// WithPreferredOnlyBigNumbers forces AddBigNumber to prefer the plain
// integer encoding whenever the magnitude fits, even in ModeCBOR.
func WithPreferredOnlyBigNumbers(enable bool) EncoderOption {
	return func(e *Encoder) { e.preferredOnlyBigNumbers = enable }
}

// Encoder builds a CBOR-encoded item stream into a caller-supplied buffer.
// It never allocates on the hot path: every Add/Open/Close call writes
// directly into the ByteCursor's backing array. Once any call latches an
// error, every subsequent call is a no-op that returns the same error.
type Encoder struct {
	cursor     *ByteCursor
	mode       EncodeMode
	maxNesting int

	allowNaNPayload         bool
	preferredOnlyBigNumbers bool

	stack []encFrame
	err   error
}

// NewEncoder wraps buf (used by its capacity, not its length) as the
// encoding target.
func NewEncoder(buf []byte, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		cursor:     NewByteCursor(buf),
		maxNesting: defaultMaxNestingDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset rewinds the encoder to encode a fresh item stream into buf,
// preserving its configuration.
func (e *Encoder) Reset(buf []byte) {
	e.cursor = NewByteCursor(buf)
	e.stack = e.stack[:0]
	e.err = nil
}

// Err returns the sticky error, if any has been latched.
func (e *Encoder) Err() error {
	return e.err
}

// NestingDepth reports how many arrays, maps, or byte-string wraps are
// currently open.
func (e *Encoder) NestingDepth() int {
	return len(e.stack)
}

func (e *Encoder) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return e.err
}

// preferredFormEnabled reports whether the current mode asks for shortest-
// form encoding, whether of a float's width or a bignum's integer fallback.
func (e *Encoder) preferredFormEnabled() bool {
	return e.mode != ModeCBOR
}

func (e *Encoder) floatReductionEnabled() bool {
	return e.mode == ModeDCBOR
}

// countItem increments the innermost open frame's item count, to be called
// once per item (or once per open aggregate) as it's added to its parent.
func (e *Encoder) countItem() {
	if len(e.stack) == 0 {
		return
	}
	e.stack[len(e.stack)-1].itemCount++
}

func (e *Encoder) topIsRawByteRegion() bool {
	return len(e.stack) > 0 && e.stack[len(e.stack)-1].rawByteRegion
}

func (e *Encoder) writeHead(mt MajorType, argument uint64, minWidth MinArgWidth) {
	if e.err != nil {
		return
	}
	var scratch [9]byte
	head := EncodeHead(&scratch, mt, argument, minWidth)
	if err := e.cursor.Append(head); err != nil {
		e.fail(err)
	}
}

// AddUint64 writes an unsigned integer in preferred (shortest) form.
func (e *Encoder) AddUint64(v uint64) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.writeHead(MajorTypeUnsignedInteger, v, MinArgWidthNone)
	e.countItem()
	return e.err
}

// AddInt64 writes a signed integer as major type 0 or 1, whichever applies.
func (e *Encoder) AddInt64(v int64) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	if v >= 0 {
		e.writeHead(MajorTypeUnsignedInteger, uint64(v), MinArgWidthNone)
	} else {
		e.writeHead(MajorTypeNegativeInteger, uint64(-(v+1)), MinArgWidthNone)
	}
	e.countItem()
	return e.err
}

// AddNegativeUInt writes major type 1 with the given raw argument n,
// encoding the value -(n+1). n may range over the full uint64 span, which
// reaches -2^64, one bit past what AddInt64 can express.
func (e *Encoder) AddNegativeUInt(n uint64) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.writeHead(MajorTypeNegativeInteger, n, MinArgWidthNone)
	e.countItem()
	return e.err
}

// AddByteString writes a definite-length byte string.
func (e *Encoder) AddByteString(b []byte) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.writeHead(MajorTypeByteString, uint64(len(b)), MinArgWidthNone)
	if err := e.cursor.Append(b); err != nil {
		return e.fail(err)
	}
	e.countItem()
	return e.err
}

// AddTextString writes a definite-length UTF-8 text string.
func (e *Encoder) AddTextString(s string) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.writeHead(MajorTypeTextString, uint64(len(s)), MinArgWidthNone)
	if err := e.cursor.Append([]byte(s)); err != nil {
		return e.fail(err)
	}
	e.countItem()
	return e.err
}

// AddEncoded splices in an already-encoded, well-formed CBOR item verbatim.
// It counts as exactly one item toward the enclosing aggregate.
func (e *Encoder) AddEncoded(raw []byte) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	if err := e.cursor.Append(raw); err != nil {
		return e.fail(err)
	}
	e.countItem()
	return e.err
}

// AddBool writes a boolean simple value.
func (e *Encoder) AddBool(b bool) error {
	v := SimpleValueFalse
	if b {
		v = SimpleValueTrue
	}
	return e.AddSimpleValue(v)
}

// AddNull writes the null simple value.
func (e *Encoder) AddNull() error {
	return e.AddSimpleValue(SimpleValueNull)
}

// AddUndefined writes the undefined simple value.
func (e *Encoder) AddUndefined() error {
	return e.AddSimpleValue(SimpleValueUndefined)
}

// AddSimpleValue writes a major-type-7 simple value.
func (e *Encoder) AddSimpleValue(v SimpleValue) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.writeHead(MajorTypeSimpleOrFloat, uint64(v), MinArgWidthNone)
	e.countItem()
	return e.err
}

func (e *Encoder) writeFloatHead(w FloatWidth, bits uint64) error {
	var minWidth MinArgWidth
	switch w {
	case FloatWidthHalf:
		minWidth = MinArgWidth16Bit
	case FloatWidthSingle:
		minWidth = MinArgWidth32Bit
	default:
		minWidth = MinArgWidth64Bit
	}
	e.writeHead(MajorTypeSimpleOrFloat, bits, minWidth)
	e.countItem()
	return e.err
}

// AddFloat writes a single-precision float, shrinking to half precision
// when preferred encoding is enabled and the value survives losslessly.
func (e *Encoder) AddFloat(v float32) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	bits := math.Float32bits(v)

	if e.floatReductionEnabled() && !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0) {
		if handled, err := e.tryReduceToInt(float64(v)); handled {
			return err
		}
	}
	if math.IsNaN(float64(v)) {
		if singleHasPayload(bits) && !e.allowNaNPayload {
			return e.fail(ErrNotAllowed)
		}
	}
	if !e.preferredFormEnabled() {
		return e.writeFloatHead(FloatWidthSingle, uint64(bits))
	}
	noNaNPayload := !e.allowNaNPayload
	if hbits, ok := ShrinkSingleToHalf(bits, noNaNPayload); ok {
		return e.writeFloatHead(FloatWidthHalf, uint64(hbits))
	}
	return e.writeFloatHead(FloatWidthSingle, uint64(bits))
}

// AddDouble writes a double-precision float, shrinking to single or half
// precision when preferred encoding is enabled and the value survives
// losslessly, or reducing to an integer entirely under the dCBOR profile.
func (e *Encoder) AddDouble(v float64) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	bits := math.Float64bits(v)

	if e.floatReductionEnabled() && !math.IsNaN(v) && !math.IsInf(v, 0) {
		if handled, err := e.tryReduceToInt(v); handled {
			return err
		}
	}
	if math.IsNaN(v) {
		if doubleHasPayload(bits) && !e.allowNaNPayload {
			return e.fail(ErrNotAllowed)
		}
	}
	if !e.preferredFormEnabled() {
		return e.writeFloatHead(FloatWidthDouble, bits)
	}
	noNaNPayload := !e.allowNaNPayload
	if hbits, ok := ShrinkDoubleToHalf(bits, noNaNPayload); ok {
		return e.writeFloatHead(FloatWidthHalf, uint64(hbits))
	}
	if sbits, ok := ShrinkDoubleToSingle(bits, noNaNPayload); ok {
		return e.writeFloatHead(FloatWidthSingle, uint64(sbits))
	}
	return e.writeFloatHead(FloatWidthDouble, bits)
}

// tryReduceToInt implements the dCBOR whole-number float reduction: a
// finite, non-NaN float with no fractional part is re-encoded as the
// smallest integer item instead of a float item. handled is false when v
// has a fractional part or is out of integer range, in which case the
// caller falls through to ordinary float encoding.
func (e *Encoder) tryReduceToInt(v float64) (handled bool, err error) {
	kind, i64, u64 := DoubleToInt(v)
	switch kind {
	case DoubleIsInt:
		return true, e.AddInt64(i64)
	case DoubleIsUint:
		return true, e.AddUint64(u64)
	case DoubleIs65BitNegative:
		return true, e.AddNegativeUInt(u64)
	default:
		return false, nil
	}
}

// AddTag writes a tag number. Unlike every other Add call it does not
// count toward the enclosing aggregate's item count: the tag and the item
// it precedes are, together, one item.
func (e *Encoder) AddTag(tag CborTag) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.writeHead(MajorTypeTag, uint64(tag), MinArgWidthNone)
	return e.err
}

func (e *Encoder) open(mt MajorType) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.countItem()
	stack, err := pushEncFrame(e.stack, e.maxNesting, encFrame{majorType: mt, startOffset: e.cursor.Tell()})
	if err != nil {
		return e.fail(err)
	}
	e.stack = stack
	return nil
}

// OpenArray begins a definite-length array; its head is back-patched when
// the matching CloseArray runs.
func (e *Encoder) OpenArray() error {
	return e.open(MajorTypeArray)
}

// OpenMap begins a definite-length map; its head is back-patched when the
// matching CloseMap or CloseAndSortMap runs.
func (e *Encoder) OpenMap() error {
	return e.open(MajorTypeMap)
}

func (e *Encoder) openIndefinite(mt MajorType) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.countItem()
	if err := e.cursor.AppendByte(EncodeIndefiniteHead(mt)); err != nil {
		return e.fail(err)
	}
	stack, err := pushEncFrame(e.stack, e.maxNesting, encFrame{majorType: mt, startOffset: e.cursor.Tell(), indefinite: true})
	if err != nil {
		return e.fail(err)
	}
	e.stack = stack
	return nil
}

// OpenArrayIndefiniteLength begins an indefinite-length array, writing its
// head immediately; the matching close writes a break byte.
func (e *Encoder) OpenArrayIndefiniteLength() error {
	return e.openIndefinite(MajorTypeArray)
}

// OpenMapIndefiniteLength begins an indefinite-length map.
func (e *Encoder) OpenMapIndefiniteLength() error {
	return e.openIndefinite(MajorTypeMap)
}

func (e *Encoder) close(mt MajorType, sorted bool) error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 {
		return e.fail(ErrTooManyCloses)
	}
	frame := e.stack[len(e.stack)-1]
	if frame.majorType != mt {
		return e.fail(ErrCloseMismatch)
	}

	if frame.indefinite {
		if err := e.cursor.AppendByte(breakByte); err != nil {
			return e.fail(err)
		}
		e.stack = e.stack[:len(e.stack)-1]
		return nil
	}

	count := frame.itemCount
	if mt == MajorTypeMap {
		count = count / 2
	}
	if count > maxItemsInAggregate {
		return e.fail(ErrArrayTooLong)
	}

	if sorted {
		if err := e.sortMapEntries(frame); err != nil {
			return e.fail(err)
		}
	}

	var scratch [9]byte
	head := EncodeHead(&scratch, mt, uint64(count), MinArgWidthNone)
	if err := e.cursor.InsertAt(frame.startOffset, head); err != nil {
		return e.fail(err)
	}
	e.stack = e.stack[:len(e.stack)-1]
	return nil
}

// CloseArray closes the innermost open array.
func (e *Encoder) CloseArray() error {
	return e.close(MajorTypeArray, false)
}

// CloseArrayIndefiniteLength closes the innermost open indefinite-length
// array. It behaves identically to CloseArray: the frame itself already
// knows whether it's definite or indefinite.
func (e *Encoder) CloseArrayIndefiniteLength() error {
	return e.close(MajorTypeArray, false)
}

// CloseMap closes the innermost open map without sorting its entries. The
// caller is responsible for having written entries in the order required
// by the encoder's mode.
func (e *Encoder) CloseMap() error {
	return e.close(MajorTypeMap, false)
}

// CloseMapIndefiniteLength closes the innermost open indefinite-length map.
func (e *Encoder) CloseMapIndefiniteLength() error {
	return e.close(MajorTypeMap, false)
}

// CloseAndSortMap closes the innermost open map after reordering its
// entries into bytewise-ascending label order (spec's deterministic map
// ordering), detecting duplicate labels along the way.
func (e *Encoder) CloseAndSortMap() error {
	return e.close(MajorTypeMap, true)
}

// sortMapEntries bubble-sorts the map's key-value pairs in place by their
// encoded label bytes. A bubble sort is used, rather than an index-based
// sort, because entries occupy variable-length byte ranges: every
// comparison and swap goes through the ByteCursor's range-aware Compare
// and Swap instead of a slice index.
func (e *Encoder) sortMapEntries(frame encFrame) error {
	pairCount := int(frame.itemCount / 2)
	if pairCount < 2 {
		return e.checkNoDuplicateLabels(frame, pairCount)
	}

	bounds := make([]int, pairCount+1)
	bounds[0] = frame.startOffset
	offset := frame.startOffset
	for i := 0; i < pairCount; i++ {
		next, err := e.scanPair(offset)
		if err != nil {
			return err
		}
		offset = next
		bounds[i+1] = offset
	}

	for i := 0; i < pairCount-1; i++ {
		swapped := false
		for j := 0; j < pairCount-1-i; j++ {
			aStart, aEnd := bounds[j], bounds[j+1]
			bStart, bEnd := bounds[j+1], bounds[j+2]
			keyEnd, err := scanItem(e.cursor.Bytes(), aStart)
			if err != nil {
				return err
			}
			otherKeyEnd, err := scanItem(e.cursor.Bytes(), bStart)
			if err != nil {
				return err
			}
			cmp, err := e.cursor.Compare(aStart, keyEnd, bStart, otherKeyEnd)
			if err != nil {
				return err
			}
			if cmp == 0 {
				return ErrDuplicateLabel
			}
			if cmp > 0 {
				if err := e.cursor.Swap(aStart, aEnd-aStart, bStart, bEnd-bStart); err != nil {
					return err
				}
				bounds[j+1] = aStart + (bEnd - bStart)
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return nil
}

func (e *Encoder) checkNoDuplicateLabels(frame encFrame, pairCount int) error {
	if pairCount < 2 {
		return nil
	}
	offset := frame.startOffset
	keyEnds := make([]int, 0, pairCount)
	keyStarts := make([]int, 0, pairCount)
	for i := 0; i < pairCount; i++ {
		keyEnd, err := scanItem(e.cursor.Bytes(), offset)
		if err != nil {
			return err
		}
		keyStarts = append(keyStarts, offset)
		keyEnds = append(keyEnds, keyEnd)
		next, err := e.scanPair(offset)
		if err != nil {
			return err
		}
		offset = next
	}
	for i := 0; i < len(keyStarts); i++ {
		for j := i + 1; j < len(keyStarts); j++ {
			cmp, err := e.cursor.Compare(keyStarts[i], keyEnds[i], keyStarts[j], keyEnds[j])
			if err != nil {
				return err
			}
			if cmp == 0 {
				return ErrDuplicateLabel
			}
		}
	}
	return nil
}

// scanPair returns the offset just past one key-value pair starting at
// offset.
func (e *Encoder) scanPair(offset int) (int, error) {
	keyEnd, err := scanItem(e.cursor.Bytes(), offset)
	if err != nil {
		return 0, err
	}
	return scanItem(e.cursor.Bytes(), keyEnd)
}

// OpenByteStringWrap begins a byte string whose content is itself a CBOR
// item stream (used to embed detached/COSE-style payloads). Its length
// head is back-patched on CloseByteStringWrap.
func (e *Encoder) OpenByteStringWrap() error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.countItem()
	stack, err := pushEncFrame(e.stack, e.maxNesting, encFrame{majorType: MajorTypeByteString, startOffset: e.cursor.Tell()})
	if err != nil {
		return e.fail(err)
	}
	e.stack = stack
	return nil
}

// CloseByteStringWrap finishes the innermost open byte-string wrap,
// back-patching its length head.
func (e *Encoder) CloseByteStringWrap() error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 {
		return e.fail(ErrTooManyCloses)
	}
	frame := e.stack[len(e.stack)-1]
	if frame.majorType != MajorTypeByteString || frame.rawByteRegion {
		return e.fail(ErrCloseMismatch)
	}
	length := e.cursor.Tell() - frame.startOffset
	var scratch [9]byte
	head := EncodeHead(&scratch, MajorTypeByteString, uint64(length), MinArgWidthNone)
	if err := e.cursor.InsertAt(frame.startOffset, head); err != nil {
		return e.fail(err)
	}
	e.stack = e.stack[:len(e.stack)-1]
	return nil
}

// CancelByteStringWrap abandons the innermost open byte-string wrap. It
// only succeeds if nothing has been written inside it yet; once content
// exists there's no way to remove the wrap's reservation in the parent's
// item count without re-running that parent's own close logic.
func (e *Encoder) CancelByteStringWrap() error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 {
		return e.fail(ErrTooManyCloses)
	}
	frame := e.stack[len(e.stack)-1]
	if frame.majorType != MajorTypeByteString || frame.rawByteRegion {
		return e.fail(ErrCloseMismatch)
	}
	if e.cursor.Tell() != frame.startOffset {
		return e.fail(ErrCannotCancel)
	}
	e.stack = e.stack[:len(e.stack)-1]
	if len(e.stack) > 0 {
		e.stack[len(e.stack)-1].itemCount--
	}
	return nil
}

// OpenBytes begins a raw byte-string region whose content is written
// directly with WriteRawInto rather than through other Add calls; nested
// Open calls are rejected until the matching CloseBytes.
func (e *Encoder) OpenBytes() error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	e.countItem()
	stack, err := pushEncFrame(e.stack, e.maxNesting, encFrame{majorType: MajorTypeByteString, startOffset: e.cursor.Tell(), rawByteRegion: true})
	if err != nil {
		return e.fail(err)
	}
	e.stack = stack
	return nil
}

// WriteRawInto appends p to the currently open raw byte-string region.
func (e *Encoder) WriteRawInto(p []byte) error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].rawByteRegion {
		return e.fail(ErrInvalidState)
	}
	if err := e.cursor.Append(p); err != nil {
		return e.fail(err)
	}
	return nil
}

// CloseBytes finishes the innermost raw byte-string region, back-patching
// its length head.
func (e *Encoder) CloseBytes() error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].rawByteRegion {
		return e.fail(ErrCloseMismatch)
	}
	frame := e.stack[len(e.stack)-1]
	length := e.cursor.Tell() - frame.startOffset
	var scratch [9]byte
	head := EncodeHead(&scratch, MajorTypeByteString, uint64(length), MinArgWidthNone)
	if err := e.cursor.InsertAt(frame.startOffset, head); err != nil {
		return e.fail(err)
	}
	e.stack = e.stack[:len(e.stack)-1]
	return nil
}

// AddBigNumber writes an arbitrary-magnitude integer. magnitude is the
// absolute value's big-endian bytes (leading zeros are stripped). When
// preferred encoding applies and the magnitude fits in 8 bytes, it's
// written as a plain major-0/1 integer instead of a tagged byte string.
func (e *Encoder) AddBigNumber(negative bool, magnitude []byte) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	mag := trimLeadingZeros(magnitude)
	preferInt := e.preferredFormEnabled() || e.preferredOnlyBigNumbers

	if preferInt && len(mag) <= 8 {
		v := bytesToUint64(mag)
		if !negative {
			return e.AddUint64(v)
		}
		if v == 0 {
			return e.AddUint64(0)
		}
		return e.AddNegativeUInt(v - 1)
	}

	// A magnitude of exactly 2^64 with a negative sign is the one value
	// whose plain-integer form (-2^64, argument UINT64_MAX) exists even
	// though the magnitude itself needs 9 bytes.
	if negative && len(mag) == 9 && mag[0] == 1 && allZero(mag[1:]) {
		return e.AddNegativeUInt(math.MaxUint64)
	}

	tag := TagUnsignedBignum
	content := mag
	if negative {
		tag = TagNegativeBignum
		content = subtractOneFromMagnitude(mag)
	}
	if err := e.AddTag(tag); err != nil {
		return err
	}
	return e.AddByteString(content)
}

func (e *Encoder) pushExpMantissaFrame(tag CborTag) error {
	if e.err != nil {
		return e.err
	}
	if e.topIsRawByteRegion() {
		return e.fail(ErrOpenByteString)
	}
	if tag != 0 {
		if err := e.AddTag(tag); err != nil {
			return err
		}
	}
	if len(e.stack) >= e.maxNesting {
		return e.fail(ErrNestingTooDeep)
	}
	e.countItem()
	e.writeHead(MajorTypeArray, 2, MinArgWidthNone)
	if e.err != nil {
		return e.err
	}
	e.stack = append(e.stack, encFrame{majorType: MajorTypeArray, startOffset: -1})
	return nil
}

func (e *Encoder) popExpMantissaFrame() {
	e.stack = e.stack[:len(e.stack)-1]
}

// AddExpMantissaInt writes a two-element [exponent, mantissa] array under
// tag (TagDecimalFraction or TagBigFloat), both as plain int64 values.
func (e *Encoder) AddExpMantissaInt(tag CborTag, exponent int64, mantissa int64) error {
	if err := e.pushExpMantissaFrame(tag); err != nil {
		return err
	}
	defer e.popExpMantissaFrame()
	if err := e.AddInt64(exponent); err != nil {
		return err
	}
	return e.AddInt64(mantissa)
}

// AddExpMantissaBig writes a two-element [exponent, mantissa] array whose
// mantissa is an arbitrary-magnitude integer.
func (e *Encoder) AddExpMantissaBig(tag CborTag, exponent int64, mantissaNegative bool, mantissaMagnitude []byte) error {
	if err := e.pushExpMantissaFrame(tag); err != nil {
		return err
	}
	defer e.popExpMantissaFrame()
	if err := e.AddInt64(exponent); err != nil {
		return err
	}
	return e.AddBigNumber(mantissaNegative, mantissaMagnitude)
}

// Finish validates that every opened aggregate has been closed and
// returns the encoded bytes.
func (e *Encoder) Finish() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.stack) > 0 {
		return nil, e.fail(ErrArrayOrMapStillOpen)
	}
	return e.cursor.Bytes(), nil
}
