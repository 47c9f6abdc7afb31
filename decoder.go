package cbor

import "math"

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*Decoder)

// WithDecodeMode selects which conformance checks the decoder enforces.
func WithDecodeMode(mode DecodeMode) DecoderOption {
	return func(d *Decoder) { d.mode = mode }
}

// WithDecoderMaxNestingDepth overrides the default nesting-depth bound.
func WithDecoderMaxNestingDepth(depth int) DecoderOption {
	return func(d *Decoder) { d.maxNesting = depth }
}

// Decoder is a pull parser over a caller-supplied CBOR byte slice: each
// call to GetNext decodes exactly one item (descending into arrays and
// maps rather than returning their children inline) and advances the read
// position past it. Once any call latches an error, every subsequent call
// is a no-op that returns the same error.
type Decoder struct {
	cursor     *ByteCursor
	mode       DecodeMode
	maxNesting int

	stack []decFrame
	err   error
}

// NewDecoder wraps buf as the input to decode from.
func NewDecoder(buf []byte, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		cursor:     NewByteCursorForInput(buf),
		maxNesting: defaultMaxNestingDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Err returns the sticky error, if any has been latched.
func (d *Decoder) Err() error {
	return d.err
}

// NestingDepth reports how many arrays or maps are currently descended into.
func (d *Decoder) NestingDepth() int {
	return len(d.stack)
}

// AtEnd reports whether the input has been fully consumed and no
// aggregate remains open.
func (d *Decoder) AtEnd() bool {
	return d.err == nil && len(d.stack) == 0 && d.cursor.AtEOF()
}

func (d *Decoder) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return d.err
}

func (d *Decoder) bumpParentCount(n int64) {
	if len(d.stack) == 0 {
		return
	}
	d.stack[len(d.stack)-1].count += n
}

func (d *Decoder) pushFrame(f decFrame) error {
	if len(d.stack) >= d.maxNesting {
		return ErrNestingTooDeep
	}
	d.stack = append(d.stack, f)
	return nil
}

// forcePopFrame discards the innermost nesting frame unconditionally, used
// by the spiffy decoder when it exits a bounded aggregate by seeking past
// it rather than by consuming its children one GetNext call at a time.
func (d *Decoder) forcePopFrame() {
	if len(d.stack) > 0 {
		d.stack = d.stack[:len(d.stack)-1]
	}
}

// closeFinishedFrames pops every innermost frame whose definite count has
// been fully consumed. Indefinite frames only close on an explicit break
// byte, handled in GetNext.
func (d *Decoder) closeFinishedFrames() {
	for len(d.stack) > 0 {
		top := &d.stack[len(d.stack)-1]
		if !top.atEnd() {
			return
		}
		d.stack = d.stack[:len(d.stack)-1]
	}
}

// GetNext decodes and returns the next item in the stream.
func (d *Decoder) GetNext() (Item, error) {
	if d.err != nil {
		return Item{}, d.err
	}
	itemStart := d.cursor.ReadPos()
	item, err := d.decodeOneItem()
	if err != nil {
		return Item{}, d.fail(err)
	}
	item.NestLevelBefore = len(d.stack)

	switch item.Type {
	case ItemArray:
		d.bumpParentCount(1)
		if err := d.pushFrame(decFrame{majorType: MajorTypeArray, total: item.Count, startOffset: d.cursor.ReadPos()}); err != nil {
			return Item{}, d.fail(err)
		}
	case ItemMap:
		d.bumpParentCount(1)
		total := int64(-1)
		if item.Count >= 0 {
			total = item.Count * 2
		}
		if err := d.pushFrame(decFrame{majorType: MajorTypeMap, total: total, startOffset: d.cursor.ReadPos()}); err != nil {
			return Item{}, d.fail(err)
		}
	case ItemBreak:
		if len(d.stack) == 0 || d.stack[len(d.stack)-1].total >= 0 {
			return Item{}, d.fail(ErrInvalidState)
		}
		d.stack = d.stack[:len(d.stack)-1]
	default:
		if err := d.checkMapKeyOrder(itemStart, d.cursor.ReadPos()); err != nil {
			return Item{}, d.fail(err)
		}
		d.bumpParentCount(1)
	}

	d.closeFinishedFrames()
	item.NestLevelAfter = len(d.stack)
	return item, nil
}

// checkMapKeyOrder enforces CDE/dCBOR's deterministic map-key ordering as
// each key is decoded, so an out-of-order or duplicate label is reported
// at the key itself rather than requiring the caller to buffer the whole
// map. It is a no-op outside ModeDecodeCDE/ModeDecodeDCBOR, for non-map
// parents, and for value items (every other item in the frame). A key
// that is itself an array or map isn't checked: the pull parser hasn't
// read its children yet, so its full encoded extent isn't known here.
func (d *Decoder) checkMapKeyOrder(itemStart, itemEnd int) error {
	if d.mode < ModeDecodeCDE || len(d.stack) == 0 {
		return nil
	}
	top := &d.stack[len(d.stack)-1]
	if top.majorType != MajorTypeMap || top.count%2 != 0 {
		return nil
	}
	if top.hasLastKey {
		cmp, err := d.cursor.Compare(top.lastKeyStart, top.lastKeyEnd, itemStart, itemEnd)
		if err != nil {
			return err
		}
		switch {
		case cmp == 0:
			return ErrDuplicateLabel
		case cmp > 0:
			return ErrMapNotSorted
		}
	}
	top.hasLastKey = true
	top.lastKeyStart = itemStart
	top.lastKeyEnd = itemEnd
	return nil
}

// forkAt creates an independent Decoder over the same backing bytes,
// positioned at offset, sharing this decoder's conformance mode but none
// of its nesting state. The spiffy decoder uses this to scan a bounded
// map or array's entries without disturbing the outer decode position.
func (d *Decoder) forkAt(offset int) *Decoder {
	c := NewByteCursorForInput(d.cursor.Bytes())
	c.Seek(offset)
	return &Decoder{cursor: c, mode: d.mode, maxNesting: d.maxNesting}
}

// SkipValue discards the next item, descending into arrays, maps, and tag
// chains as needed, without allocating an Item for each child. The skipped
// item counts toward the enclosing array or map just as a GetNext item does.
func (d *Decoder) SkipValue() error {
	if d.err != nil {
		return d.err
	}
	if err := d.skipOne(); err != nil {
		return d.fail(err)
	}
	d.bumpParentCount(1)
	d.closeFinishedFrames()
	return nil
}

func (d *Decoder) skipOne() error {
	item, err := d.decodeOneItem()
	if err != nil {
		return err
	}
	switch item.Type {
	case ItemArray:
		return d.skipN(item.Count)
	case ItemMap:
		n := item.Count
		if n >= 0 {
			n *= 2
		}
		return d.skipN(n)
	}
	return nil
}

func (d *Decoder) skipN(n int64) error {
	if n < 0 {
		for {
			if b, ok := d.cursor.PeekByte(); ok && b == breakByte {
				_, err := d.cursor.Advance(1)
				return err
			}
			if err := d.skipOne(); err != nil {
				return err
			}
		}
	}
	for i := int64(0); i < n; i++ {
		if err := d.skipOne(); err != nil {
			return err
		}
	}
	return nil
}

// decodeFull reads one item, like decodeOneItem, but when that item is an
// array or map also consumes its children so the cursor ends up just past
// the whole value. The spiffy decoder's single-entry-at-a-time map scans
// use this for both keys and matched values, since they treat each map
// entry as one opaque unit rather than descending into it themselves.
func (d *Decoder) decodeFull() (Item, error) {
	item, err := d.decodeOneItem()
	if err != nil {
		return Item{}, err
	}
	switch item.Type {
	case ItemArray:
		if err := d.skipN(item.Count); err != nil {
			return Item{}, err
		}
	case ItemMap:
		n := item.Count
		if n >= 0 {
			n *= 2
		}
		if err := d.skipN(n); err != nil {
			return Item{}, err
		}
	}
	return item, nil
}

// decodeOneItem decodes a single item, transparently consuming any tag
// chain in front of it and recognizing the core's four promoted tags
// (bignum, negative bignum, decimal fraction, bigfloat).
func (d *Decoder) decodeOneItem() (Item, error) {
	var tags []CborTag
	for {
		mt, arg, indefinite, headLen, err := DecodeHead(d.cursor.Remaining())
		if err != nil {
			return Item{}, err
		}
		if _, err := d.cursor.Advance(headLen); err != nil {
			return Item{}, err
		}

		if mt == MajorTypeTag {
			if !indefinite {
				if err := checkPreferredArgWidth(d.mode, arg, headLen); err != nil {
					return Item{}, err
				}
			}
			tag := CborTag(arg)
			if recognizedByCore(tag) {
				item, err := d.decodePromotedTag(tag)
				if err != nil {
					return Item{}, err
				}
				item.Tags = tags
				return item, nil
			}
			tags = append(tags, tag)
			if len(tags) > maxTagStackDepth {
				tags = tags[len(tags)-maxTagStackDepth:]
			}
			continue
		}

		item, err := d.decodeByMajorType(mt, arg, indefinite, headLen)
		if err != nil {
			return Item{}, err
		}
		item.Tags = tags
		return item, nil
	}
}

func (d *Decoder) decodeByMajorType(mt MajorType, arg uint64, indefinite bool, headLen int) (Item, error) {
	if !indefinite && (mt != MajorTypeSimpleOrFloat || headLen <= 2) {
		if err := checkPreferredArgWidth(d.mode, arg, headLen); err != nil {
			return Item{}, err
		}
	}
	switch mt {
	case MajorTypeUnsignedInteger:
		return Item{Type: ItemUnsignedInt, Uint64: arg}, nil

	case MajorTypeNegativeInteger:
		if arg <= uint64(math.MaxInt64) {
			return Item{Type: ItemNegativeInt, Int64: -int64(arg) - 1}, nil
		}
		return Item{Type: ItemNegative65Bit, Uint64: arg}, nil

	case MajorTypeByteString:
		if indefinite {
			content, err := d.readIndefiniteString(MajorTypeByteString)
			if err != nil {
				return Item{}, err
			}
			return Item{Type: ItemByteString, Bytes: content}, nil
		}
		content, err := d.cursor.Advance(int(arg))
		if err != nil {
			return Item{}, err
		}
		return Item{Type: ItemByteString, Bytes: content}, nil

	case MajorTypeTextString:
		if indefinite {
			content, err := d.readIndefiniteString(MajorTypeTextString)
			if err != nil {
				return Item{}, err
			}
			return Item{Type: ItemTextString, Text: string(content)}, nil
		}
		content, err := d.cursor.Advance(int(arg))
		if err != nil {
			return Item{}, err
		}
		return Item{Type: ItemTextString, Text: string(content)}, nil

	case MajorTypeArray:
		count := int64(-1)
		if !indefinite {
			count = int64(arg)
		}
		return Item{Type: ItemArray, Count: count}, nil

	case MajorTypeMap:
		count := int64(-1)
		if !indefinite {
			count = int64(arg)
		}
		return Item{Type: ItemMap, Count: count}, nil

	default: // MajorTypeSimpleOrFloat
		return d.decodeSimpleOrFloat(arg, indefinite, headLen)
	}
}

func (d *Decoder) decodeSimpleOrFloat(arg uint64, indefinite bool, headLen int) (Item, error) {
	if indefinite {
		return Item{Type: ItemBreak}, nil
	}
	switch headLen {
	case 1:
		switch arg {
		case uint64(SimpleValueFalse):
			return Item{Type: ItemBool, Uint64: 0}, nil
		case uint64(SimpleValueTrue):
			return Item{Type: ItemBool, Uint64: 1}, nil
		case uint64(SimpleValueNull):
			return Item{Type: ItemNull}, nil
		case uint64(SimpleValueUndefined):
			return Item{Type: ItemUndefined}, nil
		default:
			return Item{Type: ItemSimple, Simple: SimpleValue(arg)}, nil
		}
	case 2:
		if arg < 32 {
			return Item{}, ErrBadType7
		}
		return Item{Type: ItemSimple, Simple: SimpleValue(arg)}, nil
	case 3:
		if err := d.checkFloatConformance(headLen, arg, halfHasPayload(uint16(arg))); err != nil {
			return Item{}, err
		}
		return Item{Type: ItemHalfFloat, Float64: HalfToDouble(uint16(arg))}, nil
	case 5:
		if err := d.checkFloatConformance(headLen, arg, singleHasPayload(uint32(arg))); err != nil {
			return Item{}, err
		}
		return Item{Type: ItemSingleFloat, Float64: SingleToDouble(math.Float32frombits(uint32(arg)))}, nil
	case 9:
		if err := d.checkFloatConformance(headLen, arg, doubleHasPayload(arg)); err != nil {
			return Item{}, err
		}
		return Item{Type: ItemDoubleFloat, Float64: math.Float64frombits(arg)}, nil
	default:
		return Item{}, ErrBadType7
	}
}

// checkFloatConformance enforces the two float-related conformance rules
// that depend on decode mode: a Preferred-or-stricter decoder rejects a
// width wider than the value needed, and a dCBOR decoder rejects any NaN
// that carries a non-canonical payload.
func (d *Decoder) checkFloatConformance(headLen int, bits uint64, hasPayload bool) error {
	if d.mode == ModeDecodeDCBOR && hasPayload {
		return ErrNotAllowed
	}
	if d.mode < ModeDecodePreferred {
		return nil
	}
	switch headLen {
	case 5:
		if _, ok := ShrinkSingleToHalf(uint32(bits), false); ok {
			return ErrNotPreferred
		}
	case 9:
		if _, ok := ShrinkDoubleToHalf(bits, false); ok {
			return ErrNotPreferred
		}
		if _, ok := ShrinkDoubleToSingle(bits, false); ok {
			return ErrNotPreferred
		}
	}
	return nil
}

// checkPreferredArgWidth rejects a non-minimal argument width once the
// decoder's mode requires preferred-form encoding. Callers apply it only to
// definite-length, non-float heads: float widths are checked by
// checkFloatConformance, and indefinite-length heads are not checked.
func checkPreferredArgWidth(mode DecodeMode, arg uint64, headLen int) error {
	if mode < ModeDecodePreferred {
		return nil
	}
	if argHeadWidth(headLen) != preferredArgumentWidth(arg) {
		return ErrNotPreferred
	}
	return nil
}

// argHeadWidth maps a head's total byte length back to the number of
// argument bytes DecodeHead consumed beyond the initial byte.
func argHeadWidth(headLen int) int {
	switch headLen {
	case 1:
		return 0
	case 2:
		return 1
	case 3:
		return 2
	case 5:
		return 4
	default:
		return 8
	}
}

func (d *Decoder) readIndefiniteString(mt MajorType) ([]byte, error) {
	var out []byte
	for {
		if b, ok := d.cursor.PeekByte(); ok && b == breakByte {
			if _, err := d.cursor.Advance(1); err != nil {
				return nil, err
			}
			return out, nil
		}
		chunkMT, arg, chunkIndefinite, headLen, err := DecodeHead(d.cursor.Remaining())
		if err != nil {
			return nil, err
		}
		if chunkMT != mt || chunkIndefinite {
			return nil, ErrIndefiniteStringChunk
		}
		if _, err := d.cursor.Advance(headLen); err != nil {
			return nil, err
		}
		chunk, err := d.cursor.Advance(int(arg))
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// decodePromotedTag decodes the content of one of the four tags the core
// recognizes and folds it into a rich numeric Item.
func (d *Decoder) decodePromotedTag(tag CborTag) (Item, error) {
	switch tag {
	case TagUnsignedBignum, TagNegativeBignum:
		inner, err := d.decodeOneItem()
		if err != nil {
			return Item{}, err
		}
		if inner.Type != ItemByteString {
			return Item{}, ErrUnexpectedType
		}
		mag := trimLeadingZeros(inner.Bytes)
		neg := tag == TagNegativeBignum
		if neg {
			mag = addOneToMagnitude(inner.Bytes)
		}
		return Item{Type: ItemBignum, Bytes: mag, BignumNegative: neg}, nil

	default: // TagDecimalFraction, TagBigFloat
		arrItem, err := d.decodeOneItem()
		if err != nil {
			return Item{}, err
		}
		if arrItem.Type != ItemArray || arrItem.Count != 2 {
			return Item{}, ErrUnexpectedType
		}
		expItem, err := d.decodeOneItem()
		if err != nil {
			return Item{}, err
		}
		var exponent int64
		switch expItem.Type {
		case ItemUnsignedInt:
			exponent = int64(expItem.Uint64)
		case ItemNegativeInt:
			exponent = expItem.Int64
		default:
			return Item{}, ErrUnexpectedType
		}

		mantItem, err := d.decodeOneItem()
		if err != nil {
			return Item{}, err
		}
		result := Item{Int64: exponent}
		if tag == TagDecimalFraction {
			result.Type = ItemDecimalFraction
		} else {
			result.Type = ItemBigFloat
		}
		switch mantItem.Type {
		case ItemUnsignedInt:
			result.MantissaInt64 = int64(mantItem.Uint64)
		case ItemNegativeInt:
			result.MantissaInt64 = mantItem.Int64
		case ItemNegative65Bit:
			result.MantissaIsBig = true
			result.BignumNegative = true
			result.Bytes = uint64ToBytes(mantItem.Uint64 + 1)
		case ItemBignum:
			result.MantissaIsBig = true
			result.BignumNegative = mantItem.BignumNegative
			result.Bytes = mantItem.Bytes
		default:
			return Item{}, ErrUnexpectedType
		}
		return result, nil
	}
}

// scanItem returns the offset just past the well-formed item starting at
// offset within data, descending into arrays, maps, and tag chains as
// needed. It operates directly on an already-encoded slice rather than a
// Decoder, so the encoder's CloseAndSortMap can delimit entries it has
// already written without standing up a second decode context.
func scanItem(data []byte, offset int) (int, error) {
	if offset < 0 || offset > len(data) {
		return 0, ErrBufferTooSmall
	}
	mt, arg, indefinite, headLen, err := DecodeHead(data[offset:])
	if err != nil {
		return 0, err
	}
	pos := offset + headLen

	switch mt {
	case MajorTypeUnsignedInteger, MajorTypeNegativeInteger:
		return pos, nil

	case MajorTypeByteString, MajorTypeTextString:
		if indefinite {
			return scanIndefiniteRun(data, pos)
		}
		pos += int(arg)
		if pos > len(data) {
			return 0, ErrHitEnd
		}
		return pos, nil

	case MajorTypeArray:
		if indefinite {
			return scanIndefiniteRun(data, pos)
		}
		for i := uint64(0); i < arg; i++ {
			next, err := scanItem(data, pos)
			if err != nil {
				return 0, err
			}
			pos = next
		}
		return pos, nil

	case MajorTypeMap:
		if indefinite {
			return scanIndefiniteRun(data, pos)
		}
		for i := uint64(0); i < arg*2; i++ {
			next, err := scanItem(data, pos)
			if err != nil {
				return 0, err
			}
			pos = next
		}
		return pos, nil

	case MajorTypeTag:
		return scanItem(data, pos)

	default: // MajorTypeSimpleOrFloat
		return pos, nil
	}
}

// scanIndefiniteRun advances past a run of items terminated by a break
// byte, used for indefinite strings, arrays, and maps alike: in every
// case the rule is "keep scanning items until a break byte appears".
func scanIndefiniteRun(data []byte, pos int) (int, error) {
	for {
		if pos >= len(data) {
			return 0, ErrHitEnd
		}
		if data[pos] == breakByte {
			return pos + 1, nil
		}
		next, err := scanItem(data, pos)
		if err != nil {
			return 0, err
		}
		pos = next
	}
}
