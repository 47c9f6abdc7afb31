package cbor

// encFrame is one entry in the encoder's nesting stack: an open array,
// map, or byte-string wrap whose head hasn't been written yet. startOffset
// is where the head will be inserted once the aggregate closes.
type encFrame struct {
	majorType    MajorType
	startOffset  int
	itemCount    int64 // raw item count; for maps this is 2x the pair count
	indefinite   bool
	rawByteRegion bool // true for OpenBytes, which forbids nesting inside it
}

// pushEncFrame appends a frame, enforcing the nesting-depth bound.
func pushEncFrame(stack []encFrame, maxDepth int, frame encFrame) ([]encFrame, error) {
	if len(stack) >= maxDepth {
		return stack, ErrNestingTooDeep
	}
	return append(stack, frame), nil
}

// decFrame is one entry in the decoder's nesting stack. Arrays and maps
// use count/total; byte-string wraps (entered via the spiffy decoder) use
// savedEnd instead, since their "items" are not CBOR items but raw bytes.
type decFrame struct {
	majorType   MajorType
	total       int64 // -1 for indefinite
	count       int64 // items consumed so far
	startOffset int
	isByteWrap  bool
	savedEnd    int // end offset of the wrapped content, for byte wraps

	// Map key-order tracking, used only under ModeDecodeCDE/ModeDecodeDCBOR.
	hasLastKey               bool
	lastKeyStart, lastKeyEnd int
}

// atEnd reports whether a definite-length frame has been fully consumed.
func (f *decFrame) atEnd() bool {
	return !f.isByteWrap && f.total >= 0 && f.count >= f.total
}
