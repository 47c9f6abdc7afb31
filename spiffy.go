package cbor

// boundedFrame tracks one map or array the spiffy decoder has descended
// into: startOffset is the position of its first child, total is its
// declared item count (pairs, for a map), and endOffset is the offset
// just past the last child, computed lazily and cached on first use.
type boundedFrame struct {
	isMap       bool
	startOffset int
	total       int64
	endOffset   int
}

// SpiffyDecoder layers bounded, randomly-navigable map/array access on top
// of a plain Decoder: EnterMap/EnterArray restrict subsequent label
// lookups and Rewind to that aggregate's interior, and ExitMap/ExitArray return
// to the enclosing scope positioned just past it. It carries no error
// state of its own; every method either returns a semantic error directly
// (label not found, wrong type, navigation misuse) or propagates whatever
// the underlying Decoder has already latched.
type SpiffyDecoder struct {
	decoder *Decoder
	stack   []boundedFrame
}

// NewSpiffyDecoder wraps d for bounded navigation.
func NewSpiffyDecoder(d *Decoder) *SpiffyDecoder {
	return &SpiffyDecoder{decoder: d}
}

// Err returns the underlying decoder's sticky error, if any.
func (s *SpiffyDecoder) Err() error {
	return s.decoder.Err()
}

func (s *SpiffyDecoder) enter(isMap bool) error {
	if err := s.decoder.Err(); err != nil {
		return err
	}
	item, err := s.decoder.GetNext()
	if err != nil {
		return err
	}
	wantType := ItemArray
	if isMap {
		wantType = ItemMap
	}
	if item.Type != wantType {
		return &TypeMismatchError{Expected: wantType, Actual: item.Type}
	}
	if item.Count < 0 {
		return ErrUnsupported
	}
	s.stack = append(s.stack, boundedFrame{
		isMap:       isMap,
		startOffset: s.decoder.cursor.ReadPos(),
		total:       item.Count,
		endOffset:   -1,
	})
	return nil
}

// EnterMap descends into the next item, which must be a definite-length
// map, restricting subsequent GetItemInMap calls to its entries.
func (s *SpiffyDecoder) EnterMap() error {
	return s.enter(true)
}

// EnterArray descends into the next item, which must be a definite-length
// array.
func (s *SpiffyDecoder) EnterArray() error {
	return s.enter(false)
}

func (s *SpiffyDecoder) currentFrame(isMap bool) (*boundedFrame, error) {
	if len(s.stack) == 0 {
		return nil, ErrMapNotEntered
	}
	f := &s.stack[len(s.stack)-1]
	if f.isMap != isMap {
		return nil, ErrMapNotEntered
	}
	return f, nil
}

// frameEnd computes (and caches) the offset just past f's last child.
func (s *SpiffyDecoder) frameEnd(f *boundedFrame) (int, error) {
	if f.endOffset >= 0 {
		return f.endOffset, nil
	}
	n := f.total
	if f.isMap {
		n *= 2
	}
	pos := f.startOffset
	data := s.decoder.cursor.Bytes()
	for i := int64(0); i < n; i++ {
		next, err := scanItem(data, pos)
		if err != nil {
			return 0, err
		}
		pos = next
	}
	f.endOffset = pos
	return pos, nil
}

func (s *SpiffyDecoder) exit(isMap bool) error {
	if err := s.decoder.Err(); err != nil {
		return err
	}
	f, err := s.currentFrame(isMap)
	if err != nil {
		return ErrExitMismatch
	}
	end, err := s.frameEnd(f)
	if err != nil {
		return err
	}
	if err := s.decoder.cursor.Seek(end); err != nil {
		return err
	}
	// The decoder only still holds this aggregate's frame if GetNext hasn't
	// already consumed it to its end (or found it empty).
	if n := len(s.decoder.stack); n > 0 && s.decoder.stack[n-1].startOffset == f.startOffset {
		s.decoder.forcePopFrame()
		s.decoder.closeFinishedFrames()
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// ExitMap returns to the scope enclosing the currently entered map,
// positioned just past it.
func (s *SpiffyDecoder) ExitMap() error {
	return s.exit(true)
}

// ExitArray is ExitMap's counterpart for arrays.
func (s *SpiffyDecoder) ExitArray() error {
	return s.exit(false)
}

// Rewind repositions the decoder back to the first child of the currently
// entered map or array, so a fresh pass of GetItemInMap calls (or plain
// GetNext calls) starts over. While the aggregate is still open in the
// underlying Decoder, its count of consumed children is reset as well;
// once GetNext has consumed the aggregate to its end, only the read
// position is moved back.
func (s *SpiffyDecoder) Rewind() error {
	if err := s.decoder.Err(); err != nil {
		return err
	}
	if len(s.stack) == 0 {
		return ErrMapNotEntered
	}
	f := &s.stack[len(s.stack)-1]
	for i := len(s.decoder.stack) - 1; i >= 0; i-- {
		if s.decoder.stack[i].startOffset == f.startOffset {
			s.decoder.stack = s.decoder.stack[:i+1]
			s.decoder.stack[i].count = 0
			s.decoder.stack[i].hasLastKey = false
			break
		}
	}
	return s.decoder.cursor.Seek(f.startOffset)
}

func matchIntLabel(key Item, label int64) bool {
	switch key.Type {
	case ItemUnsignedInt:
		return label >= 0 && key.Uint64 == uint64(label)
	case ItemNegativeInt:
		return key.Int64 == label
	default:
		return false
	}
}

func matchTextLabel(key Item, label string) bool {
	return key.Type == ItemTextString && key.Text == label
}

// GetItemInMap does a single forward scan of the currently entered map
// looking for an integer-keyed entry matching label, verifying its value
// is of wantType. A second occurrence of the same label after the first
// match is reported as ErrDuplicateLabel rather than silently ignored.
func (s *SpiffyDecoder) GetItemInMap(label int64, wantType ItemType) (Item, error) {
	return s.getItemInMap(wantType, func(key Item) bool { return matchIntLabel(key, label) })
}

// GetTextItemInMap is GetItemInMap for a text-string-keyed map.
func (s *SpiffyDecoder) GetTextItemInMap(label string, wantType ItemType) (Item, error) {
	return s.getItemInMap(wantType, func(key Item) bool { return matchTextLabel(key, label) })
}

func (s *SpiffyDecoder) getItemInMap(wantType ItemType, match func(Item) bool) (Item, error) {
	if err := s.decoder.Err(); err != nil {
		return Item{}, err
	}
	f, err := s.currentFrame(true)
	if err != nil {
		return Item{}, err
	}

	fork := s.decoder.forkAt(f.startOffset)
	var found *Item
	for i := int64(0); i < f.total; i++ {
		key, err := fork.decodeFull()
		if err != nil {
			return Item{}, err
		}
		if match(key) {
			value, err := fork.decodeFull()
			if err != nil {
				return Item{}, err
			}
			if found != nil {
				return Item{}, ErrDuplicateLabel
			}
			v := value
			found = &v
		} else if err := fork.skipOne(); err != nil {
			return Item{}, err
		}
	}
	if f.endOffset < 0 {
		f.endOffset = fork.cursor.ReadPos()
	}
	if found == nil {
		return Item{}, ErrLabelNotFound
	}
	if found.Type != wantType {
		return Item{}, &TypeMismatchError{Expected: wantType, Actual: found.Type}
	}
	return *found, nil
}

// MapItemRequest is one entry in a GetItemsInMap batch lookup: set either
// HasIntLabel+IntLabel or TextLabel to choose the key form. After the
// call, Result holds the matching value (if Err is nil).
type MapItemRequest struct {
	HasIntLabel bool
	IntLabel    int64
	TextLabel   string
	WantType    ItemType

	Result Item
	Err    error
}

// GetItemsInMap resolves every request against the currently entered map
// in a single forward pass, rather than one scan per label. Each
// request's Err is set independently (ErrLabelNotFound, a
// TypeMismatchError, or nil); the overall return value is non-nil only
// for a well-formedness failure that makes the rest of the scan
// meaningless.
func (s *SpiffyDecoder) GetItemsInMap(requests []*MapItemRequest) error {
	if err := s.decoder.Err(); err != nil {
		return err
	}
	f, err := s.currentFrame(true)
	if err != nil {
		return err
	}

	fork := s.decoder.forkAt(f.startOffset)
	matched := make([]bool, len(requests))
	for i := int64(0); i < f.total; i++ {
		key, err := fork.decodeFull()
		if err != nil {
			return err
		}
		matchedIdx := -1
		for ri, req := range requests {
			if matched[ri] {
				continue
			}
			if req.HasIntLabel {
				if matchIntLabel(key, req.IntLabel) {
					matchedIdx = ri
					break
				}
			} else if matchTextLabel(key, req.TextLabel) {
				matchedIdx = ri
				break
			}
		}
		if matchedIdx < 0 {
			if err := fork.skipOne(); err != nil {
				return err
			}
			continue
		}
		value, err := fork.decodeFull()
		if err != nil {
			return err
		}
		matched[matchedIdx] = true
		if value.Type != requests[matchedIdx].WantType {
			requests[matchedIdx].Err = &TypeMismatchError{Expected: requests[matchedIdx].WantType, Actual: value.Type}
		} else {
			requests[matchedIdx].Result = value
		}
	}
	if f.endOffset < 0 {
		f.endOffset = fork.cursor.ReadPos()
	}
	for ri, req := range requests {
		if !matched[ri] && req.Err == nil {
			req.Err = ErrLabelNotFound
		}
	}
	return nil
}
