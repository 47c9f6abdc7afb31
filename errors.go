package cbor

import (
	"errors"
	"fmt"
)

// Error taxonomy (spec §7). Each sentinel is a stable, comparable value so
// callers can switch on it directly; CborError and TypeMismatchError add
// position/expectation context where the encoder or decoder has it.
var (
	// Size errors.

	// ErrBufferTooSmall is returned when the output buffer lacks capacity
	// for a write, or the input buffer is too short for a read.
	ErrBufferTooSmall = errors.New("cbor: buffer too small")
	// ErrBufferTooLarge is returned when an operation would grow the
	// encoded length past the maximum encoded size.
	ErrBufferTooLarge = errors.New("cbor: encoded size would exceed the maximum")
	// ErrNestingTooDeep is returned when opening an aggregate would exceed
	// the configured maximum nesting depth.
	ErrNestingTooDeep = errors.New("cbor: maximum nesting depth exceeded")
	// ErrArrayTooLong is returned when an aggregate's item count would
	// exceed the maximum items-per-aggregate.
	ErrArrayTooLong = errors.New("cbor: too many items in array or map")

	// Misuse errors.

	// ErrTooManyCloses is returned when a Close call has no matching Open.
	ErrTooManyCloses = errors.New("cbor: close with no matching open")
	// ErrCloseMismatch is returned when a Close call's major type doesn't
	// match the innermost open frame.
	ErrCloseMismatch = errors.New("cbor: close does not match the innermost open frame")
	// ErrArrayOrMapStillOpen is returned by Finish when a frame remains open.
	ErrArrayOrMapStillOpen = errors.New("cbor: array or map still open at finish")
	// ErrCannotCancel is returned when CancelByteStringWrap is called after
	// content has already been written inside the wrap.
	ErrCannotCancel = errors.New("cbor: cannot cancel a byte string wrap with content already written")
	// ErrOpenByteString is returned when OpenBytes is called while another
	// raw byte region is already open.
	ErrOpenByteString = errors.New("cbor: a raw byte string region is already open")
	// ErrNotPreferred is returned by a decoder in Preferred or a stricter
	// mode when a head argument or float is encoded wider than its value
	// needs.
	ErrNotPreferred = errors.New("cbor: value has no preferred-form encoding in this mode")
	// ErrNotAllowed is returned when a NaN payload is supplied but the
	// encoder's configuration disallows it.
	ErrNotAllowed = errors.New("cbor: value not allowed under the current configuration")

	// Conformance errors.

	// ErrEncodeUnsupported is returned when asked to encode a value this
	// codec has no representation for.
	ErrEncodeUnsupported = errors.New("cbor: unsupported value for encoding")
	// ErrDuplicateLabel is returned when two map entries share the same
	// encoded label, detected either during sort-on-close or during a
	// spiffy label search.
	ErrDuplicateLabel = errors.New("cbor: duplicate map label")
	// ErrMapNotSorted is returned by a CDE/dCBOR-mode decoder when a map's
	// keys are not in bytewise-ascending deterministic order.
	ErrMapNotSorted = errors.New("cbor: map keys are not in deterministic order")

	// Decode well-formedness errors (unrecoverable/sticky).

	// ErrHitEnd is returned when the input is exhausted mid-item.
	ErrHitEnd = errors.New("cbor: unexpected end of input")
	// ErrUnsupported is returned for reserved additional-info values
	// (28, 29, 30).
	ErrUnsupported = errors.New("cbor: reserved additional-info value")
	// ErrBadType7 is returned for reserved simple values 24..31 that have
	// no one-byte-argument meaning.
	ErrBadType7 = errors.New("cbor: invalid major type 7 value")
	// ErrIndefiniteStringChunk is returned when an indefinite-length string
	// contains a chunk of the wrong major type or itself indefinite.
	ErrIndefiniteStringChunk = errors.New("cbor: invalid chunk in indefinite-length string")

	// Decode semantic errors (recoverable).

	// ErrUnexpectedType is returned when the item at the cursor doesn't
	// match what the caller asked for.
	ErrUnexpectedType = errors.New("cbor: unexpected item type")
	// ErrLabelNotFound is returned by a spiffy map lookup that found no
	// matching label.
	ErrLabelNotFound = errors.New("cbor: label not found in map")
	// ErrMapNotEntered is returned when a bounded-mode operation is used
	// without first entering a map or array.
	ErrMapNotEntered = errors.New("cbor: no map or array currently entered")
	// ErrExitMismatch is returned when ExitMap/ExitArray is called but the
	// currently bounded frame is the other kind.
	ErrExitMismatch = errors.New("cbor: exit does not match the currently entered aggregate")
	// ErrConversionUnderOverFlow is returned when a numeric conversion's
	// result doesn't fit the requested scalar type.
	ErrConversionUnderOverFlow = errors.New("cbor: numeric conversion overflow")
	// ErrNumberSignConversion is returned when a negative source is
	// requested as an unsigned scalar.
	ErrNumberSignConversion = errors.New("cbor: cannot convert negative number to unsigned")
	// ErrFloatException is returned when a float numeric conversion hits
	// NaN or infinity where a finite value is required, or a value that is
	// not a whole number where an exact integer is required.
	ErrFloatException = errors.New("cbor: float exception (NaN or infinity)")

	// ErrInvalidState is a catch-all for operations attempted in a state
	// that makes them meaningless (no open frame, wrong cursor position).
	ErrInvalidState = errors.New("cbor: invalid state for this operation")
)

// CborError attaches a byte offset and a short message to a sentinel error.
type CborError struct {
	Err     error
	Offset  int
	Message string
}

// Error implements the error interface.
func (e *CborError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cbor error at offset %d: %s: %v", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("cbor error at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying sentinel so errors.Is keeps working.
func (e *CborError) Unwrap() error {
	return e.Err
}

// NewCborError creates a new CborError.
func NewCborError(err error, offset int, message string) *CborError {
	return &CborError{Err: err, Offset: offset, Message: message}
}

// TypeMismatchError is returned when the expected item type doesn't match
// the actual one.
type TypeMismatchError struct {
	Expected ItemType
	Actual   ItemType
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cbor: expected %s but got %s", e.Expected, e.Actual)
}

// Unwrap lets errors.Is(err, ErrUnexpectedType) match a TypeMismatchError.
func (e *TypeMismatchError) Unwrap() error {
	return ErrUnexpectedType
}
