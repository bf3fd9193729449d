package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Tag identifies a BSON element's wire type.
type Tag byte

// Element tags this module understands the wire width of. Tags outside this
// set cannot be skipped over during a scan, let alone decoded, and surface
// as an [UnknownTagError].
const (
	TagDouble   Tag = 0x01
	TagString   Tag = 0x02
	TagDocument Tag = 0x03
	TagArray    Tag = 0x04
	TagBinary   Tag = 0x05
	TagObjectID Tag = 0x07
	TagBool     Tag = 0x08
	TagDateTime Tag = 0x09
	TagNull     Tag = 0x0A
	TagInt32    Tag = 0x10
	TagInt64    Tag = 0x12
)

// ErrMalformed is returned when an element's key is unterminated or its
// declared value length runs past the document's end.
var ErrMalformed = errors.New("wire: malformed element")

// UnknownTagError is returned when an element's tag byte is not one this
// module knows how to skip over.
type UnknownTagError struct {
	Tag byte
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("wire: unknown bson type tag 0x%02x", e.Tag)
}

// Element is a single field position: its tag, its raw key bytes (a view
// into the iterator's slice, not a copy), and the byte range of its
// still-undecoded value within that same slice.
type Element struct {
	Tag        Tag
	Key        []byte
	ValueStart int
	ValueEnd   int
}

// ElementIterator scans one document's fields linearly: tag byte, NUL
// terminated key, value bytes, repeated until the document's trailing 0x00.
// It decodes nothing; it only locates field boundaries.
type ElementIterator struct {
	data []byte // the full record: 4-byte length prefix + elements + trailing 0x00
	pos  int
	end  int // index of the trailing 0x00
}

// NewElementIterator opens an iterator over a single document's bytes,
// including its own 4-byte length prefix and trailing 0x00.
func NewElementIterator(data []byte) (*ElementIterator, error) {
	if len(data) < minDocumentSize {
		return nil, ErrMalformed
	}

	length := int(int32(binary.LittleEndian.Uint32(data[:4])))
	if length != len(data) {
		return nil, ErrMalformed
	}

	if data[length-1] != 0x00 {
		return nil, ErrMalformed
	}

	return &ElementIterator{data: data, pos: 4, end: length - 1}, nil
}

// Data returns the slice this iterator was opened on, so callers can slice
// an [Element]'s ValueStart/ValueEnd out of it.
func (it *ElementIterator) Data() []byte {
	return it.data
}

// Next returns the next element, or (zero, false, nil) at the document's
// end. A non-nil error means the document is malformed from this point on;
// the iterator should not be advanced further.
func (it *ElementIterator) Next() (Element, bool, error) {
	if it.pos >= it.end {
		return Element{}, false, nil
	}

	tag := Tag(it.data[it.pos])
	it.pos++

	keyStart := it.pos

	nul := bytes.IndexByte(it.data[it.pos:it.end], 0x00)
	if nul < 0 {
		return Element{}, false, ErrMalformed
	}

	key := it.data[keyStart : keyStart+nul]
	it.pos = keyStart + nul + 1

	valueStart := it.pos

	width, err := valueWidth(tag, it.data, valueStart, it.end)
	if err != nil {
		return Element{}, false, err
	}

	valueEnd := valueStart + width
	if valueEnd > it.end {
		return Element{}, false, ErrMalformed
	}

	it.pos = valueEnd

	return Element{Tag: tag, Key: key, ValueStart: valueStart, ValueEnd: valueEnd}, true, nil
}

// valueWidth returns the number of bytes the value at data[start:end] of the
// given tag occupies, without validating the value's contents.
func valueWidth(tag Tag, data []byte, start, end int) (int, error) {
	switch tag {
	case TagDouble, TagDateTime, TagInt64:
		return 8, nil
	case TagInt32:
		return 4, nil
	case TagBool:
		return 1, nil
	case TagNull:
		return 0, nil
	case TagObjectID:
		return 12, nil
	case TagString:
		if start+4 > end {
			return 0, ErrMalformed
		}

		strLen := int(int32(binary.LittleEndian.Uint32(data[start : start+4])))
		if strLen < 1 {
			return 0, ErrMalformed
		}

		return 4 + strLen, nil
	case TagDocument, TagArray:
		if start+4 > end {
			return 0, ErrMalformed
		}

		docLen := int(int32(binary.LittleEndian.Uint32(data[start : start+4])))
		if docLen < minDocumentSize {
			return 0, ErrMalformed
		}

		return docLen, nil
	case TagBinary:
		if start+4 > end {
			return 0, ErrMalformed
		}

		binLen := int(int32(binary.LittleEndian.Uint32(data[start : start+4])))
		if binLen < 0 {
			return 0, ErrMalformed
		}

		return 4 + 1 + binLen, nil
	default:
		return 0, &UnknownTagError{Tag: byte(tag)}
	}
}
