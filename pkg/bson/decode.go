package bson

import (
	"encoding/binary"
	"math"
	"time"
	"unicode/utf8"

	"github.com/lazybson/lazybson/internal/wire"
)

const (
	uuidSubtypeLegacy = 0x03
	uuidSubtypeModern = 0x04
)

// decodeElement maps one element, positioned by el within slice, to a host
// value. slice is the document bytes the element's cursor was opened on;
// baseOffset is the absolute offset of slice[0] within buf's bytes, used to
// compute a nested document's absolute span.
//
// A document-typed element produces a lazy child [*Document] registered
// with buf, not with the Document currently being decoded — a child's
// lifetime is bounded by the root Buffer, not by its parent, so extracting
// a child and dropping its parent leaves the child perfectly usable.
func decodeElement(buf *Buffer, baseOffset int, el wire.Element, slice []byte) (any, error) {
	raw := slice[el.ValueStart:el.ValueEnd]

	switch el.Tag {
	case wire.TagDouble:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw)), nil

	case wire.TagString:
		return decodeString(raw)

	case wire.TagInt32:
		return int32(binary.LittleEndian.Uint32(raw)), nil

	case wire.TagInt64:
		return int64(binary.LittleEndian.Uint64(raw)), nil

	case wire.TagBool:
		return raw[0] != 0x00, nil

	case wire.TagDateTime:
		return decodeDateTime(raw)

	case wire.TagNull:
		return nil, nil

	case wire.TagObjectID:
		var id ObjectID
		copy(id[:], raw)

		return id, nil

	case wire.TagBinary:
		return decodeBinary(raw)

	case wire.TagDocument:
		return decodeDocument(buf, baseOffset, el), nil

	case wire.TagArray:
		return decodeArray(buf, baseOffset, el, raw)

	default:
		return nil, badInputf("unknown bson type tag 0x%02x", byte(el.Tag))
	}
}

func decodeString(raw []byte) (string, error) {
	// raw is [4-byte length][...bytes...][0x00]; the length includes the
	// trailing NUL, which is not part of the string's content.
	content := raw[4 : len(raw)-1]
	if !utf8.Valid(content) {
		return "", badInputf("invalid utf8 string")
	}

	return string(content), nil
}

func decodeDateTime(raw []byte) (time.Time, error) {
	millis := int64(binary.LittleEndian.Uint64(raw))

	const nsPerMs = int64(time.Millisecond)
	if millis > 0 && millis > math.MaxInt64/nsPerMs {
		return time.Time{}, badInputf("datetime milliseconds overflow")
	}

	if millis < 0 && millis < math.MinInt64/nsPerMs {
		return time.Time{}, badInputf("datetime milliseconds overflow")
	}

	return time.UnixMilli(millis).UTC(), nil
}

func decodeDocument(buf *Buffer, baseOffset int, el wire.Element) *Document {
	absStart := baseOffset + el.ValueStart
	absLen := el.ValueEnd - el.ValueStart

	child := newLinearDocument(buf, absStart, absLen)
	buf.attach(child)

	return child
}

// decodeArray decodes eagerly: a BSON array is wire-identical to a document
// whose keys are the decimal indices "0", "1", ...; arrays are never given a
// lazy representation.
func decodeArray(buf *Buffer, baseOffset int, el wire.Element, raw []byte) ([]any, error) {
	it, err := wire.NewElementIterator(raw)
	if err != nil {
		return nil, wrapWireError(err)
	}

	absBase := baseOffset + el.ValueStart

	var out []any

	for {
		sub, ok, err := it.Next()
		if err != nil {
			return nil, wrapWireError(err)
		}

		if !ok {
			return out, nil
		}

		v, err := decodeElement(buf, absBase, sub, raw)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}
}

// decodeBinary dispatches on subtype. Subtypes 0x03 (legacy UUID) and 0x04
// (UUID) require exactly 16 payload bytes; 0x03 additionally undergoes a
// legacy byte-order fix-up before the UUID is constructed. Every other
// subtype produces the generic [Binary] wrapper.
func decodeBinary(raw []byte) (any, error) {
	// raw is [4-byte length][1-byte subtype][...payload...].
	subtype := raw[4]
	payload := raw[5:]

	switch subtype {
	case uuidSubtypeLegacy, uuidSubtypeModern:
		if len(payload) != 16 {
			return nil, badInputf("uuid binary subtype 0x%02x requires 16 bytes, got %d", subtype, len(payload))
		}

		var b [16]byte

		copy(b[:], payload)

		if subtype == uuidSubtypeLegacy {
			b = legacyUUIDByteSwap(b)
		}

		return UUID(b), nil

	default:
		data := make([]byte, len(payload))
		copy(data, payload)

		return Binary{Subtype: subtype, Data: data}, nil
	}
}
