package wire_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lazybson/lazybson/internal/wire"
)

// buildDoc assembles a complete BSON document (length prefix + body +
// trailing 0x00) from already-encoded element bytes.
func buildDoc(elements ...[]byte) []byte {
	var body []byte
	for _, e := range elements {
		body = append(body, e...)
	}

	total := 4 + len(body) + 1
	out := make([]byte, 4, total)
	binary.LittleEndian.PutUint32(out, uint32(total))
	out = append(out, body...)
	out = append(out, 0x00)

	return out
}

func cstring(s string) []byte {
	return append([]byte(s), 0x00)
}

func elInt32(key string, v int32) []byte {
	b := append([]byte{byte(wire.TagInt32)}, cstring(key)...)
	val := make([]byte, 4)
	binary.LittleEndian.PutUint32(val, uint32(v))

	return append(b, val...)
}

func elString(key, v string) []byte {
	b := append([]byte{byte(wire.TagString)}, cstring(key)...)
	payload := append([]byte(v), 0x00)
	lenBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBytes, uint32(len(payload)))

	return append(append(b, lenBytes...), payload...)
}

func TestElementIterator_emptyDocument(t *testing.T) {
	it, err := wire.NewElementIterator(buildDoc())
	require.NoError(t, err)

	_, ok, err := it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestElementIterator_twoFields(t *testing.T) {
	doc := buildDoc(elInt32("a", 1), elString("b", "hi"))
	it, err := wire.NewElementIterator(doc)
	require.NoError(t, err)

	el, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wire.TagInt32, el.Tag)
	require.Equal(t, "a", string(el.Key))
	require.Equal(t, int32(1), int32(binary.LittleEndian.Uint32(it.Data()[el.ValueStart:el.ValueEnd])))

	el, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wire.TagString, el.Tag)
	require.Equal(t, "b", string(el.Key))

	_, ok, err = it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestElementIterator_unknownTag(t *testing.T) {
	body := append([]byte{0x7F}, cstring("x")...)
	total := 4 + len(body) + 1
	raw := make([]byte, 4, total)
	binary.LittleEndian.PutUint32(raw, uint32(total))
	raw = append(raw, body...)
	raw = append(raw, 0x00)

	it, err := wire.NewElementIterator(raw)
	require.NoError(t, err)

	_, _, err = it.Next()
	var unknownErr *wire.UnknownTagError
	require.ErrorAs(t, err, &unknownErr)
	require.Equal(t, byte(0x7F), unknownErr.Tag)
}

func TestElementIterator_keyMissingTerminator(t *testing.T) {
	// Tag + key bytes with no NUL before the document's terminator.
	raw := []byte{0x08, 0x00, 0x00, 0x00, byte(wire.TagInt32), 'a', 'b', 0x00}
	it, err := wire.NewElementIterator(raw)
	require.NoError(t, err)

	_, _, err = it.Next()
	require.ErrorIs(t, err, wire.ErrMalformed)
}

func TestElementIterator_rejectsTruncatedInput(t *testing.T) {
	_, err := wire.NewElementIterator([]byte{0x05, 0x00})
	require.ErrorIs(t, err, wire.ErrMalformed)
}
