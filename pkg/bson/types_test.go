package bson_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lazybson/lazybson/pkg/bson"
)

func TestObjectID_String(t *testing.T) {
	id := bson.ObjectID{0x5f, 0x1a, 0x2b, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff}

	require.Equal(t, "5f1a2b0000000000000000ff", id.String())
	require.Len(t, id.String(), 24)
}

func TestUUID_String_canonicalForm(t *testing.T) {
	u := bson.UUID{
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06,
		0x07, 0x08,
		0x09, 0x0a,
		0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	}

	require.Equal(t, "01020304-0506-0708-090a-0b0c0d0e0f10", u.String())
}

func TestBinary_String_describesSubtypeAndLength(t *testing.T) {
	b := bson.Binary{Subtype: 0x80, Data: []byte{1, 2, 3, 4}}

	require.Equal(t, "Binary(subtype=0x80, 4 bytes)", b.String())
}
