package bson

import (
	"encoding/hex"
	"fmt"
)

// ObjectID is a 12-byte opaque document identifier.
type ObjectID [12]byte

// String renders the ObjectID as 24 lowercase hex characters.
func (id ObjectID) String() string {
	return hex.EncodeToString(id[:])
}

// UUID is a 16-byte universally unique identifier decoded from a BSON
// binary subtype 0x03 (legacy) or 0x04 field.
type UUID [16]byte

// String renders the UUID in canonical 8-4-4-4-12 hex form.
func (u UUID) String() string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}

// Binary wraps a BSON binary value that is not a UUID: its subtype byte and
// its raw payload.
type Binary struct {
	Subtype byte
	Data    []byte
}

func (b Binary) String() string {
	return fmt.Sprintf("Binary(subtype=0x%02x, %d bytes)", b.Subtype, len(b.Data))
}

// legacyUUIDByteSwap reverses the byte order of a subtype-0x03 UUID's first
// three fields (4, 2, and 2 bytes) to the RFC-4122 layout; the original
// encoder stored them in the host's native (little-endian) field order
// instead. The final 8 bytes are already in the right order.
func legacyUUIDByteSwap(b [16]byte) [16]byte {
	var out [16]byte

	out[0], out[1], out[2], out[3] = b[3], b[2], b[1], b[0]
	out[4], out[5] = b[5], b[4]
	out[6], out[7] = b[7], b[6]
	copy(out[8:], b[8:])

	return out
}
