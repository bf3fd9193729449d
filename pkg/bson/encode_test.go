package bson_test

import (
	"encoding/binary"
	"math"
)

// Minimal hand-rolled BSON encoders for tests. pkg/bson has no encode path
// of its own (spec non-goal); these only exist to build fixtures.

func cstring(s string) []byte {
	return append([]byte(s), 0x00)
}

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

func elInt32(key string, v int32) []byte {
	b := append([]byte{0x10}, cstring(key)...)
	val := make([]byte, 4)
	binary.LittleEndian.PutUint32(val, uint32(v))

	return append(b, val...)
}

func elInt64(key string, v int64) []byte {
	b := append([]byte{0x12}, cstring(key)...)
	val := make([]byte, 8)
	binary.LittleEndian.PutUint64(val, uint64(v))

	return append(b, val...)
}

func elDouble(key string, v float64) []byte {
	b := append([]byte{0x01}, cstring(key)...)
	val := make([]byte, 8)
	binary.LittleEndian.PutUint64(val, math.Float64bits(v))

	return append(b, val...)
}

func elString(key, v string) []byte {
	b := append([]byte{0x02}, cstring(key)...)
	payload := append([]byte(v), 0x00)
	lenBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBytes, uint32(len(payload)))

	return append(append(b, lenBytes...), payload...)
}

func elBool(key string, v bool) []byte {
	b := append([]byte{0x08}, cstring(key)...)
	if v {
		return append(b, 0x01)
	}

	return append(b, 0x00)
}

func elNull(key string) []byte {
	return append([]byte{0x0A}, cstring(key)...)
}

func elDateTime(key string, millis int64) []byte {
	b := append([]byte{0x09}, cstring(key)...)
	val := make([]byte, 8)
	binary.LittleEndian.PutUint64(val, uint64(millis))

	return append(b, val...)
}

func elObjectID(key string, id [12]byte) []byte {
	b := append([]byte{0x07}, cstring(key)...)

	return append(b, id[:]...)
}

func elBinary(key string, subtype byte, data []byte) []byte {
	b := append([]byte{0x05}, cstring(key)...)
	lenBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBytes, uint32(len(data)))
	b = append(b, lenBytes...)
	b = append(b, subtype)

	return append(b, data...)
}

func elDocument(key string, childDoc []byte) []byte {
	b := append([]byte{0x03}, cstring(key)...)

	return append(b, childDoc...)
}

func elArray(key string, elements ...[]byte) []byte {
	b := append([]byte{0x04}, cstring(key)...)

	return append(b, buildDoc(elements...)...)
}
