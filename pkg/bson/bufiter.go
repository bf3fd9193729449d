package bson

import "github.com/lazybson/lazybson/internal/wire"

// BufferIterator produces [Document] values for successive records in a
// [Buffer]. Once it reports an error or exhaustion, every further call
// reports exhaustion too — no element is ever yielded after an error, and a
// fresh iterator over the same Buffer is free to try again.
type BufferIterator struct {
	buf    *Buffer
	reader *wire.Reader
	valid  bool
}

func newBufferIterator(b *Buffer) *BufferIterator {
	return &BufferIterator{buf: b, reader: wire.NewReader(b.data), valid: true}
}

// Next returns the next Document, or (nil, false, nil) at end of stream, or
// (nil, false, err) if the buffer is malformed from this point on. After an
// error, subsequent calls return (nil, false, nil) rather than re-raising.
func (it *BufferIterator) Next() (*Document, bool, error) {
	if !it.valid {
		return nil, false, nil
	}

	start, end, status := it.reader.Next()

	switch status {
	case wire.Advanced:
		doc := newLinearDocument(it.buf, start, end-start)
		it.buf.attach(doc)

		return doc, true, nil
	case wire.EOF:
		it.valid = false

		return nil, false, nil
	default: // wire.Malformed
		it.valid = false

		return nil, false, badInputf("malformed record at offset %d", start)
	}
}
