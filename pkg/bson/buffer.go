package bson

import "errors"

// Buffer owns a contiguous sequence of length-prefixed BSON documents and
// tracks every live [Document] that still borrows its bytes, its dependent
// registry.
//
// The registry is a back-reference graph, not an ownership one: Documents
// keep the bytes alive by being registered, not by reference-counting the
// Buffer. [Buffer.Close] walks the registry and forces every dependent to
// inflate before it lets go of the bytes, so no Document slice can ever
// dangle.
//
// Buffer is not safe for concurrent use from multiple goroutines.
type Buffer struct {
	data       []byte
	dependents map[*Document]struct{}
}

// NewBuffer copies data and returns a Buffer that owns the copy. The error
// return exists for parity with the external surface (bytes could in
// principle come from something that fails to read); a Go []byte is always
// a valid contiguous octet source, so NewBuffer never actually fails.
func NewBuffer(data []byte) (*Buffer, error) {
	owned := make([]byte, len(data))
	copy(owned, data)

	return &Buffer{data: owned, dependents: make(map[*Document]struct{})}, nil
}

// Iterate returns a fresh [BufferIterator] positioned at the first record.
// Multiple concurrent iterators are fine; each has its own cursor.
func (b *Buffer) Iterate() *BufferIterator {
	return newBufferIterator(b)
}

// attach registers d as a dependent of b. Called from Document construction.
func (b *Buffer) attach(d *Document) {
	b.dependents[d] = struct{}{}
}

// detach removes d from the registry. Detaching a Document that is not
// registered is a programming error.
func (b *Buffer) detach(d *Document) {
	if _, ok := b.dependents[d]; !ok {
		panic("bson: detach of a document not registered with this buffer")
	}

	delete(b.dependents, d)
}

// Close forces every still-linear dependent Document to inflate, then
// releases the Buffer's hold on its bytes. Close is the Buffer's teardown:
// after it returns, every Document that was registered is inflated and no
// longer references this Buffer.
//
// Inflating a Document can itself attach new dependents (a nested document
// field decodes into a lazy child registered with this same Buffer), so a
// single pass over the registry is not enough: a child attached while its
// parent inflates could be visited never or be missed by a range already in
// progress. Close instead drains the registry, repeatedly picking a
// still-linear dependent and inflating it until none remain.
//
// If a dependent fails to inflate (its bytes turn out to be malformed),
// per-Document semantics win over the teardown invariant: that Document
// stays linear and attached, its error is joined into Close's return
// value, and the Buffer keeps its bytes for it. Close does not retry it
// again. [BufferIterator.Next] checks only a record's outer framing, not
// its elements, so a Document holding an unknown type tag or invalid UTF-8
// fails here.
func (b *Buffer) Close() error {
	var errs []error

	failed := make(map[*Document]struct{})

	for {
		var next *Document

		for d := range b.dependents {
			if _, tried := failed[d]; tried {
				continue
			}

			next = d

			break
		}

		if next == nil {
			break
		}

		if err := next.Inflate(); err != nil {
			errs = append(errs, err)
			failed[next] = struct{}{}
		}
	}

	if len(b.dependents) == 0 {
		b.data = nil
	}

	return errors.Join(errs...)
}
