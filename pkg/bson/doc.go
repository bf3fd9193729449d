// Package bson is a lazy decoder for a stream of length-prefixed BSON
// documents held in a single contiguous byte buffer.
//
// A [Buffer] owns the bytes. Iterating it with [Buffer.Iterate] produces
// [Document] values, one per record, without decoding any fields. A
// Document starts out scanning its slice of the buffer linearly on every
// key access; once it has been probed often enough (see
// [InflationThreshold]), it "inflates" into an ordinary hash map and drops
// its hold on the buffer entirely. Nested documents decode the same way,
// lazily, and register with the same root Buffer as their parent rather
// than with the parent itself.
//
// # Basic usage
//
//	buf, err := bson.NewBuffer(raw)
//	if err != nil {
//	    return err
//	}
//	defer buf.Close()
//
//	it := buf.Iterate()
//	for {
//	    doc, ok, err := it.Next()
//	    if err != nil {
//	        return err // malformed framing; it will report End from here on
//	    }
//	    if !ok {
//	        break
//	    }
//
//	    name, err := doc.Get("name")
//	    ...
//	}
//
// # Lifecycle
//
// A Document borrows its buffer's bytes only while linear. [Buffer.Close]
// forces every live Document it still holds to inflate before it lets go of
// the bytes, so a Document is always safe to keep using after its Buffer is
// closed.
//
// # Error handling
//
// Malformed bytes surface as [ErrBadInput] (check with errors.Is). A
// missing key surfaces as [*KeyError].
package bson
