package bson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lazybson/lazybson/internal/wire"
)

// InflationThreshold is the number of qualifying accesses (see
// [Document.touch]) at which a linear Document inflates: the access that
// brings its counter to this value inflates it before proceeding. It
// amortizes repeated key probing against the cost of an eager
// decode for documents only ever read once. Spec-fixed at 10; not meant to
// be user-tunable.
const InflationThreshold = 10

type docState uint8

const (
	stateLinear docState = iota
	stateInflated
)

// Document is a keyed mapping backed either by a slice of a [Buffer]
// (linear — reads scan the slice) or by its own map plus an ordered key
// sequence (inflated — no buffer reference, reads are hash lookups).
// Inflation is one-way.
//
// Document is not safe for concurrent use from multiple goroutines.
type Document struct {
	state docState

	// valid while state == stateLinear
	buf     *Buffer
	offset  int
	length  int
	counter int

	// valid while state == stateInflated
	values map[string]any
	keys   []string
}

func newLinearDocument(buf *Buffer, offset, length int) *Document {
	return &Document{state: stateLinear, buf: buf, offset: offset, length: length}
}

// Inflated reports whether the Document has transitioned to the inflated
// state.
func (d *Document) Inflated() bool {
	return d.state == stateInflated
}

// sliceBytes returns the Document's still-linear span of its Buffer's
// bytes: the record's 4-byte length prefix through its trailing 0x00.
func (d *Document) sliceBytes() []byte {
	return d.buf.data[d.offset : d.offset+d.length]
}

// touch increments the access counter and inflates once it reaches
// [InflationThreshold]. Inflation failure here is not reported to the
// caller of touch; the caller falls back to a linear scan instead.
func (d *Document) touch() {
	if d.state != stateLinear {
		return
	}

	d.counter++
	if d.counter >= InflationThreshold {
		_ = d.Inflate()
	}
}

// Len returns the number of fields. Scanning to count does not itself
// count as a qualifying access, but the Len call as a whole increments the
// counter once.
func (d *Document) Len() (int, error) {
	d.touch()

	if d.state == stateInflated {
		return len(d.keys), nil
	}

	it, err := wire.NewElementIterator(d.sliceBytes())
	if err != nil {
		return 0, wrapWireError(err)
	}

	n := 0

	for {
		_, ok, err := it.Next()
		if err != nil {
			return 0, wrapWireError(err)
		}

		if !ok {
			return n, nil
		}

		n++
	}
}

// Get looks up key. In linear state it scans the slice for a byte-for-byte
// key match (no normalization); in inflated state it is a hash lookup.
// Returns a [*KeyError] if key is absent.
func (d *Document) Get(key string) (any, error) {
	d.touch()

	if d.state == stateInflated {
		v, ok := d.values[key]
		if !ok {
			return nil, &KeyError{Key: key}
		}

		return v, nil
	}

	return d.scanForKey(key)
}

func (d *Document) scanForKey(key string) (any, error) {
	slice := d.sliceBytes()

	it, err := wire.NewElementIterator(slice)
	if err != nil {
		return nil, wrapWireError(err)
	}

	keyBytes := []byte(key)

	for {
		el, ok, err := it.Next()
		if err != nil {
			return nil, wrapWireError(err)
		}

		if !ok {
			return nil, &KeyError{Key: key}
		}

		if string(el.Key) == string(keyBytes) {
			return decodeElement(d.buf, d.offset, el, slice)
		}
	}
}

// Contains reports whether key is present; unlike Get it never reports a
// miss as an error.
func (d *Document) Contains(key string) (bool, error) {
	d.touch()

	if d.state == stateInflated {
		_, ok := d.values[key]

		return ok, nil
	}

	_, err := d.scanForKey(key)
	if err != nil {
		var keyErr *KeyError
		if errors.As(err, &keyErr) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Keys returns the ordered key sequence: byte order of fields for a
// never-inflated Document, or the recorded ordered sequence once inflated
// (the two agree unless the Document has been mutated).
func (d *Document) Keys() ([]string, error) {
	d.touch()

	if d.state == stateInflated {
		out := make([]string, len(d.keys))
		copy(out, d.keys)

		return out, nil
	}

	it, err := wire.NewElementIterator(d.sliceBytes())
	if err != nil {
		return nil, wrapWireError(err)
	}

	var keys []string

	for {
		el, ok, err := it.Next()
		if err != nil {
			return nil, wrapWireError(err)
		}

		if !ok {
			return keys, nil
		}

		keys = append(keys, string(el.Key))
	}
}

// Set forces inflation, then inserts or updates key. A newly seen key is
// appended to the ordered key sequence; an existing key keeps its position
// (first-seen order is preserved).
func (d *Document) Set(key string, value any) error {
	if err := d.Inflate(); err != nil {
		return err
	}

	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}

	d.values[key] = value

	return nil
}

// Delete forces inflation, then removes key from both the map and the
// ordered key sequence, preserving the relative order of the remaining
// keys. Reports [*KeyError] if key is absent.
func (d *Document) Delete(key string) error {
	if err := d.Inflate(); err != nil {
		return err
	}

	if _, exists := d.values[key]; !exists {
		return &KeyError{Key: key}
	}

	delete(d.values, key)

	idx := indexOf(d.keys, key)
	d.keys = append(d.keys[:idx], d.keys[idx+1:]...)

	return nil
}

// Inflate transitions the Document from linear to inflated. It is
// idempotent. On any decode failure while scanning, the partially built map
// and key sequence are discarded and the Document remains linear.
func (d *Document) Inflate() error {
	if d.state == stateInflated {
		return nil
	}

	slice := d.sliceBytes()

	it, err := wire.NewElementIterator(slice)
	if err != nil {
		return wrapWireError(err)
	}

	values := make(map[string]any)

	var keys []string

	for {
		el, ok, err := it.Next()
		if err != nil {
			return wrapWireError(err)
		}

		if !ok {
			break
		}

		v, err := decodeElement(d.buf, d.offset, el, slice)
		if err != nil {
			return err
		}

		key := string(el.Key)
		if _, exists := values[key]; !exists {
			keys = append(keys, key)
		}

		values[key] = v
	}

	buf := d.buf
	d.values = values
	d.keys = keys
	d.state = stateInflated
	d.buf = nil
	buf.detach(d)

	return nil
}

// IterKeys returns a key iterator over d. See [KeyIterator] for the
// stability guarantee across inflation.
func (d *Document) IterKeys() (*KeyIterator, error) {
	d.touch()

	return newKeyIterator(d)
}

// IterItems returns a (key, value) iterator over d. See [ItemIterator] for
// the stability guarantee across inflation.
func (d *Document) IterItems() (*ItemIterator, error) {
	d.touch()

	return newItemIterator(d)
}

// String renders d as repr(key): repr(value), comma-joined and braced,
// following d's iteration order. A Document reentered while rendering
// itself (a cycle through a nested document) renders as "{...}" rather than
// recursing forever.
func (d *Document) String() string {
	return d.repr(make(map[*Document]bool))
}

func (d *Document) repr(seen map[*Document]bool) string {
	if seen[d] {
		return "{...}"
	}

	seen[d] = true
	defer delete(seen, d)

	var b strings.Builder

	b.WriteByte('{')

	it, err := d.IterItems()
	if err != nil {
		fmt.Fprintf(&b, "<error: %v>}", err)

		return b.String()
	}

	first := true

	for {
		key, value, ok, err := it.Next()
		if err != nil {
			if !first {
				b.WriteString(", ")
			}

			fmt.Fprintf(&b, "<error: %v>", err)

			break
		}

		if !ok {
			break
		}

		if !first {
			b.WriteString(", ")
		}

		first = false

		fmt.Fprintf(&b, "%s: %s", strconv.Quote(key), reprValue(value, seen))
	}

	b.WriteByte('}')

	return b.String()
}

func reprValue(v any, seen map[*Document]bool) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case *Document:
		return x.repr(seen)
	case string:
		return strconv.Quote(x)
	case bool:
		if x {
			return "True"
		}

		return "False"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = reprValue(e, seen)
		}

		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}

	return -1
}

func wrapWireError(err error) error {
	if err == nil {
		return nil
	}

	var unknownTag *wire.UnknownTagError
	if errors.As(err, &unknownTag) {
		return badInputf("unknown bson type tag 0x%02x", unknownTag.Tag)
	}

	return badInputf("%v", err)
}
