package bson

import "github.com/lazybson/lazybson/internal/wire"

// KeyIterator walks a Document's keys in order, surviving inflation
// mid-iteration: if the Document inflates while the iterator is part way
// through a linear scan, the iterator locates the last key it returned in
// the now-populated ordered key sequence and resumes immediately after it,
// so no key is skipped or repeated.
type KeyIterator struct {
	doc *Document

	elemIt *wire.ElementIterator // non-nil while scanning linearly

	needsRebind bool // true once the doc has inflated out from under a linear scan
	idx         int  // index into doc.keys, used once inflated

	lastKey    string
	lastKeySet bool
	done       bool
}

func newKeyIterator(d *Document) (*KeyIterator, error) {
	ki := &KeyIterator{doc: d}

	if d.state == stateLinear {
		it, err := wire.NewElementIterator(d.sliceBytes())
		if err != nil {
			return nil, wrapWireError(err)
		}

		ki.elemIt = it
		ki.needsRebind = true
	}

	return ki, nil
}

// Next returns the next key, or ("", false, nil) at the end.
func (ki *KeyIterator) Next() (string, bool, error) {
	if ki.done {
		return "", false, nil
	}

	if ki.doc.state == stateLinear {
		el, ok, err := ki.elemIt.Next()
		if err != nil {
			return "", false, wrapWireError(err)
		}

		if !ok {
			ki.done = true

			return "", false, nil
		}

		key := string(el.Key)
		ki.lastKey, ki.lastKeySet = key, true

		return key, true, nil
	}

	ki.rebindIfNeeded()

	if ki.idx >= len(ki.doc.keys) {
		ki.done = true

		return "", false, nil
	}

	key := ki.doc.keys[ki.idx]
	ki.idx++
	ki.lastKey, ki.lastKeySet = key, true

	return key, true, nil
}

func (ki *KeyIterator) rebindIfNeeded() {
	if !ki.needsRebind {
		return
	}

	ki.needsRebind = false

	if ki.lastKeySet {
		if pos := indexOf(ki.doc.keys, ki.lastKey); pos >= 0 {
			ki.idx = pos + 1
		}
	}
}

// ItemIterator walks a Document's (key, value) pairs in order, with the
// same inflation-survival guarantee as [KeyIterator].
type ItemIterator struct {
	doc *Document

	elemIt *wire.ElementIterator

	needsRebind bool
	idx         int

	lastKey    string
	lastKeySet bool
	done       bool
}

func newItemIterator(d *Document) (*ItemIterator, error) {
	ii := &ItemIterator{doc: d}

	if d.state == stateLinear {
		it, err := wire.NewElementIterator(d.sliceBytes())
		if err != nil {
			return nil, wrapWireError(err)
		}

		ii.elemIt = it
		ii.needsRebind = true
	}

	return ii, nil
}

// Next returns the next (key, value) pair, or ("", nil, false, nil) at the
// end.
func (ii *ItemIterator) Next() (string, any, bool, error) {
	if ii.done {
		return "", nil, false, nil
	}

	if ii.doc.state == stateLinear {
		el, ok, err := ii.elemIt.Next()
		if err != nil {
			return "", nil, false, wrapWireError(err)
		}

		if !ok {
			ii.done = true

			return "", nil, false, nil
		}

		value, err := decodeElement(ii.doc.buf, ii.doc.offset, el, ii.elemIt.Data())
		if err != nil {
			return "", nil, false, err
		}

		key := string(el.Key)
		ii.lastKey, ii.lastKeySet = key, true

		return key, value, true, nil
	}

	ii.rebindIfNeeded()

	if ii.idx >= len(ii.doc.keys) {
		ii.done = true

		return "", nil, false, nil
	}

	key := ii.doc.keys[ii.idx]
	ii.idx++
	ii.lastKey, ii.lastKeySet = key, true

	return key, ii.doc.values[key], true, nil
}

func (ii *ItemIterator) rebindIfNeeded() {
	if !ii.needsRebind {
		return
	}

	ii.needsRebind = false

	if ii.lastKeySet {
		if pos := indexOf(ii.doc.keys, ii.lastKey); pos >= 0 {
			ii.idx = pos + 1
		}
	}
}
