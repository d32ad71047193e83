/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package jsonb

// Value is an encoded JSONB byte slice. It is always shaped like one of
// the three containers described in the package doc: array, object, or
// scalar wrapper. A Value never owns more than it borrows -- read methods
// on Value never mutate the backing array.
type Value []byte

// header decodes v's leading word. Returns an error if v is too short or
// the tag bits are not one of array/object/scalar.
func (v Value) header() (header, error) {
	w, err := readWord(v, 0)
	if err != nil {
		return header{}, wrapErr(ErrInvalidJsonbHeader, err, "reading container header")
	}
	return decodeHeader(w)
}

// arrayElementIter walks JEntries then payloads of an array container.
type arrayElementIter struct {
	v        Value
	n        int
	idx      int
	entryOff int // offset of next JEntry word
	dataOff  int // offset of next payload byte
	lastOff  int // payload offset of the element returned by the last Next call
}

// ArrayElements returns an iterator over v's elements. v must be an array
// container. The iterator is finite and not restartable; calling
// ArrayElements again re-reads the header and starts over.
func (v Value) ArrayElements() (*arrayElementIter, error) {
	h, err := v.header()
	if err != nil {
		return nil, err
	}
	if h.tag != TagArray {
		return nil, newErr(ErrInvalidJsonType, "value is not an array")
	}
	return &arrayElementIter{
		v:        v,
		n:        h.length,
		entryOff: 4,
		dataOff:  4 + h.length*4,
	}, nil
}

// Next returns the next element's JEntry and payload bytes, or ok=false
// once exhausted.
func (it *arrayElementIter) Next() (je jEntry, payload []byte, ok bool, err error) {
	if it.idx >= it.n {
		return jEntry{}, nil, false, nil
	}
	word, err := readWord(it.v, it.entryOff)
	if err != nil {
		return jEntry{}, nil, false, err
	}
	je, err = decodeJEntry(word)
	if err != nil {
		return jEntry{}, nil, false, err
	}
	if it.dataOff+je.length > len(it.v) {
		return jEntry{}, nil, false, errEOF
	}
	payload = it.v[it.dataOff : it.dataOff+je.length]
	it.lastOff = it.dataOff
	it.entryOff += 4
	it.dataOff += je.length
	it.idx++
	return je, payload, true, nil
}

// Len returns the declared element count.
func (it *arrayElementIter) Len() int { return it.n }

// LastOffset returns the byte offset, within v, of the payload returned
// by the most recent Next call. Used by the JSONPath evaluator to report
// match offsets.
func (it *arrayElementIter) LastOffset() int { return it.lastOff }

// objectEntryIter walks key JEntries, value JEntries, key payloads, and
// value payloads of an object container in the order described in
// spec.md §3.
type objectEntryIter struct {
	v    Value
	n    int
	idx  int
	keyEntryOff   int
	valEntryOff   int
	keyDataOff    int
	valDataOff    int
	lastValOff    int
}

// ObjectEntries returns an iterator over v's (key, value) pairs. v must be
// an object container.
func (v Value) ObjectEntries() (*objectEntryIter, error) {
	h, err := v.header()
	if err != nil {
		return nil, err
	}
	if h.tag != TagObject {
		return nil, newErr(ErrInvalidJsonType, "value is not an object")
	}
	n := h.length
	keyEntryOff := 4
	valEntryOff := keyEntryOff + n*4
	keyDataOff := valEntryOff + n*4
	// Key data starts right after both JEntry tables; value data starts
	// after all key payloads, which we only learn by summing key lengths,
	// so derive it lazily as we scan.
	it := &objectEntryIter{
		v: v, n: n,
		keyEntryOff: keyEntryOff,
		valEntryOff: valEntryOff,
		keyDataOff:  keyDataOff,
	}
	// valDataOff = keyDataOff + sum(key lengths); compute by a first pass.
	sum := 0
	for i := 0; i < n; i++ {
		w, err := readWord(v, keyEntryOff+i*4)
		if err != nil {
			return nil, err
		}
		je, err := decodeJEntry(w)
		if err != nil {
			return nil, err
		}
		if je.typ != JEntryString {
			return nil, newErr(ErrInvalidJsonb, "object key JEntry is not STRING")
		}
		sum += je.length
	}
	it.valDataOff = keyDataOff + sum
	return it, nil
}

// Next returns the next (key, value JEntry, value payload) triple.
func (it *objectEntryIter) Next() (key string, valJE jEntry, valPayload []byte, ok bool, err error) {
	if it.idx >= it.n {
		return "", jEntry{}, nil, false, nil
	}
	kw, err := readWord(it.v, it.keyEntryOff)
	if err != nil {
		return "", jEntry{}, nil, false, err
	}
	kje, err := decodeJEntry(kw)
	if err != nil {
		return "", jEntry{}, nil, false, err
	}
	if it.keyDataOff+kje.length > len(it.v) {
		return "", jEntry{}, nil, false, errEOF
	}
	key = string(it.v[it.keyDataOff : it.keyDataOff+kje.length])

	vw, err := readWord(it.v, it.valEntryOff)
	if err != nil {
		return "", jEntry{}, nil, false, err
	}
	valJE, err = decodeJEntry(vw)
	if err != nil {
		return "", jEntry{}, nil, false, err
	}
	if it.valDataOff+valJE.length > len(it.v) {
		return "", jEntry{}, nil, false, errEOF
	}
	valPayload = it.v[it.valDataOff : it.valDataOff+valJE.length]
	it.lastValOff = it.valDataOff

	it.keyEntryOff += 4
	it.valEntryOff += 4
	it.keyDataOff += kje.length
	it.valDataOff += valJE.length
	it.idx++
	return key, valJE, valPayload, true, nil
}

// Len returns the declared member count.
func (it *objectEntryIter) Len() int { return it.n }

// LastValueOffset returns the byte offset, within v, of the value payload
// returned by the most recent Next call.
func (it *objectEntryIter) LastValueOffset() int { return it.lastValOff }

// ObjectKeys returns an iterator over just the keys, in stored order.
func (v Value) ObjectKeys() (*objectKeyIter, error) {
	entries, err := v.ObjectEntries()
	if err != nil {
		return nil, err
	}
	return &objectKeyIter{entries: entries}, nil
}

type objectKeyIter struct {
	entries *objectEntryIter
}

func (it *objectKeyIter) Next() (string, bool, error) {
	k, _, _, ok, err := it.entries.Next()
	return k, ok, err
}
