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

import "sort"

// builderItem is a pending element/member: a JEntry plus its payload
// bytes, ready to be spliced into a finalized container.
type builderItem struct {
	je      jEntry
	payload []byte
}

func checkLength(n int) error {
	if n < 0 || uint32(n) > jentryLengthMax {
		return newErr(ErrInvalidJsonb, "payload length %d exceeds JEntry length field", n)
	}
	return nil
}

// ArrayBuilder incrementally constructs an array container. Items may be
// raw (type, payload) pairs or nested builders, pushed in the order they
// should appear.
type ArrayBuilder struct {
	items []builderItem
	err   error
}

// NewArrayBuilder creates an empty ArrayBuilder, reserving capacityHint
// slots up front.
func NewArrayBuilder(capacityHint int) *ArrayBuilder {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &ArrayBuilder{items: make([]builderItem, 0, capacityHint)}
}

// PushRaw appends a scalar element described by its JEntry type and raw
// payload bytes.
func (b *ArrayBuilder) PushRaw(typ JEntryType, payload []byte) *ArrayBuilder {
	if err := checkLength(len(payload)); err != nil {
		b.err = err
		return b
	}
	b.items = append(b.items, builderItem{je: jEntry{typ: typ, length: len(payload)}, payload: payload})
	return b
}

// pushContainerBytes appends an already-encoded nested container verbatim.
func (b *ArrayBuilder) pushContainerBytes(bytes []byte) *ArrayBuilder {
	if err := checkLength(len(bytes)); err != nil {
		b.err = err
		return b
	}
	b.items = append(b.items, builderItem{je: jEntry{typ: JEntryContainer, length: len(bytes)}, payload: bytes})
	return b
}

// PushArray finalizes a nested ArrayBuilder and appends it as one element.
func (b *ArrayBuilder) PushArray(nested *ArrayBuilder) *ArrayBuilder {
	bytes, err := nested.BuildInto(nil)
	if err != nil {
		b.err = err
		return b
	}
	return b.pushContainerBytes(bytes)
}

// PushObject finalizes a nested ObjectBuilder and appends it as one
// element.
func (b *ArrayBuilder) PushObject(nested *ObjectBuilder) *ArrayBuilder {
	bytes, err := nested.BuildInto(nil)
	if err != nil {
		b.err = err
		return b
	}
	return b.pushContainerBytes(bytes)
}

// PushValue appends an already-encoded Value of any shape as one element,
// unwrapping scalar wrappers so the element's JEntry carries its real type.
func (b *ArrayBuilder) PushValue(v Value) *ArrayBuilder {
	h, err := v.header()
	if err != nil {
		b.err = err
		return b
	}
	if h.tag == TagScalar {
		je, payload, err := readSoleScalar(v, h)
		if err != nil {
			b.err = err
			return b
		}
		return b.PushRaw(je.typ, payload)
	}
	return b.pushContainerBytes(v)
}

// BuildInto finalizes the array, appending a well-formed container to dst
// and returning the extended slice. On error dst is returned unchanged.
func (b *ArrayBuilder) BuildInto(dst []byte) ([]byte, error) {
	if b.err != nil {
		return dst, b.err
	}
	n := len(b.items)
	if err := checkLength(n); err != nil {
		return dst, err
	}
	size := 4 + 4*n
	for _, it := range b.items {
		size += it.je.length
	}
	local := make([]byte, 0, size)
	local = appendWord(local, encodeHeader(TagArray, n))
	for _, it := range b.items {
		local = appendWord(local, encodeJEntry(it.je.typ, it.je.length))
	}
	for _, it := range b.items {
		local = append(local, it.payload...)
	}
	return append(dst, local...), nil
}

// ObjectBuilder incrementally constructs an object container. Pushing the
// same key twice keeps the last value pushed, matching the finalization
// contract in spec.md §4.3.
type ObjectBuilder struct {
	entries map[string]builderItem
	err     error
}

// NewObjectBuilder creates an empty ObjectBuilder.
func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{entries: make(map[string]builderItem)}
}

// PushRaw sets key to a scalar value described by its JEntry type and raw
// payload bytes. A later call with the same key overwrites this one.
func (b *ObjectBuilder) PushRaw(key string, typ JEntryType, payload []byte) *ObjectBuilder {
	if err := checkLength(len(payload)); err != nil {
		b.err = err
		return b
	}
	b.entries[key] = builderItem{je: jEntry{typ: typ, length: len(payload)}, payload: payload}
	return b
}

func (b *ObjectBuilder) pushContainerBytes(key string, bytes []byte) *ObjectBuilder {
	if err := checkLength(len(bytes)); err != nil {
		b.err = err
		return b
	}
	b.entries[key] = builderItem{je: jEntry{typ: JEntryContainer, length: len(bytes)}, payload: bytes}
	return b
}

// PushArray finalizes a nested ArrayBuilder and sets it at key.
func (b *ObjectBuilder) PushArray(key string, nested *ArrayBuilder) *ObjectBuilder {
	bytes, err := nested.BuildInto(nil)
	if err != nil {
		b.err = err
		return b
	}
	return b.pushContainerBytes(key, bytes)
}

// PushObject finalizes a nested ObjectBuilder and sets it at key.
func (b *ObjectBuilder) PushObject(key string, nested *ObjectBuilder) *ObjectBuilder {
	bytes, err := nested.BuildInto(nil)
	if err != nil {
		b.err = err
		return b
	}
	return b.pushContainerBytes(key, bytes)
}

// PushValue sets key to an already-encoded Value of any shape, unwrapping
// scalar wrappers so the member's JEntry carries its real type.
func (b *ObjectBuilder) PushValue(key string, v Value) *ObjectBuilder {
	h, err := v.header()
	if err != nil {
		b.err = err
		return b
	}
	if h.tag == TagScalar {
		je, payload, err := readSoleScalar(v, h)
		if err != nil {
			b.err = err
			return b
		}
		return b.PushRaw(key, je.typ, payload)
	}
	return b.pushContainerBytes(key, v)
}

// Len reports how many distinct keys are currently staged.
func (b *ObjectBuilder) Len() int { return len(b.entries) }

// BuildInto finalizes the object: keys are sorted ascending by UTF-8
// bytes, then the header, key JEntries, value JEntries, key payloads, and
// value payloads are emitted in that order, appended to dst.
func (b *ObjectBuilder) BuildInto(dst []byte) ([]byte, error) {
	if b.err != nil {
		return dst, b.err
	}
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	n := len(keys)
	if err := checkLength(n); err != nil {
		return dst, err
	}
	size := 4 + 8*n
	for _, k := range keys {
		size += len(k) + b.entries[k].je.length
	}
	local := make([]byte, 0, size)
	local = appendWord(local, encodeHeader(TagObject, n))
	for _, k := range keys {
		local = appendWord(local, encodeJEntry(JEntryString, len(k)))
	}
	for _, k := range keys {
		it := b.entries[k]
		local = appendWord(local, encodeJEntry(it.je.typ, it.je.length))
	}
	for _, k := range keys {
		local = append(local, k...)
	}
	for _, k := range keys {
		local = append(local, b.entries[k].payload...)
	}
	return append(dst, local...), nil
}

// readSoleScalar reads the one JEntry and payload out of a SCALAR
// container, given its already-decoded header.
func readSoleScalar(v Value, h header) (jEntry, []byte, error) {
	if h.tag != TagScalar {
		return jEntry{}, nil, newErr(ErrInvalidJsonb, "not a scalar container")
	}
	w, err := readWord(v, 4)
	if err != nil {
		return jEntry{}, nil, err
	}
	je, err := decodeJEntry(w)
	if err != nil {
		return jEntry{}, nil, err
	}
	if 8+je.length > len(v) {
		return jEntry{}, nil, errEOF
	}
	return je, v[8 : 8+je.length], nil
}

// BuildArray is a convenience wrapper building an array from already
// encoded Values in one call.
func BuildArray(dst []byte, values []Value) ([]byte, error) {
	b := NewArrayBuilder(len(values))
	for _, v := range values {
		b.PushValue(v)
	}
	return b.BuildInto(dst)
}

// BuildObject is a convenience wrapper building an object from parallel
// key/value slices in one call. On duplicate keys the last wins.
func BuildObject(dst []byte, keys []string, values []Value) ([]byte, error) {
	if len(keys) != len(values) {
		return dst, newErr(ErrInvalidJsonb, "keys/values length mismatch: %d vs %d", len(keys), len(values))
	}
	b := NewObjectBuilder()
	for i, k := range keys {
		b.PushValue(k, values[i])
	}
	return b.BuildInto(dst)
}
