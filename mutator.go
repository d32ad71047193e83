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

// Concat implements the || operator semantics from spec.md §4.4:
// object||object merges members (right wins on key collision); array||array
// appends; a non-array concatenated with an array wraps the non-array as a
// single element on the matching side; anything else wraps both sides into
// a two-element array.
func Concat(dst []byte, left, right Value) ([]byte, error) {
	lh, err := left.header()
	if err != nil {
		return dst, err
	}
	rh, err := right.header()
	if err != nil {
		return dst, err
	}

	if lh.tag == TagObject && rh.tag == TagObject {
		b := NewObjectBuilder()
		if err := left.ObjectEach(func(k string, v Value) error { b.PushValue(k, v); return nil }); err != nil {
			return dst, err
		}
		if err := right.ObjectEach(func(k string, v Value) error { b.PushValue(k, v); return nil }); err != nil {
			return dst, err
		}
		return b.BuildInto(dst)
	}

	leftVals, err := asElementSlice(left, lh)
	if err != nil {
		return dst, err
	}
	rightVals, err := asElementSlice(right, rh)
	if err != nil {
		return dst, err
	}
	b := NewArrayBuilder(len(leftVals) + len(rightVals))
	for _, v := range leftVals {
		b.PushValue(v)
	}
	for _, v := range rightVals {
		b.PushValue(v)
	}
	return b.BuildInto(dst)
}

// asElementSlice returns v's elements if it is an array, or a single
// element slice containing v itself otherwise (object or scalar).
func asElementSlice(v Value, h header) ([]Value, error) {
	if h.tag == TagArray {
		return v.ArrayValues()
	}
	return []Value{v}, nil
}

// StripNulls rebuilds v with every object member whose value is JSON null
// removed, recursively, leaving arrays and scalars untouched apart from
// recursing into their children.
func StripNulls(dst []byte, v Value) ([]byte, error) {
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	switch h.tag {
	case TagArray:
		elems, err := v.ArrayValues()
		if err != nil {
			return dst, err
		}
		b := NewArrayBuilder(len(elems))
		for _, e := range elems {
			stripped, err := StripNulls(nil, e)
			if err != nil {
				return dst, err
			}
			b.PushValue(Value(stripped))
		}
		return b.BuildInto(dst)
	case TagObject:
		b := NewObjectBuilder()
		err := v.ObjectEach(func(k string, val Value) error {
			if val.IsNull() {
				return nil
			}
			stripped, err := StripNulls(nil, val)
			if err != nil {
				return err
			}
			b.PushValue(k, Value(stripped))
			return nil
		})
		if err != nil {
			return dst, err
		}
		return b.BuildInto(dst)
	default:
		return append(dst, v...), nil
	}
}

// DeleteByIndex removes the array element at idx (negative counts from
// the end), leaving other shapes unchanged.
func DeleteByIndex(dst []byte, v Value, idx int) ([]byte, error) {
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	if h.tag != TagArray {
		return append(dst, v...), nil
	}
	if idx < 0 {
		idx += h.length
	}
	elems, err := v.ArrayValues()
	if err != nil {
		return dst, err
	}
	b := NewArrayBuilder(len(elems))
	for i, e := range elems {
		if i == idx {
			continue
		}
		b.PushValue(e)
	}
	return b.BuildInto(dst)
}

// DeleteByName removes the named object member, leaving other shapes
// unchanged.
func DeleteByName(dst []byte, v Value, key string) ([]byte, error) {
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	if h.tag != TagObject {
		return append(dst, v...), nil
	}
	b := NewObjectBuilder()
	err = v.ObjectEach(func(k string, val Value) error {
		if k == key {
			return nil
		}
		b.PushValue(k, val)
		return nil
	})
	if err != nil {
		return dst, err
	}
	return b.BuildInto(dst)
}

// DeleteByKeypath removes the value addressed by steps, rebuilding every
// container on the path from the root down.
func DeleteByKeypath(dst []byte, v Value, steps []KeypathStep) ([]byte, error) {
	if len(steps) == 0 {
		return append(dst, v...), nil
	}
	head, rest := steps[0], steps[1:]
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	if len(rest) == 0 {
		if head.IsIndex {
			return DeleteByIndex(dst, v, head.Index)
		}
		return DeleteByName(dst, v, head.Name)
	}
	if head.IsIndex {
		if h.tag != TagArray {
			return append(dst, v...), nil
		}
		elems, err := v.ArrayValues()
		if err != nil {
			return dst, err
		}
		idx := head.Index
		if idx < 0 {
			idx += len(elems)
		}
		b := NewArrayBuilder(len(elems))
		for i, e := range elems {
			if i == idx {
				updated, err := DeleteByKeypath(nil, e, rest)
				if err != nil {
					return dst, err
				}
				b.PushValue(Value(updated))
				continue
			}
			b.PushValue(e)
		}
		return b.BuildInto(dst)
	}
	if h.tag != TagObject {
		return append(dst, v...), nil
	}
	b := NewObjectBuilder()
	err = v.ObjectEach(func(k string, val Value) error {
		if k == head.Name {
			updated, err := DeleteByKeypath(nil, val, rest)
			if err != nil {
				return err
			}
			b.PushValue(k, Value(updated))
			return nil
		}
		b.PushValue(k, val)
		return nil
	})
	if err != nil {
		return dst, err
	}
	return b.BuildInto(dst)
}

// ArrayInsert inserts newValue into array v at pos (a negative pos counts
// from the end as length+pos; the position is clamped to [0, length], and
// pos == length appends at the tail).
func ArrayInsert(dst []byte, v Value, pos int, newValue Value) ([]byte, error) {
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	if h.tag != TagArray {
		return dst, newErr(ErrInvalidJsonType, "array_insert requires an array")
	}
	elems, err := v.ArrayValues()
	if err != nil {
		return dst, err
	}
	if pos < 0 {
		pos += len(elems)
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(elems) {
		pos = len(elems)
	}
	b := NewArrayBuilder(len(elems) + 1)
	for i, e := range elems {
		if i == pos {
			b.PushValue(newValue)
		}
		b.PushValue(e)
	}
	if pos == len(elems) {
		b.PushValue(newValue)
	}
	return b.BuildInto(dst)
}

func valueEqual(a, b Value) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// ArrayDistinct returns a new array keeping only the first occurrence of
// each distinct element, in original order.
func ArrayDistinct(dst []byte, v Value) ([]byte, error) {
	elems, err := v.ArrayValues()
	if err != nil {
		return dst, err
	}
	var kept []Value
	for _, e := range elems {
		dup := false
		for _, k := range kept {
			eq, err := valueEqual(e, k)
			if err != nil {
				return dst, err
			}
			if eq {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, e)
		}
	}
	b := NewArrayBuilder(len(kept))
	for _, e := range kept {
		b.PushValue(e)
	}
	return b.BuildInto(dst)
}

// ArrayIntersection returns the multiset intersection of left and right:
// each element appears min(count in left, count in right) times, in
// left's order.
func ArrayIntersection(dst []byte, left, right Value) ([]byte, error) {
	leftElems, err := left.ArrayValues()
	if err != nil {
		return dst, err
	}
	rightElems, err := right.ArrayValues()
	if err != nil {
		return dst, err
	}
	used := make([]bool, len(rightElems))
	b := NewArrayBuilder(len(leftElems))
	for _, e := range leftElems {
		for i, r := range rightElems {
			if used[i] {
				continue
			}
			eq, err := valueEqual(e, r)
			if err != nil {
				return dst, err
			}
			if eq {
				used[i] = true
				b.PushValue(e)
				break
			}
		}
	}
	return b.BuildInto(dst)
}

// ArrayExcept returns the multiset difference left - right: each element
// of left appears (count in left - count in right), floored at zero, in
// left's order.
func ArrayExcept(dst []byte, left, right Value) ([]byte, error) {
	leftElems, err := left.ArrayValues()
	if err != nil {
		return dst, err
	}
	rightElems, err := right.ArrayValues()
	if err != nil {
		return dst, err
	}
	used := make([]bool, len(rightElems))
	b := NewArrayBuilder(len(leftElems))
	for _, e := range leftElems {
		removed := false
		for i, r := range rightElems {
			if used[i] {
				continue
			}
			eq, err := valueEqual(e, r)
			if err != nil {
				return dst, err
			}
			if eq {
				used[i] = true
				removed = true
				break
			}
		}
		if !removed {
			b.PushValue(e)
		}
	}
	return b.BuildInto(dst)
}

// ArrayOverlap reports whether left and right share at least one element.
func ArrayOverlap(left, right Value) (bool, error) {
	leftElems, err := left.ArrayValues()
	if err != nil {
		return false, err
	}
	rightElems, err := right.ArrayValues()
	if err != nil {
		return false, err
	}
	for _, e := range leftElems {
		for _, r := range rightElems {
			eq, err := valueEqual(e, r)
			if err != nil {
				return false, err
			}
			if eq {
				return true, nil
			}
		}
	}
	return false, nil
}

// ObjectInsert sets key to newValue in v. If the key already exists and
// updateFlag is false, ErrObjectDuplicateKey is returned; if updateFlag is
// true, the existing value is overwritten.
func ObjectInsert(dst []byte, v Value, key string, newValue Value, updateFlag bool) ([]byte, error) {
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	if h.tag != TagObject {
		return dst, newErr(ErrInvalidJsonType, "object_insert requires an object")
	}
	exists, err := v.ObjectExistsKey(key)
	if err != nil {
		return dst, err
	}
	if exists && !updateFlag {
		return dst, newErr(ErrObjectDuplicateKey, "key %q already exists", key)
	}
	b := NewObjectBuilder()
	err = v.ObjectEach(func(k string, val Value) error {
		b.PushValue(k, val)
		return nil
	})
	if err != nil {
		return dst, err
	}
	b.PushValue(key, newValue)
	return b.BuildInto(dst)
}

// ObjectDelete removes the named members from v.
func ObjectDelete(dst []byte, v Value, keys []string) ([]byte, error) {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	b := NewObjectBuilder()
	err := v.ObjectEach(func(k string, val Value) error {
		if drop[k] {
			return nil
		}
		b.PushValue(k, val)
		return nil
	})
	if err != nil {
		return dst, err
	}
	return b.BuildInto(dst)
}

// ObjectPick keeps only the named members of v, dropping everything else.
func ObjectPick(dst []byte, v Value, keys []string) ([]byte, error) {
	keep := make(map[string]bool, len(keys))
	for _, k := range keys {
		keep[k] = true
	}
	b := NewObjectBuilder()
	err := v.ObjectEach(func(k string, val Value) error {
		if keep[k] {
			b.PushValue(k, val)
		}
		return nil
	})
	if err != nil {
		return dst, err
	}
	return b.BuildInto(dst)
}
