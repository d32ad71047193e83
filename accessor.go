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

import "strings"

// JSONType is the logical JSON type of a Value, as reported by TypeOf.
type JSONType int

const (
	TypeNull JSONType = iota
	TypeBoolean
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

func (t JSONType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "invalid"
	}
}

// soleScalarJEntry decodes the single JEntry of a scalar-wrapper Value.
func (v Value) soleScalarJEntry() (jEntry, []byte, error) {
	h, err := v.header()
	if err != nil {
		return jEntry{}, nil, err
	}
	if h.tag != TagScalar {
		return jEntry{}, nil, newErr(ErrInvalidJsonType, "value is not a scalar wrapper")
	}
	return readSoleScalar(v, h)
}

// Length returns the element count of an array, the member count of an
// object, or 1 for any scalar, matching array_length/object's implicit
// length in spec.md §4.4.
func (v Value) Length() (int, error) {
	h, err := v.header()
	if err != nil {
		return 0, err
	}
	return h.length, nil
}

// TypeOf reports v's logical JSON type.
func (v Value) TypeOf() (JSONType, error) {
	h, err := v.header()
	if err != nil {
		return 0, err
	}
	switch h.tag {
	case TagArray:
		return TypeArray, nil
	case TagObject:
		return TypeObject, nil
	}
	je, _, err := v.soleScalarJEntry()
	if err != nil {
		return 0, err
	}
	switch je.typ {
	case JEntryNull:
		return TypeNull, nil
	case JEntryTrue, JEntryFalse:
		return TypeBoolean, nil
	case JEntryNumber:
		return TypeNumber, nil
	case JEntryString:
		return TypeString, nil
	default:
		return 0, newErr(ErrInvalidJsonType, "scalar wrapper holds a container JEntry")
	}
}

// IsNull, IsArray, and IsObject report whether v is exactly that shape.
func (v Value) IsNull() bool { t, err := v.TypeOf(); return err == nil && t == TypeNull }

func (v Value) IsArray() bool {
	h, err := v.header()
	return err == nil && h.tag == TagArray
}

func (v Value) IsObject() bool {
	h, err := v.header()
	return err == nil && h.tag == TagObject
}

// AsBool returns v's boolean value, erroring if v is not a JSON boolean.
func (v Value) AsBool() (bool, error) {
	je, _, err := v.soleScalarJEntry()
	if err != nil {
		return false, err
	}
	switch je.typ {
	case JEntryTrue:
		return true, nil
	case JEntryFalse:
		return false, nil
	default:
		return false, errInvalidCast
	}
}

// AsNumber returns v's decoded Number, erroring if v is not a JSON number.
func (v Value) AsNumber() (Number, error) {
	je, payload, err := v.soleScalarJEntry()
	if err != nil {
		return Number{}, err
	}
	if je.typ != JEntryNumber {
		return Number{}, errInvalidCast
	}
	return decodeNumber(payload)
}

// AsString returns v's decoded string value, erroring if v is not a JSON
// string.
func (v Value) AsString() (string, error) {
	je, payload, err := v.soleScalarJEntry()
	if err != nil {
		return "", err
	}
	if je.typ != JEntryString {
		return "", errInvalidCast
	}
	return string(payload), nil
}

// ToString renders v as text using the same rules as a number/string/bool
// cast-to-text, for use by to_string-style callers. Containers and null
// are rejected; use ToText for those.
func (v Value) ToString() (string, error) {
	je, payload, err := v.soleScalarJEntry()
	if err != nil {
		return "", err
	}
	switch je.typ {
	case JEntryString:
		return string(payload), nil
	case JEntryNumber:
		n, err := decodeNumber(payload)
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case JEntryTrue:
		return "true", nil
	case JEntryFalse:
		return "false", nil
	default:
		return "", errInvalidCast
	}
}

// GetByIndex returns the array element at idx, supporting Python-style
// negative indices counted from the end. ok is false when out of range or
// v is not an array.
func (v Value) GetByIndex(idx int) (Value, bool, error) {
	h, err := v.header()
	if err != nil {
		return nil, false, err
	}
	if h.tag != TagArray {
		return nil, false, nil
	}
	if idx < 0 {
		idx += h.length
	}
	if idx < 0 || idx >= h.length {
		return nil, false, nil
	}
	it, err := v.ArrayElements()
	if err != nil {
		return nil, false, err
	}
	for i := 0; ; i++ {
		je, payload, ok, err := it.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		if i == idx {
			return extractValue(je, payload), true, nil
		}
	}
}

// GetByName returns the object member with the given key. When
// ignoreCase is true and no exact match exists, the first case-insensitive
// match (in stored, sorted-key order) is returned instead, per the
// get_by_name_ignore_case ordering decided in DESIGN.md.
func (v Value) GetByName(key string, ignoreCase bool) (Value, bool, error) {
	h, err := v.header()
	if err != nil {
		return nil, false, err
	}
	if h.tag != TagObject {
		return nil, false, nil
	}
	it, err := v.ObjectEntries()
	if err != nil {
		return nil, false, err
	}
	var fallback Value
	found := false
	for {
		k, je, payload, ok, err := it.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		if k == key {
			return extractValue(je, payload), true, nil
		}
		if ignoreCase && !found && strings.EqualFold(k, key) {
			fallback = extractValue(je, payload)
			found = true
		}
	}
	if found {
		return fallback, true, nil
	}
	return nil, false, nil
}

// KeypathStep is one step of a keypath: either an object member name or an
// array index (possibly negative).
type KeypathStep struct {
	Name    string
	Index   int
	IsIndex bool
}

// GetByKeypath walks v through a sequence of Name/Index steps, returning
// the final subvalue.
func (v Value) GetByKeypath(steps []KeypathStep) (Value, bool, error) {
	cur := v
	for _, s := range steps {
		var (
			next Value
			ok   bool
			err  error
		)
		if s.IsIndex {
			next, ok, err = cur.GetByIndex(s.Index)
		} else {
			next, ok, err = cur.GetByName(s.Name, false)
		}
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		cur = next
	}
	return cur, true, nil
}

// ObjectExistsKey reports whether key is a top-level member of v.
func (v Value) ObjectExistsKey(key string) (bool, error) {
	_, ok, err := v.GetByName(key, false)
	return ok, err
}

// ExistsAllKeys reports whether every key in keys is a top-level member.
func (v Value) ExistsAllKeys(keys []string) (bool, error) {
	for _, k := range keys {
		ok, err := v.ObjectExistsKey(k)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ExistsAnyKeys reports whether at least one key in keys is a top-level
// member.
func (v Value) ExistsAnyKeys(keys []string) (bool, error) {
	for _, k := range keys {
		ok, err := v.ObjectExistsKey(k)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// ObjectKeysArray builds a new JSONB array of v's top-level keys, in
// sorted-stored order.
func (v Value) ObjectKeysArray(dst []byte) ([]byte, error) {
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	if h.tag != TagObject {
		return dst, newErr(ErrInvalidJsonType, "value is not an object")
	}
	it, err := v.ObjectKeys()
	if err != nil {
		return dst, err
	}
	b := NewArrayBuilder(h.length)
	for {
		k, ok, err := it.Next()
		if err != nil {
			return dst, err
		}
		if !ok {
			break
		}
		b.PushRaw(JEntryString, []byte(k))
	}
	return b.BuildInto(dst)
}

// ArrayValues collects every element of an array into a slice of owned
// subvalues, for callers that want random access rather than an iterator.
func (v Value) ArrayValues() ([]Value, error) {
	it, err := v.ArrayElements()
	if err != nil {
		return nil, err
	}
	out := make([]Value, 0, it.Len())
	for {
		je, payload, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, extractValue(je, payload))
	}
}

// Contains reports whether v structurally contains needle, per spec.md
// §4.4: an object contains another object if every key/value pair of the
// needle is present (recursively) in v; an array contains a scalar if
// some scalar element of the same type equals it (nested containers are
// not searched), and contains another array if every element of the
// needle is contained by some element of v (in any order); an array never
// contains an object needle; scalars contain only an equal scalar.
func (v Value) Contains(needle Value) (bool, error) {
	vt, err := v.TypeOf2()
	if err != nil {
		return false, err
	}
	nt, err := needle.TypeOf2()
	if err != nil {
		return false, err
	}
	switch {
	case vt == TagObject && nt == TagObject:
		nit, err := needle.ObjectEntries()
		if err != nil {
			return false, err
		}
		for {
			k, je, payload, ok, err := nit.Next()
			if err != nil {
				return false, err
			}
			if !ok {
				return true, nil
			}
			sub, found, err := v.GetByName(k, false)
			if err != nil {
				return false, err
			}
			if !found {
				return false, nil
			}
			ok2, err := sub.Contains(extractValue(je, payload))
			if err != nil {
				return false, err
			}
			if !ok2 {
				return false, nil
			}
		}
	case vt == TagArray && nt == TagArray:
		elems, err := v.ArrayValues()
		if err != nil {
			return false, err
		}
		needles, err := needle.ArrayValues()
		if err != nil {
			return false, err
		}
		for _, n := range needles {
			matched := false
			for _, e := range elems {
				ok, err := e.Contains(n)
				if err != nil {
					return false, err
				}
				if ok {
					matched = true
					break
				}
			}
			if !matched {
				return false, nil
			}
		}
		return true, nil
	case vt == TagArray && nt == TagObject:
		// Tags differ at the top level (array vs object); spec requires
		// a shared top-level tag, so this can never match.
		return false, nil
	case vt == TagArray:
		// nt is TagScalar here: needle must equal some element of v that
		// is itself a scalar of the same type, no descent into nested
		// containers.
		elems, err := v.ArrayValues()
		if err != nil {
			return false, err
		}
		for _, e := range elems {
			et, err := e.TypeOf2()
			if err != nil {
				return false, err
			}
			if et != nt {
				continue
			}
			c, err := Compare(e, needle)
			if err != nil {
				return false, err
			}
			if c == 0 {
				return true, nil
			}
		}
		return false, nil
	default:
		c, err := Compare(v, needle)
		if err != nil {
			return false, err
		}
		return c == 0, nil
	}
}

// TypeOf2 returns the raw container tag, treating any scalar wrapper as
// TagScalar; used internally where the array/object/scalar distinction
// matters more than the JSON type.
func (v Value) TypeOf2() (ContainerTag, error) {
	h, err := v.header()
	if err != nil {
		return 0, err
	}
	return h.tag, nil
}

// TraverseCheckString reports whether any string anywhere in v (recursing
// into arrays and objects, at any depth) equals needle.
func (v Value) TraverseCheckString(needle string) (bool, error) {
	h, err := v.header()
	if err != nil {
		return false, err
	}
	switch h.tag {
	case TagArray:
		it, err := v.ArrayElements()
		if err != nil {
			return false, err
		}
		for {
			je, payload, ok, err := it.Next()
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
			if je.typ == JEntryString && string(payload) == needle {
				return true, nil
			}
			if je.typ == JEntryContainer {
				found, err := extractValue(je, payload).TraverseCheckString(needle)
				if err != nil {
					return false, err
				}
				if found {
					return true, nil
				}
			}
		}
	case TagObject:
		it, err := v.ObjectEntries()
		if err != nil {
			return false, err
		}
		for {
			_, je, payload, ok, err := it.Next()
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
			if je.typ == JEntryString && string(payload) == needle {
				return true, nil
			}
			if je.typ == JEntryContainer {
				found, err := extractValue(je, payload).TraverseCheckString(needle)
				if err != nil {
					return false, err
				}
				if found {
					return true, nil
				}
			}
		}
	default:
		je, payload, err := v.soleScalarJEntry()
		if err != nil {
			return false, err
		}
		return je.typ == JEntryString && string(payload) == needle, nil
	}
}

// ObjectEach calls fn for every top-level (key, value) pair of an object,
// stopping early if fn returns an error.
func (v Value) ObjectEach(fn func(key string, val Value) error) error {
	it, err := v.ObjectEntries()
	if err != nil {
		return err
	}
	for {
		k, je, payload, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(k, extractValue(je, payload)); err != nil {
			return err
		}
	}
}
