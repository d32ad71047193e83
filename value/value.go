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

// Package value holds a serde-compatible reference Value tree: a plain
// tagged-union mirror of the six JSON variants, used only by the
// text-JSON fallback parser and by tests that check path-extract results
// against tree-extract results.
package value

import (
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind tags which field of a Value is meaningful.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Member is one key/value pair of an Object-kind Value.
type Member struct {
	Key string
	Val Value
}

// Value is the tagged union: exactly the fields matching Kind are
// meaningful.
type Value struct {
	Kind Kind
	B    bool
	N    float64
	S    string
	Arr  []Value
	Obj  []Member
}

// Parse decodes JSON text into a Value tree using jsoniter.
func Parse(data []byte) (Value, error) {
	var raw interface{}
	if err := api.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	return FromInterface(raw), nil
}

// FromInterface converts a decoded interface{} tree (as produced by any
// encoding/json-compatible decoder, including sonic) into a Value tree.
func FromInterface(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return Value{Kind: Null}
	case bool:
		return Value{Kind: Bool, B: t}
	case float64:
		return Value{Kind: Number, N: t}
	case string:
		return Value{Kind: String, S: t}
	case []interface{}:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = FromInterface(e)
		}
		return Value{Kind: Array, Arr: arr}
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Val: FromInterface(t[k])}
		}
		return Value{Kind: Object, Obj: members}
	default:
		return Value{Kind: Null}
	}
}

// MarshalJSON renders v as compact JSON text.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Null:
		return []byte("null"), nil
	case Bool:
		if v.B {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case Number:
		return []byte(strconv.FormatFloat(v.N, 'g', -1, 64)), nil
	case String:
		return api.Marshal(v.S)
	case Array:
		out := []byte{'['}
		for i, e := range v.Arr {
			if i > 0 {
				out = append(out, ',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return append(out, ']'), nil
	case Object:
		out := []byte{'{'}
		for i, m := range v.Obj {
			if i > 0 {
				out = append(out, ',')
			}
			kb, err := api.Marshal(m.Key)
			if err != nil {
				return nil, err
			}
			out = append(out, kb...)
			out = append(out, ':')
			vb, err := m.Val.MarshalJSON()
			if err != nil {
				return nil, err
			}
			out = append(out, vb...)
		}
		return append(out, '}'), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes JSON text into v using jsoniter.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
