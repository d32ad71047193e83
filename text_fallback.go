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

import (
	"github.com/bytedance/sonic"

	"github.com/flowbyte/jsonb/value"
)

// Dispatch returns b unchanged if it is already recognized as JSONB
// (first byte in {0x80, 0x40, 0x20}); otherwise it treats b as JSON text,
// decodes it with the fallback parser, and re-encodes it as JSONB.
func Dispatch(dst []byte, b []byte) ([]byte, error) {
	if recognize(b) {
		return append(dst, b...), nil
	}
	return ParseText(dst, b)
}

// ParseText parses JSON text with the fallback decoder (sonic, via a
// generic interface{} tree fed into the serde-compatible reference Value
// tree) and appends its JSONB encoding to dst.
func ParseText(dst []byte, text []byte) ([]byte, error) {
	var raw interface{}
	if err := sonic.Unmarshal(text, &raw); err != nil {
		return dst, wrapErr(ErrInvalidJson, err, "parsing JSON text")
	}
	tree := value.FromInterface(raw)
	return EncodeValue(dst, tree)
}

// EncodeValue appends the JSONB encoding of a reference Value tree to
// dst.
func EncodeValue(dst []byte, v value.Value) ([]byte, error) {
	switch v.Kind {
	case value.Null:
		return wrapScalar(jEntry{typ: JEntryNull}, nil).appendTo(dst), nil
	case value.Bool:
		typ := JEntryFalse
		if v.B {
			typ = JEntryTrue
		}
		return wrapScalar(jEntry{typ: typ}, nil).appendTo(dst), nil
	case value.Number:
		payload := encodeNumber(nil, NumberFromFloat64(v.N))
		return wrapScalar(jEntry{typ: JEntryNumber, length: len(payload)}, payload).appendTo(dst), nil
	case value.String:
		return wrapScalar(jEntry{typ: JEntryString, length: len(v.S)}, []byte(v.S)).appendTo(dst), nil
	case value.Array:
		b := NewArrayBuilder(len(v.Arr))
		for _, e := range v.Arr {
			encoded, err := EncodeValue(nil, e)
			if err != nil {
				return dst, err
			}
			b.PushValue(Value(encoded))
		}
		return b.BuildInto(dst)
	case value.Object:
		b := NewObjectBuilder()
		for _, m := range v.Obj {
			encoded, err := EncodeValue(nil, m.Val)
			if err != nil {
				return dst, err
			}
			b.PushValue(m.Key, Value(encoded))
		}
		return b.BuildInto(dst)
	default:
		return dst, newErr(ErrInvalidJsonType, "unknown reference value kind")
	}
}

// DecodeValue builds a reference Value tree from a JSONB Value, for tests
// that compare path-extract against tree-extract.
func DecodeValue(v Value) (value.Value, error) {
	h, err := v.header()
	if err != nil {
		return value.Value{}, err
	}
	switch h.tag {
	case TagArray:
		elems, err := v.ArrayValues()
		if err != nil {
			return value.Value{}, err
		}
		arr := make([]value.Value, len(elems))
		for i, e := range elems {
			arr[i], err = DecodeValue(e)
			if err != nil {
				return value.Value{}, err
			}
		}
		return value.Value{Kind: value.Array, Arr: arr}, nil
	case TagObject:
		var members []value.Member
		err := v.ObjectEach(func(k string, val Value) error {
			dv, err := DecodeValue(val)
			if err != nil {
				return err
			}
			members = append(members, value.Member{Key: k, Val: dv})
			return nil
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.Object, Obj: members}, nil
	default:
		je, payload, err := readSoleScalar(v, h)
		if err != nil {
			return value.Value{}, err
		}
		switch je.typ {
		case JEntryNull:
			return value.Value{Kind: value.Null}, nil
		case JEntryTrue:
			return value.Value{Kind: value.Bool, B: true}, nil
		case JEntryFalse:
			return value.Value{Kind: value.Bool, B: false}, nil
		case JEntryString:
			return value.Value{Kind: value.String, S: string(payload)}, nil
		case JEntryNumber:
			n, err := decodeNumber(payload)
			if err != nil {
				return value.Value{}, err
			}
			return value.Value{Kind: value.Number, N: n.Float64()}, nil
		default:
			return value.Value{}, newErr(ErrInvalidJsonType, "invalid scalar JEntry")
		}
	}
}

// appendTo is a convenience for appending an already-built Value's bytes.
func (v Value) appendTo(dst []byte) []byte { return append(dst, v...) }
