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
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// PrettyOptions governs ToText's rendering, following the teacher's
// functional-options-adjacent style of a single options record rather
// than a long parameter list.
type PrettyOptions struct {
	Enabled bool
	Indent  int
}

// CompactText is the zero-value rendering: no indentation.
var CompactText = PrettyOptions{}

// ToText renders v as JSON text, appending to dst.
func ToText(dst []byte, v Value, opts PrettyOptions) ([]byte, error) {
	return appendText(dst, v, opts, 0)
}

func appendText(dst []byte, v Value, opts PrettyOptions, depth int) ([]byte, error) {
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	switch h.tag {
	case TagArray:
		return appendArrayText(dst, v, opts, depth)
	case TagObject:
		return appendObjectText(dst, v, opts, depth)
	default:
		return appendScalarText(dst, v, h)
	}
}

func newline(dst []byte, opts PrettyOptions, depth int) []byte {
	if !opts.Enabled {
		return dst
	}
	dst = append(dst, '\n')
	for i := 0; i < opts.Indent*depth; i++ {
		dst = append(dst, ' ')
	}
	return dst
}

func appendArrayText(dst []byte, v Value, opts PrettyOptions, depth int) ([]byte, error) {
	it, err := v.ArrayElements()
	if err != nil {
		return dst, err
	}
	dst = append(dst, '[')
	first := true
	for {
		je, payload, ok, err := it.Next()
		if err != nil {
			return dst, err
		}
		if !ok {
			break
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = newline(dst, opts, depth+1)
		dst, err = appendText(dst, extractValue(je, payload), opts, depth+1)
		if err != nil {
			return dst, err
		}
	}
	if !first {
		dst = newline(dst, opts, depth)
	}
	return append(dst, ']'), nil
}

func appendObjectText(dst []byte, v Value, opts PrettyOptions, depth int) ([]byte, error) {
	it, err := v.ObjectEntries()
	if err != nil {
		return dst, err
	}
	dst = append(dst, '{')
	first := true
	for {
		k, je, payload, ok, err := it.Next()
		if err != nil {
			return dst, err
		}
		if !ok {
			break
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = newline(dst, opts, depth+1)
		kb, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(k)
		if err != nil {
			return dst, err
		}
		dst = append(dst, kb...)
		dst = append(dst, ':')
		if opts.Enabled {
			dst = append(dst, ' ')
		}
		dst, err = appendText(dst, extractValue(je, payload), opts, depth+1)
		if err != nil {
			return dst, err
		}
	}
	if !first {
		dst = newline(dst, opts, depth)
	}
	return append(dst, '}'), nil
}

func appendScalarText(dst []byte, v Value, h header) ([]byte, error) {
	je, payload, err := readSoleScalar(v, h)
	if err != nil {
		return dst, err
	}
	switch je.typ {
	case JEntryNull:
		return append(dst, "null"...), nil
	case JEntryTrue:
		return append(dst, "true"...), nil
	case JEntryFalse:
		return append(dst, "false"...), nil
	case JEntryString:
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(string(payload))
		if err != nil {
			return dst, err
		}
		return append(dst, b...), nil
	case JEntryNumber:
		n, err := decodeNumber(payload)
		if err != nil {
			return dst, err
		}
		switch {
		case n.IsInt():
			i, _ := n.Int64()
			return strconv.AppendInt(dst, i, 10), nil
		case n.IsUint():
			u, _ := n.Uint64()
			return strconv.AppendUint(dst, u, 10), nil
		default:
			return strconv.AppendFloat(dst, n.Float64(), 'g', -1, 64), nil
		}
	default:
		return dst, newErr(ErrInvalidJsonType, "invalid scalar JEntry")
	}
}
