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
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/flowbyte/jsonb/rangen"
)

func TestPropertyEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rangen.Gen(rt, 3)
		encoded, err := ParseText(nil, []byte(text))
		if err != nil {
			rt.Fatalf("ParseText(%s): %v", text, err)
		}
		rendered, err := ToText(nil, Value(encoded), CompactText)
		if err != nil {
			rt.Fatalf("ToText: %v", err)
		}
		var a, b interface{}
		if err := json.Unmarshal([]byte(text), &a); err != nil {
			rt.Fatalf("reference unmarshal: %v", err)
		}
		if err := json.Unmarshal(rendered, &b); err != nil {
			rt.Fatalf("rendered unmarshal %q: %v", rendered, err)
		}
		if !reflect.DeepEqual(a, b) {
			rt.Fatalf("round trip mismatch: %s -> %s", text, rendered)
		}
	})
}

// TestPropertyCompareAgreesWithConvertToComparable checks that Compare's
// sign always matches a byte-lexicographic comparison of
// ConvertToComparable's output, for pairs of independently generated JSON
// values of any shape, so both same-kind and cross-kind pairs are drawn.
func TestPropertyCompareAgreesWithConvertToComparable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ta := rangen.Gen(rt, 2)
		tb := rangen.Gen(rt, 2)
		a, err := ParseText(nil, []byte(ta))
		if err != nil {
			rt.Fatalf("ParseText(a): %v", err)
		}
		b, err := ParseText(nil, []byte(tb))
		if err != nil {
			rt.Fatalf("ParseText(b): %v", err)
		}
		want, err := Compare(Value(a), Value(b))
		if err != nil {
			rt.Fatalf("Compare: %v", err)
		}
		ka, err := ConvertToComparable(Value(a), nil)
		if err != nil {
			rt.Fatalf("ConvertToComparable(a): %v", err)
		}
		kb, err := ConvertToComparable(Value(b), nil)
		if err != nil {
			rt.Fatalf("ConvertToComparable(b): %v", err)
		}
		got := bytes.Compare(ka, kb)
		if sign(got) != sign(want) {
			rt.Fatalf("Compare=%d but byte-compare(key)=%d for %s vs %s", want, got, ta, tb)
		}
	})
}
