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
	"encoding/json"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, text string) Value {
	t.Helper()
	out, err := ParseText(nil, []byte(text))
	if err != nil {
		t.Fatalf("ParseText(%q): %v", text, err)
	}
	return Value(out)
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		`null`, `true`, `false`, `0`, `-1`, `3.5`, `"hi"`,
		`[]`, `{}`, `[1,"x",true]`, `{"a":1,"b":[1,2,3]}`,
		`{"nested":{"deep":[1,{"k":"v"}]}}`,
	}
	for _, text := range cases {
		v := mustParse(t, text)
		rendered, err := ToText(nil, v, CompactText)
		if err != nil {
			t.Fatalf("ToText(%q): %v", text, err)
		}
		var a, b interface{}
		if err := json.Unmarshal([]byte(text), &a); err != nil {
			t.Fatalf("reference unmarshal %q: %v", text, err)
		}
		if err := json.Unmarshal(rendered, &b); err != nil {
			t.Fatalf("rendered unmarshal %q -> %q: %v", text, rendered, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("round trip mismatch for %q: got %q", text, rendered)
		}
	}
}

func TestSelfDescribingLength(t *testing.T) {
	v := mustParse(t, `{"a":[1,2,3]}`)
	sub, ok, err := v.GetByName("a", false)
	if err != nil || !ok {
		t.Fatalf("GetByName: ok=%v err=%v", ok, err)
	}
	h, err := sub.header()
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	truncated := sub[:len(sub)-1]
	if _, err := truncated.header(); err != nil {
		// header itself might still succeed since it only reads the first 4 bytes;
		// what must fail is walking the elements with the truncated buffer.
	}
	it, err := truncated.ArrayElements()
	if err != nil {
		t.Fatalf("ArrayElements on truncated buffer: %v", err)
	}
	sawErr := false
	for i := 0; i < h.length; i++ {
		if _, _, _, err := it.Next(); err != nil {
			sawErr = true
			break
		}
	}
	if !sawErr {
		t.Errorf("expected EOF-style error reading truncated container")
	}
}

func TestObjectKeyOrdering(t *testing.T) {
	v := mustParse(t, `{"z":1,"a":2,"m":3}`)
	it, err := v.ObjectKeys()
	if err != nil {
		t.Fatalf("ObjectKeys: %v", err)
	}
	var keys []string
	for {
		k, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	want := []string{"a", "m", "z"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

// Scenario 1: build & length.
func TestBuildArrayLength(t *testing.T) {
	v := mustParse(t, `[1,"x",true]`)
	n, err := v.Length()
	if err != nil || n != 3 {
		t.Fatalf("Length = %d, %v, want 3", n, err)
	}
	ty, err := v.TypeOf()
	if err != nil || ty != TypeArray {
		t.Fatalf("TypeOf = %v, %v, want array", ty, err)
	}
}

// Scenario 2: get_by_name case-insensitive.
func TestGetByNameIgnoreCase(t *testing.T) {
	v := mustParse(t, `{"Foo":1,"foo":2}`)
	got, ok, err := v.GetByName("foo", true)
	if err != nil || !ok {
		t.Fatalf("GetByName: ok=%v err=%v", ok, err)
	}
	n, _ := got.AsNumber()
	if f, _ := n.Int64(); f != 2 {
		if u, _ := n.Uint64(); u != 2 {
			if n.Float64() != 2 {
				t.Errorf("got %v, want 2 (exact match should win)", n)
			}
		}
	}

	v2 := mustParse(t, `{"Foo":1}`)
	got2, ok, err := v2.GetByName("foo", true)
	if err != nil || !ok {
		t.Fatalf("GetByName (fallback): ok=%v err=%v", ok, err)
	}
	n2, _ := got2.AsNumber()
	if n2.Float64() != 1 {
		t.Errorf("got %v, want 1 (case-insensitive fallback)", n2)
	}
}

// Scenario 3: compare.
func TestCompareScenarios(t *testing.T) {
	cmp := func(a, b string) int {
		c, err := Compare(mustParse(t, a), mustParse(t, b))
		if err != nil {
			t.Fatalf("Compare(%s,%s): %v", a, b, err)
		}
		return c
	}
	if c := cmp("null", "[]"); c <= 0 {
		t.Errorf("compare(null, []) = %d, want > 0", c)
	}
	if c := cmp("[1,2]", "[1,2,3]"); c >= 0 {
		t.Errorf("compare([1,2],[1,2,3]) = %d, want < 0", c)
	}
	if c := cmp(`{"a":1}`, `{"a":2}`); c >= 0 {
		t.Errorf(`compare({"a":1},{"a":2}) = %d, want < 0`, c)
	}
	if c := cmp(`"10"`, "10"); c <= 0 {
		t.Errorf(`compare("10", 10) = %d, want > 0`, c)
	}
}

// Scenario 4: strip_nulls.
func TestStripNulls(t *testing.T) {
	v := mustParse(t, `{"a":null,"b":[null,{"c":null,"d":1}]}`)
	out, err := StripNulls(nil, v)
	if err != nil {
		t.Fatalf("StripNulls: %v", err)
	}
	text, err := ToText(nil, Value(out), CompactText)
	if err != nil {
		t.Fatalf("ToText: %v", err)
	}
	var got, want interface{}
	if err := json.Unmarshal(text, &got); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"b":[null,{"d":1}]}`), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StripNulls = %s, want {\"b\":[null,{\"d\":1}]}", text)
	}
}

// Scenario 6: array_except multiset.
func TestArrayExceptMultiset(t *testing.T) {
	left := mustParse(t, `[1,1,2,3]`)
	right := mustParse(t, `[1,3]`)
	out, err := ArrayExcept(nil, left, right)
	if err != nil {
		t.Fatalf("ArrayExcept: %v", err)
	}
	text, err := ToText(nil, Value(out), CompactText)
	if err != nil {
		t.Fatalf("ToText: %v", err)
	}
	if string(text) != "[1,2]" {
		t.Errorf("ArrayExcept([1,1,2,3],[1,3]) = %s, want [1,2]", text)
	}
	t.Run("with_1", func(t *testing.T) {
		// Left has two 1s and right removes only one of them, so one 1
		// survives along with 2. A naive set-based diff would drop every
		// 1 and return [2] -- re-assert that explicitly.
		if string(text) == "[2]" {
			t.Errorf("ArrayExcept used set instead of multiset semantics")
		}
	})
}

func TestContainsReflexiveTransitive(t *testing.T) {
	a := mustParse(t, `{"a":1,"b":{"c":2}}`)
	ok, err := a.Contains(a)
	if err != nil || !ok {
		t.Fatalf("Contains(a,a) = %v, %v, want true", ok, err)
	}
	b := mustParse(t, `{"a":1}`)
	c := mustParse(t, `{}`)
	ok1, _ := a.Contains(b)
	ok2, _ := b.Contains(c)
	ok3, _ := a.Contains(c)
	if ok1 && ok2 && !ok3 {
		t.Errorf("contains not transitive: a⊇b=%v b⊇c=%v a⊇c=%v", ok1, ok2, ok3)
	}
}
