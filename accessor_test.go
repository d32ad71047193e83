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

import "testing"

func TestGetByIndexNegative(t *testing.T) {
	v := mustParse(t, `[10,20,30]`)
	got, ok, err := v.GetByIndex(-1)
	if err != nil || !ok {
		t.Fatalf("GetByIndex(-1): ok=%v err=%v", ok, err)
	}
	n, _ := got.AsNumber()
	if n.Float64() != 30 {
		t.Errorf("got %v, want 30", n)
	}
	if _, ok, err := v.GetByIndex(5); err != nil || ok {
		t.Errorf("GetByIndex(5) out of range: ok=%v err=%v", ok, err)
	}
	if _, ok, err := v.GetByIndex(-10); err != nil || ok {
		t.Errorf("GetByIndex(-10) out of range: ok=%v err=%v", ok, err)
	}
}

func TestGetByKeypath(t *testing.T) {
	v := mustParse(t, `{"a":{"b":[1,{"c":"hi"}]}}`)
	steps, err := ParseKeypath("a.b[1].c")
	if err != nil {
		t.Fatalf("ParseKeypath: %v", err)
	}
	got, ok, err := v.GetByKeypath(steps)
	if err != nil || !ok {
		t.Fatalf("GetByKeypath: ok=%v err=%v", ok, err)
	}
	s, err := got.AsString()
	if err != nil || s != "hi" {
		t.Errorf("got %q, %v, want hi", s, err)
	}
}

func TestExistsKeys(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":2}`)
	if ok, err := v.ObjectExistsKey("a"); err != nil || !ok {
		t.Errorf("ObjectExistsKey(a): ok=%v err=%v", ok, err)
	}
	if ok, err := v.ObjectExistsKey("z"); err != nil || ok {
		t.Errorf("ObjectExistsKey(z): ok=%v err=%v", ok, err)
	}
	if ok, err := v.ExistsAllKeys([]string{"a", "b"}); err != nil || !ok {
		t.Errorf("ExistsAllKeys: ok=%v err=%v", ok, err)
	}
	if ok, err := v.ExistsAllKeys([]string{"a", "z"}); err != nil || ok {
		t.Errorf("ExistsAllKeys with missing: ok=%v err=%v", ok, err)
	}
	if ok, err := v.ExistsAnyKeys([]string{"z", "b"}); err != nil || !ok {
		t.Errorf("ExistsAnyKeys: ok=%v err=%v", ok, err)
	}
}

func TestObjectKeysArray(t *testing.T) {
	v := mustParse(t, `{"z":1,"a":2}`)
	out, err := v.ObjectKeysArray(nil)
	if err != nil {
		t.Fatalf("ObjectKeysArray: %v", err)
	}
	text, err := ToText(nil, Value(out), CompactText)
	if err != nil {
		t.Fatalf("ToText: %v", err)
	}
	if string(text) != `["a","z"]` {
		t.Errorf("got %s, want [\"a\",\"z\"]", text)
	}
}

func TestContainsSpec(t *testing.T) {
	obj := mustParse(t, `{"a":1,"b":{"c":2,"d":3}}`)
	needle := mustParse(t, `{"b":{"c":2}}`)
	ok, err := obj.Contains(needle)
	if err != nil || !ok {
		t.Fatalf("Contains: ok=%v err=%v, want true", ok, err)
	}
	bad := mustParse(t, `{"b":{"c":99}}`)
	ok2, err := obj.Contains(bad)
	if err != nil || ok2 {
		t.Fatalf("Contains mismatched value: ok=%v err=%v, want false", ok2, err)
	}

	arr := mustParse(t, `[1,2,3]`)
	if ok, err := arr.Contains(mustParse(t, `[3,1]`)); err != nil || !ok {
		t.Errorf("array Contains subset in any order: ok=%v err=%v", ok, err)
	}
	if ok, err := arr.Contains(mustParse(t, `[1,4]`)); err != nil || ok {
		t.Errorf("array Contains missing element: ok=%v err=%v", ok, err)
	}

	nested := mustParse(t, `[[1,2]]`)
	if ok, err := nested.Contains(mustParse(t, `1`)); err != nil || ok {
		t.Errorf("array Contains scalar must not descend into nested containers: ok=%v err=%v, want false", ok, err)
	}
	if ok, err := arr.Contains(mustParse(t, `{"x":1}`)); err != nil || ok {
		t.Errorf("array Contains object needle: ok=%v err=%v, want false (tags differ)", ok, err)
	}
}

func TestTraverseCheckString(t *testing.T) {
	v := mustParse(t, `{"a":[1,{"b":"needle"}]}`)
	ok, err := v.TraverseCheckString("needle")
	if err != nil || !ok {
		t.Fatalf("TraverseCheckString: ok=%v err=%v, want true", ok, err)
	}
	ok2, err := v.TraverseCheckString("missing")
	if err != nil || ok2 {
		t.Fatalf("TraverseCheckString missing: ok=%v err=%v, want false", ok2, err)
	}
}

func TestObjectEach(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":2,"c":3}`)
	var keys []string
	err := v.ObjectEach(func(key string, val Value) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		t.Fatalf("ObjectEach: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("visited %d keys, want 3", len(keys))
	}
}

func TestTypeOfAndIs(t *testing.T) {
	cases := []struct {
		text string
		want JSONType
	}{
		{"null", TypeNull}, {"true", TypeBoolean}, {"1", TypeNumber},
		{`"s"`, TypeString}, {"[]", TypeArray}, {"{}", TypeObject},
	}
	for _, c := range cases {
		v := mustParse(t, c.text)
		got, err := v.TypeOf()
		if err != nil || got != c.want {
			t.Errorf("TypeOf(%s) = %v, %v, want %v", c.text, got, err, c.want)
		}
	}
	if !mustParse(t, "null").IsNull() {
		t.Errorf("IsNull(null) = false")
	}
	if !mustParse(t, "[]").IsArray() {
		t.Errorf("IsArray([]) = false")
	}
	if !mustParse(t, "{}").IsObject() {
		t.Errorf("IsObject({}) = false")
	}
}
