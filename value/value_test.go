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

package value

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		`null`, `true`, `false`, `0`, `-3.25`, `"s"`,
		`[1,2,3]`, `{"a":1,"b":2}`, `{"z":{"y":[1,"x",null]}}`,
	}
	for _, text := range cases {
		v, err := Parse([]byte(text))
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		out, err := v.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%q): %v", text, err)
		}
		var a, b interface{}
		if err := json.Unmarshal([]byte(text), &a); err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(out, &b); err != nil {
			t.Fatalf("unmarshal rendered %q -> %q: %v", text, out, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("round trip mismatch for %q: got %q", text, out)
		}
	}
}

func TestObjectKeysSorted(t *testing.T) {
	v, err := Parse([]byte(`{"z":1,"a":2,"m":3}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.Kind != Object {
		t.Fatalf("Kind = %v, want Object", v.Kind)
	}
	var keys []string
	for _, m := range v.Obj {
		keys = append(keys, m.Key)
	}
	want := []string{"a", "m", "z"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestFromInterfaceDirect(t *testing.T) {
	v := FromInterface(map[string]interface{}{"a": 1.0, "b": []interface{}{true, nil}})
	if v.Kind != Object || len(v.Obj) != 2 {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestUnmarshalJSONInterface(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"k":[1,2]}`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Kind != Object || len(v.Obj) != 1 || v.Obj[0].Key != "k" {
		t.Errorf("unexpected value: %+v", v)
	}
}
