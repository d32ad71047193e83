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

func TestArrayElementIterLastOffsetAliasesBackingArray(t *testing.T) {
	root := mustParse(t, `[1,{"a":2},3]`)
	it, err := root.ArrayElements()
	if err != nil {
		t.Fatalf("ArrayElements: %v", err)
	}
	var containerOffset = -1
	for i := 0; ; i++ {
		je, payload, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		if je.typ == JEntryContainer {
			containerOffset = it.LastOffset()
			// payload must alias root's backing array at containerOffset.
			if &payload[0] != &root[containerOffset] {
				t.Errorf("payload does not alias root at LastOffset()=%d", containerOffset)
			}
		}
	}
	if containerOffset < 0 {
		t.Fatalf("no container element observed")
	}
}

func TestObjectEntryIterLastValueOffset(t *testing.T) {
	root := mustParse(t, `{"a":1,"b":[2,3]}`)
	it, err := root.ObjectEntries()
	if err != nil {
		t.Fatalf("ObjectEntries: %v", err)
	}
	for {
		k, je, payload, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		if k == "b" {
			off := it.LastValueOffset()
			if &payload[0] != &root[off] {
				t.Errorf("payload does not alias root at LastValueOffset()=%d", off)
			}
		}
	}
}

func TestArrayElementIterExhausted(t *testing.T) {
	root := mustParse(t, `[1,2]`)
	it, err := root.ArrayElements()
	if err != nil {
		t.Fatalf("ArrayElements: %v", err)
	}
	count := 0
	for {
		_, _, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if _, _, ok, err := it.Next(); err != nil || ok {
		t.Errorf("Next after exhaustion: ok=%v err=%v, want false,nil", ok, err)
	}
}

func TestArrayElementsRejectsNonArray(t *testing.T) {
	root := mustParse(t, `{"a":1}`)
	if _, err := root.ArrayElements(); err == nil {
		t.Errorf("expected error calling ArrayElements on an object")
	}
}
