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

func TestHeaderRoundTrip(t *testing.T) {
	cases := []struct {
		tag    ContainerTag
		length int
	}{
		{TagArray, 0}, {TagArray, 12345}, {TagObject, 1}, {TagScalar, 1},
	}
	for _, c := range cases {
		word := encodeHeader(c.tag, c.length)
		h, err := decodeHeader(word)
		if err != nil {
			t.Fatalf("decodeHeader: %v", err)
		}
		if h.tag != c.tag || h.length != c.length {
			t.Errorf("got {%v %d}, want {%v %d}", h.tag, h.length, c.tag, c.length)
		}
	}
}

func TestDecodeHeaderUnknownTag(t *testing.T) {
	if _, err := decodeHeader(0x60000001); err == nil {
		t.Errorf("expected error for unknown container tag")
	}
}

func TestJEntryRoundTrip(t *testing.T) {
	types := []JEntryType{JEntryNull, JEntryString, JEntryNumber, JEntryFalse, JEntryTrue, JEntryContainer}
	for _, typ := range types {
		word := encodeJEntry(typ, 42)
		je, err := decodeJEntry(word)
		if err != nil {
			t.Fatalf("decodeJEntry: %v", err)
		}
		if je.typ != typ || je.length != 42 {
			t.Errorf("got {%v %d}, want {%v 42}", je.typ, je.length, typ)
		}
	}
}

func TestDecodeJEntryOffsetModeReserved(t *testing.T) {
	if _, err := decodeJEntry(jentryOffFlag | uint32(JEntryNull)); err == nil {
		t.Errorf("expected error: offset-mode JEntry bit must be rejected")
	}
}

func TestDecodeJEntryUnknownType(t *testing.T) {
	if _, err := decodeJEntry(0x60000000); err == nil {
		t.Errorf("expected error for unknown JEntry type code")
	}
}

func TestRecognize(t *testing.T) {
	cases := []struct {
		b    []byte
		want bool
	}{
		{nil, false},
		{[]byte{}, false},
		{[]byte{0x80, 0, 0, 0}, true},
		{[]byte{0x40, 0, 0, 0}, true},
		{[]byte{0x20, 0, 0, 0}, true},
		{[]byte{'{'}, false},
		{[]byte{0x01}, false},
	}
	for _, c := range cases {
		if got := recognize(c.b); got != c.want {
			t.Errorf("recognize(%v) = %v, want %v", c.b, got, c.want)
		}
	}
}
