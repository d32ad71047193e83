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

// extractValue implements the extraction rule shared by every accessor
// that returns a standalone subvalue: a CONTAINER JEntry's payload bytes
// already are the nested container's full bytes verbatim, so they are
// copied into an owned buffer; any other JEntry is freshly wrapped in a
// one-element SCALAR container. Subvalues returned to callers never alias
// the parent's backing array.
func extractValue(je jEntry, payload []byte) Value {
	if je.typ == JEntryContainer {
		out := make([]byte, len(payload))
		copy(out, payload)
		return Value(out)
	}
	return wrapScalar(je, payload)
}

// wrapScalar builds a standalone SCALAR container around one JEntry and
// its payload: header, the JEntry word, then the payload bytes.
func wrapScalar(je jEntry, payload []byte) Value {
	out := make([]byte, 0, 8+len(payload))
	out = appendWord(out, encodeHeader(TagScalar, 1))
	out = appendWord(out, encodeJEntry(je.typ, je.length))
	out = append(out, payload...)
	return Value(out)
}
