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
	"strings"
)

// ParseKeypath parses a PostgreSQL-style keypath string such as
// "a.b[0].c[-1]" into a slice of KeypathSteps, the form GetByKeypath and
// DeleteByKeypath consume. Each dotted segment is a Name step; each
// bracketed segment is an Index step, accepting a leading '-' for
// negative (from-the-end) indices.
func ParseKeypath(s string) ([]KeypathStep, error) {
	var steps []KeypathStep
	i := 0
	n := len(s)
	for i < n {
		switch {
		case s[i] == '.':
			i++
		case s[i] == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return nil, newErr(ErrInvalidJsonPath, "unterminated '[' in keypath %q", s)
			}
			numStr := s[i+1 : i+j]
			idx, err := strconv.Atoi(numStr)
			if err != nil {
				return nil, newErr(ErrInvalidJsonPath, "bad array index %q in keypath %q", numStr, s)
			}
			steps = append(steps, KeypathStep{Index: idx, IsIndex: true})
			i += j + 1
		default:
			j := i
			for j < n && s[j] != '.' && s[j] != '[' {
				j++
			}
			steps = append(steps, KeypathStep{Name: s[i:j]})
			i = j
		}
	}
	return steps, nil
}
