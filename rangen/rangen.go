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

// Package rangen generates random JSON text for the property-test corpus
// described in spec.md §8. It is deliberately out of the hard-engineering
// core (spec.md §1 names random-value generation as a thin collaborator)
// and is consumed only by _test.go files, driven by pgregory.net/rapid's
// *rapid.T rather than a bare math/rand source so shrinking works.
package rangen

import (
	"fmt"
	"strconv"
	"strings"

	"pgregory.net/rapid"
)

// Gen produces random JSON text at a bounded depth, covering every JSON
// scalar kind plus arrays and objects.
func Gen(t *rapid.T, maxDepth int) string {
	return genValue(t, maxDepth)
}

func genValue(t *rapid.T, depth int) string {
	if depth <= 0 {
		return genScalar(t)
	}
	kind := rapid.IntRange(0, 5).Draw(t, "kind")
	switch kind {
	case 0, 1, 2, 3:
		return genScalar(t)
	case 4:
		return genArray(t, depth)
	default:
		return genObject(t, depth)
	}
}

func genScalar(t *rapid.T) string {
	kind := rapid.IntRange(0, 3).Draw(t, "scalarKind")
	switch kind {
	case 0:
		return "null"
	case 1:
		if rapid.Bool().Draw(t, "bool") {
			return "true"
		}
		return "false"
	case 2:
		n := rapid.Float64Range(-1e9, 1e9).Draw(t, "num")
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return strconv.Quote(rapid.StringN(0, 12, -1).Draw(t, "str"))
	}
}

func genArray(t *rapid.T, depth int) string {
	n := rapid.IntRange(0, 4).Draw(t, "arrLen")
	parts := make([]string, n)
	for i := range parts {
		parts[i] = genValue(t, depth-1)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func genObject(t *rapid.T, depth int) string {
	n := rapid.IntRange(0, 4).Draw(t, "objLen")
	parts := make([]string, n)
	for i := range parts {
		key := fmt.Sprintf("k%d_%s", i, rapid.StringN(0, 6, -1).Draw(t, "key"))
		parts[i] = strconv.Quote(key) + ":" + genValue(t, depth-1)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
