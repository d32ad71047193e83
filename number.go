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
	"encoding/binary"
	"math"
	"strconv"
)

// Number is a decoded JSONB number payload. Exactly one of the Int/Uint/
// Float fields is meaningful, selected by Kind; Zero/NaN/Inf/NegInf carry
// no body at all.
type Number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

// NumberFromInt64 builds a Number carrying a signed integer.
func NumberFromInt64(v int64) Number { return Number{kind: numberInt, i: v} }

// NumberFromUint64 builds a Number carrying an unsigned integer.
func NumberFromUint64(v uint64) Number { return Number{kind: numberUint, u: v} }

// NumberFromFloat64 builds a Number carrying a float64, collapsing zero,
// NaN, and the infinities to their dedicated payload-free kinds.
func NumberFromFloat64(v float64) Number {
	switch {
	case math.IsNaN(v):
		return Number{kind: numberNaN}
	case math.IsInf(v, 1):
		return Number{kind: numberInf}
	case math.IsInf(v, -1):
		return Number{kind: numberNegInf}
	case v == 0:
		return Number{kind: numberZero}
	default:
		return Number{kind: numberFloat, f: v}
	}
}

// IsInt reports whether the number was stored as a signed integer.
func (n Number) IsInt() bool { return n.kind == numberInt }

// IsUint reports whether the number was stored as an unsigned integer.
func (n Number) IsUint() bool { return n.kind == numberUint }

// IsFloat reports whether the number was stored as a float (including the
// zero/NaN/Inf/-Inf special kinds).
func (n Number) IsFloat() bool {
	switch n.kind {
	case numberFloat, numberZero, numberNaN, numberInf, numberNegInf:
		return true
	default:
		return false
	}
}

// Int64 returns the exact integer value when IsInt, else false.
func (n Number) Int64() (int64, bool) {
	if n.kind != numberInt {
		return 0, false
	}
	return n.i, true
}

// Uint64 returns the exact integer value when IsUint, else false.
func (n Number) Uint64() (uint64, bool) {
	if n.kind != numberUint {
		return 0, false
	}
	return n.u, true
}

// Float64 promotes the number to float64 regardless of kind.
func (n Number) Float64() float64 {
	switch n.kind {
	case numberZero:
		return 0
	case numberNaN:
		return math.NaN()
	case numberInf:
		return math.Inf(1)
	case numberNegInf:
		return math.Inf(-1)
	case numberInt:
		return float64(n.i)
	case numberUint:
		return float64(n.u)
	case numberFloat:
		return n.f
	}
	return 0
}

// String renders the canonical textual form used by number->string casts.
func (n Number) String() string {
	switch n.kind {
	case numberZero:
		return "0"
	case numberNaN:
		return "NaN"
	case numberInf:
		return "Infinity"
	case numberNegInf:
		return "-Infinity"
	case numberInt:
		return strconv.FormatInt(n.i, 10)
	case numberUint:
		return strconv.FormatUint(n.u, 10)
	case numberFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return "0"
}

// compare orders two numbers numerically via f64 promotion. This matches
// the comparator's scalar-vs-scalar rule in spec.md §4.6.
func (n Number) compare(o Number) int {
	a, b := n.Float64(), o.Float64()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// encodeNumber appends the number's wire payload (kind byte + fixed body)
// to dst and returns the extended slice.
func encodeNumber(dst []byte, n Number) []byte {
	dst = append(dst, byte(n.kind))
	switch n.kind {
	case numberZero, numberNaN, numberInf, numberNegInf:
		return dst
	case numberInt:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(n.i))
		return append(dst, tmp[:]...)
	case numberUint:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], n.u)
		return append(dst, tmp[:]...)
	case numberFloat:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(n.f))
		return append(dst, tmp[:]...)
	}
	return dst
}

// decodeNumber parses a number payload (as produced by encodeNumber).
func decodeNumber(payload []byte) (Number, error) {
	if len(payload) < 1 {
		return Number{}, errInvalidNumber
	}
	kind := numberKind(payload[0])
	body := payload[1:]
	switch kind {
	case numberZero:
		return Number{kind: numberZero}, nil
	case numberNaN:
		return Number{kind: numberNaN}, nil
	case numberInf:
		return Number{kind: numberInf}, nil
	case numberNegInf:
		return Number{kind: numberNegInf}, nil
	case numberInt:
		if len(body) != 8 {
			return Number{}, errInvalidNumber
		}
		return Number{kind: numberInt, i: int64(binary.BigEndian.Uint64(body))}, nil
	case numberUint:
		if len(body) != 8 {
			return Number{}, errInvalidNumber
		}
		return Number{kind: numberUint, u: binary.BigEndian.Uint64(body)}, nil
	case numberFloat:
		if len(body) != 8 {
			return Number{}, errInvalidNumber
		}
		return Number{kind: numberFloat, f: math.Float64frombits(binary.BigEndian.Uint64(body))}, nil
	default:
		return Number{}, newErr(ErrInvalidNumber, "unknown number payload kind %#x", byte(kind))
	}
}

// numberPayloadLen returns the on-wire byte length of n's payload: 1 for
// the body-free kinds, 9 for the kinds carrying an 8-byte body.
func numberPayloadLen(n Number) int {
	switch n.kind {
	case numberZero, numberNaN, numberInf, numberNegInf:
		return 1
	default:
		return 9
	}
}

// sortableFloatBits transforms an f64 bit pattern so that unsigned
// big-endian comparison of the result matches IEEE-754 total order for
// finite, NaN-free values: treat as signed integer, XOR in the sign-smeared
// mask, then flip the top bit. Used by convert_to_comparable (spec.md
// §4.6).
func sortableFloatBits(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		// Negative: flip every bit so larger magnitude sorts smaller.
		return ^bits
	}
	// Non-negative: just flip the sign bit so it sorts above negatives.
	return bits | (1 << 63)
}
