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
	"encoding/binary"
)

// compareLevel ranks the broad kind of a value for cross-type comparison,
// highest first: null > array > object > string > number > true > false.
// Mirrors the NULL_LEVEL..INVALID_LEVEL constants carried over from the
// reference implementation (see SPEC_FULL.md domain stack notes).
type compareLevel int

const (
	levelInvalid compareLevel = iota
	levelFalse
	levelTrue
	levelNumber
	levelString
	levelObject
	levelArray
	levelNull
)

func scalarLevel(je jEntry) compareLevel {
	switch je.typ {
	case JEntryNull:
		return levelNull
	case JEntryString:
		return levelString
	case JEntryNumber:
		return levelNumber
	case JEntryTrue:
		return levelTrue
	case JEntryFalse:
		return levelFalse
	default:
		return levelInvalid
	}
}

func containerLevel(tag ContainerTag) compareLevel {
	switch tag {
	case TagArray:
		return levelArray
	case TagObject:
		return levelObject
	default:
		return levelInvalid
	}
}

// Compare implements the total order over Values described in spec.md
// §4.6: first by compareLevel (null > array > object > string > number >
// true > false), then recursively within matching kinds. Arrays and
// objects compare element-by-element / key-by-key in stored order, with
// the shorter one sorting first when one is a prefix of the other.
func Compare(left, right Value) (int, error) {
	lh, err := left.header()
	if err != nil {
		return 0, err
	}
	rh, err := right.header()
	if err != nil {
		return 0, err
	}

	var ll, rl compareLevel
	var lje, rje jEntry
	var lpayload, rpayload []byte
	if lh.tag == TagScalar {
		lje, lpayload, err = readSoleScalar(left, lh)
		if err != nil {
			return 0, err
		}
		ll = scalarLevel(lje)
	} else {
		ll = containerLevel(lh.tag)
	}
	if rh.tag == TagScalar {
		rje, rpayload, err = readSoleScalar(right, rh)
		if err != nil {
			return 0, err
		}
		rl = scalarLevel(rje)
	} else {
		rl = containerLevel(rh.tag)
	}

	if ll != rl {
		if ll > rl {
			return 1, nil
		}
		return -1, nil
	}

	switch ll {
	case levelNull, levelTrue, levelFalse:
		return 0, nil
	case levelString:
		return bytes.Compare(lpayload, rpayload), nil
	case levelNumber:
		ln, err := decodeNumber(lpayload)
		if err != nil {
			return 0, err
		}
		rn, err := decodeNumber(rpayload)
		if err != nil {
			return 0, err
		}
		return ln.compare(rn), nil
	case levelArray:
		return compareArrays(left, right)
	case levelObject:
		return compareObjects(left, right)
	default:
		return 0, newErr(ErrInvalidJsonType, "cannot compare invalid values")
	}
}

func compareArrays(left, right Value) (int, error) {
	lit, err := left.ArrayElements()
	if err != nil {
		return 0, err
	}
	rit, err := right.ArrayElements()
	if err != nil {
		return 0, err
	}
	for {
		lje, lpayload, lok, err := lit.Next()
		if err != nil {
			return 0, err
		}
		rje, rpayload, rok, err := rit.Next()
		if err != nil {
			return 0, err
		}
		if !lok || !rok {
			switch {
			case !lok && !rok:
				return 0, nil
			case !lok:
				return -1, nil
			default:
				return 1, nil
			}
		}
		c, err := Compare(extractValue(lje, lpayload), extractValue(rje, rpayload))
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
}

func compareObjects(left, right Value) (int, error) {
	lit, err := left.ObjectEntries()
	if err != nil {
		return 0, err
	}
	rit, err := right.ObjectEntries()
	if err != nil {
		return 0, err
	}
	for {
		lk, lje, lpayload, lok, err := lit.Next()
		if err != nil {
			return 0, err
		}
		rk, rje, rpayload, rok, err := rit.Next()
		if err != nil {
			return 0, err
		}
		if !lok || !rok {
			switch {
			case !lok && !rok:
				return 0, nil
			case !lok:
				return -1, nil
			default:
				return 1, nil
			}
		}
		if kc := bytes.Compare([]byte(lk), []byte(rk)); kc != 0 {
			return kc, nil
		}
		c, err := Compare(extractValue(lje, lpayload), extractValue(rje, rpayload))
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
}

// ConvertToComparable appends v's comparable-key encoding to dst: one
// level byte per scalar (or per container-open marker), followed by a
// payload whose unsigned byte-lexicographic order matches Compare's
// semantic order. Strings, and object keys (encoded as string scalars),
// are written with each 0x00 byte escaped as 0x00 0xFF and a 0x00 0x00
// terminator, so a string sorts before any longer string it prefixes
// whatever follows it; numbers go through sortableFloatBits after
// promotion to float64, so integers and floats interleave correctly.
func ConvertToComparable(v Value, dst []byte) ([]byte, error) {
	h, err := v.header()
	if err != nil {
		return dst, err
	}
	switch h.tag {
	case TagArray:
		dst = append(dst, byte(levelArray))
		it, err := v.ArrayElements()
		if err != nil {
			return dst, err
		}
		for {
			je, payload, ok, err := it.Next()
			if err != nil {
				return dst, err
			}
			if !ok {
				break
			}
			dst, err = ConvertToComparable(extractValue(je, payload), dst)
			if err != nil {
				return dst, err
			}
		}
		dst = append(dst, 0x00) // end-of-array marker, sorts below any valid level byte
		return dst, nil
	case TagObject:
		dst = append(dst, byte(levelObject))
		it, err := v.ObjectEntries()
		if err != nil {
			return dst, err
		}
		for {
			k, je, payload, ok, err := it.Next()
			if err != nil {
				return dst, err
			}
			if !ok {
				break
			}
			dst, err = ConvertToComparable(wrapScalar(jEntry{typ: JEntryString, length: len(k)}, []byte(k)), dst)
			if err != nil {
				return dst, err
			}
			dst, err = ConvertToComparable(extractValue(je, payload), dst)
			if err != nil {
				return dst, err
			}
		}
		dst = append(dst, 0x00) // end-of-object marker, sorts below any valid level byte
		return dst, nil
	}

	je, payload, err := readSoleScalar(v, h)
	if err != nil {
		return dst, err
	}
	dst = append(dst, byte(scalarLevel(je)))
	switch je.typ {
	case JEntryNull, JEntryTrue, JEntryFalse:
		return dst, nil
	case JEntryString:
		for _, c := range payload {
			dst = append(dst, c)
			if c == 0x00 {
				dst = append(dst, 0xFF)
			}
		}
		return append(dst, 0x00, 0x00), nil
	case JEntryNumber:
		n, err := decodeNumber(payload)
		if err != nil {
			return dst, err
		}
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], sortableFloatBits(n.Float64()))
		return append(dst, tmp[:]...), nil
	default:
		return dst, newErr(ErrInvalidJsonType, "cannot encode invalid value as comparable key")
	}
}
