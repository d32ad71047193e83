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

// Package jsonb implements a binary JSON container format and an in-place
// query/manipulation engine that operates over it without full decoding.
//
// A jsonb Value is a byte slice in the container layout described below; it
// is always shaped like an array, object, or scalar wrapper and is never
// mutated in place by this package -- every producing operation appends to
// a caller-supplied buffer and every consuming operation borrows a
// read-only slice.
package jsonb

import "encoding/binary"

// ContainerTag is the top 3 bits of a container header, identifying
// whether the container is an array, object, or scalar wrapper.
type ContainerTag uint32

const (
	TagArray  ContainerTag = 0x80000000
	TagObject ContainerTag = 0x40000000
	TagScalar ContainerTag = 0x20000000
)

const (
	headerTypeMask   uint32 = 0xE0000000
	headerLengthMask uint32 = 0x1FFFFFFF
)

// JEntryType is the 3-bit type code of a JEntry descriptor.
type JEntryType uint32

const (
	JEntryNull      JEntryType = 0x00000000
	JEntryString    JEntryType = 0x10000000
	JEntryNumber    JEntryType = 0x20000000
	JEntryFalse     JEntryType = 0x30000000
	JEntryTrue      JEntryType = 0x40000000
	JEntryContainer JEntryType = 0x50000000
)

const (
	jentryOffFlag   uint32 = 0x80000000
	jentryTypeMask  uint32 = 0x70000000
	jentryLengthMax uint32 = 0x0FFFFFFF
)

// Number payload kind byte, the first byte of a NUMBER JEntry's payload.
type numberKind byte

const (
	numberZero   numberKind = 0x00
	numberNaN    numberKind = 0x10
	numberInf    numberKind = 0x20
	numberNegInf numberKind = 0x30
	numberInt    numberKind = 0x40
	numberUint   numberKind = 0x50
	numberFloat  numberKind = 0x60
)

// First-byte recognition bytes per spec.md Invariant 4 / §6.
const (
	prefixArray  byte = 0x80
	prefixObject byte = 0x40
	prefixScalar byte = 0x20
)

// header is the decoded form of a container's leading u32 word.
type header struct {
	tag    ContainerTag
	length int
}

func decodeHeader(word uint32) (header, error) {
	tag := ContainerTag(word & headerTypeMask)
	switch tag {
	case TagArray, TagObject, TagScalar:
	default:
		return header{}, newErr(ErrInvalidJsonbHeader, "unknown container tag %#x", word&headerTypeMask)
	}
	return header{tag: tag, length: int(word & headerLengthMask)}, nil
}

func encodeHeader(tag ContainerTag, length int) uint32 {
	return uint32(tag) | (uint32(length) & headerLengthMask)
}

// readWord reads a big-endian u32 at offset, failing with EOF if fewer than
// four bytes remain.
func readWord(buf []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(buf) {
		return 0, errEOF
	}
	return binary.BigEndian.Uint32(buf[offset : offset+4]), nil
}

func putWord(buf []byte, offset int, v uint32) {
	binary.BigEndian.PutUint32(buf[offset:offset+4], v)
}

func appendWord(dst []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(dst, tmp[:]...)
}

// jEntry is the decoded form of one 32-bit element/key descriptor.
type jEntry struct {
	typ    JEntryType
	length int
}

func decodeJEntry(word uint32) (jEntry, error) {
	if word&jentryOffFlag != 0 {
		return jEntry{}, newErr(ErrInvalidJsonbJEntry, "offset-mode JEntry bit is reserved and unimplemented")
	}
	typ := JEntryType(word & jentryTypeMask)
	switch typ {
	case JEntryNull, JEntryString, JEntryNumber, JEntryFalse, JEntryTrue, JEntryContainer:
	default:
		return jEntry{}, newErr(ErrInvalidJsonbJEntry, "unknown JEntry type code %#x", word&jentryTypeMask)
	}
	return jEntry{typ: typ, length: int(word & jentryLengthMax)}, nil
}

func encodeJEntry(typ JEntryType, length int) uint32 {
	return uint32(typ) | (uint32(length) & jentryLengthMax)
}

// recognize returns whether b looks like the start of a JSONB container,
// per spec.md Invariant 4. This is the dispatcher's only recognition test.
func recognize(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	switch b[0] {
	case prefixArray, prefixObject, prefixScalar:
		return true
	default:
		return false
	}
}
