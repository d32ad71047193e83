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

// Package jsonbstore batches many independently-encoded JSONB containers
// into one compressed blob -- a column's worth of values, say -- mirroring
// the teacher's Serializer (compressed tags/values/strings streams) but
// applied to whole containers instead of tape words.
package jsonbstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// CompressMode selects the batch's compression algorithm, mirroring the
// teacher's CompressMode enum.
type CompressMode uint8

const (
	// CompressNone stores containers back to back, uncompressed.
	CompressNone CompressMode = iota
	// CompressFast uses s2, favoring speed.
	CompressFast
	// CompressBest uses zstd, favoring ratio.
	CompressBest
)

const (
	magic             = "JBST"
	serializedVersion = 1
)

// Store batches and restores JSONB containers. A Store may be reused
// across calls but is not safe for concurrent use.
type Store struct {
	Mode CompressMode
}

// NewStore creates a Store using the given compression mode.
func NewStore(mode CompressMode) *Store {
	return &Store{Mode: mode}
}

// MarshalBatch concatenates values and appends one compressed blob to
// dst: a small header, then a varint length table, then the compressed
// concatenation of every container's bytes.
func (s *Store) MarshalBatch(dst []byte, values [][]byte) ([]byte, error) {
	dst = append(dst, magic...)
	dst = append(dst, serializedVersion, byte(s.Mode))

	var lenTable []byte
	var buf bytes.Buffer
	var countBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(countBuf[:], uint64(len(values)))
	lenTable = append(lenTable, countBuf[:n]...)
	for _, v := range values {
		n := binary.PutUvarint(countBuf[:], uint64(len(v)))
		lenTable = append(lenTable, countBuf[:n]...)
		buf.Write(v)
	}

	var lenTableLen [4]byte
	binary.BigEndian.PutUint32(lenTableLen[:], uint32(len(lenTable)))
	dst = append(dst, lenTableLen[:]...)
	dst = append(dst, lenTable...)

	compressed, err := s.compress(buf.Bytes())
	if err != nil {
		return dst, err
	}
	var payloadLen [4]byte
	binary.BigEndian.PutUint32(payloadLen[:], uint32(len(compressed)))
	dst = append(dst, payloadLen[:]...)
	return append(dst, compressed...), nil
}

func (s *Store) compress(raw []byte) ([]byte, error) {
	switch s.Mode {
	case CompressNone:
		return raw, nil
	case CompressFast:
		return s2.Encode(nil, raw), nil
	case CompressBest:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil
	default:
		return nil, fmt.Errorf("jsonbstore: unknown compress mode %d", s.Mode)
	}
}

func (s *Store) decompress(compressed []byte) ([]byte, error) {
	switch s.Mode {
	case CompressNone:
		return compressed, nil
	case CompressFast:
		return s2.Decode(nil, compressed)
	case CompressBest:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(compressed, nil)
	default:
		return nil, fmt.Errorf("jsonbstore: unknown compress mode %d", s.Mode)
	}
}

// UnmarshalBatch reads one blob produced by MarshalBatch, returning the
// original containers in order.
func UnmarshalBatch(data []byte) ([][]byte, error) {
	if len(data) < len(magic)+2 || string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("jsonbstore: bad magic")
	}
	off := len(magic)
	version := data[off]
	off++
	mode := CompressMode(data[off])
	off++
	if version != serializedVersion {
		return nil, fmt.Errorf("jsonbstore: unsupported version %d", version)
	}
	if off+4 > len(data) {
		return nil, io.ErrUnexpectedEOF
	}
	lenTableLen := binary.BigEndian.Uint32(data[off : off+4])
	off += 4
	if off+int(lenTableLen) > len(data) {
		return nil, io.ErrUnexpectedEOF
	}
	lenTable := data[off : off+int(lenTableLen)]
	off += int(lenTableLen)

	if off+4 > len(data) {
		return nil, io.ErrUnexpectedEOF
	}
	payloadLen := binary.BigEndian.Uint32(data[off : off+4])
	off += 4
	if off+int(payloadLen) > len(data) {
		return nil, io.ErrUnexpectedEOF
	}
	compressed := data[off : off+int(payloadLen)]

	s := &Store{Mode: mode}
	raw, err := s.decompress(compressed)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(lenTable)
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, count)
	pos := 0
	for i := uint64(0); i < count; i++ {
		length, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		if pos+int(length) > len(raw) {
			return nil, io.ErrUnexpectedEOF
		}
		out = append(out, raw[pos:pos+int(length)])
		pos += int(length)
	}
	return out, nil
}
