// Copyright 2025 The Bitlayout Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stream adapts a byte stream to a sequence of raw cells, for
// programs that read a run of fixed-width or varint-framed records sharing
// one layout rather than a single in-memory buffer.
package stream

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrShortRead is returned when the underlying reader ends mid-record.
var ErrShortRead = errors.New("stream: short read")

// Reader reads successive fixed-width big-endian records from an
// underlying io.Reader, each WidthBits wide, and decodes each into a raw
// *big.Int via repeated byte-at-a-time shift-add — the same big-endian
// convention the root package's Cell uses.
type Reader struct {
	r         io.Reader
	widthBits int
	buf       []byte
}

// NewReader returns a Reader producing widthBits-wide records from r.
// widthBits need not be a multiple of 8; each record occupies
// ceil(widthBits/8) bytes, and the unused high-order bits of its first byte
// are masked off.
func NewReader(r io.Reader, widthBits int) (*Reader, error) {
	if widthBits <= 0 {
		return nil, fmt.Errorf("stream: widthBits must be positive, got %d", widthBits)
	}
	n := (widthBits + 7) / 8
	return &Reader{r: r, widthBits: widthBits, buf: make([]byte, n)}, nil
}

// Next reads and decodes the next fixed-width record. It returns io.EOF
// (unwrapped, matching io.Reader convention) only when the stream ends
// cleanly between records; a partial trailing record reports
// [ErrShortRead].
func (s *Reader) Next() (*big.Int, error) {
	n, err := io.ReadFull(s.r, s.buf)
	if err == io.EOF && n == 0 {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	v := new(big.Int).SetBytes(s.buf)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(s.widthBits)), big.NewInt(1))
	return v.And(v, mask), nil
}

// Writer is the inverse of Reader: it appends successive fixed-width
// big-endian records to an underlying io.Writer.
type Writer struct {
	w         io.Writer
	widthBits int
}

// NewWriter returns a Writer producing widthBits-wide records into w.
func NewWriter(w io.Writer, widthBits int) (*Writer, error) {
	if widthBits <= 0 {
		return nil, fmt.Errorf("stream: widthBits must be positive, got %d", widthBits)
	}
	return &Writer{w: w, widthBits: widthBits}, nil
}

// Write appends one record. It returns an error if v does not fit in
// widthBits.
func (s *Writer) Write(v *big.Int) error {
	if v.Sign() < 0 || v.BitLen() > s.widthBits {
		return fmt.Errorf("stream: value does not fit in %d bits", s.widthBits)
	}
	n := (s.widthBits + 7) / 8
	buf := make([]byte, n)
	v.FillBytes(buf)
	_, err := s.w.Write(buf)
	return err
}

// FramedReader reads a sequence of variable-length records, each prefixed
// by a protobuf-style unsigned varint length, grounded on the wire codec
// the rest of the ecosystem already uses for exactly this framing
// (google.golang.org/protobuf/encoding/protowire).
type FramedReader struct {
	r   *bufReader
	max uint64
}

// NewFramedReader returns a FramedReader over r. maxRecordBytes bounds a
// single record's declared length, rejecting corrupt or hostile framing
// before an unbounded allocation is attempted; 0 means unbounded.
func NewFramedReader(r io.Reader, maxRecordBytes uint64) *FramedReader {
	return &FramedReader{r: &bufReader{r: r}, max: maxRecordBytes}
}

// Next reads the next varint-prefixed record's raw big-endian payload as a
// *big.Int. It returns io.EOF when the stream ends cleanly before the next
// length prefix.
func (f *FramedReader) Next() (*big.Int, error) {
	length, err := f.readVarint()
	if err != nil {
		return nil, err
	}
	if f.max > 0 && length > f.max {
		return nil, fmt.Errorf("stream: record length %d exceeds limit %d", length, f.max)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(f.r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	return new(big.Int).SetBytes(buf), nil
}

func (f *FramedReader) readVarint() (uint64, error) {
	var buf []byte
	for {
		b, err := f.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(buf) == 0 {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("%w: %v", ErrShortRead, err)
		}
		buf = append(buf, b)
		if b < 0x80 {
			break
		}
	}
	v, n := protowire.ConsumeVarint(buf)
	if n < 0 {
		return 0, fmt.Errorf("stream: malformed varint length prefix")
	}
	return v, nil
}

// FramedWriter is the inverse of FramedReader.
type FramedWriter struct {
	w io.Writer
}

// NewFramedWriter returns a FramedWriter over w.
func NewFramedWriter(w io.Writer) *FramedWriter {
	return &FramedWriter{w: w}
}

// Write appends one varint-length-prefixed record carrying v's big-endian
// bytes (the minimal non-negative encoding, via [big.Int.Bytes]).
func (f *FramedWriter) Write(v *big.Int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("stream: cannot frame a negative value")
	}
	payload := v.Bytes()
	prefix := protowire.AppendVarint(nil, uint64(len(payload)))
	if _, err := f.w.Write(prefix); err != nil {
		return err
	}
	_, err := f.w.Write(payload)
	return err
}

// bufReader is a minimal byte-at-a-time reader adapter so FramedReader
// does not require callers to pass a *bufio.Reader themselves.
type bufReader struct {
	r   io.Reader
	one [1]byte
}

func (b *bufReader) ReadByte() (byte, error) {
	_, err := io.ReadFull(b.r, b.one[:])
	if err != nil {
		return 0, err
	}
	return b.one[0], nil
}

func (b *bufReader) Read(p []byte) (int, error) { return b.r.Read(p) }
