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

// Package bigint is the raw big-integer carrier: an unbounded-width,
// non-negative integer with the shift/mask/bit-length operations the codec
// kernel needs. Every window operation goes through math/big, whatever the
// interface's width; the native-word helpers here (NewCellUint64,
// FitsUint64) only convert or check uint64 values.
//
// There is no third-party bignum worth reaching for here: math/big is the
// standard library's own arbitrary-precision integer and remains the
// idiomatic choice even in bignum-heavy ecosystem code.
package bigint

import "math/big"

// Cell is a mutable holder for a non-negative, arbitrary-width integer: the
// "raw" backing cell that bound views read and write through.
type Cell struct {
	v big.Int
}

// NewCell returns a Cell initialized to n.
func NewCell(n *big.Int) *Cell {
	c := &Cell{}
	c.v.Set(n)
	return c
}

// NewCellUint64 returns a Cell initialized to the given native value.
func NewCellUint64(n uint64) *Cell {
	c := &Cell{}
	c.v.SetUint64(n)
	return c
}

// Big returns a copy of the cell's value as a [big.Int].
func (c *Cell) Big() *big.Int {
	var out big.Int
	out.Set(&c.v)
	return &out
}

// SetBig sets the cell's value to n.
func (c *Cell) SetBig(n *big.Int) {
	c.v.Set(n)
}

// BitLen returns the number of bits required to represent the cell's value.
func (c *Cell) BitLen() int {
	return c.v.BitLen()
}

// Window extracts the w-bit window of the cell's value starting at bit
// offset o: (raw >> o) & ((1 << w) - 1).
func (c *Cell) Window(offset, width int) *big.Int {
	var shifted big.Int
	shifted.Rsh(&c.v, uint(offset))

	var mask big.Int
	mask.Lsh(big.NewInt(1), uint(width))
	mask.Sub(&mask, big.NewInt(1))

	shifted.And(&shifted, &mask)
	return &shifted
}

// SetWindow overwrites the w-bit window at bit offset o with the low w bits
// of n: raw = (raw &^ (mask << o)) | ((n & mask) << o).
func (c *Cell) SetWindow(offset, width int, n *big.Int) {
	var mask big.Int
	mask.Lsh(big.NewInt(1), uint(width))
	mask.Sub(&mask, big.NewInt(1))

	var masked big.Int
	masked.And(n, &mask)

	var shiftedMask big.Int
	shiftedMask.Lsh(&mask, uint(offset))

	var notMask big.Int
	notMask.Not(&shiftedMask)

	var cleared big.Int
	cleared.And(&c.v, &notMask)

	var shiftedVal big.Int
	shiftedVal.Lsh(&masked, uint(offset))

	cleared.Or(&cleared, &shiftedVal)
	c.v.Set(&cleared)
}

// FitsUint64 reports whether n fits in a width-bit unsigned window.
func FitsUint64(n uint64, width int) bool {
	if width >= 64 {
		return true
	}
	return n>>uint(width) == 0
}

// FitsUnsigned reports whether n (assumed non-negative) fits in a width-bit
// unsigned window.
func FitsUnsigned(n *big.Int, width int) bool {
	if n.Sign() < 0 {
		return false
	}
	return n.BitLen() <= width
}

// SignExtend reinterprets the low width bits of n as two's-complement signed.
func SignExtend(n *big.Int, width int) *big.Int {
	var out big.Int
	out.Set(n)
	if width <= 0 {
		return &out
	}
	signBit := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
	if out.Cmp(signBit) >= 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(width))
		out.Sub(&out, full)
	}
	return &out
}

// FitsSigned reports whether n fits in the two's-complement range of a
// width-bit signed window: [-2^(w-1), 2^(w-1)).
func FitsSigned(n *big.Int, width int) bool {
	if width <= 0 {
		return false
	}
	lo := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(width-1)))
	hi := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
	return n.Cmp(lo) >= 0 && n.Cmp(hi) < 0
}

// ToTwosComplement converts a signed value into its width-bit unsigned
// two's-complement bit pattern, assuming FitsSigned(n, width).
func ToTwosComplement(n *big.Int, width int) *big.Int {
	if n.Sign() >= 0 {
		var out big.Int
		out.Set(n)
		return &out
	}
	full := new(big.Int).Lsh(big.NewInt(1), uint(width))
	var out big.Int
	out.Add(full, n)
	return &out
}
