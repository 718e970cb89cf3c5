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

package bitlayout

import "math/big"

// IR is a normal-form expression over shift-and primitives applied to a
// named symbolic raw integer. Every IR tree is pure arithmetic/bitwise:
// there are no field references left, only shifts, masks, and the
// arithmetic/bitwise/comparison operator families.
type IR interface {
	isIR()
}

// noWord marks an [IRShiftAnd] that reads from a single, unsubscripted
// symbol rather than a word-indexed one.
const noWord = -1

// IRShiftAnd is (symbol >> Offset) & ((1<<Width)-1), or, when Word != -1,
// the same applied to symbol[Word] (block-indexed lowering).
type IRShiftAnd struct {
	Word         int
	Offset, Width int
}

func (*IRShiftAnd) isIR() {}

// IRSignExtend reinterprets a Width-bit unsigned IR value as two's
// complement: (X ^ signBit) - signBit.
type IRSignExtend struct {
	X     IR
	Width int
}

func (*IRSignExtend) isIR() {}

// IRConst is an integer literal.
type IRConst struct {
	Value *big.Int
}

func (*IRConst) isIR() {}

// IRBin is a binary operator over two lowered sub-expressions.
type IRBin struct {
	Op   BinOp
	L, R IR
}

func (*IRBin) isIR() {}

// IRUn is a unary operator over a lowered sub-expression.
type IRUn struct {
	Op UnOp
	X  IR
}

func (*IRUn) isIR() {}

// LowerOptions configures [Lower].
type LowerOptions struct {
	// WordWidth, if non-zero, requests block-indexed lowering: a field at
	// absolute bit offset o lowers to a reference to symbol word o/WordWidth
	// at local offset o%WordWidth, i.e. x[o/WordWidth], instead of a single
	// unsubscripted symbol. Fields that span a word boundary are rejected
	// with [ErrInvalidType], since a single shift-and cannot read them.
	WordWidth int
}

// Lower reduces e to its IR normal form: every [RefExpr] becomes an
// [IRShiftAnd] (wrapped in an [IRSignExtend] for a signed field), every
// other node becomes the structurally corresponding IR node. Lowering is a
// pure function — it never mutates e — and fails only if e still contains
// an unresolved string constant or an unresolvable navigation node, or if,
// under block-indexed lowering, a referenced field straddles a word
// boundary; all of these are build-time, not evaluation-time, errors.
func Lower(e Expr, opts LowerOptions) (IR, error) {
	switch x := e.(type) {
	case *RefExpr:
		return lowerRef(x.field, opts)
	case *ConstExpr:
		if x.Label != "" {
			return nil, newErr(errInvalidType, "", "unresolved enum label constant %q", x.Label)
		}
		return &IRConst{Value: x.Int}, nil
	case *BinExpr:
		l, err := Lower(x.L, opts)
		if err != nil {
			return nil, err
		}
		r, err := Lower(x.R, opts)
		if err != nil {
			return nil, err
		}
		return &IRBin{Op: x.Op, L: l, R: r}, nil
	case *UnExpr:
		v, err := Lower(x.X, opts)
		if err != nil {
			return nil, err
		}
		return &IRUn{Op: x.Op, X: v}, nil
	case *MemberExpr:
		return nil, newErr(errInvalidType, "", "cannot lower unresolved member access %q", x.Name)
	case *IndexExpr:
		return nil, newErr(errInvalidType, "", "cannot lower unresolved index access")
	default:
		return nil, newErr(errInvalidType, "", "unhandled expression node %T", e)
	}
}

func lowerRef(f *Field, opts LowerOptions) (IR, error) {
	word := noWord
	offset := f.offset
	if opts.WordWidth > 0 {
		if offset/opts.WordWidth != (offset+f.typ.width-1)/opts.WordWidth {
			return nil, newErr(errInvalidType, f.Path(), "field straddles a %d-bit word boundary and cannot be lowered to a single shift-and", opts.WordWidth)
		}
		word = offset / opts.WordWidth
		offset %= opts.WordWidth
	}
	sa := &IRShiftAnd{Word: word, Offset: offset, Width: f.typ.width}
	if f.typ.kind == KindSint {
		return &IRSignExtend{X: sa, Width: f.typ.width}, nil
	}
	return sa, nil
}
