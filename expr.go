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

// Expr is a symbolic expression over field references and constants: the
// un-lowered half of the expression engine. Expr values are built by
// navigating a [Symbolic] and combining the results with the Eq/Add/...
// builder functions below; they are immutable once built.
type Expr interface {
	isExpr()
}

// RefExpr is a reference to a field in the layout, by its resolved [Field].
type RefExpr struct {
	field *Field
}

// Field returns the referenced field.
func (r *RefExpr) Field() *Field { return r.field }

func (*RefExpr) isExpr() {}

// ConstExpr is a literal integer constant. Values are always normalized to
// *big.Int during construction (see [Const]); a string literal only ever
// appears transiently, and is resolved to an enum code by the binary
// builder ([Eq], [Ne], ...) that combines it with an enum-typed reference.
type ConstExpr struct {
	Int   *big.Int
	Label string // non-empty only for an as-yet-unresolved enum label constant.
}

func (*ConstExpr) isExpr() {}

// BinOp is a binary operator in an expression tree.
type BinOp int

// The binary operators Expr supports.
const (
	_ BinOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLogicalAnd
	OpLogicalOr
)

var binTokens = map[BinOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
	OpShl: "<<", OpShr: ">>",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpLogicalAnd: "&&", OpLogicalOr: "||",
}

// String implements fmt.Stringer.
func (op BinOp) String() string { return binTokens[op] }

// UnOp is a unary operator in an expression tree.
type UnOp int

// The unary operators Expr supports.
const (
	_ UnOp = iota
	OpNeg
	OpBitNot
	OpLogicalNot
)

var unTokens = map[UnOp]string{OpNeg: "-", OpBitNot: "~", OpLogicalNot: "!"}

// String implements fmt.Stringer.
func (op UnOp) String() string { return unTokens[op] }

// BinExpr is a binary operator applied to two sub-expressions.
type BinExpr struct {
	Op   BinOp
	L, R Expr
}

func (*BinExpr) isExpr() {}

// UnExpr is a unary operator applied to a sub-expression.
type UnExpr struct {
	Op UnOp
	X  Expr
}

func (*UnExpr) isExpr() {}

// IndexExpr is array-subscript navigation on a non-reference expression.
// Navigation on a [RefExpr] instead directly resolves to a refined RefExpr;
// this node only exists for completeness of the tagged union.
type IndexExpr struct {
	X Expr
	I int
}

func (*IndexExpr) isExpr() {}

// MemberExpr is member navigation on a non-reference expression. See
// [IndexExpr].
type MemberExpr struct {
	X    Expr
	Name string
}

func (*MemberExpr) isExpr() {}

// Symbolic is the symbolic counterpart to [BoundView]: it navigates the
// same field tree but produces [Expr] trees instead of decoded values. A
// Symbolic carries no cell; bound and symbolic access are two distinct
// types sharing the same underlying field-node reference.
type Symbolic struct {
	field *Field
}

// NewSymbolic returns a Symbolic rooted at the given field (typically an
// interface root from [Instantiate]).
func NewSymbolic(root *Field) *Symbolic {
	return &Symbolic{field: root}
}

// Field returns the field this Symbolic navigates from.
func (s *Symbolic) Field() *Field { return s.field }

// Ref returns an Expr referencing this Symbolic's field.
func (s *Symbolic) Ref() Expr {
	return &RefExpr{field: s.field}
}

// Child refines this Symbolic to a struct field by name.
func (s *Symbolic) Child(name string) (*Symbolic, error) {
	f, ok := s.field.Child(name)
	if !ok {
		return nil, newErr(errSchemaMismatch, s.field.Path(), "no field named %q", name)
	}
	return &Symbolic{field: f}, nil
}

// Index refines this Symbolic to an array element.
func (s *Symbolic) Index(k int) (*Symbolic, error) {
	f, ok := s.field.Index(k)
	if !ok {
		return nil, newErr(errSchemaMismatch, s.field.Path(), "index %d out of range", k)
	}
	return &Symbolic{field: f}, nil
}

// Const builds a constant Expr from an integer or a string label. A string
// label is resolved to its code when a binary builder ([Eq], [Ne], ...)
// combines it with an enum-typed Ref; combining it with anything else fails
// in that builder with [ErrInvalidType], and a label left unresolved under a
// unary builder fails in [Lower]. A value of any other type fails
// immediately, here at build time, rather than silently standing in for
// some other constant.
func Const(v any) (Expr, error) {
	switch x := v.(type) {
	case string:
		return &ConstExpr{Label: x}, nil
	case *big.Int:
		return &ConstExpr{Int: x}, nil
	case int:
		return &ConstExpr{Int: big.NewInt(int64(x))}, nil
	case int64:
		return &ConstExpr{Int: big.NewInt(x)}, nil
	case uint64:
		return &ConstExpr{Int: new(big.Int).SetUint64(x)}, nil
	default:
		return nil, newErr(errInvalidType, "", "const: unsupported literal type %T", v)
	}
}

// Member builds a Member access on e. If e is a [RefExpr], this resolves
// immediately to a refined RefExpr (a build-time, not run-time, lookup);
// otherwise it constructs a generic MemberExpr node.
func Member(e Expr, name string) (Expr, error) {
	if ref, ok := e.(*RefExpr); ok {
		child, ok := ref.field.Child(name)
		if !ok {
			return nil, newErr(errSchemaMismatch, ref.field.Path(), "no field named %q", name)
		}
		return &RefExpr{field: child}, nil
	}
	return &MemberExpr{X: e, Name: name}, nil
}

// Subscript builds an Index access on e, analogous to [Member].
func Subscript(e Expr, i int) (Expr, error) {
	if ref, ok := e.(*RefExpr); ok {
		child, ok := ref.field.Index(i)
		if !ok {
			return nil, newErr(errSchemaMismatch, ref.field.Path(), "index %d out of range", i)
		}
		return &RefExpr{field: child}, nil
	}
	return &IndexExpr{X: e, I: i}, nil
}

// resolveEnumConst resolves a string-labeled ConstExpr compared against an
// enum-typed RefExpr into its integer code: a Const of type string, when
// compared to an enum leaf, is resolved eagerly using the enum's forward
// map, and an unknown label fails with [ErrUnknownLabel] at build time.
func resolveEnumConst(a, b Expr) (Expr, Expr, error) {
	resolve := func(ref *RefExpr, c *ConstExpr) (*ConstExpr, error) {
		if c.Label == "" {
			return c, nil
		}
		if ref.field.typ.kind != KindEnum {
			return nil, newErr(errInvalidType, ref.field.Path(), "string constant %q compared against a non-enum field", c.Label)
		}
		code, ok := ref.field.typ.enum.Code(c.Label)
		if !ok {
			return nil, newErr(errUnknownLabel, ref.field.Path(), "label %q is not in the enum table", c.Label)
		}
		return &ConstExpr{Int: new(big.Int).SetUint64(code)}, nil
	}

	if ref, ok := a.(*RefExpr); ok {
		if c, ok := b.(*ConstExpr); ok && c.Label != "" {
			rc, err := resolve(ref, c)
			if err != nil {
				return nil, nil, err
			}
			return a, rc, nil
		}
	}
	if ref, ok := b.(*RefExpr); ok {
		if c, ok := a.(*ConstExpr); ok && c.Label != "" {
			rc, err := resolve(ref, c)
			if err != nil {
				return nil, nil, err
			}
			return rc, b, nil
		}
	}
	if c, ok := a.(*ConstExpr); ok && c.Label != "" {
		return nil, nil, newErr(errInvalidType, "", "string constant %q is not compared against a field reference", c.Label)
	}
	if c, ok := b.(*ConstExpr); ok && c.Label != "" {
		return nil, nil, newErr(errInvalidType, "", "string constant %q is not compared against a field reference", c.Label)
	}
	return a, b, nil
}

func bin(op BinOp, a, b Expr) (Expr, error) {
	ra, rb, err := resolveEnumConst(a, b)
	if err != nil {
		return nil, err
	}
	return &BinExpr{Op: op, L: ra, R: rb}, nil
}

// Eq builds an equality comparison. See [resolveEnumConst] for the
// enum-label resolution rule.
func Eq(a, b Expr) (Expr, error) { return bin(OpEq, a, b) }

// Ne builds a disequality comparison.
func Ne(a, b Expr) (Expr, error) { return bin(OpNe, a, b) }

// Lt, Le, Gt, Ge build ordered comparisons.
func Lt(a, b Expr) (Expr, error) { return bin(OpLt, a, b) }
func Le(a, b Expr) (Expr, error) { return bin(OpLe, a, b) }
func Gt(a, b Expr) (Expr, error) { return bin(OpGt, a, b) }
func Ge(a, b Expr) (Expr, error) { return bin(OpGe, a, b) }

// Add, Sub, Mul, Div build arithmetic expressions.
func Add(a, b Expr) (Expr, error) { return bin(OpAdd, a, b) }
func Sub(a, b Expr) (Expr, error) { return bin(OpSub, a, b) }
func Mul(a, b Expr) (Expr, error) { return bin(OpMul, a, b) }
func Div(a, b Expr) (Expr, error) { return bin(OpDiv, a, b) }

// BitAnd, BitOr, BitXor, Shl, Shr build bitwise expressions.
func BitAnd(a, b Expr) (Expr, error) { return bin(OpBitAnd, a, b) }
func BitOr(a, b Expr) (Expr, error)  { return bin(OpBitOr, a, b) }
func BitXor(a, b Expr) (Expr, error) { return bin(OpBitXor, a, b) }
func Shl(a, b Expr) (Expr, error)    { return bin(OpShl, a, b) }
func Shr(a, b Expr) (Expr, error)    { return bin(OpShr, a, b) }

// And, Or build logical expressions.
func And(a, b Expr) (Expr, error) { return bin(OpLogicalAnd, a, b) }
func Or(a, b Expr) (Expr, error)  { return bin(OpLogicalOr, a, b) }

// Neg, Not, BitNot build unary expressions.
func Neg(a Expr) Expr    { return &UnExpr{Op: OpNeg, X: a} }
func Not(a Expr) Expr    { return &UnExpr{Op: OpLogicalNot, X: a} }
func BitNot(a Expr) Expr { return &UnExpr{Op: OpBitNot, X: a} }
