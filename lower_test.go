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

package bitlayout_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitlayout/bitlayout"
)

// evalIR interprets ir against a single unsubscripted raw value, in the same
// C-family semantics [Render] targets: comparisons and logical operators
// yield 0 or 1 rather than a native bool.
func evalIR(t *testing.T, ir bitlayout.IR, raw *big.Int) *big.Int {
	t.Helper()
	switch x := ir.(type) {
	case *bitlayout.IRShiftAnd:
		require.Equal(t, -1, x.Word, "evalIR only supports unsubscripted symbols")
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(x.Width)), big.NewInt(1))
		return new(big.Int).And(new(big.Int).Rsh(raw, uint(x.Offset)), mask)
	case *bitlayout.IRSignExtend:
		v := evalIR(t, x.X, raw)
		sign := new(big.Int).Lsh(big.NewInt(1), uint(x.Width-1))
		return new(big.Int).Sub(new(big.Int).Xor(v, sign), sign)
	case *bitlayout.IRConst:
		return x.Value
	case *bitlayout.IRBin:
		l, r := evalIR(t, x.L, raw), evalIR(t, x.R, raw)
		boolInt := func(b bool) *big.Int {
			if b {
				return big.NewInt(1)
			}
			return big.NewInt(0)
		}
		switch x.Op {
		case bitlayout.OpAdd:
			return new(big.Int).Add(l, r)
		case bitlayout.OpSub:
			return new(big.Int).Sub(l, r)
		case bitlayout.OpMul:
			return new(big.Int).Mul(l, r)
		case bitlayout.OpBitAnd:
			return new(big.Int).And(l, r)
		case bitlayout.OpBitOr:
			return new(big.Int).Or(l, r)
		case bitlayout.OpBitXor:
			return new(big.Int).Xor(l, r)
		case bitlayout.OpEq:
			return boolInt(l.Cmp(r) == 0)
		case bitlayout.OpNe:
			return boolInt(l.Cmp(r) != 0)
		case bitlayout.OpLt:
			return boolInt(l.Cmp(r) < 0)
		case bitlayout.OpLe:
			return boolInt(l.Cmp(r) <= 0)
		case bitlayout.OpGt:
			return boolInt(l.Cmp(r) > 0)
		case bitlayout.OpGe:
			return boolInt(l.Cmp(r) >= 0)
		case bitlayout.OpLogicalAnd:
			return boolInt(l.Sign() != 0 && r.Sign() != 0)
		case bitlayout.OpLogicalOr:
			return boolInt(l.Sign() != 0 || r.Sign() != 0)
		default:
			t.Fatalf("evalIR: unhandled binary operator %v", x.Op)
			return nil
		}
	default:
		t.Fatalf("evalIR: unhandled IR node %T", ir)
		return nil
	}
}

func TestLowerUnsignedField(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "a", Type: mustUint(t, 4)},
		{Name: "b", Type: mustUint(t, 4)},
	})
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	b, _ := root.Child("b")
	sym := bitlayout.NewSymbolic(b)

	ir, err := bitlayout.Lower(sym.Ref(), bitlayout.LowerOptions{})
	require.NoError(t, err)
	sa, ok := ir.(*bitlayout.IRShiftAnd)
	require.True(t, ok)
	assert.Equal(t, 4, sa.Offset)
	assert.Equal(t, 4, sa.Width)

	assert.Equal(t, "((x >> 4) & 15)", bitlayout.Render(ir, bitlayout.RenderOptions{}))
}

func TestLowerSignedFieldWrapsInSignExtend(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Sint(8)
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	sym := bitlayout.NewSymbolic(root)

	ir, err := bitlayout.Lower(sym.Ref(), bitlayout.LowerOptions{})
	require.NoError(t, err)
	_, ok := ir.(*bitlayout.IRSignExtend)
	require.True(t, ok)

	rendered := bitlayout.Render(ir, bitlayout.RenderOptions{Symbol: "w"})
	assert.Equal(t, "((((w >> 0) & 255) ^ 128) - 128)", rendered)
}

func TestLowerWordIndexed(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "a", Type: mustUint(t, 32)},
		{Name: "b", Type: mustUint(t, 8)},
	})
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	b, _ := root.Child("b")
	sym := bitlayout.NewSymbolic(b)

	ir, err := bitlayout.Lower(sym.Ref(), bitlayout.LowerOptions{WordWidth: 32})
	require.NoError(t, err)
	sa, ok := ir.(*bitlayout.IRShiftAnd)
	require.True(t, ok)
	assert.Equal(t, 1, sa.Word)
	assert.Equal(t, 0, sa.Offset)

	assert.Equal(t, "((x[1] >> 0) & 255)", bitlayout.Render(ir, bitlayout.RenderOptions{}))
}

func TestLowerRejectsFieldStraddlingWordBoundary(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "a", Type: mustUint(t, 28)},
		{Name: "b", Type: mustUint(t, 8)}, // bits [28,36), straddles the 32-bit boundary.
	})
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	b, _ := root.Child("b")
	sym := bitlayout.NewSymbolic(b)

	_, err = bitlayout.Lower(sym.Ref(), bitlayout.LowerOptions{WordWidth: 32})
	assert.ErrorIs(t, err, bitlayout.ErrInvalidType)
}

// TestLowerAgreesWithDirectReadExhaustive backs spec §8's claim that
// render(lower(e)), evaluated against the raw integer, agrees with a direct
// field read/comparison for every raw value the interface can hold — swept
// exhaustively over a small 8-bit interface rather than a few examples.
func TestLowerAgreesWithDirectReadExhaustive(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "a", Type: mustUint(t, 3)},
		{Name: "b", Type: mustUint(t, 5)},
	})
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	a, _ := root.Child("a")
	sym := bitlayout.NewSymbolic(a)

	three, err := bitlayout.Const(3)
	require.NoError(t, err)
	expr, err := bitlayout.Eq(sym.Ref(), three)
	require.NoError(t, err)
	ir, err := bitlayout.Lower(expr, bitlayout.LowerOptions{})
	require.NoError(t, err)

	view := bitlayout.BindZero(root)
	for n := 0; n < 256; n++ {
		raw := big.NewInt(int64(n))
		require.NoError(t, view.SetRaw(raw))

		av, err := view.Child("a")
		require.NoError(t, err)
		want := big.NewInt(0)
		if av.Raw().Uint64() == 3 {
			want = big.NewInt(1)
		}

		got := evalIR(t, ir, raw)
		assert.Equal(t, want.Uint64(), got.Uint64(), "raw=%d", n)
	}
}

func TestLowerComparisonTree(t *testing.T) {
	t.Parallel()

	enum, err := bitlayout.NewEnumTable(map[string]uint64{"RUN": 1, "IDLE": 0})
	require.NoError(t, err)
	status, err := bitlayout.UintEnum(2, enum)
	require.NoError(t, err)
	root := bitlayout.Instantiate(status)
	sym := bitlayout.NewSymbolic(root)

	runConst, err := bitlayout.Const("RUN")
	require.NoError(t, err)
	expr, err := bitlayout.Eq(sym.Ref(), runConst)
	require.NoError(t, err)

	ir, err := bitlayout.Lower(expr, bitlayout.LowerOptions{})
	require.NoError(t, err)
	assert.Equal(t, "(((x >> 0) & 3) == 1)", bitlayout.Render(ir, bitlayout.RenderOptions{}))
}
