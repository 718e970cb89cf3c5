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

	"github.com/bitlayout/bitlayout"
)

func TestRenderConstAndUnary(t *testing.T) {
	t.Parallel()

	c := &bitlayout.IRConst{Value: big.NewInt(42)}
	assert.Equal(t, "42", bitlayout.Render(c, bitlayout.RenderOptions{}))

	neg := &bitlayout.IRUn{Op: bitlayout.OpNeg, X: c}
	assert.Equal(t, "(-42)", bitlayout.Render(neg, bitlayout.RenderOptions{}))
}

func TestRenderBinaryAlwaysParenthesized(t *testing.T) {
	t.Parallel()

	left := &bitlayout.IRShiftAnd{Word: -1, Offset: 0, Width: 4}
	right := &bitlayout.IRConst{Value: big.NewInt(3)}
	add := &bitlayout.IRBin{Op: bitlayout.OpAdd, L: left, R: right}
	mul := &bitlayout.IRBin{Op: bitlayout.OpMul, L: add, R: right}

	assert.Equal(t, "(((x >> 0) & 15) + 3)", bitlayout.Render(add, bitlayout.RenderOptions{}))
	assert.Equal(t, "((((x >> 0) & 15) + 3) * 3)", bitlayout.Render(mul, bitlayout.RenderOptions{}))
}

func TestRenderDefaultSymbolIsX(t *testing.T) {
	t.Parallel()

	sa := &bitlayout.IRShiftAnd{Word: -1, Offset: 2, Width: 3}
	assert.Equal(t, "((x >> 2) & 7)", bitlayout.Render(sa, bitlayout.RenderOptions{Symbol: ""}))
	assert.Equal(t, "((y >> 2) & 7)", bitlayout.Render(sa, bitlayout.RenderOptions{Symbol: "y"}))
}
