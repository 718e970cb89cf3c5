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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitlayout/bitlayout"
)

func TestEnumLabelConstResolvesEagerly(t *testing.T) {
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
	bin, ok := expr.(*bitlayout.BinExpr)
	require.True(t, ok)
	rhs, ok := bin.R.(*bitlayout.ConstExpr)
	require.True(t, ok)
	assert.Equal(t, uint64(1), rhs.Int.Uint64())
	assert.Equal(t, "", rhs.Label)
}

func TestEnumLabelConstRejectsUnknownLabel(t *testing.T) {
	t.Parallel()

	enum, err := bitlayout.NewEnumTable(map[string]uint64{"RUN": 1})
	require.NoError(t, err)
	status, err := bitlayout.UintEnum(2, enum)
	require.NoError(t, err)
	root := bitlayout.Instantiate(status)
	sym := bitlayout.NewSymbolic(root)

	purpleConst, err := bitlayout.Const("PURPLE")
	require.NoError(t, err)
	_, err = bitlayout.Eq(sym.Ref(), purpleConst)
	assert.ErrorIs(t, err, bitlayout.ErrUnknownLabel)
}

func TestEnumLabelConstRejectsNonEnumField(t *testing.T) {
	t.Parallel()

	root := bitlayout.Instantiate(mustUint(t, 4))
	sym := bitlayout.NewSymbolic(root)

	runConst, err := bitlayout.Const("RUN")
	require.NoError(t, err)
	_, err = bitlayout.Eq(sym.Ref(), runConst)
	assert.ErrorIs(t, err, bitlayout.ErrInvalidType)
}

func TestConstRejectsUnsupportedLiteralType(t *testing.T) {
	t.Parallel()

	_, err := bitlayout.Const(3.14)
	assert.ErrorIs(t, err, bitlayout.ErrInvalidType)

	_, err = bitlayout.Const(true)
	assert.ErrorIs(t, err, bitlayout.ErrInvalidType)

	_, err = bitlayout.Const(nil)
	assert.ErrorIs(t, err, bitlayout.ErrInvalidType)
}

func TestMemberAndSubscriptResolveAtBuildTime(t *testing.T) {
	t.Parallel()

	root := bitlayout.Instantiate(rgbType(t))
	sym := bitlayout.NewSymbolic(root)

	pixels, err := sym.Child("pixels")
	require.NoError(t, err)
	p1, err := pixels.Index(1)
	require.NoError(t, err)
	g, err := p1.Child("g")
	require.NoError(t, err)

	ref, ok := g.Ref().(*bitlayout.RefExpr)
	require.True(t, ok)
	assert.Equal(t, "pixels[1].g", ref.Field().Path())

	_, err = sym.Child("nope")
	assert.ErrorIs(t, err, bitlayout.ErrSchemaMismatch)
}
