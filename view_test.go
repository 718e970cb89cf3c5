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

func TestPackedPairRoundTrip(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "lo", Type: mustUint(t, 4)},
		{Name: "hi", Type: mustUint(t, 4)},
	})
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	view := bitlayout.BindZero(root)

	require.NoError(t, view.SetValue(mustStruct(t, map[string]any{
		"lo": big.NewInt(0x3),
		"hi": big.NewInt(0xA),
	})))

	assert.Equal(t, uint64(0xA3), view.Raw().Uint64())

	lo, err := view.Child("lo")
	require.NoError(t, err)
	v, err := lo.Value()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3), v.(*big.Int).Uint64())
}

func TestStraddledFieldRoundTrip(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "flag", Type: mustUint(t, 4)},
		{Name: "mid", Type: mustUint(t, 12)}, // bits [4,16), straddles bytes 0 and 1.
		{Name: "tail", Type: mustUint(t, 8)},
	})
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	view := bitlayout.BindZero(root)

	require.NoError(t, view.SetValue(mustStruct(t, map[string]any{
		"flag": 0xF,
		"mid":  0xABC,
		"tail": 0x55,
	})))

	mid, err := view.Child("mid")
	require.NoError(t, err)
	assert.Equal(t, uint64(0xABC), mid.Raw().Uint64())
	assert.Equal(t, uint64(0x55ABCF), view.Raw().Uint64())
}

func TestSignedRoundTrip(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Sint(8)
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	view := bitlayout.BindZero(root)

	for _, want := range []int64{0, 1, -1, 127, -128} {
		require.NoError(t, view.SetValue(big.NewInt(want)))
		v, err := view.Value()
		require.NoError(t, err)
		assert.Equal(t, want, v.(*big.Int).Int64())
	}
}

func TestSignedOverflowRejected(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Sint(4)
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	view := bitlayout.BindZero(root)

	err = view.SetValue(big.NewInt(100))
	assert.ErrorIs(t, err, bitlayout.ErrOverflow)
}

func TestEnumRoundTripAndUnknownCode(t *testing.T) {
	t.Parallel()

	enum, err := bitlayout.NewEnumTable(map[string]uint64{"RED": 0, "GREEN": 1, "BLUE": 2})
	require.NoError(t, err)
	ty, err := bitlayout.UintEnum(4, enum)
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	view := bitlayout.BindZero(root)

	require.NoError(t, view.SetValue("GREEN"))
	v, err := view.Value()
	require.NoError(t, err)
	assert.Equal(t, "GREEN", v)

	require.NoError(t, view.SetRaw(big.NewInt(9)))
	v, err = view.Value()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v.(*big.Int).Uint64())

	err = view.SetValue("PURPLE")
	assert.ErrorIs(t, err, bitlayout.ErrUnknownLabel)
}

func TestSetValueIsTransactional(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "a", Type: mustUint(t, 4)},
		{Name: "b", Type: mustUint(t, 4)},
	})
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	view := bitlayout.BindZero(root)

	require.NoError(t, view.SetValue(mustStruct(t, map[string]any{
		"a": big.NewInt(5), "b": big.NewInt(5),
	})))
	before := view.Raw().Uint64()

	// "b" overflows its 4-bit width; the whole write must be rejected,
	// including the otherwise-valid "a" assignment.
	err = view.SetValue(mustStruct(t, map[string]any{
		"a": big.NewInt(1), "b": big.NewInt(99),
	}))
	assert.Error(t, err)
	assert.Equal(t, before, view.Raw().Uint64())
}

// TestRawRoundTripExhaustive8Bit backs spec §8's invariant that SetRaw/Raw
// round-trip for every raw value in [0, 2^width) by sweeping all 256 values
// of an 8-bit struct, rather than a handful of representative examples.
func TestRawRoundTripExhaustive8Bit(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "lo", Type: mustUint(t, 4)},
		{Name: "hi", Type: mustUint(t, 4)},
	})
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	view := bitlayout.BindZero(root)

	for n := 0; n < 256; n++ {
		require.NoError(t, view.SetRaw(big.NewInt(int64(n))))
		assert.Equal(t, uint64(n), view.Raw().Uint64())

		lo, err := view.Child("lo")
		require.NoError(t, err)
		hi, err := view.Child("hi")
		require.NoError(t, err)
		assert.Equal(t, uint64(n&0xF), lo.Raw().Uint64())
		assert.Equal(t, uint64(n>>4), hi.Raw().Uint64())
	}
}

// TestSignedRoundTripExhaustive8Bit backs the same invariant for a signed
// leaf: every raw 8-bit pattern decodes to a value whose re-encoding
// reproduces the original pattern.
func TestSignedRoundTripExhaustive8Bit(t *testing.T) {
	t.Parallel()

	ty, err := bitlayout.Sint(8)
	require.NoError(t, err)
	root := bitlayout.Instantiate(ty)
	view := bitlayout.BindZero(root)

	for n := 0; n < 256; n++ {
		require.NoError(t, view.SetRaw(big.NewInt(int64(n))))
		v, err := view.Value()
		require.NoError(t, err)
		require.NoError(t, view.SetValue(v))
		assert.Equal(t, uint64(n), view.Raw().Uint64())
	}
}

func mustStruct(t *testing.T, m map[string]any) *bitlayout.StructValue {
	t.Helper()
	sv := bitlayout.NewStructValue()
	// Deterministic order doesn't matter for encodeInto, which looks values
	// up by name; tests only rely on Set/Get.
	for k, v := range m {
		sv.Set(k, v)
	}
	return sv
}
