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

func rgbType(t *testing.T) *bitlayout.Type {
	t.Helper()
	pixel, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "r", Type: mustUint(t, 5)},
		{Name: "g", Type: mustUint(t, 6)},
		{Name: "b", Type: mustUint(t, 5)},
	})
	require.NoError(t, err)
	row, err := pixel.Array(2)
	require.NoError(t, err)
	frame, err := bitlayout.Struct([]bitlayout.StructField{
		{Name: "pixels", Type: row},
	})
	require.NoError(t, err)
	return frame
}

func TestInstantiateAssignsOffsets(t *testing.T) {
	t.Parallel()

	root := bitlayout.Instantiate(rgbType(t))
	pixels, ok := root.Child("pixels")
	require.True(t, ok)

	p0, ok := pixels.Index(0)
	require.True(t, ok)
	p1, ok := pixels.Index(1)
	require.True(t, ok)

	r0, ok := p0.Child("r")
	require.True(t, ok)
	g0, ok := p0.Child("g")
	require.True(t, ok)
	b0, ok := p0.Child("b")
	require.True(t, ok)

	assert.Equal(t, 0, r0.Offset())
	assert.Equal(t, 5, g0.Offset())
	assert.Equal(t, 11, b0.Offset())
	assert.Equal(t, 16, p1.Offset())
	assert.Equal(t, 32, root.Width())
}

func TestFieldPath(t *testing.T) {
	t.Parallel()

	root := bitlayout.Instantiate(rgbType(t))
	f, err := root.Get("pixels[1].g")
	require.NoError(t, err)
	assert.Equal(t, "pixels[1].g", f.Path())
}

func TestGetReportsMissingFieldsAndIndexes(t *testing.T) {
	t.Parallel()

	root := bitlayout.Instantiate(rgbType(t))

	_, err := root.Get("pixels[5].r")
	assert.ErrorIs(t, err, bitlayout.ErrSchemaMismatch)

	_, err = root.Get("pixels[0].nope")
	assert.ErrorIs(t, err, bitlayout.ErrSchemaMismatch)
}
