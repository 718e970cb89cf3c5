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

package fileio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitlayout/bitlayout"
	"github.com/bitlayout/bitlayout/cmd/bitlayout-dump/internal/fileio"
)

const layoutYAML = `
fields:
  - name: r
    kind: uint
    width: 5
  - name: g
    kind: uint
    width: 6
  - name: b
    kind: uint
    width: 5
`

func TestLoadLayoutAndCell(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	layoutPath := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(layoutPath, []byte(layoutYAML), 0o644))

	typ, err := fileio.LoadLayout(layoutPath)
	require.NoError(t, err)
	assert.Equal(t, 16, typ.Width())

	dataPath := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(dataPath, []byte{0xAB, 0xCD}, 0o644))

	cell, err := fileio.LoadCell(dataPath, typ)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xABCD), cell.Big().Uint64())
}

func TestLoadCellRejectsOversizedData(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r, err := bitlayout.Uint(4)
	require.NoError(t, err)

	dataPath := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(dataPath, []byte{0xFF, 0xFF}, 0o644))

	_, err = fileio.LoadCell(dataPath, r)
	assert.Error(t, err)
}

func TestLoadLayoutMissingFile(t *testing.T) {
	t.Parallel()

	_, err := fileio.LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
