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

// Package fileio holds the small file-loading helpers shared by the
// bitlayout-dump subcommands.
package fileio

import (
	"fmt"
	"math/big"
	"os"

	"al.essio.dev/pkg/shellescape"

	"github.com/bitlayout/bitlayout"
	"github.com/bitlayout/bitlayout/dsl"
)

// LoadLayout reads and parses a YAML layout file at path.
func LoadLayout(path string) (*bitlayout.Type, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layout %s: %w", shellescape.Quote(path), err)
	}
	defer f.Close()

	t, err := dsl.Load(f)
	if err != nil {
		return nil, fmt.Errorf("parsing layout %s: %w", shellescape.Quote(path), err)
	}
	return t, nil
}

// LoadCell reads the raw bytes at path and wraps them as a big-endian cell
// sized for typ.
func LoadCell(path string, typ *bitlayout.Type) (*bitlayout.Cell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data %s: %w", shellescape.Quote(path), err)
	}
	n := new(big.Int).SetBytes(data)
	if n.BitLen() > typ.Width() {
		return nil, fmt.Errorf("data %s is wider than the %d-bit layout", shellescape.Quote(path), typ.Width())
	}
	return bitlayout.NewCell(n), nil
}
