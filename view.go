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

import (
	"math/big"

	"github.com/bitlayout/bitlayout/internal/bigint"
)

// Cell is the mutable raw-integer cell a [BoundView] reads and writes
// through. The zero Cell holds zero; the cell outlives every view bound to
// it, and every view bound to the same cell observes the others' writes
// immediately, since there is no decoded-copy caching anywhere in this
// package.
type Cell struct {
	inner bigint.Cell
}

// NewCell returns a Cell holding n.
func NewCell(n *big.Int) *Cell {
	return &Cell{inner: *bigint.NewCell(n)}
}

// NewCellUint64 returns a Cell holding the given native value.
func NewCellUint64(n uint64) *Cell {
	return &Cell{inner: *bigint.NewCellUint64(n)}
}

// Big returns a copy of the cell's current value.
func (c *Cell) Big() *big.Int { return c.inner.Big() }

// BoundView binds a [Field] to a mutable [Cell] and exposes the Raw/Value/
// JSON read-write accessors. A BoundView is a thin, non-owning reference: it
// holds neither the field tree nor the cell, so copying a BoundView is
// cheap and binding many views to the same cell is the normal way to get a
// coherent family of sibling accessors.
type BoundView struct {
	field *Field
	cell  *Cell
}

// Bind attaches cell to the field tree rooted at root, returning a view
// over the whole interface.
func Bind(root *Field, cell *Cell) *BoundView {
	return &BoundView{field: root, cell: cell}
}

// BindZero is Bind with a freshly allocated, zero-valued cell.
func BindZero(root *Field) *BoundView {
	return Bind(root, NewCellUint64(0))
}

// Field returns the field this view is bound to.
func (v *BoundView) Field() *Field { return v.field }

// Cell returns the cell this view is bound to.
func (v *BoundView) Cell() *Cell { return v.cell }

// At rebinds this view to a descendant field, resolved by dotted/bracketed
// path, sharing the same cell (so writes through the returned view are
// visible to v and vice versa).
func (v *BoundView) At(path string) (*BoundView, error) {
	f, err := v.field.Get(path)
	if err != nil {
		return nil, err
	}
	return &BoundView{field: f, cell: v.cell}, nil
}

// Child is At for a single struct field name.
func (v *BoundView) Child(name string) (*BoundView, error) {
	f, ok := v.field.Child(name)
	if !ok {
		return nil, newErr(errSchemaMismatch, v.field.Path(), "no field named %q", name)
	}
	return &BoundView{field: f, cell: v.cell}, nil
}

// Index is At for a single array element.
func (v *BoundView) Index(k int) (*BoundView, error) {
	f, ok := v.field.Index(k)
	if !ok {
		return nil, newErr(errSchemaMismatch, v.field.Path(), "index %d out of range", k)
	}
	return &BoundView{field: f, cell: v.cell}, nil
}

// Raw reads the bound field's window out of the cell: (raw >> offset) &
// mask, with no sign-extension or enum lookup applied.
func (v *BoundView) Raw() *big.Int {
	return v.cell.inner.Window(v.field.offset, v.field.typ.width)
}

// SetRaw overwrites the bound field's window with the low Width() bits of
// n, failing with [ErrOverflow] (and leaving the cell unchanged) if n does
// not fit.
func (v *BoundView) SetRaw(n *big.Int) error {
	if !bigint.FitsUnsigned(n, v.field.typ.width) {
		return newErr(errOverflow, v.field.Path(), "value %s does not fit in %d bits", n, v.field.typ.width)
	}
	v.cell.inner.SetWindow(v.field.offset, v.field.typ.width, n)
	return nil
}

// Value decodes the bound field's current value.
func (v *BoundView) Value() (any, error) {
	return decode(v.field, &v.cell.inner)
}

// SetValue encodes val and writes it through to the cell. The write is
// transactional: it is computed against a private copy of the cell and only
// committed once the whole (possibly recursive) encode succeeds, so a
// failure anywhere leaves the cell byte-for-byte unchanged.
func (v *BoundView) SetValue(val any) error {
	priv := bigint.NewCell(v.cell.inner.Big())
	if err := encodeInto(v.field, priv, val); err != nil {
		return err
	}
	v.cell.inner.SetBig(priv.Big())
	return nil
}
