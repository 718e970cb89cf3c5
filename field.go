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
	"fmt"
	"strconv"
	"strings"

	"github.com/bitlayout/bitlayout/internal/swiss"
)

// Field is a named, offset-annotated instantiation of a [Type]: one node of
// a field tree built once per interface. Offsets are absolute, measured
// from bit 0 of the interface. Field trees are immutable once built and may
// be freely shared as read-only references across goroutines.
type Field struct {
	name   string
	typ    *Type
	offset int
	parent *Field

	children []*Field           // struct fields or array elements, in order.
	byName   *swiss.Table[string, int] // struct only: name -> index in children.
}

// Name returns the field's own name ("" for the interface root).
func (f *Field) Name() string { return f.name }

// Type returns the field's type.
func (f *Field) Type() *Type { return f.typ }

// Width returns the field's width in bits (== f.Type().Width()).
func (f *Field) Width() int { return f.typ.width }

// Offset returns the field's absolute bit offset from bit 0 of the
// interface.
func (f *Field) Offset() int { return f.offset }

// Parent returns the field's parent in the tree, or nil for the root.
func (f *Field) Parent() *Field { return f.parent }

// Children returns a struct field's children or an array's elements, in
// order. Nil for a leaf field.
func (f *Field) Children() []*Field { return f.children }

// Child looks up a struct field's child by name in O(1).
func (f *Field) Child(name string) (*Field, bool) {
	if f.byName == nil {
		return nil, false
	}
	idx := f.byName.Lookup(name)
	if idx == nil {
		return nil, false
	}
	return f.children[*idx], true
}

// Index looks up an array field's k'th element.
func (f *Field) Index(k int) (*Field, bool) {
	if f.typ.kind != KindArray || k < 0 || k >= len(f.children) {
		return nil, false
	}
	return f.children[k], true
}

// Path returns the field's dotted/bracketed path from the interface root,
// e.g. "foo.page[2]". The root's path is "".
func (f *Field) Path() string {
	if f.parent == nil {
		return ""
	}
	var parts []string
	for n := f; n.parent != nil; n = n.parent {
		if n.parent.typ.kind == KindArray {
			parts = append(parts, "["+n.name+"]")
		} else if n.parent.parent != nil {
			parts = append(parts, "."+n.name)
		} else {
			parts = append(parts, n.name)
		}
	}
	// parts was built leaf-to-root; reverse it.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "")
}

// Instantiate builds the field tree for t: a pre-order walk that assigns
// each node its absolute bit offset. The result is the interface's root
// Field, at offset 0.
func Instantiate(t *Type) *Field {
	return build("", t, nil, 0)
}

func build(name string, t *Type, parent *Field, offset int) *Field {
	f := &Field{name: name, typ: t, offset: offset, parent: parent}
	switch t.kind {
	case KindStruct:
		f.byName = new(swiss.Table[string, int])
		off := offset
		for i, sf := range t.fields {
			child := build(sf.Name, sf.Type, f, off)
			f.children = append(f.children, child)
			f.byName.Insert(sf.Name, i)
			off += sf.Type.width
		}
	case KindArray:
		for k := 0; k < t.length; k++ {
			child := build(strconv.Itoa(k), t.elem, f, offset+k*t.elem.width)
			f.children = append(f.children, child)
		}
	}
	return f
}

// String implements fmt.Stringer with a short debug rendering.
func (f *Field) String() string {
	path := f.Path()
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("%s@%d:%d(%s)", path, f.offset, f.typ.width, f.typ.kind)
}

// Get resolves a dotted/bracketed path (e.g. "a.b[3].c") against this field,
// the generic accessor route for hosts with no ergonomic static binding.
func (f *Field) Get(path string) (*Field, error) {
	if path == "" {
		return f, nil
	}
	cur := f
	for _, seg := range splitPath(path) {
		if seg.index {
			child, ok := cur.Index(seg.n)
			if !ok {
				return nil, newErr(errSchemaMismatch, cur.Path(), "index %d out of range", seg.n)
			}
			cur = child
			continue
		}
		child, ok := cur.Child(seg.name)
		if !ok {
			return nil, newErr(errSchemaMismatch, cur.Path(), "no field named %q", seg.name)
		}
		cur = child
	}
	return cur, nil
}

type pathSeg struct {
	name  string
	n     int
	index bool
}

// splitPath parses "a.b[3].c" into [{name:a} {name:b} {index:3} {name:c}].
func splitPath(path string) []pathSeg {
	var segs []pathSeg
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, pathSeg{name: cur.String()})
			cur.Reset()
		}
	}
	i := 0
	for i < len(path) {
		switch path[i] {
		case '.':
			flush()
			i++
		case '[':
			flush()
			j := strings.IndexByte(path[i:], ']')
			if j < 0 {
				// Malformed path; treat the rest as a literal name segment.
				cur.WriteString(path[i:])
				i = len(path)
				continue
			}
			n, _ := strconv.Atoi(path[i+1 : i+j])
			segs = append(segs, pathSeg{n: n, index: true})
			i += j + 1
		default:
			cur.WriteByte(path[i])
			i++
		}
	}
	flush()
	return segs
}
