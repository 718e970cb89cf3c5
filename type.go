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
	"strings"
)

// reservedSuffix marks accessor names (size_, raw_, value_, json_, type_,
// offset_) as distinct from field names. A field name may not end in it.
const reservedSuffix = "_"

// Kind is the tag of a [Type]'s payload.
type Kind int

// The kinds of type this package understands.
const (
	_ Kind = iota
	KindUint
	KindSint
	KindEnum
	KindStruct
	KindArray
	KindUtf8
	KindCustom
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindSint:
		return "sint"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindUtf8:
		return "utf8"
	case KindCustom:
		return "custom"
	default:
		return "invalid"
	}
}

// StructField is one (name, Type) pair in a [Struct] definition. Declaration
// order is significant: it fixes both bit layout and JSON key order.
type StructField struct {
	Name string
	Type *Type
}

// Type is an immutable descriptor of a bit-aligned layout: its width in
// bits and the rule for decoding a raw window of that width. Types are
// value objects: once constructed they never change, and may be shared by
// any number of field trees.
type Type struct {
	kind  Kind
	width int

	enum *EnumTable // KindEnum

	fields []StructField // KindStruct
	byName map[string]int

	elem   *Type // KindArray
	length int

	custom *customKind // KindCustom
}

// Width returns the type's width in bits.
func (t *Type) Width() int { return t.width }

// Kind returns the type's kind tag.
func (t *Type) Kind() Kind { return t.kind }

// Enum returns the type's enum table, if it has one (a KindEnum type, as
// built by [UintEnum]). Nil for any other kind.
func (t *Type) Enum() *EnumTable { return t.enum }

// Fields returns a struct type's declared fields, in declaration order. Nil
// for any other kind.
func (t *Type) Fields() []StructField { return t.fields }

// Elem returns an array type's element type. Nil for any other kind.
func (t *Type) Elem() *Type { return t.elem }

// Len returns an array type's declared length. Zero for any other kind.
func (t *Type) Len() int { return t.length }

// Uint constructs an unsigned integer type of the given width, in bits.
func Uint(width int) (*Type, error) {
	if width <= 0 {
		return nil, newErr(errInvalidWidth, "", "uint width must be positive, got %d", width)
	}
	return &Type{kind: KindUint, width: width}, nil
}

// UintEnum constructs an unsigned integer type of the given width with an
// attached label table. Reading a code present in the table's reverse map
// yields the label; reading any other code yields the raw integer.
func UintEnum(width int, enum *EnumTable) (*Type, error) {
	t, err := Uint(width)
	if err != nil {
		return nil, err
	}
	if enum == nil {
		return nil, newErr(errInvalidType, "", "enum table must not be nil")
	}
	t.kind = KindEnum
	t.enum = enum
	return t, nil
}

// Sint constructs a two's-complement signed integer type of the given
// width, in bits. The decoded value lies in [-2^(w-1), 2^(w-1)).
func Sint(width int) (*Type, error) {
	if width <= 0 {
		return nil, newErr(errInvalidWidth, "", "sint width must be positive, got %d", width)
	}
	return &Type{kind: KindSint, width: width}, nil
}

// Utf8 constructs a fixed-capacity UTF-8 string type occupying byteLength
// bytes (8*byteLength bits). The string is stored big-endian at the
// high-order end of the window, so byte 0 of the string is the window's most
// significant byte; encoding a shorter string zero-pads the unused
// low-order bytes, and encoding bytes that overflow the capacity fails with
// [ErrOverflow].
func Utf8(byteLength int) (*Type, error) {
	if byteLength < 0 {
		return nil, newErr(errInvalidWidth, "", "utf8 byte length must be non-negative, got %d", byteLength)
	}
	return &Type{kind: KindUtf8, width: 8 * byteLength}, nil
}

// Struct constructs a packed struct type from an ordered list of (name,
// Type) fields. Field names must be unique and must not end in the
// reserved "_" accessor-name suffix. The struct's width is the sum of its
// fields' widths; fields are laid out in declaration order with the first
// field occupying the low-order bits of the raw integer.
func Struct(fields []StructField) (*Type, error) {
	byName := make(map[string]int, len(fields))
	width := 0
	for i, f := range fields {
		if f.Type == nil {
			return nil, newErr(errInvalidType, f.Name, "field has a nil type")
		}
		if strings.HasSuffix(f.Name, reservedSuffix) {
			return nil, newErr(errReservedName, f.Name, "field name ends in reserved suffix %q", reservedSuffix)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, newErr(errDuplicateName, f.Name, "duplicate field name")
		}
		byName[f.Name] = i
		width += f.Type.width
	}
	out := make([]StructField, len(fields))
	copy(out, fields)
	return &Type{kind: KindStruct, width: width, fields: out, byName: byName}, nil
}

// Array constructs a homogeneous array type of n elements of type elem.
// Width equals n*elem.Width(); element k lies at offset k*elem.Width()
// relative to the array's own offset.
func Array(elem *Type, n int) (*Type, error) {
	if elem == nil {
		return nil, newErr(errInvalidType, "", "array element type is nil")
	}
	if n < 0 {
		return nil, newErr(errInvalidWidth, "", "array length must be non-negative, got %d", n)
	}
	return &Type{kind: KindArray, width: elem.width * n, elem: elem, length: n}, nil
}

// Array is sugar for Array(t, n): the surface syntax T[n].
func (t *Type) Array(n int) (*Type, error) {
	return Array(t, n)
}

// Equal reports whether t and other describe structurally identical
// layouts. Equality is on the computed payload, not identity, so type
// interning is legal but never required.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.kind != other.kind || t.width != other.width {
		return false
	}
	switch t.kind {
	case KindUint, KindSint, KindUtf8:
		return true
	case KindEnum:
		return t.enum.equal(other.enum)
	case KindStruct:
		if len(t.fields) != len(other.fields) {
			return false
		}
		for i, f := range t.fields {
			g := other.fields[i]
			if f.Name != g.Name || !f.Type.Equal(g.Type) {
				return false
			}
		}
		return true
	case KindArray:
		return t.length == other.length && t.elem.Equal(other.elem)
	case KindCustom:
		return t.custom.id == other.custom.id
	default:
		return false
	}
}

// String implements fmt.Stringer with a short, debug-oriented rendering.
func (t *Type) String() string {
	switch t.kind {
	case KindUint:
		return fmt.Sprintf("uint(%d)", t.width)
	case KindEnum:
		return fmt.Sprintf("uint(%d, %s)", t.width, t.enum)
	case KindSint:
		return fmt.Sprintf("sint(%d)", t.width)
	case KindUtf8:
		return fmt.Sprintf("utf8(%d)", t.width/8)
	case KindStruct:
		var b strings.Builder
		b.WriteString("struct(")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", f.Name, f.Type)
		}
		b.WriteString(")")
		return b.String()
	case KindArray:
		return fmt.Sprintf("%s[%d]", t.elem, t.length)
	case KindCustom:
		return fmt.Sprintf("custom(%s, %d)", t.custom.name, t.width)
	default:
		return "invalid"
	}
}
