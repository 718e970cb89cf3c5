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

	"github.com/google/uuid"
)

// CustomEncode converts a structured value into the raw bits of a custom
// leaf's width-bit window. The returned integer must satisfy 0 <= n <
// 2^width; violating this is reported back to the caller as [ErrInvalidType].
type CustomEncode func(value any) (*big.Int, error)

// CustomDecode converts the raw bits of a custom leaf's width-bit window
// into a structured value.
type CustomDecode func(raw *big.Int) (any, error)

// CustomJSON converts a decoded value (as returned by a [CustomDecode]) into
// a JSON-marshalable representation.
type CustomJSON func(value any) (any, error)

// customKind is the payload of a registered custom [Type].
type customKind struct {
	id      uuid.UUID
	name    string
	encode  CustomEncode
	decode  CustomDecode
	jsonify CustomJSON
}

// Registry holds user-registered custom leaf types. A Registry is a plain
// value the caller constructs and owns: custom types are never published
// through a process-wide singleton, so independently constructed registries
// (and the Types they mint) never collide and remain independently
// testable. Each registered Type carries a unique identity minted at
// registration time, so Types from two different Registry values are never
// mistaken for one another even if registered under the same name.
type Registry struct {
	byName map[string]*Type
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Type)}
}

// Register extends the registry with a custom leaf type of the given
// width, dispatching reads and writes to decode/encode and JSON rendering
// to jsonify. The returned Type can be used anywhere a built-in Type can,
// including as a [Struct] field or [Array] element.
//
// A custom type must honor the fundamental round-trip law
// (decode(encode(v)) == v, encode(decode(n)) == n) and must never report a
// width different from the number of bits it actually reads or writes;
// violating the latter is reported as [ErrInvalidType] at encode time.
func (r *Registry) Register(name string, width int, encode CustomEncode, decode CustomDecode, jsonify CustomJSON) (*Type, error) {
	if width <= 0 {
		return nil, newErr(errInvalidWidth, name, "custom type width must be positive, got %d", width)
	}
	if encode == nil || decode == nil || jsonify == nil {
		return nil, newErr(errInvalidType, name, "custom type requires encode, decode, and jsonify functions")
	}
	t := &Type{
		kind:  KindCustom,
		width: width,
		custom: &customKind{
			id:      uuid.New(),
			name:    name,
			encode:  encode,
			decode:  decode,
			jsonify: jsonify,
		},
	}
	r.byName[name] = t
	return t, nil
}

// Lookup returns the Type previously registered under name, if any.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}
