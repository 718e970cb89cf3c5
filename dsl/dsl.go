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

// Package dsl is the declarative, "class style" surface syntax for
// bitlayout types: a YAML document describing a layout, loaded into exactly
// the same Struct/Array/Uint/Sint/Utf8/UintEnum constructor calls a
// hand-written program would make. A type built from YAML and the
// structurally equivalent hand-built type compare Equal, since this package
// is pure sugar over the root package's constructors — it carries no layout
// logic of its own.
package dsl

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bitlayout/bitlayout"
)

// node is the recursive YAML shape for a single type. Kind may be omitted
// when it is inferable: a node with Fields is a struct, a node with Elem is
// an array, a node with Labels (and no Kind) is an enum. "array: N" is
// shorthand for wrapping the rest of the node in an N-element array, so a
// scalar field can be declared inline as repeated without a nested elem
// node.
type node struct {
	Kind   string            `yaml:"kind,omitempty"`
	Width  int               `yaml:"width,omitempty"`
	Bytes  int               `yaml:"bytes,omitempty"`
	Labels map[string]uint64 `yaml:"labels,omitempty"`
	Fields []field           `yaml:"fields,omitempty"`
	Elem   *node             `yaml:"elem,omitempty"`
	Length int               `yaml:"length,omitempty"`
	Array  int               `yaml:"array,omitempty"`
}

// field is one named entry in a struct node's field list.
type field struct {
	Name string `yaml:"name"`
	node `yaml:",inline"`
}

// document is the top-level YAML shape: a name (documentation only) plus
// the root node, inlined so that "fields:" can appear at the top level.
type document struct {
	Name string `yaml:"name,omitempty"`
	node `yaml:",inline"`
}

// Load parses a YAML layout description from r and builds the
// corresponding [bitlayout.Type]. Unknown YAML keys are rejected, matching
// the JSON accessors' "rejects unknown keys" behavior.
func Load(r io.Reader) (*bitlayout.Type, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("dsl: %w", err)
	}
	return build(&doc.node)
}

func build(n *node) (*bitlayout.Type, error) {
	base, err := buildBase(n)
	if err != nil {
		return nil, err
	}
	if n.Array > 0 {
		return bitlayout.Array(base, n.Array)
	}
	return base, nil
}

// buildBase builds the type a node describes before the inline "array: N"
// shorthand (if present) wraps it into a [bitlayout.Array].
func buildBase(n *node) (*bitlayout.Type, error) {
	kind := n.Kind
	if kind == "" {
		switch {
		case len(n.Fields) > 0:
			kind = "struct"
		case n.Elem != nil:
			kind = "array"
		case len(n.Labels) > 0:
			kind = "enum"
		default:
			return nil, fmt.Errorf("dsl: node has no kind and is not a struct, array, or enum")
		}
	}

	switch kind {
	case "uint":
		if len(n.Labels) > 0 {
			enum, err := bitlayout.NewEnumTable(n.Labels)
			if err != nil {
				return nil, err
			}
			return bitlayout.UintEnum(n.Width, enum)
		}
		return bitlayout.Uint(n.Width)
	case "enum":
		if len(n.Labels) == 0 {
			return nil, fmt.Errorf("dsl: enum node has no labels")
		}
		enum, err := bitlayout.NewEnumTable(n.Labels)
		if err != nil {
			return nil, err
		}
		return bitlayout.UintEnum(n.Width, enum)
	case "sint":
		return bitlayout.Sint(n.Width)
	case "utf8":
		return bitlayout.Utf8(n.Bytes)
	case "struct":
		fields := make([]bitlayout.StructField, len(n.Fields))
		for i, fn := range n.Fields {
			ft, err := build(&fn.node)
			if err != nil {
				return nil, fmt.Errorf("dsl: field %q: %w", fn.Name, err)
			}
			fields[i] = bitlayout.StructField{Name: fn.Name, Type: ft}
		}
		return bitlayout.Struct(fields)
	case "array":
		if n.Elem == nil {
			return nil, fmt.Errorf("dsl: array node has no elem")
		}
		elem, err := build(n.Elem)
		if err != nil {
			return nil, fmt.Errorf("dsl: array element: %w", err)
		}
		return bitlayout.Array(elem, n.Length)
	default:
		return nil, fmt.Errorf("dsl: unknown kind %q", kind)
	}
}
