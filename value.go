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
	"bytes"
	"encoding/json"
)

// StructValue is the decoded value of a struct field: an ordered map from
// child name to decoded value, preserving declaration order so that both
// field iteration and JSON encoding reproduce the type's field order.
type StructValue struct {
	order []string
	vals  map[string]any
}

// NewStructValue returns an empty StructValue.
func NewStructValue() *StructValue {
	return &StructValue{vals: make(map[string]any)}
}

// Set assigns v to name, appending name to the key order if it is new.
func (s *StructValue) Set(name string, v any) {
	if _, ok := s.vals[name]; !ok {
		s.order = append(s.order, name)
	}
	s.vals[name] = v
}

// Get returns the value for name, if present.
func (s *StructValue) Get(name string) (any, bool) {
	v, ok := s.vals[name]
	return v, ok
}

// Keys returns the struct's keys in declaration order.
func (s *StructValue) Keys() []string { return s.order }

// Len returns the number of keys.
func (s *StructValue) Len() int { return len(s.order) }

// MarshalJSON implements json.Marshaler, writing keys in declaration order.
func (s *StructValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(s.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// lookupField extracts the value associated with name from a struct-shaped
// input value, accepting either a *StructValue or a plain map[string]any so
// that callers can build inputs without depending on StructValue.
func lookupField(value any, name string) (any, bool) {
	switch v := value.(type) {
	case *StructValue:
		return v.Get(name)
	case map[string]any:
		val, ok := v[name]
		return val, ok
	default:
		return nil, false
	}
}

// elemsOf extracts an ordered element slice from an array-shaped input
// value, accepting []any or any slice-of-any-ish type produced by our own
// decoder.
func elemsOf(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	default:
		return nil, false
	}
}
