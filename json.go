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
	"math/big"
)

// JSON renders the bound field's current value as JSON text. Structs
// serialize as objects with declared-order keys, arrays as lists, enum
// leaves as their label (or the integer code if absent from the reverse
// map), signed integers as signed JSON numbers, UTF-8 leaves as strings,
// and custom types via their registered jsonifier.
func (v *BoundView) JSON() (string, error) {
	val, err := decode(v.field, &v.cell.inner)
	if err != nil {
		return "", err
	}
	jsonable, err := toJSONable(v.field, val)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(jsonable)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// toJSONable recursively applies each custom type's jsonifier, since
// decode() returns a custom type's raw decoded value, not its JSON form.
func toJSONable(f *Field, val any) (any, error) {
	switch f.typ.kind {
	case KindCustom:
		return f.typ.custom.jsonify(val)
	case KindStruct:
		sv := val.(*StructValue)
		out := NewStructValue()
		for _, child := range f.children {
			cv, _ := sv.Get(child.name)
			jv, err := toJSONable(child, cv)
			if err != nil {
				return nil, err
			}
			out.Set(child.name, jv)
		}
		return out, nil
	case KindArray:
		elems := val.([]any)
		out := make([]any, len(elems))
		for i, child := range f.children {
			jv, err := toJSONable(child, elems[i])
			if err != nil {
				return nil, err
			}
			out[i] = jv
		}
		return out, nil
	default:
		return val, nil
	}
}

// SetJSON parses data and writes the resulting value through to the cell,
// via the same transactional path as SetValue. Unknown object keys are
// rejected with [ErrSchemaMismatch].
func (v *BoundView) SetJSON(data string) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return newErr(errSchemaMismatch, v.field.Path(), "malformed JSON: %v", err)
	}
	val, err := fromJSONable(v.field, raw)
	if err != nil {
		return err
	}
	return v.SetValue(val)
}

// fromJSONable converts the generic tree produced by encoding/json (with
// UseNumber) into the value shape encodeInto expects, validating struct
// shape (no missing/unknown keys) and array length along the way.
func fromJSONable(f *Field, raw any) (any, error) {
	switch f.typ.kind {
	case KindStruct:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, newErr(errSchemaMismatch, f.Path(), "expected a JSON object")
		}
		for k := range m {
			if _, ok := f.Child(k); !ok {
				return nil, newErr(errSchemaMismatch, f.Path(), "unknown field %q", k)
			}
		}
		out := NewStructValue()
		for _, child := range f.children {
			jv, present := m[child.name]
			if !present {
				return nil, newErr(errSchemaMismatch, child.Path(), "missing field")
			}
			cv, err := fromJSONable(child, jv)
			if err != nil {
				return nil, err
			}
			out.Set(child.name, cv)
		}
		return out, nil
	case KindArray:
		arr, ok := raw.([]any)
		if !ok {
			return nil, newErr(errSchemaMismatch, f.Path(), "expected a JSON array")
		}
		if len(arr) != len(f.children) {
			return nil, newErr(errSchemaMismatch, f.Path(), "expected an array of length %d, got %d", len(f.children), len(arr))
		}
		out := make([]any, len(arr))
		for i, child := range f.children {
			cv, err := fromJSONable(child, arr[i])
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case KindUint, KindSint:
		num, ok := raw.(json.Number)
		if !ok {
			return nil, newErr(errSchemaMismatch, f.Path(), "expected a JSON number")
		}
		n, ok := new(big.Int).SetString(string(num), 10)
		if !ok {
			return nil, newErr(errSchemaMismatch, f.Path(), "malformed integer %q", num)
		}
		return n, nil
	case KindEnum:
		switch rv := raw.(type) {
		case string:
			return rv, nil
		case json.Number:
			n, ok := new(big.Int).SetString(string(rv), 10)
			if !ok {
				return nil, newErr(errSchemaMismatch, f.Path(), "malformed integer %q", rv)
			}
			return n, nil
		default:
			return nil, newErr(errSchemaMismatch, f.Path(), "expected a label string or integer code")
		}
	case KindUtf8:
		s, ok := raw.(string)
		if !ok {
			return nil, newErr(errSchemaMismatch, f.Path(), "expected a JSON string")
		}
		return s, nil
	case KindCustom:
		return raw, nil
	default:
		return nil, newErr(errInvalidType, f.Path(), "unhandled kind %s", f.typ.kind)
	}
}
