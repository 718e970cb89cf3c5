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
	"unicode/utf8"

	"github.com/bitlayout/bitlayout/internal/bigint"
)

// decode projects the window of cell that f occupies into a structured
// value, recursing into struct/array children. This is the codec kernel's
// read half; the hot leaf path is (raw >> offset) & mask.
func decode(f *Field, cell *bigint.Cell) (any, error) {
	switch f.typ.kind {
	case KindUint:
		return cell.Window(f.offset, f.typ.width), nil
	case KindSint:
		raw := cell.Window(f.offset, f.typ.width)
		return bigint.SignExtend(raw, f.typ.width), nil
	case KindEnum:
		raw := cell.Window(f.offset, f.typ.width)
		if raw.IsUint64() {
			if label, ok := f.typ.enum.Label(raw.Uint64()); ok {
				return label, nil
			}
		}
		return raw, nil
	case KindUtf8:
		return decodeUTF8(cell.Window(f.offset, f.typ.width), f.typ.width)
	case KindCustom:
		raw := cell.Window(f.offset, f.typ.width)
		return f.typ.custom.decode(raw)
	case KindStruct:
		out := NewStructValue()
		for _, child := range f.children {
			v, err := decode(child, cell)
			if err != nil {
				return nil, err
			}
			out.Set(child.name, v)
		}
		return out, nil
	case KindArray:
		out := make([]any, len(f.children))
		for i, child := range f.children {
			v, err := decode(child, cell)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, newErr(errInvalidType, f.Path(), "unhandled kind %s", f.typ.kind)
	}
}

// encodeInto writes value into the window(s) f occupies in tmp, recursing
// into struct/array children. Callers are expected to operate on a private
// copy of the real cell and only commit it to the real cell once encodeInto
// has returned successfully for the whole tree, which is how writes stay
// transactional even though encodeInto itself mutates as it goes.
func encodeInto(f *Field, tmp *bigint.Cell, value any) error {
	switch f.typ.kind {
	case KindUint:
		n, err := asBigInt(f, value)
		if err != nil {
			return err
		}
		if !bigint.FitsUnsigned(n, f.typ.width) {
			return newErr(errOverflow, f.Path(), "value %s does not fit in %d bits", n, f.typ.width)
		}
		tmp.SetWindow(f.offset, f.typ.width, n)
		return nil
	case KindSint:
		n, err := asBigInt(f, value)
		if err != nil {
			return err
		}
		if !bigint.FitsSigned(n, f.typ.width) {
			return newErr(errOverflow, f.Path(), "value %s does not fit in a signed %d-bit field", n, f.typ.width)
		}
		tmp.SetWindow(f.offset, f.typ.width, bigint.ToTwosComplement(n, f.typ.width))
		return nil
	case KindEnum:
		switch v := value.(type) {
		case string:
			code, ok := f.typ.enum.Code(v)
			if !ok {
				return newErr(errUnknownLabel, f.Path(), "label %q is not in the enum table", v)
			}
			tmp.SetWindow(f.offset, f.typ.width, new(big.Int).SetUint64(code))
			return nil
		default:
			n, err := asBigInt(f, value)
			if err != nil {
				return err
			}
			if !bigint.FitsUnsigned(n, f.typ.width) {
				return newErr(errOverflow, f.Path(), "code %s does not fit in %d bits", n, f.typ.width)
			}
			tmp.SetWindow(f.offset, f.typ.width, n)
			return nil
		}
	case KindUtf8:
		raw, err := encodeUTF8(value, f.typ.width)
		if err != nil {
			return &layoutErrorPath{f.Path(), err}
		}
		tmp.SetWindow(f.offset, f.typ.width, raw)
		return nil
	case KindCustom:
		raw, err := f.typ.custom.encode(value)
		if err != nil {
			return &layoutErrorPath{f.Path(), err}
		}
		if !bigint.FitsUnsigned(raw, f.typ.width) {
			return newErr(errInvalidType, f.Path(), "custom type %q encoded %d bits into a %d-bit window", f.typ.custom.name, raw.BitLen(), f.typ.width)
		}
		tmp.SetWindow(f.offset, f.typ.width, raw)
		return nil
	case KindStruct:
		for _, child := range f.children {
			v, ok := lookupField(value, child.name)
			if !ok {
				return newErr(errSchemaMismatch, child.Path(), "missing field")
			}
			if err := encodeInto(child, tmp, v); err != nil {
				return err
			}
		}
		return nil
	case KindArray:
		elems, ok := elemsOf(value)
		if !ok || len(elems) != len(f.children) {
			return newErr(errSchemaMismatch, f.Path(), "expected an array of length %d", len(f.children))
		}
		for i, child := range f.children {
			if err := encodeInto(child, tmp, elems[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return newErr(errInvalidType, f.Path(), "unhandled kind %s", f.typ.kind)
	}
}

// layoutErrorPath reattaches a field path to an error bubbled up from a
// leaf codec (UTF-8, custom) that doesn't know its own path.
type layoutErrorPath struct {
	path string
	err  error
}

func (e *layoutErrorPath) Error() string { return e.err.Error() }
func (e *layoutErrorPath) Unwrap() error { return e.err }

// asBigInt coerces common Go integer types and *big.Int into a *big.Int,
// so callers can write SetValue(f, 5) as readily as SetValue(f, bigFive).
func asBigInt(f *Field, value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, newErr(errSchemaMismatch, f.Path(), "cannot use %T as an integer value", value)
	}
}

// decodeUTF8 reads a big-endian, zero-low-padded UTF-8 window: the used
// bytes sit at the high-order end, with byte 0 of the string as the window's
// most significant byte, and any unused capacity reads as zero low bytes,
// which are trimmed.
func decodeUTF8(raw *big.Int, width int) (string, error) {
	n := width / 8
	buf := make([]byte, n)
	b := raw.Bytes() // big-endian, no leading zeros.
	copy(buf[n-len(b):], b)
	// Trim trailing zero padding (the low-order, i.e. last, bytes).
	end := len(buf)
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	buf = buf[:end]
	if !utf8.Valid(buf) {
		return "", newErr(errInvalidEncoding, "", "malformed UTF-8 in %d-byte window", n)
	}
	return string(buf), nil
}

// encodeUTF8 writes s into an n-byte, big-endian, zero-low-padded window.
func encodeUTF8(value any, width int) (*big.Int, error) {
	s, ok := value.(string)
	if !ok {
		return nil, newErr(errSchemaMismatch, "", "cannot use %T as a UTF-8 string value", value)
	}
	if !utf8.ValidString(s) {
		return nil, newErr(errInvalidEncoding, "", "value is not valid UTF-8")
	}
	n := width / 8
	b := []byte(s)
	if len(b) > n {
		return nil, newErr(errOverflow, "", "encoded string is %d bytes, capacity is %d", len(b), n)
	}
	padded := make([]byte, n)
	copy(padded, b) // byte 0 at the highest byte position; trailing bytes stay zero.
	return new(big.Int).SetBytes(padded), nil
}
