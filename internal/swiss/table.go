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

// Package swiss provides a small open-addressing table used for the O(1)
// name->index lookups that the field tree needs.
//
// It is a simplified, safe-Go cousin of a swisstable: a control byte per
// slot (empty/full) plus parallel key/value slices, probed with a
// triangular sequence. There is no SIMD matching and no arena packing here;
// those only pay for themselves at message-parsing volumes far beyond what
// a field tree's one-time layout build needs.
package swiss

const (
	ctrlEmpty byte = 0
	ctrlFull  byte = 1
)

// Key is any comparable type usable as a table key.
type Key interface {
	comparable
}

// Table maps keys of type K to values of type V.
//
// The zero Table is empty and ready to use.
type Table[K Key, V any] struct {
	ctrl []byte
	keys []K
	vals []V
	len  int
}

// Len returns the number of entries in the table.
func (t *Table[K, V]) Len() int {
	return t.len
}

// Lookup returns a pointer to the value for k, or nil if k is not present.
//
// The returned pointer is invalidated by any subsequent Insert.
func (t *Table[K, V]) Lookup(k K) *V {
	if len(t.ctrl) == 0 {
		return nil
	}
	idx, ok := t.find(k)
	if !ok {
		return nil
	}
	return &t.vals[idx]
}

// Insert associates k with v, overwriting any previous value for k.
func (t *Table[K, V]) Insert(k K, v V) {
	if t.len+1 > len(t.ctrl)*3/4 {
		t.grow()
	}
	idx, ok := t.find(k)
	if !ok {
		t.ctrl[idx] = ctrlFull
		t.keys[idx] = k
		t.len++
	}
	t.vals[idx] = v
}

// find locates the slot for k: either the slot already holding k (ok==true)
// or the first empty slot on its probe sequence (ok==false).
func (t *Table[K, V]) find(k K) (idx int, ok bool) {
	mask := len(t.ctrl) - 1
	h := hash(k)
	i := int(h) & mask
	step := 0
	for {
		switch t.ctrl[i] {
		case ctrlEmpty:
			return i, false
		case ctrlFull:
			if t.keys[i] == k {
				return i, true
			}
		}
		step++
		i = (i + step) & mask
	}
}

func (t *Table[K, V]) grow() {
	newCap := 8
	if len(t.ctrl) > 0 {
		newCap = len(t.ctrl) * 2
	}
	old := *t
	t.ctrl = make([]byte, newCap)
	t.keys = make([]K, newCap)
	t.vals = make([]V, newCap)
	t.len = 0
	for i, c := range old.ctrl {
		if c == ctrlFull {
			t.Insert(old.keys[i], old.vals[i])
		}
	}
}

// hash is a cheap FNV-1a style hash over the key's bit pattern: fast, not
// cryptographic, only used for in-memory dispatch tables built once per
// field tree.
func hash[K comparable](k K) uint64 {
	// We hash the fmt-free byte pattern by round-tripping through any; this
	// keeps Table generic over both string and integer keys without two
	// code paths.
	switch v := any(k).(type) {
	case string:
		return fnv1a(v)
	case int32:
		return mix(uint64(uint32(v)))
	case uint32:
		return mix(uint64(v))
	case int64:
		return mix(uint64(v))
	case uint64:
		return mix(v)
	case int:
		return mix(uint64(v))
	default:
		// Fallback: hash the key's String() form, or the empty string if it
		// has no String method. Only reachable for key types not already
		// special-cased above.
		return fnv1a(anyString(v))
	}
}

func mix(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

func fnv1a(s string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

func anyString(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return ""
}
