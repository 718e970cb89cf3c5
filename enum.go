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
	"sort"
	"strings"
)

// EnumTable is a forward (label -> code) and reverse (code -> label)
// mapping attached to an unsigned integer type. Both directions must be
// total inverses of one another on their supports, which [NewEnumTable]
// enforces by rejecting two labels that share a code.
type EnumTable struct {
	forward map[string]uint64
	reverse map[uint64]string
	labels  []string // sorted label order, for stable Stringification.
}

// NewEnumTable builds an EnumTable from a label->code mapping. Construction
// fails with [ErrInvalidType] if two labels share a code, since that would
// break the forward/reverse total-inverse invariant.
func NewEnumTable(labels map[string]uint64) (*EnumTable, error) {
	e := &EnumTable{
		forward: make(map[string]uint64, len(labels)),
		reverse: make(map[uint64]string, len(labels)),
	}
	// Sort for deterministic error messages and Stringification; the
	// input map has no inherent order.
	names := make([]string, 0, len(labels))
	for l := range labels {
		names = append(names, l)
	}
	sort.Strings(names)

	for _, l := range names {
		code := labels[l]
		if other, dup := e.reverse[code]; dup {
			return nil, newErr(errInvalidType, l, "code %d is already assigned to label %q", code, other)
		}
		e.forward[l] = code
		e.reverse[code] = l
		e.labels = append(e.labels, l)
	}
	return e, nil
}

// Code returns the code for label, or ok=false if label is not in the
// table.
func (e *EnumTable) Code(label string) (code uint64, ok bool) {
	code, ok = e.forward[label]
	return
}

// Label returns the label for code, or ok=false if code is not in the
// table's reverse map.
func (e *EnumTable) Label(code uint64) (label string, ok bool) {
	label, ok = e.reverse[code]
	return
}

func (e *EnumTable) equal(other *EnumTable) bool {
	if e == other {
		return true
	}
	if e == nil || other == nil || len(e.forward) != len(other.forward) {
		return false
	}
	for l, c := range e.forward {
		if oc, ok := other.forward[l]; !ok || oc != c {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (e *EnumTable) String() string {
	parts := make([]string, len(e.labels))
	for i, l := range e.labels {
		parts[i] = fmt.Sprintf("%s: %d", l, e.forward[l])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
