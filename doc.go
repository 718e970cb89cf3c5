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

// Package bitlayout models arbitrary, bit-aligned binary interfaces: packed
// register layouts, wire protocols with non-byte-aligned fields, and similar
// hardware-description-style schemas. A [Type] computes widths and a
// decoding rule; [Instantiate] turns a Type into a [Field] tree with
// absolute bit offsets; a [Bind] gives that tree read/write access to a
// backing raw integer.
//
// [Symbolic] builds comparison and arithmetic expressions over a field tree
// without binding it to any particular buffer; [Lower] reduces such an
// expression to a shift-and-mask intermediate form, and [Render] prints that
// form as portable, C-family source text.
package bitlayout
