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
	"math/big"
	"strings"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	// Symbol is the name of the symbolic raw-integer parameter, e.g. "x".
	// Defaults to "x" when empty.
	Symbol string
}

// Render serializes ir to a portable source string valid in the common
// subset of C-family and expression-oriented (spreadsheet/array-language)
// syntax: every binary and unary operator expression is unconditionally
// wrapped in parentheses, so the output needs no operator-precedence table
// to parse correctly in any of those languages.
func Render(ir IR, opts RenderOptions) string {
	sym := opts.Symbol
	if sym == "" {
		sym = "x"
	}
	var b strings.Builder
	renderInto(&b, ir, sym)
	return b.String()
}

func renderInto(b *strings.Builder, ir IR, sym string) {
	switch x := ir.(type) {
	case *IRShiftAnd:
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(x.Width)), big.NewInt(1))
		ref := sym
		if x.Word != noWord {
			ref = fmt.Sprintf("%s[%d]", sym, x.Word)
		}
		fmt.Fprintf(b, "((%s >> %d) & %s)", ref, x.Offset, mask.String())
	case *IRSignExtend:
		sign := new(big.Int).Lsh(big.NewInt(1), uint(x.Width-1))
		b.WriteString("((")
		renderInto(b, x.X, sym)
		fmt.Fprintf(b, " ^ %s) - %s)", sign.String(), sign.String())
	case *IRConst:
		b.WriteString(x.Value.String())
	case *IRBin:
		b.WriteByte('(')
		renderInto(b, x.L, sym)
		fmt.Fprintf(b, " %s ", x.Op)
		renderInto(b, x.R, sym)
		b.WriteByte(')')
	case *IRUn:
		fmt.Fprintf(b, "(%s", x.Op)
		renderInto(b, x.X, sym)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<?%T?>", ir)
	}
}
