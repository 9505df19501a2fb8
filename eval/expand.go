// This file is part of schemeful - https://github.com/fedang/schemeful
//
// Copyright 2024 fedang
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"github.com/fedang/schemeful/sexp"
)

// Expand rewrites expr until no macro heads remain. It is a pure structural
// pass: atoms and quote bodies are left alone, macro calls receive their
// argument forms unevaluated, and the rewritten result is expanded again.
func (in *Interp) Expand(expr sexp.Sexp) sexp.Sexp {
	cell, ok := expr.(*sexp.Cell)
	if !ok {
		return expr
	}
	if sym, ok := cell.Car.(sexp.Symbol); ok {
		if sym == symQuote {
			return expr
		}
		if macro, bound := in.lookup(sym, in.menv); bound {
			in.log.Tracef("macro %s", sym)
			out := in.invoke(macro, cell.Cdr)
			if sexp.IsError(out) {
				return sexp.Error
			}
			return in.Expand(out)
		}
	}
	car := in.Expand(cell.Car)
	if sexp.IsError(car) {
		return sexp.Error
	}
	cdr := in.Expand(cell.Cdr)
	if sexp.IsError(cdr) {
		return sexp.Error
	}
	return sexp.Cons(car, cdr)
}
