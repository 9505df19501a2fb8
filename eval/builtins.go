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

// builtins are the reserved heads: special forms, primitives and the
// top-level keywords. Free-variable analysis never captures them. They stay
// callable even when a lexical binding shadows the name, since head
// dispatch happens before lookup; the binding is visible in argument
// position.
var builtins = map[sexp.Symbol]bool{
	"quote":    true,
	"if":       true,
	"lambda":   true,
	"let":      true,
	"begin":    true,
	"eval":     true,
	"gensym":   true,
	"tag?":     true,
	"car":      true,
	"cdr":      true,
	"cons":     true,
	"list":     true,
	"list*":    true,
	"print":    true,
	"display":  true,
	"error":    true,
	"apply":    true,
	"+":        true,
	"-":        true,
	"*":        true,
	"/":        true,
	">":        true,
	"=":        true,
	"define":   true,
	"defmacro": true,
	"include":  true,
	"expand":   true,
}

func isBuiltin(sym sexp.Symbol) bool {
	return builtins[sym]
}

// binOp is a primitive operator over two evaluated operands. Type and
// domain checks are its responsibility.
type binOp func(in *Interp, a, b sexp.Sexp) sexp.Sexp

var binaryOps = map[sexp.Symbol]binOp{
	"+": (*Interp).primAdd,
	"-": (*Interp).primSub,
	"*": (*Interp).primMul,
	"/": (*Interp).primDiv,
	">": (*Interp).primGreater,
	"=": (*Interp).primEqual,
}

// truth maps a Go bool to the canonical truth values.
func truth(b bool) sexp.Sexp {
	if b {
		return sexp.Number(1)
	}
	return sexp.Nil
}

// numOperands checks that both operands are numbers.
func (in *Interp) numOperands(name sexp.Symbol, a, b sexp.Sexp) (x, y sexp.Number, ok bool) {
	x, okx := a.(sexp.Number)
	y, oky := b.(sexp.Number)
	if !okx || !oky {
		in.log.Errorf("Incompatible arguments to %s", name)
		return 0, 0, false
	}
	return x, y, true
}

func (in *Interp) primAdd(a, b sexp.Sexp) sexp.Sexp {
	x, y, ok := in.numOperands("+", a, b)
	if !ok {
		return sexp.Error
	}
	return x + y
}

func (in *Interp) primSub(a, b sexp.Sexp) sexp.Sexp {
	x, y, ok := in.numOperands("-", a, b)
	if !ok {
		return sexp.Error
	}
	return x - y
}

func (in *Interp) primMul(a, b sexp.Sexp) sexp.Sexp {
	x, y, ok := in.numOperands("*", a, b)
	if !ok {
		return sexp.Error
	}
	return x * y
}

func (in *Interp) primDiv(a, b sexp.Sexp) sexp.Sexp {
	x, y, ok := in.numOperands("/", a, b)
	if !ok {
		return sexp.Error
	}
	if y == 0 {
		in.log.Errorf("Division by zero")
		return sexp.Error
	}
	return x / y
}

func (in *Interp) primGreater(a, b sexp.Sexp) sexp.Sexp {
	x, y, ok := in.numOperands(">", a, b)
	if !ok {
		return sexp.Error
	}
	return truth(x > y)
}

// primEqual compares within a variant: strings by bytes, symbols by name,
// numbers by value. nil equals only nil; comparing it against anything else
// is false, while any other cross-variant comparison fails.
func (in *Interp) primEqual(a, b sexp.Sexp) sexp.Sexp {
	if sexp.IsNil(a) || sexp.IsNil(b) {
		return truth(sexp.IsNil(a) && sexp.IsNil(b))
	}
	switch x := a.(type) {
	case sexp.Number:
		if y, ok := b.(sexp.Number); ok {
			return truth(x == y)
		}
	case sexp.String:
		if y, ok := b.(sexp.String); ok {
			return truth(x == y)
		}
	case sexp.Symbol:
		if y, ok := b.(sexp.Symbol); ok {
			return truth(x == y)
		}
	}
	in.log.Errorf("Incompatible arguments to =")
	return sexp.Error
}
