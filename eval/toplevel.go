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
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/fedang/schemeful/sexp"
)

// ProcessTop processes one top-level form. define, defmacro, include and
// expand are legal only here; anything else is macro-expanded and evaluated
// under the value environment.
func (in *Interp) ProcessTop(expr sexp.Sexp) sexp.Sexp {
	if cell, ok := expr.(*sexp.Cell); ok {
		if head, ok := cell.Car.(sexp.Symbol); ok {
			switch head {
			case "define":
				in.log.Tracef("top define")
				return in.topDefine(cell.Cdr)
			case "defmacro":
				in.log.Tracef("top defmacro")
				return in.topDefmacro(cell.Cdr)
			case "include":
				in.log.Tracef("top include")
				return in.topInclude(cell.Cdr)
			case "expand":
				in.log.Tracef("top expand")
				return in.topExpand(cell.Cdr)
			}
		}
	}
	x := in.Expand(expr)
	if sexp.IsError(x) {
		return sexp.Error
	}
	return in.Eval(x, in.env)
}

// Define binds name in the value environment, updating an existing entry in
// place.
func (in *Interp) Define(name sexp.Symbol, value sexp.Sexp) {
	in.env = in.bind(in.env, name, value)
}

// topDefine handles (define name rhs).
func (in *Interp) topDefine(args sexp.Sexp) sexp.Sexp {
	name, rhs, ok := splitPair(args)
	if !ok {
		in.log.Errorf("Malformed define")
		return sexp.Error
	}
	sym, ok := name.(sexp.Symbol)
	if !ok {
		in.log.Errorf("Malformed define")
		return sexp.Error
	}
	x := in.Expand(rhs)
	if sexp.IsError(x) {
		return sexp.Error
	}
	value := in.Eval(x, in.env)
	if sexp.IsError(value) {
		return sexp.Error
	}
	in.Define(sym, value)
	return sexp.Nil
}

// topDefmacro handles (defmacro name (p ...) body). The macro body becomes
// a closure built against the current value environment.
func (in *Interp) topDefmacro(args sexp.Sexp) sexp.Sexp {
	c, ok := args.(*sexp.Cell)
	if !ok {
		in.log.Errorf("Malformed defmacro")
		return sexp.Error
	}
	sym, ok := c.Car.(sexp.Symbol)
	if !ok {
		in.log.Errorf("Malformed defmacro")
		return sexp.Error
	}
	closure := in.evalLambda(c.Cdr, in.env)
	if sexp.IsError(closure) {
		return sexp.Error
	}
	in.menv = in.bind(in.menv, sym, closure)
	return sexp.Nil
}

// topInclude handles (include "path"): the file's top-level forms run under
// the current environments.
func (in *Interp) topInclude(args sexp.Sexp) sexp.Sexp {
	x, ok := unary(args)
	if !ok {
		in.log.Errorf("Malformed include")
		return sexp.Error
	}
	path, ok := x.(sexp.String)
	if !ok {
		in.log.Errorf("Malformed include")
		return sexp.Error
	}
	f, err := os.Open(string(path))
	if err != nil {
		in.log.Errorf("Failed to open file %s: %v", path, err)
		return sexp.Error
	}
	defer f.Close()
	return in.Process(f)
}

// topExpand handles (expand x): the expansion is evaluated and the result
// expanded once more, which makes macro output inspectable.
func (in *Interp) topExpand(args sexp.Sexp) sexp.Sexp {
	x, ok := unary(args)
	if !ok {
		in.log.Errorf("Malformed expand")
		return sexp.Error
	}
	e := in.Expand(x)
	if sexp.IsError(e) {
		return sexp.Error
	}
	v := in.Eval(e, in.env)
	if sexp.IsError(v) {
		return sexp.Error
	}
	return in.Expand(v)
}

// Process reads and processes top-level forms from r until the stream ends.
// After an evaluation failure processing moves to the next form; a read
// failure stops the stream. The result is nil only if every form succeeded.
func (in *Interp) Process(r io.Reader) sexp.Sexp {
	rd := sexp.NewReader(r)
	res := sexp.Nil
	for {
		expr, err := rd.Read()
		if errors.Cause(err) == io.EOF {
			return res
		}
		if err != nil {
			in.log.Errorf("Failed to read s-expression: %v", err)
			return sexp.Error
		}
		if sexp.IsError(in.ProcessTop(expr)) {
			res = sexp.Error
		}
	}
}

// RunFile processes every top-level form in the named file. The returned
// error reports hard failures only (opening the file); evaluation failures
// go to the diagnostics sink.
func (in *Interp) RunFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s failed", path)
	}
	defer f.Close()
	in.Process(f)
	return nil
}
