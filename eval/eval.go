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

// Package eval implements the tree-walking evaluator: special forms,
// closures with snapshotted free variables, the macro expander and the
// top-level driver.
//
// Failures inside the language never surface as Go errors. Every operation
// returns the sexp.Error sentinel after reporting a line through the
// diagnostics sink, and any operation receiving the sentinel short-circuits.
// Go errors are reserved for the host side: opening files, writing output.
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fedang/schemeful/sexp"
)

// Option configures an Interp.
type Option func(*Interp)

// Output sets the writer used by print and display.
func Output(w io.Writer) Option {
	return func(in *Interp) { in.out = w }
}

// Logger sets the diagnostics sink.
func Logger(l *logrus.Logger) Option {
	return func(in *Interp) { in.log = l }
}

// Interp holds the state of an interpreter: the value environment, the
// macro environment, the gensym counter and the diagnostics sink. Both
// environments are association lists ((sym . value) ...) where the first
// matching entry wins.
type Interp struct {
	env  sexp.Sexp
	menv sexp.Sexp
	out  io.Writer
	log  *logrus.Logger
	gens int64
}

// New returns an Interp with empty environments, writing to stdout and
// reporting through the standard logger unless configured otherwise.
func New(opts ...Option) *Interp {
	in := &Interp{
		env:  sexp.Nil,
		menv: sexp.Nil,
		out:  os.Stdout,
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// lookup walks an environment for the first entry named sym.
func (in *Interp) lookup(sym sexp.Symbol, env sexp.Sexp) (sexp.Sexp, bool) {
	for !sexp.IsNil(env) {
		c, ok := env.(*sexp.Cell)
		if !ok {
			in.log.Panicf("malformed environment: %s", sexp.Format(env))
		}
		entry, ok := c.Car.(*sexp.Cell)
		if !ok {
			in.log.Panicf("malformed environment entry: %s", sexp.Format(c.Car))
		}
		if entry.Car == sym {
			return entry.Cdr, true
		}
		env = c.Cdr
	}
	return sexp.Error, false
}

// bind adds (name . value) to env, or updates the existing entry in place.
func (in *Interp) bind(env sexp.Sexp, name sexp.Symbol, value sexp.Sexp) sexp.Sexp {
	for e := env; !sexp.IsNil(e); {
		c, ok := e.(*sexp.Cell)
		if !ok {
			in.log.Panicf("malformed environment: %s", sexp.Format(e))
		}
		entry, ok := c.Car.(*sexp.Cell)
		if !ok {
			in.log.Panicf("malformed environment entry: %s", sexp.Format(c.Car))
		}
		if entry.Car == name {
			entry.Cdr = value
			return env
		}
		e = c.Cdr
	}
	return sexp.Cons(sexp.Cons(name, value), env)
}

// Eval evaluates expr under the given environment. Numbers, strings and the
// empty list are self-evaluating; symbols are looked up; cells dispatch on
// their head.
func (in *Interp) Eval(expr, env sexp.Sexp) sexp.Sexp {
	switch v := expr.(type) {
	case sexp.Symbol:
		val, ok := in.lookup(v, env)
		if !ok {
			in.log.Errorf("Symbol %s not bound in scope", v)
			return sexp.Error
		}
		return val
	case *sexp.Cell:
		return in.evalCell(v, env)
	default:
		// nil, number, string; the error sentinel stays an error.
		return expr
	}
}

func (in *Interp) evalCell(cell *sexp.Cell, env sexp.Sexp) sexp.Sexp {
	head, ok := cell.Car.(sexp.Symbol)
	if !ok {
		return in.call(cell, env)
	}
	if fn, ok := binaryOps[head]; ok {
		in.log.Tracef("form %s", head)
		return in.evalBinary(head, fn, cell.Cdr, env)
	}
	switch head {
	case symQuote:
		in.log.Tracef("form quote")
		return in.evalQuote(cell.Cdr)
	case "if":
		in.log.Tracef("form if")
		return in.evalIf(cell.Cdr, env)
	case symLambda:
		in.log.Tracef("form lambda")
		if isClosure(cell) {
			// a closure value evaluates to itself
			return cell
		}
		return in.evalLambda(cell.Cdr, env)
	case symLet:
		in.log.Tracef("form let")
		return in.evalLet(cell.Cdr, env)
	case "begin":
		in.log.Tracef("form begin")
		return in.evalBegin(cell.Cdr, env)
	case "eval":
		in.log.Tracef("form eval")
		return in.evalEval(cell.Cdr, env)
	case "gensym":
		in.log.Tracef("form gensym")
		return in.evalGensym(cell.Cdr)
	case "tag?":
		in.log.Tracef("form tag?")
		return in.evalTag(cell.Cdr, env)
	case "car", "cdr":
		in.log.Tracef("form %s", head)
		return in.evalCarCdr(head, cell.Cdr, env)
	case "cons":
		in.log.Tracef("form cons")
		return in.evalCons(cell.Cdr, env)
	case "list":
		in.log.Tracef("form list")
		args, ok := in.evalArgs(cell.Cdr, env)
		if !ok {
			return sexp.Error
		}
		return sexp.List(args...)
	case "list*":
		in.log.Tracef("form list*")
		return in.evalListStar(cell.Cdr, env)
	case "print":
		in.log.Tracef("form print")
		return in.evalWrite(cell.Cdr, env, false)
	case "display":
		in.log.Tracef("form display")
		return in.evalWrite(cell.Cdr, env, true)
	case "error":
		in.log.Tracef("form error")
		return in.evalError(cell.Cdr, env)
	case "apply":
		in.log.Tracef("form apply")
		return in.evalApply(cell.Cdr, env)
	case "define", "defmacro", "include", "expand":
		in.log.Errorf("%s can be used only at the top level", head)
		return sexp.Error
	}
	return in.call(cell, env)
}

// call evaluates the head to a callee, the arguments left to right, and
// invokes the callee as a closure.
func (in *Interp) call(cell *sexp.Cell, env sexp.Sexp) sexp.Sexp {
	callee := in.Eval(cell.Car, env)
	if sexp.IsError(callee) {
		return sexp.Error
	}
	args, ok := in.evalArgs(cell.Cdr, env)
	if !ok {
		return sexp.Error
	}
	return in.invoke(callee, sexp.List(args...))
}

// evalArgs evaluates an argument list left to right, short-circuiting on the
// first failure.
func (in *Interp) evalArgs(args, env sexp.Sexp) ([]sexp.Sexp, bool) {
	var items []sexp.Sexp
	for !sexp.IsNil(args) {
		c, ok := args.(*sexp.Cell)
		if !ok {
			in.log.Errorf("Malformed argument list")
			return nil, false
		}
		v := in.Eval(c.Car, env)
		if sexp.IsError(v) {
			return nil, false
		}
		items = append(items, v)
		args = c.Cdr
	}
	return items, true
}

func (in *Interp) evalQuote(args sexp.Sexp) sexp.Sexp {
	x, ok := unary(args)
	if !ok {
		in.log.Errorf("Malformed quote")
		return sexp.Error
	}
	return x
}

// evalIf evaluates (if c t e). Anything non-nil is true, including 0 and "".
func (in *Interp) evalIf(args, env sexp.Sexp) sexp.Sexp {
	c, t, e, ok := ternary(args)
	if !ok {
		in.log.Errorf("Malformed if")
		return sexp.Error
	}
	cond := in.Eval(c, env)
	if sexp.IsError(cond) {
		return sexp.Error
	}
	if !sexp.IsNil(cond) {
		return in.Eval(t, env)
	}
	return in.Eval(e, env)
}

// evalLet evaluates (let ((n v) ...) body). Binding values evaluate under
// the caller's environment, the body under the extended one.
func (in *Interp) evalLet(args, env sexp.Sexp) sexp.Sexp {
	bindings, body, ok := letTail(args)
	if !ok {
		in.log.Errorf("Malformed let")
		return sexp.Error
	}
	sub := env
	for _, b := range bindings {
		val := in.Eval(sexp.Cadr(b), env)
		if sexp.IsError(val) {
			return sexp.Error
		}
		sub = sexp.Cons(sexp.Cons(b.Car, val), sub)
	}
	return in.Eval(body, sub)
}

func (in *Interp) evalBegin(args, env sexp.Sexp) sexp.Sexp {
	last := sexp.Nil
	for !sexp.IsNil(args) {
		c, ok := args.(*sexp.Cell)
		if !ok {
			in.log.Errorf("Malformed begin")
			return sexp.Error
		}
		last = in.Eval(c.Car, env)
		if sexp.IsError(last) {
			return sexp.Error
		}
		args = c.Cdr
	}
	return last
}

// evalEval evaluates (eval x): the result of x is evaluated again under the
// empty environment.
func (in *Interp) evalEval(args, env sexp.Sexp) sexp.Sexp {
	x, ok := unary(args)
	if !ok {
		in.log.Errorf("Malformed eval")
		return sexp.Error
	}
	v := in.Eval(x, env)
	if sexp.IsError(v) {
		return sexp.Error
	}
	return in.Eval(v, sexp.Nil)
}

// evalGensym mints a symbol unique within this interpreter. The counter
// belongs to the Interp, so separate interpreters in one process mint the
// same names.
func (in *Interp) evalGensym(args sexp.Sexp) sexp.Sexp {
	if !sexp.IsNil(args) {
		in.log.Errorf("Malformed gensym")
		return sexp.Error
	}
	in.gens++
	return sexp.Symbol(fmt.Sprintf("#:g%d", in.gens))
}

func (in *Interp) evalTag(args, env sexp.Sexp) sexp.Sexp {
	x, ok := unary(args)
	if !ok {
		in.log.Errorf("Malformed tag?")
		return sexp.Error
	}
	v := in.Eval(x, env)
	if sexp.IsError(v) {
		return sexp.Error
	}
	return sexp.Number(v.Tag())
}

func (in *Interp) evalCarCdr(head sexp.Symbol, args, env sexp.Sexp) sexp.Sexp {
	x, ok := unary(args)
	if !ok {
		in.log.Errorf("Malformed %s", head)
		return sexp.Error
	}
	v := in.Eval(x, env)
	if sexp.IsError(v) {
		return sexp.Error
	}
	c, ok := v.(*sexp.Cell)
	if !ok {
		in.log.Errorf("Expected cons")
		return sexp.Error
	}
	if head == "car" {
		return c.Car
	}
	return c.Cdr
}

func (in *Interp) evalCons(args, env sexp.Sexp) sexp.Sexp {
	x, y, ok := binary(args)
	if !ok {
		in.log.Errorf("Malformed cons")
		return sexp.Error
	}
	a := in.Eval(x, env)
	if sexp.IsError(a) {
		return sexp.Error
	}
	b := in.Eval(y, env)
	if sexp.IsError(b) {
		return sexp.Error
	}
	return sexp.Cons(a, b)
}

// evalListStar builds a list whose last argument becomes the tail.
func (in *Interp) evalListStar(args, env sexp.Sexp) sexp.Sexp {
	items, ok := in.evalArgs(args, env)
	if !ok {
		return sexp.Error
	}
	if len(items) == 0 {
		return sexp.Nil
	}
	l := items[len(items)-1]
	for i := len(items) - 2; i >= 0; i-- {
		l = sexp.Cons(items[i], l)
	}
	return l
}

// evalWrite implements print and display: arguments are written space
// separated with no trailing newline. display emits strings bare.
func (in *Interp) evalWrite(args, env sexp.Sexp, bare bool) sexp.Sexp {
	items, ok := in.evalArgs(args, env)
	if !ok {
		return sexp.Error
	}
	for i, v := range items {
		var err error
		if i > 0 {
			_, err = io.WriteString(in.out, " ")
		}
		if err == nil {
			if bare {
				_, err = sexp.Display(in.out, v)
			} else {
				_, err = sexp.Write(in.out, v)
			}
		}
		if err != nil {
			in.log.Errorf("Write failed: %v", err)
			return sexp.Error
		}
	}
	return sexp.Nil
}

// evalError reports its evaluated arguments as a diagnostic and fails.
func (in *Interp) evalError(args, env sexp.Sexp) sexp.Sexp {
	items, ok := in.evalArgs(args, env)
	if !ok {
		return sexp.Error
	}
	in.log.Errorf("%s", sexp.Format(sexp.List(items...)))
	return sexp.Error
}

// evalApply invokes a closure with an already evaluated argument list.
func (in *Interp) evalApply(args, env sexp.Sexp) sexp.Sexp {
	f, xs, ok := binary(args)
	if !ok {
		in.log.Errorf("Malformed apply")
		return sexp.Error
	}
	callee := in.Eval(f, env)
	if sexp.IsError(callee) {
		return sexp.Error
	}
	list := in.Eval(xs, env)
	if sexp.IsError(list) {
		return sexp.Error
	}
	return in.invoke(callee, list)
}

// evalBinary enforces the two-argument protocol shared by the arithmetic
// and comparison primitives, then dispatches.
func (in *Interp) evalBinary(name sexp.Symbol, fn binOp, args, env sexp.Sexp) sexp.Sexp {
	x, y, ok := binary(args)
	if !ok {
		in.log.Errorf("%s expects exactly two arguments", name)
		return sexp.Error
	}
	a := in.Eval(x, env)
	if sexp.IsError(a) {
		return sexp.Error
	}
	b := in.Eval(y, env)
	if sexp.IsError(b) {
		return sexp.Error
	}
	return fn(in, a, b)
}

// unary destructures a one-element list.
func unary(args sexp.Sexp) (sexp.Sexp, bool) {
	c, ok := args.(*sexp.Cell)
	if !ok || !sexp.IsNil(c.Cdr) {
		return sexp.Error, false
	}
	return c.Car, true
}

// binary destructures a two-element list.
func binary(args sexp.Sexp) (x, y sexp.Sexp, ok bool) {
	c, okc := args.(*sexp.Cell)
	if !okc {
		return sexp.Error, sexp.Error, false
	}
	d, okd := c.Cdr.(*sexp.Cell)
	if !okd || !sexp.IsNil(d.Cdr) {
		return sexp.Error, sexp.Error, false
	}
	return c.Car, d.Car, true
}

// ternary destructures a three-element list.
func ternary(args sexp.Sexp) (x, y, z sexp.Sexp, ok bool) {
	c, okc := args.(*sexp.Cell)
	if !okc {
		return sexp.Error, sexp.Error, sexp.Error, false
	}
	y, z, ok = binary(c.Cdr)
	return c.Car, y, z, ok
}
