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
	"sort"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/fedang/schemeful/sexp"
)

func testInterp() *Interp {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(Logger(log))
}

func parse(t *testing.T, src string) sexp.Sexp {
	t.Helper()
	v, err := sexp.NewReader(strings.NewReader(src)).Read()
	if err != nil {
		t.Fatalf("parse %q failed: %v", src, err)
	}
	return v
}

// names sorts a symbol list into a Go slice for comparison.
func names(t *testing.T, fvs sexp.Sexp) []string {
	t.Helper()
	items, proper := sexp.Slice(fvs)
	if !proper {
		t.Fatalf("free variable list %s is not proper", sexp.Format(fvs))
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, string(s.(sexp.Symbol)))
	}
	sort.Strings(out)
	return out
}

func TestFreeVars(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"x", []string{"x"}},
		{"42", []string{}},
		{"(quote x)", []string{}},
		{"(+ a 1)", []string{"a"}},
		{"(f (g x))", []string{"f", "g", "x"}},
		{"(lambda (x) (f x y))", []string{"f", "y"}},
		{"(lambda (x &rest r) (cons x r))", []string{}},
		{"(let ((x 1) (y x)) (+ x y z))", []string{"x", "z"}},
		{"(let ((x 1)) (lambda (y) (x y q)))", []string{"q"}},
		{"(if c (quote t) e)", []string{"c", "e"}},
	}
	for _, c := range cases {
		got := names(t, freeVars(parse(t, c.src), sexp.Nil))
		if len(got) != len(c.want) {
			t.Errorf("%s: expected fvs %v, got %v", c.src, c.want, got)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s: expected fvs %v, got %v", c.src, c.want, got)
				break
			}
		}
	}
}

func TestEvalLambdaShape(t *testing.T) {
	in := testInterp()
	v := in.evalLambda(parse(t, "((x) (cons x x))"), sexp.Nil)
	if !isClosure(v) {
		t.Fatalf("expected a closure, got %s", sexp.Format(v))
	}
	fvs, params, body, ok := closureParts(v)
	if !ok {
		t.Fatal("closureParts rejected a fresh closure")
	}
	if !sexp.IsNil(fvs) {
		t.Errorf("expected no captured variables, got %s", sexp.Format(fvs))
	}
	if sexp.Format(params) != "(x)" || sexp.Format(body) != "(cons x x)" {
		t.Errorf("bad closure layout: %s", sexp.Format(v))
	}
}

func TestEvalLambdaCaptures(t *testing.T) {
	in := testInterp()
	in.Define("y", sexp.Number(5))
	v := in.evalLambda(parse(t, "((x) y)"), in.env)
	fvs, _, _, _ := closureParts(v)
	if sexp.Format(fvs) != "((y . 5))" {
		t.Errorf("expected ((y . 5)), got %s", sexp.Format(fvs))
	}
}

func TestEvalLambdaUnboundFreeVar(t *testing.T) {
	in := testInterp()
	if v := in.evalLambda(parse(t, "((x) zzz)"), sexp.Nil); !sexp.IsError(v) {
		t.Errorf("expected error, got %s", sexp.Format(v))
	}
}

func TestBindParams(t *testing.T) {
	in := testInterp()

	env, ok := in.bindParams(parse(t, "(x y)"), parse(t, "(1 2)"), sexp.Nil)
	if !ok {
		t.Fatal("bind of matching arity failed")
	}
	if v, found := in.lookup("x", env); !found || v != sexp.Number(1) {
		t.Errorf("x not bound to 1 in %s", sexp.Format(env))
	}
	if v, found := in.lookup("y", env); !found || v != sexp.Number(2) {
		t.Errorf("y not bound to 2 in %s", sexp.Format(env))
	}

	if _, ok := in.bindParams(parse(t, "(x y)"), parse(t, "(1)"), sexp.Nil); ok {
		t.Error("too few arguments accepted")
	}
	if _, ok := in.bindParams(parse(t, "(x)"), parse(t, "(1 2)"), sexp.Nil); ok {
		t.Error("too many arguments accepted")
	}
}

func TestBindParamsRest(t *testing.T) {
	in := testInterp()

	env, ok := in.bindParams(parse(t, "(x &rest r)"), parse(t, "(1 2 3)"), sexp.Nil)
	if !ok {
		t.Fatal("bind with &rest failed")
	}
	if v, _ := in.lookup("r", env); sexp.Format(v) != "(2 3)" {
		t.Errorf("r bound to %s", sexp.Format(v))
	}

	env, ok = in.bindParams(parse(t, "(x &rest r)"), parse(t, "(1)"), sexp.Nil)
	if !ok {
		t.Fatal("bind with empty &rest failed")
	}
	if v, _ := in.lookup("r", env); !sexp.IsNil(v) {
		t.Errorf("empty rest bound to %s", sexp.Format(v))
	}

	if _, ok := in.bindParams(parse(t, "(&rest)"), parse(t, "(1)"), sexp.Nil); ok {
		t.Error("&rest with no trailing parameter accepted")
	}
}
