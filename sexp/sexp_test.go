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

package sexp

import "testing"

func TestTags(t *testing.T) {
	cases := []struct {
		v   Sexp
		tag Tag
	}{
		{Nil, TagNil},
		{Error, TagError},
		{Cons(Nil, Nil), TagCons},
		{Symbol("x"), TagSymbol},
		{String("x"), TagString},
		{Number(42), TagNumber},
	}
	for _, c := range cases {
		if c.v.Tag() != c.tag {
			t.Errorf("%s: expected tag %d, got %d", Format(c.v), c.tag, c.v.Tag())
		}
	}
}

func TestCarCdr(t *testing.T) {
	c := Cons(Number(1), Number(2))
	if Car(c) != Number(1) || Cdr(c) != Number(2) {
		t.Errorf("bad cell access on %s", Format(c))
	}
	for _, v := range []Sexp{Nil, Error, Symbol("x"), String(""), Number(0)} {
		if !IsError(Car(v)) || !IsError(Cdr(v)) {
			t.Errorf("car/cdr of %s should be the error sentinel", Format(v))
		}
	}
}

func TestAccessors(t *testing.T) {
	l := List(Number(1), Number(2), Number(3))
	if Cadr(l) != Number(2) || Caddr(l) != Number(3) {
		t.Errorf("bad list access on %s", Format(l))
	}
	if !IsNil(Cdr(Cddr(l))) {
		t.Errorf("expected nil tail on %s", Format(l))
	}
}

func TestLen(t *testing.T) {
	if n, proper := Len(List(Number(1), Number(2))); n != 2 || !proper {
		t.Errorf("expected proper list of 2, got %d (%v)", n, proper)
	}
	if n, proper := Len(Nil); n != 0 || !proper {
		t.Errorf("expected empty proper list, got %d (%v)", n, proper)
	}
	if n, proper := Len(Cons(Number(1), Number(2))); n != 1 || proper {
		t.Errorf("expected improper list of 1, got %d (%v)", n, proper)
	}
}

func TestEqual(t *testing.T) {
	a := List(Number(1), String("x"), List(Symbol("y")))
	b := List(Number(1), String("x"), List(Symbol("y")))
	if !Equal(a, b) {
		t.Errorf("%s and %s should be equal", Format(a), Format(b))
	}
	if Equal(a, List(Number(1), String("x"))) {
		t.Errorf("lists of different length compared equal")
	}
	if Equal(Number(1), String("1")) {
		t.Errorf("values of different tags compared equal")
	}
	if !Equal(Nil, Nil) || !Equal(Error, Error) {
		t.Errorf("singletons should be equal to themselves")
	}
}
