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

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestWriteForms(t *testing.T) {
	cases := []struct {
		v   Sexp
		out string
	}{
		{Nil, "()"},
		{Error, "<error>"},
		{Number(-7), "-7"},
		{Symbol("foo"), "foo"},
		{String("hi"), `"hi"`},
		{List(Number(1), Number(2), Number(3)), "(1 2 3)"},
		{Cons(Number(1), Number(2)), "(1 . 2)"},
		{Cons(Number(1), Cons(Number(2), Number(3))), "(1 2 . 3)"},
		{List(Symbol("quote"), Symbol("x")), "'x"},
		{List(Symbol("quote")), "(quote)"},
		{List(Symbol("quote"), Symbol("x"), Symbol("y")), "(quote x y)"},
		{Cons(Symbol("quote"), Symbol("x")), "(quote . x)"},
		{List(String(`say "hi"`)), `("say \"hi\"")`},
	}
	for _, c := range cases {
		if got := Format(c.v); got != c.out {
			t.Errorf("expected %q, got %q", c.out, got)
		}
	}
}

func TestWriteCount(t *testing.T) {
	v := List(Number(10), String("ab"), Nil)
	var b strings.Builder
	n, err := Write(&b, v)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != len(b.String()) {
		t.Errorf("expected count %d, got %d", len(b.String()), n)
	}
}

func TestDisplayBare(t *testing.T) {
	cases := []struct {
		v   Sexp
		out string
	}{
		{String("hi"), "hi"},
		{List(String("a"), Number(1)), "(a 1)"},
		{Number(3), "3"},
	}
	for _, c := range cases {
		var b strings.Builder
		if _, err := Display(&b, c.v); err != nil {
			t.Fatalf("display failed: %v", err)
		}
		if b.String() != c.out {
			t.Errorf("expected %q, got %q", c.out, b.String())
		}
	}
}

// failWriter fails after n bytes.
type failWriter struct {
	n int
}

func (w *failWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		n := w.n
		w.n = 0
		return n, errors.New("sink closed")
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWriteError(t *testing.T) {
	v := List(Number(1), Number(2), Number(3))
	n, err := Write(&failWriter{n: 3}, v)
	if err == nil {
		t.Fatal("expected an error from the failing sink")
	}
	if n > 3 {
		t.Errorf("count %d exceeds what the sink accepted", n)
	}
}

func TestWriteReadInverse(t *testing.T) {
	values := []Sexp{
		Nil,
		Number(0),
		Number(-99),
		Symbol("&rest"),
		String("with \"quotes\" and \\slashes\\"),
		List(Symbol("lambda"), List(Symbol("x")), Symbol("x")),
		List(Symbol("quote"), List(Number(1), Number(2))),
	}
	for _, v := range values {
		got, err := NewReader(strings.NewReader(Format(v))).Read()
		if err != nil {
			t.Fatalf("re-read of %q failed: %v", Format(v), err)
		}
		if !Equal(v, got) {
			t.Errorf("re-read of %q gave %q", Format(v), Format(got))
		}
	}
}
