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
	"io"
	"strconv"
	"strings"

	"github.com/fedang/schemeful/internal/wio"
)

// Write renders s to w in reader syntax and returns the number of bytes
// written. For values without embedded escape hazards the output reads back
// structurally equal, except for dotted tails: the reader has no dotted-pair
// syntax, so the "." reads back as an ordinary symbol.
func Write(w io.Writer, s Sexp) (int, error) {
	ew := wio.New(w)
	writeSexp(ew, s, false)
	return ew.N, ew.Err
}

// Display is Write with strings emitted without their surrounding quotes.
func Display(w io.Writer, s Sexp) (int, error) {
	ew := wio.New(w)
	writeSexp(ew, s, true)
	return ew.N, ew.Err
}

// Format returns the printed form of s.
func Format(s Sexp) string {
	var b strings.Builder
	Write(&b, s)
	return b.String()
}

func writeSexp(w *wio.Writer, s Sexp, bare bool) {
	switch v := s.(type) {
	case singleton:
		if Tag(v) == TagNil {
			w.WriteString("()")
		} else {
			w.WriteString("<error>")
		}
	case Symbol:
		w.WriteString(string(v))
	case Number:
		w.WriteString(strconv.FormatInt(int64(v), 10))
	case String:
		if bare {
			w.WriteString(string(v))
		} else {
			writeQuoted(w, string(v))
		}
	case *Cell:
		// (quote x) prints as 'x
		if sym, ok := v.Car.(Symbol); ok && sym == "quote" {
			if tail, ok := v.Cdr.(*Cell); ok && IsNil(tail.Cdr) {
				w.WriteByte('\'')
				writeSexp(w, tail.Car, bare)
				return
			}
		}
		w.WriteByte('(')
		for {
			writeSexp(w, v.Car, bare)
			next, ok := v.Cdr.(*Cell)
			if !ok {
				if !IsNil(v.Cdr) {
					w.WriteString(" . ")
					writeSexp(w, v.Cdr, bare)
				}
				w.WriteByte(')')
				return
			}
			w.WriteByte(' ')
			v = next
		}
	}
}

// writeQuoted emits a string literal, escaping the delimiter and the escape
// marker so the result reads back.
func writeQuoted(w *wio.Writer, s string) {
	w.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			w.WriteByte('\\')
		}
		w.WriteByte(s[i])
	}
	w.WriteByte('"')
}
