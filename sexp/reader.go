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
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const eof rune = -1

// Reader reads successive s-expressions from a character stream. It keeps a
// one-rune lookahead and grows atom buffers dynamically.
type Reader struct {
	r       *bufio.Reader
	peeked  rune
	peeking bool
	line    int
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), line: 1}
}

// Read returns the next expression from the stream. At a clean end of
// stream it returns io.EOF; any other error denotes malformed input.
// Repeated calls yield successive top-level expressions.
func (rd *Reader) Read() (Sexp, error) {
	r := rd.skipSpace()
	if r == eof {
		return Error, io.EOF
	}
	return rd.expr(r)
}

func (rd *Reader) read() rune {
	if rd.peeking {
		rd.peeking = false
		return rd.peeked
	}
	r, _, err := rd.r.ReadRune()
	if err != nil {
		return eof
	}
	if r == '\n' {
		rd.line++
	}
	return r
}

func (rd *Reader) back(r rune) {
	rd.peeked, rd.peeking = r, true
}

// skipSpace skips whitespace and comments, returning the first rune of the
// next token (already consumed).
func (rd *Reader) skipSpace() rune {
	for {
		r := rd.read()
		switch {
		case r == ';':
			for r != '\n' && r != eof {
				r = rd.read()
			}
		case isSpace(r):
		default:
			return r
		}
	}
}

// expr reads one expression whose first rune is r.
func (rd *Reader) expr(r rune) (Sexp, error) {
	switch r {
	case ')':
		return Error, errors.Errorf("unexpected ')' at line %d", rd.line)
	case '(':
		return rd.list()
	case '\'':
		return rd.quoted()
	case '"':
		return rd.str()
	default:
		return rd.atom(r)
	}
}

// quoted reads the expression following a ' and wraps it in (quote _).
func (rd *Reader) quoted() (Sexp, error) {
	r := rd.skipSpace()
	if r == eof {
		return Error, errors.Errorf("quote at end of input (line %d)", rd.line)
	}
	s, err := rd.expr(r)
	if err != nil {
		return Error, err
	}
	return List(Symbol("quote"), s), nil
}

func (rd *Reader) list() (Sexp, error) {
	var items []Sexp
	for {
		r := rd.skipSpace()
		switch r {
		case eof:
			return Error, errors.Errorf("unterminated list at line %d", rd.line)
		case ')':
			return List(items...), nil
		default:
			s, err := rd.expr(r)
			if err != nil {
				return Error, err
			}
			items = append(items, s)
		}
	}
}

// str reads a string literal. A backslash makes the next character literal;
// the payload is stored verbatim minus the delimiting quotes.
func (rd *Reader) str() (Sexp, error) {
	var b strings.Builder
	for {
		switch r := rd.read(); r {
		case eof:
			return Error, errors.Errorf("unterminated string at line %d", rd.line)
		case '"':
			return String(b.String()), nil
		case '\\':
			n := rd.read()
			if n == eof {
				return Error, errors.Errorf("unterminated string at line %d", rd.line)
			}
			b.WriteRune(n)
		default:
			b.WriteRune(r)
		}
	}
}

// atom reads a symbol or number token starting with r.
func (rd *Reader) atom(r rune) (Sexp, error) {
	var b strings.Builder
	for {
		b.WriteRune(r)
		r = rd.read()
		if r == eof {
			break
		}
		if isDelim(r) {
			rd.back(r)
			break
		}
	}
	text := b.String()
	if isNumeric(text) {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Error, errors.Wrapf(err, "bad number %q at line %d", text, rd.line)
		}
		return Number(n), nil
	}
	if text == "nil" {
		return Nil, nil
	}
	return Symbol(text), nil
}

// isNumeric classifies a token as a number: first character '-' or a digit,
// every remaining character a digit. A lone '-' is not a number.
func isNumeric(text string) bool {
	body := text
	if text[0] == '-' {
		body = text[1:]
	}
	if body == "" {
		return false
	}
	for _, r := range body {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isDelim reports whether r ends the current atom.
func isDelim(r rune) bool {
	return isSpace(r) || r == '(' || r == ')' || r == '"' || r == '\'' || r == ';'
}
