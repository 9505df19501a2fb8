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

package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/fedang/schemeful/eval"
	"github.com/fedang/schemeful/sexp"
)

const prompt = "> "

// lineSource abstracts interactive readline input and plain piped input.
type lineSource interface {
	ReadLine() (string, error)
	Close() error
}

type scanSource struct {
	s *bufio.Scanner
}

func (s *scanSource) ReadLine() (string, error) {
	if s.s.Scan() {
		return s.s.Text(), nil
	}
	if err := s.s.Err(); err != nil {
		return "", errors.Wrap(err, "read failed")
	}
	return "", io.EOF
}

func (s *scanSource) Close() error { return nil }

type rlSource struct {
	rl *readline.Instance
}

func (s *rlSource) ReadLine() (string, error) {
	line, err := s.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	return line, err
}

func (s *rlSource) Close() error { return s.rl.Close() }

func newLineSource() (lineSource, error) {
	if !interactive() {
		return &scanSource{s: bufio.NewScanner(os.Stdin)}, nil
	}
	rl, err := readline.New(prompt)
	if err != nil {
		return nil, errors.Wrap(err, "readline init failed")
	}
	return &rlSource{rl: rl}, nil
}

// repl reads one expression per line, processes it through the top-level
// driver and prints the result. The symbol ? tracks the last printed value
// that is not the error sentinel; a failed line leaves it unchanged.
// End of stream terminates the loop.
func repl(in *eval.Interp, out *bufio.Writer) {
	src, err := newLineSource()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "%v\n", err)
		src = &scanSource{s: bufio.NewScanner(os.Stdin)}
	}
	defer src.Close()

	if interactive() {
		color.New(color.FgCyan).Fprintln(os.Stderr, "schemeful - my own little lisp :)")
	}

	for {
		line, err := src.ReadLine()
		if err != nil {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		expr, err := sexp.NewReader(strings.NewReader(line)).Read()
		if err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "Failed to read s-expression: %v\n", errors.Cause(err))
			continue
		}
		v := in.ProcessTop(expr)
		sexp.Write(out, v)
		out.WriteByte('\n')
		out.Flush()
		if !sexp.IsError(v) {
			in.Define("?", v)
		}
	}
}
