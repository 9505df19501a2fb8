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

package eval_test

import (
	"fmt"
	"strings"

	"github.com/fedang/schemeful/eval"
	"github.com/fedang/schemeful/sexp"
)

// Shows how to drive the top-level processor over a source stream.
func ExampleInterp_ProcessTop() {
	in := eval.New()
	rd := sexp.NewReader(strings.NewReader(`
		(define double (lambda (x) (+ x x)))
		(double 21)
	`))
	for {
		expr, err := rd.Read()
		if err != nil {
			break
		}
		v := in.ProcessTop(expr)
		fmt.Println(sexp.Format(v))
	}
	// Output:
	// ()
	// 42
}
