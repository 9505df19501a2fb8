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

// Package prelude ships a small library of macros and helpers written in
// schemeful itself: when, unless, and, or, not, null?, cadr, caddr, append
// and map.
package prelude

import (
	_ "embed"
	"strings"

	"github.com/pkg/errors"

	"github.com/fedang/schemeful/eval"
	"github.com/fedang/schemeful/sexp"
)

//go:embed prelude.scm
var source string

// Load processes the prelude through the interpreter's top-level driver,
// mutating its environments.
func Load(in *eval.Interp) error {
	if sexp.IsError(in.Process(strings.NewReader(source))) {
		return errors.New("prelude failed to load")
	}
	return nil
}
