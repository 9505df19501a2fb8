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

// schemeful is a small lisp interpreter.
//
// Usage:
//
//	schemeful [--trace] [--repl] [file]
//
// With no arguments it starts a REPL. With a file argument it processes
// each top-level form of the file and exits; soft failures are reported on
// stderr and do not change the exit status, while a file that cannot be
// opened exits with status 1. The --repl flag drops into a REPL after the
// file, keeping the accumulated environments. The --trace flag raises the
// diagnostic verbosity to include per-form traces.
package main
