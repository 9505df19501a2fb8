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
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/fedang/schemeful/eval"
	"github.com/fedang/schemeful/lang/prelude"
)

var (
	trace    bool
	intoRepl bool
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [--trace] [--repl] [file]\n", os.Args[0])
	os.Exit(1)
}

func main() {
	flag.Usage = usage
	flag.BoolVar(&trace, "trace", false, "trace each form as it is processed")
	flag.BoolVar(&intoRepl, "repl", false, "drop into a REPL after processing file")
	flag.Parse()
	if flag.NArg() > 1 {
		usage()
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if trace {
		log.SetLevel(logrus.TraceLevel)
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	in := eval.New(eval.Output(stdout), eval.Logger(log))
	if err := prelude.Load(in); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if flag.NArg() == 1 {
		if err := in.RunFile(flag.Arg(0)); err != nil {
			stdout.Flush()
			color.New(color.FgRed).Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		stdout.Flush()
		if !intoRepl {
			return
		}
	}
	repl(in, stdout)
}
