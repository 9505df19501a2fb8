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
	"github.com/fedang/schemeful/sexp"
)

// Reserved symbols used by the closure encoding and the binders.
const (
	symQuote  = sexp.Symbol("quote")
	symLambda = sexp.Symbol("lambda")
	symLet    = sexp.Symbol("let")
	symRest   = sexp.Symbol("&rest")
)

// A closure is encoded as the value (lambda fvs params body) where fvs is
// the association list of captured free variables. The source form
// (lambda params body) is one element shorter, so the same head classifies
// both and the length disambiguates.

// isClosure reports whether s has the run-time closure shape.
func isClosure(s sexp.Sexp) bool {
	_, _, _, ok := closureParts(s)
	return ok
}

// closureParts decomposes a closure value.
func closureParts(s sexp.Sexp) (fvs, params, body sexp.Sexp, ok bool) {
	c, okc := s.(*sexp.Cell)
	if !okc {
		return nil, nil, nil, false
	}
	if sym, oks := c.Car.(sexp.Symbol); !oks || sym != symLambda {
		return nil, nil, nil, false
	}
	rest, proper := sexp.Slice(c.Cdr)
	if !proper || len(rest) != 3 {
		return nil, nil, nil, false
	}
	if !isParamList(rest[1]) {
		return nil, nil, nil, false
	}
	return rest[0], rest[1], rest[2], true
}

// isParamList reports whether s is a proper list of symbols.
func isParamList(s sexp.Sexp) bool {
	items, proper := sexp.Slice(s)
	if !proper {
		return false
	}
	for _, p := range items {
		if _, ok := p.(sexp.Symbol); !ok {
			return false
		}
	}
	return true
}

// evalLambda evaluates (lambda params body): the free variables of body are
// snapshotted from env and the closure value is returned. Creation fails if
// any free variable is unbound.
func (in *Interp) evalLambda(args, env sexp.Sexp) sexp.Sexp {
	params, body, ok := lambdaTail(args)
	if !ok {
		in.log.Errorf("Malformed lambda")
		return sexp.Error
	}
	fvs := freeVars(body, paramSyms(params))
	captured, ok := in.captureFvs(fvs, env)
	if !ok {
		return sexp.Error
	}
	return sexp.List(symLambda, captured, params, body)
}

// lambdaTail destructures (params body), the tail of a source lambda form.
func lambdaTail(args sexp.Sexp) (params, body sexp.Sexp, ok bool) {
	params, body, ok = splitPair(args)
	if !ok || !isParamList(params) {
		return nil, nil, false
	}
	return params, body, true
}

func splitPair(args sexp.Sexp) (x, y sexp.Sexp, ok bool) {
	c, okc := args.(*sexp.Cell)
	if !okc {
		return nil, nil, false
	}
	d, okd := c.Cdr.(*sexp.Cell)
	if !okd || !sexp.IsNil(d.Cdr) {
		return nil, nil, false
	}
	return c.Car, d.Car, true
}

// paramSyms returns the parameter names as a symbol list, dropping the
// &rest marker.
func paramSyms(params sexp.Sexp) sexp.Sexp {
	items, _ := sexp.Slice(params)
	var syms []sexp.Sexp
	for _, p := range items {
		if p == sexp.Sexp(symRest) {
			continue
		}
		syms = append(syms, p)
	}
	return sexp.List(syms...)
}

// freeVars collects the symbols of body that appear in evaluation position
// and are neither bound nor builtin. It descends into every subform except
// (quote _); lambda and let extend the bound list.
func freeVars(body, bound sexp.Sexp) sexp.Sexp {
	switch v := body.(type) {
	case sexp.Symbol:
		if containsSym(bound, v) || isBuiltin(v) {
			return sexp.Nil
		}
		return sexp.List(v)
	case *sexp.Cell:
		if sym, ok := v.Car.(sexp.Symbol); ok && sym == symQuote {
			return sexp.Nil
		}
		if sym, ok := v.Car.(sexp.Symbol); ok && sym == symLambda {
			if params, sub, ok := lambdaTail(v.Cdr); ok {
				return freeVars(sub, mergeSyms(paramSyms(params), bound))
			}
		}
		if sym, ok := v.Car.(sexp.Symbol); ok && sym == symLet {
			if bindings, sub, ok := letTail(v.Cdr); ok {
				fvs := sexp.Nil
				names := bound
				for _, b := range bindings {
					fvs = mergeSyms(freeVars(sexp.Cadr(b), bound), fvs)
					names = sexp.Cons(b.Car, names)
				}
				return mergeSyms(freeVars(sub, names), fvs)
			}
		}
		return mergeSyms(freeVars(v.Car, bound), freeVars(v.Cdr, bound))
	default:
		return sexp.Nil
	}
}

// letTail destructures (bindings body), the tail of a let form. Every
// binding must be a (name value) pair and at least one is required.
func letTail(args sexp.Sexp) (bindings []*sexp.Cell, body sexp.Sexp, ok bool) {
	head, body, ok := splitPair(args)
	if !ok {
		return nil, nil, false
	}
	items, proper := sexp.Slice(head)
	if !proper || len(items) == 0 {
		return nil, nil, false
	}
	for _, b := range items {
		c, okb := b.(*sexp.Cell)
		if !okb {
			return nil, nil, false
		}
		if _, oks := c.Car.(sexp.Symbol); !oks {
			return nil, nil, false
		}
		if n, p := sexp.Len(c); !p || n != 2 {
			return nil, nil, false
		}
		bindings = append(bindings, c)
	}
	return bindings, body, true
}

// containsSym reports whether the symbol list holds sym.
func containsSym(list sexp.Sexp, sym sexp.Symbol) bool {
	for !sexp.IsNil(list) {
		c, ok := list.(*sexp.Cell)
		if !ok {
			return false
		}
		if c.Car == sym {
			return true
		}
		list = c.Cdr
	}
	return false
}

// mergeSyms unions two symbol lists, keeping entries of a that are absent
// from b.
func mergeSyms(a, b sexp.Sexp) sexp.Sexp {
	c, ok := a.(*sexp.Cell)
	if !ok {
		return b
	}
	rest := mergeSyms(c.Cdr, b)
	if sym, ok := c.Car.(sexp.Symbol); ok && containsSym(b, sym) {
		return rest
	}
	return sexp.Cons(c.Car, rest)
}

// captureFvs snapshots (name . value) pairs for every free variable from
// the defining environment.
func (in *Interp) captureFvs(fvs, env sexp.Sexp) (sexp.Sexp, bool) {
	c, ok := fvs.(*sexp.Cell)
	if !ok {
		return sexp.Nil, true
	}
	sym, ok := c.Car.(sexp.Symbol)
	if !ok {
		in.log.Panicf("malformed free variable list: %s", sexp.Format(fvs))
	}
	val, ok := in.lookup(sym, env)
	if !ok {
		in.log.Errorf("Symbol %s not bound in scope", sym)
		return sexp.Error, false
	}
	rest, ok := in.captureFvs(c.Cdr, env)
	if !ok {
		return sexp.Error, false
	}
	return sexp.Cons(sexp.Cons(sym, val), rest), true
}

// invoke calls a closure value with an already evaluated argument list.
func (in *Interp) invoke(callee, args sexp.Sexp) sexp.Sexp {
	fvs, params, body, ok := closureParts(callee)
	if !ok {
		in.log.Errorf("Expected a function as a callee")
		return sexp.Error
	}
	env, ok := in.bindParams(params, args, fvs)
	if !ok {
		return sexp.Error
	}
	return in.Eval(body, env)
}

// bindParams binds the parameter list to args and prepends the frame to the
// captured free variables. The &rest marker must precede the final
// parameter, which receives the remaining arguments as a list.
func (in *Interp) bindParams(params, args, fvs sexp.Sexp) (sexp.Sexp, bool) {
	env := fvs
	for {
		if sexp.IsNil(params) {
			if !sexp.IsNil(args) {
				in.log.Errorf("Too many arguments in call")
				return sexp.Error, false
			}
			return env, true
		}
		p, ok := params.(*sexp.Cell)
		if !ok {
			in.log.Errorf("Malformed parameter list")
			return sexp.Error, false
		}
		sym, ok := p.Car.(sexp.Symbol)
		if !ok {
			in.log.Errorf("Lambda parameter should be a symbol")
			return sexp.Error, false
		}
		if sym == symRest {
			rest, ok := p.Cdr.(*sexp.Cell)
			if !ok || !sexp.IsNil(rest.Cdr) {
				in.log.Errorf("&rest must be followed by exactly one parameter")
				return sexp.Error, false
			}
			name, ok := rest.Car.(sexp.Symbol)
			if !ok {
				in.log.Errorf("Lambda parameter should be a symbol")
				return sexp.Error, false
			}
			return sexp.Cons(sexp.Cons(name, args), env), true
		}
		a, ok := args.(*sexp.Cell)
		if !ok {
			if sexp.IsNil(args) {
				in.log.Errorf("Too few arguments in call")
			} else {
				in.log.Errorf("Malformed argument list")
			}
			return sexp.Error, false
		}
		env = sexp.Cons(sexp.Cons(sym, a.Car), env)
		params, args = p.Cdr, a.Cdr
	}
}
