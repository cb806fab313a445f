// Package grammars holds grammars bundled with yydrive.
package grammars

import (
	"sort"

	"github.com/ava12/yydrive/grammar"
)

var (
	tok = grammar.Tok
	lit = grammar.Lit
	ref = grammar.Ref
	seq = grammar.Seq
	alt = grammar.Alt
	opt = grammar.Opt
	rep = grammar.Rep
)

// lits returns alternative of literals.
func lits(texts ...string) grammar.Expr {
	items := make([]grammar.Expr, len(texts))
	for i, text := range texts {
		items[i] = lit(text)
	}
	return alt(items...)
}

var registry = map[string]*grammar.Grammar{
	Sum.Name:  Sum,
	Calc.Name: Calc,
	Ash.Name:  Ash,
}

// Lookup returns a copy of bundled grammar by name, so the caller may modify it freely.
func Lookup(name string) (*grammar.Grammar, bool) {
	g, f := registry[name]
	if !f {
		return nil, false
	}
	return g.Copy(), true
}

// Names returns sorted names of bundled grammars.
func Names() []string {
	res := make([]string, 0, len(registry))
	for name := range registry {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
