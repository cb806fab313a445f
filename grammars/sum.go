package grammars

import "github.com/ava12/yydrive/grammar"

// Sum accepts exactly one addition of two numbers:
//
//	expr = $num "+" $num;
var Sum = &grammar.Grammar{
	Name: "sum",
	Tokens: []grammar.Token{
		{Name: "space", Re: `\s+`, Flags: grammar.AsideToken},
		{Name: "num", Re: `\d+`},
		{Name: "op", Re: `[+]`},
	},
	NonTerms: []grammar.NonTerm{
		{Name: "expr", Body: seq(tok("num"), lit("+"), tok("num"))},
	},
}
