package grammars

import "github.com/ava12/yydrive/grammar"

// Calc is the line calculator grammar:
//
//	calc  = "func" $name "(" [$name {"," $name}] ")" "=" expr | expr ["=" expr];
//	expr  = ["-"] pro {("+" | "-") pro};
//	pro   = pow {("*" | "/") pow};
//	pow   = value ["^" pow];
//	value = $number | $name [args] | "(" expr ")";
//	args  = "(" [expr {"," expr}] ")";
//
// Whether the left side of assignment is a plain name is not checked.
var Calc = &grammar.Grammar{
	Name: "calc",
	Tokens: []grammar.Token{
		{Name: "space", Re: `\s+`, Flags: grammar.AsideToken},
		{Name: "number", Re: `\d+(?:\.\d+)?(?:[Ee]-?\d+)?`},
		{Name: "name", Re: `[A-Za-z][A-Za-z0-9_]*`},
		{Name: "op", Re: `[(),=*/^+-]`},
	},
	NonTerms: []grammar.NonTerm{
		{Name: "calc", Body: alt(
			seq(lit("func"), tok("name"), lit("("), opt(tok("name"), rep(lit(","), tok("name"))), lit(")"), lit("="), ref("expr")),
			seq(ref("expr"), opt(lit("="), ref("expr"))),
		)},
		{Name: "expr", Body: seq(opt(lit("-")), ref("pro"), rep(lits("+", "-"), ref("pro")))},
		{Name: "pro", Body: seq(ref("pow"), rep(lits("*", "/"), ref("pow")))},
		{Name: "pow", Body: seq(ref("value"), opt(lit("^"), ref("pow")))},
		{Name: "value", Body: alt(
			tok("number"),
			seq(tok("name"), opt(ref("args"))),
			seq(lit("("), ref("expr"), lit(")")),
		)},
		{Name: "args", Body: seq(lit("("), opt(ref("expr"), rep(lit(","), ref("expr"))), lit(")"))},
	},
}
