package yydrive_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/ava12/yydrive/driver"
	"github.com/ava12/yydrive/grammar"
	"github.com/ava12/yydrive/parser"
)

func Example() {
	g := &grammar.Grammar{
		Name: "assignments",
		Tokens: []grammar.Token{
			{Name: "space", Re: `\s+`, Flags: grammar.AsideToken},
			{Name: "name", Re: `[a-z]+`},
			{Name: "number", Re: `\d+`},
			{Name: "op", Re: `[=;]`},
		},
		NonTerms: []grammar.NonTerm{
			{Name: "list", Body: grammar.Rep(grammar.Ref("assignment"))},
			{Name: "assignment", Body: grammar.Seq(
				grammar.Tok("name"), grammar.Lit("="), grammar.Alt(grammar.Tok("name"), grammar.Tok("number")), grammar.Lit(";"),
			)},
		},
		Sync: []string{";"},
	}

	p, e := parser.New(g)
	if e != nil {
		fmt.Println(e)
		return
	}

	input := "foo = 1;\nbar = ;\nbaz = foo;\nqux 2;\n"
	gp := driver.NewGrammarParser(p, strings.NewReader(input), "input", parser.Options{Recover: true})
	d := driver.New(gp, driver.WithMode(driver.Located), driver.WithStderr(os.Stdout))
	code, e := d.Run(os.Args[1:])
	fmt.Println(code, e, d.Outcome())

	// Output:
	// Error: syntax error at ';' on line 2
	// Error: syntax error at '2' on line 4
	// 0 <nil> syntax error
}
