package grammars

import "github.com/ava12/yydrive/grammar"

// Ash is the grammar of ash, a small scripting language translated to Bash:
//
//	program    = {funcDecl | statement};
//	funcDecl   = type "function" $identifier "(" [param {"," param}] ")" block;
//	param      = type $identifier;
//	type       = "int" | "string" | "bool" | "void";
//	block      = "{" {statement} "}";
//	statement  = varDecl | ifStmt | forStmt | whileStmt | echoStmt | returnStmt | bangStmt | nameStmt;
//	varDecl    = "let" $identifier ":" type ["=" expr] ";";
//	ifStmt     = "if" "(" expr ")" block ["else" block];
//	forStmt    = "for" "(" $identifier "in" expr ".." expr ")" block;
//	whileStmt  = "while" "(" expr ")" block;
//	echoStmt   = "echo" "(" expr ")" ";";
//	returnStmt = "return" [expr] ";";
//	bangStmt   = $bang_line ";";
//	nameStmt   = $identifier ("=" expr | args) ";";
//	args       = "(" [expr {"," expr}] ")";
//	expr       = bTerm {"||" bTerm};
//	bTerm      = relExpr {"&&" relExpr};
//	relExpr    = simpleExpr [("==" | "!=" | ">" | "<" | ">=" | "<=") simpleExpr];
//	simpleExpr = term {("+" | "-") term};
//	term       = factor {("*" | "/" | "%") factor};
//	factor     = $number | $string | "true" | "false" | $identifier [args] | readCall |
//	             $bang_expr | ("+" | "-") factor | "(" expr ")";
//	readCall   = "read" "(" [expr] ")";
//
// "!(cmd)" captures command output, "!cmd" up to the end of line or ";" is an inline command.
// Strings and "!(cmd)" must not span lines, an unterminated one is a bad token up to the end of line.
// Parser resynchronizes on ";" and "}".
var Ash = &grammar.Grammar{
	Name: "ash",
	Tokens: []grammar.Token{
		{Name: "space", Re: `\s+`, Flags: grammar.AsideToken},
		{Name: "op2", Re: `==|!=|>=|<=|\.\.|&&|\|\|`},
		{Name: "bang_expr", Re: `!\([^)\n]*\)`},
		{Name: "bad_bang_expr", Re: `!\([^)\n]*`, Flags: grammar.ErrorToken},
		{Name: "bang_line", Re: `![^\n;]*`},
		{Name: "number", Re: `\d+`},
		{Name: "string", Re: `"[^"\n]*"`},
		{Name: "bad_string", Re: `"[^"\n]*`, Flags: grammar.ErrorToken},
		{Name: "keyword", Re: `(?:let|function|if|else|for|while|return|echo|read|in|int|string|bool|void|true|false)\b`},
		{Name: "identifier", Re: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "op", Re: `[=+\-*/%(){};:,<>]`},
	},
	NonTerms: []grammar.NonTerm{
		{Name: "program", Body: rep(alt(ref("funcDecl"), ref("statement")))},
		{Name: "funcDecl", Body: seq(
			ref("type"), lit("function"), tok("identifier"),
			lit("("), opt(ref("param"), rep(lit(","), ref("param"))), lit(")"),
			ref("block"),
		)},
		{Name: "param", Body: seq(ref("type"), tok("identifier"))},
		{Name: "type", Body: lits("int", "string", "bool", "void")},
		{Name: "block", Body: seq(lit("{"), rep(ref("statement")), lit("}"))},
		{Name: "statement", Body: alt(
			ref("varDecl"), ref("ifStmt"), ref("forStmt"), ref("whileStmt"),
			ref("echoStmt"), ref("returnStmt"), ref("bangStmt"), ref("nameStmt"),
		)},
		{Name: "varDecl", Body: seq(lit("let"), tok("identifier"), lit(":"), ref("type"), opt(lit("="), ref("expr")), lit(";"))},
		{Name: "ifStmt", Body: seq(lit("if"), lit("("), ref("expr"), lit(")"), ref("block"), opt(lit("else"), ref("block")))},
		{Name: "forStmt", Body: seq(
			lit("for"), lit("("), tok("identifier"), lit("in"), ref("expr"), lit(".."), ref("expr"), lit(")"),
			ref("block"),
		)},
		{Name: "whileStmt", Body: seq(lit("while"), lit("("), ref("expr"), lit(")"), ref("block"))},
		{Name: "echoStmt", Body: seq(lit("echo"), lit("("), ref("expr"), lit(")"), lit(";"))},
		{Name: "returnStmt", Body: seq(lit("return"), opt(ref("expr")), lit(";"))},
		{Name: "bangStmt", Body: seq(tok("bang_line"), lit(";"))},
		{Name: "nameStmt", Body: seq(tok("identifier"), alt(seq(lit("="), ref("expr")), ref("args")), lit(";"))},
		{Name: "args", Body: seq(lit("("), opt(ref("expr"), rep(lit(","), ref("expr"))), lit(")"))},
		{Name: "expr", Body: seq(ref("bTerm"), rep(lit("||"), ref("bTerm")))},
		{Name: "bTerm", Body: seq(ref("relExpr"), rep(lit("&&"), ref("relExpr")))},
		{Name: "relExpr", Body: seq(ref("simpleExpr"), opt(lits("==", "!=", ">", "<", ">=", "<="), ref("simpleExpr")))},
		{Name: "simpleExpr", Body: seq(ref("term"), rep(lits("+", "-"), ref("term")))},
		{Name: "term", Body: seq(ref("factor"), rep(lits("*", "/", "%"), ref("factor")))},
		{Name: "factor", Body: alt(
			tok("number"),
			tok("string"),
			lit("true"),
			lit("false"),
			seq(tok("identifier"), opt(ref("args"))),
			ref("readCall"),
			tok("bang_expr"),
			seq(lits("+", "-"), ref("factor")),
			seq(lit("("), ref("expr"), lit(")")),
		)},
		{Name: "readCall", Body: seq(lit("read"), lit("("), opt(ref("expr")), lit(")"))},
	},
	Sync: []string{";", "}"},
}
