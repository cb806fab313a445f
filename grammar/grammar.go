// Package grammar defines the grammar model interpreted by lexer and parser.
//
// A grammar is a list of token types (each described by a regular expression) and a list of
// non-terminals. The first non-terminal is the root. Non-terminal bodies are expressions built
// from token type references, literals (exact token text), non-terminal references, sequences,
// alternatives, optional parts, and repetitions:
//
//	g := &grammar.Grammar{
//		Name: "sum",
//		Tokens: []grammar.Token{
//			{Name: "space", Re: `\s+`, Flags: grammar.AsideToken},
//			{Name: "num", Re: `\d+`},
//			{Name: "op", Re: `[+]`},
//		},
//		NonTerms: []grammar.NonTerm{
//			{Name: "expr", Body: grammar.Seq(grammar.Tok("num"), grammar.Lit("+"), grammar.Tok("num"))},
//		},
//	}
//
// Grammars are plain data and may be produced by external tools, see Load.
package grammar

import (
	"slices"
	"strconv"
	"strings"
)

type TokenFlags int

const (
	// AsideToken marks insignificant lexemes (whitespace, comments) skipped by lexer.
	AsideToken TokenFlags = 1 << iota

	// ErrorToken marks broken lexemes (e.g. unterminated strings), lexer reports them as errors.
	ErrorToken
)

type Token struct {
	Name  string     `json:"name" yaml:"name"`
	Re    string     `json:"re" yaml:"re"`
	Flags TokenFlags `json:"flags,omitempty" yaml:"flags,omitempty"`
}

type ExprKind string

const (
	TokenExpr   ExprKind = "token"
	LiteralExpr ExprKind = "literal"
	NonTermExpr ExprKind = "nonterm"
	SeqExpr     ExprKind = "seq"
	AltExpr     ExprKind = "alt"
	OptExpr     ExprKind = "opt"
	RepExpr     ExprKind = "rep"
)

// Expr is a node of non-terminal body.
// Name holds token type name, literal text, or non-terminal name; Items holds sub-expressions.
// Opt and rep expressions with several items treat them as a sequence.
type Expr struct {
	Kind  ExprKind `json:"kind" yaml:"kind"`
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Items []Expr   `json:"items,omitempty" yaml:"items,omitempty"`
}

type NonTerm struct {
	Name string `json:"name" yaml:"name"`
	Body Expr   `json:"body" yaml:"body"`
}

type Grammar struct {
	Name     string    `json:"name" yaml:"name"`
	Tokens   []Token   `json:"tokens" yaml:"tokens"`
	NonTerms []NonTerm `json:"nonterms" yaml:"nonterms"`

	// Sync lists literals used by parser to resynchronize after a syntax error.
	Sync []string `json:"sync,omitempty" yaml:"sync,omitempty"`
}

const RootNonTerm = 0

func Tok(name string) Expr {
	return Expr{Kind: TokenExpr, Name: name}
}

func Lit(text string) Expr {
	return Expr{Kind: LiteralExpr, Name: text}
}

func Ref(name string) Expr {
	return Expr{Kind: NonTermExpr, Name: name}
}

func Seq(items ...Expr) Expr {
	return Expr{Kind: SeqExpr, Items: items}
}

func Alt(items ...Expr) Expr {
	return Expr{Kind: AltExpr, Items: items}
}

func Opt(items ...Expr) Expr {
	return Expr{Kind: OptExpr, Items: items}
}

func Rep(items ...Expr) Expr {
	return Expr{Kind: RepExpr, Items: items}
}

// Copy returns a deep copy of g, changes to the copy never affect g.
func (g *Grammar) Copy() *Grammar {
	res := &Grammar{
		Name:     g.Name,
		Tokens:   slices.Clone(g.Tokens),
		NonTerms: slices.Clone(g.NonTerms),
		Sync:     slices.Clone(g.Sync),
	}
	for i := range res.NonTerms {
		res.NonTerms[i].Body = res.NonTerms[i].Body.copy()
	}
	return res
}

func (e Expr) copy() Expr {
	if e.Items != nil {
		items := make([]Expr, len(e.Items))
		for i, item := range e.Items {
			items[i] = item.copy()
		}
		e.Items = items
	}
	return e
}

// TokenIndex returns index of token type or -1.
func (g *Grammar) TokenIndex(name string) int {
	for i, t := range g.Tokens {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// NonTermIndex returns index of non-terminal or -1.
func (g *Grammar) NonTermIndex(name string) int {
	for i, nt := range g.NonTerms {
		if nt.Name == name {
			return i
		}
	}
	return -1
}

// String renders expression in EBNF-like notation: $token, "literal", name, [opt], {rep}, (a | b).
func (e Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e Expr) write(sb *strings.Builder) {
	switch e.Kind {
	case TokenExpr:
		sb.WriteString("$" + e.Name)
	case LiteralExpr:
		sb.WriteString(strconv.Quote(e.Name))
	case NonTermExpr:
		sb.WriteString(e.Name)
	case SeqExpr:
		writeItems(sb, e.Items, " ")
	case AltExpr:
		sb.WriteByte('(')
		writeItems(sb, e.Items, " | ")
		sb.WriteByte(')')
	case OptExpr:
		sb.WriteByte('[')
		writeItems(sb, e.Items, " ")
		sb.WriteByte(']')
	case RepExpr:
		sb.WriteByte('{')
		writeItems(sb, e.Items, " ")
		sb.WriteByte('}')
	default:
		sb.WriteString("?" + string(e.Kind))
	}
}

func writeItems(sb *strings.Builder, items []Expr, sep string) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		item.write(sb)
	}
}
