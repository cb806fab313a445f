package grammar

import (
	"regexp"

	"github.com/ava12/yydrive"
)

// Error codes used by grammar validation:
const (
	EmptyGrammarError = yydrive.GrammarErrors + iota
	DuplicateNameError
	BadTokenReError
	UnknownNameError
	BadExprError
	UnmatchedLiteralError
	WrongFormatError
)

func emptyGrammarError(name string) *yydrive.Error {
	return yydrive.FormatError(EmptyGrammarError, "grammar %q has no tokens or non-terminals", name)
}

func duplicateNameError(kind, name string) *yydrive.Error {
	return yydrive.FormatError(DuplicateNameError, "duplicate %s name %q", kind, name)
}

func badTokenReError(name, re string, e error) *yydrive.Error {
	if e == nil {
		return yydrive.FormatError(BadTokenReError, "token %q has empty regexp", name)
	}
	return yydrive.FormatError(BadTokenReError, "token %q has bad regexp %q: %s", name, re, e)
}

func emptyMatchError(name, re string) *yydrive.Error {
	return yydrive.FormatError(BadTokenReError, "token %q regexp %q matches empty string", name, re)
}

func unknownNameError(kind, name, nonTerm string) *yydrive.Error {
	return yydrive.FormatError(UnknownNameError, "unknown %s %q in %s", kind, name, nonTerm)
}

func badExprError(e Expr, nonTerm string) *yydrive.Error {
	return yydrive.FormatError(BadExprError, "malformed expression %s in %s", e, nonTerm)
}

func unmatchedLiteralError(text, where string) *yydrive.Error {
	return yydrive.FormatError(UnmatchedLiteralError, "literal %q in %s is not matched by any token", text, where)
}

// Validate checks that the grammar is well-formed: names are unique, every reference resolves,
// every token regexp compiles and never matches empty string, and every literal is a complete match of some significant token.
// It does not check LL(1) properties, parser.New does that.
func (g *Grammar) Validate() error {
	if len(g.Tokens) == 0 || len(g.NonTerms) == 0 {
		return emptyGrammarError(g.Name)
	}

	tokens := make(map[string]TokenFlags, len(g.Tokens))
	var literalRes []*regexp.Regexp
	for _, t := range g.Tokens {
		if _, f := tokens[t.Name]; f {
			return duplicateNameError("token", t.Name)
		}
		tokens[t.Name] = t.Flags

		if t.Re == "" {
			return badTokenReError(t.Name, t.Re, nil)
		}
		re, e := regexp.Compile("^(?:" + t.Re + ")$")
		if e != nil {
			return badTokenReError(t.Name, t.Re, e)
		}
		if re.MatchString("") {
			return emptyMatchError(t.Name, t.Re)
		}
		if t.Flags&(AsideToken|ErrorToken) == 0 {
			literalRes = append(literalRes, re)
		}
	}

	nonTerms := make(map[string]bool, len(g.NonTerms))
	for _, nt := range g.NonTerms {
		if nonTerms[nt.Name] {
			return duplicateNameError("non-terminal", nt.Name)
		}
		nonTerms[nt.Name] = true
	}

	v := validator{tokens, nonTerms, literalRes}
	for _, nt := range g.NonTerms {
		if e := v.check(nt.Body, nt.Name); e != nil {
			return e
		}
	}

	for _, text := range g.Sync {
		if !v.matchesLiteral(text) {
			return unmatchedLiteralError(text, "sync list")
		}
	}

	return nil
}

type validator struct {
	tokens     map[string]TokenFlags
	nonTerms   map[string]bool
	literalRes []*regexp.Regexp
}

func (v validator) matchesLiteral(text string) bool {
	if text == "" {
		return false
	}

	for _, re := range v.literalRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (v validator) check(e Expr, nonTerm string) error {
	switch e.Kind {
	case TokenExpr:
		flags, f := v.tokens[e.Name]
		if !f || flags&(AsideToken|ErrorToken) != 0 {
			return unknownNameError("token", e.Name, nonTerm)
		}
		return nil

	case LiteralExpr:
		if !v.matchesLiteral(e.Name) {
			return unmatchedLiteralError(e.Name, nonTerm)
		}
		return nil

	case NonTermExpr:
		if !v.nonTerms[e.Name] {
			return unknownNameError("non-terminal", e.Name, nonTerm)
		}
		return nil

	case SeqExpr, AltExpr, OptExpr, RepExpr:
		if len(e.Items) == 0 || e.Name != "" {
			return badExprError(e, nonTerm)
		}
		for _, item := range e.Items {
			if err := v.check(item, nonTerm); err != nil {
				return err
			}
		}
		return nil

	default:
		return badExprError(e, nonTerm)
	}
}
