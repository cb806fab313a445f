// Package lexer defines lexical analyzer.
package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ava12/yydrive"
	"github.com/ava12/yydrive/grammar"
	"github.com/ava12/yydrive/source"
)

// Error codes used by lexer:
const (
	// WrongCharError indicates that lexer cannot fetch any token at current position.
	// Error message contains the rune at current source position.
	WrongCharError = yydrive.LexicalErrors + iota

	// BadTokenError indicates that lexer has fetched a token flagged as grammar.ErrorToken.
	BadTokenError
)

func wrongCharError(sp source.Pos, r rune, text string) *yydrive.Error {
	msg := fmt.Sprintf("wrong char %q (u+%x)", r, r)
	e := yydrive.FormatErrorPos(sp, WrongCharError, msg)
	e.Lexeme = text
	return e
}

func badTokenError(t *Token) *yydrive.Error {
	e := yydrive.FormatErrorPos(t, BadTokenError, "bad token %q", t.Text())
	e.Lexeme = t.Text()
	return e
}

// Lexer is built once per grammar. It is immutable and safe for concurrent use,
// all scanning state lives in Scanner.
// Token regexps are tried in grammar order, the first alternative that matches wins.
// Every byte of source must belong to some lexeme.
type Lexer struct {
	tokens []grammar.Token
	re     *regexp.Regexp
	groups []int // capturing group index for each token type
}

// New creates lexer for all token types of g.
func New(g *grammar.Grammar) (*Lexer, error) {
	masks := make([]string, len(g.Tokens))
	groups := make([]int, len(g.Tokens))
	group := 1
	for i, t := range g.Tokens {
		re, e := regexp.Compile(t.Re)
		if e != nil || t.Re == "" {
			return nil, badTokenReError(t, e)
		}

		groups[i] = group
		group += re.NumSubexp() + 1
		masks[i] = "(" + t.Re + ")"
	}

	re, e := regexp.Compile("^(?s:" + strings.Join(masks, "|") + ")")
	if e != nil {
		return nil, yydrive.FormatError(grammar.BadTokenReError, "cannot compile lexer for %q: %s", g.Name, e)
	}

	return &Lexer{g.Tokens, re, groups}, nil
}

func badTokenReError(t grammar.Token, e error) *yydrive.Error {
	if e == nil {
		return yydrive.FormatError(grammar.BadTokenReError, "token %q has empty regexp", t.Name)
	}
	return yydrive.FormatError(grammar.BadTokenReError, "token %q has bad regexp: %s", t.Name, e)
}

// Scan starts scanning src from its beginning.
func (l *Lexer) Scan(src *source.Source) *Scanner {
	return &Scanner{lexer: l, src: src}
}

// Scanner holds the state of a single pass over a source.
type Scanner struct {
	lexer *Lexer
	src   *source.Source
	pos   int
}

// Source returns scanned source.
func (s *Scanner) Source() *source.Source {
	return s.src
}

func (s *Scanner) match(content []byte) (tokenIndex, size int) {
	match := s.lexer.re.FindSubmatchIndex(content)
	if len(match) == 0 || match[1] <= match[0] {
		return -1, 0
	}

	for i, group := range s.lexer.groups {
		if match[group*2] >= 0 {
			return i, match[1]
		}
	}
	return -1, 0
}

// Next fetches token starting at current source position and advances current position.
// Aside tokens are skipped.
// Returns EoF token if current position is at the end of source; EoF token is returned on every call after that.
// Returns nil token and *yydrive.Error if there is a lexical error,
// the offending text is skipped so scanning may continue.
func (s *Scanner) Next() (*Token, error) {
	content := s.src.Content()
	for {
		if s.pos >= len(content) {
			return EofToken(s.src), nil
		}

		sp := source.NewPos(s.src, s.pos)
		index, size := s.match(content[s.pos:])
		if index < 0 {
			r, rsize := utf8.DecodeRune(content[s.pos:])
			text := string(content[s.pos : s.pos+rsize])
			s.pos += rsize
			return nil, wrongCharError(sp, r, text)
		}

		s.pos += size
		t := s.lexer.tokens[index]
		if t.Flags&grammar.AsideToken != 0 {
			continue
		}

		token := NewToken(index, t.Name, string(content[sp.Pos():s.pos]), sp)
		if t.Flags&grammar.ErrorToken != 0 {
			return nil, badTokenError(token)
		}

		return token, nil
	}
}
