// Package parser defines a predictive parser interpreting grammar.Grammar.
//
// Parser reports every syntax or lexical error through an ErrorHandler callback that receives
// the whole error context (message, offending lexeme, position) as an explicit argument,
// and returns a yacc-compatible Status.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ava12/yydrive"
	"github.com/ava12/yydrive/grammar"
	"github.com/ava12/yydrive/internal/ints"
	"github.com/ava12/yydrive/lexer"
	"github.com/ava12/yydrive/source"
)

// Status is the result of a single parse, values match those of yyparse().
type Status int

const (
	Accepted  Status = 0
	Aborted   Status = 1
	Exhausted Status = 2

	// ReadFailed is returned by callers that cannot read input, yyparse() has no separate value for it.
	ReadFailed = Exhausted
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Aborted:
		return "aborted"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// EofToken is the name of the token type used for end of input.
const EofToken = lexer.EofTokenName

const (
	SyntaxErrorMessage      = "syntax error"
	InvalidCharacterMessage = "invalid character"
	BadTokenMessage         = "bad token"
	ExhaustedMessage        = "memory exhausted"
)

// maxExpected is the largest number of expected terminals listed in a verbose message.
const maxExpected = 4

// maxDepth is the deepest allowed nesting of non-terminals.
const maxDepth = 10000

// quietTokens is the number of tokens to consume after recovery before reporting errors again.
const quietTokens = 3

// SyntaxError is the context passed to ErrorHandler.
type SyntaxError struct {
	// Message is either "syntax error" (possibly followed by verbose details),
	// "invalid character", "bad token", or "memory exhausted".
	Message string

	// Lexeme is the exact text of offending token, empty at the end of input.
	Lexeme string

	// TokenType is offending token type name, empty for lexical errors.
	TokenType string

	SourceName string
	Line, Col  int

	// Expected lists terminals acceptable at error position, as shown in verbose messages.
	Expected []string

	// Lexical is set for errors detected by lexer.
	Lexical bool
}

func (se *SyntaxError) Error() string {
	return se.Message
}

// ErrorHandler is called once for every reported error. It must not retain se.
type ErrorHandler func(se *SyntaxError)

type Options struct {
	// Verbose adds unexpected and expected terminals to syntax error messages.
	Verbose bool

	// Recover enables resynchronization on grammar sync literals,
	// otherwise the first syntax error aborts parsing.
	Recover bool

	// MaxErrors aborts parsing after that many reported errors, 0 means no limit.
	MaxErrors int
}

// Parser is immutable and safe for concurrent use.
type Parser struct {
	grammar  *grammar.Grammar
	lexer    *lexer.Lexer
	terms    []string
	termIds  map[string]int
	nonTerms []*node
	sync     *ints.Set
	eofId    int
}

func tokenKey(name string) string {
	return "$" + name
}

func literalKey(text string) string {
	return ":" + text
}

// New validates g and prepares parser for it.
// Returns *yydrive.Error if g is malformed or cannot be parsed predictively.
func New(g *grammar.Grammar) (*Parser, error) {
	if e := g.Validate(); e != nil {
		return nil, e
	}

	l, e := lexer.New(g)
	if e != nil {
		return nil, e
	}

	p := &Parser{
		grammar: g,
		lexer:   l,
		termIds: make(map[string]int),
		sync:    ints.NewSet(),
	}
	if e = (compiler{p}).compile(); e != nil {
		return nil, e
	}
	return p, nil
}

// Grammar returns parsed grammar.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

func (p *Parser) termName(id int) string {
	key := p.terms[id]
	switch {
	case id == p.eofId:
		return "end of file"
	case key[0] == ':':
		return "'" + key[1:] + "'"
	default:
		return key[1:]
	}
}

// Parse parses the whole src using root non-terminal, handler may be nil.
// Returns Accepted if no errors were reported, Exhausted if nesting is too deep, Aborted otherwise.
func (p *Parser) Parse(src *source.Source, handler ErrorHandler, opts Options) Status {
	if handler == nil {
		handler = func(*SyntaxError) {}
	}
	s := &parseState{
		parser:   p,
		scanner:  p.lexer.Scan(src),
		handler:  handler,
		opts:     opts,
		expected: ints.NewSet(),
	}

	e := s.advance()
	if e == nil {
		e = s.parseNode(p.nonTerms[grammar.RootNonTerm], ints.NewSet(p.eofId))
	}
	if e == nil && !s.token.IsEof() {
		s.expected.Add(p.eofId)
		e = s.fail()
	}

	switch {
	case e == errExhausted:
		return Exhausted
	case e != nil || s.failed:
		return Aborted
	default:
		return Accepted
	}
}

var (
	// errSyntax unwinds to the nearest repetition that may resynchronize.
	errSyntax = errors.New("syntax error")

	// errAbort unwinds to the top.
	errAbort = errors.New("parsing aborted")

	// errExhausted unwinds to the top after nesting limit is hit.
	errExhausted = errors.New("memory exhausted")
)

type parseState struct {
	parser   *Parser
	scanner  *lexer.Scanner
	handler  ErrorHandler
	opts     Options
	token    *lexer.Token
	litId    int
	typeId   int
	expected *ints.Set
	errors   int
	quiet    int
	depth    int
	failed   bool
}

func (s *parseState) report(se *SyntaxError) error {
	s.failed = true
	s.errors++
	s.handler(se)
	if s.opts.MaxErrors > 0 && s.errors >= s.opts.MaxErrors {
		return errAbort
	}
	return nil
}

// fetch reads next significant token, lexical errors are reported and skipped.
func (s *parseState) fetch() error {
	for {
		t, e := s.scanner.Next()
		if e == nil {
			s.setToken(t)
			return nil
		}

		if re := s.report(lexicalError(e)); re != nil {
			return re
		}
	}
}

func lexicalError(e error) *SyntaxError {
	se := &SyntaxError{Message: InvalidCharacterMessage, Lexical: true}
	ye, ok := e.(*yydrive.Error)
	if !ok {
		se.Message = e.Error()
		return se
	}

	if ye.Code == lexer.BadTokenError {
		se.Message = BadTokenMessage
	}
	se.Lexeme = ye.Lexeme
	se.SourceName = ye.SourceName
	se.Line = ye.Line
	se.Col = ye.Col
	return se
}

func (s *parseState) setToken(t *lexer.Token) {
	p := s.parser
	s.token = t
	s.litId = -1
	s.typeId = -1
	if t.IsEof() {
		s.typeId = p.eofId
		return
	}

	if id, f := p.termIds[literalKey(t.Text())]; f {
		s.litId = id
	}
	if id, f := p.termIds[tokenKey(t.TypeName())]; f {
		s.typeId = id
	}
}

// advance consumes current token.
func (s *parseState) advance() error {
	s.expected = ints.NewSet()
	if s.quiet > 0 {
		s.quiet--
	}
	return s.fetch()
}

// skip discards current token during resynchronization.
func (s *parseState) skip() error {
	s.expected = ints.NewSet()
	return s.fetch()
}

func (s *parseState) matches(set *ints.Set) bool {
	return set.Contains(s.litId) || set.Contains(s.typeId)
}

func (s *parseState) canRecover() bool {
	return s.opts.Recover && !s.parser.sync.IsEmpty()
}

// fail reports syntax error at current token unless errors are suppressed after recent recovery.
func (s *parseState) fail() error {
	s.failed = true
	if s.quiet == 0 {
		if e := s.report(s.syntaxError()); e != nil {
			return e
		}
	}

	if s.canRecover() {
		return errSyntax
	}
	return errAbort
}

// exhausted reports nesting overflow at current token, even right after recovery.
func (s *parseState) exhausted() error {
	se := s.syntaxError()
	se.Message = ExhaustedMessage
	se.Expected = nil
	_ = s.report(se)
	return errExhausted
}

func (s *parseState) syntaxError() *SyntaxError {
	p := s.parser
	t := s.token
	se := &SyntaxError{
		Message:    SyntaxErrorMessage,
		Lexeme:     t.Text(),
		TokenType:  t.TypeName(),
		SourceName: t.SourceName(),
		Line:       t.Line(),
		Col:        t.Col(),
	}
	for _, id := range s.expected.ToSlice() {
		se.Expected = append(se.Expected, p.termName(id))
	}

	if s.opts.Verbose {
		var unexpected string
		switch {
		case t.IsEof():
			unexpected = p.termName(p.eofId)
		case s.litId >= 0:
			unexpected = p.termName(s.litId)
		default:
			unexpected = t.TypeName()
		}

		se.Message += ", unexpected " + unexpected
		if len(se.Expected) > 0 && len(se.Expected) <= maxExpected {
			se.Message += ", expecting " + strings.Join(se.Expected, " or ")
		}
	}
	return se
}

// resync skips tokens after a syntax error inside repetition.
// It stops after a sync literal (the repetition continues) or before a token
// that may follow the repetition (the repetition ends).
func (s *parseState) resync(follow *ints.Set) (exit bool, e error) {
	for {
		switch {
		case s.matches(follow):
			s.quiet = quietTokens
			return true, nil
		case s.token.IsEof():
			return false, errAbort
		case s.matches(s.parser.sync):
			s.quiet = quietTokens
			return false, s.skip()
		}

		if e = s.skip(); e != nil {
			return false, e
		}
	}
}

// choose picks alternative starting with current token, literal match takes precedence over token type match.
// If none matches, the nullable alternative (if any) is returned with matched == false.
func (s *parseState) choose(n *node) (item *node, matched bool) {
	if s.litId >= 0 {
		for _, item = range n.items {
			if item.first.Contains(s.litId) {
				return item, true
			}
		}
	}
	for _, item = range n.items {
		if item.first.Contains(s.typeId) {
			return item, true
		}
	}
	for _, item = range n.items {
		if item.nullable {
			return item, false
		}
	}
	return nil, false
}

func (s *parseState) parseNode(n *node, follow *ints.Set) error {
	switch n.kind {
	case grammar.TokenExpr, grammar.LiteralExpr:
		if n.term == s.litId || n.term == s.typeId {
			return s.advance()
		}
		s.expected.Add(n.term)
		return s.fail()

	case grammar.NonTermExpr:
		if s.depth >= maxDepth {
			return s.exhausted()
		}
		s.depth++
		e := s.parseNode(s.parser.nonTerms[n.nonTerm], follow)
		s.depth--
		return e

	case grammar.SeqExpr:
		for i, item := range n.items {
			itemFollow := n.restFirst[i]
			if n.restNullable[i] {
				itemFollow = itemFollow.Copy()
				itemFollow.Union(follow)
			}
			if e := s.parseNode(item, itemFollow); e != nil {
				return e
			}
		}
		return nil

	case grammar.AltExpr:
		item, matched := s.choose(n)
		if !matched {
			s.expected.Union(n.first)
		}
		if item == nil {
			return s.fail()
		}
		return s.parseNode(item, follow)

	case grammar.OptExpr:
		body := n.items[0]
		if !s.matches(body.first) {
			s.expected.Union(body.first)
			return nil
		}
		return s.parseNode(body, follow)

	case grammar.RepExpr:
		body := n.items[0]
		bodyFollow := body.first.Copy()
		bodyFollow.Union(follow)
		recovering := false
		for {
			var e error
			if s.matches(body.first) {
				e = s.parseNode(body, bodyFollow)
			} else if recovering && !s.matches(follow) {
				// garbage right after resynchronization, discarded silently
				e = errSyntax
			} else {
				s.expected.Union(body.first)
				return nil
			}

			recovering = false
			if e == errSyntax {
				var exit bool
				exit, e = s.resync(follow)
				if exit {
					return e
				}
				recovering = true
			}
			if e != nil {
				return e
			}
		}
	}

	return nil
}
