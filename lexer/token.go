package lexer

import (
	"github.com/ava12/yydrive/source"
)

type Token struct {
	tokenType int
	typeName  string
	text      string
	source    *source.Source
	pos       int
	line, col int
}

// Type returns index of token type in grammar or EofTokenType.
func (t *Token) Type() int {
	return t.tokenType
}

func (t *Token) TypeName() string {
	return t.typeName
}

func (t *Token) Text() string {
	return t.text
}

func (t *Token) Source() *source.Source {
	return t.source
}

func (t *Token) SourceName() string {
	if t.source == nil {
		return ""
	}
	return t.source.Name()
}

// Pos returns byte offset of token start.
func (t *Token) Pos() int {
	return t.pos
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) Col() int {
	return t.col
}

func (t *Token) IsEof() bool {
	return t.tokenType == EofTokenType
}

// NewToken creates a token located at sp.
func NewToken(tokenType int, typeName, text string, sp source.Pos) *Token {
	return &Token{tokenType, typeName, text, sp.Source(), sp.Pos(), sp.Line(), sp.Col()}
}

const (
	EofTokenType = -2
	EofTokenName = "-end-of-file-"
)

// EofToken creates end-of-file token positioned at the end of s.
// EoF token has empty text.
func EofToken(s *source.Source) *Token {
	if s == nil {
		return &Token{tokenType: EofTokenType, typeName: EofTokenName}
	}
	return NewToken(EofTokenType, EofTokenName, "", source.NewPos(s, s.Len()))
}
