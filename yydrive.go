/*
Package yydrive is a command-line parse driver built around a grammar-driven LL(1) parser.

Consists of subpackages:
  - cmd/yydrive: process entry point, reads stdin and reports syntax errors;
  - driver: the parse driver itself, its reporting modes and exit status contract;
  - grammar: grammar definition model, builders, and loaders for externally produced grammars;
  - grammars: bundled grammars (sum, calc, ash);
  - lexer: lexical analyzer;
  - parser: predictive parser reporting syntax errors through an explicit callback;
  - source: source text with line and column lookup.

Typical usage is:

1. Pick a grammar (bundled or loaded from a JSON/YAML file).

2. Create a parser for it and wrap it with driver.NewGrammarParser.

3. Create a driver with the desired reporting mode and call Run once.
*/
package yydrive

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LexicalErrors = 101 // used by lexer
	SyntaxErrors  = 201 // used by parser for grammars it cannot parse predictively
	GrammarErrors = 301 // used by grammar
	ConfigErrors  = 401 // used by internal/config
)

// Error is the error type used by yydrive subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int

	// Lexeme contains the offending source text for lexical errors or empty string.
	Lexeme string
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{Code: code, Message: msg, SourceName: name, Line: line, Col: col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// HasCode reports whether e (or the cause of wrapped e) is an *Error with given code.
func HasCode(e error, code int) bool {
	if e == nil {
		return false
	}
	ee, ok := errors.Cause(e).(*Error)
	return ok && ee.Code == code
}
