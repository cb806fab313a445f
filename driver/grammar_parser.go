package driver

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ava12/yydrive/parser"
	"github.com/ava12/yydrive/source"
)

// ReadErrorMessage prefixes the error reported when input cannot be read.
const ReadErrorMessage = "cannot read input: "

// GrammarParser adapts parser.Parser to driver Parser interface.
// It reads the whole input on Parse, so it may be used only once.
type GrammarParser struct {
	parser *parser.Parser
	in     io.Reader
	name   string
	opts   parser.Options
}

// NewGrammarParser creates a parser reading from in. name is used as source name.
func NewGrammarParser(p *parser.Parser, in io.Reader, name string, opts parser.Options) *GrammarParser {
	return &GrammarParser{p, in, name, opts}
}

// Parse ignores args. Every parser error is reported with its lexeme (empty at the end of input)
// and line number. Returns parser.ReadFailed status if input cannot be read.
func (gp *GrammarParser) Parse(_ []string, r Reporter) int {
	src, e := source.Read(gp.name, gp.in)
	if e != nil {
		r.ReportError(ErrorContext{Message: ReadErrorMessage + errors.Cause(e).Error()})
		return int(parser.ReadFailed)
	}

	status := gp.parser.Parse(src, func(se *parser.SyntaxError) {
		r.ReportError(ErrorContext{
			Message:   se.Message,
			Lexeme:    se.Lexeme,
			HasLexeme: true,
			Line:      se.Line,
		})
	}, gp.opts)
	return int(status)
}
