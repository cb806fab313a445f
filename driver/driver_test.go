package driver

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ava12/yydrive/grammars"
	"github.com/ava12/yydrive/parser"
)

// scripted returns a parser reporting given errors and returning given status.
func scripted(status int, reports ...ErrorContext) ParserFunc {
	return func(_ []string, r Reporter) int {
		for _, ec := range reports {
			r.ReportError(ec)
		}
		return status
	}
}

var located = ErrorContext{Message: "syntax error", Lexeme: "+", HasLexeme: true, Line: 1}

func run(t *testing.T, p Parser, opts ...Option) (int, string) {
	var stderr bytes.Buffer
	d := New(p, append([]Option{WithStderr(&stderr)}, opts...)...)
	code, e := d.Run(nil)
	require.NoError(t, e)
	return code, stderr.String()
}

func TestWellFormedInput(t *testing.T) {
	for _, m := range []Mode{Basic, StatusOnly, Located} {
		code, output := run(t, scripted(0), WithMode(m))
		assert.Equal(t, 0, code, m.String())
		assert.Empty(t, output, m.String())
	}
}

func TestModes(t *testing.T) {
	samples := []struct {
		mode   Mode
		status int
		code   int
		output string
	}{
		{Basic, 1, 0, "Error: syntax error at or near ''\n"},
		{Basic, 2, 0, "Error: syntax error at or near ''\n"},
		{StatusOnly, 1, 1, "Error: syntax error\n"},
		{StatusOnly, 2, 2, "Error: syntax error\n"},
		{StatusOnly, 0, 0, "Error: syntax error\n"},
		{Located, 1, 0, "Error: syntax error at '+' on line 1\n"},
		{Located, 2, 0, "Error: syntax error at '+' on line 1\n"},
	}

	for _, s := range samples {
		var stderr bytes.Buffer
		d := New(scripted(s.status, located), WithMode(s.mode), WithStderr(&stderr))
		code, e := d.Run([]string{"x"})
		require.NoError(t, e)
		assert.Equal(t, s.code, code, "%s/%d", s.mode, s.status)
		assert.Equal(t, s.output, stderr.String(), "%s/%d", s.mode, s.status)
		assert.Equal(t, 1, d.Diagnostics())
		if s.status == 0 {
			assert.Equal(t, Success, d.Outcome())
		} else {
			assert.Equal(t, SyntaxError, d.Outcome())
		}
	}
}

func TestManyReports(t *testing.T) {
	reports := []ErrorContext{
		{Message: "syntax error", Lexeme: ";", HasLexeme: true, Line: 1},
		{Message: "invalid character", Lexeme: "$", HasLexeme: true, Line: 2},
		{Message: "syntax error", Lexeme: "", HasLexeme: true, Line: 5},
	}

	code, output := run(t, scripted(1, reports...), WithMode(Located))
	assert.Equal(t, 0, code)
	assert.Equal(t, "Error: syntax error at ';' on line 1\n"+
		"Error: invalid character at '$' on line 2\n"+
		"Error: syntax error at '' on line 5\n", output)

	code, output = run(t, scripted(1, reports...), WithMode(Basic))
	assert.Equal(t, 0, code)
	assert.Equal(t, 3, strings.Count(output, " at or near ''\n"))

	code, output = run(t, scripted(1, reports...), WithMode(StatusOnly))
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: syntax error\nError: invalid character\nError: syntax error\n", output)
}

func TestLocatedDropsMissingParts(t *testing.T) {
	reports := []ErrorContext{
		{Message: "no lexeme", Line: 3},
		{Message: "no line", Lexeme: "x", HasLexeme: true},
		{Message: "nothing"},
	}
	_, output := run(t, scripted(1, reports...), WithMode(Located))
	assert.Equal(t, "Error: no lexeme on line 3\nError: no line at 'x'\nError: nothing\n", output)
}

func TestMultiLineContextTakesOneLine(t *testing.T) {
	reports := []ErrorContext{
		{Message: "bad token", Lexeme: "\"abc);\nlet x: int = 1;\n", HasLexeme: true, Line: 1},
		{Message: "first\r\nsecond", Line: 2},
	}
	_, output := run(t, scripted(1, reports...), WithMode(Located))
	assert.Equal(t, "Error: bad token at '\"abc);' on line 1\nError: first on line 2\n", output)
}

func TestUnterminatedStringIsOneReport(t *testing.T) {
	var stderr bytes.Buffer
	d := New(grammarParser(t, "ash", "echo(\"abc);\nlet x: int = 1;\n", parser.Options{}), WithMode(Located), WithStderr(&stderr))
	code, e := d.Run(nil)
	require.NoError(t, e)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Error: bad token at '\"abc);' on line 1\n"+
		"Error: syntax error at 'let' on line 2\n", stderr.String())
	assert.Equal(t, d.Diagnostics(), strings.Count(stderr.String(), "\n"))
}

func TestDefaultMode(t *testing.T) {
	d := New(scripted(0))
	assert.Equal(t, Located, d.Mode())
}

func TestStateMachine(t *testing.T) {
	var d *Driver
	var seenArgs []string
	var seenState State
	d = New(ParserFunc(func(args []string, r Reporter) int {
		seenArgs = args
		seenState = d.State()
		return 1
	}), WithStderr(&bytes.Buffer{}), WithMode(StatusOnly))

	assert.Equal(t, Idle, d.State())
	assert.Equal(t, NoOutcome, d.Outcome())

	args := []string{"--help", "-x", "file name"}
	code, e := d.Run(args)
	require.NoError(t, e)
	assert.Equal(t, 1, code)
	assert.Equal(t, args, seenArgs)
	assert.Equal(t, Parsing, seenState)
	assert.Equal(t, Done, d.State())
	assert.Equal(t, SyntaxError, d.Outcome())
}

func TestSecondRun(t *testing.T) {
	calls := 0
	d := New(ParserFunc(func([]string, Reporter) int {
		calls++
		return 2
	}), WithMode(StatusOnly), WithStderr(&bytes.Buffer{}))

	code, e := d.Run(nil)
	require.NoError(t, e)
	assert.Equal(t, 2, code)

	code, e = d.Run(nil)
	assert.ErrorIs(t, e, ErrAlreadyRun)
	assert.Equal(t, 2, code)
	assert.Equal(t, 1, calls)
}

func TestReportOutsideParsing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var stderr bytes.Buffer
	d := New(scripted(0), WithStderr(&stderr), WithLogger(zap.New(core)), WithMode(Basic))

	d.ReportError(ErrorContext{Message: "early"})
	assert.Equal(t, "Error: early at or near ''\n", stderr.String())
	assert.Equal(t, 1, logs.FilterMessage("error reported outside of parsing").Len())
	assert.Equal(t, 1, d.Diagnostics())
}

func TestDebugLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, _ = run(t, scripted(1, located), WithLogger(zap.New(core)), WithMode(StatusOnly))

	finished := logs.FilterMessage("parsing finished").All()
	require.Len(t, finished, 1)
	fields := finished[0].ContextMap()
	assert.EqualValues(t, 1, fields["status"])
	assert.EqualValues(t, 1, fields["exit_code"])
	assert.Equal(t, "syntax error", fields["outcome"])
	assert.Equal(t, "driver", finished[0].LoggerName)
	assert.Equal(t, 1, logs.FilterMessage("syntax error reported").Len())
}

func TestColor(t *testing.T) {
	_, output := run(t, scripted(1, located), WithColor(true))
	assert.Contains(t, output, "\x1b[")
	assert.Contains(t, output, "Error:")
	assert.True(t, strings.HasSuffix(output, " syntax error at '+' on line 1\n"))

	_, output = run(t, scripted(1, located), WithColor(false))
	assert.Equal(t, "Error: syntax error at '+' on line 1\n", output)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestWriteErrorsIgnored(t *testing.T) {
	d := New(scripted(1, located, located), WithStderr(brokenWriter{}), WithMode(StatusOnly))
	code, e := d.Run(nil)
	require.NoError(t, e)
	assert.Equal(t, 1, code)
	assert.Equal(t, 2, d.Diagnostics())
}

func grammarParser(t *testing.T, name, input string, opts parser.Options) *GrammarParser {
	g, f := grammars.Lookup(name)
	require.True(t, f)
	p, e := parser.New(g)
	require.NoError(t, e)
	return NewGrammarParser(p, strings.NewReader(input), "stdin", opts)
}

func TestSumScenario(t *testing.T) {
	code, output := run(t, grammarParser(t, "sum", "1 + +", parser.Options{}), WithMode(Located))
	assert.Equal(t, 0, code)
	assert.Equal(t, "Error: syntax error at '+' on line 1\n", output)

	code, output = run(t, grammarParser(t, "sum", "1 + +", parser.Options{}), WithMode(StatusOnly))
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: syntax error\n", output)

	code, output = run(t, grammarParser(t, "sum", "1 + +", parser.Options{}), WithMode(Basic))
	assert.Equal(t, 0, code)
	assert.Equal(t, "Error: syntax error at or near ''\n", output)

	for _, m := range []Mode{Basic, StatusOnly, Located} {
		code, output = run(t, grammarParser(t, "sum", "12 + 30\n", parser.Options{}), WithMode(m))
		assert.Equal(t, 0, code)
		assert.Empty(t, output)
	}
}

func TestEndOfInputLexeme(t *testing.T) {
	_, output := run(t, grammarParser(t, "sum", "1 +\n", parser.Options{Verbose: true}), WithMode(Located))
	assert.Equal(t, "Error: syntax error, unexpected end of file, expecting num at '' on line 2\n", output)
}

func TestDeterminism(t *testing.T) {
	input := "let x: int = ;\nlet y: int = (1;\necho(y);\n"
	for _, m := range []Mode{Basic, StatusOnly, Located} {
		code1, output1 := run(t, grammarParser(t, "ash", input, parser.Options{Recover: true}), WithMode(m))
		code2, output2 := run(t, grammarParser(t, "ash", input, parser.Options{Recover: true}), WithMode(m))
		assert.Equal(t, code1, code2)
		assert.Equal(t, output1, output2)
		assert.NotEmpty(t, output1)
	}
}

var locatedLine = regexp.MustCompile(`^Error: .+ at '.*' on line [1-9][0-9]*$`)

func TestAshRecoveryReportsSeveralErrors(t *testing.T) {
	input := "let x: int = ;\n" +
		"echo(x);\n" +
		"if (x > ) {\n" +
		"  echo(1);\n" +
		"}\n" +
		"let y: int = 2;\n" +
		"y = y +;\n"

	code, output := run(t, grammarParser(t, "ash", input, parser.Options{Recover: true}), WithMode(Located))
	assert.Equal(t, 0, code)
	assert.Equal(t, "Error: syntax error at ';' on line 1\n"+
		"Error: syntax error at ')' on line 3\n"+
		"Error: syntax error at ';' on line 7\n", output)
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		assert.Regexp(t, locatedLine, line)
	}

	code, output = run(t, grammarParser(t, "ash", input, parser.Options{Recover: true}), WithMode(StatusOnly))
	assert.Equal(t, 1, code)
	assert.Equal(t, 3, strings.Count(output, "Error: syntax error\n"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestReadFailure(t *testing.T) {
	p, e := parser.New(grammars.Sum)
	require.NoError(t, e)

	code, output := run(t, NewGrammarParser(p, failingReader{}, "stdin", parser.Options{}), WithMode(StatusOnly))
	assert.Equal(t, 2, code)
	assert.Equal(t, "Error: cannot read input: boom\n", output)

	code, output = run(t, NewGrammarParser(p, failingReader{}, "stdin", parser.Options{}), WithMode(Located))
	assert.Equal(t, 0, code)
	assert.Equal(t, "Error: cannot read input: boom\n", output)
}

func TestDeepNestingIsOneReport(t *testing.T) {
	input := strings.Repeat("(", 20000)

	code, output := run(t, grammarParser(t, "calc", input, parser.Options{}), WithMode(StatusOnly))
	assert.Equal(t, 2, code)
	assert.Equal(t, "Error: memory exhausted\n", output)

	code, output = run(t, grammarParser(t, "calc", input, parser.Options{Recover: true}), WithMode(Located))
	assert.Equal(t, 0, code)
	assert.Equal(t, "Error: memory exhausted at '(' on line 1\n", output)
}
