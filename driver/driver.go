// Package driver runs a single parse and maps its result to a process exit code.
//
// Driver invokes its Parser exactly once. The parser reports every detected error
// through Reporter.ReportError, passing the whole error context explicitly, and then returns
// a yacc-style raw status (0 means success). Driver writes one diagnostic line per report;
// line format and exit code depend on the reporting Mode:
//
//	basic        Error: <message> at or near ''                 exit code 0
//	status-only  Error: <message>                               exit code is raw status
//	located      Error: <message> at '<lexeme>' on line <line>  exit code 0
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/qmuntal/stateless"
	"go.uber.org/zap"
)

// Reporter receives error notifications from Parser.
type Reporter interface {
	ReportError(ec ErrorContext)
}

// Parser is the collaborator driven by Driver.
// Parse must call r.ReportError for every detected error and return raw status, 0 for success.
type Parser interface {
	Parse(args []string, r Reporter) int
}

// ParserFunc adapts a function to Parser interface.
type ParserFunc func(args []string, r Reporter) int

func (f ParserFunc) Parse(args []string, r Reporter) int {
	return f(args, r)
}

// State is a driver state: Idle, then Parsing, then Done.
type State string

const (
	Idle    State = "idle"
	Parsing State = "parsing"
	Done    State = "done"
)

const (
	triggerStart  = "start"
	triggerFinish = "finish"
)

var (
	argsType   = reflect.TypeOf([]string(nil))
	statusType = reflect.TypeOf(0)
)

// ErrAlreadyRun is returned by a second Run call on the same driver.
var ErrAlreadyRun = errors.New("driver has already run")

const errorPrefix = "Error:"

// Driver is single-shot, create a new one for every parse.
type Driver struct {
	parser      Parser
	mode        Mode
	stderr      io.Writer
	logger      *zap.Logger
	prefix      string
	fsm         *stateless.StateMachine
	outcome     Outcome
	exitCode    int
	diagnostics int
}

type Option func(d *Driver)

// WithMode sets reporting mode, default is Located.
func WithMode(m Mode) Option {
	return func(d *Driver) {
		d.mode = m
	}
}

// WithStderr sets diagnostic stream, default is os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(d *Driver) {
		d.stderr = w
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithColor enables red "Error:" prefix regardless of terminal detection.
func WithColor(enabled bool) Option {
	return func(d *Driver) {
		d.prefix = errorPrefix
		if enabled {
			c := color.New(color.FgRed, color.Bold)
			c.EnableColor()
			d.prefix = c.Sprint(errorPrefix)
		}
	}
}

func New(p Parser, opts ...Option) *Driver {
	d := &Driver{
		parser: p,
		mode:   Located,
		stderr: os.Stderr,
		logger: zap.NewNop(),
		prefix: errorPrefix,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("driver")
	d.fsm = d.newFSM()
	return d
}

func (d *Driver) newFSM() *stateless.StateMachine {
	fsm := stateless.NewStateMachine(Idle)
	fsm.SetTriggerParameters(triggerStart, argsType)
	fsm.SetTriggerParameters(triggerFinish, statusType)

	fsm.Configure(Idle).
		Permit(triggerStart, Parsing)

	fsm.Configure(Parsing).
		OnEntryFrom(triggerStart, func(_ context.Context, args ...any) error {
			d.logger.Debug("parsing started", zap.Strings("args", args[0].([]string)), zap.Stringer("mode", d.mode))
			return nil
		}).
		Permit(triggerFinish, Done)

	fsm.Configure(Done).
		OnEntryFrom(triggerFinish, func(_ context.Context, args ...any) error {
			d.finish(args[0].(int))
			return nil
		})

	return fsm
}

// finish computes outcome and exit code from raw parser status.
func (d *Driver) finish(status int) {
	d.outcome = Success
	d.exitCode = 0
	if status != 0 {
		d.outcome = SyntaxError
		if d.mode == StatusOnly {
			d.exitCode = status
		}
	}
	d.logger.Debug("parsing finished",
		zap.Int("status", status),
		zap.Stringer("outcome", d.outcome),
		zap.Int("exit_code", d.exitCode),
		zap.Int("diagnostics", d.diagnostics),
	)
}

// Run invokes the parser once with args forwarded verbatim and returns process exit code.
// Syntax errors are never returned as error; error is non-nil only if the driver
// is run for the second time (ErrAlreadyRun), the exit code of the first run is returned then.
func (d *Driver) Run(args []string) (int, error) {
	if d.State() != Idle {
		return d.exitCode, ErrAlreadyRun
	}

	if args == nil {
		args = []string{}
	}
	if e := d.fsm.Fire(triggerStart, args); e != nil {
		return 0, errors.Wrap(e, "cannot start parsing")
	}

	status := d.parser.Parse(args, d)

	if e := d.fsm.Fire(triggerFinish, status); e != nil {
		return 0, errors.Wrap(e, "cannot finish parsing")
	}
	return d.exitCode, nil
}

// ReportError writes one diagnostic line formatted according to the mode.
// Write errors are ignored.
func (d *Driver) ReportError(ec ErrorContext) {
	if d.State() != Parsing {
		d.logger.Warn("error reported outside of parsing", zap.String("state", string(d.State())))
	}

	d.diagnostics++
	d.logger.Debug("syntax error reported",
		zap.String("message", ec.Message),
		zap.String("lexeme", ec.Lexeme),
		zap.Int("line", ec.Line),
	)
	_, _ = fmt.Fprintln(d.stderr, d.prefix+" "+d.format(ec))
}

func (d *Driver) format(ec ErrorContext) string {
	var sb strings.Builder
	sb.WriteString(firstLine(ec.Message))
	switch d.mode {
	case Basic:
		sb.WriteString(" at or near ''")
	case Located:
		if ec.HasLexeme {
			sb.WriteString(" at '" + firstLine(ec.Lexeme) + "'")
		}
		if ec.Line > 0 {
			fmt.Fprintf(&sb, " on line %d", ec.Line)
		}
	}
	return sb.String()
}

// firstLine cuts text at the first line break, so that every report takes exactly one line.
func firstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i]
	}
	return text
}

func (d *Driver) State() State {
	return d.fsm.MustState().(State)
}

// Outcome returns NoOutcome until Run completes.
func (d *Driver) Outcome() Outcome {
	return d.outcome
}

func (d *Driver) Mode() Mode {
	return d.mode
}

// Diagnostics returns the number of lines written so far.
func (d *Driver) Diagnostics() int {
	return d.diagnostics
}
