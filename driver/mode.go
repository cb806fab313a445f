package driver

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how much error context is written and whether a syntax error affects exit code.
type Mode int

const (
	// Basic writes "Error: <message> at or near ''", exit code is always 0.
	Basic Mode = iota

	// StatusOnly writes "Error: <message>", exit code is the raw parser status.
	StatusOnly

	// Located writes "Error: <message> at '<lexeme>' on line <line>", exit code is always 0.
	Located
)

var modeNames = [...]string{
	Basic:      "basic",
	StatusOnly: "status-only",
	Located:    "located",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode converts mode name to Mode, case-insensitive.
// "statusonly" and "status_only" are accepted for StatusOnly.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "basic":
		return Basic, nil
	case "status-only", "statusonly", "status_only":
		return StatusOnly, nil
	case "located":
		return Located, nil
	default:
		return Basic, errors.Errorf("unknown reporting mode %q", name)
	}
}

// Outcome is the result of a single parse.
type Outcome int

const (
	// NoOutcome is reported until the parse is done.
	NoOutcome Outcome = iota
	Success
	SyntaxError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SyntaxError:
		return "syntax error"
	default:
		return "none"
	}
}

// ErrorContext is passed to Reporter.ReportError for every detected error.
// It is passed by value and must not be retained.
type ErrorContext struct {
	Message string

	// Lexeme is the exact offending token text, valid only if HasLexeme is set.
	// It may be empty at the end of input.
	Lexeme    string
	HasLexeme bool

	// Line is 1-based line number of offending token, 0 if unknown.
	Line int
}
