package yydrive

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type pos struct {
	name      string
	line, col int
}

func (p pos) SourceName() string { return p.name }
func (p pos) Line() int          { return p.line }
func (p pos) Col() int           { return p.col }

func TestNewErrorAddsPosition(t *testing.T) {
	e := NewError(SyntaxErrors, "oops", "stdin", 3, 7)
	assert.Equal(t, "oops in stdin at line 3 col 7", e.Error())
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, 7, e.Col)

	e = NewError(SyntaxErrors, "oops", "", 3, 7)
	assert.Equal(t, "oops", e.Error())
}

func TestFormatErrorPos(t *testing.T) {
	e := FormatErrorPos(pos{"a.ash", 2, 5}, LexicalErrors, "wrong char %q", "@")
	assert.Equal(t, `wrong char "@" in a.ash at line 2 col 5`, e.Message)
	assert.Equal(t, "a.ash", e.SourceName)
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(FormatError(ConfigErrors, "x"), ConfigErrors))
	assert.False(t, HasCode(FormatError(ConfigErrors, "x"), LexicalErrors))
	assert.False(t, HasCode(errors.New("x"), ConfigErrors))
	assert.False(t, HasCode(nil, ConfigErrors))
	assert.True(t, HasCode(pkgerrors.Wrap(FormatError(GrammarErrors, "x"), "loading"), GrammarErrors))
}
