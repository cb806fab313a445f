package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	pos, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{7, 4, 2},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
			{5, 3, 2},
		},
		"été\nx": {
			{5, 1, 4},
			{6, 2, 1},
		},
	}

	for text, results := range samples {
		src := New("", []byte(text))
		for _, res := range results {
			l, c := src.LineCol(res.pos)
			assert.Equal(t, res.line, l, "sample %q, pos %d: line", text, res.pos)
			assert.Equal(t, res.col, c, "sample %q, pos %d: col", text, res.pos)
		}
	}
}

func TestSourcePos(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{0, 2, 1},
		},
		"hello\nworld\n": {
			{0, 1, 1},
			{1, 1, 2},
			{6, 2, 1},
			{7, 2, 2},
			{12, 2, 10},
			{12, 3, 1},
			{12, 4, 1},
		},
	}

	for text, results := range samples {
		src := New("", []byte(text))
		for _, res := range results {
			assert.Equal(t, res.pos, src.Pos(res.line, res.col), "sample %q, line %d col %d", text, res.line, res.col)
		}
	}
}

func TestNewPos(t *testing.T) {
	src := New("input", []byte("ab\ncd"))
	p := NewPos(src, 4)
	assert.Equal(t, "input", p.SourceName())
	assert.Equal(t, 4, p.Pos())
	assert.Equal(t, 2, p.Line())
	assert.Equal(t, 2, p.Col())
	assert.Same(t, src, p.Source())
	assert.Equal(t, "", Pos{}.SourceName())
}

func TestNormalizeNls(t *testing.T) {
	samples := map[string]string{
		"":             "",
		"a\nb":         "a\nb",
		"a\r\nb\r\n":   "a\nb\n",
		"a\rb\r\r\nc":  "a\nb\n\nc",
	}
	for in, expected := range samples {
		content := []byte(in)
		NormalizeNls(&content)
		assert.Equal(t, expected, string(content), "sample %q", in)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestRead(t *testing.T) {
	src, e := Read("stdin", strings.NewReader("1 +\r\n2"))
	require.NoError(t, e)
	assert.Equal(t, "stdin", src.Name())
	assert.Equal(t, "1 +\n2", string(src.Content()))

	_, e = Read("stdin", failingReader{})
	require.Error(t, e)
	assert.Contains(t, e.Error(), "cannot read stdin")
	assert.Contains(t, e.Error(), "broken pipe")
}
