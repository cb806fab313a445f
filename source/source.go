// Package source defines source text with line and column lookup.
package source

import (
	"bytes"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Source is a named chunk of input text. Source is immutable.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates a source. content is not copied and must not be modified afterwards.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

// Read reads all of r, normalizes line breaks, and creates a source.
func Read(name string, r io.Reader) (*Source, error) {
	content, e := io.ReadAll(r)
	if e != nil {
		return nil, errors.Wrapf(e, "cannot read %s", name)
	}

	NormalizeNls(&content)
	return New(name, content), nil
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCol returns 1-based line and column (in runes) for byte position pos.
// Positions beyond source bounds are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	lineIndex := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos returns byte position for 1-based line and column (in bytes), clamped to source bounds.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	}
	return res
}

// Pos is a position inside a source.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates a position, line and column are computed from byte offset pos.
func NewPos(s *Source, pos int) Pos {
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}

// NormalizeNls converts CRLF and lone CR line breaks to LF in place.
func NormalizeNls(content *[]byte) {
	c := *content
	if bytes.IndexByte(c, '\r') < 0 {
		return
	}

	c = bytes.ReplaceAll(c, []byte("\r\n"), []byte("\n"))
	c = bytes.ReplaceAll(c, []byte("\r"), []byte("\n"))
	*content = c
}
