// Package report maps parse-error byte offsets to human-readable
// line/column positions and renders source snippets for them.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/yal/lockfile"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// LineIndex resolves byte offsets into 1-based line/column positions.
type LineIndex struct {
	input  string
	starts []int
}

func NewLineIndex(input string) *LineIndex {
	starts := make([]int, 1, strings.Count(input, "\n")+1)
	starts[0] = 0
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{input: input, starts: starts}
}

func (ix *LineIndex) Count() int {
	return len(ix.starts)
}

// Locate clamps offset into the input and returns its position.
func (ix *LineIndex) Locate(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.input) {
		offset = len(ix.input)
	}
	line := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	})
	return Position{
		Offset: offset,
		Line:   line,
		Column: offset - ix.starts[line-1] + 1,
	}
}

// Line returns the text of the 1-based line n without its terminator.
func (ix *LineIndex) Line(n int) string {
	if n < 1 || n > len(ix.starts) {
		return ""
	}
	start := ix.starts[n-1]
	end := len(ix.input)
	if n < len(ix.starts) {
		end = ix.starts[n] - 1
	}
	return strings.TrimRight(ix.input[start:end], "\r")
}

// Render formats err against the input it came from. Parse errors get a
// file:line:column prefix, the offending line, and a column marker;
// anything else renders as its plain message.
func Render(file, input string, err error) string {
	var pe lockfile.ParseError
	if !errors.As(err, &pe) {
		return err.Error()
	}

	ix := NewLineIndex(input)
	pos := ix.Locate(pe.Pos())
	pos.File = file

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %v\n", pos, err)
	fmt.Fprintf(&buf, "  %d | %s\n", pos.Line, ix.Line(pos.Line))

	padding := strings.Repeat(" ", len(strconv.Itoa(pos.Line))+5)
	if pos.Column > 1 {
		padding += strings.Repeat(" ", pos.Column-1)
	}
	buf.WriteString(padding + "^")
	return buf.String()
}
