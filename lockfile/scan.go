package lockfile

import "strings"

// view is a substring of the parse input. Views stay valid only while a parse
// runs; own copies one into storage that outlives the input.
type view string

func (v view) own() string { return strings.Clone(string(v)) }

type cursor struct {
	input string
	pos   int
}

func (c cursor) eof() bool { return c.pos >= len(c.input) }

func (c cursor) peek() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	return c.input[c.pos]
}

func (c cursor) peekN(n int) byte {
	if c.pos+n >= len(c.input) {
		return 0
	}
	return c.input[c.pos+n]
}

func (c cursor) skip(n int) cursor {
	c.pos += n
	return c
}

func isLineEnd(ch byte) bool {
	return ch == '\n' || ch == '\r' || ch == 0
}

// scanScalar reads a double-quoted or bare scalar. Quoted scalars keep escape
// sequences verbatim; bare scalars end at ':', ',' or the end of the line.
func scanScalar(c cursor) (view, cursor, error) {
	if c.eof() {
		return "", c, &TruncatedInputError{Offset: c.pos, Msg: "expected scalar"}
	}
	if c.peek() == '"' {
		return scanQuoted(c)
	}
	start := c.pos
	for !c.eof() {
		ch := c.peek()
		if ch == ':' || ch == ',' || ch == '\n' || ch == '\r' {
			break
		}
		c = c.skip(1)
	}
	if c.pos == start {
		return "", c, &SyntaxError{Offset: start, Msg: "expected scalar"}
	}
	return view(c.input[start:c.pos]), c, nil
}

func scanQuoted(c cursor) (view, cursor, error) {
	start := c.pos
	c = c.skip(1)
	for !c.eof() {
		switch c.peek() {
		case '\\':
			c = c.skip(2)
		case '"':
			content := view(c.input[start+1 : c.pos])
			return content, c.skip(1), nil
		case '\n':
			return "", c, &SyntaxError{Offset: start, Msg: "unterminated quoted scalar"}
		default:
			c = c.skip(1)
		}
	}
	return "", c, &TruncatedInputError{Offset: start, Msg: "unterminated quoted scalar"}
}

// scanLineEnd consumes "\n", "\r\n", or the end of input.
func scanLineEnd(c cursor) (cursor, error) {
	switch {
	case c.eof():
		return c, nil
	case c.peek() == '\n':
		return c.skip(1), nil
	case c.peek() == '\r':
		c = c.skip(1)
		if c.peek() != '\n' {
			return c, &SyntaxError{Offset: c.pos - 1, Msg: "expected end of line"}
		}
		return c.skip(1), nil
	}
	return c, &SyntaxError{Offset: c.pos, Msg: "expected end of line"}
}

// scanIndent counts the spaces at the start of the current line.
func scanIndent(c cursor) (int, cursor) {
	n := 0
	for c.peek() == ' ' {
		n++
		c = c.skip(1)
	}
	return n, c
}

// scanRestOfLine reads up to, not including, the line end.
func scanRestOfLine(c cursor) (view, cursor) {
	start := c.pos
	for !c.eof() && c.peek() != '\n' && c.peek() != '\r' {
		c = c.skip(1)
	}
	return view(c.input[start:c.pos]), c
}

// skipBlankLines consumes whitespace-only lines, stopping at the first line
// with content or at the end of input.
func skipBlankLines(c cursor) cursor {
	for {
		mark := c
		_, c2 := scanIndent(c)
		switch {
		case c2.eof():
			return c2
		case c2.peek() == '\n':
			c = c2.skip(1)
		case c2.peek() == '\r' && c2.peekN(1) == '\n':
			c = c2.skip(2)
		default:
			return mark
		}
	}
}

// trimSpaces removes leading and trailing spaces from a view, advancing off
// to the first retained byte.
func trimSpaces(v view, off int) (view, int) {
	for len(v) > 0 && v[0] == ' ' {
		v = v[1:]
		off++
	}
	for len(v) > 0 && v[len(v)-1] == ' ' {
		v = v[:len(v)-1]
	}
	return v, off
}

// countChildLines counts the lines of a nested block indented exactly to
// indent, looking past deeper lines, without moving the cursor. Blocks are
// filled from an exact-size allocation instead of a regrown one.
func countChildLines(c cursor, indent int) int {
	n := 0
	pos := c.pos
	for pos < len(c.input) {
		i := pos
		for i < len(c.input) && c.input[i] == ' ' {
			i++
		}
		if i >= len(c.input) || c.input[i] == '\n' || c.input[i] == '\r' {
			break
		}
		if i-pos < indent {
			break
		}
		if i-pos == indent {
			n++
		}
		nl := strings.IndexByte(c.input[i:], '\n')
		if nl < 0 {
			break
		}
		pos = i + nl + 1
	}
	return n
}

// skipDeeper consumes every following line indented strictly deeper than
// indent.
func skipDeeper(c cursor, indent int) cursor {
	for {
		ind, c2 := scanIndent(c)
		if isLineEnd(c2.peek()) || ind <= indent {
			return c
		}
		_, c2 = scanRestOfLine(c2)
		c2, _ = scanLineEnd(c2)
		c = c2
	}
}
