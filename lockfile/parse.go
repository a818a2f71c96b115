package lockfile

import (
	"fmt"
	"os"
	"strings"
)

// Parse reads a complete yarn.lock held in memory and returns the typed
// model. On failure the error is one of *SyntaxError, *FormatError,
// *TruncatedInputError or *TrailingContentError and no partial result is
// returned. Parse keeps no references into input and is safe to call
// concurrently on distinct inputs.
func Parse(input string) (*Lockfile, error) {
	c := cursor{input: input}
	c, err := scanBanner(c)
	if err != nil {
		return nil, err
	}
	c = skipBlankLines(c)
	meta, c, err := parseMetadata(c)
	if err != nil {
		return nil, err
	}

	packages := make([]Package, 0, countEntries(c))
	for {
		c = skipBlankLines(c)
		if c.eof() {
			break
		}
		descs, c2, err := parseDescriptorLine(c)
		if err != nil {
			break // not an entry header; the trailing check decides
		}
		pkg, c3, err := parseEntryBody(descs, c2)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
		c = c3
	}
	if !c.eof() {
		return nil, &TrailingContentError{Offset: c.pos}
	}
	return &Lockfile{Metadata: meta, Packages: packages}, nil
}

// ParseFile reads path and parses its contents.
func ParseFile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lockfile: %w", err)
	}
	return Parse(string(data))
}

// scanBanner consumes the generated-file comment lines every lockfile starts
// with. At least one comment line is required.
func scanBanner(c cursor) (cursor, error) {
	if len(c.input) == 0 {
		return c, &TruncatedInputError{Offset: 0, Msg: "empty input"}
	}
	sawComment := false
	for {
		c2 := skipBlankLines(c)
		if c2.peek() != '#' {
			c = c2
			break
		}
		_, c2 = scanRestOfLine(c2)
		var err error
		c2, err = scanLineEnd(c2)
		if err != nil {
			return c2, err
		}
		sawComment = true
		c = c2
	}
	if !sawComment {
		if c.eof() {
			return c, &TruncatedInputError{Offset: c.pos, Msg: "missing format banner"}
		}
		return c, &SyntaxError{Offset: c.pos, Msg: "expected format banner comment"}
	}
	return c, nil
}

// countEntries counts column-zero content lines so the package list can be
// allocated once.
func countEntries(c cursor) int {
	n := 0
	pos := c.pos
	for pos < len(c.input) {
		switch c.input[pos] {
		case ' ', '\n', '\r', '#':
		default:
			n++
		}
		nl := strings.IndexByte(c.input[pos:], '\n')
		if nl < 0 {
			break
		}
		pos += nl + 1
	}
	return n
}
