package lockfile

import "fmt"

// ParseError is implemented by every error returned from Parse. Pos reports
// the byte offset into the original input at which parsing failed; mapping
// offsets to line and column positions is left to callers.
type ParseError interface {
	error
	Pos() int
}

// SyntaxError reports input that violates the lockfile grammar.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at byte %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Pos() int { return e.Offset }

// FormatError reports input that scans cleanly but carries an invalid value,
// such as a non-integer metadata version or an unrecognized linkType.
type FormatError struct {
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error at byte %d: %s", e.Offset, e.Msg)
}

func (e *FormatError) Pos() int { return e.Offset }

// TruncatedInputError reports input that ends where the grammar requires more.
type TruncatedInputError struct {
	Offset int
	Msg    string
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input at byte %d: %s", e.Offset, e.Msg)
}

func (e *TruncatedInputError) Pos() int { return e.Offset }

// TrailingContentError reports non-whitespace input remaining after the last
// package entry.
type TrailingContentError struct {
	Offset int
}

func (e *TrailingContentError) Error() string {
	return fmt.Sprintf("trailing content at byte %d", e.Offset)
}

func (e *TrailingContentError) Pos() int { return e.Offset }
