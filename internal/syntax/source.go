package syntax

import "unicode/utf8"

// source is a character reader with position tracking.
// TFI programs are ASCII; any other rune is returned as-is and rejected by
// the scanner.
type source struct {
	// Input
	buf []byte // source buffer

	// Position tracking
	filename string // source file name
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based, byte offset)

	// Current state
	ch    rune // current character, -1 for EOF
	chOff int  // byte offset of ch in buf
	offs  int  // byte offset of the next character in buf
}

// newSource creates a new source over src.
func newSource(filename string, src []byte) *source {
	s := &source{
		buf:      src,
		filename: filename,
		line:     1,
		col:      0,  // Will be incremented to 1 by first nextch()
		ch:       -1, // Sentinel: -1 means "before first char", prevents position update
	}
	s.nextch()
	return s
}

// nextch reads the next character from the source and updates position.
// Sets s.ch to -1 at EOF.
//
// Position tracking: (line, col) always refers to the position of s.ch after nextch() returns.
// Initial state: line=1, col=0, s.ch=-1
// After first nextch(): line=1, col=1, s.ch=first char
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.chOff = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.ch = r
	s.offs += width
}

// pos returns the current position (position of current character).
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col, uint32(s.chOff))
}

// Character classification helpers

// isLetter reports whether r is an ASCII letter. Identifiers and keywords
// consist of letters only.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isWhitespace reports whether r is discarded between tokens.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// isStringChar reports whether r may appear between the quotes of a string
// literal: printable ASCII except the quote and the backslash.
func isStringChar(r rune) bool {
	return ' ' <= r && r <= '~' && r != '"' && r != '\\'
}

// isOperatorStart reports whether r can start an operator or delimiter.
func isOperatorStart(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '<', '>', '=', '!',
		'(', ')', '{', '}', ',', ';':
		return true
	}
	return false
}
