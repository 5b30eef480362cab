package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// LexErrorKind classifies lexical errors.
type LexErrorKind uint8

const (
	UnexpectedCharacter LexErrorKind = iota // character outside every token class
	UnterminatedString                      // newline or end of input before the closing quote
	NumberOutOfRange                        // integer literal does not fit in int32
)

var lexErrorKindNames = [...]string{
	UnexpectedCharacter: "UnexpectedCharacter",
	UnterminatedString:  "UnterminatedString",
	NumberOutOfRange:    "NumberOutOfRange",
}

func (k LexErrorKind) String() string {
	if int(k) < len(lexErrorKindNames) {
		return lexErrorKindNames[k]
	}
	return fmt.Sprintf("LexErrorKind(%d)", k)
}

// LexError is a fatal tokenization error.
type LexError struct {
	Kind LexErrorKind
	Pos  Pos
	Char rune   // offending character (UnexpectedCharacter)
	Lit  string // offending literal text (NumberOutOfRange)
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Msg()
}

// Msg returns the error message without the position prefix.
func (e *LexError) Msg() string {
	switch e.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf("unexpected character %q at offset %d", e.Char, e.Pos.Offset())
	case UnterminatedString:
		return "unterminated string literal"
	case NumberOutOfRange:
		return fmt.Sprintf("number %s is out of range for a 32-bit integer", e.Lit)
	}
	return e.Kind.String()
}

// Scanner performs lexical analysis on TFI source code.
// The first lexical error stops the scanner: the offending token is
// reported as _Error and every later call to Next yields _EOF.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token  // token type
	lit    string // token literal (identifier name, number text, string content)
	tokPos Pos    // token start position

	err *LexError // first error encountered

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
func NewScanner(filename string, src []byte) *Scanner {
	return &Scanner{source: *newSource(filename, src)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
	if s.err != nil {
		s.tok = _EOF
		s.lit = ""
		return
	}

redo:
	s.skipWhitespace()
	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			// scanOperator returned true, meaning we skipped a comment
			goto redo
		}

	default:
		s.unexpected(s.tokPos, s.ch)
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// Err returns the first lexical error, or nil.
func (s *Scanner) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// fail records a lexical error and turns the current token into _Error.
func (s *Scanner) fail(err *LexError) {
	if s.err == nil {
		s.err = err
	}
	s.tok = _Error
	s.lit = ""
}

func (s *Scanner) unexpected(pos Pos, ch rune) {
	s.fail(&LexError{Kind: UnexpectedCharacter, Pos: pos, Char: ch})
}

// skipWhitespace skips space, tab, carriage return and newline.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a decimal integer literal.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	for isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	lit := s.litBuf.String()
	if _, err := strconv.ParseInt(lit, 10, 32); err != nil {
		s.fail(&LexError{Kind: NumberOutOfRange, Pos: s.tokPos, Lit: lit})
		return
	}
	s.lit = lit
	s.tok = _Number
}

// scanString scans a string literal. There are no escape sequences; the
// literal is the raw text between the quotes.
func (s *Scanner) scanString() {
	s.nextch() // skip opening "
	s.litBuf.Reset()

	for {
		switch {
		case s.ch == '"':
			s.nextch()
			s.lit = s.litBuf.String()
			s.tok = _String
			return

		case s.ch == '\n' || s.ch < 0:
			s.fail(&LexError{Kind: UnterminatedString, Pos: s.tokPos})
			return

		case !isStringChar(s.ch):
			s.unexpected(s.pos(), s.ch)
			return

		default:
			s.litBuf.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.tok = _Add
	case '-':
		s.tok = _Sub
	case '*':
		s.tok = _Mul
	case '/':
		if s.ch == '/' {
			s.skipLineComment()
			return true
		}
		s.tok = _Div
	case '<':
		s.tok = _Lss
		if s.ch == '=' {
			s.nextch()
			s.tok = _Leq
		}
	case '>':
		s.tok = _Gtr
		if s.ch == '=' {
			s.nextch()
			s.tok = _Geq
		}
	case '=':
		s.tok = _Assign
		if s.ch == '=' {
			s.nextch()
			s.tok = _Eql
		}
	case '!':
		if s.ch != '=' {
			// There is no unary negation.
			s.unexpected(s.tokPos, '!')
			return false
		}
		s.nextch()
		s.tok = _Neq
	case '(':
		s.tok = _Lparen
	case ')':
		s.tok = _Rparen
	case '{':
		s.tok = _Lbrace
	case '}':
		s.tok = _Rbrace
	case ',':
		s.tok = _Comma
	case ';':
		s.tok = _Semi
	}

	s.lit = s.tok.String()
	return false
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	// Already consumed the first /
	s.nextch()
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

// Item is a single token of a tokenized program.
type Item struct {
	Tok Token
	Lit string
	Pos Pos
}

func (it Item) String() string {
	switch it.Tok {
	case _Name, _Number:
		return it.Lit
	case _String:
		return strconv.Quote(it.Lit)
	}
	return it.Tok.String()
}

// End returns the position just past the item's text. Tokens never span
// lines.
func (it Item) End() Pos {
	var n int
	switch it.Tok {
	case _EOF:
		return it.Pos
	case _Name, _Number:
		n = len(it.Lit)
	case _String:
		n = len(it.Lit) + 2
	default:
		n = len(it.Tok.String())
	}
	return NewPos(it.Pos.Filename(), it.Pos.Line(), it.Pos.Col()+uint32(n), it.Pos.Offset()+uint32(n))
}

// Tokenize converts src into the full token sequence, ending with an EOF
// item. It stops at the first lexical error and returns it as a *LexError.
func Tokenize(filename string, src []byte) ([]Item, error) {
	s := NewScanner(filename, src)
	var items []Item
	for {
		s.Next()
		if s.tok == _Error {
			return nil, s.Err()
		}
		items = append(items, Item{Tok: s.tok, Lit: s.lit, Pos: s.tokPos})
		if s.tok == _EOF {
			return items, nil
		}
	}
}
