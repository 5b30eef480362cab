// Package syntax implements lexical analysis and parsing for the TFI language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of input
	_Error              // lexical error

	// Literals
	_Name   // identifier: x, count, total
	_Number // integer literal: 42
	_String // string literal: "hello"

	// Assignment
	_Assign // =

	// Comparison operators
	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	// Arithmetic operators
	_Add // +
	_Sub // -
	_Mul // *
	_Div // /

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;

	// Keywords
	_Const // rrr
	_Let   // pushpa
	_Print // bahubali
	_If    // magadheera
	_Else  // karthikeya
	_While // pokiri
	_For   // eega

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:   "NAME",
	_Number: "NUMBER",
	_String: "STRING",

	_Assign: "=",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Add: "+",
	_Sub: "-",
	_Mul: "*",
	_Div: "/",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",

	_Const: "rrr",
	_Let:   "pushpa",
	_Print: "bahubali",
	_If:    "magadheera",
	_Else:  "karthikeya",
	_While: "pokiri",
	_For:   "eega",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Category returns a short description of the token class, used by
// token dumps.
func (t Token) Category() string {
	switch {
	case t == _EOF:
		return "eof"
	case t == _Name:
		return "identifier"
	case t == _Number:
		return "number"
	case t == _String:
		return "string"
	case t.IsKeyword():
		return "keyword"
	case t.IsOperator():
		return "operator"
	case t >= _Lparen && t <= _Semi:
		return "delimiter"
	}
	return "invalid"
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Const && t <= _For
}

// IsLiteral reports whether t is a number or string literal token.
func (t Token) IsLiteral() bool {
	return t == _Number || t == _String
}

// IsOperator reports whether t is a binary operator token.
// All binary operators share a single precedence level and associate
// to the left.
func (t Token) IsOperator() bool {
	return t >= _Eql && t <= _Div
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// Exported tokens for packages that inspect operators and keywords.
const (
	Assign Token = _Assign // =
	Eql    Token = _Eql    // ==
	Neq    Token = _Neq    // !=
	Lss    Token = _Lss    // <
	Leq    Token = _Leq    // <=
	Gtr    Token = _Gtr    // >
	Geq    Token = _Geq    // >=
	Add    Token = _Add    // +
	Sub    Token = _Sub    // -
	Mul    Token = _Mul    // *
	Div    Token = _Div    // /

	Const Token = _Const // rrr
	Let   Token = _Let   // pushpa
	Print Token = _Print // bahubali
	If    Token = _If    // magadheera
	Else  Token = _Else  // karthikeya
	While Token = _While // pokiri
	For   Token = _For   // eega
)

// LitKind represents the kind of a literal.
type LitKind uint8

const (
	IntLit    LitKind = iota // 42
	StringLit                // "hello"
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	IntLit:    "int",
	StringLit: "string",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= StringLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
var keywords = map[string]Token{
	"rrr":        _Const,
	"pushpa":     _Let,
	"bahubali":   _Print,
	"magadheera": _If,
	"karthikeya": _Else,
	"pokiri":     _While,
	"eega":       _For,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
