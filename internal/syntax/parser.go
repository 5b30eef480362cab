package syntax

import (
	"bytes"
	"errors"
	"fmt"
)

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos        Pos
	Msg        string
	Expected   string // construct the parser was looking for
	Found      Token  // token found instead
	Snippet    string // source line containing Pos
	Suggestion string // hint for fixing the error, may be empty
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// IsIncomplete reports whether err is a syntax error caused by reaching the
// end of input, i.e. more source text could still make the program valid.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr.Found == _EOF
	}
	var lerr *LexError
	if errors.As(err, &lerr) {
		return lerr.Kind == UnterminatedString
	}
	return false
}

// Parser performs syntax analysis over a token sequence.
// Parsing stops at the first syntax error: the error is recorded, the
// current token is forced to _EOF and every enclosing production unwinds.
type Parser struct {
	items []Item
	idx   int
	src   []byte // source text, used for error snippets

	// Current token info
	tok Token
	lit string
	pos Pos

	prevEnd Pos // position just past the previous token

	first *SyntaxError // first error encountered
	abort bool
}

// NewParser creates a Parser over items, which must end with an EOF item.
// src is the text the items were produced from; it may be nil.
func NewParser(items []Item, src []byte) *Parser {
	p := &Parser{items: items, src: src}
	p.idx = -1
	p.next() // prime the parser with first token
	return p
}

// Parse tokenizes and parses src.
// The returned error is a *LexError or a *SyntaxError.
func Parse(filename string, src []byte) (*File, error) {
	items, err := Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	p := NewParser(items, src)
	f := p.Parse()
	if err := p.FirstError(); err != nil {
		return nil, err
	}
	return f, nil
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	if p.abort {
		return
	}
	if p.idx >= 0 && p.idx < len(p.items) {
		p.prevEnd = p.items[p.idx].End()
	}
	if p.idx < len(p.items)-1 {
		p.idx++
	}
	if len(p.items) == 0 {
		p.tok, p.lit = _EOF, ""
		return
	}
	it := p.items[p.idx]
	p.tok, p.lit, p.pos = it.Tok, it.Lit, it.Pos
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports an error with the given suggestion. When the current
// token is on a later line than the previous one (or is EOF), the error is
// placed just past the previous token, where the missing token belongs.
func (p *Parser) want(tok Token, hint string) {
	if p.got(tok) || p.abort {
		return
	}
	pos := p.pos
	if p.prevEnd.IsValid() && (p.tok == _EOF || p.pos.Line() > p.prevEnd.Line()) {
		pos = p.prevEnd
	}
	construct := "'" + tok.String() + "'"
	p.syntaxErrorAt(pos, "expected "+construct+", found "+p.found(), construct, hint)
}

// expect is like want but returns the position of the expected token.
func (p *Parser) expect(tok Token, hint string) Pos {
	pos := p.pos
	p.want(tok, hint)
	return pos
}

// ----------------------------------------------------------------------------
// Error handling

// found describes the current token for error messages.
func (p *Parser) found() string {
	switch p.tok {
	case _EOF:
		return "end of input"
	case _Name:
		return "identifier " + p.lit
	case _Number:
		return "number " + p.lit
	case _String:
		return "string \"" + p.lit + "\""
	}
	return "'" + p.tok.String() + "'"
}

// errorExpected reports that construct was expected at the current token.
func (p *Parser) errorExpected(construct, hint string) {
	if p.abort {
		return
	}
	p.syntaxErrorAt(p.pos, "expected "+construct+", found "+p.found(), construct, hint)
}

// syntaxErrorAt records the first syntax error and aborts the parse.
func (p *Parser) syntaxErrorAt(pos Pos, msg, construct, hint string) {
	if p.abort {
		return
	}
	p.first = &SyntaxError{
		Pos:        pos,
		Msg:        msg,
		Expected:   construct,
		Found:      p.tok,
		Snippet:    LineAt(p.src, pos),
		Suggestion: hint,
	}
	p.abort = true
	p.tok = _EOF
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	if p.first == nil {
		return nil
	}
	return p.first
}

// LineAt returns the source line containing pos, without its newline.
func LineAt(src []byte, pos Pos) string {
	if src == nil || !pos.IsValid() {
		return ""
	}
	off := int(pos.Offset())
	if off > len(src) {
		off = len(src)
	}
	start := bytes.LastIndexByte(src[:off], '\n') + 1
	end := bytes.IndexByte(src[off:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += off
	}
	return string(bytes.TrimRight(src[start:end], "\r"))
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete program and returns the AST.
// On error, the returned tree is incomplete; check FirstError.
func (p *Parser) Parse() *File {
	f := &File{}
	f.pos = p.pos

	for !p.abort && p.tok != _EOF {
		if s := p.stmt(); s != nil {
			f.Stmts = append(f.Stmts, s)
		}
	}
	f.EOF = p.pos

	return f
}

// ----------------------------------------------------------------------------
// Statements

const (
	hintSemi       = "statements must end with ';'"
	hintAssign     = "variable assignments need 'rrr' (const) or 'pushpa' (let), e.g. rrr x = 10;"
	hintStatement  = "statements start with rrr, pushpa, bahubali, magadheera, pokiri or eega"
	hintExpr       = "expressions are numbers, identifiers, strings, or operations between them"
	hintRbrace     = "blocks must be closed with '}'"
	hintRparen     = "check for a missing ')'"
	hintForInit    = "for loops start with a declaration: eega (pushpa i = 0; i < 10; i + 1) { ... }"
	hintDeclName   = "declarations need a name made of letters: rrr name = value;"
	hintDeclAssign = "declarations need '=' followed by a value: rrr x = 10;"
)

// parenHint returns the suggestion for a keyword missing its parentheses.
func parenHint(kw Token) string {
	switch kw {
	case _Print:
		return "bahubali needs parentheses: bahubali(\"Hello, world!\");"
	case _If:
		return "magadheera statements need parentheses: magadheera (x > 5) { ... }"
	case _While:
		return "pokiri statements need parentheses: pokiri (x < 10) { ... }"
	case _For:
		return hintForInit
	}
	return ""
}

// stmt parses a statement.
func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Print:
		return p.printStmt()

	case _Const, _Let:
		return p.declStmt()

	case _If:
		return p.ifStmt()

	case _While:
		return p.whileStmt()

	case _For:
		return p.forStmt()

	case _Name:
		if p.idx+1 < len(p.items) && p.items[p.idx+1].Tok == _Assign {
			p.errorExpected("statement", hintAssign)
			return nil
		}
		p.errorExpected("statement", hintStatement)
		return nil

	default:
		p.errorExpected("statement", hintStatement)
		return nil
	}
}

// printStmt parses: bahubali ( [expr {, expr}] ) ;
// An empty argument list is accepted here and rejected by validation.
func (p *Parser) printStmt() Stmt {
	s := &PrintStmt{}
	s.pos = p.pos

	p.want(_Print, "")
	p.want(_Lparen, parenHint(_Print))
	if p.tok != _Rparen && !p.abort {
		s.Args = p.exprList()
	}
	p.want(_Rparen, hintRparen)
	p.want(_Semi, hintSemi)
	return s
}

// declStmt parses: (rrr | pushpa) name = expr ;
func (p *Parser) declStmt() Stmt {
	pos := p.pos
	kw := p.tok
	p.next()

	name := p.name()
	p.want(_Assign, hintDeclAssign)
	value := p.expr()
	p.want(_Semi, hintSemi)

	if kw == _Const {
		d := &ConstDecl{Name: name, Value: value}
		d.pos = pos
		return d
	}
	d := &LetDecl{Name: name, Value: value}
	d.pos = pos
	return d
}

// block parses { stmts... }
func (p *Parser) block() *Block {
	b := &Block{}
	b.pos = p.pos

	p.want(_Lbrace, "blocks must start with '{'")

	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		if s := p.stmt(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}

	b.Rbrace = p.expect(_Rbrace, hintRbrace)
	return b
}

// header parses ( cond ) after a keyword.
func (p *Parser) header(kw Token) Expr {
	p.want(_Lparen, parenHint(kw))
	cond := p.expr()
	p.want(_Rparen, hintRparen)
	return cond
}

// ifStmt parses: magadheera ( cond ) { then } [karthikeya { else }]
func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.pos

	p.want(_If, "")
	s.Cond = p.header(_If)
	s.Then = p.block()

	if p.got(_Else) {
		s.Else = p.block()
	}

	return s
}

// whileStmt parses: pokiri ( cond ) { body }
func (p *Parser) whileStmt() Stmt {
	s := &WhileStmt{}
	s.pos = p.pos

	p.want(_While, "")
	s.Cond = p.header(_While)
	s.Body = p.block()
	return s
}

// forStmt parses: eega ( init-statement cond ; update ) { body }
func (p *Parser) forStmt() Stmt {
	s := &ForStmt{}
	s.pos = p.pos

	p.want(_For, "")
	p.want(_Lparen, parenHint(_For))

	initPos := p.pos
	if p.tok != _Const && p.tok != _Let {
		p.syntaxErrorAt(initPos, "for initializer must be a rrr or pushpa declaration, found "+p.found(), "declaration", hintForInit)
		return s
	}
	s.Init = p.stmt()

	s.Cond = p.expr()
	p.want(_Semi, "separate the loop condition and update with ';'")
	s.Update = p.expr()
	p.want(_Rparen, hintRparen)
	s.Body = p.block()
	return s
}

// ----------------------------------------------------------------------------
// Expressions

// name parses an identifier and returns a Name node.
func (p *Parser) name() *Name {
	n := NewName(p.pos, p.lit)
	if p.tok != _Name {
		n.Value = ""
		if p.tok.IsKeyword() {
			p.errorExpected("identifier", fmt.Sprintf("%q is a keyword and cannot be used as a name", p.lit))
		} else {
			p.errorExpected("identifier", hintDeclName)
		}
		return n
	}
	p.next()
	return n
}

// expr parses: term { operator term }
// All operators share one precedence level and associate to the left.
func (p *Parser) expr() Expr {
	x := p.term()
	for !p.abort && p.tok.IsOperator() {
		op := p.tok
		p.next()
		x = NewOperation(op, x, p.term())
	}
	return x
}

// term parses a number, identifier, string or parenthesized expression.
func (p *Parser) term() Expr {
	switch p.tok {
	case _Name:
		n := NewName(p.pos, p.lit)
		p.next()
		return n

	case _Number:
		lit := NewBasicLit(p.pos, IntLit, canonicalInt(p.lit))
		p.next()
		return lit

	case _String:
		lit := NewBasicLit(p.pos, StringLit, p.lit)
		p.next()
		return lit

	case _Lparen:
		p.next()
		x := p.expr()
		p.want(_Rparen, hintRparen)
		return x

	default:
		p.errorExpected("expression", hintExpr)
		return NewName(p.pos, "") // error recovery
	}
}

// exprList parses a comma-separated list of expressions.
func (p *Parser) exprList() []Expr {
	list := []Expr{p.expr()}
	for p.got(_Comma) {
		list = append(list, p.expr())
	}
	return list
}

// canonicalInt strips leading zeros from a decimal literal the scanner has
// already range-checked.
func canonicalInt(lit string) string {
	i := 0
	for i < len(lit)-1 && lit[i] == '0' {
		i++
	}
	return lit[i:]
}
