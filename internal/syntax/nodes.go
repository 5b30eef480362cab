package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 main classes of nodes: Expressions and Statements.
// All nodes implement the Node interface. Expression and Statement nodes
// further implement their respective interfaces.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// SetPos sets the node position. It is used by code that builds trees
// without going through the parser.
func (n *node) SetPos(pos Pos) { n.pos = pos }

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Program

// File represents a complete TFI program.
type File struct {
	node
	Stmts []Stmt // top-level statements in source order
	EOF   Pos    // position of the end of input
}

// Block represents a braced statement list: { Stmts... }
type Block struct {
	node          // position of the opening brace
	Stmts  []Stmt // statements
	Rbrace Pos    // position of closing brace
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string // identifier string
}

// BasicLit represents a number or string literal.
type BasicLit struct {
	expr
	Value string  // decimal text for IntLit, raw contents for StringLit
	Kind  LitKind // IntLit, StringLit
}

// Operation represents a binary operation: X Op Y.
// Parenthesized sub-expressions produce no node of their own.
type Operation struct {
	expr
	Op Token // operator token
	X  Expr  // left operand
	Y  Expr  // right operand
}

// ----------------------------------------------------------------------------
// Statements

// PrintStmt represents bahubali(Args...);
type PrintStmt struct {
	stmt
	Args []Expr
}

// ConstDecl represents rrr Name = Value;
type ConstDecl struct {
	stmt
	Name  *Name
	Value Expr
}

// LetDecl represents pushpa Name = Value;
type LetDecl struct {
	stmt
	Name  *Name
	Value Expr
}

// IfStmt represents magadheera (Cond) Then [karthikeya Else]
type IfStmt struct {
	stmt
	Cond Expr   // condition expression
	Then *Block // then branch
	Else *Block // else branch (nil if absent)
}

// WhileStmt represents pokiri (Cond) Body
type WhileStmt struct {
	stmt
	Cond Expr
	Body *Block
}

// ForStmt represents eega (Init Cond; Update) Body
// Update is evaluated after each iteration and its value is discarded.
type ForStmt struct {
	stmt
	Init   Stmt // *ConstDecl or *LetDecl
	Cond   Expr
	Update Expr
	Body   *Block
}

// ----------------------------------------------------------------------------
// Constructors

// NewName returns a Name node at pos.
func NewName(pos Pos, value string) *Name {
	n := &Name{Value: value}
	n.pos = pos
	return n
}

// NewBasicLit returns a literal node at pos.
func NewBasicLit(pos Pos, kind LitKind, value string) *BasicLit {
	lit := &BasicLit{Value: value, Kind: kind}
	lit.pos = pos
	return lit
}

// NewOperation returns a binary operation positioned at its left operand.
func NewOperation(op Token, x, y Expr) *Operation {
	o := &Operation{Op: op, X: x, Y: y}
	if x != nil {
		o.pos = x.Pos()
	}
	return o
}

// NewBlock returns a block at pos holding stmts.
func NewBlock(pos Pos, stmts ...Stmt) *Block {
	b := &Block{Stmts: stmts}
	b.pos = pos
	return b
}

// DeclName returns the declared name and initializer of a declaration
// statement. ok is false if s is not a ConstDecl or LetDecl.
func DeclName(s Stmt) (name *Name, value Expr, ok bool) {
	switch d := s.(type) {
	case *ConstDecl:
		return d.Name, d.Value, true
	case *LetDecl:
		return d.Name, d.Value, true
	}
	return nil, nil, false
}
