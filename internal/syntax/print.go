package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// field prints a labelled child node one level deeper.
func (p *printer) field(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if isNil(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *Block:
		p.printf("Block %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *PrintStmt:
		p.printf("PrintStmt %s\n", n.pos)
		p.indent++
		for _, a := range n.Args {
			p.print(a)
		}
		p.indent--

	case *ConstDecl:
		p.printf("ConstDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		p.field("Value", n.Value)
		p.indent--

	case *LetDecl:
		p.printf("LetDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		p.field("Value", n.Value)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		if n.Else != nil {
			p.field("Else", n.Else)
		}
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Body", n.Body)
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s\n", n.pos)
		p.indent++
		p.field("Init", n.Init)
		p.field("Cond", n.Cond)
		p.field("Update", n.Update)
		p.field("Body", n.Body)
		p.indent--

	case *Name:
		p.printf("Name %s %s\n", n.Value, n.pos)

	case *BasicLit:
		if n.Kind == StringLit {
			p.printf("BasicLit %s %q %s\n", n.Kind, n.Value, n.pos)
		} else {
			p.printf("BasicLit %s %s %s\n", n.Kind, n.Value, n.pos)
		}

	case *Operation:
		p.printf("Operation %s %s\n", n.Op, n.pos)
		p.indent++
		p.print(n.X)
		p.print(n.Y)
		p.indent--

	default:
		p.printf("%T %s\n", n, n.Pos())
	}
}

// ExprString returns the source-like text of an expression with every
// operation parenthesized.
func ExprString(x Expr) string {
	var b strings.Builder
	writeExpr(&b, x)
	return b.String()
}

func writeExpr(b *strings.Builder, x Expr) {
	switch x := x.(type) {
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		if x.Kind == StringLit {
			b.WriteByte('"')
			b.WriteString(x.Value)
			b.WriteByte('"')
		} else {
			b.WriteString(x.Value)
		}
	case *Operation:
		b.WriteByte('(')
		writeExpr(b, x.X)
		b.WriteByte(' ')
		b.WriteString(x.Op.String())
		b.WriteByte(' ')
		writeExpr(b, x.Y)
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<%T>", x)
	}
}
