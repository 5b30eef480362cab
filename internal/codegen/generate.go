// Package codegen lowers validated TFI syntax trees to JavaScript.
//
// Output is one JavaScript statement per TFI statement, joined by newlines,
// with no indentation and no trailing newline. Every binary operation is
// fully parenthesized so the flat left-to-right evaluation order of TFI
// survives JavaScript's precedence rules.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-stack/stack"

	"github.com/you-not-fish/tfi/internal/syntax"
)

// generator holds the state for lowering one program.
type generator struct {
	e   emitter
	pos syntax.Pos       // innermost statement being lowered
	bad *GenerationError // first unsupported node
}

// Line is one line of generated output.
type Line struct {
	Text string
	Pos  syntax.Pos // statement the line was produced for
}

// Generate returns the JavaScript for stmts.
func Generate(stmts []syntax.Stmt) (string, error) {
	var buf strings.Builder
	if err := Emit(&buf, stmts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Emit writes the JavaScript for stmts to w. On error, w may hold a
// partial program.
func Emit(w io.Writer, stmts []syntax.Stmt) error {
	g := &generator{e: emitter{w: w}}
	g.stmtList(stmts)
	if g.bad != nil {
		return g.bad
	}
	return g.e.err
}

// GenerateLines returns the same output as Generate split into lines, each
// tagged with the statement it belongs to. Closing braces belong to the
// statement that opened them.
func GenerateLines(stmts []syntax.Stmt) ([]Line, error) {
	g := &generator{}
	lw := &lineWriter{pos: func() syntax.Pos { return g.pos }}
	g.e.w = lw
	g.stmtList(stmts)
	if g.bad != nil {
		return nil, g.bad
	}
	return lw.lines, nil
}

// fail records the first generation error with the caller's frame.
func (g *generator) fail(format string, args ...interface{}) {
	if g.bad == nil {
		g.bad = &GenerationError{Msg: fmt.Sprintf(format, args...), Call: stack.Caller(1)}
	}
}

func (g *generator) stmtList(list []syntax.Stmt) {
	for i, s := range list {
		if i > 0 {
			g.e.emitLine()
		}
		g.stmt(s)
	}
}

func (g *generator) stmt(s syntax.Stmt) {
	if s != nil {
		defer func(pos syntax.Pos) { g.pos = pos }(g.pos)
		g.pos = s.Pos()
	}

	switch s := s.(type) {
	case *syntax.PrintStmt:
		g.e.emit("console.log(%s);", g.exprList(s.Args))

	case *syntax.ConstDecl, *syntax.LetDecl:
		g.e.emit("%s;", g.decl(s))

	case *syntax.IfStmt:
		g.e.emit("if (%s) ", g.expr(s.Cond))
		g.block(s.Then)
		if s.Else != nil {
			g.e.emit(" else ")
			g.block(s.Else)
		}

	case *syntax.WhileStmt:
		g.e.emit("while (%s) ", g.expr(s.Cond))
		g.block(s.Body)

	case *syntax.ForStmt:
		g.e.emit("for (%s; %s; %s) ", g.decl(s.Init), g.expr(s.Cond), g.expr(s.Update))
		g.block(s.Body)

	case nil:
		g.fail("missing statement")

	default:
		g.fail("unexpected statement %T", s)
	}
}

// decl renders a declaration without its terminating semicolon.
func (g *generator) decl(s syntax.Stmt) string {
	name, value, ok := syntax.DeclName(s)
	if !ok {
		g.fail("expected declaration, found %T", s)
		return ""
	}
	if name == nil {
		g.fail("declaration without a name")
		return ""
	}
	kw := "let"
	if _, isConst := s.(*syntax.ConstDecl); isConst {
		kw = "const"
	}
	return fmt.Sprintf("%s %s = %s", kw, name.Value, g.expr(value))
}

func (g *generator) block(b *syntax.Block) {
	g.e.emit("{")
	g.e.emitLine()
	if b != nil {
		g.stmtList(b.Stmts)
	}
	g.e.emitLine()
	g.e.emit("}")
}

func (g *generator) exprList(list []syntax.Expr) string {
	args := make([]string, len(list))
	for i, x := range list {
		args[i] = g.expr(x)
	}
	return strings.Join(args, ", ")
}

func (g *generator) expr(x syntax.Expr) string {
	switch x := x.(type) {
	case *syntax.BasicLit:
		switch x.Kind {
		case syntax.IntLit:
			return x.Value
		case syntax.StringLit:
			return quote(x.Value)
		}
		g.fail("unknown literal kind %s", x.Kind)

	case *syntax.Name:
		return x.Value

	case *syntax.Operation:
		if !x.Op.IsOperator() {
			g.fail("unknown operator %s", x.Op)
			return ""
		}
		return fmt.Sprintf("(%s %s %s)", g.expr(x.X), x.Op, g.expr(x.Y))

	case nil:
		g.fail("missing expression")

	default:
		g.fail("unexpected expression %T", x)
	}
	return ""
}
