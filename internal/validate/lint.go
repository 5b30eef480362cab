package validate

import (
	"fmt"

	"github.com/you-not-fish/tfi/internal/syntax"
)

// Thresholds above which Lint suggests splitting a construct.
const (
	maxPrintArgs  = 5
	maxLoopLength = 10
)

// Warning is a non-fatal diagnostic about a valid program.
type Warning struct {
	Pos  syntax.Pos
	Stmt int // 1-based top-level statement index, 0 for program-wide warnings
	Msg  string
}

func (w Warning) String() string {
	if w.Stmt == 0 {
		return w.Msg
	}
	return fmt.Sprintf("Statement %d: %s", w.Stmt, w.Msg)
}

// Lint reports suspicious but valid constructs. Statements that fail
// validation are skipped.
func Lint(stmts []syntax.Stmt) []Warning {
	if len(stmts) == 0 {
		return []Warning{{Msg: "program is empty; no JavaScript will be generated"}}
	}

	info := &Info{}
	failed := make(map[int]bool)
	conf := &Config{Error: func(err *Error) { failed[err.Stmt] = true }}
	_ = Check(stmts, conf, info)

	used := make(map[*Binding]bool, len(info.Uses))
	for _, b := range info.Uses {
		used[b] = true
	}
	redecl := make(map[*Binding]bool, len(info.Redecls))
	for _, b := range info.Redecls {
		redecl[b] = true
	}

	var warns []Warning
	for i, s := range stmts {
		index := i + 1
		if failed[index] {
			continue
		}
		add := func(pos syntax.Pos, format string, args ...interface{}) {
			warns = append(warns, Warning{Pos: pos, Stmt: index, Msg: fmt.Sprintf(format, args...)})
		}
		syntax.Inspect(s, func(n syntax.Node) bool {
			switch n := n.(type) {
			case *syntax.PrintStmt:
				if len(n.Args) > maxPrintArgs {
					add(n.Pos(), "Print statement has %d arguments, consider breaking it up", len(n.Args))
				}

			case *syntax.ConstDecl, *syntax.LetDecl:
				name, _, _ := syntax.DeclName(n.(syntax.Stmt))
				b := info.Defs[name]
				if b == nil {
					break
				}
				if redecl[b] {
					add(n.Pos(), "pushpa %s redeclares rrr %s in the same scope, which JavaScript rejects", b.Name, b.Name)
				}
				if !used[b] {
					add(n.Pos(), "variable '%s' is declared but never used", b.Name)
				}

			case *syntax.WhileStmt:
				if len(n.Body.Stmts) > maxLoopLength {
					add(n.Pos(), "While loop has %d statements, consider refactoring", len(n.Body.Stmts))
				}

			case *syntax.ForStmt:
				if v := loopVar(n, info); v != nil && updatesVar(n.Update, v, info) {
					add(n.Pos(), "eega update %s does not change %s; every eega update is evaluated and discarded",
						syntax.ExprString(n.Update), v.Name)
				}
				if len(n.Body.Stmts) > maxLoopLength {
					add(n.Pos(), "For loop has %d statements, consider refactoring", len(n.Body.Stmts))
				}
			}
			return true
		})
	}
	return warns
}

// loopVar returns the binding declared by the init of s.
func loopVar(s *syntax.ForStmt, info *Info) *Binding {
	name, _, ok := syntax.DeclName(s.Init)
	if !ok {
		return nil
	}
	return info.Defs[name]
}

// updatesVar reports whether update computes a new value from v. A bare
// reference to v is not counted.
func updatesVar(update syntax.Expr, v *Binding, info *Info) bool {
	if n, ok := update.(*syntax.Name); ok && info.Uses[n] == v {
		return false
	}
	found := false
	syntax.Inspect(update, func(n syntax.Node) bool {
		if n, ok := n.(*syntax.Name); ok && info.Uses[n] == v {
			found = true
		}
		return !found
	})
	return found
}
