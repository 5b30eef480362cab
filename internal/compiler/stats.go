package compiler

import (
	"fmt"

	"github.com/you-not-fish/tfi/internal/syntax"
)

// Stats counts the statements of a program. TotalStatements counts
// top-level statements only; the per-kind counts include nested bodies.
// An eega initializer is part of the loop header and is not counted.
type Stats struct {
	TotalStatements   int
	PrintStatements   int
	ConstDeclarations int
	LetDeclarations   int
	IfStatements      int
	WhileLoops        int
	ForLoops          int
}

// CollectStats parses src and counts its statements. The program is not
// validated.
func CollectStats(filename string, src []byte) (*Stats, error) {
	f, err := syntax.Parse(filename, src)
	if err != nil {
		return nil, newError(src, err)
	}
	return statsOf(f.Stmts), nil
}

func statsOf(stmts []syntax.Stmt) *Stats {
	s := &Stats{TotalStatements: len(stmts)}
	s.count(stmts)
	return s
}

func (s *Stats) count(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *syntax.PrintStmt:
			s.PrintStatements++
		case *syntax.ConstDecl:
			s.ConstDeclarations++
		case *syntax.LetDecl:
			s.LetDeclarations++
		case *syntax.IfStmt:
			s.IfStatements++
			s.block(stmt.Then)
			s.block(stmt.Else)
		case *syntax.WhileStmt:
			s.WhileLoops++
			s.block(stmt.Body)
		case *syntax.ForStmt:
			s.ForLoops++
			s.block(stmt.Body)
		}
	}
}

func (s *Stats) block(b *syntax.Block) {
	if b != nil {
		s.count(b.Stmts)
	}
}

// TotalDeclarations returns the number of rrr and pushpa declarations.
func (s *Stats) TotalDeclarations() int {
	return s.ConstDeclarations + s.LetDeclarations
}

// TotalControlStructures returns the number of if, while and for statements.
func (s *Stats) TotalControlStructures() int {
	return s.IfStatements + s.WhileLoops + s.ForLoops
}

// Summary returns a short human readable report.
func (s *Stats) Summary() string {
	return fmt.Sprintf("Compilation Summary:\n"+
		"- Total statements: %d\n"+
		"- Print statements: %d\n"+
		"- Variable declarations: %d\n"+
		"- Control structures: %d",
		s.TotalStatements, s.PrintStatements, s.TotalDeclarations(), s.TotalControlStructures())
}
