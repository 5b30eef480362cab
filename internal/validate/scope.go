package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/tfi/internal/syntax"
)

// DeclKind is the declaration form of a binding.
type DeclKind uint8

const (
	Const DeclKind = iota // rrr
	Let                   // pushpa
)

func (k DeclKind) String() string {
	if k == Const {
		return "rrr"
	}
	return "pushpa"
}

// Binding records a declared name.
type Binding struct {
	Name string
	Kind DeclKind
	Pos  syntax.Pos // position of the declaring statement
	Stmt int        // 1-based top-level statement index of the declaration
}

// Line returns the source line of the declaration, falling back to the
// statement index for trees built without positions.
func (b *Binding) Line() int {
	if b.Pos.IsValid() {
		return int(b.Pos.Line())
	}
	return b.Stmt
}

// Scope represents a lexical scope. Scopes form a stack through their
// parent links; the outermost scope holds top-level declarations.
type Scope struct {
	parent  *Scope
	elems   map[string]*Binding
	comment string // debugging comment (e.g., "program", "pokiri body")
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, comment string) *Scope {
	return &Scope{
		parent:  parent,
		elems:   make(map[string]*Binding),
		comment: comment,
	}
}

// Parent returns the enclosing scope, or nil for the outermost scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Lookup returns the binding for name in this scope only.
func (s *Scope) Lookup(name string) *Binding {
	return s.elems[name]
}

// LookupParent returns the binding for name by searching from s outward,
// together with the scope it was found in.
// Returns (nil, nil) if not found.
func (s *Scope) LookupParent(name string) (*Binding, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if b := scope.elems[name]; b != nil {
			return b, scope
		}
	}
	return nil, nil
}

// Insert adds b to the scope, replacing any binding of the same name.
// It returns the replaced binding, or nil.
func (s *Scope) Insert(b *Binding) *Binding {
	prev := s.elems[b.Name]
	s.elems[b.Name] = b
	return prev
}

// Names returns the names declared in the scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a string representation of the scope chain for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	for scope, depth := s, 0; scope != nil; scope, depth = scope.parent, depth+1 {
		fmt.Fprintf(&buf, "%sscope %s {", strings.Repeat("  ", depth), scope.comment)
		for _, name := range scope.Names() {
			b := scope.elems[name]
			fmt.Fprintf(&buf, " %s %s@%d;", b.Kind, name, b.Line())
		}
		buf.WriteString(" }\n")
	}
	return buf.String()
}
