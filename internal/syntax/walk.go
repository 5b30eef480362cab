package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if isNil(node) || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		walkStmts(n.Stmts, v)

	case *Block:
		walkStmts(n.Stmts, v)

	case *PrintStmt:
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *ConstDecl:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *LetDecl:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ForStmt:
		Walk(n.Init, v)
		Walk(n.Cond, v)
		Walk(n.Update, v)
		Walk(n.Body, v)

	case *Operation:
		Walk(n.X, v)
		Walk(n.Y, v)

	// Leaf nodes: Name, BasicLit
	// No children to visit
	}
}

func walkStmts(list []Stmt, v Visitor) {
	for _, s := range list {
		Walk(s, v)
	}
}

// isNil reports whether node is nil or a typed nil pointer.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Block:
		return n == nil
	case *Name:
		return n == nil
	}
	return false
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
