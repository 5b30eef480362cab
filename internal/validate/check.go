package validate

import "github.com/you-not-fish/tfi/internal/syntax"

// Config specifies the configuration for validation.
type Config struct {
	// Error is called for each validation error. If set, validation
	// resumes with the next top-level statement after an error, so at most
	// one error is reported per top-level statement. If nil, validation
	// stops at the first error.
	Error ErrorHandler
}

// Info holds name resolution results.
type Info struct {
	// Defs maps declaring identifiers to their bindings.
	Defs map[*syntax.Name]*Binding

	// Uses maps referencing identifiers to the bindings they resolve to.
	Uses map[*syntax.Name]*Binding

	// Redecls lists pushpa bindings that replaced a rrr binding of the
	// same name in the same scope.
	Redecls []*Binding
}

// checker walks the statement tree with a stack of scopes.
type checker struct {
	conf *Config
	info *Info

	scope     *Scope // innermost scope
	stmtIndex int    // 1-based index of the current top-level statement
}

// Check validates a program.
// It returns the first error encountered, if any, as a *Error.
func Check(stmts []syntax.Stmt, conf *Config, info *Info) error {
	if conf == nil {
		conf = &Config{}
	}
	if info != nil {
		if info.Defs == nil {
			info.Defs = make(map[*syntax.Name]*Binding)
		}
		if info.Uses == nil {
			info.Uses = make(map[*syntax.Name]*Binding)
		}
	}

	c := &checker{
		conf:  conf,
		info:  info,
		scope: NewScope(nil, "program"),
	}

	var first *Error
	for i, s := range stmts {
		c.stmtIndex = i + 1
		err := c.stmt(s)
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		if conf.Error == nil {
			break
		}
		conf.Error(err)
	}

	if first != nil {
		return first
	}
	return nil
}

// Validate checks a program and stops at the first violation.
func Validate(stmts []syntax.Stmt) error {
	return Check(stmts, nil, nil)
}

// ValidateAll checks a program and returns every violation, at most one per
// top-level statement. Bindings from valid statements stay visible to
// later statements.
func ValidateAll(stmts []syntax.Stmt) []*Error {
	var errs []*Error
	conf := &Config{Error: func(err *Error) { errs = append(errs, err) }}
	_ = Check(stmts, conf, nil)
	return errs
}

// openScope pushes a new innermost scope.
func (c *checker) openScope(comment string) {
	c.scope = NewScope(c.scope, comment)
}

// closeScope pops the innermost scope, discarding its bindings.
func (c *checker) closeScope() {
	c.scope = c.scope.Parent()
}

// ----------------------------------------------------------------------------
// Statements

func (c *checker) stmt(s syntax.Stmt) *Error {
	switch s := s.(type) {
	case *syntax.PrintStmt:
		if len(s.Args) == 0 {
			err := c.errorf(EmptyPrintStatement, s.Pos(), "bahubali() requires at least one argument")
			err.Construct = "bahubali"
			return err
		}
		for _, a := range s.Args {
			if err := c.expr(a); err != nil {
				return err
			}
		}
		return nil

	case *syntax.ConstDecl:
		return c.decl(s, s.Name, s.Value, Const)

	case *syntax.LetDecl:
		return c.decl(s, s.Name, s.Value, Let)

	case *syntax.IfStmt:
		if isEmpty(s.Then) {
			return c.emptyBlock(s.Pos(), "magadheera")
		}
		if s.Else != nil && len(s.Else.Stmts) == 0 {
			return c.emptyBlock(s.Else.Pos(), "karthikeya")
		}
		if err := c.expr(s.Cond); err != nil {
			return err
		}
		if err := c.block(s.Then, "magadheera body"); err != nil {
			return err
		}
		if s.Else != nil {
			return c.block(s.Else, "karthikeya body")
		}
		return nil

	case *syntax.WhileStmt:
		if isEmpty(s.Body) {
			return c.emptyBlock(s.Pos(), "pokiri")
		}
		if err := c.expr(s.Cond); err != nil {
			return err
		}
		return c.block(s.Body, "pokiri body")

	case *syntax.ForStmt:
		if isEmpty(s.Body) {
			return c.emptyBlock(s.Pos(), "eega")
		}
		if _, _, ok := syntax.DeclName(s.Init); !ok {
			err := c.errorf(InvalidForInit, s.Pos(), "eega initializer must be a rrr or pushpa declaration")
			err.Construct = "eega"
			return err
		}

		// The initializer binding is visible to the header and body only.
		c.openScope("eega header")
		defer c.closeScope()

		if err := c.stmt(s.Init); err != nil {
			return err
		}
		if err := c.expr(s.Cond); err != nil {
			return err
		}
		if err := c.expr(s.Update); err != nil {
			return err
		}
		return c.block(s.Body, "eega body")

	case nil:
		return c.errorf(InvalidExpression, syntax.Pos{}, "invalid AST: missing statement")

	default:
		return c.errorf(InvalidExpression, s.Pos(), "invalid AST: unexpected statement %T", s)
	}
}

// decl validates a declaration. The redeclaration rule is checked first;
// the initializer is then checked against the scopes as they are before
// the new binding exists.
func (c *checker) decl(s syntax.Stmt, name *syntax.Name, value syntax.Expr, kind DeclKind) *Error {
	if name == nil || name.Value == "" {
		err := c.errorf(EmptyIdentifier, s.Pos(), "%s declaration requires a valid identifier", kind)
		err.Construct = kind.String()
		return err
	}

	prev, scope := c.scope.LookupParent(name.Value)
	// Only a rrr constant may be redeclared, and only with pushpa.
	if prev != nil && (prev.Kind != Const || kind != Let) {
		err := c.errorf(DuplicateVariable, name.Pos(), "variable '%s' is already declared at line %d", name.Value, prev.Line())
		err.Name = name.Value
		err.Construct = kind.String()
		err.Prev = prev
		return err
	}

	if err := c.expr(value); err != nil {
		return err
	}

	b := &Binding{Name: name.Value, Kind: kind, Pos: s.Pos(), Stmt: c.stmtIndex}
	if prev != nil && scope == c.scope && c.info != nil {
		c.info.Redecls = append(c.info.Redecls, b)
	}
	c.scope.Insert(b)
	if c.info != nil {
		c.info.Defs[name] = b
	}
	return nil
}

// block validates a block body in a fresh scope.
func (c *checker) block(b *syntax.Block, comment string) *Error {
	c.openScope(comment)
	defer c.closeScope()

	for _, s := range b.Stmts {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) emptyBlock(pos syntax.Pos, construct string) *Error {
	err := c.errorf(EmptyBlock, pos, "%s block cannot be empty", construct)
	err.Construct = construct
	return err
}

func isEmpty(b *syntax.Block) bool {
	return b == nil || len(b.Stmts) == 0
}

// ----------------------------------------------------------------------------
// Expressions

func (c *checker) expr(x syntax.Expr) *Error {
	switch x := x.(type) {
	case *syntax.BasicLit:
		return nil

	case *syntax.Name:
		b, _ := c.scope.LookupParent(x.Value)
		if b == nil {
			err := c.errorf(UndefinedVariable, x.Pos(), "variable '%s' is not defined", x.Value)
			err.Name = x.Value
			return err
		}
		if c.info != nil {
			c.info.Uses[x] = b
		}
		return nil

	case *syntax.Operation:
		if !x.Op.IsOperator() {
			return c.errorf(InvalidExpression, x.Pos(), "invalid operator '%s' in expression", x.Op)
		}
		if err := c.expr(x.X); err != nil {
			return err
		}
		return c.expr(x.Y)

	case nil:
		return c.errorf(InvalidExpression, syntax.Pos{}, "invalid AST: missing expression")

	default:
		return c.errorf(InvalidExpression, x.Pos(), "invalid AST: unexpected expression %T", x)
	}
}
