// Package validate implements semantic validation of TFI programs.
package validate

import (
	"fmt"

	"github.com/you-not-fish/tfi/internal/syntax"
)

// ErrorKind classifies validation errors.
type ErrorKind uint8

const (
	EmptyPrintStatement ErrorKind = iota // bahubali() without arguments
	EmptyIdentifier                      // declaration without a name
	EmptyBlock                           // control structure with an empty body
	DuplicateVariable                    // redeclaration other than const to let
	UndefinedVariable                    // use of an unknown name
	InvalidExpression                    // operation with an unsupported operator
	InvalidForInit                       // eega initializer that is not a declaration
)

var errorKindNames = [...]string{
	EmptyPrintStatement: "EmptyPrintStatement",
	EmptyIdentifier:     "EmptyIdentifier",
	EmptyBlock:          "EmptyBlock",
	DuplicateVariable:   "DuplicateVariable",
	UndefinedVariable:   "UndefinedVariable",
	InvalidExpression:   "InvalidExpression",
	InvalidForInit:      "InvalidForInit",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error represents a validation error.
type Error struct {
	Kind      ErrorKind
	Stmt      int        // 1-based index of the enclosing top-level statement
	Pos       syntax.Pos // position of the offending node
	Name      string     // variable name, if any
	Construct string     // keyword of the offending construct, if any
	Prev      *Binding   // earlier declaration (DuplicateVariable)
	Msg       string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("statement %d: %s", e.Stmt, e.Msg)
}

// OrigLine returns the line of the earlier declaration for
// DuplicateVariable errors, or 0.
func (e *Error) OrigLine() int {
	if e.Prev == nil {
		return 0
	}
	return e.Prev.Line()
}

// Suggestion returns a hint for fixing the error.
func (e *Error) Suggestion() string {
	switch e.Kind {
	case EmptyPrintStatement:
		return `bahubali("Hello, world!");`
	case EmptyIdentifier:
		return e.Construct + " name = value;"
	case EmptyBlock:
		switch e.Construct {
		case "karthikeya":
			return `karthikeya { bahubali("action"); }`
		case "eega":
			return "eega (pushpa i = 0; i < 10; i + 1) { bahubali(i); }"
		}
		return e.Construct + ` (condition) { bahubali("action"); }`
	case DuplicateVariable:
		return "Use a different variable name or redeclare with 'pushpa'"
	case UndefinedVariable:
		return fmt.Sprintf("Declare the variable first with 'rrr %s = value;' or 'pushpa %s = value;'", e.Name, e.Name)
	case InvalidExpression:
		return "Operators are + - * / > < >= <= == !="
	case InvalidForInit:
		return "eega (pushpa i = 0; i < 10; i + 1) { ... }"
	}
	return ""
}

// ErrorHandler is a function called for each validation error.
type ErrorHandler func(err *Error)

// errorf records a validation error for the current statement.
func (c *checker) errorf(kind ErrorKind, pos syntax.Pos, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Stmt: c.stmtIndex,
		Pos:  pos,
		Msg:  fmt.Sprintf(format, args...),
	}
}
