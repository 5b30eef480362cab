package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/you-not-fish/tfi/internal/codegen"
	"github.com/you-not-fish/tfi/internal/syntax"
	"github.com/you-not-fish/tfi/internal/validate"
)

// Stage identifies the pipeline stage that rejected a program.
type Stage uint8

const (
	LexStage Stage = iota
	ParseStage
	ValidateStage
	GenerateStage
)

var stageNames = [...]string{
	LexStage:      "Lex",
	ParseStage:    "Parse",
	ValidateStage: "Validation",
	GenerateStage: "Generation",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// Error is the uniform error returned by the compiler entry points. It wraps
// the first stage error unmodified; use errors.As to reach it.
type Error struct {
	Stage      Stage
	Pos        syntax.Pos // invalid for errors on trees without positions
	Stmt       int        // 1-based top-level statement index, validation only
	Message    string     // stage message without position
	Snippet    string     // source line containing Pos
	Suggestion string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", strings.ToLower(e.Stage.String()), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Render returns a multi-line human readable report: a header with the
// stage and location, the offending source line with a caret under the
// column, and the suggestion.
func (e *Error) Render() string {
	var b strings.Builder
	switch {
	case e.Pos.IsValid():
		fmt.Fprintf(&b, "%s error at %d:%d: %s\n", e.Stage, e.Pos.Line(), e.Pos.Col(), e.Message)
	case e.Stmt > 0:
		fmt.Fprintf(&b, "%s error at statement %d: %s\n", e.Stage, e.Stmt, e.Message)
	default:
		fmt.Fprintf(&b, "%s error: %s\n", e.Stage, e.Message)
	}
	if e.Snippet != "" && e.Pos.IsValid() {
		fmt.Fprintf(&b, "  %s\n", strings.TrimRight(e.Snippet, " \t\r"))
		fmt.Fprintf(&b, "  %s^\n", marker(e.Snippet, int(e.Pos.Col())-1))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  suggestion: %s\n", e.Suggestion)
	}
	return b.String()
}

// marker returns the whitespace that lines a caret up under column n of
// line, keeping tabs so the caret stays aligned.
func marker(line string, n int) string {
	var b strings.Builder
	for _, r := range line {
		if n == 0 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		n--
	}
	b.WriteString(strings.Repeat(" ", n))
	return b.String()
}

// newError wraps a stage error.
func newError(src []byte, err error) *Error {
	var (
		lerr *syntax.LexError
		serr *syntax.SyntaxError
		verr *validate.Error
		gerr *codegen.GenerationError
	)
	switch {
	case errors.As(err, &lerr):
		return &Error{
			Stage:      LexStage,
			Pos:        lerr.Pos,
			Message:    lerr.Msg(),
			Snippet:    syntax.LineAt(src, lerr.Pos),
			Suggestion: lexSuggestion(lerr.Kind),
			Err:        err,
		}
	case errors.As(err, &serr):
		return &Error{
			Stage:      ParseStage,
			Pos:        serr.Pos,
			Message:    serr.Msg,
			Snippet:    serr.Snippet,
			Suggestion: serr.Suggestion,
			Err:        err,
		}
	case errors.As(err, &verr):
		return &Error{
			Stage:      ValidateStage,
			Pos:        verr.Pos,
			Stmt:       verr.Stmt,
			Message:    verr.Msg,
			Snippet:    syntax.LineAt(src, verr.Pos),
			Suggestion: verr.Suggestion(),
			Err:        err,
		}
	case errors.As(err, &gerr):
		return &Error{
			Stage:   GenerateStage,
			Message: gerr.Msg,
			Err:     err,
		}
	}
	return &Error{Stage: GenerateStage, Message: err.Error(), Err: err}
}

func lexSuggestion(kind syntax.LexErrorKind) string {
	switch kind {
	case syntax.UnexpectedCharacter:
		return "remove the character or move it inside a string literal"
	case syntax.UnterminatedString:
		return `close the string with '"' before the end of the line`
	case syntax.NumberOutOfRange:
		return "numbers must not exceed 2147483647"
	}
	return ""
}
