// Package compiler runs the TFI pipeline: tokenize and parse, validate,
// then generate JavaScript. Each call builds fresh state; nothing is
// shared between compilations, so calls may run concurrently.
package compiler

import (
	"time"

	"github.com/inconshreveable/log15"

	"github.com/you-not-fish/tfi/internal/codegen"
	"github.com/you-not-fish/tfi/internal/syntax"
	"github.com/you-not-fish/tfi/internal/validate"
)

var logger = log15.New("module", "compiler")

// The log15 root handler writes to stdout until a program installs its
// own, which would mix log lines into generated code and program output.
func init() {
	log15.Root().SetHandler(log15.DiscardHandler())
}

// Result is a successful compilation.
type Result struct {
	Code       string
	Warnings   []validate.Warning
	Statements int // top-level statements
	Stats      *Stats
}

// HasWarnings reports whether the compilation produced warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// WarningMessages returns the warnings as display strings.
func (r *Result) WarningMessages() []string {
	msgs := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		msgs[i] = w.String()
	}
	return msgs
}

// Compile translates TFI source to JavaScript. Errors are *Error.
func Compile(filename string, src []byte) (string, error) {
	res, err := CompileWithDetails(filename, src)
	if err != nil {
		return "", err
	}
	return res.Code, nil
}

// CompileWithDetails is like Compile but also returns warnings and
// statement counts.
func CompileWithDetails(filename string, src []byte) (*Result, error) {
	f, res, err := check(filename, src)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	code, err := codegen.Generate(f.Stmts)
	if err != nil {
		return nil, fail(filename, src, err)
	}
	logger.Debug("Generated JavaScript", "file", filename, "bytes", len(code), "elapsed", time.Since(start))

	res.Code = code
	return res, nil
}

// CompileWithOptions is like CompileWithDetails and then applies opts to
// the generated code.
func CompileWithOptions(filename string, src []byte, opts Options) (*Result, error) {
	f, res, err := check(filename, src)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	lines, err := codegen.GenerateLines(f.Stmts)
	if err != nil {
		return nil, fail(filename, src, err)
	}
	res.Code = opts.render(lines, src)
	logger.Debug("Generated JavaScript", "file", filename, "lines", len(lines),
		"format", opts.FormatOutput, "comments", opts.AddComments,
		"minify", opts.MinifyOutput, "strict", opts.StrictMode,
		"elapsed", time.Since(start))
	return res, nil
}

// Tokenize returns the token sequence of src. Errors are *Error.
func Tokenize(filename string, src []byte) ([]syntax.Item, error) {
	items, err := syntax.Tokenize(filename, src)
	if err != nil {
		return nil, fail(filename, src, err)
	}
	return items, nil
}

// Parse returns the syntax tree of src without validating it. Errors are
// *Error.
func Parse(filename string, src []byte) (*syntax.File, error) {
	f, err := syntax.Parse(filename, src)
	if err != nil {
		return nil, fail(filename, src, err)
	}
	return f, nil
}

// check parses and validates src and runs the linter.
func check(filename string, src []byte) (*syntax.File, *Result, error) {
	start := time.Now()
	f, err := syntax.Parse(filename, src)
	if err != nil {
		return nil, nil, fail(filename, src, err)
	}
	logger.Debug("Parsed source", "file", filename, "stmts", len(f.Stmts), "elapsed", time.Since(start))

	start = time.Now()
	if err := validate.Validate(f.Stmts); err != nil {
		return nil, nil, fail(filename, src, err)
	}
	res := &Result{
		Warnings:   validate.Lint(f.Stmts),
		Statements: len(f.Stmts),
		Stats:      statsOf(f.Stmts),
	}
	logger.Debug("Validated program", "file", filename, "warnings", len(res.Warnings), "elapsed", time.Since(start))
	return f, res, nil
}

func fail(filename string, src []byte, err error) *Error {
	cerr := newError(src, err)
	logger.Debug("Compilation failed", "file", filename, "stage", cerr.Stage, "err", err)
	return cerr
}
