package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/you-not-fish/tfi/internal/compiler"
)

// diag prints diagnostics, in color when the output is a terminal.
type diag struct {
	w io.Writer

	header  *color.Color
	caret   *color.Color
	hint    *color.Color
	warning *color.Color
}

func newDiag() *diag {
	return newDiagTo(colorable.NewColorableStderr(), isTerminal(os.Stderr))
}

func newDiagTo(w io.Writer, colored bool) *diag {
	d := &diag{
		w:       w,
		header:  color.New(color.FgRed, color.Bold),
		caret:   color.New(color.FgGreen, color.Bold),
		hint:    color.New(color.FgCyan),
		warning: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{d.header, d.caret, d.hint, d.warning} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return d
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// error prints err. Compiler errors are rendered with their source line.
func (d *diag) error(file string, err error) {
	var cerr *compiler.Error
	if !errors.As(err, &cerr) {
		d.header.Fprintf(d.w, "error: %v\n", err)
		return
	}

	lines := strings.Split(strings.TrimSuffix(cerr.Render(), "\n"), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			if file != "" {
				line = file + ": " + line
			}
			d.header.Fprintln(d.w, line)
		case strings.HasPrefix(line, "  suggestion: "):
			d.hint.Fprintln(d.w, line)
		case strings.HasSuffix(line, "^") && strings.TrimSpace(line) == "^":
			d.caret.Fprintln(d.w, line)
		default:
			fmt.Fprintln(d.w, line)
		}
	}
}

func (d *diag) warnings(file string, res *compiler.Result) {
	for _, msg := range res.WarningMessages() {
		d.warning.Fprintf(d.w, "warning: %s: %s\n", file, msg)
	}
}
