package codegen

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/you-not-fish/tfi/internal/syntax"
)

// emitter wraps an io.Writer with helpers for emitting JavaScript text.
type emitter struct {
	w   io.Writer
	err error // first write error
}

// emit writes a formatted string with no trailing newline.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// emitLine writes a line break.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, "\n")
}

// quote renders a string literal. Scanned strings never hold quotes,
// backslashes or line breaks and are emitted as is; hand-built literals
// that do are escaped.
func quote(s string) string {
	if strings.ContainsAny(s, "\"\\\n\r") {
		return strconv.Quote(s)
	}
	return `"` + s + `"`
}

// lineWriter splits output into lines, tagging each line with the
// position current when its first byte was written.
type lineWriter struct {
	lines []Line
	open  bool // last line has no newline yet
	pos   func() syntax.Pos
}

func (w *lineWriter) Write(p []byte) (int, error) {
	s := string(p)
	for {
		i := strings.IndexByte(s, '\n')
		seg := s
		if i >= 0 {
			seg = s[:i]
		}
		if seg != "" || i >= 0 {
			if !w.open {
				w.lines = append(w.lines, Line{Pos: w.pos()})
				w.open = true
			}
			w.lines[len(w.lines)-1].Text += seg
		}
		if i < 0 {
			break
		}
		w.open = false
		s = s[i+1:]
	}
	return len(p), nil
}
