package compiler

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/tfi/internal/codegen"
	"github.com/you-not-fish/tfi/internal/syntax"
)

// Options are text transforms over the generated JavaScript. They never
// change the syntax tree or the validation outcome.
type Options struct {
	// FormatOutput re-indents by brace depth, 4 spaces per level, and
	// terminates every line with a newline.
	FormatOutput bool

	// AddComments prefixes the output with a banner and precedes the code
	// of each source line with that line as a comment.
	AddComments bool

	// MinifyOutput strips line breaks and indentation. Comments are
	// dropped since a line comment would swallow the code after it.
	MinifyOutput bool

	// StrictMode prepends a "use strict" directive.
	StrictMode bool
}

const (
	indentWidth   = 4
	commentBanner = "// Generated from TFI source code"
	strictPrelude = `"use strict";`
)

// render applies o to the generated lines of src.
func (o Options) render(lines []codegen.Line, src []byte) string {
	if o.FormatOutput {
		lines = reindent(lines)
	}
	if o.StrictMode {
		lines = append([]codegen.Line{{Text: strictPrelude}}, lines...)
	}
	if o.MinifyOutput {
		return minify(lines)
	}

	var out []string
	if o.AddComments {
		out = append(out, commentBanner)
	}
	var last uint32
	for _, l := range lines {
		if o.AddComments && l.Pos.IsValid() && l.Pos.Line() > last {
			last = l.Pos.Line()
			if text := strings.TrimSpace(syntax.LineAt(src, l.Pos)); text != "" {
				out = append(out, fmt.Sprintf("%s// %d: %s", leadingSpace(l.Text), last, text))
			}
		}
		out = append(out, l.Text)
	}

	code := strings.Join(out, "\n")
	if o.FormatOutput && len(out) > 0 {
		code += "\n"
	}
	return code
}

// reindent indents each line by the brace depth before it. A line
// starting with '}' closes a level first; a line ending with '{' opens
// one after it. Blank lines stay blank.
func reindent(lines []codegen.Line) []codegen.Line {
	out := make([]codegen.Line, len(lines))
	depth := 0
	for i, l := range lines {
		text := strings.TrimSpace(l.Text)
		out[i] = codegen.Line{Pos: l.Pos}
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "}") && depth > 0 {
			depth--
		}
		out[i].Text = strings.Repeat(" ", depth*indentWidth) + text
		if strings.HasSuffix(text, "{") {
			depth++
		}
	}
	return out
}

func minify(lines []codegen.Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.TrimSpace(l.Text))
	}
	return b.String()
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
