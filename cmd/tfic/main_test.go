package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rjeczalik/notify"

	"github.com/you-not-fish/tfi/internal/compiler"
)

func TestBuildWritesOutput(t *testing.T) {
	filename := writeTempTFIFile(t, "rrr x = 10;\nbahubali(x);\n")
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "build", filename})
	})
	if code != 0 {
		t.Fatalf("build exit=%d\nstderr:\n%s", code, errOut)
	}
	jsFile := strings.TrimSuffix(filename, ".tfi") + ".js"
	if !strings.Contains(out, filename+" -> "+jsFile) {
		t.Fatalf("missing build report:\n%s", out)
	}
	got, err := os.ReadFile(jsFile)
	if err != nil {
		t.Fatal(err)
	}
	if want := "const x = 10;\nconsole.log(x);\n"; string(got) != want {
		t.Fatalf("generated code = %q, want %q", got, want)
	}
}

func TestDefaultActionBuilds(t *testing.T) {
	filename := writeTempTFIFile(t, "bahubali(\"hi\");")
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if _, err := os.Stat(strings.TrimSuffix(filename, ".tfi") + ".js"); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestDefaultActionTakesBuildFlags(t *testing.T) {
	filename := writeTempTFIFile(t, "bahubali(1);")
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "--minify", "--strict", "-o", "-", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "\"use strict\";console.log(1);\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestBuildToStdoutWithOptions(t *testing.T) {
	filename := writeTempTFIFile(t, "rrr x = 1; magadheera (x) { bahubali(x); }")
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "build", "--format", "--strict", "-o", "-", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	want := "\"use strict\";\nconst x = 1;\nif (x) {\n    console.log(x);\n}\n"
	if out != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
}

func TestBuildStats(t *testing.T) {
	filename := writeTempTFIFile(t, "pushpa i = 0; pokiri (i < 3) { bahubali(i); }")
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "build", "--stats", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{"Compilation Summary:", "- Total statements: 2", "- Control structures: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildReportsErrors(t *testing.T) {
	filename := writeTempTFIFile(t, "rrr x = 42")
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "build", filename})
	})
	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if out != "" {
		t.Fatalf("unexpected stdout:\n%s", out)
	}
	for _, want := range []string{
		filename + ": Parse error at 1:11: expected ';', found end of input",
		"  rrr x = 42\n",
		"  suggestion: statements must end with ';'",
	} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
	if strings.Contains(errOut, "Fatal") {
		t.Errorf("reported error printed twice:\n%s", errOut)
	}
	if _, err := os.Stat(strings.TrimSuffix(filename, ".tfi") + ".js"); !os.IsNotExist(err) {
		t.Errorf("output written for a failed build: %v", err)
	}
}

func TestBuildContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.tfi")
	good := filepath.Join(dir, "good.tfi")
	writeFile(t, bad, "bahubali(y);")
	writeFile(t, good, "bahubali(1);")

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "build", bad, good})
	})
	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "variable 'y' is not defined") {
		t.Errorf("stderr missing validation error:\n%s", errOut)
	}
	if !strings.Contains(out, good+" -> ") {
		t.Errorf("good file not built:\n%s", out)
	}
}

func TestBuildWarnings(t *testing.T) {
	filename := writeTempTFIFile(t, "rrr unused = 1;")
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "build", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	want := "warning: " + filename + ": Statement 1: variable 'unused' is declared but never used"
	if !strings.Contains(errOut, want) {
		t.Fatalf("stderr missing %q:\n%s", want, errOut)
	}
}

func TestBuildArgumentErrors(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tfi")
	b := filepath.Join(dir, "b.tfi")
	writeFile(t, a, "bahubali(1);")
	writeFile(t, b, "bahubali(2);")
	txt := filepath.Join(dir, "notes.txt")
	writeFile(t, txt, "bahubali(3);")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no_inputs", []string{"tfic", "build"}, "Fatal: no input files"},
		{"wrong_extension", []string{"tfic", "build", txt}, "not a .tfi file"},
		{"output_many", []string{"tfic", "build", "-o", "out.js", a, b}, "--output requires a single input file"},
		{"missing_file", []string{"tfic", "build", filepath.Join(dir, "nope.tfi")}, "nope.tfi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := captureOutput(t, func() int { return run(tt.args) })
			if code != 1 {
				t.Fatalf("exit=%d, want 1", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Fatalf("stderr missing %q:\n%s", tt.want, errOut)
			}
		})
	}
}

func TestRunExecutesProgram(t *testing.T) {
	filename := writeTempTFIFile(t, "pushpa n = 3;\nbahubali(\"n is\", n);\nmagadheera (n > 2) { bahubali(n * 2); }\n")
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "run", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "n is 3\n6\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunTimeout(t *testing.T) {
	filename := writeTempTFIFile(t, "pokiri (1) { rrr y = 1; }")
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "run", "--timeout", "50ms", filename})
	})
	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "interrupted") {
		t.Fatalf("stderr missing interruption:\n%s", errOut)
	}
}

func TestTokens(t *testing.T) {
	filename := writeTempTFIFile(t, "rrr x = \"hi\";")
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "tokens", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{"POSITION", "CATEGORY", "keyword", "identifier", `"hi"`, "1:9", "eof"} {
		if !strings.Contains(out, want) {
			t.Errorf("token dump missing %q:\n%s", want, out)
		}
	}
}

func TestTokensLexError(t *testing.T) {
	filename := writeTempTFIFile(t, "rrr x = 1 @ 2;")
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "tokens", filename})
	})
	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "Lex error at 1:11") {
		t.Fatalf("stderr missing lex error:\n%s", errOut)
	}
}

func TestAST(t *testing.T) {
	// Semantic errors do not stop the dump.
	filename := writeTempTFIFile(t, "bahubali(y);")
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"text", func(t *testing.T, out string) {
			if !strings.HasPrefix(out, "File ") || !strings.Contains(out, "  PrintStmt ") {
				t.Errorf("text dump:\n%s", out)
			}
		}},
		{"json", func(t *testing.T, out string) {
			var v map[string]interface{}
			if err := json.Unmarshal([]byte(out), &v); err != nil {
				t.Fatalf("invalid JSON: %v\n%s", err, out)
			}
			if v["type"] != "File" {
				t.Errorf("root type = %v", v["type"])
			}
		}},
		{"spew", func(t *testing.T, out string) {
			if !strings.Contains(out, "syntax.File") || !strings.Contains(out, "syntax.PrintStmt") {
				t.Errorf("spew dump:\n%s", out)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			code, out, errOut := captureOutput(t, func() int {
				return run([]string{"tfic", "ast", "--format", tt.format, filename})
			})
			if code != 0 {
				t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
			}
			tt.check(t, out)
		})
	}

	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "ast", "--format", "yaml", filename})
	})
	if code != 1 || !strings.Contains(errOut, `unknown AST format "yaml"`) {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
}

func TestStats(t *testing.T) {
	filename := writeTempTFIFile(t, "rrr a = 1; pushpa b = 2; magadheera (a) { bahubali(a); } eega (pushpa i = 0; i < b; i + 1) { bahubali(i); }")
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "stats", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{"KIND", "COUNT", "- Total statements: 4", "- Print statements: 2", "- Variable declarations: 2", "- Control structures: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestDumpConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "dumpconfig", "--format", "--timeout", "2s", "--cors", "https://a.example", first})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	dumped, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[Compiler]", "FormatOutput", `"2s"`, "https://a.example"} {
		if !strings.Contains(string(dumped), want) {
			t.Errorf("config missing %q:\n%s", want, dumped)
		}
	}

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "--config", first, "dumpconfig"})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != string(dumped) {
		t.Fatalf("reloaded config differs:\n%s\nwant:\n%s", out, dumped)
	}
}

func TestConfigFileOptionsApply(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "tfic.toml")
	writeFile(t, conf, "[Compiler]\nStrictMode = true\n")
	filename := writeTempTFIFile(t, "bahubali(1);")

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "--config", conf, "build", "-o", "-", filename})
	})
	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "\"use strict\";\nconsole.log(1);\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestConfigFileUnknownField(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "tfic.toml")
	writeFile(t, conf, "[Compiler]\nBogus = true\n")
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"tfic", "--config", conf, "dumpconfig"})
	})
	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "field 'Bogus' is not defined") {
		t.Fatalf("stderr missing config error:\n%s", errOut)
	}
}

type scriptedPrompter struct {
	lines   []string
	history []string
}

func (p *scriptedPrompter) Prompt(string) (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) AppendHistory(item string) {
	p.history = append(p.history, item)
}

func newTestSession() (*session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &session{timeout: time.Second, out: &out, diag: newDiagTo(&errOut, false)}, &out, &errOut
}

func TestREPLShowsOnlyNewOutput(t *testing.T) {
	s, out, errOut := newTestSession()
	p := &scriptedPrompter{lines: []string{
		"rrr x = 1;",
		"bahubali(x);",
		"pushpa y = 2;",
		"bahubali(x + y);",
		":quit",
		"bahubali(99);",
	}}
	s.loop(context.Background(), p)

	if errOut.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", errOut)
	}
	if out.String() != "1\n3\n" {
		t.Fatalf("output = %q, want %q", out, "1\n3\n")
	}
	if len(p.history) != 4 {
		t.Fatalf("history = %q", p.history)
	}
}

func TestREPLRejectsBadEntries(t *testing.T) {
	s, out, errOut := newTestSession()
	p := &scriptedPrompter{lines: []string{
		"rrr x = 1;",
		"rrr x = 2;",
		"bahubali(z);",
		"bahubali(x);",
	}}
	s.loop(context.Background(), p)

	for _, want := range []string{"variable 'x' is already declared", "variable 'z' is not defined"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("diagnostics missing %q:\n%s", want, errOut)
		}
	}
	// EOF ends the session with a newline.
	if out.String() != "1\n\n" {
		t.Fatalf("output = %q", out)
	}
	if string(s.src) != "rrr x = 1;\nbahubali(x);\n" {
		t.Fatalf("accepted source = %q", s.src)
	}
}

func TestREPLMultiLineEntry(t *testing.T) {
	s, out, errOut := newTestSession()
	p := &scriptedPrompter{lines: []string{
		"rrr x = 5;",
		"magadheera (x > 0) {",
		"  bahubali(\"positive\");",
		"}",
		":quit",
	}}
	s.loop(context.Background(), p)

	if errOut.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", errOut)
	}
	if out.String() != "positive\n" {
		t.Fatalf("output = %q", out)
	}
	if p.history[1] != "magadheera (x > 0) {   bahubali(\"positive\"); }" {
		t.Fatalf("history = %q", p.history)
	}
}

func TestREPLBlankLineEndsIncompleteEntry(t *testing.T) {
	s, _, errOut := newTestSession()
	p := &scriptedPrompter{lines: []string{"rrr x = 1", "", ":quit"}}
	s.loop(context.Background(), p)

	if !strings.Contains(errOut.String(), "expected ';'") {
		t.Fatalf("diagnostics:\n%s", errOut)
	}
	if len(s.src) != 0 {
		t.Fatalf("incomplete entry accepted: %q", s.src)
	}
}

func TestREPLCommands(t *testing.T) {
	s, out, _ := newTestSession()
	p := &scriptedPrompter{lines: []string{
		"rrr x = 1;",
		":src",
		":js",
		":reset",
		":src",
		":bogus",
		":quit",
	}}
	s.loop(context.Background(), p)

	want := "rrr x = 1;\n" +
		"const x = 1;\n" +
		"unknown command :bogus. Type :help for commands.\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestREPLTimeout(t *testing.T) {
	s, _, errOut := newTestSession()
	s.timeout = 50 * time.Millisecond
	p := &scriptedPrompter{lines: []string{"pokiri (1) { rrr y = 1; }", ":quit"}}
	s.loop(context.Background(), p)

	if !strings.Contains(errOut.String(), "interrupted") {
		t.Fatalf("diagnostics:\n%s", errOut)
	}
	if len(s.src) != 0 {
		t.Fatalf("looping entry accepted: %q", s.src)
	}
}

type fakeEvent struct {
	path string
}

func (e fakeEvent) Event() notify.Event { return notify.Write }
func (e fakeEvent) Path() string        { return e.path }
func (e fakeEvent) Sys() interface{}    { return nil }

func TestWatchLoopDebounces(t *testing.T) {
	const target = "/src/main.tfi"
	events := make(chan notify.EventInfo, 4)
	rebuilt := make(chan string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watchLoop(ctx, events, func(p string) bool { return p == target }, 50*time.Millisecond,
			func(p string) { rebuilt <- p })
		close(done)
	}()

	events <- fakeEvent{target}
	events <- fakeEvent{"/src/notes.txt"}
	events <- fakeEvent{target}

	select {
	case p := <-rebuilt:
		if p != target {
			t.Fatalf("rebuilt %s", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild")
	}
	select {
	case p := <-rebuilt:
		t.Fatalf("extra rebuild of %s", p)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestDiagRendersCompilerErrors(t *testing.T) {
	_, err := compiler.Compile("e.tfi", []byte("bahubali();"))
	var buf bytes.Buffer
	newDiagTo(&buf, false).error("e.tfi", err)
	want := "e.tfi: Validation error at 1:1: bahubali() requires at least one argument\n" +
		"  bahubali();\n" +
		"  ^\n" +
		"  suggestion: bahubali(\"Hello, world!\");\n"
	if buf.String() != want {
		t.Fatalf("diag = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	newDiagTo(&buf, true).error("", errors.New("boom"))
	if !strings.Contains(buf.String(), "\x1b[") || !strings.Contains(buf.String(), "error: boom") {
		t.Fatalf("colored diag = %q", buf.String())
	}
}

func writeTempTFIFile(t *testing.T, src string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "input.tfi")
	writeFile(t, filename, src)
	return filename
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
