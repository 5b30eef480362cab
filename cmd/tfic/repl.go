package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"

	"github.com/you-not-fish/tfi/internal/compiler"
	"github.com/you-not-fish/tfi/internal/jsrun"
	"github.com/you-not-fish/tfi/internal/syntax"
)

const (
	historyFile = ".tfi_history"
	replFile    = "<repl>"
	promptMain  = "tfi> "
	promptCont  = "...  "

	replHelp = `Commands:
  :help    Show this message
  :src     Print the accepted program
  :js      Print the JavaScript of the accepted program
  :reset   Forget the accepted program
  :quit    Exit the REPL`
)

var replCommand = cli.Command{
	Action:   repl,
	Name:     "repl",
	Usage:    "Start an interactive session",
	Flags:    []cli.Flag{timeoutFlag},
	Category: "COMPILER COMMANDS",
	Description: `
Each entry is appended to the program so far, which is then compiled and
run again; only the new output is shown. Entries that fail to compile or
run are discarded.`,
}

// prompter reads input lines. It is implemented by *liner.State.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// session is the program accepted so far by a REPL.
type session struct {
	src     []byte
	code    string
	printed int // bytes of program output already shown

	timeout time.Duration
	out     io.Writer
	diag    *diag
}

func repl(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "TFI %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	s := &session{
		timeout: time.Duration(cfg.Run.Timeout),
		out:     os.Stdout,
		diag:    newDiag(),
	}
	sigctx, cancel := signalContext()
	defer cancel()
	s.loop(sigctx, ln)
	return nil
}

// loop reads and evaluates entries until p reports EOF, ctx is done or
// :quit is entered.
func (s *session) loop(ctx context.Context, p prompter) {
	for ctx.Err() == nil {
		entry, ok := readEntry(p)
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.HasPrefix(entry, ":") {
			if !s.command(entry) {
				return
			}
			continue
		}
		if err := s.eval(ctx, entry); err != nil {
			s.diag.error("", err)
			continue
		}
		p.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
	}
}

// command runs a REPL command and reports whether the session goes on.
func (s *session) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	case ":src":
		fmt.Fprint(s.out, string(s.src))
	case ":js":
		if s.code != "" {
			fmt.Fprintln(s.out, s.code)
		}
	case ":reset":
		*s = session{timeout: s.timeout, out: s.out, diag: s.diag}
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return true
}

// eval compiles and runs the accepted program extended by entry. On
// success the entry is accepted and the output it produced is shown.
func (s *session) eval(ctx context.Context, entry string) error {
	src := make([]byte, 0, len(s.src)+len(entry)+1)
	src = append(append(src, s.src...), entry...)
	src = append(src, '\n')

	code, err := compiler.Compile(replFile, src)
	if err != nil {
		return err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	out, err := jsrun.Output(ctx, code)
	if err != nil {
		return err
	}
	if len(out) >= s.printed {
		io.WriteString(s.out, out[s.printed:])
	}
	s.src, s.code, s.printed = src, code, len(out)
	return nil
}

// readEntry reads lines until they form a complete entry. A blank line
// ends an incomplete entry early so its error can be reported.
func readEntry(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			b.Reset()
			continue
		case err != nil:
			return "", false
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := syntax.Parse(replFile, []byte(src)); syntax.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}
