// Package jsrun executes generated JavaScript in an embedded goja runtime.
//
// The runtime exposes a single global, console, whose log method prints
// its arguments separated by spaces, the way Node does for primitives.
package jsrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"
	"github.com/inconshreveable/log15"
)

var logger = log15.New("module", "jsrun")

// The log15 root handler writes to stdout until a program installs its
// own, which would mix log lines into generated code and program output.
func init() {
	log15.Root().SetHandler(log15.DiscardHandler())
}

// Run executes code, writing console output to stdout. The script is
// interrupted when ctx is done, in which case the returned error wraps
// ctx.Err().
func Run(ctx context.Context, code string, stdout io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	vm := goja.New()
	c := &console{w: stdout}
	con := vm.NewObject()
	con.Set("log", c.log)
	vm.Set("console", con)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	_, err := vm.RunString(code)
	var ierr *goja.InterruptedError
	switch {
	case errors.As(err, &ierr):
		logger.Debug("Script interrupted", "reason", ierr.Value())
		return fmt.Errorf("script interrupted: %w", ctx.Err())
	case err != nil:
		return fmt.Errorf("script failed: %w", err)
	}
	return c.err
}

// Output runs code and returns what it printed.
func Output(ctx context.Context, code string) (string, error) {
	var buf strings.Builder
	err := Run(ctx, code, &buf)
	return buf.String(), err
}

type console struct {
	w   io.Writer
	err error // first write error
}

func (c *console) log(call goja.FunctionCall) goja.Value {
	if c.err != nil {
		return goja.Undefined()
	}
	args := make([]string, len(call.Arguments))
	for i, v := range call.Arguments {
		args[i] = v.String()
	}
	_, c.err = fmt.Fprintln(c.w, strings.Join(args, " "))
	return goja.Undefined()
}
