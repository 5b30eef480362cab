package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/you-not-fish/tfi/internal/compiler"
)

const sourceExt = ".tfi"

var buildCommand = cli.Command{
	Action:    build,
	Name:      "build",
	Usage:     "Compile TFI files to JavaScript",
	ArgsUsage: "<file.tfi>...",
	Flags:     append([]cli.Flag{outputFlag, statsFlag}, compilerFlags...),
	Category:  "COMPILER COMMANDS",
	Description: `
Each input is compiled to a .js file next to it. With a single input,
--output names the destination; "-" writes the code to stdout.`,
}

// unit is one input file of a build.
type unit struct {
	in, out string
	res     *compiler.Result
	err     error
}

func build(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no input files")
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	units, err := buildUnits(ctx.Args(), ctx.String("output"))
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, u := range units {
		u := u
		g.Go(func() error {
			u.res, u.err = compileFile(u.in, cfg.Compiler)
			return nil
		})
	}
	g.Wait()

	d := newDiag()
	failed := false
	for _, u := range units {
		if !u.finish(d, ctx.Bool(statsFlag.Name)) {
			failed = true
		}
	}
	if failed {
		return errReported
	}
	return nil
}

// finish reports the outcome of u and writes its code. It returns false if
// the unit failed.
func (u *unit) finish(d *diag, stats bool) bool {
	if u.err != nil {
		d.error(u.in, u.err)
		return false
	}
	d.warnings(u.in, u.res)
	if err := writeOutput(u.out, u.res.Code); err != nil {
		d.error(u.in, err)
		return false
	}
	if u.out != "-" {
		fmt.Fprintf(os.Stdout, "%s -> %s\n", u.in, u.out)
	}
	if stats {
		fmt.Fprintln(os.Stdout, u.res.Stats.Summary())
	}
	return true
}

func buildUnits(args []string, output string) ([]*unit, error) {
	if output != "" && len(args) > 1 {
		return nil, errors.New("--output requires a single input file")
	}
	units := make([]*unit, len(args))
	for i, in := range args {
		if err := checkSourceName(in); err != nil {
			return nil, err
		}
		out := output
		if out == "" {
			out = strings.TrimSuffix(in, sourceExt) + ".js"
		}
		units[i] = &unit{in: in, out: out}
	}
	return units, nil
}

func checkSourceName(name string) error {
	if filepath.Ext(name) != sourceExt {
		return fmt.Errorf("%s: not a %s file", name, sourceExt)
	}
	return nil
}

func compileFile(name string, opts compiler.Options) (*compiler.Result, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return compiler.CompileWithOptions(name, src, opts)
}

func writeOutput(name, code string) error {
	if code != "" && !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	if name == "-" {
		_, err := os.Stdout.WriteString(code)
		return err
	}
	return os.WriteFile(name, []byte(code), 0o644)
}
