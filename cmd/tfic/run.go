package main

import (
	"context"
	"errors"
	"os"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/you-not-fish/tfi/internal/jsrun"
)

var runCommand = cli.Command{
	Action:    runFile,
	Name:      "run",
	Usage:     "Compile a TFI file and execute it",
	ArgsUsage: "<file.tfi>",
	Flags:     append([]cli.Flag{timeoutFlag}, compilerFlags...),
	Category:  "COMPILER COMMANDS",
	Description: `
The program runs in an embedded JavaScript interpreter; console.log output
goes to stdout. Interrupting tfic or exceeding --timeout stops the program.`,
}

func runFile(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("run expects exactly one input file")
	}
	in := ctx.Args().First()
	if err := checkSourceName(in); err != nil {
		return err
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	d := newDiag()
	res, err := compileFile(in, cfg.Compiler)
	if err != nil {
		d.error(in, err)
		return errReported
	}
	d.warnings(in, res)

	runCtx, cancel := signalContext()
	defer cancel()
	if t := time.Duration(cfg.Run.Timeout); t > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, t)
		defer cancel()
	}
	if err := jsrun.Run(runCtx, res.Code, os.Stdout); err != nil {
		d.error(in, err)
		return errReported
	}
	return nil
}
