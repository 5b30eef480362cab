package main

import (
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/you-not-fish/tfi/internal/compiler"
)

var (
	formatFlag = cli.BoolFlag{
		Name:  "format",
		Usage: "Indent the generated code by brace depth",
	}
	commentsFlag = cli.BoolFlag{
		Name:  "comments",
		Usage: "Annotate the generated code with the source lines",
	}
	minifyFlag = cli.BoolFlag{
		Name:  "minify",
		Usage: "Strip line breaks and indentation from the generated code",
	}
	strictFlag = cli.BoolFlag{
		Name:  "strict",
		Usage: `Prepend a "use strict" directive`,
	}
	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "Output file (single input only; default <name>.js)",
	}
	statsFlag = cli.BoolFlag{
		Name:  "stats",
		Usage: "Print compilation statistics",
	}
	timeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Usage: "Stop a running program after this long (0 disables the limit)",
		Value: 5 * time.Second,
	}
	addrFlag = cli.StringFlag{
		Name:  "addr",
		Usage: "HTTP listen address",
		Value: "localhost:8547",
	}
	corsFlag = cli.StringSliceFlag{
		Name:  "cors",
		Usage: "Allowed CORS origin (repeatable)",
	}
	astFormatFlag = cli.StringFlag{
		Name:  "format",
		Usage: "AST output format (text, json or spew)",
		Value: "text",
	}

	compilerFlags = []cli.Flag{formatFlag, commentsFlag, minifyFlag, strictFlag}
	serveFlags    = []cli.Flag{addrFlag, corsFlag, timeoutFlag}
)

// setCompilerOptions turns on the options whose flags are given.
func setCompilerOptions(ctx *cli.Context, opts *compiler.Options) {
	if ctx.Bool(formatFlag.Name) {
		opts.FormatOutput = true
	}
	if ctx.Bool(commentsFlag.Name) {
		opts.AddComments = true
	}
	if ctx.Bool(minifyFlag.Name) {
		opts.MinifyOutput = true
	}
	if ctx.Bool(strictFlag.Name) {
		opts.StrictMode = true
	}
}
