package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/you-not-fish/tfi/internal/compiler"
	"github.com/you-not-fish/tfi/internal/syntax"
)

var (
	tokensCommand = cli.Command{
		Action:    dumpTokens,
		Name:      "tokens",
		Usage:     "Print the token stream of a TFI file",
		ArgsUsage: "<file.tfi>",
		Category:  "INSPECTION COMMANDS",
	}
	astCommand = cli.Command{
		Action:    dumpAST,
		Name:      "ast",
		Usage:     "Print the syntax tree of a TFI file",
		ArgsUsage: "<file.tfi>",
		Flags:     []cli.Flag{astFormatFlag},
		Category:  "INSPECTION COMMANDS",
		Description: `
The tree is printed before validation, so programs with semantic errors can
still be inspected. --format selects text, json or spew output.`,
	}
	statsCommand = cli.Command{
		Action:    dumpStats,
		Name:      "stats",
		Usage:     "Print statement statistics of a TFI file",
		ArgsUsage: "<file.tfi>",
		Category:  "INSPECTION COMMANDS",
	}
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

// readSource reads the single file argument of an inspection command.
func readSource(ctx *cli.Context) (string, []byte, error) {
	if ctx.NArg() != 1 {
		return "", nil, fmt.Errorf("%s expects exactly one input file", ctx.Command.Name)
	}
	name := ctx.Args().First()
	src, err := os.ReadFile(name)
	return name, src, err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}

func dumpTokens(ctx *cli.Context) error {
	name, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	items, err := compiler.Tokenize(name, src)
	if err != nil {
		newDiag().error(name, err)
		return errReported
	}

	table := newTable(os.Stdout, "POSITION", "TOKEN", "CATEGORY", "LITERAL")
	for _, it := range items {
		var lit string
		switch it.Tok.Category() {
		case "identifier", "number", "string":
			lit = it.String()
		}
		pos := fmt.Sprintf("%d:%d", it.Pos.Line(), it.Pos.Col())
		table.Append([]string{pos, it.Tok.String(), it.Tok.Category(), lit})
	}
	table.Render()
	return nil
}

func dumpAST(ctx *cli.Context) error {
	name, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	f, err := compiler.Parse(name, src)
	if err != nil {
		newDiag().error(name, err)
		return errReported
	}

	switch format := ctx.String(astFormatFlag.Name); format {
	case "text":
		syntax.Fprint(os.Stdout, f)
	case "json":
		return syntax.FprintJSON(os.Stdout, f)
	case "spew":
		spewConfig.Fdump(os.Stdout, f)
	default:
		return fmt.Errorf("unknown AST format %q", format)
	}
	return nil
}

func dumpStats(ctx *cli.Context) error {
	name, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	stats, err := compiler.CollectStats(name, src)
	if err != nil {
		newDiag().error(name, err)
		return errReported
	}

	table := newTable(os.Stdout, "KIND", "COUNT")
	for _, row := range []struct {
		kind string
		n    int
	}{
		{"print", stats.PrintStatements},
		{"const", stats.ConstDeclarations},
		{"let", stats.LetDeclarations},
		{"if", stats.IfStatements},
		{"while", stats.WhileLoops},
		{"for", stats.ForLoops},
	} {
		table.Append([]string{row.kind, strconv.Itoa(row.n)})
	}
	table.Render()
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, stats.Summary())
	return nil
}
