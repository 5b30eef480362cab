// Command tfic compiles TFI programs to JavaScript.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/inconshreveable/log15"
	"github.com/mattn/go-colorable"
	"gopkg.in/urfave/cli.v1"
)

// Version information
const Version = "0.1.0-dev"

// errReported is returned by commands that already printed their
// diagnostics, so only the exit status is left to set.
var errReported = errors.New("errors reported")

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug",
		Value: int(log15.LvlWarn),
	}
)

func main() {
	os.Exit(run(os.Args))
}

// run executes the command line args and returns the exit status.
func run(args []string) int {
	app := newApp()
	if err := app.Run(args); err != nil {
		if err != errReported {
			fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		}
		return 1
	}
	return 0
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "tfic"
	app.Usage = "the TFI to JavaScript compiler"
	app.Version = fmt.Sprintf("%s (%s)", Version, runtime.Version())
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	app.Flags = append([]cli.Flag{configFileFlag, verbosityFlag}, buildCommand.Flags...)
	app.Commands = []cli.Command{
		buildCommand,
		runCommand,
		tokensCommand,
		astCommand,
		statsCommand,
		replCommand,
		watchCommand,
		serveCommand,
		dumpConfigCommand,
	}
	app.Before = setupLogging
	app.ArgsUsage = "<file.tfi>..."
	app.Action = func(ctx *cli.Context) error {
		if ctx.NArg() == 0 {
			return cli.ShowAppHelp(ctx)
		}
		return build(ctx)
	}
	return app
}

// setupLogging installs the root log handler. Log output goes to stderr so
// it never mixes with generated code or program output.
func setupLogging(ctx *cli.Context) error {
	lvl := log15.Lvl(ctx.GlobalInt(verbosityFlag.Name))
	handler := log15.StreamHandler(colorable.NewColorableStderr(), log15.TerminalFormat())
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, handler))
	return nil
}

// signalContext returns a context canceled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
