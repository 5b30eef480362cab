package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/you-not-fish/tfi/internal/server"
)

var serveCommand = cli.Command{
	Action:   serve,
	Name:     "serve",
	Usage:    "Serve the compiler over HTTP",
	Flags:    serveFlags,
	Category: "COMPILER COMMANDS",
	Description: `
Starts a JSON API with POST /compile, POST /run and GET /health. The
server stops gracefully on Ctrl+C.`,
}

func serve(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	srv := server.New(server.Config{
		Addr:        cfg.Serve.Addr,
		CORSOrigins: cfg.Serve.CORSOrigins,
		RunTimeout:  time.Duration(cfg.Run.Timeout),
	})

	sigctx, cancel := signalContext()
	defer cancel()
	fmt.Fprintf(os.Stdout, "Serving on http://%s\n", cfg.Serve.Addr)
	return srv.ListenAndServe(sigctx)
}
