package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/etnz/fundterm/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the terminal over HTTP" }
func (*serveCmd) Usage() string {
	return `fundterm serve [-addr host:port]

  Serves the terminal, its charts and the crosshair to the dashboard. The
  address and the allowed origins come from the [server] configuration.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides the configuration")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return fail("opening portfolio", err)
	}
	term := a.terminal()
	defer term.Close()

	addr := c.addr
	if addr == "" {
		addr = a.config.Server.Addr()
	}
	srv := server.New(term, server.Options{
		AllowedOrigins: a.config.Server.AllowedOrigins,
		Loader:         a.loader,
		Logger:         a.logger,
	})
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fail("serving", err)
	}
	return subcommands.ExitSuccess
}
