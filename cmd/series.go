package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/fundterm/renderer"
	"github.com/etnz/fundterm/session"
	"github.com/etnz/fundterm/terminal"
	"github.com/google/subcommands"
)

type seriesCmd struct {
	format string
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "print the series of a chart" }
func (*seriesCmd) Usage() string {
	return `fundterm series [-format tsv|json|md] <chart> [<date range>]

  Prints the visible lines of a chart, as drawn by "plot <chart> <date range>"
  in the terminal.

Usage Examples:
$ fundterm series performance 2023
$ fundterm series -format json drawdown-abs from 2022
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "tsv", "output format: tsv, json or md")
}

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing chart name, one of", strings.Join(terminal.PlotSubcommands, ", "))
		return subcommands.ExitUsageError
	}
	a, err := newApp(ctx)
	if err != nil {
		return fail("opening portfolio", err)
	}
	term := a.terminal()
	defer term.Close()

	if err := printSeries(ctx, os.Stdout, term, c.format, f.Args()); err != nil {
		return fail("building series", err)
	}
	return subcommands.ExitSuccess
}

// printSeries plots args and prints the chart in format.
func printSeries(ctx context.Context, w io.Writer, term *terminal.Interpreter, format string, args []string) error {
	resp, err := term.Submit(ctx, "plot "+strings.Join(args, " "))
	if err != nil {
		return err
	}
	if resp.State.ActiveChart == session.NoChart {
		return fmt.Errorf("%s", resp.Message)
	}
	ch, err := term.Chart()
	if err != nil {
		return err
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ch)
	case "md":
		_, err = fmt.Fprint(w, renderer.Chart(ch))
	case "tsv":
		_, err = fmt.Fprint(w, renderer.Points(ch))
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	return err
}
