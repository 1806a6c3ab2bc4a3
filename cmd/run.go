package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/fundterm/terminal"
	"github.com/google/subcommands"
)

type runCmd struct {
	plain bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run terminal command lines" }
func (*runCmd) Usage() string {
	return `fundterm run [-plain] <line>[; <line>...]

  Runs terminal command lines in a single session and prints what the terminal
  prints. Lines are separated by ";". Without arguments, lines are read from the
  standard input.

Usage Examples:
$ fundterm run "stats financial"
$ fundterm run "msft; 2023"
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print markdown without rendering it")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var lines []string
	if f.NArg() > 0 {
		lines = splitLines(strings.Join(f.Args(), " "))
	} else {
		var err error
		if lines, err = readLines(os.Stdin); err != nil {
			return fail("reading standard input", err)
		}
	}

	a, err := newApp(ctx)
	if err != nil {
		return fail("opening portfolio", err)
	}
	term := a.terminal()
	defer term.Close()

	p := &printer{w: os.Stdout, term: term, render: renderMarkdown}
	if c.plain {
		p.render = nil
	}
	if err := runLines(ctx, term, lines, p); err != nil {
		return fail("running terminal", err)
	}
	return subcommands.ExitSuccess
}

// splitLines splits s on ";" and drops the blank lines.
func splitLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, ";") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if l := strings.TrimSpace(scanner.Text()); l != "" && !strings.HasPrefix(l, "#") {
			lines = append(lines, l)
		}
	}
	return lines, scanner.Err()
}

// runLines submits lines, printing each echo and response.
func runLines(ctx context.Context, term *terminal.Interpreter, lines []string, p *printer) error {
	for _, line := range lines {
		resp, err := term.Submit(ctx, line)
		if err != nil {
			return err
		}
		fmt.Fprintln(p.w, resp.Echo)
		p.print(resp)
	}
	return nil
}
