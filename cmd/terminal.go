package cmd

import (
	"bufio"
	"context"
	"errors"
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

type terminalCmd struct {
	plain bool
}

func (*terminalCmd) Name() string     { return "terminal" }
func (*terminalCmd) Synopsis() string { return "start the interactive portfolio terminal" }
func (*terminalCmd) Usage() string {
	return `fundterm terminal [-plain]

  Starts the portfolio terminal. Type "help" for the list of commands, "exit" to quit.
  A line ending with a tab character is completed instead of being executed.
`
}

func (c *terminalCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print markdown without rendering it")
}

func (c *terminalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := repl(ctx, term, os.Stdin, p); err != nil {
		return fail("running terminal", err)
	}
	return subcommands.ExitSuccess
}

const terminalPrompt = "fundterm> "

// repl reads lines from r until "exit" or the end of input.
func repl(ctx context.Context, term *terminal.Interpreter, r io.Reader, p *printer) error {
	fmt.Fprintln(p.w, `Welcome to fundterm. Type "help" for commands, "exit" to quit.`)
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(p.w, terminalPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(p.w)
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.HasSuffix(line, "\t") {
			fmt.Fprintln(p.w, term.Complete(strings.TrimSuffix(line, "\t")))
			continue
		}
		switch strings.TrimSpace(line) {
		case "exit", "quit":
			return nil
		case "":
			continue
		}
		resp, err := term.Submit(ctx, line)
		if errors.Is(err, terminal.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		p.print(resp)
	}
}

// printer prints terminal responses.
type printer struct {
	w    io.Writer
	term *terminal.Interpreter
	// render renders markdown, nil prints it as is.
	render func(string) string
}

func (p *printer) markdown(md string) {
	if p.render != nil {
		md = p.render(md)
	}
	fmt.Fprint(p.w, md)
}

// print prints the message of resp, then the table when it changed.
func (p *printer) print(resp terminal.Response) {
	if resp.Message != "" {
		if isHelp(resp.Echo) {
			p.markdown(resp.Message + "\n")
		} else {
			fmt.Fprintln(p.w, resp.Message)
		}
	}
	s := resp.State
	if !resp.Redraw || s == nil || !s.TableVisible || s.ActiveChart != session.NoChart {
		return
	}
	pipeline := p.term.Pipeline()
	table := renderer.NewTransactionTable(pipeline.Table(s), s.TableDateRange, pipeline.Fx(), s.Currency())
	p.markdown(renderer.Transactions(table))
}

func isHelp(line string) bool {
	line = strings.TrimSpace(strings.TrimPrefix(line, ">"))
	head, _, _ := strings.Cut(line, " ")
	head = strings.ToLower(head)
	return head == "help" || head == "h"
}
