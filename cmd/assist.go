package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fundterm/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct {
	model string
}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `fundterm assist [-model <name>] [<question>]

  Start an interactive session with the AI assistant. It reads the portfolio
  through the terminal. The Gemini client is configured by the environment
  (GEMINI_API_KEY or GOOGLE_API_KEY).
`
}

// SetFlags sets the flags for the command.
func (c *AssistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "Gemini model, overrides the configuration")
}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	a, err := newApp(ctx)
	if err != nil {
		return fail("opening portfolio", err)
	}
	term := a.terminal()
	defer term.Close()

	model := c.model
	if model == "" {
		model = a.config.Assist.Model
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	analyst, err := agent.NewAnalyst(model, term)
	if err != nil {
		return fail("creating analyst", err)
	}
	trader := agent.NewTrader(model)
	assistant := agent.New(os.Stdout, os.Stdin, model, trader, analyst)
	assistant.Render = renderMarkdown
	for _, e := range append(assistant.Experts, assistant.Facilitator) {
		e.Logger = a.logger
	}

	if err := assistant.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
