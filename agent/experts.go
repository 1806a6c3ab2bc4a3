package agent

import (
	"context"
	"fmt"

	"github.com/etnz/fundterm/docs"
	"github.com/etnz/fundterm/terminal"
	"google.golang.org/genai"
)

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// newFacilitator creates the expert talking to the user.
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			The user assumes that you know the tickers of the portfolio: ask the Analyst first.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of the financial products and institutions,
		and of the latest news about funds and companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You leverage Google Search to
			ground your assertions in a solid truth.
		`),
		},
	}
}

// NewAnalyst returns the expert of the portfolio. It reads the ledger through the
// terminal, whose help topics are its instructions.
func NewAnalyst(model string, term *terminal.Interpreter) (*Expert, error) {
	manual, err := docs.Get("*")
	if err != nil {
		return nil, fmt.Errorf("load terminal help: %w", err)
	}
	lib := []Function{NewTerminalTool(term)}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It reads the user's ledger of transactions and
		computes the figures of the portfolio: holdings, contributions, performance, drawdown,
		composition and concentration.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are the analyst of the user's portfolio. You answer with figures obtained by
			typing lines in the portfolio terminal with the "terminal" tool: use "stats" reports
			for figures and "plot" or "summary" for the chart summaries.
			The manual of the terminal follows.

			` + manual),
		},
		Library: NewLibrary(lib),
	}, nil
}

// TerminalTool submits lines to a terminal.
type TerminalTool struct {
	term *terminal.Interpreter
}

// NewTerminalTool returns the "terminal" function of term.
func NewTerminalTool(term *terminal.Interpreter) *TerminalTool {
	return &TerminalTool{term: term}
}

func (t *TerminalTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "terminal",
		Description: "Submits a line to the portfolio terminal, exactly as the user would type it, and returns the printed message.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"line": {
					Type:        genai.TypeString,
					Description: `The command line, like "stats financial", "plot performance 2023" or "msft".`,
				},
			},
			Required: []string{"line"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "The message printed by the terminal.",
		},
	}
}

func (t *TerminalTool) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	line, ok := args["line"].(string)
	if !ok {
		return errorResponse(id, "terminal", fmt.Errorf("argument 'line' is not a string as expected but %T", args["line"]))
	}
	resp, err := t.term.Submit(ctx, line)
	if err != nil {
		return errorResponse(id, "terminal", err)
	}
	return &genai.FunctionResponse{ID: id, Name: "terminal", Response: map[string]any{"output": resp.Message}}
}
