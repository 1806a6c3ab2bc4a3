package agent

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/terminal"
	"google.golang.org/genai"
)

func newTerminal(t *testing.T) *terminal.Interpreter {
	t.Helper()
	store := fundterm.NewStore()
	err := store.SetTransactions([]fundterm.Transaction{
		{TradeDate: date.New(2023, 1, 3), Security: "AAPL", Quantity: 10, Price: 100, OrderType: fundterm.Buy},
	})
	if err != nil {
		t.Fatal(err)
	}
	return terminal.New(store, terminal.Options{Now: func() date.Date { return date.New(2024, 1, 1) }})
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary([]Function{NewTerminalTool(newTerminal(t))})

	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: "terminal", Args: map[string]any{"line": "stats transactions"}})
	out, _ := resp.Response["output"].(string)
	if !strings.Contains(out, "Transactions: 1 (1 buys, 0 sells)") {
		t.Errorf("terminal output = %q", out)
	}
	if resp.ID != "1" || resp.Name != "terminal" {
		t.Errorf("response = %s/%s, want 1/terminal", resp.ID, resp.Name)
	}

	resp = lib(context.Background(), &genai.FunctionCall{ID: "2", Name: "terminal", Args: map[string]any{"line": 42}})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("invalid argument returned %v, want an error", resp.Response)
	}

	resp = lib(context.Background(), &genai.FunctionCall{ID: "3", Name: "shell"})
	if msg, _ := resp.Response["error"].(string); msg != "unknown function shell" {
		t.Errorf("unknown function error = %q", msg)
	}
}

// fakeChat replays responses.
type fakeChat struct {
	responses []*genai.GenerateContentResponse
	sent      [][]*genai.Part
}

func (c *fakeChat) Send(_ context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error) {
	c.sent = append(c.sent, parts)
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func reply(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}}}
}

func TestExpertRunsFunctionCalls(t *testing.T) {
	analyst, err := NewAnalyst(DefaultModel, newTerminal(t))
	if err != nil {
		t.Fatal(err)
	}
	chat := &fakeChat{responses: []*genai.GenerateContentResponse{
		reply(&genai.Part{FunctionCall: &genai.FunctionCall{ID: "a", Name: "terminal", Args: map[string]any{"line": "label"}}}),
		reply(&genai.Part{Text: "Labels are visible."}),
	}}
	analyst.chat = chat

	content, err := analyst.Ask(context.Background(), &genai.Part{Text: "show labels"})
	if err != nil {
		t.Fatal(err)
	}
	if got := text(content); got != "Labels are visible." {
		t.Errorf("answer = %q", got)
	}
	if len(chat.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(chat.sent))
	}
	fresp := chat.sent[1][0].FunctionResponse
	if fresp == nil || fresp.Response["output"] != "Chart labels are now visible." {
		t.Errorf("function response = %+v", fresp)
	}
}

func TestAgentLoop(t *testing.T) {
	chat := &fakeChat{responses: []*genai.GenerateContentResponse{reply(&genai.Part{Text: "**fine**"})}}
	var out bytes.Buffer
	a := New(&out, strings.NewReader("bye\n"), DefaultModel)
	a.Facilitator.chat = chat
	a.Render = strings.ToUpper

	if err := a.Run(context.Background(), nil, "how is my portfolio?"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "**FINE**") {
		t.Errorf("output = %q", out.String())
	}
	if len(chat.sent) != 1 {
		t.Errorf("sent %d messages, want 1", len(chat.sent))
	}
}

func TestExpertCall(t *testing.T) {
	e := &Expert{Name: "Trader", chat: &fakeChat{responses: []*genai.GenerateContentResponse{reply(&genai.Part{Text: "up 3%"})}}}
	resp := e.Call(context.Background(), "x", map[string]any{"question": "how is AAPL?"})
	if resp.Response["output"] != "up 3%" {
		t.Errorf("Call() = %v", resp.Response)
	}
	resp = e.Call(context.Background(), "y", map[string]any{})
	if _, ok := resp.Response["error"]; !ok {
		t.Errorf("Call() without question = %v, want an error", resp.Response)
	}
}
