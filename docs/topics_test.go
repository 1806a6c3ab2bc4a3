package docs_test

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/docs"
	"github.com/etnz/fundterm/terminal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const terminalCheck = "terminal check"

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := docs.Get(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".md")
		if name == "readme" {
			continue
		}
		found := false
		for _, topic := range topicsInReadme {
			if topic == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in docs/readme.md", name)
		}
	}
	if got, want := len(docs.Names()), len(files)-1; got != want {
		t.Errorf("Names() returned %d topics, want %d", got, want)
	}
}

func TestList(t *testing.T) {
	topics, err := docs.List()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range topics {
		if topic.Title == "" || topic.Summary == "" {
			t.Errorf("topic %q has no title or summary: %+v", topic.Name, topic)
		}
	}
	all, err := docs.Get("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range topics {
		if !strings.Contains(all, "# "+topic.Title) {
			t.Errorf("Get(\"*\") misses topic %q", topic.Name)
		}
	}
	if _, err := docs.Get("nope"); err == nil {
		t.Error("Get(\"nope\") returned no error")
	}
}

// TestTerminalBlocks runs the "terminal check" blocks of every topic. Lines starting
// with "> " are submitted, the lines that follow must start the response message.
func TestTerminalBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, block := range parseMarkdown(t, file) {
				runBlock(t, block)
			}
		})
	}
}

// Block is a fenced code block of a markdown file.
type Block struct {
	Content string
	File    string
	Line    int
}

// parseMarkdown returns the "terminal check" blocks of file.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil || string(fcb.Info.Segment.Value(content)) != terminalCheck {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Content: b.String(),
			File:    file,
			Line:    bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

func newTerminal(t *testing.T) *terminal.Interpreter {
	t.Helper()
	store := fundterm.NewStore()
	err := store.SetTransactions([]fundterm.Transaction{
		{ID: 0, TradeDate: date.New(2023, 1, 3), Security: "AAPL", Quantity: 10, Price: 100, OrderType: fundterm.Buy},
		{ID: 1, TradeDate: date.New(2023, 9, 1), Security: "VOO", Quantity: 2, Price: 400, OrderType: fundterm.Buy},
	})
	if err != nil {
		t.Fatal(err)
	}
	return terminal.New(store, terminal.Options{Now: func() date.Date { return date.New(2024, 6, 1) }})
}

// runBlock submits the lines of a block on a fresh terminal.
func runBlock(t *testing.T, block *Block) {
	t.Helper()
	term := newTerminal(t)
	var input string
	var want []string
	check := func() {
		if input == "" {
			return
		}
		resp, err := term.Submit(context.Background(), input)
		if err != nil {
			t.Fatalf("%s:%d: submit %q: %v", block.File, block.Line, input, err)
		}
		got := strings.Split(resp.Message, "\n")
		if len(got) < len(want) || strings.Join(got[:len(want)], "\n") != strings.Join(want, "\n") {
			t.Errorf("%s:%d: output mismatch for %q:\ngot:\n\n%s\n\nwant:\n\n%s\n", block.File, block.Line, input, resp.Message, strings.Join(want, "\n"))
		}
	}
	for _, line := range strings.Split(strings.TrimRight(block.Content, "\n"), "\n") {
		if cmd, ok := strings.CutPrefix(line, "> "); ok {
			check()
			input, want = cmd, nil
			continue
		}
		want = append(want, line)
	}
	check()
}
