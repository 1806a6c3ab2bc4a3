package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders md for the terminal, or returns it unchanged when it
// cannot.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) {
	fmt.Fprint(os.Stdout, renderMarkdown(md))
}
