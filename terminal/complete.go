package terminal

import (
	"slices"
	"strings"
)

// StatsSubcommands are the completions of "stats".
var StatsSubcommands = []string{
	"transactions", "holdings", "financial", "technical", "duration",
	"lifespan", "concentration", "cagr", "return",
}

// Completer completes terminal input with command aliases and subcommands.
//
// Calling Complete again on its own output cycles through the suggestions of the
// original input.
type Completer struct {
	aliases []string
	subs    map[string]func() []string

	prefix  string   // lower-cased input that produced matches
	matches []string // suggestions for prefix
	index   int      // current suggestion
	last    string   // trimmed output of the last completion
}

// NewCompleter returns a Completer of the terminal commands.
func NewCompleter() *Completer {
	stats := func() []string { return StatsSubcommands }
	plot := func() []string { return PlotSubcommands }
	return &Completer{
		aliases: slices.Compact(Aliases()),
		subs: map[string]func() []string{
			"stats": stats, "s": stats,
			"plot": plot, "p": plot,
			"help": HelpTopics, "h": HelpTopics,
		},
		index: -1,
	}
}

// Reset forgets the suggestions.
func (c *Completer) Reset() {
	c.prefix, c.matches, c.index, c.last = "", nil, -1, ""
}

// Complete returns input completed with the next suggestion, or input unchanged
// when nothing matches.
func (c *Completer) Complete(input string) string {
	trimmed := strings.TrimSpace(input)
	search := strings.ToLower(trimmed)
	if search == "" || strings.Contains(search, ":") {
		c.Reset()
		return input
	}
	if c.last != "" && trimmed == c.last {
		// completing our own output: keep cycling the same suggestions
		search = c.prefix
	}

	head, tail, hasSpace := strings.Cut(search, " ")
	var matches []string
	switch {
	case !hasSpace:
		for _, a := range c.aliases {
			if strings.HasPrefix(a, search) && !slices.Contains(matches, a) {
				matches = append(matches, a)
			}
		}
	case c.subs[head] != nil:
		sub := strings.TrimSpace(tail)
		plot := head == "plot" || head == "p"
		if plot {
			// hyphen insensitive: "market cap" matches "marketcap"
			sub = strings.Join(strings.Fields(strings.ReplaceAll(sub, "-", " ")), "")
		}
		for _, s := range c.subs[head]() {
			candidate := s
			if plot {
				candidate = strings.ReplaceAll(s, "-", "")
			}
			if strings.HasPrefix(candidate, sub) {
				matches = append(matches, s)
			}
		}
	}
	if len(matches) == 0 {
		c.Reset()
		return input
	}

	if c.prefix == search && slices.Equal(c.matches, matches) {
		c.index = (c.index + 1) % len(matches)
	} else {
		c.prefix, c.matches, c.index = search, matches, 0
	}

	completed := c.matches[c.index]
	if hasSpace {
		// keep the alias actually typed
		alias, _, _ := strings.Cut(trimmed, " ")
		completed = alias + " " + completed
	}
	c.last = completed
	if len(matches) == 1 {
		completed += " "
	}
	return completed
}
