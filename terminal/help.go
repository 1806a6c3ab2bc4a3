package terminal

import (
	"strings"

	"github.com/etnz/fundterm/docs"
)

const helpText = `Available commands:
  stats (s)          - Text reports: transactions, holdings, financial, technical, duration,
                       lifespan, concentration, cagr, return
  plot (p)           - Charts: balance, performance, rolling, drawdown, composition, sectors,
                       geography, marketcap, concentration, fx
  transaction (t)    - Toggle the transaction table, or filter it
  label (l)          - Toggle chart labels
  summary            - Summary of the active chart
  abs, per           - Switch the active chart between absolute and percentage views
  all, alltime       - Clear filters and date ranges, or date ranges only
  allstock           - Clear the composition narrowing
  reset, clear       - Hide every view, and clear the screen
  zoom (z)           - Toggle the zoomed terminal
  help (h) [topic]   - This message, or a help topic

Press Tab to complete commands, Up and Down to recall previous lines.
Any other input filters the transaction table. Date ranges like 2023, 2023q1, f:2022 or
2021 to 2023 apply to the visible chart or table.`

// HelpTopics are the completions of "help".
func HelpTopics() []string { return docs.Names() }

func helpCommand(c *call) {
	if len(c.args) == 0 {
		c.say("%s", helpText)
		topics, err := docs.List()
		if err != nil {
			c.i.logger.Error().Err(err).Msg("list help topics")
			return
		}
		var sb strings.Builder
		sb.WriteString("\nHelp topics:")
		for _, t := range topics {
			sb.WriteString("\n  " + t.Name + " - " + t.Title)
		}
		c.say("%s", sb.String())
		return
	}
	topic := strings.ToLower(c.args[0])
	content, err := docs.Get(topic)
	if err != nil {
		c.refuse("Unknown help subcommand: %s\nAvailable: %s", topic, strings.Join(HelpTopics(), ", "))
		return
	}
	c.sayText(content)
}
