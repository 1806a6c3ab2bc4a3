package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/fundterm/chart"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/session"
)

// call is the execution of one submitted line.
type call struct {
	i    *Interpreter
	ctx  context.Context
	st   *session.State // working copy, committed unless refused
	line string
	args []string

	lines       []string
	redraw      bool
	refused     bool
	clearOutput bool
}

// say appends a message line.
func (c *call) say(format string, a ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, a...))
}

// sayText appends a possibly multi-line text, ignoring empty text.
func (c *call) sayText(text string) {
	if text = strings.TrimRight(text, "\n"); text != "" {
		c.lines = append(c.lines, text)
	}
}

// refuse reports a message and drops every change of the call.
func (c *call) refuse(format string, a ...any) {
	c.refused = true
	c.lines = []string{fmt.Sprintf(format, a...)}
}

func (c *call) message() string { return strings.Join(c.lines, "\n") }

type handler func(c *call)

type command struct {
	aliases []string
	run     handler
}

// commands lists the commands in the order of the completion list.
var commands = []command{
	{[]string{"help", "h"}, helpCommand},
	{[]string{"plot", "p"}, plotCommand},
	{[]string{"stats", "s"}, statsCommand},
	{[]string{"label", "l"}, labelCommand},
	{[]string{"transaction", "t"}, transactionCommand},
	{[]string{"summary"}, summaryCommand},
	{[]string{"all"}, allCommand},
	{[]string{"alltime"}, allTimeCommand},
	{[]string{"allstock"}, allStockCommand},
	{[]string{"reset"}, resetCommand},
	{[]string{"clear"}, clearCommand},
	{[]string{"zoom", "z"}, zoomCommand},
	{[]string{"abs", "absolute", "a"}, absCommand},
	{[]string{"percentage", "percent", "per"}, percentCommand},
	{[]string{"rolling"}, rollingCommand},
	{[]string{"cumulative"}, cumulativeCommand},
	{[]string{"composition"}, switchComposition(session.Composition)},
	{[]string{"sectors"}, switchComposition(session.Sectors)},
	{[]string{"geography"}, switchComposition(session.Geography)},
	{[]string{"marketcap"}, switchComposition(session.MarketCap)},
	{[]string{"concentration"}, concentrationCommand},
}

var handlers = map[string]handler{}

// Aliases returns every command name and alias, in completion order.
func Aliases() []string {
	var res []string
	for _, cmd := range commands {
		res = append(res, cmd.aliases...)
	}
	return res
}

func init() {
	for _, cmd := range commands {
		for _, a := range cmd.aliases {
			handlers[a] = cmd.run
		}
	}
}

// dispatch executes the line of c: a date range, a command, or a ledger search.
func (i *Interpreter) dispatch(c *call) {
	tokens := strings.Fields(c.line)
	if rng, ok := i.resolver.Resolve(tokens); ok {
		applyRange(c, rng)
		return
	}
	if run, ok := handlers[strings.ToLower(tokens[0])]; ok {
		c.args = tokens[1:]
		run(c)
		return
	}
	search(c, c.line)
}

// applyRange applies a date range to the visible chart, else to the visible table.
func applyRange(c *call, rng date.Range) {
	st := c.st
	switch {
	case st.ActiveChart != session.NoChart:
		st.ChartDateRange = rng
		c.redraw = true
		c.say("Applied date filter %s to %s chart.", rng, st.ActiveChart.Name())
		c.sayText(c.chartSummary())
	case st.TableVisible:
		st.TableDateRange = rng
		c.redraw = true
		c.say("Applied date filter %s to transactions table.", rng)
		c.sayText(c.tableStats())
	default:
		c.refuse(`Transaction table is hidden. Use the "transaction" command to show it before applying date filters.`)
	}
}

// chartSummary returns the summary of the active chart of the working state.
func (c *call) chartSummary() string {
	ch, err := c.i.pipeline.Build(c.st)
	if err != nil {
		c.i.logger.Debug().Err(err).Msg("chart summary")
		return err.Error()
	}
	return chart.Summary(ch)
}

// tableStats returns the short statistics of the transaction table.
func (c *call) tableStats() string {
	rows := c.i.pipeline.Table(c.st)
	return transactionsReport(c.i.convert(rows, c.st.Currency()), c.i.store.Splits(), c.st.Currency())
}

// search adds a ledger search.
func search(c *call, text string) {
	st := c.st
	st.Filters = append(st.Filters, text)
	q := st.Query()
	known := map[string]bool{}
	for _, s := range c.i.store.Securities() {
		known[s] = true
	}
	var tickers []string
	for _, t := range q.Tickers() {
		if known[t] {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) > 0 {
		st.CompositionFilterTickers = tickers
	}
	if q.AssetClass != "" {
		st.CompositionAssetClassFilter = q.AssetClass
	}
	c.redraw = true
	rows := c.i.pipeline.Table(st)
	c.say("Filtering transactions by: %q (%d transactions).", strings.Join(st.Filters, " "), len(rows))
	if st.TableVisible {
		c.sayText(c.tableStats())
	} else {
		c.sayText(c.chartSummary())
	}
}

func transactionCommand(c *call) {
	st := c.st
	st.Zoomed = false
	if len(c.args) == 0 {
		st.TableVisible = !st.TableVisible
		c.redraw = true
		c.say("Toggled transaction table visibility.")
		if st.TableVisible {
			c.sayText(c.tableStats())
		}
		return
	}
	st.TableVisible = true
	if rng, ok := c.i.resolver.Resolve(c.args); ok {
		applyRange(c, rng)
		return
	}
	search(c, strings.Join(c.args, " "))
}

func labelCommand(c *call) {
	c.st.ShowChartLabels = !c.st.ShowChartLabels
	c.redraw = true
	if c.st.ShowChartLabels {
		c.say("Chart labels are now visible.")
	} else {
		c.say("Chart labels are now hidden.")
	}
}

func zoomCommand(c *call) {
	c.st.Zoomed = !c.st.Zoomed
	if c.st.Zoomed {
		c.say("Terminal zoomed.")
	} else {
		c.say("Terminal restored.")
	}
}

func summaryCommand(c *call) {
	if c.st.ActiveChart == session.NoChart {
		c.say("No active chart or summary available.")
		return
	}
	c.sayText(c.chartSummary())
}

func allCommand(c *call) {
	st := c.st
	st.Filters = nil
	st.ChartDateRange, st.TableDateRange = date.Range{}, date.Range{}
	st.CompositionFilterTickers, st.CompositionAssetClassFilter = nil, ""
	c.redraw = true
	c.say("Showing all data (filters and date ranges cleared).")
}

func allTimeCommand(c *call) {
	c.st.ChartDateRange, c.st.TableDateRange = date.Range{}, date.Range{}
	c.redraw = true
	c.say("Cleared chart date filters.")
}

func allStockCommand(c *call) {
	c.st.CompositionFilterTickers, c.st.CompositionAssetClassFilter = nil, ""
	c.redraw = true
	c.say("Cleared composition ticker filters.")
}

func resetCommand(c *call) {
	allCommand(c)
	c.st.ActiveChart = session.NoChart
	c.st.TableVisible = false
	c.st.Zoomed = false
	c.lines = nil
	c.say("Reset filters and date ranges. All views hidden. Use `transaction` or `plot` to view data.")
}

func clearCommand(c *call) {
	resetCommand(c)
	c.lines = nil
	c.clearOutput = true
}
