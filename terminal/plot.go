package terminal

import (
	"strings"

	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/session"
)

// plotCharts maps plot subcommands, without dashes, to charts.
var plotCharts = map[string]session.ChartKey{
	"balance":        session.Contribution,
	"contribution":   session.Contribution,
	"performance":    session.Performance,
	"twrr":           session.Performance,
	"rolling":        session.Rolling,
	"drawdown":       session.Drawdown,
	"drawdownabs":    session.DrawdownAbs,
	"composition":    session.Composition,
	"compositionabs": session.CompositionAbs,
	"sectors":        session.Sectors,
	"sectorsabs":     session.SectorsAbs,
	"geography":      session.Geography,
	"geographyabs":   session.GeographyAbs,
	"marketcap":      session.MarketCap,
	"marketcapabs":   session.MarketCapAbs,
	"concentration":  session.Concentration,
	"fx":             session.Fx,
}

// PlotSubcommands are the completions of "plot".
var PlotSubcommands = []string{
	"balance", "performance", "drawdown", "drawdown-abs", "composition", "composition-abs",
	"sectors", "sectors-abs", "geography", "geography-abs", "marketcap", "marketcap-abs",
	"concentration", "rolling", "fx",
}

const plotUsage = `Plot commands:
  plot balance         - contribution and market value
  plot performance     - time-weighted return (TWRR)
  plot rolling         - 1-year rolling returns
  plot drawdown [abs]  - decline from the running peak
  plot composition [abs], plot sectors [abs], plot geography [abs], plot marketcap [abs]
  plot concentration   - Herfindahl-Hirschman index
  plot fx              - exchange rate of the selected currency

Usage: plot <chart> [abs] [year|quarter|from <...>|<...> to <...>]`

const twrrNote = "TWRR chains the daily returns of the portfolio net of the cash moved in or out, so deposits and withdrawals do not distort the result."

// plotKey parses the chart of a plot command and returns the remaining tokens.
func plotKey(args []string) (session.ChartKey, []string, bool) {
	norm := func(s string) string { return strings.ReplaceAll(strings.ToLower(s), "-", "") }
	var key session.ChartKey
	var rest []string
	if len(args) >= 2 {
		// two word names, like "market cap"
		key, rest = plotCharts[norm(args[0])+norm(args[1])], args[2:]
	}
	if key == session.NoChart {
		var ok bool
		if key, ok = plotCharts[norm(args[0])]; !ok {
			return session.NoChart, nil, false
		}
		rest = args[1:]
	}
	if len(rest) > 0 && key.HasVariants() && isAbs(rest[0]) {
		key, rest = key.WithAbsolute(true), rest[1:]
	}
	return key, rest, true
}

func isAbs(token string) bool {
	switch strings.ToLower(token) {
	case "abs", "absolute", "a":
		return true
	}
	return false
}

func plotCommand(c *call) {
	if len(c.args) == 0 {
		c.say("%s", plotUsage)
		return
	}
	key, rest, ok := plotKey(c.args)
	if !ok {
		c.refuse("Unknown plot subcommand: %s\nAvailable: %s", c.args[0], strings.Join(PlotSubcommands, ", "))
		return
	}
	selectChart(c, key, rest)
}

func concentrationCommand(c *call) { selectChart(c, session.Concentration, c.args) }

// selectChart shows key with the date tokens applied. Selecting the active chart
// again with no date tokens hides it.
func selectChart(c *call, key session.ChartKey, dateTokens []string) {
	st := c.st
	st.Zoomed = false
	if key == st.ActiveChart && len(dateTokens) == 0 {
		st.ActiveChart = session.NoChart
		c.redraw = true
		c.say("Hidden %s chart.", key.Name())
		return
	}
	switch {
	case len(dateTokens) == 0:
	case len(dateTokens) == 1 && date.IsResetKeyword(dateTokens[0]):
		st.ChartDateRange = date.Range{}
	default:
		rng, ok := c.i.resolver.Resolve(dateTokens)
		if !ok {
			c.refuse("Unrecognized date range %q.", strings.Join(dateTokens, " "))
			return
		}
		st.ChartDateRange = rng
	}
	st.ActiveChart = key
	st.TableVisible = false
	c.redraw = true

	if c.i.loader != nil && key != session.Fx {
		// failures are reported by the loader and leave the store as it was
		_ = c.i.loader.Refresh(c.ctx)
	}
	c.say("Showing %s chart for %s.", key.Name(), st.ChartDateRange)
	if key == session.Performance {
		c.say("%s", twrrNote)
	}
	c.sayText(c.chartSummary())
}

func absCommand(c *call)     { switchVariant(c, true) }
func percentCommand(c *call) { switchVariant(c, false) }

func switchVariant(c *call, absolute bool) {
	active := c.st.ActiveChart
	view := "percentage"
	if absolute {
		view = "absolute"
	}
	switch {
	case !active.HasVariants():
		c.refuse("Composition, Sectors, Geography, Market cap, or Drawdown chart must be active to switch views. Use `plot composition`, `plot sectors`, `plot geography`, `plot marketcap`, or `plot drawdown` first.")
	case active.Absolute() == absolute:
		c.say("%s chart is already showing %s values.", capitalize(active.WithAbsolute(false).Name()), view)
	default:
		c.st.ActiveChart = active.WithAbsolute(absolute)
		c.redraw = true
		c.say("Switched %s chart to %s view.", active.WithAbsolute(false).Name(), view)
		c.sayText(c.chartSummary())
	}
}

func rollingCommand(c *call)    { switchReturns(c, session.Rolling, session.Performance, "1-Year rolling returns") }
func cumulativeCommand(c *call) { switchReturns(c, session.Performance, session.Rolling, "cumulative performance") }

func switchReturns(c *call, to, from session.ChartKey, name string) {
	switch c.st.ActiveChart {
	case to:
		c.say("%s chart is already active.", capitalize(to.Name()))
	case from:
		c.st.ActiveChart = to
		c.redraw = true
		c.say("Switched to %s chart.", name)
		c.sayText(c.chartSummary())
	default:
		c.refuse("Performance or Rolling chart must be active. Use `plot performance` or `plot rolling` first.")
	}
}

// switchComposition returns the handler switching among the composition charts,
// keeping the absolute or percentage view.
func switchComposition(to session.ChartKey) handler {
	return func(c *call) {
		active := c.st.ActiveChart
		switch {
		case !active.IsComposition():
			c.refuse("Composition, Sectors, Geography, or Market cap chart must be active. Use `plot composition`, `plot sectors`, `plot geography`, or `plot marketcap` first.")
		case active.WithAbsolute(false) == to:
			c.say("%s chart is already active.", capitalize(to.Name()))
		default:
			target := to.WithAbsolute(active.Absolute())
			c.st.ActiveChart = target
			c.redraw = true
			c.say("Switched to %s chart.", target.Name())
			c.sayText(c.chartSummary())
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
