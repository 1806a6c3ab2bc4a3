package terminal

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/series"
)

const statsUsage = `Stats commands:
  stats transactions   - counts, buy and sell totals, net contribution
  stats holdings       - open positions
  stats financial      - market value, contribution and gains
  stats technical      - drawdown, best and worst days
  stats duration       - time between the first and the last trade
  stats lifespan       - holding period of each security
  stats concentration  - largest weights and effective number of holdings
  stats cagr           - compound annual growth rate
  stats return [period] - return of each year, or of each d|w|m|q|y period`

var reports = map[string]func(c *call) string{
	"transactions":  transactionsStats,
	"holdings":      holdingsStats,
	"financial":     financialStats,
	"technical":     technicalStats,
	"duration":      durationStats,
	"lifespan":      lifespanStats,
	"concentration": concentrationStats,
	"cagr":          cagrStats,
	"return":        returnStats,
}

func statsCommand(c *call) {
	if len(c.args) == 0 {
		c.say("%s", statsUsage)
		return
	}
	sub := strings.ToLower(c.args[0])
	report, ok := reports[sub]
	if !ok {
		c.refuse("Unknown stats subcommand: %s\nAvailable: %s", sub, strings.Join(StatsSubcommands, ", "))
		return
	}
	c.sayText(report(c))
}

// convert returns txs with prices and amounts in currency, converted at their
// trade date. Transactions are returned unchanged for an unknown currency.
func (i *Interpreter) convert(txs []fundterm.Transaction, currency string) []fundterm.Transaction {
	if currency == fundterm.BaseCurrency {
		return txs
	}
	fx := i.store.Fx()
	res := make([]fundterm.Transaction, 0, len(txs))
	for _, tx := range txs {
		rate, ok := fx.Rate(currency, tx.TradeDate)
		if !ok {
			return txs
		}
		tx.Price *= rate
		if tx.Net != nil {
			net := *tx.Net * rate
			tx.Net = &net
		}
		res = append(res, tx)
	}
	return res
}

// rows returns the transactions of the table in the session currency.
func (c *call) rows() []fundterm.Transaction {
	return c.i.convert(c.i.pipeline.Table(c.st), c.st.Currency())
}

func transactionsReport(txs []fundterm.Transaction, splits []fundterm.SplitEvent, currency string) string {
	s := fundterm.ComputeStats(txs, splits, currency)
	if s.Count == 0 {
		return "No transactions."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Transactions: %d (%d buys, %d sells) from %s to %s\n", s.Count, s.Buys, s.Sells, s.First, s.Last)
	fmt.Fprintf(&sb, "Bought: %s  Sold: %s  Net: %s\n", s.BuyTotal, s.SellTotal, s.Net)
	fmt.Fprintf(&sb, "Realized gain: %s", s.RealizedGain.SignedString())
	return sb.String()
}

func transactionsStats(c *call) string {
	return transactionsReport(c.rows(), c.i.store.Splits(), c.st.Currency())
}

func holdingsStats(c *call) string {
	currency := c.st.Currency()
	holdings := fundterm.ComputeHoldings(c.rows(), c.i.store.Splits(), c.i.now())
	if len(holdings) == 0 {
		return "No open positions."
	}
	today := c.i.now()
	prices, fx := c.i.store.Prices(), c.i.store.Fx()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s %12s %16s %14s %14s  %s", "Security", "Shares", "Cost", "Avg price", "Quote", "Since")
	for _, h := range holdings {
		quote := "-"
		if price, ok := prices.PriceAsOf(h.Security, today, fundterm.PriceLookback); ok {
			if price, ok = fx.Convert(price, today, currency); ok {
				quote = fundterm.FormatMoney(price, currency)
			}
		}
		fmt.Fprintf(&sb, "\n%-8s %12s %16s %14s %14s  %s", h.Security, h.Shares.Round(4).String(),
			fundterm.M(h.Cost, currency), fundterm.M(h.AveragePrice, currency), quote, h.Opened)
	}
	return sb.String()
}

func financialStats(c *call) string {
	view := c.i.pipeline.View(c.st)
	balance, err := c.i.builder.Balance(view)
	if err != nil {
		return err.Error()
	}
	last, ok := series.Last(balance.Points)
	if !ok {
		return "No transactions."
	}
	cps, err := c.i.builder.ContributionSeries(view)
	if err != nil {
		return err.Error()
	}
	contributed := 0.0
	if n := len(cps); n > 0 {
		contributed = cps[n-1].Amount
	}
	gain := last.Value - contributed
	realized := fundterm.ComputeStats(c.i.convert(view.Filtered, balance.Currency), c.i.store.Splits(), balance.Currency).RealizedGain
	if !view.FilterActive {
		realized = fundterm.ComputeStats(c.i.convert(c.i.store.Transactions(), balance.Currency), c.i.store.Splits(), balance.Currency).RealizedGain
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Market value: %s on %s\n", fundterm.FormatMoney(last.Value, balance.Currency), last.Date)
	fmt.Fprintf(&sb, "Net contribution: %s\n", fundterm.FormatMoney(contributed, balance.Currency))
	fmt.Fprintf(&sb, "Total gain: %s", fundterm.FormatSignedMoney(gain, balance.Currency))
	if contributed > 0 {
		fmt.Fprintf(&sb, " (%s)", fundterm.Percent(100*gain/contributed).SignedString())
	}
	fmt.Fprintf(&sb, "\nRealized gain: %s", realized.SignedString())
	return sb.String()
}

func technicalStats(c *call) string {
	view := c.i.pipeline.View(c.st)
	perf, err := c.i.builder.Performance(view)
	if err != nil {
		return err.Error()
	}
	balance, _ := c.i.builder.Balance(view)
	dd := series.BuildDrawdown(balance.Points)
	worst, ok := series.MaxDrawdown(dd)
	if !ok {
		return "No transactions."
	}
	current, _ := series.Last(dd)

	var best, bad series.Point
	best.Value, bad.Value = math.Inf(-1), math.Inf(1)
	for j := 1; j < len(perf.Points); j++ {
		prev, p := perf.Points[j-1], perf.Points[j]
		r := ((1+p.Value/100)/(1+prev.Value/100) - 1) * 100
		if r > best.Value {
			best = series.Point{Date: p.Date, Value: r}
		}
		if r < bad.Value {
			bad = series.Point{Date: p.Date, Value: r}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Max drawdown: %s on %s\n", fundterm.Percent(worst.Value), worst.Date)
	fmt.Fprintf(&sb, "Current drawdown: %s", fundterm.Percent(current.Value))
	if !math.IsInf(best.Value, 0) {
		fmt.Fprintf(&sb, "\nBest day: %s on %s", fundterm.Percent(best.Value).SignedString(), best.Date)
		fmt.Fprintf(&sb, "\nWorst day: %s on %s", fundterm.Percent(bad.Value).SignedString(), bad.Date)
	}
	return sb.String()
}

func durationStats(c *call) string {
	s := fundterm.ComputeStats(c.rows(), nil, c.st.Currency())
	if s.Count == 0 {
		return "No transactions."
	}
	days := s.Last.DaysSince(s.First)
	var sb strings.Builder
	fmt.Fprintf(&sb, "First trade: %s\nLast trade: %s\n", s.First, s.Last)
	fmt.Fprintf(&sb, "Duration: %d days (%.1f years)\n", days, float64(days)/365.25)
	fmt.Fprintf(&sb, "Since first trade: %d days", c.i.now().DaysSince(s.First))
	return sb.String()
}

func lifespanStats(c *call) string {
	rows := c.rows()
	if len(rows) == 0 {
		return "No transactions."
	}
	today := c.i.now()
	open := map[string]bool{}
	for _, h := range fundterm.ComputeHoldings(rows, c.i.store.Splits(), today) {
		open[h.Security] = true
	}
	type span struct {
		symbol     string
		first, end date.Date
	}
	spans := map[string]*span{}
	for _, tx := range rows {
		sp, ok := spans[tx.Symbol()]
		if !ok {
			sp = &span{symbol: tx.Symbol(), first: tx.TradeDate}
			spans[tx.Symbol()] = sp
		}
		sp.first = date.Min(sp.first, tx.TradeDate)
		sp.end = date.Max(sp.end, tx.TradeDate)
	}
	list := slices.Collect(maps.Values(spans))
	for _, sp := range list {
		if open[sp.symbol] {
			sp.end = today
		}
	}
	slices.SortFunc(list, func(a, b *span) int {
		if r := cmp.Compare(b.end.DaysSince(b.first), a.end.DaysSince(a.first)); r != 0 {
			return r
		}
		return cmp.Compare(a.symbol, b.symbol)
	})
	var sb strings.Builder
	for j, sp := range list {
		if j > 0 {
			sb.WriteByte('\n')
		}
		end := sp.end.String()
		if open[sp.symbol] {
			end = "open"
		}
		fmt.Fprintf(&sb, "%-8s %s to %-10s %6d days", sp.symbol, sp.first, end, sp.end.DaysSince(sp.first))
	}
	return sb.String()
}

func concentrationStats(c *call) string {
	comp := c.i.builder.Composition(c.i.pipeline.View(c.st), fundterm.BySecurity, series.CompositionFilter{
		Tickers:    c.st.CompositionFilterTickers,
		AssetClass: c.st.CompositionAssetClassFilter,
	})
	hhi, ok := series.Last(series.BuildConcentration(comp))
	if !ok {
		return "No open positions."
	}
	weights := comp.Weights()
	var sb strings.Builder
	fmt.Fprintf(&sb, "HHI: %.0f (%.1f effective holdings)", hhi.Value, series.EffectiveHoldings(hhi.Value))
	for j, k := range comp.Keys {
		if j == 7 || weights[k] <= 0 {
			break
		}
		fmt.Fprintf(&sb, "\n  %-8s %s", k, fundterm.Percent(weights[k]))
	}
	return sb.String()
}

func cagrStats(c *call) string {
	perf, err := c.i.builder.Performance(c.i.pipeline.View(c.st))
	if err != nil {
		return err.Error()
	}
	cagr := series.CAGR(perf.Points)
	if math.IsNaN(cagr) {
		return "Not enough history to compute CAGR."
	}
	first, last := perf.Points[0], perf.Points[len(perf.Points)-1]
	return fmt.Sprintf("CAGR: %s over %d days (%s to %s)", fundterm.Percent(cagr).SignedString(),
		last.Date.DaysSince(first.Date), first.Date, last.Date)
}

func returnStats(c *call) string {
	period := date.Yearly
	if len(c.args) > 1 {
		p, err := date.ParsePeriod(c.args[1])
		if err != nil {
			return fmt.Sprintf("Unknown period %q. Use daily, weekly, monthly, quarterly or yearly.", c.args[1])
		}
		period = p
	}
	perf, err := c.i.builder.Performance(c.i.pipeline.View(c.st))
	if err != nil {
		return err.Error()
	}
	if len(perf.Points) == 0 {
		return "No transactions."
	}
	var sb strings.Builder
	for j, r := range series.PeriodReturns(perf.Points, period) {
		if j > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s: %s", period.Label(r.Date), fundterm.Percent(r.Value).SignedString())
	}
	return sb.String()
}
