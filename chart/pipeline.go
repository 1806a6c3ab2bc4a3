package chart

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/series"
	"github.com/etnz/fundterm/session"
)

// Chart is the active chart of a session, windowed to its date range.
type Chart struct {
	Key      session.ChartKey `json:"key"`
	Title    string           `json:"title"`
	Range    date.Range       `json:"range"`
	Currency string           `json:"currency"`
	// Domain is the time axis. It is zero when no line has a point in range.
	Domain     series.Domain `json:"domain"`
	Lines      []Line        `json:"lines"`
	Hidden     []string      `json:"hidden,omitempty"`
	ShowLabels bool          `json:"showLabels"`
}

// Line returns the visible line key.
func (c *Chart) Line(key string) (Line, bool) {
	for _, l := range c.Lines {
		if l.Key == key {
			return l, true
		}
	}
	return Line{}, false
}

// Pipeline turns a session state into charts and transaction tables.
type Pipeline struct {
	store   *fundterm.Store
	builder *series.Builder
	// Today returns the current day, defaults to date.Today.
	Today func() date.Date
}

// NewPipeline returns a Pipeline reading store through builder.
func NewPipeline(store *fundterm.Store, builder *series.Builder) *Pipeline {
	return &Pipeline{store: store, builder: builder, Today: date.Today}
}

func (p *Pipeline) today() date.Date {
	if p.Today == nil {
		return date.Today()
	}
	return p.Today()
}

// Filtered returns the transactions kept by the session ledger search.
func (p *Pipeline) Filtered(s *session.State) []fundterm.Transaction {
	return fundterm.FilterTransactions(p.store.Transactions(), s.Query(), date.Range{}, p.store.Metadata())
}

// Table returns the rows of the transaction table: the transactions kept by the
// ledger search within the table date range.
func (p *Pipeline) Table(s *session.State) []fundterm.Transaction {
	return fundterm.FilterTransactions(p.store.Transactions(), s.Query(), s.TableDateRange, p.store.Metadata())
}

// Fx returns the exchange rates of the store.
func (p *Pipeline) Fx() fundterm.FxRates { return p.store.Fx() }

// View returns the series view of the session.
func (p *Pipeline) View(s *session.State) series.View {
	v := series.View{FilterActive: s.FilterActive(), Currency: s.Currency()}
	if v.FilterActive {
		v.Filtered = p.Filtered(s)
	}
	return v
}

func compositionFilter(s *session.State) series.CompositionFilter {
	return series.CompositionFilter{Tickers: s.CompositionFilterTickers, AssetClass: s.CompositionAssetClassFilter}
}

// Build returns the active chart of s, or nil when no chart is shown.
func (p *Pipeline) Build(s *session.State) (*Chart, error) {
	if s.ActiveChart == session.NoChart {
		return nil, nil
	}
	lines, err := p.lines(s)
	if err != nil {
		return nil, fmt.Errorf("build %s chart: %w", s.ActiveChart.Name(), err)
	}
	c := &Chart{
		Key:        s.ActiveChart,
		Title:      s.ActiveChart.Name(),
		Range:      s.ChartDateRange,
		Currency:   s.Currency(),
		ShowLabels: s.ShowChartLabels,
	}
	var visible [][]series.Point
	for _, l := range lines {
		if !s.Visible(l.Key) {
			c.Hidden = append(c.Hidden, l.Key)
			continue
		}
		l.Points = series.Window(l.Points, s.ChartDateRange)
		c.Lines = append(c.Lines, l)
		visible = append(visible, l.Points)
	}
	c.Domain, _ = series.TimeDomain(visible, s.ChartDateRange, p.today())
	return c, nil
}

func (p *Pipeline) lines(s *session.State) ([]Line, error) {
	v := p.View(s)
	currency := s.Currency()
	key := s.ActiveChart
	switch {
	case key == session.Contribution:
		balance, err := p.builder.Balance(v)
		if err != nil {
			return nil, err
		}
		cps, err := p.builder.ContributionSeries(v)
		if err != nil {
			return nil, err
		}
		var buys, sells []series.Point
		for _, c := range cps {
			if c.BuyVolume > 0 {
				buys = append(buys, series.Point{Date: c.TradeDate, Value: c.BuyVolume})
			}
			if c.SellVolume > 0 {
				sells = append(sells, series.Point{Date: c.TradeDate, Value: c.SellVolume})
			}
		}
		return []Line{
			{Key: "contribution", Label: "Contribution", Color: colorContribution, Unit: Money, Currency: currency, Points: series.Amounts(cps)},
			{Key: "balance", Label: "Balance", Color: colorBalance, Unit: Money, Currency: balance.Currency, Points: balance.Points},
			{Key: "buy", Label: "Buy", Color: colorBuy, Unit: Money, Currency: currency, Points: buys},
			{Key: "sell", Label: "Sell", Color: colorSell, Unit: Money, Currency: currency, Points: sells},
		}, nil

	case key == session.Performance, key == session.Rolling:
		perf, err := p.builder.Performance(v)
		if err != nil {
			return nil, err
		}
		if key == session.Rolling {
			return []Line{{Key: "rolling", Label: "1Y Rolling", Color: colorPerformance, Unit: Percent, Points: series.BuildRolling(perf.Points)}}, nil
		}
		return []Line{{Key: "performance", Label: "TWRR", Color: colorPerformance, Unit: Percent, Points: perf.Points}}, nil

	case key == session.Drawdown, key == session.DrawdownAbs:
		dd, err := p.builder.Drawdown(v, key.Absolute())
		if err != nil {
			return nil, err
		}
		if key.Absolute() {
			return []Line{{Key: "drawdown", Label: "Drawdown", Color: colorDrawdown, Unit: Money, Currency: dd.Currency, Points: dd.Points}}, nil
		}
		return []Line{{Key: "drawdown", Label: "Drawdown", Color: colorDrawdown, Unit: Percent, Points: dd.Points}}, nil

	case key.IsComposition():
		by, _ := key.Grouping()
		c := p.builder.Composition(v, by, compositionFilter(s))
		var lines []Line
		for i, k := range c.Keys {
			l := Line{Key: k, Label: k, Color: palette[i%len(palette)], Unit: Percent, Points: c.Percent(k)}
			if key.Absolute() {
				abs, err := series.Normalize(series.NewRaw(c.Absolute(k)), currency, p.store.Fx())
				if err != nil {
					return nil, err
				}
				l.Unit, l.Currency, l.Points = Money, abs.Currency, abs.Points
			}
			lines = append(lines, l)
		}
		return lines, nil

	case key == session.Concentration:
		c := p.builder.Composition(v, fundterm.BySecurity, compositionFilter(s))
		return []Line{{Key: "hhi", Label: "HHI", Color: colorNeutral, Unit: Index, Points: series.BuildConcentration(c)}}, nil

	case key == session.Fx:
		label := fmt.Sprintf("%s/%s", fundterm.BaseCurrency, currency)
		return []Line{{Key: "fx", Label: label, Color: colorNeutral, Unit: Rate, Points: p.builder.Fx(v, s.ChartDateRange)}}, nil
	}
	return nil, fmt.Errorf("unknown chart %q", key)
}

// maxSummaryLines caps the lines listed by Summary for grouped charts.
const maxSummaryLines = 7

// Summary describes the visible lines of c over its range: last value and change
// since the first point.
func Summary(c *Chart) string {
	if c == nil {
		return ""
	}
	type entry struct {
		text string
		last float64
	}
	var entries []entry
	for _, l := range c.Lines {
		first, ok := firstReal(l.Points)
		if !ok {
			continue
		}
		last, _ := series.Last(l.Points)
		text := fmt.Sprintf("%s: %s (%s since %s)", l.Label, l.Format(last.Value), l.FormatChange(last.Value-first.Value), first.Date)
		entries = append(entries, entry{text, last.Value})
	}
	if c.Key.IsComposition() {
		slices.SortStableFunc(entries, func(a, b entry) int { return cmp.Compare(b.last, a.last) })
		if len(entries) > maxSummaryLines {
			entries = entries[:maxSummaryLines]
		}
	}
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.text)
	}
	return sb.String()
}

func firstReal(points []series.Point) (series.Point, bool) {
	for _, p := range points {
		if !p.Synthetic {
			return p, true
		}
	}
	return series.Point{}, false
}
