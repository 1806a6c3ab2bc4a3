package series

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
)

// CompositionFilter narrows a composition to some tickers or an asset class.
type CompositionFilter struct {
	Tickers    []string // normalized symbols
	AssetClass string
}

func (f CompositionFilter) keep(symbol string, meta fundterm.Metadata) bool {
	if len(f.Tickers) > 0 && !slices.Contains(f.Tickers, symbol) {
		return false
	}
	if f.AssetClass != "" && meta.AssetClass(symbol) != strings.ToLower(f.AssetClass) {
		return false
	}
	return true
}

// Composition is the breakdown of the portfolio value by group over time.
type Composition struct {
	By    fundterm.GroupBy
	Dates []date.Date
	// Keys are the groups, largest last value first.
	Keys []string
	// Values are the market values per group, aligned with Dates.
	Values map[string][]float64
}

// BuildComposition groups the valuations of the positions opened by txs.
func BuildComposition(txs []fundterm.Transaction, prices fundterm.PriceTable, splits []fundterm.SplitEvent,
	meta fundterm.Metadata, by fundterm.GroupBy, filter CompositionFilter) Composition {
	c := Composition{By: by, Values: map[string][]float64{}}
	valuations := Valuations(txs, prices, splits)
	for i, v := range valuations {
		c.Dates = append(c.Dates, v.Date)
		for symbol, value := range v.Values {
			if !filter.keep(symbol, meta) {
				continue
			}
			key := meta.Group(symbol, by)
			if _, ok := c.Values[key]; !ok {
				c.Values[key] = make([]float64, len(valuations))
			}
			c.Values[key][i] += value
		}
	}
	last := len(valuations) - 1
	c.Keys = slices.SortedFunc(maps.Keys(c.Values), func(a, b string) int {
		if r := cmp.Compare(c.Values[b][last], c.Values[a][last]); r != 0 {
			return r
		}
		return cmp.Compare(a, b)
	})
	return c
}

// Totals returns the total value on each date.
func (c Composition) Totals() []float64 {
	totals := make([]float64, len(c.Dates))
	for _, values := range c.Values {
		for i, v := range values {
			totals[i] += v
		}
	}
	return totals
}

// Absolute returns the value series of a group.
func (c Composition) Absolute(key string) []Point {
	res := make([]Point, 0, len(c.Dates))
	for i, on := range c.Dates {
		res = append(res, Point{Date: on, Value: c.Values[key][i]})
	}
	return res
}

// Percent returns the weight series of a group, in percent of the total.
func (c Composition) Percent(key string) []Point {
	totals := c.Totals()
	res := make([]Point, 0, len(c.Dates))
	for i, on := range c.Dates {
		w := 0.0
		if totals[i] > 0 {
			w = 100 * c.Values[key][i] / totals[i]
		}
		res = append(res, Point{Date: on, Value: w})
	}
	return res
}

// Weights returns the weights, in percent, of every group on the last date.
func (c Composition) Weights() map[string]float64 {
	res := map[string]float64{}
	if len(c.Dates) == 0 {
		return res
	}
	last := len(c.Dates) - 1
	total := c.Totals()[last]
	for _, k := range c.Keys {
		if total > 0 {
			res[k] = 100 * c.Values[k][last] / total
		}
	}
	return res
}

// BuildConcentration returns the Herfindahl-Hirschman index of the composition on
// each date: the sum of squared weights scaled to 10000 for a single holding.
func BuildConcentration(c Composition) []Point {
	totals := c.Totals()
	res := make([]Point, 0, len(c.Dates))
	for i, on := range c.Dates {
		if totals[i] <= 0 {
			continue
		}
		hhi := 0.0
		for _, values := range c.Values {
			w := values[i] / totals[i]
			hhi += w * w
		}
		res = append(res, Point{Date: on, Value: hhi * 10000})
	}
	return res
}

// EffectiveHoldings converts an HHI value into the equivalent number of equally
// weighted holdings.
func EffectiveHoldings(hhi float64) float64 {
	if hhi <= 0 {
		return 0
	}
	return 10000 / hhi
}

// BuildFx returns the rate history of currency against the base currency within
// rng. Without history it returns the snapshot rate as a single point on today.
func BuildFx(fx fundterm.FxRates, currency string, rng date.Range, today date.Date) []Point {
	var res []Point
	if h := fx.History[strings.ToUpper(currency)]; h.Len() > 0 {
		for on, v := range h.Values() {
			if rng.Contains(on) {
				res = append(res, Point{Date: on, Value: v})
			}
		}
		return res
	}
	if r, ok := fx.Rate(currency, today); ok {
		res = append(res, Point{Date: today, Value: r})
	}
	return res
}
