package fundterm

import (
	"maps"

	"github.com/etnz/fundterm/date"
)

// PriceLookback is the number of days a historical price stays valid when the exact
// day has no quote.
const PriceLookback = 10

// PriceTable holds sparse, split-adjusted historical closing prices per security.
// Keys are normalized symbols.
type PriceTable map[string]*date.History[float64]

// Set records the price of security on a day.
func (p PriceTable) Set(security string, on date.Date, price float64) {
	symbol := NormalizeSymbol(security)
	h, ok := p[symbol]
	if !ok {
		h = new(date.History[float64])
		p[symbol] = h
	}
	h.Append(on, price)
}

// Price returns the price quoted exactly on that day.
func (p PriceTable) Price(security string, on date.Date) (float64, bool) {
	return p[NormalizeSymbol(security)].Get(on)
}

// PriceAsOf returns the last price quoted on or before on, at most lookback days old.
func (p PriceTable) PriceAsOf(security string, on date.Date, lookback int) (float64, bool) {
	return p[NormalizeSymbol(security)].ValueWithin(on, lookback)
}

// Days returns the quote days of a security.
func (p PriceTable) Days(security string) []date.Date {
	return p[NormalizeSymbol(security)].Days()
}

// History returns the price history of a security, or nil.
func (p PriceTable) History(security string) *date.History[float64] {
	return p[NormalizeSymbol(security)]
}

// Merged returns a new table holding the quotes of p and q, q wins on conflicts.
// Neither p nor q is modified.
func (p PriceTable) Merged(q PriceTable) PriceTable {
	res := maps.Clone(p)
	if res == nil {
		res = PriceTable{}
	}
	for symbol, h := range q {
		symbol = NormalizeSymbol(symbol)
		merged := new(date.History[float64])
		for on, v := range res[symbol].Values() {
			merged.Append(on, v)
		}
		for on, v := range h.Values() {
			merged.Append(on, v)
		}
		res[symbol] = merged
	}
	return res
}

// Clone returns a shallow copy: histories are shared and must not be mutated.
func (p PriceTable) Clone() PriceTable { return maps.Clone(p) }
