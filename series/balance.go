package series

import (
	"maps"
	"slices"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
)

// Valuation is the market value of every open position on a day.
type Valuation struct {
	Date   date.Date
	Values map[string]float64 // by normalized symbol
}

// Total returns the sum of the position values.
func (v Valuation) Total() float64 {
	total := 0.0
	for _, x := range v.Values {
		total += x
	}
	return total
}

// Valuations replays transactions chronologically and values the open positions on
// every day with a transaction, a split or a historical price of a traded security.
//
// Historical prices are split-adjusted: the price actually quoted on a day is the
// historical price times the splits taking effect after that day. When a day has no
// historical price for a security, its fallback price is used: the price of its last
// transaction, rebased by the splits since then. Quotes never move the fallback.
func Valuations(txs []fundterm.Transaction, prices fundterm.PriceTable, splits []fundterm.SplitEvent) []Valuation {
	if len(txs) == 0 {
		return nil
	}
	sorted := append([]fundterm.Transaction(nil), txs...)
	fundterm.SortTransactions(sorted)
	first := sorted[0].TradeDate

	splitsBySymbol := map[string][]fundterm.SplitEvent{}
	events := [][]date.Date{}
	var txDays []date.Date
	for _, tx := range sorted {
		symbol := tx.Symbol()
		if _, ok := splitsBySymbol[symbol]; !ok {
			own := fundterm.SplitsOf(splits, symbol)
			splitsBySymbol[symbol] = own
			events = append(events, after(prices.Days(symbol), first))
			var splitDays []date.Date
			for _, s := range own {
				splitDays = append(splitDays, s.EffectiveDate)
			}
			events = append(events, after(splitDays, first))
		}
		if n := len(txDays); n == 0 || txDays[n-1] != tx.TradeDate {
			txDays = append(txDays, tx.TradeDate)
		}
	}
	events = append(events, txDays)

	shares := map[string]float64{}
	fallback := map[string]float64{}
	next := 0
	var res []Valuation
	for on := range date.Merge(events...) {
		for symbol, own := range splitsBySymbol {
			for _, s := range own {
				if s.EffectiveDate == on {
					shares[symbol] *= s.Ratio
					fallback[symbol] /= s.Ratio
				}
			}
		}
		for ; next < len(sorted) && sorted[next].TradeDate == on; next++ {
			tx := sorted[next]
			symbol := tx.Symbol()
			if tx.OrderType == fundterm.Buy {
				shares[symbol] += tx.Shares()
			} else {
				shares[symbol] = max(0, shares[symbol]-tx.Shares())
			}
			if tx.Price > 0 {
				fallback[symbol] = tx.Price
			}
		}
		values := map[string]float64{}
		for _, symbol := range slices.Sorted(maps.Keys(shares)) {
			price, ok := prices.Price(symbol, on)
			if ok {
				price *= fundterm.SplitAdjustment(splitsBySymbol[symbol], symbol, on)
			} else {
				price = fallback[symbol]
			}
			if q := shares[symbol]; q > 0 {
				values[symbol] = q * price
			}
		}
		res = append(res, Valuation{Date: on, Values: values})
	}
	return res
}

// after returns the days on or after from.
func after(days []date.Date, from date.Date) []date.Date {
	i, _ := slices.BinarySearchFunc(days, from, date.Date.Compare)
	return days[i:]
}

// BuildFilteredBalance returns the market value of the positions opened by txs on
// every day with a transaction or a price update.
//
// A zero synthetic point is prepended the day before the first trade so that the
// line ramps from zero. It returns nil for empty input.
func BuildFilteredBalance(txs []fundterm.Transaction, prices fundterm.PriceTable, splits []fundterm.SplitEvent) []Point {
	valuations := Valuations(txs, prices, splits)
	if len(valuations) == 0 {
		return nil
	}
	res := make([]Point, 0, len(valuations)+1)
	for _, v := range valuations {
		res = append(res, Point{Date: v.Date, Value: v.Total()})
	}
	if res[0].Value != 0 {
		res = append([]Point{{Date: res[0].Date.Add(-1), Synthetic: true}}, res...)
	}
	return res
}
