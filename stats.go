package fundterm

import (
	"maps"
	"slices"

	"github.com/etnz/fundterm/date"
	"github.com/shopspring/decimal"
)

// Stats summarizes a set of transactions.
type Stats struct {
	Count        int
	Buys, Sells  int
	BuyTotal     Money
	SellTotal    Money
	Net          Money // BuyTotal - SellTotal
	RealizedGain Money // FIFO realized gain of the sells
	First, Last  date.Date
}

// Holding is an open position.
type Holding struct {
	Security     string
	Shares       decimal.Decimal
	Cost         decimal.Decimal
	AveragePrice decimal.Decimal
	Opened       date.Date // date of the oldest open lot
	Lots         Lots
}

// book replays transactions into FIFO lots per security, applying splits.
type book struct {
	splits   []SplitEvent
	lots     map[string]Lots
	applied  map[string]int // number of splits already applied per symbol
	realized decimal.Decimal
}

func newBook(splits []SplitEvent) *book {
	splits = slices.Clone(splits)
	sortSplits(splits)
	return &book{splits: splits, lots: map[string]Lots{}, applied: map[string]int{}}
}

// advance applies the splits of symbol effective on or before on.
func (b *book) advance(symbol string, on date.Date) {
	own := SplitsOf(b.splits, symbol)
	for i := b.applied[symbol]; i < len(own); i++ {
		if own[i].EffectiveDate.After(on) {
			return
		}
		b.lots[symbol] = b.lots[symbol].split(decimal.NewFromFloat(own[i].Ratio))
		b.applied[symbol] = i + 1
	}
}

func (b *book) apply(tx Transaction) {
	symbol := tx.Symbol()
	b.advance(symbol, tx.TradeDate)
	shares := decimal.NewFromFloat(tx.Shares())
	amount := decimal.NewFromFloat(tx.NetAmount()).Abs()
	switch tx.OrderType {
	case Buy:
		b.lots[symbol] = append(b.lots[symbol], Lot{Date: tx.TradeDate, Quantity: shares, Cost: amount})
	case Sell:
		cost := b.lots[symbol].costOfSelling(shares)
		b.realized = b.realized.Add(amount.Sub(cost))
		b.lots[symbol] = b.lots[symbol].sell(shares)
	}
}

// ComputeStats returns the statistics of transactions, amounts in base currency
// labelled with currency.
func ComputeStats(txs []Transaction, splits []SplitEvent, currency string) Stats {
	txs = slices.Clone(txs)
	SortTransactions(txs)
	s := Stats{BuyTotal: M(0, currency), SellTotal: M(0, currency), RealizedGain: M(0, currency)}
	b := newBook(splits)
	for _, tx := range txs {
		s.Count++
		amount := M(tx.NetAmount(), currency)
		if tx.OrderType == Buy {
			s.Buys++
			s.BuyTotal = s.BuyTotal.Add(amount)
		} else {
			s.Sells++
			s.SellTotal = s.SellTotal.Add(amount.Neg())
		}
		b.apply(tx)
	}
	if len(txs) > 0 {
		s.First, s.Last = txs[0].TradeDate, txs[len(txs)-1].TradeDate
	}
	s.Net = s.BuyTotal.Sub(s.SellTotal)
	s.RealizedGain = M(b.realized, currency)
	return s
}

// ComputeHoldings returns the open positions as of a day, sorted by security.
// Share counts include the splits effective on or before that day.
func ComputeHoldings(txs []Transaction, splits []SplitEvent, asOf date.Date) []Holding {
	txs = slices.Clone(txs)
	SortTransactions(txs)
	b := newBook(splits)
	for _, tx := range txs {
		if tx.TradeDate.After(asOf) {
			break
		}
		b.apply(tx)
	}
	var res []Holding
	for _, symbol := range slices.Sorted(maps.Keys(b.lots)) {
		b.advance(symbol, asOf)
		lots := b.lots[symbol]
		shares := lots.Quantity()
		if !shares.IsPositive() {
			continue
		}
		h := Holding{Security: symbol, Shares: shares, Cost: lots.Cost(), Lots: lots, Opened: lots[0].Date}
		h.AveragePrice = h.Cost.Div(shares)
		res = append(res, h)
	}
	return res
}
