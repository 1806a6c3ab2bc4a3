package series

import (
	"fmt"
	"math"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
)

// Order types of a ContributionPoint besides fundterm.Buy and fundterm.Sell.
const (
	Mixed   = "mixed"
	Padding = "padding"
)

// ContributionPoint is the cumulative net cash deployed as of TradeDate.
type ContributionPoint struct {
	TradeDate  date.Date `json:"tradeDate"`
	Amount     float64   `json:"amount"`    // cumulative net contribution
	NetAmount  float64   `json:"netAmount"` // net cash of that day
	OrderType  string    `json:"orderType"`
	BuyVolume  float64   `json:"buyVolume,omitempty"`
	SellVolume float64   `json:"sellVolume,omitempty"`
	Synthetic  bool      `json:"synthetic,omitempty"`
}

// ContributionOptions configures BuildContribution.
type ContributionOptions struct {
	// Currency of the result. Empty or the base currency means no conversion.
	Currency string
	// PadTo extends the series with a flat point up to that day, clamped to Today.
	// Zero pads to Today.
	PadTo date.Date
	// Today is the current day. Zero means date.Today().
	Today date.Date
	// NoPadding disables the padding points.
	NoPadding bool
	// SyntheticStart prepends a zero point the day before the first trade.
	SyntheticStart bool
}

// BuildContribution walks transactions in trade date order and accumulates the
// net cash deployed: buys add their net amount and sells subtract it. Transactions
// of a same day are consolidated in one point carrying the absolute buy and sell
// volumes of that day.
//
// When the currency differs from the base currency every daily amount is converted
// at its date and the cumulative amount is accumulated from converted values. For
// an unknown currency the series is built in the base currency and the error wraps
// fundterm.ErrUnknownCurrency.
//
// Padding points are inserted the day before a trade when days without trade
// precede it, so that the cumulative line stays flat between trades.
func BuildContribution(txs []fundterm.Transaction, fx fundterm.FxRates, opts ContributionOptions) ([]ContributionPoint, error) {
	if len(txs) == 0 {
		return nil, nil
	}
	sorted := append([]fundterm.Transaction(nil), txs...)
	fundterm.SortTransactions(sorted)

	days := consolidate(sorted)
	var err error
	if opts.Currency != "" && opts.Currency != fundterm.BaseCurrency {
		converted, cerr := convertDays(days, fx, opts.Currency)
		if cerr != nil {
			err = cerr
		} else {
			days = converted
		}
	}

	var res []ContributionPoint
	if opts.SyntheticStart {
		res = append(res, ContributionPoint{TradeDate: days[0].TradeDate.Add(-1), OrderType: Padding, Synthetic: true})
	}
	amount := 0.0
	for i, day := range days {
		if !opts.NoPadding && i > 0 && day.TradeDate.DaysSince(days[i-1].TradeDate) > 1 {
			res = append(res, ContributionPoint{TradeDate: day.TradeDate.Add(-1), Amount: amount, OrderType: Padding})
		}
		amount += day.NetAmount
		day.Amount = amount
		res = append(res, day)
	}

	if !opts.NoPadding {
		today := opts.Today
		if today.IsZero() {
			today = date.Today()
		}
		padTo := today
		if !opts.PadTo.IsZero() && opts.PadTo.Before(today) {
			padTo = opts.PadTo
		}
		if last := days[len(days)-1].TradeDate; padTo.After(last) {
			res = append(res, ContributionPoint{TradeDate: padTo, Amount: amount, OrderType: Padding})
		}
	}
	return res, err
}

// convertDays converts the daily amounts to currency at their dates.
func convertDays(days []ContributionPoint, fx fundterm.FxRates, currency string) ([]ContributionPoint, error) {
	res := make([]ContributionPoint, len(days))
	for i, day := range days {
		rate, ok := fx.Rate(currency, day.TradeDate)
		if !ok {
			return days, fmt.Errorf("contribution in %s: %w", currency, fundterm.ErrUnknownCurrency)
		}
		day.NetAmount *= rate
		day.BuyVolume *= rate
		day.SellVolume *= rate
		res[i] = day
	}
	return res, nil
}

// consolidate aggregates sorted transactions per trade date.
func consolidate(sorted []fundterm.Transaction) []ContributionPoint {
	var days []ContributionPoint
	for _, tx := range sorted {
		net := tx.NetAmount()
		if n := len(days); n == 0 || days[n-1].TradeDate != tx.TradeDate {
			days = append(days, ContributionPoint{TradeDate: tx.TradeDate, OrderType: string(tx.OrderType)})
		}
		day := &days[len(days)-1]
		day.NetAmount += net
		if tx.OrderType == fundterm.Buy {
			day.BuyVolume += math.Abs(net)
		} else {
			day.SellVolume += math.Abs(net)
		}
		if day.OrderType != string(tx.OrderType) {
			day.OrderType = Mixed
		}
	}
	return days
}

// Amounts returns the cumulative amounts as points.
func Amounts(cps []ContributionPoint) []Point {
	res := make([]Point, 0, len(cps))
	for _, c := range cps {
		res = append(res, Point{Date: c.TradeDate, Value: c.Amount, Synthetic: c.Synthetic})
	}
	return res
}

// Flows returns the net cash flow of each day, padding excluded.
func Flows(cps []ContributionPoint) map[date.Date]float64 {
	res := map[date.Date]float64{}
	for _, c := range cps {
		if c.OrderType != Padding {
			res[c.TradeDate] += c.NetAmount
		}
	}
	return res
}
