package fundterm

import (
	"github.com/etnz/fundterm/date"
	"github.com/shopspring/decimal"
)

// Lot is a single purchase of a security, used for FIFO cost basis.
type Lot struct {
	Date     date.Date
	Quantity decimal.Decimal
	Cost     decimal.Decimal // total cost of the lot, in base currency
}

// Lots is a FIFO queue of lots, oldest first.
type Lots []Lot

// Quantity returns the total number of shares.
func (l Lots) Quantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l {
		total = total.Add(lot.Quantity)
	}
	return total
}

// Cost returns the total cost basis.
func (l Lots) Cost() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l {
		total = total.Add(lot.Cost)
	}
	return total
}

// costOfSelling returns the cost basis of selling a quantity of shares using FIFO.
func (l Lots) costOfSelling(quantityToSell decimal.Decimal) decimal.Decimal {
	cost := decimal.Zero
	for _, lot := range l {
		if !quantityToSell.IsPositive() {
			break
		}
		if lot.Quantity.GreaterThan(quantityToSell) {
			return cost.Add(lot.Cost.Mul(quantityToSell).Div(lot.Quantity))
		}
		cost = cost.Add(lot.Cost)
		quantityToSell = quantityToSell.Sub(lot.Quantity)
	}
	return cost
}

// sell removes a quantity of shares from the oldest lots. Selling more than held
// empties the queue.
func (l Lots) sell(quantityToSell decimal.Decimal) Lots {
	var remaining Lots
	for _, lot := range l {
		if !quantityToSell.IsPositive() {
			remaining = append(remaining, lot)
			continue
		}
		if lot.Quantity.GreaterThan(quantityToSell) {
			sold := lot.Cost.Mul(quantityToSell).Div(lot.Quantity)
			remaining = append(remaining, Lot{
				Date:     lot.Date,
				Quantity: lot.Quantity.Sub(quantityToSell),
				Cost:     lot.Cost.Sub(sold),
			})
			quantityToSell = decimal.Zero
			continue
		}
		quantityToSell = quantityToSell.Sub(lot.Quantity)
	}
	return remaining
}

// split multiplies every lot quantity by ratio, leaving costs unchanged.
func (l Lots) split(ratio decimal.Decimal) Lots {
	res := make(Lots, len(l))
	for i, lot := range l {
		res[i] = Lot{Date: lot.Date, Quantity: lot.Quantity.Mul(ratio), Cost: lot.Cost}
	}
	return res
}
