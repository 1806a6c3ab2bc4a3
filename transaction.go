package fundterm

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/etnz/fundterm/date"
)

// OrderType is the side of a transaction.
type OrderType string

const (
	Buy  OrderType = "buy"
	Sell OrderType = "sell"
)

// ParseOrderType parses "buy" or "sell", case insensitive.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "b":
		return Buy, nil
	case "sell", "s":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown order type %q", s)
	}
}

// Transaction is a single buy or sell of a security. Transactions are immutable once
// ingested.
type Transaction struct {
	ID        int       `json:"transactionId"`
	TradeDate date.Date `json:"tradeDate"`
	Security  string    `json:"security"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	OrderType OrderType `json:"orderType"`
	// Net is the cash amount of the transaction, signed like NetAmount. When nil it
	// defaults to ±Quantity*Price.
	Net *float64 `json:"netAmount,omitempty"`
}

// NetAmount returns the signed cash amount: positive for buys, negative for sells.
func (t Transaction) NetAmount() float64 {
	amount := math.Abs(t.Quantity) * t.Price
	if t.Net != nil {
		amount = math.Abs(*t.Net)
	}
	if t.OrderType == Sell {
		return -amount
	}
	return amount
}

// Shares returns the absolute quantity traded.
func (t Transaction) Shares() float64 { return math.Abs(t.Quantity) }

// Symbol returns the normalized ticker of the security.
func (t Transaction) Symbol() string { return NormalizeSymbol(t.Security) }

// NormalizeSymbol upper-cases a ticker and removes dashes, so that "brk-b" and
// "BRKB" designate the same security.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
}

// SortTransactions sorts transactions by trade date, then by ID, in place.
func SortTransactions(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		if c := a.TradeDate.Compare(b.TradeDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Validate checks that the transaction can be ingested.
func (t Transaction) Validate() error {
	switch {
	case t.TradeDate.IsZero():
		return fmt.Errorf("transaction %d: missing trade date", t.ID)
	case NormalizeSymbol(t.Security) == "":
		return fmt.Errorf("transaction %d: missing security", t.ID)
	case t.OrderType != Buy && t.OrderType != Sell:
		return fmt.Errorf("transaction %d: invalid order type %q", t.ID, t.OrderType)
	case math.IsNaN(t.Quantity) || math.IsNaN(t.Price):
		return fmt.Errorf("transaction %d: invalid quantity or price", t.ID)
	}
	return nil
}
