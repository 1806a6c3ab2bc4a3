package fundterm

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/etnz/fundterm/date"
)

// Query is a ledger search parsed from free text.
//
// Recognized tokens:
//
//	type:buy, type:sell          order side
//	security:X, s:X              security name contains X
//	min:N, max:N                 bounds on the absolute net amount
//	asset:etf, class:stock       asset class
//	etf, stock                   asset class shorthand
//
// Any other token is a search term matched against the security. Terms that look
// like tickers are also reported by Tickers.
type Query struct {
	OrderType  OrderType
	Security   string
	Min, Max   float64 // NaN when unset
	AssetClass string
	Terms      []string
}

// ParseQuery parses a free-text ledger search.
func ParseQuery(text string) Query {
	q := Query{Min: math.NaN(), Max: math.NaN()}
	for _, token := range strings.Fields(text) {
		lower := strings.ToLower(token)
		key, value, hasValue := strings.Cut(lower, ":")
		if hasValue && value != "" {
			switch key {
			case "type":
				if t, err := ParseOrderType(value); err == nil {
					q.OrderType = t
					continue
				}
			case "security", "s":
				q.Security = value
				continue
			case "min", "max":
				if n, err := parseNumber(value); err == nil {
					if key == "min" {
						q.Min = n
					} else {
						q.Max = n
					}
					continue
				}
			case "asset", "class":
				q.AssetClass = value
				continue
			}
		}
		if lower == AssetETF || lower == AssetStock {
			q.AssetClass = lower
			continue
		}
		q.Terms = append(q.Terms, token)
	}
	return q
}

// IsZero reports whether the query matches every transaction.
func (q Query) IsZero() bool {
	return q.OrderType == "" && q.Security == "" && math.IsNaN(q.Min) && math.IsNaN(q.Max) &&
		q.AssetClass == "" && len(q.Terms) == 0
}

// Tickers returns the normalized tickers among the search terms.
func (q Query) Tickers() []string {
	var res []string
	for _, term := range q.Terms {
		if t, ok := normalizeTicker(term); ok {
			res = append(res, t)
		}
	}
	return res
}

// normalizeTicker keeps letters, digits and dashes. A ticker has at least one letter.
func normalizeTicker(term string) (string, bool) {
	hasLetter := false
	for _, r := range term {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r), r == '-':
		default:
			return "", false
		}
	}
	if !hasLetter {
		return "", false
	}
	return NormalizeSymbol(term), true
}

// Match reports whether tx satisfies the query.
func (q Query) Match(tx Transaction, meta Metadata) bool {
	if q.OrderType != "" && tx.OrderType != q.OrderType {
		return false
	}
	if q.Security != "" && !strings.Contains(strings.ToLower(tx.Security), q.Security) {
		return false
	}
	amount := math.Abs(tx.NetAmount())
	if !math.IsNaN(q.Min) && amount < q.Min {
		return false
	}
	if !math.IsNaN(q.Max) && amount > q.Max {
		return false
	}
	if q.AssetClass != "" && meta.AssetClass(tx.Security) != q.AssetClass {
		return false
	}
	if len(q.Terms) == 0 {
		return true
	}
	symbol := tx.Symbol()
	name := strings.ToLower(tx.Security + " " + meta.Info(tx.Security).Name)
	for _, term := range q.Terms {
		if NormalizeSymbol(term) == symbol || strings.Contains(name, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// FilterTransactions returns the transactions matching q and within rng.
func FilterTransactions(txs []Transaction, q Query, rng date.Range, meta Metadata) []Transaction {
	var res []Transaction
	for _, tx := range txs {
		if rng.Contains(tx.TradeDate) && q.Match(tx, meta) {
			res = append(res, tx)
		}
	}
	return res
}

func (q Query) String() string {
	var parts []string
	if q.OrderType != "" {
		parts = append(parts, "type:"+string(q.OrderType))
	}
	if q.Security != "" {
		parts = append(parts, "security:"+q.Security)
	}
	if !math.IsNaN(q.Min) {
		parts = append(parts, "min:"+strconv.FormatFloat(q.Min, 'f', -1, 64))
	}
	if !math.IsNaN(q.Max) {
		parts = append(parts, "max:"+strconv.FormatFloat(q.Max, 'f', -1, 64))
	}
	if q.AssetClass != "" {
		parts = append(parts, "asset:"+q.AssetClass)
	}
	parts = append(parts, q.Terms...)
	return strings.Join(parts, " ")
}
