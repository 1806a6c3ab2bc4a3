package fundterm

import (
	"slices"
	"testing"

	"github.com/etnz/fundterm/date"
	"github.com/shopspring/decimal"
)

func decimalOf(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestParseQuery(t *testing.T) {
	q := ParseQuery("type:sell s:apple min:100 etf VOO brk-b 42")
	if q.OrderType != Sell {
		t.Errorf("OrderType = %q, want sell", q.OrderType)
	}
	if q.Security != "apple" {
		t.Errorf("Security = %q, want apple", q.Security)
	}
	if q.Min != 100 {
		t.Errorf("Min = %v, want 100", q.Min)
	}
	if q.AssetClass != AssetETF {
		t.Errorf("AssetClass = %q, want etf", q.AssetClass)
	}
	if got, want := q.Tickers(), []string{"VOO", "BRKB"}; !slices.Equal(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
	if ParseQuery("  ").IsZero() != true {
		t.Errorf("ParseQuery(blank).IsZero() = false")
	}
}

func TestFilterTransactions(t *testing.T) {
	meta := Metadata{"VOO": {AssetClass: "etf"}, "AAPL": {Name: "Apple Inc"}}
	txs := []Transaction{
		tx(0, "2022-05-01", Buy, "VOO", 1, 350),
		tx(1, "2023-01-03", Buy, "AAPL", 10, 125),
		tx(2, "2023-06-01", Sell, "AAPL", 2, 180),
		tx(3, "2023-07-01", Buy, "BRK-B", 1, 320),
	}
	testCases := []struct {
		name  string
		query string
		rng   date.Range
		want  []int
	}{
		{"all", "", date.Range{}, []int{0, 1, 2, 3}},
		{"ticker", "aapl", date.Range{}, []int{1, 2}},
		{"dashed ticker", "brkb", date.Range{}, []int{3}},
		{"name", "apple", date.Range{}, []int{1, 2}},
		{"side", "type:sell", date.Range{}, []int{2}},
		{"etf", "etf", date.Range{}, []int{0}},
		{"stock", "stock", date.Range{}, []int{1, 2, 3}},
		{"range", "", date.Since(date.New(2023, 6, 1)), []int{2, 3}},
		{"max", "max:400", date.Range{}, []int{0, 2, 3}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []int
			for _, tx := range FilterTransactions(txs, ParseQuery(tc.query), tc.rng, meta) {
				got = append(got, tx.ID)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("FilterTransactions(%q, %v) = %v, want %v", tc.query, tc.rng, got, tc.want)
			}
		})
	}
}
