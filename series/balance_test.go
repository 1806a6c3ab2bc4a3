package series

import (
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/google/go-cmp/cmp"
)

func tx(id int, on string, side fundterm.OrderType, security string, qty, price float64) fundterm.Transaction {
	return fundterm.Transaction{ID: id, TradeDate: date.MustParse(on), Security: security, Quantity: qty, Price: price, OrderType: side}
}

func TestBuildFilteredBalanceFallsBackToTransactionPrice(t *testing.T) {
	got := BuildFilteredBalance([]fundterm.Transaction{tx(0, "2023-03-01", fundterm.Buy, "AAPL", 10, 100)}, fundterm.PriceTable{}, nil)
	last, ok := Last(got)
	if !ok || last.Value != 1000 {
		t.Fatalf("BuildFilteredBalance() = %v, want final value 1000", got)
	}
	if !got[0].Synthetic || got[0].Value != 0 || got[0].Date != date.New(2023, 2, 28) {
		t.Errorf("BuildFilteredBalance()[0] = %+v, want synthetic zero the day before", got[0])
	}
}

func TestBuildFilteredBalanceEmpty(t *testing.T) {
	if got := BuildFilteredBalance(nil, fundterm.PriceTable{}, nil); len(got) != 0 {
		t.Errorf("BuildFilteredBalance(nil) = %v, want empty", got)
	}
}

func TestBuildFilteredBalance(t *testing.T) {
	prices := fundterm.PriceTable{}
	prices.Set("AAPL", date.New(2023, 1, 5), 110)
	prices.Set("AAPL", date.New(2023, 1, 20), 120)
	txs := []fundterm.Transaction{
		tx(0, "2023-01-03", fundterm.Buy, "AAPL", 10, 100),
		tx(1, "2023-01-10", fundterm.Buy, "MSFT", 1, 250),
		tx(2, "2023-01-15", fundterm.Sell, "AAPL", 5, 115),
	}
	want := []Point{
		{Date: date.New(2023, 1, 2), Synthetic: true},
		pt("2023-01-03", 1000),      // transaction price
		pt("2023-01-05", 1100),      // quote
		pt("2023-01-10", 1000+250),  // AAPL back to its transaction price
		pt("2023-01-15", 5*115+250), // sell price becomes the fallback
		pt("2023-01-20", 5*120+250),
	}
	got := BuildFilteredBalance(txs, prices, nil)
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("BuildFilteredBalance() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFilteredBalanceQuoteDoesNotMoveFallback(t *testing.T) {
	prices := fundterm.PriceTable{}
	prices.Set("AAPL", date.New(2023, 1, 5), 150)
	txs := []fundterm.Transaction{
		tx(0, "2023-01-03", fundterm.Buy, "AAPL", 10, 100),
		tx(1, "2023-01-10", fundterm.Buy, "MSFT", 1, 250),
	}
	want := []Point{
		{Date: date.New(2023, 1, 2), Synthetic: true},
		pt("2023-01-03", 1000),
		pt("2023-01-05", 1500),
		pt("2023-01-10", 1250),
	}
	got := BuildFilteredBalance(txs, prices, nil)
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("BuildFilteredBalance() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFilteredBalanceWithSplit(t *testing.T) {
	// quotes are split adjusted: 100 post split means 400 before.
	prices := fundterm.PriceTable{}
	prices.Set("NVDA", date.New(2023, 1, 5), 100)
	prices.Set("NVDA", date.New(2023, 6, 5), 110)
	splits := []fundterm.SplitEvent{{Security: "NVDA", EffectiveDate: date.New(2023, 6, 1), Ratio: 4}}
	txs := []fundterm.Transaction{tx(0, "2023-01-03", fundterm.Buy, "NVDA", 10, 390)}

	got := BuildFilteredBalance(txs, prices, splits)
	want := []Point{
		{Date: date.New(2023, 1, 2), Synthetic: true},
		pt("2023-01-03", 3900),
		pt("2023-01-05", 4000),
		pt("2023-06-01", 4000), // 40 shares at the fallback 400/4
		pt("2023-06-05", 4400),
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("BuildFilteredBalance() mismatch (-want +got):\n%s", diff)
	}
}
