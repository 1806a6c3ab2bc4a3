package series

import (
	"math"
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/google/go-cmp/cmp"
)

func TestBuildPerformance(t *testing.T) {
	balance := []Point{syn("2023-01-02", 0), pt("2023-01-03", 1000), pt("2023-01-04", 1100), pt("2023-01-05", 2200)}
	flows := map[date.Date]float64{
		date.New(2023, 1, 3): 1000,
		date.New(2023, 1, 5): 1000, // deposit, 1100+1000 -> 2200 is +4.76%
	}
	got := BuildPerformance(balance, flows)
	want := []Point{syn("2023-01-02", 0), pt("2023-01-03", 0), pt("2023-01-04", 10), pt("2023-01-05", (1.1*2200/2100-1)*100)}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("BuildPerformance() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRolling(t *testing.T) {
	perf := []Point{pt("2022-01-01", 0), pt("2022-06-01", 5), pt("2023-01-01", 10), pt("2023-06-01", 21)}
	got := BuildRolling(perf)
	want := []Point{pt("2023-01-01", 10), pt("2023-06-01", (1.21/1.05-1)*100)}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("BuildRolling() mismatch (-want +got):\n%s", diff)
	}
}

func TestCAGRAndPeriodReturns(t *testing.T) {
	perf := []Point{pt("2021-01-01", 0), pt("2021-12-31", 10), pt("2022-12-31", 21)}
	if got := CAGR(perf); math.Abs(got-10) > 0.1 {
		t.Errorf("CAGR() = %v, want ~10", got)
	}
	annual := PeriodReturns(perf, date.Yearly)
	if want := []Point{pt("2021-01-01", 10), pt("2022-01-01", 10)}; !cmp.Equal(annual, want, approx) {
		t.Errorf("PeriodReturns(yearly) = %v, want 10%% each year", annual)
	}
	quarterly := PeriodReturns(perf, date.Quarterly)
	want := []Point{pt("2021-01-01", 0), pt("2021-10-01", 10), pt("2022-10-01", 10)}
	if diff := cmp.Diff(want, quarterly, approx); diff != "" {
		t.Errorf("PeriodReturns(quarterly) mismatch (-want +got):\n%s", diff)
	}
	if !math.IsNaN(CAGR(perf[:1])) {
		t.Errorf("CAGR(single point) is not NaN")
	}
}

func TestBuildComposition(t *testing.T) {
	meta := fundterm.Metadata{
		"AAPL": {Sector: "Technology"},
		"MSFT": {Sector: "Technology"},
		"VOO":  {AssetClass: "etf"},
	}
	txs := []fundterm.Transaction{
		tx(0, "2023-01-03", fundterm.Buy, "AAPL", 10, 100),
		tx(1, "2023-01-03", fundterm.Buy, "MSFT", 1, 500),
		tx(2, "2023-01-04", fundterm.Buy, "VOO", 1, 500),
	}
	c := BuildComposition(txs, fundterm.PriceTable{}, nil, meta, fundterm.BySector, CompositionFilter{})
	if want := []string{"Technology", fundterm.Other}; !cmp.Equal(c.Keys, want) {
		t.Errorf("Keys = %v, want %v", c.Keys, want)
	}
	if w := c.Weights(); math.Abs(w["Technology"]-75) > 1e-9 {
		t.Errorf("Weights()[Technology] = %v, want 75", w["Technology"])
	}

	stocks := BuildComposition(txs, fundterm.PriceTable{}, nil, meta, fundterm.BySecurity, CompositionFilter{AssetClass: "stock"})
	if want := []string{"AAPL", "MSFT"}; !cmp.Equal(stocks.Keys, want) {
		t.Errorf("Keys(stock) = %v, want %v", stocks.Keys, want)
	}

	hhi := BuildConcentration(c)
	if last, _ := Last(hhi); math.Abs(last.Value-(0.75*0.75+0.25*0.25)*10000) > 1e-6 {
		t.Errorf("BuildConcentration() last = %v", last.Value)
	}
	if got := EffectiveHoldings(5000); got != 2 {
		t.Errorf("EffectiveHoldings(5000) = %v, want 2", got)
	}
}
