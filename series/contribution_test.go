package series

import (
	"errors"
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/google/go-cmp/cmp"
)

func TestBuildContribution(t *testing.T) {
	txs := []fundterm.Transaction{
		tx(2, "2023-01-10", fundterm.Sell, "AAPL", 2, 110),
		tx(0, "2023-01-03", fundterm.Buy, "AAPL", 10, 100),
		tx(1, "2023-01-03", fundterm.Buy, "MSFT", 1, 250),
		tx(3, "2023-01-11", fundterm.Buy, "MSFT", 1, 260),
		tx(4, "2023-01-11", fundterm.Sell, "AAPL", 1, 120),
	}
	opts := ContributionOptions{Today: date.New(2023, 1, 15)}
	want := []ContributionPoint{
		{TradeDate: date.New(2023, 1, 3), Amount: 1250, NetAmount: 1250, OrderType: "buy", BuyVolume: 1250},
		{TradeDate: date.New(2023, 1, 9), Amount: 1250, OrderType: Padding},
		{TradeDate: date.New(2023, 1, 10), Amount: 1030, NetAmount: -220, OrderType: "sell", SellVolume: 220},
		{TradeDate: date.New(2023, 1, 11), Amount: 1170, NetAmount: 140, OrderType: Mixed, BuyVolume: 260, SellVolume: 120},
		{TradeDate: date.New(2023, 1, 15), Amount: 1170, OrderType: Padding},
	}
	got, err := BuildContribution(txs, fundterm.FxRates{}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("BuildContribution() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildContributionOptions(t *testing.T) {
	txs := []fundterm.Transaction{tx(0, "2023-01-03", fundterm.Buy, "AAPL", 10, 100)}

	got, err := BuildContribution(txs, testFx(), ContributionOptions{Currency: "EUR", NoPadding: true, SyntheticStart: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []ContributionPoint{
		{TradeDate: date.New(2023, 1, 2), OrderType: Padding, Synthetic: true},
		{TradeDate: date.New(2023, 1, 3), Amount: 500, NetAmount: 500, OrderType: "buy", BuyVolume: 500},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("BuildContribution(EUR) mismatch (-want +got):\n%s", diff)
	}

	padded, _ := BuildContribution(txs, testFx(), ContributionOptions{PadTo: date.New(2030, 1, 1), Today: date.New(2023, 2, 1)})
	if last := padded[len(padded)-1]; last.TradeDate != date.New(2023, 2, 1) {
		t.Errorf("BuildContribution(PadTo after today) ends on %v, want today", last.TradeDate)
	}
	if got, err := BuildContribution(nil, testFx(), ContributionOptions{}); got != nil || err != nil {
		t.Errorf("BuildContribution(nil) = %v, %v, want nil", got, err)
	}
}

func TestBuildContributionUnknownCurrency(t *testing.T) {
	txs := []fundterm.Transaction{tx(0, "2023-01-03", fundterm.Buy, "AAPL", 10, 100)}
	got, err := BuildContribution(txs, testFx(), ContributionOptions{Currency: "JPY", NoPadding: true})
	if !errors.Is(err, fundterm.ErrUnknownCurrency) {
		t.Errorf("BuildContribution(JPY) error = %v, want ErrUnknownCurrency", err)
	}
	if len(got) != 1 || got[0].Amount != 1000 {
		t.Errorf("BuildContribution(JPY) = %v, want the base currency amounts", got)
	}
}

func TestBuilderContributionExplicitCurrencyWins(t *testing.T) {
	b := NewBuilder(newTestStore(t), fixedCurrency("EUR"))
	txs := []fundterm.Transaction{tx(0, "2023-01-03", fundterm.Buy, "AAPL", 10, 100)}

	session, _ := b.Contribution(txs, ContributionOptions{NoPadding: true})
	explicit, _ := b.Contribution(txs, ContributionOptions{Currency: "GBP", NoPadding: true})
	if session[0].Amount != 500 {
		t.Errorf("Contribution(session EUR) = %v, want 500", session[0].Amount)
	}
	if explicit[0].Amount != 250 {
		t.Errorf("Contribution(explicit GBP) = %v, want 250", explicit[0].Amount)
	}
}
