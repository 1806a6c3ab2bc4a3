package series

import (
	"errors"
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/google/go-cmp/cmp"
)

func testFx() fundterm.FxRates {
	fx := fundterm.NewFxRates("USD", map[string]float64{"EUR": 0.5, "GBP": 0.25})
	return fx
}

func TestNormalize(t *testing.T) {
	fx := testFx()
	points := []Point{pt("2023-01-01", 100), pt("2023-01-02", 200)}

	eur, err := Normalize(NewRaw(points), "eur", fx)
	if err != nil {
		t.Fatal(err)
	}
	if eur.Kind != Normalized || eur.Currency != "EUR" {
		t.Errorf("Normalize(raw) tagged %v %s, want normalized EUR", eur.Kind, eur.Currency)
	}
	if diff := cmp.Diff([]Point{pt("2023-01-01", 50), pt("2023-01-02", 100)}, eur.Points, approx); diff != "" {
		t.Errorf("Normalize(raw) mismatch (-want +got):\n%s", diff)
	}

	// normalizing again is a no-op: no double conversion.
	again, _ := Normalize(eur, "EUR", fx)
	if diff := cmp.Diff(eur.Points, again.Points); diff != "" {
		t.Errorf("Normalize(normalized, same currency) converted again:\n%s", diff)
	}

	gbp, _ := Normalize(eur, "GBP", fx)
	if diff := cmp.Diff([]Point{pt("2023-01-01", 25), pt("2023-01-02", 50)}, gbp.Points, approx); diff != "" {
		t.Errorf("Normalize(EUR to GBP) mismatch (-want +got):\n%s", diff)
	}

	usd, _ := Normalize(NewRaw(points), "USD", fx)
	if diff := cmp.Diff(points, usd.Points); diff != "" {
		t.Errorf("Normalize(raw, USD) is not the identity:\n%s", diff)
	}

	if _, err := Normalize(NewRaw(points), "JPY", fx); !errors.Is(err, fundterm.ErrUnknownCurrency) {
		t.Errorf("Normalize(JPY) error = %v, want ErrUnknownCurrency", err)
	}
	if _, err := Normalize(NewRaw(points), "JPY", fx); errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Normalize(raw, JPY) error = %v, want no ErrCurrencyMismatch", err)
	}
	chf := Series{Kind: Normalized, Currency: "CHF", Points: points}
	if _, err := Normalize(chf, "EUR", fx); !errors.Is(err, ErrCurrencyMismatch) || !errors.Is(err, fundterm.ErrUnknownCurrency) {
		t.Errorf("Normalize(CHF to EUR) error = %v, want ErrCurrencyMismatch and ErrUnknownCurrency", err)
	}
}

type fixedCurrency string

func (c fixedCurrency) Currency() string { return string(c) }

func newTestStore(t *testing.T) *fundterm.Store {
	t.Helper()
	s := fundterm.NewStore()
	if err := s.SetTransactions([]fundterm.Transaction{
		tx(0, "2023-01-03", fundterm.Buy, "AAPL", 10, 100),
		tx(1, "2023-02-01", fundterm.Buy, "VOO", 1, 400),
	}); err != nil {
		t.Fatal(err)
	}
	s.SetFx(testFx())
	return s
}

func TestBuilderSingleConversion(t *testing.T) {
	store := newTestStore(t)
	b := NewBuilder(store, fixedCurrency("EUR"))
	b.Today = func() date.Date { return date.New(2023, 3, 1) }

	whole, err := b.Balance(View{})
	if err != nil {
		t.Fatal(err)
	}
	last, _ := Last(whole.Points)
	if whole.Currency != "EUR" || last.Value != 700 {
		t.Errorf("Balance(whole) = %v %s, want 700 EUR", last.Value, whole.Currency)
	}
	cached, _ := b.Balance(View{})
	if last2, _ := Last(cached.Points); last2.Value != 700 {
		t.Errorf("Balance(whole) second call = %v, want 700 (no reconversion)", last2.Value)
	}

	filtered, err := b.Balance(View{Filtered: store.Transactions()[:1], FilterActive: true})
	if err != nil {
		t.Fatal(err)
	}
	if last, _ := Last(filtered.Points); last.Value != 500 {
		t.Errorf("Balance(filtered) = %v, want 500", last.Value)
	}

	usd, _ := b.Balance(View{Currency: "USD"})
	if last, _ := Last(usd.Points); last.Value != 1400 {
		t.Errorf("Balance(explicit USD) = %v, want 1400", last.Value)
	}
}

func TestBuilderCacheFollowsStoreVersion(t *testing.T) {
	store := newTestStore(t)
	b := NewBuilder(store, nil)
	before, _ := b.Balance(View{})
	if err := store.SetTransactions(store.Transactions()[:1]); err != nil {
		t.Fatal(err)
	}
	after, _ := b.Balance(View{})
	l1, _ := Last(before.Points)
	l2, _ := Last(after.Points)
	if l1.Value == l2.Value {
		t.Errorf("Balance() after store change = %v, want a rebuilt series", l2.Value)
	}
}
