package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/google/go-cmp/cmp"
)

func newService(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("2023-01-03,buy,AAPL,10,100\n2023-01-05,buy,BRK-B,1,300\n"))
	})
	mux.HandleFunc("/prices/AAPL", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"data": [{"date": "2023-01-10", "close": 110}, {"date": "2023-01-11", "close": 112}]}`))
	})
	mux.HandleFunc("/prices/BRKB", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"data": [["2023-01-10", 310]]}`))
	})
	mux.HandleFunc("/fx", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"result": {"base": "USD", "rates": {"EUR": 0.92}, "history": {"EUR": {"2023-01-03": 0.94}}}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := newService(t, &hits)
	h := NewHTTP(srv.URL+"/", WithRateLimit(100, 10))
	h.PricesPath = "$.data"
	h.FxPath = "$.result"

	store := fundterm.NewStore()
	if err := Refresh(context.Background(), store, h, nil); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if got, want := store.Securities(), []string{"AAPL", "BRKB"}; !cmp.Equal(got, want) {
		t.Errorf("Securities() = %v, want %v", got, want)
	}
	if p, ok := store.Prices().Price("AAPL", date.New(2023, 1, 11)); !ok || p != 112 {
		t.Errorf("AAPL price = %v, %v, want 112", p, ok)
	}
	if p, ok := store.Prices().Price("BRKB", date.New(2023, 1, 10)); !ok || p != 310 {
		t.Errorf("BRKB price = %v, %v, want 310", p, ok)
	}
	if r, ok := store.Fx().Rate("EUR", date.New(2023, 1, 3)); !ok || r != 0.94 {
		t.Errorf("Rate(EUR) = %v, %v, want 0.94", r, ok)
	}

	// the same payloads are not modified
	if _, err := h.FetchFxRates(context.Background()); !errors.Is(err, ErrNotModified) {
		t.Errorf("FetchFxRates() = %v, want ErrNotModified", err)
	}
}

func TestHTTPErrors(t *testing.T) {
	var hits atomic.Int32
	srv := newService(t, &hits)
	h := NewHTTP(srv.URL)

	if _, err := h.FetchHistoricalPrices(context.Background(), "MSFT"); err == nil {
		t.Error("FetchHistoricalPrices(MSFT) returned no error for a 404")
	}
	h.PricesPath = "$.missing"
	if _, err := h.FetchHistoricalPrices(context.Background(), "AAPL"); err == nil {
		t.Error("FetchHistoricalPrices(AAPL) returned no error for a missing path")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.FetchTransactions(ctx); err == nil {
		t.Error("FetchTransactions() with a cancelled context returned no error")
	}
}

func TestDailyCache(t *testing.T) {
	var hits atomic.Int32
	srv := newService(t, &hits)
	dir := t.TempDir()

	for i := 0; i < 2; i++ {
		// a new source each time: only the disk cache is shared
		h := NewHTTP(srv.URL, WithDailyCache(dir))
		txs, err := h.FetchTransactions(context.Background())
		if err != nil || len(txs) != 2 {
			t.Fatalf("FetchTransactions() = %v, %v", txs, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("service was hit %d times, want 1", got)
	}
}

func TestAddQuotes(t *testing.T) {
	testCases := []struct {
		name    string
		in      any
		wantErr bool
	}{
		{"object", map[string]any{"2023-01-10": 1.5}, false},
		{"pairs", []any{[]any{"2023-01-10", 1.5}}, false},
		{"records with price", []any{map[string]any{"date": "2023-01-10", "price": 1.5}}, false},
		{"bad date", map[string]any{"Jan 10": 1.5}, true},
		{"bad price", []any{[]any{"2023-01-10", "1.5"}}, true},
		{"scalar", 1.5, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prices := fundterm.PriceTable{}
			err := addQuotes(prices, "X", tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("addQuotes() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr {
				if p, ok := prices.Price("X", date.New(2023, 1, 10)); !ok || p != 1.5 {
					t.Errorf("price = %v, %v, want 1.5", p, ok)
				}
			}
		})
	}
}
