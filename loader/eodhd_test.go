package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/google/go-cmp/cmp"
)

func TestParseSplit(t *testing.T) {
	testCases := []struct {
		split   string
		want    float64
		wantErr bool
	}{
		{split: "4.000000/1.000000", want: 4},
		{split: "1/2", want: 0.5},
		{split: "3:1", wantErr: true},
		{split: "x/1", wantErr: true},
		{split: "1/0", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.split, func(t *testing.T) {
			got, err := parseSplit(tc.split)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseSplit(%q) error = %v, wantErr %v", tc.split, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("parseSplit(%q) = %v, want %v", tc.split, got, tc.want)
			}
		})
	}
}

func TestEODHD(t *testing.T) {
	var tokens []string
	mux := http.NewServeMux()
	mux.HandleFunc("/eod/AAPL.US", func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.URL.Query().Get("api_token"))
		w.Write([]byte(`[{"date": "2023-01-10", "open": 108, "close": 110}, {"date": "2023-01-11", "open": 111, "close": 112}]`))
	})
	mux.HandleFunc("/splits/AAPL.US", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date": "2020-08-31", "split": "4.000000/1.000000"}]`))
	})
	mux.HandleFunc("/splits/BRK-B.US", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ledger := &fakeSource{txs: []fundterm.Transaction{
		{TradeDate: date.New(2023, 1, 3), Security: "AAPL", Quantity: 10, Price: 100, OrderType: fundterm.Buy},
	}}
	e := NewEODHD("secret", ledger, func() []string { return []string{"AAPL", "BRKB"} })
	e.http.BaseURL = srv.URL
	e.Tickers["BRKB"] = "BRK-B.US"
	ctx := context.Background()

	prices, err := e.FetchHistoricalPrices(ctx, "AAPL")
	if err != nil {
		t.Fatalf("FetchHistoricalPrices() error = %v", err)
	}
	if p, ok := prices.Price("AAPL", date.New(2023, 1, 11)); !ok || p != 112 {
		t.Errorf("close on 2023-01-11 = %v, %v, want 112", p, ok)
	}
	if len(tokens) != 1 || tokens[0] != "secret" {
		t.Errorf("api tokens = %q", tokens)
	}
	if _, err := e.FetchHistoricalPrices(ctx, "MSFT"); err == nil {
		t.Error("FetchHistoricalPrices(MSFT) returned no error")
	}

	splits, err := e.FetchSplits(ctx)
	if err != nil {
		t.Fatalf("FetchSplits() error = %v", err)
	}
	want := []fundterm.SplitEvent{{Security: "AAPL", EffectiveDate: date.New(2020, 8, 31), Ratio: 4}}
	if diff := cmp.Diff(want, splits); diff != "" {
		t.Errorf("FetchSplits() mismatch (-want +got):\n%s", diff)
	}
	if _, err := e.FetchSplits(ctx); !errors.Is(err, ErrNotModified) {
		t.Errorf("second FetchSplits() error = %v, want ErrNotModified", err)
	}

	txs, err := e.FetchTransactions(ctx)
	if err != nil || len(txs) != 1 {
		t.Errorf("FetchTransactions() = %v, %v, want the ledger", txs, err)
	}
	if _, err := e.FetchMetadata(ctx); !errors.Is(err, ErrNotModified) {
		t.Errorf("FetchMetadata() error = %v, want ErrNotModified", err)
	}
}
