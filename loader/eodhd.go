package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/shopspring/decimal"
)

// DefaultEODHDURL is the base URL of the EODHD API.
const DefaultEODHDURL = "https://eodhd.com/api"

// EODHD is a market data source on the eodhd.com API.
//
// The transactions, fx rates and metadata come from Ledger. Quotes and splits of
// every security returned by Securities come from EODHD, where a security is the
// ticker "<security>.<Exchange>" unless Tickers maps it explicitly.
type EODHD struct {
	Ledger     Source
	APIKey     string
	Exchange   string            // defaults to "US"
	Tickers    map[string]string // security to EODHD ticker, like "BRKB": "BRK-B.US"
	Securities func() []string

	http *HTTP

	mu     sync.Mutex
	splits map[string][]fundterm.SplitEvent // by security, "" for the ledger
}

// NewEODHD returns an EODHD source. The options configure the HTTP client, and
// WithDailyCache is recommended: EODHD updates end of day data once a day.
func NewEODHD(apiKey string, ledger Source, securities func() []string, opts ...Option) *EODHD {
	return &EODHD{
		Ledger:     ledger,
		APIKey:     apiKey,
		Exchange:   "US",
		Tickers:    map[string]string{},
		Securities: securities,
		http:       NewHTTP(DefaultEODHDURL, opts...),
	}
}

// ticker returns the EODHD ticker of security.
func (e *EODHD) ticker(security string) string {
	if t, ok := e.Tickers[security]; ok {
		return t
	}
	if strings.Contains(security, ".") {
		return security
	}
	exchange := e.Exchange
	if exchange == "" {
		exchange = "US"
	}
	return security + "." + exchange
}

// get decodes the JSON payload of endpoint for security into v.
func (e *EODHD) get(ctx context.Context, endpoint, security string, v any) error {
	query := url.Values{"fmt": {"json"}, "api_token": {e.APIKey}}
	body, _, err := e.http.get(ctx, endpoint+"/"+url.PathEscape(e.ticker(security))+"?"+query.Encode())
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (e *EODHD) FetchTransactions(ctx context.Context) ([]fundterm.Transaction, error) {
	return e.Ledger.FetchTransactions(ctx)
}

func (e *EODHD) FetchFxRates(ctx context.Context) (fundterm.FxRates, error) {
	return e.Ledger.FetchFxRates(ctx)
}

// FetchHistoricalPrices fetches the daily close prices of security.
func (e *EODHD) FetchHistoricalPrices(ctx context.Context, security string) (fundterm.PriceTable, error) {
	// [{"date": "2024-02-13", "open": 675.066, "high": 684.219, "low": 648.659, "close": 668.445, ...}]
	var quotes []any
	if err := e.get(ctx, "eod", security, &quotes); err != nil {
		return nil, err
	}
	prices := fundterm.PriceTable{}
	if err := addQuotes(prices, security, quotes); err != nil {
		return nil, fmt.Errorf("prices of %s: %w", security, err)
	}
	return prices, nil
}

// FetchSplits returns the splits of the ledger, if any, and of every security.
// Unchanged payloads reuse the splits of the previous call.
func (e *EODHD) FetchSplits(ctx context.Context) ([]fundterm.SplitEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.splits == nil {
		e.splits = map[string][]fundterm.SplitEvent{}
	}
	changed := false
	update := func(key string, s []fundterm.SplitEvent, err error) error {
		switch {
		case errors.Is(err, ErrNotModified):
			return nil
		case err != nil:
			return err
		}
		e.splits[key] = s
		changed = true
		return nil
	}
	if ref, ok := e.Ledger.(ReferenceSource); ok {
		s, err := ref.FetchSplits(ctx)
		if err := update("", s, err); err != nil {
			return nil, err
		}
	}
	for _, security := range e.Securities() {
		s, err := e.fetchSplits(ctx, security)
		if err := update(security, s, err); err != nil {
			return nil, err
		}
	}
	if !changed {
		return nil, ErrNotModified
	}
	var splits []fundterm.SplitEvent
	for _, key := range slices.Sorted(maps.Keys(e.splits)) {
		splits = append(splits, e.splits[key]...)
	}
	return splits, nil
}

func (e *EODHD) fetchSplits(ctx context.Context, security string) ([]fundterm.SplitEvent, error) {
	// [{"date": "2020-08-31", "split": "4.000000/1.000000"}]
	var content []struct {
		Date  date.Date `json:"date"`
		Split string    `json:"split"`
	}
	if err := e.get(ctx, "splits", security, &content); err != nil {
		return nil, err
	}
	var splits []fundterm.SplitEvent
	for _, s := range content {
		ratio, err := parseSplit(s.Split)
		if err != nil {
			return nil, fmt.Errorf("splits of %s: %w", security, err)
		}
		splits = append(splits, fundterm.SplitEvent{Security: security, EffectiveDate: s.Date, Ratio: ratio})
	}
	return splits, nil
}

// parseSplit parses a "<new>/<old>" split ratio.
func parseSplit(split string) (float64, error) {
	num, den, ok := strings.Cut(split, "/")
	if !ok {
		return 0, fmt.Errorf("invalid split format %q", split)
	}
	n, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return 0, fmt.Errorf("invalid numerator in split %q: %w", split, err)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(den))
	if err != nil {
		return 0, fmt.Errorf("invalid denominator in split %q: %w", split, err)
	}
	if !n.IsPositive() || !d.IsPositive() {
		return 0, fmt.Errorf("invalid split ratio %q", split)
	}
	return n.Div(d).InexactFloat64(), nil
}

// FetchMetadata returns the metadata of the ledger.
func (e *EODHD) FetchMetadata(ctx context.Context) (fundterm.Metadata, error) {
	if ref, ok := e.Ledger.(ReferenceSource); ok {
		return ref.FetchMetadata(ctx)
	}
	return nil, ErrNotModified
}
